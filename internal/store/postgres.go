package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/lib/pq"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/profile"
)

// PostgresStore persists profile bundles in Postgres behind a circuit
// breaker, retrying transient failures with backoff.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
	cb     *gobreaker.CircuitBreaker
}

func NewPostgresStore(config StoreConfig, logger *zap.Logger, meter metric.Meter) (*PostgresStore, error) {
	if meter != nil {
		InitStoreMetrics(meter)
	}
	pgLogger := logger.Named("postgres")

	connStr, ok := config.ExtraDetails["conn_str"].(string)
	if !ok {
		return nil, fmt.Errorf("conn_str is required for Postgres store")
	}
	pgLogger.Info("initializing Postgres store")

	dbConn, err := sql.Open("postgres", connStr)
	if err != nil {
		pgLogger.Error("failed to open Postgres connection", zap.Error(err))
		return nil, fmt.Errorf("failed to open Postgres connection: %w", err)
	}

	if err := dbConn.Ping(); err != nil {
		pgLogger.Error("failed to ping Postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	// Automatically create tables if they do not exist
	if _, err := dbConn.Exec(profile.Schema); err != nil {
		pgLogger.Error("failed to create initial tables", zap.Error(err))
		return nil, fmt.Errorf("failed to create initial tables: %w", err)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "PostgresDB",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
	})

	pgLogger.Info("Postgres store initialized successfully")
	return &PostgresStore{
		db:     dbConn,
		logger: pgLogger,
		cb:     cb,
	}, nil
}

// isRetryable excludes constraint violations from retries; retrying those
// can only fail the same way.
func isRetryable(err error) bool {
	var pe *PersistenceError
	return !errors.As(err, &pe)
}

// wrapConstraint converts unique/foreign-key violations into a
// PersistenceError carrying the offending profile id.
func wrapConstraint(profileID int64, op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505", "23503": // unique_violation, foreign_key_violation
			return &PersistenceError{ProfileID: profileID, Op: op, Err: err}
		}
	}
	return err
}

// Upsert stores the bundle in one transaction: insert-or-update the profile
// row, then delete and re-insert every child set.
func (p *PostgresStore) Upsert(ctx context.Context, bundle *profile.Bundle) error {
	var opErr error
	retry.Do(
		func() error {
			_, err := p.cb.Execute(func() (interface{}, error) {
				return nil, p.upsertTx(ctx, bundle)
			})
			opErr = err
			return err
		},
		retry.Attempts(3),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn("retrying Upsert",
				zap.Uint("attempt", n+1),
				zap.Int64("profile_id", bundle.Profile.ProfileID),
				zap.Error(err))
		}),
	)
	if opErr != nil {
		countFailure(ctx)
		return opErr
	}
	countUpsert(ctx)
	return nil
}

func (p *PostgresStore) upsertTx(ctx context.Context, bundle *profile.Bundle) error {
	id := bundle.Profile.ProfileID

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rec := bundle.Profile
	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (
			profile_id, profile_url, profile_pic_url, full_name, headline, summary,
			country, city, email, contact_number, github, twitter, facebook,
			skills, connections, languages, follower_count, industry,
			fortune_500, entrepreneur, leadership_role
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (profile_id) DO UPDATE SET
			profile_url=EXCLUDED.profile_url,
			profile_pic_url=EXCLUDED.profile_pic_url,
			full_name=EXCLUDED.full_name,
			headline=EXCLUDED.headline,
			summary=EXCLUDED.summary,
			country=EXCLUDED.country,
			city=EXCLUDED.city,
			email=EXCLUDED.email,
			contact_number=EXCLUDED.contact_number,
			github=EXCLUDED.github,
			twitter=EXCLUDED.twitter,
			facebook=EXCLUDED.facebook,
			skills=EXCLUDED.skills,
			connections=EXCLUDED.connections,
			languages=EXCLUDED.languages,
			follower_count=EXCLUDED.follower_count,
			industry=EXCLUDED.industry,
			fortune_500=EXCLUDED.fortune_500,
			entrepreneur=EXCLUDED.entrepreneur,
			leadership_role=EXCLUDED.leadership_role
	`,
		rec.ProfileID, rec.ProfileURL, rec.ProfilePicURL, rec.FullName, rec.Headline, rec.Summary,
		rec.Country, rec.City, rec.Email, rec.ContactNumber, rec.GitHub, rec.Twitter, rec.Facebook,
		rec.Skills, rec.Connections, rec.Languages, rec.FollowerCount, rec.Industry,
		rec.Fortune500, rec.Entrepreneur, rec.Leadership,
	)
	if err != nil {
		return wrapConstraint(id, "upsert profile", fmt.Errorf("failed to upsert profile: %w", err))
	}

	for _, table := range []string{"educations", "experiences", "club_experiences", "certifications"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE profile_id = $1", table), id); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertEducations(ctx, tx, bundle.Educations); err != nil {
		return wrapConstraint(id, "insert educations", err)
	}
	if err := insertExperiences(ctx, tx, bundle.Experiences); err != nil {
		return wrapConstraint(id, "insert experiences", err)
	}
	if err := insertClubExperiences(ctx, tx, bundle.ClubExperiences); err != nil {
		return wrapConstraint(id, "insert club experiences", err)
	}
	if err := insertCertifications(ctx, tx, bundle.Certifications); err != nil {
		return wrapConstraint(id, "insert certifications", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// bulkInsert builds a single multi-row INSERT for the given rows.
func bulkInsert(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	valueStrings := make([]string, 0, len(rows))
	valueArgs := make([]interface{}, 0, len(rows)*len(columns))
	for i, row := range rows {
		placeholders := make([]string, len(columns))
		for j := range columns {
			placeholders[j] = fmt.Sprintf("$%d", i*len(columns)+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs, row...)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		table, strings.Join(columns, ","), strings.Join(valueStrings, ","))
	if _, err := tx.ExecContext(ctx, stmt, valueArgs...); err != nil {
		return fmt.Errorf("failed to bulk insert into %s: %w", table, err)
	}
	return nil
}

func insertEducations(ctx context.Context, tx *sql.Tx, records []profile.Education) error {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{r.ProfileID, r.InstitutionName, r.Degree, r.FieldOfStudy, r.StartDate, r.EndDate})
	}
	return bulkInsert(ctx, tx, "educations",
		[]string{"profile_id", "institution_name", "degree", "field_of_study", "start_date", "end_date"}, rows)
}

func insertExperiences(ctx context.Context, tx *sql.Tx, records []profile.Experience) error {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{r.ProfileID, r.Title, r.Company, r.Location, r.Description, r.StartDate, r.EndDate})
	}
	return bulkInsert(ctx, tx, "experiences",
		[]string{"profile_id", "title", "company", "location", "description", "start_date", "end_date"}, rows)
}

func insertClubExperiences(ctx context.Context, tx *sql.Tx, records []profile.ClubExperience) error {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{r.ProfileID, r.ClubName, r.Role, r.Description, r.StartDate, r.EndDate, r.Location, r.Position})
	}
	return bulkInsert(ctx, tx, "club_experiences",
		[]string{"profile_id", "club_name", "role", "description", "start_date", "end_date", "location", "position"}, rows)
}

func insertCertifications(ctx context.Context, tx *sql.Tx, records []profile.Certification) error {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{r.ProfileID, r.Name, r.IssuingOrganization, r.IssueDate, r.ExpirationDate, r.CredentialID, r.CredentialURL})
	}
	return bulkInsert(ctx, tx, "certifications",
		[]string{"profile_id", "name", "issuing_organization", "issue_date", "expiration_date", "credential_id", "credential_url"}, rows)
}

// FetchAll reads a snapshot of all five tables, ordered for deterministic
// export output.
func (p *PostgresStore) FetchAll(ctx context.Context) (*Dataset, error) {
	var result *Dataset
	var opErr error
	retry.Do(
		func() error {
			res, err := p.cb.Execute(func() (interface{}, error) {
				return p.fetchAll(ctx)
			})
			if err == nil {
				result = res.(*Dataset)
			}
			opErr = err
			return err
		},
		retry.Attempts(3),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn("retrying FetchAll", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if opErr == nil {
		countFetch(ctx)
	}
	return result, opErr
}

func (p *PostgresStore) fetchAll(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{}

	rows, err := p.db.QueryContext(ctx, `
		SELECT profile_id, profile_url, profile_pic_url, full_name, headline, summary,
			country, city, email, contact_number, github, twitter, facebook,
			skills, connections, languages, follower_count, industry,
			fortune_500, entrepreneur, leadership_role
		FROM profiles ORDER BY profile_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r profile.Record
		if err := rows.Scan(
			&r.ProfileID, &r.ProfileURL, &r.ProfilePicURL, &r.FullName, &r.Headline, &r.Summary,
			&r.Country, &r.City, &r.Email, &r.ContactNumber, &r.GitHub, &r.Twitter, &r.Facebook,
			&r.Skills, &r.Connections, &r.Languages, &r.FollowerCount, &r.Industry,
			&r.Fortune500, &r.Entrepreneur, &r.Leadership,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		ds.Profiles = append(ds.Profiles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := p.fetchEducations(ctx, ds); err != nil {
		return nil, err
	}
	if err := p.fetchExperiences(ctx, ds); err != nil {
		return nil, err
	}
	if err := p.fetchClubExperiences(ctx, ds); err != nil {
		return nil, err
	}
	if err := p.fetchCertifications(ctx, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func (p *PostgresStore) fetchEducations(ctx context.Context, ds *Dataset) error {
	rows, err := p.db.QueryContext(ctx, `
		SELECT profile_id, institution_name, degree, field_of_study, start_date, end_date
		FROM educations ORDER BY profile_id ASC, id ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to query educations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r profile.Education
		if err := rows.Scan(&r.ProfileID, &r.InstitutionName, &r.Degree, &r.FieldOfStudy, &r.StartDate, &r.EndDate); err != nil {
			return fmt.Errorf("failed to scan education: %w", err)
		}
		ds.Educations = append(ds.Educations, r)
	}
	return rows.Err()
}

func (p *PostgresStore) fetchExperiences(ctx context.Context, ds *Dataset) error {
	rows, err := p.db.QueryContext(ctx, `
		SELECT profile_id, title, company, location, description, start_date, end_date
		FROM experiences ORDER BY profile_id ASC, id ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to query experiences: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r profile.Experience
		if err := rows.Scan(&r.ProfileID, &r.Title, &r.Company, &r.Location, &r.Description, &r.StartDate, &r.EndDate); err != nil {
			return fmt.Errorf("failed to scan experience: %w", err)
		}
		ds.Experiences = append(ds.Experiences, r)
	}
	return rows.Err()
}

func (p *PostgresStore) fetchClubExperiences(ctx context.Context, ds *Dataset) error {
	rows, err := p.db.QueryContext(ctx, `
		SELECT profile_id, club_name, role, description, start_date, end_date, location, position
		FROM club_experiences ORDER BY profile_id ASC, id ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to query club experiences: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r profile.ClubExperience
		if err := rows.Scan(&r.ProfileID, &r.ClubName, &r.Role, &r.Description, &r.StartDate, &r.EndDate, &r.Location, &r.Position); err != nil {
			return fmt.Errorf("failed to scan club experience: %w", err)
		}
		ds.ClubExperiences = append(ds.ClubExperiences, r)
	}
	return rows.Err()
}

func (p *PostgresStore) fetchCertifications(ctx context.Context, ds *Dataset) error {
	rows, err := p.db.QueryContext(ctx, `
		SELECT profile_id, name, issuing_organization, issue_date, expiration_date, credential_id, credential_url
		FROM certifications ORDER BY profile_id ASC, id ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to query certifications: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r profile.Certification
		if err := rows.Scan(&r.ProfileID, &r.Name, &r.IssuingOrganization, &r.IssueDate, &r.ExpirationDate, &r.CredentialID, &r.CredentialURL); err != nil {
			return fmt.Errorf("failed to scan certification: %w", err)
		}
		ds.Certifications = append(ds.Certifications, r)
	}
	return rows.Err()
}

// DeleteProfile removes the profile row; child rows go with it via cascade.
func (p *PostgresStore) DeleteProfile(ctx context.Context, profileID int64) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		res, err := p.db.ExecContext(ctx, `DELETE FROM profiles WHERE profile_id = $1`, profileID)
		if err != nil {
			return nil, wrapConstraint(profileID, "delete profile", fmt.Errorf("failed to delete profile: %w", err))
		}
		return res, nil
	})
	return err
}

func (p *PostgresStore) ProfileIDByURL(ctx context.Context, profileURL string) (int64, bool, error) {
	var id int64
	err := p.db.QueryRowContext(ctx,
		`SELECT profile_id FROM profiles WHERE profile_url = $1`, profileURL).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up profile by URL: %w", err)
	}
	return id, true, nil
}

func (p *PostgresStore) MaxProfileID(ctx context.Context) (int64, error) {
	var max sql.NullInt64
	err := p.db.QueryRowContext(ctx, `SELECT MAX(profile_id) FROM profiles`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to read max profile id: %w", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return max.Int64, nil
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}
