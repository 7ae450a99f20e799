package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/profile"
)

// Store owns the canonical copy of all profile data.
type Store interface {
	// Upsert inserts or updates the profile row and replaces all four child
	// record sets, atomically per profile.
	Upsert(ctx context.Context, bundle *profile.Bundle) error
	// FetchAll returns a snapshot of every persisted record, ordered by
	// profile id (children additionally by insertion order).
	FetchAll(ctx context.Context) (*Dataset, error)
	// DeleteProfile removes a profile and, through cascade, all its children.
	DeleteProfile(ctx context.Context, profileID int64) error
	// ProfileIDByURL returns the id persisted for a profile URL, if any.
	ProfileIDByURL(ctx context.Context, profileURL string) (int64, bool, error)
	// MaxProfileID returns the highest persisted profile id, zero when empty.
	MaxProfileID(ctx context.Context) (int64, error)
	Close() error
}

// Dataset is a read snapshot of the five tables.
type Dataset struct {
	Profiles        []profile.Record
	Educations      []profile.Education
	Experiences     []profile.Experience
	ClubExperiences []profile.ClubExperience
	Certifications  []profile.Certification
}

// PersistenceError is a constraint violation or other write failure,
// carrying the offending profile id so batch callers can report it.
type PersistenceError struct {
	ProfileID int64
	Op        string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed for profile %d: %v", e.Op, e.ProfileID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DbType represents the type of database backing the store
type DbType string

const (
	DbTypePostgres DbType = "postgres"
	DbTypeMemory   DbType = "memory"
)

func (d DbType) String() string { return string(d) }

func (d DbType) IsValid() bool {
	switch d {
	case DbTypePostgres, DbTypeMemory:
		return true
	}
	return false
}

// StoreConfig selects and configures a store implementation.
type StoreConfig struct {
	DbType       DbType                 `json:"db_type"`
	ExtraDetails map[string]interface{} `json:"extra_details"`
}

// DefaultConfigJSON is the in-memory store configuration used when no
// provider configuration is supplied.
func DefaultConfigJSON() string {
	b, _ := json.Marshal(StoreConfig{
		DbType:       DbTypeMemory,
		ExtraDetails: map[string]interface{}{},
	})
	return string(b)
}
