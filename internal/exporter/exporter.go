// Package exporter regenerates spreadsheet snapshots of the persisted
// dataset. The exporter only reads; the store owns the canonical copy.
package exporter

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/store"
)

// ExportError is an I/O failure while writing an export file. Fatal for the
// request that triggered it, nothing more.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %s failed: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Exporter writes the dataset out as an Excel workbook or per-table CSVs.
type Exporter struct {
	store  store.Store
	logger *zap.Logger
}

func New(st store.Store, logger *zap.Logger) *Exporter {
	return &Exporter{
		store:  st,
		logger: logger.Named("exporter"),
	}
}

var (
	profileHeader = []string{
		"profile_id", "profile_url", "profile_pic_url", "full_name", "headline",
		"summary", "country", "city", "email", "contact_number", "github",
		"twitter", "facebook", "skills", "connections", "languages",
		"follower_count", "industry", "fortune_500", "entrepreneur", "leadership_role",
	}
	educationHeader = []string{
		"profile_id", "institution_name", "degree", "field_of_study", "start_date", "end_date",
	}
	experienceHeader = []string{
		"profile_id", "title", "company", "location", "description", "start_date", "end_date",
	}
	clubExperienceHeader = []string{
		"profile_id", "club_name", "role", "description", "start_date", "end_date", "location", "position",
	}
	certificationHeader = []string{
		"profile_id", "name", "issuing_organization", "issue_date", "expiration_date", "credential_id", "credential_url",
	}
)

// tableRows renders every dataset table as header + string rows, in the
// store's deterministic order.
func tableRows(ds *store.Dataset) map[string][][]string {
	tables := map[string][][]string{
		"profiles":         {profileHeader},
		"educations":       {educationHeader},
		"experiences":      {experienceHeader},
		"club_experiences": {clubExperienceHeader},
		"certifications":   {certificationHeader},
	}

	for _, p := range ds.Profiles {
		tables["profiles"] = append(tables["profiles"], []string{
			strconv.FormatInt(p.ProfileID, 10), p.ProfileURL, p.ProfilePicURL, p.FullName,
			p.Headline, p.Summary, p.Country, p.City, p.Email, p.ContactNumber,
			p.GitHub, p.Twitter, p.Facebook, p.Skills,
			strconv.Itoa(p.Connections), p.Languages, strconv.Itoa(p.FollowerCount), p.Industry,
			strconv.FormatBool(p.Fortune500), strconv.FormatBool(p.Entrepreneur), strconv.FormatBool(p.Leadership),
		})
	}
	for _, e := range ds.Educations {
		tables["educations"] = append(tables["educations"], []string{
			strconv.FormatInt(e.ProfileID, 10), e.InstitutionName, e.Degree, e.FieldOfStudy, e.StartDate, e.EndDate,
		})
	}
	for _, e := range ds.Experiences {
		tables["experiences"] = append(tables["experiences"], []string{
			strconv.FormatInt(e.ProfileID, 10), e.Title, e.Company, e.Location, e.Description, e.StartDate, e.EndDate,
		})
	}
	for _, c := range ds.ClubExperiences {
		tables["club_experiences"] = append(tables["club_experiences"], []string{
			strconv.FormatInt(c.ProfileID, 10), c.ClubName, c.Role, c.Description, c.StartDate, c.EndDate, c.Location, c.Position,
		})
	}
	for _, c := range ds.Certifications {
		tables["certifications"] = append(tables["certifications"], []string{
			strconv.FormatInt(c.ProfileID, 10), c.Name, c.IssuingOrganization, c.IssueDate, c.ExpirationDate, c.CredentialID, c.CredentialURL,
		})
	}
	return tables
}
