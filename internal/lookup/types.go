package lookup

import (
	"context"
	"errors"
	"fmt"
)

// Client fetches the structured document for one LinkedIn profile URL from
// the external enrichment API.
type Client interface {
	Fetch(ctx context.Context, profileURL string) (*Document, error)
}

// Date is the enrichment API's {day, month, year} date object.
type Date struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// DocEducation is one education entry in the API response.
type DocEducation struct {
	School       string `json:"school"`
	DegreeName   string `json:"degree_name"`
	FieldOfStudy string `json:"field_of_study"`
	StartsAt     *Date  `json:"starts_at"`
	EndsAt       *Date  `json:"ends_at"`
}

// DocExperience is one work experience entry in the API response. The API
// returns experiences most recent first.
type DocExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	StartsAt    *Date  `json:"starts_at"`
	EndsAt      *Date  `json:"ends_at"`
}

// DocCertification is one certification entry in the API response.
type DocCertification struct {
	Name                string `json:"name"`
	IssuingOrganization string `json:"issuing_organization"`
	IssueDate           *Date  `json:"issue_date"`
	ExpirationDate      *Date  `json:"expiration_date"`
	CredentialID        string `json:"credential_id"`
	CredentialURL       string `json:"credential_url"`
}

// Document is the profile document returned by the enrichment API.
type Document struct {
	ProfileID        int64              `json:"profile_id"`
	PublicIdentifier string             `json:"public_identifier"`
	ProfilePicURL    string             `json:"profile_pic_url"`
	FullName         string             `json:"full_name"`
	Headline         string             `json:"headline"`
	Summary          string             `json:"summary"`
	CountryFullName  string             `json:"country_full_name"`
	City             string             `json:"city"`
	PersonalEmail    string             `json:"personal_email"`
	PersonalNumber   string             `json:"personal_contact_number"`
	GitHubProfileID  string             `json:"github_profile_id"`
	TwitterProfileID string             `json:"twitter_profile_id"`
	FacebookProfile  string             `json:"facebook_profile_id"`
	Skills           []string           `json:"skills"`
	Connections      int                `json:"connections"`
	Languages        []string           `json:"languages"`
	FollowerCount    int                `json:"follower_count"`
	Industry         string             `json:"industry"`
	Education        []DocEducation     `json:"education"`
	Experiences      []DocExperience    `json:"experiences"`
	Certifications   []DocCertification `json:"certifications"`
}

// ErrNotFound marks a profile the API does not know about. Not retryable.
var ErrNotFound = errors.New("profile not found")

// Error is a lookup failure. Transient errors (network, rate limits, 5xx)
// are worth retrying; permanent ones are not.
type Error struct {
	ProfileURL string
	StatusCode int
	Transient  bool
	Err        error
}

func (e *Error) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("lookup failed for %s (%s): %v", e.ProfileURL, kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsTransient reports whether err is a lookup error that may succeed on retry.
func IsTransient(err error) bool {
	var le *Error
	return errors.As(err, &le) && le.Transient
}
