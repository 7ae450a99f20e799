package mapper

import (
	"fmt"
	"strings"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/classify"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/lookup"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/profile"
)

// MissingIdentifierError reports a document that carries neither a numeric
// profile id nor a public identifier. The input is unusable; the batch
// continues with the next one.
type MissingIdentifierError struct {
	ProfileURL string
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("document for %s has no identifying field", e.ProfileURL)
}

// Mapper normalizes enrichment API documents into persistable bundles.
type Mapper struct {
	classifier *classify.Classifier
	cfg        classify.Config
}

// New creates a Mapper using the given classification policy.
func New(cfg classify.Config) (*Mapper, error) {
	classifier, err := classify.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Mapper{classifier: classifier, cfg: cfg}, nil
}

// FormatDate renders an API date as MM/YYYY. A nil date means the position
// is ongoing and renders as "Present"; a date without month or year is "N/A".
func FormatDate(d *lookup.Date) string {
	if d == nil {
		return "Present"
	}
	if d.Month == 0 || d.Year == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%02d/%d", d.Month, d.Year)
}

// Map produces one profile bundle from an external document. Missing fields
// map to zero values, never to an error. The bundle's ProfileID is the
// document's id when present and zero otherwise; callers allocate ids for
// zero. Experiences that look like club activity are routed into the
// club_experiences set.
func (m *Mapper) Map(doc *lookup.Document, profileURL string) (*profile.Bundle, error) {
	if doc.ProfileID == 0 && doc.PublicIdentifier == "" {
		return nil, &MissingIdentifierError{ProfileURL: profileURL}
	}

	url := profileURL
	if url == "" && doc.PublicIdentifier != "" {
		url = fmt.Sprintf("https://www.linkedin.com/in/%s/", doc.PublicIdentifier)
	}

	bundle := &profile.Bundle{
		Profile: profile.Record{
			ProfileID:     doc.ProfileID,
			ProfileURL:    url,
			ProfilePicURL: doc.ProfilePicURL,
			FullName:      doc.FullName,
			Headline:      doc.Headline,
			Summary:       doc.Summary,
			Country:       doc.CountryFullName,
			City:          doc.City,
			Email:         doc.PersonalEmail,
			ContactNumber: doc.PersonalNumber,
			GitHub:        doc.GitHubProfileID,
			Twitter:       doc.TwitterProfileID,
			Facebook:      doc.FacebookProfile,
			Skills:        strings.Join(doc.Skills, ", "),
			Connections:   doc.Connections,
			Languages:     strings.Join(doc.Languages, ", "),
			FollowerCount: doc.FollowerCount,
			Industry:      doc.Industry,
		},
	}

	for _, edu := range doc.Education {
		bundle.Educations = append(bundle.Educations, profile.Education{
			ProfileID:       doc.ProfileID,
			InstitutionName: edu.School,
			Degree:          edu.DegreeName,
			FieldOfStudy:    edu.FieldOfStudy,
			StartDate:       FormatDate(edu.StartsAt),
			EndDate:         FormatDate(edu.EndsAt),
		})
	}

	for _, exp := range doc.Experiences {
		bundle.Experiences = append(bundle.Experiences, profile.Experience{
			ProfileID:   doc.ProfileID,
			Title:       exp.Title,
			Company:     exp.Company,
			Location:    exp.Location,
			Description: exp.Description,
			StartDate:   FormatDate(exp.StartsAt),
			EndDate:     FormatDate(exp.EndsAt),
		})
	}

	for _, cert := range doc.Certifications {
		bundle.Certifications = append(bundle.Certifications, profile.Certification{
			ProfileID:           doc.ProfileID,
			Name:                cert.Name,
			IssuingOrganization: cert.IssuingOrganization,
			IssueDate:           FormatDate(cert.IssueDate),
			ExpirationDate:      FormatDate(cert.ExpirationDate),
			CredentialID:        cert.CredentialID,
			CredentialURL:       cert.CredentialURL,
		})
	}

	// Flags look at the most recent experience, so classify before club
	// entries are moved out of the experience list.
	m.classifier.Apply(bundle)
	m.splitClubExperiences(bundle)
	return bundle, nil
}

// splitClubExperiences moves experiences that look like club activity into
// the club_experiences set.
func (m *Mapper) splitClubExperiences(b *profile.Bundle) {
	kept := b.Experiences[:0]
	for _, exp := range b.Experiences {
		if m.isClubExperience(exp) {
			b.ClubExperiences = append(b.ClubExperiences, profile.ClubExperience{
				ProfileID:   exp.ProfileID,
				ClubName:    exp.Company,
				Role:        exp.Title,
				Description: exp.Description,
				StartDate:   exp.StartDate,
				EndDate:     exp.EndDate,
				Location:    exp.Location,
			})
			continue
		}
		kept = append(kept, exp)
	}
	b.Experiences = kept
	if len(b.Experiences) == 0 {
		b.Experiences = nil
	}
}

func (m *Mapper) isClubExperience(exp profile.Experience) bool {
	company := strings.ToLower(exp.Company)
	title := strings.ToLower(exp.Title)
	for _, keyword := range m.cfg.ClubKeywords {
		if strings.Contains(company, keyword) || strings.Contains(title, keyword) {
			return true
		}
	}
	return false
}
