package classify

import (
	"strings"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/profile"
)

// IsEntrepreneur reports whether the profile shows entrepreneurial signals:
// founder/owner keywords in the latest job title, or the person's own name
// appearing in the company name (an eponymous business).
func (c *Classifier) IsEntrepreneur(b *profile.Bundle) bool {
	latest, ok := latestExperience(b)
	if !ok {
		return false
	}

	title := strings.ToLower(latest.Title)
	for _, keyword := range c.cfg.EntrepreneurKeywords {
		if strings.Contains(title, keyword) {
			return true
		}
	}

	company := strings.ToLower(latest.Company)
	fullName := strings.ToLower(b.Profile.FullName)
	if fullName != "" && strings.Contains(company, fullName) {
		return true
	}
	return false
}
