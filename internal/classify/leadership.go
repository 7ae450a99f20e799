package classify

import (
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/profile"
)

// splitCamelCase inserts spaces before capital letters so concatenated titles
// like "TechLead" match their spaced forms.
func splitCamelCase(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			sb.WriteRune(' ')
		}
		sb.WriteRune(r)
	}
	return strings.TrimSpace(sb.String())
}

// IsLeadershipRole reports whether the most recent job title indicates a
// leadership position. Single keywords are matched on word boundaries; longer
// phrases are matched by containment or fuzzy similarity above the configured
// threshold.
func (c *Classifier) IsLeadershipRole(b *profile.Bundle) bool {
	latest, ok := latestExperience(b)
	if !ok {
		return false
	}

	title := strings.ToLower(splitCamelCase(latest.Title))
	if title == "" {
		return false
	}

	words := make(map[string]struct{})
	for _, w := range strings.Fields(title) {
		words[strings.Trim(w, ",.()/-")] = struct{}{}
	}
	for _, keyword := range c.cfg.LeadershipKeywords {
		if _, ok := words[keyword]; ok {
			return true
		}
	}

	lev := metrics.NewLevenshtein()
	for _, phrase := range c.cfg.LeadershipPhrases {
		if strings.Contains(title, phrase) {
			return true
		}
		if strutil.Similarity(title, phrase, lev) >= c.cfg.LeadershipSimilarity {
			return true
		}
	}
	return false
}
