package classify

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/profile"
)

//go:embed fortune500_data.json
var fortune500JSON []byte

// companyVariations maps common names and subsidiaries to the name the
// Fortune 500 list uses.
var companyVariations = map[string]string{
	"google":     "alphabet",
	"google inc": "alphabet",
	"google llc": "alphabet",
	"youtube":    "alphabet",
	"waymo":      "alphabet",
	"deepmind":   "alphabet",
	"calico":     "alphabet",
	"verily":     "alphabet",

	"meta":      "meta platforms",
	"facebook":  "meta platforms",
	"instagram": "meta platforms",
	"whatsapp":  "meta platforms",
	"oculus":    "meta platforms",

	"microsoft corporation": "microsoft",
	"apple inc":             "apple",
	"amazon.com":            "amazon",
}

// companySuffixes are ordered longest first so " corporation" is trimmed
// before " corp" can match inside it.
var companySuffixes = []string{
	" corporation", " technologies", " technology", " holdings", " holding",
	" company", " group", " corp", " inc", " ltd", " llc", " plc", " co", ".com",
}

func loadFortune500() (map[string]struct{}, error) {
	var data struct {
		Companies []string `json:"companies"`
	}
	if err := json.Unmarshal(fortune500JSON, &data); err != nil {
		return nil, fmt.Errorf("failed to parse fortune 500 data: %w", err)
	}
	companies := make(map[string]struct{}, len(data.Companies))
	for _, name := range data.Companies {
		companies[strings.ToLower(name)] = struct{}{}
	}
	return companies, nil
}

// NormalizeCompanyName lowercases a company name, maps known variations to
// their parent company and strips legal suffixes.
func NormalizeCompanyName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	if parent, ok := companyVariations[name]; ok {
		return parent
	}
	if first := strings.Fields(name); len(first) > 0 {
		if parent, ok := companyVariations[first[0]]; ok {
			return parent
		}
	}
	for _, suffix := range companySuffixes {
		name = strings.TrimSuffix(name, suffix)
	}
	return strings.TrimSpace(name)
}

// IsFortune500 reports whether the profile's current company is on the
// Fortune 500 list. Only the most recent experience is examined. Matching is
// exact on the normalized name, then containment, then fuzzy similarity
// above the configured threshold.
func (c *Classifier) IsFortune500(b *profile.Bundle) bool {
	latest, ok := latestExperience(b)
	if !ok || latest.Company == "" {
		return false
	}

	normalized := NormalizeCompanyName(latest.Company)
	if normalized == "" {
		return false
	}
	if _, ok := c.fortune500[normalized]; ok {
		return true
	}

	lev := metrics.NewLevenshtein()
	for company := range c.fortune500 {
		if strings.Contains(company, normalized) || strings.Contains(normalized, company) {
			return true
		}
		if strutil.Similarity(normalized, company, lev) > c.cfg.Fortune500Similarity {
			return true
		}
	}
	return false
}
