package classify

import (
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/profile"
)

// Config holds the tunable policy behind the three classification flags.
// The flags are heuristics, not contracts; callers may override any of the
// keyword sets or thresholds.
type Config struct {
	// EntrepreneurKeywords are matched as substrings of the latest job title.
	EntrepreneurKeywords []string
	// LeadershipKeywords are matched as whole words of the latest job title.
	LeadershipKeywords []string
	// LeadershipPhrases are matched fuzzily against the latest job title.
	LeadershipPhrases []string
	// LeadershipSimilarity is the minimum similarity (0..1) for a phrase match.
	LeadershipSimilarity float64
	// Fortune500Similarity is the minimum similarity (0..1) for a fuzzy
	// company-name match against the Fortune 500 list.
	Fortune500Similarity float64
	// ClubKeywords route an experience into the club_experiences set when any
	// of them appears in the company or title.
	ClubKeywords []string
}

// DefaultConfig returns the default classification policy.
func DefaultConfig() Config {
	return Config{
		EntrepreneurKeywords: []string{
			"founder", "co-founder", "cofounder", "owner",
			"entrepreneur", "startup", "start-up", "serial entrepreneur",
			"business owner",
		},
		LeadershipKeywords: []string{
			"executive", "exec", "director", "manager", "lead", "head",
			"chief", "ceo", "cfo", "cto", "coo", "vp", "president", "chair",
			"supervisor", "founder",
		},
		LeadershipPhrases: []string{
			"department head",
			"executive director", "managing director", "senior manager",
			"vice president", "general manager", "regional manager",
		},
		LeadershipSimilarity: 0.65,
		Fortune500Similarity: 0.85,
		ClubKeywords:         []string{"club", "society", "association", "committee", "chapter"},
	}
}

// Classifier derives the three boolean profile flags from a mapped bundle.
type Classifier struct {
	cfg        Config
	fortune500 map[string]struct{}
}

// New creates a Classifier with the embedded Fortune 500 company list.
func New(cfg Config) (*Classifier, error) {
	companies, err := loadFortune500()
	if err != nil {
		return nil, err
	}
	return &Classifier{cfg: cfg, fortune500: companies}, nil
}

// Apply sets the fortune_500, entrepreneur and leadership_role flags on the
// bundle's profile based on its most recent experience.
func (c *Classifier) Apply(b *profile.Bundle) {
	b.Profile.Fortune500 = c.IsFortune500(b)
	b.Profile.Entrepreneur = c.IsEntrepreneur(b)
	b.Profile.Leadership = c.IsLeadershipRole(b)
}

// latestExperience returns the most recent experience, which the enrichment
// API places first in the list.
func latestExperience(b *profile.Bundle) (profile.Experience, bool) {
	if len(b.Experiences) == 0 {
		return profile.Experience{}, false
	}
	return b.Experiences[0], true
}
