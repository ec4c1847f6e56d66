package profile

import (
	"github.com/HendryAvila/dossier/internal/catalog"
	"github.com/HendryAvila/dossier/internal/scoring"
)

// Profile is the full classification of one run.
type Profile struct {
	Ranking   []Standing `json:"ranking"`
	Hybrid    Hybrid     `json:"hybrid"`
	Theme     *Theme     `json:"theme,omitempty"`
	Clearance Clearance  `json:"clearance"`
}

// Leading returns the top category code, or "" when nothing scored.
func (p Profile) Leading() string {
	if len(p.Ranking) == 0 || p.Ranking[0].Score == 0 {
		return ""
	}
	return p.Ranking[0].Code
}

// Options tunes a Classifier. Zero values select the defaults.
type Options struct {
	HybridThreshold     int
	ClearanceThresholds []int
}

// Classifier bundles the read-only tables classification needs.
type Classifier struct {
	cat        *catalog.Catalog
	blends     *Blends
	threshold  int
	clearances []int
}

// NewClassifier creates a Classifier. A nil blends table uses the generic
// description for every pair.
func NewClassifier(cat *catalog.Catalog, blends *Blends, opts Options) *Classifier {
	c := &Classifier{
		cat:        cat,
		blends:     blends,
		threshold:  opts.HybridThreshold,
		clearances: opts.ClearanceThresholds,
	}
	if c.threshold <= 0 {
		c.threshold = DefaultHybridThreshold
	}
	if len(c.clearances) == 0 {
		c.clearances = DefaultClearanceThresholds
	}
	return c
}

// Classify derives ranking, hybrid, dominant theme and clearance. The
// selections are only read for theme tags.
func (c *Classifier) Classify(categories, traits scoring.Aggregate, selections []scoring.Selection) Profile {
	ranking := Rank(categories)
	return Profile{
		Ranking:   ranking,
		Hybrid:    DetectHybrid(ranking, c.threshold, c.blends),
		Theme:     DominantTheme(selections, c.cat),
		Clearance: ClearanceFor(Composite(categories.Top(), traits.Top()), c.clearances),
	}
}
