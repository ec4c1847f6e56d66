package narrative

import (
	"github.com/HendryAvila/dossier/internal/catalog"
)

// Default probabilities and levels.
const (
	DefaultPatternFlavorChance = 0.3
	DefaultIntroChance         = 0.4
	DefaultTopN                = 3
	DefaultHighPercent         = 40
	DefaultLowPercent          = 15
)

// Options tunes a Composer. Zero values select the defaults, except the
// two chances and the two levels, which are taken as given once their Set
// flag is true.
type Options struct {
	PatternFlavorChance float64
	IntroChance         float64
	// ChancesSet marks the two chances as explicit so that 0 disables them.
	ChancesSet  bool
	TopN        int
	HighPercent int
	LowPercent  int
	// LevelsSet marks the two levels as explicit so that a LowPercent of 0
	// means no trait is ever low.
	LevelsSet bool
}

// Composer picks narrative text from read-only content tables. It holds
// no per-session state and is safe for concurrent use.
type Composer struct {
	cat     *catalog.Catalog
	content *Content
	opts    Options
}

// NewComposer creates a Composer over a catalog and its content tables.
func NewComposer(cat *catalog.Catalog, content *Content, opts Options) *Composer {
	if !opts.ChancesSet {
		opts.PatternFlavorChance = DefaultPatternFlavorChance
		opts.IntroChance = DefaultIntroChance
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if !opts.LevelsSet {
		if opts.HighPercent <= 0 {
			opts.HighPercent = DefaultHighPercent
		}
		if opts.LowPercent <= 0 {
			opts.LowPercent = DefaultLowPercent
		}
	}
	return &Composer{cat: cat, content: content, opts: opts}
}

// Level is a trait's coarse standing against its theoretical maximum.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// LevelOf classifies a trait percentage.
func (c *Composer) LevelOf(percent int) Level {
	switch {
	case percent >= c.opts.HighPercent:
		return LevelHigh
	case percent < c.opts.LowPercent:
		return LevelLow
	default:
		return LevelMedium
	}
}
