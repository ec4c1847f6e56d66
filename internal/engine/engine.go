// Package engine is the boundary the MCP tools and the CLI call into. It
// wires the catalog, scoring, classification, pattern analysis and
// narrative packages together behind a handful of pure operations.
//
// An Engine holds only read-only tables and is safe for concurrent use.
// Callers keep the running selection list and replay it on every call.
package engine

import (
	"context"
	"strconv"

	"github.com/HendryAvila/dossier/internal/catalog"
	"github.com/HendryAvila/dossier/internal/metrics"
	"github.com/HendryAvila/dossier/internal/narrative"
	"github.com/HendryAvila/dossier/internal/pattern"
	"github.com/HendryAvila/dossier/internal/profile"
	"github.com/HendryAvila/dossier/internal/scoring"
)

// Config tunes classification and narrative selection. Zero values select
// the package defaults, except the two chances when ChancesSet is true and
// the two trait levels when LevelsSet is true.
type Config struct {
	HybridThreshold     int
	TopN                int
	TraitHighPercent    int
	TraitLowPercent     int
	PatternFlavorChance float64
	IntroChance         float64
	ChancesSet          bool
	LevelsSet           bool
	ClearanceThresholds []int
}

// Engine computes scores, profiles and narrative text.
type Engine struct {
	cat        *catalog.Catalog
	classifier *profile.Classifier
	composer   *narrative.Composer
	metrics    *metrics.Metrics
	generator  narrative.Generator
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithMetrics records activity on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithGenerator consults g for reaction text before the templates.
func WithGenerator(g narrative.Generator) Option {
	return func(e *Engine) { e.generator = g }
}

// New creates an Engine over read-only tables.
func New(cat *catalog.Catalog, content *narrative.Content, blends *profile.Blends, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cat: cat,
		classifier: profile.NewClassifier(cat, blends, profile.Options{
			HybridThreshold:     cfg.HybridThreshold,
			ClearanceThresholds: cfg.ClearanceThresholds,
		}),
		composer: narrative.NewComposer(cat, content, narrative.Options{
			PatternFlavorChance: cfg.PatternFlavorChance,
			IntroChance:         cfg.IntroChance,
			ChancesSet:          cfg.ChancesSet,
			TopN:                cfg.TopN,
			HighPercent:         cfg.TraitHighPercent,
			LowPercent:          cfg.TraitLowPercent,
			LevelsSet:           cfg.LevelsSet,
		}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewDefault creates an Engine over the embedded tables with default
// tuning.
func NewDefault(opts ...Option) (*Engine, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	content, err := narrative.DefaultContent()
	if err != nil {
		return nil, err
	}
	blends, err := profile.DefaultBlends()
	if err != nil {
		return nil, err
	}
	return New(cat, content, blends, Config{}, opts...), nil
}

// Catalog returns the question catalog the engine scores against.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// NormalizeSelections drops unknown questions and options.
func (e *Engine) NormalizeSelections(raw []scoring.Selection) []scoring.Selection {
	return scoring.Normalize(raw, e.cat)
}

// AggregateCategoryScores scores categories for normalized selections.
func (e *Engine) AggregateCategoryScores(selections []scoring.Selection) scoring.Aggregate {
	return scoring.AggregateCategories(selections, e.cat)
}

// AggregateTraitScores scores traits for normalized selections.
func (e *Engine) AggregateTraitScores(selections []scoring.Selection) scoring.Aggregate {
	return scoring.AggregateTraits(selections, e.cat)
}

// ClassifyProfile derives ranking, hybrid, dominant theme and clearance.
// The selections only feed the theme tally.
func (e *Engine) ClassifyProfile(categories, traits scoring.Aggregate, selections []scoring.Selection) profile.Profile {
	return e.classifier.Classify(categories, traits, selections)
}

// Letters returns the first-choice letter sequence of normalized
// selections.
func (e *Engine) Letters(selections []scoring.Selection) string {
	return scoring.FirstChoiceLetters(selections, e.cat)
}

// AnalyzeChaosPattern classifies the first-choice letter sequence.
func (e *Engine) AnalyzeChaosPattern(selections []scoring.Selection) pattern.Result {
	return pattern.Analyze(e.Letters(selections))
}

// ReactionRequest identifies the answer being reacted to.
type ReactionRequest struct {
	QuestionID string
	OptionID   string
	// Recent is the first-choice letter history including this answer.
	Recent string
	// Override is raw generator output supplied by the caller. When set it
	// replaces the engine's own generator for this call.
	Override string
}

// ComposeReaction returns reaction text for one answer. Unknown ids get a
// neutral reaction; override faults fall back to templates.
func (e *Engine) ComposeReaction(ctx context.Context, req ReactionRequest, rng narrative.Rand) narrative.Reaction {
	opt := catalog.Option{ID: req.OptionID}
	if q, ok := e.cat.Question(req.QuestionID); ok {
		if o, _, ok := q.Option(req.OptionID); ok {
			opt = *o
		}
	}

	gen := e.generator
	if req.Override != "" {
		gen = narrative.StaticGenerator(req.Override)
	}
	r := e.composer.ReactionWithOverride(ctx, narrative.ReactionInput{
		QuestionID: req.QuestionID,
		Option:     opt,
		Recent:     req.Recent,
	}, rng, gen)

	e.metrics.IncReaction(string(r.Source))
	if r.Fallback != "" {
		e.metrics.IncOverrideFallback(r.Fallback)
	}
	return r
}

// ComposeTransition builds the narrative for the boundary after phase
// boundary. Only selections whose question phase is at most boundary are
// read, so a caller may pass its whole answer list.
func (e *Engine) ComposeTransition(selections []scoring.Selection, boundary int, prior []profile.Standing) narrative.Transition {
	sels := scoring.UpToPhase(e.NormalizeSelections(selections), e.cat, boundary)
	letters := e.Letters(sels)
	t := e.composer.Transition(narrative.TransitionInput{
		Boundary:   boundary,
		Categories: e.AggregateCategoryScores(sels),
		Traits:     e.AggregateTraitScores(sels),
		Letters:    letters,
		Chaos:      pattern.Analyze(letters),
		Prior:      prior,
	})
	e.metrics.IncTransition(strconv.Itoa(boundary))
	return t
}

// Result is the graded outcome of a run.
type Result struct {
	Selections []scoring.Selection   `json:"selections"`
	Categories scoring.Aggregate     `json:"categories"`
	Traits     scoring.Aggregate     `json:"traits"`
	Profile    profile.Profile       `json:"profile"`
	Chaos      pattern.Result        `json:"chaos"`
	Letters    string                `json:"letters"`
	Highlights []narrative.Highlight `json:"highlights"`
}

// Grade normalizes raw selections and computes the full result.
func (e *Engine) Grade(raw []scoring.Selection) Result {
	sels := e.NormalizeSelections(raw)
	categories := e.AggregateCategoryScores(sels)
	traits := e.AggregateTraitScores(sels)
	letters := e.Letters(sels)
	r := Result{
		Selections: sels,
		Categories: categories,
		Traits:     traits,
		Profile:    e.ClassifyProfile(categories, traits, sels),
		Chaos:      pattern.Analyze(letters),
		Letters:    letters,
		Highlights: e.composer.Highlights(traits),
	}
	e.metrics.IncGrade(r.Profile.Clearance.Tier)
	return r
}
