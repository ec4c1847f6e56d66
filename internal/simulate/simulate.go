// Package simulate grades batches of randomly answered runs, which is how
// catalog weights and clearance thresholds get sanity-checked.
package simulate

import (
	"context"
	"fmt"
	"sync"

	"github.com/HendryAvila/dossier/internal/catalog"
	"github.com/HendryAvila/dossier/internal/engine"
	"github.com/HendryAvila/dossier/internal/narrative"
	"github.com/HendryAvila/dossier/internal/scoring"

	"golang.org/x/sync/errgroup"
)

// MaxPicks is the most options a simulated answer ranks.
const MaxPicks = 3

// Options controls a batch.
type Options struct {
	Runs    int
	Seed    uint64
	Workers int
}

// Summary counts outcomes across a batch.
type Summary struct {
	Runs     int            `json:"runs"`
	Hybrids  int            `json:"hybrids"`
	Leaders  map[string]int `json:"leaders"`
	Tiers    map[string]int `json:"tiers"`
	Patterns map[string]int `json:"patterns"`
}

func newSummary() Summary {
	return Summary{
		Leaders:  make(map[string]int),
		Tiers:    make(map[string]int),
		Patterns: make(map[string]int),
	}
}

// Run grades opts.Runs random runs on up to opts.Workers goroutines. Every
// run draws from its own generator, so a fixed non-zero seed gives the same
// summary regardless of scheduling.
func Run(ctx context.Context, eng *engine.Engine, opts Options) (Summary, error) {
	if opts.Runs < 1 {
		return Summary{}, fmt.Errorf("simulate: runs must be at least 1, got %d", opts.Runs)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	src := narrative.NewSource(opts.Seed)
	cat := eng.Catalog()

	var mu sync.Mutex
	sum := newSummary()

	// gctx is cancelled by Wait; only the caller's ctx decides the outcome.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := 0; i < opts.Runs; i++ {
		if gctx.Err() != nil {
			break
		}
		rng := src.New()
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := eng.Grade(RandomAnswers(cat, rng))

			mu.Lock()
			defer mu.Unlock()
			sum.Runs++
			sum.Leaders[leaderOf(r)]++
			sum.Tiers[r.Profile.Clearance.Tier]++
			sum.Patterns[string(r.Chaos.Pattern)]++
			if r.Profile.Hybrid.Detected {
				sum.Hybrids++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}
	return sum, nil
}

// RandomAnswers ranks one to MaxPicks distinct options for every question.
func RandomAnswers(cat *catalog.Catalog, rng narrative.Rand) []scoring.Selection {
	out := make([]scoring.Selection, 0, len(cat.Questions))
	for _, q := range cat.Questions {
		ids := make([]string, len(q.Options))
		for i, o := range q.Options {
			ids[i] = o.ID
		}
		n := min(1+rng.IntN(MaxPicks), len(ids))
		// Partial Fisher-Yates: the first n slots end up a random ranking.
		for i := 0; i < n; i++ {
			j := i + rng.IntN(len(ids)-i)
			ids[i], ids[j] = ids[j], ids[i]
		}
		out = append(out, scoring.Selection{QuestionID: q.ID, OptionIDs: ids[:n]})
	}
	return out
}

func leaderOf(r engine.Result) string {
	if lead := r.Profile.Leading(); lead != "" {
		return lead
	}
	return "none"
}
