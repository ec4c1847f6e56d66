package scoring

import (
	"math"

	"github.com/HendryAvila/dossier/internal/catalog"
)

// rankPoints is indexed by zero-based rank. Ranks past the end score 0.
var rankPoints = [...]int{3, 2, 1}

// phaseMultipliers weights later phases more heavily.
var phaseMultipliers = map[int]int{1: 1, 2: 2, 3: 3}

// RankPoints returns the points for a one-based rank.
func RankPoints(rank int) int {
	if rank < 1 || rank > len(rankPoints) {
		return 0
	}
	return rankPoints[rank-1]
}

// PhaseMultiplier returns the multiplier for a phase, 0 for unknown phases.
func PhaseMultiplier(phase int) int {
	return phaseMultipliers[phase]
}

// Aggregate is the score table for one axis family (categories or traits).
// Codes keeps definition order so callers can rank with a stable sort.
type Aggregate struct {
	Codes       []string       `json:"codes"`
	Scores      map[string]int `json:"scores"`
	Percentages map[string]int `json:"percentages"`
	// Max is the score reachable by putting the heaviest option of every
	// question at rank 1. Categories use it for bar sizing only.
	Max   map[string]int `json:"max"`
	Total int            `json:"total"`
}

// Score returns the absolute score for code.
func (a Aggregate) Score(code string) int { return a.Scores[code] }

// Percent returns the percentage for code.
func (a Aggregate) Percent(code string) int { return a.Percentages[code] }

// Top returns the highest absolute score, 0 when nothing scored.
func (a Aggregate) Top() int {
	top := 0
	for _, code := range a.Codes {
		if s := a.Scores[code]; s > top {
			top = s
		}
	}
	return top
}

// AggregateCategories scores every category. Percentages are shares of
// the total across categories, so they form a 100% split when anything
// scored and are all 0 otherwise.
func AggregateCategories(selections []Selection, cat *catalog.Catalog) Aggregate {
	codes := cat.CategoryCodes()
	scores := accumulate(selections, cat, categoryWeights)
	maxima := theoreticalMax(cat, codes, categoryWeights)

	total := 0
	for _, code := range codes {
		total += scores[code]
	}

	pct := make(map[string]int, len(codes))
	for _, code := range codes {
		if total > 0 {
			pct[code] = percent(scores[code], total)
		} else {
			pct[code] = 0
		}
	}

	return Aggregate{
		Codes:       codes,
		Scores:      fill(codes, scores),
		Percentages: pct,
		Max:         maxima,
		Total:       total,
	}
}

// AggregateTraits scores every trait against its own theoretical maximum.
// Traits are independent axes, so percentages do not sum to 100. Picks at
// rank 2 and 3 can push a raw score past the rank-1 maximum; the
// percentage is capped at 100.
func AggregateTraits(selections []Selection, cat *catalog.Catalog) Aggregate {
	codes := cat.TraitCodes()
	scores := accumulate(selections, cat, traitWeights)
	maxima := theoreticalMax(cat, codes, traitWeights)

	total := 0
	pct := make(map[string]int, len(codes))
	for _, code := range codes {
		total += scores[code]
		if maxima[code] > 0 {
			pct[code] = min(percent(scores[code], maxima[code]), 100)
		} else {
			pct[code] = 0
		}
	}

	return Aggregate{
		Codes:       codes,
		Scores:      fill(codes, scores),
		Percentages: pct,
		Max:         maxima,
		Total:       total,
	}
}

func categoryWeights(o *catalog.Option) map[string]int { return o.Categories }

func traitWeights(o *catalog.Option) map[string]int { return o.Traits }

// accumulate sums rankPoints × phaseMultiplier × weight over every ranked
// option of every selection. Unresolvable references contribute nothing.
func accumulate(selections []Selection, cat *catalog.Catalog, weights func(*catalog.Option) map[string]int) map[string]int {
	scores := make(map[string]int)
	for _, sel := range selections {
		q, ok := cat.Question(sel.QuestionID)
		if !ok {
			continue
		}
		mult := PhaseMultiplier(q.Phase)
		for i, id := range sel.OptionIDs {
			points := RankPoints(i + 1)
			if points == 0 {
				break
			}
			o, _, ok := q.Option(id)
			if !ok {
				continue
			}
			for code, w := range weights(o) {
				scores[code] += points * mult * w
			}
		}
	}
	return scores
}

func theoreticalMax(cat *catalog.Catalog, codes []string, weights func(*catalog.Option) map[string]int) map[string]int {
	maxima := make(map[string]int, len(codes))
	top := RankPoints(1)
	for _, q := range cat.Questions {
		mult := PhaseMultiplier(q.Phase)
		for _, code := range codes {
			best := 0
			for i := range q.Options {
				if w := weights(&q.Options[i])[code]; w > best {
					best = w
				}
			}
			maxima[code] += top * mult * best
		}
	}
	return maxima
}

// fill returns a map with an entry for every code, zero when unscored.
func fill(codes []string, scores map[string]int) map[string]int {
	out := make(map[string]int, len(codes))
	for _, code := range codes {
		out[code] = scores[code]
	}
	return out
}

// percent rounds half away from zero.
func percent(part, whole int) int {
	return int(math.Round(100 * float64(part) / float64(whole)))
}
