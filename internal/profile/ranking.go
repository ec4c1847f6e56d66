// Package profile derives classifications from aggregated scores: the
// category ranking, hybrid detection, dominant theme and clearance tier.
//
// Every result is computed fresh from its inputs. Nothing here is cached
// or mutated after it is returned.
package profile

import (
	"sort"

	"github.com/HendryAvila/dossier/internal/scoring"
)

// Movement marks how a standing changed against an earlier snapshot.
type Movement string

const (
	MovementNone   Movement = ""
	MovementUp     Movement = "up"
	MovementDown   Movement = "down"
	MovementStable Movement = "stable"
)

// Standing is one category's place in the ranking.
type Standing struct {
	Code     string   `json:"code"`
	Position int      `json:"position"` // 1-based
	Score    int      `json:"score"`
	Percent  int      `json:"percent"`
	Movement Movement `json:"movement,omitempty"`
}

// Rank orders categories by descending absolute score. Ties keep the
// aggregate's code order, which is catalog definition order.
func Rank(agg scoring.Aggregate) []Standing {
	out := make([]Standing, len(agg.Codes))
	for i, code := range agg.Codes {
		out[i] = Standing{Code: code, Score: agg.Scores[code], Percent: agg.Percentages[code]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

// Top returns the first n standings (all of them when n exceeds the count).
func Top(ranking []Standing, n int) []Standing {
	if n < 0 {
		n = 0
	}
	if n > len(ranking) {
		n = len(ranking)
	}
	out := make([]Standing, n)
	copy(out, ranking[:n])
	return out
}

// CompareStandings returns a copy of current with movement markers set
// against prior. A better position is up, a worse one down, the same one
// stable, and a category absent from prior counts as up. With no prior
// snapshot the markers stay empty.
func CompareStandings(current, prior []Standing) []Standing {
	out := make([]Standing, len(current))
	copy(out, current)
	if len(prior) == 0 {
		return out
	}

	before := make(map[string]int, len(prior))
	for _, s := range prior {
		before[s.Code] = s.Position
	}

	for i := range out {
		was, ok := before[out[i].Code]
		switch {
		case !ok:
			out[i].Movement = MovementUp
		case out[i].Position < was:
			out[i].Movement = MovementUp
		case out[i].Position > was:
			out[i].Movement = MovementDown
		default:
			out[i].Movement = MovementStable
		}
	}
	return out
}
