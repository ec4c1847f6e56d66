package profile

import (
	"github.com/HendryAvila/dossier/internal/catalog"
	"github.com/HendryAvila/dossier/internal/scoring"
)

// Theme is the dominant specialization of a run.
type Theme struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// DominantTheme tallies theme tags over every chosen option. Each tag
// counts once per option chosen for that question, so a question answered
// with three ranked picks weighs three times as much as a single pick.
// Ties go to the theme declared first in the catalog. It returns nil when
// no chosen option carries a theme.
func DominantTheme(selections []scoring.Selection, cat *catalog.Catalog) *Theme {
	tally := make(map[string]int)
	for _, sel := range selections {
		q, ok := cat.Question(sel.QuestionID)
		if !ok {
			continue
		}
		engagement := len(sel.OptionIDs)
		for _, id := range sel.OptionIDs {
			o, _, ok := q.Option(id)
			if !ok {
				continue
			}
			for _, tag := range q.OptionThemes(o) {
				tally[tag] += engagement
			}
		}
	}

	var best *Theme
	for _, code := range cat.ThemeCodes() {
		score := tally[code]
		if score == 0 {
			continue
		}
		if best == nil || score > best.Score {
			best = &Theme{Code: code, Name: cat.ThemeName(code), Score: score}
		}
	}
	return best
}
