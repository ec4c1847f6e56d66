// Package scoring turns ranked answer selections into category and trait
// scores.
//
// Everything here is a pure function of the selections and the catalog:
// there is no hidden state, so the same input always produces the same
// Aggregate and concurrent callers need no locking.
package scoring

import "github.com/HendryAvila/dossier/internal/catalog"

// Selection is one answered question: the chosen option IDs ordered by
// the subject's ranking, most preferred first.
type Selection struct {
	QuestionID string   `json:"question_id"`
	OptionIDs  []string `json:"option_ids"`
}

// Normalize keeps only selections that reference known questions and
// strips option IDs the question does not define. Nothing here errors:
// stale client state degrades to under-counting.
//
// Within a selection, a repeated option ID keeps its first (highest) rank.
// A selection left without options is dropped. If a question is answered
// twice the later selection wins but keeps the earlier position.
func Normalize(raw []Selection, cat *catalog.Catalog) []Selection {
	out := make([]Selection, 0, len(raw))
	position := make(map[string]int, len(raw))

	for _, sel := range raw {
		q, ok := cat.Question(sel.QuestionID)
		if !ok {
			continue
		}

		ids := make([]string, 0, len(sel.OptionIDs))
		seen := make(map[string]bool, len(sel.OptionIDs))
		for _, id := range sel.OptionIDs {
			if seen[id] {
				continue
			}
			if _, _, ok := q.Option(id); !ok {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			continue
		}

		clean := Selection{QuestionID: q.ID, OptionIDs: ids}
		if i, dup := position[q.ID]; dup {
			out[i] = clean
			continue
		}
		position[q.ID] = len(out)
		out = append(out, clean)
	}
	return out
}

// UpToPhase returns the selections whose question belongs to a phase no
// later than maxPhase. Unknown questions are dropped.
func UpToPhase(selections []Selection, cat *catalog.Catalog, maxPhase int) []Selection {
	var out []Selection
	for _, sel := range selections {
		q, ok := cat.Question(sel.QuestionID)
		if !ok || q.Phase > maxPhase {
			continue
		}
		out = append(out, sel)
	}
	return out
}

// FirstChoiceLetters returns the letter of each selection's rank-1 option,
// in selection order. This is the sequence the pattern analyzer reads.
func FirstChoiceLetters(selections []Selection, cat *catalog.Catalog) string {
	letters := make([]byte, 0, len(selections))
	for _, sel := range selections {
		if len(sel.OptionIDs) == 0 {
			continue
		}
		q, ok := cat.Question(sel.QuestionID)
		if !ok {
			continue
		}
		if l, ok := q.LetterOf(sel.OptionIDs[0]); ok {
			letters = append(letters, l)
		}
	}
	return string(letters)
}
