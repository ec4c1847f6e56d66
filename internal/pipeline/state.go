// Package pipeline is the quiz flow state machine:
//
//	answering_1 → transition_1_2 → answering_2 → transition_2_3 → answering_3 → graded
//
// An answering stage may advance once every question of its phase has a
// selection. A transition stage advances once its narrative has been
// produced, which the caller signals by calling Advance.
package pipeline

import (
	"fmt"
	"time"

	"github.com/HendryAvila/dossier/internal/catalog"
	"github.com/HendryAvila/dossier/internal/scoring"
)

// Stage is one step of the quiz flow.
type Stage string

const (
	StageAnswering1   Stage = "answering_1"
	StageTransition12 Stage = "transition_1_2"
	StageAnswering2   Stage = "answering_2"
	StageTransition23 Stage = "transition_2_3"
	StageAnswering3   Stage = "answering_3"
	StageGraded       Stage = "graded"
)

// StageOrder is the fixed order of the flow.
var StageOrder = []Stage{
	StageAnswering1,
	StageTransition12,
	StageAnswering2,
	StageTransition23,
	StageAnswering3,
	StageGraded,
}

// State is a session's position in the flow.
type State struct {
	Stage     Stage  `json:"stage"`
	UpdatedAt string `json:"updated_at"`
}

// NewState returns a state at the first stage.
func NewState() State {
	return State{Stage: StageAnswering1, UpdatedAt: now()}
}

// StageIndex returns the ordinal position of a stage, or -1 if unknown.
func StageIndex(s Stage) int {
	for i, st := range StageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Phase returns the question phase an answering stage collects, or 0.
func Phase(s Stage) int {
	switch s {
	case StageAnswering1:
		return 1
	case StageAnswering2:
		return 2
	case StageAnswering3:
		return 3
	}
	return 0
}

// Boundary returns the phase a transition stage closes, or 0.
func Boundary(s Stage) int {
	switch s {
	case StageTransition12:
		return 1
	case StageTransition23:
		return 2
	}
	return 0
}

// IsAnswering reports whether the stage collects answers.
func IsAnswering(s Stage) bool { return Phase(s) > 0 }

// IsTransition reports whether the stage is a phase boundary.
func IsTransition(s Stage) bool { return Boundary(s) > 0 }

// AcceptsQuestion returns an error unless the stage collects answers for
// the question's phase.
func AcceptsQuestion(s Stage, q *catalog.Question) error {
	phase := Phase(s)
	if phase == 0 {
		return fmt.Errorf("stage %q does not accept answers", s)
	}
	if q.Phase != phase {
		return fmt.Errorf("question %q belongs to phase %d, current phase is %d", q.ID, q.Phase, phase)
	}
	return nil
}

// PhaseComplete reports whether every question of the phase has a
// selection among the normalized selections.
func PhaseComplete(cat *catalog.Catalog, phase int, selections []scoring.Selection) bool {
	answered := make(map[string]bool, len(selections))
	for _, sel := range selections {
		answered[sel.QuestionID] = true
	}
	questions := cat.QuestionsInPhase(phase)
	if len(questions) == 0 {
		return false
	}
	for _, q := range questions {
		if !answered[q.ID] {
			return false
		}
	}
	return true
}

// Pending returns the IDs of phase questions still unanswered, in catalog
// order.
func Pending(cat *catalog.Catalog, phase int, selections []scoring.Selection) []string {
	answered := make(map[string]bool, len(selections))
	for _, sel := range selections {
		answered[sel.QuestionID] = true
	}
	var out []string
	for _, q := range cat.QuestionsInPhase(phase) {
		if !answered[q.ID] {
			out = append(out, q.ID)
		}
	}
	return out
}

// CanAdvance checks whether the flow can move past the current stage.
// phaseComplete is only consulted for answering stages.
func CanAdvance(st State, phaseComplete bool) error {
	idx := StageIndex(st.Stage)
	if idx < 0 {
		return fmt.Errorf("unknown stage %q", st.Stage)
	}
	if st.Stage == StageGraded {
		return fmt.Errorf("quiz is already graded")
	}
	if IsAnswering(st.Stage) && !phaseComplete {
		return fmt.Errorf("phase %d has unanswered questions", Phase(st.Stage))
	}
	return nil
}

// Advance moves to the next stage after validating the move.
func Advance(st *State, phaseComplete bool) error {
	if err := CanAdvance(*st, phaseComplete); err != nil {
		return err
	}
	st.Stage = StageOrder[StageIndex(st.Stage)+1]
	st.UpdatedAt = now()
	return nil
}

// timeNow is replaced by tests to freeze UpdatedAt.
var timeNow = time.Now

func now() string {
	return timeNow().UTC().Format(time.RFC3339)
}
