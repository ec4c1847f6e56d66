// Package tools implements MCP tool handlers for the quiz flow.
//
// Each tool is a struct that receives its dependencies at construction
// and exposes Definition and Handle for registration with mcp-go.
//
// Design principles:
// - SRP: each file = one tool
// - DIP: tools depend on interfaces (SessionStore, templates.Renderer), not concretions
// - the engine is stateless; tools replay the stored answers on every call
package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/dossier/internal/catalog"
	"github.com/HendryAvila/dossier/internal/narrative"
	"github.com/HendryAvila/dossier/internal/pipeline"
	"github.com/HendryAvila/dossier/internal/profile"
	"github.com/HendryAvila/dossier/internal/scoring"
	"github.com/HendryAvila/dossier/internal/session"
	"github.com/HendryAvila/dossier/internal/templates"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// SessionStore is the persistence the quiz tools need.
type SessionStore interface {
	CreateSession(id string) (*session.Session, error)
	GetSession(id string) (*session.Session, error)
	SetStage(id string, stage pipeline.Stage) error
	SaveAnswer(sessionID string, sel scoring.Selection, reaction string) error
	Selections(sessionID string) ([]scoring.Selection, error)
	SaveStandings(sessionID string, boundary int, standings []profile.Standing) error
	LatestStandings(sessionID string, before int) (*session.Snapshot, error)
}

// RandSource hands out a generator per call.
type RandSource interface {
	New() narrative.Rand
}

// newSessionID is a package-level var so tests can pin session ids.
var newSessionID = uuid.NewString

// loadSession fetches a session, turning a missing one into a tool error.
func loadSession(store SessionStore, id string) (*session.Session, *mcp.CallToolResult, error) {
	if id == "" {
		return nil, mcp.NewToolResultError("'session_id' is required. Start a quiz with `quiz_start` first."), nil
	}
	sess, err := store.GetSession(id)
	if errors.Is(err, session.ErrNotFound) {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Session %q not found. Start a quiz with `quiz_start`.", id)), nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil, nil
}

// parseOptionIDs splits a comma or whitespace separated ranking.
func parseOptionIDs(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ToLower(strings.TrimSpace(f)))
	}
	return out
}

// questionsData builds the question screen for a phase.
func questionsData(cat *catalog.Catalog, sessionID string, phase int) templates.QuestionsData {
	data := templates.QuestionsData{SessionID: sessionID, Phase: phase}
	for _, q := range cat.QuestionsInPhase(phase) {
		view := templates.QuestionView{ID: q.ID, Text: q.Text}
		for _, o := range q.Options {
			view.Options = append(view.Options, templates.OptionView{ID: o.ID, Text: o.Text})
		}
		data.Questions = append(data.Questions, view)
	}
	return data
}

// standingViews resolves category names for display.
func standingViews(cat *catalog.Catalog, standings []profile.Standing) []templates.StandingView {
	out := make([]templates.StandingView, len(standings))
	for i, s := range standings {
		out[i] = templates.StandingView{
			Position: s.Position,
			Name:     cat.CategoryName(s.Code),
			Score:    s.Score,
			Percent:  s.Percent,
			Movement: s.Movement,
		}
	}
	return out
}

// highlightViews converts trait highlights for display.
func highlightViews(highlights []narrative.Highlight) []templates.TraitView {
	out := make([]templates.TraitView, len(highlights))
	for i, h := range highlights {
		out[i] = templates.TraitView{Name: h.Name, Percent: h.Percent, Level: string(h.Level)}
	}
	return out
}
