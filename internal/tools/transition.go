package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/dossier/internal/engine"
	"github.com/HendryAvila/dossier/internal/narrative"
	"github.com/HendryAvila/dossier/internal/pipeline"
	"github.com/HendryAvila/dossier/internal/profile"
	"github.com/HendryAvila/dossier/internal/templates"
	"github.com/mark3labs/mcp-go/mcp"
)

// TransitionTool handles the quiz_transition MCP tool.
// It produces the interim review between two phases and opens the next.
type TransitionTool struct {
	store    SessionStore
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewTransitionTool creates a TransitionTool with its dependencies.
func NewTransitionTool(store SessionStore, eng *engine.Engine, renderer templates.Renderer) *TransitionTool {
	return &TransitionTool{store: store, engine: eng, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *TransitionTool) Definition() mcp.Tool {
	return mcp.NewTool("quiz_transition",
		mcp.WithDescription(
			"Produce the interim review after a completed phase: current standings "+
				"with movement since the last review, notable traits and the board's "+
				"message. Then returns the next phase's questions. "+
				"Only valid after quiz_answer reports a phase complete.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID returned by quiz_start"),
		),
	)
}

// Handle processes the quiz_transition tool call.
func (t *TransitionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult, err := loadSession(t.store, req.GetString("session_id", ""))
	if err != nil || errResult != nil {
		return errResult, err
	}

	boundary := pipeline.Boundary(sess.Stage)
	if boundary == 0 {
		return mcp.NewToolResultError(fmt.Sprintf(
			"No review is due: the session is at stage %q.", sess.Stage)), nil
	}

	sels, err := t.store.Selections(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("loading answers: %w", err)
	}
	var prior []profile.Standing
	snap, err := t.store.LatestStandings(sess.ID, boundary)
	if err != nil {
		return nil, fmt.Errorf("loading standings: %w", err)
	}
	if snap != nil {
		prior = snap.Standings
	}

	tr := t.engine.ComposeTransition(sels, boundary, prior)

	if err := t.store.SaveStandings(sess.ID, boundary, tr.Standings); err != nil {
		return nil, fmt.Errorf("saving standings: %w", err)
	}
	st := pipeline.State{Stage: sess.Stage}
	if err := pipeline.Advance(&st, true); err != nil {
		return nil, fmt.Errorf("advancing stage: %w", err)
	}
	if err := t.store.SetStage(sess.ID, st.Stage); err != nil {
		return nil, fmt.Errorf("saving stage: %w", err)
	}

	nextPhase := pipeline.Phase(st.Stage)
	review, err := t.renderer.Render(templates.Transition, transitionData(t.engine, tr, nextPhase))
	if err != nil {
		return nil, fmt.Errorf("rendering transition: %w", err)
	}
	screen, err := t.renderer.Render(templates.Questions, questionsData(t.engine.Catalog(), sess.ID, nextPhase))
	if err != nil {
		return nil, fmt.Errorf("rendering questions: %w", err)
	}

	return mcp.NewToolResultText(review + "\n\n---\n\n" + screen), nil
}

func transitionData(eng *engine.Engine, tr narrative.Transition, nextPhase int) templates.TransitionData {
	return templates.TransitionData{
		Boundary:      tr.Boundary,
		Standings:     standingViews(eng.Catalog(), tr.Standings),
		Highlights:    highlightViews(tr.Highlights),
		Message:       tr.Message,
		DamageProfile: tr.DamageProfile,
		Warning:       tr.Warning,
		EasterEgg:     tr.EasterEgg,
		NextPhase:     nextPhase,
	}
}
