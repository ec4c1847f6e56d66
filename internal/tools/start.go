package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/dossier/internal/engine"
	"github.com/HendryAvila/dossier/internal/templates"
	"github.com/mark3labs/mcp-go/mcp"
)

// StartTool handles the quiz_start MCP tool.
// It opens a session and returns the phase 1 questions.
type StartTool struct {
	store    SessionStore
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewStartTool creates a StartTool with its dependencies.
func NewStartTool(store SessionStore, eng *engine.Engine, renderer templates.Renderer) *StartTool {
	return &StartTool{store: store, engine: eng, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *StartTool) Definition() mcp.Tool {
	return mcp.NewTool("quiz_start",
		mcp.WithDescription(
			"Start a new agent-evaluation quiz. Creates a session and returns the "+
				"phase 1 questions. Present the questions to the user, collect their "+
				"ranked picks, then call `quiz_answer` once per question.",
		),
	)
}

// Handle processes the quiz_start tool call.
func (t *StartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := newSessionID()
	sess, err := t.store.CreateSession(id)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	screen, err := t.renderer.Render(templates.Questions, questionsData(t.engine.Catalog(), sess.ID, 1))
	if err != nil {
		return nil, fmt.Errorf("rendering questions: %w", err)
	}

	response := fmt.Sprintf(
		"# Evaluation Started\n\n"+
			"Session ID: `%s`\n\n"+
			"%s\n"+
			"---\n\n"+
			"## Next Step\n\n"+
			"Ask the user each question. Record every answer with `quiz_answer` "+
			"(session_id, question_id, option_ids ranked most preferred first).",
		sess.ID, screen,
	)
	return mcp.NewToolResultText(response), nil
}
