package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/dossier/internal/engine"
	"github.com/HendryAvila/dossier/internal/pipeline"
	"github.com/HendryAvila/dossier/internal/templates"
	"github.com/mark3labs/mcp-go/mcp"
)

// ResultTool handles the quiz_result MCP tool.
// It grades a finished session and renders the dossier.
type ResultTool struct {
	store    SessionStore
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewResultTool creates a ResultTool with its dependencies.
func NewResultTool(store SessionStore, eng *engine.Engine, renderer templates.Renderer) *ResultTool {
	return &ResultTool{store: store, engine: eng, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *ResultTool) Definition() mcp.Tool {
	return mcp.NewTool("quiz_result",
		mcp.WithDescription(
			"Open the final dossier for a completed quiz: leading category, hybrid "+
				"profile, trait levels, method of operation and clearance tier. "+
				"Only valid once all three phases are answered.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID returned by quiz_start"),
		),
	)
}

// Handle processes the quiz_result tool call.
func (t *ResultTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult, err := loadSession(t.store, req.GetString("session_id", ""))
	if err != nil || errResult != nil {
		return errResult, err
	}
	if sess.Stage != pipeline.StageGraded {
		return mcp.NewToolResultError(fmt.Sprintf(
			"The dossier is not ready: the session is at stage %q.", sess.Stage)), nil
	}

	sels, err := t.store.Selections(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("loading answers: %w", err)
	}
	result := t.engine.Grade(sels)

	content, err := t.renderer.Render(templates.Dossier, dossierData(t.engine, sess.ID, result))
	if err != nil {
		return nil, fmt.Errorf("rendering dossier: %w", err)
	}
	return mcp.NewToolResultText(content), nil
}
