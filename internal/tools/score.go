package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/HendryAvila/dossier/internal/engine"
	"github.com/HendryAvila/dossier/internal/scoring"
	"github.com/kaptinlin/jsonrepair"
	"github.com/mark3labs/mcp-go/mcp"
)

// ScoreTool handles the quiz_score MCP tool.
// It grades an answer list without a session.
type ScoreTool struct {
	engine *engine.Engine
}

// NewScoreTool creates a ScoreTool.
func NewScoreTool(eng *engine.Engine) *ScoreTool {
	return &ScoreTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *ScoreTool) Definition() mcp.Tool {
	return mcp.NewTool("quiz_score",
		mcp.WithDescription(
			"Score a list of answers without starting a session. Returns category and "+
				"trait scores, the profile and the chaos pattern as JSON. "+
				"Unknown questions and options are ignored.",
		),
		mcp.WithString("answers",
			mcp.Required(),
			mcp.Description("JSON array of answers: "+
				`[{"question_id": "q1", "option_ids": ["a", "c"]}, ...]`),
		),
	)
}

// Handle processes the quiz_score tool call.
func (t *ScoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := strings.TrimSpace(req.GetString("answers", ""))
	if raw == "" {
		return mcp.NewToolResultError("'answers' is required: a JSON array of {question_id, option_ids}"), nil
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'answers' is not valid JSON: %v", err)), nil
	}
	var sels []scoring.Selection
	if err := json.Unmarshal([]byte(repaired), &sels); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'answers' must be an array of {question_id, option_ids}: %v", err)), nil
	}

	result := t.engine.Grade(sels)
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
