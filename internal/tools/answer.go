package tools

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/HendryAvila/dossier/internal/engine"
	"github.com/HendryAvila/dossier/internal/pipeline"
	"github.com/HendryAvila/dossier/internal/scoring"
	"github.com/mark3labs/mcp-go/mcp"
)

// AnswerTool handles the quiz_answer MCP tool.
// It records one ranked answer and returns the reaction text.
type AnswerTool struct {
	store  SessionStore
	engine *engine.Engine
	rand   RandSource
}

// NewAnswerTool creates an AnswerTool with its dependencies.
func NewAnswerTool(store SessionStore, eng *engine.Engine, rand RandSource) *AnswerTool {
	return &AnswerTool{store: store, engine: eng, rand: rand}
}

// Definition returns the MCP tool definition for registration.
func (t *AnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("quiz_answer",
		mcp.WithDescription(
			"Record the user's answer to one question of the current phase. "+
				"Up to three options may be ranked; the first counts most. "+
				"Answering the same question again replaces the earlier answer. "+
				"Returns a short reaction to show the user.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID returned by quiz_start"),
		),
		mcp.WithString("question_id",
			mcp.Required(),
			mcp.Description("Question ID, e.g. 'q1'"),
		),
		mcp.WithString("option_ids",
			mcp.Required(),
			mcp.Description("Chosen option IDs, most preferred first, separated by commas. Example: 'b,a'"),
		),
		mcp.WithString("override",
			mcp.Description("Optional reaction you wrote yourself, as JSON: {\"text\": \"...\"}. "+
				"Plain, at most 280 characters. Invalid input is ignored and a stock reaction is used."),
		),
	)
}

// Handle processes the quiz_answer tool call.
func (t *AnswerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult, err := loadSession(t.store, req.GetString("session_id", ""))
	if err != nil || errResult != nil {
		return errResult, err
	}

	cat := t.engine.Catalog()
	questionID := strings.TrimSpace(req.GetString("question_id", ""))
	q, ok := cat.Question(questionID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown question %q.", questionID)), nil
	}
	if err := pipeline.AcceptsQuestion(sess.Stage, q); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Cannot record this answer: %v.", err)), nil
	}

	clean := t.engine.NormalizeSelections([]scoring.Selection{{
		QuestionID: q.ID,
		OptionIDs:  parseOptionIDs(req.GetString("option_ids", "")),
	}})
	if len(clean) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("No valid options for %s. Use the option IDs shown with the question.", q.ID)), nil
	}
	sel := clean[0]

	prior, err := t.store.Selections(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("loading answers: %w", err)
	}
	recent := t.engine.Letters(t.engine.NormalizeSelections(withAnswer(prior, sel)))

	reaction := t.engine.ComposeReaction(ctx, engine.ReactionRequest{
		QuestionID: q.ID,
		OptionID:   sel.OptionIDs[0],
		Recent:     recent,
		Override:   req.GetString("override", ""),
	}, t.rand.New())
	if reaction.Fallback != "" {
		log.Printf("WARNING: override for %s/%s not used (%s)", q.ID, sel.OptionIDs[0], reaction.Fallback)
	}

	if err := t.store.SaveAnswer(sess.ID, sel, reaction.Text); err != nil {
		return nil, fmt.Errorf("saving answer: %w", err)
	}

	all, err := t.store.Selections(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("loading answers: %w", err)
	}
	all = t.engine.NormalizeSelections(all)
	phase := pipeline.Phase(sess.Stage)

	var next string
	if pipeline.PhaseComplete(cat, phase, all) {
		st := pipeline.State{Stage: sess.Stage}
		if err := pipeline.Advance(&st, true); err != nil {
			return nil, fmt.Errorf("advancing stage: %w", err)
		}
		if err := t.store.SetStage(sess.ID, st.Stage); err != nil {
			return nil, fmt.Errorf("saving stage: %w", err)
		}
		if st.Stage == pipeline.StageGraded {
			next = "All phases complete. Call `quiz_result` to open the dossier."
		} else {
			next = fmt.Sprintf("Phase %d complete. Call `quiz_transition` for the interim review.", phase)
		}
	} else {
		pending := pipeline.Pending(cat, phase, all)
		next = fmt.Sprintf("Still to answer in phase %d: %s.", phase, strings.Join(pending, ", "))
	}

	response := fmt.Sprintf(
		"# Answer Recorded\n\n"+
			"**%s**: %s\n\n"+
			"> %s\n\n"+
			"---\n\n"+
			"## Next Step\n\n%s",
		q.ID, strings.Join(sel.OptionIDs, ", "), reaction.Text, next,
	)
	return mcp.NewToolResultText(response), nil
}

// withAnswer returns sels as the store will hold them after sel is saved:
// a re-answer replaces the earlier selection in place, a new answer goes
// last.
func withAnswer(sels []scoring.Selection, sel scoring.Selection) []scoring.Selection {
	out := make([]scoring.Selection, 0, len(sels)+1)
	replaced := false
	for _, s := range sels {
		if s.QuestionID == sel.QuestionID {
			s = sel
			replaced = true
		}
		out = append(out, s)
	}
	if !replaced {
		out = append(out, sel)
	}
	return out
}
