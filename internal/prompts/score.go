package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ScorePrompt handles the dossier-score MCP prompt.
// It grades answers the user already has without opening a session.
type ScorePrompt struct{}

// NewScorePrompt creates a ScorePrompt.
func NewScorePrompt() *ScorePrompt {
	return &ScorePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ScorePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("dossier-score",
		mcp.WithPromptDescription(
			"Grade a set of answers in one go. Paste question ids with ranked "+
				"option ids and get the profile back without playing through the phases.",
		),
		mcp.WithArgument("answers",
			mcp.ArgumentDescription("Answers in any readable form, e.g. 'q1: b,a; q2: c'"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the dossier-score prompt request.
func (p *ScorePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	answers := ""
	if args := req.Params.Arguments; args != nil {
		answers = args["answers"]
	}

	return &mcp.GetPromptResult{
		Description: "Grade answers without a session",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Here are my answers:\n\n" + answers + "\n\n" +
						"Then:\n" +
						"1. Convert them to a JSON array of {\"question_id\", \"option_ids\"}, keeping my ranking order\n" +
						"2. Run `quiz_score` with that array as `answers`\n" +
						"3. Tell me my leading category, any hybrid profile, my clearance tier and my chaos pattern\n" +
						"4. Mention any answers the scorer ignored because the ids were unknown",
				),
			},
		},
	}, nil
}
