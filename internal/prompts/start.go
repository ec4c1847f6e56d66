// Package prompts implements MCP prompt handlers for the dossier quiz.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to drive the quiz tools in a fixed sequence. Unlike
// tools (which the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the dossier-start MCP prompt.
// It walks the AI through a full three-phase evaluation.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("dossier-start",
		mcp.WithPromptDescription(
			"Start an agent evaluation. Nine scenario questions over three phases, "+
				"an interim review after each phase and a classified dossier at the end.",
		),
		mcp.WithArgument("codename",
			mcp.ArgumentDescription("What to call the candidate in the reviews. Default: Candidate"),
		),
		mcp.WithArgument("style",
			mcp.ArgumentDescription(
				"How to present questions: 'one' (one question per message) or 'batch' (the whole phase at once). Default: one",
			),
		),
	)
}

// Handle processes the dossier-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	codename := "Candidate"
	style := "one"
	if args := req.Params.Arguments; args != nil {
		if c, ok := args["codename"]; ok && c != "" {
			codename = c
		}
		if s, ok := args["style"]; ok && s != "" {
			style = s
		}
	}

	pacing := "Ask one question per message and wait for my picks before moving on."
	if style == "batch" {
		pacing = "Show me every question of the phase at once; I will answer them together."
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Agent evaluation for %s", codename),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Evaluate me as a field agent. Call me %s.\n\n"+
						"Please:\n"+
						"1. Run `quiz_start` and keep the session ID\n"+
						"2. %s I may rank up to three options, most preferred first\n"+
						"3. Record each answer with `quiz_answer` and read me the reaction it returns\n"+
						"4. When a phase is complete, run `quiz_transition` and present the interim review\n"+
						"5. After phase 3, run `quiz_result` and present my dossier in full\n\n"+
						"Stay in character as the evaluation board. Do not reveal how answers are scored.",
					codename, pacing,
				)),
			},
		},
	}, nil
}
