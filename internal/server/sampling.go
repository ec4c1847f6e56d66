package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/HendryAvila/dossier/internal/narrative"
	"github.com/mark3labs/mcp-go/mcp"
)

// samplingMaxTokens caps one reaction; the override limit is far lower.
const samplingMaxTokens = 200

const samplingSystemPrompt = `You write one-line reactions for an agent-evaluation quiz, in the voice of a dry intelligence bureaucracy.
You receive the question id, the chosen option, its reaction flavor and the candidate's recent first-pick letters.
Reply with JSON only: {"text": "<one or two plain sentences, at most 280 characters>"}.`

// sampler is the part of *server.MCPServer the generator needs.
type sampler interface {
	RequestSampling(ctx context.Context, request mcp.CreateMessageRequest) (*mcp.CreateMessageResult, error)
}

// samplingGenerator asks the connected client's model for reaction text.
type samplingGenerator struct {
	sampler sampler
	timeout time.Duration
}

func newSamplingGenerator(s sampler, timeout time.Duration) *samplingGenerator {
	return &samplingGenerator{sampler: s, timeout: timeout}
}

// Generate implements narrative.Generator. The raw reply is returned
// unvalidated; narrative.ParseOverride checks it.
func (g *samplingGenerator) Generate(ctx context.Context, p narrative.Prompt) (string, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("sampling: encoding prompt: %w", err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	res, err := g.sampler.RequestSampling(ctx, mcp.CreateMessageRequest{
		CreateMessageParams: mcp.CreateMessageParams{
			Messages: []mcp.SamplingMessage{{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(string(payload)),
			}},
			SystemPrompt: samplingSystemPrompt,
			MaxTokens:    samplingMaxTokens,
			Temperature:  0.8,
		},
	})
	if err != nil {
		return "", fmt.Errorf("sampling: %w", err)
	}
	if res == nil {
		return "", errors.New("sampling: empty result")
	}

	switch c := res.Content.(type) {
	case mcp.TextContent:
		return c.Text, nil
	case *mcp.TextContent:
		return c.Text, nil
	default:
		return "", fmt.Errorf("sampling: unexpected content %T", res.Content)
	}
}
