package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptText(t *testing.T, r *mcp.GetPromptResult) string {
	t.Helper()
	if len(r.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(r.Messages))
	}
	tc, ok := r.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T", r.Messages[0].Content)
	}
	return tc.Text
}

func TestStartPrompt(t *testing.T) {
	p := NewStartPrompt()
	if p.Definition().Name != "dossier-start" {
		t.Errorf("name = %s", p.Definition().Name)
	}

	req := mcp.GetPromptRequest{}
	r, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := promptText(t, r)
	for _, want := range []string{"Call me Candidate", "one question per message", "quiz_start", "quiz_transition", "quiz_result"} {
		if !strings.Contains(text, want) {
			t.Errorf("default prompt missing %q", want)
		}
	}

	req.Params.Arguments = map[string]string{"codename": "Magpie", "style": "batch"}
	r, _ = p.Handle(context.Background(), req)
	text = promptText(t, r)
	if !strings.Contains(text, "Call me Magpie") || !strings.Contains(text, "every question of the phase") {
		t.Errorf("arguments ignored: %s", text)
	}
}

func TestScorePrompt(t *testing.T) {
	p := NewScorePrompt()
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"answers": "q1: b,a"}

	r, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := promptText(t, r)
	if !strings.Contains(text, "q1: b,a") || !strings.Contains(text, "quiz_score") {
		t.Errorf("prompt = %s", text)
	}
}
