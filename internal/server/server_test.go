package server

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/HendryAvila/dossier/internal/config"
	"github.com/HendryAvila/dossier/internal/metrics"
	"github.com/HendryAvila/dossier/internal/narrative"
	"github.com/HendryAvila/dossier/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
)

func loadConfig(t *testing.T, dataDir string) *config.Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DOSSIER_DATA_DIR", dataDir)
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

// rpc sends one JSON-RPC request through the server and returns the raw
// response.
func rpc(t *testing.T, s *server.MCPServer, method string) string {
	t.Helper()
	msg := `{"jsonrpc":"2.0","id":1,"method":"` + method + `","params":{}}`
	resp := s.HandleMessage(context.Background(), json.RawMessage(msg))
	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return string(out)
}

// --- New ---

func TestNew_RegistersEverything(t *testing.T) {
	cfg := loadConfig(t, t.TempDir())
	s, cleanup, err := New(cfg, metrics.MustNewMetrics(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()

	tools := rpc(t, s, "tools/list")
	for _, name := range []string{"quiz_start", "quiz_answer", "quiz_transition", "quiz_result", "quiz_score"} {
		if !strings.Contains(tools, `"`+name+`"`) {
			t.Errorf("tool %s not registered", name)
		}
	}
	prompts := rpc(t, s, "prompts/list")
	for _, name := range []string{"dossier-start", "dossier-score"} {
		if !strings.Contains(prompts, name) {
			t.Errorf("prompt %s not registered", name)
		}
	}
	if !strings.Contains(rpc(t, s, "resources/list"), "dossier://catalog") {
		t.Error("catalog resource not registered")
	}
	if !strings.Contains(rpc(t, s, "resources/templates/list"), "dossier://sessions/{id}") {
		t.Error("session template not registered")
	}
	if _, err := os.Stat(filepath.Join(cfg.DataDir, session.DBFile)); err != nil {
		t.Errorf("session database not created: %v", err)
	}
}

func TestNew_DegradesWithoutSessionStore(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	// A regular file where the data directory should be.
	cfg := loadConfig(t, blocker)

	s, cleanup, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()

	tools := rpc(t, s, "tools/list")
	if !strings.Contains(tools, "quiz_score") {
		t.Error("stateless scoring should stay available")
	}
	if strings.Contains(tools, "quiz_start") {
		t.Error("session tools registered without a store")
	}
}

func TestNew_WithSampling(t *testing.T) {
	cfg := loadConfig(t, t.TempDir())
	cfg.Sampling = true

	_, cleanup, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cleanup()
}

// --- samplingGenerator ---

type fakeSampler struct {
	result      *mcp.CreateMessageResult
	err         error
	got         mcp.CreateMessageRequest
	hadDeadline bool
}

func (f *fakeSampler) RequestSampling(ctx context.Context, req mcp.CreateMessageRequest) (*mcp.CreateMessageResult, error) {
	f.got = req
	_, f.hadDeadline = ctx.Deadline()
	return f.result, f.err
}

func textResult(text string) *mcp.CreateMessageResult {
	return &mcp.CreateMessageResult{
		SamplingMessage: mcp.SamplingMessage{Role: mcp.RoleAssistant, Content: mcp.NewTextContent(text)},
	}
}

func TestSamplingGenerator(t *testing.T) {
	prompt := narrative.Prompt{QuestionID: "q1", OptionID: "a", Reaction: "bold", Recent: "a"}

	t.Run("returns text", func(t *testing.T) {
		f := &fakeSampler{result: textResult(`{"text": "Filed."}`)}
		out, err := newSamplingGenerator(f, time.Second).Generate(context.Background(), prompt)
		if err != nil || out != `{"text": "Filed."}` {
			t.Fatalf("Generate = %q, %v", out, err)
		}
		if !f.hadDeadline {
			t.Error("timeout not applied")
		}
		if f.got.MaxTokens != samplingMaxTokens || len(f.got.Messages) != 1 {
			t.Errorf("request = %+v", f.got.CreateMessageParams)
		}
		body, _ := f.got.Messages[0].Content.(mcp.TextContent)
		if !strings.Contains(body.Text, `"question_id":"q1"`) {
			t.Errorf("prompt payload = %q", body.Text)
		}
	})

	t.Run("propagates errors", func(t *testing.T) {
		f := &fakeSampler{err: errors.New("client does not support sampling")}
		if _, err := newSamplingGenerator(f, 0).Generate(context.Background(), prompt); err == nil {
			t.Fatal("expected error")
		}
		if f.hadDeadline {
			t.Error("zero timeout should not set a deadline")
		}
	})

	t.Run("rejects non-text content", func(t *testing.T) {
		f := &fakeSampler{result: &mcp.CreateMessageResult{
			SamplingMessage: mcp.SamplingMessage{Role: mcp.RoleAssistant, Content: mcp.NewImageContent("AAAA", "image/png")},
		}}
		if _, err := newSamplingGenerator(f, time.Second).Generate(context.Background(), prompt); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("empty result", func(t *testing.T) {
		if _, err := newSamplingGenerator(&fakeSampler{}, time.Second).Generate(context.Background(), prompt); err == nil {
			t.Fatal("expected error")
		}
	})
}
