package resources

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/HendryAvila/dossier/internal/catalog"
	"github.com/HendryAvila/dossier/internal/pipeline"
	"github.com/HendryAvila/dossier/internal/scoring"
	"github.com/HendryAvila/dossier/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

func newHandler(t *testing.T) (*Handler, *session.Store) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	store, err := session.New(t.TempDir())
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewHandler(cat, store), store
}

func read(t *testing.T, handle func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error), uri string) mcp.TextResourceContents {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	contents, err := handle(context.Background(), req)
	if err != nil {
		t.Fatalf("handle %s: %v", uri, err)
	}
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content type = %T", contents[0])
	}
	return tc
}

// --- Catalog ---

func TestHandleCatalog(t *testing.T) {
	h, _ := newHandler(t)
	tc := read(t, h.HandleCatalog, CatalogURI)

	if tc.MIMEType != "application/json" {
		t.Errorf("MIME = %s", tc.MIMEType)
	}
	var view catalogView
	if err := json.Unmarshal([]byte(tc.Text), &view); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if len(view.Questions) != 9 || len(view.Questions[8].Options) != 8 {
		t.Errorf("questions = %d", len(view.Questions))
	}
	if strings.Contains(tc.Text, `"categories": {`) || strings.Contains(tc.Text, "recklessness\": 3") {
		t.Error("catalog resource leaks option weights")
	}
}

// --- Session ---

func TestHandleSession(t *testing.T) {
	h, store := newHandler(t)
	if _, err := store.CreateSession("s1"); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveAnswer("s1", scoring.Selection{QuestionID: "q2", OptionIDs: []string{"c"}}, "Noted."); err != nil {
		t.Fatal(err)
	}

	tc := read(t, h.HandleSession, "dossier://sessions/s1")
	var status sessionStatus
	if err := json.Unmarshal([]byte(tc.Text), &status); err != nil {
		t.Fatalf("not JSON: %v\n%s", err, tc.Text)
	}
	if status.Session.Stage != pipeline.StageAnswering1 || status.Phase != 1 {
		t.Errorf("status = %+v", status)
	}
	if len(status.Answers) != 1 || status.Answers[0].Reaction != "Noted." {
		t.Errorf("answers = %+v", status.Answers)
	}
	if strings.Join(status.Pending, ",") != "q1,q3" {
		t.Errorf("pending = %v", status.Pending)
	}
}

func TestHandleSession_NoPendingBetweenPhases(t *testing.T) {
	h, store := newHandler(t)
	store.CreateSession("s1")
	if err := store.SetStage("s1", pipeline.StageTransition12); err != nil {
		t.Fatal(err)
	}

	tc := read(t, h.HandleSession, "dossier://sessions/s1")
	if strings.Contains(tc.Text, "pending") {
		t.Errorf("pending listed during a transition: %s", tc.Text)
	}
}

func TestHandleSession_Errors(t *testing.T) {
	h, _ := newHandler(t)

	for _, uri := range []string{"dossier://sessions/missing", "dossier://sessions/", "dossier://other"} {
		tc := read(t, h.HandleSession, uri)
		if tc.MIMEType != "text/plain" || !strings.HasPrefix(tc.Text, "Error:") {
			t.Errorf("%s: got %s %q", uri, tc.MIMEType, tc.Text)
		}
	}
}
