// Package resources implements MCP resource handlers for the dossier quiz.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (dossier://...) following MCP conventions.
package resources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/dossier/internal/catalog"
	"github.com/HendryAvila/dossier/internal/pipeline"
	"github.com/HendryAvila/dossier/internal/scoring"
	"github.com/HendryAvila/dossier/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	// CatalogURI addresses the public question catalog.
	CatalogURI = "dossier://catalog"
	// sessionURIPrefix prefixes dossier://sessions/{id}.
	sessionURIPrefix = "dossier://sessions/"
)

// SessionReader is the read side of the session store.
type SessionReader interface {
	GetSession(id string) (*session.Session, error)
	Answers(sessionID string) ([]session.Answer, error)
}

// Handler manages dossier resource endpoints.
type Handler struct {
	cat   *catalog.Catalog
	store SessionReader
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(cat *catalog.Catalog, store SessionReader) *Handler {
	return &Handler{cat: cat, store: store}
}

// CatalogResource returns the MCP resource definition for the catalog.
func (h *Handler) CatalogResource() mcp.Resource {
	return mcp.NewResource(
		CatalogURI,
		"Dossier Question Catalog",
		mcp.WithResourceDescription("Categories, traits, themes and every question with its options. Scoring weights are not included."),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleCatalog returns the public catalog as JSON.
func (h *Handler) HandleCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, publicCatalog(h.cat))
}

// SessionTemplate returns the MCP resource template for session status.
func (h *Handler) SessionTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		sessionURIPrefix+"{id}",
		"Dossier Session Status",
		mcp.WithTemplateDescription("Stage, recorded answers and unanswered questions of a quiz session"),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

// sessionStatus is the JSON shape of a session resource.
type sessionStatus struct {
	Session *session.Session `json:"session"`
	Phase   int              `json:"phase,omitempty"`
	Answers []session.Answer `json:"answers"`
	Pending []string         `json:"pending,omitempty"`
}

// HandleSession returns one session's status as JSON.
func (h *Handler) HandleSession(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id := strings.TrimPrefix(uri, sessionURIPrefix)
	if id == "" || id == uri {
		return errorResource(uri, "expected "+sessionURIPrefix+"{id}"), nil
	}

	sess, err := h.store.GetSession(id)
	if errors.Is(err, session.ErrNotFound) {
		return errorResource(uri, fmt.Sprintf("session %q not found", id)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	answers, err := h.store.Answers(id)
	if err != nil {
		return nil, fmt.Errorf("loading answers: %w", err)
	}

	status := sessionStatus{
		Session: sess,
		Phase:   pipeline.Phase(sess.Stage),
		Answers: answers,
	}
	if status.Phase > 0 {
		sels := make([]scoring.Selection, len(answers))
		for i, a := range answers {
			sels[i] = scoring.Selection{QuestionID: a.QuestionID, OptionIDs: a.OptionIDs}
		}
		status.Pending = pipeline.Pending(h.cat, status.Phase, sels)
	}
	return jsonContents(uri, status)
}
