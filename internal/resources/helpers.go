package resources

import (
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/dossier/internal/catalog"
	"github.com/mark3labs/mcp-go/mcp"
)

// catalogView is the catalog without weights or reaction keys.
type catalogView struct {
	Categories []catalog.Category `json:"categories"`
	Traits     []catalog.Trait    `json:"traits"`
	Themes     []catalog.Theme    `json:"themes"`
	Questions  []questionView     `json:"questions"`
}

type questionView struct {
	ID      string       `json:"id"`
	Phase   int          `json:"phase"`
	Text    string       `json:"text"`
	Options []optionView `json:"options"`
}

type optionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func publicCatalog(cat *catalog.Catalog) catalogView {
	view := catalogView{
		Categories: cat.Categories,
		Traits:     cat.Traits,
		Themes:     cat.Themes,
		Questions:  make([]questionView, len(cat.Questions)),
	}
	for i, q := range cat.Questions {
		qv := questionView{ID: q.ID, Phase: q.Phase, Text: q.Text, Options: make([]optionView, len(q.Options))}
		for j, o := range q.Options {
			qv.Options[j] = optionView{ID: o.ID, Text: o.Text}
		}
		view.Questions[i] = qv
	}
	return view
}

// jsonContents marshals v as a single JSON resource.
func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
