// Package templates renders quiz screens and the final dossier as
// Markdown from embedded text/template files.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/HendryAvila/dossier/internal/pattern"
	"github.com/HendryAvila/dossier/internal/profile"
)

//go:embed files/*.md.tmpl
var files embed.FS

// Template names.
const (
	Questions  = "questions.md.tmpl"
	Transition = "transition.md.tmpl"
	Dossier    = "dossier.md.tmpl"
)

// barWidth is the number of cells in a percentage bar.
const barWidth = 10

// Renderer renders a named template with data.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// EmbedRenderer renders the embedded templates.
type EmbedRenderer struct {
	tmpl *template.Template
}

// NewRenderer parses every embedded template.
func NewRenderer() (*EmbedRenderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"bar":   Bar,
		"arrow": Arrow,
	}).ParseFS(files, "files/*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("templates: parse: %w", err)
	}
	return &EmbedRenderer{tmpl: tmpl}, nil
}

// Render executes the named template.
func (r *EmbedRenderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("templates: render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Bar draws a fixed-width bar for a percentage clamped to 0..100.
func Bar(percent int) string {
	percent = min(max(percent, 0), 100)
	filled := (percent*barWidth + 50) / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// Arrow renders a movement marker.
func Arrow(m profile.Movement) string {
	switch m {
	case profile.MovementUp:
		return "▲"
	case profile.MovementDown:
		return "▼"
	case profile.MovementStable:
		return "="
	}
	return ""
}

// --- Data ---

// OptionView is one option of a question screen.
type OptionView struct {
	ID   string
	Text string
}

// QuestionView is one question of a question screen.
type QuestionView struct {
	ID      string
	Text    string
	Options []OptionView
}

// QuestionsData feeds the Questions template.
type QuestionsData struct {
	SessionID string
	Phase     int
	Questions []QuestionView
}

// StandingView is a standing with its display name.
type StandingView struct {
	Position int
	Name     string
	Score    int
	Percent  int
	Movement profile.Movement
}

// TraitView is a trait with its display name and level.
type TraitView struct {
	Name    string
	Percent int
	Level   string
}

// TransitionData feeds the Transition template.
type TransitionData struct {
	Boundary      int
	Standings     []StandingView
	Highlights    []TraitView
	Message       string
	DamageProfile string
	Warning       string
	EasterEgg     string
	NextPhase     int
}

// DossierData feeds the Dossier template.
type DossierData struct {
	SessionID          string
	LeadingName        string
	LeadingDescription string
	Ranking            []StandingView
	Traits             []TraitView
	Hybrid             profile.Hybrid
	HybridNames        string
	ThemeName          string
	Clearance          profile.Clearance
	Chaos              pattern.Result
}
