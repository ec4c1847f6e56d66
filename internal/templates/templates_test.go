package templates

import (
	"strings"
	"testing"

	"github.com/HendryAvila/dossier/internal/pattern"
	"github.com/HendryAvila/dossier/internal/profile"
)

func newRenderer(t *testing.T) *EmbedRenderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func assertContains(t *testing.T, out string, checks ...string) {
	t.Helper()
	for _, check := range checks {
		if !strings.Contains(out, check) {
			t.Errorf("output missing %q\n%s", check, out)
		}
	}
}

// --- Bar / Arrow ---

func TestBar(t *testing.T) {
	tests := []struct {
		pct    int
		filled int
	}{
		{0, 0},
		{4, 0},
		{5, 1},
		{50, 5},
		{100, 10},
		{140, 10},
		{-3, 0},
	}
	for _, tt := range tests {
		got := Bar(tt.pct)
		if n := strings.Count(got, "█"); n != tt.filled {
			t.Errorf("Bar(%d) filled = %d, want %d", tt.pct, n, tt.filled)
		}
		if n := strings.Count(got, "█") + strings.Count(got, "░"); n != barWidth {
			t.Errorf("Bar(%d) width = %d", tt.pct, n)
		}
	}
}

func TestArrow(t *testing.T) {
	if Arrow(profile.MovementUp) != "▲" || Arrow(profile.MovementDown) != "▼" || Arrow(profile.MovementStable) != "=" {
		t.Error("unexpected arrows")
	}
	if Arrow(profile.MovementNone) != "" {
		t.Error("no movement should render empty")
	}
}

// --- Render ---

func TestRender_Questions(t *testing.T) {
	r := newRenderer(t)

	out, err := r.Render(Questions, QuestionsData{
		SessionID: "abc",
		Phase:     2,
		Questions: []QuestionView{{
			ID:   "q4",
			Text: "Pick one",
			Options: []OptionView{
				{ID: "a", Text: "Alpha"},
				{ID: "b", Text: "Beta"},
			},
		}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	assertContains(t, out, "Phase 2 of 3", "`abc`", "### q4. Pick one", "- **a**: Alpha", "- **b**: Beta")
}

func TestRender_Transition(t *testing.T) {
	r := newRenderer(t)

	out, err := r.Render(Transition, TransitionData{
		Boundary: 2,
		Standings: []StandingView{
			{Position: 1, Name: "Ghost", Percent: 60, Movement: profile.MovementUp},
			{Position: 2, Name: "Analyst", Percent: 40, Movement: profile.MovementDown},
		},
		Highlights:    []TraitView{{Name: "Paranoia", Percent: 70, Level: "high"}},
		Message:       "The board notes things.",
		DamageProfile: "Damage profile: considerable.",
		Warning:       "Read the questions.",
		NextPhase:     3,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	assertContains(t, out,
		"phase 2 complete",
		"| 1 | Ghost | ██████░░░░ 60% | ▲ |",
		"| 2 | Analyst |",
		"- Paranoia: 70% (high)",
		"The board notes things.",
		"> Damage profile: considerable.",
		"_Warning: Read the questions._",
		"Phase 3 follows.",
	)
}

func TestRender_TransitionOmitsEmptySections(t *testing.T) {
	r := newRenderer(t)

	out, err := r.Render(Transition, TransitionData{Boundary: 1, Message: "Plain."})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, absent := range []string{"Notable traits", "Warning", "follows", ">"} {
		if strings.Contains(out, absent) {
			t.Errorf("output unexpectedly contains %q\n%s", absent, out)
		}
	}
}

func TestRender_Dossier(t *testing.T) {
	r := newRenderer(t)

	out, err := r.Render(Dossier, DossierData{
		SessionID:          "abc",
		LeadingName:        "Ghost",
		LeadingDescription: "Was in the room.",
		Ranking:            []StandingView{{Position: 1, Name: "Ghost", Score: 52, Percent: 52}},
		Traits:             []TraitView{{Name: "Charm", Percent: 10, Level: "low"}},
		Hybrid:             profile.Hybrid{Detected: true, Primary: "ghost", Secondary: "diplomat", Gap: 4, Description: "Quietly persuasive."},
		HybridNames:        "Ghost / Diplomat",
		ThemeName:          "Espionage",
		Clearance:          profile.Clearance{Tier: "Secret", Level: 4, Points: 650},
		Chaos:              pattern.Result{Pattern: pattern.Contained, Description: "Middle.", Middle: 80, Early: 10, Late: 10},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	assertContains(t, out,
		"# Dossier: Ghost",
		"Clearance **Secret** (level 4, 650 points)",
		"**Hybrid profile** (Ghost / Diplomat, gap 4 points): Quietly persuasive.",
		"| 1 | Ghost | 52 |",
		"| Charm | low |",
		"**contained**: Middle.",
		"middle 80%",
		"**Espionage**",
	)
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := newRenderer(t)
	if _, err := r.Render("nope.md.tmpl", nil); err == nil {
		t.Error("expected error for unknown template")
	}
}
