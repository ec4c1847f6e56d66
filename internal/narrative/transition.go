package narrative

import (
	"strings"

	"github.com/HendryAvila/dossier/internal/pattern"
	"github.com/HendryAvila/dossier/internal/profile"
	"github.com/HendryAvila/dossier/internal/scoring"
)

// DamageBoundary is the only boundary that carries a damage profile.
const DamageBoundary = 2

// TransitionInput is the state a transition narrative is computed from.
type TransitionInput struct {
	// Boundary is the phase just completed: 1 for 1→2, 2 for 2→3.
	Boundary   int
	Categories scoring.Aggregate
	Traits     scoring.Aggregate
	// Letters is the full first-choice letter sequence so far.
	Letters string
	Chaos   pattern.Result
	// Prior is the standings snapshot from the previous boundary, if any.
	Prior []profile.Standing
}

// Highlight is a trait at an extreme level.
type Highlight struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Percent int    `json:"percent"`
	Level   Level  `json:"level"`
}

// Transition is the narrative shown between two phases.
type Transition struct {
	Boundary      int                `json:"boundary"`
	Standings     []profile.Standing `json:"standings"`
	Highlights    []Highlight        `json:"highlights"`
	Message       string             `json:"message"`
	DamageProfile string             `json:"damage_profile,omitempty"`
	Warning       string             `json:"warning,omitempty"`
	EasterEgg     string             `json:"easter_egg,omitempty"`
}

// Transition composes the narrative for a stage boundary. It draws no
// randomness.
func (c *Composer) Transition(in TransitionInput) Transition {
	standings := profile.CompareStandings(profile.Top(profile.Rank(in.Categories), c.opts.TopN), in.Prior)
	highlights := c.Highlights(in.Traits)

	leading := ""
	if len(standings) > 0 && standings[0].Score > 0 {
		leading = standings[0].Code
	}
	message := c.content.message(leading)
	if len(highlights) == 1 {
		h := highlights[0]
		if add := c.content.Addenda[h.Code+":"+string(h.Level)]; add != "" {
			message += " " + add
		}
	}

	t := Transition{
		Boundary:   in.Boundary,
		Standings:  standings,
		Highlights: highlights,
		Message:    message,
		Warning:    c.warning(in.Letters),
		EasterEgg:  c.easterEggLine(in.Letters),
	}
	if in.Boundary == DamageBoundary {
		t.DamageProfile = c.damageProfile(highlights, in.Chaos.Pattern)
	}
	return t
}

// Highlights returns every trait at high or low level, in catalog order.
// Medium traits are never listed.
func (c *Composer) Highlights(traits scoring.Aggregate) []Highlight {
	var out []Highlight
	for _, code := range traits.Codes {
		pct := traits.Percent(code)
		level := c.LevelOf(pct)
		if level == LevelMedium {
			continue
		}
		name := code
		if c.cat != nil {
			name = c.cat.TraitName(code)
		}
		out = append(out, Highlight{Code: code, Name: name, Percent: pct, Level: level})
	}
	return out
}

// damageRule is one named predicate of the damage profile.
type damageRule struct {
	name  string
	match func(levels map[string]Level, chaos pattern.Pattern) bool
}

var damageRules = []damageRule{
	{"glass_cannon", func(l map[string]Level, _ pattern.Pattern) bool {
		return l["recklessness"] == LevelHigh && l["paranoia"] == LevelLow
	}},
	{"tinfoil", func(l map[string]Level, _ pattern.Pattern) bool {
		return l["paranoia"] == LevelHigh
	}},
	{"smooth_operator", func(l map[string]Level, _ pattern.Pattern) bool {
		return l["charm"] == LevelHigh
	}},
	{"grudge_ledger", func(l map[string]Level, _ pattern.Pattern) bool {
		return l["pettiness"] == LevelHigh
	}},
	{"loose_cannon", func(_ map[string]Level, p pattern.Pattern) bool {
		return p == pattern.Oscillating || p == pattern.Escalating
	}},
	{"bean_counter", func(_ map[string]Level, p pattern.Pattern) bool {
		return p == pattern.Contained
	}},
}

// damageProfile concatenates the text of every matching rule, in rule
// order.
func (c *Composer) damageProfile(highlights []Highlight, chaos pattern.Pattern) string {
	levels := make(map[string]Level, len(highlights))
	for _, h := range highlights {
		levels[h.Code] = h.Level
	}
	var parts []string
	for _, r := range damageRules {
		if !r.match(levels, chaos) {
			continue
		}
		if text := c.content.Damage[r.name]; text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// warning checks all-same before all-late; the first match wins.
func (c *Composer) warning(letters string) string {
	switch {
	case pattern.AllSame(letters):
		return c.content.Warnings["all_same"]
	case pattern.AllLate(letters):
		return c.content.Warnings["all_late"]
	}
	return ""
}

func (c *Composer) easterEggLine(letters string) string {
	if pattern.Alternating(letters) {
		return c.content.EasterEggLines["alternating"]
	}
	return ""
}
