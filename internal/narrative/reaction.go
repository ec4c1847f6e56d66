package narrative

import (
	"github.com/HendryAvila/dossier/internal/catalog"
	"github.com/HendryAvila/dossier/internal/pattern"
)

// Origin records which path produced a reaction.
type Origin string

const (
	OriginEasterEgg Origin = "easter_egg"
	OriginOverride  Origin = "override"
	OriginPattern   Origin = "pattern"
	OriginTemplate  Origin = "template"
)

// ReactionInput is everything a per-answer reaction depends on.
type ReactionInput struct {
	QuestionID string
	Option     catalog.Option
	// Recent is the first-choice letter history, including this answer.
	Recent string
}

// Reaction is the text shown after a single answer.
type Reaction struct {
	Text    string        `json:"text"`
	Source  Origin        `json:"source"`
	Pattern pattern.Local `json:"pattern,omitempty"`
	// Fallback explains why an override was not used, when one was tried.
	Fallback string `json:"fallback,omitempty"`
}

// Reaction selects reaction text. Pinned easter eggs always win. Then,
// with PatternFlavorChance, a firing local pattern supplies the line.
// Otherwise a line is drawn from the option's reaction pool with an
// intro fragment prepended at IntroChance.
func (c *Composer) Reaction(in ReactionInput, rng Rand) Reaction {
	if line, ok := c.content.easterEgg(in.QuestionID, in.Option.ID); ok {
		return Reaction{Text: line, Source: OriginEasterEgg}
	}
	return c.templateReaction(in, rng)
}

func (c *Composer) templateReaction(in ReactionInput, rng Rand) Reaction {
	local := pattern.DetectLocal(in.Recent)
	if local != pattern.LocalNone && chance(c.opts.PatternFlavorChance, rng) {
		if line := pick(c.content.PatternFlavor[string(local)], rng); line != "" {
			return Reaction{Text: line, Source: OriginPattern, Pattern: local}
		}
	}

	category := in.Option.Reaction
	if category == "" {
		category = NeutralReaction
	}
	line := pick(c.content.reactionPool(category), rng)
	if line == "" {
		line = fallbackReaction
	}
	if chance(c.opts.IntroChance, rng) {
		if intro := pick(c.content.Intros, rng); intro != "" {
			line = intro + " " + line
		}
	}
	return Reaction{Text: line, Source: OriginTemplate, Pattern: local}
}
