package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kaptinlin/jsonrepair"
)

// MaxOverrideRunes caps the length of generated reaction text.
const MaxOverrideRunes = 280

// Override rejection reasons.
var (
	ErrMalformedOverride = errors.New("override is not a JSON object with a text field")
	ErrEmptyOverride     = errors.New("override text is empty")
	ErrOverrideTooLong   = errors.New("override text is too long")
	ErrTemplateMarkers   = errors.New("override text contains template markers")
)

// Fallback reasons reported on a Reaction.
const (
	FallbackError     = "error"
	FallbackMalformed = "malformed"
	FallbackInvalid   = "invalid"
)

var templateMarkers = []string{"{{", "}}", "{%", "%}", "${"}

// Prompt is what an external generator is asked to react to.
type Prompt struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
	OptionText string `json:"option_text"`
	Reaction   string `json:"reaction"`
	Recent     string `json:"recent"`
}

// Key identifies a prompt for memoization.
func (p Prompt) Key() string {
	return p.QuestionID + "/" + p.OptionID + "/" + p.Recent
}

// Generator produces raw override output for a prompt. The output is
// expected to be JSON of the form {"text": "..."}.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// StaticGenerator returns fixed output for every prompt. The MCP layer
// uses it to feed text the host model has already produced.
type StaticGenerator string

// Generate implements Generator.
func (s StaticGenerator) Generate(context.Context, Prompt) (string, error) {
	return string(s), nil
}

// CachedGenerator memoizes successful generator output per prompt key.
type CachedGenerator struct {
	next  Generator
	cache *lru.Cache[string, string]
}

// NewCachedGenerator wraps next with an LRU of the given size.
func NewCachedGenerator(next Generator, size int) (*CachedGenerator, error) {
	if next == nil {
		return nil, errors.New("narrative: cached generator needs a generator")
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("narrative: override cache: %w", err)
	}
	return &CachedGenerator{next: next, cache: cache}, nil
}

// Generate implements Generator. Errors are never cached.
func (g *CachedGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	key := p.Key()
	if out, ok := g.cache.Get(key); ok {
		return out, nil
	}
	out, err := g.next.Generate(ctx, p)
	if err != nil {
		return "", err
	}
	g.cache.Add(key, out)
	return out, nil
}

// Len reports the number of memoized prompts.
func (g *CachedGenerator) Len() int { return g.cache.Len() }

// ParseOverride repairs, decodes and validates raw generator output and
// returns the reaction text.
func ParseOverride(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyOverride
	}
	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedOverride, err)
	}
	var payload struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil || payload.Text == nil {
		return "", ErrMalformedOverride
	}

	text := strings.TrimSpace(*payload.Text)
	switch {
	case text == "":
		return "", ErrEmptyOverride
	case utf8.RuneCountInString(text) > MaxOverrideRunes:
		return "", ErrOverrideTooLong
	}
	for _, m := range templateMarkers {
		if strings.Contains(text, m) {
			return "", ErrTemplateMarkers
		}
	}
	return text, nil
}

// ReactionWithOverride is Reaction with an optional generator consulted
// after the easter-egg table. A nil generator, a generator error or
// invalid output all produce the template reaction; only Source and
// Fallback differ.
func (c *Composer) ReactionWithOverride(ctx context.Context, in ReactionInput, rng Rand, gen Generator) Reaction {
	if line, ok := c.content.easterEgg(in.QuestionID, in.Option.ID); ok {
		return Reaction{Text: line, Source: OriginEasterEgg}
	}
	if gen == nil {
		return c.templateReaction(in, rng)
	}

	raw, err := gen.Generate(ctx, Prompt{
		QuestionID: in.QuestionID,
		OptionID:   in.Option.ID,
		OptionText: in.Option.Text,
		Reaction:   in.Option.Reaction,
		Recent:     in.Recent,
	})
	if err != nil {
		r := c.templateReaction(in, rng)
		r.Fallback = FallbackError
		return r
	}
	text, err := ParseOverride(raw)
	if err != nil {
		r := c.templateReaction(in, rng)
		r.Fallback = fallbackReason(err)
		return r
	}
	return Reaction{Text: text, Source: OriginOverride}
}

func fallbackReason(err error) string {
	if errors.Is(err, ErrMalformedOverride) {
		return FallbackMalformed
	}
	return FallbackInvalid
}
