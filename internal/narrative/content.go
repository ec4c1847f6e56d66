// Package narrative selects the descriptive text shown after each answer
// and at each stage boundary.
//
// Text lives in keyed content tables loaded once; the Composer only picks
// from them. All randomness comes from an injected Rand so tests can pin
// the output.
package narrative

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// NeutralReaction is the catch-all reaction category.
const NeutralReaction = "neutral"

// Fallback lines used when a table entry is missing altogether.
const (
	fallbackReaction = "Recorded."
	fallbackMessage  = "The board has reviewed your answers so far."
)

// EasterEgg is an authored line pinned to one option of one question.
type EasterEgg struct {
	Question string `yaml:"question"`
	Option   string `yaml:"option"`
	Line     string `yaml:"line"`
}

// Content holds every narrative table. It is read-only after Load.
type Content struct {
	Reactions     map[string][]string `yaml:"reactions"`
	Intros        []string            `yaml:"intros"`
	PatternFlavor map[string][]string `yaml:"pattern_flavor"`
	EasterEggs    []EasterEgg         `yaml:"easter_eggs"`
	Messages      struct {
		Default    string            `yaml:"default"`
		ByCategory map[string]string `yaml:"by_category"`
	} `yaml:"messages"`
	Addenda        map[string]string `yaml:"addenda"`
	Damage         map[string]string `yaml:"damage"`
	Warnings       map[string]string `yaml:"warnings"`
	EasterEggLines map[string]string `yaml:"easter_egg_lines"`

	eggIndex map[eggKey]string
}

type eggKey struct{ question, option string }

var loadDefaultContent = sync.OnceValues(func() (*Content, error) {
	return LoadContent(defaultContent)
})

// DefaultContent returns the embedded content tables.
func DefaultContent() (*Content, error) {
	return loadDefaultContent()
}

// LoadContent parses content tables from YAML.
func LoadContent(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("narrative: parse content: %w", err)
	}
	if len(c.Reactions[NeutralReaction]) == 0 {
		return nil, fmt.Errorf("narrative: content has no %q reactions", NeutralReaction)
	}

	c.eggIndex = make(map[eggKey]string, len(c.EasterEggs))
	for _, e := range c.EasterEggs {
		c.eggIndex[eggKey{e.Question, e.Option}] = e.Line
	}
	return &c, nil
}

// easterEgg returns the pinned line for an option, if any.
func (c *Content) easterEgg(questionID, optionID string) (string, bool) {
	line, ok := c.eggIndex[eggKey{questionID, optionID}]
	return line, ok && line != ""
}

// reactionPool returns the template pool for a reaction category,
// falling back to the catch-all pool.
func (c *Content) reactionPool(category string) []string {
	if pool := c.Reactions[category]; len(pool) > 0 {
		return pool
	}
	return c.Reactions[NeutralReaction]
}

// message returns the transition message for the leading category.
func (c *Content) message(category string) string {
	if m := c.Messages.ByCategory[category]; m != "" {
		return m
	}
	if c.Messages.Default != "" {
		return c.Messages.Default
	}
	return fallbackMessage
}
