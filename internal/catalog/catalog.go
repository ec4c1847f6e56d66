// Package catalog holds the static definition tables for the dossier quiz:
// categories, traits, themes and the questions with their weighted options.
//
// A Catalog is immutable once loaded and is safe for any number of
// concurrent readers. The default catalog is embedded in the binary and
// parsed once on first use.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// MinPhase and MaxPhase bound the stage grouping of questions.
const (
	MinPhase = 1
	MaxPhase = 3
)

// Category is one of the mutually competing archetypes.
type Category struct {
	Code        string `yaml:"code" json:"code"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// Trait is an independent scoring axis.
type Trait struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// Theme is a specialization tag carried by questions and options.
type Theme struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// Option is a single answer choice. Categories and Traits are sparse
// code→weight maps; absent codes weigh zero.
type Option struct {
	ID         string         `yaml:"id" json:"id"`
	Text       string         `yaml:"text" json:"text"`
	Categories map[string]int `yaml:"categories" json:"categories,omitempty"`
	Traits     map[string]int `yaml:"traits" json:"traits,omitempty"`
	Reaction   string         `yaml:"reaction" json:"reaction,omitempty"`
	Themes     []string       `yaml:"themes" json:"themes,omitempty"`
}

// Question is one quiz question with its ordered options.
type Question struct {
	ID      string   `yaml:"id" json:"id"`
	Text    string   `yaml:"text" json:"text"`
	Phase   int      `yaml:"phase" json:"phase"`
	Themes  []string `yaml:"themes" json:"themes,omitempty"`
	Options []Option `yaml:"options" json:"options"`
}

// Catalog is the full set of definition tables. Slice order is
// definition order, which breaks ties everywhere downstream.
type Catalog struct {
	Categories []Category `yaml:"categories" json:"categories"`
	Traits     []Trait    `yaml:"traits" json:"traits"`
	Themes     []Theme    `yaml:"themes" json:"themes"`
	Questions  []Question `yaml:"questions" json:"questions"`

	questionIndex map[string]int
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(defaultCatalog)
})

// Default returns the embedded catalog. Parsing happens once; every
// caller shares the same read-only instance.
func Default() (*Catalog, error) {
	return loadDefault()
}

// Load parses and validates a catalog from YAML.
func Load(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	c.questionIndex = make(map[string]int, len(c.Questions))
	for i, q := range c.Questions {
		c.questionIndex[q.ID] = i
	}
	return &c, nil
}

// Question resolves a question by ID.
func (c *Catalog) Question(id string) (*Question, bool) {
	i, ok := c.questionIndex[id]
	if !ok {
		return nil, false
	}
	return &c.Questions[i], true
}

// QuestionsInPhase returns the questions of one phase in definition order.
func (c *Catalog) QuestionsInPhase(phase int) []Question {
	var out []Question
	for _, q := range c.Questions {
		if q.Phase == phase {
			out = append(out, q)
		}
	}
	return out
}

// CategoryCodes returns category codes in definition order.
func (c *Catalog) CategoryCodes() []string {
	codes := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		codes[i] = cat.Code
	}
	return codes
}

// TraitCodes returns trait codes in definition order.
func (c *Catalog) TraitCodes() []string {
	codes := make([]string, len(c.Traits))
	for i, t := range c.Traits {
		codes[i] = t.Code
	}
	return codes
}

// ThemeCodes returns theme codes in definition order.
func (c *Catalog) ThemeCodes() []string {
	codes := make([]string, len(c.Themes))
	for i, t := range c.Themes {
		codes[i] = t.Code
	}
	return codes
}

// CategoryName returns the display name for a category code, or the code
// itself when unknown.
func (c *Catalog) CategoryName(code string) string {
	for _, cat := range c.Categories {
		if cat.Code == code {
			return cat.Name
		}
	}
	return code
}

// TraitName returns the display name for a trait code, or the code itself.
func (c *Catalog) TraitName(code string) string {
	for _, t := range c.Traits {
		if t.Code == code {
			return t.Name
		}
	}
	return code
}

// ThemeName returns the display name for a theme code, or the code itself.
func (c *Catalog) ThemeName(code string) string {
	for _, t := range c.Themes {
		if t.Code == code {
			return t.Name
		}
	}
	return code
}

// Option resolves an option by ID and reports its position.
func (q *Question) Option(id string) (*Option, int, bool) {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i], i, true
		}
	}
	return nil, -1, false
}

// LetterOf returns the positional letter of an option ("a" for the first).
func (q *Question) LetterOf(optionID string) (byte, bool) {
	_, i, ok := q.Option(optionID)
	if !ok {
		return 0, false
	}
	return Letter(i), true
}

// OptionThemes returns the theme tags of an option, falling back to the
// question's tags when the option declares none.
func (q *Question) OptionThemes(o *Option) []string {
	if len(o.Themes) > 0 {
		return o.Themes
	}
	return q.Themes
}

// Letter maps a zero-based option index to its letter.
func Letter(index int) byte {
	return byte('a' + index)
}
