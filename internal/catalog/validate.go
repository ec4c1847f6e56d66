package catalog

import (
	"errors"
	"fmt"
)

// maxOptions keeps option letters inside a..z.
const maxOptions = 26

// validate rejects configuration-time defects. Runtime code assumes a
// validated catalog and never re-checks weights.
func (c *Catalog) validate() error {
	if len(c.Categories) == 0 {
		return errors.New("no categories defined")
	}
	if len(c.Questions) == 0 {
		return errors.New("no questions defined")
	}

	categories, err := codeSet("category", len(c.Categories), func(i int) string { return c.Categories[i].Code })
	if err != nil {
		return err
	}
	traits, err := codeSet("trait", len(c.Traits), func(i int) string { return c.Traits[i].Code })
	if err != nil {
		return err
	}
	themes, err := codeSet("theme", len(c.Themes), func(i int) string { return c.Themes[i].Code })
	if err != nil {
		return err
	}

	seenQuestions := make(map[string]bool, len(c.Questions))
	for _, q := range c.Questions {
		if q.ID == "" {
			return errors.New("question with empty id")
		}
		if seenQuestions[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seenQuestions[q.ID] = true

		if q.Phase < MinPhase || q.Phase > MaxPhase {
			return fmt.Errorf("question %s: phase %d outside %d..%d", q.ID, q.Phase, MinPhase, MaxPhase)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("question %s: no options", q.ID)
		}
		if len(q.Options) > maxOptions {
			return fmt.Errorf("question %s: %d options, at most %d allowed", q.ID, len(q.Options), maxOptions)
		}
		if err := checkTags(q.ID, q.Themes, themes); err != nil {
			return err
		}

		seenOptions := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if o.ID == "" {
				return fmt.Errorf("question %s: option with empty id", q.ID)
			}
			if seenOptions[o.ID] {
				return fmt.Errorf("question %s: duplicate option id %q", q.ID, o.ID)
			}
			seenOptions[o.ID] = true

			where := q.ID + "/" + o.ID
			if err := checkWeights(where, "category", o.Categories, categories); err != nil {
				return err
			}
			if err := checkWeights(where, "trait", o.Traits, traits); err != nil {
				return err
			}
			if err := checkTags(where, o.Themes, themes); err != nil {
				return err
			}
		}
	}
	return nil
}

func codeSet(kind string, n int, code func(int) string) (map[string]bool, error) {
	set := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		c := code(i)
		if c == "" {
			return nil, fmt.Errorf("%s with empty code", kind)
		}
		if set[c] {
			return nil, fmt.Errorf("duplicate %s code %q", kind, c)
		}
		set[c] = true
	}
	return set, nil
}

func checkWeights(where, kind string, weights map[string]int, known map[string]bool) error {
	for code, w := range weights {
		if !known[code] {
			return fmt.Errorf("%s: unknown %s %q", where, kind, code)
		}
		if w < 0 {
			return fmt.Errorf("%s: negative %s weight %d for %q", where, kind, w, code)
		}
	}
	return nil
}

func checkTags(where string, tags []string, known map[string]bool) error {
	for _, t := range tags {
		if !known[t] {
			return fmt.Errorf("%s: unknown theme %q", where, t)
		}
	}
	return nil
}
