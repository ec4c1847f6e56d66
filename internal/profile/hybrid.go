package profile

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed blends.yaml
var defaultBlends []byte

// DefaultHybridThreshold is the largest percentage gap between the top two
// categories that still counts as a hybrid.
const DefaultHybridThreshold = 12

// Hybrid reports whether the top two categories are too close to call.
type Hybrid struct {
	Detected    bool   `json:"detected"`
	Primary     string `json:"primary,omitempty"`
	Secondary   string `json:"secondary,omitempty"`
	Gap         int    `json:"gap,omitempty"`
	Description string `json:"description,omitempty"`
}

// Blends is a symmetric pair table of hybrid descriptions.
type Blends struct {
	fallback string
	pairs    map[pairKey]string
}

type pairKey struct{ a, b string }

func newPairKey(x, y string) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{x, y}
}

type blendsFile struct {
	Default string `yaml:"default"`
	Pairs   []struct {
		Categories []string `yaml:"categories"`
		Text       string   `yaml:"text"`
	} `yaml:"pairs"`
}

// genericBlend is used when neither the table nor its file defines a default.
const genericBlend = "A blend of two archetypes with no clear winner."

var loadDefaultBlends = sync.OnceValues(func() (*Blends, error) {
	return LoadBlends(defaultBlends)
})

// DefaultBlends returns the embedded blend table.
func DefaultBlends() (*Blends, error) {
	return loadDefaultBlends()
}

// LoadBlends parses a blend table from YAML.
func LoadBlends(data []byte) (*Blends, error) {
	var f blendsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("blends: parse: %w", err)
	}
	b := &Blends{fallback: f.Default, pairs: make(map[pairKey]string, len(f.Pairs))}
	if b.fallback == "" {
		b.fallback = genericBlend
	}
	for i, p := range f.Pairs {
		if len(p.Categories) != 2 {
			return nil, fmt.Errorf("blends: pair %d: want 2 categories, got %d", i, len(p.Categories))
		}
		b.pairs[newPairKey(p.Categories[0], p.Categories[1])] = p.Text
	}
	return b, nil
}

// Describe returns the description for a pair in either order, or the
// generic default. It never returns an empty string.
func (b *Blends) Describe(x, y string) string {
	if b == nil {
		return genericBlend
	}
	if text := b.pairs[newPairKey(x, y)]; text != "" {
		return text
	}
	return b.fallback
}

// DetectHybrid compares the top two standings. A hybrid needs a second
// category that actually scored; the gap is measured in percentage points.
func DetectHybrid(ranking []Standing, threshold int, blends *Blends) Hybrid {
	if len(ranking) == 0 || ranking[0].Score == 0 {
		return Hybrid{}
	}
	first := ranking[0]
	if len(ranking) < 2 || ranking[1].Score == 0 {
		return Hybrid{Primary: first.Code}
	}
	second := ranking[1]

	gap := first.Percent - second.Percent
	if gap > threshold {
		return Hybrid{Primary: first.Code}
	}
	return Hybrid{
		Detected:    true,
		Primary:     first.Code,
		Secondary:   second.Code,
		Gap:         gap,
		Description: blends.Describe(first.Code, second.Code),
	}
}
