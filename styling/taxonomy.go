package styling

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTaxonomyYAML []byte

// LabelKeywords maps one label to the keywords that select it.
type LabelKeywords struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

type WeatherRules struct {
	WarmLabels  []string `yaml:"warm_labels"`
	Lightweight []string `yaml:"lightweight"`
	Heavy       []string `yaml:"heavy"`
	ColdLabels  []string `yaml:"cold_labels"`
	Insulating  []string `yaml:"insulating"`
	Thin        []string `yaml:"thin"`
	WetLabels   []string `yaml:"wet_labels"`
}

type ScoringKeywords struct {
	NeutralTop  []string `yaml:"neutral_top"`
	LayeringTop []string `yaml:"layering_top"`
	Outerwear   []string `yaml:"outerwear"`
	HeavyLayer  []string `yaml:"heavy_layer"`
	BaseLayer   []string `yaml:"base_layer"`
}

// Taxonomy is the keyword configuration behind attribute extraction, weather
// filtering and scoring. Category order doubles as assembly priority.
type Taxonomy struct {
	Categories []LabelKeywords     `yaml:"categories"`
	Colors     []LabelKeywords     `yaml:"colors"`
	Materials  []LabelKeywords     `yaml:"materials"`
	Styles     []LabelKeywords     `yaml:"styles"`
	Harmony    map[string][]string `yaml:"harmony"`
	Weather    WeatherRules        `yaml:"weather"`
	Scoring    ScoringKeywords     `yaml:"scoring"`
	Similarity []string            `yaml:"similarity_terms"`

	harmonyIdx map[string]struct{}
}

var (
	defaultTaxonomy     *Taxonomy
	defaultTaxonomyOnce sync.Once
)

// DefaultTaxonomy returns the embedded taxonomy. It panics if the embedded
// document is broken.
func DefaultTaxonomy() *Taxonomy {
	defaultTaxonomyOnce.Do(func() {
		t, err := ParseTaxonomy(defaultTaxonomyYAML)
		if err != nil {
			panic(fmt.Sprintf("styling: embedded taxonomy: %v", err))
		}
		defaultTaxonomy = t
	})
	return defaultTaxonomy
}

func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	return ParseTaxonomy(data)
}

func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	if len(t.Categories) == 0 {
		return nil, fmt.Errorf("parse taxonomy: no categories")
	}
	for _, table := range [][]LabelKeywords{t.Categories, t.Colors, t.Materials, t.Styles} {
		for i := range table {
			if strings.TrimSpace(table[i].Label) == "" {
				return nil, fmt.Errorf("parse taxonomy: entry %d has no label", i)
			}
			table[i].Keywords = normalizeKeywords(table[i].Keywords)
		}
	}
	for i := range t.Colors {
		t.Colors[i].Label = strings.ToLower(strings.TrimSpace(t.Colors[i].Label))
	}

	w := &t.Weather
	for _, list := range []*[]string{&w.WarmLabels, &w.Lightweight, &w.Heavy, &w.ColdLabels, &w.Insulating, &w.Thin, &w.WetLabels} {
		*list = normalizeKeywords(*list)
	}
	s := &t.Scoring
	for _, list := range []*[]string{&s.NeutralTop, &s.LayeringTop, &s.Outerwear, &s.HeavyLayer, &s.BaseLayer} {
		*list = normalizeKeywords(*list)
	}

	t.Similarity = normalizeKeywords(t.Similarity)

	t.harmonyIdx = make(map[string]struct{})
	for a, partners := range t.Harmony {
		a = strings.ToLower(strings.TrimSpace(a))
		for _, b := range normalizeKeywords(partners) {
			t.harmonyIdx[a+"|"+b] = struct{}{}
			t.harmonyIdx[b+"|"+a] = struct{}{}
		}
	}
	return &t, nil
}

// CategoryOrder lists categories in assembly priority.
func (t *Taxonomy) CategoryOrder() []Category {
	order := make([]Category, 0, len(t.Categories))
	for _, c := range t.Categories {
		order = append(order, Category(c.Label))
	}
	return order
}

// Harmonious reports whether two palette colors pair well. The lookup goes
// both ways.
func (t *Taxonomy) Harmonious(a, b string) bool {
	_, ok := t.harmonyIdx[a+"|"+b]
	return ok
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// containsAny reports whether the lower-cased text holds any keyword.
func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
