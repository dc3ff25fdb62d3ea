package styling

import (
	"sort"
	"strings"
)

const (
	sameColorScore     = 3.0
	harmonyScore       = 2.0
	neutralPairScore   = 0.5
	neutralTopBonus    = 2.0
	layeringTopBonus   = 1.0
	outerwearBonus     = 1.0
	accessoryBonus     = 0.5
	minSelectionWeight = 0.1
	selectionShortlist = 3
)

// Scorer rates how well a candidate fits the outfit built so far and picks
// among candidates with a bounded, score-weighted draw.
type Scorer struct {
	taxonomy  *Taxonomy
	extractor AttributeExtractor
}

func NewScorer(taxonomy *Taxonomy, extractor AttributeExtractor) *Scorer {
	return &Scorer{taxonomy: taxonomy, extractor: extractor}
}

// ColorHarmony sums the pair scores over every (a, b) color pair.
func (s *Scorer) ColorHarmony(a, b []string) float64 {
	score := 0.0
	for _, ca := range a {
		for _, cb := range b {
			switch {
			case ca == cb:
				score += sameColorScore
			case s.taxonomy.Harmonious(ca, cb):
				score += harmonyScore
			default:
				score += neutralPairScore
			}
		}
	}
	return score
}

func (s *Scorer) Score(candidate WardrobeItem, category Category, outfit []WardrobeItem) float64 {
	score := 0.0
	colors := s.extractor.Colors(candidate.Description)
	for _, chosen := range outfit {
		score += s.ColorHarmony(colors, s.extractor.Colors(chosen.Description))
	}

	lower := strings.ToLower(candidate.Description)
	kw := s.taxonomy.Scoring
	switch category {
	case CategoryTops:
		if containsAny(lower, kw.NeutralTop) {
			score += neutralTopBonus
		}
		if containsAny(lower, kw.LayeringTop) {
			score += layeringTopBonus
		}
	case CategoryOuterwear:
		if containsAny(lower, kw.Outerwear) {
			score += outerwearBonus
		}
	case CategoryAccessories:
		score += accessoryBonus
	}
	return score
}

// Pick selects one candidate. With an empty outfit the draw is uniform.
// Otherwise the three best-scoring candidates are sampled in proportion to
// their score, each weight floored at 0.1.
func (s *Scorer) Pick(candidates []WardrobeItem, outfit []WardrobeItem, category Category, rnd RandSource) (WardrobeItem, bool) {
	if len(candidates) == 0 {
		return WardrobeItem{}, false
	}
	if len(outfit) == 0 {
		return candidates[rnd.Intn(len(candidates))], true
	}

	type scored struct {
		item  WardrobeItem
		score float64
	}
	ranked := make([]scored, len(candidates))
	for i, c := range candidates {
		ranked[i] = scored{item: c, score: s.Score(c, category, outfit)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > selectionShortlist {
		ranked = ranked[:selectionShortlist]
	}

	weights := make([]float64, len(ranked))
	total := 0.0
	for i, r := range ranked {
		weights[i] = max(minSelectionWeight, r.score)
		total += weights[i]
	}
	target := rnd.Float64() * total
	for i, w := range weights {
		if target < w {
			return ranked[i].item, true
		}
		target -= w
	}
	return ranked[len(ranked)-1].item, true
}
