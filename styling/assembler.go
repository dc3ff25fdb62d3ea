package styling

import (
	"slices"
	"strings"
)

const maxOutfitItems = 4

// OutfitCandidate is one outfit as an ordered list of item IDs.
type OutfitCandidate []string

// usedSet holds the IDs already consumed by earlier outfits of a batch.
// It is treated as a value: union returns a new set.
type usedSet map[string]struct{}

func (u usedSet) has(id string) bool {
	_, ok := u[id]
	return ok
}

func (u usedSet) union(ids []string) usedSet {
	next := make(usedSet, len(u)+len(ids))
	for id := range u {
		next[id] = struct{}{}
	}
	for _, id := range ids {
		next[id] = struct{}{}
	}
	return next
}

// pools partitions the selectable items by category.
type pools map[Category][]WardrobeItem

type chosenItem struct {
	item     WardrobeItem
	category Category
}

type outfitState struct {
	chosen []chosenItem
}

func (o *outfitState) items() []WardrobeItem {
	out := make([]WardrobeItem, len(o.chosen))
	for i, c := range o.chosen {
		out[i] = c.item
	}
	return out
}

func (o *outfitState) ids() OutfitCandidate {
	out := make(OutfitCandidate, len(o.chosen))
	for i, c := range o.chosen {
		out[i] = c.item.ID
	}
	return out
}

func (o *outfitState) contains(id string) bool {
	for _, c := range o.chosen {
		if c.item.ID == id {
			return true
		}
	}
	return false
}

func (o *outfitState) hasCategory(cats ...Category) bool {
	for _, c := range o.chosen {
		if slices.Contains(cats, c.category) {
			return true
		}
	}
	return false
}

// accepts enforces that a dress is never worn with tops, bottoms or a
// second dress.
func (o *outfitState) accepts(cat Category) bool {
	switch cat {
	case CategoryDresses:
		return !o.hasCategory(CategoryDresses, CategoryTops, CategoryBottoms)
	case CategoryTops, CategoryBottoms:
		return !o.hasCategory(CategoryDresses)
	}
	return true
}

// Assembler builds a single outfit from the unused part of the pools.
type Assembler struct {
	order   []Category
	scorer  *Scorer
	scoring ScoringKeywords
}

func NewAssembler(taxonomy *Taxonomy, scorer *Scorer) *Assembler {
	order := taxonomy.CategoryOrder()
	if !slices.Contains(order, CategoryAccessories) {
		order = append(order, CategoryAccessories)
	}
	return &Assembler{order: order, scorer: scorer, scoring: taxonomy.Scoring}
}

// Assemble returns the next outfit. An empty result means no outfit could
// be formed from what is left.
func (a *Assembler) Assemble(p pools, used usedSet, rnd RandSource) OutfitCandidate {
	outfit := &outfitState{}

	for _, cat := range a.order {
		avail := a.available(p[cat], used, outfit)
		if len(avail) == 0 {
			continue
		}
		if cat == CategoryDresses {
			if len(outfit.chosen) > 0 {
				continue
			}
			if item, ok := a.scorer.Pick(avail, nil, cat, rnd); ok {
				outfit.chosen = append(outfit.chosen, chosenItem{item: item, category: cat})
			}
			break
		}
		if !outfit.accepts(cat) {
			continue
		}
		if item, ok := a.scorer.Pick(avail, outfit.items(), cat, rnd); ok {
			outfit.chosen = append(outfit.chosen, chosenItem{item: item, category: cat})
		}
	}

	a.addLayer(outfit, p, used, rnd)
	a.pad(outfit, p, used, rnd)
	return outfit.ids()
}

// addLayer puts a base-layer top under the first heavy layer that has one
// available.
func (a *Assembler) addLayer(outfit *outfitState, p pools, used usedSet, rnd RandSource) {
	if outfit.hasCategory(CategoryDresses) {
		return
	}
	for _, c := range outfit.chosen {
		if !containsAny(strings.ToLower(c.item.Description), a.scoring.HeavyLayer) {
			continue
		}
		var bases []WardrobeItem
		for _, top := range a.available(p[CategoryTops], used, outfit) {
			if containsAny(strings.ToLower(top.Description), a.scoring.BaseLayer) {
				bases = append(bases, top)
			}
		}
		if base, ok := a.scorer.Pick(bases, outfit.items(), CategoryTops, rnd); ok {
			layer := chosenItem{item: base, category: CategoryTops}
			outfit.chosen = append([]chosenItem{layer}, outfit.chosen...)
			return
		}
	}
}

func (a *Assembler) pad(outfit *outfitState, p pools, used usedSet, rnd RandSource) {
	for len(outfit.chosen) < maxOutfitItems {
		var avail []WardrobeItem
		categoryOf := map[string]Category{}
		for _, cat := range a.order {
			if !outfit.accepts(cat) {
				continue
			}
			for _, item := range a.available(p[cat], used, outfit) {
				if _, seen := categoryOf[item.ID]; seen {
					continue
				}
				avail = append(avail, item)
				categoryOf[item.ID] = cat
			}
		}
		item, ok := a.scorer.Pick(avail, outfit.items(), categoryAny, rnd)
		if !ok {
			return
		}
		outfit.chosen = append(outfit.chosen, chosenItem{item: item, category: categoryOf[item.ID]})
	}
}

func (a *Assembler) available(items []WardrobeItem, used usedSet, outfit *outfitState) []WardrobeItem {
	out := make([]WardrobeItem, 0, len(items))
	for _, item := range items {
		if used.has(item.ID) || outfit.contains(item.ID) {
			continue
		}
		out = append(out, item)
	}
	return out
}
