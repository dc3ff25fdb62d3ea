package styling

import (
	"errors"
	"fmt"
)

var ErrInvalidArgument = errors.New("styling: invalid argument")

// Request is the input for one batch of outfits.
type Request struct {
	Items   []WardrobeItem
	Count   int
	Weather string
	// Seed makes the batch reproducible. Ignored when Rand is set.
	Seed *int64
	Rand RandSource
}

// Composer turns a wardrobe snapshot into disjoint outfits. It keeps no state
// between calls and can be shared across goroutines as long as the extractor
// can.
type Composer struct {
	taxonomy  *Taxonomy
	extractor AttributeExtractor
	assembler *Assembler
}

// NewComposer wires the composer. Nil arguments fall back to the embedded
// taxonomy and a plain Extractor.
func NewComposer(taxonomy *Taxonomy, extractor AttributeExtractor) *Composer {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	if extractor == nil {
		extractor = NewExtractor(taxonomy)
	}
	scorer := NewScorer(taxonomy, extractor)
	return &Composer{
		taxonomy:  taxonomy,
		extractor: extractor,
		assembler: NewAssembler(taxonomy, scorer),
	}
}

func (c *Composer) Extractor() AttributeExtractor {
	return c.extractor
}

func (c *Composer) Taxonomy() *Taxonomy {
	return c.taxonomy
}

// Compose returns up to req.Count outfits. No item appears in two outfits of
// the same batch, and the batch ends early once no further outfit can be
// formed. An empty wardrobe gives an empty, non-nil result.
func (c *Composer) Compose(req Request) ([]OutfitCandidate, error) {
	if req.Items == nil {
		return nil, fmt.Errorf("%w: nil wardrobe", ErrInvalidArgument)
	}
	if req.Count < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrInvalidArgument, req.Count)
	}

	rnd := req.Rand
	if rnd == nil {
		if req.Seed != nil {
			rnd = NewSeededRand(*req.Seed)
		} else {
			rnd = newTimeSeededRand()
		}
	}

	p := c.partition(FilterByWeather(c.taxonomy.Weather, req.Items, req.Weather))

	outfits := make([]OutfitCandidate, 0, min(req.Count, len(req.Items)))
	used := usedSet{}
	for range req.Count {
		outfit := c.assembler.Assemble(p, used, rnd)
		if len(outfit) == 0 {
			break
		}
		outfits = append(outfits, outfit)
		used = used.union(outfit)
	}
	return outfits, nil
}

func (c *Composer) partition(items []WardrobeItem) pools {
	p := pools{}
	for _, item := range items {
		cat := CategoryOf(c.extractor, item)
		if cat == CategoryPending {
			continue
		}
		p[cat] = append(p[cat], item)
	}
	return p
}
