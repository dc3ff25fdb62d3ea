package styling

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(v int64) *int64 { return &v }

func TestComposeSingleOutfitFromThreeCategories(t *testing.T) {
	items := []WardrobeItem{
		{ID: "a.txt", Description: "This item is a black cotton t-shirt"},
		{ID: "b.txt", Description: "This item is navy blue jeans"},
		{ID: "c.txt", Description: "This item is white sneakers"},
	}

	outfits, err := NewComposer(nil, nil).Compose(Request{Items: items, Count: 1, Seed: seed(42)})
	require.NoError(t, err)

	require.Len(t, outfits, 1)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt", "c.txt"}, []string(outfits[0]))
	assert.Equal(t, "2995059723115f7838d71b1c82449c05", OutfitKey(outfits[0]))
}

func TestComposeEmptyWardrobe(t *testing.T) {
	outfits, err := NewComposer(nil, nil).Compose(Request{Items: []WardrobeItem{}, Count: 3})
	require.NoError(t, err)
	assert.NotNil(t, outfits)
	assert.Empty(t, outfits)
}

func TestComposeDressIsAnOutfitOnItsOwn(t *testing.T) {
	items := []WardrobeItem{
		{ID: "top.txt", Description: "A white blouse"},
		{ID: "dress.txt", Description: "A red floral dress"},
		{ID: "bottom.txt", Description: "Black trousers"},
	}

	outfits, err := NewComposer(nil, nil).Compose(Request{Items: items, Count: 2, Seed: seed(1)})
	require.NoError(t, err)

	require.Len(t, outfits, 2)
	assert.Equal(t, OutfitCandidate{"dress.txt"}, outfits[0])
	assert.Equal(t, OutfitCandidate{"top.txt", "bottom.txt"}, outfits[1])
}

func TestComposeInvalidArguments(t *testing.T) {
	c := NewComposer(nil, nil)

	_, err := c.Compose(Request{Items: nil, Count: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.Compose(Request{Items: []WardrobeItem{}, Count: -1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestComposeZeroCount(t *testing.T) {
	outfits, err := NewComposer(nil, nil).Compose(Request{Items: randomWardrobe(rand.New(rand.NewSource(3)), 10), Count: 0})
	require.NoError(t, err)
	assert.Empty(t, outfits)
}

func TestComposeLayersBaseUnderSweater(t *testing.T) {
	items := []WardrobeItem{
		{ID: "sweater", Description: "grey wool sweater"},
		{ID: "tee", Description: "white cotton t-shirt"},
		{ID: "trousers", Description: "black trousers"},
	}

	// first Intn picks the sweater for the tops slot
	outfits, err := NewComposer(nil, nil).Compose(Request{Items: items, Count: 1, Rand: &scriptedRand{ints: []int{0}}})
	require.NoError(t, err)

	require.Len(t, outfits, 1)
	assert.Equal(t, OutfitCandidate{"tee", "sweater", "trousers"}, outfits[0])
}

func TestComposePadsToFourItems(t *testing.T) {
	items := []WardrobeItem{
		{ID: "shirt", Description: "white shirt"},
		{ID: "jeans", Description: "blue jeans"},
		{ID: "scarf", Description: "red scarf"},
		{ID: "belt", Description: "brown belt"},
		{ID: "hat", Description: "black hat"},
	}

	outfits, err := NewComposer(nil, nil).Compose(Request{Items: items, Count: 2, Seed: seed(5)})
	require.NoError(t, err)

	require.Len(t, outfits, 2)
	assert.Len(t, outfits[0], 4)
	assert.Equal(t, []string{"shirt", "jeans"}, []string(outfits[0][:2]))
	assert.Len(t, outfits[1], 1)
}

func TestComposePaddingOnlyFillsShortOutfits(t *testing.T) {
	items := []WardrobeItem{
		{ID: "tee", Description: "white cotton t-shirt"},
		{ID: "polo", Description: "striped polo shirt"},
		{ID: "jeans", Description: "blue jeans"},
		{ID: "sneakers", Description: "white sneakers"},
		{ID: "jacket", Description: "light denim jacket"},
		{ID: "scarf", Description: "grey wool scarf"},
	}

	outfits, err := NewComposer(nil, nil).Compose(Request{Items: items, Count: 2, Seed: seed(9)})
	require.NoError(t, err)

	require.Len(t, outfits, 2)
	assert.Len(t, outfits[0], 5)
	assert.Subset(t, []string(outfits[0]), []string{"jeans", "sneakers", "jacket", "scarf"})
	// the spare top is left for the next outfit instead of padding the first
	assert.Len(t, outfits[1], 1)
}

func TestComposeSkipsPendingItems(t *testing.T) {
	items := []WardrobeItem{
		{ID: "shirt", Description: "white shirt"},
		{ID: "upload", Pending: true},
		{ID: "jeans", Description: "blue jeans"},
	}

	outfits, err := NewComposer(nil, nil).Compose(Request{Items: items, Count: 3, Seed: seed(9)})
	require.NoError(t, err)

	require.Len(t, outfits, 1)
	assert.NotContains(t, outfits[0], "upload")
}

func TestComposeWarmWeatherDropsHeavyItems(t *testing.T) {
	items := []WardrobeItem{
		{ID: "coat", Description: "thick wool coat"},
		{ID: "tee", Description: "breathable t-shirt"},
		{ID: "shorts", Description: "denim shorts"},
	}

	outfits, err := NewComposer(nil, nil).Compose(Request{Items: items, Count: 3, Weather: "warm", Seed: seed(2)})
	require.NoError(t, err)

	require.Len(t, outfits, 1)
	assert.ElementsMatch(t, []string{"tee", "shorts"}, []string(outfits[0]))
}

func TestComposeRainyMatchesNoWeather(t *testing.T) {
	items := randomWardrobe(rand.New(rand.NewSource(17)), 25)
	c := NewComposer(nil, nil)

	dry, err := c.Compose(Request{Items: items, Count: 4, Seed: seed(8)})
	require.NoError(t, err)
	wet, err := c.Compose(Request{Items: items, Count: 4, Weather: "rainy", Seed: seed(8)})
	require.NoError(t, err)

	assert.Equal(t, dry, wet)
}

func TestComposeIsReproducibleWithSeed(t *testing.T) {
	items := randomWardrobe(rand.New(rand.NewSource(23)), 30)
	c := NewComposer(nil, nil)

	first, err := c.Compose(Request{Items: items, Count: 5, Seed: seed(99)})
	require.NoError(t, err)
	second, err := c.Compose(Request{Items: items, Count: 5, Seed: seed(99)})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

var wardrobeVocabulary = []string{
	"black cotton t-shirt", "white silk blouse", "grey wool sweater", "navy hoodie",
	"blue jeans", "khaki chinos", "pleated skirt", "black leggings",
	"red floral dress", "emerald maxi dress", "little black dress",
	"white sneakers", "brown leather boots", "silver heels",
	"camel trench", "denim jacket", "puffer parka",
	"leather belt", "straw hat", "pearl necklace", "canvas tote",
	"", "mystery item", "sleeveless linen tank", "thick wool coat",
}

func randomWardrobe(rnd *rand.Rand, n int) []WardrobeItem {
	items := make([]WardrobeItem, n)
	for i := range items {
		items[i] = WardrobeItem{
			ID:          fmt.Sprintf("item-%d", i),
			Description: wardrobeVocabulary[rnd.Intn(len(wardrobeVocabulary))],
		}
	}
	return items
}

func TestComposeBatchInvariants(t *testing.T) {
	c := NewComposer(nil, nil)
	ex := NewExtractor(nil)
	// one item per category plus a base layer
	maxItems := len(DefaultTaxonomy().CategoryOrder()) + 1

	for s := int64(0); s < 60; s++ {
		rnd := rand.New(rand.NewSource(s))
		items := randomWardrobe(rnd, rnd.Intn(30))
		count := rnd.Intn(8)
		weather := []string{"", "warm", "cold", "rainy", "windy"}[rnd.Intn(5)]
		byID := map[string]WardrobeItem{}
		for _, item := range items {
			byID[item.ID] = item
		}

		outfits, err := c.Compose(Request{Items: items, Count: count, Weather: weather, Seed: seed(s)})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(outfits), count)

		seen := map[string]bool{}
		for _, outfit := range outfits {
			assert.NotEmpty(t, outfit)
			assert.LessOrEqual(t, len(outfit), maxItems)

			cats := map[Category]int{}
			for _, id := range outfit {
				assert.False(t, seen[id], "seed %d: %s used twice", s, id)
				seen[id] = true
				cats[ex.Extract(byID[id].Description).Category]++
			}
			if cats[CategoryDresses] > 0 {
				assert.Equal(t, 1, cats[CategoryDresses], "seed %d: %v", s, outfit)
				assert.Zero(t, cats[CategoryTops], "seed %d: %v", s, outfit)
				assert.Zero(t, cats[CategoryBottoms], "seed %d: %v", s, outfit)
			}
		}
	}
}

func TestOutfitKeyIgnoresOrder(t *testing.T) {
	ids := []string{"c.txt", "a.txt", "b.txt"}

	assert.Equal(t, OutfitKey([]string{"a.txt", "b.txt", "c.txt"}), OutfitKey(ids))
	assert.Equal(t, []string{"c.txt", "a.txt", "b.txt"}, ids)
	assert.Len(t, OutfitKey(nil), 32)
}
