package languageutil

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	assert.Equal(t, "Black", Title("black"))
	assert.Equal(t, "Polka Dot", Title(" polka dot "))
	assert.Equal(t, "", Title(""))
}

func TestPickOccasionsDistinctWithinList(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	picked := PickOccasions(rnd, 4)

	assert.Len(t, picked, 4)
	seen := map[string]bool{}
	for _, o := range picked {
		assert.Contains(t, Occasions, o)
		assert.False(t, seen[o], "occasion %s repeated", o)
		seen[o] = true
	}
}

func TestPickOccasionsWrapsAround(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	picked := PickOccasions(rnd, len(Occasions)+2)

	assert.Len(t, picked, len(Occasions)+2)
	assert.ElementsMatch(t, Occasions, picked[:len(Occasions)])
	assert.Empty(t, PickOccasions(rnd, 0))
}
