package styling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarOutfit(t *testing.T) {
	tax := DefaultTaxonomy()
	items := []string{"white silk blouse", "black jeans"}

	assert.True(t, tax.SimilarOutfit("A blouse with jeans and boots", items))
	assert.True(t, tax.SimilarOutfit("blouse and coat", items))
	assert.False(t, tax.SimilarOutfit("dress, boots and a coat", items))
	assert.False(t, tax.SimilarOutfit("something nice", items))
	assert.False(t, tax.SimilarOutfit("blouse and jeans", nil))
}
