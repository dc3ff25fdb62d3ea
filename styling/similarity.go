package styling

import "strings"

// SimilarOutfit reports whether a saved outfit description covers the same
// kind of garments as the given item texts: at least half of the clothing
// terms named in the description must appear in some item.
func (t *Taxonomy) SimilarOutfit(description string, items []string) bool {
	if len(items) == 0 {
		return false
	}
	lowerItems := make([]string, len(items))
	for i, item := range items {
		lowerItems[i] = strings.ToLower(item)
	}

	desc := strings.ToLower(description)
	total, matched := 0, 0
	for _, term := range t.Similarity {
		if !strings.Contains(desc, term) {
			continue
		}
		total++
		for _, item := range lowerItems {
			if strings.Contains(item, term) {
				matched++
				break
			}
		}
	}
	return total > 0 && matched*2 >= total
}
