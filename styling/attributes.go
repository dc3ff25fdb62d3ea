package styling

import (
	"strings"

	"aistylist/languageutil"
)

type Category string

const (
	CategoryDresses     Category = "Dresses"
	CategoryTops        Category = "Tops"
	CategoryBottoms     Category = "Bottoms"
	CategoryShoes       Category = "Shoes"
	CategoryOuterwear   Category = "Outerwear"
	CategoryAccessories Category = "Accessories"
	CategoryPending     Category = "Pending"

	// categoryAny scores a candidate without a category bonus.
	categoryAny Category = "Any"
)

const Unknown = "Unknown"

// WardrobeItem is one clothing item as the composer sees it. Pending items
// have no usable description yet and are never selected.
type WardrobeItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Pending     bool   `json:"pending,omitempty"`
}

type Attributes struct {
	Category Category `json:"category"`
	Color    string   `json:"color"`
	Material string   `json:"material"`
	Style    string   `json:"style"`
}

type AttributeExtractor interface {
	Extract(description string) Attributes
	// Colors returns every palette color named in the description, in palette order.
	Colors(description string) []string
}

// Extractor resolves attributes by keyword lookup against a Taxonomy.
type Extractor struct {
	taxonomy *Taxonomy
}

func NewExtractor(taxonomy *Taxonomy) *Extractor {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	return &Extractor{taxonomy: taxonomy}
}

func (e *Extractor) Extract(description string) Attributes {
	lower := strings.ToLower(description)
	attrs := Attributes{
		Category: CategoryAccessories,
		Color:    Unknown,
		Material: Unknown,
		Style:    Unknown,
	}
	if label, ok := firstMatch(lower, e.taxonomy.Categories); ok {
		attrs.Category = Category(label)
	}
	if label, ok := firstMatch(lower, e.taxonomy.Colors); ok {
		attrs.Color = languageutil.Title(label)
	}
	if label, ok := firstMatch(lower, e.taxonomy.Materials); ok {
		attrs.Material = label
	}
	if label, ok := firstMatch(lower, e.taxonomy.Styles); ok {
		attrs.Style = label
	}
	return attrs
}

func (e *Extractor) Colors(description string) []string {
	lower := strings.ToLower(description)
	colors := []string{}
	for _, entry := range e.taxonomy.Colors {
		if containsAny(lower, entry.Keywords) {
			colors = append(colors, entry.Label)
		}
	}
	return colors
}

func firstMatch(lower string, table []LabelKeywords) (string, bool) {
	for _, entry := range table {
		if containsAny(lower, entry.Keywords) {
			return entry.Label, true
		}
	}
	return "", false
}

// CategoryOf returns the item's category, or CategoryPending for items
// still waiting on a description.
func CategoryOf(ex AttributeExtractor, item WardrobeItem) Category {
	if item.Pending {
		return CategoryPending
	}
	return ex.Extract(item.Description).Category
}
