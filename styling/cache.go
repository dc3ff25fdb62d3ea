package styling

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cachedAttributes struct {
	attrs  Attributes
	colors []string
}

// CachedExtractor memoizes another extractor by description. It is safe for
// concurrent use.
type CachedExtractor struct {
	inner AttributeExtractor
	cache *lru.Cache[string, cachedAttributes]
}

func NewCachedExtractor(inner AttributeExtractor, size int) (*CachedExtractor, error) {
	if size <= 0 {
		size = 1024
	}
	c, err := lru.New[string, cachedAttributes](size)
	if err != nil {
		return nil, fmt.Errorf("attribute cache: %w", err)
	}
	return &CachedExtractor{inner: inner, cache: c}, nil
}

func (c *CachedExtractor) lookup(description string) cachedAttributes {
	if v, ok := c.cache.Get(description); ok {
		return v
	}
	v := cachedAttributes{
		attrs:  c.inner.Extract(description),
		colors: c.inner.Colors(description),
	}
	c.cache.Add(description, v)
	return v
}

func (c *CachedExtractor) Extract(description string) Attributes {
	return c.lookup(description).attrs
}

func (c *CachedExtractor) Colors(description string) []string {
	colors := c.lookup(description).colors
	return append([]string(nil), colors...)
}

func (c *CachedExtractor) Len() int {
	return c.cache.Len()
}
