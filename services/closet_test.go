package services_test

import (
	"os"
	"path/filepath"
	"testing"

	"aistylist/services"
	"aistylist/styling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClosetDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("a.jpg", "img")
	write("a.txt", "  This item is a black cotton t-shirt\n")
	write("b.PNG", "img")
	write("c.txt", "This item is navy blue jeans")
	write("d.webp", "img")
	write("d.txt", "   ")
	write("notes.md", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	items, err := services.LoadClosetDir(dir)
	require.NoError(t, err)

	assert.Equal(t, []styling.WardrobeItem{
		{ID: "a.txt", Description: "This item is a black cotton t-shirt"},
		{ID: "b.txt", Pending: true},
		{ID: "c.txt", Description: "This item is navy blue jeans"},
		{ID: "d.txt", Pending: true},
	}, items)

	_, err = services.LoadClosetDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestLoadClosetDirEmpty(t *testing.T) {
	items, err := services.LoadClosetDir(t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestHashBytesAndImageFiles(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", services.HashBytes(nil))
	assert.True(t, services.IsImageFile("x.JPEG"))
	assert.False(t, services.IsImageFile("x.txt"))
}

func TestLoadStylingTaxonomy(t *testing.T) {
	t.Setenv("STYLING_TAXONOMY_YAML", "")
	tax, err := services.LoadStylingTaxonomy()
	require.NoError(t, err)
	assert.Same(t, styling.DefaultTaxonomy(), tax)

	path := filepath.Join(t.TempDir(), "tax.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: [{label: Tops, keywords: [tee]}]"), 0o644))
	t.Setenv("STYLING_TAXONOMY_YAML", path)
	tax, err = services.LoadStylingTaxonomy()
	require.NoError(t, err)
	assert.Equal(t, []styling.Category{styling.CategoryTops}, tax.CategoryOrder())
}

func TestScanClosetDirImagePaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coat.jpg"), []byte("img"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coat.txt"), []byte("camel wool coat"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hat.txt"), []byte("straw hat"), 0o644))

	entries, err := services.ScanClosetDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "coat", entries[0].Name)
	assert.Equal(t, filepath.Join(dir, "coat.jpg"), entries[0].ImagePath)
	assert.Equal(t, "camel wool coat", entries[0].Item.Description)
	assert.Empty(t, entries[1].ImagePath)
}
