package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"aistylist/styling"
)

// ClosetEntry is one item found in a closet directory. ImagePath is empty
// for a description without a photo.
type ClosetEntry struct {
	Item      styling.WardrobeItem
	Name      string
	ImagePath string
}

// ScanClosetDir reads a folder of clothing photos with sibling .txt
// descriptions. Items are keyed by their .txt file name. A photo without a
// description becomes a Pending item; a description without a photo is
// still a usable item.
func ScanClosetDir(dir string) ([]ClosetEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read closet %s: %w", dir, err)
	}

	textFile := map[string]string{}
	imageFile := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		base := strings.TrimSuffix(name, filepath.Ext(name))
		switch {
		case strings.EqualFold(filepath.Ext(name), ".txt"):
			textFile[base] = name
		case IsImageFile(name):
			if _, ok := imageFile[base]; !ok {
				imageFile[base] = name
			}
		}
	}

	names := make([]string, 0, len(textFile)+len(imageFile))
	for base := range textFile {
		names = append(names, base)
	}
	for base := range imageFile {
		if _, ok := textFile[base]; !ok {
			names = append(names, base)
		}
	}
	sort.Strings(names)

	out := make([]ClosetEntry, 0, len(names))
	for _, base := range names {
		entry := ClosetEntry{Item: styling.WardrobeItem{ID: base + ".txt"}, Name: base}
		if img, ok := imageFile[base]; ok {
			entry.ImagePath = filepath.Join(dir, img)
		}
		txt, ok := textFile[base]
		if !ok {
			entry.Item.Pending = true
			out = append(out, entry)
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, txt))
		if err != nil {
			return nil, fmt.Errorf("read description %s: %w", base, err)
		}
		entry.Item.Description = strings.TrimSpace(string(raw))
		entry.Item.Pending = entry.Item.Description == ""
		out = append(out, entry)
	}
	return out, nil
}

func LoadClosetDir(dir string) ([]styling.WardrobeItem, error) {
	entries, err := ScanClosetDir(dir)
	if err != nil {
		return nil, err
	}
	items := make([]styling.WardrobeItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entry.Item)
	}
	return items, nil
}
