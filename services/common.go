package services

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"aistylist/styling"
)

var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".heic", ".heif", ".webp"}

func IsImageFile(path string) bool {
	return slices.Contains(allowedImageExtensions, strings.ToLower(filepath.Ext(path)))
}

func StrPointer(str string) *string {
	if str == "" {
		return nil
	}
	return &str
}

func GetEnv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}

// HashBytes is the hex md5 used to spot the same image uploaded twice.
func HashBytes(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// LoadStylingTaxonomy returns the taxonomy at STYLING_TAXONOMY_YAML, or the
// embedded one when the variable is unset.
func LoadStylingTaxonomy() (*styling.Taxonomy, error) {
	path := GetEnv("STYLING_TAXONOMY_YAML", "")
	if path == "" {
		return styling.DefaultTaxonomy(), nil
	}
	return styling.LoadTaxonomy(path)
}
