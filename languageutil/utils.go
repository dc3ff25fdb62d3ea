package languageutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Occasions are the looks a composed outfit can be tagged with.
var Occasions []string = []string{
	"Casual",
	"Business",
	"Smart Casual",
	"Formal",
	"Sporty",
	"Chic",
	"Bohemian",
	"Street",
	"Romantic",
	"Minimalist",
	"Vintage",
	"Preppy",
}

type Intner interface {
	Intn(n int) int
}

// Title upper-cases the first letter of every word. A Caser keeps state,
// so a fresh one is made per call.
func Title(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

func Lower(s string) string {
	return cases.Lower(language.English).String(s)
}

// PickOccasions returns n distinct occasions. Once the list is exhausted it
// starts over, so n may be larger than len(Occasions).
func PickOccasions(rnd Intner, n int) []string {
	if n <= 0 {
		return []string{}
	}
	out := make([]string, 0, n)
	for len(out) < n {
		pool := append([]string(nil), Occasions...)
		for i := 0; i < len(pool) && len(out) < n; i++ {
			j := i + rnd.Intn(len(pool)-i)
			pool[i], pool[j] = pool[j], pool[i]
			out = append(out, pool[i])
		}
	}
	return out
}
