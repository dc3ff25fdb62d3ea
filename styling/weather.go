package styling

import (
	"slices"
	"strings"
)

// FilterByWeather narrows items for a weather label. It only drops items that
// explicitly clash with the weather; an empty or unrecognised label, and the
// wet labels, return items unchanged.
func FilterByWeather(rules WeatherRules, items []WardrobeItem, weather string) []WardrobeItem {
	label := strings.ToLower(strings.TrimSpace(weather))
	if label == "" {
		return items
	}

	var keep func(lower string) bool
	switch {
	case slices.Contains(rules.WarmLabels, label):
		keep = func(lower string) bool {
			return containsAny(lower, rules.Lightweight) || !containsAny(lower, rules.Heavy)
		}
	case slices.Contains(rules.ColdLabels, label):
		keep = func(lower string) bool {
			return containsAny(lower, rules.Insulating) || !containsAny(lower, rules.Thin)
		}
	default:
		// wet labels and anything unrecognised
		return items
	}

	out := make([]WardrobeItem, 0, len(items))
	for _, item := range items {
		if keep(strings.ToLower(item.Description)) {
			out = append(out, item)
		}
	}
	return out
}
