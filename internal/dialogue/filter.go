package dialogue

import (
	"slices"

	"github.com/samber/lo"

	"github.com/weenlabs/ween/internal/places"
)

// FilterCandidates narrows the restaurant list by the current preferences.
// A restaurant passes only if every set preference matches: cuisine must be
// present in the type set, price level must equal the preference exactly
// (no tolerance), and distance must be within the bound. Unset preferences
// pass everything, so empty preferences return the input unchanged.
//
// Filtering is advisory: callers substitute the full list when the result
// is empty rather than presenting zero options.
func FilterCandidates(restaurants []places.Restaurant, prefs Preferences) []places.Restaurant {
	return lo.Filter(restaurants, func(r places.Restaurant, _ int) bool {
		if prefs.Cuisine != nil && !slices.Contains(r.Types, *prefs.Cuisine) {
			return false
		}
		if prefs.PriceRange != nil && (r.PriceLevel == nil || *r.PriceLevel != *prefs.PriceRange) {
			return false
		}
		if prefs.Distance != nil && r.Distance > *prefs.Distance {
			return false
		}
		return true
	})
}
