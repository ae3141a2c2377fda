package dialogue

import (
	"regexp"
	"strings"

	"github.com/weenlabs/ween/internal/lexicon"
)

// Signals is the raw keyword bag extracted from one utterance before any
// resolution logic runs.
type Signals struct {
	Cuisines   []string
	FoodTypes  []string
	PriceHints []string
}

// ExtractSignals scans the fixed lexicons for case-insensitive substring
// matches. Order follows the lexicon tables so results are deterministic.
func ExtractSignals(utterance string) Signals {
	return Signals{
		Cuisines:   lexicon.Matches(utterance, lexicon.CuisineSignals),
		FoodTypes:  lexicon.Matches(utterance, lexicon.FoodTypes),
		PriceHints: lexicon.Matches(utterance, lexicon.PriceIndicators),
	}
}

var (
	vegetarianPattern = regexp.MustCompile(`(?i)vegetarian|vegan|healthy`)
	refinePattern     = regexp.MustCompile(`(?i)something else|another option|try again`)
	acceptAnyPattern  = regexp.MustCompile(`(?i)anything|whatever|any|everything`)
)

// detectOrder is the fixed priority list the cuisine detector walks.
// First match wins.
var detectOrder = []struct {
	cuisine string
	terms   []string
}{
	{"pizza", []string{"pizza"}},
	{"burger", []string{"burger", "burgers"}},
	{"sushi", []string{"sushi"}},
	{"steak", []string{"steak"}},
	{"italian", []string{"italian"}},
	{"mexican", []string{"mexican"}},
	{"chinese", []string{"chinese"}},
	{"indian", []string{"indian"}},
}

// ResolvePreferences folds one utterance into the previous preference
// snapshot and returns the new value. Resolution order is strict and the
// branches are mutually exclusive; once one fires the rest are skipped:
//
//  1. vegetarian/vegan/healthy mention pins cuisine to "vegetarian";
//  2. an explicit "something else" request or any negative-sentiment match
//     sets Refine and preserves the current cuisine;
//  3. otherwise the cuisine detector runs: first known cuisine keyword
//     wins, an accept-anything phrase clears the filter, and any other
//     non-empty input falls back to the trimmed raw utterance.
//
// Price resolution is independent of the cuisine branches. Refine is never
// cleared here; it stays set for the rest of the session once the user has
// rejected a round of suggestions.
func ResolvePreferences(prev Preferences, utterance string) Preferences {
	next := prev

	switch {
	case vegetarianPattern.MatchString(utterance):
		next.Cuisine = strptr("vegetarian")
	case refinePattern.MatchString(utterance) || lexicon.ContainsAny(utterance, lexicon.NegativeSentiment):
		next.Refine = true
	default:
		next.Cuisine = detectCuisine(utterance)
	}

	signals := ExtractSignals(utterance)
	if price := resolvePrice(signals.PriceHints); price != nil {
		next.PriceRange = price
	}

	return next
}

// detectCuisine returns the first matching known cuisine, nil for
// accept-anything input, and the trimmed raw utterance as a free-text
// fallback otherwise.
func detectCuisine(utterance string) *string {
	lower := strings.ToLower(utterance)
	for _, entry := range detectOrder {
		for _, term := range entry.terms {
			if strings.Contains(lower, term) {
				return strptr(entry.cuisine)
			}
		}
	}
	if acceptAnyPattern.MatchString(utterance) {
		return nil
	}
	if trimmed := strings.TrimSpace(utterance); trimmed != "" {
		return strptr(trimmed)
	}
	return nil
}

// resolvePrice buckets price hints in fixed order: low, high, moderate.
// First intersecting bucket wins.
func resolvePrice(hints []string) *int {
	if len(hints) == 0 {
		return nil
	}
	switch {
	case intersects(hints, lexicon.PriceLowHints):
		return intptr(PriceLow)
	case intersects(hints, lexicon.PriceHighHints):
		return intptr(PriceHigh)
	case intersects(hints, lexicon.PriceModerateHints):
		return intptr(PriceModerate)
	}
	return nil
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func strptr(s string) *string { return &s }
func intptr(n int) *int       { return &n }
