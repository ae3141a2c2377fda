package prompt

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/weenlabs/ween/internal/lexicon"
	"github.com/weenlabs/ween/internal/places"
)

// maxCandidates caps how many restaurants are serialized into one LLM call.
const maxCandidates = 10

// Candidate is the ephemeral presentation form of a restaurant, regenerated
// for every LLM call and never cached.
type Candidate struct {
	Name         string   `json:"name"`
	Rating       string   `json:"rating"`
	CuisineTypes []string `json:"cuisine_types"`
	Description  string   `json:"detailed_description"`
	Emoji        string   `json:"emoji"`
	PriceLevel   string   `json:"price_level"`
	Vicinity     string   `json:"vicinity"`
}

// FormatCandidates enriches up to maxCandidates restaurants with the
// cuisine-keyed description template and emoji. Template and emoji come
// from the same fixed priority table, so a restaurant is always presented
// with a matching pair.
func FormatCandidates(restaurants []places.Restaurant) []Candidate {
	subset := lo.Subset(restaurants, 0, maxCandidates)
	out := make([]Candidate, 0, len(subset))
	for _, r := range subset {
		out = append(out, formatCandidate(r))
	}
	return out
}

func formatCandidate(r places.Restaurant) Candidate {
	cuisineTypes := cuisineTypesOf(r)
	style := lexicon.StyleFor(cuisineTypes)

	rating := "No rating available"
	if r.Rating > 0 {
		rating = strconv.FormatFloat(r.Rating, 'f', -1, 64)
	}
	priceLevel := "Not specified"
	if r.PriceLevel != nil {
		priceLevel = strconv.Itoa(*r.PriceLevel)
	}

	return Candidate{
		Name:         r.Name,
		Rating:       rating,
		CuisineTypes: cuisineTypes,
		Description:  describe(r, style),
		Emoji:        style.Emoji,
		PriceLevel:   priceLevel,
		Vicinity:     r.Vicinity,
	}
}

// cuisineTypesOf strips the generic place-search categories, leaving only
// cuisine-bearing types.
func cuisineTypesOf(r places.Restaurant) []string {
	return lo.Filter(r.Types, func(t string, _ int) bool {
		return !slices.Contains(lexicon.NonCuisineTypes, t)
	})
}

// describe renders the template description plus price and open-now
// suffixes where the underlying record carries them.
func describe(r places.Restaurant, style lexicon.CuisineStyle) string {
	desc := style.Description
	if r.PriceLevel != nil && *r.PriceLevel >= 1 && *r.PriceLevel <= len(lexicon.PriceDescriptions) {
		desc += " " + lexicon.PriceDescriptions[*r.PriceLevel-1]
	}
	if r.OpeningHours != nil && r.OpeningHours.OpenNow != nil {
		if *r.OpeningHours.OpenNow {
			desc += " They're currently open and ready to welcome hungry diners."
		} else {
			desc += " They're currently closed, so plan your visit for another time."
		}
	}
	return desc
}

// DecorateName renders the canonical emoji-bracketed display form.
func DecorateName(c Candidate) string {
	return fmt.Sprintf("%s %s %s", c.Emoji, c.Name, c.Emoji)
}
