package dialogue

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/weenlabs/ween/internal/lexicon"
)

// Memory is the cross-turn accumulated user signal, distinct from the
// per-turn conversation context. Set fields are additive for the lifetime
// of the dialogue session; entries are inserted, never removed. The two
// scalar fields keep only the last value. Memory dies with the session.
type Memory struct {
	LikedCuisines       []string `json:"liked_cuisines"`
	DislikedCuisines    []string `json:"disliked_cuisines"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	PreferredPriceRange string   `json:"preferred_price_range,omitempty"`
	PreferredAmbiance   string   `json:"preferred_ambiance,omitempty"`
	FavoriteRestaurants []string `json:"favorite_mentioned_restaurants"`
	RejectedRestaurants []string `json:"rejected_restaurants"`
}

// minSummaryLen guards against emitting a near-empty, useless context entry.
const minSummaryLen = 30

var capitalizedName = regexp.MustCompile(`\b[A-Z][a-z]+(?:'s)?\b`)

// emojiBracketedName matches the canonical assistant name format
// "<emoji> Name <emoji>". Restaurant names are never rendered in markdown
// bold, so the emoji alphabet is the only reliable delimiter.
var emojiBracketedName = func() *regexp.Regexp {
	alt := strings.Join(lexicon.AllEmojis(), "|")
	return regexp.MustCompile(`(?:` + alt + `)\s*([A-Za-z][A-Za-z0-9'&. -]*?)\s*(?:` + alt + `)`)
}()

// UpdateMemory folds one exchange into the memory and returns a new
// snapshot; the input value is never mutated. Accumulation is idempotent:
// replaying the same utterance inserts nothing new.
func UpdateMemory(mem Memory, utterance, assistantReply string) Memory {
	next := mem.clone()
	lower := strings.ToLower(utterance)

	for _, cuisine := range lexicon.MemoryCuisines {
		if !strings.Contains(lower, cuisine) {
			continue
		}
		if lexicon.ContainsAny(utterance, lexicon.LikeMarkers) {
			next.LikedCuisines = insert(next.LikedCuisines, cuisine)
		}
		if lexicon.ContainsAny(utterance, lexicon.DislikeMarkers) {
			next.DislikedCuisines = insert(next.DislikedCuisines, cuisine)
		}
	}

	for _, restriction := range lexicon.DietaryRestrictions {
		if strings.Contains(lower, restriction) {
			next.DietaryRestrictions = insert(next.DietaryRestrictions, restriction)
		}
	}

	switch {
	case lexicon.ContainsAny(utterance, lexicon.MemoryPriceLow):
		next.PreferredPriceRange = "low"
	case lexicon.ContainsAny(utterance, lexicon.MemoryPriceModerate):
		next.PreferredPriceRange = "moderate"
	case lexicon.ContainsAny(utterance, lexicon.MemoryPriceHigh):
		next.PreferredPriceRange = "high"
	}

	switch {
	case lexicon.ContainsAny(utterance, lexicon.AmbianceQuiet):
		next.PreferredAmbiance = "quiet"
	case lexicon.ContainsAny(utterance, lexicon.AmbianceLively):
		next.PreferredAmbiance = "lively"
	case lexicon.ContainsAny(utterance, lexicon.AmbianceFamily):
		next.PreferredAmbiance = "family-friendly"
	}

	names := capitalizedName.FindAllString(utterance, -1)
	for _, match := range emojiBracketedName.FindAllStringSubmatch(assistantReply, -1) {
		names = append(names, match[1])
	}
	if len(names) > 0 {
		rejected := lexicon.ContainsAny(utterance, lexicon.NegationPatterns)
		for _, name := range names {
			if rejected {
				next.RejectedRestaurants = insert(next.RejectedRestaurants, name)
			} else {
				next.FavoriteRestaurants = insert(next.FavoriteRestaurants, name)
			}
		}
	}

	return next
}

// Summarize renders the populated memory fields into one deterministic
// natural-language summary, fields in fixed order. It returns "" when the
// memory is empty or the rendering is too short to be a useful context entry.
func Summarize(mem Memory) string {
	var b strings.Builder
	b.WriteString(summaryPrefix + ", I understand that:")

	if len(mem.LikedCuisines) > 0 {
		fmt.Fprintf(&b, " You enjoy %s cuisine.", strings.Join(mem.LikedCuisines, ", "))
	}
	if len(mem.DislikedCuisines) > 0 {
		fmt.Fprintf(&b, " You don't prefer %s cuisine.", strings.Join(mem.DislikedCuisines, ", "))
	}
	if len(mem.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, " You have dietary preferences/restrictions: %s.", strings.Join(mem.DietaryRestrictions, ", "))
	}
	if mem.PreferredPriceRange != "" {
		fmt.Fprintf(&b, " You prefer %s price range restaurants.", mem.PreferredPriceRange)
	}
	if mem.PreferredAmbiance != "" {
		fmt.Fprintf(&b, " You enjoy %s ambiance.", mem.PreferredAmbiance)
	}
	if len(mem.RejectedRestaurants) > 0 {
		fmt.Fprintf(&b, " You weren't interested in %s.", strings.Join(mem.RejectedRestaurants, ", "))
	}

	if mem.isEmpty() {
		return ""
	}
	summary := b.String()
	if len(summary) <= minSummaryLen {
		return ""
	}
	return summary
}

func (m Memory) isEmpty() bool {
	return len(m.LikedCuisines) == 0 &&
		len(m.DislikedCuisines) == 0 &&
		len(m.DietaryRestrictions) == 0 &&
		m.PreferredPriceRange == "" &&
		m.PreferredAmbiance == "" &&
		len(m.FavoriteRestaurants) == 0 &&
		len(m.RejectedRestaurants) == 0
}

func (m Memory) clone() Memory {
	c := m
	c.LikedCuisines = append([]string(nil), m.LikedCuisines...)
	c.DislikedCuisines = append([]string(nil), m.DislikedCuisines...)
	c.DietaryRestrictions = append([]string(nil), m.DietaryRestrictions...)
	c.FavoriteRestaurants = append([]string(nil), m.FavoriteRestaurants...)
	c.RejectedRestaurants = append([]string(nil), m.RejectedRestaurants...)
	return c
}

func insert(set []string, value string) []string {
	for _, v := range set {
		if v == value {
			return set
		}
	}
	return append(set, value)
}
