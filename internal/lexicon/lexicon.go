// Package lexicon holds the closed keyword sets the dialogue core matches
// against. The lists are intentionally small: precision is favored over
// recall, and unmatched input degrades to "no filter" rather than erroring.
// English-only; other languages are a known limitation.
package lexicon

import "strings"

// CuisineSignals are the cuisine names scanned for in raw preference signals.
var CuisineSignals = []string{
	"italian", "chinese", "indian", "mexican", "japanese", "thai", "american",
	"french", "mediterranean", "greek", "korean", "vietnamese", "spanish",
	"middle eastern", "vegan", "vegetarian", "gluten-free", "healthy", "fast food",
}

// FoodTypes are dish- and meal-level keywords scanned alongside cuisines.
var FoodTypes = []string{
	"pizza", "burger", "sushi", "pasta", "salad", "sandwich", "taco", "curry",
	"noodle", "steak", "seafood", "breakfast", "brunch", "dinner", "lunch",
	"dessert", "coffee", "bakery", "ice cream",
}

// PriceIndicators are every price-related keyword recognized in an utterance.
var PriceIndicators = []string{
	"cheap", "expensive", "affordable", "budget", "high-end", "fancy", "fine dining",
	"casual", "inexpensive", "pricey", "upscale", "moderate",
}

// Price buckets, checked in this fixed order: low, high, moderate.
// First matching bucket wins.
var (
	PriceLowHints      = []string{"cheap", "affordable", "inexpensive", "budget"}
	PriceHighHints     = []string{"expensive", "high-end", "fancy", "fine dining", "upscale", "pricey"}
	PriceModerateHints = []string{"moderate", "mid-range"}
)

// NegativeSentiment marks dissatisfaction with prior suggestions.
var NegativeSentiment = []string{
	"no", "nope", "don't like", "don't want", "something else", "not interested",
	"different", "instead", "rather", "prefer", "actually", "healthier", "cheaper",
}

// MemoryCuisines is the fixed cuisine list scanned by the memory store.
var MemoryCuisines = []string{
	"italian", "chinese", "indian", "mexican", "japanese", "thai", "burger", "pizza",
}

// LikeMarkers and DislikeMarkers qualify a cuisine mention as a durable signal.
var (
	LikeMarkers    = []string{"like", "love", "enjoy", "prefer", "want", "looking for", "craving"}
	DislikeMarkers = []string{"don't like", "hate", "not a fan", "dislike", "anything but"}
)

// DietaryRestrictions recognized for cross-turn memory.
var DietaryRestrictions = []string{
	"vegetarian", "vegan", "gluten-free", "dairy-free", "nut allergy",
}

// Memory price groups map to the low/moderate/high scalar preference.
// Narrower than PriceIndicators on purpose; the two scans are independent.
var (
	MemoryPriceLow      = []string{"cheap", "inexpensive", "affordable"}
	MemoryPriceModerate = []string{"moderate", "mid-range"}
	MemoryPriceHigh     = []string{"expensive", "high-end", "fancy"}
)

// Ambiance groups map to the quiet/lively/family-friendly scalar preference.
var (
	AmbianceQuiet  = []string{"quiet", "romantic", "intimate"}
	AmbianceLively = []string{"lively", "energetic", "bustling"}
	AmbianceFamily = []string{"family", "kid-friendly"}
)

// NegationPatterns flip extracted restaurant names into the rejected set.
var NegationPatterns = []string{"don't like", "not", "didn't enjoy"}

// DetailKeywords and Interrogatives together identify a detail request.
var DetailKeywords = []string{
	"hours", "open", "close", "opening", "closing",
	"rating", "stars", "review", "score",
	"menu", "dish", "food", "serve", "cuisine",
	"reservation", "book", "wait time",
}

var Interrogatives = []string{"what", "when", "how", "is", "are", "does", "do"}

// DomainKeywords mark an utterance as on-topic for food and dining.
var DomainKeywords = []string{
	"food", "restaurant", "eat", "dining", "lunch", "dinner", "breakfast", "brunch",
	"cuisine", "hungry", "menu", "meal", "place", "pizza", "burger", "sushi", "salad",
}

// OffDomainKeywords mark an utterance as off-topic when no domain keyword
// is present. "hotel" is a standing exception handled by the classifier.
var OffDomainKeywords = []string{
	"weather", "sports", "news", "school", "homework", "class", "study",
	"politics", "science", "math", "history", "geography", "health", "exercise",
	"movie", "film", "tv", "show", "game", "play", "book", "read",
}

// NonCuisineTypes are place-search categories stripped before presentation.
var NonCuisineTypes = []string{
	"point_of_interest", "establishment", "food", "restaurant", "place",
	"store", "business", "health", "meal_delivery", "meal_takeaway",
	"lodging", "finance", "convenience_store", "gas_station", "clothing_store",
}

// ContainsAny reports whether text contains any of the terms as a
// case-insensitive substring.
func ContainsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// Matches returns the subset of terms contained in text, preserving the
// order of the term list.
func Matches(text string, terms []string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, t := range terms {
		if strings.Contains(lower, t) {
			out = append(out, t)
		}
	}
	return out
}

// HasToken reports whether any of the terms appears as a whole
// space-separated token in text. Used for interrogatives, where substring
// matching would fire on words like "mexican" containing "can".
func HasToken(text string, terms []string) bool {
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		for _, t := range terms {
			if tok == t {
				return true
			}
		}
	}
	return false
}
