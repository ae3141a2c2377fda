package lexicon

// CuisineStyle pairs a group of cuisine type keys with the emoji and the
// descriptive template used when presenting a matching restaurant.
type CuisineStyle struct {
	Match       []string
	Emoji       string
	Description string
}

// DefaultStyle is used when none of the CuisineStyles keys match.
var DefaultStyle = CuisineStyle{
	Emoji:       "🍽️",
	Description: "This popular eatery has earned its reputation with consistently delicious food, attentive service, and an inviting atmosphere. The thoughtfully crafted menu offers something for everyone, whether you're seeking comfort food classics or more adventurous culinary experiences.",
}

// CuisineStyles is the single fixed cuisine-priority order. Both the
// description template and the emoji for a restaurant come from the first
// entry whose keys intersect the restaurant's cuisine types.
var CuisineStyles = []CuisineStyle{
	{
		Match:       []string{"pizza"},
		Emoji:       "🍕",
		Description: "This beloved pizza spot is famous for its perfectly crafted pies with crispy-yet-chewy crusts and creative toppings. From classic Margherita to innovative specialty combinations, their wood-fired ovens turn out some of the most delicious pizza in town.",
	},
	{
		Match:       []string{"italian"},
		Emoji:       "🍝",
		Description: "This charming Italian eatery captures the essence of homestyle cooking with handmade pasta, rich sauces, and authentic recipes passed down through generations. The warm, inviting atmosphere makes it perfect for everything from romantic dinners to family gatherings.",
	},
	{
		Match:       []string{"chinese"},
		Emoji:       "🥢",
		Description: "This vibrant Chinese restaurant serves up bold, flavorful dishes from various regional cuisines. From delicate dim sum to sizzling stir-fries and comforting noodle soups, every dish bursts with authentic flavors and traditional cooking techniques.",
	},
	{
		Match:       []string{"japanese", "sushi"},
		Emoji:       "🍣",
		Description: "This elegant Japanese restaurant showcases the art of precision cooking with meticulously prepared sushi, sashimi, and cooked specialties. The chefs pride themselves on fresh fish, perfectly seasoned rice, and beautiful presentation that's as impressive as the flavors.",
	},
	{
		Match:       []string{"mexican"},
		Emoji:       "🌮",
		Description: "This lively Mexican spot brings the vibrant flavors of authentic regional cooking to your plate. From handmade tortillas to slow-simmered moles and fresh salsas bursting with heat and flavor, every bite offers a taste of Mexico's rich culinary heritage.",
	},
	{
		Match:       []string{"american"},
		Emoji:       "🍔",
		Description: "This popular American eatery excels at elevated comfort food classics that satisfy both nostalgia and modern tastes. Expect generous portions of burgers, sandwiches, and hearty entrées made with high-quality ingredients and creative twists on traditional favorites.",
	},
	{
		Match:       []string{"seafood"},
		Emoji:       "🦞",
		Description: "This outstanding seafood destination showcases the freshest catches prepared with skill and creativity. From simply grilled fish that lets the ocean flavors shine to elaborate seafood platters and specialty dishes, it's a paradise for lovers of fruits de mer.",
	},
	{
		Match:       []string{"bakery"},
		Emoji:       "🥐",
		Description: "This delightful bakery fills the air with irresistible aromas of freshly baked goods throughout the day. Their display cases tempt with everything from artisanal breads and flaky pastries to decadent cakes and cookies made from scratch using premium ingredients.",
	},
	{
		Match:       []string{"cafe"},
		Emoji:       "☕",
		Description: "This welcoming café offers a perfect retreat with thoughtfully sourced coffee, espresso drinks, and a tempting array of light bites. The cozy, laid-back atmosphere makes it ideal for everything from productive work sessions to casual meetups with friends.",
	},
	{
		Match:       []string{"thai"},
		Emoji:       "🍲",
		Description: "This vibrant Thai restaurant balances the four fundamental flavors of sweet, salty, sour, and spicy in every authentic dish. From aromatic curries and stir-fries to refreshing salads and noodle dishes, each plate delivers the complex, harmonious flavors Thailand is famous for.",
	},
	{
		Match:       []string{"indian"},
		Emoji:       "🍛",
		Description: "This aromatic Indian restaurant creates dishes that showcase the country's diverse regional cuisines and masterful spice blending. From tandoor-baked breads and slow-simmered curries to vegetarian specialties, every dish delivers layers of complex flavors and textures.",
	},
	{
		Match:       []string{"bar", "night_club"},
		Emoji:       "🍸",
		Description: "This spirited bar and eatery pairs craft drinks with a menu of craveable bites that go well beyond typical pub fare. The energetic atmosphere makes it perfect for everything from happy hour gatherings to evening social outings with good food and great vibes.",
	},
	{
		Match:       []string{"french"},
		Emoji:       "🥖",
		Description: "This refined French restaurant celebrates the art of classic cuisine with impeccable technique and quality ingredients. From perfectly executed staples to seasonal specialties, each dish reflects the tradition, elegance, and attention to detail that defines French cooking.",
	},
	{
		Match:       []string{"mediterranean"},
		Emoji:       "🫒",
		Description: "This inviting Mediterranean restaurant offers a sun-drenched menu of dishes from across the region. From olive oil-drizzled mezze and fresh seafood to herb-infused grilled meats and vegetable dishes, the bright, healthy flavors transport you to coastal villages and lively tavernas.",
	},
	{
		Match:       []string{"vegetarian"},
		Emoji:       "🥗",
		Description: "This innovative vegetarian haven creates dishes so satisfying and flavor-packed that even dedicated carnivores leave impressed. The kitchen transforms fresh, seasonal produce into creative plates that prove plant-based eating can be both nourishing and extraordinarily delicious.",
	},
}

// PriceDescriptions is appended per price level 1..4.
var PriceDescriptions = []string{
	"The wallet-friendly prices make it a great value spot for satisfying meals without breaking the bank.",
	"With reasonable prices and generous portions, it offers a solid balance of quality and value.",
	"The somewhat higher prices reflect the quality ingredients, skilled preparation, and elevated dining experience.",
	"The premium prices are justified by the exceptional quality, expert preparation, and luxurious dining experience.",
}

// AllEmojis returns every cuisine emoji including the default, in priority
// order. The memory extractor uses this alphabet to find emoji-bracketed
// restaurant names in assistant replies.
func AllEmojis() []string {
	out := make([]string, 0, len(CuisineStyles)+1)
	for _, s := range CuisineStyles {
		out = append(out, s.Emoji)
	}
	return append(out, DefaultStyle.Emoji)
}

// StyleFor picks the first style whose keys intersect the given cuisine
// types, falling back to DefaultStyle.
func StyleFor(cuisineTypes []string) CuisineStyle {
	for _, style := range CuisineStyles {
		for _, key := range style.Match {
			for _, ct := range cuisineTypes {
				if ct == key {
					return style
				}
			}
		}
	}
	return DefaultStyle
}
