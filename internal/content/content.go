// Package content holds the static educational material served alongside
// the classification API.
package content

// LearnCard is a short educational note about waste sorting
type LearnCard struct {
	Title string `json:"title"`
	Icon  string `json:"icon"`
	Text  string `json:"text"`
}

// LearnCards returns the educational cards in display order
func LearnCards() []LearnCard {
	return []LearnCard{
		{
			Title: "The Pizza Box Problem",
			Icon:  "🍕",
			Text:  "A single greasy pizza box can contaminate an entire batch of cardboard recycling. Rule: greasy bottom → compost it. The clean top can often be recycled separately.",
		},
		{
			Title: "What is Wishcycling?",
			Icon:  "🌀",
			Text:  "Wishcycling is tossing non-recyclables hoping they'll be recycled. It damages the whole stream and can cause batches to be rejected.",
		},
		{
			Title: "The Clean & Dry Rule",
			Icon:  "🚿",
			Text:  "Most recyclables must be clean and dry. Rinse a peanut butter jar for 30 seconds and it becomes perfectly recyclable.",
		},
	}
}

// QuickSuggestions returns common items offered as one-tap classification targets
func QuickSuggestions() []string {
	return []string{
		"pizza box", "plastic bottle", "banana peel", "battery",
		"glass jar", "aluminum can", "tissue paper", "paint can",
		"coffee grounds", "cardboard box", "plastic bag", "old t-shirt",
	}
}
