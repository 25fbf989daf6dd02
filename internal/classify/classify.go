package classify

import (
	"strings"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
)

// rule matches an item when its title contains one of titleTerms or its excerpt
// contains one of excerptPhrases. Matching is a case-insensitive substring test.
type rule struct {
	category       content.Category
	titleTerms     []string
	excerptPhrases []string
}

// Order matters: the first matching rule wins.
var rules = []rule{
	{
		category:       content.CV,
		titleTerms:     []string{"vision", "image", "camera"},
		excerptPhrases: []string{"computer vision"},
	},
	{
		category:       content.NLP,
		titleTerms:     []string{"language", "nlp", "text"},
		excerptPhrases: []string{"natural language"},
	},
	{
		category: content.RL,
		// "rl" also matches words such as "world".
		titleTerms:     []string{"reinforcement", "agent", "rl"},
		excerptPhrases: []string{"reinforcement learning"},
	},
}

// Categorize returns item with a guaranteed category. Items that already carry one are
// returned unchanged.
func Categorize(item content.Item) content.Item {
	if item.Category != "" {
		return item
	}
	item.Category = Classify(item.Title, item.Excerpt)
	return item
}

// CategorizeAll applies Categorize to every item, returning a new slice.
func CategorizeAll(items []content.Item) []content.Item {
	out := make([]content.Item, len(items))
	for i, it := range items {
		out[i] = Categorize(it)
	}
	return out
}

// Classify picks a category from title and excerpt, defaulting to ML.
func Classify(title, excerpt string) content.Category {
	titleLower := strings.ToLower(title)
	excerptLower := strings.ToLower(excerpt)

	for _, r := range rules {
		for _, term := range r.titleTerms {
			if strings.Contains(titleLower, term) {
				return r.category
			}
		}
		for _, phrase := range r.excerptPhrases {
			if strings.Contains(excerptLower, phrase) {
				return r.category
			}
		}
	}
	return content.ML
}
