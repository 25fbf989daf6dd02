package classify

import (
	"fmt"
	"strings"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
)

// Topic describes a browsable category page.
type Topic struct {
	Slug        string           `json:"slug"`
	Category    content.Category `json:"category"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
}

var topics = []Topic{
	{
		Slug:        "ml",
		Category:    content.ML,
		Title:       "Machine Learning",
		Description: "Latest news and breakthroughs in machine learning algorithms, techniques, and applications.",
	},
	{
		Slug:        "cv",
		Category:    content.CV,
		Title:       "Computer Vision",
		Description: "Updates on computer vision research, image recognition, object detection, and visual AI systems.",
	},
	{
		Slug:        "nlp",
		Category:    content.NLP,
		Title:       "Natural Language Processing",
		Description: "Developments in NLP, language models, sentiment analysis, and text processing technologies.",
	},
	{
		Slug:        "rl",
		Category:    content.RL,
		Title:       "Reinforcement Learning",
		Description: "Advances in reinforcement learning, robotics, game AI, and autonomous systems.",
	},
}

// Topics returns the topic catalogue in canonical order.
func Topics() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}

// TopicFor returns the topic page of a category.
func TopicFor(c content.Category) (Topic, bool) {
	for _, t := range topics {
		if t.Category == c {
			return t, true
		}
	}
	return Topic{}, false
}

// ResolveTopic maps a slug, category name or full title to a Topic.
func ResolveTopic(alias string) (Topic, error) {
	alias = strings.TrimSpace(alias)
	for _, t := range topics {
		if strings.EqualFold(t.Slug, alias) || strings.EqualFold(t.Title, alias) {
			return t, nil
		}
	}
	valid := make([]string, len(topics))
	for i, t := range topics {
		valid[i] = t.Slug
	}
	return Topic{}, fmt.Errorf("unknown topic %q (valid: %s)", alias, strings.Join(valid, ", "))
}
