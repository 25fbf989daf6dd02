package classify

import "strings"

var suggestions = []string{
	"Artificial Intelligence",
	"Machine Learning",
	"Deep Learning",
	"Neural Networks",
	"Computer Vision",
	"Natural Language Processing",
	"Reinforcement Learning",
	"AI Ethics",
	"AI Applications",
	"AI Research",
}

// Suggest returns the fixed search terms containing query, case-insensitively.
// An empty query yields nothing.
func Suggest(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []string
	for _, s := range suggestions {
		if strings.Contains(strings.ToLower(s), q) {
			out = append(out, s)
		}
	}
	return out
}
