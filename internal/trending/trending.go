// Package trending derives trending tags and active sources from the current articles.
package trending

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
)

// DefaultLimit is how many tags the trending list shows.
const DefaultLimit = 6

// Window is how far back an item counts as recent.
const Window = 7 * 24 * time.Hour

type Tag struct {
	Term  string  `json:"term"`
	Label string  `json:"label"`
	Count int     `json:"count"`
	Score float64 `json:"score"`
}

// SourceCount is the number of recent items one source contributed.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// Compute scores title terms of items published within Window of now against the
// whole set.
func Compute(items []content.Item, now time.Time, limit int) []Tag {
	return Tags(Recent(items, now), items, limit)
}

// Recent returns the items published within Window of now.
func Recent(items []content.Item, now time.Time) []content.Item {
	cutoff := now.Add(-Window)
	var out []content.Item
	for _, it := range items {
		if !it.Published.IsZero() && !it.Published.Before(cutoff) {
			out = append(out, it)
		}
	}
	return out
}

// Tags extracts top keywords from recent titles using TF-IDF over all titles. A term must
// appear at least twice among recent titles.
func Tags(recent, all []content.Item, limit int) []Tag {
	if limit <= 0 {
		limit = DefaultLimit
	}

	df := map[string]int{}
	for _, it := range all {
		seen := map[string]bool{}
		for _, w := range tokenize(it.Title) {
			if !seen[w] {
				df[w]++
				seen[w] = true
			}
		}
	}

	tf := map[string]int{}
	for _, it := range recent {
		for _, w := range tokenize(it.Title) {
			tf[w]++
		}
	}

	// +1 keeps terms that appear in every title from scoring zero.
	totalDocs := float64(len(all) + 1)

	var tags []Tag
	for term, freq := range tf {
		if freq < 2 {
			continue
		}
		docFreq := df[term]
		if docFreq == 0 {
			docFreq = 1
		}
		idf := math.Log(totalDocs / float64(docFreq))
		tags = append(tags, Tag{Term: term, Label: Label(term), Count: freq, Score: float64(freq) * idf})
	}

	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Score != tags[j].Score {
			return tags[i].Score > tags[j].Score
		}
		return tags[i].Term < tags[j].Term
	})
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

// Label renders a term as a hashtag, e.g. "diffusion" -> "#Diffusion".
func Label(term string) string {
	var b strings.Builder
	b.WriteByte('#')
	upper := true
	for _, r := range term {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ActiveSources counts items per source, busiest first, at most limit entries.
func ActiveSources(items []content.Item, limit int) []SourceCount {
	counts := map[string]int{}
	for _, it := range items {
		counts[it.Source]++
	}

	sorted := make([]SourceCount, 0, len(counts))
	for name, count := range counts {
		sorted = append(sorted, SourceCount{name, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Source < sorted[j].Source
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "is": true, "it": true, "its": true,
	"this": true, "that": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "can": true, "not": true, "no": true, "nor": true,
	"how": true, "what": true, "when": true, "where": true, "who": true, "which": true,
	"why": true, "all": true, "each": true, "every": true, "both": true, "few": true,
	"more": true, "most": true, "other": true, "some": true, "such": true, "than": true,
	"too": true, "very": true, "just": true, "about": true, "into": true, "over": true,
	"after": true, "before": true, "between": true, "under": true, "above": true,
	"out": true, "up": true, "down": true, "off": true, "our": true, "your": true,
	"we": true, "you": true, "they": true, "them": true, "their": true, "new": true,
	"use": true, "using": true, "used": true, "article": true, "introducing": true,
	"towards": true, "via": true,
}

func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len([]rune(word)) < 3 || stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}
