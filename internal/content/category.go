package content

import (
	"fmt"
	"strings"
)

// Category is the topic an item belongs to.
type Category string

const (
	ML      Category = "ML"
	CV      Category = "CV"
	NLP     Category = "NLP"
	RL      Category = "RL"
	Podcast Category = "Podcast"
)

// ArticleCategories returns the categories an article can end up in, in canonical order.
func ArticleCategories() []Category {
	return []Category{ML, CV, NLP, RL}
}

// IsArticle reports whether c is one of the four article categories.
func (c Category) IsArticle() bool {
	switch c {
	case ML, CV, NLP, RL:
		return true
	}
	return false
}

// ParseCategory accepts any casing of a known category. An empty string is valid and
// means "not declared".
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, c := range append(ArticleCategories(), Podcast) {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (valid: ML, CV, NLP, RL, Podcast)", s)
}

// Images maps a category to its fallback hero image.
type Images map[Category]string

// For returns the image for c, falling back to the ML image for anything unknown.
func (im Images) For(c Category) string {
	if u, ok := im[c]; ok && u != "" {
		return u
	}
	return im[ML]
}

const unsplash = "?ixlib=rb-4.0.3&auto=format&fit=crop&w=1470&q=80"

// DefaultImages returns a fresh copy of the built-in image set.
func DefaultImages() Images {
	return Images{
		ML:      "https://images.unsplash.com/photo-1488590528505-98d2b5aba04b" + unsplash,
		NLP:     "https://images.unsplash.com/photo-1518770660439-4636190af475" + unsplash,
		CV:      "https://images.unsplash.com/photo-1581091226825-a6a2a5aee158" + unsplash,
		RL:      "https://images.unsplash.com/photo-1485827404703-89b55fcc595e" + unsplash,
		Podcast: "https://images.unsplash.com/photo-1461749280684-dccba630e2f6" + unsplash,
	}
}
