package view

import (
	"strings"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
)

type DateRange string

const (
	ThisWeek  DateRange = "this-week"
	ThisMonth DateRange = "this-month"
	ThisYear  DateRange = "this-year"
	AllTime   DateRange = "all"
)

func DateRanges() []DateRange { return []DateRange{ThisWeek, ThisMonth, ThisYear, AllTime} }

func (d DateRange) Label() string {
	switch d {
	case ThisWeek:
		return "This week"
	case ThisMonth:
		return "This month"
	case ThisYear:
		return "This year"
	case AllTime:
		return "All time"
	}
	return string(d)
}

type SortBy string

const (
	Newest     SortBy = "newest"
	Oldest     SortBy = "oldest"
	MostViewed SortBy = "most-viewed"
)

func SortOrders() []SortBy { return []SortBy{Newest, Oldest, MostViewed} }

func (s SortBy) Label() string {
	switch s {
	case Newest:
		return "Newest"
	case Oldest:
		return "Oldest"
	case MostViewed:
		return "Most viewed"
	}
	return string(s)
}

// Filter selects and orders the displayed items. An empty Category means all.
type Filter struct {
	Category  content.Category `json:"category,omitempty"`
	DateRange DateRange        `json:"dateRange"`
	SortBy    SortBy           `json:"sortBy"`
}

func DefaultFilter() Filter {
	return Filter{DateRange: ThisWeek, SortBy: Newest}
}

func (f Filter) Validate() error {
	if c, err := content.ParseCategory(string(f.Category)); err != nil || c == content.Podcast {
		return &FilterError{Field: "category", Value: string(f.Category), Err: err}
	}
	if _, err := ParseDateRange(string(f.DateRange)); err != nil {
		return err
	}
	if _, err := ParseSortBy(string(f.SortBy)); err != nil {
		return err
	}
	return nil
}

// ParseDateRange accepts the canonical values case-insensitively. Empty means this-week.
func ParseDateRange(s string) (DateRange, error) {
	if strings.TrimSpace(s) == "" {
		return ThisWeek, nil
	}
	for _, d := range DateRanges() {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", &FilterError{Field: "dateRange", Value: s}
}

// ParseSortBy accepts the canonical values case-insensitively. Empty means newest.
func ParseSortBy(s string) (SortBy, error) {
	if strings.TrimSpace(s) == "" {
		return Newest, nil
	}
	for _, o := range SortOrders() {
		if strings.EqualFold(s, string(o)) {
			return o, nil
		}
	}
	return "", &FilterError{Field: "sortBy", Value: s}
}

// ParseFilter builds a Filter from user input such as flags or query parameters.
// A category of "all" is the same as none.
func ParseFilter(category, dateRange, sortBy string) (Filter, error) {
	if strings.EqualFold(strings.TrimSpace(category), "all") {
		category = ""
	}
	c, err := content.ParseCategory(category)
	if err != nil || c == content.Podcast {
		return Filter{}, &FilterError{Field: "category", Value: category, Err: err}
	}
	d, err := ParseDateRange(dateRange)
	if err != nil {
		return Filter{}, err
	}
	s, err := ParseSortBy(sortBy)
	if err != nil {
		return Filter{}, err
	}
	return Filter{Category: c, DateRange: d, SortBy: s}, nil
}
