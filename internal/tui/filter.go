package tui

import (
	"fmt"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/view"
	"github.com/charmbracelet/lipgloss"
)

// filterBar renders the category tabs with the date range and sort order.
type filterBar struct {
	categories []content.Category
}

func newFilterBar() filterBar {
	// "" is the All tab.
	return filterBar{categories: append([]content.Category{""}, content.ArticleCategories()...)}
}

func categoryLabel(c content.Category) string {
	if c == "" {
		return "All"
	}
	return string(c)
}

// nextCategory cycles through All and the article categories.
func (f filterBar) nextCategory(c content.Category, step int) content.Category {
	idx := 0
	for i, cat := range f.categories {
		if cat == c {
			idx = i
			break
		}
	}
	n := len(f.categories)
	return f.categories[((idx+step)%n+n)%n]
}

func nextDateRange(d view.DateRange) view.DateRange {
	ranges := view.DateRanges()
	for i, r := range ranges {
		if r == d {
			return ranges[(i+1)%len(ranges)]
		}
	}
	return view.ThisWeek
}

func nextSort(s view.SortBy) view.SortBy {
	orders := view.SortOrders()
	for i, o := range orders {
		if o == s {
			return orders[(i+1)%len(orders)]
		}
	}
	return view.Newest
}

func (f filterBar) render(filter view.Filter, width int) string {
	sep := tabSeparatorStyle.Render(" · ")

	var parts []string
	for i, c := range f.categories {
		style := tabInactiveStyle
		if c == filter.Category {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%d %s", i+1, categoryLabel(c))))
	}

	row := ""
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	right := helpDimStyle.Render("d " + filter.DateRange.Label() + "  s " + filter.SortBy.Label() + " ")
	gap := width - lipgloss.Width(row) - lipgloss.Width(right) - 1
	if gap > 0 {
		row += lipgloss.NewStyle().Width(gap).Render("") + right
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
