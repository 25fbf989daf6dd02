package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/view"
)

// itemHeight is 2 lines per item plus a blank separator.
const itemHeight = 3

func relativeTime(t time.Time, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// itemAge is the relative publish time, or the display date when it is unknown.
func itemAge(it content.Item, now time.Time) string {
	if it.Published.IsZero() {
		return it.Date
	}
	return relativeTime(it.Published, now)
}

func renderListItem(it content.Item, selected bool, width int, now time.Time) string {
	if width < 10 {
		width = 30
	}

	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(it.Title, width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(it.Title, width-4))
	}

	meta := "  " + categoryStyle(it.Category).Render(string(it.Category)) + " " +
		itemSourceStyle.Render(truncateStr(it.Source, width/2)) + " " +
		itemTimeStyle.Render("· "+itemAge(it, now))

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// listWindow returns the half-open range of items shown for a cursor position.
func listWindow(cursor, n, height int) (start, end int) {
	visible := max(height/itemHeight, 1)
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end = start + visible
	if end > n {
		end = n
		start = max(end-visible, 0)
	}
	return start, end
}

// sentinelRatio is how much of the loader row below the last item is on screen.
func sentinelRatio(cursor, n, height int) float64 {
	if n == 0 {
		return 0
	}
	start, end := listWindow(cursor, n, height)
	return view.VisibleRatio(n, start, end-start+1)
}

func renderList(items []content.Item, cursor, height, width int, snap view.Snapshot, now time.Time) string {
	if len(items) == 0 {
		return lipglossCenter("No articles found", width, height)
	}

	start, end := listWindow(cursor, len(items), height)

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(items[i], i == cursor, width, now))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if end == len(items) {
		switch {
		case snap.State == view.LoadingMore:
			b.WriteString("\n\n" + loaderStyle.Render("  Loading more articles..."))
		case snap.HasMore:
			b.WriteString("\n\n" + loaderStyle.Render("  Scroll for more"))
		default:
			b.WriteString("\n\n" + loaderStyle.Render(fmt.Sprintf("  End of list · %d of %d", len(items), snap.Total)))
		}
	}

	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", max((width-len(s))/2, 0)) + s
}
