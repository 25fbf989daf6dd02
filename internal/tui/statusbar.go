package tui

import (
	"fmt"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/view"
	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(snap view.Snapshot, shown int, query string, width int, searching bool) string {
	left := fmt.Sprintf(" %d of %d articles", shown, snap.Total)
	if query != "" {
		left += fmt.Sprintf(" · matching %q", query)
	}
	switch snap.State {
	case view.Loading:
		left += " (loading...)"
	case view.LoadingMore:
		left += " (loading more...)"
	}

	right := " c category  d date  s sort  / search  r reload  ? help  q quit "
	if searching {
		right = " ↑/↓ pick  enter search  esc cancel "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}

func renderBottomBar(hints string, width int) string {
	right := " " + hints + " "
	gap := width - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(width).Render(fmt.Sprintf("%*s", gap, "") + right)
}
