package tui

import (
	"fmt"
	"strings"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/classify"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/trending"
	"github.com/charmbracelet/lipgloss"
)

var asciiLogo = []string{
	`▀█▀ █▀█ █▀▀ █▄ █ █▀▄ █   █▀▀ █▄ █ █▀`,
	` █  █▀▄ ██▄ █ ▀█ █▄▀ █▄▄ ██▄ █ ▀█ ▄█`,
}

func renderHomeScreen(width, height int, tags []trending.Tag) string {
	logoStyle := lipgloss.NewStyle().Foreground(colorAccent)
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(colorText)

	var lines []string
	for _, l := range asciiLogo {
		lines = append(lines, logoStyle.Render(l))
	}
	lines = append(lines, helpDimStyle.Render("AI news from across the web"), "", "")

	for i, t := range classify.Topics() {
		lines = append(lines, keyStyle.Render(fmt.Sprintf("[%d]", i+1))+"  "+
			categoryStyle(t.Category).Render(t.Title))
		lines = append(lines, "     "+topicDescStyle.Render(truncateStr(t.Description, max(width-12, 20))))
	}
	lines = append(lines, "")
	lines = append(lines, keyStyle.Render("[e]")+"  "+labelStyle.Render("Browse everything"))
	lines = append(lines, keyStyle.Render("[q]")+"  "+labelStyle.Render("Quit"))

	if len(tags) > 0 {
		rendered := make([]string, len(tags))
		for i, t := range tags {
			rendered[i] = tagStyle.Render(t.Label)
		}
		lines = append(lines, "", "", helpDimStyle.Render("Trending"), strings.Join(rendered, " "))
	}

	content := strings.Join(lines, "\n")
	contentHeight := strings.Count(content, "\n") + 1

	topPad := (height - contentHeight) / 3
	if topPad < 0 {
		topPad = 0
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		strings.Repeat("\n", topPad)+content)
}
