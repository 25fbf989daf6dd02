package tui

import (
	"fmt"
	"strings"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/classify"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
	"github.com/charmbracelet/lipgloss"
)

func renderPreview(it *content.Item, width, height, scroll int) string {
	if it == nil {
		return lipglossCenter("Select an article", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(it.Title)
	source := previewSourceStyle.Render(
		fmt.Sprintf("%s · %s · %s", it.Source, categoryStyle(it.Category).Render(string(it.Category)), it.Date),
	)

	desc := it.Excerpt
	if desc == "" {
		desc = "(No description available)"
	}

	body := previewBodyStyle.Width(contentWidth).Render(wrapText(desc, contentWidth))

	link := "Read more: " + it.URL
	if it.URL == "#" {
		link = "(No link available)"
	}
	meta := []string{title, source, "", body, "", previewLinkStyle.Width(contentWidth).Render(link)}
	if t, ok := classify.TopicFor(it.Category); ok {
		meta = append(meta, topicDescStyle.Render("Topic: "+t.Title))
	}
	if it.Image != "" {
		meta = append(meta, topicDescStyle.Width(contentWidth).Render("Image: "+it.Image))
	}

	out := lipgloss.JoinVertical(lipgloss.Left, meta...)

	lines := strings.Split(out, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
