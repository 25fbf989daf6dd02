package content

import "time"

// Item is the uniform record every article feed is normalized into.
type Item struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Image     string    `json:"image"`
	Category  Category  `json:"category"`
	Date      string    `json:"date"`
	URL       string    `json:"url"`
	Published time.Time `json:"published,omitempty"`
}

// Episode is a normalized podcast feed entry.
type Episode struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Host        string    `json:"host"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Duration    string    `json:"duration"`
	AudioURL    string    `json:"audioUrl"`
	Date        string    `json:"date"`
	URL         string    `json:"url"`
	Published   time.Time `json:"published,omitempty"`
}

// DateLayout is the long-form date shown for items, e.g. "May 3, 2025".
const DateLayout = "January 2, 2006"
