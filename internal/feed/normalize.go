package feed

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/config"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// excerptLimit is the number of runes kept before the ellipsis.
const excerptLimit = 150

// escapedMarkup matches an HTML element left over after entity decoding. Only element
// names are accepted so that text such as "x<y and n>3" survives.
var escapedMarkup = regexp.MustCompile(`(?i)</?(a|abbr|b|blockquote|br|code|div|em|figcaption|figure|h[1-6]|hr|i|iframe|img|li|ol|p|pre|s|script|small|span|strong|style|sub|sup|table|td|th|tr|u|ul)(\s[^<>]*)?/?>`)

// Normalizer turns one source's feed document into content items.
type Normalizer struct {
	retriever Retriever
	images    content.Images
	now       func() time.Time
	fetchID   func() string
}

type NormalizerOption func(*Normalizer)

// WithClock replaces time.Now for date fallbacks.
func WithClock(now func() time.Time) NormalizerOption {
	return func(n *Normalizer) { n.now = now }
}

// WithFetchID replaces the per-call identifier embedded in item IDs.
func WithFetchID(fn func() string) NormalizerOption {
	return func(n *Normalizer) { n.fetchID = fn }
}

func NewNormalizer(r Retriever, images content.Images, opts ...NormalizerOption) *Normalizer {
	if images == nil {
		images = content.DefaultImages()
	}
	n := &Normalizer{
		retriever: r,
		images:    images,
		now:       time.Now,
		fetchID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize never fails: retrieval and parse errors are logged and yield no items.
func (n *Normalizer) Normalize(ctx context.Context, source config.Source) []content.Item {
	items, err := n.Fetch(ctx, source)
	if err != nil {
		logFetchError(source, err)
		return []content.Item{}
	}
	if items == nil {
		return []content.Item{}
	}
	return items
}

// Fetch is Normalize with the error reported to the caller.
func (n *Normalizer) Fetch(ctx context.Context, source config.Source) ([]content.Item, error) {
	start := time.Now()
	body, err := n.retriever.Retrieve(ctx, source)
	sourceFetchDuration.WithLabelValues(source.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		sourceFetches.WithLabelValues(source.Name, "error").Inc()
		return nil, err
	}
	items, err := n.NormalizeDocument(source, body)
	if err != nil {
		sourceFetches.WithLabelValues(source.Name, "error").Inc()
		return nil, fmt.Errorf("normalizing %s: %w", source.Name, err)
	}
	sourceFetches.WithLabelValues(source.Name, "ok").Inc()
	log.WithFields(log.Fields{
		"source": source.Name,
		"items":  len(items),
	}).Debug("Normalized feed")
	return items, nil
}

// NormalizeDocument converts an already retrieved document.
func (n *Normalizer) NormalizeDocument(source config.Source, body []byte) ([]content.Item, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	now := n.now()
	fetchID := n.fetchID()
	category := source.DeclaredCategory()

	items := make([]content.Item, 0, len(doc.entries))
	for i, e := range doc.entries {
		date, published := formatDate(e, now)
		image := FirstImage(e.content)
		if image == "" {
			image = n.images.For(category)
		}
		items = append(items, content.Item{
			ID:        fmt.Sprintf("%s-%d-%s", source.Name, i, fetchID),
			Source:    source.Name,
			Title:     titleOrFallback(e.title, source.Name),
			Excerpt:   Excerpt(e.content),
			Image:     image,
			Category:  category,
			Date:      date,
			URL:       linkOrFallback(e.link),
			Published: published,
		})
	}
	return items, nil
}

func titleOrFallback(title, source string) string {
	if title != "" {
		return title
	}
	return source + " Article"
}

func linkOrFallback(link string) string {
	if link != "" {
		return link
	}
	return "#"
}

// formatDate returns the display date and the parsed time. An unparseable date is shown
// verbatim with a zero time; a missing date falls back to now.
func formatDate(e entry, now time.Time) (string, time.Time) {
	if e.published != nil && !e.published.IsZero() {
		return e.published.Format(content.DateLayout), *e.published
	}
	raw := strings.TrimSpace(e.rawDate)
	if raw == "" {
		return now.Format(content.DateLayout), now
	}
	if t, ok := parseDate(raw); ok {
		return t.Format(content.DateLayout), t
	}
	return raw, time.Time{}
}

// Excerpt strips markup, collapses whitespace and truncates to 150 runes plus "...".
func Excerpt(raw string) string {
	text := plainText(raw)
	// Feeds sometimes escape their markup twice.
	if escapedMarkup.MatchString(text) {
		text = plainText(text)
	}
	runes := []rune(text)
	if len(runes) <= excerptLimit {
		return text
	}
	return strings.TrimRight(string(runes[:excerptLimit]), " ") + "..."
}

func plainText(raw string) string {
	z := html.NewTokenizer(strings.NewReader(raw))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			if isRawTextTag(z) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			if isRawTextTag(z) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

func isRawTextTag(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch atom.Lookup(name) {
	case atom.Script, atom.Style:
		return true
	}
	return false
}

// FirstImage returns the src of the first img element in raw, or "".
func FirstImage(raw string) string {
	z := html.NewTokenizer(strings.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if atom.Lookup(name) != atom.Img || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "src" {
					if src := strings.TrimSpace(string(val)); src != "" {
						return src
					}
				}
				if !more {
					break
				}
			}
		}
	}
}

func logFetchError(source config.Source, err error) {
	fields := log.Fields{
		"source": source.Name,
		"url":    source.URL,
		"error":  err,
	}
	var sfe *SourceFetchError
	if errors.As(err, &sfe) && sfe.StatusCode != 0 {
		fields["status"] = sfe.StatusCode
	}
	log.WithFields(fields).Warn("Source produced no items")
}
