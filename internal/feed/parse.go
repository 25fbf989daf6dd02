package feed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"
)

// Schema tags which syndication format a document uses.
type Schema int

const (
	SchemaUnknown Schema = iota
	SchemaAtom
	SchemaRSS
)

func (s Schema) String() string {
	switch s {
	case SchemaAtom:
		return "atom"
	case SchemaRSS:
		return "rss"
	default:
		return "unknown"
	}
}

var ErrUnknownSchema = errors.New("unrecognized feed format")

// DetectSchema inspects the root element of a document.
func DetectSchema(body []byte) Schema {
	switch gofeed.DetectFeedType(bytes.NewReader(body)) {
	case gofeed.FeedTypeAtom:
		return SchemaAtom
	case gofeed.FeedTypeRSS:
		return SchemaRSS
	default:
		return SchemaUnknown
	}
}

// document is the schema-neutral result of parsing one feed.
type document struct {
	schema  Schema
	title   string
	author  string
	image   string
	entries []entry
}

// entry holds the fields read from one feed entry before normalization.
type entry struct {
	title     string
	link      string
	rawDate   string
	published *time.Time
	content   string

	// Podcast extras, empty for plain articles.
	author   string
	image    string
	duration string
	audioURL string
}

type schemaParser interface {
	parse(r io.Reader) (document, error)
}

var parsers = map[Schema]schemaParser{
	SchemaAtom: atomParser{},
	SchemaRSS:  rssParser{},
}

func parseDocument(body []byte) (document, error) {
	schema := DetectSchema(body)
	p, ok := parsers[schema]
	if !ok {
		return document{}, ErrUnknownSchema
	}
	doc, err := p.parse(bytes.NewReader(body))
	if err != nil {
		return document{}, fmt.Errorf("parsing %s document: %w", schema, err)
	}
	doc.schema = schema
	return doc, nil
}

type atomParser struct{}

func (atomParser) parse(r io.Reader) (document, error) {
	fp := &atom.Parser{}
	feed, err := fp.Parse(r)
	if err != nil {
		return document{}, err
	}

	doc := document{title: feed.Title}
	if len(feed.Authors) > 0 && feed.Authors[0] != nil {
		doc.author = feed.Authors[0].Name
	}
	if feed.Logo != "" {
		doc.image = feed.Logo
	} else {
		doc.image = feed.Icon
	}

	doc.entries = make([]entry, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		if e == nil {
			continue
		}
		en := entry{
			title: strings.TrimSpace(e.Title),
			link:  atomLink(e.Links),
		}
		switch {
		case e.Published != "":
			en.rawDate, en.published = e.Published, e.PublishedParsed
		case e.Updated != "":
			en.rawDate, en.published = e.Updated, e.UpdatedParsed
		}
		if e.Content != nil && strings.TrimSpace(e.Content.Value) != "" {
			en.content = e.Content.Value
		} else {
			en.content = e.Summary
		}
		if len(e.Authors) > 0 && e.Authors[0] != nil {
			en.author = e.Authors[0].Name
		}
		for _, l := range e.Links {
			if l != nil && l.Rel == "enclosure" {
				en.audioURL = l.Href
				break
			}
		}
		doc.entries = append(doc.entries, en)
	}
	return doc, nil
}

// atomLink prefers the alternate link and falls back to the first one.
func atomLink(links []*atom.Link) string {
	first := ""
	for _, l := range links {
		if l == nil || l.Href == "" {
			continue
		}
		if l.Rel == "" || l.Rel == "alternate" {
			return l.Href
		}
		if first == "" {
			first = l.Href
		}
	}
	return first
}

type rssParser struct{}

func (rssParser) parse(r io.Reader) (document, error) {
	fp := &rss.Parser{}
	feed, err := fp.Parse(r)
	if err != nil {
		return document{}, err
	}

	doc := document{title: feed.Title}
	if feed.Image != nil {
		doc.image = feed.Image.URL
	}
	if feed.ITunesExt != nil {
		doc.author = feed.ITunesExt.Author
		if feed.ITunesExt.Image != "" {
			doc.image = feed.ITunesExt.Image
		}
	}

	doc.entries = make([]entry, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		en := entry{
			title:  strings.TrimSpace(it.Title),
			link:   strings.TrimSpace(it.Link),
			author: it.Author,
		}
		if en.link == "" && it.GUID != nil && it.GUID.IsPermalink != "false" && strings.HasPrefix(it.GUID.Value, "http") {
			en.link = it.GUID.Value
		}
		switch {
		case it.PubDate != "":
			en.rawDate, en.published = it.PubDate, it.PubDateParsed
		case it.DublinCoreExt != nil && len(it.DublinCoreExt.Date) > 0:
			en.rawDate = it.DublinCoreExt.Date[0]
		}
		if strings.TrimSpace(it.Description) != "" {
			en.content = it.Description
		} else {
			en.content = it.Content
		}
		if it.Enclosure != nil {
			en.audioURL = it.Enclosure.URL
		}
		if it.ITunesExt != nil {
			en.duration = it.ITunesExt.Duration
			en.image = it.ITunesExt.Image
			if it.ITunesExt.Author != "" {
				en.author = it.ITunesExt.Author
			}
		}
		doc.entries = append(doc.entries, en)
	}
	return doc, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate handles the date shapes the feed parsers leave unparsed, such as dc:date.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
