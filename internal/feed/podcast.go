package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/config"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
)

// FetchEpisodes normalizes a podcast source. Episodes follow the article rules for title,
// date and description, and add host, duration and the enclosure audio URL.
func (n *Normalizer) FetchEpisodes(ctx context.Context, source config.Source) ([]content.Episode, error) {
	start := time.Now()
	body, err := n.retriever.Retrieve(ctx, source)
	sourceFetchDuration.WithLabelValues(source.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		sourceFetches.WithLabelValues(source.Name, "error").Inc()
		return nil, err
	}
	episodes, err := n.NormalizeEpisodes(source, body)
	if err != nil {
		sourceFetches.WithLabelValues(source.Name, "error").Inc()
		return nil, fmt.Errorf("normalizing %s: %w", source.Name, err)
	}
	sourceFetches.WithLabelValues(source.Name, "ok").Inc()
	return episodes, nil
}

func (n *Normalizer) NormalizeEpisodes(source config.Source, body []byte) ([]content.Episode, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	now := n.now()
	fetchID := n.fetchID()

	episodes := make([]content.Episode, 0, len(doc.entries))
	for i, e := range doc.entries {
		date, published := formatDate(e, now)

		host := e.author
		if host == "" {
			host = doc.author
		}
		if host == "" {
			host = source.Name
		}

		image := e.image
		if image == "" {
			image = FirstImage(e.content)
		}
		if image == "" {
			image = doc.image
		}
		if image == "" {
			image = n.images.For(content.Podcast)
		}

		episodes = append(episodes, content.Episode{
			ID:          fmt.Sprintf("%s-%d-%s", source.Name, i, fetchID),
			Source:      source.Name,
			Title:       titleOrFallback(e.title, source.Name),
			Host:        host,
			Description: Excerpt(e.content),
			Image:       image,
			Duration:    e.duration,
			AudioURL:    e.audioURL,
			Date:        date,
			URL:         linkOrFallback(e.link),
			Published:   published,
		})
	}
	return episodes, nil
}
