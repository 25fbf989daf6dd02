package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/cache"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/config"
	log "github.com/sirupsen/logrus"
)

// maxDocumentSize caps how much of a feed body is read.
const maxDocumentSize = 10 << 20

// Retriever returns the raw feed document of a source.
type Retriever interface {
	Retrieve(ctx context.Context, source config.Source) ([]byte, error)
}

// DocumentStore keeps raw bodies and their validators for conditional requests.
type DocumentStore interface {
	GetDocument(url string) (cache.Document, bool, error)
	PutDocument(d cache.Document) error
}

// SourceFetchError reports that a source could not be retrieved directly or through
// the proxy.
type SourceFetchError struct {
	Source     string
	URL        string
	StatusCode int
	Err        error
}

func (e *SourceFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s (%s): status %d: %v", e.Source, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetching %s (%s): %v", e.Source, e.URL, e.Err)
}

func (e *SourceFetchError) Unwrap() error { return e.Err }

type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string { return "unexpected response: " + e.status }

// HTTPRetriever fetches documents over HTTP, retrying once through a proxy prefix.
type HTTPRetriever struct {
	client    *http.Client
	proxyURL  string
	timeout   time.Duration
	store     DocumentStore
	userAgent string
}

type RetrieverOption func(*HTTPRetriever)

func WithHTTPClient(c *http.Client) RetrieverOption {
	return func(r *HTTPRetriever) { r.client = c }
}

// WithProxy sets the prefix prepended to a source URL for the fallback attempt.
func WithProxy(prefix string) RetrieverOption {
	return func(r *HTTPRetriever) { r.proxyURL = prefix }
}

// WithTimeout bounds every single request.
func WithTimeout(d time.Duration) RetrieverOption {
	return func(r *HTTPRetriever) { r.timeout = d }
}

// WithDocumentStore enables conditional requests backed by store.
func WithDocumentStore(store DocumentStore) RetrieverOption {
	return func(r *HTTPRetriever) { r.store = store }
}

func WithUserAgent(ua string) RetrieverOption {
	return func(r *HTTPRetriever) { r.userAgent = ua }
}

func NewHTTPRetriever(opts ...RetrieverOption) *HTTPRetriever {
	r := &HTTPRetriever{
		client:    http.DefaultClient,
		timeout:   15 * time.Second,
		userAgent: "trendlens/dev",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *HTTPRetriever) Retrieve(ctx context.Context, source config.Source) ([]byte, error) {
	body, directErr := r.get(ctx, source.URL, true)
	if directErr == nil {
		return body, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, ctx.Err())
	}
	if r.proxyURL == "" {
		return nil, newSourceFetchError(source, source.URL, directErr)
	}

	log.WithFields(log.Fields{
		"source": source.Name,
		"error":  directErr,
	}).Debug("Direct fetch failed, retrying through proxy")

	proxied := r.proxyURL + source.URL
	body, proxyErr := r.get(ctx, proxied, false)
	if proxyErr != nil {
		return nil, newSourceFetchError(source, proxied, errors.Join(directErr, proxyErr))
	}
	sourceFetches.WithLabelValues(source.Name, "proxy").Inc()
	return body, nil
}

func newSourceFetchError(source config.Source, url string, err error) *SourceFetchError {
	e := &SourceFetchError{Source: source.Name, URL: url, Err: err}
	var se *statusError
	if errors.As(err, &se) {
		e.StatusCode = se.code
	}
	return e
}

func (r *HTTPRetriever) get(ctx context.Context, url string, conditional bool) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	var cached cache.Document
	var haveCached bool
	if conditional && r.store != nil {
		cached, haveCached, err = r.store.GetDocument(url)
		if err != nil {
			log.WithField("url", url).Warnf("Reading cached document: %v", err)
		}
		if haveCached {
			if cached.ETag != "" {
				req.Header.Set("If-None-Match", cached.ETag)
			}
			if cached.LastModified != "" {
				req.Header.Set("If-Modified-Since", cached.LastModified)
			}
		}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && haveCached {
		return cached.Body, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &statusError{code: resp.StatusCode, status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	if conditional && r.store != nil {
		doc := cache.Document{
			URL:          url,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			Body:         body,
			FetchedAt:    time.Now(),
		}
		if err := r.store.PutDocument(doc); err != nil {
			log.WithField("url", url).Warnf("Caching document: %v", err)
		}
	}
	return body, nil
}
