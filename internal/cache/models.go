package cache

import "time"

// Document is a raw feed body kept for conditional requests.
type Document struct {
	URL          string
	ETag         string
	LastModified string
	Body         []byte
	FetchedAt    time.Time
}
