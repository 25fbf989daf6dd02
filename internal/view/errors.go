package view

import (
	"errors"
	"fmt"
)

var (
	// ErrNoArticles means aggregation succeeded but produced nothing.
	ErrNoArticles = errors.New("no articles found")
	// ErrFetchFailed wraps an aggregation error.
	ErrFetchFailed = errors.New("failed to load articles")
)

// FilterError reports an invalid filter value or a failed derivation.
type FilterError struct {
	Field string
	Value string
	Err   error
}

func (e *FilterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("filtering articles: %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("filtering articles: invalid %s %q", e.Field, e.Value)
}

func (e *FilterError) Unwrap() error { return e.Err }

// Message turns an engine error into the text shown to readers.
func Message(err error) string {
	var fe *FilterError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoArticles):
		return "No articles found. Please try again later."
	case errors.As(err, &fe):
		return "Error filtering articles. Please try different filters."
	case errors.Is(err, ErrFetchFailed):
		return "Failed to load articles. Please check your connection and try again."
	default:
		return "Something went wrong: " + err.Error()
	}
}
