// Package update checks GitHub releases for a newer trendlens build.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ReleasesURL is the latest-release endpoint of the trendlens repository.
const ReleasesURL = "https://api.github.com/repos/KaungHtetCho-22/trendlens-ai-horizon/releases/latest"

const checkTimeout = 5 * time.Second

// Result holds the outcome of a version check.
type Result struct {
	LatestVersion string
	URL           string
}

type ghRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker queries a releases endpoint.
type Checker struct {
	Client    *http.Client
	URL       string
	UserAgent string
}

func NewChecker(userAgent string) *Checker {
	return &Checker{Client: http.DefaultClient, URL: ReleasesURL, UserAgent: userAgent}
}

// Check reports a newer release, or nil when currentVersion is already the latest or is
// a development build.
func (c *Checker) Check(ctx context.Context, currentVersion string) (*Result, error) {
	current := strings.TrimPrefix(currentVersion, "v")
	if current == "" || current == "dev" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checking latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checking latest release: unexpected status %d", resp.StatusCode)
	}

	var release ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decoding release: %w", err)
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	if latest == "" || latest == current {
		return nil, nil
	}
	return &Result{LatestVersion: latest, URL: release.HTMLURL}, nil
}
