package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChecker(t *testing.T, status int, body string) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "trendlens/test", r.Header.Get("User-Agent"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return &Checker{Client: srv.Client(), URL: srv.URL, UserAgent: "trendlens/test"}
}

func TestCheckNewerRelease(t *testing.T) {
	c := newTestChecker(t, http.StatusOK, `{"tag_name":"v1.3.0","html_url":"https://example.com/r"}`)

	res, err := c.Check(context.Background(), "v1.2.0")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "1.3.0", res.LatestVersion)
	assert.Equal(t, "https://example.com/r", res.URL)
}

func TestCheckUpToDate(t *testing.T) {
	c := newTestChecker(t, http.StatusOK, `{"tag_name":"v1.2.0"}`)

	res, err := c.Check(context.Background(), "1.2.0")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestCheckDevBuildSkipsRequest(t *testing.T) {
	c := &Checker{Client: http.DefaultClient, URL: "http://127.0.0.1:0"}

	res, err := c.Check(context.Background(), "dev")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestCheckBadStatus(t *testing.T) {
	c := newTestChecker(t, http.StatusForbidden, `{}`)

	_, err := c.Check(context.Background(), "1.0.0")
	assert.ErrorContains(t, err, "unexpected status 403")
}
