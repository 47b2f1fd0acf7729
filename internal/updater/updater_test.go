package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func releaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tether/1.2.0", r.Header.Get("User-Agent"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck_UpdateAvailable(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name":"v1.3.0","html_url":"https://example.com/r/1.3.0"}`)

	res, err := NewChecker(srv.URL, srv.Client()).Check(context.Background(), "v1.2.0")
	require.NoError(t, err)
	assert.True(t, res.UpdateAvailable)
	assert.Equal(t, "1.2.0", res.CurrentVersion)
	assert.Equal(t, "1.3.0", res.LatestVersion)
	assert.Equal(t, "https://example.com/r/1.3.0", res.ReleaseURL)
}

func TestCheck_UpToDate(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name":"v1.2.0"}`)

	res, err := NewChecker(srv.URL, srv.Client()).Check(context.Background(), "1.2.0")
	require.NoError(t, err)
	assert.False(t, res.UpdateAvailable)
}

func TestCheck_Errors(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		srv := releaseServer(t, http.StatusForbidden, `{}`)
		res, err := NewChecker(srv.URL, srv.Client()).Check(context.Background(), "1.2.0")
		require.Error(t, err)
		assert.False(t, res.UpdateAvailable)
	})
	t.Run("bad json", func(t *testing.T) {
		srv := releaseServer(t, http.StatusOK, `{nope`)
		_, err := NewChecker(srv.URL, srv.Client()).Check(context.Background(), "1.2.0")
		require.Error(t, err)
	})
	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewChecker("http://127.0.0.1:0", nil).Check(ctx, "1.2.0")
		require.Error(t, err)
	})
}

func TestIsNewer(t *testing.T) {
	tests := []struct {
		current, latest string
		want            bool
	}{
		{"1.0.0", "1.0.1", true},
		{"1.0.9", "1.1.0", true},
		{"1.9.0", "2.0.0", true},
		{"1.2.0", "1.2.0", false},
		{"1.3.0", "1.2.9", false},
		{"1.2", "1.2.1", true},
		{"1.2.0", "1.2.1-rc1", true},
		{"dev", "9.9.9", false},
		{"", "1.0.0", false},
		{"1.0.0", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.current+"->"+tt.latest, func(t *testing.T) {
			assert.Equal(t, tt.want, isNewer(tt.current, tt.latest))
		})
	}
}

func TestNewChecker_Defaults(t *testing.T) {
	c := NewChecker("", nil)
	assert.Equal(t, DefaultEndpoint, c.endpoint)
	assert.NotNil(t, c.client)
}
