// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trello2md/internal/httputil"
	"github.com/pdiddy/trello2md/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

var testAuth = types.TrelloAuth{APIKey: "key123", Token: "tok456"}

func newTestClient(ts *httptest.Server, auth types.TrelloAuth, opts ...Option) *Client {
	c := New(ts.Client(), types.HTTPConfig{UserAgent: "trello2md-test"}, auth, opts...)
	c.authHost = func(string) bool { return true }
	return c
}

func TestFetch_SendsAuthAndUserAgent(t *testing.T) {
	var gotAuth, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("PNGDATA"))
	}))
	defer ts.Close()

	data, err := newTestClient(ts, testAuth).Fetch(context.Background(), ts.URL+"/download/shot.png")
	require.NoError(t, err)

	assert.Equal(t, []byte("PNGDATA"), data)
	assert.Equal(t, `OAuth oauth_consumer_key="key123", oauth_token="tok456"`, gotAuth)
	assert.Equal(t, "trello2md-test", gotUA)
}

func TestFetch_NoAuthForForeignHost(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	c := New(ts.Client(), types.HTTPConfig{}, testAuth)
	_, err := c.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestFetch_NoAuthWithoutCredentials(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	_, err := newTestClient(ts, types.TrelloAuth{APIKey: "only-key"}).Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestFetch_Non200IsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	_, err := newTestClient(ts, testAuth).Fetch(context.Background(), ts.URL)
	assert.ErrorContains(t, err, "HTTP 401")
}

func TestFetch_RetriesOn429(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("late"))
	}))
	defer ts.Close()

	data, err := newTestClient(ts, testAuth).Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("late"), data)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetch_CachesByURL(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("same"))
	}))
	defer ts.Close()

	c := newTestClient(ts, testAuth, WithCacheSize(4))
	for i := 0; i < 3; i++ {
		data, err := c.Fetch(context.Background(), ts.URL+"/a")
		require.NoError(t, err)
		assert.Equal(t, []byte("same"), data)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, err := c.Fetch(context.Background(), ts.URL+"/b")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetch_FailuresNotCached(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer ts.Close()

	c := newTestClient(ts, testAuth)
	_, err := c.Fetch(context.Background(), ts.URL)
	require.Error(t, err)

	data, err := c.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("recovered"), data)
}

func TestFetch_BadURL(t *testing.T) {
	c := New(http.DefaultClient, types.HTTPConfig{}, testAuth)

	_, err := c.Fetch(context.Background(), "ftp://example.com/file")
	assert.ErrorContains(t, err, "unsupported attachment URL scheme")

	_, err = c.Fetch(context.Background(), "://nope")
	assert.ErrorContains(t, err, "parsing attachment URL")
}

func TestFetch_CancelledWhileRateLimited(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("x"))
	}))
	defer ts.Close()

	c := New(ts.Client(), types.HTTPConfig{RequestsPerSecond: 0.001}, testAuth)
	_, err := c.Fetch(context.Background(), ts.URL+"/first")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Fetch(ctx, ts.URL+"/second")
	assert.ErrorContains(t, err, "rate limiter")
}

func TestIsTrelloHost(t *testing.T) {
	assert.True(t, isTrelloHost("trello.com"))
	assert.True(t, isTrelloHost("api.trello.com"))
	assert.True(t, isTrelloHost("Trello.com"))
	assert.False(t, isTrelloHost("trello-attachments.s3.amazonaws.com"))
	assert.False(t, isTrelloHost("nottrello.com"))
}
