// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads card attachments. Uploads hosted by Trello need
// the API key and token in an OAuth header; requests are rate limited,
// retried on 429 and cached by URL for the life of the client.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/trello2md/internal/httputil"
	"github.com/pdiddy/trello2md/pkg/types"
)

const (
	defaultCacheSize = 128

	// maxAttachmentBytes bounds a single download (Trello's upload limit
	// for paid plans is 250 MB).
	maxAttachmentBytes = 250 << 20
)

// ErrTooLarge is returned when an attachment exceeds maxAttachmentBytes.
var ErrTooLarge = errors.New("attachment exceeds size limit")

// Client fetches attachment bytes.
type Client struct {
	http    *http.Client
	cfg     types.HTTPConfig
	auth    types.TrelloAuth
	limiter *rate.Limiter
	cache   *lru.Cache[string, []byte]
	log     zerolog.Logger

	// authHost reports whether credentials may be sent to host.
	authHost func(host string) bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithCacheSize bounds the URL cache. Sizes below 1 use the default.
func WithCacheSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			cache, err := lru.New[string, []byte](n)
			if err == nil {
				c.cache = cache
			}
		}
	}
}

// New creates a Client. The limiter is disabled when
// cfg.RequestsPerSecond is zero.
func New(client *http.Client, cfg types.HTTPConfig, auth types.TrelloAuth, opts ...Option) *Client {
	cache, _ := lru.New[string, []byte](defaultCacheSize)
	c := &Client{
		http:     client,
		cfg:      cfg,
		auth:     auth,
		cache:    cache,
		log:      zerolog.Nop(),
		authHost: isTrelloHost,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the bytes at rawURL. Any status other than 200 is an error.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if data, ok := c.cache.Get(rawURL); ok {
		c.log.Debug().Str("url", rawURL).Msg("attachment cache hit")
		return data, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing attachment URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported attachment URL scheme %q", u.Scheme)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.auth.Configured() && c.authHost(u.Hostname()) {
		req.Header.Set("Authorization", authHeader(c.auth))
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries, c.log)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, u.Redacted())
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAttachmentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if len(data) > maxAttachmentBytes {
		return nil, ErrTooLarge
	}

	c.cache.Add(rawURL, data)
	return data, nil
}

// authHeader formats Trello's OAuth header from an API key and token.
func authHeader(a types.TrelloAuth) string {
	return fmt.Sprintf("OAuth oauth_consumer_key=%q, oauth_token=%q", a.APIKey, a.Token)
}

func isTrelloHost(host string) bool {
	host = strings.ToLower(host)
	return host == "trello.com" || strings.HasSuffix(host, ".trello.com")
}
