// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/trello2md/internal/secrets"
	"github.com/pdiddy/trello2md/pkg/types"
)

const (
	defaultTimeout           = 60 * time.Second
	defaultUserAgent         = "trello2md/0.1"
	defaultRequestsPerSecond = 10
	defaultCacheSize         = 128
	historyFile              = "history.db"
)

// setDefaults registers config defaults on v.
func setDefaults(v *viper.Viper) {
	v.SetDefault("include_archived", false)
	v.SetDefault("download_attachments", false)
	v.SetDefault("http.timeout", defaultTimeout)
	v.SetDefault("http.user_agent", defaultUserAgent)
	v.SetDefault("http.requests_per_second", defaultRequestsPerSecond)
	v.SetDefault("http.max_retries", 0)
	v.SetDefault("attachment_cache_size", defaultCacheSize)
	v.SetDefault("history_path", defaultHistoryPath())
}

// defaultHistoryPath places the history database in the user cache
// directory, or disables history when there is none.
func defaultHistoryPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "trello2md", historyFile)
}

// loadImportConfig decodes v into an ImportConfig and fills credentials
// from s where config and flags left them empty.
func loadImportConfig(v *viper.Viper, s secrets.Secrets) (types.ImportConfig, error) {
	var cfg types.ImportConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Auth.APIKey = s.Lookup(secrets.TrelloAPIKey, cfg.Auth.APIKey)
	cfg.Auth.Token = s.Lookup(secrets.TrelloToken, cfg.Auth.Token)

	if cfg.HTTP.Timeout <= 0 {
		cfg.HTTP.Timeout = defaultTimeout
	}
	if cfg.HTTP.UserAgent == "" {
		cfg.HTTP.UserAgent = defaultUserAgent
	}
	return cfg, nil
}
