// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds HTTP settings for attachment downloads.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "trello2md/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// RequestsPerSecond caps requests against Trello's storage.
	// Zero disables the limiter.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// TrelloAuth holds the API credentials used to fetch uploaded attachments.
type TrelloAuth struct {
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
	Token  string `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token"`
}

// Configured reports whether both credentials are present.
func (a TrelloAuth) Configured() bool {
	return a.APIKey != "" && a.Token != ""
}

// ImportOptions are the user-facing switches consumed by the transformer.
// The value is built once per run and never mutated.
type ImportOptions struct {
	// IncludeArchived keeps archived (closed) cards and lists.
	IncludeArchived bool `json:"include_archived" yaml:"include_archived" mapstructure:"include_archived"`

	// DownloadAttachments fetches uploaded attachments into the vault.
	DownloadAttachments bool `json:"download_attachments" yaml:"download_attachments" mapstructure:"download_attachments"`
}

// ImportConfig groups everything the import command needs.
type ImportConfig struct {
	ImportOptions `yaml:",inline" mapstructure:",squash"`

	// OutputDir is the root under which one folder per board is created.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	HTTP HTTPConfig `json:"http" yaml:"http" mapstructure:"http"`
	Auth TrelloAuth `json:"trello" yaml:"trello" mapstructure:"trello"`

	// AttachmentCacheSize bounds the in-memory attachment cache (entries).
	AttachmentCacheSize int `json:"attachment_cache_size" yaml:"attachment_cache_size" mapstructure:"attachment_cache_size"`

	// HistoryPath is the SQLite database recording import runs.
	// Empty disables history.
	HistoryPath string `json:"history_path" yaml:"history_path" mapstructure:"history_path"`
}
