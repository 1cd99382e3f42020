// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trello decodes Trello board export documents.
package trello

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pdiddy/trello2md/pkg/types"
)

// ErrEmptyDocument is returned when the input holds no JSON value at all.
var ErrEmptyDocument = errors.New("empty board export")

// Parse decodes one board export. The declared shape is trusted once
// decoded: duplicate list ids or cards pointing at unknown lists are
// accepted as-is.
func Parse(data []byte) (*types.BoardExport, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	var board types.BoardExport
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("decoding board export: %w", err)
	}
	return &board, nil
}

// ParseString is Parse for text already read by a Source.
func ParseString(text string) (*types.BoardExport, error) {
	return Parse([]byte(text))
}
