// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data shapes shared across trello2md packages:
// the parsed Trello board export and the import configuration.
package types

// BoardExport is the root of one Trello board export document. Keys the
// importer does not use (actions, checklists, customFields, ...) are
// ignored on decode.
type BoardExport struct {
	// Name is the board name; it names the output folder and the board note.
	Name string `json:"name" yaml:"name"`

	// Description is the board description ("desc" in the export).
	Description string `json:"desc" yaml:"desc"`

	// Lists holds the board's lists in declared order.
	Lists []ListRecord `json:"lists" yaml:"lists"`

	// Cards holds the board's cards in declared order.
	Cards []CardRecord `json:"cards" yaml:"cards"`
}

// ListRecord is one Trello list (column).
type ListRecord struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Archived bool   `json:"closed" yaml:"closed"`
}

// CardRecord is one Trello card. Name is not unique within a board.
type CardRecord struct {
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"desc" yaml:"desc"`
	Archived    bool               `json:"closed" yaml:"closed"`
	ListID      string             `json:"idList" yaml:"idList"`
	Labels      []LabelRecord      `json:"labels" yaml:"labels"`
	Attachments []AttachmentRecord `json:"attachments" yaml:"attachments"`

	// StartDate and DueDate are empty when unset (null in the export).
	StartDate string `json:"start,omitempty" yaml:"start,omitempty"`
	DueDate   string `json:"due,omitempty" yaml:"due,omitempty"`

	// DueComplete is nil when the export omits it.
	DueComplete *bool `json:"dueComplete,omitempty" yaml:"dueComplete,omitempty"`
}

// LabelRecord is a card label. Either field may be empty.
type LabelRecord struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// AttachmentRecord is a file or link attached to a card. IsUpload marks
// files hosted on Trello's storage, which need an authenticated fetch.
type AttachmentRecord struct {
	Name     string `json:"name" yaml:"name"`
	URL      string `json:"url" yaml:"url"`
	IsUpload bool   `json:"isUpload" yaml:"isUpload"`
}
