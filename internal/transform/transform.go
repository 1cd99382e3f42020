// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform turns one parsed board export into an ordered plan of
// operations: skip reports, attachment downloads and note writes. It does
// no I/O; the importer package executes the plan through its collaborators.
package transform

import (
	"fmt"
	"path"

	"github.com/pdiddy/trello2md/internal/document"
	"github.com/pdiddy/trello2md/internal/sanitize"
	"github.com/pdiddy/trello2md/pkg/types"
)

const (
	// AttachmentsDir is the board subfolder holding downloaded uploads.
	AttachmentsDir = "Attachments"

	// TagPrefix is prepended to every sanitized label name or color.
	TagPrefix = "Trello/Label/"

	ReasonArchivedCard = "Archived card"
	ReasonArchivedList = "Archived list"

	sectionLevel = 2
)

// OpKind identifies what an Op asks the executor to do.
type OpKind int

const (
	// OpSkip reports Name as skipped with Reason.
	OpSkip OpKind = iota
	// OpDownload fetches URL and stores it at Path, relative to the board folder.
	OpDownload
	// OpWriteNote saves Content as the note Name in the board folder.
	OpWriteNote
)

func (k OpKind) String() string {
	switch k {
	case OpSkip:
		return "skip"
	case OpDownload:
		return "download"
	case OpWriteNote:
		return "write"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Op is one step of a Plan.
type Op struct {
	Kind OpKind

	// Name is the note name for writes, the attachment name for downloads
	// and the card or list name for skips.
	Name string

	Reason  string
	URL     string
	Path    string
	Content string

	// Card is the card name a download belongs to.
	Card string

	// Board marks the write of the board summary note.
	Board bool
}

// Plan is the full, ordered output of one board.
type Plan struct {
	// Folder is the board folder name under the output root.
	Folder string

	Ops []Op

	// Collisions lists note names written more than once, in first-seen
	// order. Later writes overwrite earlier ones.
	Collisions []string
}

// Writes returns the note-write operations in order.
func (p Plan) Writes() []Op {
	var out []Op
	for _, op := range p.Ops {
		if op.Kind == OpWriteNote {
			out = append(out, op)
		}
	}
	return out
}

// Transform builds the plan for board. Cards come first, in declared
// order, each followed by its downloads and its note; the board summary
// note is last.
func Transform(board *types.BoardExport, opts types.ImportOptions) (Plan, error) {
	plan := Plan{Folder: sanitize.FileName(board.Name)}

	seen := make(map[string]int)
	addWrite := func(op Op) {
		seen[op.Name]++
		if seen[op.Name] == 2 {
			plan.Collisions = append(plan.Collisions, op.Name)
		}
		plan.Ops = append(plan.Ops, op)
	}

	for _, card := range board.Cards {
		if card.Archived && !opts.IncludeArchived {
			plan.Ops = append(plan.Ops, Op{Kind: OpSkip, Name: card.Name, Reason: ReasonArchivedCard})
			continue
		}

		doc, downloads := cardDocument(card, opts)
		content, err := doc.Render()
		if err != nil {
			return Plan{}, fmt.Errorf("rendering card %q: %w", card.Name, err)
		}

		plan.Ops = append(plan.Ops, downloads...)
		addWrite(Op{Kind: OpWriteNote, Name: sanitize.FileName(card.Name), Content: content})
	}

	doc, skips := boardDocument(board, opts)
	content, err := doc.Render()
	if err != nil {
		return Plan{}, fmt.Errorf("rendering board %q: %w", board.Name, err)
	}
	plan.Ops = append(plan.Ops, skips...)
	addWrite(Op{Kind: OpWriteNote, Name: plan.Folder, Content: content, Board: true})

	return plan, nil
}

// Tags derives the label tags of a card: name then color for each label,
// skipping empty fields.
func Tags(labels []types.LabelRecord) []string {
	var tags []string
	for _, l := range labels {
		for _, raw := range []string{l.Name, l.Color} {
			if raw == "" {
				continue
			}
			if t := sanitize.Tag(raw); t != "" {
				tags = append(tags, TagPrefix+t)
			}
		}
	}
	return tags
}

func cardDocument(card types.CardRecord, opts types.ImportOptions) (*document.Document, []Op) {
	doc := document.New()

	if tags := Tags(card.Labels); len(tags) > 0 {
		doc.Meta("tags", tags)
	}
	if card.StartDate != "" {
		doc.Meta("start", card.StartDate)
	}
	if card.DueDate != "" {
		doc.Meta("due", card.DueDate)
		doc.Meta("complete", card.DueComplete != nil && *card.DueComplete)
	}

	doc.Heading(sectionLevel, "Description")
	doc.Paragraph(card.Description)

	doc.Heading(sectionLevel, "Attachments")
	var downloads []Op
	for _, att := range card.Attachments {
		switch {
		case !att.IsUpload:
			doc.ListItem(document.Link(att.Name, att.URL))
		case opts.DownloadAttachments:
			rel := path.Join(AttachmentsDir, sanitize.FileName(att.Name))
			downloads = append(downloads, Op{
				Kind: OpDownload,
				Name: att.Name,
				URL:  att.URL,
				Path: rel,
				Card: card.Name,
			})
			doc.ListItem(document.WikiLink(rel))
		}
	}

	return doc, downloads
}

func boardDocument(board *types.BoardExport, opts types.ImportOptions) (*document.Document, []Op) {
	doc := document.New()
	doc.Heading(sectionLevel, "Description")
	doc.Paragraph(board.Description)

	var skips []Op
	for _, list := range board.Lists {
		if list.Archived && !opts.IncludeArchived {
			skips = append(skips, Op{Kind: OpSkip, Name: list.Name, Reason: ReasonArchivedList})
			continue
		}

		doc.Heading(sectionLevel, list.Name)
		for _, card := range board.Cards {
			if card.ListID == list.ID {
				doc.ListItem(document.WikiLink(sanitize.FileName(card.Name)))
			}
		}
	}
	return doc, skips
}
