// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document builds Markdown notes from an ordered list of typed
// blocks and renders them in one place, so layout rules live here rather
// than in the code that walks a board.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// BlockKind identifies the type of a body block.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockParagraph
	BlockListItem
)

// Block is one element of a note body.
type Block struct {
	Kind BlockKind
	// Level is the heading depth; ignored for other kinds.
	Level int
	Text  string
}

// Field is one front matter entry. Value is a string, bool or []string.
type Field struct {
	Key   string
	Value any
}

// Document is a note under construction: front matter fields followed by
// body blocks, both kept in insertion order.
type Document struct {
	meta   []Field
	blocks []Block
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// Meta appends a front matter field.
func (d *Document) Meta(key string, value any) *Document {
	d.meta = append(d.meta, Field{Key: key, Value: value})
	return d
}

// Heading appends a heading of the given depth.
func (d *Document) Heading(level int, text string) *Document {
	d.blocks = append(d.blocks, Block{Kind: BlockHeading, Level: level, Text: text})
	return d
}

// Paragraph appends a paragraph. Text is emitted verbatim.
func (d *Document) Paragraph(text string) *Document {
	d.blocks = append(d.blocks, Block{Kind: BlockParagraph, Text: text})
	return d
}

// ListItem appends a bullet. Consecutive items render as one list.
func (d *Document) ListItem(text string) *Document {
	d.blocks = append(d.blocks, Block{Kind: BlockListItem, Text: text})
	return d
}

// Fields returns the front matter fields in order.
func (d *Document) Fields() []Field {
	return d.meta
}

// Blocks returns the body blocks in order.
func (d *Document) Blocks() []Block {
	return d.blocks
}

// Render produces the Markdown text. Front matter is omitted when the
// document has no fields; empty paragraphs produce no output.
func (d *Document) Render() (string, error) {
	var b strings.Builder

	if len(d.meta) > 0 {
		fm, err := renderFrontMatter(d.meta)
		if err != nil {
			return "", err
		}
		b.WriteString("---\n")
		b.WriteString(fm)
		b.WriteString("---\n")
	}

	chunks := renderBody(d.blocks)
	if len(chunks) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Join(chunks, "\n\n"))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// renderBody groups blocks into chunks separated by blank lines.
func renderBody(blocks []Block) []string {
	var chunks []string
	var list []string

	flush := func() {
		if len(list) > 0 {
			chunks = append(chunks, strings.Join(list, "\n"))
			list = nil
		}
	}

	for _, blk := range blocks {
		switch blk.Kind {
		case BlockListItem:
			list = append(list, "- "+blk.Text)
		case BlockHeading:
			flush()
			level := blk.Level
			if level < 1 {
				level = 1
			}
			chunks = append(chunks, strings.Repeat("#", level)+" "+blk.Text)
		case BlockParagraph:
			flush()
			if text := strings.TrimRight(blk.Text, "\n"); text != "" {
				chunks = append(chunks, text)
			}
		}
	}
	flush()
	return chunks
}

// renderFrontMatter encodes fields as a YAML mapping, preserving order.
// String sequences use flow style: tags: [a, b].
func renderFrontMatter(fields []Field) (string, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		value, err := valueNode(f.Value)
		if err != nil {
			return "", fmt.Errorf("front matter field %q: %w", f.Key, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.Key},
			value,
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}
	return buf.String(), nil
}

func valueNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case string:
		// Untagged so date-like values stay plain (due: 2024-01-01).
		return &yaml.Node{Kind: yaml.ScalarNode, Value: val}, nil
	case bool:
		s := "false"
		if val {
			s = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: s}, nil
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, item := range val {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: item})
		}
		return seq, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// Link formats an external Markdown link.
func Link(text, url string) string {
	return "[" + text + "](" + url + ")"
}

// WikiLink formats an internal link to another note or file.
func WikiLink(target string) string {
	return "[[" + target + "]]"
}

// Embed formats an embedded internal file.
func Embed(target string) string {
	return "!" + WikiLink(target)
}
