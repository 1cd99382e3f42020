// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sanitize normalizes free text into tag values and note file names.
package sanitize

import (
	"strings"
	"unicode"
)

// untitled replaces names that sanitize to nothing.
const untitled = "Untitled"

// Tag maps a label name or color to a value usable after a tag prefix.
// Whitespace runs and the hierarchy separator collapse to a single "-",
// merged with an adjacent "-" or "_"; anything other than letters, digits,
// "-" and "_" is dropped. A purely numeric result gets a leading "_" since
// tags cannot be all digits.
func Tag(raw string) string {
	var b strings.Builder
	pendingDash := false
	var last rune
	for _, r := range raw {
		switch {
		case unicode.IsSpace(r) || r == '/':
			pendingDash = true
		case r == '-' || r == '_':
			pendingDash = false
			b.WriteRune(r)
			last = r
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 && last != '-' && last != '_' {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			last = r
		}
	}

	tag := b.String()
	if tag != "" && strings.IndexFunc(tag, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		tag = "_" + tag
	}
	return tag
}

// FileName strips characters that are illegal in file names or that break
// [[wiki-link]] targets, then trims trailing dots and spaces. The result
// is also safe to use as a link target.
func FileName(raw string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		switch r {
		case '*', '"', '\\', '/', '<', '>', ':', '|', '?', '#', '^', '[', ']':
			return -1
		}
		return r
	}, raw)

	name = strings.TrimSpace(name)
	name = strings.TrimRight(name, ". ")
	if name == "" {
		return untitled
	}
	return name
}
