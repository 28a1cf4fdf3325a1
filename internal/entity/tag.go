package entity

import (
	"sort"
	"strings"

	"github.com/clipperhouse/uax29/v2/words"
	"golang.org/x/text/cases"
)

var tagCaseFold = cases.Fold()

// NormalizeTags applies the boundary rule from spec.md §6: strip a
// leading '#', split on whitespace (whitespace runs are found with
// Unicode word-boundary segmentation), lowercase
// (locale-independent case folding), trim, drop empties, sort, dedup.
//
// NormalizeTags is idempotent and order-insensitive — invariant 1 in
// spec.md §8.
func NormalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))

	for _, r := range raw {
		for _, tag := range splitTagWords(r) {
			tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
			tag = strings.TrimSpace(tag)
			tag = tagCaseFold.String(tag)

			if tag == "" {
				continue
			}

			if _, ok := seen[tag]; ok {
				continue
			}

			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}

	sort.Strings(out)

	return out
}

// splitTagWords splits a raw tag-list entry at its whitespace runs,
// tolerating entries that themselves contain whitespace (e.g.
// "#bio #eco" typed into one field). Non-whitespace segments between
// two whitespace runs are joined back into one token, so "non-profit"
// stays a single tag.
func splitTagWords(s string) []string {
	var tokens []string
	var current strings.Builder

	seg := words.FromString(s)
	for seg.Next() {
		t := seg.Value()
		if strings.TrimSpace(t) == "" {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		current.WriteString(t)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}
