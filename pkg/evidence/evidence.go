// Package evidence tracks the supporting excerpts behind entity records.
// Evidence is append-only: consolidation may union new items into a record's
// list but never replaces or shrinks it.
package evidence

import (
	"sort"
	"strings"
)

// Item is a single piece of supporting evidence for a field or record.
type Item struct {
	Source     string  `json:"source" yaml:"source"`         // e.g. "extraction", "interview", "document"
	Text       string  `json:"text" yaml:"text"`             // the excerpt itself
	Confidence float64 `json:"confidence" yaml:"confidence"` // extractor confidence in [0,1]
}

// key identifies an item for de-duplication. Confidence is deliberately not
// part of the identity: the same excerpt re-extracted with a different
// confidence is still the same evidence.
func (i Item) key() string {
	return i.Source + "\x00" + strings.TrimSpace(i.Text)
}

// FromExcerpts builds evidence items from raw extraction excerpts.
func FromExcerpts(source string, excerpts []string, confidence float64) []Item {
	if len(excerpts) == 0 {
		return nil
	}
	items := make([]Item, 0, len(excerpts))
	for _, text := range excerpts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		items = append(items, Item{Source: source, Text: text, Confidence: confidence})
	}
	return items
}

// Merge unions existing and incoming evidence, dropping duplicates.
// Existing items keep their position; genuinely new items are appended in
// order. The existing slice is never mutated.
func Merge(existing, incoming []Item) []Item {
	if len(incoming) == 0 {
		return existing
	}

	merged := make([]Item, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	seen := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		seen[item.key()] = struct{}{}
	}

	for _, item := range incoming {
		if _, ok := seen[item.key()]; ok {
			continue
		}
		seen[item.key()] = struct{}{}
		merged = append(merged, item)
	}

	return merged
}

// MergeIDs unions two slices of provenance identifiers, preserving the order
// of the existing slice and sorting the newly added identifiers for
// deterministic output.
func MergeIDs(existing, incoming []string) []string {
	if len(incoming) == 0 {
		return existing
	}

	merged := make([]string, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	seen := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		seen[id] = struct{}{}
	}

	var added []string
	for _, id := range incoming {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		added = append(added, id)
	}

	sort.Strings(added)
	return append(merged, added...)
}
