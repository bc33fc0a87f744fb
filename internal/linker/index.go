package linker

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/starford/ansuz/internal/models"
)

// Index maps normalized (lowercased) names to link targets. It is built
// wholesale from a document snapshot and never mutated afterwards; readers
// may share one Index freely.
type Index struct {
	entries map[string]Target
}

// Entry is one key→target pair, used for listings.
type Entry struct {
	Key    string `json:"key"`
	Target Target `json:"target"`
}

// Lookup returns the target registered under key, if any.
func (ix *Index) Lookup(key string) (Target, bool) {
	t, ok := ix.entries[key]
	return t, ok
}

// Len returns the number of registered keys.
func (ix *Index) Len() int { return len(ix.entries) }

// Entries returns all key→target pairs sorted by key.
func (ix *Index) Entries() []Entry {
	out := make([]Entry, 0, len(ix.entries))
	for k, t := range ix.entries {
		out = append(out, Entry{Key: k, Target: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// BuildIndex scans the document snapshot and produces a fresh Index.
//
// Per document (skipped entirely when IgnoreLinking is set) the insertion
// order is: enabled headings, then aliases, then the basename last, so a
// document's basename wins over its own heading/alias entries sharing the
// same text. Across documents, later entries overwrite earlier ones.
func BuildIndex(docs []models.Document, cfg Config) *Index {
	entries := make(map[string]Target)

	for _, doc := range docs {
		if doc.IgnoreLinking {
			continue
		}

		if cfg.IncludeHeaders {
			for _, h := range doc.Headings {
				if !cfg.HeaderLevels.Enabled(h.Level) {
					continue
				}
				if utf8.RuneCountInString(h.Text) < cfg.MinMatchLength {
					continue
				}
				entries[strings.ToLower(h.Text)] = Target{
					Path:       doc.Path,
					ActualName: h.Text,
					SubPath:    "#" + h.Text,
				}
			}
		}

		for _, alias := range doc.Aliases {
			if alias == "" {
				continue
			}
			entries[strings.ToLower(alias)] = Target{
				Path:       doc.Path,
				IsAlias:    true,
				ActualName: alias,
			}
		}

		if doc.Basename != "" {
			entries[strings.ToLower(doc.Basename)] = Target{
				Path:       doc.Path,
				ActualName: doc.Basename,
			}
		}
	}

	return &Index{entries: entries}
}

// SelfNameSet holds the normalized names intrinsic to one document. Words
// resolving to a self-name are excluded from matching within that document.
type SelfNameSet map[string]struct{}

// Contains reports whether name is one of the document's own names.
func (s SelfNameSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// SelfNames computes the exclusion set for one document: its basename,
// aliases, and heading texts, all lowercased. Pure function of the document.
func SelfNames(doc models.Document) SelfNameSet {
	out := make(SelfNameSet, 1+len(doc.Aliases)+len(doc.Headings))
	if doc.Basename != "" {
		out[strings.ToLower(doc.Basename)] = struct{}{}
	}
	for _, alias := range doc.Aliases {
		if alias != "" {
			out[strings.ToLower(alias)] = struct{}{}
		}
	}
	for _, h := range doc.Headings {
		if h.Text != "" {
			out[strings.ToLower(h.Text)] = struct{}{}
		}
	}
	return out
}
