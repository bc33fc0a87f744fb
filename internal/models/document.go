// Package models defines the domain types for Ansuz.
package models

import (
	"path"
	"strings"
	"time"
)

// Document represents the linkable metadata of one Markdown file in the vault:
// everything the link index needs, nothing more.
type Document struct {
	Path          string    `json:"path"`
	Basename      string    `json:"basename"`
	Aliases       []string  `json:"aliases,omitempty"`
	Headings      []Heading `json:"headings,omitempty"`
	IgnoreLinking bool      `json:"ignore_linking,omitempty"`
	Checksum      string    `json:"checksum"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Heading is one ATX heading inside a document.
type Heading struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// FileInfo is a lightweight representation returned by storage list operations.
type FileInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BasenameFromPath extracts the document name from a vault-relative path:
// "topics/My Note.md" -> "My Note".
func BasenameFromPath(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
