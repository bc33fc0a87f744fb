// Package linker implements the link-resolution engine: an immutable
// name→target index over the vault, self-reference exclusion, a substring
// matcher for partial (prefix/suffix/infix) matches, a tokenizer that skips
// text already inside wikilink syntax, and the materializer that turns a
// confirmed match into [[wikilink]] text.
package linker

// Target names one addressable destination: a whole document, or a named
// section within it via SubPath. Immutable once constructed.
type Target struct {
	// Path is the vault-relative path of the destination document.
	Path string `json:"path"`
	// IsAlias is true when the index key came from a frontmatter alias.
	IsAlias bool `json:"is_alias"`
	// ActualName is the canonical display name (original casing preserved).
	ActualName string `json:"actual_name"`
	// SubPath is "#Heading" for section targets, empty otherwise.
	SubPath string `json:"subpath,omitempty"`
}

// MatchResult is the outcome of resolving one word. A nil Target means no
// match; that is the normal result for unknown words, never an error.
type MatchResult struct {
	Target        *Target `json:"target,omitempty"`
	IsPartial     bool    `json:"is_partial"`
	MatchedString string  `json:"matched_string"`
}

// Matched reports whether the resolution produced a target.
func (m MatchResult) Matched() bool { return m.Target != nil }

// HeaderLevels holds six independent toggles for which heading levels are
// indexed when IncludeHeaders is on.
type HeaderLevels struct {
	H1 bool `yaml:"h1"`
	H2 bool `yaml:"h2"`
	H3 bool `yaml:"h3"`
	H4 bool `yaml:"h4"`
	H5 bool `yaml:"h5"`
	H6 bool `yaml:"h6"`
}

// Enabled reports whether the given heading level (1..6) is indexed.
func (h HeaderLevels) Enabled(level int) bool {
	switch level {
	case 1:
		return h.H1
	case 2:
		return h.H2
	case 3:
		return h.H3
	case 4:
		return h.H4
	case 5:
		return h.H5
	case 6:
		return h.H6
	default:
		return false
	}
}

// Config controls matching behavior. It is externally owned and read-only
// to the engine.
type Config struct {
	MatchStart     bool         `yaml:"match_start"`
	MatchEnd       bool         `yaml:"match_end"`
	MatchMiddle    bool         `yaml:"match_middle"`
	MinMatchLength int          `yaml:"min_match_length"`
	IncludeHeaders bool         `yaml:"include_headers"`
	HeaderLevels   HeaderLevels `yaml:"header_levels"`
}

// DefaultConfig returns the stock matcher configuration.
func DefaultConfig() Config {
	return Config{
		MatchStart:     true,
		MatchEnd:       true,
		MatchMiddle:    false,
		MinMatchLength: 3,
		IncludeHeaders: false,
		HeaderLevels:   HeaderLevels{H1: true, H2: true, H3: true},
	}
}
