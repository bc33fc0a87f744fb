package linker

import (
	"unicode"
	"unicode/utf8"
)

// Token is one maximal run of word characters. Start and End are byte
// offsets into the scanned text.
type Token struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Scanner yields the word tokens of a text span in order. Tokens already
// enclosed in wikilink syntax are skipped: the check looks only at the two
// characters immediately before and after the token, so markers further
// away are not detected. That imprecision is deliberate.
type Scanner struct {
	src string
	pos int
}

// NewScanner returns a Scanner positioned at the start of src.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// Next returns the next eligible token, or ok=false when the text is exhausted.
func (s *Scanner) Next() (Token, bool) {
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !isWordRune(r) {
			s.pos += size
			continue
		}

		start := s.pos
		for s.pos < len(s.src) {
			r, size := utf8.DecodeRuneInString(s.src[s.pos:])
			if !isWordRune(r) {
				break
			}
			s.pos += size
		}
		end := s.pos

		if s.insideReference(start, end) {
			continue
		}
		return Token{Text: s.src[start:end], Start: start, End: end}, true
	}
	return Token{}, false
}

// insideReference reports whether the token at [start, end) is directly
// preceded by "[[" or directly followed by "]]".
func (s *Scanner) insideReference(start, end int) bool {
	return lastTwoRunesAre(s.src[:start], '[') || firstTwoRunesAre(s.src[end:], ']')
}

func lastTwoRunesAre(s string, want rune) bool {
	r2, size := utf8.DecodeLastRuneInString(s)
	if r2 != want {
		return false
	}
	r1, _ := utf8.DecodeLastRuneInString(s[:len(s)-size])
	return r1 == want
}

func firstTwoRunesAre(s string, want rune) bool {
	r1, size := utf8.DecodeRuneInString(s)
	if r1 != want {
		return false
	}
	r2, _ := utf8.DecodeRuneInString(s[size:])
	return r2 == want
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
