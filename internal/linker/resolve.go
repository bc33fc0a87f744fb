package linker

import "strings"

// Resolve finds the best link target for word against the index, excluding
// the scanning document's own names.
//
// The exact phase wins immediately: an index hit that is not a self-name is
// returned as a non-partial match. An index hit that IS a self-name is not
// rejected outright — it falls through to the partial phase, which may still
// match a strict substring registered by another document.
//
// The partial phase enumerates substrings from longest to shortest, and
// within a length from leftmost offset to rightmost. Position (start, end,
// middle) only gates acceptance; it never reorders candidates. The first
// accepted candidate stops the search.
func Resolve(word string, self SelfNameSet, ix *Index, cfg Config) MatchResult {
	lower := strings.ToLower(word)

	if t, ok := ix.Lookup(lower); ok && !self.Contains(lower) {
		return MatchResult{Target: &t, MatchedString: lower}
	}

	runes := []rune(lower)
	n := len(runes)
	if (!cfg.MatchStart && !cfg.MatchEnd && !cfg.MatchMiddle) || n < cfg.MinMatchLength {
		return MatchResult{}
	}

	for length := n - 1; length >= cfg.MinMatchLength; length-- {
		for off := 0; off+length <= n; off++ {
			sub := string(runes[off : off+length])
			if self.Contains(sub) {
				continue
			}
			t, ok := ix.Lookup(sub)
			if !ok {
				continue
			}

			isStart := off == 0
			isEnd := off+length == n
			accepted := false
			switch {
			case isStart:
				accepted = cfg.MatchStart
			case isEnd:
				accepted = cfg.MatchEnd
			default:
				accepted = cfg.MatchMiddle
			}
			if !accepted {
				continue
			}
			return MatchResult{Target: &t, IsPartial: true, MatchedString: sub}
		}
	}

	return MatchResult{}
}
