package linker

import (
	"sync/atomic"

	"github.com/starford/ansuz/internal/models"
)

// Decoration classes emitted by Scan. The primary class marks the first
// occurrence of a matched string in a pass; repeats and partial matches get
// the muted class.
const (
	ClassPrimary = "linker-match"
	ClassMuted   = "linker-match-muted"
)

// Range is one decoration span over the scanned text. Start and End are
// byte offsets; Target is the destination document's basename, suitable for
// a data-link-target attribute.
type Range struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Class  string `json:"class"`
	Target string `json:"target"`
}

// Engine holds the active Index snapshot. Rebuild swaps the snapshot in a
// single atomic store, so concurrent readers observe either the old or the
// new index in full, never a mix. All other state is read-only.
type Engine struct {
	cfg  Config
	snap atomic.Pointer[Index]
}

// NewEngine creates an engine with an empty index.
func NewEngine(cfg Config) *Engine {
	e := &Engine{cfg: cfg}
	e.snap.Store(&Index{entries: map[string]Target{}})
	return e
}

// Config returns the matcher configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Snapshot returns the currently active index.
func (e *Engine) Snapshot() *Index { return e.snap.Load() }

// Rebuild recomputes the index from the document snapshot and swaps it in.
// There is no incremental path; every rebuild is a full recomputation.
func (e *Engine) Rebuild(docs []models.Document) *Index {
	ix := BuildIndex(docs, e.cfg)
	e.snap.Store(ix)
	return ix
}

// Resolve matches a single word against the current snapshot.
func (e *Engine) Resolve(word string, self SelfNameSet) MatchResult {
	return Resolve(word, self, e.snap.Load(), e.cfg)
}

// Scan tokenizes text and resolves every eligible token, returning
// decoration ranges for all matches. The whole pass runs against one
// snapshot even if a rebuild lands mid-scan.
func (e *Engine) Scan(text string, self SelfNameSet) []Range {
	ix := e.snap.Load()
	seen := make(map[string]struct{})
	var out []Range

	sc := NewScanner(text)
	for tok, ok := sc.Next(); ok; tok, ok = sc.Next() {
		res := Resolve(tok.Text, self, ix, e.cfg)
		if !res.Matched() {
			continue
		}

		class := ClassPrimary
		if _, repeat := seen[res.MatchedString]; repeat || res.IsPartial {
			class = ClassMuted
		}
		seen[res.MatchedString] = struct{}{}

		out = append(out, Range{
			Start:  tok.Start,
			End:    tok.End,
			Class:  class,
			Target: models.BasenameFromPath(res.Target.Path),
		})
	}
	return out
}
