package api

import (
	"github.com/starford/ansuz/internal/docservice"
	"github.com/starford/ansuz/internal/linker"
)

// ScanRequest asks for decoration ranges over a text span scanned in the
// context of the document at Path. Offsets in the response are byte offsets
// into Text.
type ScanRequest struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// ScanResponse wraps the decoration ranges of one scan pass.
type ScanResponse struct {
	Ranges []linker.Range `json:"ranges"`
}

// CompleteRequest asks whether the word under the cursor resolves to a link
// target from within the document at Path.
type CompleteRequest struct {
	Path string `json:"path"`
	Word string `json:"word"`
}

// MaterializeRequest asks for the replacement text of the word occupying
// [Start, End) in the editable surface.
type MaterializeRequest struct {
	Path  string `json:"path"`
	Word  string `json:"word"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// MaterializeResponse is the (rangeStart, rangeEnd, replacementText) triple
// the editing surface applies.
type MaterializeResponse struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Replacement string `json:"replacement"`
}

// TargetsResponse lists the current index contents.
type TargetsResponse struct {
	Targets []linker.Entry `json:"targets"`
	Total   int            `json:"total"`
}

// CreateDocumentRequest is the request body for creating a document.
type CreateDocumentRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// UpdateDocumentRequest is the request body for updating a document.
type UpdateDocumentRequest struct {
	Content string `json:"content"`
}

// DocumentDetail is the full document response type (aliased from the domain layer).
type DocumentDetail = docservice.DocumentDetail

// DocumentListItem is a lightweight item in a list response (aliased from the domain layer).
type DocumentListItem = docservice.DocumentListItem

// DocumentListResponse wraps paginated document listings.
type DocumentListResponse struct {
	Documents []DocumentListItem `json:"documents"`
	Total     int                `json:"total"`
}
