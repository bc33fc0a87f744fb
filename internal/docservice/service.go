// Package docservice coordinates storage, the metadata catalog, and the
// link engine for the API and MCP layers.
package docservice

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/linker"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
)

// DocumentDetail is the full representation of a document.
type DocumentDetail struct {
	Path        string           `json:"path"`
	Basename    string           `json:"basename"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Checksum    string           `json:"checksum"`
	Aliases     []string         `json:"aliases"`
	Headings    []models.Heading `json:"headings"`
	IgnoreLinks bool             `json:"ignore_linking"`
	Frontmatter map[string]any   `json:"frontmatter,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// DocumentListItem is a lightweight item in a list response.
type DocumentListItem struct {
	Path      string    `json:"path"`
	Basename  string    `json:"basename"`
	Aliases   []string  `json:"aliases"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Storage is the subset of the vault provider the service needs.
type Storage interface {
	Read(path string) ([]byte, error)
	Write(path string, content []byte) error
	Delete(path string) error
}

// Service coordinates storage, catalog, and engine operations.
type Service struct {
	store  Storage
	db     *catalog.DB
	engine *linker.Engine
}

// NewService creates a new document service.
func NewService(store Storage, db *catalog.DB, engine *linker.Engine) *Service {
	return &Service{store: store, db: db, engine: engine}
}

// Engine exposes the link engine for callers that only scan or resolve.
func (s *Service) Engine() *linker.Engine { return s.engine }

// GetDocument reads a document from storage and parses its metadata.
func (s *Service) GetDocument(_ context.Context, path string) (*DocumentDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return buildDocumentDetail(path, data)
}

// CreateDocument writes a new document, catalogs it, and rebuilds the index.
func (s *Service) CreateDocument(_ context.Context, path string, content []byte) (*DocumentDetail, error) {
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.catalogAndRebuild(path, content); err != nil {
		return nil, err
	}
	return buildDocumentDetail(path, content)
}

// UpdateDocument writes updated content with optimistic concurrency.
func (s *Service) UpdateDocument(_ context.Context, path string, content []byte, ifMatch string) (*DocumentDetail, error) {
	existing, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.catalogAndRebuild(path, content); err != nil {
		return nil, err
	}
	return buildDocumentDetail(path, content)
}

// DeleteDocument removes a document from storage and catalog.
func (s *Service) DeleteDocument(_ context.Context, path string) error {
	if err := s.store.Delete(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	if err := s.db.DeleteDocument(path); err != nil {
		return err
	}
	return s.RebuildIndex()
}

// ListDocuments returns paginated documents.
func (s *Service) ListDocuments(_ context.Context, limit, offset int) ([]DocumentListItem, int, error) {
	docs, total, err := s.db.ListDocuments(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items := make([]DocumentListItem, len(docs))
	for i, d := range docs {
		items[i] = DocumentListItem{
			Path:      d.Path,
			Basename:  d.Basename,
			Aliases:   nonNilSlice(d.Aliases),
			Checksum:  d.Checksum,
			UpdatedAt: d.UpdatedAt,
		}
	}
	return items, total, nil
}

// Scan tokenizes text in the context of the document at path and returns
// decoration ranges for every match. An uncataloged path contributes an
// empty self-name set, so scanning still works for unsaved buffers.
func (s *Service) Scan(_ context.Context, path, text string) []linker.Range {
	return s.engine.Scan(text, s.selfNamesFor(path))
}

// Complete resolves the word under the cursor for the context-menu offer.
func (s *Service) Complete(_ context.Context, path, word string) linker.MatchResult {
	return s.engine.Resolve(word, s.selfNamesFor(path))
}

// MaterializeWord resolves word and produces its wikilink replacement text.
// Returns apperr.ErrNotFound when nothing resolves.
func (s *Service) MaterializeWord(_ context.Context, path, word string) (string, error) {
	res := s.engine.Resolve(word, s.selfNamesFor(path))
	if !res.Matched() {
		return "", apperr.ErrNotFound
	}
	return linker.Materialize(word, *res.Target), nil
}

// Targets returns the current index contents, sorted by key.
func (s *Service) Targets(_ context.Context) []linker.Entry {
	return s.engine.Snapshot().Entries()
}

// RebuildIndex recomputes the link index from the catalog snapshot.
func (s *Service) RebuildIndex() error {
	docs, err := s.db.AllDocuments()
	if err != nil {
		return err
	}
	s.engine.Rebuild(docs)
	return nil
}

// selfNamesFor returns the exclusion set for the document at path, or an
// empty set when no metadata is cached for it this cycle.
func (s *Service) selfNamesFor(path string) linker.SelfNameSet {
	doc, err := s.db.GetDocument(path)
	if err != nil {
		return linker.SelfNameSet{}
	}
	return linker.SelfNames(*doc)
}

func (s *Service) catalogAndRebuild(path string, data []byte) error {
	if err := catalog.IndexDocument(s.db, path, data); err != nil {
		return err
	}
	return s.RebuildIndex()
}

// buildDocumentDetail constructs a DocumentDetail from raw data without
// re-reading the file.
func buildDocumentDetail(path string, data []byte) (*DocumentDetail, error) {
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	return &DocumentDetail{
		Path:        path,
		Basename:    models.BasenameFromPath(path),
		Title:       res.Title,
		Content:     string(data),
		Checksum:    checksum.Sum(data),
		Aliases:     nonNilSlice(res.Aliases),
		Headings:    nonNilSlice(res.Headings),
		IgnoreLinks: res.IgnoreLinking,
		Frontmatter: res.Frontmatter,
		UpdatedAt:   time.Now(),
	}, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
