package catalog

import "github.com/starford/ansuz/internal/models"

// Catalog defines the interface for document metadata operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type Catalog interface {
	UpsertDocument(doc models.Document) error
	DeleteDocument(path string) error
	GetDocument(path string) (*models.Document, error)
	GetChecksum(path string) (string, error)
	AllChecksums() (map[string]string, error)
	AllDocuments() ([]models.Document, error)
	ListDocuments(limit, offset int) ([]models.Document, int, error)
	Close() error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)
