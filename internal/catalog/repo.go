package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// UpsertDocument inserts or replaces a document's linkable metadata.
func (db *DB) UpsertDocument(doc models.Document) error {
	aliasesJSON, _ := json.Marshal(doc.Aliases)
	headingsJSON, _ := json.Marshal(doc.Headings)

	_, err := db.conn.Exec(`
		INSERT INTO documents (path, basename, aliases, headings, ignore_linking, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			basename       = excluded.basename,
			aliases        = excluded.aliases,
			headings       = excluded.headings,
			ignore_linking = excluded.ignore_linking,
			checksum       = excluded.checksum,
			updated_at     = excluded.updated_at
	`, doc.Path, doc.Basename, string(aliasesJSON), string(headingsJSON),
		boolToInt(doc.IgnoreLinking), doc.Checksum, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("catalog: upsert document: %w", err)
	}
	return nil
}

// DeleteDocument removes a document's metadata.
func (db *DB) DeleteDocument(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM documents WHERE path = ?`, path); err != nil {
		return fmt.Errorf("catalog: delete document: %w", err)
	}
	return nil
}

// GetDocument returns one document's metadata, or apperr.ErrNotFound.
func (db *DB) GetDocument(path string) (*models.Document, error) {
	row := db.conn.QueryRow(`
		SELECT path, basename, aliases, headings, ignore_linking, checksum, updated_at
		FROM documents WHERE path = ?
	`, path)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("catalog: get document: %w", err)
	}
	return doc, nil
}

// GetChecksum returns the stored checksum for a document, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM documents WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// AllChecksums returns path→checksum for every cached document.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("catalog: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// AllDocuments returns every cached document, ordered by path. The ordering
// makes rebuilds reproducible for a given vault; it is not an advertised
// collision-resolution contract.
func (db *DB) AllDocuments() ([]models.Document, error) {
	rows, err := db.conn.Query(`
		SELECT path, basename, aliases, headings, ignore_linking, checksum, updated_at
		FROM documents ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog: all documents: %w", err)
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	return out, rows.Err()
}

// ListDocuments returns a page of documents plus the total count.
func (db *DB) ListDocuments(limit, offset int) ([]models.Document, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count documents: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT path, basename, aliases, headings, ignore_linking, checksum, updated_at
		FROM documents ORDER BY path LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list documents: %w", err)
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *doc)
	}
	return out, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var (
		doc          models.Document
		aliasesJSON  string
		headingsJSON string
		ignore       int
		updatedAt    time.Time
	)
	if err := row.Scan(&doc.Path, &doc.Basename, &aliasesJSON, &headingsJSON, &ignore, &doc.Checksum, &updatedAt); err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(aliasesJSON), &doc.Aliases)
	_ = json.Unmarshal([]byte(headingsJSON), &doc.Headings)
	doc.IgnoreLinking = ignore != 0
	doc.UpdatedAt = updatedAt
	return &doc, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
