package postgres

import (
	"context"
	"encoding/json"

	"facultysite/domain/core"
	"facultysite/domain/faculty"
	"facultysite/ports"

	"github.com/jmoiron/sqlx"
)

// DocumentRepository implements ports.DocumentStore for PostgreSQL. The
// collection is replaced inside one transaction, so concurrent readers see
// either the previous or the new collection.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository creates a new PostgreSQL document repository
func NewDocumentRepository(db *sqlx.DB) ports.DocumentStore {
	return &DocumentRepository{db: db}
}

// Replace deletes every stored document and inserts docs in order
func (r *DocumentRepository) Replace(ctx context.Context, docs []faculty.Document) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return core.NewStoreError("begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM faculty_documents`); err != nil {
		return core.NewStoreError("delete", err)
	}

	for position, doc := range docs {
		payload, err := json.Marshal(doc)
		if err != nil {
			return core.NewStoreError("encode", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO faculty_documents (faculty_id, position, document, refreshed_at)
			VALUES ($1, $2, $3, NOW())
		`, doc.ID(), position, payload)
		if err != nil {
			return core.NewStoreError("insert "+doc.ID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.NewStoreError("commit", err)
	}
	return nil
}

// Load returns the stored documents in their assembled order
func (r *DocumentRepository) Load(ctx context.Context) ([]faculty.Document, error) {
	var payloads [][]byte
	err := r.db.SelectContext(ctx, &payloads, `
		SELECT document
		FROM faculty_documents
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, core.NewStoreError("select", err)
	}

	docs := make([]faculty.Document, 0, len(payloads))
	for _, payload := range payloads {
		var doc faculty.Document
		if err := json.Unmarshal(payload, &doc); err != nil {
			return nil, core.NewStoreError("decode", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
