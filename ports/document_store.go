package ports

import (
	"context"

	"facultysite/domain/faculty"
)

// DocumentStore persists the whole faculty document collection.
type DocumentStore interface {
	// Replace swaps the stored collection for docs. Readers never observe a
	// partially written collection; on error the previous one is kept.
	Replace(ctx context.Context, docs []faculty.Document) error

	// Load returns the stored collection, or an empty one if nothing has
	// been stored yet.
	Load(ctx context.Context) ([]faculty.Document, error)
}
