package ports

import (
	"context"

	"facultysite/domain/faculty"
)

// TableSource reads one named table of the spreadsheet provider.
// Implementations return errors wrapping core.ErrSourceUnavailable when the
// provider cannot be reached or authenticated.
type TableSource interface {
	Fetch(ctx context.Context, table, cellRange string) (faculty.RawTable, error)
}
