package excel

import (
	"context"
	"fmt"
	"os"
	"time"

	"facultysite/domain/core"
	"facultysite/domain/faculty"
	"facultysite/internal"

	"github.com/xuri/excelize/v2"
)

// WorkbookSource reads tables from the worksheets of a local .xlsx file.
// Each logical table is one worksheet; the file is reopened on every fetch
// so edits are picked up by the next refresh.
type WorkbookSource struct {
	filePath string
	logger   *internal.Logger
}

// NewWorkbookSource creates a source over the workbook at filePath.
func NewWorkbookSource(filePath string, logger *internal.Logger) *WorkbookSource {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &WorkbookSource{filePath: filePath, logger: logger}
}

// Fetch returns the rows of sheet limited to cellRange.
func (s *WorkbookSource) Fetch(ctx context.Context, sheet, cellRange string) (faculty.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.NewSourceError(sheet, err)
	}

	window, err := parseRange(cellRange)
	if err != nil {
		return nil, core.NewSourceError(sheet, err)
	}

	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		return nil, core.NewSourceError(sheet, fmt.Errorf("workbook not found: %s", s.filePath))
	}

	start := time.Now()
	f, err := excelize.OpenFile(s.filePath)
	if err != nil {
		return nil, core.NewSourceError(sheet, fmt.Errorf("failed to open workbook: %w", err))
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, core.NewSourceError(sheet, fmt.Errorf("worksheet %q not found", sheet))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, core.NewSourceError(sheet, fmt.Errorf("failed to read worksheet: %w", err))
	}

	table := faculty.RawTable(window.apply(rows))
	s.logger.Debug("[WorkbookSource] %s read in %.2fms (%d rows)", sheet, float64(time.Since(start).Nanoseconds())/1e6, len(table))
	return table, nil
}
