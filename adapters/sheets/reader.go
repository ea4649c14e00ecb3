// Package sheets reads faculty tables from a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"facultysite/domain/core"
	"facultysite/domain/faculty"
	"facultysite/internal"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Config holds the spreadsheet id and credentials for the Sheets API.
type Config struct {
	SpreadsheetID   string
	CredentialsFile string
	APIKey          string
}

// valuesGetter is the slice of the Sheets API the source uses.
type valuesGetter interface {
	Get(ctx context.Context, spreadsheetID, a1Range string) (*sheetsapi.ValueRange, error)
}

type apiValues struct {
	svc *sheetsapi.Service
}

func (a apiValues) Get(ctx context.Context, spreadsheetID, a1Range string) (*sheetsapi.ValueRange, error) {
	return a.svc.Spreadsheets.Values.Get(spreadsheetID, a1Range).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
}

// SheetSource implements ports.TableSource over one spreadsheet.
type SheetSource struct {
	spreadsheetID string
	values        valuesGetter
	logger        *internal.Logger
}

// NewSheetSource creates a read-only Sheets client. A service account file
// takes precedence over an API key.
func NewSheetSource(ctx context.Context, cfg Config, logger *internal.Logger) (*SheetSource, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts,
			option.WithCredentialsFile(cfg.CredentialsFile),
			option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope),
		)
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, core.NewSourceError("*", fmt.Errorf("no Google credentials configured"))
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, core.NewSourceError("*", fmt.Errorf("create sheets client: %w", err))
	}
	return newSheetSource(cfg.SpreadsheetID, apiValues{svc: svc}, logger), nil
}

func newSheetSource(spreadsheetID string, values valuesGetter, logger *internal.Logger) *SheetSource {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &SheetSource{spreadsheetID: spreadsheetID, values: values, logger: logger}
}

// Fetch reads sheet!cellRange and returns every cell as a string.
func (s *SheetSource) Fetch(ctx context.Context, sheet, cellRange string) (faculty.RawTable, error) {
	a1 := quoteSheet(sheet)
	if cellRange != "" {
		a1 += "!" + cellRange
	}

	start := time.Now()
	resp, err := s.values.Get(ctx, s.spreadsheetID, a1)
	if err != nil {
		return nil, core.NewSourceError(sheet, err)
	}

	table := toRawTable(resp.Values)
	s.logger.Debug("[SheetSource] %s read in %.2fms (%d rows)", a1, float64(time.Since(start).Nanoseconds())/1e6, len(table))
	return table, nil
}

// quoteSheet quotes sheet names that A1 notation cannot carry bare.
func quoteSheet(sheet string) string {
	for _, r := range sheet {
		if !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
		}
	}
	return sheet
}

func toRawTable(values [][]interface{}) faculty.RawTable {
	table := make(faculty.RawTable, 0, len(values))
	for _, row := range values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cellString(cell)
		}
		table = append(table, cells)
	}
	return table
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
