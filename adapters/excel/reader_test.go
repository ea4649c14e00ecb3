package excel

import (
	"context"
	"path/filepath"
	"testing"

	"facultysite/domain/core"
	"facultysite/domain/faculty"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			require.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))

	path := filepath.Join(t.TempDir(), "faculty.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestWorkbookSourceFetch(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"Personal_Info": {
			{"faculty_id", "name", "phone"},
			{"f1", "Alice", "0123"},
			{"f2", "Bob"},
		},
	})

	src := NewWorkbookSource(path, nil)
	table, err := src.Fetch(context.Background(), "Personal_Info", "A:Z")
	require.NoError(t, err)

	assert.Equal(t, faculty.RawTable{
		{"faculty_id", "name", "phone"},
		{"f1", "Alice", "0123"},
		{"f2", "Bob"},
	}, table)
}

func TestWorkbookSourceAppliesRange(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"Courses": {
			{"faculty_id", "name", "credits", "notes"},
			{"f1", "Algorithms", "4", "x"},
			{"f1", "Seminar", "1", "y"},
		},
	})

	table, err := NewWorkbookSource(path, nil).Fetch(context.Background(), "Courses", "A1:C2")
	require.NoError(t, err)
	assert.Equal(t, faculty.RawTable{
		{"faculty_id", "name", "credits"},
		{"f1", "Algorithms", "4"},
	}, table)
}

func TestWorkbookSourceErrors(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{"Links": {{"faculty_id"}}})
	ctx := context.Background()

	_, err := NewWorkbookSource(path, nil).Fetch(ctx, "Missing", "A:Z")
	assert.True(t, core.IsSourceError(err), "missing sheet: %v", err)

	_, err = NewWorkbookSource(filepath.Join(t.TempDir(), "nope.xlsx"), nil).Fetch(ctx, "Links", "A:Z")
	assert.True(t, core.IsSourceError(err), "missing file: %v", err)

	_, err = NewWorkbookSource(path, nil).Fetch(ctx, "Links", "bogus")
	assert.True(t, core.IsSourceError(err), "bad range: %v", err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewWorkbookSource(path, nil).Fetch(cancelled, "Links", "A:Z")
	assert.True(t, core.IsSourceError(err))
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    cellWindow
		wantErr bool
	}{
		{"", cellWindow{}, false},
		{"A:Z", cellWindow{firstCol: 1, lastCol: 26}, false},
		{"A1:F200", cellWindow{firstCol: 1, lastCol: 6, firstRow: 1, lastRow: 200}, false},
		{"b2:d", cellWindow{firstCol: 2, lastCol: 4, firstRow: 2}, false},
		{"1:10", cellWindow{firstRow: 1, lastRow: 10}, false},
		{"Z:A", cellWindow{}, true},
		{"A", cellWindow{}, true},
		{"A0:B2", cellWindow{}, true},
	}
	for _, tt := range tests {
		got, err := parseRange(tt.in)
		if tt.wantErr {
			assert.Errorf(t, err, "parseRange(%q)", tt.in)
			continue
		}
		require.NoErrorf(t, err, "parseRange(%q)", tt.in)
		assert.Equalf(t, tt.want, got, "parseRange(%q)", tt.in)
	}
}

func TestWindowApply(t *testing.T) {
	rows := [][]string{{"a", "b", "c"}, {"d"}, {"e", "f", "g"}}
	w := cellWindow{firstCol: 2, lastCol: 3, firstRow: 1, lastRow: 2}
	assert.Equal(t, [][]string{{"b", "c"}, {}}, w.apply(rows))
	assert.Equal(t, [][]string{}, cellWindow{firstRow: 5}.apply(rows))
}
