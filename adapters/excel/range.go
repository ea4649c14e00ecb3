package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// cellWindow is an inclusive, 1-based window over a worksheet. Zero bounds
// mean unbounded.
type cellWindow struct {
	firstCol, lastCol int
	firstRow, lastRow int
}

// parseRange parses A1-style ranges such as "A:Z", "A1:F200" or "B2:D".
// An empty range selects the whole sheet.
func parseRange(rng string) (cellWindow, error) {
	rng = strings.TrimSpace(rng)
	if rng == "" {
		return cellWindow{}, nil
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 2 {
		return cellWindow{}, fmt.Errorf("invalid range %q", rng)
	}

	startCol, startRow, err := splitRef(parts[0])
	if err != nil {
		return cellWindow{}, fmt.Errorf("invalid range %q: %w", rng, err)
	}
	endCol, endRow, err := splitRef(parts[1])
	if err != nil {
		return cellWindow{}, fmt.Errorf("invalid range %q: %w", rng, err)
	}

	w := cellWindow{firstCol: startCol, lastCol: endCol, firstRow: startRow, lastRow: endRow}
	if w.lastCol > 0 && w.firstCol > w.lastCol {
		return cellWindow{}, fmt.Errorf("invalid range %q: columns out of order", rng)
	}
	if w.lastRow > 0 && w.firstRow > w.lastRow {
		return cellWindow{}, fmt.Errorf("invalid range %q: rows out of order", rng)
	}
	return w, nil
}

func splitRef(ref string) (col, row int, err error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		i++
	}
	if i > 0 {
		if col, err = excelize.ColumnNameToNumber(ref[:i]); err != nil {
			return 0, 0, err
		}
	}
	if i < len(ref) {
		if row, err = strconv.Atoi(ref[i:]); err != nil || row < 1 {
			return 0, 0, fmt.Errorf("invalid row in %q", ref)
		}
	}
	if i == 0 && row == 0 {
		return 0, 0, fmt.Errorf("empty reference")
	}
	return col, row, nil
}

// apply cuts rows down to the window. Rows are kept as ragged slices; the
// normalizer pads them.
func (w cellWindow) apply(rows [][]string) [][]string {
	first := 0
	if w.firstRow > 0 {
		first = w.firstRow - 1
	}
	last := len(rows)
	if w.lastRow > 0 && w.lastRow < last {
		last = w.lastRow
	}
	if first >= last {
		return [][]string{}
	}

	out := make([][]string, 0, last-first)
	for _, row := range rows[first:last] {
		out = append(out, w.columns(row))
	}
	return out
}

func (w cellWindow) columns(row []string) []string {
	start := 0
	if w.firstCol > 0 {
		start = w.firstCol - 1
	}
	end := len(row)
	if w.lastCol > 0 && w.lastCol < end {
		end = w.lastCol
	}
	if start >= end {
		return []string{}
	}
	return append([]string(nil), row[start:end]...)
}
