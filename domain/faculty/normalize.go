package faculty

// NormalizeRows converts a raw table into records keyed by the header row.
// Short rows are padded with "" and cells beyond the header are dropped, so
// every record carries exactly one key per header cell. Header text is used
// verbatim.
func NormalizeRows(table RawTable) []Record {
	if len(table) == 0 {
		return []Record{}
	}

	headers := table[0]
	records := make([]Record, 0, len(table)-1)
	for _, row := range table[1:] {
		record := make(Record, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[header] = row[i]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}
	return records
}

// NormalizeTables normalizes every raw table independently.
func NormalizeTables(raw map[Table]RawTable) TableSet {
	set := make(TableSet, len(raw))
	for table, grid := range raw {
		set[table] = NormalizeRows(grid)
	}
	return set
}
