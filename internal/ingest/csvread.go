package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Table is a parsed CSV: the header row in original column order plus one
// value map per data row. Value maps are ephemeral; the cleaner turns them
// into claims.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// ParseCSV reads header-addressed rows from CSV text. Ragged rows are
// tolerated (short rows leave trailing fields empty, long rows drop the
// surplus) and fully empty rows are skipped; malformed input never aborts
// the whole import.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	// Strip a UTF-8 BOM exported by spreadsheet tools
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	table := &Table{Headers: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip unparsable lines instead of failing the import
			continue
		}

		row := make(map[string]string, len(header))
		empty := true
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
				if strings.TrimSpace(record[i]) != "" {
					empty = false
				}
			} else {
				row[name] = ""
			}
		}
		if empty {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// ParseCSVString is a convenience wrapper over ParseCSV
func ParseCSVString(text string) (*Table, error) {
	return ParseCSV(strings.NewReader(text))
}
