package ingest

import (
	"fmt"
	"strings"
)

// Table is a loaded spreadsheet: named columns and rows of string cells.
// Every row has exactly len(Columns) cells; empty cells are "".
type Table struct {
	Columns []string
	Rows    [][]string
}

// newTable takes the header from the first record and pads or trims every
// following record to the header width. Records rejected by skip are
// dropped.
func newTable(records [][]string, skip func([]string) bool) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrNoHeader
	}
	header := uniqueColumns(records[0])
	if len(header) == 0 {
		return nil, ErrNoHeader
	}

	t := &Table{Columns: header, Rows: make([][]string, 0, len(records)-1)}
	for _, rec := range records[1:] {
		if skip(rec) {
			continue
		}
		row := make([]string, len(header))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// uniqueColumns names blank headers "Unnamed: i" and suffixes repeated
// names with ".1", ".2" so each column stays addressable.
func uniqueColumns(raw []string) []string {
	seen := make(map[string]int, len(raw))
	out := make([]string, len(raw))
	for i, name := range raw {
		name = strings.TrimRight(name, "\r\n")
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}

// isBlank matches spreadsheet rows without a single filled cell.
func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// isBlankLine matches a CSV line holding only whitespace. A line of empty
// delimited cells such as ",," is a real row with empty values.
func isBlankLine(rec []string) bool {
	return len(rec) <= 1 && isBlank(rec)
}

// Index returns the position of a column, or -1.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Column returns the cells of the named column in row order.
func (t *Table) Column(column string) ([]string, error) {
	idx := t.Index(column)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

func (t *Table) Len() int {
	return len(t.Rows)
}
