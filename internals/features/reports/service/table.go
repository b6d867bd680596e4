package service

import (
	"encoding/csv"
	"fmt"
	"io"
)

const notAvailable = "N/A"

// Column pairs a display header with the key used in each data row.
type Column struct {
	Header string
	Key    string
}

// Table is the {headers, data} shape the report screen renders and exports.
type Table struct {
	Headers []string         `json:"headers"`
	Data    []map[string]any `json:"data"`

	columns []Column
}

func newTable(cols []Column) *Table {
	t := &Table{columns: cols, Data: []map[string]any{}}
	for _, c := range cols {
		t.Headers = append(t.Headers, c.Header)
	}
	return t
}

func (t *Table) add(row map[string]any) {
	for _, c := range t.columns {
		if v, ok := row[c.Key]; !ok || v == "" {
			row[c.Key] = notAvailable
		}
	}
	t.Data = append(t.Data, row)
}

// WriteCSV writes the headers followed by one record per row, in column order.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	rec := make([]string, len(t.columns))
	for _, row := range t.Data {
		for i, c := range t.columns {
			rec[i] = fmt.Sprint(row[c.Key])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
