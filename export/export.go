// Package export renders the catalog as a flat table, one row per condition.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/giygas/empirical-rx/catalog/entities"
)

// Header is the column order of every export
var Header = []string{"Disease", "First-line", "Management", "Symptoms", "Labs"}

const listSeparator = "; "

// Row is one condition flattened for tabular output
type Row struct {
	Disease    string `json:"disease"`
	FirstLine  string `json:"firstLine"`
	Management string `json:"management"`
	Symptoms   string `json:"symptoms"`
	Labs       string `json:"labs"`
}

func (r Row) fields() []string {
	return []string{r.Disease, r.FirstLine, r.Management, r.Symptoms, r.Labs}
}

// Rows flattens entries in order, joining list fields with "; "
func Rows(entries []entities.Entry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			Disease:    e.Name,
			FirstLine:  e.Record.FirstLine,
			Management: strings.Join(e.Record.Management, listSeparator),
			Symptoms:   strings.Join(e.Record.Symptoms, listSeparator),
			Labs:       strings.Join(e.Record.Labs, listSeparator),
		})
	}
	return rows
}

// WriteCSV writes the header and one record per entry
func WriteCSV(w io.Writer, entries []entities.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range Rows(entries) {
		if err := cw.Write(row.fields()); err != nil {
			return fmt.Errorf("failed to write CSV row %q: %w", row.Disease, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// WriteJSON writes the rows as an indented JSON array
func WriteJSON(w io.Writer, entries []entities.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Rows(entries)); err != nil {
		return fmt.Errorf("failed to encode JSON export: %w", err)
	}
	return nil
}
