// Package export serialises a full resource collection into a paged PDF
// document or a single-sheet XLSX workbook.
package export

import (
	"context"

	"github.com/goliatone/go-cms-admin/internal/render"
)

// Table is the format-neutral projection every exporter consumes.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Project builds the export table from every record using the same cell text
// as the on-screen table. Action columns are excluded.
func Project[T any](ctx context.Context, title string, records []T, columns []render.Column[T]) Table {
	data := render.DataColumns(columns)
	headers := make([]string, len(data))
	for i, col := range data {
		headers[i] = col.Header
	}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, render.Texts(ctx, record, data))
	}
	return Table{Title: title, Headers: headers, Rows: rows}
}
