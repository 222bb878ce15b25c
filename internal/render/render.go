// Package render turns record values into table cells. Cell text feeds the
// view filter and the exporters; media cells expose the stored path there and
// the resolved URL only for display.
package render

import (
	"context"
	"strings"
)

// Kind identifies the renderer that produced a cell.
type Kind string

const (
	KindText     Kind = "text"
	KindTruncate Kind = "truncate"
	KindDate     Kind = "date"
	KindMedia    Kind = "media"
	KindLink     Kind = "link"
	KindActions  Kind = "actions"
)

const DefaultPlaceholder = "None"

// Cell is a rendered table cell.
type Cell struct {
	Kind Kind
	// Text is the full coerced value used for filtering and export.
	Text string
	// Display is what the table shows; it differs from Text for collapsed
	// truncated cells and for media cells.
	Display   string
	Truncated bool
	Expanded  bool
	Href      string
	External  bool
	Thumbnail string
	Lightbox  string
	Fallback  string
	Actions   []Action
}

// ActionName identifies a row action.
type ActionName string

const (
	ActionEdit   ActionName = "edit"
	ActionDelete ActionName = "delete"
)

// Action is one entry of the actions cell.
type Action struct {
	Name     ActionName
	Label    string
	Href     string
	RecordID int64
}

// Target identifies the cell being rendered.
type Target struct {
	Resource string
	RecordID int64
	Column   string
	Expanded bool
}

// Renderer renders one value. Renderers never fail: bad data yields a placeholder.
type Renderer interface {
	Kind() Kind
	Render(ctx context.Context, target Target, value any) Cell
}

// Column is a static column definition of a list page.
type Column[T any] struct {
	Key      string
	Header   string
	Accessor func(T) any
	Renderer Renderer
}

// Kind returns the renderer kind, defaulting to text.
func (c Column[T]) Kind() Kind {
	if c.Renderer == nil {
		return KindText
	}
	return c.Renderer.Kind()
}

// Data reports whether the column carries record data. Action columns are
// excluded from filtering and export.
func (c Column[T]) Data() bool {
	return c.Kind() != KindActions
}

func (c Column[T]) value(record T) any {
	if c.Accessor == nil {
		return nil
	}
	return c.Accessor(record)
}

// Render renders record through column.
func (c Column[T]) Render(ctx context.Context, target Target, record T) Cell {
	renderer := c.Renderer
	if renderer == nil {
		renderer = Text{}
	}
	target.Column = c.Key
	return renderer.Render(ctx, target, c.value(record))
}

// DataColumns filters out action columns.
func DataColumns[T any](columns []Column[T]) []Column[T] {
	out := make([]Column[T], 0, len(columns))
	for _, col := range columns {
		if col.Data() {
			out = append(out, col)
		}
	}
	return out
}

// Row renders every column of record. state may be nil, in which case no
// cell is expanded.
func Row[T any](ctx context.Context, resource string, id int64, record T, columns []Column[T], state *ExpandState) []Cell {
	cells := make([]Cell, len(columns))
	for i, col := range columns {
		target := Target{Resource: resource, RecordID: id, Column: col.Key}
		if state != nil && col.Kind() == KindTruncate {
			target.Expanded = state.Expanded(id, col.Key, Coerce(col.value(record)))
		}
		cells[i] = col.Render(ctx, target, record)
	}
	return cells
}

// Texts renders the data columns of record to their full text, in column order.
func Texts[T any](ctx context.Context, record T, columns []Column[T]) []string {
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		if !col.Data() {
			continue
		}
		out = append(out, col.text(ctx, record))
	}
	return out
}

// SearchTexts returns what the global filter matches for record: the cell
// text of every data column whose value is non-empty. Placeholders such as
// "None" or "No Image" never match.
func SearchTexts[T any](ctx context.Context, record T, columns []Column[T]) []string {
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		if !col.Data() || strings.TrimSpace(Coerce(col.value(record))) == "" {
			continue
		}
		out = append(out, col.text(ctx, record))
	}
	return out
}

// PlainTexter is implemented by renderers whose text can be derived without
// the side effects of Render, such as media resolution.
type PlainTexter interface {
	PlainText(value any) string
}

func (c Column[T]) text(ctx context.Context, record T) string {
	if plain, ok := c.Renderer.(PlainTexter); ok {
		return plain.PlainText(c.value(record))
	}
	return c.Render(ctx, Target{Column: c.Key}, record).Text
}
