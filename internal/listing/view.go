package listing

import (
	"context"
	"fmt"

	"github.com/goliatone/go-cms-admin/internal/actions"
	"github.com/goliatone/go-cms-admin/internal/render"
	"github.com/goliatone/go-cms-admin/internal/view"
)

// Row is one rendered table row.
type Row[T any] struct {
	ID          int64
	Record      T
	Cells       []render.Cell
	DeleteState actions.State
}

// View is a snapshot of everything a list page displays.
type View[T any] struct {
	Resource  string
	Label     string
	Loading   bool
	Banner    string
	Empty     bool
	Query     string
	Headers   []string
	Rows      []Row[T]
	PageIndex int
	PageSize  int
	PageCount int
	CanPrev   bool
	CanNext   bool
	Total     int
	Matches   int
}

// PageLabel renders the one-based pagination label, e.g. "Page 1 of 1".
func (v View[T]) PageLabel() string {
	return fmt.Sprintf("Page %d of %d", v.PageIndex+1, v.PageCount)
}

// View renders the current page.
func (c *Controller[T]) View(ctx context.Context) View[T] {
	subset := c.subset(ctx)

	c.mu.Lock()
	page := view.Paginate(subset, c.pager.Index(), c.pager.Size())
	snapshot := View[T]{
		Resource:  c.def.Resource,
		Label:     c.def.Label,
		Loading:   c.loading,
		Banner:    c.banner,
		Query:     c.query,
		PageIndex: page.PageIndex,
		PageSize:  page.PageSize,
		PageCount: page.PageCount,
		CanPrev:   page.CanPrev,
		CanNext:   page.CanNext,
		Total:     len(c.records),
		Matches:   page.Total,
	}
	snapshot.Empty = c.loaded && !c.loading && len(c.records) == 0
	c.mu.Unlock()

	snapshot.Headers = make([]string, len(c.def.Columns))
	for i, col := range c.def.Columns {
		snapshot.Headers[i] = col.Header
	}
	snapshot.Rows = make([]Row[T], len(page.Items))
	for i, record := range page.Items {
		id := c.def.ID(record)
		row := Row[T]{
			ID:     id,
			Record: record,
			Cells:  render.Row(ctx, c.def.Resource, id, record, c.def.Columns, c.expand),
		}
		row.DeleteState = actions.StateIdle
		if c.coordinator != nil {
			row.DeleteState = c.coordinator.State(id)
		}
		snapshot.Rows[i] = row
	}
	return snapshot
}
