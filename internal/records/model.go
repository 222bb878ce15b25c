// Package records is the bun-backed store behind the fixture REST backend.
// Every resource shares one table; record fields live in a JSON column.
package records

import (
	"time"

	"github.com/uptrace/bun"
)

// Row is the persisted form of one record.
type Row struct {
	bun.BaseModel `bun:"table:admin_records,alias:r"`

	ID        int64          `bun:"id,pk,autoincrement"`
	Resource  string         `bun:"resource,notnull"`
	Data      map[string]any `bun:"data"`
	CreatedAt time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time      `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Fields flattens the row into the shape served by the API: the stored
// fields plus the numeric id.
func (r *Row) Fields() map[string]any {
	out := make(map[string]any, len(r.Data)+1)
	for k, v := range r.Data {
		out[k] = v
	}
	out["id"] = r.ID
	return out
}
