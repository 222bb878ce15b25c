package render

import (
	"context"
	"strings"
	"time"
)

const (
	DefaultDateLayout = "1/2/2006"
	InvalidDate       = "Invalid Date"
)

var dateInputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date formats timestamps with a fixed short layout.
type Date struct {
	Layout      string
	Placeholder string
	// Location converts the value before formatting; nil keeps its own zone.
	Location *time.Location
}

func (Date) Kind() Kind { return KindDate }

func (r Date) Render(_ context.Context, _ Target, value any) Cell {
	text := r.format(value)
	return Cell{Kind: KindDate, Text: text, Display: text}
}

func (r Date) format(value any) string {
	empty := placeholder(r.Placeholder, DefaultPlaceholder)
	var ts time.Time
	switch v := value.(type) {
	case nil:
		return empty
	case time.Time:
		ts = v
	case *time.Time:
		if v == nil {
			return empty
		}
		ts = *v
	case *string:
		if v == nil {
			return empty
		}
		return r.format(*v)
	case string:
		raw := strings.TrimSpace(v)
		if raw == "" {
			return empty
		}
		parsed, ok := ParseTime(raw)
		if !ok {
			return InvalidDate
		}
		ts = parsed
	default:
		return InvalidDate
	}
	if ts.IsZero() {
		return empty
	}
	if r.Location != nil {
		ts = ts.In(r.Location)
	}
	return ts.Format(placeholder(r.Layout, DefaultDateLayout))
}

// ParseTime accepts the timestamp encodings emitted by the backend.
func ParseTime(raw string) (time.Time, bool) {
	for _, layout := range dateInputLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
