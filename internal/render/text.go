package render

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultTruncateLength = 100
	ellipsis              = "..."
)

// Text renders the value as plain text; empty values show Placeholder.
type Text struct {
	Placeholder string
}

func (Text) Kind() Kind { return KindText }

func (r Text) Render(_ context.Context, _ Target, value any) Cell {
	text := Coerce(value)
	if strings.TrimSpace(text) == "" {
		text = placeholder(r.Placeholder, DefaultPlaceholder)
	}
	return Cell{Kind: KindText, Text: text, Display: text}
}

// Truncate shows the first Limit runes followed by "..." until expanded.
type Truncate struct {
	Limit       int
	Placeholder string
}

func (Truncate) Kind() Kind { return KindTruncate }

func (r Truncate) Render(_ context.Context, target Target, value any) Cell {
	text := Coerce(value)
	if strings.TrimSpace(text) == "" {
		text = placeholder(r.Placeholder, DefaultPlaceholder)
		return Cell{Kind: KindTruncate, Text: text, Display: text}
	}
	limit := r.Limit
	if limit <= 0 {
		limit = DefaultTruncateLength
	}
	cell := Cell{Kind: KindTruncate, Text: text, Display: text}
	if utf8.RuneCountInString(text) <= limit {
		return cell
	}
	cell.Truncated = true
	cell.Expanded = target.Expanded
	if !target.Expanded {
		cell.Display = string([]rune(text)[:limit]) + ellipsis
	}
	return cell
}

// Coerce stringifies a record value. Nil values, including typed nil
// pointers, coerce to the empty string.
func Coerce(value any) string {
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		return Coerce(rv.Elem().Interface())
	}
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(value)
}

func placeholder(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
