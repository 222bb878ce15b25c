// Package resources declares the built-in list pages of the console: their
// record shape, columns, response envelope and fixture seeds.
package resources

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is a dynamically shaped backend record.
type Record map[string]any

// ID returns the numeric identity of r, or 0 when it has none.
func ID(r Record) int64 {
	switch v := r["id"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return n
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// Field returns a possibly nested value addressed by a dotted path, e.g.
// "level.name". Missing segments yield nil.
func Field(r Record, path string) any {
	var current any = map[string]any(r)
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			current = node[segment]
		case Record:
			current = node[segment]
		default:
			return nil
		}
	}
	return current
}
