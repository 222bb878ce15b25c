// Package view derives the visible page of a collection: global text filtering
// followed by pagination. Nothing here mutates its inputs.
package view

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-admin/internal/render"
)

// Filter returns the records whose data columns contain query, compared
// case-insensitively. An empty or whitespace query returns records unchanged.
func Filter[T any](ctx context.Context, records []T, columns []render.Column[T], query string) []T {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return records
	}
	out := make([]T, 0, len(records))
	for _, record := range records {
		if Matches(ctx, record, columns, needle) {
			out = append(out, record)
		}
	}
	return out
}

// Matches reports whether any non-empty data column of record contains
// needle. Media columns match on their stored path. needle must already be
// trimmed and lower-cased.
func Matches[T any](ctx context.Context, record T, columns []render.Column[T], needle string) bool {
	for _, text := range render.SearchTexts(ctx, record, columns) {
		if strings.Contains(strings.ToLower(text), needle) {
			return true
		}
	}
	return false
}
