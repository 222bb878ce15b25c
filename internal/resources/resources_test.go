package resources

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/goliatone/go-cms-admin/internal/render"
)

func TestIDHandlesDecodedNumbers(t *testing.T) {
	cases := map[string]Record{
		"float":  {"id": float64(7)},
		"int64":  {"id": int64(7)},
		"number": {"id": json.Number("7")},
		"string": {"id": " 7 "},
	}
	for name, record := range cases {
		if got := ID(record); got != 7 {
			t.Fatalf("%s: expected 7, got %d", name, got)
		}
	}
	if got := ID(Record{"id": "abc"}); got != 0 {
		t.Fatalf("expected 0 for invalid id, got %d", got)
	}
}

func TestFieldResolvesNestedRelations(t *testing.T) {
	record := Record{"level": map[string]any{"name": "Board"}}
	if got := Field(record, "level.name"); got != "Board" {
		t.Fatalf("expected Board, got %v", got)
	}
	if got := Field(record, "level.missing.deeper"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestPagesAreComplete(t *testing.T) {
	for _, page := range Pages(Options{}) {
		if _, err := page.Unwrap(); err != nil {
			t.Fatalf("%s: unwrap: %v", page.Resource, err)
		}
		if len(page.Seeds) == 0 || len(page.Required) == 0 {
			t.Fatalf("%s: expected seeds and required fields", page.Resource)
		}
		last := page.Columns[len(page.Columns)-1]
		if last.Kind() != render.KindActions {
			t.Fatalf("%s: expected trailing actions column", page.Resource)
		}
		if !Has(page.Resource) {
			t.Fatalf("%s: expected Has to report true", page.Resource)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("careers", Options{}); err != ErrUnknownResource {
		t.Fatalf("expected ErrUnknownResource, got %v", err)
	}
}

func TestNewsColumnsRenderPlaceholders(t *testing.T) {
	page, err := Lookup(News, Options{TruncateLength: 10})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	record := Record{"id": float64(3), "title": "T", "description": nil, "published_at": "not-a-date"}
	texts := render.Texts(context.Background(), record, page.Columns)
	want := []string{"3", "T", "No Description", render.NoImage, render.InvalidDate}
	for i, w := range want {
		if texts[i] != w {
			t.Fatalf("column %d: expected %q, got %q", i, w, texts[i])
		}
	}
}
