package render

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTextPlaceholder(t *testing.T) {
	var missing *string
	cases := []any{nil, "", "   ", missing}
	for _, value := range cases {
		cell := Text{}.Render(context.Background(), Target{}, value)
		if cell.Display != "None" || cell.Text != "None" {
			t.Fatalf("expected placeholder for %#v, got %+v", value, cell)
		}
	}

	cell := Text{Placeholder: "-"}.Render(context.Background(), Target{}, nil)
	if cell.Display != "-" {
		t.Fatalf("expected custom placeholder, got %q", cell.Display)
	}
}

func TestCoerce(t *testing.T) {
	title := "Board"
	ts := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)
	cases := map[string]struct {
		value any
		want  string
	}{
		"string":        {"hello", "hello"},
		"json integer":  {float64(3), "3"},
		"json float":    {1.5, "1.5"},
		"int64":         {int64(42), "42"},
		"bool":          {true, "true"},
		"pointer":       {&title, "Board"},
		"time":          {ts, "2024-03-14T15:09:26Z"},
		"time pointer":  {&ts, "2024-03-14T15:09:26Z"},
		"nil interface": {nil, ""},
	}
	for name, tc := range cases {
		if got := Coerce(tc.value); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", name, tc.want, got)
		}
	}
}

func TestTruncateCollapsesLongText(t *testing.T) {
	long := strings.Repeat("é", 120)
	cell := Truncate{}.Render(context.Background(), Target{}, long)

	if !cell.Truncated || cell.Expanded {
		t.Fatalf("expected collapsed truncated cell, got %+v", cell)
	}
	if cell.Display != strings.Repeat("é", 100)+"..." {
		t.Fatalf("unexpected display %q", cell.Display)
	}
	if cell.Text != long {
		t.Fatalf("expected full text preserved")
	}

	expanded := Truncate{}.Render(context.Background(), Target{Expanded: true}, long)
	if expanded.Display != long || !expanded.Expanded {
		t.Fatalf("expected expanded cell to show full text, got %+v", expanded)
	}
}

func TestTruncateShortTextUntouched(t *testing.T) {
	cell := Truncate{Limit: 10}.Render(context.Background(), Target{}, "short")
	if cell.Truncated || cell.Display != "short" {
		t.Fatalf("unexpected cell %+v", cell)
	}
}

func TestDateFormatting(t *testing.T) {
	var nilTime *time.Time
	ts := time.Date(2023, 11, 5, 10, 0, 0, 0, time.UTC)
	cases := map[string]struct {
		value any
		want  string
	}{
		"rfc3339":      {"2024-03-14T15:09:26Z", "3/14/2024"},
		"date only":    {"2024-01-02", "1/2/2024"},
		"sql datetime": {"2024-12-31 23:59:59", "12/31/2024"},
		"time value":   {ts, "11/5/2023"},
		"nil":          {nil, "None"},
		"nil pointer":  {nilTime, "None"},
		"empty":        {"", "None"},
		"malformed":    {"not-a-date", "Invalid Date"},
		"wrong type":   {42, "Invalid Date"},
	}
	for name, tc := range cases {
		cell := Date{}.Render(context.Background(), Target{}, tc.value)
		if cell.Display != tc.want || cell.Text != tc.want {
			t.Fatalf("%s: expected %q, got %+v", name, tc.want, cell)
		}
	}
}

type mapResolver map[string]string

func (m mapResolver) Resolve(_ context.Context, path string) (string, error) {
	if url, ok := m[path]; ok {
		return url, nil
	}
	return "", errors.New("unknown media")
}

func TestMediaResolvesAndFallsBack(t *testing.T) {
	renderer := Media{
		Resolver:         mapResolver{"uploads/a.png": "https://cdn.example.com/uploads/a.png"},
		PlaceholderImage: "/static/placeholder.png",
	}

	cell := renderer.Render(context.Background(), Target{}, "uploads/a.png")
	if cell.Thumbnail != "https://cdn.example.com/uploads/a.png" || cell.Lightbox != cell.Thumbnail {
		t.Fatalf("unexpected media cell %+v", cell)
	}
	if cell.Text != "uploads/a.png" || cell.Display != cell.Thumbnail {
		t.Fatalf("expected stored path as text and resolved url as display, got %+v", cell)
	}
	if got := renderer.PlainText("uploads/a.png"); got != "uploads/a.png" {
		t.Fatalf("expected plain text to skip resolution, got %q", got)
	}
	if got := renderer.PlainText(""); got != NoImage {
		t.Fatalf("expected No Image for empty path, got %q", got)
	}

	missing := renderer.Render(context.Background(), Target{}, "uploads/missing.png")
	if missing.Thumbnail != "/static/placeholder.png" || missing.Text != NoImage {
		t.Fatalf("expected placeholder, got %+v", missing)
	}

	empty := renderer.Render(context.Background(), Target{}, nil)
	if empty.Text != NoImage {
		t.Fatalf("expected No Image, got %+v", empty)
	}
}

func TestLinkRendering(t *testing.T) {
	cell := Link{}.Render(context.Background(), Target{}, "https://example.com/report.pdf")
	if cell.Href != "https://example.com/report.pdf" || !cell.External {
		t.Fatalf("expected external link, got %+v", cell)
	}

	relative := Link{}.Render(context.Background(), Target{}, "reports/2024.pdf")
	if relative.Href != "" || relative.Display != "reports/2024.pdf" {
		t.Fatalf("expected plain text for relative link, got %+v", relative)
	}

	missing := Link{}.Render(context.Background(), Target{}, nil)
	if missing.Display != "No Link" || missing.Href != "" {
		t.Fatalf("expected No Link, got %+v", missing)
	}
}

type stubLinks struct{}

func (stubLinks) Edit(resource string, id int64) (string, error) {
	return "https://admin.example.com/admin/" + resource + "/" + Coerce(id) + "/edit", nil
}

func TestActionsCell(t *testing.T) {
	cell := Actions{Links: stubLinks{}}.Render(context.Background(), Target{Resource: "news", RecordID: 4}, nil)
	if len(cell.Actions) != 2 {
		t.Fatalf("expected edit and delete actions, got %+v", cell.Actions)
	}
	if cell.Actions[0].Name != ActionEdit || cell.Actions[0].Href != "https://admin.example.com/admin/news/4/edit" {
		t.Fatalf("unexpected edit action %+v", cell.Actions[0])
	}
	if cell.Actions[1].Name != ActionDelete || cell.Actions[1].RecordID != 4 {
		t.Fatalf("unexpected delete action %+v", cell.Actions[1])
	}
}

type article struct {
	ID      int64
	Title   string
	Body    string
	Created string
}

func articleColumns() []Column[article] {
	return []Column[article]{
		{Key: "title", Header: "Title", Accessor: func(a article) any { return a.Title }},
		{Key: "body", Header: "Body", Accessor: func(a article) any { return a.Body }, Renderer: Truncate{Limit: 5}},
		{Key: "created", Header: "Created", Accessor: func(a article) any { return a.Created }, Renderer: Date{}},
		{Key: "actions", Header: "Actions", Renderer: Actions{}},
	}
}

func TestRowAndTexts(t *testing.T) {
	record := article{ID: 1, Title: "Hello", Body: "A long body", Created: "2024-02-03"}
	columns := articleColumns()
	state := NewExpandState()

	cells := Row(context.Background(), "news", record.ID, record, columns, state)
	if len(cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(cells))
	}
	if cells[1].Display != "A lon..." {
		t.Fatalf("expected collapsed body, got %q", cells[1].Display)
	}

	state.Toggle(record.ID, "body", record.Body)
	cells = Row(context.Background(), "news", record.ID, record, columns, state)
	if cells[1].Display != "A long body" {
		t.Fatalf("expected expanded body, got %q", cells[1].Display)
	}

	texts := Texts(context.Background(), record, columns)
	want := []string{"Hello", "A long body", "2/3/2024"}
	if strings.Join(texts, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, texts)
	}
	if len(DataColumns(columns)) != 3 {
		t.Fatalf("expected actions column to be excluded")
	}
}

func TestExpandStateResetsOnValueChange(t *testing.T) {
	state := NewExpandState()
	if !state.Toggle(1, "body", "old") {
		t.Fatal("expected first toggle to expand")
	}
	if !state.Expanded(1, "body", "old") {
		t.Fatal("expected cell to stay expanded for the same value")
	}
	if state.Expanded(1, "body", "new") {
		t.Fatal("expected cell to collapse once the value changed")
	}
	if state.Expanded(1, "body", "old") {
		t.Fatal("expected stale entry to be dropped")
	}
	if state.Toggle(1, "body", "new") != true {
		t.Fatal("expected toggle on new value to expand")
	}
	state.Reset()
	if state.Expanded(1, "body", "new") {
		t.Fatal("expected reset to collapse every cell")
	}
}
