package listing_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/goliatone/go-cms-admin/internal/actions"
	exportcmd "github.com/goliatone/go-cms-admin/internal/commands/export"
	recordscmd "github.com/goliatone/go-cms-admin/internal/commands/records"
	"github.com/goliatone/go-cms-admin/internal/export"
	"github.com/goliatone/go-cms-admin/internal/listing"
	"github.com/goliatone/go-cms-admin/internal/render"
	"github.com/goliatone/go-cms-admin/internal/transport"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	"github.com/xuri/excelize/v2"
)

type item struct {
	ID    int64
	Title string
	Body  string
}

var columns = []render.Column[item]{
	{Key: "title", Header: "Title", Accessor: func(i item) any { return i.Title }, Renderer: render.Text{}},
	{Key: "body", Header: "Body", Accessor: func(i item) any { return i.Body }, Renderer: render.Truncate{Limit: 5}},
	{Key: "actions", Header: "Actions", Renderer: render.Actions{}},
}

// store is an in-memory backend serving both loads and deletes.
type store struct {
	mu      sync.Mutex
	items   []item
	loads   int
	loadErr error
}

func newStore(n int) *store {
	s := &store{}
	for i := 1; i <= n; i++ {
		s.items = append(s.items, item{ID: int64(i), Title: fmt.Sprintf("Item %02d", i), Body: "a long body"})
	}
	return s
}

func (s *store) Load(ctx context.Context) ([]item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]item(nil), s.items...), nil
}

func (s *store) Delete(_ context.Context, _ string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return &transport.Error{Kind: transport.KindApplication, Status: 404, Message: "Record not found"}
}

func (s *store) Create(_ context.Context, _ string, payload transport.Payload) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := int64(len(s.items) + 1)
	s.items = append(s.items, item{ID: id, Title: payload.Fields["title"]})
	return []byte(`{}`), nil
}

func (s *store) Update(_ context.Context, _ string, id int64, payload transport.Payload) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Title = payload.Fields["title"]
			return []byte(`{}`), nil
		}
	}
	return nil, &transport.Error{Kind: transport.KindApplication, Status: 404, Message: "Record not found"}
}

type notices struct {
	mu   sync.Mutex
	list []string
}

func (n *notices) Notify(kind interfaces.NoticeKind, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.list = append(n.list, string(kind)+": "+text)
}

func (n *notices) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.list) == 0 {
		return ""
	}
	return n.list[len(n.list)-1]
}

func newController(t *testing.T, loader listing.Loader[item], backend *store, note *notices, dir string) *listing.Controller[item] {
	t.Helper()
	exporter, err := export.NewExporter(export.DirSink{Dir: dir})
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	cfg := listing.Config[item]{
		Definition: listing.Definition[item]{
			Resource: "news",
			Label:    "News",
			Columns:  columns,
			ID:       func(i item) int64 { return i.ID },
		},
		Loader:   loader,
		Exporter: exportcmd.NewExportRecordsHandler(exporter, nil),
		Notifier: note,
		PageSize: 10,
	}
	if backend != nil {
		cfg.Deleter = recordscmd.NewDeleteRecordHandler(backend, nil)
		cfg.Saver = recordscmd.NewSaveRecordHandler(backend, nil)
	}
	c, err := listing.New(cfg)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	t.Cleanup(c.Unmount)
	return c
}

func TestNewRequiresLoaderAndID(t *testing.T) {
	if _, err := listing.New(listing.Config[item]{}); !errors.Is(err, listing.ErrLoaderRequired) {
		t.Fatalf("expected ErrLoaderRequired, got %v", err)
	}
	_, err := listing.New(listing.Config[item]{Loader: newStore(0), Definition: listing.Definition[item]{Resource: "news"}})
	if !errors.Is(err, listing.ErrIDRequired) {
		t.Fatalf("expected ErrIDRequired, got %v", err)
	}
}

func TestLoadPopulatesFirstPage(t *testing.T) {
	backend := newStore(23)
	c := newController(t, backend, backend, &notices{}, t.TempDir())
	ctx := context.Background()

	if err := c.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	v := c.View(ctx)
	if len(v.Rows) != 10 || v.Total != 23 || v.PageCount != 3 {
		t.Fatalf("unexpected view: rows=%d total=%d pages=%d", len(v.Rows), v.Total, v.PageCount)
	}
	if v.PageLabel() != "Page 1 of 3" {
		t.Fatalf("unexpected label %q", v.PageLabel())
	}
	if v.Rows[0].Cells[1].Display != "a lon..." {
		t.Fatalf("expected truncated body, got %q", v.Rows[0].Cells[1].Display)
	}
	if len(v.Headers) != 3 || v.Headers[2] != "Actions" {
		t.Fatalf("unexpected headers %v", v.Headers)
	}
}

func TestEmptyEnvelopeRendersSinglePageAndHeaderOnlyExport(t *testing.T) {
	backend := newStore(0)
	dir := t.TempDir()
	c := newController(t, backend, backend, &notices{}, dir)
	ctx := context.Background()

	if err := c.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	v := c.View(ctx)
	if !v.Empty || len(v.Rows) != 0 {
		t.Fatalf("expected empty view, got %+v", v)
	}
	if v.PageLabel() != "Page 1 of 1" {
		t.Fatalf("expected Page 1 of 1, got %q", v.PageLabel())
	}

	result, err := c.Export(ctx, export.FormatXLSX)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := excelize.OpenFile(filepath.Join(dir, result.FileName))
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetList()[0])
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 1 || len(rows[0]) != 2 || rows[0][0] != "Title" {
		t.Fatalf("expected header-only sheet, got %v", rows)
	}
}

// gatedLoader blocks each call until the test releases it.
type gatedLoader struct {
	calls chan chan []item
}

func (g *gatedLoader) Load(ctx context.Context) ([]item, error) {
	reply := make(chan []item)
	g.calls <- reply
	select {
	case items := <-reply:
		return items, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	loader := &gatedLoader{calls: make(chan chan []item)}
	note := &notices{}
	c := newController(t, loader, nil, note, t.TempDir())
	ctx := context.Background()

	first := make(chan error, 1)
	go func() { first <- c.Load(ctx) }()
	firstReply := <-loader.calls

	second := make(chan error, 1)
	go func() { second <- c.Load(ctx) }()
	secondReply := <-loader.calls

	secondReply <- []item{{ID: 2, Title: "fresh"}}
	if err := <-second; err != nil {
		t.Fatalf("second load: %v", err)
	}
	firstReply <- []item{{ID: 1, Title: "stale"}}
	if err := <-first; !errors.Is(err, listing.ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}

	records := c.Records()
	if len(records) != 1 || records[0].Title != "fresh" {
		t.Fatalf("expected fresh records, got %+v", records)
	}
	if c.View(ctx).Loading {
		t.Fatalf("expected loading to be cleared")
	}
	if len(note.list) != 0 {
		t.Fatalf("expected no notices, got %v", note.list)
	}
}

func TestUnmountCancelsInFlightLoad(t *testing.T) {
	loader := &gatedLoader{calls: make(chan chan []item)}
	c := newController(t, loader, nil, &notices{}, t.TempDir())

	done := make(chan error, 1)
	go func() { done <- c.Load(context.Background()) }()
	<-loader.calls

	c.Unmount()
	if err := <-done; !errors.Is(err, listing.ErrUnmounted) {
		t.Fatalf("expected ErrUnmounted, got %v", err)
	}
	if err := c.Load(context.Background()); !errors.Is(err, listing.ErrUnmounted) {
		t.Fatalf("expected later loads to be rejected, got %v", err)
	}
	if err := c.RequestDelete(1); !errors.Is(err, listing.ErrUnmounted) {
		t.Fatalf("expected delete to be rejected, got %v", err)
	}
}

// blockingBackend holds every delete and save until its context ends.
type blockingBackend struct {
	started chan struct{}
}

func (b *blockingBackend) wait(ctx context.Context) error {
	b.started <- struct{}{}
	<-ctx.Done()
	return ctx.Err()
}

func (b *blockingBackend) Delete(ctx context.Context, _ string, _ int64) error {
	return b.wait(ctx)
}

func (b *blockingBackend) Create(ctx context.Context, _ string, _ transport.Payload) ([]byte, error) {
	return nil, b.wait(ctx)
}

func (b *blockingBackend) Update(ctx context.Context, _ string, _ int64, _ transport.Payload) ([]byte, error) {
	return nil, b.wait(ctx)
}

func TestUnmountSilencesInFlightMutations(t *testing.T) {
	data := newStore(3)
	backend := &blockingBackend{started: make(chan struct{}, 1)}
	note := &notices{}
	c, err := listing.New(listing.Config[item]{
		Definition: listing.Definition[item]{
			Resource: "news",
			Label:    "News",
			Columns:  columns,
			ID:       func(i item) int64 { return i.ID },
		},
		Loader:   data,
		Deleter:  recordscmd.NewDeleteRecordHandler(backend, nil),
		Saver:    recordscmd.NewSaveRecordHandler(backend, nil),
		Notifier: note,
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	ctx := context.Background()
	if err := c.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.RequestDelete(2); err != nil {
		t.Fatalf("request delete: %v", err)
	}

	deleted := make(chan error, 1)
	go func() { deleted <- c.ConfirmDelete(ctx, 2) }()
	<-backend.started

	saved := make(chan error, 1)
	go func() {
		saved <- c.Save(ctx, 0, transport.Payload{Fields: map[string]string{"title": "Late"}})
	}()
	<-backend.started

	loadsBefore := data.loads
	c.Unmount()

	if err := <-deleted; !errors.Is(err, listing.ErrUnmounted) {
		t.Fatalf("expected ErrUnmounted from delete, got %v", err)
	}
	if err := <-saved; !errors.Is(err, listing.ErrUnmounted) {
		t.Fatalf("expected ErrUnmounted from save, got %v", err)
	}
	if len(note.list) != 0 {
		t.Fatalf("expected no notices after unmount, got %v", note.list)
	}
	if data.loads != loadsBefore {
		t.Fatalf("expected no reload after unmount, got %d loads", data.loads-loadsBefore)
	}
}

func TestLoadFailureSetsBanner(t *testing.T) {
	backend := newStore(3)
	note := &notices{}
	c := newController(t, backend, backend, note, t.TempDir())
	ctx := context.Background()

	backend.loadErr = &transport.Error{Kind: transport.KindTransport, Message: "connection refused"}
	if err := c.Load(ctx); err == nil {
		t.Fatalf("expected load error")
	}
	v := c.View(ctx)
	if v.Banner != "connection refused" || v.Loading || v.Empty {
		t.Fatalf("unexpected view after failure: %+v", v)
	}
	if note.last() != "error: connection refused" {
		t.Fatalf("unexpected notice %q", note.last())
	}

	backend.loadErr = errors.New("boom")
	_ = c.Load(ctx)
	if got := c.View(ctx).Banner; got != "Failed to load news." {
		t.Fatalf("expected fallback banner, got %q", got)
	}

	backend.loadErr = nil
	if err := c.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.View(ctx).Banner; got != "" {
		t.Fatalf("expected banner to clear, got %q", got)
	}
}

func TestDeletingLastItemOnLastPageClampsIndex(t *testing.T) {
	backend := newStore(11)
	note := &notices{}
	c := newController(t, backend, backend, note, t.TempDir())
	ctx := context.Background()

	if err := c.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !c.NextPage(ctx) {
		t.Fatalf("expected to reach page 2")
	}
	if v := c.View(ctx); v.PageIndex != 1 || len(v.Rows) != 1 {
		t.Fatalf("expected one row on page 2, got index=%d rows=%d", v.PageIndex, len(v.Rows))
	}

	if err := c.RequestDelete(11); err != nil {
		t.Fatalf("request delete: %v", err)
	}
	if c.DeleteState(11) != actions.StateConfirmPending {
		t.Fatalf("expected pending confirmation")
	}
	if err := c.ConfirmDelete(ctx, 11); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	v := c.View(ctx)
	if v.PageIndex != 0 || v.PageCount != 1 || v.Total != 10 {
		t.Fatalf("expected clamp to page 0 of 1, got index=%d pages=%d total=%d", v.PageIndex, v.PageCount, v.Total)
	}
	if note.last() != "success: News deleted successfully." {
		t.Fatalf("unexpected notice %q", note.last())
	}
	if backend.loads != 2 {
		t.Fatalf("expected reload after delete, got %d loads", backend.loads)
	}
}

func TestDeleteFailureKeepsCollection(t *testing.T) {
	backend := newStore(2)
	note := &notices{}
	c := newController(t, backend, backend, note, t.TempDir())
	ctx := context.Background()
	_ = c.Load(ctx)

	_ = c.RequestDelete(2)
	backend.mu.Lock()
	backend.items = backend.items[:1]
	backend.mu.Unlock()

	if err := c.ConfirmDelete(ctx, 2); err == nil {
		t.Fatalf("expected delete failure")
	}
	if note.last() != "error: Record not found" {
		t.Fatalf("unexpected notice %q", note.last())
	}
	if len(c.Records()) != 2 || c.DeleteState(2) != actions.StateIdle {
		t.Fatalf("expected collection untouched and row idle")
	}
}

func TestCancelDeleteIsLocal(t *testing.T) {
	backend := newStore(2)
	c := newController(t, backend, backend, &notices{}, t.TempDir())
	_ = c.Load(context.Background())

	_ = c.RequestDelete(1)
	if !c.CancelDelete(1) {
		t.Fatalf("expected cancel to dismiss confirmation")
	}
	if backend.loads != 1 || len(backend.items) != 2 {
		t.Fatalf("expected no network activity on cancel")
	}
}

func TestFilterDoesNotChangeExport(t *testing.T) {
	backend := newStore(50)
	dir := t.TempDir()
	c := newController(t, backend, backend, &notices{}, dir)
	ctx := context.Background()
	_ = c.Load(ctx)

	c.SetQuery(ctx, "item 0")
	v := c.View(ctx)
	if v.Matches != 9 || v.Total != 50 {
		t.Fatalf("expected 9 of 50 matches, got %d of %d", v.Matches, v.Total)
	}

	result, err := c.Export(ctx, export.FormatPDF)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.Records != 50 || result.FileName != "news_records.pdf" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestQueryChangeClampsInsteadOfResetting(t *testing.T) {
	backend := newStore(30)
	c := newController(t, backend, backend, &notices{}, t.TempDir())
	ctx := context.Background()
	_ = c.Load(ctx)

	c.GotoPage(ctx, 2)
	c.SetQuery(ctx, "item 1")
	if v := c.View(ctx); v.PageIndex != 0 || v.Matches != 10 {
		t.Fatalf("expected clamp to the only page, got index=%d matches=%d", v.PageIndex, v.Matches)
	}

	c.SetQuery(ctx, "")
	c.GotoPage(ctx, 1)
	c.SetQuery(ctx, "item")
	if v := c.View(ctx); v.PageIndex != 1 {
		t.Fatalf("expected index to survive a broader query, got %d", v.PageIndex)
	}
}

func TestSetPageSizeRejectsNonPositive(t *testing.T) {
	backend := newStore(23)
	c := newController(t, backend, backend, &notices{}, t.TempDir())
	ctx := context.Background()
	_ = c.Load(ctx)

	c.GotoPage(ctx, 2)
	if err := c.SetPageSize(ctx, 0); err == nil {
		t.Fatalf("expected rejection of page size 0")
	}
	if err := c.SetPageSize(ctx, 50); err != nil {
		t.Fatalf("set page size: %v", err)
	}
	if v := c.View(ctx); v.PageIndex != 0 || v.PageCount != 1 {
		t.Fatalf("expected single page, got index=%d pages=%d", v.PageIndex, v.PageCount)
	}
}

func TestToggleExpand(t *testing.T) {
	backend := newStore(1)
	c := newController(t, backend, backend, &notices{}, t.TempDir())
	ctx := context.Background()
	_ = c.Load(ctx)

	expanded, err := c.ToggleExpand(1, "body")
	if err != nil || !expanded {
		t.Fatalf("expected expansion, got %v %v", expanded, err)
	}
	if cell := c.View(ctx).Rows[0].Cells[1]; cell.Display != "a long body" {
		t.Fatalf("expected full text, got %q", cell.Display)
	}
	if _, err := c.ToggleExpand(1, "missing"); !errors.Is(err, listing.ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
	if _, err := c.ToggleExpand(99, "body"); !errors.Is(err, listing.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSaveCreatesAndReloads(t *testing.T) {
	backend := newStore(1)
	note := &notices{}
	c := newController(t, backend, backend, note, t.TempDir())
	ctx := context.Background()
	_ = c.Load(ctx)

	err := c.Save(ctx, 0, transport.Payload{Fields: map[string]string{"title": "Created"}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if note.last() != "success: News created successfully." {
		t.Fatalf("unexpected notice %q", note.last())
	}
	records := c.Records()
	if len(records) != 2 || records[1].Title != "Created" {
		t.Fatalf("expected reloaded collection, got %+v", records)
	}

	if err := c.Save(ctx, 1, transport.Payload{}); err == nil {
		t.Fatalf("expected empty payload to be rejected")
	}
}
