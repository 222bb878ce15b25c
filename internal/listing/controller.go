// Package listing composes the fetcher, view filter, paginator, delete
// coordinator, renderers and exporters into the controller behind one
// resource list page.
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-admin/internal/actions"
	exportcmd "github.com/goliatone/go-cms-admin/internal/commands/export"
	recordscmd "github.com/goliatone/go-cms-admin/internal/commands/records"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/notify"
	"github.com/goliatone/go-cms-admin/internal/render"
	"github.com/goliatone/go-cms-admin/internal/transport"
	"github.com/goliatone/go-cms-admin/internal/view"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

var (
	// ErrSuperseded is returned by a load whose response arrived after a newer load was issued.
	ErrSuperseded = errors.New("listing: load superseded by a newer request")
	// ErrUnmounted is returned once the page has been unmounted.
	ErrUnmounted = errors.New("listing: page unmounted")

	ErrLoaderRequired   = errors.New("listing: loader is required")
	ErrIDRequired       = errors.New("listing: record id accessor is required")
	ErrRecordNotFound   = errors.New("listing: record not found")
	ErrColumnNotFound   = errors.New("listing: column not found")
	ErrExportDisabled   = errors.New("listing: export is not configured")
	ErrSaveDisabled     = errors.New("listing: save is not configured")
	ErrResourceRequired = errors.New("listing: resource is required")
)

// Loader reads the full collection. *fetch.Fetcher satisfies it.
type Loader[T any] interface {
	Load(ctx context.Context) ([]T, error)
}

// Definition is the static description of a list page.
type Definition[T any] struct {
	Resource string
	// Label names the resource in notices and titles, e.g. "News".
	Label   string
	Columns []render.Column[T]
	ID      func(T) int64
}

// Config wires a Controller.
type Config[T any] struct {
	Definition[T]
	Loader   Loader[T]
	Deleter  command.Commander[recordscmd.DeleteRecordCommand]
	Saver    command.Commander[recordscmd.SaveRecordCommand]
	Exporter command.Commander[exportcmd.ExportRecordsCommand]
	Notifier interfaces.Notifier
	Logger   interfaces.Logger
	PageSize int
	// NotifyCancel emits an info notice when a delete confirmation is dismissed.
	NotifyCancel bool
}

// Controller owns the state of one list page. It is safe for concurrent use;
// network calls never run under its lock.
type Controller[T any] struct {
	def         Definition[T]
	loader      Loader[T]
	coordinator *actions.Coordinator
	saver       command.Commander[recordscmd.SaveRecordCommand]
	exporter    command.Commander[exportcmd.ExportRecordsCommand]
	notifier    interfaces.Notifier
	logger      interfaces.Logger
	expand      *render.ExpandState

	lifetime context.Context
	stop     context.CancelFunc

	mu        sync.Mutex
	records   []T
	version   uint64
	seq       uint64
	loading   bool
	loaded    bool
	banner    string
	query     string
	pager     *view.Pager
	cache     subsetCache[T]
	unmounted bool
}

type subsetCache[T any] struct {
	valid   bool
	query   string
	version uint64
	items   []T
}

// New validates cfg and returns an unloaded controller.
func New[T any](cfg Config[T]) (*Controller[T], error) {
	if cfg.Loader == nil {
		return nil, ErrLoaderRequired
	}
	if cfg.ID == nil {
		return nil, ErrIDRequired
	}
	def := cfg.Definition
	def.Resource = strings.TrimSpace(def.Resource)
	if def.Resource == "" {
		return nil, ErrResourceRequired
	}
	if strings.TrimSpace(def.Label) == "" {
		def.Label = def.Resource
	}

	lifetime, stop := context.WithCancel(context.Background())
	c := &Controller[T]{
		def:      def,
		loader:   cfg.Loader,
		saver:    cfg.Saver,
		exporter: cfg.Exporter,
		notifier: notify.Ensure(cfg.Notifier),
		logger:   logging.WithResourceContext(logging.Ensure(cfg.Logger), def.Resource, "", 0),
		expand:   render.NewExpandState(),
		lifetime: lifetime,
		stop:     stop,
		pager:    view.NewPager(cfg.PageSize),
	}

	if cfg.Deleter != nil {
		coordinator, err := actions.New(actions.Config{
			Resource:     def.Resource,
			Label:        def.Label,
			Executor:     cfg.Deleter,
			Reload:       c.Load,
			Notifier:     c.notifier,
			Logger:       cfg.Logger,
			NotifyCancel: cfg.NotifyCancel,
			Abandoned:    c.isUnmounted,
		})
		if err != nil {
			stop()
			return nil, err
		}
		c.coordinator = coordinator
	}
	return c, nil
}

// Resource returns the resource name of the page.
func (c *Controller[T]) Resource() string { return c.def.Resource }

// Columns returns the static column list.
func (c *Controller[T]) Columns() []render.Column[T] { return c.def.Columns }

// Load fetches the full collection. Only the most recently issued load is
// applied; older responses return ErrSuperseded without touching state.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return ErrUnmounted
	}
	c.seq++
	token := c.seq
	c.loading = true
	c.mu.Unlock()

	ctx, release := c.bind(ctx)
	defer release()

	records, err := c.loader.Load(ctx)

	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return ErrUnmounted
	}
	if token != c.seq {
		c.mu.Unlock()
		c.logger.Debug("listing.load.superseded", "token", token)
		return ErrSuperseded
	}
	c.loading = false
	if err != nil {
		c.banner = transport.UserMessage(err, c.loadFallback())
		banner := c.banner
		c.mu.Unlock()
		c.logger.Error("listing.load.failed", "error", err)
		c.notifier.Notify(interfaces.NoticeError, banner)
		return err
	}
	if records == nil {
		records = []T{}
	}
	c.records = records
	c.version++
	c.loaded = true
	c.banner = ""
	c.mu.Unlock()

	c.clamp(ctx)
	c.logger.Debug("listing.load.applied", "records", len(records))
	return nil
}

func (c *Controller[T]) loadFallback() string {
	return fmt.Sprintf("Failed to load %s.", strings.ToLower(c.def.Label))
}

// bind derives a context cancelled by either the caller or Unmount.
func (c *Controller[T]) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.lifetime, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// subset returns the filtered records, computing them outside the lock and
// caching the result per (query, collection version).
func (c *Controller[T]) subset(ctx context.Context) []T {
	c.mu.Lock()
	if c.cache.valid && c.cache.query == c.query && c.cache.version == c.version {
		items := c.cache.items
		c.mu.Unlock()
		return items
	}
	records, query, version := c.records, c.query, c.version
	c.mu.Unlock()

	items := view.Filter(ctx, records, c.def.Columns, query)

	c.mu.Lock()
	if c.query == query && c.version == version {
		c.cache = subsetCache[T]{valid: true, query: query, version: version, items: items}
	}
	c.mu.Unlock()
	return items
}

func (c *Controller[T]) clamp(ctx context.Context) {
	total := len(c.subset(ctx))
	c.mu.Lock()
	c.pager.Clamp(total)
	c.mu.Unlock()
}

// SetQuery replaces the filter query and clamps the page index.
func (c *Controller[T]) SetQuery(ctx context.Context, query string) {
	c.mu.Lock()
	c.query = query
	c.mu.Unlock()
	c.clamp(ctx)
}

// SetPageSize changes the page size; non-positive sizes are rejected.
func (c *Controller[T]) SetPageSize(ctx context.Context, size int) error {
	total := len(c.subset(ctx))
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pager.SetPageSize(size, total)
}

// NextPage advances one page; it reports false on the last page.
func (c *Controller[T]) NextPage(ctx context.Context) bool {
	total := len(c.subset(ctx))
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pager.Next(total)
}

// PrevPage moves back one page; it reports false on the first page.
func (c *Controller[T]) PrevPage(ctx context.Context) bool {
	total := len(c.subset(ctx))
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pager.Prev(total)
}

// GotoPage jumps to a zero-based page index, clamped.
func (c *Controller[T]) GotoPage(ctx context.Context, index int) {
	total := len(c.subset(ctx))
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pager.Goto(index, total)
}

// Records returns a copy of the full collection in server order.
func (c *Controller[T]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// ToggleExpand flips the truncated cell of record id in column.
func (c *Controller[T]) ToggleExpand(id int64, column string) (bool, error) {
	col, ok := c.column(column)
	if !ok {
		return false, ErrColumnNotFound
	}
	record, ok := c.record(id)
	if !ok {
		return false, ErrRecordNotFound
	}
	var value any
	if col.Accessor != nil {
		value = col.Accessor(record)
	}
	return c.expand.Toggle(id, col.Key, render.Coerce(value)), nil
}

func (c *Controller[T]) column(key string) (render.Column[T], bool) {
	for _, col := range c.def.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return render.Column[T]{}, false
}

func (c *Controller[T]) record(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, record := range c.records {
		if c.def.ID(record) == id {
			return record, true
		}
	}
	var zero T
	return zero, false
}

func (c *Controller[T]) isUnmounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unmounted
}

// Unmount cancels in-flight requests, drops the collection and makes every
// later call a no-op returning ErrUnmounted.
func (c *Controller[T]) Unmount() {
	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return
	}
	c.unmounted = true
	c.records = nil
	c.cache = subsetCache[T]{}
	c.loading = false
	c.mu.Unlock()

	c.stop()
	c.expand.Reset()
	if c.coordinator != nil {
		c.coordinator.Reset()
	}
	c.logger.Debug("listing.unmounted")
}
