package admin

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-admin/internal/di"
	"github.com/goliatone/go-cms-admin/internal/fetch"
	"github.com/goliatone/go-cms-admin/internal/listing"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/render"
	"github.com/goliatone/go-cms-admin/internal/resources"
	"github.com/goliatone/go-cms-admin/internal/transport"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// Record is the dynamic record type of the built-in pages.
type Record = resources.Record

// Option customises the module wiring.
type Option = di.Option

var (
	WithLoggerProvider = di.WithLoggerProvider
	WithNotifier       = di.WithNotifier
	WithHTTPClient     = di.WithHTTPClient
	WithMediaResolver  = di.WithMediaResolver
	WithExportSink     = di.WithExportSink
)

// Module represents the top level admin console runtime façade.
type Module struct {
	container *di.Container
}

// New constructs an admin module using the provided configuration and optional overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the validated configuration.
func (m *Module) Config() Config {
	return m.container.Config
}

// Client returns the backend transport client.
func (m *Module) Client() *transport.Client {
	return m.container.Client()
}

// Notifier returns the notifier shared by every page.
func (m *Module) Notifier() interfaces.Notifier {
	return m.container.Notifier()
}

// SignIn authenticates against the backend and keeps the token for every
// later request.
func (m *Module) SignIn(ctx context.Context, email, password string) error {
	_, err := m.container.Client().SignIn(ctx, transport.Credentials{Email: email, Password: password})
	if err != nil {
		m.container.Notifier().Notify(interfaces.NoticeError, transport.UserMessage(err, "Failed to sign in."))
		return err
	}
	return nil
}

// PageDefinition describes a list page over records of type T.
type PageDefinition[T any] struct {
	Resource string
	Label    string
	Columns  []render.Column[T]
	ID       func(T) int64
	// Unwrap decodes the collection response; defaults to {"data": [...]}.
	Unwrap fetch.Unwrap[T]
	// ReadOnly pages offer no delete or save.
	ReadOnly     bool
	NotifyCancel bool
}

// NewListPage builds a fully wired controller for def.
func NewListPage[T any](m *Module, def PageDefinition[T]) (*listing.Controller[T], error) {
	provider := m.container.LoggerProvider()
	fetchOpts := []fetch.Option[T]{fetch.WithLogger[T](logging.FetchLogger(provider))}
	if def.Unwrap != nil {
		fetchOpts = append(fetchOpts, fetch.WithUnwrap(def.Unwrap))
	}
	fetcher, err := fetch.New[T](m.container.Client(), def.Resource, fetchOpts...)
	if err != nil {
		return nil, err
	}

	cfg := listing.Config[T]{
		Definition: listing.Definition[T]{
			Resource: def.Resource,
			Label:    def.Label,
			Columns:  def.Columns,
			ID:       def.ID,
		},
		Loader:       fetcher,
		Exporter:     m.container.ExportHandler(),
		Notifier:     m.container.Notifier(),
		Logger:       logging.ListingLogger(provider),
		PageSize:     m.container.Config.Table.PageSize,
		NotifyCancel: def.NotifyCancel,
	}
	if !def.ReadOnly {
		cfg.Deleter = m.container.DeleteHandler()
		cfg.Saver = m.container.SaveHandler()
	}
	return listing.New(cfg)
}

// NewResourcePage builds the controller of a built-in resource page.
func NewResourcePage(m *Module, resource string) (*listing.Controller[Record], error) {
	page, err := resources.Lookup(resource, m.PageOptions())
	if err != nil {
		return nil, err
	}
	unwrap, err := page.Unwrap()
	if err != nil {
		return nil, err
	}
	return NewListPage(m, PageDefinition[Record]{
		Resource: page.Resource,
		Label:    page.Label,
		Columns:  page.Columns,
		ID:       resources.ID,
		Unwrap:   unwrap,
	})
}

// PageOptions returns the renderer collaborators derived from config.
func (m *Module) PageOptions() resources.Options {
	cfg := m.container.Config
	return resources.Options{
		Media:            m.container.MediaResolver(),
		PlaceholderImage: cfg.Media.Placeholder,
		Links:            m.container.Routes(),
		TruncateLength:   cfg.Table.TruncateLength,
		DateLayout:       cfg.Table.DateLayout,
		Placeholder:      strings.TrimSpace(cfg.Table.Placeholder),
	}
}

// Resources lists the built-in resource pages.
func Resources() []string {
	return resources.Names()
}
