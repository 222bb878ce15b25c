package di

import (
	"fmt"
	"net/http"
	"strings"

	exportcmd "github.com/goliatone/go-cms-admin/internal/commands/export"
	recordscmd "github.com/goliatone/go-cms-admin/internal/commands/records"
	"github.com/goliatone/go-cms-admin/internal/export"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/logging/console"
	"github.com/goliatone/go-cms-admin/internal/logging/gologger"
	"github.com/goliatone/go-cms-admin/internal/media"
	"github.com/goliatone/go-cms-admin/internal/notify"
	"github.com/goliatone/go-cms-admin/internal/routing"
	"github.com/goliatone/go-cms-admin/internal/runtimeconfig"
	"github.com/goliatone/go-cms-admin/internal/transport"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// Container wires the collaborators shared by every list page.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	notifier       interfaces.Notifier
	httpClient     *http.Client
	mediaResolver  interfaces.MediaResolver
	exportSink     export.Sink

	routes   *routing.Routes
	client   *transport.Client
	exporter *export.Exporter

	deleteHandler *recordscmd.DeleteRecordHandler
	saveHandler   *recordscmd.SaveRecordHandler
	exportHandler *exportcmd.ExportRecordsHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the configured logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithNotifier sets the notifier receiving user-facing notices.
func WithNotifier(n interfaces.Notifier) Option {
	return func(c *Container) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithHTTPClient overrides the HTTP client of the backend transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMediaResolver overrides the media resolver built from config.
func WithMediaResolver(resolver interfaces.MediaResolver) Option {
	return func(c *Container) {
		if resolver != nil {
			c.mediaResolver = resolver
		}
	}
}

// WithExportSink overrides where exports are delivered.
func WithExportSink(sink export.Sink) Option {
	return func(c *Container) {
		if sink != nil {
			c.exportSink = sink
		}
	}
}

// NewContainer validates cfg and builds every shared collaborator.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.notifier = notify.Multi(notify.Ensure(c.notifier), notify.Logger(logging.ModuleLogger(c.loggerProvider, "admin.notify")))

	if err := c.configureTransport(); err != nil {
		return nil, err
	}
	if err := c.configureMedia(); err != nil {
		return nil, err
	}
	if err := c.configureCommands(); err != nil {
		return nil, err
	}

	logging.ModuleLogger(c.loggerProvider, "admin").Debug("container.configured",
		"api", cfg.API.BaseURL,
		"logging_provider", cfg.Logging.Provider,
		"presign", cfg.Media.Presign.Enabled,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureTransport() error {
	routes, err := routing.New(routing.Config{
		APIBaseURL:     c.Config.API.BaseURL,
		APIPrefix:      c.Config.API.Prefix,
		SignInPath:     c.Config.SignIn.Path,
		ConsoleBaseURL: c.Config.Console.BaseURL,
		EditPath:       c.Config.Console.EditPath,
	})
	if err != nil {
		return err
	}
	c.routes = routes

	opts := []transport.Option{transport.WithLogger(logging.TransportLogger(c.loggerProvider))}
	if c.httpClient != nil {
		opts = append(opts, transport.WithHTTPClient(c.httpClient))
	}
	client, err := transport.NewClient(routes, transport.Config{
		Token:   c.Config.API.Token,
		Timeout: c.Config.API.Timeout,
		SignIn: transport.SignInPolicy{
			Retries: c.Config.SignIn.Retries,
			Delay:   c.Config.SignIn.Delay,
		},
	}, opts...)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

func (c *Container) configureMedia() error {
	if c.mediaResolver != nil {
		return nil
	}
	cfg := c.Config.Media
	if cfg.Presign.Enabled {
		resolver, err := media.NewPresignResolver(media.PresignConfig{
			Endpoint:  cfg.Presign.Endpoint,
			Region:    cfg.Presign.Region,
			Bucket:    cfg.Presign.Bucket,
			AccessKey: cfg.Presign.AccessKey,
			SecretKey: cfg.Presign.SecretKey,
			UseSSL:    cfg.Presign.UseSSL,
			TTL:       cfg.Presign.TTL,
		})
		if err != nil {
			return err
		}
		// reuse signed URLs for half their lifetime
		c.mediaResolver = media.WithCache(resolver, resolver.TTL()/2)
		return nil
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = c.Config.API.BaseURL
	}
	resolver, err := media.NewBaseURLResolver(base)
	if err != nil {
		return fmt.Errorf("di: media resolver: %w", err)
	}
	c.mediaResolver = resolver
	return nil
}

func (c *Container) configureCommands() error {
	if c.exportSink == nil {
		c.exportSink = export.DirSink{Dir: c.Config.Export.Dir}
	}
	exporter, err := export.NewExporter(c.exportSink, export.WithLogger(logging.ExportLogger(c.loggerProvider)))
	if err != nil {
		return err
	}
	c.exporter = exporter

	recordsLogger := logging.RecordsLogger(c.loggerProvider)
	c.deleteHandler = recordscmd.NewDeleteRecordHandler(c.client, recordsLogger)
	c.saveHandler = recordscmd.NewSaveRecordHandler(c.client, recordsLogger)
	c.exportHandler = exportcmd.NewExportRecordsHandler(exporter, logging.ExportLogger(c.loggerProvider))
	return nil
}

// LoggerProvider returns the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Notifier returns the notifier shared by every page.
func (c *Container) Notifier() interfaces.Notifier { return c.notifier }

// Routes returns the endpoint and edit-link builder.
func (c *Container) Routes() *routing.Routes { return c.routes }

// Client returns the backend transport client.
func (c *Container) Client() *transport.Client { return c.client }

// MediaResolver returns the media resolver.
func (c *Container) MediaResolver() interfaces.MediaResolver { return c.mediaResolver }

// Exporter returns the export pipeline.
func (c *Container) Exporter() *export.Exporter { return c.exporter }

// DeleteHandler returns the delete command handler.
func (c *Container) DeleteHandler() *recordscmd.DeleteRecordHandler { return c.deleteHandler }

// SaveHandler returns the create/update command handler.
func (c *Container) SaveHandler() *recordscmd.SaveRecordHandler { return c.saveHandler }

// ExportHandler returns the export command handler.
func (c *Container) ExportHandler() *exportcmd.ExportRecordsHandler { return c.exportHandler }
