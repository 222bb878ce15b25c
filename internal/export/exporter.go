package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

var ErrSinkRequired = errors.New("export: sink is required")

// Result describes a delivered artifact.
type Result struct {
	Format   Format
	FileName string
	Location string
	Records  int
	Bytes    int
}

// Exporter renders a table in memory and hands the finished bytes to a sink.
type Exporter struct {
	renderers map[Format]Renderer
	sink      Sink
	logger    interfaces.Logger
}

// Option customises an Exporter.
type Option func(*Exporter)

// WithRenderer registers or replaces the renderer for its format.
func WithRenderer(r Renderer) Option {
	return func(e *Exporter) {
		if r != nil {
			e.renderers[r.Format()] = r
		}
	}
}

// WithLogger sets the exporter logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Exporter) {
		e.logger = logging.Ensure(logger)
	}
}

// NewExporter registers the PDF and XLSX renderers by default.
func NewExporter(sink Sink, opts ...Option) (*Exporter, error) {
	if sink == nil {
		return nil, ErrSinkRequired
	}
	e := &Exporter{
		renderers: map[Format]Renderer{
			FormatPDF:  DocumentExporter{},
			FormatXLSX: SpreadsheetExporter{},
		},
		sink:   sink,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Export renders table for resource in format and delivers it.
func (e *Exporter) Export(ctx context.Context, resource string, format Format, table Table) (Result, error) {
	renderer, ok := e.renderers[format]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	name, err := FileName(resource, format)
	if err != nil {
		return Result{}, err
	}

	logger := logging.WithFields(e.logger, map[string]any{
		"resource": resource,
		"format":   string(format),
		"records":  len(table.Rows),
	})
	started := time.Now()
	logger.Debug("export.render.start")

	data, err := renderer.Render(ctx, table)
	if err != nil {
		logger.Error("export.render.failed", "error", err)
		return Result{}, err
	}
	location, err := e.sink.Deliver(ctx, name, data)
	if err != nil {
		logger.Error("export.deliver.failed", "error", err)
		return Result{}, err
	}
	logger.Info("export.deliver.success",
		"location", location,
		"bytes", len(data),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return Result{
		Format:   format,
		FileName: name,
		Location: location,
		Records:  len(table.Rows),
		Bytes:    len(data),
	}, nil
}
