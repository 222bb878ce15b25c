// Package fetch loads a resource collection from the backend and unwraps its
// response envelope.
package fetch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

var (
	ErrDecode           = errors.New("fetch: response did not match the expected envelope")
	ErrSourceRequired   = errors.New("fetch: source is required")
	ErrResourceRequired = errors.New("fetch: resource is required")
)

// Source performs the raw collection read. *transport.Client satisfies it.
type Source interface {
	List(ctx context.Context, resource string) ([]byte, error)
}

// Fetcher reads one resource collection.
type Fetcher[T any] struct {
	source   Source
	resource string
	unwrap   Unwrap[T]
	logger   interfaces.Logger
}

// Option configures a Fetcher.
type Option[T any] func(*Fetcher[T])

// WithUnwrap sets the envelope unwrapper. Defaults to DataEnvelope.
func WithUnwrap[T any](unwrap Unwrap[T]) Option[T] {
	return func(f *Fetcher[T]) {
		if unwrap != nil {
			f.unwrap = unwrap
		}
	}
}

// WithLogger sets the logger; entries carry the resource field.
func WithLogger[T any](logger interfaces.Logger) Option[T] {
	return func(f *Fetcher[T]) {
		f.logger = logging.Ensure(logger)
	}
}

// New builds a Fetcher for resource.
func New[T any](source Source, resource string, opts ...Option[T]) (*Fetcher[T], error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	resource = strings.TrimSpace(resource)
	if resource == "" {
		return nil, ErrResourceRequired
	}
	f := &Fetcher[T]{
		source:   source,
		resource: resource,
		unwrap:   DataEnvelope[T](),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.WithResourceContext(f.logger, resource, "", 0)
	return f, nil
}

// Resource returns the resource name the fetcher reads.
func (f *Fetcher[T]) Resource() string {
	return f.resource
}

// Load issues one read and returns the unwrapped collection in server order.
func (f *Fetcher[T]) Load(ctx context.Context) ([]T, error) {
	started := time.Now()
	f.logger.Debug("fetch.load.start")

	raw, err := f.source.List(ctx, f.resource)
	if err != nil {
		f.logger.Warn("fetch.load.failed", "error", err)
		return nil, err
	}
	records, err := f.unwrap(raw)
	if err != nil {
		f.logger.Warn("fetch.load.decode_failed", "error", err)
		return nil, err
	}
	f.logger.Info("fetch.load.success",
		"records", len(records),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return records, nil
}
