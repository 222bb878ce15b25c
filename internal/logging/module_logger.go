package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

const (
	rootModule      = "admin"
	fetchModule     = "admin.fetch"
	listingModule   = "admin.listing"
	actionsModule   = "admin.actions"
	exportModule    = "admin.export"
	transportModule = "admin.transport"
	recordsModule   = "admin.records"
)

const (
	fieldResource = "resource"
	fieldEndpoint = "endpoint"
	fieldRecordID = "record_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so entries can be filtered per module.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// FetchLogger returns the logger namespace reserved for collection loads.
func FetchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, fetchModule)
}

// ListingLogger returns the logger namespace reserved for list controllers.
func ListingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, listingModule)
}

// ActionsLogger returns the logger namespace reserved for row actions.
func ActionsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, actionsModule)
}

// ExportLogger returns the logger namespace reserved for export serializers.
func ExportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, exportModule)
}

// TransportLogger returns the logger namespace reserved for the REST client.
func TransportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, transportModule)
}

// RecordsLogger returns the logger namespace reserved for the fixture backend.
func RecordsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, recordsModule)
}

// WithResourceContext enriches the logger with the resource name, its endpoint
// and an optional record id. Empty values are ignored.
func WithResourceContext(logger interfaces.Logger, resource, endpoint string, recordID int64) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(resource); trimmed != "" {
		fields[fieldResource] = trimmed
	}
	if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
		fields[fieldEndpoint] = trimmed
	}
	if recordID != 0 {
		fields[fieldRecordID] = recordID
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}

// Ensure returns logger, or a no-op logger when logger is nil.
func Ensure(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}

// WithFields attaches fields when logger implements FieldsLogger. Nil or empty
// maps return logger unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fieldsLogger.WithFields(maps.Clone(fields))
}
