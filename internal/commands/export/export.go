package exportcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-admin/internal/commands"
	"github.com/goliatone/go-cms-admin/internal/export"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

const exportRecordsMessageType = "admin.records.export"

// ExportRecordsCommand renders Table as Format and delivers it.
type ExportRecordsCommand struct {
	Resource string       `json:"resource"`
	Format   string       `json:"format"`
	Table    export.Table `json:"-"`
	// Delivered receives the outcome of a successful export.
	Delivered func(export.Result) `json:"-"`
}

// Type implements command.Message.
func (ExportRecordsCommand) Type() string { return exportRecordsMessageType }

// Validate ensures the resource and format are usable.
func (m ExportRecordsCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Resource, validation.Required),
		validation.Field(&m.Format, validation.Required, validation.In(string(export.FormatPDF), string(export.FormatXLSX))),
	)
}

// ExportRecordsHandler runs exports through the shared command handler.
type ExportRecordsHandler struct {
	inner *commands.Handler[ExportRecordsCommand]
}

// NewExportRecordsHandler wires exporter into a command handler.
func NewExportRecordsHandler(exporter *export.Exporter, logger interfaces.Logger, opts ...commands.HandlerOption[ExportRecordsCommand]) *ExportRecordsHandler {
	exec := func(ctx context.Context, msg ExportRecordsCommand) error {
		format, err := export.ParseFormat(msg.Format)
		if err != nil {
			return err
		}
		result, err := exporter.Export(ctx, msg.Resource, format, msg.Table)
		if err != nil {
			return err
		}
		if msg.Delivered != nil {
			msg.Delivered(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportRecordsCommand]{
		commands.WithLogger[ExportRecordsCommand](logger),
		commands.WithOperation[ExportRecordsCommand]("records.export"),
		commands.WithMessageFields(func(msg ExportRecordsCommand) map[string]any {
			return map[string]any{"resource": msg.Resource, "format": msg.Format, "rows": len(msg.Table.Rows)}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportRecordsHandler{
		inner: commands.NewHandler[ExportRecordsCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ExportRecordsCommand].Execute.
func (h *ExportRecordsHandler) Execute(ctx context.Context, msg ExportRecordsCommand) error {
	return h.inner.Execute(ctx, msg)
}
