package recordscmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-admin/internal/commands"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

const deleteRecordMessageType = "admin.records.delete"

// Deleter removes one record from the backend.
type Deleter interface {
	Delete(ctx context.Context, resource string, id int64) error
}

// DeleteRecordCommand requests deletion of one record of a resource.
type DeleteRecordCommand struct {
	Resource string `json:"resource"`
	ID       int64  `json:"id"`
}

// Type implements command.Message.
func (DeleteRecordCommand) Type() string { return deleteRecordMessageType }

// Validate ensures the message identifies a single record.
func (m DeleteRecordCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Resource) == "" {
		errs["resource"] = validation.NewError("admin.records.delete.resource_required", "resource is required")
	}
	if m.ID <= 0 {
		errs["id"] = validation.NewError("admin.records.delete.id_invalid", "id must be greater than zero")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DeleteRecordHandler issues the delete through the shared command handler.
type DeleteRecordHandler struct {
	inner *commands.Handler[DeleteRecordCommand]
}

// NewDeleteRecordHandler wires deleter into a command handler.
func NewDeleteRecordHandler(deleter Deleter, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteRecordCommand]) *DeleteRecordHandler {
	exec := func(ctx context.Context, msg DeleteRecordCommand) error {
		return deleter.Delete(ctx, strings.TrimSpace(msg.Resource), msg.ID)
	}

	handlerOpts := []commands.HandlerOption[DeleteRecordCommand]{
		commands.WithLogger[DeleteRecordCommand](logger),
		commands.WithOperation[DeleteRecordCommand]("records.delete"),
		commands.WithMessageFields(func(msg DeleteRecordCommand) map[string]any {
			return map[string]any{"resource": msg.Resource, "record_id": msg.ID}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeleteRecordHandler{
		inner: commands.NewHandler[DeleteRecordCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DeleteRecordCommand].Execute.
func (h *DeleteRecordHandler) Execute(ctx context.Context, msg DeleteRecordCommand) error {
	return h.inner.Execute(ctx, msg)
}
