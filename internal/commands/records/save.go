package recordscmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-admin/internal/commands"
	"github.com/goliatone/go-cms-admin/internal/transport"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

const saveRecordMessageType = "admin.records.save"

// Writer submits create and update requests.
type Writer interface {
	Create(ctx context.Context, resource string, payload transport.Payload) ([]byte, error)
	Update(ctx context.Context, resource string, id int64, payload transport.Payload) ([]byte, error)
}

// SaveRecordCommand creates a record when ID is zero and updates it otherwise.
type SaveRecordCommand struct {
	Resource string            `json:"resource"`
	ID       int64             `json:"id,omitempty"`
	Payload  transport.Payload `json:"-"`
}

// Type implements command.Message.
func (SaveRecordCommand) Type() string { return saveRecordMessageType }

// Validate ensures the message targets a resource and carries data.
func (m SaveRecordCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Resource) == "" {
		errs["resource"] = validation.NewError("admin.records.save.resource_required", "resource is required")
	}
	if m.ID < 0 {
		errs["id"] = validation.NewError("admin.records.save.id_invalid", "id must not be negative")
	}
	if len(m.Payload.Fields) == 0 && len(m.Payload.Files) == 0 {
		errs["payload"] = validation.NewError("admin.records.save.payload_empty", "payload must carry at least one field")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Creating reports whether the command creates a new record.
func (m SaveRecordCommand) Creating() bool { return m.ID == 0 }

// SaveRecordHandler submits create/update requests through the shared command handler.
type SaveRecordHandler struct {
	inner *commands.Handler[SaveRecordCommand]
}

// NewSaveRecordHandler wires writer into a command handler.
func NewSaveRecordHandler(writer Writer, logger interfaces.Logger, opts ...commands.HandlerOption[SaveRecordCommand]) *SaveRecordHandler {
	exec := func(ctx context.Context, msg SaveRecordCommand) error {
		resource := strings.TrimSpace(msg.Resource)
		var err error
		if msg.Creating() {
			_, err = writer.Create(ctx, resource, msg.Payload)
		} else {
			_, err = writer.Update(ctx, resource, msg.ID, msg.Payload)
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[SaveRecordCommand]{
		commands.WithLogger[SaveRecordCommand](logger),
		commands.WithOperation[SaveRecordCommand]("records.save"),
		commands.WithMessageFields(func(msg SaveRecordCommand) map[string]any {
			fields := map[string]any{"resource": msg.Resource, "creating": msg.Creating()}
			if !msg.Creating() {
				fields["record_id"] = msg.ID
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SaveRecordHandler{
		inner: commands.NewHandler[SaveRecordCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SaveRecordCommand].Execute.
func (h *SaveRecordHandler) Execute(ctx context.Context, msg SaveRecordCommand) error {
	return h.inner.Execute(ctx, msg)
}
