package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-admin/internal/actions"
	exportcmd "github.com/goliatone/go-cms-admin/internal/commands/export"
	recordscmd "github.com/goliatone/go-cms-admin/internal/commands/records"
	"github.com/goliatone/go-cms-admin/internal/export"
	"github.com/goliatone/go-cms-admin/internal/transport"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

var ErrDeleteDisabled = errors.New("listing: delete is not configured")

func (c *Controller[T]) guard() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		return ErrUnmounted
	}
	return nil
}

// RequestDelete opens the delete confirmation for row id.
func (c *Controller[T]) RequestDelete(id int64) error {
	if err := c.guard(); err != nil {
		return err
	}
	if c.coordinator == nil {
		return ErrDeleteDisabled
	}
	return c.coordinator.RequestDelete(id)
}

// CancelDelete dismisses the confirmation for row id.
func (c *Controller[T]) CancelDelete(id int64) bool {
	if c.coordinator == nil {
		return false
	}
	return c.coordinator.Cancel(id)
}

// ConfirmDelete deletes row id and reloads the collection on success.
func (c *Controller[T]) ConfirmDelete(ctx context.Context, id int64) error {
	if err := c.guard(); err != nil {
		return err
	}
	if c.coordinator == nil {
		return ErrDeleteDisabled
	}
	ctx, release := c.bind(ctx)
	defer release()
	if err := c.coordinator.Confirm(ctx, id); err != nil {
		if errors.Is(err, actions.ErrAbandoned) {
			return ErrUnmounted
		}
		return err
	}
	return nil
}

// DeleteState reports the confirmation state of row id.
func (c *Controller[T]) DeleteState(id int64) actions.State {
	if c.coordinator == nil {
		return actions.StateIdle
	}
	return c.coordinator.State(id)
}

// Save creates (id == 0) or updates a record, then reloads the collection.
// Validation rejections keep their field messages; see transport.AsError.
func (c *Controller[T]) Save(ctx context.Context, id int64, payload transport.Payload) error {
	if err := c.guard(); err != nil {
		return err
	}
	if c.saver == nil {
		return ErrSaveDisabled
	}
	ctx, release := c.bind(ctx)
	defer release()

	err := c.saver.Execute(ctx, recordscmd.SaveRecordCommand{Resource: c.def.Resource, ID: id, Payload: payload})
	if c.isUnmounted() {
		c.logger.Debug("listing.save.abandoned", "record_id", id, "error", err)
		return ErrUnmounted
	}
	if err != nil {
		c.logger.Error("listing.save.failed", "record_id", id, "error", err)
		c.notifier.Notify(interfaces.NoticeError, transport.UserMessage(err, fmt.Sprintf("Failed to save %s.", strings.ToLower(c.def.Label))))
		return err
	}
	verb := "updated"
	if id == 0 {
		verb = "created"
	}
	c.notifier.Notify(interfaces.NoticeSuccess, fmt.Sprintf("%s %s successfully.", c.def.Label, verb))
	if err := c.Load(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		c.logger.Warn("listing.save.reload_failed", "error", err)
	}
	return nil
}

// Export serialises the full collection, ignoring filter and pagination.
func (c *Controller[T]) Export(ctx context.Context, format export.Format) (export.Result, error) {
	if err := c.guard(); err != nil {
		return export.Result{}, err
	}
	if c.exporter == nil {
		return export.Result{}, ErrExportDisabled
	}
	ctx, release := c.bind(ctx)
	defer release()

	records := c.Records()
	table := export.Project(ctx, c.def.Label+" Records", records, c.def.Columns)

	var result export.Result
	err := c.exporter.Execute(ctx, exportcmd.ExportRecordsCommand{
		Resource:  c.def.Resource,
		Format:    string(format),
		Table:     table,
		Delivered: func(r export.Result) { result = r },
	})
	if c.isUnmounted() {
		c.logger.Debug("listing.export.abandoned", "format", string(format), "error", err)
		return export.Result{}, ErrUnmounted
	}
	if err != nil {
		c.logger.Error("listing.export.failed", "format", string(format), "error", err)
		c.notifier.Notify(interfaces.NoticeError, fmt.Sprintf("Failed to export %s to %s.", strings.ToLower(c.def.Label), strings.ToUpper(string(format))))
		return export.Result{}, err
	}
	c.notifier.Notify(interfaces.NoticeSuccess, fmt.Sprintf("Exported %d %s records to %s.", result.Records, strings.ToLower(c.def.Label), result.FileName))
	return result, nil
}
