// Package actions coordinates row-scoped destructive actions: a delete must be
// requested, then confirmed, and only one row at a time awaits confirmation.
package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	recordscmd "github.com/goliatone/go-cms-admin/internal/commands/records"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/notify"
	"github.com/goliatone/go-cms-admin/internal/transport"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// State is the deletion confirmation state of one row.
type State string

const (
	StateIdle           State = "idle"
	StateConfirmPending State = "confirm_pending"
	StateDeleting       State = "deleting"
)

var (
	ErrInvalidID        = errors.New("actions: record id must be positive")
	ErrNotPending       = errors.New("actions: delete was not requested for this row")
	ErrDeleteInFlight   = errors.New("actions: delete already in progress for this row")
	ErrExecutorRequired = errors.New("actions: delete executor is required")
	// ErrAbandoned is returned when the owning table went away while the
	// delete was in flight; no notice is emitted and no reload runs.
	ErrAbandoned = errors.New("actions: table closed during delete")
)

// ReloadFunc re-fetches the collection after a successful mutation.
type ReloadFunc func(ctx context.Context) error

// Config wires a Coordinator.
type Config struct {
	Resource string
	// Label names the resource in notices, e.g. "News" or "Leader".
	Label    string
	Executor command.Commander[recordscmd.DeleteRecordCommand]
	Reload   ReloadFunc
	Notifier interfaces.Notifier
	Logger   interfaces.Logger
	// NotifyCancel emits an info notice when a pending confirmation is dismissed.
	NotifyCancel bool
	// Abandoned reports whether the owning table has been closed.
	Abandoned func() bool
}

// Coordinator owns the deletion confirmation state of one table.
type Coordinator struct {
	resource     string
	label        string
	executor     command.Commander[recordscmd.DeleteRecordCommand]
	reload       ReloadFunc
	notifier     interfaces.Notifier
	logger       interfaces.Logger
	notifyCancel bool
	abandoned    func() bool

	mu       sync.Mutex
	pending  int64
	deleting map[int64]struct{}
}

// New validates cfg and returns an idle coordinator.
func New(cfg Config) (*Coordinator, error) {
	if cfg.Executor == nil {
		return nil, ErrExecutorRequired
	}
	resource := strings.TrimSpace(cfg.Resource)
	label := strings.TrimSpace(cfg.Label)
	if label == "" {
		label = resource
	}
	return &Coordinator{
		resource:     resource,
		label:        label,
		executor:     cfg.Executor,
		reload:       cfg.Reload,
		notifier:     notify.Ensure(cfg.Notifier),
		logger:       logging.WithResourceContext(logging.Ensure(cfg.Logger), resource, "", 0),
		notifyCancel: cfg.NotifyCancel,
		abandoned:    cfg.Abandoned,
		deleting:     make(map[int64]struct{}),
	}, nil
}

// State reports the confirmation state of row id.
func (c *Coordinator) State(id int64) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked(id)
}

func (c *Coordinator) stateLocked(id int64) State {
	if _, ok := c.deleting[id]; ok {
		return StateDeleting
	}
	if c.pending != 0 && c.pending == id {
		return StateConfirmPending
	}
	return StateIdle
}

// Pending returns the row awaiting confirmation, if any.
func (c *Coordinator) Pending() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.pending != 0
}

// RequestDelete opens the confirmation for row id. A confirmation already
// open on another row is dismissed silently.
func (c *Coordinator) RequestDelete(id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.deleting[id]; ok {
		return ErrDeleteInFlight
	}
	if c.pending != 0 && c.pending != id {
		c.logger.Debug("actions.delete.superseded", "record_id", c.pending, "by", id)
	}
	c.pending = id
	return nil
}

// Cancel dismisses the confirmation of row id. It reports whether a pending
// confirmation was dismissed; no network call is made.
func (c *Coordinator) Cancel(id int64) bool {
	c.mu.Lock()
	if c.pending == 0 || c.pending != id {
		c.mu.Unlock()
		return false
	}
	c.pending = 0
	c.mu.Unlock()

	c.logger.Debug("actions.delete.cancelled", "record_id", id)
	if c.notifyCancel {
		c.notifier.Notify(interfaces.NoticeInfo, "Delete cancelled.")
	}
	return true
}

// Confirm deletes row id, which must be awaiting confirmation. On success the
// collection is reloaded; in every outcome the row returns to idle.
func (c *Coordinator) Confirm(ctx context.Context, id int64) error {
	c.mu.Lock()
	switch c.stateLocked(id) {
	case StateDeleting:
		c.mu.Unlock()
		return ErrDeleteInFlight
	case StateIdle:
		c.mu.Unlock()
		return ErrNotPending
	}
	c.pending = 0
	c.deleting[id] = struct{}{}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.deleting, id)
		c.mu.Unlock()
	}()

	logger := logging.WithFields(c.logger, map[string]any{"record_id": id})
	logger.Info("actions.delete.start")

	err := c.executor.Execute(ctx, recordscmd.DeleteRecordCommand{Resource: c.resource, ID: id})
	if c.abandoned != nil && c.abandoned() {
		logger.Debug("actions.delete.abandoned", "error", err)
		return ErrAbandoned
	}
	if err != nil {
		logger.Error("actions.delete.failed", "error", err)
		c.notifier.Notify(interfaces.NoticeError, transport.UserMessage(err, fmt.Sprintf("Failed to delete %s.", strings.ToLower(c.label))))
		return err
	}

	logger.Info("actions.delete.success")
	c.notifier.Notify(interfaces.NoticeSuccess, fmt.Sprintf("%s deleted successfully.", c.label))

	if c.reload != nil {
		if err := c.reload(ctx); err != nil {
			logger.Warn("actions.delete.reload_failed", "error", err)
		}
	}
	return nil
}

// Reset drops every pending confirmation. In-flight deletes finish normally.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	c.pending = 0
	c.mu.Unlock()
}
