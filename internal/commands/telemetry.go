package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// Outcome classifies how a command finished.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	// OutcomeCanceled means the function returned nil but the context had
	// already been cancelled or had expired.
	OutcomeCanceled Outcome = "canceled"
)

// Report describes one finished execution.
type Report struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Outcome   Outcome
	Err       error
}

// Observer receives the report of every execution.
type Observer[T command.Message] func(ctx context.Context, msg T, report Report)

// LogObserver logs each report: successes at info, everything else at error.
func LogObserver[T command.Message](logger interfaces.Logger) Observer[T] {
	logger = logging.Ensure(logger)
	return func(_ context.Context, _ T, report Report) {
		entry := logging.WithFields(logger, report.Fields)
		if report.Outcome == OutcomeSucceeded {
			entry.Info("admin.command.succeeded", "duration_ms", report.Duration.Milliseconds())
			return
		}
		entry.Error("admin.command."+string(report.Outcome),
			"duration_ms", report.Duration.Milliseconds(),
			"error", report.Err,
		)
	}
}
