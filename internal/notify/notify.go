// Package notify provides Notifier implementations used by list pages and the
// console CLI: log-backed, terminal-styled and fan-out.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// Discard drops every notice.
var Discard interfaces.Notifier = interfaces.NotifierFunc(func(interfaces.NoticeKind, string) {})

// Ensure returns n, or Discard when n is nil.
func Ensure(n interfaces.Notifier) interfaces.Notifier {
	if n == nil {
		return Discard
	}
	return n
}

// Logger mirrors notices into structured logs under the notify.<kind> event.
func Logger(logger interfaces.Logger) interfaces.Notifier {
	logger = logging.Ensure(logger)
	return interfaces.NotifierFunc(func(kind interfaces.NoticeKind, text string) {
		event := "notify." + string(kind)
		switch kind {
		case interfaces.NoticeError:
			logger.Error(event, "text", text)
		case interfaces.NoticeWarning:
			logger.Warn(event, "text", text)
		default:
			logger.Info(event, "text", text)
		}
	})
}

// Multi fans a notice out to every non-nil notifier in order.
func Multi(notifiers ...interfaces.Notifier) interfaces.Notifier {
	targets := make([]interfaces.Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			targets = append(targets, n)
		}
	}
	return interfaces.NotifierFunc(func(kind interfaces.NoticeKind, text string) {
		for _, n := range targets {
			n.Notify(kind, text)
		}
	})
}

// WriterNotifier prints one styled line per notice, e.g. "✔ News deleted".
type WriterNotifier struct {
	mu     sync.Mutex
	out    io.Writer
	styles map[interfaces.NoticeKind]lipgloss.Style
}

// Writer builds a WriterNotifier whose colour profile follows out.
func Writer(out io.Writer) *WriterNotifier {
	r := lipgloss.NewRenderer(out)
	return &WriterNotifier{
		out: out,
		styles: map[interfaces.NoticeKind]lipgloss.Style{
			interfaces.NoticeSuccess: r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
			interfaces.NoticeError:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			interfaces.NoticeWarning: r.NewStyle().Foreground(lipgloss.Color("214")),
			interfaces.NoticeInfo:    r.NewStyle().Foreground(lipgloss.Color("39")),
		},
	}
}

func (w *WriterNotifier) Notify(kind interfaces.NoticeKind, text string) {
	if w == nil || w.out == nil {
		return
	}
	style, ok := w.styles[kind]
	if !ok {
		style = w.styles[interfaces.NoticeInfo]
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, style.Render(symbol(kind)+" "+text))
}

func symbol(kind interfaces.NoticeKind) string {
	switch kind {
	case interfaces.NoticeSuccess:
		return "✔"
	case interfaces.NoticeError:
		return "✖"
	case interfaces.NoticeWarning:
		return "!"
	default:
		return "•"
	}
}
