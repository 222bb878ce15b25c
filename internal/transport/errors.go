package transport

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Kind classifies a failed exchange with the backend.
type Kind string

const (
	// KindTransport means no response was received.
	KindTransport Kind = "transport"
	// KindApplication means the backend answered with a non-2xx status.
	KindApplication Kind = "application"
	// KindValidation means the backend rejected a payload field by field (422).
	KindValidation Kind = "validation"
)

var (
	CategoryTransport   = goerrors.Category("transport")
	CategoryApplication = goerrors.Category("application")
)

const (
	TextCodeTransport   = "ADMIN_TRANSPORT_UNREACHABLE"
	TextCodeApplication = "ADMIN_BACKEND_REJECTED"
	TextCodeValidation  = "ADMIN_BACKEND_VALIDATION"
	TextCodeDecode      = "ADMIN_BACKEND_DECODE"
)

// Error describes a failed backend exchange.
type Error struct {
	Kind    Kind
	Method  string
	URL     string
	Status  int
	Message string
	// Fields is populated for KindValidation, keyed by field name.
	Fields map[string][]string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "transport: %s %s", e.Method, e.URL)
	if e.Status > 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.Status)
	}
	switch {
	case e.Message != "":
		b.WriteString(": " + e.Message)
	case e.Err != nil:
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FieldMessages returns the display message (first entry) for every field.
func (e *Error) FieldMessages() map[string]string {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Fields))
	for field, messages := range e.Fields {
		if len(messages) > 0 && strings.TrimSpace(messages[0]) != "" {
			out[field] = messages[0]
		}
	}
	return out
}

// Summary joins field messages in field order, e.g. "image: is required; title: too long".
func (e *Error) Summary() string {
	messages := e.FieldMessages()
	if len(messages) == 0 {
		if e == nil {
			return ""
		}
		return e.Message
	}
	parts := make([]string, 0, len(messages))
	for _, field := range slices.Sorted(maps.Keys(messages)) {
		parts = append(parts, field+": "+messages[field])
	}
	return strings.Join(parts, "; ")
}

// categorise wraps a transport error with the go-errors category matching its kind.
func categorise(e *Error) error {
	switch e.Kind {
	case KindTransport:
		return goerrors.Wrap(e, CategoryTransport, "backend unreachable").WithTextCode(TextCodeTransport)
	case KindValidation:
		return goerrors.Wrap(e, goerrors.CategoryValidation, "backend validation failed").WithTextCode(TextCodeValidation)
	default:
		return goerrors.Wrap(e, CategoryApplication, "backend rejected request").WithTextCode(TextCodeApplication)
	}
}

func decodeError(method, url string, err error) error {
	return goerrors.Wrap(&Error{
		Kind:   KindApplication,
		Method: method,
		URL:    url,
		Err:    err,
	}, CategoryApplication, "backend response could not be decoded").WithTextCode(TextCodeDecode)
}

// AsError extracts the transport error from err.
func AsError(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// IsTransport reports whether err means no response was received.
func IsTransport(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindTransport
}

// UserMessage returns the backend-provided message for err, the validation
// summary for 422 rejections, or fallback when the backend said nothing useful.
func UserMessage(err error, fallback string) string {
	e, ok := AsError(err)
	if !ok {
		return fallback
	}
	if e.Kind == KindValidation {
		if summary := e.Summary(); summary != "" {
			return summary
		}
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return fallback
}
