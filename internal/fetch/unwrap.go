package fetch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Unwrap turns a raw collection response into records. Implementations are
// pure: the same bytes always yield the same records.
type Unwrap[T any] func(raw []byte) ([]T, error)

// Envelope names the three collection response shapes served by the backend.
type Envelope string

const (
	EnvelopeBare  Envelope = "bare"
	EnvelopeData  Envelope = "data"
	EnvelopeKeyed Envelope = "keyed"
)

// BareArray decodes a top-level JSON array.
func BareArray[T any]() Unwrap[T] {
	return func(raw []byte) ([]T, error) {
		return decodeArray[T](raw, "")
	}
}

// DataEnvelope decodes {"data": [...]}.
func DataEnvelope[T any]() Unwrap[T] {
	return KeyedEnvelope[T]("data")
}

// KeyedEnvelope decodes {"<key>": [...]}, e.g. {"news": [...]}.
func KeyedEnvelope[T any](key string) Unwrap[T] {
	key = strings.TrimSpace(key)
	return func(raw []byte) ([]T, error) {
		if isNull(raw) {
			return []T{}, nil
		}
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("%w: expected object with %q: %v", ErrDecode, key, err)
		}
		return decodeArray[T](envelope[key], key)
	}
}

// ForEnvelope returns the Unwrap for kind; key is only used for EnvelopeKeyed.
func ForEnvelope[T any](kind Envelope, key string) (Unwrap[T], error) {
	switch kind {
	case EnvelopeBare:
		return BareArray[T](), nil
	case EnvelopeData, "":
		return DataEnvelope[T](), nil
	case EnvelopeKeyed:
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("fetch: keyed envelope requires a key")
		}
		return KeyedEnvelope[T](key), nil
	default:
		return nil, fmt.Errorf("fetch: unknown envelope %q", kind)
	}
}

func decodeArray[T any](raw []byte, key string) ([]T, error) {
	if isNull(raw) {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		if key == "" {
			return nil, fmt.Errorf("%w: expected array: %v", ErrDecode, err)
		}
		return nil, fmt.Errorf("%w: expected array under %q: %v", ErrDecode, key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func isNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
