// Package media resolves the relative media paths stored on records into
// URLs the console can display.
package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrEmptyPath      = errors.New("media: path is empty")
	ErrBaseURLInvalid = errors.New("media: base url must be an absolute http(s) url")
)

// BaseURLResolver joins relative paths onto a single media origin.
type BaseURLResolver struct {
	base string
}

// NewBaseURLResolver validates base and returns a resolver for it.
func NewBaseURLResolver(base string) (*BaseURLResolver, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if !IsAbsolute(base) {
		return nil, fmt.Errorf("%w: %q", ErrBaseURLInvalid, base)
	}
	return &BaseURLResolver{base: base}, nil
}

// Resolve leaves absolute URLs and paths already under the base untouched.
func (r *BaseURLResolver) Resolve(_ context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrEmptyPath
	}
	if IsAbsolute(path) || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "data:") {
		return path, nil
	}
	return r.base + "/" + strings.TrimLeft(path, "/"), nil
}

// IsAbsolute reports whether raw is an absolute http(s) URL.
func IsAbsolute(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
