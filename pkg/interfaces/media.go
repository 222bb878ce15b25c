package interfaces

import "context"

// MediaResolver turns the media path stored on a record (relative or absolute)
// into a URL that can be rendered as a thumbnail or opened full size.
type MediaResolver interface {
	Resolve(ctx context.Context, path string) (string, error)
}
