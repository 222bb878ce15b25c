package render

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

const NoImage = "No Image"

// Media renders a thumbnail with a full-size lightbox target. Paths that
// cannot be resolved fall back to the placeholder image. Cell.Text keeps the
// stored path; resolved and presigned URLs only appear in Display.
type Media struct {
	Resolver         interfaces.MediaResolver
	PlaceholderImage string
}

func (Media) Kind() Kind { return KindMedia }

func (r Media) Render(ctx context.Context, _ Target, value any) Cell {
	cell := Cell{Kind: KindMedia, Fallback: r.PlaceholderImage}
	path := strings.TrimSpace(Coerce(value))
	if path == "" {
		return r.fallback(cell)
	}
	resolved := path
	if r.Resolver != nil {
		if ctx == nil {
			ctx = context.Background()
		}
		url, err := r.Resolver.Resolve(ctx, path)
		if err != nil || strings.TrimSpace(url) == "" {
			return r.fallback(cell)
		}
		resolved = url
	}
	cell.Thumbnail = resolved
	cell.Lightbox = resolved
	cell.Text = path
	cell.Display = resolved
	return cell
}

// PlainText is the stored path, or NoImage when empty. It never resolves, so
// filtering and export make no media lookups.
func (r Media) PlainText(value any) string {
	if path := strings.TrimSpace(Coerce(value)); path != "" {
		return path
	}
	return NoImage
}

func (r Media) fallback(cell Cell) Cell {
	cell.Thumbnail = r.PlaceholderImage
	cell.Text = NoImage
	cell.Display = NoImage
	return cell
}
