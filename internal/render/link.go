package render

import (
	"context"
	"net/url"
	"strings"
)

const NoLink = "No Link"

// Link renders absolute http(s) URLs as hyperlinks opening in a new context.
type Link struct {
	Placeholder string
}

func (Link) Kind() Kind { return KindLink }

func (r Link) Render(_ context.Context, _ Target, value any) Cell {
	raw := strings.TrimSpace(Coerce(value))
	if raw == "" {
		text := placeholder(r.Placeholder, NoLink)
		return Cell{Kind: KindLink, Text: text, Display: text}
	}
	cell := Cell{Kind: KindLink, Text: raw, Display: raw}
	if parsed, err := url.Parse(raw); err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != "" {
		cell.Href = raw
		cell.External = true
	}
	return cell
}
