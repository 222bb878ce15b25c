package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"
)

// Format is an export file format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

var ErrUnknownFormat = errors.New("export: unknown format")

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatPDF, FormatXLSX}
}

// ParseFormat accepts "pdf" or "xlsx", case-insensitively.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// FileName returns "<resource>_records.<format>" with resource normalised to
// lower-case underscore form.
func FileName(resource string, format Format) (string, error) {
	normalized, err := slug.Normalize(resource)
	if err != nil || normalized == "" {
		return "", fmt.Errorf("export: invalid resource name %q", resource)
	}
	return strings.ReplaceAll(normalized, "-", "_") + "_records." + string(format), nil
}

// Renderer serialises a table into one format.
type Renderer interface {
	Format() Format
	Render(ctx context.Context, table Table) ([]byte, error)
}
