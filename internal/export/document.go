package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	defaultFontFamily = "Helvetica"
	defaultFontSize   = 9
	titleFontSize     = 14
	cellPadding       = 1.5
)

// DocumentExporter renders a landscape A4 PDF with the header row repeated
// at the top of every page.
type DocumentExporter struct {
	FontFamily string
	FontSize   float64
	// CreatedAt pins the document creation date; zero uses the current time.
	CreatedAt time.Time
}

func (DocumentExporter) Format() Format { return FormatPDF }

func (d DocumentExporter) Render(ctx context.Context, table Table) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	family := d.FontFamily
	if family == "" {
		family = defaultFontFamily
	}
	size := d.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	lineHeight := size * 0.5

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(table.Title, true)
	pdf.SetCreator("go-cms-admin", true)
	if !d.CreatedAt.IsZero() {
		pdf.SetCreationDate(d.CreatedAt)
	}
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	left, top, right, bottom := pdf.GetMargins()
	pageWidth, pageHeight := pdf.GetPageSize()
	usable := pageWidth - left - right
	widths := columnWidths(len(table.Headers), usable)
	if bottom < top {
		bottom = top
	}
	limit := pageHeight - bottom

	drawRow := func(cells []string, header bool) {
		style := ""
		if header {
			style = "B"
			pdf.SetFillColor(230, 230, 230)
		}
		pdf.SetFont(family, style, size)

		lines := make([][]string, len(widths))
		rows := 1
		for i := range widths {
			text := ""
			if i < len(cells) {
				text = tr(cells[i])
			}
			lines[i] = wrap(pdf, text, widths[i]-2*cellPadding)
			rows = max(rows, len(lines[i]))
		}
		height := float64(rows)*lineHeight + cellPadding

		if !header && pdf.GetY()+height > limit {
			pdf.AddPage()
			pdf.SetFont(family, "", size)
		}

		x, y := left, pdf.GetY()
		for i, w := range widths {
			rectStyle := "D"
			if header {
				rectStyle = "FD"
			}
			pdf.Rect(x, y, w, height, rectStyle)
			for n, line := range lines[i] {
				pdf.SetXY(x+cellPadding, y+cellPadding/2+float64(n)*lineHeight)
				pdf.CellFormat(w-2*cellPadding, lineHeight, line, "", 0, "L", false, 0, "")
			}
			x += w
		}
		pdf.SetXY(left, y+height)
	}

	pdf.SetHeaderFunc(func() {
		pdf.SetXY(left, top)
		if pdf.PageNo() == 1 && table.Title != "" {
			pdf.SetFont(family, "B", titleFontSize)
			pdf.CellFormat(usable, titleFontSize*0.6, tr(table.Title), "", 1, "L", false, 0, "")
			pdf.Ln(2)
			pdf.SetX(left)
		}
		if len(widths) > 0 {
			drawRow(table.Headers, true)
		}
	})

	pdf.AddPage()
	for _, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		drawRow(row, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// wrap breaks an already translated single-byte string into lines that fit
// width, splitting on spaces and hard-breaking words wider than a line.
func wrap(pdf *fpdf.Fpdf, text string, width float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := ""
		for _, word := range strings.Fields(paragraph) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if pdf.GetStringWidth(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			for pdf.GetStringWidth(word) > width && len(word) > 1 {
				cut := len(word) - 1
				for cut > 1 && pdf.GetStringWidth(word[:cut]) > width {
					cut--
				}
				lines = append(lines, word[:cut])
				word = word[cut:]
			}
			line = word
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func columnWidths(n int, usable float64) []float64 {
	widths := make([]float64, n)
	if n == 0 {
		return widths
	}
	each := usable / float64(n)
	for i := range widths {
		widths[i] = each
	}
	return widths
}
