package contentcal

import (
	"github.com/go-pdf/fpdf"
)

// pdfTable draws a simple grid with an optional header row that is repeated
// when body rows overflow onto a new page.
type pdfTable struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	widths []float64
	header []string
	rows   [][]string

	headerFill RGB
	headerText RGB
	stripe     *RGB // fill for odd body rows
	cellFill   *RGB // fill for every body row, wins over stripe
	textColor  RGB
	border     RGB
	align      string
	fontSize   float64
	lineH      float64
	padding    float64
}

func newPDFTable(pdf *fpdf.Fpdf, tr func(string) string, widths ...float64) *pdfTable {
	return &pdfTable{
		pdf:      pdf,
		tr:       tr,
		widths:   widths,
		align:    "L",
		fontSize: 9,
		lineH:    4.5,
		padding:  1.5,
		border:   ruleColor,
	}
}

// fillWidths splits the printable width into n equal columns.
func fillWidths(pdf *fpdf.Fpdf, n int) []float64 {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	w := (pageW - left - right) / float64(n)
	out := make([]float64, n)
	for i := range out {
		out[i] = w
	}
	return out
}

func (t *pdfTable) addRow(cells ...string) { t.rows = append(t.rows, cells) }

// render draws the table at the current position. Failures are recorded in
// the pdf's error state.
func (t *pdfTable) render() {
	if t.pdf.Err() {
		return
	}
	startX, _, _, _ := t.pdf.GetMargins()
	_, pageH := t.pdf.GetPageSize()
	_, _, _, bottom := t.pdf.GetMargins()

	if t.header != nil {
		// Keep the header with at least the first body row.
		need := t.rowHeight(t.header, "B")
		if len(t.rows) > 0 {
			need += t.rowHeight(t.rows[0], "")
		}
		if t.pdf.GetY()+need > pageH-bottom {
			t.pdf.AddPage()
		}
		t.drawHeader(startX)
	}

	for i, row := range t.rows {
		h := t.rowHeight(row, "")
		if t.pdf.GetY()+h > pageH-bottom {
			t.pdf.AddPage()
			if t.header != nil {
				t.drawHeader(startX)
			}
		}
		fill := t.cellFill
		if fill == nil && t.stripe != nil && i%2 == 1 {
			fill = t.stripe
		}
		t.pdf.SetFont("Helvetica", "", t.fontSize)
		t.drawRow(row, startX, h, fill, t.textColor)
	}
}

func (t *pdfTable) drawHeader(x float64) {
	t.pdf.SetFont("Helvetica", "B", t.fontSize)
	fill := t.headerFill
	t.drawRow(t.header, x, t.rowHeight(t.header, "B"), &fill, t.headerText)
}

// rowHeight measures the tallest wrapped cell of a row in the given font style.
func (t *pdfTable) rowHeight(cells []string, fontStyle string) float64 {
	t.pdf.SetFont("Helvetica", fontStyle, t.fontSize)
	maxLines := 1
	for i, text := range cells {
		if i >= len(t.widths) {
			break
		}
		if n := len(t.pdf.SplitLines([]byte(t.tr(text)), t.contentWidth(i))); n > maxLines {
			maxLines = n
		}
	}
	return float64(maxLines)*t.lineH + 2*t.padding
}

func (t *pdfTable) contentWidth(col int) float64 {
	w := t.widths[col] - 2*t.padding - 2
	if w < 1 {
		w = 1
	}
	return w
}

func (t *pdfTable) drawRow(cells []string, startX, h float64, fill *RGB, text RGB) {
	y := t.pdf.GetY()
	x := startX
	t.pdf.SetDrawColor(t.border.R, t.border.G, t.border.B)
	t.pdf.SetLineWidth(0.2)
	for i, w := range t.widths {
		style := "D"
		if fill != nil {
			t.pdf.SetFillColor(fill.R, fill.G, fill.B)
			style = "FD"
		}
		t.pdf.Rect(x, y, w, h, style)

		if i < len(cells) && cells[i] != "" {
			t.pdf.SetTextColor(text.R, text.G, text.B)
			t.pdf.SetXY(x+t.padding, y+t.padding)
			t.pdf.MultiCell(w-2*t.padding, t.lineH, t.tr(cells[i]), "", t.align, false)
		}
		x += w
	}
	t.pdf.SetXY(startX, y+h)
}
