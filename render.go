package contentcal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// DefaultOutputFile is the file name used when no output path is given.
const DefaultOutputFile = "Content_Calendar.pdf"

const (
	pageMarginSide = 19.05 // 0.75in
	pageMarginTB   = 25.4  // 1in
	postsPerPage   = 3
	bankColumns    = 5
	bankCells      = 25
)

var ruleColor = RGB{R: 226, G: 232, B: 240}

// Renderer lays a CalendarDocument out as a paginated Letter-size PDF.
type Renderer struct {
	style   Style
	footer  string
	created time.Time
	log     *slog.Logger
}

// RenderOption configures a Renderer.
type RenderOption func(*Renderer)

// WithStyle replaces the colour palette.
func WithStyle(s Style) RenderOption {
	return func(r *Renderer) { r.style = s }
}

// WithFooterText sets the text printed on the left of every footer.
func WithFooterText(text string) RenderOption {
	return func(r *Renderer) { r.footer = text }
}

// WithCreationDate overrides the PDF creation and modification dates. By
// default both are the first day of the document's month.
func WithCreationDate(t time.Time) RenderOption {
	return func(r *Renderer) { r.created = t }
}

// WithRenderLogger sets the logger used for debug output.
func WithRenderLogger(l *slog.Logger) RenderOption {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRenderer creates a Renderer with the default style.
func NewRenderer(opts ...RenderOption) *Renderer {
	r := &Renderer{
		style:  DefaultStyle(),
		footer: defaultBrandName,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the PDF for doc to w.
func (r *Renderer) Render(w io.Writer, doc *CalendarDocument) error {
	pdf, err := r.layout(doc)
	if err != nil {
		return newRenderError("layout", err)
	}
	if err := pdf.Output(w); err != nil {
		return newRenderError("write", err)
	}
	return nil
}

// RenderFile writes the PDF for doc to path. Parent directories are not created.
func (r *Renderer) RenderFile(path string, doc *CalendarDocument) error {
	pdf, err := r.layout(doc)
	if err != nil {
		return newRenderError("layout", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return newRenderError("create", err)
	}
	if err := pdf.Output(f); err != nil {
		f.Close()
		return newRenderError("write", err)
	}
	if err := f.Close(); err != nil {
		return newRenderError("close", err)
	}
	r.log.Debug("calendar written", "path", path, "pages", pdf.PageNo())
	return nil
}

// layout builds the whole document in memory.
func (r *Renderer) layout(doc *CalendarDocument) (*fpdf.Fpdf, error) {
	p, err := r.build(doc)
	if err != nil {
		return nil, err
	}
	return p.pdf, nil
}

func (r *Renderer) build(doc *CalendarDocument) (*page, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pageMarginSide, pageMarginTB, pageMarginSide)
	pdf.SetAutoPageBreak(true, pageMarginTB)
	pdf.SetCatalogSort(true)
	created := r.created
	if created.IsZero() {
		created = documentDate(doc)
	}
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)

	p := &page{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		style: r.style,
	}
	pdf.SetTitle(p.tr(doc.BrandName+" Content Calendar"), false)
	pdf.SetCreator("contentcal", false)
	pdf.SetFooterFunc(func() { p.footer(r.footer) })

	p.cover(doc)
	p.library(doc.Posts)
	p.reference(doc)

	r.log.Debug("calendar laid out", "brand", doc.BrandName, "posts", len(doc.Posts), "pages", pdf.PageNo())
	return p, pdf.Error()
}

// documentDate is the first day of the calendar month, or the Unix epoch
// when the month label does not parse.
func documentDate(doc *CalendarDocument) time.Time {
	if t, err := time.Parse("January 2006", doc.MonthLabel); err == nil {
		return t
	}
	return time.Unix(0, 0).UTC()
}

// page holds the drawing state shared by the section writers.
type page struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	style   Style
	spans   []pageSpan // first and last page of each post block
	footers int
}

type pageSpan struct{ first, last int }

func (p *page) width() float64 {
	pageW, _ := p.pdf.GetPageSize()
	left, _, right, _ := p.pdf.GetMargins()
	return pageW - left - right
}

func (p *page) color(c RGB) { p.pdf.SetTextColor(c.R, c.G, c.B) }
func (p *page) fill(c RGB)  { p.pdf.SetFillColor(c.R, c.G, c.B) }

func (p *page) heading(text string) {
	p.pdf.SetFont("Helvetica", "B", 16)
	p.color(p.style.Primary)
	p.pdf.CellFormat(0, 10, p.tr(text), "", 1, "L", false, 0, "")
	p.pdf.Ln(2)
}

func (p *page) footer(text string) {
	p.footers++
	p.pdf.SetY(-15)
	p.pdf.SetFont("Helvetica", "I", 8)
	p.color(p.style.Muted)
	half := p.width() / 2
	p.pdf.CellFormat(half, 10, p.tr(text), "", 0, "L", false, 0, "")
	p.pdf.CellFormat(half, 10, "Page "+strconv.Itoa(p.pdf.PageNo()), "", 0, "R", false, 0, "")
}

// cover draws the title block, the stats band and the pillar table.
func (p *page) cover(doc *CalendarDocument) {
	pdf := p.pdf
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 26)
	p.color(p.style.Primary)
	pdf.MultiCell(0, 12, p.tr(doc.BrandName), "", "C", false)
	pdf.SetFont("Helvetica", "", 14)
	p.color(p.style.Muted)
	pdf.CellFormat(0, 9, p.tr("Content Calendar - "+doc.MonthLabel), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	stats := []struct {
		value int
		label string
	}{
		{doc.Stats.TotalPosts, "Total Posts"},
		{doc.Stats.Platforms, "Platforms"},
		{doc.Stats.PostsPerWeek, "Posts/Week"},
		{doc.Stats.ContentThemes, "Content Themes"},
	}
	left, _, _, _ := pdf.GetMargins()
	cw := p.width() / float64(len(stats))
	y := pdf.GetY()
	for i, s := range stats {
		x := left + float64(i)*cw
		bg := p.style.Primary
		if i%2 == 1 {
			bg = p.style.Secondary
		}
		p.fill(bg)
		pdf.Rect(x+1, y, cw-2, 24, "F")

		p.color(RGB{255, 255, 255})
		pdf.SetXY(x+1, y+3)
		pdf.SetFont("Helvetica", "B", 20)
		pdf.CellFormat(cw-2, 10, strconv.Itoa(s.value), "", 0, "C", false, 0, "")
		pdf.SetXY(x+1, y+14)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(cw-2, 6, s.label, "", 0, "C", false, 0, "")
	}
	pdf.SetXY(left, y+32)

	p.heading("Content Pillars")
	t := newPDFTable(pdf, p.tr, 50, p.width()-50)
	t.header = []string{"Pillar", "Description"}
	t.headerFill, t.headerText = p.style.Accent, RGB{255, 255, 255}
	t.stripe, t.textColor = &p.style.Light, p.style.Text
	t.fontSize, t.lineH = 10, 5
	for _, pl := range doc.ContentPillars {
		t.addRow(pl.Title, pl.Description)
	}
	t.render()
}

// library draws one keep-together block per post, three to a page.
func (p *page) library(posts []Post) {
	pdf := p.pdf
	pdf.AddPage()
	p.heading(fmt.Sprintf("Content Library (%d Posts)", len(posts)))

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for i, post := range posts {
		if pdf.GetY()+p.postHeight(post) > pageH-bottom {
			pdf.AddPage()
		}
		first := pdf.PageNo()
		p.post(post)
		p.spans = append(p.spans, pageSpan{first: first, last: pdf.PageNo()})
		if (i+1)%postsPerPage == 0 && i != len(posts)-1 {
			pdf.AddPage()
		}
	}
}

func (p *page) hashtagLine(tags []string) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}
	return strings.Join(out, " ")
}

// postHeight measures a post block with the same fonts post uses.
func (p *page) postHeight(post Post) float64 {
	pdf := p.pdf
	w := p.width() - 2
	lines := func(style string, size float64, text string) float64 {
		pdf.SetFont("Helvetica", style, size)
		return float64(len(pdf.SplitLines([]byte(p.tr(text)), w)))
	}
	return 8 + 2 +
		lines("B", 12, post.Title)*6 +
		lines("", 10, post.Content)*5 +
		lines("I", 9, p.hashtagLine(post.Hashtags))*5 +
		5 + 8
}

func (p *page) post(post Post) {
	pdf := p.pdf
	left, _, _, _ := pdf.GetMargins()
	w := p.width()
	white := RGB{255, 255, 255}

	cells := []struct {
		text   string
		width  float64
		bg, fg RGB
	}{
		{fmt.Sprintf("Post #%d", post.PostNumber), w * 0.18, p.style.Primary, white},
		{post.Platform.DisplayName(), w * 0.30, p.style.PlatformColor(post.Platform), white},
		{post.PostingDay, w * 0.26, p.style.Light, p.style.Text},
		{post.PostingTime, w * 0.26, p.style.Light, p.style.Text},
	}
	pdf.SetFont("Helvetica", "B", 10)
	for _, c := range cells {
		p.fill(c.bg)
		p.color(c.fg)
		pdf.CellFormat(c.width, 8, p.tr(c.text), "", 0, "C", true, 0, "")
	}
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	p.color(p.style.Text)
	pdf.MultiCell(0, 6, p.tr(post.Title), "", "L", false)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, p.tr(post.Content), "", "L", false)

	pdf.SetFont("Helvetica", "I", 9)
	p.color(p.style.Accent)
	pdf.MultiCell(0, 5, p.tr(p.hashtagLine(post.Hashtags)), "", "L", false)

	pdf.SetFont("Helvetica", "", 9)
	p.color(p.style.Muted)
	pdf.CellFormat(0, 5, p.tr("Type: "+post.ContentType), "", 1, "L", false, 0, "")

	y := pdf.GetY() + 3
	pdf.SetDrawColor(ruleColor.R, ruleColor.G, ruleColor.B)
	pdf.SetLineWidth(0.3)
	pdf.Line(left, y, left+w, y)
	pdf.SetY(y + 5)
}

// reference draws the hashtag bank grid, the posting schedule and the KPI table.
func (p *page) reference(doc *CalendarDocument) {
	pdf := p.pdf
	pdf.AddPage()

	p.heading("Hashtag Bank")
	grid := newPDFTable(pdf, p.tr, fillWidths(pdf, bankColumns)...)
	grid.align = "C"
	grid.cellFill, grid.textColor = &p.style.Light, p.style.Accent
	for _, row := range bankRows(doc.HashtagBank) {
		grid.addRow(row...)
	}
	grid.render()
	pdf.Ln(8)

	p.heading("Posting Schedule")
	sched := newPDFTable(pdf, p.tr, fillWidths(pdf, 4)...)
	sched.header = []string{"Platform", "Frequency", "Best Times", "Content Type"}
	sched.headerFill, sched.headerText = p.style.Secondary, RGB{255, 255, 255}
	sched.stripe, sched.textColor = &p.style.Light, p.style.Text
	for _, e := range doc.PostingSchedule {
		sched.addRow(e.Platform, e.Frequency, e.BestTimes, e.ContentType)
	}
	sched.render()
	pdf.Ln(8)

	p.heading("KPI Targets")
	kpi := newPDFTable(pdf, p.tr, p.width()*0.6, p.width()*0.4)
	kpi.header = []string{"Metric", "Target"}
	kpi.headerFill, kpi.headerText = p.style.KPIHeader, p.style.Text
	kpi.stripe, kpi.textColor = &p.style.Light, p.style.Text
	for _, k := range doc.KpiTargets {
		kpi.addRow(k.Metric, k.Target)
	}
	kpi.render()
}

// bankRows lays the first bankCells tags out in rows of bankColumns,
// padding the last row with empty cells.
func bankRows(tags []string) [][]string {
	if len(tags) > bankCells {
		tags = tags[:bankCells]
	}
	var rows [][]string
	for i := 0; i < len(tags); i += bankColumns {
		row := make([]string, bankColumns)
		for j := 0; j < bankColumns && i+j < len(tags); j++ {
			row[j] = "#" + tags[i+j]
		}
		rows = append(rows, row)
	}
	return rows
}
