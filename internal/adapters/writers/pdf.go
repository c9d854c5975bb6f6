package writers

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/siad007/Scrybe/internal/definition"
	"github.com/siad007/Scrybe/internal/domain"
)

const (
	pdfMargin     = 15.0
	pdfListIndent = 6.0
	pdfFont       = "Arial"
	pdfMonoFont   = "Courier"
	pdfTOCDepth   = 3
	pdfTOCIndent  = 8.0
)

// PDFWriter renders documents with gofpdf using the core fonts.
type PDFWriter struct {
	pdf      *gofpdf.Fpdf
	tr       func(string) string
	fontSize float64
	width    float64
	toc      []tocItem
	next     int
}

// tocItem is a heading listed in the table of contents. linkID is its internal link target.
type tocItem struct {
	title  string
	level  int
	linkID int
}

// NewPDFWriter creates a PDF writer.
func NewPDFWriter() *PDFWriter {
	return &PDFWriter{}
}

// Write renders doc to output.
func (w *PDFWriter) Write(doc *domain.Document, def *domain.Definition, output io.Writer) error {
	orientation := "P"
	if def.Value(definition.OptionOrientation) == "landscape" {
		orientation = "L"
	}

	w.pdf = gofpdf.New(orientation, "mm", def.Value(definition.OptionPageSize), "")
	w.pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	w.pdf.SetAutoPageBreak(true, pdfMargin)
	w.pdf.SetDrawColor(180, 180, 180)
	w.pdf.SetTitle(doc.Title, true)
	w.pdf.SetCreator("scrybe", true)
	w.tr = w.pdf.UnicodeTranslatorFromDescriptor("")

	w.fontSize = float64(def.Int(definition.OptionFontSize))
	if w.fontSize <= 0 {
		w.fontSize = 10
	}

	pageWidth, _ := w.pdf.GetPageSize()
	w.width = pageWidth - 2*pdfMargin

	w.toc = nil
	w.next = 0

	if def.Bool(definition.OptionTOC) {
		w.collectTOC(doc)
	}

	if len(w.toc) > 0 {
		if doc.Title != "" {
			w.addTitlePage(doc.Title)
		}

		w.addTableOfContents()
	}

	w.pdf.AddPage()

	for _, block := range doc.Blocks {
		w.block(block)
	}

	if err := w.pdf.Output(output); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	return nil
}

// collectTOC registers a link for every heading shallow enough to be listed.
func (w *PDFWriter) collectTOC(doc *domain.Document) {
	for _, b := range doc.Blocks {
		if b.Kind != domain.BlockHeading || b.Level > pdfTOCDepth {
			continue
		}

		w.toc = append(w.toc, tocItem{
			title:  domain.PlainText(b.Inlines),
			level:  max(b.Level, 1),
			linkID: w.pdf.AddLink(),
		})
	}
}

func (w *PDFWriter) addTitlePage(title string) {
	w.pdf.AddPage()
	w.pdf.SetFont(pdfFont, "B", 28)
	w.pdf.Ln(40)
	w.pdf.MultiCell(w.width, 15, w.tr(title), "", "C", false)
}

func (w *PDFWriter) addTableOfContents() {
	w.pdf.AddPage()
	w.pdf.SetFont(pdfFont, "B", 20)
	w.pdf.CellFormat(w.width, 10, "Table of Contents", "", 1, "", false, 0, "")
	w.pdf.Ln(8)

	for _, item := range w.toc {
		indent := float64(item.level-1) * pdfTOCIndent

		switch item.level {
		case 1:
			w.pdf.SetFont(pdfFont, "B", 12)
		case 2:
			w.pdf.SetFont(pdfFont, "B", 10)
		default:
			w.pdf.SetFont(pdfFont, "", 9)
		}

		title := item.title
		if r := []rune(title); len(r) > 80 {
			title = string(r[:77]) + "..."
		}

		w.pdf.SetX(pdfMargin + indent)
		w.pdf.CellFormat(w.width-indent, 7, w.tr(title), "", 1, "", false, item.linkID, "")
	}
}

// setLinkDest points the next unresolved table of contents entry at the current position.
func (w *PDFWriter) setLinkDest(level int) {
	if level > pdfTOCDepth || w.next >= len(w.toc) {
		return
	}

	w.pdf.SetLink(w.toc[w.next].linkID, -1, -1)
	w.next++
}

func (w *PDFWriter) lineHeight() float64 {
	return w.fontSize * 0.5
}

func (w *PDFWriter) block(b domain.Block) {
	switch b.Kind {
	case domain.BlockHeading:
		size := w.fontSize + float64(2*(6-min(max(b.Level, 1), 6)))
		w.pdf.Ln(2)
		w.setLinkDest(b.Level)
		w.pdf.SetFont(pdfFont, "B", size)
		w.pdf.MultiCell(w.width, size*0.5, w.tr(domain.PlainText(b.Inlines)), "", "", false)
		w.pdf.Ln(2)
	case domain.BlockList:
		w.list(b)
	case domain.BlockCode:
		w.pdf.SetFont(pdfMonoFont, "", w.fontSize-1)
		w.pdf.SetFillColor(245, 245, 245)
		w.pdf.MultiCell(w.width, w.lineHeight(), w.tr(b.Text), "", "L", true)
		w.pdf.Ln(w.lineHeight())
	case domain.BlockQuote:
		w.pdf.SetLeftMargin(pdfMargin + pdfListIndent)
		w.pdf.SetX(pdfMargin + pdfListIndent)
		w.pdf.SetTextColor(100, 100, 100)
		w.inlines(b.Inlines, "I")
		w.pdf.SetTextColor(0, 0, 0)
		w.pdf.SetLeftMargin(pdfMargin)
		w.pdf.Ln(w.lineHeight() * 2)
	case domain.BlockRule:
		w.pdf.Ln(w.lineHeight())
		y := w.pdf.GetY()
		w.pdf.Line(pdfMargin, y, pdfMargin+w.width, y)
		w.pdf.Ln(w.lineHeight())
	default:
		w.inlines(b.Inlines, "")
		w.pdf.Ln(w.lineHeight() * 2)
	}
}

func (w *PDFWriter) list(b domain.Block) {
	for i, item := range b.Items {
		marker := "•"
		if b.Ordered {
			marker = strconv.Itoa(i+1) + "."
		}

		w.pdf.SetFont(pdfFont, "", w.fontSize)
		w.pdf.SetX(pdfMargin)
		w.pdf.CellFormat(pdfListIndent, w.lineHeight(), w.tr(marker), "", 0, "", false, 0, "")

		w.pdf.SetLeftMargin(pdfMargin + pdfListIndent)
		w.inlines(item, "")
		w.pdf.SetLeftMargin(pdfMargin)
		w.pdf.Ln(w.lineHeight())
	}

	w.pdf.Ln(w.lineHeight())
}

// inlines writes flowing text, switching font per run. base is the gofpdf style applied to plain runs.
func (w *PDFWriter) inlines(inlines []domain.Inline, base string) {
	h := w.lineHeight()

	for _, in := range inlines {
		switch in.Kind {
		case domain.InlineStrong:
			w.pdf.SetFont(pdfFont, base+"B", w.fontSize)
			w.pdf.Write(h, w.tr(in.Text))
		case domain.InlineEmphasis:
			w.pdf.SetFont(pdfFont, "I", w.fontSize)
			w.pdf.Write(h, w.tr(in.Text))
		case domain.InlineCode:
			w.pdf.SetFont(pdfMonoFont, "", w.fontSize)
			w.pdf.Write(h, w.tr(in.Text))
		case domain.InlineLink:
			w.pdf.SetFont(pdfFont, base+"U", w.fontSize)
			w.pdf.SetTextColor(0, 102, 204)
			w.pdf.WriteLinkString(h, w.tr(in.Text), in.URL)
			w.pdf.SetTextColor(0, 0, 0)
		default:
			w.pdf.SetFont(pdfFont, base, w.fontSize)
			w.pdf.Write(h, w.tr(in.Text))
		}
	}
}
