package writers

import (
	"fmt"
	"io"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/siad007/Scrybe/internal/domain"
)

// DocxWriter renders Word (DOCX) documents.
type DocxWriter struct{}

// NewDocxWriter creates a DOCX writer.
func NewDocxWriter() *DocxWriter {
	return &DocxWriter{}
}

// Write renders doc to output.
func (w *DocxWriter) Write(doc *domain.Document, _ *domain.Definition, output io.Writer) error {
	document, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	for _, block := range doc.Blocks {
		if err := w.block(document, block); err != nil {
			return err
		}
	}

	if err := document.Write(output); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

func (w *DocxWriter) block(document *docx.RootDoc, b domain.Block) error {
	switch b.Kind {
	case domain.BlockHeading:
		level := min(max(b.Level, 1), 9)
		if _, err := document.AddHeading(domain.PlainText(b.Inlines), uint(level)); err != nil {
			return fmt.Errorf("failed to add heading: %w", err)
		}
	case domain.BlockList:
		style := "List Bullet"
		if b.Ordered {
			style = "List Number"
		}

		for _, item := range b.Items {
			w.runs(document.AddParagraph(""), item).Style(style)
		}
	case domain.BlockCode:
		for _, line := range strings.Split(b.Text, "\n") {
			document.AddParagraph(line)
		}

		document.AddEmptyParagraph()
	case domain.BlockQuote:
		w.runs(document.AddParagraph(""), b.Inlines).Style("Quote")
	case domain.BlockRule:
		document.AddEmptyParagraph()
	default:
		w.runs(document.AddParagraph(""), b.Inlines)
	}

	return nil
}

func (w *DocxWriter) runs(p *docx.Paragraph, inlines []domain.Inline) *docx.Paragraph {
	for _, in := range inlines {
		switch in.Kind {
		case domain.InlineStrong:
			p.AddText(in.Text).Bold(true)
		case domain.InlineEmphasis:
			p.AddText(in.Text).Italic(true)
		case domain.InlineLink:
			p.AddText(in.Text)
			if in.URL != in.Text {
				p.AddText(fmt.Sprintf(" (%s)", in.URL))
			}
		default:
			p.AddText(in.Text)
		}
	}

	return p
}
