// Package converters binds format readers and writers into converters for each supported pair.
package converters

import (
	"fmt"
	"io"

	"github.com/siad007/Scrybe/internal/adapters/readers"
	"github.com/siad007/Scrybe/internal/adapters/writers"
	"github.com/siad007/Scrybe/internal/definition"
	"github.com/siad007/Scrybe/internal/domain"
)

// PipelineConverter reads the source with a format reader and renders it with a format writer.
type PipelineConverter struct {
	reader     domain.Reader
	writer     domain.Writer
	definition *domain.Definition
}

// NewPipeline creates a converter from a reader, a writer and the definition both receive.
func NewPipeline(reader domain.Reader, writer domain.Writer, def *domain.Definition) *PipelineConverter {
	return &PipelineConverter{
		reader:     reader,
		writer:     writer,
		definition: def,
	}
}

// Format returns the output format name.
func (c *PipelineConverter) Format() domain.Format {
	return c.definition.Output()
}

// Definition returns the definition the converter was built with.
func (c *PipelineConverter) Definition() *domain.Definition {
	return c.definition
}

// Convert reads the whole input, parses it and writes the rendered document to output.
func (c *PipelineConverter) Convert(input io.Reader, output io.Writer) error {
	src, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("failed to read %s input: %w", c.definition.Input(), err)
	}

	doc, err := c.reader.Read(src, c.definition)
	if err != nil {
		return fmt.Errorf("failed to parse %s input: %w", c.definition.Input(), err)
	}

	if title := c.definition.Value(definition.OptionTitle); title != "" {
		doc.Title = title
	}

	if err := c.writer.Write(doc, c.definition, output); err != nil {
		return fmt.Errorf("failed to write %s output: %w", c.definition.Output(), err)
	}

	return nil
}

// RstToHTMLConverter converts reStructuredText to HTML.
type RstToHTMLConverter struct {
	*PipelineConverter
}

// NewRstToHTML creates the reStructuredText to HTML converter.
func NewRstToHTML(def *domain.Definition) domain.Converter {
	return &RstToHTMLConverter{NewPipeline(readers.NewRSTReader(), writers.NewHTMLWriter(), def)}
}

type pair struct {
	reader func() domain.Reader
	writer func() domain.Writer
}

func newReader(f domain.Format) func() domain.Reader {
	switch f {
	case domain.FormatRST:
		return func() domain.Reader { return readers.NewRSTReader() }
	case domain.FormatMarkdown:
		return func() domain.Reader { return readers.NewMarkdownReader() }
	default:
		return func() domain.Reader { return readers.NewOpenAPIReader() }
	}
}

func newWriter(f domain.Format) func() domain.Writer {
	switch f {
	case domain.FormatHTML:
		return func() domain.Writer { return writers.NewHTMLWriter() }
	case domain.FormatPDF:
		return func() domain.Writer { return writers.NewPDFWriter() }
	case domain.FormatDocx:
		return func() domain.Writer { return writers.NewDocxWriter() }
	default:
		return func() domain.Writer { return writers.NewADFWriter() }
	}
}

// InputFormats are the formats a reader exists for.
var InputFormats = []domain.Format{domain.FormatRST, domain.FormatMarkdown, domain.FormatOpenAPI}

// OutputFormats are the formats a writer exists for.
var OutputFormats = []domain.Format{domain.FormatHTML, domain.FormatPDF, domain.FormatDocx, domain.FormatConfluence}

// Bindings returns a binding for every reader/writer combination. RST to HTML comes first
// and is built by NewRstToHTML.
func Bindings() []domain.Binding {
	bindings := []domain.Binding{
		{Input: domain.FormatRST, Output: domain.FormatHTML, New: NewRstToHTML},
	}

	for _, in := range InputFormats {
		for _, out := range OutputFormats {
			if in == domain.FormatRST && out == domain.FormatHTML {
				continue
			}

			p := pair{reader: newReader(in), writer: newWriter(out)}
			bindings = append(bindings, domain.Binding{Input: in, Output: out, New: p.construct})
		}
	}

	return bindings
}

func (p pair) construct(def *domain.Definition) domain.Converter {
	return NewPipeline(p.reader(), p.writer(), def)
}
