package converters

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/siad007/Scrybe/internal/definition"
	"github.com/siad007/Scrybe/internal/domain"
	"github.com/stretchr/testify/require"
)

func newDefinition(t *testing.T, input, output domain.Format) *domain.Definition {
	t.Helper()

	def, err := definition.NewDefaultProvider().Get(input, output)
	require.NoError(t, err)

	return def
}

func TestBindings_CoverEveryReaderWriterPair(t *testing.T) {
	bindings := Bindings()
	require.Len(t, bindings, len(InputFormats)*len(OutputFormats))

	first := bindings[0]
	require.Equal(t, domain.FormatRST, first.Input)
	require.Equal(t, domain.FormatHTML, first.Output)

	seen := make(map[[2]domain.Format]bool)
	for _, b := range bindings {
		key := [2]domain.Format{b.Input, b.Output}
		require.False(t, seen[key], "duplicate binding %v", key)
		seen[key] = true

		def := newDefinition(t, b.Input, b.Output)
		c := b.New(def)
		require.Same(t, def, c.Definition())
		require.Equal(t, b.Output, c.Format())
	}
}

func TestRstToHTML_Convert(t *testing.T) {
	def := newDefinition(t, domain.FormatRST, domain.FormatHTML)
	require.NoError(t, def.Set(definition.OptionStandalone, "false"))

	c := NewRstToHTML(def)
	require.IsType(t, &RstToHTMLConverter{}, c)

	var out bytes.Buffer
	require.NoError(t, c.Convert(strings.NewReader("Title\n=====\n\nHello *world*.\n"), &out))
	require.Equal(t, "<h1 id=\"title\">Title</h1>\n<p>Hello <em>world</em>.</p>\n", out.String())
}

func TestPipelineConverter_TitleOverride(t *testing.T) {
	def := newDefinition(t, domain.FormatMarkdown, domain.FormatHTML)
	require.NoError(t, def.Set(definition.OptionTitle, "Handbook"))

	var out bytes.Buffer
	c := NewPipeline(newReader(domain.FormatMarkdown)(), newWriter(domain.FormatHTML)(), def)
	require.NoError(t, c.Convert(strings.NewReader("# Intro\n"), &out))
	require.Contains(t, out.String(), "<title>Handbook</title>")
}

func TestPipelineConverter_OpenAPIToConfluence(t *testing.T) {
	src := "openapi: 3.0.3\ninfo:\n  title: Demo\n  version: '2'\npaths: {}\n"

	def := newDefinition(t, domain.FormatOpenAPI, domain.FormatConfluence)
	c := NewPipeline(newReader(domain.FormatOpenAPI)(), newWriter(domain.FormatConfluence)(), def)

	var out bytes.Buffer
	require.NoError(t, c.Convert(strings.NewReader(src), &out))
	require.Contains(t, out.String(), `"text": "Demo"`)
	require.Contains(t, out.String(), `"text": "Version: 2"`)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

type failingWriter struct{}

func (failingWriter) Write(*domain.Document, *domain.Definition, io.Writer) error {
	return errors.New("render failed")
}

func TestPipelineConverter_Errors(t *testing.T) {
	def := newDefinition(t, domain.FormatMarkdown, domain.FormatHTML)

	c := NewPipeline(newReader(domain.FormatMarkdown)(), newWriter(domain.FormatHTML)(), def)
	err := c.Convert(failingReader{}, io.Discard)
	require.ErrorContains(t, err, "failed to read markdown input")

	c = NewPipeline(newReader(domain.FormatMarkdown)(), failingWriter{}, def)
	err = c.Convert(strings.NewReader("x"), io.Discard)
	require.ErrorContains(t, err, "failed to write html output: render failed")

	def = newDefinition(t, domain.FormatOpenAPI, domain.FormatHTML)
	c = NewPipeline(newReader(domain.FormatOpenAPI)(), newWriter(domain.FormatHTML)(), def)
	err = c.Convert(strings.NewReader("openapi: [broken"), io.Discard)
	require.ErrorContains(t, err, "failed to parse openapi input")
}
