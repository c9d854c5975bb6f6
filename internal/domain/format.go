package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a markup or output document type.
type Format string

const (
	// FormatRST is reStructuredText.
	FormatRST Format = "rst"
	// FormatMarkdown is CommonMark Markdown.
	FormatMarkdown Format = "markdown"
	// FormatOpenAPI is an OpenAPI 3.x specification in YAML or JSON.
	FormatOpenAPI Format = "openapi"
	// FormatHTML is HTML5.
	FormatHTML Format = "html"
	// FormatPDF is a PDF document.
	FormatPDF Format = "pdf"
	// FormatDocx is a Word (DOCX) document.
	FormatDocx Format = "docx"
	// FormatConfluence is Atlassian Document Format JSON.
	FormatConfluence Format = "confluence"
)

// ErrUnknownFormat is returned when a name does not map to a known format.
var ErrUnknownFormat = errors.New("unknown format")

var aliases = map[string]Format{
	"rst":              FormatRST,
	"rest":             FormatRST,
	"restructuredtext": FormatRST,
	"markdown":         FormatMarkdown,
	"md":               FormatMarkdown,
	"openapi":          FormatOpenAPI,
	"swagger":          FormatOpenAPI,
	"html":             FormatHTML,
	"htm":              FormatHTML,
	"pdf":              FormatPDF,
	"docx":             FormatDocx,
	"word":             FormatDocx,
	"confluence":       FormatConfluence,
	"adf":              FormatConfluence,
}

var extensions = map[string]Format{
	".rst":      FormatRST,
	".rest":     FormatRST,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".yaml":     FormatOpenAPI,
	".yml":      FormatOpenAPI,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".pdf":      FormatPDF,
	".docx":     FormatDocx,
	".adf":      FormatConfluence,
}

// Formats returns the full enumeration of known formats.
func Formats() []Format {
	return []Format{
		FormatRST,
		FormatMarkdown,
		FormatOpenAPI,
		FormatHTML,
		FormatPDF,
		FormatDocx,
		FormatConfluence,
	}
}

// ParseFormat parses a format name or alias, ignoring case.
func ParseFormat(s string) (Format, error) {
	f, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}

	return f, nil
}

// FormatFromPath infers a format from the file extension of path.
// JSON files are ambiguous and are not inferred.
func FormatFromPath(path string) (Format, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// String returns the format name.
func (f Format) String() string {
	return string(f)
}
