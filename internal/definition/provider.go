// Package definition builds the option definitions offered for each input/output format pair.
package definition

import (
	"errors"
	"fmt"
	"slices"

	"github.com/siad007/Scrybe/internal/domain"
)

// Option names shared between the provider and the converters that read them.
const (
	OptionTitle              = "title"
	OptionTabWidth           = "tab-width"
	OptionInitialHeaderLevel = "initial-header-level"
	OptionLinkify            = "linkify"
	OptionExternalRefs       = "external-refs"
	OptionSourcePath         = "source-path"
	OptionStandalone         = "standalone"
	OptionStylesheet         = "stylesheet"
	OptionLang               = "lang"
	OptionPageSize           = "page-size"
	OptionOrientation        = "orientation"
	OptionFontSize           = "font-size"
	OptionTOC                = "toc"
)

// ErrDefinitionNotFound is matched by every NotFoundError.
var ErrDefinitionNotFound = errors.New("definition not found")

// NotFoundError reports a pair containing a format the provider was not configured with.
type NotFoundError struct {
	Input       domain.Format
	Output      domain.Format
	Unsupported domain.Format
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no definition for %s to %s: format %q is not supported", e.Input, e.Output, e.Unsupported)
}

// Is makes errors.Is(err, ErrDefinitionNotFound) succeed.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrDefinitionNotFound
}

var commonOptions = []domain.OptionSpec{
	{Name: OptionTitle, Description: "Override the document title", Kind: domain.OptionString},
}

var inputOptions = map[domain.Format][]domain.OptionSpec{
	domain.FormatRST: {
		{Name: OptionTabWidth, Description: "Spaces a tab expands to", Kind: domain.OptionInt, Default: "8"},
		{Name: OptionInitialHeaderLevel, Description: "Level of the first section title", Kind: domain.OptionInt, Default: "1"},
	},
	domain.FormatMarkdown: {
		{Name: OptionLinkify, Description: "Turn bare URLs into links", Kind: domain.OptionBool, Default: "true"},
	},
	domain.FormatOpenAPI: {
		{Name: OptionExternalRefs, Description: "Resolve $ref pointers to external files", Kind: domain.OptionBool, Default: "false"},
		{Name: OptionSourcePath, Description: "Location of the source file, the base for relative $ref pointers", Kind: domain.OptionString},
	},
}

var outputOptions = map[domain.Format][]domain.OptionSpec{
	domain.FormatHTML: {
		{Name: OptionStandalone, Description: "Emit a complete document instead of a fragment", Kind: domain.OptionBool, Default: "true"},
		{Name: OptionStylesheet, Description: "Stylesheet URL linked from the document head", Kind: domain.OptionString},
		{Name: OptionLang, Description: "Value of the html lang attribute", Kind: domain.OptionString, Default: "en"},
	},
	domain.FormatPDF: {
		{Name: OptionPageSize, Description: "Paper size", Kind: domain.OptionEnum, Default: "A4", Choices: []string{"A4", "Letter", "Legal"}},
		{Name: OptionOrientation, Description: "Page orientation", Kind: domain.OptionEnum, Default: "portrait", Choices: []string{"portrait", "landscape"}},
		{Name: OptionFontSize, Description: "Body font size in points", Kind: domain.OptionInt, Default: "10"},
		{Name: OptionTOC, Description: "Add a title page and a linked table of contents", Kind: domain.OptionBool, Default: "true"},
	},
}

// Provider produces definitions for pairs drawn from a fixed set of formats.
type Provider struct {
	formats []domain.Format
}

// NewProvider creates a provider supporting the given formats.
func NewProvider(formats ...domain.Format) *Provider {
	return &Provider{formats: slices.Clone(formats)}
}

// NewDefaultProvider creates a provider bound to every known format.
func NewDefaultProvider() *Provider {
	return NewProvider(domain.Formats()...)
}

// Formats returns the formats the provider supports.
func (p *Provider) Formats() []domain.Format {
	return slices.Clone(p.formats)
}

// Get returns a fresh definition for the pair.
func (p *Provider) Get(input, output domain.Format) (*domain.Definition, error) {
	for _, f := range []domain.Format{input, output} {
		if !slices.Contains(p.formats, f) {
			return nil, &NotFoundError{Input: input, Output: output, Unsupported: f}
		}
	}

	specs := make([]domain.OptionSpec, 0, len(commonOptions)+len(inputOptions[input])+len(outputOptions[output]))
	specs = append(specs, commonOptions...)
	specs = append(specs, inputOptions[input]...)
	specs = append(specs, outputOptions[output]...)

	return domain.NewDefinition(input, output, specs...), nil
}
