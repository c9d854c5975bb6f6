// Package domain provides the core models and interfaces shared by readers, writers and converters.
package domain

import "strings"

// BlockKind identifies the type of a block.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockList
	BlockCode
	BlockQuote
	BlockRule
)

// InlineKind identifies the type of an inline span.
type InlineKind int

const (
	InlineText InlineKind = iota
	InlineEmphasis
	InlineStrong
	InlineCode
	InlineLink
)

// Document is the format-independent representation every reader produces and every writer consumes.
type Document struct {
	Title  string
	Blocks []Block
}

// Block is a top-level structural element.
type Block struct {
	Kind     BlockKind
	Level    int      // heading level, starting at 1
	Inlines  []Inline // heading, paragraph and quote content
	Items    [][]Inline
	Ordered  bool   // lists only
	Language string // code blocks only
	Text     string // code blocks only
}

// Inline is a run of text with a single style.
type Inline struct {
	Kind InlineKind
	Text string
	URL  string // links only
}

// Text creates a plain inline.
func Text(s string) Inline {
	return Inline{Kind: InlineText, Text: s}
}

// Heading creates a heading block.
func Heading(level int, inlines ...Inline) Block {
	return Block{Kind: BlockHeading, Level: level, Inlines: inlines}
}

// Paragraph creates a paragraph block.
func Paragraph(inlines ...Inline) Block {
	return Block{Kind: BlockParagraph, Inlines: inlines}
}

// List creates a list block.
func List(ordered bool, items ...[]Inline) Block {
	return Block{Kind: BlockList, Ordered: ordered, Items: items}
}

// Code creates a code block.
func Code(language, text string) Block {
	return Block{Kind: BlockCode, Language: language, Text: text}
}

// PlainText flattens inlines, dropping styles and link targets.
func PlainText(inlines []Inline) string {
	var b strings.Builder
	for _, in := range inlines {
		b.WriteString(in.Text)
	}

	return b.String()
}
