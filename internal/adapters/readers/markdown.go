package readers

import (
	"strings"

	"github.com/siad007/Scrybe/internal/definition"
	"github.com/siad007/Scrybe/internal/domain"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MarkdownReader parses CommonMark with goldmark.
type MarkdownReader struct{}

// NewMarkdownReader creates a Markdown reader.
func NewMarkdownReader() *MarkdownReader {
	return &MarkdownReader{}
}

// Read parses src into a document. Raw HTML is dropped.
func (r *MarkdownReader) Read(src []byte, def *domain.Definition) (*domain.Document, error) {
	var opts []goldmark.Option
	if def.Bool(definition.OptionLinkify) {
		opts = append(opts, goldmark.WithExtensions(extension.Linkify))
	}

	root := goldmark.New(opts...).Parser().Parse(text.NewReader(src))

	doc := &domain.Document{}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		doc.Blocks = append(doc.Blocks, markdownBlocks(n, src)...)
	}

	for _, b := range doc.Blocks {
		if b.Kind == domain.BlockHeading {
			doc.Title = domain.PlainText(b.Inlines)
			break
		}
	}

	return doc, nil
}

func markdownBlocks(n gmast.Node, src []byte) []domain.Block {
	switch node := n.(type) {
	case *gmast.Heading:
		return []domain.Block{domain.Heading(node.Level, markdownInlines(node, src)...)}
	case *gmast.Paragraph, *gmast.TextBlock:
		return []domain.Block{domain.Paragraph(markdownInlines(node, src)...)}
	case *gmast.List:
		var items [][]domain.Inline
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			items = append(items, listItemInlines(item, src))
		}

		return []domain.Block{domain.List(node.IsOrdered(), items...)}
	case *gmast.FencedCodeBlock:
		return []domain.Block{domain.Code(string(node.Language(src)), codeLines(node, src))}
	case *gmast.CodeBlock:
		return []domain.Block{domain.Code("", codeLines(node, src))}
	case *gmast.Blockquote:
		var blocks []domain.Block
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			for _, b := range markdownBlocks(c, src) {
				if b.Kind == domain.BlockParagraph {
					b.Kind = domain.BlockQuote
				}

				blocks = append(blocks, b)
			}
		}

		return blocks
	case *gmast.ThematicBreak:
		return []domain.Block{{Kind: domain.BlockRule}}
	default:
		return nil
	}
}

// listItemInlines flattens an item and any nested lists into one run of inlines.
func listItemInlines(item gmast.Node, src []byte) []domain.Inline {
	var inlines []domain.Inline

	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		if len(inlines) > 0 {
			inlines = append(inlines, domain.Text(" "))
		}

		if list, ok := c.(*gmast.List); ok {
			for sub := list.FirstChild(); sub != nil; sub = sub.NextSibling() {
				inlines = append(inlines, listItemInlines(sub, src)...)
			}

			continue
		}

		inlines = append(inlines, markdownInlines(c, src)...)
	}

	return inlines
}

func markdownInlines(parent gmast.Node, src []byte) []domain.Inline {
	var out []domain.Inline

	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *gmast.Text:
			s := string(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				s += " "
			}

			out = append(out, domain.Text(s))
		case *gmast.String:
			out = append(out, domain.Text(string(node.Value)))
		case *gmast.CodeSpan:
			out = append(out, domain.Inline{Kind: domain.InlineCode, Text: plainText(node, src)})
		case *gmast.Emphasis:
			kind := domain.InlineEmphasis
			if node.Level >= 2 {
				kind = domain.InlineStrong
			}

			out = append(out, domain.Inline{Kind: kind, Text: plainText(node, src)})
		case *gmast.Link:
			out = append(out, domain.Inline{Kind: domain.InlineLink, Text: plainText(node, src), URL: string(node.Destination)})
		case *gmast.AutoLink:
			out = append(out, domain.Inline{Kind: domain.InlineLink, Text: string(node.Label(src)), URL: string(node.URL(src))})
		case *gmast.Image:
			out = append(out, domain.Inline{Kind: domain.InlineLink, Text: plainText(node, src), URL: string(node.Destination)})
		case *gmast.RawHTML:
			continue
		default:
			out = append(out, markdownInlines(node, src)...)
		}
	}

	return out
}

func plainText(n gmast.Node, src []byte) string {
	var b strings.Builder

	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		}

		return gmast.WalkContinue, nil
	})

	return b.String()
}

func codeLines(n gmast.Node, src []byte) string {
	var b strings.Builder

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}

	return strings.TrimRight(b.String(), "\n")
}
