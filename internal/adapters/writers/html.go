// Package writers renders the shared document model into output formats.
package writers

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/siad007/Scrybe/internal/definition"
	"github.com/siad007/Scrybe/internal/domain"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// HTMLWriter renders HTML5 through an x/net/html node tree.
type HTMLWriter struct{}

// NewHTMLWriter creates an HTML writer.
func NewHTMLWriter() *HTMLWriter {
	return &HTMLWriter{}
}

// Write renders doc as a complete page, or as a fragment when the standalone option is off.
func (w *HTMLWriter) Write(doc *domain.Document, def *domain.Definition, output io.Writer) error {
	body := element(atom.Body)
	ids := make(map[string]int)

	for _, block := range doc.Blocks {
		if block.Kind == domain.BlockQuote {
			if last := body.LastChild; last != nil && last.DataAtom == atom.Blockquote {
				last.AppendChild(inlineContainer(atom.P, block.Inlines))
				continue
			}
		}

		body.AppendChild(w.block(block, ids))
	}

	if !def.Bool(definition.OptionStandalone) {
		for n := body.FirstChild; n != nil; n = n.NextSibling {
			if err := html.Render(output, n); err != nil {
				return fmt.Errorf("failed to render HTML: %w", err)
			}

			if _, err := io.WriteString(output, "\n"); err != nil {
				return err
			}
		}

		return nil
	}

	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	page := element(atom.Html, html.Attribute{Key: "lang", Val: def.Value(definition.OptionLang)})
	page.AppendChild(w.head(doc, def))
	page.AppendChild(body)
	root.AppendChild(page)

	if err := html.Render(output, root); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}

	_, err := io.WriteString(output, "\n")

	return err
}

func (w *HTMLWriter) head(doc *domain.Document, def *domain.Definition) *html.Node {
	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))

	title := element(atom.Title)
	title.AppendChild(text(doc.Title))
	head.AppendChild(title)

	if href := def.Value(definition.OptionStylesheet); href != "" {
		head.AppendChild(element(atom.Link,
			html.Attribute{Key: "rel", Val: "stylesheet"},
			html.Attribute{Key: "href", Val: href},
		))
	}

	return head
}

func (w *HTMLWriter) block(b domain.Block, ids map[string]int) *html.Node {
	switch b.Kind {
	case domain.BlockHeading:
		level := min(max(b.Level, 1), 6)
		h := inlineContainer(atom.Lookup([]byte("h"+strconv.Itoa(level))), b.Inlines)
		h.Attr = append(h.Attr, html.Attribute{Key: "id", Val: uniqueID(slugify(domain.PlainText(b.Inlines)), ids)})

		return h
	case domain.BlockList:
		tag := atom.Ul
		if b.Ordered {
			tag = atom.Ol
		}

		list := element(tag)
		for _, item := range b.Items {
			list.AppendChild(inlineContainer(atom.Li, item))
		}

		return list
	case domain.BlockCode:
		code := element(atom.Code)
		if b.Language != "" {
			code.Attr = append(code.Attr, html.Attribute{Key: "class", Val: "language-" + b.Language})
		}

		code.AppendChild(text(b.Text))

		pre := element(atom.Pre)
		pre.AppendChild(code)

		return pre
	case domain.BlockQuote:
		quote := element(atom.Blockquote)
		quote.AppendChild(inlineContainer(atom.P, b.Inlines))

		return quote
	case domain.BlockRule:
		return element(atom.Hr)
	default:
		return inlineContainer(atom.P, b.Inlines)
	}
}

func inlineContainer(tag atom.Atom, inlines []domain.Inline) *html.Node {
	n := element(tag)

	for _, in := range inlines {
		switch in.Kind {
		case domain.InlineEmphasis:
			n.AppendChild(wrap(atom.Em, in.Text))
		case domain.InlineStrong:
			n.AppendChild(wrap(atom.Strong, in.Text))
		case domain.InlineCode:
			n.AppendChild(wrap(atom.Code, in.Text))
		case domain.InlineLink:
			a := wrap(atom.A, in.Text)
			a.Attr = append(a.Attr, html.Attribute{Key: "href", Val: in.URL})
			n.AppendChild(a)
		default:
			n.AppendChild(text(in.Text))
		}
	}

	return n
}

func element(tag atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String(), Attr: attrs}
}

func wrap(tag atom.Atom, s string) *html.Node {
	n := element(tag)
	n.AppendChild(text(s))

	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// slugify builds a heading anchor: accents removed, lower case, runs of other characters collapsed to '-'.
func slugify(s string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	dash := false

	for _, r := range cases.Lower(language.Und).String(plain) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false

			continue
		}

		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "section"
	}

	return slug
}

func uniqueID(slug string, seen map[string]int) string {
	n := seen[slug]
	seen[slug] = n + 1

	if n == 0 {
		return slug
	}

	return fmt.Sprintf("%s-%d", slug, n)
}
