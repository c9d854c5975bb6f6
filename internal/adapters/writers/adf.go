package writers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/siad007/Scrybe/internal/domain"
)

// ADFWriter renders Atlassian Document Format (ADF) JSON for Confluence.
type ADFWriter struct{}

// NewADFWriter creates an ADF writer.
func NewADFWriter() *ADFWriter {
	return &ADFWriter{}
}

// ADF node types.
type adfDocument struct {
	Version int       `json:"version"`
	Type    string    `json:"type"`
	Content []adfNode `json:"content"`
}

type adfNode struct {
	Type    string    `json:"type"`
	Attrs   *adfAttrs `json:"attrs,omitempty"`
	Content []adfNode `json:"content,omitempty"`
	Text    string    `json:"text,omitempty"`
	Marks   []adfMark `json:"marks,omitempty"`
}

type adfAttrs struct {
	Level    int    `json:"level,omitempty"`
	Order    int    `json:"order,omitempty"`
	Language string `json:"language,omitempty"`
}

type adfMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Write encodes doc as indented ADF JSON.
func (w *ADFWriter) Write(doc *domain.Document, _ *domain.Definition, output io.Writer) error {
	adf := &adfDocument{
		Version: 1,
		Type:    "doc",
		Content: []adfNode{},
	}

	for _, block := range doc.Blocks {
		node := w.block(block)

		// consecutive quote paragraphs share one blockquote
		if n := len(adf.Content); n > 0 && node.Type == "blockquote" && adf.Content[n-1].Type == "blockquote" {
			adf.Content[n-1].Content = append(adf.Content[n-1].Content, node.Content...)
			continue
		}

		adf.Content = append(adf.Content, node)
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(adf); err != nil {
		return fmt.Errorf("failed to encode ADF: %w", err)
	}

	return nil
}

func (w *ADFWriter) block(b domain.Block) adfNode {
	switch b.Kind {
	case domain.BlockHeading:
		return adfNode{
			Type:    "heading",
			Attrs:   &adfAttrs{Level: min(max(b.Level, 1), 6)},
			Content: w.inlines(b.Inlines),
		}
	case domain.BlockList:
		items := make([]adfNode, 0, len(b.Items))
		for _, item := range b.Items {
			items = append(items, adfNode{
				Type:    "listItem",
				Content: []adfNode{w.paragraph(item)},
			})
		}

		if b.Ordered {
			return adfNode{Type: "orderedList", Attrs: &adfAttrs{Order: 1}, Content: items}
		}

		return adfNode{Type: "bulletList", Content: items}
	case domain.BlockCode:
		node := adfNode{Type: "codeBlock"}
		if b.Language != "" {
			node.Attrs = &adfAttrs{Language: b.Language}
		}

		if b.Text != "" {
			node.Content = []adfNode{{Type: "text", Text: b.Text}}
		}

		return node
	case domain.BlockQuote:
		return adfNode{Type: "blockquote", Content: []adfNode{w.paragraph(b.Inlines)}}
	case domain.BlockRule:
		return adfNode{Type: "rule"}
	default:
		return w.paragraph(b.Inlines)
	}
}

func (w *ADFWriter) paragraph(inlines []domain.Inline) adfNode {
	return adfNode{Type: "paragraph", Content: w.inlines(inlines)}
}

func (w *ADFWriter) inlines(inlines []domain.Inline) []adfNode {
	nodes := make([]adfNode, 0, len(inlines))

	for _, in := range inlines {
		// ADF rejects empty text nodes
		if in.Text == "" {
			continue
		}

		node := adfNode{Type: "text", Text: in.Text}

		switch in.Kind {
		case domain.InlineStrong:
			node.Marks = []adfMark{{Type: "strong"}}
		case domain.InlineEmphasis:
			node.Marks = []adfMark{{Type: "em"}}
		case domain.InlineCode:
			node.Marks = []adfMark{{Type: "code"}}
		case domain.InlineLink:
			node.Marks = []adfMark{{Type: "link", Attrs: map[string]any{"href": in.URL}}}
		}

		nodes = append(nodes, node)
	}

	return nodes
}
