package writers

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/siad007/Scrybe/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestADFWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewADFWriter().Write(sampleDocument(), newDefinition(domain.FormatConfluence), &buf))

	var doc adfDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Equal(t, 1, doc.Version)
	require.Equal(t, "doc", doc.Type)

	var types []string
	for _, n := range doc.Content {
		types = append(types, n.Type)
	}

	require.Equal(t, []string{"heading", "paragraph", "bulletList", "orderedList", "codeBlock", "blockquote", "rule", "heading"}, types)

	require.Equal(t, 1, doc.Content[0].Attrs.Level)

	para := doc.Content[1].Content
	require.Len(t, para, 8)
	require.Equal(t, []adfMark{{Type: "strong"}}, para[1].Marks)
	require.Equal(t, []adfMark{{Type: "em"}}, para[3].Marks)
	require.Equal(t, []adfMark{{Type: "code"}}, para[5].Marks)
	require.Equal(t, "link", para[7].Marks[0].Type)
	require.Equal(t, "https://go.dev", para[7].Marks[0].Attrs["href"])

	require.Len(t, doc.Content[2].Content, 2)
	require.Equal(t, "listItem", doc.Content[2].Content[0].Type)
	require.Equal(t, 1, doc.Content[3].Attrs.Order)

	require.Equal(t, "go", doc.Content[4].Attrs.Language)
	require.Equal(t, `fmt.Println("hi")`, doc.Content[4].Content[0].Text)

	require.Len(t, doc.Content[5].Content, 2)
}

func TestADFWriter_SkipsEmptyText(t *testing.T) {
	doc := &domain.Document{Blocks: []domain.Block{domain.Paragraph(domain.Text(""), domain.Text("x"))}}

	var buf bytes.Buffer
	require.NoError(t, NewADFWriter().Write(doc, newDefinition(domain.FormatConfluence), &buf))
	require.NotContains(t, buf.String(), `"text": ""`)
	require.Contains(t, buf.String(), `"text": "x"`)
}
