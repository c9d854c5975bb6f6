package writers

import (
	"github.com/siad007/Scrybe/internal/definition"
	"github.com/siad007/Scrybe/internal/domain"
)

func newDefinition(output domain.Format) *domain.Definition {
	def, err := definition.NewDefaultProvider().Get(domain.FormatMarkdown, output)
	if err != nil {
		panic(err)
	}

	return def
}

func sampleDocument() *domain.Document {
	return &domain.Document{
		Title: "Sample",
		Blocks: []domain.Block{
			domain.Heading(1, domain.Text("Hello World")),
			domain.Paragraph(
				domain.Text("a < b & "),
				domain.Inline{Kind: domain.InlineStrong, Text: "bold"},
				domain.Text(" "),
				domain.Inline{Kind: domain.InlineEmphasis, Text: "em"},
				domain.Text(" "),
				domain.Inline{Kind: domain.InlineCode, Text: "x := 1"},
				domain.Text(" "),
				domain.Inline{Kind: domain.InlineLink, Text: "Go", URL: "https://go.dev"},
			),
			domain.List(false, []domain.Inline{domain.Text("one")}, []domain.Inline{domain.Text("two")}),
			domain.List(true, []domain.Inline{domain.Text("first")}),
			domain.Code("go", "fmt.Println(\"hi\")"),
			{Kind: domain.BlockQuote, Inlines: []domain.Inline{domain.Text("q1")}},
			{Kind: domain.BlockQuote, Inlines: []domain.Inline{domain.Text("q2")}},
			{Kind: domain.BlockRule},
			domain.Heading(2, domain.Text("Naïve – résumé •")),
		},
	}
}
