package readers

import (
	"github.com/siad007/Scrybe/internal/definition"
	"github.com/siad007/Scrybe/internal/domain"
)

func newDefinition(input domain.Format) *domain.Definition {
	def, err := definition.NewDefaultProvider().Get(input, domain.FormatHTML)
	if err != nil {
		panic(err)
	}

	return def
}

func headings(doc *domain.Document) []string {
	var out []string
	for _, b := range doc.Blocks {
		if b.Kind == domain.BlockHeading {
			out = append(out, domain.PlainText(b.Inlines))
		}
	}

	return out
}

func blocksOfKind(doc *domain.Document, kind domain.BlockKind) []domain.Block {
	var out []domain.Block
	for _, b := range doc.Blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}

	return out
}

func itemTexts(b domain.Block) []string {
	out := make([]string, 0, len(b.Items))
	for _, item := range b.Items {
		out = append(out, domain.PlainText(item))
	}

	return out
}

func findInline(b domain.Block, kind domain.InlineKind) (domain.Inline, bool) {
	for _, in := range b.Inlines {
		if in.Kind == kind {
			return in, true
		}
	}

	return domain.Inline{}, false
}
