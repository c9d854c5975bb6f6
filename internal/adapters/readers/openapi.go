package readers

import (
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/siad007/Scrybe/internal/definition"
	"github.com/siad007/Scrybe/internal/domain"
)

var httpMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS", "TRACE"}

// OpenAPIReader turns an OpenAPI 3.x specification into reference documentation.
type OpenAPIReader struct{}

// NewOpenAPIReader creates an OpenAPI reader.
func NewOpenAPIReader() *OpenAPIReader {
	return &OpenAPIReader{}
}

// Read loads the specification from YAML or JSON source.
func (r *OpenAPIReader) Read(src []byte, def *domain.Definition) (*domain.Document, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = def.Bool(definition.OptionExternalRefs)

	spec, err := load(loader, src, def.Value(definition.OptionSourcePath))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}

	doc := &domain.Document{}
	b := &docBuilder{doc: doc}

	if spec.Info != nil {
		doc.Title = spec.Info.Title
		b.add(domain.Heading(1, domain.Text(spec.Info.Title)))
		b.add(domain.Paragraph(domain.Text(fmt.Sprintf("Version: %s", spec.Info.Version))))
		b.description(spec.Info.Description)
	}

	b.servers(spec.Servers)
	b.tags(spec.Tags)

	if spec.Paths != nil {
		b.paths(spec.Paths)
	}

	if spec.Components != nil {
		b.schemas(spec.Components.Schemas)
	}

	return doc, nil
}

// load resolves relative references against the directory of path when one is known.
func load(loader *openapi3.Loader, src []byte, path string) (*openapi3.T, error) {
	if path == "" {
		return loader.LoadFromData(src)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	return loader.LoadFromDataWithPath(src, &url.URL{Path: filepath.ToSlash(abs)})
}

type docBuilder struct {
	doc *domain.Document
}

func (b *docBuilder) add(blocks ...domain.Block) {
	b.doc.Blocks = append(b.doc.Blocks, blocks...)
}

func (b *docBuilder) description(text string) {
	for _, para := range strings.Split(strings.TrimSpace(text), "\n\n") {
		para = strings.Join(strings.Fields(para), " ")
		if para != "" {
			b.add(domain.Paragraph(domain.Text(para)))
		}
	}
}

func (b *docBuilder) servers(servers openapi3.Servers) {
	if len(servers) == 0 {
		return
	}

	var items [][]domain.Inline
	for _, server := range servers {
		if server == nil {
			continue
		}

		item := []domain.Inline{{Kind: domain.InlineLink, Text: server.URL, URL: server.URL}}
		if server.Description != "" {
			item = append(item, domain.Text(" - "+server.Description))
		}

		items = append(items, item)
	}

	b.add(domain.Heading(2, domain.Text("Servers")), domain.List(false, items...))
}

func (b *docBuilder) tags(tags openapi3.Tags) {
	if len(tags) == 0 {
		return
	}

	var items [][]domain.Inline
	for _, tag := range tags {
		if tag == nil {
			continue
		}

		item := []domain.Inline{{Kind: domain.InlineStrong, Text: tag.Name}}
		if tag.Description != "" {
			item = append(item, domain.Text(": "+tag.Description))
		}

		items = append(items, item)
	}

	b.add(domain.Heading(2, domain.Text("Tags")), domain.List(false, items...))
}

func (b *docBuilder) paths(paths *openapi3.Paths) {
	items := paths.Map()
	if len(items) == 0 {
		return
	}

	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	b.add(domain.Heading(2, domain.Text("API Endpoints")))

	for _, path := range keys {
		item := items[path]
		for _, method := range httpMethods {
			if op := item.GetOperation(method); op != nil {
				b.operation(method, path, op)
			}
		}
	}
}

func (b *docBuilder) operation(method, path string, op *openapi3.Operation) {
	b.add(domain.Heading(3, domain.Inline{Kind: domain.InlineCode, Text: method + " " + path}))

	if op.Summary != "" {
		b.add(domain.Paragraph(domain.Inline{Kind: domain.InlineStrong, Text: op.Summary}))
	}

	b.description(op.Description)

	if op.OperationID != "" {
		b.add(domain.Paragraph(domain.Text("Operation ID: "), domain.Inline{Kind: domain.InlineCode, Text: op.OperationID}))
	}

	if len(op.Parameters) > 0 {
		var params [][]domain.Inline
		for _, ref := range op.Parameters {
			if ref == nil || ref.Value == nil {
				continue
			}

			p := ref.Value
			item := []domain.Inline{
				{Kind: domain.InlineCode, Text: p.Name},
				domain.Text(fmt.Sprintf(" (%s, %s)", p.In, schemaType(p.Schema))),
			}

			if p.Description != "" {
				item = append(item, domain.Text(": "+p.Description))
			}

			if p.Required {
				item = append(item, domain.Text(" (required)"))
			}

			params = append(params, item)
		}

		b.add(domain.Heading(4, domain.Text("Parameters")), domain.List(false, params...))
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		body := op.RequestBody.Value
		b.add(domain.Heading(4, domain.Text("Request Body")))
		b.description(body.Description)
		b.add(domain.List(false, contentItems(body.Content)...))
	}

	if op.Responses != nil && op.Responses.Len() > 0 {
		responses := op.Responses.Map()

		codes := make([]string, 0, len(responses))
		for code := range responses {
			codes = append(codes, code)
		}

		sort.Strings(codes)

		var items [][]domain.Inline
		for _, code := range codes {
			ref := responses[code]
			if ref == nil || ref.Value == nil {
				continue
			}

			item := []domain.Inline{{Kind: domain.InlineStrong, Text: code}}
			if ref.Value.Description != nil {
				item = append(item, domain.Text(": "+*ref.Value.Description))
			}

			items = append(items, item)
		}

		b.add(domain.Heading(4, domain.Text("Responses")), domain.List(false, items...))
	}
}

func (b *docBuilder) schemas(schemas openapi3.Schemas) {
	if len(schemas) == 0 {
		return
	}

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}

	sort.Strings(names)

	b.add(domain.Heading(2, domain.Text("Schemas")))

	for _, name := range names {
		ref := schemas[name]
		b.add(domain.Heading(3, domain.Text(name)))

		if ref == nil || ref.Value == nil {
			continue
		}

		b.description(ref.Value.Description)

		props := make([]string, 0, len(ref.Value.Properties))
		for prop := range ref.Value.Properties {
			props = append(props, prop)
		}

		sort.Strings(props)

		var items [][]domain.Inline
		for _, prop := range props {
			schema := ref.Value.Properties[prop]
			item := []domain.Inline{
				{Kind: domain.InlineCode, Text: prop},
				domain.Text(fmt.Sprintf(" (%s)", schemaType(schema))),
			}

			if schema != nil && schema.Value != nil && schema.Value.Description != "" {
				item = append(item, domain.Text(": "+schema.Value.Description))
			}

			if slices.Contains(ref.Value.Required, prop) {
				item = append(item, domain.Text(" (required)"))
			}

			items = append(items, item)
		}

		if len(items) > 0 {
			b.add(domain.List(false, items...))
		}
	}
}

func contentItems(content openapi3.Content) [][]domain.Inline {
	types := make([]string, 0, len(content))
	for mediaType := range content {
		types = append(types, mediaType)
	}

	sort.Strings(types)

	items := make([][]domain.Inline, 0, len(types))
	for _, mediaType := range types {
		var schema *openapi3.SchemaRef
		if media := content[mediaType]; media != nil {
			schema = media.Schema
		}

		items = append(items, []domain.Inline{
			{Kind: domain.InlineCode, Text: mediaType},
			domain.Text(": " + schemaType(schema)),
		})
	}

	return items
}

// schemaType describes a schema reference as the referenced name or its type and format.
func schemaType(ref *openapi3.SchemaRef) string {
	if ref == nil {
		return "any"
	}

	if ref.Ref != "" {
		return ref.Ref[strings.LastIndex(ref.Ref, "/")+1:]
	}

	if ref.Value == nil || ref.Value.Type == nil || len(ref.Value.Type.Slice()) == 0 {
		return "any"
	}

	t := ref.Value.Type.Slice()[0]
	switch {
	case t == openapi3.TypeArray && ref.Value.Items != nil:
		return "array of " + schemaType(ref.Value.Items)
	case ref.Value.Format != "":
		return t + "/" + ref.Value.Format
	default:
		return t
	}
}
