// Package readers parses source documents into the shared document model.
package readers

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/siad007/Scrybe/internal/definition"
	"github.com/siad007/Scrybe/internal/domain"
)

const (
	adornmentChars = "=-`:'\"~^_*+#<>."
	maxTabWidth    = 32
)

var (
	bulletItem     = regexp.MustCompile(`^[-*+•]\s+`)
	enumeratedItem = regexp.MustCompile(`^(\d+|#|[a-zA-Z])[.)]\s+`)
	codeDirective  = regexp.MustCompile(`^\.\.\s+(code-block|code|sourcecode)::\s*(\S*)`)
	bareURL        = regexp.MustCompile(`^(https?|ftp|mailto):[^\s<>]*[^\s<>.,;:!?)'"]`)
)

// RSTReader parses the commonly used subset of reStructuredText: section titles, paragraphs,
// bullet and enumerated lists, literal and code blocks, block quotes, transitions and
// inline markup. Comments and other directives are skipped.
type RSTReader struct{}

// NewRSTReader creates a reStructuredText reader.
func NewRSTReader() *RSTReader {
	return &RSTReader{}
}

type rstParser struct {
	lines  []string
	pos    int
	styles []string
	offset int
	doc    *domain.Document
}

// Read parses src.
func (r *RSTReader) Read(src []byte, def *domain.Definition) (*domain.Document, error) {
	tabWidth := def.Int(definition.OptionTabWidth)
	if tabWidth <= 0 {
		tabWidth = 8
	}

	tabWidth = min(tabWidth, maxTabWidth)

	offset := def.Int(definition.OptionInitialHeaderLevel) - 1
	if offset < 0 {
		offset = 0
	}

	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))

	p := &rstParser{
		lines:  strings.Split(text, "\n"),
		offset: offset,
		doc:    &domain.Document{},
	}
	p.parse()

	return p.doc, nil
}

func (p *rstParser) parse() {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]

		switch {
		case isBlank(line):
			p.pos++
		case line == ".." || strings.HasPrefix(line, ".. "):
			p.parseExplicit()
		case p.isOverlinedTitle():
			p.parseTitle(p.lines[p.pos+1], "o"+line[:1])
			p.pos += 3
		case p.isUnderlinedTitle():
			p.parseTitle(line, "u"+p.lines[p.pos+1][:1])
			p.pos += 2
		case isAdornment(line) && utf8.RuneCountInString(strings.TrimSpace(line)) >= 4:
			p.add(domain.Block{Kind: domain.BlockRule})
			p.pos++
		case bulletItem.MatchString(line):
			p.parseList(bulletItem, false)
		case enumeratedItem.MatchString(line):
			p.parseList(enumeratedItem, true)
		case indentOf(line) > 0:
			p.parseQuote()
		default:
			p.parseParagraph()
		}
	}
}

func (p *rstParser) add(b domain.Block) {
	p.doc.Blocks = append(p.doc.Blocks, b)
}

func (p *rstParser) isOverlinedTitle() bool {
	if p.pos+2 >= len(p.lines) {
		return false
	}

	over, text, under := p.lines[p.pos], p.lines[p.pos+1], p.lines[p.pos+2]

	return isAdornment(over) && over == under && !isBlank(text) &&
		utf8.RuneCountInString(strings.TrimRight(over, " ")) >= utf8.RuneCountInString(strings.TrimSpace(text))
}

func (p *rstParser) isUnderlinedTitle() bool {
	if p.pos+1 >= len(p.lines) || indentOf(p.lines[p.pos]) > 0 {
		return false
	}

	text, under := p.lines[p.pos], p.lines[p.pos+1]

	return !isBlank(text) && !isAdornment(text) && isAdornment(under) &&
		utf8.RuneCountInString(strings.TrimRight(under, " ")) >= utf8.RuneCountInString(strings.TrimSpace(text))
}

// parseTitle assigns heading levels in the order adornment styles are first seen.
func (p *rstParser) parseTitle(text, style string) {
	level := -1
	for i, s := range p.styles {
		if s == style {
			level = i
			break
		}
	}

	if level < 0 {
		p.styles = append(p.styles, style)
		level = len(p.styles) - 1
	}

	inlines := parseRSTInlines(strings.TrimSpace(text))
	if p.doc.Title == "" {
		p.doc.Title = domain.PlainText(inlines)
	}

	p.add(domain.Heading(min(level+1+p.offset, 6), inlines...))
}

// parseExplicit handles explicit markup: code directives become code blocks, everything
// else (comments, targets, unknown directives) is skipped with its indented body.
func (p *rstParser) parseExplicit() {
	line := p.lines[p.pos]
	p.pos++

	body := p.indentedBlock()

	m := codeDirective.FindStringSubmatch(line)
	if m == nil {
		return
	}

	// directive options come first in the body
	for len(body) > 0 && strings.HasPrefix(strings.TrimSpace(body[0]), ":") {
		body = body[1:]
	}

	p.add(domain.Code(m[2], strings.Join(trimBlankEdges(body), "\n")))
}

// indentedBlock consumes the indented lines that follow, dedented. Blank lines inside the block are kept.
func (p *rstParser) indentedBlock() []string {
	start := p.pos
	end := p.pos

	for i := p.pos; i < len(p.lines); i++ {
		if isBlank(p.lines[i]) {
			continue
		}

		if indentOf(p.lines[i]) == 0 {
			break
		}

		end = i + 1
	}

	p.pos = end

	return dedent(p.lines[start:end])
}

func (p *rstParser) parseParagraph() {
	var lines []string

	for p.pos < len(p.lines) && !isBlank(p.lines[p.pos]) {
		lines = append(lines, strings.TrimSpace(p.lines[p.pos]))
		p.pos++
	}

	text := strings.Join(lines, " ")
	literal := strings.HasSuffix(text, "::")

	if literal {
		switch {
		case text == "::":
			text = ""
		case strings.HasSuffix(text, " ::"):
			text = strings.TrimSuffix(text, " ::")
		default:
			text = strings.TrimSuffix(text, ":")
		}
	}

	if text != "" {
		p.add(domain.Paragraph(parseRSTInlines(text)...))
	}

	if literal {
		p.skipBlank()
		if p.pos < len(p.lines) && indentOf(p.lines[p.pos]) > 0 {
			p.add(domain.Code("", strings.Join(trimBlankEdges(p.indentedBlock()), "\n")))
		}
	}
}

func (p *rstParser) parseQuote() {
	lines := trimBlankEdges(p.indentedBlock())

	var paragraphs []string
	var current []string

	for _, l := range lines {
		if isBlank(l) {
			if len(current) > 0 {
				paragraphs = append(paragraphs, strings.Join(current, " "))
				current = nil
			}

			continue
		}

		current = append(current, strings.TrimSpace(l))
	}

	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}

	for _, para := range paragraphs {
		p.add(domain.Block{Kind: domain.BlockQuote, Inlines: parseRSTInlines(para)})
	}
}

func (p *rstParser) parseList(marker *regexp.Regexp, ordered bool) {
	var items [][]domain.Inline

	for p.pos < len(p.lines) {
		line := p.lines[p.pos]

		loc := marker.FindStringIndex(line)
		if loc == nil {
			break
		}

		text := []string{strings.TrimSpace(line[loc[1]:])}
		p.pos++

		for p.pos < len(p.lines) && !isBlank(p.lines[p.pos]) && indentOf(p.lines[p.pos]) > 0 {
			text = append(text, strings.TrimSpace(p.lines[p.pos]))
			p.pos++
		}

		items = append(items, parseRSTInlines(strings.Join(text, " ")))

		next := p.pos
		for next < len(p.lines) && isBlank(p.lines[next]) {
			next++
		}

		if next >= len(p.lines) || !marker.MatchString(p.lines[next]) {
			break
		}

		p.pos = next
	}

	p.add(domain.List(ordered, items...))
}

func (p *rstParser) skipBlank() {
	for p.pos < len(p.lines) && isBlank(p.lines[p.pos]) {
		p.pos++
	}
}

// parseRSTInlines splits text into styled runs.
func parseRSTInlines(text string) []domain.Inline {
	var out []domain.Inline
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			out = append(out, domain.Text(plain.String()))
			plain.Reset()
		}
	}

	emit := func(in domain.Inline) {
		flush()
		out = append(out, in)
	}

	for i := 0; i < len(text); {
		rest := text[i:]
		startOK := i == 0 || isInlineStartBoundary(text[i-1])

		switch {
		case rest[0] == '\\' && len(rest) > 1:
			plain.WriteByte(rest[1])
			i += 2
			continue
		case startOK && strings.HasPrefix(rest, "``"):
			if end := strings.Index(rest[2:], "``"); end > 0 {
				emit(domain.Inline{Kind: domain.InlineCode, Text: rest[2 : 2+end]})
				i += end + 4
				continue
			}
		case startOK && strings.HasPrefix(rest, "**"):
			if end := strings.Index(rest[2:], "**"); end > 0 {
				emit(domain.Inline{Kind: domain.InlineStrong, Text: rest[2 : 2+end]})
				i += end + 4
				continue
			}
		case startOK && rest[0] == '*' && len(rest) > 1 && rest[1] != ' ':
			if end := strings.IndexByte(rest[1:], '*'); end > 0 {
				emit(domain.Inline{Kind: domain.InlineEmphasis, Text: rest[1 : 1+end]})
				i += end + 2
				continue
			}
		case startOK && rest[0] == '`':
			if in, n, ok := parseRSTReference(rest); ok {
				emit(in)
				i += n
				continue
			}
		case startOK:
			if m := bareURL.FindString(rest); m != "" {
				emit(domain.Inline{Kind: domain.InlineLink, Text: m, URL: m})
				i += len(m)
				continue
			}
		}

		plain.WriteByte(text[i])
		i++
	}

	flush()

	return out
}

// parseRSTReference parses `text <url>`_ and `text`_ forms, returning the consumed length.
func parseRSTReference(s string) (domain.Inline, int, bool) {
	end := strings.IndexByte(s[1:], '`')
	if end <= 0 {
		return domain.Inline{}, 0, false
	}

	inner := s[1 : 1+end]
	n := end + 2

	suffix := 0
	switch {
	case strings.HasPrefix(s[n:], "__"):
		suffix = 2
	case strings.HasPrefix(s[n:], "_"):
		suffix = 1
	}

	if suffix == 0 {
		// interpreted text without a role renders as emphasis
		return domain.Inline{Kind: domain.InlineEmphasis, Text: inner}, n, true
	}

	n += suffix

	if open := strings.LastIndexByte(inner, '<'); open >= 0 && strings.HasSuffix(inner, ">") {
		label := strings.TrimSpace(inner[:open])
		target := inner[open+1 : len(inner)-1]

		if label == "" {
			label = target
		}

		return domain.Inline{Kind: domain.InlineLink, Text: label, URL: target}, n, true
	}

	return domain.Text(inner), n, true
}

func isInlineStartBoundary(b byte) bool {
	return b < utf8.RuneSelf && (unicode.IsSpace(rune(b)) || strings.IndexByte(`'"([{<-/:`, b) >= 0)
}

func isAdornment(line string) bool {
	trimmed := strings.TrimRight(line, " ")
	if trimmed == "" || !strings.ContainsRune(adornmentChars, rune(trimmed[0])) {
		return false
	}

	return strings.Count(trimmed, trimmed[:1]) == len(trimmed)
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

func dedent(lines []string) []string {
	common := -1
	for _, l := range lines {
		if isBlank(l) {
			continue
		}

		if n := indentOf(l); common < 0 || n < common {
			common = n
		}
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) >= common && common > 0 {
			out[i] = l[common:]
		} else {
			out[i] = strings.TrimLeft(l, " ")
		}
	}

	return out
}

func trimBlankEdges(lines []string) []string {
	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}

	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}

	return lines
}
