package domain

import "io"

// Converter transforms a document from the input format of its definition to the output format.
type Converter interface {
	// Convert reads a source document from input and writes the converted document to output.
	Convert(input io.Reader, output io.Writer) error

	// Format returns the output format.
	Format() Format

	// Definition returns the definition the converter was built with.
	Definition() *Definition
}

// ConverterConstructor builds a converter bound to a definition.
type ConverterConstructor func(def *Definition) Converter

// Binding associates an ordered (input, output) pair with the constructor for its converter.
type Binding struct {
	Input  Format
	Output Format
	New    ConverterConstructor
}

// Matches reports whether the binding handles exactly the given pair.
func (b Binding) Matches(input, output Format) bool {
	return b.Input == input && b.Output == output
}

// Reader parses source bytes into a Document.
type Reader interface {
	Read(src []byte, def *Definition) (*Document, error)
}

// Writer renders a Document.
type Writer interface {
	Write(doc *Document, def *Definition, output io.Writer) error
}
