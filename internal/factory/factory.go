// Package factory resolves input/output format pairs into converters.
package factory

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/siad007/Scrybe/internal/adapters/converters"
	"github.com/siad007/Scrybe/internal/definition"
	"github.com/siad007/Scrybe/internal/domain"
)

// ErrConverterNotFound is matched by every ConverterNotFoundError.
var ErrConverterNotFound = errors.New("converter not found")

// ErrMissingConstructor is returned when the matching binding has a nil constructor.
var ErrMissingConstructor = errors.New("binding has no constructor")

// ConverterNotFoundError reports a pair no registered binding handles.
type ConverterNotFoundError struct {
	Input  domain.Format
	Output domain.Format
}

func (e *ConverterNotFoundError) Error() string {
	return fmt.Sprintf("no converter registered for %s to %s", e.Input, e.Output)
}

// Is makes errors.Is(err, ErrConverterNotFound) succeed.
func (e *ConverterNotFoundError) Is(target error) bool {
	return target == ErrConverterNotFound
}

// DefinitionProvider produces the definition injected into a converter.
type DefinitionProvider interface {
	Get(input, output domain.Format) (*domain.Definition, error)
}

// Factory holds an ordered registry of bindings. When bindings share a pair the first one wins.
type Factory struct {
	mu          sync.RWMutex
	bindings    []domain.Binding
	seeded      bool
	definitions DefinitionProvider
}

// Option configures a Factory.
type Option func(*Factory)

// WithBindings seeds the registry instead of DefaultBindings.
func WithBindings(bindings ...domain.Binding) Option {
	return func(f *Factory) {
		f.bindings = slices.Clone(bindings)
		f.seeded = true
	}
}

// WithDefinitionProvider replaces the default provider.
func WithDefinitionProvider(p DefinitionProvider) Option {
	return func(f *Factory) {
		f.definitions = p
	}
}

// DefaultBindings returns the built-in registry, starting with RST to HTML.
func DefaultBindings() []domain.Binding {
	return converters.Bindings()
}

// New creates a factory. Without options it uses DefaultBindings and a provider for every known format.
func New(opts ...Option) *Factory {
	f := &Factory{}

	for _, opt := range opts {
		opt(f)
	}

	if !f.seeded {
		f.bindings = DefaultBindings()
	}

	if f.definitions == nil {
		f.definitions = definition.NewDefaultProvider()
	}

	return f
}

// Get returns a new converter for the pair.
//
// The definition is requested before the registry is searched, so a provider that rejects
// the pair fails first and its error is returned unchanged.
func (f *Factory) Get(input, output domain.Format) (domain.Converter, error) {
	def, err := f.definitions.Get(input, output)
	if err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, b := range f.bindings {
		if b.Matches(input, output) {
			if b.New == nil {
				return nil, fmt.Errorf("%w: %s to %s", ErrMissingConstructor, input, output)
			}

			return b.New(def), nil
		}
	}

	return nil, &ConverterNotFoundError{Input: input, Output: output}
}

// GetSupportedInputFormats returns, in registration order, the inputs that can be converted to output.
func (f *Factory) GetSupportedInputFormats(output domain.Format) []domain.Format {
	f.mu.RLock()
	defer f.mu.RUnlock()

	formats := []domain.Format{}
	for _, b := range f.bindings {
		if b.Output == output && !slices.Contains(formats, b.Input) {
			formats = append(formats, b.Input)
		}
	}

	return formats
}

// GetSupportedOutputFormats returns, in registration order, the outputs input can be converted to.
func (f *Factory) GetSupportedOutputFormats(input domain.Format) []domain.Format {
	f.mu.RLock()
	defer f.mu.RUnlock()

	formats := []domain.Format{}
	for _, b := range f.bindings {
		if b.Input == input && !slices.Contains(formats, b.Output) {
			formats = append(formats, b.Output)
		}
	}

	return formats
}

// SetConverters replaces the whole registry.
func (f *Factory) SetConverters(bindings ...domain.Binding) {
	replacement := slices.Clone(bindings)

	f.mu.Lock()
	f.bindings = replacement
	f.mu.Unlock()
}

// Bindings returns a copy of the registry.
func (f *Factory) Bindings() []domain.Binding {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return slices.Clone(f.bindings)
}
