package factory

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/siad007/Scrybe/internal/adapters/converters"
	"github.com/siad007/Scrybe/internal/definition"
	"github.com/siad007/Scrybe/internal/domain"
	"github.com/stretchr/testify/require"
)

type stubConverter struct {
	name string
	def  *domain.Definition
}

func (c *stubConverter) Convert(io.Reader, io.Writer) error { return nil }
func (c *stubConverter) Format() domain.Format              { return c.def.Output() }
func (c *stubConverter) Definition() *domain.Definition     { return c.def }

func stub(name string) domain.ConverterConstructor {
	return func(def *domain.Definition) domain.Converter {
		return &stubConverter{name: name, def: def}
	}
}

// recordingProvider counts calls and can be told to fail.
type recordingProvider struct {
	calls int
	err   error
}

func (p *recordingProvider) Get(input, output domain.Format) (*domain.Definition, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}

	return domain.NewDefinition(input, output, domain.OptionSpec{Name: "title", Kind: domain.OptionString}), nil
}

func rstOnly() Option {
	return WithBindings(domain.Binding{Input: domain.FormatRST, Output: domain.FormatHTML, New: stub("rst-html")})
}

func TestGet_ReturnsConverterForRegisteredPair(t *testing.T) {
	provider := &recordingProvider{}
	f := New(rstOnly(), WithDefinitionProvider(provider))

	c, err := f.Get(domain.FormatRST, domain.FormatHTML)
	require.NoError(t, err)

	sc, ok := c.(*stubConverter)
	require.True(t, ok)
	require.Equal(t, "rst-html", sc.name)

	want, err := provider.Get(domain.FormatRST, domain.FormatHTML)
	require.NoError(t, err)
	require.Equal(t, want, c.Definition())
	require.Equal(t, domain.FormatRST, c.Definition().Input())
	require.Equal(t, domain.FormatHTML, c.Format())
}

func TestGet_UnknownPairFailsWithConverterNotFound(t *testing.T) {
	f := New(rstOnly(), WithDefinitionProvider(&recordingProvider{}))

	_, err := f.Get(domain.FormatMarkdown, domain.FormatHTML)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrConverterNotFound)

	var notFound *ConverterNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, domain.FormatMarkdown, notFound.Input)
	require.Equal(t, domain.FormatHTML, notFound.Output)
	require.Contains(t, err.Error(), "markdown to html")
}

func TestGet_MatchesOrderedPairOnly(t *testing.T) {
	f := New(WithBindings(
		domain.Binding{Input: domain.FormatRST, Output: domain.FormatHTML, New: stub("rst-html")},
		domain.Binding{Input: domain.FormatMarkdown, Output: domain.FormatPDF, New: stub("md-pdf")},
	), WithDefinitionProvider(&recordingProvider{}))

	_, err := f.Get(domain.FormatRST, domain.FormatPDF)
	require.ErrorIs(t, err, ErrConverterNotFound)

	_, err = f.Get(domain.FormatHTML, domain.FormatRST)
	require.ErrorIs(t, err, ErrConverterNotFound)
}

func TestGet_RequestsDefinitionBeforeSearching(t *testing.T) {
	providerErr := errors.New("provider rejected pair")
	provider := &recordingProvider{err: providerErr}
	f := New(rstOnly(), WithDefinitionProvider(provider))

	// unmatched pair: the provider error wins over ConverterNotFound
	_, err := f.Get(domain.FormatMarkdown, domain.FormatHTML)
	require.Same(t, providerErr, err)
	require.NotErrorIs(t, err, ErrConverterNotFound)

	// matched pair: the provider error is still returned unchanged
	_, err = f.Get(domain.FormatRST, domain.FormatHTML)
	require.Same(t, providerErr, err)
	require.Equal(t, 2, provider.calls)
}

func TestGet_PropagatesDefinitionNotFound(t *testing.T) {
	f := New(rstOnly(), WithDefinitionProvider(definition.NewProvider(domain.FormatRST)))

	_, err := f.Get(domain.FormatRST, domain.FormatHTML)
	require.ErrorIs(t, err, definition.ErrDefinitionNotFound)

	var notFound *definition.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, domain.FormatHTML, notFound.Unsupported)
}

func TestGet_FirstRegisteredBindingWins(t *testing.T) {
	f := New(WithBindings(
		domain.Binding{Input: domain.FormatRST, Output: domain.FormatHTML, New: stub("first")},
		domain.Binding{Input: domain.FormatRST, Output: domain.FormatHTML, New: stub("second")},
	), WithDefinitionProvider(&recordingProvider{}))

	c, err := f.Get(domain.FormatRST, domain.FormatHTML)
	require.NoError(t, err)
	require.Equal(t, "first", c.(*stubConverter).name)
}

func TestGet_NilConstructorFails(t *testing.T) {
	f := New(WithBindings(
		domain.Binding{Input: domain.FormatRST, Output: domain.FormatHTML},
		domain.Binding{Input: domain.FormatRST, Output: domain.FormatHTML, New: stub("second")},
	), WithDefinitionProvider(&recordingProvider{}))

	require.NotPanics(t, func() {
		c, err := f.Get(domain.FormatRST, domain.FormatHTML)
		require.ErrorIs(t, err, ErrMissingConstructor)
		require.ErrorContains(t, err, "rst to html")
		require.Nil(t, c)
	})
}

func TestGet_ReturnsFreshInstances(t *testing.T) {
	f := New(rstOnly(), WithDefinitionProvider(&recordingProvider{}))

	a, err := f.Get(domain.FormatRST, domain.FormatHTML)
	require.NoError(t, err)

	b, err := f.Get(domain.FormatRST, domain.FormatHTML)
	require.NoError(t, err)

	require.Equal(t, a, b)
	require.NotSame(t, a, b)
	require.NotSame(t, a.Definition(), b.Definition())
}

func TestGetSupportedInputFormats(t *testing.T) {
	provider := &recordingProvider{}
	f := New(WithBindings(
		domain.Binding{Input: domain.FormatMarkdown, Output: domain.FormatHTML, New: stub("md-html")},
		domain.Binding{Input: domain.FormatOpenAPI, Output: domain.FormatPDF, New: stub("oa-pdf")},
		domain.Binding{Input: domain.FormatRST, Output: domain.FormatHTML, New: stub("rst-html")},
	), WithDefinitionProvider(provider))

	require.Equal(t, []domain.Format{domain.FormatMarkdown, domain.FormatRST}, f.GetSupportedInputFormats(domain.FormatHTML))
	require.Equal(t, []domain.Format{domain.FormatOpenAPI}, f.GetSupportedInputFormats(domain.FormatPDF))

	none := f.GetSupportedInputFormats(domain.FormatDocx)
	require.NotNil(t, none)
	require.Empty(t, none)

	require.Zero(t, provider.calls)
}

func TestGetSupportedOutputFormats(t *testing.T) {
	f := New(WithBindings(
		domain.Binding{Input: domain.FormatRST, Output: domain.FormatHTML, New: stub("a")},
		domain.Binding{Input: domain.FormatRST, Output: domain.FormatPDF, New: stub("b")},
		domain.Binding{Input: domain.FormatMarkdown, Output: domain.FormatDocx, New: stub("c")},
	))

	require.Equal(t, []domain.Format{domain.FormatHTML, domain.FormatPDF}, f.GetSupportedOutputFormats(domain.FormatRST))
	require.Empty(t, f.GetSupportedOutputFormats(domain.FormatOpenAPI))
}

func TestScenario_RstToHTMLRegistry(t *testing.T) {
	f := New(rstOnly())

	c, err := f.Get(domain.FormatRST, domain.FormatHTML)
	require.NoError(t, err)
	require.Equal(t, "rst-html", c.(*stubConverter).name)

	_, err = f.Get(domain.FormatMarkdown, domain.FormatHTML)
	var notFound *ConverterNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, &ConverterNotFoundError{Input: domain.FormatMarkdown, Output: domain.FormatHTML}, notFound)

	require.Equal(t, []domain.Format{domain.FormatRST}, f.GetSupportedInputFormats(domain.FormatHTML))
	require.Equal(t, []domain.Format{}, f.GetSupportedInputFormats(domain.FormatPDF))
}

func TestSetConverters_ReplacesRegistry(t *testing.T) {
	f := New(rstOnly(), WithDefinitionProvider(&recordingProvider{}))

	f.SetConverters(domain.Binding{Input: domain.FormatMarkdown, Output: domain.FormatPDF, New: stub("md-pdf")})

	_, err := f.Get(domain.FormatRST, domain.FormatHTML)
	require.ErrorIs(t, err, ErrConverterNotFound)

	c, err := f.Get(domain.FormatMarkdown, domain.FormatPDF)
	require.NoError(t, err)
	require.Equal(t, "md-pdf", c.(*stubConverter).name)
	require.Empty(t, f.GetSupportedInputFormats(domain.FormatHTML))
}

func TestSetConverters_CopiesInput(t *testing.T) {
	bindings := []domain.Binding{{Input: domain.FormatRST, Output: domain.FormatHTML, New: stub("rst-html")}}
	f := New(WithDefinitionProvider(&recordingProvider{}))
	f.SetConverters(bindings...)

	bindings[0].Output = domain.FormatPDF

	_, err := f.Get(domain.FormatRST, domain.FormatHTML)
	require.NoError(t, err)
}

func TestSetConverters_EmptyRegistry(t *testing.T) {
	f := New(WithDefinitionProvider(&recordingProvider{}))
	f.SetConverters()

	_, err := f.Get(domain.FormatRST, domain.FormatHTML)
	require.ErrorIs(t, err, ErrConverterNotFound)
	require.Empty(t, f.Bindings())
}

func TestNew_ExplicitEmptyBindingsStayEmpty(t *testing.T) {
	f := New(WithBindings())
	require.Empty(t, f.Bindings())
	require.Empty(t, f.GetSupportedInputFormats(domain.FormatHTML))
}

func TestNew_Defaults(t *testing.T) {
	f := New()

	bindings := f.Bindings()
	require.NotEmpty(t, bindings)
	require.Equal(t, domain.FormatRST, bindings[0].Input)
	require.Equal(t, domain.FormatHTML, bindings[0].Output)

	c, err := f.Get(domain.FormatRST, domain.FormatHTML)
	require.NoError(t, err)
	require.IsType(t, &converters.RstToHTMLConverter{}, c)

	// the default provider knows every format, so unknown pairs surface as ConverterNotFound
	_, err = f.Get(domain.FormatHTML, domain.FormatRST)
	require.ErrorIs(t, err, ErrConverterNotFound)

	// formats outside the enumeration are rejected by the provider first
	_, err = f.Get(domain.Format("latex"), domain.FormatHTML)
	require.ErrorIs(t, err, definition.ErrDefinitionNotFound)
}

func TestNew_InstancesDoNotShareRegistry(t *testing.T) {
	a := New()
	b := New()

	a.SetConverters()

	_, err := b.Get(domain.FormatRST, domain.FormatHTML)
	require.NoError(t, err)
}

func TestFactory_ConcurrentGetAndSetConverters(t *testing.T) {
	f := New(rstOnly())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			_, _ = f.Get(domain.FormatRST, domain.FormatHTML)
			_ = f.GetSupportedInputFormats(domain.FormatHTML)
		}()

		go func() {
			defer wg.Done()
			f.SetConverters(domain.Binding{Input: domain.FormatRST, Output: domain.FormatHTML, New: stub("rst-html")})
		}()
	}

	wg.Wait()

	_, err := f.Get(domain.FormatRST, domain.FormatHTML)
	require.NoError(t, err)
}
