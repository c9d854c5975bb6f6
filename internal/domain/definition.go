package domain

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrUnknownOption is returned when setting an option the definition does not declare.
	ErrUnknownOption = errors.New("unknown option")
	// ErrInvalidOptionValue is returned when a value does not fit the option kind.
	ErrInvalidOptionValue = errors.New("invalid option value")
)

// OptionKind describes how an option value is interpreted.
type OptionKind string

const (
	OptionString OptionKind = "string"
	OptionBool   OptionKind = "bool"
	OptionInt    OptionKind = "int"
	OptionEnum   OptionKind = "enum"
)

// OptionSpec declares a single conversion option.
type OptionSpec struct {
	Name        string
	Description string
	Kind        OptionKind
	Default     string
	Choices     []string // only for OptionEnum
}

// Definition describes the options valid for one input/output format pair.
type Definition struct {
	input  Format
	output Format
	specs  []OptionSpec
	values map[string]string
}

// NewDefinition creates a definition for the given pair and option set.
func NewDefinition(input, output Format, specs ...OptionSpec) *Definition {
	return &Definition{
		input:  input,
		output: output,
		specs:  slices.Clone(specs),
		values: make(map[string]string),
	}
}

// Input returns the input format of the pair.
func (d *Definition) Input() Format {
	return d.input
}

// Output returns the output format of the pair.
func (d *Definition) Output() Format {
	return d.output
}

// Specs returns the declared options in declaration order.
func (d *Definition) Specs() []OptionSpec {
	return slices.Clone(d.specs)
}

// Lookup returns the spec for name.
func (d *Definition) Lookup(name string) (OptionSpec, bool) {
	for _, spec := range d.specs {
		if spec.Name == name {
			return spec, true
		}
	}

	return OptionSpec{}, false
}

// Set validates and stores an option value.
func (d *Definition) Set(name, value string) error {
	spec, ok := d.Lookup(name)
	if !ok {
		return fmt.Errorf("%w %q for %s to %s", ErrUnknownOption, name, d.input, d.output)
	}

	normalized, err := spec.normalize(value)
	if err != nil {
		return err
	}

	d.values[name] = normalized

	return nil
}

// Apply sets every option in values, in name order. It stops at the first error.
func (d *Definition) Apply(values map[string]string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if err := d.Set(name, values[name]); err != nil {
			return err
		}
	}

	return nil
}

// Value returns the option value, falling back to its default.
func (d *Definition) Value(name string) string {
	if v, ok := d.values[name]; ok {
		return v
	}

	spec, _ := d.Lookup(name)

	return spec.Default
}

// Bool returns a boolean option. Undeclared options are false.
func (d *Definition) Bool(name string) bool {
	b, _ := strconv.ParseBool(d.Value(name))
	return b
}

// Int returns an integer option. Undeclared options are 0.
func (d *Definition) Int(name string) int {
	n, _ := strconv.Atoi(d.Value(name))
	return n
}

func (s OptionSpec) normalize(value string) (string, error) {
	switch s.Kind {
	case OptionBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("%w for %s: %q is not a boolean", ErrInvalidOptionValue, s.Name, value)
		}

		return strconv.FormatBool(b), nil
	case OptionInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return "", fmt.Errorf("%w for %s: %q is not an integer", ErrInvalidOptionValue, s.Name, value)
		}

		return strconv.Itoa(n), nil
	case OptionEnum:
		for _, choice := range s.Choices {
			if strings.EqualFold(choice, value) {
				return choice, nil
			}
		}

		return "", fmt.Errorf("%w for %s: %q (choose one of %s)", ErrInvalidOptionValue, s.Name, value, strings.Join(s.Choices, ", "))
	default:
		return value, nil
	}
}
