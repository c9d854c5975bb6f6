// Package cli provides the command-line interface for scrybe.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/siad007/Scrybe/internal/config"
	"github.com/siad007/Scrybe/internal/definition"
	"github.com/siad007/Scrybe/internal/domain"
	"github.com/siad007/Scrybe/internal/factory"
	"github.com/spf13/cobra"
)

// stdio is the file name that selects standard input or output.
const stdio = "-"

// CLI holds the command-line interface configuration.
type CLI struct {
	log        logger.ILogger
	factory    *factory.Factory
	cfg        *config.Config
	rootCmd    *cobra.Command
	configFile string
	inputFile  string
	outputFile string
	from       string
	to         string
	options    map[string]string
}

// New creates a new CLI resolving converters through f.
func New(log logger.ILogger, f *factory.Factory) *CLI {
	cli := &CLI{
		log:     log,
		factory: f,
	}

	cli.rootCmd = &cobra.Command{
		Use:           "scrybe",
		Short:         "Convert markup documents between formats",
		Long:          "A CLI tool that converts reStructuredText, Markdown and OpenAPI documents to HTML, PDF, Word (DOCX) and Confluence (ADF).",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(cli.configFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			cli.cfg = cfg

			return nil
		},
	}

	cli.rootCmd.PersistentFlags().StringVarP(&cli.configFile, "config", "c", "", "Path to a YAML or JSON configuration file")
	cli.rootCmd.AddCommand(cli.convertCmd(), cli.formatsCmd(), cli.optionsCmd())

	return cli
}

// Execute runs the CLI.
func (c *CLI) Execute() error {
	return c.rootCmd.Execute()
}

// SetArgs overrides the command-line arguments.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

func (c *CLI) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a document",
		Args:  cobra.NoArgs,
		RunE:  c.runConvert,
	}

	cmd.Flags().StringVarP(&c.inputFile, "input", "i", "", "Path to the source document, - for stdin (required)")
	cmd.Flags().StringVarP(&c.outputFile, "output", "o", "", "Path for the output file, - for stdout (required)")
	cmd.Flags().StringVarP(&c.from, "from", "f", "", "Input format (default: inferred from the input file name)")
	cmd.Flags().StringVarP(&c.to, "to", "t", "", "Output format (default: inferred from the output file name)")
	cmd.Flags().StringToStringVarP(&c.options, "option", "O", nil, "Converter option as name=value (repeatable)")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, _ []string) error {
	from, err := c.resolveFormat(c.from, c.inputFile, c.cfg.From)
	if err != nil {
		return fmt.Errorf("input format: %w", err)
	}

	to, err := c.resolveFormat(c.to, c.outputFile, c.cfg.To)
	if err != nil {
		return fmt.Errorf("output format: %w", err)
	}

	converter, err := c.factory.Get(from, to)
	if err != nil {
		if errors.Is(err, factory.ErrConverterNotFound) {
			return fmt.Errorf("%w (inputs supported for %s: %s)", err, to, joinFormats(c.factory.GetSupportedInputFormats(to)))
		}

		return err
	}

	def := converter.Definition()

	if err := def.Apply(declaredOptions(def, c.cfg.Options)); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	if _, ok := def.Lookup(definition.OptionSourcePath); ok && c.inputFile != stdio {
		if err := def.Set(definition.OptionSourcePath, c.inputFile); err != nil {
			return err
		}
	}

	if err := def.Apply(c.options); err != nil {
		return err
	}

	c.log.Infof("Converting %s to %s...", from, converter.Format())

	input, closeInput, err := c.openInput(cmd)
	if err != nil {
		return err
	}
	defer closeInput()

	output, closeOutput, err := c.openOutput(cmd)
	if err != nil {
		return err
	}

	if err := converter.Convert(input, output); err != nil {
		_ = closeOutput()
		c.removeOutput()

		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := closeOutput(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	if c.outputFile != stdio {
		c.log.Infof("Successfully created: %s", c.outputFile)
	}

	return nil
}

// resolveFormat picks the explicit flag, then the file extension, then the configured fallback.
func (c *CLI) resolveFormat(flag, path, fallback string) (domain.Format, error) {
	if flag != "" {
		return domain.ParseFormat(flag)
	}

	if f, ok := domain.FormatFromPath(path); ok {
		return f, nil
	}

	if fallback != "" {
		return domain.ParseFormat(fallback)
	}

	return "", fmt.Errorf("%w: cannot infer a format from %q", domain.ErrUnknownFormat, path)
}

func (c *CLI) openInput(cmd *cobra.Command) (io.Reader, func(), error) {
	if c.inputFile == stdio {
		return cmd.InOrStdin(), func() {}, nil
	}

	f, err := os.Open(c.inputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}

func (c *CLI) openOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	if c.outputFile == stdio {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	f, err := os.Create(c.outputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return f, f.Close, nil
}

// removeOutput deletes a partially written output file.
func (c *CLI) removeOutput() {
	if c.outputFile == stdio {
		return
	}

	if err := os.Remove(c.outputFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.log.Errorf("Failed to remove %s: %v", c.outputFile, err)
	}
}

// declaredOptions keeps the configured options the definition declares.
func declaredOptions(def *domain.Definition, options map[string]string) map[string]string {
	declared := make(map[string]string, len(options))
	for name, value := range options {
		if _, ok := def.Lookup(name); ok {
			declared[name] = value
		}
	}

	return declared
}

func (c *CLI) formatsCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List supported conversions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if to == "" {
				for _, b := range c.factory.Bindings() {
					fmt.Fprintf(out, "%s -> %s\n", b.Input, b.Output)
				}

				return nil
			}

			output, err := domain.ParseFormat(to)
			if err != nil {
				return err
			}

			for _, f := range c.factory.GetSupportedInputFormats(output) {
				fmt.Fprintln(out, f)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "Only list the input formats convertible to this format")

	return cmd
}

func (c *CLI) optionsCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Describe the options of a conversion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input, err := domain.ParseFormat(from)
			if err != nil {
				return err
			}

			output, err := domain.ParseFormat(to)
			if err != nil {
				return err
			}

			converter, err := c.factory.Get(input, output)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, spec := range converter.Definition().Specs() {
				kind := string(spec.Kind)
				if spec.Kind == domain.OptionEnum {
					kind = strings.Join(spec.Choices, "|")
				}

				line := fmt.Sprintf("%-22s %-24s %s", spec.Name, kind, spec.Description)
				if spec.Default != "" {
					line += fmt.Sprintf(" (default %s)", spec.Default)
				}

				fmt.Fprintln(out, line)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "", "Input format (required)")
	cmd.Flags().StringVarP(&to, "to", "t", "", "Output format (required)")

	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func joinFormats(formats []domain.Format) string {
	if len(formats) == 0 {
		return "none"
	}

	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}

	return strings.Join(names, ", ")
}
