// Package cmd provides the alertwire command-line interface.
package cmd

import (
	"fmt"
	"io"
	"os"

	"alertwire/bootstrap"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// CLI output formatters
var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
)

// Global flags
var (
	outputJSON bool
	configFile string
	noColor    bool
	quiet      bool
)

// stdioPath selects stdin or stdout for --input and --output
const stdioPath = "-"

// NewRootCmd creates the alertwire command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "alertwire",
		Short: "Convert detection engine responses between wire and export formats",
		Long: `Convert detection engine responses between their protobuf wire form and
export formats such as JSON.

Wire input and output are streams of varint length-delimited outputs.response
messages. Export output is one record per line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress non-essential output")

	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newEncodeCmd())
	rootCmd.AddCommand(newFormatsCmd())
	rootCmd.AddCommand(newValidateCmd())

	return rootCmd
}

// Execute runs the root command and reports any error on stderr
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func loadApp() (*bootstrap.App, error) {
	app, err := bootstrap.NewApp(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return app, nil
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "" || path == stdioPath {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == stdioPath {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open output: %w", err)
	}
	return f, f.Close, nil
}

// report prints a status line on stderr unless --quiet is set
func report(cmd *cobra.Command, c *color.Color, format string, args ...interface{}) {
	if quiet {
		return
	}
	c.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}
