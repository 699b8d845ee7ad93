package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"alertwire/ingest"

	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var (
		format      string
		input       string
		output      string
		skipOnError bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a wire response stream to export records",
		Long: `Read length-delimited outputs.response messages and write one export
record per message.

Examples:
  alertwire convert --input events.bin
  alertwire convert --format yaml --skip-on-error < events.bin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Shutdown()

			if !cmd.Flags().Changed("format") {
				format = app.Config.Export.Format
			}
			if !cmd.Flags().Changed("skip-on-error") {
				skipOnError = app.Config.Stream.SkipOnError
			}

			conv, err := ingest.NewConverter(ingest.Options{
				Format:       format,
				SkipOnError:  skipOnError,
				MaxFrameSize: app.Config.Stream.MaxFrameSize,
				Registry:     app.Registry,
				Logger:       app.Sugar,
			})
			if err != nil {
				return err
			}

			in, closeIn, err := openInput(cmd, input)
			if err != nil {
				return err
			}
			defer closeIn()

			out, closeOut, err := openOutput(cmd, output)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			stats, err := conv.Convert(ctx, in, out)
			err = errors.Join(err, closeOut())
			app.Sugar.Infow("Conversion finished",
				"read", stats.Read, "converted", stats.Converted, "skipped", stats.Skipped)

			if stats.Skipped > 0 {
				report(cmd, warningColor, "Skipped %d of %d responses", stats.Skipped, stats.Read)
			}
			if err != nil {
				return err
			}
			report(cmd, successColor, "Converted %d responses to %s", stats.Converted, format)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Export format")
	cmd.Flags().StringVarP(&input, "input", "i", stdioPath, "Wire stream to read, - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", stdioPath, "File to write records to, - for stdout")
	cmd.Flags().BoolVar(&skipOnError, "skip-on-error", false, "Skip responses that fail to decode")

	return cmd
}
