package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"alertwire/ingest"

	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var (
		input       string
		output      string
		skipOnError bool
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode JSON export records into a wire response stream",
		Long: `Read JSON export records, one per line, and write them as length-delimited
outputs.response messages. Records whose priority or source cannot be mapped
to a wire tag are rejected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Shutdown()

			if !cmd.Flags().Changed("skip-on-error") {
				skipOnError = app.Config.Stream.SkipOnError
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

			enc := ingest.NewEncoder(ingest.Options{
				SkipOnError:  skipOnError,
				MaxFrameSize: app.Config.Stream.MaxFrameSize,
				Logger:       app.Sugar,
			})
			stats, err := enc.Encode(ctx, in, out)
			err = errors.Join(err, closeOut())
			app.Sugar.Infow("Encoding finished",
				"read", stats.Read, "encoded", stats.Converted, "skipped", stats.Skipped)

			if stats.Skipped > 0 {
				report(cmd, warningColor, "Skipped %d of %d records", stats.Skipped, stats.Read)
			}
			if err != nil {
				return err
			}
			report(cmd, successColor, "Encoded %d records", stats.Converted)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", stdioPath, "JSON lines to read, - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", stdioPath, "File to write the wire stream to, - for stdout")
	cmd.Flags().BoolVar(&skipOnError, "skip-on-error", false, "Skip records that fail to parse or encode")

	return cmd
}
