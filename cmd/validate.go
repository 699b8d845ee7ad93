package cmd

import (
	"bufio"
	"bytes"
	"fmt"

	"alertwire/core"
	"alertwire/export"

	"github.com/spf13/cobra"
)

// maxValidateLine bounds one JSON line read by validate (4MB)
const maxValidateLine = 4 * 1024 * 1024

func newValidateCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check JSON export records against the record schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openInput(cmd, input)
			if err != nil {
				return err
			}
			defer closeIn()

			scanner := bufio.NewScanner(in)
			scanner.Buffer(make([]byte, 0, 64*1024), maxValidateLine)

			var line, invalid int
			counts := make(map[core.Priority]int)
			for scanner.Scan() {
				line++
				data := bytes.TrimSpace(scanner.Bytes())
				if len(data) == 0 {
					continue
				}
				if err := export.ValidateJSON(data); err != nil {
					invalid++
					report(cmd, errorColor, "line %d: %v", line, err)
					continue
				}
				if r, err := export.ParseJSON(data); err == nil {
					counts[r.Priority()]++
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			if !quiet {
				for _, p := range core.Priorities() {
					if counts[p] > 0 {
						fmt.Fprintf(cmd.ErrOrStderr(), "%-15s %d\n", renderPriorityName(p), counts[p])
					}
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d invalid records", invalid)
			}
			report(cmd, successColor, "All records valid")
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", stdioPath, "JSON lines to read, - for stdin")
	return cmd
}
