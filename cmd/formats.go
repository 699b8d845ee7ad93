package cmd

import (
	"github.com/spf13/cobra"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List export formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Shutdown()

			names := app.Registry.Formats()
			formats := make([]formatInfo, 0, len(names))
			for _, name := range names {
				formats = append(formats, formatInfo{Name: name, Default: name == app.Config.Export.Format})
			}

			if outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), formats)
			}
			renderFormatsTable(cmd.OutOrStdout(), formats)
			return nil
		},
	}
}
