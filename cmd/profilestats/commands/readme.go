package commands

import (
	"log/slog"

	"profilestats/cmd/profilestats/globals"
	"profilestats/internal/render/readme"

	"github.com/spf13/cobra"
)

var readmeFile string

func init() {
	readmeCmd.Flags().StringVar(&readmeFile, "file", "", "The document to update, defaults to paths.readme of the config.")
	rootCmd.AddCommand(readmeCmd)
}

var readmeCmd = &cobra.Command{
	Use:   "readme [--file README.md]",
	Short: "Substitutes the <!--TOKEN--> placeholders of a document with the snapshot stats.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())

		path := readmeFile
		if path == "" {
			path = g.Config.Paths.Readme
		}

		updater := readme.NewUpdater(g.Store, readme.BindingsFromConfig(g.Config.Tokens), g.Tel)
		report, err := updater.UpdateFile(path)
		if err != nil {
			return err
		}
		for token, value := range report.Replaced {
			slog.Debug("replaced token", "token", token, "value", value)
		}
		slog.Info("readme updated", "path", path, "tokens", len(report.Replaced))
		return nil
	},
}
