package commands

import (
	"log/slog"

	"profilestats/cmd/profilestats/globals"
	"profilestats/internal/render/badge"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cardsCmd)
}

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Renders the svg stat cards from the snapshots.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())

		generator := badge.NewGenerator(g.Store, g.Config.Paths.AssetsDir, g.Tel)
		written, err := generator.Generate(badge.DefaultCards...)
		for _, path := range written {
			slog.Info("card generated", "path", path)
		}
		return err
	},
}
