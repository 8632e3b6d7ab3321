package commands

import (
	"errors"
	"fmt"
	"os"

	"profilestats/cmd/profilestats/globals"
	"profilestats/internal/scrapers/bilibili"
	"profilestats/internal/scrapers/csdn"
	"profilestats/internal/snapshot"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Prints the stored snapshots.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())

		tracked := map[string][]string{
			bilibili.Name: bilibili.Fields,
			csdn.Name:     csdn.Fields,
		}
		for _, source := range []string{bilibili.Name, csdn.Name} {
			record, err := g.Store.Load(source)
			if errors.Is(err, os.ErrNotExist) {
				fmt.Printf("no %s snapshot at %s\n", source, g.Store.Path(source))
				continue
			}
			if err != nil {
				return err
			}
			snapshot.WriteRecord(os.Stdout, source, tracked[source], record)
		}
		return nil
	},
}
