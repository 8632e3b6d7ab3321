package commands

import (
	"context"
	"log/slog"
	"os"

	"profilestats/cmd/profilestats/globals"
	"profilestats/internal/collect"
	"profilestats/internal/scrapers/bilibili"
	"profilestats/internal/scrapers/csdn"
	"profilestats/lib/restyutil"
	"profilestats/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func createSource(g *globals.Value, name string) collect.Source {
	policy := g.Config.Retry.Policy()
	output := restyutil.WithPrefix(name, g.Output)

	switch name {
	case bilibili.Name:
		if !g.Config.Bilibili.HasCredentials() {
			slog.Warn("no bilibili session configured, views, likes and creations need a login")
		}
		client, err := bilibili.NewClient(g.Config.Bilibili, policy, output, g.Tel)
		if err != nil {
			serviceutil.Fatal("failed to initialize bilibili client", err)
		}
		return client
	case csdn.Name:
		client, err := csdn.NewClient(g.Config.Csdn, policy, output, g.Tel)
		if err != nil {
			serviceutil.Fatal("failed to initialize csdn client", err)
		}
		if g.Config.Csdn.BrowserFallback {
			client.Renderer = csdn.NewBrowserRenderer()
		}
		return client
	}
	panic("unknown source " + name)
}

func runFetch(ctx context.Context, names []string) error {
	g := globals.Get(ctx)

	if len(names) == 0 {
		names = []string{bilibili.Name, csdn.Name}
	}
	var sources []collect.Source
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		sources = append(sources, createSource(g, name))
	}

	collector := collect.NewCollector(g.Store, os.Stdout, g.Tel)
	outcomes, err := collector.Run(ctx, sources...)
	for _, outcome := range outcomes {
		if outcome.MergeErr != nil {
			slog.Error("failed to save snapshot", "source", outcome.Source, "err", outcome.MergeErr)
			continue
		}
		slog.Info(
			"fetched",
			"source", outcome.Source,
			"observed", len(outcome.Observed),
			"updated", len(outcome.Result.Updated),
			"written", outcome.Result.Written,
		)
	}
	return err
}

var fetchCmd = &cobra.Command{
	Use:       "fetch [bilibili|csdn ...]",
	Short:     "Fetches the latest stats and merges them into the snapshots.",
	Long:      "Fetches the latest stats of every given source (all of them by default) and merges the valid ones into the snapshots. Exits with 1 only when no source could be fetched.",
	ValidArgs: []string{bilibili.Name, csdn.Name},
	Args:      cobra.OnlyValidArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd.Context(), args)
	},
}
