package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"profilestats/cmd/profilestats/globals"
	"profilestats/internal/components/chrono"
	"profilestats/internal/components/telemetry"
	"profilestats/internal/config"
	"profilestats/internal/snapshot"
	"profilestats/lib/restyutil"
	"profilestats/lib/serviceutil"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	dumpHttp   string
)

var shutdownTelemetry = func(context.Context) error { return nil }

var rootCmd = &cobra.Command{
	Use:              "profilestats",
	Short:            "profilestats keeps the bilibili and csdn stats of a profile readme up to date.",
	SilenceUsage:     true,
	PersistentPreRun: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "The configuration file to read.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
	rootCmd.PersistentFlags().StringVar(&dumpHttp, "dump-http", "", "Write every http exchange into this directory.")
}

func initSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

func setupTelemetry(ctx context.Context) telemetry.API {
	var tel telemetry.API = telemetry.SlogAPI{}

	otelTel, err := telemetry.SetupFromEnv(ctx, "profilestats")
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no telemetry config found, only logging")
		return tel
	}
	if err != nil {
		slog.Warn("failed to setup telemetry, only logging", "err", err)
		return tel
	}
	shutdownTelemetry = func(ctx context.Context) error {
		err := telemetry.RecordRunStats(ctx, "profilestats")
		if err != nil {
			slog.Debug("failed to record run stats", "err", err)
		}
		return otelTel.Shutdown(ctx)
	}

	otelApi, err := telemetry.NewOtelAPI(tel, "profilestats")
	if err != nil {
		slog.Warn("failed to create stat gauge", "err", err)
		return tel
	}
	return otelApi
}

func setup(cmd *cobra.Command, args []string) {
	initSlog(verbose)

	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	tel := setupTelemetry(cmd.Context())

	value := &globals.Value{
		Config: cfg,
		Tel:    tel,
		Store:  snapshot.NewStore(cfg.Paths.DataDir, chrono.NewStandardTime(), tel),
	}
	if dumpHttp != "" {
		output, err := restyutil.NewFilesystemOutput(dumpHttp)
		if err != nil {
			serviceutil.Fatal("failed to create http dump directory", err)
		}
		value.Output = output
	}

	cmd.SetContext(globals.Set(cmd.Context(), value))
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if shutdownErr := shutdownTelemetry(shutdownCtx); shutdownErr != nil {
		slog.Warn("failed to flush telemetry", "err", shutdownErr)
	}
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
