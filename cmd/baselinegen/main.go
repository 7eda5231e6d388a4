// Command baselinegen computes per-feature baseline statistics from a
// training CSV and writes them as a stats document or into PostgreSQL.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
	"github.com/varshiniml7/predictive-maintenance/internal/infrastructure/baseline"
	"github.com/varshiniml7/predictive-maintenance/internal/infrastructure/config"
	"github.com/varshiniml7/predictive-maintenance/internal/infrastructure/postgres"
	"github.com/varshiniml7/predictive-maintenance/pkg/observability"
	pgutil "github.com/varshiniml7/predictive-maintenance/pkg/postgres"
)

type options struct {
	csvPath       string
	outPath       string
	features      string
	postgresDSN   string
	migrationsDir string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  "text",
		Service: "baselinegen",
	})

	if err := newRootCmd(logger).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "baselinegen",
		Short: "Compute feature baseline statistics from a training CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout(), logger)
		},
		SilenceUsage: true,
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.csvPath, "csv", "", "training CSV with a header row (required)")
	flags.StringVar(&opts.outPath, "out", "stats_table.json", `stats document to write ("-" for stdout, "" to skip)`)
	flags.StringVar(&opts.features, "features", strings.Join(config.DefaultFeatures, ","), "comma separated feature columns")
	flags.StringVar(&opts.postgresDSN, "postgres", "", "PostgreSQL URI to upsert the baseline into")
	flags.StringVar(&opts.migrationsDir, "migrations", "internal/infrastructure/postgres/migrations", "migrations directory used with --postgres")
	_ = cmd.MarkFlagRequired("csv")

	return cmd
}

func run(ctx context.Context, opts options, stdout io.Writer, logger *slog.Logger) error {
	features := splitFeatures(opts.features)
	if len(features) == 0 {
		return fmt.Errorf("at least one feature is required")
	}
	if opts.outPath == "" && opts.postgresDSN == "" {
		return fmt.Errorf("nothing to do: set --out or --postgres")
	}

	f, err := os.Open(opts.csvPath)
	if err != nil {
		return fmt.Errorf("opening training data: %w", err)
	}
	defer f.Close()

	stats, err := baseline.Generate(f, features)
	if err != nil {
		return fmt.Errorf("computing statistics from %s: %w", opts.csvPath, err)
	}
	for _, name := range features {
		s := stats[name]
		logger.Info("feature statistics", "feature", name, "mean", s.Mean, "std", s.Std, "min", s.Min, "max", s.Max)
	}

	if opts.outPath != "" {
		if err := writeDocument(opts.outPath, stdout, features, stats); err != nil {
			return err
		}
		logger.Info("stats document written", "path", opts.outPath)
	}

	if opts.postgresDSN != "" {
		if err := saveToPostgres(ctx, opts, features, stats); err != nil {
			return err
		}
		logger.Info("baseline stored in postgres", "features", len(features))
	}
	return nil
}

func writeDocument(path string, stdout io.Writer, features []string, stats map[string]model.FeatureStatistics) error {
	data, err := baseline.EncodeDocument(features, stats)
	if err != nil {
		return fmt.Errorf("encoding stats document: %w", err)
	}
	if path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func saveToPostgres(ctx context.Context, opts options, features []string, stats map[string]model.FeatureStatistics) error {
	if err := pgutil.RunMigrations(opts.postgresDSN, opts.migrationsDir); err != nil {
		return err
	}

	pool, err := pgutil.Connect(ctx, opts.postgresDSN, pgutil.PoolOptions{MaxConns: 2})
	if err != nil {
		return err
	}
	defer pool.Close()

	return postgres.NewBaselineRepository(pool).Save(ctx, features, stats)
}

func splitFeatures(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
