package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/respira-lab/respira/internal/analysis"
	corecfg "github.com/respira-lab/respira/internal/core/config"
	"github.com/respira-lab/respira/internal/core/storage"
	"github.com/respira-lab/respira/internal/core/storage/postgres"
	"github.com/respira-lab/respira/internal/dataset"
	"github.com/respira-lab/respira/internal/intervals"
	"github.com/respira-lab/respira/internal/migrations"
	"github.com/respira-lab/respira/internal/report"
	"github.com/respira-lab/respira/internal/rrv"
	"github.com/respira-lab/respira/internal/server"
)

func main() {
	configPath := flag.String("config", "respira.yaml", "Path to configuration file")
	batchGlob := flag.String("batch", "", "Glob of recording CSV files to analyze and exit")
	manifestPath := flag.String("manifest", "", "Epoch manifest YAML to analyze and exit")
	outPath := flag.String("out", "", "Output CSV path for batch or manifest mode (default stdout)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"server", fmtAddr(cfg.Server.Host, cfg.Server.Port),
		"database_enabled", cfg.Database.Enabled,
		"rrv_source", cfg.RRV.Source,
		"sampling_rate", cfg.Analysis.SamplingRate)

	computer, err := buildComputer(cfg.RRV)
	if err != nil {
		slog.Error("Failed to initialize rrv computer", "error", err)
		os.Exit(1)
	}

	// Batch and manifest modes run the analysis once, write a report,
	// and exit without serving HTTP or touching the database.
	if *batchGlob != "" || *manifestPath != "" {
		svc := analysis.NewService(computer, nil, cfg.Analysis.SamplingRate)
		if err := runOneShot(svc, cfg, *batchGlob, *manifestPath, *outPath); err != nil {
			slog.Error("Batch analysis failed", "error", err)
			os.Exit(1)
		}
		return
	}

	var store storage.FeatureStore
	var dbAdapter *postgres.Adapter
	if cfg.Database.Enabled {
		dbAdapter, err = postgres.NewAdapter(
			cfg.Database.DSN,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
		)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer dbAdapter.Close()

		if err := migrations.Run(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		store = dbAdapter
	} else {
		slog.Info("Persistence disabled by config")
	}

	svc := analysis.NewService(computer, store, cfg.Analysis.SamplingRate)
	handler := analysis.NewHandler(svc, cfg.Server.MaxBodySizeMB)

	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), adapterDB(dbAdapter), cfg.Server.Mode)
	handler.RegisterRoutes(srv.Engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func buildComputer(cfg corecfg.RRVConfig) (rrv.Computer, error) {
	switch cfg.Source {
	case "zero":
		return rrv.Zero(), nil
	default:
		return rrv.LoadStatic(cfg.MetricsFile)
	}
}

func runOneShot(svc *analysis.Service, cfg *corecfg.Config, batchGlob, manifestPath, outPath string) error {
	ctx := context.Background()

	var table *intervals.ResultTable
	switch {
	case batchGlob != "":
		paths, err := filepath.Glob(batchGlob)
		if err != nil {
			return fmt.Errorf("invalid batch glob %q: %w", batchGlob, err)
		}
		sort.Strings(paths)
		table, err = svc.AnalyzeFiles(ctx, paths, cfg.Analysis.SamplingRate, cfg.Analysis.BatchWorkers)
		if err != nil {
			return err
		}
	default:
		manifest, err := dataset.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		epochs, err := manifest.LoadCollection()
		if err != nil {
			return err
		}
		table, err = intervals.AnalyzeCollection(epochs)
		if err != nil {
			return err
		}
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := report.WriteCSV(out, table); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	slog.Info("Analysis complete", "rows", table.Len(), "columns", len(table.Columns()))
	return nil
}

func adapterDB(a *postgres.Adapter) *sql.DB {
	if a == nil {
		return nil
	}
	return a.DB()
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
