// Command winlattice runs the lattice pipeline over one dataset and writes
// every stage record under the artifact directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/katalvlaran/winlattice/artifact"
	"github.com/katalvlaran/winlattice/config"
	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/pipeline"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load(".env")

	configPath := flag.String("config", getEnv(config.EnvPrefix+"CONFIG", ""), "path to YAML config file")
	dataset := flag.String("dataset", "", "dataset id (overrides config)")
	k := flag.Int("k", -1, "window count, 0 selects the knee (overrides config)")
	seed := flag.Int64("seed", 0, "random seed (overrides config when non-zero)")
	runID := flag.String("run-id", "", "artifact run id (default: random UUID)")
	fromLattice := flag.String("lattice", "", `reuse a persisted lattice: "latest" or a run id; skips layout through traversal`)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(2)
	}
	if *dataset != "" {
		cfg.Dataset = *dataset
	}
	if *k >= 0 {
		cfg.Lattice.K = *k
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if err = cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	var wopts []artifact.Option
	if *runID != "" {
		wopts = append(wopts, artifact.WithRunID(*runID))
	}
	w, err := artifact.NewWriter(cfg.ArtifactDir, wopts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open artifact dir: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting winlattice",
		"version", Version,
		"dataset", cfg.Dataset,
		"corpus_dir", cfg.CorpusDir,
		"artifact_dir", cfg.ArtifactDir,
		"run_id", w.RunID(),
		"config", *configPath,
		"lattice", *fromLattice,
	)

	reader := corpus.FileReader{Dir: cfg.CorpusDir}
	p, err := pipeline.New(cfg, pipeline.Deps{
		Lines:    reader,
		Evidence: reader,
		Writer:   w,
		Logger:   logger,
		Status:   os.Stdout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build pipeline: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *fromLattice != "" {
		_, err = p.RunFromLattice(ctx, *fromLattice)
	} else {
		_, err = p.Run(ctx)
	}
	if err != nil {
		logger.Error("run failed", "error", err)
		stop()
		os.Exit(1)
	}
	logger.Info("run complete", "run_id", w.RunID())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
