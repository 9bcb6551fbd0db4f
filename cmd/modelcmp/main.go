// Command modelcmp compares model families on a CSV dataset: it evaluates
// the classifier battery under cross-validation for a binary target, or the
// elastic-net alpha sweep for a numeric one, and prints the metrics table.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/modelcmp/dataset"
	"github.com/YuminosukeSato/modelcmp/evaluate"
	"github.com/YuminosukeSato/modelcmp/pkg/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "modelcmp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	dataPath := flag.String("data", "", "path to CSV dataset (overrides config)")
	target := flag.String("target", "", "target column name (overrides config)")
	folds := flag.Int("k", 0, "fold count for classification (overrides config)")
	alphas := flag.String("alphas", "", "comma-separated alpha grid (overrides config)")
	seed := flag.Int64("seed", -1, "random seed (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *dataPath != "" {
		cfg.Data = *dataPath
	}
	if *target != "" {
		cfg.Target = *target
	}
	if *folds > 0 {
		cfg.Folds = *folds
	}
	if *alphas != "" {
		grid, err := parseAlphas(*alphas)
		if err != nil {
			return err
		}
		cfg.Alphas = grid
	}
	if *seed >= 0 {
		cfg.Seed = *seed
	}
	if cfg.Data == "" || cfg.Target == "" {
		return fmt.Errorf("both a dataset (-data) and a target column (-target) are required")
	}

	log.SetupLogger(cfg.LogLevel)
	log.InstallWarningBridge(zerolog.New(os.Stderr).With().Timestamp().Logger())

	ds, err := dataset.ReadCSV(cfg.Data)
	if err != nil {
		return err
	}
	slog.Info("dataset loaded",
		slog.String("path", cfg.Data),
		slog.Int("rows", ds.NumRows()),
		slog.Int("columns", len(ds.ColumnNames())))

	table, err := evaluate.Evaluate(ds, cfg.Target,
		evaluate.WithFolds(cfg.Folds),
		evaluate.WithAlphaGrid(cfg.Alphas),
		evaluate.WithSeed(cfg.Seed),
		evaluate.WithTrainFraction(cfg.TrainFraction),
	)
	if err != nil {
		return err
	}

	for col, failure := range table.Failures() {
		slog.Warn("column failed", slog.String("column", col), log.ErrAttr(failure))
	}

	fmt.Print(table.String())
	return nil
}
