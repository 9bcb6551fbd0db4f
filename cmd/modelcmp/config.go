package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/modelcmp/pkg/errors"
)

// Config holds the CLI settings: a YAML file provides the base values and
// MODELCMP_* environment variables override them.
type Config struct {
	Data          string    `yaml:"data"`
	Target        string    `yaml:"target"`
	Folds         int       `yaml:"folds"`
	Alphas        []float64 `yaml:"alphas"`
	Seed          int64     `yaml:"seed"`
	TrainFraction float64   `yaml:"trainFraction"`
	LogLevel      string    `yaml:"logLevel"`
}

func defaultConfig() Config {
	return Config{
		Folds:         5,
		Alphas:        []float64{0, 0.2, 0.4, 0.6, 0.8, 1},
		Seed:          42,
		TrainFraction: 0.7,
		LogLevel:      "info",
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config %s", path)
		}
	}

	// .env is optional; ignore a missing file.
	_ = godotenv.Load()
	applyEnv(&cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MODELCMP_DATA"); v != "" {
		cfg.Data = v
	}
	if v := os.Getenv("MODELCMP_TARGET"); v != "" {
		cfg.Target = v
	}
	if v := os.Getenv("MODELCMP_FOLDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Folds = n
		}
	}
	if v := os.Getenv("MODELCMP_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("MODELCMP_ALPHAS"); v != "" {
		if alphas, err := parseAlphas(v); err == nil {
			cfg.Alphas = alphas
		}
	}
	if v := os.Getenv("MODELCMP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func parseAlphas(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse alpha %q", p)
		}
		out = append(out, f)
	}
	return out, nil
}
