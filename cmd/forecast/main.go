package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mr1hm/water-insights/internal/config"
	"github.com/mr1hm/water-insights/internal/dataset"
	"github.com/mr1hm/water-insights/internal/forecast"
	"github.com/mr1hm/water-insights/internal/ingestion"
	"github.com/mr1hm/water-insights/internal/logging"
	"github.com/mr1hm/water-insights/internal/predictor"
)

func main() {
	country := flag.String("country", "", "country to forecast")
	year := flag.Int("year", 0, "target year")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	// stdout carries the series, logs go to stderr
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))

	if *country == "" || *year == 0 {
		logging.Fatalf("usage: forecast -country <name> -year <target year>")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Single load, no poller.
	mgr := ingestion.NewManager(config.DatasetConfig{Source: cfg.Dataset.Source})
	if err := mgr.Start(ctx); err != nil {
		logging.Fatalf("Failed to load dataset: %v", err)
	}
	defer mgr.Stop()

	history := dataset.SliceByCountry(mgr.Current().Dataset, *country)

	client := predictor.NewHTTPClient(cfg.Predictor.URL, cfg.Predictor.Timeout)
	series, err := forecast.NewAssembler(client, cfg.Predictor.Concurrency).
		WithMaxHorizon(cfg.Predictor.MaxHorizon).
		Assemble(ctx, *country, *year, history)
	if err != nil {
		logging.Fatalf("Forecast failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(series); err != nil {
		logging.Fatalf("Failed to write series: %v", err)
	}
	slog.Debug("forecast written", "country", series.Country, "horizon", series.Horizon())
}
