package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Dataset   DatasetConfig
	Predictor PredictorConfig
	Worker    WorkerConfig
	DB        DatabaseConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	RateLimitRPS int
}

type DatasetConfig struct {
	Source         string // file path or http(s) URL
	ReloadInterval time.Duration
}

type PredictorConfig struct {
	URL         string
	Timeout     time.Duration
	Concurrency int
	MaxHorizon  int // years past the baseline a forecast may reach
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 20),
		},
		Dataset: DatasetConfig{
			Source:         getEnv("DATASET_SOURCE", "./data/dataset.csv"),
			ReloadInterval: getEnvDuration("DATASET_RELOAD_INTERVAL", 0),
		},
		Predictor: PredictorConfig{
			URL:         getEnv("PREDICTOR_URL", "http://localhost:5000"),
			Timeout:     getEnvDuration("PREDICTOR_TIMEOUT", 15*time.Second),
			Concurrency: getEnvInt("FORECAST_CONCURRENCY", 8),
			MaxHorizon:  getEnvInt("FORECAST_MAX_HORIZON", 31),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 20),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/water-insights.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 req/s")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Dataset.Source == "" {
		return fmt.Errorf("dataset source is required")
	}
	// 0 disables reloading
	if c.Dataset.ReloadInterval != 0 && c.Dataset.ReloadInterval < time.Minute {
		return fmt.Errorf("dataset reload interval must be at least 1 minute")
	}

	if c.Predictor.URL == "" {
		return fmt.Errorf("predictor URL is required")
	}
	if c.Predictor.Timeout <= 0 {
		return fmt.Errorf("predictor timeout must be positive")
	}
	if c.Predictor.Concurrency < 1 {
		return fmt.Errorf("forecast concurrency must be at least 1")
	}
	if c.Predictor.MaxHorizon < 1 || c.Predictor.MaxHorizon > 200 {
		return fmt.Errorf("forecast max horizon must be between 1 and 200 years: %d", c.Predictor.MaxHorizon)
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
