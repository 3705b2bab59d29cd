package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Infrastructure
	RedisAddr     string
	RedisPassword string
	SQLitePath    string
	MetricsAddr   string
	GatewayAddr   string

	// Notifications
	WebhookURL       string
	TelegramBotToken string
	TelegramChatID   string

	// Forecasting
	Symbol           string
	ForecastInterval time.Duration
	HistoryLimit     int
	ParamsPath       string

	// Skip scheduled re-forecasts while the market is closed.
	MarketHoursOnly bool
}

// Params holds the model and feature tuning knobs, loaded from a YAML file
// so runs are reproducible without rebuilding.
type Params struct {
	TimeSteps        int     `yaml:"time_steps"`
	Epochs           int     `yaml:"epochs"`
	LearningRate     float64 `yaml:"learning_rate"`
	ProgressEvery    int     `yaml:"progress_every"`
	DefaultSentiment float64 `yaml:"default_sentiment"`
	DefaultMacroRate float64 `yaml:"default_macro_rate"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "data/forecaster.db"),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9090"),
		GatewayAddr:   getEnv("GATEWAY_ADDR", ":8080"),

		WebhookURL:       getEnv("WEBHOOK_URL", ""),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),

		Symbol:           getEnv("SYMBOL", "AAPL"),
		ForecastInterval: getEnvDuration("FORECAST_INTERVAL", 15*time.Minute),
		HistoryLimit:     getEnvInt("HISTORY_LIMIT", 500),
		ParamsPath:       getEnv("PARAMS_PATH", "config/params.yaml"),

		MarketHoursOnly: getEnv("MARKET_HOURS_ONLY", "false") == "true",
	}
}

// DefaultParams returns the built-in tuning defaults.
func DefaultParams() Params {
	return Params{
		TimeSteps:        10,
		Epochs:           100,
		LearningRate:     0.01,
		ProgressEvery:    10,
		DefaultSentiment: 0.15,
		DefaultMacroRate: 4.5,
	}
}

// LoadParams reads tuning parameters from a YAML file, falling back to the
// defaults for any field the file omits. A missing file is not an error.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[config] params file %s not found, using defaults", path)
			return p, nil
		}
		return p, fmt.Errorf("read params: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse params %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Validate rejects parameter combinations the pipeline cannot run with.
func (p Params) Validate() error {
	if p.TimeSteps <= 0 {
		return fmt.Errorf("config: time_steps must be positive, got %d", p.TimeSteps)
	}
	if p.Epochs <= 0 {
		return fmt.Errorf("config: epochs must be positive, got %d", p.Epochs)
	}
	if p.LearningRate <= 0 {
		return fmt.Errorf("config: learning_rate must be positive, got %g", p.LearningRate)
	}
	if p.ProgressEvery <= 0 {
		return fmt.Errorf("config: progress_every must be positive, got %d", p.ProgressEvery)
	}
	if p.DefaultSentiment < -1 || p.DefaultSentiment > 1 {
		return fmt.Errorf("config: default_sentiment must be in [-1,1], got %g", p.DefaultSentiment)
	}
	return nil
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[config] invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
