package main

import (
	"log/slog"
	"os"

	"forecast-systemv1/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "forecaster",
	Short: "Price forecasting engine: indicators, patterns and model-backed targets",
	Long: `Forecaster turns candle history into price forecasts.

It provides tools for:
  - Importing OHLCV history from CSV exports
  - Running a one-shot forecast over stored history
  - Serving continuous forecasts over WebSocket and REST`,
}

func main() {
	godotenv.Load()
	logger.Init("forecaster", slog.LevelInfo)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
