package main

import (
	"fmt"
	"os"

	"forecast-systemv1/config"
	"forecast-systemv1/internal/forecast"
	"forecast-systemv1/internal/ingest"
	"forecast-systemv1/internal/model"
	"forecast-systemv1/internal/predictor"
	sqlitestore "forecast-systemv1/internal/store/sqlite"

	"github.com/spf13/cobra"
)

var (
	predictCSVPath   string
	predictSymbol    string
	predictSentiment float64
	predictMacroRate float64
)

func init() {
	predictCmd.Flags().StringVar(&predictCSVPath, "csv", "", "forecast directly from a CSV file instead of SQLite")
	predictCmd.Flags().StringVar(&predictSymbol, "symbol", "", "symbol to forecast (default: SYMBOL env)")
	predictCmd.Flags().Float64Var(&predictSentiment, "sentiment", 0, "sentiment override in [-1,1]")
	predictCmd.Flags().Float64Var(&predictMacroRate, "macro-rate", 0, "interest rate override, percent")
	rootCmd.AddCommand(predictCmd)
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run one forecast over stored or CSV candle history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		params, err := config.LoadParams(cfg.ParamsPath)
		if err != nil {
			return err
		}

		symbol := predictSymbol
		if symbol == "" {
			symbol = cfg.Symbol
		}
		sentiment := params.DefaultSentiment
		if cmd.Flags().Changed("sentiment") {
			sentiment = predictSentiment
		}
		macroRate := params.DefaultMacroRate
		if cmd.Flags().Changed("macro-rate") {
			macroRate = predictMacroRate
		}

		var (
			candles []model.Candle
			journal model.ForecastJournal
		)
		if predictCSVPath != "" {
			candles, err = ingest.LoadCSV(predictCSVPath, symbol)
			if err != nil {
				return err
			}
		} else {
			store, err := sqlitestore.New(sqlitestore.Config{DBPath: cfg.SQLitePath})
			if err != nil {
				return err
			}
			defer store.Close()
			journal = store

			candles, err = store.ReadCandles(symbol, cfg.HistoryLimit)
			if err != nil {
				return err
			}
		}
		if len(candles) == 0 {
			return fmt.Errorf("no candle history for %s", symbol)
		}

		svc, err := forecast.New(forecast.Config{
			Symbol:    symbol,
			Sentiment: sentiment,
			MacroRate: macroRate,
			TimeSteps: params.TimeSteps,
		}, forecast.Deps{
			Journal: journal,
			BuildPredictor: predictor.Builder(predictor.Config{
				Epochs:        params.Epochs,
				LearningRate:  params.LearningRate,
				ProgressEvery: params.ProgressEvery,
			}),
		}, nil)
		if err != nil {
			return err
		}

		f, err := svc.Run(cmd.Context(), candles)
		if err != nil {
			return err
		}

		os.Stdout.Write(f.JSON())
		fmt.Println()
		return nil
	},
}
