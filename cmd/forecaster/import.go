package main

import (
	"fmt"

	"forecast-systemv1/config"
	"forecast-systemv1/internal/ingest"
	sqlitestore "forecast-systemv1/internal/store/sqlite"

	"github.com/spf13/cobra"
)

var (
	importCSVPath string
	importSymbol  string
)

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "CSV file with date,open,high,low,close,volume rows")
	importCmd.Flags().StringVar(&importSymbol, "symbol", "", "symbol the rows belong to (default: SYMBOL env)")
	importCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import candle history from a CSV export into SQLite",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		symbol := importSymbol
		if symbol == "" {
			symbol = cfg.Symbol
		}

		candles, err := ingest.LoadCSV(importCSVPath, symbol)
		if err != nil {
			return err
		}
		if len(candles) == 0 {
			return fmt.Errorf("no candles in %s", importCSVPath)
		}

		store, err := sqlitestore.New(sqlitestore.Config{DBPath: cfg.SQLitePath})
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.WriteCandles(candles)
		if err != nil {
			return err
		}

		fmt.Printf("imported %d candles for %s into %s\n", n, symbol, cfg.SQLitePath)
		return nil
	},
}
