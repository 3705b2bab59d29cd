package sqlite

import (
	"fmt"
	"time"

	"forecast-systemv1/internal/model"
)

// WriteForecast appends one forecast record to the journal.
func (s *Store) WriteForecast(f model.Forecast) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO forecasts
			(run_id, symbol, ts, last_close, target_price, confidence,
			 direction, reasoning, pattern, pattern_score, macd_status, bb_status, train_loss)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		f.RunID, f.Symbol, f.TS.Unix(), f.LastClose, f.TargetPrice, f.Confidence,
		f.Direction, f.Reasoning, f.Pattern.Name, f.Pattern.Score,
		f.Status.MACDStatus, f.Status.BBStatus, f.TrainLoss,
	)
	if err != nil {
		return fmt.Errorf("sqlite insert forecast: %w", err)
	}
	return nil
}

// ReadRecentForecasts returns the most recent forecasts for a symbol,
// newest first.
func (s *Store) ReadRecentForecasts(symbol string, limit int) ([]model.Forecast, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT run_id, symbol, ts, last_close, target_price, confidence,
		       direction, reasoning, pattern, pattern_score, macd_status, bb_status, train_loss
		FROM forecasts
		WHERE symbol = ?
		ORDER BY ts DESC
		LIMIT ?
	`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite query forecasts: %w", err)
	}
	defer rows.Close()

	var forecasts []model.Forecast
	for rows.Next() {
		var f model.Forecast
		var tsUnix int64
		if err := rows.Scan(
			&f.RunID, &f.Symbol, &tsUnix, &f.LastClose, &f.TargetPrice, &f.Confidence,
			&f.Direction, &f.Reasoning, &f.Pattern.Name, &f.Pattern.Score,
			&f.Status.MACDStatus, &f.Status.BBStatus, &f.TrainLoss,
		); err != nil {
			return nil, fmt.Errorf("sqlite scan forecast: %w", err)
		}
		f.TS = time.Unix(tsUnix, 0).UTC()
		forecasts = append(forecasts, f)
	}
	return forecasts, rows.Err()
}
