package model

import (
	"context"
)

// ── Predictor Port ──
// The regression model is an opaque external capability: the core hands it
// windowed features and targets, waits for training to finish, and reads a
// single normalized scalar back. Its internals (architecture, optimizer) are
// not this module's concern.

// TrainProgress is one progress notification from a running training task.
type TrainProgress struct {
	Epoch    int     // 1-based epoch that just finished
	Fraction float64 // completed fraction of the whole task, (0,1]
	Loss     float64 // running mean squared error
}

// ProgressFunc receives periodic training progress. Invoked from the
// Predictor's training goroutine; implementations must not block for long.
type ProgressFunc func(TrainProgress)

// Predictor is the external trainable regression capability.
type Predictor interface {
	// Train fits the model on windowed features and targets. It is a
	// long-running call: it yields progress through onProgress (may be nil)
	// and honors ctx cancellation between progress notifications.
	// Returns the final training loss.
	Train(ctx context.Context, windows [][][]float64, targets []float64, onProgress ProgressFunc) (float64, error)

	// Predict returns the model's normalized scalar output for one window.
	Predict(window [][]float64) (float64, error)
}

// PredictorBuilder constructs a fresh Predictor sized for the given window
// shape. A new model is built per forecast run — no weights survive a run.
type PredictorBuilder func(timeSteps, featureCount int) Predictor

// ── Storage Port Interfaces ──
// These interfaces decouple the forecast pipeline from concrete storage
// implementations (SQLite, Redis). Each implementation satisfies one or more.

// CandleReader reads historical candles for a symbol.
type CandleReader interface {
	// ReadCandles returns up to limit candles for the symbol, ordered by
	// timestamp ascending. limit <= 0 means no limit.
	ReadCandles(symbol string, limit int) ([]Candle, error)

	// Close releases underlying resources.
	Close() error
}

// CandleWriter persists candle history.
type CandleWriter interface {
	// WriteCandles upserts a batch of candles in one transaction.
	// Returns the number of candles written.
	WriteCandles(candles []Candle) (int, error)

	// Close releases underlying resources.
	Close() error
}

// ForecastJournal records completed forecasts for later inspection.
type ForecastJournal interface {
	// WriteForecast appends one forecast record.
	WriteForecast(f Forecast) error

	// ReadRecentForecasts returns the most recent forecasts for a symbol,
	// newest first.
	ReadRecentForecasts(symbol string, limit int) ([]Forecast, error)

	// Close releases underlying resources.
	Close() error
}

// ForecastPublisher pushes completed forecasts to external consumers.
type ForecastPublisher interface {
	// PublishForecast appends the forecast to a stream and refreshes the
	// latest-value key for the symbol.
	PublishForecast(ctx context.Context, f Forecast) error

	// PublishStatus refreshes the latest market status for the symbol.
	PublishStatus(ctx context.Context, symbol string, s MarketStatus) error

	// Close releases underlying resources.
	Close() error
}
