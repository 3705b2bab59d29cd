package model

import (
	"encoding/json"
	"time"
)

// Candle represents one OHLCV observation for a time interval.
// Prices are float64 raw quote values — the forecast pipeline normalizes
// everything into [0,1] before it reaches the model, so integer price
// representations buy nothing here. Candles are immutable once ingested
// and ordered chronologically; the slice index is the time axis for every
// downstream series.
type Candle struct {
	Symbol string    `json:"symbol"`
	TS     time.Time `json:"ts"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Label returns the display label for this candle's time bucket.
func (c *Candle) Label() string {
	return c.TS.UTC().Format("2006-01-02")
}

// JSON returns the JSON-encoded candle (ignoring errors for hot-path usage).
func (c *Candle) JSON() []byte {
	b, _ := json.Marshal(c)
	return b
}

// Bullish reports whether the candle closed above its open.
func (c *Candle) Bullish() bool {
	return c.Close > c.Open
}

// PatternResult is a named candlestick pattern with a signed strength score
// in [-1,1]. Positive scores lean bullish, negative bearish.
type PatternResult struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// EnrichedCandle is a Candle plus its classified candlestick pattern.
// Built once per run, append-only; prior fields are never mutated.
type EnrichedCandle struct {
	Candle
	PatternName  string  `json:"pattern_name"`
	PatternScore float64 `json:"pattern_score"`
}

// Pattern returns the enrichment as a PatternResult.
func (e *EnrichedCandle) Pattern() PatternResult {
	return PatternResult{Name: e.PatternName, Score: e.PatternScore}
}

// Closes extracts the close series from an enriched history.
func Closes(candles []EnrichedCandle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].Close
	}
	return out
}
