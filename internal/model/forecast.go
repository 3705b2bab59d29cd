package model

import (
	"encoding/json"
	"time"
)

// MarketStatus holds two independent categorical labels describing momentum
// (MACD) and volatility position (Bollinger). Recomputed fresh from the full
// price history each run; nothing is persisted between runs.
type MarketStatus struct {
	MACDStatus string `json:"macd_status"`
	BBStatus   string `json:"bb_status"`
}

// ConfidenceResult is the scored forecast: a target price, a bounded
// confidence percentage and a textual rationale. Derived, never persisted
// on its own; recomputed per inference.
type ConfidenceResult struct {
	TargetPrice float64 `json:"target_price"`
	Confidence  float64 `json:"confidence"` // [10,98]
	Reasoning   string  `json:"reasoning"`
}

// Forecast is one completed forecast run: the scored prediction plus the
// context it was derived from.
type Forecast struct {
	RunID       string        `json:"run_id"`
	Symbol      string        `json:"symbol"`
	TS          time.Time     `json:"ts"`
	LastClose   float64       `json:"last_close"`
	TargetPrice float64       `json:"target_price"`
	Confidence  float64       `json:"confidence"`
	Reasoning   string        `json:"reasoning"`
	Direction   string        `json:"direction"` // "bullish" | "bearish"
	Pattern     PatternResult `json:"pattern"`
	Status      MarketStatus  `json:"status"`
	TrainLoss   float64       `json:"train_loss"`
}

// StreamKey returns the Redis stream key: "forecast:{symbol}".
func (f *Forecast) StreamKey() string {
	return "forecast:" + f.Symbol
}

// JSON returns the JSON-encoded forecast.
func (f *Forecast) JSON() []byte {
	b, _ := json.Marshal(f)
	return b
}
