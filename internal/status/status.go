// Package status summarizes MACD momentum and Bollinger position into
// human-readable market status labels for display.
package status

import (
	"forecast-systemv1/internal/indicator"
	"forecast-systemv1/internal/model"
)

// Status labels.
const (
	InsufficientData = "Insufficient Data"

	BullishCrossover = "Bullish Crossover"
	BearishCrossover = "Bearish Crossover"
	BullishMomentum  = "Bullish Momentum"
	BearishMomentum  = "Bearish Momentum"

	Overbought = "Overbought"
	Oversold   = "Oversold"
	InRange    = "In Range"
)

// minObservations is the MACD warm-up: slow EMA (26) plus signal (9).
const minObservations = 35

// Summarize reads the full close history and emits the two status labels.
// Everything is recomputed fresh — no state survives between calls. With
// fewer than minObservations points both fields degrade to the sentinel.
func Summarize(closes []float64) model.MarketStatus {
	if len(closes) < minObservations {
		return model.MarketStatus{MACDStatus: InsufficientData, BBStatus: InsufficientData}
	}

	n := len(closes)
	macd := indicator.MACD(closes, indicator.DefaultMACDFast, indicator.DefaultMACDSlow, indicator.DefaultMACDSignal)
	bands := indicator.BollingerBands(closes, indicator.DefaultBollingerPeriod, indicator.DefaultBollingerK)

	return model.MarketStatus{
		MACDStatus: macdStatus(macd, n),
		BBStatus:   bbStatus(bands, closes[n-1], n),
	}
}

// macdStatus compares the last two macd/signal points for a crossover;
// absent a crossover it reports momentum from the sign of macd - signal.
func macdStatus(m indicator.MACDResult, n int) string {
	macdPrev, ok1 := m.Line.At(n - 2)
	sigPrev, ok2 := m.Signal.At(n - 2)
	macdLast, ok3 := m.Line.At(n - 1)
	sigLast, ok4 := m.Signal.At(n - 1)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return InsufficientData
	}

	switch {
	case macdPrev <= sigPrev && macdLast > sigLast:
		return BullishCrossover
	case macdPrev >= sigPrev && macdLast < sigLast:
		return BearishCrossover
	case macdLast > sigLast:
		return BullishMomentum
	default:
		return BearishMomentum
	}
}

// bbStatus places the last close against the final band pair.
func bbStatus(bands indicator.Bands, lastClose float64, n int) string {
	upper, okU := bands.Upper.At(n - 1)
	lower, okL := bands.Lower.At(n - 1)
	if !okU || !okL {
		return InsufficientData
	}

	switch {
	case lastClose > upper:
		return Overbought
	case lastClose < lower:
		return Oversold
	default:
		return InRange
	}
}
