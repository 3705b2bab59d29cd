// Package feature turns an enriched candle history plus two scalar context
// signals into fixed-length sliding-window feature vectors and matching
// targets, normalized into [0,1] for the predictor.
package feature

import (
	"fmt"

	"forecast-systemv1/internal/indicator"
	"forecast-systemv1/internal/model"
)

// VectorWidth is the number of features per time step: price, volume,
// pattern score, sentiment, macro rate, MACD histogram, Bollinger position.
const VectorWidth = 7

// Assumed operating range for the macro rate input (a currency/interest
// rate quote). Fixed by convention, not re-derived from data.
const (
	MacroRateMin = 0.0
	MacroRateMax = 100.0
)

// Defaults when the histogram has no defined values at all, so scaling never
// collapses to a zero-width range.
const (
	defaultHistMin = -1.0
	defaultHistMax = 1.0
)

// neutralBollingerPos stands in for the band position while the bands are
// still warming up or degenerate (upper == lower).
const neutralBollingerPos = 0.5

// Dataset is the sliding-window training set plus the scaling bounds needed
// to invert close-price normalization after inference.
type Dataset struct {
	Windows [][][]float64 // [window][timeStep][feature]
	Targets []float64     // normalized close at each window's horizon
	Latest  [][]float64   // most recent window, no known target

	TimeSteps int

	MinClose, MaxClose   float64
	MinVolume, MaxVolume float64
}

// DenormalizeClose maps a normalized model output back to a price using the
// same bounds that scaled the features.
func (d *Dataset) DenormalizeClose(n float64) float64 {
	return n*span(d.MinClose, d.MaxClose) + d.MinClose
}

// Build constructs the windowed dataset. sentiment is expected in roughly
// [-1,1]; macroRate in the assumed operating range. Requires more than
// timeSteps candles — there must be at least one complete window with a
// known target.
//
// Known limitation, kept deliberately: the min/max bounds are computed over
// the ENTIRE history, including candles chronologically after any given
// training window. That leaks future scale into training-time normalization
// (a mild look-ahead bias against strict walk-forward evaluation). Switching
// to a rolling scaler would change every downstream score and is a product
// decision, not a bug fix.
func Build(enriched []model.EnrichedCandle, sentiment, macroRate float64, timeSteps int) (*Dataset, error) {
	if timeSteps <= 0 {
		return nil, fmt.Errorf("feature: timeSteps must be positive, got %d", timeSteps)
	}
	if len(enriched) <= timeSteps {
		return nil, fmt.Errorf("feature: need more than %d candles, have %d", timeSteps, len(enriched))
	}

	n := len(enriched)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	scores := make([]float64, n)
	for i := range enriched {
		closes[i] = enriched[i].Close
		volumes[i] = enriched[i].Volume
		scores[i] = enriched[i].PatternScore
	}

	macd := indicator.MACD(closes, indicator.DefaultMACDFast, indicator.DefaultMACDSlow, indicator.DefaultMACDSignal)
	bands := indicator.BollingerBands(closes, indicator.DefaultBollingerPeriod, indicator.DefaultBollingerK)

	minClose, maxClose := minMax(closes)
	minVol, maxVol := minMax(volumes)
	minHist, maxHist := definedMinMax(macd.Histogram)

	normSentiment := (sentiment + 1) / 2
	normMacro := clamp01((macroRate - MacroRateMin) / (MacroRateMax - MacroRateMin))

	vecAt := func(i int) []float64 {
		v := make([]float64, VectorWidth)
		v[0] = normalize(closes[i], minClose, maxClose)
		v[1] = normalize(volumes[i], minVol, maxVol)
		v[2] = (scores[i] + 1) / 2
		v[3] = normSentiment
		v[4] = normMacro
		if h, ok := macd.Histogram.At(i); ok {
			v[5] = normalize(h, minHist, maxHist)
		} else {
			v[5] = 0 // warm-up → neutral default, only at this boundary
		}
		v[6] = bollingerPosition(closes[i], bands, i)
		return v
	}

	ds := &Dataset{
		TimeSteps: timeSteps,
		MinClose:  minClose, MaxClose: maxClose,
		MinVolume: minVol, MaxVolume: maxVol,
	}

	for start := 0; start+timeSteps < n; start++ {
		window := make([][]float64, timeSteps)
		for j := 0; j < timeSteps; j++ {
			window[j] = vecAt(start + j)
		}
		ds.Windows = append(ds.Windows, window)
		ds.Targets = append(ds.Targets, normalize(closes[start+timeSteps], minClose, maxClose))
	}

	// The window ending at the last available candle feeds inference; its
	// target is the future close being forecast.
	latest := make([][]float64, timeSteps)
	for j := 0; j < timeSteps; j++ {
		latest[j] = vecAt(n - timeSteps + j)
	}
	ds.Latest = latest

	return ds, nil
}

// bollingerPosition places a close inside its bands: 0 at the lower band,
// 1 at the upper. Neutral 0.5 while the bands are absent or degenerate.
func bollingerPosition(close float64, bands indicator.Bands, i int) float64 {
	upper, okU := bands.Upper.At(i)
	lower, okL := bands.Lower.At(i)
	if !okU || !okL || upper == lower {
		return neutralBollingerPos
	}
	return (close - lower) / (upper - lower)
}

// normalize min-max scales v into [0,1]. A zero-width range degrades to a
// divisor of 1 rather than faulting.
func normalize(v, lo, hi float64) float64 {
	return (v - lo) / span(lo, hi)
}

func span(lo, hi float64) float64 {
	if hi == lo {
		return 1
	}
	return hi - lo
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minMax(vals []float64) (float64, float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// definedMinMax scans only the defined slots. With no defined values the
// default histogram range keeps the scaler away from zero width.
func definedMinMax(s indicator.Series) (float64, float64) {
	lo, hi := 0.0, 0.0
	seen := false
	for i := 0; i < s.Len(); i++ {
		v, ok := s.At(i)
		if !ok {
			continue
		}
		if !seen {
			lo, hi = v, v
			seen = true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if !seen {
		return defaultHistMin, defaultHistMax
	}
	return lo, hi
}
