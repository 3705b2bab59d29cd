// Package pattern classifies candlestick patterns over a 1–2 candle window
// and enriches a candle history with the result.
package pattern

import (
	"math"

	"forecast-systemv1/internal/model"
)

// Pattern names emitted by Detect.
const (
	Doji             = "Doji"
	Hammer           = "Hammer"
	ShootingStar     = "Shooting Star"
	BullishEngulfing = "Bullish Engulfing"
	BearishEngulfing = "Bearish Engulfing"
	BullishMarubozu  = "Bullish Marubozu"
	BearishMarubozu  = "Bearish Marubozu"
	Standard         = "Standard Price Action"
	InsufficientData = "Insufficient Data"
)

// Pattern scores. Engulfing patterns are the strongest signal, marubozu the
// weakest directional one; doji and standard action are neutral.
const (
	hammerScore   = 0.8
	starScore     = -0.8
	engulfScore   = 1.0
	marubozuScore = 0.6
)

// Classification thresholds relative to the candle's true range.
const (
	dojiBodyMax     = 0.05 // body ≤ 5% of range
	marubozuBodyMin = 0.90 // body ≥ 90% of range
	wickDominance   = 2.0  // dominant wick ≥ 2x body
	wickResidual    = 0.2  // opposite wick ≤ 0.2x body
)

// Detect classifies the latest candle against its immediate predecessor.
// Classification is first-match in a fixed priority order; only these two
// candles are ever consulted. With no predecessor it returns the
// InsufficientData sentinel rather than failing.
func Detect(curr, prev *model.Candle) model.PatternResult {
	if curr == nil || prev == nil {
		return model.PatternResult{Name: InsufficientData, Score: 0}
	}

	body := math.Abs(curr.Open - curr.Close)
	rng := curr.High - curr.Low
	if rng < 1 {
		rng = 1 // floor guards the ratio checks against zero-width candles
	}
	bullish := curr.Bullish()

	// Wick lengths relative to orientation: a bullish candle's upper wick
	// runs from close to high, a bearish one's from open to high.
	var upperWick, lowerWick float64
	if bullish {
		upperWick = curr.High - curr.Close
		lowerWick = curr.Open - curr.Low
	} else {
		upperWick = curr.High - curr.Open
		lowerWick = curr.Close - curr.Low
	}

	switch {
	case body <= dojiBodyMax*rng:
		return model.PatternResult{Name: Doji, Score: 0}

	case lowerWick >= wickDominance*body && upperWick <= wickResidual*body:
		return model.PatternResult{Name: Hammer, Score: hammerScore}

	case upperWick >= wickDominance*body && lowerWick <= wickResidual*body:
		return model.PatternResult{Name: ShootingStar, Score: starScore}

	case bullish && !prev.Bullish() && curr.Close > prev.Open && curr.Open < prev.Close:
		return model.PatternResult{Name: BullishEngulfing, Score: engulfScore}

	case !bullish && prev.Bullish() && curr.Close < prev.Open && curr.Open > prev.Close:
		return model.PatternResult{Name: BearishEngulfing, Score: -engulfScore}

	case body >= marubozuBodyMin*rng:
		if bullish {
			return model.PatternResult{Name: BullishMarubozu, Score: marubozuScore}
		}
		return model.PatternResult{Name: BearishMarubozu, Score: -marubozuScore}
	}

	return model.PatternResult{Name: Standard, Score: 0}
}

// Enrich applies Detect across the whole history using a 2-candle trailing
// window clamped at the start. Purely additive: the candle fields pass
// through untouched, only the pattern columns are attached.
func Enrich(candles []model.Candle) []model.EnrichedCandle {
	out := make([]model.EnrichedCandle, 0, len(candles))
	for i := range candles {
		var prev *model.Candle
		if i > 0 {
			prev = &candles[i-1]
		}
		res := Detect(&candles[i], prev)
		out = append(out, model.EnrichedCandle{
			Candle:       candles[i],
			PatternName:  res.Name,
			PatternScore: res.Score,
		})
	}
	return out
}
