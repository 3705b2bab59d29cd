// Package confidence turns the predictor's raw output and the surrounding
// signal context into a bounded confidence percentage with a textual
// rationale.
package confidence

import (
	"fmt"

	"forecast-systemv1/internal/model"
)

// Confidence bounds and adjustments. The pattern penalty is deliberately
// asymmetric: a bullish call against a bearish pattern loses more than
// agreement ever gains.
const (
	MinConfidence = 10.0
	MaxConfidence = 98.0

	baseCeiling    = 95.0
	baseFloor      = 40.0
	lossWeight     = 1000.0
	patternBonus   = 8.0
	patternPenalty = 10.0
	sentimentBonus = 5.0

	// Sentiment inside this band is treated as neutral noise.
	sentimentNeutralBand = 0.2

	highConfidence = 80.0
	lowConfidence  = 50.0
)

// Directions named in the result and rationale.
const (
	Bullish = "bullish"
	Bearish = "bearish"
)

// Input bundles everything the scorer reads: the de-scaled model output,
// the last known price, the final training loss, the latest classified
// pattern and the sentiment scalar.
type Input struct {
	TargetPrice float64
	LastClose   float64
	TrainLoss   float64
	Pattern     model.PatternResult
	Sentiment   float64
}

// Direction reports which way the forecast points.
func (in Input) Direction() string {
	if in.TargetPrice > in.LastClose {
		return Bullish
	}
	return Bearish
}

// Score computes the bounded confidence and rationale. Pure: same input,
// same result, no state.
func Score(in Input) model.ConfidenceResult {
	conf := baseCeiling - in.TrainLoss*lossWeight
	if conf < baseFloor {
		conf = baseFloor
	}

	bullish := in.Direction() == Bullish

	switch {
	case bullish && in.Pattern.Score > 0, !bullish && in.Pattern.Score < 0:
		conf += patternBonus
	case bullish && in.Pattern.Score < 0:
		// Calling a rally into a bearish pattern is the expensive mistake.
		conf -= patternPenalty
	}

	if bullish && in.Sentiment > sentimentNeutralBand {
		conf += sentimentBonus
	} else if !bullish && in.Sentiment < -sentimentNeutralBand {
		conf += sentimentBonus
	}

	if conf > MaxConfidence {
		conf = MaxConfidence
	}
	if conf < MinConfidence {
		conf = MinConfidence
	}

	return model.ConfidenceResult{
		TargetPrice: in.TargetPrice,
		Confidence:  conf,
		Reasoning:   reasoning(in, conf),
	}
}

// reasoning builds the templated rationale: direction and target always,
// with an alignment note above the high bar and a conflict note below the
// low one.
func reasoning(in Input, conf float64) string {
	msg := fmt.Sprintf("Model projects a %s move toward %.2f from %.2f.",
		in.Direction(), in.TargetPrice, in.LastClose)

	switch {
	case conf > highConfidence:
		msg += fmt.Sprintf(" Candlestick pattern (%s) and MACD momentum align with the projection.", in.Pattern.Name)
	case conf < lowConfidence:
		msg += " Conflicting technical signals reduce conviction in this forecast."
	}
	return msg
}
