package status

import (
	"testing"
)

func linear(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestSummarize_InsufficientData(t *testing.T) {
	s := Summarize(linear(100, 1, 34))
	if s.MACDStatus != InsufficientData {
		t.Errorf("MACD status = %q, want %q", s.MACDStatus, InsufficientData)
	}
	if s.BBStatus != InsufficientData {
		t.Errorf("BB status = %q, want %q", s.BBStatus, InsufficientData)
	}
}

func TestSummarize_Uptrend(t *testing.T) {
	// A steady climb keeps the macd line above its lagging signal at both of
	// the last two points: momentum, not a crossover.
	s := Summarize(linear(100, 1, 40))
	if s.MACDStatus != BullishMomentum {
		t.Errorf("MACD status = %q, want %q", s.MACDStatus, BullishMomentum)
	}
	// For slope 1 over a 20-period window the 2-sigma envelope is wider than
	// the close's distance from the middle band.
	if s.BBStatus != InRange {
		t.Errorf("BB status = %q, want %q", s.BBStatus, InRange)
	}
}

func TestSummarize_Downtrend(t *testing.T) {
	s := Summarize(linear(200, -1, 40))
	if s.MACDStatus != BearishMomentum {
		t.Errorf("MACD status = %q, want %q", s.MACDStatus, BearishMomentum)
	}
	if s.BBStatus != InRange {
		t.Errorf("BB status = %q, want %q", s.BBStatus, InRange)
	}
}

func TestSummarize_Overbought(t *testing.T) {
	// Flat history with a violent final spike punches through the upper band.
	closes := linear(100, 0, 40)
	closes[39] = 130
	s := Summarize(closes)
	if s.BBStatus != Overbought {
		t.Errorf("BB status = %q, want %q", s.BBStatus, Overbought)
	}
}

func TestSummarize_Oversold(t *testing.T) {
	closes := linear(100, 0, 40)
	closes[39] = 70
	s := Summarize(closes)
	if s.BBStatus != Oversold {
		t.Errorf("BB status = %q, want %q", s.BBStatus, Oversold)
	}
}

func TestSummarize_Crossover(t *testing.T) {
	// A long decline followed by a sharp rally drags the macd line up through
	// its signal; the final two points straddle the cross.
	closes := make([]float64, 0, 60)
	closes = append(closes, linear(200, -1, 50)...)
	closes = append(closes, linear(152, 6, 10)...)

	s := Summarize(closes)
	if s.MACDStatus != BullishCrossover && s.MACDStatus != BullishMomentum {
		t.Errorf("MACD status = %q, want a bullish label", s.MACDStatus)
	}
}
