package feature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forecast-systemv1/internal/model"
	"forecast-systemv1/internal/pattern"
)

// uptrend builds n synthetic daily candles with a steady climb.
func uptrend(n int) []model.EnrichedCandle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, n)
	for i := range candles {
		open := 100.0 + float64(i)
		candles[i] = model.Candle{
			Symbol: "TEST",
			TS:     base.AddDate(0, 0, i),
			Open:   open,
			High:   open + 1.5,
			Low:    open - 0.5,
			Close:  open + 1.0,
			Volume: 1000 + 10*float64(i),
		}
	}
	return pattern.Enrich(candles)
}

func TestBuild_WindowShape(t *testing.T) {
	const n, timeSteps = 40, 10
	ds, err := Build(uptrend(n), 0.5, 80, timeSteps)
	require.NoError(t, err)

	assert.Len(t, ds.Windows, n-timeSteps)
	assert.Len(t, ds.Targets, n-timeSteps)
	assert.Len(t, ds.Latest, timeSteps)
	for _, window := range ds.Windows {
		require.Len(t, window, timeSteps)
		for _, vec := range window {
			require.Len(t, vec, VectorWidth)
		}
	}
}

func TestBuild_ConstantContextFeatures(t *testing.T) {
	ds, err := Build(uptrend(40), 0.5, 80, 10)
	require.NoError(t, err)

	// sentiment 0.5 → (0.5+1)/2 = 0.75; macro 80 → 80/100 = 0.8
	for _, window := range ds.Windows {
		for _, vec := range window {
			assert.InDelta(t, 0.75, vec[3], 1e-9)
			assert.InDelta(t, 0.8, vec[4], 1e-9)
		}
	}
}

func TestBuild_MacroRateClamped(t *testing.T) {
	ds, err := Build(uptrend(15), 0, 150, 5)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ds.Windows[0][0][4], 1e-9)

	ds, err = Build(uptrend(15), 0, -20, 5)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, ds.Windows[0][0][4], 1e-9)
}

func TestBuild_TargetsAreForwardCloses(t *testing.T) {
	const timeSteps = 10
	enriched := uptrend(40)
	ds, err := Build(enriched, 0.15, 80, timeSteps)
	require.NoError(t, err)

	for i, target := range ds.Targets {
		want := enriched[i+timeSteps].Close
		assert.InDelta(t, want, ds.DenormalizeClose(target), 1e-9, "target %d", i)
	}
}

func TestBuild_RoundTripNormalization(t *testing.T) {
	ds, err := Build(uptrend(40), 0.15, 80, 10)
	require.NoError(t, err)

	for _, p := range []float64{ds.MinClose, ds.MaxClose, (ds.MinClose + ds.MaxClose) / 2} {
		n := (p - ds.MinClose) / (ds.MaxClose - ds.MinClose)
		assert.InDelta(t, p, ds.DenormalizeClose(n), 1e-9)
	}
}

func TestBuild_DegenerateCloseRange(t *testing.T) {
	// Constant prices: min == max must degrade to a unit divisor, never a
	// division fault, and de-normalizing recovers the constant price.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, 12)
	for i := range candles {
		candles[i] = model.Candle{
			Symbol: "TEST", TS: base.AddDate(0, 0, i),
			Open: 50, High: 50, Low: 50, Close: 50, Volume: 1000,
		}
	}
	ds, err := Build(pattern.Enrich(candles), 0, 80, 5)
	require.NoError(t, err)

	assert.Equal(t, ds.MinClose, ds.MaxClose)
	assert.InDelta(t, 0.0, ds.Windows[0][0][0], 1e-9)
	assert.InDelta(t, 50.0, ds.DenormalizeClose(ds.Targets[0]), 1e-9)
}

func TestBuild_WarmupDefaults(t *testing.T) {
	// 15 candles: too few for MACD (26) or Bollinger (20) to define anything,
	// so every vector carries the neutral defaults at those slots.
	ds, err := Build(uptrend(15), 0.15, 80, 5)
	require.NoError(t, err)

	for _, window := range ds.Windows {
		for _, vec := range window {
			assert.InDelta(t, 0.0, vec[5], 1e-9, "histogram default")
			assert.InDelta(t, 0.5, vec[6], 1e-9, "bollinger default")
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	enriched := uptrend(10)

	_, err := Build(enriched, 0, 80, 0)
	assert.Error(t, err)

	_, err = Build(enriched, 0, 80, 10)
	assert.Error(t, err, "need strictly more candles than timeSteps")

	_, err = Build(enriched, 0, 80, 9)
	assert.NoError(t, err)
}

func TestBuild_LatestWindowEndsAtLastCandle(t *testing.T) {
	const timeSteps = 10
	enriched := uptrend(40)
	ds, err := Build(enriched, 0.15, 80, timeSteps)
	require.NoError(t, err)

	last := enriched[len(enriched)-1].Close
	got := ds.Latest[timeSteps-1][0]
	assert.InDelta(t, last, ds.DenormalizeClose(got), 1e-9)
}
