package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forecast-systemv1/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	s, err := New(Config{DBPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func testCandles(n int) []model.Candle {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, n)
	for i := range candles {
		open := 100.0 + float64(i)
		candles[i] = model.Candle{
			Symbol: "INFY",
			TS:     base.AddDate(0, 0, i),
			Open:   open, High: open + 2, Low: open - 1, Close: open + 1,
			Volume: 5000 + float64(i),
		}
	}
	return candles
}

func TestWriteReadCandles(t *testing.T) {
	s := newTestStore(t)
	candles := testCandles(5)

	n, err := s.WriteCandles(candles)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	got, err := s.ReadCandles("INFY", 0)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.True(t, got[0].TS.Equal(candles[0].TS))
	assert.Equal(t, candles[0].Close, got[0].Close)
	assert.Equal(t, candles[4].Volume, got[4].Volume)

	// Chronological order
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i].TS.After(got[i-1].TS))
	}
}

func TestReadCandles_LimitKeepsMostRecent(t *testing.T) {
	s := newTestStore(t)
	candles := testCandles(10)
	_, err := s.WriteCandles(candles)
	require.NoError(t, err)

	got, err := s.ReadCandles("INFY", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// The 3 newest candles, still in ascending order.
	assert.True(t, got[0].TS.Equal(candles[7].TS))
	assert.True(t, got[2].TS.Equal(candles[9].TS))
}

func TestWriteCandles_UpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	candles := testCandles(4)

	_, err := s.WriteCandles(candles)
	require.NoError(t, err)
	_, err = s.WriteCandles(candles)
	require.NoError(t, err)

	got, err := s.ReadCandles("INFY", 0)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestLastCandleTS(t *testing.T) {
	s := newTestStore(t)

	ts, err := s.LastCandleTS("INFY")
	require.NoError(t, err)
	assert.Zero(t, ts)

	candles := testCandles(3)
	_, err = s.WriteCandles(candles)
	require.NoError(t, err)

	ts, err = s.LastCandleTS("INFY")
	require.NoError(t, err)
	assert.Equal(t, candles[2].TS.Unix(), ts)
}

func TestForecastJournal(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		f := model.Forecast{
			RunID:       string(rune('a'+i)) + "-run",
			Symbol:      "INFY",
			TS:          base.Add(time.Duration(i) * time.Hour),
			LastClose:   100,
			TargetPrice: 105 + float64(i),
			Confidence:  88,
			Direction:   "bullish",
			Reasoning:   "Model projects a bullish move toward 105.00 from 100.00.",
			Pattern:     model.PatternResult{Name: "Hammer", Score: 0.8},
			Status:      model.MarketStatus{MACDStatus: "Bullish Momentum", BBStatus: "In Range"},
			TrainLoss:   0.002,
		}
		require.NoError(t, s.WriteForecast(f))
	}

	got, err := s.ReadRecentForecasts("INFY", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first
	assert.Equal(t, "c-run", got[0].RunID)
	assert.Equal(t, "b-run", got[1].RunID)
	assert.Equal(t, 107.0, got[0].TargetPrice)
	assert.Equal(t, "Hammer", got[0].Pattern.Name)
	assert.Equal(t, "In Range", got[0].Status.BBStatus)
}

func TestReadRecentForecasts_Empty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.ReadRecentForecasts("INFY", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
