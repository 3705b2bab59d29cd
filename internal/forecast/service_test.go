package forecast

import (
	"context"
	"testing"
	"time"

	"forecast-systemv1/internal/confidence"
	"forecast-systemv1/internal/model"
	"forecast-systemv1/internal/notification"
	"forecast-systemv1/internal/predictor"
	"forecast-systemv1/internal/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJournal struct {
	written []model.Forecast
}

func (j *fakeJournal) WriteForecast(f model.Forecast) error { j.written = append(j.written, f); return nil }
func (j *fakeJournal) ReadRecentForecasts(symbol string, limit int) ([]model.Forecast, error) {
	return j.written, nil
}
func (j *fakeJournal) Close() error { return nil }

type fakePublisher struct {
	forecasts []model.Forecast
	statuses  []model.MarketStatus
}

func (p *fakePublisher) PublishForecast(ctx context.Context, f model.Forecast) error {
	p.forecasts = append(p.forecasts, f)
	return nil
}
func (p *fakePublisher) PublishStatus(ctx context.Context, symbol string, s model.MarketStatus) error {
	p.statuses = append(p.statuses, s)
	return nil
}
func (p *fakePublisher) Close() error { return nil }

type fakeNotifier struct {
	alerts []notification.Alert
}

func (n *fakeNotifier) Send(ctx context.Context, a notification.Alert) error {
	n.alerts = append(n.alerts, a)
	return nil
}

func trendCandles(n int) []model.Candle {
	base := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		open := 100.0 + float64(i)
		candles[i] = model.Candle{
			Symbol: "AAPL",
			TS:     base.Add(time.Duration(i) * 24 * time.Hour),
			Open:   open,
			High:   open + 1.5,
			Low:    open - 0.5,
			Close:  open + 1.0,
			Volume: 1000 + float64(i),
		}
	}
	return candles
}

func newTestService(t *testing.T, deps Deps) *Service {
	t.Helper()
	if deps.BuildPredictor == nil {
		deps.BuildPredictor = predictor.Builder(predictor.Config{
			Epochs:        20,
			LearningRate:  0.01,
			ProgressEvery: 10,
		})
	}
	svc, err := New(Config{
		Symbol:    "AAPL",
		Sentiment: 0.3,
		MacroRate: 4.5,
		TimeSteps: 10,
	}, deps, nil)
	require.NoError(t, err)
	return svc
}

func TestRunProducesForecast(t *testing.T) {
	journal := &fakeJournal{}
	publisher := &fakePublisher{}
	notifier := &fakeNotifier{}
	svc := newTestService(t, Deps{
		Journal:   journal,
		Publisher: publisher,
		Notifier:  notifier,
	})

	f, err := svc.Run(context.Background(), trendCandles(60))
	require.NoError(t, err)

	assert.Equal(t, "AAPL", f.Symbol)
	assert.Len(t, f.RunID, 26, "run ID should be a ULID")
	assert.GreaterOrEqual(t, f.Confidence, confidence.MinConfidence)
	assert.LessOrEqual(t, f.Confidence, confidence.MaxConfidence)
	assert.Contains(t, []string{"bullish", "bearish"}, f.Direction)
	assert.NotEmpty(t, f.Reasoning)
	assert.NotEmpty(t, f.Pattern.Name)
	assert.NotEmpty(t, f.Status.MACDStatus)

	// fan-out reached every collaborator
	require.Len(t, journal.written, 1)
	assert.Equal(t, f.RunID, journal.written[0].RunID)
	require.Len(t, publisher.forecasts, 1)
	require.Len(t, publisher.statuses, 1)
	require.Len(t, notifier.alerts, 1)
}

func TestRunWorksWithoutOptionalDeps(t *testing.T) {
	svc := newTestService(t, Deps{})

	f, err := svc.Run(context.Background(), trendCandles(60))
	require.NoError(t, err)
	assert.NotNil(t, f)
}

func TestRunFailsOnShortHistory(t *testing.T) {
	svc := newTestService(t, Deps{})

	_, err := svc.Run(context.Background(), trendCandles(5))
	require.Error(t, err)
}

func TestRunHonorsCancellation(t *testing.T) {
	svc := newTestService(t, Deps{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, trendCandles(60))
	require.ErrorIs(t, err, context.Canceled)
}

func TestUptrendEndToEnd(t *testing.T) {
	svc, err := New(Config{
		Symbol:    "AAPL",
		Sentiment: 0.5,
		MacroRate: 80,
		TimeSteps: 10,
	}, Deps{
		BuildPredictor: predictor.Builder(predictor.DefaultConfig()),
	}, nil)
	require.NoError(t, err)

	f, err := svc.Run(context.Background(), trendCandles(40))
	require.NoError(t, err)

	// 40 points is enough history for both status labels
	assert.NotEqual(t, status.InsufficientData, f.Status.MACDStatus)
	assert.NotEqual(t, status.InsufficientData, f.Status.BBStatus)
	assert.Greater(t, f.TargetPrice, 0.0)
}

func TestNewRequiresPredictorBuilder(t *testing.T) {
	_, err := New(Config{Symbol: "AAPL"}, Deps{}, nil)
	require.Error(t, err)
}
