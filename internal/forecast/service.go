// Package forecast is the top-level orchestrator: it takes candle history
// through pattern enrichment, feature building, model training and
// confidence scoring, then fans the finished forecast out to the journal,
// Redis and notification channels.
package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"forecast-systemv1/internal/confidence"
	"forecast-systemv1/internal/feature"
	"forecast-systemv1/internal/logger"
	"forecast-systemv1/internal/metrics"
	"forecast-systemv1/internal/model"
	"forecast-systemv1/internal/notification"
	"forecast-systemv1/internal/pattern"
	"forecast-systemv1/internal/status"
)

// Config holds the per-run knobs of the pipeline.
type Config struct {
	Symbol    string
	Sentiment float64 // [-1, 1]
	MacroRate float64 // interest rate, percent
	TimeSteps int
}

// Deps are the pipeline's collaborators. Everything except BuildPredictor
// is optional; nil dependencies are skipped.
type Deps struct {
	Journal        model.ForecastJournal
	Publisher      model.ForecastPublisher
	Notifier       notification.Notifier
	Metrics        *metrics.Metrics
	Health         *metrics.HealthStatus
	BuildPredictor model.PredictorBuilder
}

// Service runs the forecast pipeline.
type Service struct {
	cfg  Config
	deps Deps
	log  *slog.Logger
}

// New creates a forecast Service.
func New(cfg Config, deps Deps, log *slog.Logger) (*Service, error) {
	if deps.BuildPredictor == nil {
		return nil, fmt.Errorf("forecast: BuildPredictor is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{cfg: cfg, deps: deps, log: log}, nil
}

// Run executes one complete forecast over the supplied candle history and
// returns the finished forecast. Fan-out failures (journal, Redis,
// notifications) are logged and counted but do not fail the run.
func (s *Service) Run(ctx context.Context, candles []model.Candle) (*model.Forecast, error) {
	start := time.Now()
	runID := logger.NewRunID()
	ctx = logger.WithRunID(ctx, runID)

	s.log.Info("forecast run starting",
		append([]any{slog.String("symbol", s.cfg.Symbol), slog.Int("candles", len(candles))},
			logger.LogWithRun(ctx)...)...)

	enriched := pattern.Enrich(candles)

	ds, err := feature.Build(enriched, s.cfg.Sentiment, s.cfg.MacroRate, s.cfg.TimeSteps)
	if err != nil {
		s.countError()
		return nil, fmt.Errorf("build features: %w", err)
	}

	p := s.deps.BuildPredictor(ds.TimeSteps, feature.VectorWidth)

	trainStart := time.Now()
	loss, err := p.Train(ctx, ds.Windows, ds.Targets, func(tp model.TrainProgress) {
		s.log.Info("training progress",
			append([]any{
				slog.Int("epoch", tp.Epoch),
				slog.Float64("fraction", tp.Fraction),
				slog.Float64("loss", tp.Loss),
			}, logger.LogWithRun(ctx)...)...)
	})
	if err != nil {
		s.countError()
		return nil, fmt.Errorf("train: %w", err)
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.TrainDuration.Observe(time.Since(trainStart).Seconds())
		s.deps.Metrics.TrainLoss.Set(loss)
	}

	raw, err := p.Predict(ds.Latest)
	if err != nil {
		s.countError()
		return nil, fmt.Errorf("predict: %w", err)
	}

	closes := model.Closes(enriched)
	lastClose := closes[len(closes)-1]
	lastPattern := enriched[len(enriched)-1].Pattern()

	in := confidence.Input{
		TargetPrice: ds.DenormalizeClose(raw),
		LastClose:   lastClose,
		TrainLoss:   loss,
		Pattern:     lastPattern,
		Sentiment:   s.cfg.Sentiment,
	}
	scored := confidence.Score(in)

	f := &model.Forecast{
		RunID:       runID,
		Symbol:      s.cfg.Symbol,
		TS:          time.Now().UTC(),
		LastClose:   lastClose,
		TargetPrice: scored.TargetPrice,
		Confidence:  scored.Confidence,
		Reasoning:   scored.Reasoning,
		Direction:   in.Direction(),
		Pattern:     lastPattern,
		Status:      status.Summarize(closes),
		TrainLoss:   loss,
	}

	s.fanOut(ctx, f)

	if s.deps.Metrics != nil {
		s.deps.Metrics.ForecastsTotal.WithLabelValues(f.Direction).Inc()
		s.deps.Metrics.LastConfidence.Set(f.Confidence)
		s.deps.Metrics.LastTargetPrice.Set(f.TargetPrice)
		s.deps.Metrics.PipelineDur.Observe(time.Since(start).Seconds())
	}
	if s.deps.Health != nil {
		s.deps.Health.SetLastForecastAt(f.TS)
	}

	s.log.Info("forecast complete",
		append([]any{
			slog.String("symbol", f.Symbol),
			slog.String("direction", f.Direction),
			slog.Float64("target", f.TargetPrice),
			slog.Float64("confidence", f.Confidence),
			slog.Float64("loss", f.TrainLoss),
			slog.Duration("elapsed", time.Since(start)),
		}, logger.LogWithRun(ctx)...)...)

	return f, nil
}

// fanOut delivers a finished forecast to the journal, Redis and notifiers.
func (s *Service) fanOut(ctx context.Context, f *model.Forecast) {
	if s.deps.Journal != nil {
		if err := s.deps.Journal.WriteForecast(*f); err != nil {
			s.log.Error("journal write failed", append([]any{slog.Any("err", err)},
				logger.LogWithRun(ctx)...)...)
		}
	}
	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.PublishForecast(ctx, *f); err != nil {
			s.countPublishError()
			s.log.Error("redis publish failed", append([]any{slog.Any("err", err)},
				logger.LogWithRun(ctx)...)...)
		}
		if err := s.deps.Publisher.PublishStatus(ctx, f.Symbol, f.Status); err != nil {
			s.countPublishError()
			s.log.Error("status publish failed", append([]any{slog.Any("err", err)},
				logger.LogWithRun(ctx)...)...)
		}
	}
	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.Send(ctx, notification.FromForecast(*f)); err != nil {
			s.log.Error("notification failed", append([]any{slog.Any("err", err)},
				logger.LogWithRun(ctx)...)...)
		}
	}
}

func (s *Service) countError() {
	if s.deps.Metrics != nil {
		s.deps.Metrics.ForecastErrors.Inc()
	}
}

func (s *Service) countPublishError() {
	if s.deps.Metrics != nil {
		s.deps.Metrics.PublishErrors.Inc()
	}
}
