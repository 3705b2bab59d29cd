// Package predictor provides the default model.Predictor implementation:
// a stochastic-gradient-descent linear regressor over the flattened feature
// window. It makes no architecture claims — it exists to exercise the
// build/train/predict contract with real numbers, and callers may swap in
// any other implementation of the port.
package predictor

import (
	"context"
	"fmt"

	"forecast-systemv1/internal/model"
)

// Config holds the training hyperparameters.
type Config struct {
	Epochs        int     `yaml:"epochs"`
	LearningRate  float64 `yaml:"learning_rate"`
	ProgressEvery int     `yaml:"progress_every"` // epochs between progress callbacks
}

// DefaultConfig returns the default hyperparameters.
func DefaultConfig() Config {
	return Config{
		Epochs:        100,
		LearningRate:  0.01,
		ProgressEvery: 10,
	}
}

// Linear is an SGD linear regressor over flattened windows. Weights start
// at zero so runs are deterministic for a given dataset.
type Linear struct {
	timeSteps    int
	featureCount int
	cfg          Config

	weights []float64
	bias    float64
}

var _ model.Predictor = (*Linear)(nil)

// NewLinear builds a fresh regressor sized for the given window shape.
func NewLinear(timeSteps, featureCount int, cfg Config) *Linear {
	if cfg.Epochs <= 0 {
		cfg.Epochs = DefaultConfig().Epochs
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = DefaultConfig().LearningRate
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = DefaultConfig().ProgressEvery
	}
	return &Linear{
		timeSteps:    timeSteps,
		featureCount: featureCount,
		cfg:          cfg,
		weights:      make([]float64, timeSteps*featureCount),
	}
}

// Builder adapts NewLinear to the model.PredictorBuilder port.
func Builder(cfg Config) model.PredictorBuilder {
	return func(timeSteps, featureCount int) model.Predictor {
		return NewLinear(timeSteps, featureCount, cfg)
	}
}

// Train runs SGD over the windows for the configured number of epochs.
// Cancellation is honored between epochs — the only points where a caller
// can abandon an in-flight task — and progress is reported every
// ProgressEvery epochs plus once at the end.
func (m *Linear) Train(ctx context.Context, windows [][][]float64, targets []float64, onProgress model.ProgressFunc) (float64, error) {
	if len(windows) == 0 {
		return 0, fmt.Errorf("predictor: no training windows")
	}
	if len(windows) != len(targets) {
		return 0, fmt.Errorf("predictor: %d windows vs %d targets", len(windows), len(targets))
	}

	var loss float64
	for epoch := 1; epoch <= m.cfg.Epochs; epoch++ {
		select {
		case <-ctx.Done():
			return loss, ctx.Err()
		default:
		}

		var sumSq float64
		for i, window := range windows {
			x, err := m.flatten(window)
			if err != nil {
				return loss, err
			}
			residual := m.forward(x) - targets[i]
			sumSq += residual * residual

			step := m.cfg.LearningRate * residual
			for j, xj := range x {
				m.weights[j] -= step * xj
			}
			m.bias -= step
		}
		loss = sumSq / float64(len(windows))

		if onProgress != nil && (epoch%m.cfg.ProgressEvery == 0 || epoch == m.cfg.Epochs) {
			onProgress(model.TrainProgress{
				Epoch:    epoch,
				Fraction: float64(epoch) / float64(m.cfg.Epochs),
				Loss:     loss,
			})
		}
	}
	return loss, nil
}

// Predict returns the regressor's output for one window.
func (m *Linear) Predict(window [][]float64) (float64, error) {
	x, err := m.flatten(window)
	if err != nil {
		return 0, err
	}
	return m.forward(x), nil
}

func (m *Linear) forward(x []float64) float64 {
	out := m.bias
	for j, xj := range x {
		out += m.weights[j] * xj
	}
	return out
}

func (m *Linear) flatten(window [][]float64) ([]float64, error) {
	if len(window) != m.timeSteps {
		return nil, fmt.Errorf("predictor: window has %d steps, model built for %d", len(window), m.timeSteps)
	}
	x := make([]float64, 0, m.timeSteps*m.featureCount)
	for i, vec := range window {
		if len(vec) != m.featureCount {
			return nil, fmt.Errorf("predictor: step %d has %d features, model built for %d", i, len(vec), m.featureCount)
		}
		x = append(x, vec...)
	}
	return x, nil
}
