package predictor

import (
	"context"
	"errors"
	"math"
	"testing"

	"forecast-systemv1/internal/model"
)

// constantDataset builds windows whose target is always the same scalar —
// the regressor should drive its output straight to it.
func constantDataset(count, timeSteps, features int, target float64) ([][][]float64, []float64) {
	windows := make([][][]float64, count)
	targets := make([]float64, count)
	for i := range windows {
		window := make([][]float64, timeSteps)
		for j := range window {
			vec := make([]float64, features)
			for k := range vec {
				vec[k] = 0.5
			}
			window[j] = vec
		}
		windows[i] = window
		targets[i] = target
	}
	return windows, targets
}

func TestTrain_ConvergesOnConstantTarget(t *testing.T) {
	windows, targets := constantDataset(20, 5, 7, 0.5)
	m := NewLinear(5, 7, Config{Epochs: 200, LearningRate: 0.01, ProgressEvery: 50})

	loss, err := m.Train(context.Background(), windows, targets, nil)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if loss > 0.001 {
		t.Errorf("final loss = %.6f, want < 0.001", loss)
	}

	got, err := m.Predict(windows[0])
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if math.Abs(got-0.5) > 0.05 {
		t.Errorf("prediction = %.4f, want ≈ 0.5", got)
	}
}

func TestTrain_ProgressCallbacks(t *testing.T) {
	windows, targets := constantDataset(10, 3, 7, 0.4)
	m := NewLinear(3, 7, Config{Epochs: 40, LearningRate: 0.01, ProgressEvery: 10})

	var progress []model.TrainProgress
	_, err := m.Train(context.Background(), windows, targets, func(p model.TrainProgress) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	if len(progress) != 4 {
		t.Fatalf("got %d progress callbacks, want 4", len(progress))
	}
	for i, p := range progress {
		if p.Fraction <= 0 || p.Fraction > 1 {
			t.Errorf("callback %d: fraction %.3f outside (0,1]", i, p.Fraction)
		}
	}
	last := progress[len(progress)-1]
	if last.Epoch != 40 || last.Fraction != 1.0 {
		t.Errorf("last callback = epoch %d fraction %.3f, want 40 / 1.0", last.Epoch, last.Fraction)
	}
}

func TestTrain_Cancellation(t *testing.T) {
	windows, targets := constantDataset(10, 3, 7, 0.4)
	m := NewLinear(3, 7, Config{Epochs: 1000, LearningRate: 0.001, ProgressEvery: 100})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Train(ctx, windows, targets, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Train with cancelled ctx: err = %v, want context.Canceled", err)
	}
}

func TestTrain_InputValidation(t *testing.T) {
	m := NewLinear(3, 7, DefaultConfig())

	if _, err := m.Train(context.Background(), nil, nil, nil); err == nil {
		t.Error("Train with no windows should fail")
	}

	windows, _ := constantDataset(5, 3, 7, 0.4)
	if _, err := m.Train(context.Background(), windows, []float64{0.1}, nil); err == nil {
		t.Error("Train with mismatched targets should fail")
	}
}

func TestPredict_ShapeValidation(t *testing.T) {
	m := NewLinear(3, 7, DefaultConfig())

	if _, err := m.Predict(make([][]float64, 2)); err == nil {
		t.Error("Predict with wrong step count should fail")
	}

	bad := [][]float64{make([]float64, 7), make([]float64, 7), make([]float64, 3)}
	if _, err := m.Predict(bad); err == nil {
		t.Error("Predict with wrong feature width should fail")
	}
}
