// Package notification provides alert delivery to external channels
// (webhooks, Telegram) for completed forecast runs.
package notification

import (
	"context"
	"fmt"
	"log"

	"forecast-systemv1/internal/model"
)

// AlertLevel represents the severity of an alert.
type AlertLevel string

const (
	AlertInfo     AlertLevel = "INFO"
	AlertWarning  AlertLevel = "WARNING"
	AlertCritical AlertLevel = "CRITICAL"
)

// Alert represents a notification to be sent.
type Alert struct {
	Level   AlertLevel  `json:"level"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Notifier is the interface for all notification backends.
type Notifier interface {
	// Send delivers an alert. Returns error if delivery fails.
	Send(ctx context.Context, alert Alert) error
}

// FromForecast builds an alert for a completed forecast run. High-confidence
// bearish forecasts are raised to WARNING so downside calls stand out.
func FromForecast(f model.Forecast) Alert {
	level := AlertInfo
	if f.Direction == "bearish" && f.Confidence >= 80 {
		level = AlertWarning
	}
	return Alert{
		Level: level,
		Title: fmt.Sprintf("%s forecast: %s", f.Symbol, f.Direction),
		Message: fmt.Sprintf("target %.2f from %.2f, confidence %.0f%% (%s)",
			f.TargetPrice, f.LastClose, f.Confidence, f.Pattern.Name),
		Data: &f,
	}
}

// LogNotifier is a simple notifier that logs alerts (useful for development).
type LogNotifier struct{}

// NewLogNotifier creates a log-based notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, alert Alert) error {
	log.Printf("[notify] [%s] %s: %s", alert.Level, alert.Title, alert.Message)
	return nil
}
