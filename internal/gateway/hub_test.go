package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"forecast-systemv1/internal/model"

	"github.com/gorilla/websocket"
)

func testForecast(symbol string) model.Forecast {
	return model.Forecast{
		RunID:       "run-1",
		Symbol:      symbol,
		TS:          time.Date(2024, 6, 3, 15, 30, 0, 0, time.UTC),
		LastClose:   182.50,
		TargetPrice: 184.10,
		Confidence:  72,
		Direction:   "bullish",
		Pattern:     model.PatternResult{Name: "Hammer", Score: 0.8},
		Status: model.MarketStatus{
			MACDStatus: "Bullish Momentum",
			BBStatus:   "Trading in Range",
		},
		TrainLoss: 0.012,
	}
}

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil, nil)
	mux := http.NewServeMux()
	RegisterRoutes(mux, hub, "AAPL", time.Now())
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return hub, srv
}

func TestLatestForecastEndpoint(t *testing.T) {
	hub, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/forecast/latest")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 before any forecast, got %d", resp.StatusCode)
	}

	hub.Publish(testForecast("AAPL"))

	resp, err = http.Get(srv.URL + "/api/forecast/latest?symbol=AAPL")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got model.Forecast
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Symbol != "AAPL" || got.TargetPrice != 184.10 {
		t.Fatalf("unexpected forecast: %+v", got)
	}
}

func TestStatusEndpoint(t *testing.T) {
	hub, srv := newTestServer(t)
	hub.Publish(testForecast("AAPL"))

	resp, err := http.Get(srv.URL + "/api/status?symbol=AAPL")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got model.MarketStatus
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.MACDStatus != "Bullish Momentum" {
		t.Fatalf("unexpected status: %+v", got)
	}
}

func TestHistoryWithoutJournal(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/forecast/history")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestWSBroadcast(t *testing.T) {
	hub, srv := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// Wait for the hub to register the client before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Publish(testForecast("AAPL"))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}

	var envelope struct {
		Type string         `json:"type"`
		Data model.Forecast `json:"data"`
	}
	if err := json.Unmarshal(msg, &envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Type != "forecast" || envelope.Data.Symbol != "AAPL" {
		t.Fatalf("unexpected envelope: %s", msg)
	}
}

func TestWSInitialState(t *testing.T) {
	hub, srv := newTestServer(t)
	hub.Publish(testForecast("AAPL"))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}

	var envelope struct {
		Initial bool           `json:"initial"`
		Data    model.Forecast `json:"data"`
	}
	if err := json.Unmarshal(msg, &envelope); err != nil {
		t.Fatal(err)
	}
	if !envelope.Initial || envelope.Data.Symbol != "AAPL" {
		t.Fatalf("unexpected initial envelope: %s", msg)
	}
}
