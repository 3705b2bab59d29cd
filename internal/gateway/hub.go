// Package gateway exposes forecasts over WebSocket and REST. The hub keeps
// the latest forecast and market status per symbol in memory and fans new
// forecasts out to connected clients as they are produced.
package gateway

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"forecast-systemv1/internal/metrics"
	"forecast-systemv1/internal/model"

	"github.com/gorilla/websocket"
)

// Hub manages WebSocket clients and the latest forecast state.
type Hub struct {
	journal model.ForecastJournal // optional, backs /api/forecast/history
	prom    *metrics.Metrics      // optional

	mu      sync.RWMutex
	clients map[*Client]bool
	latest  map[string]model.Forecast
	status  map[string]model.MarketStatus
}

// NewHub creates a new Hub. journal and prom may be nil.
func NewHub(journal model.ForecastJournal, prom *metrics.Metrics) *Hub {
	return &Hub{
		journal: journal,
		prom:    prom,
		clients: make(map[*Client]bool),
		latest:  make(map[string]model.Forecast),
		status:  make(map[string]model.MarketStatus),
	}
}

// Publish records a completed forecast and broadcasts it to all clients.
func (h *Hub) Publish(f model.Forecast) {
	envelope, _ := json.Marshal(map[string]interface{}{
		"type": "forecast",
		"data": &f,
		"ts":   time.Now().UTC().Format(time.RFC3339Nano),
	})

	h.mu.Lock()
	h.latest[f.Symbol] = f
	h.status[f.Symbol] = f.Status
	for client := range h.clients {
		select {
		case client.send <- envelope:
		default:
			// slow client, drop the message rather than block the producer
		}
	}
	h.mu.Unlock()
}

// HandleWSRequest registers an upgraded connection and starts its pumps.
func (h *Hub) HandleWSRequest(conn *websocket.Conn) {
	client := &Client{
		conn: conn,
		send: make(chan []byte, 64),
		hub:  h,
	}

	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	if h.prom != nil {
		h.prom.WSClients.Set(float64(count))
	}
	log.Printf("[gateway] ws client connected (%d total)", count)

	go client.sendInitialState()
	go client.writePump()
	go client.readPump()
}

// RemoveClient removes a client from the hub.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()
	close(c.send)

	if h.prom != nil {
		h.prom.WSClients.Set(float64(count))
	}
}

// LatestForecast returns the most recent forecast for a symbol.
func (h *Hub) LatestForecast(symbol string) (model.Forecast, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	f, ok := h.latest[symbol]
	return f, ok
}

// LatestAll returns a snapshot of the latest forecast per symbol.
func (h *Hub) LatestAll() map[string]model.Forecast {
	h.mu.RLock()
	defer h.mu.RUnlock()
	cp := make(map[string]model.Forecast, len(h.latest))
	for k, v := range h.latest {
		cp[k] = v
	}
	return cp
}

// LatestStatus returns the most recent market status for a symbol.
func (h *Hub) LatestStatus(symbol string) (model.MarketStatus, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.status[symbol]
	return s, ok
}

// ClientCount returns the number of connected WS clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
