package gateway

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	EnableCompression: true,
}

// SetCORS sets CORS headers for REST endpoints.
func SetCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// RegisterRoutes registers all HTTP routes on the provided mux.
func RegisterRoutes(mux *http.ServeMux, hub *Hub, defaultSymbol string, processStart time.Time) {
	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[gateway] ws upgrade error: %v", err)
			return
		}
		hub.HandleWSRequest(conn)
	})

	// REST: latest forecast for a symbol
	mux.HandleFunc("/api/forecast/latest", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		w.Header().Set("Content-Type", "application/json")

		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			symbol = defaultSymbol
		}

		f, ok := hub.LatestForecast(symbol)
		if !ok {
			http.Error(w, `{"error":"no forecast yet"}`, http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(&f)
	})

	// REST: recent forecast history from the journal
	mux.HandleFunc("/api/forecast/history", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		w.Header().Set("Content-Type", "application/json")

		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			symbol = defaultSymbol
		}
		limit := 20
		if s := r.URL.Query().Get("limit"); s != "" {
			if l, err := strconv.Atoi(s); err == nil && l > 0 && l <= 500 {
				limit = l
			}
		}

		if hub.journal == nil {
			json.NewEncoder(w).Encode([]interface{}{})
			return
		}
		forecasts, err := hub.journal.ReadRecentForecasts(symbol, limit)
		if err != nil {
			log.Printf("[gateway] history read error: %v", err)
			http.Error(w, `{"error":"history unavailable"}`, http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(forecasts)
	})

	// REST: latest market status for a symbol
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		w.Header().Set("Content-Type", "application/json")

		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			symbol = defaultSymbol
		}

		s, ok := hub.LatestStatus(symbol)
		if !ok {
			http.Error(w, `{"error":"no status yet"}`, http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(s)
	})

	// Health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":     "ok",
			"ws_clients": hub.ClientCount(),
			"uptime_sec": int64(time.Since(processStart).Seconds()),
			"ts":         time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}
