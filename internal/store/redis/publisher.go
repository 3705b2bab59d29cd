// Package redis publishes completed forecasts and market status to Redis
// for external consumers: a capped stream per symbol for history, a latest
// key for cheap polling, and a PubSub channel for push.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"forecast-systemv1/internal/model"

	goredis "github.com/go-redis/redis/v8"
)

const (
	// Forecast runs are minutes apart at their fastest; a few hundred
	// entries cover days of history.
	streamMaxLen = 500

	defaultLatestTTL = 24 * time.Hour
)

// Config configures the Redis publisher.
type Config struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	DB       int
}

// Publisher writes forecasts and market status to Redis.
type Publisher struct {
	client *goredis.Client
}

// Client returns the underlying Redis client for health checks.
func (p *Publisher) Client() *goredis.Client { return p.client }

// New creates a new Publisher and pings the server.
func New(cfg Config) (*Publisher, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[redis] connected to %s", cfg.Addr)
	return &Publisher{client: client}, nil
}

// PublishForecast writes one forecast in a single pipeline:
// XADD to the symbol stream + SET latest key + PUBLISH for push consumers.
func (p *Publisher) PublishForecast(ctx context.Context, f model.Forecast) error {
	jsonData := string(f.JSON())

	pipe := p.client.Pipeline()
	pipe.XAdd(ctx, &goredis.XAddArgs{
		Stream: f.StreamKey(),
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{"data": jsonData},
	})
	pipe.Set(ctx, "forecast:latest:"+f.Symbol, jsonData, defaultLatestTTL)
	pipe.Publish(ctx, "pub:forecast:"+f.Symbol, jsonData)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis publish forecast: %w", err)
	}
	return nil
}

// PublishStatus refreshes the latest market status for a symbol.
func (p *Publisher) PublishStatus(ctx context.Context, symbol string, s model.MarketStatus) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.Set(ctx, "status:latest:"+symbol, string(data), defaultLatestTTL)
	pipe.Publish(ctx, "pub:status:"+symbol, string(data))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis publish status: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
