// Package sqlite persists candle history and the forecast journal.
package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"forecast-systemv1/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Config configures the SQLite store.
type Config struct {
	DBPath string // path to SQLite database file, e.g. "data/forecast.db"
}

// Store is a single-writer SQLite store for candles and forecasts.
type Store struct {
	db *sql.DB
}

// DB returns the underlying sql.DB for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// New opens the database, enables WAL mode and creates the schema.
func New(cfg Config) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Single-writer connection pool
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[sqlite] opened database at %s", cfg.DBPath)
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS candles (
			symbol   TEXT    NOT NULL,
			ts       INTEGER NOT NULL,
			open     REAL    NOT NULL,
			high     REAL    NOT NULL,
			low      REAL    NOT NULL,
			close    REAL    NOT NULL,
			volume   REAL,
			PRIMARY KEY (symbol, ts)
		);

		CREATE TABLE IF NOT EXISTS forecasts (
			run_id       TEXT    PRIMARY KEY,
			symbol       TEXT    NOT NULL,
			ts           INTEGER NOT NULL,
			last_close   REAL    NOT NULL,
			target_price REAL    NOT NULL,
			confidence   REAL    NOT NULL,
			direction    TEXT    NOT NULL,
			reasoning    TEXT    NOT NULL,
			pattern      TEXT    NOT NULL,
			pattern_score REAL   NOT NULL,
			macd_status  TEXT    NOT NULL,
			bb_status    TEXT    NOT NULL,
			train_loss   REAL    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_forecasts_symbol_ts ON forecasts (symbol, ts DESC);
	`)
	return err
}

// WriteCandles upserts a batch of candles in a single transaction.
// Returns the number of candles written.
func (s *Store) WriteCandles(candles []model.Candle) (int, error) {
	if len(candles) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO candles (symbol, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.Exec(c.Symbol, c.TS.Unix(), c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(candles), nil
}

// ReadCandles returns up to limit candles for a symbol, ordered by timestamp
// ascending — the order every downstream series assumes. limit <= 0 reads
// the whole history.
func (s *Store) ReadCandles(symbol string, limit int) ([]model.Candle, error) {
	// The LIMIT applies to the most recent candles, so select descending
	// and reverse.
	q := `
		SELECT symbol, ts, open, high, low, close, volume
		FROM candles
		WHERE symbol = ?
		ORDER BY ts DESC
	`
	args := []any{symbol}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite query candles: %w", err)
	}
	defer rows.Close()

	var candles []model.Candle
	for rows.Next() {
		var c model.Candle
		var tsUnix int64
		if err := rows.Scan(&c.Symbol, &tsUnix, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("sqlite scan candle: %w", err)
		}
		c.TS = time.Unix(tsUnix, 0).UTC()
		candles = append(candles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}
	return candles, nil
}

// LastCandleTS returns the most recent stored candle timestamp for a symbol.
// Returns 0 if no candles exist.
func (s *Store) LastCandleTS(symbol string) (int64, error) {
	var ts sql.NullInt64
	err := s.db.QueryRow(`SELECT MAX(ts) FROM candles WHERE symbol = ?`, symbol).Scan(&ts)
	if err != nil {
		return 0, err
	}
	if !ts.Valid {
		return 0, nil
	}
	return ts.Int64, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
