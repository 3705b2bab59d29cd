// Package ingest loads historical candle data from CSV exports.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"forecast-systemv1/internal/model"
)

// Accepted timestamp layouts, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LoadCSV reads candles for one symbol from a CSV file with a
// date,open,high,low,close,volume header. Column order is taken from the
// header, so extra columns and reordered exports both work. Rows are
// returned in ascending timestamp order.
func LoadCSV(path, symbol string) ([]model.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	candles, err := Parse(f, symbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return candles, nil
}

// Parse reads candles from r. See LoadCSV.
func Parse(r io.Reader, symbol string) ([]model.Candle, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "open", "high", "low", "close"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var candles []model.Candle
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		ts, err := parseTime(record[cols["date"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		c := model.Candle{Symbol: symbol, TS: ts}
		if c.Open, err = parseField(record, cols, "open"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if c.High, err = parseField(record, cols, "high"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if c.Low, err = parseField(record, cols, "low"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if c.Close, err = parseField(record, cols, "close"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if idx, ok := cols["volume"]; ok && idx < len(record) {
			if c.Volume, err = parseField(record, cols, "volume"); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
		candles = append(candles, c)
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].TS.Before(candles[j].TS)
	})
	return candles, nil
}

func parseField(record []string, cols map[string]int, name string) (float64, error) {
	idx := cols[name]
	if idx >= len(record) {
		return 0, fmt.Errorf("missing %s value", name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return v, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
