package indicator

// Default MACD parameters.
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// MACDResult holds the three MACD series, index-aligned with the input
// prices. Line is defined from index slow-1, Signal and Histogram from
// index slow-1+signal-1.
type MACDResult struct {
	Line      Series
	Signal    Series
	Histogram Series
}

// MACD computes line = EMA(fast) - EMA(slow), defined only where the slow
// EMA is defined. The signal line is an EMA over the COMPACTED line — the
// defined values collapsed into a gap-free array — and is mapped back onto
// the original time axis by offset: compact index j corresponds to original
// index slow-1+j. A naive index copy would shift the signal line left by the
// slow warm-up and misalign every crossover.
func MACD(prices []float64, fast, slow, signal int) MACDResult {
	n := len(prices)
	line := NewSeries(n)
	sig := NewSeries(n)
	hist := NewSeries(n)

	fastEMA := EMA(prices, fast)
	slowEMA := EMA(prices, slow)
	for i := 0; i < n; i++ {
		f, okF := fastEMA.At(i)
		s, okS := slowEMA.At(i)
		if okF && okS {
			line.Set(i, f-s)
		}
	}

	compact := line.Compact()
	sigEMA := EMA(compact, signal)
	offset := slow - 1
	for j := range compact {
		if v, ok := sigEMA.At(j); ok {
			sig.Set(offset+j, v)
		}
	}

	for i := 0; i < n; i++ {
		l, okL := line.At(i)
		s, okS := sig.At(i)
		if okL && okS {
			hist.Set(i, l-s)
		}
	}
	return MACDResult{Line: line, Signal: sig, Histogram: hist}
}
