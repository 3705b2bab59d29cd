package indicator

// EMA computes the exponential moving average. The series is seeded with the
// SMA of the first period values at index period-1; thereafter
//
//	ema[i] = price[i]*k + ema[i-1]*(1-k),  k = 2/(period+1)
//
// An input shorter than period yields an all-absent series.
func EMA(prices []float64, period int) Series {
	out := NewSeries(len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}

	k := 2.0 / float64(period+1)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	prev := sum / float64(period)
	out.Set(period-1, prev)

	for i := period; i < len(prices); i++ {
		prev = prices[i]*k + prev*(1-k)
		out.Set(i, prev)
	}
	return out
}
