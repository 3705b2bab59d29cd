package indicator

// SMA computes the simple moving average of each trailing window of length
// period. Slots before index period-1 are absent. A rolling sum keeps the
// pass O(n) regardless of period.
func SMA(prices []float64, period int) Series {
	out := NewSeries(len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}

	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out.Set(i, sum/float64(period))
		}
	}
	return out
}
