package indicator

import "math"

// StdDev computes the population standard deviation of each trailing window
// of length period around the supplied mean series. The mean is taken from
// meanSeries rather than recomputed so Bollinger reuses its single SMA pass;
// slots where the mean is absent stay absent here too.
func StdDev(prices []float64, period int, meanSeries Series) Series {
	out := NewSeries(len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}

	for i := period - 1; i < len(prices); i++ {
		mean, ok := meanSeries.At(i)
		if !ok {
			continue
		}
		var sumSq float64
		for j := i - period + 1; j <= i; j++ {
			d := prices[j] - mean
			sumSq += d * d
		}
		out.Set(i, math.Sqrt(sumSq/float64(period)))
	}
	return out
}
