package indicator

// Default Bollinger parameters.
const (
	DefaultBollingerPeriod = 20
	DefaultBollingerK      = 2.0
)

// Bands holds the three Bollinger band series, index-aligned with the input
// prices. All three are absent together before the warm-up completes.
type Bands struct {
	Middle Series
	Upper  Series
	Lower  Series
}

// BollingerBands computes middle = SMA(period) and upper/lower =
// middle ± k*StdDev(period), with the standard deviation taken around the
// same SMA pass.
func BollingerBands(prices []float64, period int, k float64) Bands {
	middle := SMA(prices, period)
	sd := StdDev(prices, period, middle)

	upper := NewSeries(len(prices))
	lower := NewSeries(len(prices))
	for i := range prices {
		m, ok := middle.At(i)
		if !ok {
			continue
		}
		s, ok := sd.At(i)
		if !ok {
			continue
		}
		upper.Set(i, m+k*s)
		lower.Set(i, m-k*s)
	}
	return Bands{Middle: middle, Upper: upper, Lower: lower}
}
