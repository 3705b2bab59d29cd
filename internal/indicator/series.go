// Package indicator provides batch technical indicator calculations over
// price series.
//
// Every function returns output index-aligned with its input: position i of
// an output Series corresponds to position i of the input prices, and slots
// inside an indicator's warm-up window are absent rather than zero. Absence
// is an explicit per-slot marker — indicator math never conflates it with a
// numeric zero; only the feature-normalization boundary substitutes neutral
// defaults, and it does so deliberately.
package indicator

// Series is an ordered sequence of indicator values aligned to the index of
// the price series that produced it. Each slot is either defined or absent.
type Series struct {
	values  []float64
	defined []bool
}

// NewSeries creates an all-absent series of length n.
func NewSeries(n int) Series {
	return Series{
		values:  make([]float64, n),
		defined: make([]bool, n),
	}
}

// Len returns the series length (equal to the input length).
func (s Series) Len() int { return len(s.values) }

// At returns the value at index i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s.values) || !s.defined[i] {
		return 0, false
	}
	return s.values[i], true
}

// Defined reports whether the slot at index i holds a value.
func (s Series) Defined(i int) bool {
	return i >= 0 && i < len(s.defined) && s.defined[i]
}

// Set marks the slot at index i as defined with the given value.
func (s *Series) Set(i int, v float64) {
	s.values[i] = v
	s.defined[i] = true
}

// FirstDefined returns the index of the first defined slot, or -1.
func (s Series) FirstDefined() int {
	for i, ok := range s.defined {
		if ok {
			return i
		}
	}
	return -1
}

// Compact returns the defined values in index order, dropping absent slots.
// Used by MACD to run the signal EMA over a gap-free array.
func (s Series) Compact() []float64 {
	out := make([]float64, 0, len(s.values))
	for i, ok := range s.defined {
		if ok {
			out = append(out, s.values[i])
		}
	}
	return out
}
