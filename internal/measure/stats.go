package measure

import "math"

// Sum adds all measurements, combining uncertainties in quadrature.
func Sum(ms []Measurement) (Measurement, error) {
	if len(ms) == 0 {
		return Measurement{}, ErrEmpty
	}
	var total Measurement
	for _, m := range ms {
		total = total.Add(m)
	}
	return total, nil
}

// Mean returns the arithmetic mean with uncertainty sqrt(Σu²)/n.
func Mean(ms []Measurement) (Measurement, error) {
	total, err := Sum(ms)
	if err != nil {
		return Measurement{}, err
	}
	return total.DivScalar(float64(len(ms)))
}

// Values returns the central values of ms.
func Values(ms []Measurement) []float64 {
	out := make([]float64, len(ms))
	for i, m := range ms {
		out[i] = m.value
	}
	return out
}

// Uncertainties returns the uncertainties of ms.
func Uncertainties(ms []Measurement) []float64 {
	out := make([]float64, len(ms))
	for i, m := range ms {
		out[i] = m.uncertainty
	}
	return out
}

// Pow raises m to a constant exponent: u = |n·v^(n-1)|·u_m.
func (m Measurement) Pow(n float64) (Measurement, error) {
	if m.value == 0 && n < 1 {
		return Measurement{}, ErrZeroValue
	}
	if m.value < 0 && n != math.Trunc(n) {
		return Measurement{}, ErrComplexPower
	}
	v := math.Pow(m.value, n)
	return Measurement{value: v, uncertainty: math.Abs(n*math.Pow(m.value, n-1)) * m.uncertainty}, nil
}
