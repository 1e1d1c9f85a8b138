package measure

import (
	"fmt"
	"math"
)

// Measurement is a value with its one-sigma uncertainty. The zero value is
// an exact 0.
type Measurement struct {
	value       float64
	uncertainty float64
}

// New returns a measurement; the sign of uncertainty is discarded.
func New(value, uncertainty float64) Measurement {
	return Measurement{value: value, uncertainty: math.Abs(uncertainty)}
}

func (m Measurement) Value() float64       { return m.value }
func (m Measurement) Uncertainty() float64 { return m.uncertainty }

// RelativeUncertainty returns uncertainty/|value|.
func (m Measurement) RelativeUncertainty() (float64, error) {
	if m.value == 0 {
		return 0, ErrZeroValue
	}
	return m.uncertainty / math.Abs(m.value), nil
}

// Add returns m+o with uncertainties added in quadrature.
func (m Measurement) Add(o Measurement) Measurement {
	return Measurement{
		value:       m.value + o.value,
		uncertainty: math.Sqrt(m.uncertainty*m.uncertainty + o.uncertainty*o.uncertainty),
	}
}

// AddScalar shifts m by an exact constant.
func (m Measurement) AddScalar(c float64) Measurement {
	return Measurement{value: m.value + c, uncertainty: m.uncertainty}
}

// Mul returns m*o. Both values must be non-zero.
func (m Measurement) Mul(o Measurement) (Measurement, error) {
	value := m.value * o.value
	u, err := relativeQuadrature(value, m, o)
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{value: value, uncertainty: u}, nil
}

// Scale returns m*c.
func (m Measurement) Scale(c float64) Measurement {
	return Measurement{value: m.value * c, uncertainty: m.uncertainty * math.Abs(c)}
}

// Div returns m/o. Both values must be non-zero.
func (m Measurement) Div(o Measurement) (Measurement, error) {
	if o.value == 0 {
		return Measurement{}, ErrZeroValue
	}
	value := m.value / o.value
	u, err := relativeQuadrature(value, m, o)
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{value: value, uncertainty: u}, nil
}

// DivScalar returns m/c.
func (m Measurement) DivScalar(c float64) (Measurement, error) {
	if c == 0 {
		return Measurement{}, ErrDivideByZero
	}
	return Measurement{value: m.value / c, uncertainty: m.uncertainty / math.Abs(c)}, nil
}

// relativeQuadrature is |result|·sqrt((ua/a)²+(ub/b)²), shared by products
// and quotients.
func relativeQuadrature(result float64, a, b Measurement) (float64, error) {
	ra, err := a.RelativeUncertainty()
	if err != nil {
		return 0, err
	}
	rb, err := b.RelativeUncertainty()
	if err != nil {
		return 0, err
	}
	return math.Abs(result) * math.Sqrt(ra*ra+rb*rb), nil
}

// String renders "value ± uncertainty" to 3 significant digits.
func (m Measurement) String() string {
	return fmt.Sprintf("%.3g ± %.3g", m.value, m.uncertainty)
}
