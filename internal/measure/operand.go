package measure

import "fmt"

// Operand is either a Measurement or a Scalar.
type Operand interface {
	operand()
}

// Scalar is an exact number with no uncertainty.
type Scalar float64

func (Measurement) operand() {}
func (Scalar) operand()      {}

// Add propagates a+b for any pairing that includes a Measurement.
func Add(a, b Operand) (Measurement, error) {
	switch x := a.(type) {
	case Measurement:
		switch y := b.(type) {
		case Measurement:
			return x.Add(y), nil
		case Scalar:
			return x.AddScalar(float64(y)), nil
		}
	case Scalar:
		if y, ok := b.(Measurement); ok {
			return y.AddScalar(float64(x)), nil
		}
	}
	return Measurement{}, unsupported("add", a, b)
}

// Multiply propagates a*b. Scalar order does not matter.
func Multiply(a, b Operand) (Measurement, error) {
	switch x := a.(type) {
	case Measurement:
		switch y := b.(type) {
		case Measurement:
			return x.Mul(y)
		case Scalar:
			return x.Scale(float64(y)), nil
		}
	case Scalar:
		if y, ok := b.(Measurement); ok {
			return y.Scale(float64(x)), nil
		}
	}
	return Measurement{}, unsupported("multiply", a, b)
}

// Divide propagates a/b. The dividend must be a Measurement.
func Divide(a, b Operand) (Measurement, error) {
	x, ok := a.(Measurement)
	if !ok {
		return Measurement{}, unsupported("divide", a, b)
	}
	switch y := b.(type) {
	case Measurement:
		return x.Div(y)
	case Scalar:
		return x.DivScalar(float64(y))
	}
	return Measurement{}, unsupported("divide", a, b)
}

func unsupported(op string, a, b Operand) error {
	return fmt.Errorf("%w: %s %T and %T", ErrUnsupportedOperands, op, a, b)
}
