package measure

import "errors"

// Domain errors for uncertainty propagation.
var (
	// ErrZeroValue indicates a relative uncertainty was needed for a
	// measurement whose value is exactly zero.
	ErrZeroValue = errors.New("measure: relative uncertainty undefined for zero value")

	// ErrDivideByZero indicates division by an exact zero scalar.
	ErrDivideByZero = errors.New("measure: division by zero")

	// ErrUnsupportedOperands indicates an operand pairing with no
	// propagation rule, such as two scalars.
	ErrUnsupportedOperands = errors.New("measure: unsupported operand pairing")

	// ErrLengthMismatch indicates value and uncertainty sequences differ in length.
	ErrLengthMismatch = errors.New("measure: values and uncertainties differ in length")

	// ErrEmpty indicates an aggregate over no measurements.
	ErrEmpty = errors.New("measure: no measurements")

	// ErrComplexPower indicates a negative value raised to a non-integer power.
	ErrComplexPower = errors.New("measure: negative value raised to a non-integer power")
)
