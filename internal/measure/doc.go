// Package measure propagates one-sigma measurement uncertainty through
// arithmetic.
//
// Errors are assumed independent and uncorrelated (first-order Gaussian
// propagation):
//
//   - [Measurement.Add]: absolute uncertainties add in quadrature
//   - [Measurement.Mul], [Measurement.Div]: relative uncertainties add in quadrature
//   - [Measurement.AddScalar], [Measurement.Scale], [Measurement.DivScalar]: exact constants
//
// The generic entry points [Add], [Multiply] and [Divide] accept any
// [Operand] pairing that includes a Measurement.
//
// # Example
//
//	length := measure.New(10.0, 0.1)
//	width := measure.New(5.0, 0.1)
//	area, _ := length.Mul(width)
//	fmt.Println(area) // 50 ± 1.12
//
// # Zero values
//
// The relative-error rule is undefined when an operand's value is exactly
// zero; Mul and Div return [ErrZeroValue] instead of NaN.
package measure
