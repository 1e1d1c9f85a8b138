package fit

import (
	"errors"
	"fmt"
)

// Domain errors for fitting operations.
var (
	// ErrDimensionMismatch indicates x and y series of different lengths.
	ErrDimensionMismatch = errors.New("fit: x and y lengths differ")

	// ErrInsufficientData indicates no more points than free parameters.
	ErrInsufficientData = errors.New("fit: not enough data points for parameter count")

	// ErrBadGuess indicates an initial guess of the wrong length or with non-finite entries.
	ErrBadGuess = errors.New("fit: initial guess does not match model parameters")

	// ErrNotConverged indicates the solver exhausted its iteration budget.
	ErrNotConverged = errors.New("fit: solver did not converge")

	// ErrNonFinite indicates the model produced NaN or Inf.
	ErrNonFinite = errors.New("fit: model produced non-finite values")

	// ErrSingularCovariance indicates JᵀJ could not be inverted or the
	// covariance has a non-positive diagonal.
	ErrSingularCovariance = errors.New("fit: singular covariance matrix")

	// ErrInvalidSigma indicates a non-positive per-point measurement error.
	ErrInvalidSigma = errors.New("fit: measurement error must be positive")
)

// Error wraps a fit failure with solver context.
type Error struct {
	Model      string
	Iterations int
	Params     []float64
	Wrapped    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (model %s, %d iterations, params %.4g)", e.Wrapped, e.Model, e.Iterations, e.Params)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}
