package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/labfit/internal/measure"
	"github.com/san-kum/labfit/internal/model"
)

// Options configures CurveFit.
type Options struct {
	InitialGuess []float64
	// YError is the assumed one-sigma error of each y value, used for
	// chi-squared.
	YError float64
	// DegreesOfFreedom divides chi-squared; 0 means n − p.
	DegreesOfFreedom int
	Tau, Eps1, Eps2  float64
	Settings         *Settings
}

// Result holds a fit and its derived statistics.
type Result struct {
	Model             string
	ParamNames        []string
	Params            []float64
	StdErr            []float64
	Covariance        *mat.SymDense
	Correlation       *mat.SymDense
	X                 []float64
	Y                 []float64
	Fitted            []float64
	Residuals         []float64
	RMS               float64
	ChiSquared        float64
	ReducedChiSquared float64
	DegreesOfFreedom  int
	Iterations        int
	Status            Status
}

// Estimates returns each parameter with its standard error.
func (r *Result) Estimates() []measure.Measurement {
	out := make([]measure.Measurement, len(r.Params))
	for i := range r.Params {
		out[i] = measure.New(r.Params[i], r.StdErr[i])
	}
	return out
}

// CurveFit fits m to (x, y) by nonlinear least squares. The covariance is
// scaled by the residual variance SSR/(n−p).
func CurveFit(m model.Model, x, y []float64, opts Options) (*Result, error) {
	n, np := len(x), len(m.Params())
	if len(y) != n {
		return nil, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, n, len(y))
	}
	if n <= np {
		return nil, fmt.Errorf("%w: %d points, %d parameters", ErrInsufficientData, n, np)
	}
	if len(opts.InitialGuess) != np {
		return nil, fmt.Errorf("%w: %s needs %d values %v, got %d", ErrBadGuess, m.Name(), np, m.Params(), len(opts.InitialGuess))
	}
	if !(opts.YError > 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidSigma, opts.YError)
	}

	residual := func(dst, p []float64) {
		for i := range x {
			dst[i] = m.Eval(x[i], p) - y[i]
		}
	}

	problem := Problem{
		Dim:        np,
		Size:       n,
		Func:       residual,
		InitParams: opts.InitialGuess,
		Tau:        opts.Tau,
		Eps1:       opts.Eps1,
		Eps2:       opts.Eps2,
	}
	lm, err := LM(problem, opts.Settings)
	if err != nil {
		wrapped := &Error{Model: m.Name(), Wrapped: err}
		if lm != nil {
			wrapped.Iterations = lm.Iterations
			wrapped.Params = lm.X
		}
		return nil, wrapped
	}

	res := &Result{
		Model:      m.Name(),
		ParamNames: m.Params(),
		Params:     lm.X,
		X:          x,
		Y:          y,
		Fitted:     model.Curve(m, x, lm.X),
		Iterations: lm.Iterations,
		Status:     lm.Status,
	}

	res.Residuals = make([]float64, n)
	floats.SubTo(res.Residuals, y, res.Fitted)
	ssr := floats.Dot(res.Residuals, res.Residuals)

	jac := mat.NewDense(n, np, nil)
	NumJac{Func: residual}.Jac(jac, lm.X)
	res.Covariance, err = Covariance(jac, ssr/float64(n-np))
	if err != nil {
		return nil, &Error{Model: m.Name(), Iterations: lm.Iterations, Params: lm.X, Wrapped: err}
	}
	res.Correlation, err = Correlation(res.Covariance)
	if err != nil {
		return nil, &Error{Model: m.Name(), Iterations: lm.Iterations, Params: lm.X, Wrapped: err}
	}
	res.StdErr = make([]float64, np)
	for i := range res.StdErr {
		res.StdErr[i] = math.Sqrt(res.Covariance.At(i, i))
	}

	res.RMS = RMS(res.Residuals)
	res.DegreesOfFreedom = opts.DegreesOfFreedom
	if res.DegreesOfFreedom <= 0 {
		res.DegreesOfFreedom = n - np
	}
	res.ChiSquared = ChiSquared(res.Residuals, opts.YError)
	res.ReducedChiSquared = res.ChiSquared / float64(res.DegreesOfFreedom)

	return res, nil
}

// Covariance returns s²·(JᵀJ)⁻¹.
func Covariance(jac mat.Matrix, s2 float64) (*mat.SymDense, error) {
	_, c := jac.Dims()
	jtj := mat.NewSymDense(c, nil)
	jtj.SymOuterK(1, jac.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(jtj); !ok {
		return nil, ErrSingularCovariance
	}
	inv := mat.NewSymDense(c, nil)
	if err := chol.InverseTo(inv); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: %v", ErrSingularCovariance, err)
		}
	}
	cov := mat.NewSymDense(c, nil)
	cov.ScaleSym(s2, inv)
	return cov, nil
}

// Correlation normalises cov by its diagonal standard deviations,
// D⁻¹·C·D⁻¹.
func Correlation(cov mat.Symmetric) (*mat.SymDense, error) {
	n := cov.SymmetricDim()
	sd := make([]float64, n)
	for i := range sd {
		v := cov.At(i, i)
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: variance of parameter %d is %g", ErrSingularCovariance, i, v)
		}
		sd[i] = math.Sqrt(v)
	}

	corr := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			corr.SetSym(i, j, cov.At(i, j)/(sd[i]*sd[j]))
		}
	}
	return corr, nil
}

// RMS is sqrt(mean(res²)).
func RMS(res []float64) float64 {
	if len(res) == 0 {
		return 0
	}
	sq := make([]float64, len(res))
	floats.MulTo(sq, res, res)
	return math.Sqrt(stat.Mean(sq, nil))
}

// ChiSquared is Σ res²/σ².
func ChiSquared(res []float64, sigma float64) float64 {
	return floats.Dot(res, res) / (sigma * sigma)
}
