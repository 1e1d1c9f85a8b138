package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultTau        = 1e-3
	DefaultEps1       = 1e-8
	DefaultEps2       = 1e-10
	DefaultIterations = 1000
)

// Problem describes a least-squares problem min ½‖f(x)‖².
type Problem struct {
	// Dim is the number of parameters.
	Dim int
	// Size is the number of residuals.
	Size int
	// Func stores f(x) in dst.
	Func func(dst, x []float64)
	// Jac stores ∂f/∂x in dst. Nil selects central finite differences.
	Jac        func(dst *mat.Dense, x []float64)
	InitParams []float64
	// Tau scales the initial damping relative to max diag(JᵀJ).
	Tau float64
	// Eps1 bounds the gradient infinity norm at convergence.
	Eps1 float64
	// Eps2 bounds the relative step size at convergence.
	Eps2 float64
}

type Settings struct {
	Iterations   int
	ObjectiveTol float64
}

func DefaultSettings() *Settings {
	return &Settings{Iterations: DefaultIterations}
}

// Status records why the solver stopped.
type Status int

const (
	NotTerminated Status = iota
	GradientConvergence
	StepConvergence
	ObjectiveConvergence
	IterationLimit
)

func (s Status) String() string {
	switch s {
	case GradientConvergence:
		return "gradient"
	case StepConvergence:
		return "step"
	case ObjectiveConvergence:
		return "objective"
	case IterationLimit:
		return "iteration limit"
	default:
		return "not terminated"
	}
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) Status {
	for st := GradientConvergence; st <= IterationLimit; st++ {
		if st.String() == s {
			return st
		}
	}
	return NotTerminated
}

type LMResult struct {
	X          []float64
	F          float64 // ½‖f(X)‖²
	Residuals  []float64
	Iterations int
	Status     Status
}

// NumJac approximates the Jacobian of Func with central differences.
type NumJac struct {
	Func func(dst, x []float64)
}

func (nj NumJac) Jac(dst *mat.Dense, x []float64) {
	fd.Jacobian(dst, nj.Func, x, &fd.JacobianSettings{Formula: fd.Central})
}

// LM minimises ½‖f(x)‖² with the Levenberg–Marquardt method using the
// Madsen–Nielsen damping update. On ErrNotConverged the partial result is
// returned alongside the error.
func LM(p Problem, settings *Settings) (*LMResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if settings == nil {
		settings = DefaultSettings()
	}
	iterations := settings.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	tau, eps1, eps2 := orDefault(p.Tau, DefaultTau), orDefault(p.Eps1, DefaultEps1), orDefault(p.Eps2, DefaultEps2)

	jac := p.Jac
	if jac == nil {
		jac = NumJac{Func: p.Func}.Jac
	}

	x := append([]float64(nil), p.InitParams...)
	f := make([]float64, p.Size)
	p.Func(f, x)
	if !allFinite(f) {
		return nil, ErrNonFinite
	}
	obj := 0.5 * floats.Dot(f, f)

	J := mat.NewDense(p.Size, p.Dim, nil)
	A := mat.NewDense(p.Dim, p.Dim, nil)
	g := mat.NewVecDense(p.Dim, nil)
	normal := func() {
		jac(J, x)
		A.Mul(J.T(), J)
		g.MulVec(J.T(), mat.NewVecDense(p.Size, f))
	}
	normal()

	res := &LMResult{Status: NotTerminated}
	mu := tau * maxDiag(A)
	if mu == 0 {
		mu = tau
	}
	nu := 2.0

	if mat.Norm(g, math.Inf(1)) <= eps1 {
		res.Status = GradientConvergence
	}

	xNew := make([]float64, p.Dim)
	fNew := make([]float64, p.Size)
	M := mat.NewDense(p.Dim, p.Dim, nil)
	negG := mat.NewVecDense(p.Dim, nil)
	var h mat.VecDense

	k := 0
	for res.Status == NotTerminated && k < iterations {
		k++

		M.Copy(A)
		for i := 0; i < p.Dim; i++ {
			M.Set(i, i, M.At(i, i)+mu)
		}
		negG.ScaleVec(-1, g)
		err := h.SolveVec(M, negG)
		var cond mat.Condition
		step := h.RawVector().Data
		if (err != nil && (!errors.As(err, &cond) || math.IsInf(float64(cond), 1))) || !allFinite(step) {
			mu *= nu
			nu *= 2
			continue
		}

		if floats.Norm(step, 2) <= eps2*(floats.Norm(x, 2)+eps2) {
			res.Status = StepConvergence
			break
		}

		floats.AddTo(xNew, x, step)
		p.Func(fNew, xNew)

		rho := -1.0
		if allFinite(fNew) {
			objNew := 0.5 * floats.Dot(fNew, fNew)
			// predicted reduction ½hᵀ(μh − g)
			predicted := 0.5 * (mu*floats.Dot(step, step) - mat.Dot(&h, g))
			if predicted > 0 {
				rho = (obj - objNew) / predicted
			}
			if rho > 0 {
				copy(x, xNew)
				copy(f, fNew)
				obj = objNew
				normal()

				if mat.Norm(g, math.Inf(1)) <= eps1 {
					res.Status = GradientConvergence
				} else if obj <= settings.ObjectiveTol {
					res.Status = ObjectiveConvergence
				}
				mu *= math.Max(1.0/3, 1-math.Pow(2*rho-1, 3))
				nu = 2
				continue
			}
		}
		mu *= nu
		nu *= 2
		if math.IsInf(mu, 0) {
			res.Status = StepConvergence
		}
	}

	res.X = x
	res.F = obj
	res.Residuals = f
	res.Iterations = k
	if res.Status == NotTerminated {
		res.Status = IterationLimit
		return res, ErrNotConverged
	}
	return res, nil
}

func (p *Problem) validate() error {
	switch {
	case p.Func == nil:
		return errors.New("fit: problem has no residual function")
	case p.Dim <= 0:
		return fmt.Errorf("fit: invalid parameter dimension %d", p.Dim)
	case p.Size < p.Dim:
		return fmt.Errorf("%w: %d residuals, %d parameters", ErrInsufficientData, p.Size, p.Dim)
	case len(p.InitParams) != p.Dim || !allFinite(p.InitParams):
		return fmt.Errorf("%w: got %v for %d parameters", ErrBadGuess, p.InitParams, p.Dim)
	}
	return nil
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func maxDiag(a mat.Matrix) float64 {
	n, _ := a.Dims()
	m := 0.0
	for i := 0; i < n; i++ {
		m = math.Max(m, a.At(i, i))
	}
	return m
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
