package model

import (
	"fmt"
	"math"
	"sort"
)

// Model is a parametric curve y = f(t; p).
type Model interface {
	Name() string
	Params() []string
	Eval(t float64, p []float64) float64
}

// Func adapts a plain function to Model.
type Func struct {
	name   string
	params []string
	fn     func(t float64, p []float64) float64
}

func (f *Func) Name() string                        { return f.name }
func (f *Func) Params() []string                    { return f.params }
func (f *Func) Eval(t float64, p []float64) float64 { return f.fn(t, p) }

// NewDampedOscillator returns A·exp(-b·t)·cos(w·t−φ) + X_eq.
func NewDampedOscillator() *Func {
	return &Func{
		name:   "dho",
		params: []string{"A", "b", "w", "phi", "Xeq"},
		fn: func(t float64, p []float64) float64 {
			return p[0]*math.Exp(-p[1]*t)*math.Cos(p[2]*t-p[3]) + p[4]
		},
	}
}

// NewExpDecay returns A·exp(-b·t) + c.
func NewExpDecay() *Func {
	return &Func{
		name:   "exp_decay",
		params: []string{"A", "b", "c"},
		fn: func(t float64, p []float64) float64 {
			return p[0]*math.Exp(-p[1]*t) + p[2]
		},
	}
}

// NewSinusoid returns A·cos(w·t−φ) + c.
func NewSinusoid() *Func {
	return &Func{
		name:   "sinusoid",
		params: []string{"A", "w", "phi", "c"},
		fn: func(t float64, p []float64) float64 {
			return p[0]*math.Cos(p[1]*t-p[2]) + p[3]
		},
	}
}

// NewLinear returns m·t + c.
func NewLinear() *Func {
	return &Func{
		name:   "linear",
		params: []string{"m", "c"},
		fn: func(t float64, p []float64) float64 {
			return p[0]*t + p[1]
		},
	}
}

// Curve evaluates m at every t.
func Curve(m Model, t, p []float64) []float64 {
	out := make([]float64, len(t))
	for i, ti := range t {
		out[i] = m.Eval(ti, p)
	}
	return out
}

type Registry struct {
	models map[string]func() Model
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]func() Model)}

	r.models["dho"] = func() Model { return NewDampedOscillator() }
	r.models["exp_decay"] = func() Model { return NewExpDecay() }
	r.models["sinusoid"] = func() Model { return NewSinusoid() }
	r.models["linear"] = func() Model { return NewLinear() }

	return r
}

func (r *Registry) Get(name string) (Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s (available: %v)", name, r.List())
	}
	return fn(), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
