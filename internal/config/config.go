package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/labfit/internal/fit"
	"github.com/san-kum/labfit/internal/model"
)

const (
	DefaultDataFile   = "CurveFitTest/TestData.csv"
	DefaultXColumn    = "Time"
	DefaultYColumn    = "Signal"
	DefaultModel      = "dho"
	DefaultYError     = 0.193
	DefaultDoF        = 706
	DefaultOutput     = "dho_fit.svg"
	DefaultTitle      = "Curve Fit Test for HMO"
	DefaultIterations = fit.DefaultIterations
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	DataFile     string       `yaml:"data_file"`
	Model        string       `yaml:"model"`
	Axes         AxesConfig   `yaml:"axes"`
	InitialGuess []float64    `yaml:"initial_guess"`
	AutoGuess    bool         `yaml:"auto_guess"`
	YError       float64      `yaml:"y_error"`
	DoF          int          `yaml:"degrees_of_freedom"`
	Output       string       `yaml:"output"`
	Solver       SolverConfig `yaml:"solver"`
}

type AxesConfig struct {
	XColumn string `yaml:"x_column" json:"x_column"`
	XUnits  string `yaml:"x_units" json:"x_units"`
	YColumn string `yaml:"y_column" json:"y_column"`
	YUnits  string `yaml:"y_units" json:"y_units"`
	Title   string `yaml:"title" json:"title"`
}

type SolverConfig struct {
	Iterations   int     `yaml:"iterations" json:"iterations"`
	Tau          float64 `yaml:"tau" json:"tau"`
	Eps1         float64 `yaml:"eps1" json:"eps1"`
	Eps2         float64 `yaml:"eps2" json:"eps2"`
	ObjectiveTol float64 `yaml:"objective_tol" json:"objective_tol"`
	// Starts > 1 refits from perturbed guesses and keeps the best.
	Starts       int     `yaml:"starts" json:"starts"`
	Spread       float64 `yaml:"spread" json:"spread"`
	Seed         int64   `yaml:"seed" json:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		DataFile:     DefaultDataFile,
		Model:        DefaultModel,
		InitialGuess: []float64{3, 0.5, 1.5, 4.5, 0},
		YError:       DefaultYError,
		DoF:          DefaultDoF,
		Output:       DefaultOutput,
		Axes: AxesConfig{
			XColumn: DefaultXColumn,
			XUnits:  "s",
			YColumn: DefaultYColumn,
			YUnits:  "m",
			Title:   DefaultTitle,
		},
		Solver: SolverConfig{
			Iterations: DefaultIterations,
			Tau:        fit.DefaultTau,
			Eps1:       fit.DefaultEps1,
			Eps2:       fit.DefaultEps2,
			Starts:     1,
			Spread:     0.2,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto overlays the keys present in the file at path onto a copy of
// base, so settings the file omits keep their base values.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	cfg.InitialGuess = append([]float64(nil), base.InitialGuess...)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the config against the model registry.
func (c *Config) Validate(reg *model.Registry) error {
	m, err := reg.Get(c.Model)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !c.AutoGuess && len(c.InitialGuess) != len(m.Params()) {
		return fmt.Errorf("%w: model %s takes %d parameters %v, initial_guess has %d",
			ErrInvalidConfig, c.Model, len(m.Params()), m.Params(), len(c.InitialGuess))
	}
	if c.AutoGuess && c.Model != "dho" {
		return fmt.Errorf("%w: auto_guess only supports the dho model", ErrInvalidConfig)
	}
	if !(c.YError > 0) {
		return fmt.Errorf("%w: y_error must be positive, got %g", ErrInvalidConfig, c.YError)
	}
	if c.DoF < 0 {
		return fmt.Errorf("%w: degrees_of_freedom must not be negative", ErrInvalidConfig)
	}
	if c.Solver.Starts < 1 {
		return fmt.Errorf("%w: solver.starts must be at least 1", ErrInvalidConfig)
	}
	if c.Axes.XColumn == "" || c.Axes.YColumn == "" {
		return fmt.Errorf("%w: x_column and y_column are required", ErrInvalidConfig)
	}
	return nil
}

// FitOptions converts the config to solver options.
func (c *Config) FitOptions() fit.Options {
	return fit.Options{
		InitialGuess:     c.InitialGuess,
		YError:           c.YError,
		DegreesOfFreedom: c.DoF,
		Tau:              c.Solver.Tau,
		Eps1:             c.Solver.Eps1,
		Eps2:             c.Solver.Eps2,
		Settings: &fit.Settings{
			Iterations:   c.Solver.Iterations,
			ObjectiveTol: c.Solver.ObjectiveTol,
		},
	}
}
