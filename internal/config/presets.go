package config

import "sort"

var Presets = map[string]map[string]*Config{
	"dho": {
		"hmo": {
			Model: "dho", DataFile: DefaultDataFile, YError: DefaultYError, DoF: DefaultDoF,
			InitialGuess: []float64{3, 0.5, 1.5, 4.5, 0},
			Output:       "dho_fit.svg",
			Axes:         AxesConfig{XColumn: "Time", XUnits: "s", YColumn: "Signal", YUnits: "m", Title: DefaultTitle},
		},
		"auto": {
			Model: "dho", AutoGuess: true, YError: DefaultYError,
			Output: "dho_fit.svg",
			Axes:   AxesConfig{XColumn: "Time", XUnits: "s", YColumn: "Signal", YUnits: "m", Title: "Damped oscillator"},
		},
		"light_damping": {
			Model: "dho", YError: 0.05,
			InitialGuess: []float64{1, 0.05, 6.28, 0, 0},
			Output:       "dho_light.svg",
			Axes:         AxesConfig{XColumn: "Time", XUnits: "s", YColumn: "Signal", YUnits: "m", Title: "Lightly damped oscillator"},
		},
	},
	"exp_decay": {
		"rc": {
			Model: "exp_decay", YError: 0.01,
			InitialGuess: []float64{5, 1, 0},
			Output:       "rc_discharge.svg",
			Axes:         AxesConfig{XColumn: "Time", XUnits: "s", YColumn: "Voltage", YUnits: "V", Title: "RC discharge"},
		},
	},
	"sinusoid": {
		"ac": {
			Model: "sinusoid", YError: 0.01,
			InitialGuess: []float64{1, 314.16, 0, 0},
			Output:       "ac_signal.svg",
			Axes:         AxesConfig{XColumn: "Time", XUnits: "s", YColumn: "Voltage", YUnits: "V", Title: "AC signal"},
		},
	},
}

// GetPreset returns a copy of the named preset filled onto the defaults,
// or nil if it does not exist.
func GetPreset(modelName, name string) *Config {
	byModel, ok := Presets[modelName]
	if !ok {
		return nil
	}
	p, ok := byModel[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Model = p.Model
	cfg.AutoGuess = p.AutoGuess
	cfg.InitialGuess = append([]float64(nil), p.InitialGuess...)
	cfg.YError = p.YError
	cfg.DoF = p.DoF
	cfg.Axes = p.Axes
	if p.DataFile != "" {
		cfg.DataFile = p.DataFile
	}
	if p.Output != "" {
		cfg.Output = p.Output
	}
	return cfg
}

func ListPresets(modelName string) []string {
	byModel, ok := Presets[modelName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byModel))
	for name := range byModel {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
