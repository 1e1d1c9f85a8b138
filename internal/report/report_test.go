package report

import (
	"bytes"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/labfit/internal/fit"
	"github.com/san-kum/labfit/internal/measure"
)

func TestFit(t *testing.T) {
	res := &fit.Result{
		Model:             "linear",
		ParamNames:        []string{"m", "c"},
		Params:            []float64{2, 1},
		StdErr:            []float64{0.1, 0.2},
		Covariance:        mat.NewSymDense(2, []float64{0.01, -0.005, -0.005, 0.04}),
		Correlation:       mat.NewSymDense(2, []float64{1, -0.25, -0.25, 1}),
		X:                 []float64{0, 1, 2},
		RMS:               0.0816,
		ChiSquared:        2.5,
		ReducedChiSquared: 1.25,
		DegreesOfFreedom:  2,
		Status:            fit.StepConvergence,
	}

	var buf bytes.Buffer
	if err := Fit(&buf, "Line Test", res); err != nil {
		t.Fatalf("report failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Line Test",
		"Parameters",
		"2 ± 0.1",
		"Covariance",
		"-0.005",
		"Correlation",
		"-0.250",
		"1.000",
		"chi-squared",
		"2.500",
		"1.250",
		"(dof 2)",
		"good fit",
		"step",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}

func TestMatrixUnavailable(t *testing.T) {
	var buf bytes.Buffer
	if err := Matrix(&buf, "Covariance", []string{"a"}, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "unavailable") {
		t.Errorf("expected placeholder, got %q", buf.String())
	}
}

func TestMeasurements(t *testing.T) {
	ms := []measure.Measurement{
		measure.New(20.1, 0.1),
		measure.New(20.25, 0.1),
		measure.New(0, 0.05),
	}

	var buf bytes.Buffer
	if err := Measurements(&buf, ms); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "0.50%") {
		t.Errorf("expected relative uncertainty, got\n%s", out)
	}
	if !strings.Contains(out, "mean:") {
		t.Errorf("expected mean line, got\n%s", out)
	}

	if err := Measurements(&buf, nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		reduced float64
		want    string
	}{
		{1.0, "good"},
		{3.0, "fair"},
		{40, "poor"},
		{0.01, "poor"},
	}

	for _, tt := range tests {
		if got := Verdict(tt.reduced); !strings.Contains(got, tt.want) {
			t.Errorf("Verdict(%v) = %q, want %q", tt.reduced, got, tt.want)
		}
	}
}
