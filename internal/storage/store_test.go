package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/labfit/internal/config"
	"github.com/san-kum/labfit/internal/fit"
)

func testResult() *fit.Result {
	return &fit.Result{
		Model:             "linear",
		ParamNames:        []string{"m", "c"},
		Params:            []float64{2, 1},
		StdErr:            []float64{0.1, 0.2},
		Covariance:        mat.NewSymDense(2, []float64{0.01, -0.005, -0.005, 0.04}),
		Correlation:       mat.NewSymDense(2, []float64{1, -0.25, -0.25, 1}),
		X:                 []float64{0, 1, 2},
		Y:                 []float64{1.1, 2.9, 5.0},
		Fitted:            []float64{1, 3, 5},
		Residuals:         []float64{0.1, -0.1, 0},
		RMS:               0.0816,
		ChiSquared:        2,
		ReducedChiSquared: 2,
		DegreesOfFreedom:  1,
		Iterations:        4,
		Status:            fit.GradientConvergence,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	runID, err := st.Save(cfg, []float64{0, 0}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Model != "linear" {
		t.Errorf("expected model 'linear', got '%s'", meta.Model)
	}
	if meta.Correlation[0][1] != -0.25 {
		t.Errorf("expected correlation -0.25, got %f", meta.Correlation[0][1])
	}
	if meta.Termination != "gradient" {
		t.Errorf("expected termination 'gradient', got %q", meta.Termination)
	}
	if meta.Axes.YColumn != "Signal" {
		t.Errorf("expected axes from config, got %+v", meta.Axes)
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}

	if len(series.X) != 3 || series.Y[1] != 2.9 || series.Residual[0] != 0.1 {
		t.Errorf("unexpected series %+v", series)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	cfg := config.DefaultConfig()
	for i := 0; i < 2; i++ {
		if _, err := st.Save(cfg, nil, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(config.DefaultConfig(), nil, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "fit.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExportJSON(t *testing.T) {
	meta := &RunMetadata{ID: "dho_1", Model: "dho", Params: []float64{1, 2}}
	series := &Series{X: []float64{0, 1}, Y: []float64{1, 2}, Fit: []float64{1, 2}, Residual: []float64{0, 0}}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, series); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded["id"] != "dho_1" {
		t.Errorf("expected flattened metadata, got %v", decoded)
	}
	if xs, ok := decoded["x"].([]any); !ok || len(xs) != 2 {
		t.Errorf("expected x series, got %v", decoded["x"])
	}
}

func TestRunMetadataResult(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(config.DefaultConfig(), nil, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatal(err)
	}

	res := meta.Result(series)
	if res.Status != fit.GradientConvergence {
		t.Errorf("expected status gradient, got %v", res.Status)
	}
	if res.Covariance.At(1, 0) != -0.005 || res.Correlation.At(0, 1) != -0.25 {
		t.Errorf("matrices not restored: %v %v", res.Covariance, res.Correlation)
	}
	if len(res.Fitted) != 3 || res.Fitted[2] != 5 {
		t.Errorf("unexpected fitted series %v", res.Fitted)
	}

	if empty := (&RunMetadata{}).Result(nil); empty.Covariance != nil {
		t.Error("expected nil covariance for empty metadata")
	}
}

func TestStoreRecordsSolver(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	cfg := config.DefaultConfig()
	cfg.Solver.Starts = 4
	cfg.Solver.Spread = 0.3
	cfg.Solver.Seed = 99

	runID, err := st.Save(cfg, nil, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Solver != cfg.Solver {
		t.Errorf("expected solver %+v, got %+v", cfg.Solver, meta.Solver)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, runID, "metadata.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"seed": 99`)) || !bytes.Contains(data, []byte(`"starts": 4`)) {
		t.Errorf("solver settings missing from metadata:\n%s", data)
	}
}
