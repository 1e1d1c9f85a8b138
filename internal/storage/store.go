package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/labfit/internal/config"
	"github.com/san-kum/labfit/internal/fit"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "fit.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID                string              `json:"id"`
	Model             string              `json:"model"`
	Timestamp         time.Time           `json:"timestamp"`
	DataFile          string              `json:"data_file"`
	Axes              config.AxesConfig   `json:"axes"`
	Solver            config.SolverConfig `json:"solver"`
	YError            float64             `json:"y_error"`
	InitialGuess      []float64           `json:"initial_guess"`
	ParamNames        []string            `json:"param_names"`
	Params            []float64           `json:"params"`
	StdErr            []float64           `json:"std_err"`
	Covariance        [][]float64         `json:"covariance"`
	Correlation       [][]float64         `json:"correlation"`
	RMS               float64             `json:"rms_residual"`
	ChiSquared        float64             `json:"chi_squared"`
	ReducedChiSquared float64             `json:"reduced_chi_squared"`
	DegreesOfFreedom  int                 `json:"degrees_of_freedom"`
	Iterations        int                 `json:"iterations"`
	Termination       string              `json:"termination"`
	Samples           int                 `json:"samples"`
}

// Series is the per-sample table of a stored run.
type Series struct {
	X        []float64
	Y        []float64
	Fit      []float64
	Residual []float64
}

func (s *Store) Save(cfg *config.Config, guess []float64, res *fit.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", res.Model, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:                runID,
		Model:             res.Model,
		Timestamp:         time.Now(),
		DataFile:          cfg.DataFile,
		Axes:              cfg.Axes,
		Solver:            cfg.Solver,
		YError:            cfg.YError,
		InitialGuess:      guess,
		ParamNames:        res.ParamNames,
		Params:            res.Params,
		StdErr:            res.StdErr,
		Covariance:        rows(res.Covariance),
		Correlation:       rows(res.Correlation),
		RMS:               res.RMS,
		ChiSquared:        res.ChiSquared,
		ReducedChiSquared: res.ReducedChiSquared,
		DegreesOfFreedom:  res.DegreesOfFreedom,
		Iterations:        res.Iterations,
		Termination:       res.Status.String(),
		Samples:           len(res.X),
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	if err := ExportJSON(metaFile, &meta, nil); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"x", "y", "fit", "residual"}); err != nil {
		return "", err
	}
	for i := range res.X {
		row := []string{
			strconv.FormatFloat(res.X[i], 'g', -1, 64),
			strconv.FormatFloat(res.Y[i], 'g', -1, 64),
			strconv.FormatFloat(res.Fitted[i], 'g', -1, 64),
			strconv.FormatFloat(res.Residuals[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()

	return runID, w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	series := &Series{}
	for i := 1; i < len(records); i++ {
		vals := make([]float64, 4)
		for j := range vals {
			vals[j], err = strconv.ParseFloat(records[i][j], 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", seriesFile, i+1, err)
			}
		}
		series.X = append(series.X, vals[0])
		series.Y = append(series.Y, vals[1])
		series.Fit = append(series.Fit, vals[2])
		series.Residual = append(series.Residual, vals[3])
	}

	return series, nil
}

func rows(m *mat.SymDense) [][]float64 {
	if m == nil {
		return nil
	}
	n := m.SymmetricDim()
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

// Result rebuilds the fit summary of a stored run. series may be nil.
func (m *RunMetadata) Result(series *Series) *fit.Result {
	res := &fit.Result{
		Model:             m.Model,
		ParamNames:        m.ParamNames,
		Params:            m.Params,
		StdErr:            m.StdErr,
		Covariance:        symmetric(m.Covariance),
		Correlation:       symmetric(m.Correlation),
		RMS:               m.RMS,
		ChiSquared:        m.ChiSquared,
		ReducedChiSquared: m.ReducedChiSquared,
		DegreesOfFreedom:  m.DegreesOfFreedom,
		Iterations:        m.Iterations,
		Status:            fit.ParseStatus(m.Termination),
	}
	if series != nil {
		res.X = series.X
		res.Y = series.Y
		res.Fitted = series.Fit
		res.Residuals = series.Residual
	}
	return res
}

func symmetric(rows [][]float64) *mat.SymDense {
	n := len(rows)
	if n == 0 {
		return nil
	}
	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n && j < len(rows[i]); j++ {
			m.SetSym(i, j, rows[i][j])
		}
	}
	return m
}
