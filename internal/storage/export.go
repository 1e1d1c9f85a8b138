package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	*RunMetadata
	X        []float64 `json:"x,omitempty"`
	Y        []float64 `json:"y,omitempty"`
	Fit      []float64 `json:"fit,omitempty"`
	Residual []float64 `json:"residual,omitempty"`
}

// ExportJSON writes meta, and series when non-nil, as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, series *Series) error {
	data := ExportData{RunMetadata: meta}
	if series != nil {
		data.X = series.X
		data.Y = series.Y
		data.Fit = series.Fit
		data.Residual = series.Residual
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
