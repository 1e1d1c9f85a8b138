package plot

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// Terminal renders the figure as two stacked asciigraph charts.
func (f *Figure) Terminal(width, height int) (string, error) {
	if err := f.validate(); err != nil {
		return "", err
	}

	top := asciigraph.PlotMany([][]float64{f.Y, f.Fit},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.SeriesLegends("data", "fit"),
		asciigraph.Caption(fmt.Sprintf("%s: %s vs %s", f.Title, label(f.YLabel, f.YUnits), label(f.XLabel, f.XUnits))),
	)

	zero := make([]float64, len(f.Residuals))
	bottom := asciigraph.PlotMany([][]float64{f.Residuals, zero},
		asciigraph.Height(height/2+1),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("residual (RMS = %.3f %s)", f.RMS, f.YUnits)),
	)

	return top + "\n\n" + bottom, nil
}
