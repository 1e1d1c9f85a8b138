// Package report writes human-readable fit and measurement summaries.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/labfit/internal/fit"
	"github.com/san-kum/labfit/internal/measure"
)

// Fit writes parameters, covariance, correlation and goodness of fit.
func Fit(w io.Writer, title string, res *fit.Result) error {
	if title != "" {
		fmt.Fprintln(w, Title.Render(title))
	}
	fmt.Fprintf(w, "%s %s  %s %d  %s %s\n\n",
		Label.Render("model:"), Value.Render(res.Model),
		Label.Render("samples:"), len(res.X),
		Label.Render("terminated:"), res.Status)

	fmt.Fprintln(w, Header.Render("Parameters"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVALUE\tSTD ERR\tESTIMATE")
	for i, est := range res.Estimates() {
		fmt.Fprintf(tw, "%s\t%.6g\t%.3g\t%s\n", res.ParamNames[i], res.Params[i], res.StdErr[i], est)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	if err := Matrix(w, "Covariance", res.ParamNames, res.Covariance); err != nil {
		return err
	}
	if err := Matrix(w, "Correlation", res.ParamNames, res.Correlation); err != nil {
		return err
	}

	fmt.Fprintln(w, Header.Render("Goodness of fit"))
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "RMS residual\t%.3f\n", res.RMS)
	fmt.Fprintf(tw, "chi-squared\t%.3f\n", res.ChiSquared)
	fmt.Fprintf(tw, "reduced chi-squared\t%.3f\t(dof %d) %s\n", res.ReducedChiSquared, res.DegreesOfFreedom, Verdict(res.ReducedChiSquared))
	fmt.Fprintf(tw, "iterations\t%d\n", res.Iterations)
	return tw.Flush()
}

// Matrix writes a labelled square matrix with three decimals.
func Matrix(w io.Writer, title string, names []string, m *mat.SymDense) error {
	fmt.Fprintln(w, Header.Render(title))
	if m == nil || m.SymmetricDim() == 0 {
		fmt.Fprintln(w, Subtle.Render("  unavailable"))
		fmt.Fprintln(w)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\t"+strings.Join(names, "\t")+"\t")
	n := m.SymmetricDim()
	for i := 0; i < n; i++ {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		fmt.Fprint(tw, name)
		for j := 0; j < n; j++ {
			fmt.Fprintf(tw, "\t%.3f", m.At(i, j))
		}
		fmt.Fprintln(tw, "\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// Measurements lists ms with their propagated mean.
func Measurements(w io.Writer, ms []measure.Measurement) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tVALUE\tUNCERTAINTY\tRELATIVE")
	for i, m := range ms {
		rel := "-"
		if r, err := m.RelativeUncertainty(); err == nil {
			rel = fmt.Sprintf("%.2f%%", 100*r)
		}
		fmt.Fprintf(tw, "%d\t%.6g\t%.3g\t%s\n", i+1, m.Value(), m.Uncertainty(), rel)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	mean, err := measure.Mean(ms)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s %s\n", Label.Render("mean:"), Value.Render(mean.String()))
	return nil
}
