package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/san-kum/labfit/internal/measure"
	"github.com/san-kum/labfit/internal/report"
)

var (
	valueCol       int
	uncertaintyCol int
	delimiter      string
	skipRows       int
)

func newMeasureCmd() *cobra.Command {
	measureCmd := &cobra.Command{
		Use:   "measure",
		Short: "uncertainty propagation tools",
	}

	loadCmd := &cobra.Command{
		Use:   "load [file]",
		Short: "read value/uncertainty columns and report their mean",
		Args:  cobra.ExactArgs(1),
		RunE:  loadMeasurements,
	}
	loadCmd.Flags().IntVar(&valueCol, "value-col", 0, "zero-based value column")
	loadCmd.Flags().IntVar(&uncertaintyCol, "unc-col", 1, "zero-based uncertainty column")
	loadCmd.Flags().StringVar(&delimiter, "delim", ",", "field delimiter (empty for whitespace)")
	loadCmd.Flags().IntVar(&skipRows, "skip", 1, "leading rows to skip")

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "run the worked propagation examples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout())
		},
	}

	measureCmd.AddCommand(loadCmd, demoCmd)
	return measureCmd
}

func loadMeasurements(cmd *cobra.Command, args []string) error {
	var delim rune
	switch r := []rune(delimiter); len(r) {
	case 0:
	case 1:
		delim = r[0]
	default:
		return fmt.Errorf("--delim must be a single character, got %q", delimiter)
	}

	ms, err := measure.FromDelimitedFile(args[0], valueCol, uncertaintyCol,
		measure.WithDelimiter(delim), measure.WithSkipRows(skipRows))
	if err != nil {
		return err
	}

	return report.Measurements(cmd.OutOrStdout(), ms)
}

func runDemo(w io.Writer) error {
	length := measure.New(10.0, 0.1)
	width := measure.New(5.0, 0.1)
	area, err := measure.Multiply(length, width)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s × %s = %s\n", report.Label.Render("area:"), length, width, report.Value.Render(area.String()))

	mass := measure.New(1.23, 0.01)
	velocity := measure.New(4.56, 0.02)
	v2, err := measure.Multiply(velocity, velocity)
	if err != nil {
		return err
	}
	energy, err := measure.Multiply(measure.Scalar(0.5), mass)
	if err != nil {
		return err
	}
	energy, err = measure.Multiply(energy, v2)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s ½ · %s · (%s)² = %s\n", report.Label.Render("kinetic energy:"), mass, velocity, report.Value.Render(energy.String()))

	// v·v treats the factors as independent; Pow does not.
	exact, err := velocity.Pow(2)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s v·v = %s, v² = %s\n", report.Subtle.Render("note:"), v2, exact)

	temps, err := measure.FromArrays([]float64{20.1, 20.3, 20.2, 20.1}, []float64{0.1, 0.1, 0.1, 0.1})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s\n", report.Header.Render("Temperatures"))
	return report.Measurements(w, temps)
}
