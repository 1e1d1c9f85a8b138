package fit

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// EstimateGuess seeds the damped oscillator [A, b, w, phi, Xeq] from
// uniformly sampled data: Xeq is the mean, w the dominant spectral peak,
// phi its phase at t[0], b the RMS envelope decay between the two halves
// of the record, A the RMS amplitude of the first half extrapolated to t=0.
func EstimateGuess(t, y []float64) ([]float64, error) {
	n := len(y)
	if len(t) != n {
		return nil, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(t), n)
	}
	if n < 8 {
		return nil, fmt.Errorf("%w: need at least 8 samples for a spectral guess, got %d", ErrInsufficientData, n)
	}
	dt := (t[n-1] - t[0]) / float64(n-1)
	if !(dt > 0) {
		return nil, fmt.Errorf("%w: time axis must increase", ErrBadGuess)
	}

	xeq := stat.Mean(y, nil)
	centered := make([]float64, n)
	copy(centered, y)
	floats.AddConst(-xeq, centered)

	spectrum := fft.FFTReal(centered)
	peak, peakMag := 1, 0.0
	for k := 1; k <= n/2; k++ {
		if mag := cmplx.Abs(spectrum[k]); mag > peakMag {
			peak, peakMag = k, mag
		}
	}
	w := 2 * math.Pi * float64(peak) / (float64(n) * dt)
	phi := math.Mod(w*t[0]-cmplx.Phase(spectrum[peak]), 2*math.Pi)
	if phi < 0 {
		phi += 2 * math.Pi
	}

	half := n / 2
	rms1, rms2 := RMS(centered[:half]), RMS(centered[half:])
	tm1 := (t[0] + t[half-1]) / 2
	tm2 := (t[half] + t[n-1]) / 2
	b := 0.0
	if rms1 > 0 && rms2 > 0 && rms2 < rms1 {
		b = math.Log(rms1/rms2) / (tm2 - tm1)
	}

	// cos averages to 1/√2 in RMS
	a := math.Sqrt2 * rms1 * math.Exp(b*tm1)

	return []float64{a, b, w, phi, xeq}, nil
}
