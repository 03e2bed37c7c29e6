// Package analysis measures the grain and dither texture of rendered frames in
// the frequency domain.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Spectrum is a one-sided power spectrum. Freqs are in cycles per pixel, from 0
// up to 0.5.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// RowSpectrum returns the power spectrum of one row of samples. The mean is
// removed and a Hann window applied first.
func RowSpectrum(row []float64) Spectrum {
	n := len(row)
	if n < 2 {
		return Spectrum{}
	}
	x := make([]float64, n)
	mean := 0.0
	for _, v := range row {
		mean += v
	}
	mean /= float64(n)
	for i, v := range row {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	bins := fft.FFTReal(x)
	half := n/2 + 1
	s := Spectrum{
		Freqs: make([]float64, half),
		Power: make([]float64, half),
	}
	norm := 1 / float64(n)
	for k := 0; k < half; k++ {
		a := cmplx.Abs(bins[k]) * norm
		s.Freqs[k] = float64(k) / float64(n)
		s.Power[k] = a * a
	}
	return s
}

// add accumulates o into s. Both must come from rows of the same length.
func (s *Spectrum) add(o Spectrum) {
	if s.Power == nil {
		s.Freqs = append([]float64(nil), o.Freqs...)
		s.Power = make([]float64, len(o.Power))
	}
	for i, p := range o.Power {
		s.Power[i] += p
	}
}

func (s *Spectrum) scale(f float64) {
	for i := range s.Power {
		s.Power[i] *= f
	}
}

// Peak returns the strongest bin above DC.
func (s Spectrum) Peak() (freq, power float64) {
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > power {
			freq, power = s.Freqs[k], s.Power[k]
		}
	}
	return freq, power
}

// PowerAt returns the power of the bin nearest to freq.
func (s Spectrum) PowerAt(freq float64) float64 {
	if len(s.Power) == 0 {
		return 0
	}
	n := 2 * (len(s.Power) - 1)
	k := int(math.Round(freq * float64(n)))
	k = max(0, min(k, len(s.Power)-1))
	return s.Power[k]
}

// Total is the power summed over every bin above DC.
func (s Spectrum) Total() float64 {
	t := 0.0
	for k := 1; k < len(s.Power); k++ {
		t += s.Power[k]
	}
	return t
}

// Flatness is the ratio of the geometric to the arithmetic mean power above
// DC: near 1 for white noise, near 0 for a few strong tones.
func (s Spectrum) Flatness() float64 {
	if len(s.Power) < 2 {
		return 0
	}
	const floor = 1e-20
	logSum, sum := 0.0, 0.0
	n := 0
	for k := 1; k < len(s.Power); k++ {
		p := s.Power[k] + floor
		logSum += math.Log(p)
		sum += p
		n++
	}
	arith := sum / float64(n)
	if arith <= 0 {
		return 0
	}
	return math.Exp(logSum/float64(n)) / arith
}
