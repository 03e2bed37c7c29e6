package analysis

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/cleantouch/backdrop/shade"
)

func TestRowSpectrumFindsTone(t *testing.T) {
	const n = 64
	for _, k := range []int{4, 8, 16} {
		row := make([]float64, n)
		for i := range row {
			row[i] = 3 + math.Sin(2*math.Pi*float64(k*i)/n)
		}
		s := RowSpectrum(row)
		if len(s.Power) != n/2+1 {
			t.Fatalf("bins = %d, want %d", len(s.Power), n/2+1)
		}
		freq, _ := s.Peak()
		if want := float64(k) / n; math.Abs(freq-want) > 1e-12 {
			t.Errorf("peak = %f, want %f", freq, want)
		}
	}
}

func TestRowSpectrumRemovesMean(t *testing.T) {
	row := []float64{5, 5, 5, 5, 5, 5, 5, 5}
	s := RowSpectrum(row)
	if s.Total() > 1e-20 || s.Power[0] > 1e-20 {
		t.Errorf("constant row has power %g (dc %g)", s.Total(), s.Power[0])
	}
	if RowSpectrum([]float64{1}).Power != nil {
		t.Error("single sample should give an empty spectrum")
	}
}

func TestPowerAt(t *testing.T) {
	s := Spectrum{
		Freqs: []float64{0, 0.25, 0.5},
		Power: []float64{0, 2, 7},
	}
	if s.PowerAt(0.5) != 7 || s.PowerAt(0.26) != 2 || s.PowerAt(9) != 7 {
		t.Error("PowerAt picked the wrong bin")
	}
}

func TestFlatness(t *testing.T) {
	flat := Spectrum{Power: []float64{0, 1, 1, 1, 1}}
	if f := flat.Flatness(); math.Abs(f-1) > 1e-9 {
		t.Errorf("flat spectrum flatness = %f, want 1", f)
	}
	tone := Spectrum{Power: []float64{0, 0, 0, 100, 0}}
	if f := tone.Flatness(); f > 1e-3 {
		t.Errorf("single tone flatness = %f, want ~0", f)
	}
}

func inspectParams(grain, dither float64) shade.Params {
	p := shade.DefaultParams()
	p.Resolution = shade.Resolution{Width: 64, Height: 32}
	p.ElapsedTime = 4
	p.Grain, p.Dither = grain, dither
	return p
}

func TestInspectDitherPeaksAtBayerFrequency(t *testing.T) {
	rep := Inspect(inspectParams(0, 1), 2)
	if rep.PeakFreq != 0.5 && rep.PeakFreq != 0.25 {
		t.Errorf("dither peak = %f, want a Bayer frequency", rep.PeakFreq)
	}
	if rep.BayerShare < 0.3 {
		t.Errorf("bayer share = %f, want dominant", rep.BayerShare)
	}
}

func TestInspectGrainIsBroadband(t *testing.T) {
	grain := Inspect(inspectParams(1, 0), 2)
	dither := Inspect(inspectParams(0, 1), 2)
	if grain.Flatness <= dither.Flatness {
		t.Errorf("grain flatness %f should exceed dither flatness %f", grain.Flatness, dither.Flatness)
	}
	if grain.NoiseRMS <= dither.NoiseRMS {
		t.Errorf("grain rms %f should exceed dither rms %f", grain.NoiseRMS, dither.NoiseRMS)
	}
}

func TestInspectDisabled(t *testing.T) {
	rep := Inspect(inspectParams(0, 0), 1)
	if rep.NoiseRMS != 0 || rep.Spectrum.Total() != 0 {
		t.Errorf("no grain or dither should give zero residual, got rms %f", rep.NoiseRMS)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	rep := Report{Width: 64, Height: 32, Grain: 1, Dither: 1, NoiseRMS: 3.2, PeakFreq: 0.5}
	if err := rep.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"64x32", "3.200 levels", "0.5000 cycles/px"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
