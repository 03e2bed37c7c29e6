package analysis

import (
	"fmt"
	"image"
	"io"
	"math"
	"text/tabwriter"

	"github.com/cleantouch/backdrop/shade"
)

// Report describes the texture that grain and dither add to one frame.
type Report struct {
	Width, Height int
	Grain, Dither float64

	// NoiseRMS is the RMS luminance difference against the same frame rendered
	// with grain and dither off, in 8-bit levels.
	NoiseRMS float64
	// PeakFreq is the strongest frequency of the residual, cycles per pixel.
	PeakFreq float64
	// BayerShare is the fraction of residual power at the ordered-dither
	// frequencies (1/4 and 1/2 cycles per pixel).
	BayerShare float64
	Flatness   float64
	Spectrum   Spectrum
}

// Inspect renders p twice in software, with and without grain and dither, and
// analyzes the difference row by row.
func Inspect(p shade.Params, workers int) Report {
	r := shade.NewRaster(workers)
	full := r.Image(p)

	clean := p
	clean.Grain, clean.Dither = 0, 0
	base := r.Image(clean)

	b := full.Bounds()
	w, h := b.Dx(), b.Dy()
	rep := Report{Width: w, Height: h, Grain: p.Grain, Dither: p.Dither}

	row := make([]float64, w)
	sumSq := 0.0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := luma(full, x, y) - luma(base, x, y)
			row[x] = d
			sumSq += d * d
		}
		rep.Spectrum.add(RowSpectrum(row))
	}
	rep.Spectrum.scale(1 / float64(h))
	rep.NoiseRMS = math.Sqrt(sumSq / float64(w*h))
	rep.PeakFreq, _ = rep.Spectrum.Peak()
	rep.Flatness = rep.Spectrum.Flatness()
	if total := rep.Spectrum.Total(); total > 0 {
		rep.BayerShare = (rep.Spectrum.PowerAt(0.25) + rep.Spectrum.PowerAt(0.5)) / total
	}
	return rep
}

func luma(img *image.RGBA, x, y int) float64 {
	c := img.RGBAAt(x, y)
	return 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
}

// WriteText prints the report as an aligned table.
func (r Report) WriteText(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "frame\t%dx%d\n", r.Width, r.Height)
	fmt.Fprintf(w, "grain / dither\t%.2f / %.2f\n", r.Grain, r.Dither)
	fmt.Fprintf(w, "noise rms\t%.3f levels\n", r.NoiseRMS)
	fmt.Fprintf(w, "peak\t%.4f cycles/px\n", r.PeakFreq)
	fmt.Fprintf(w, "bayer share\t%.1f%%\n", 100*r.BayerShare)
	fmt.Fprintf(w, "flatness\t%.3f\n", r.Flatness)
	return w.Flush()
}
