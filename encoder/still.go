package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/cleantouch/backdrop/shade"
)

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Upscale resamples src to width x height with Catmull-Rom. src is returned
// unchanged when it already has that size.
func Upscale(src *image.RGBA, width, height int) *image.RGBA {
	if src.Bounds().Dx() == width && src.Bounds().Dy() == height {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// Still renders p in software. With scale below 1 the frame is rendered at the
// reduced size and upsampled to p.Resolution, trading grain sharpness for speed.
func Still(p shade.Params, scale float64, workers int) *image.RGBA {
	w, h := max(p.Resolution.Width, 1), max(p.Resolution.Height, 1)
	r := shade.NewRaster(workers)
	if scale <= 0 || scale >= 1 {
		return r.Image(p)
	}
	small := p
	small.Resolution = shade.Resolution{
		Width:  max(int(float64(w)*scale), 1),
		Height: max(int(float64(h)*scale), 1),
	}
	return Upscale(r.Image(small), w, h)
}
