package shade

import (
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Raster renders whole frames in software. Rows are split into bands and shaded
// in parallel; Shade keeps no shared state, so bands never interact.
type Raster struct {
	// Workers limits the number of concurrent bands. Zero means GOMAXPROCS.
	Workers int

	img *image.RGBA
}

// NewRaster creates a software raster with the given worker limit.
func NewRaster(workers int) *Raster {
	return &Raster{Workers: workers}
}

func (r *Raster) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Render draws one frame of p into dst. Row 0 of dst is the top of the frame, so
// fragment coordinates are flipped to keep the GL bottom-left origin.
func (r *Raster) Render(dst *image.RGBA, p Params) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	p.Resolution = Resolution{Width: w, Height: h}

	n := r.workers()
	band := (h + n - 1) / n

	var g errgroup.Group
	g.SetLimit(n)
	for y0 := 0; y0 < h; y0 += band {
		y1 := min(y0+band, h)
		g.Go(func() error {
			for row := y0; row < y1; row++ {
				fy := float64(h-row) - 0.5
				off := dst.PixOffset(b.Min.X, b.Min.Y+row)
				for x := 0; x < w; x++ {
					c := Shade(Vec2{float64(x) + 0.5, fy}, p)
					pix := dst.Pix[off+4*x : off+4*x+4 : off+4*x+4]
					pix[0] = toByte(c.R)
					pix[1] = toByte(c.G)
					pix[2] = toByte(c.B)
					pix[3] = toByte(c.A)
				}
			}
			return nil
		})
	}
	// Bands never fail; Wait only joins them.
	_ = g.Wait()
}

// Frame renders p at its resolution and returns top-down RGBA bytes. The
// returned slice is reused by the next call.
func (r *Raster) Frame(p Params) ([]byte, error) {
	w := max(p.Resolution.Width, 1)
	h := max(p.Resolution.Height, 1)
	if r.img == nil || r.img.Bounds().Dx() != w || r.img.Bounds().Dy() != h {
		r.img = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	r.Render(r.img, p)
	return r.img.Pix, nil
}

// Image renders p into a fresh image sized to p.Resolution.
func (r *Raster) Image(p Params) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(p.Resolution.Width, 1), max(p.Resolution.Height, 1)))
	r.Render(img, p)
	return img
}

func toByte(c float64) uint8 {
	return uint8(clamp(c, 0, 1)*255 + 0.5)
}
