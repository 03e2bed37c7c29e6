// Package shade is the CPU reference of the background compositor: value noise,
// ordered dither, the palette and the per-pixel shading routine. The GLSL program in
// package shader computes the same formulas on the GPU.
package shade

import "math"

// MaxPixelRatio caps the device pixel ratio used for the drawing buffer.
const MaxPixelRatio = 2.0

// Vec2 is a 2D vector used for coordinates and the pointer position.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// AddScalar adds s to both components.
func (v Vec2) AddScalar(s float64) Vec2 { return Vec2{v.X + s, v.Y + s} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dist returns the euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

// Resolution is a drawing buffer size in device pixels.
type Resolution struct {
	Width, Height int
}

// Params are the per-frame inputs of the compositor (the shader uniforms).
type Params struct {
	ElapsedTime float64    // seconds, monotonic
	Resolution  Resolution // device pixels
	Pointer     Vec2       // normalized, y-flipped (0 = bottom)
	Grain       float64
	Dither      float64
}

// DefaultParams returns parameters for a 1x1 buffer with the pointer centered and
// full grain and dither.
func DefaultParams() Params {
	return Params{
		Resolution: Resolution{Width: 1, Height: 1},
		Pointer:    Vec2{0.5, 0.5},
		Grain:      1,
		Dither:     1,
	}
}

// ClampPixelRatio limits dpr to (0, MaxPixelRatio]. Non-positive or NaN values mean 1.
func ClampPixelRatio(dpr float64) float64 {
	if !(dpr > 0) {
		return 1
	}
	return math.Min(dpr, MaxPixelRatio)
}

// DeviceResolution converts a CSS viewport size into the drawing buffer size:
// floor(css * min(dpr, 2)), never smaller than 1x1.
func DeviceResolution(cssWidth, cssHeight int, dpr float64) Resolution {
	dpr = ClampPixelRatio(dpr)
	w := int(math.Floor(float64(cssWidth) * dpr))
	h := int(math.Floor(float64(cssHeight) * dpr))
	return Resolution{Width: max(w, 1), Height: max(h, 1)}
}

// NormalizePointer maps client coordinates (origin top-left) into [0,1]² with the
// y axis flipped so that 0 is the bottom edge. Coordinates outside the viewport
// extrapolate past the unit square.
func NormalizePointer(clientX, clientY float64, cssWidth, cssHeight int) Vec2 {
	w := float64(max(cssWidth, 1))
	h := float64(max(cssHeight, 1))
	return Vec2{X: clientX / w, Y: 1 - clientY/h}
}
