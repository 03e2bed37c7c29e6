package shade

// RGB is a linear color with components nominally in [0,1].
type RGB struct {
	R, G, B float64
}

// RGBA is a shaded pixel: a linear color plus alpha.
type RGBA struct {
	R, G, B, A float64
}

// Reference colors of the palette.
var (
	Base = RGB{0.96, 0.97, 0.99} // near-white
	Cool = RGB{0.90, 0.93, 0.97} // cool gray
	Blue = RGB{0.27, 0.55, 1.00}
	Teal = RGB{0.08, 0.72, 0.65}

	// GlowTint is the color of the pointer highlight.
	GlowTint = RGB{0.20, 0.45, 1.00}
)

// accentWeight is how much of the blue/teal accent reaches the final palette color.
const accentWeight = 0.10

// Add returns c + o.
func (c RGB) Add(o RGB) RGB { return RGB{c.R + o.R, c.G + o.G, c.B + o.B} }

// AddScalar adds s to every channel.
func (c RGB) AddScalar(s float64) RGB { return RGB{c.R + s, c.G + s, c.B + s} }

// Scale multiplies every channel by s.
func (c RGB) Scale(s float64) RGB { return RGB{c.R * s, c.G * s, c.B * s} }

// Mix interpolates linearly from c to o.
func (c RGB) Mix(o RGB, t float64) RGB {
	return RGB{mix(c.R, o.R, t), mix(c.G, o.G, t), mix(c.B, o.B, t)}
}

// ColorFor maps a field value to the background palette: white to cool gray over
// [0,1], blue to teal over [0.2,1], with the accent blended in at 10%.
func ColorFor(v float64) RGB {
	mid := Base.Mix(Cool, smoothstep(0, 1, v))
	acc := Blue.Mix(Teal, smoothstep(0.2, 1, v))
	return mid.Mix(acc, accentWeight)
}
