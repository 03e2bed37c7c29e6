package shade

import "math"

// fract returns the fractional part of x in [0,1), matching GLSL fract but
// folding the float rounding case x - floor(x) == 1 back to 0.
func fract(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 {
		return 0
	}
	return f
}

func mix(a, b, t float64) float64 { return a + (b-a)*t }

func clamp(x, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, x)) }

// smoothstep is the GLSL Hermite step. Reversed edges (e0 > e1) give a falling edge.
func smoothstep(e0, e1, x float64) float64 {
	t := clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

// Hash is a cheap 2D pseudo-random function returning a value in [0,1).
// It is deterministic and only meant for visual decorrelation.
func Hash(p Vec2) float64 {
	x := fract(p.X * 123.34)
	y := fract(p.Y * 456.21)
	d := x*(x+34.345) + y*(y+34.345)
	x += d
	y += d
	return fract(x * y)
}

// ValueNoise interpolates Hash over the integer lattice around p with a
// 3t²-2t³ ease. At lattice points it returns Hash(p) exactly.
func ValueNoise(p Vec2) float64 {
	ix, iy := math.Floor(p.X), math.Floor(p.Y)
	fx, fy := p.X-ix, p.Y-iy

	a := Hash(Vec2{ix, iy})
	b := Hash(Vec2{ix + 1, iy})
	c := Hash(Vec2{ix, iy + 1})
	d := Hash(Vec2{ix + 1, iy + 1})

	ux := fx * fx * (3 - 2*fx)
	uy := fy * fy * (3 - 2*fy)
	return mix(a, b, ux) + (c-a)*uy*(1-ux) + (d-b)*ux*uy
}
