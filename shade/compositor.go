package shade

import "math"

// Compositor constants. They are tuned by eye; the GLSL program uses the same literals.
const (
	timeScale = 0.08

	warpAmpX, warpFreqX, warpSpeedX = 0.06, 6.0, 2.5
	warpAmpY, warpFreqY, warpSpeedY = 0.05, 5.0, 2.2

	lowFreq, highFreq   = 2.1, 5.1
	highDrift           = 1.2
	lowWeight, hiWeight = 0.62, 0.38

	glowFalloff  = 7.0
	glowStrength = 0.10

	vignetteInner = 0.35
	vignetteOuter = 1.2
	vignetteFloor = 0.88
	vignetteGain  = 0.12

	softenWeight   = 0.20
	grainStrength  = 0.09
	ditherStrength = 0.030
	toneExponent   = 0.98
)

var center = Vec2{0.5, 0.5}

// Shade computes the background color of one pixel. fragCoord is the pixel
// center in GL window convention (origin bottom-left, centers at +0.5). The
// result is opaque: A is always 1.
//
// Shade is total: any finite input yields a finite color.
func Shade(fragCoord Vec2, p Params) RGBA {
	w := float64(max(p.Resolution.Width, 1))
	h := float64(max(p.Resolution.Height, 1))
	uv := Vec2{fragCoord.X / w, fragCoord.Y / h}
	px := fragCoord

	t := p.ElapsedTime * timeScale

	// flow field
	q := uv
	q.X += warpAmpX * math.Sin(uv.Y*warpFreqX+t*warpSpeedX)
	q.Y += warpAmpY * math.Cos(uv.X*warpFreqY-t*warpSpeedY)

	n1 := ValueNoise(q.Scale(lowFreq).AddScalar(t))
	n2 := ValueNoise(q.Scale(highFreq).AddScalar(-t * highDrift))
	field := lowWeight*n1 + hiWeight*n2

	glow := math.Exp(-uv.Dist(p.Pointer)*glowFalloff) * glowStrength
	v := smoothstep(vignetteOuter, vignetteInner, uv.Dist(center))

	col := ColorFor(field)
	col = col.Add(GlowTint.Scale(glow))
	col = col.Mix(Base, softenWeight)
	col = col.Scale(vignetteFloor + vignetteGain*v)

	g := (Hash(px.AddScalar(p.ElapsedTime)) - 0.5) * grainStrength * p.Grain
	col = col.AddScalar(g)

	d := Threshold(int(math.Floor(px.X)), int(math.Floor(px.Y))) - 0.5
	col = col.AddScalar(d * ditherStrength * p.Dither)

	return RGBA{tone(col.R), tone(col.G), tone(col.B), 1}
}

func tone(c float64) float64 {
	return math.Pow(math.Max(c, 0), toneExponent)
}
