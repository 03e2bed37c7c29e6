package shade

import (
	"image"
	"math"
	"testing"
)

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %.12f, want %.12f", name, got, want)
	}
}

// --- NoiseField ---

func TestHashRange(t *testing.T) {
	for y := -20; y < 20; y++ {
		for x := -20; x < 20; x++ {
			p := Vec2{float64(x) * 0.37, float64(y) * 1.91}
			h := Hash(p)
			if h < 0 || h >= 1 {
				t.Fatalf("Hash(%v) = %f, want [0,1)", p, h)
			}
		}
	}
}

func TestHashDeterministic(t *testing.T) {
	p := Vec2{812.5, 377.5}
	if Hash(p) != Hash(p) {
		t.Error("Hash is not repeatable")
	}
	if Hash(p) == Hash(Vec2{813.5, 377.5}) {
		t.Error("neighboring pixels hash to the same value")
	}
}

func TestValueNoiseLatticeEqualsHash(t *testing.T) {
	for y := -8; y <= 8; y++ {
		for x := -8; x <= 8; x++ {
			p := Vec2{float64(x), float64(y)}
			if got, want := ValueNoise(p), Hash(p); got != want {
				t.Errorf("ValueNoise(%v) = %v, want Hash = %v", p, got, want)
			}
		}
	}
}

func TestValueNoiseContinuousAcrossCells(t *testing.T) {
	const eps = 1e-9
	for k := -5; k <= 5; k++ {
		for _, y := range []float64{0.13, 2.71, -3.4} {
			left := ValueNoise(Vec2{float64(k) - eps, y})
			right := ValueNoise(Vec2{float64(k) + eps, y})
			if math.Abs(left-right) > 1e-6 {
				t.Errorf("x boundary %d, y %.2f: %f vs %f", k, y, left, right)
			}
			below := ValueNoise(Vec2{y, float64(k) - eps})
			above := ValueNoise(Vec2{y, float64(k) + eps})
			if math.Abs(below-above) > 1e-6 {
				t.Errorf("y boundary %d, x %.2f: %f vs %f", k, y, below, above)
			}
		}
	}
}

func TestValueNoiseBounded(t *testing.T) {
	for i := 0; i < 2000; i++ {
		p := Vec2{float64(i) * 0.173, float64(i) * 0.091}
		v := ValueNoise(p)
		if v < 0 || v > 1 {
			t.Fatalf("ValueNoise(%v) = %f, want [0,1]", p, v)
		}
	}
}

// --- DitherMatrix ---

func TestThresholdTable(t *testing.T) {
	want := [4][4]float64{
		{0, 8, 2, 10},
		{12, 4, 14, 6},
		{3, 11, 1, 9},
		{15, 7, 13, 5},
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := Threshold(x, y); got != want[y][x]/16 {
				t.Errorf("Threshold(%d,%d) = %v, want %v/16", x, y, got, want[y][x])
			}
		}
	}
}

func TestThresholdPeriodic(t *testing.T) {
	for y := -8; y < 12; y++ {
		for x := -8; x < 12; x++ {
			base := Threshold(x, y)
			if Threshold(x+4, y) != base || Threshold(x, y+4) != base {
				t.Fatalf("Threshold not periodic at (%d,%d)", x, y)
			}
		}
	}
}

func TestThresholdDistinctValues(t *testing.T) {
	seen := make(map[float64]bool)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			seen[Threshold(x, y)] = true
		}
	}
	if len(seen) != 16 {
		t.Fatalf("got %d distinct thresholds, want 16", len(seen))
	}
	for i := 0; i < 16; i++ {
		if !seen[float64(i)/16] {
			t.Errorf("missing threshold %d/16", i)
		}
	}
}

// --- ColorPalette ---

func TestColorForEndpoints(t *testing.T) {
	c0 := ColorFor(0)
	want0 := Base.Mix(Blue, 0.10)
	assertNear(t, "ColorFor(0).R", c0.R, want0.R)
	assertNear(t, "ColorFor(0).G", c0.G, want0.G)
	assertNear(t, "ColorFor(0).B", c0.B, want0.B)

	c1 := ColorFor(1)
	want1 := Cool.Mix(Teal, 0.10)
	assertNear(t, "ColorFor(1).R", c1.R, want1.R)
	assertNear(t, "ColorFor(1).G", c1.G, want1.G)
	assertNear(t, "ColorFor(1).B", c1.B, want1.B)
}

func TestColorForLeansTealAtHighField(t *testing.T) {
	dist := func(a, b RGB) float64 {
		return math.Sqrt((a.R-b.R)*(a.R-b.R) + (a.G-b.G)*(a.G-b.G) + (a.B-b.B)*(a.B-b.B))
	}
	if dist(ColorFor(1), Teal) >= dist(ColorFor(0), Teal) {
		t.Error("ColorFor(1) should sit closer to the teal accent than ColorFor(0)")
	}
	// Accent stays a tint: the base/cool blend dominates.
	if dist(ColorFor(0), Base) > 0.1 {
		t.Errorf("ColorFor(0) drifted %.3f from base", dist(ColorFor(0), Base))
	}
}

func TestColorForBounded(t *testing.T) {
	for i := 0; i <= 100; i++ {
		c := ColorFor(float64(i) / 100)
		for _, ch := range []float64{c.R, c.G, c.B} {
			if ch < 0 || ch > 1 {
				t.Fatalf("ColorFor(%.2f) = %+v out of range", float64(i)/100, c)
			}
		}
	}
}

// --- Viewport mapping ---

func TestDeviceResolution(t *testing.T) {
	tests := []struct {
		w, h int
		dpr  float64
		want Resolution
	}{
		{800, 600, 2, Resolution{1600, 1200}},
		{800, 600, 3, Resolution{1600, 1200}}, // capped
		{800, 600, 1.5, Resolution{1200, 900}},
		{333, 101, 1.25, Resolution{416, 126}},
		{800, 600, 0, Resolution{800, 600}},
		{0, 0, 2, Resolution{1, 1}},
	}
	for _, tt := range tests {
		if got := DeviceResolution(tt.w, tt.h, tt.dpr); got != tt.want {
			t.Errorf("DeviceResolution(%d,%d,%v) = %v, want %v", tt.w, tt.h, tt.dpr, got, tt.want)
		}
	}
}

func TestNormalizePointer(t *testing.T) {
	p := NormalizePointer(400, 300, 800, 600)
	assertNear(t, "x", p.X, 0.5)
	assertNear(t, "y", p.Y, 0.5)

	p = NormalizePointer(0, 0, 800, 600)
	assertNear(t, "top-left x", p.X, 0)
	assertNear(t, "top-left y", p.Y, 1)

	p = NormalizePointer(800, 600, 800, 600)
	assertNear(t, "bottom-right x", p.X, 1)
	assertNear(t, "bottom-right y", p.Y, 0)
}

// --- FrameCompositor ---

func frameParams() Params {
	p := DefaultParams()
	p.Resolution = Resolution{Width: 320, Height: 180}
	p.ElapsedTime = 12.5
	return p
}

func TestShadeBoundedAndFinite(t *testing.T) {
	p := frameParams()
	pointers := []Vec2{{0.5, 0.5}, {-3, 7}, {40, -40}}
	for _, ptr := range pointers {
		p.Pointer = ptr
		for y := 0; y < p.Resolution.Height; y += 7 {
			for x := 0; x < p.Resolution.Width; x += 11 {
				c := Shade(Vec2{float64(x) + 0.5, float64(y) + 0.5}, p)
				if c.A != 1 {
					t.Fatalf("alpha at (%d,%d) = %v, want 1", x, y, c.A)
				}
				for _, ch := range []float64{c.R, c.G, c.B} {
					if math.IsNaN(ch) || math.IsInf(ch, 0) {
						t.Fatalf("non-finite channel at (%d,%d) pointer %v: %+v", x, y, ptr, c)
					}
					if ch < 0 || ch > 1.2 {
						t.Fatalf("channel out of range at (%d,%d): %+v", x, y, c)
					}
				}
			}
		}
	}
}

func TestShadeDeterministic(t *testing.T) {
	p := frameParams()
	frag := Vec2{100.5, 60.5}
	if Shade(frag, p) != Shade(frag, p) {
		t.Error("Shade is not repeatable for identical input")
	}
}

func TestShadePointerGlowAddsBlue(t *testing.T) {
	p := frameParams()
	p.Grain, p.Dither = 0, 0
	frag := Vec2{160.5, 90.5} // uv ~ (0.5, 0.5)

	p.Pointer = Vec2{0.5, 0.5}
	near := Shade(frag, p)
	p.Pointer = Vec2{5, 5}
	far := Shade(frag, p)

	if near.B <= far.B {
		t.Errorf("blue under pointer %.4f should exceed far %.4f", near.B, far.B)
	}
	if near.B-far.B <= near.R-far.R {
		t.Error("glow should favor blue over red")
	}
}

func TestShadeVignetteDarkensCorners(t *testing.T) {
	p := frameParams()
	p.Grain, p.Dither = 0, 0
	p.Pointer = Vec2{-10, -10}
	var centerSum, cornerSum float64
	for i := 0; i < 20; i++ {
		p.ElapsedTime = float64(i) * 3.7
		c := Shade(Vec2{160.5, 90.5}, p)
		k := Shade(Vec2{0.5, 0.5}, p)
		centerSum += c.R + c.G + c.B
		cornerSum += k.R + k.G + k.B
	}
	if cornerSum >= centerSum {
		t.Errorf("corner brightness %.3f should be below center %.3f", cornerSum, centerSum)
	}
}

func TestShadeGrainAndDitherOff(t *testing.T) {
	p := frameParams()
	p.Grain, p.Dither = 0, 0
	// Adjacent pixels with identical field values differ only by grain/dither;
	// with both off they must be nearly equal.
	a := Shade(Vec2{100.5, 50.5}, p)
	b := Shade(Vec2{101.5, 50.5}, p)
	if math.Abs(a.G-b.G) > 0.01 {
		t.Errorf("neighbors differ by %.4f with grain and dither off", math.Abs(a.G-b.G))
	}
}

// --- Raster ---

func TestRasterMatchesShade(t *testing.T) {
	p := frameParams()
	p.Resolution = Resolution{Width: 16, Height: 8}
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	NewRaster(3).Render(img, p)

	// Top-left pixel of the image is the top row in GL terms.
	c := Shade(Vec2{0.5, 7.5}, p)
	got := img.RGBAAt(0, 0)
	if got.R != toByte(c.R) || got.G != toByte(c.G) || got.B != toByte(c.B) || got.A != toByte(c.A) || got.A != 0xff {
		t.Errorf("pixel (0,0) = %v, want shade %+v", got, c)
	}
}

func TestRasterIndependentOfWorkers(t *testing.T) {
	p := frameParams()
	p.Resolution = Resolution{Width: 37, Height: 23}
	a, _ := NewRaster(1).Frame(p)
	a = append([]byte(nil), a...)
	b, _ := NewRaster(8).Frame(p)
	if len(a) != len(b) {
		t.Fatalf("frame sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("byte %d differs: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestRasterFrameSize(t *testing.T) {
	p := frameParams()
	p.Resolution = Resolution{Width: 10, Height: 4}
	pix, err := NewRaster(0).Frame(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(pix) != 10*4*4 {
		t.Errorf("len = %d, want %d", len(pix), 10*4*4)
	}
}
