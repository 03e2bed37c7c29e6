package shade

// bayer4 is the standard 4x4 ordered-dither matrix, row-major, values out of 16.
var bayer4 = [16]int{
	0, 8, 2, 10,
	12, 4, 14, 6,
	3, 11, 1, 9,
	15, 7, 13, 5,
}

// Threshold returns the Bayer threshold for a pixel, in [0,1). The pattern
// repeats every 4 pixels on both axes; negative coordinates wrap.
func Threshold(x, y int) float64 {
	idx := mod4(x) + 4*mod4(y)
	return float64(bayer4[idx]) / 16
}

func mod4(v int) int {
	return ((v % 4) + 4) % 4
}
