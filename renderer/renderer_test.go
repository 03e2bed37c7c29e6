package renderer

import (
	"testing"

	"github.com/cleantouch/backdrop/shade"
)

func TestFitFramebuffer(t *testing.T) {
	tests := []struct {
		name          string
		res           shade.Resolution
		fbw, fbh      int
		want          shade.Resolution
		wantOffscreen bool
	}{
		{"exact", shade.Resolution{Width: 1600, Height: 1200}, 1600, 1200, shade.Resolution{Width: 1600, Height: 1200}, false},
		{"floored ratio", shade.Resolution{Width: 1599, Height: 1200}, 1600, 1200, shade.Resolution{Width: 1600, Height: 1200}, false},
		{"both axes off by one", shade.Resolution{Width: 1599, Height: 1199}, 1600, 1200, shade.Resolution{Width: 1600, Height: 1200}, false},
		{"capped scale", shade.Resolution{Width: 1600, Height: 1200}, 2400, 1800, shade.Resolution{Width: 1600, Height: 1200}, true},
		{"no framebuffer", shade.Resolution{Width: 800, Height: 600}, 0, 0, shade.Resolution{Width: 800, Height: 600}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, offscreen := fitFramebuffer(tt.res, tt.fbw, tt.fbh)
			if got != tt.want || offscreen != tt.wantOffscreen {
				t.Errorf("fitFramebuffer(%v, %d, %d) = %v, %v; want %v, %v",
					tt.res, tt.fbw, tt.fbh, got, offscreen, tt.want, tt.wantOffscreen)
			}
		})
	}
}
