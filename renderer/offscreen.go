package renderer

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Offscreen is an RGBA8 framebuffer object used when the drawing buffer and the
// window framebuffer differ in size, and for readback.
type Offscreen struct {
	fbo       uint32
	textureID uint32
	width     int
	height    int
}

func NewOffscreen(width, height int) (*Offscreen, error) {
	o := &Offscreen{}
	gl.GenFramebuffers(1, &o.fbo)
	gl.GenTextures(1, &o.textureID)
	if err := o.Resize(width, height); err != nil {
		o.Destroy()
		return nil, err
	}
	return o, nil
}

// Resize reallocates the color texture. It is a no-op when the size is unchanged.
func (o *Offscreen) Resize(width, height int) error {
	if width == o.width && height == o.height {
		return nil
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, o.fbo)
	gl.BindTexture(gl.TEXTURE_2D, o.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, o.textureID, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("offscreen fbo is not complete (status 0x%x)", status)
	}
	o.width, o.height = width, height
	return nil
}

// Bind directs drawing into the target and sets the viewport to cover it.
func (o *Offscreen) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, o.fbo)
	gl.Viewport(0, 0, int32(o.width), int32(o.height))
}

// ReadPixels returns the target contents as top-down RGBA bytes. dst is reused
// when it is large enough.
func (o *Offscreen) ReadPixels(dst []byte) []byte {
	size := o.width * o.height * 4
	if cap(dst) < size {
		dst = make([]byte, size)
	}
	dst = dst[:size]

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, o.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(o.width), int32(o.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&dst[0]))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	flipRows(dst, o.width*4, o.height)
	return dst
}

// flipRows turns GL's bottom-up row order into image order in place.
func flipRows(pix []byte, stride, rows int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, rows-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

func (o *Offscreen) Destroy() {
	gl.DeleteFramebuffers(1, &o.fbo)
	gl.DeleteTextures(1, &o.textureID)
}
