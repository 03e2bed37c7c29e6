// Package renderer draws the background with OpenGL: one fragment program over a
// full-screen quad.
package renderer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/cleantouch/backdrop/capability"
	"github.com/cleantouch/backdrop/graphics"
	"github.com/cleantouch/backdrop/logging"
	"github.com/cleantouch/backdrop/shade"
	"github.com/cleantouch/backdrop/shader"
	"github.com/cleantouch/backdrop/translator"
)

// gl.Init loads function pointers once per process.
var (
	glInitOnce sync.Once
	glInitErr  error
)

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// Surface owns the background program, the quad and the binding to the window
// context. It is created once and lives until Destroy.
type Surface struct {
	context graphics.Context

	program     uint32
	blitProgram uint32
	quadVAO     uint32
	quadVBO     uint32

	timeLoc    int32
	resLoc     int32
	mouseLoc   int32
	grainLoc   int32
	ditherLoc  int32
	blitTexLoc int32

	res shade.Resolution
	// target is non-nil while the drawing buffer differs from the framebuffer.
	target  *Offscreen
	capture *Offscreen
	readBuf []byte
}

// New builds the surface on ctx. A failure to load GL returns a
// *capability.CapabilityError; shader failures return ordinary errors.
func New(ctx graphics.Context) (*Surface, error) {
	s := &Surface{context: ctx}
	s.context.MakeCurrent()

	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	if glInitErr != nil {
		return nil, &capability.CapabilityError{Op: "gl init", Err: glInitErr}
	}

	isGLES := ctx.IsGLES()
	fs, err := translator.Fragment(shader.FragmentSource, isGLES)
	if err != nil {
		return nil, err
	}
	s.program, err = newProgram(shader.GenerateVertexShader(isGLES), fs.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	s.blitProgram, err = newProgram(shader.GenerateVertexShader(isGLES), shader.GetBlitFragmentShader(isGLES))
	if err != nil {
		gl.DeleteProgram(s.program)
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}

	gl.UseProgram(s.program)
	s.timeLoc = uniformLocation(s.program, fs, shader.UniformTime)
	s.resLoc = uniformLocation(s.program, fs, shader.UniformRes)
	s.mouseLoc = uniformLocation(s.program, fs, shader.UniformMouse)
	s.grainLoc = uniformLocation(s.program, fs, shader.UniformGrain)
	s.ditherLoc = uniformLocation(s.program, fs, shader.UniformDither)
	s.blitTexLoc = gl.GetUniformLocation(s.blitProgram, gl.Str("u_texture\x00"))
	gl.UseProgram(0)

	gl.GenVertexArrays(1, &s.quadVAO)
	gl.GenBuffers(1, &s.quadVBO)
	gl.BindVertexArray(s.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	logging.Logger().Info("surface created",
		"gl", gl.GoStr(gl.GetString(gl.VERSION)),
		"uniforms", len(fs.Uniforms))
	return s, nil
}

func uniformLocation(program uint32, fs *translator.Program, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(fs.MappedName(name)+"\x00"))
}

// Resize sets the drawing buffer to floor(css * min(dpr, 2)) and returns it.
// When the window framebuffer is larger (content scale above 2) frames are drawn
// into an offscreen target and stretched onto the window.
func (s *Surface) Resize(cssWidth, cssHeight int, dpr float64) shade.Resolution {
	fbw, fbh := s.context.GetFramebufferSize()
	var offscreen bool
	s.res, offscreen = fitFramebuffer(shade.DeviceResolution(cssWidth, cssHeight, dpr), fbw, fbh)
	if !offscreen {
		if s.target != nil {
			s.target.Destroy()
			s.target = nil
		}
	} else {
		var err error
		if s.target == nil {
			s.target, err = NewOffscreen(s.res.Width, s.res.Height)
		} else {
			err = s.target.Resize(s.res.Width, s.res.Height)
		}
		if err != nil {
			// Draw straight to the window instead; the image is just not scaled.
			logging.Logger().Warn("offscreen target unavailable", "err", err)
			if s.target != nil {
				s.target.Destroy()
				s.target = nil
			}
		}
	}
	gl.Viewport(0, 0, int32(s.res.Width), int32(s.res.Height))

	logging.Logger().Debug("surface resized",
		"css", fmt.Sprintf("%dx%d", cssWidth, cssHeight),
		"dpr", dpr,
		"buffer", fmt.Sprintf("%dx%d", s.res.Width, s.res.Height),
		"framebuffer", fmt.Sprintf("%dx%d", fbw, fbh),
		"offscreen", s.target != nil)
	return s.res
}

// fitFramebuffer decides whether a drawing buffer of res can be drawn straight
// into a fbw x fbh framebuffer. A one pixel difference per axis comes from
// flooring css*dpr and is absorbed by drawing at the framebuffer size.
func fitFramebuffer(res shade.Resolution, fbw, fbh int) (shade.Resolution, bool) {
	if fbw <= 0 || fbh <= 0 {
		return res, false
	}
	if abs(res.Width-fbw) <= 1 && abs(res.Height-fbh) <= 1 {
		return shade.Resolution{Width: fbw, Height: fbh}, false
	}
	return res, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Render draws one frame with p and presents it.
func (s *Surface) Render(p shade.Params) {
	if s.target != nil {
		s.target.Bind()
		s.draw(p)
		s.blit(s.target)
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(s.res.Width), int32(s.res.Height))
		s.draw(p)
	}
	s.context.EndFrame()
}

// Capture draws p into an offscreen target sized to p.Resolution and returns the
// pixels as top-down RGBA. The returned slice is reused by the next call.
func (s *Surface) Capture(p shade.Params) ([]byte, error) {
	w, h := max(p.Resolution.Width, 1), max(p.Resolution.Height, 1)
	var err error
	if s.capture == nil {
		s.capture, err = NewOffscreen(w, h)
	} else {
		err = s.capture.Resize(w, h)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to prepare capture target: %w", err)
	}

	s.capture.Bind()
	s.draw(p)
	s.readBuf = s.capture.ReadPixels(s.readBuf)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		return nil, fmt.Errorf("gl error 0x%x during capture", errCode)
	}
	return s.readBuf, nil
}

// draw issues the single quad draw into whatever target is bound.
func (s *Surface) draw(p shade.Params) {
	gl.UseProgram(s.program)
	if s.timeLoc != -1 {
		gl.Uniform1f(s.timeLoc, float32(p.ElapsedTime))
	}
	if s.resLoc != -1 {
		gl.Uniform2f(s.resLoc, float32(p.Resolution.Width), float32(p.Resolution.Height))
	}
	if s.mouseLoc != -1 {
		gl.Uniform2f(s.mouseLoc, float32(p.Pointer.X), float32(p.Pointer.Y))
	}
	if s.grainLoc != -1 {
		gl.Uniform1f(s.grainLoc, float32(p.Grain))
	}
	if s.ditherLoc != -1 {
		gl.Uniform1f(s.ditherLoc, float32(p.Dither))
	}
	gl.BindVertexArray(s.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

func (s *Surface) blit(src *Offscreen) {
	fbw, fbh := s.context.GetFramebufferSize()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(fbw), int32(fbh))
	gl.UseProgram(s.blitProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, src.textureID)
	if s.blitTexLoc != -1 {
		gl.Uniform1i(s.blitTexLoc, 0)
	}
	gl.BindVertexArray(s.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Destroy releases every GL object. The context itself belongs to the caller.
func (s *Surface) Destroy() {
	if s.target != nil {
		s.target.Destroy()
		s.target = nil
	}
	if s.capture != nil {
		s.capture.Destroy()
		s.capture = nil
	}
	gl.DeleteProgram(s.program)
	gl.DeleteProgram(s.blitProgram)
	gl.DeleteBuffers(1, &s.quadVBO)
	gl.DeleteVertexArrays(1, &s.quadVAO)
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", logText)
	}
	return shader, nil
}
