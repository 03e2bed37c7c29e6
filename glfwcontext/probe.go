package glfwcontext

import (
	"errors"

	"github.com/go-gl/gl/v4.1-core/gl"
	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/cleantouch/backdrop/capability"
	"github.com/cleantouch/backdrop/logging"
)

// Prober checks that an OpenGL 4.1 core context can be created and loaded. It
// opens a hidden 1x1 window with the same hints New uses and destroys it again.
type Prober struct{}

var _ capability.Prober = Prober{}

func (Prober) Probe() error {
	if err := InitGraphics(); err != nil {
		return &capability.CapabilityError{Op: "glfw init", Err: err}
	}

	setContextHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	win, err := glfw.CreateWindow(1, 1, "probe", nil, nil)
	if err != nil {
		return &capability.CapabilityError{Op: "create context", Err: err}
	}
	defer win.Destroy()

	win.MakeContextCurrent()
	defer glfw.DetachCurrentContext()

	if err := gl.Init(); err != nil {
		return &capability.CapabilityError{Op: "gl init", Err: err}
	}
	version := gl.GoStr(gl.GetString(gl.VERSION))
	if version == "" {
		return &capability.CapabilityError{Op: "gl version", Err: errors.New("empty GL_VERSION")}
	}
	logging.Logger().Info("GL context available",
		"version", version,
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	return nil
}
