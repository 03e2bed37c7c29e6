package glfwcontext

import (
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/cleantouch/backdrop/graphics"
	"github.com/cleantouch/backdrop/logging"
	"github.com/cleantouch/backdrop/options"
)

// Context is a GLFW window with an OpenGL 4.1 core context. It implements
// graphics.Context and forwards window events to the registered handlers.
type Context struct {
	window   *glfw.Window
	handlers graphics.EventHandlers
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()
}

var _ graphics.Context = (*Context)(nil)

func setContextHints() {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
}

// New creates the window. Width and height are in screen coordinates; the
// framebuffer follows the monitor's content scale.
func New(opts *options.Options, visible bool) (*Context, error) {
	setContextHints()
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(opts.Window.Width, opts.Window.Height, opts.Window.Title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		keyCallbacks: make(map[glfw.Key]func()),
	}
	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)
	win.SetCursorPosCallback(c.glfwCursorPosCallback)
	win.SetIconifyCallback(c.glfwIconifyCallback)
	return c, nil
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

// SetEventHandlers replaces the resize, pointer and visibility handlers.
func (c *Context) SetEventHandlers(h graphics.EventHandlers) {
	c.handlers = h
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
	if action == glfw.Press {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

// Framebuffer changes cover both window resizes and moves to a monitor with a
// different scale.
func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	if c.handlers.OnResize == nil || width == 0 || height == 0 {
		return
	}
	ww, wh := w.GetSize()
	c.handlers.OnResize(ww, wh, c.PixelRatio())
}

func (c *Context) glfwCursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	if c.handlers.OnPointer != nil {
		c.handlers.OnPointer(xpos, ypos)
	}
}

func (c *Context) glfwIconifyCallback(w *glfw.Window, iconified bool) {
	if c.handlers.OnVisibility != nil {
		c.handlers.OnVisibility(iconified)
	}
}

func (c *Context) IsGLES() bool {
	// GLFW does not provide a direct way to check if the context is GLES.
	return false
}

// MakeCurrent makes the context current for the calling goroutine and syncs
// buffer swaps to the display refresh.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
	glfw.SwapInterval(1)
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) WaitEvents() {
	glfw.WaitEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) GetWindowSize() (int, int) {
	return c.window.GetSize()
}

// PixelRatio is framebuffer pixels per window unit. It is 1 on platforms where
// GLFW window coordinates are already pixels.
func (c *Context) PixelRatio() float64 {
	fw, _ := c.window.GetFramebufferSize()
	ww, _ := c.window.GetSize()
	if fw <= 0 || ww <= 0 {
		return 1
	}
	return float64(fw) / float64(ww)
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// SetOpacity sets the window opacity where the platform supports it.
func (c *Context) SetOpacity(alpha float32) {
	c.window.SetOpacity(alpha)
}

func (c *Context) Position() (int, int) {
	return c.window.GetPos()
}

func (c *Context) SetPosition(x, y int) {
	c.window.SetPos(x, y)
}

// Show makes a hidden window visible.
func (c *Context) Show() {
	c.window.Show()
}

// Hide hides the window. Used when the surface gives way to the static fallback.
func (c *Context) Hide() {
	c.window.Hide()
}

var initialized bool

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	if initialized {
		return nil
	}
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	initialized = true
	logging.Logger().Debug("GLFW initialized", "version", glfw.GetVersionString())
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	if !initialized {
		return
	}
	glfw.Terminate()
	initialized = false
	logging.Logger().Debug("GLFW terminated")
}
