package graphics

// Context defines the interface for an OpenGL context bound to a host window.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// EndFrame presents the frame and processes pending events.
	EndFrame()
	// WaitEvents blocks until at least one event arrives.
	WaitEvents()
	GetFramebufferSize() (int, int)
	// GetWindowSize returns the window size in screen coordinates (CSS pixels).
	GetWindowSize() (int, int)
	// PixelRatio is the content scale of the window, uncapped.
	PixelRatio() float64
	Time() float64
	IsGLES() bool
	SetEventHandlers(h EventHandlers)
}

// EventHandlers receive host events. Nil fields are ignored. All of them run on the
// thread that polls events.
type EventHandlers struct {
	// OnResize reports the window size in CSS pixels and the current pixel ratio.
	OnResize func(cssWidth, cssHeight int, dpr float64)
	// OnPointer reports the cursor in window coordinates, origin top-left.
	OnPointer func(x, y float64)
	// OnVisibility reports iconify (hidden) and restore.
	OnVisibility func(hidden bool)
}
