// Package driver advances the background animation. It owns the shader
// parameters and schedules one frame at a time while running.
package driver

import (
	"math"

	"github.com/cleantouch/backdrop/logging"
	"github.com/cleantouch/backdrop/shade"
)

// DefaultMaxFrameDelta caps the first time step after a resume, in seconds.
const DefaultMaxFrameDelta = 0.1

type State int

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Renderer draws a frame from the current parameters.
type Renderer interface {
	Render(p shade.Params)
}

// Event is a host notification fed to Dispatch.
type Event interface {
	isEvent()
}

// Resized carries the new drawing buffer size in device pixels.
type Resized struct {
	Resolution shade.Resolution
}

// PointerMoved carries the pointer in normalized, y-up coordinates.
type PointerMoved struct {
	Pointer shade.Vec2
}

// VisibilityChanged reports that the surface was hidden or shown again.
type VisibilityChanged struct {
	Hidden bool
}

func (Resized) isEvent()           {}
func (PointerMoved) isEvent()      {}
func (VisibilityChanged) isEvent() {}

type Options struct {
	// MaxFrameDelta caps the first time step after a resume. Zero means
	// DefaultMaxFrameDelta.
	MaxFrameDelta float64
	// OnFrame, if set, runs after time advances and before the frame renders.
	OnFrame func(p shade.Params, dt float64)
}

// Driver is the Stopped → Running ⇄ Paused state machine. All methods must be
// called from the thread that runs the scheduler's callbacks.
type Driver struct {
	sched  Scheduler
	render Renderer
	opts   Options

	params shade.Params
	state  State
	handle Handle
	// gen invalidates callbacks scheduled before the last pause.
	gen uint64

	last    float64
	hasLast bool
	// resumed marks the first frame after Resume, whose delta spans the pause.
	resumed bool
	frames  uint64
}

// New returns a stopped driver with initial parameters p.
func New(s Scheduler, r Renderer, p shade.Params, opts Options) *Driver {
	if !(opts.MaxFrameDelta > 0) {
		opts.MaxFrameDelta = DefaultMaxFrameDelta
	}
	return &Driver{
		sched:  s,
		render: r,
		opts:   opts,
		params: p,
	}
}

func (d *Driver) State() State { return d.state }

// Params returns a copy of the current parameters.
func (d *Driver) Params() shade.Params { return d.params }

// Frames is the number of frames rendered so far.
func (d *Driver) Frames() uint64 { return d.frames }

// Start begins the loop. It only has an effect on a stopped driver.
func (d *Driver) Start() {
	if d.state != Stopped {
		return
	}
	d.state = Running
	d.schedule()
	logging.Logger().Info("animation started")
}

// Pause cancels the pending frame. Time does not advance while paused.
func (d *Driver) Pause() {
	if d.state != Running {
		return
	}
	if d.handle != 0 {
		d.sched.CancelFrame(d.handle)
		d.handle = 0
	}
	d.gen++
	d.state = Paused
	logging.Logger().Debug("animation paused", "elapsed", d.params.ElapsedTime)
}

// Resume schedules one new frame. Elapsed time continues from where it stopped;
// the first step is capped at MaxFrameDelta.
func (d *Driver) Resume() {
	if d.state != Paused {
		return
	}
	d.state = Running
	d.resumed = true
	d.schedule()
	logging.Logger().Debug("animation resumed", "elapsed", d.params.ElapsedTime)
}

// Dispatch applies a host event.
func (d *Driver) Dispatch(ev Event) {
	switch e := ev.(type) {
	case Resized:
		d.params.Resolution = shade.Resolution{
			Width:  max(e.Resolution.Width, 1),
			Height: max(e.Resolution.Height, 1),
		}
	case PointerMoved:
		d.params.Pointer = e.Pointer
	case VisibilityChanged:
		if e.Hidden {
			d.Pause()
		} else {
			d.Resume()
		}
	}
}

func (d *Driver) schedule() {
	d.gen++
	gen := d.gen
	d.handle = d.sched.RequestFrame(func(now float64) {
		d.frame(gen, now)
	})
}

func (d *Driver) frame(gen uint64, now float64) {
	if d.state != Running || gen != d.gen {
		return
	}
	d.handle = 0

	dt := 0.0
	if d.hasLast {
		dt = d.step(now-d.last, d.resumed)
	}
	d.last, d.hasLast = now, true
	d.resumed = false
	d.params.ElapsedTime += dt

	if d.opts.OnFrame != nil {
		d.opts.OnFrame(d.params, dt)
	}
	d.render.Render(d.params)
	d.frames++

	// Rendering may pump host events that pause or reschedule.
	if d.state == Running && d.handle == 0 {
		d.schedule()
	}
}

// step turns a timestamp difference into a time step. Only the first step after
// a resume is capped, so time spent paused does not jump the animation.
func (d *Driver) step(dt float64, resumed bool) float64 {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return 0
	}
	if resumed {
		return math.Min(dt, d.opts.MaxFrameDelta)
	}
	return dt
}
