// Package app assembles the background: it probes the device, builds the render
// surface and the animation driver, and turns host events into driver events.
package app

import (
	"errors"
	"fmt"

	"github.com/cleantouch/backdrop/capability"
	"github.com/cleantouch/backdrop/driver"
	"github.com/cleantouch/backdrop/graphics"
	"github.com/cleantouch/backdrop/logging"
	"github.com/cleantouch/backdrop/shade"
)

// Page is the host document around the surface.
type Page interface {
	// HideSurface removes the live surface from view.
	HideSurface()
	// ShowFallback presents the static replacement image.
	ShowFallback() error
}

// Surface is what the driver renders into. *renderer.Surface implements it.
type Surface interface {
	driver.Renderer
	Resize(cssWidth, cssHeight int, dpr float64) shade.Resolution
	Destroy()
}

// SurfaceFactory builds the surface once the device is known to be capable.
type SurfaceFactory func() (Surface, error)

type Config struct {
	Gate       *capability.Gate
	NewSurface SurfaceFactory
	Scheduler  driver.Scheduler
	Page       Page

	// Initial viewport in CSS pixels and its device pixel ratio.
	Width, Height int
	PixelRatio    float64

	// Params seeds pointer, grain and dither. Resolution and time are overwritten.
	Params shade.Params
	Driver driver.Options
}

// Backdrop is a mounted background. It is not safe for concurrent use; call it
// from the host event thread.
type Backdrop struct {
	page    Page
	surface Surface
	driver  *driver.Driver

	cssWidth, cssHeight int
	dpr                 float64
}

// Mount probes the device and, when it is capable, builds the surface and a
// stopped driver. When it is not, the page shows its fallback and Mount returns an
// error matching capability.ErrIncapable; nothing is scheduled in that case.
func Mount(cfg Config) (*Backdrop, error) {
	if cfg.Gate == nil || cfg.NewSurface == nil || cfg.Scheduler == nil || cfg.Page == nil {
		return nil, errors.New("mount: incomplete config")
	}

	if res, err := cfg.Gate.Probe(); res != capability.Capable {
		if err == nil {
			err = &capability.CapabilityError{Op: "probe"}
		}
		return nil, fallback(cfg.Page, err)
	}

	surface, err := cfg.NewSurface()
	if err != nil {
		return nil, fallback(cfg.Page, fmt.Errorf("create surface: %w", err))
	}

	b := &Backdrop{
		page:      cfg.Page,
		surface:   surface,
		cssWidth:  cfg.Width,
		cssHeight: cfg.Height,
		dpr:       cfg.PixelRatio,
	}
	p := cfg.Params
	p.ElapsedTime = 0
	p.Resolution = surface.Resize(cfg.Width, cfg.Height, cfg.PixelRatio)
	b.driver = driver.New(cfg.Scheduler, surface, p, cfg.Driver)

	logging.Logger().Info("backdrop mounted",
		"width", cfg.Width, "height", cfg.Height,
		"buffer", fmt.Sprintf("%dx%d", p.Resolution.Width, p.Resolution.Height))
	return b, nil
}

func fallback(page Page, cause error) error {
	logging.Logger().Warn("live background unavailable, showing fallback", "err", cause)
	page.HideSurface()
	if err := page.ShowFallback(); err != nil {
		return fmt.Errorf("mount: %w", errors.Join(cause, err))
	}
	return fmt.Errorf("mount: %w", cause)
}

// Start begins animating.
func (b *Backdrop) Start() { b.driver.Start() }

// Resize reacts to a viewport change.
func (b *Backdrop) Resize(cssWidth, cssHeight int, dpr float64) {
	b.cssWidth, b.cssHeight, b.dpr = cssWidth, cssHeight, dpr
	res := b.surface.Resize(cssWidth, cssHeight, dpr)
	b.driver.Dispatch(driver.Resized{Resolution: res})
}

// PointerMoved takes client coordinates in CSS pixels, origin top-left.
func (b *Backdrop) PointerMoved(clientX, clientY float64) {
	p := shade.NormalizePointer(clientX, clientY, b.cssWidth, b.cssHeight)
	b.driver.Dispatch(driver.PointerMoved{Pointer: p})
}

func (b *Backdrop) VisibilityChanged(hidden bool) {
	b.driver.Dispatch(driver.VisibilityChanged{Hidden: hidden})
}

// Handlers adapts the backdrop to host window callbacks.
func (b *Backdrop) Handlers() graphics.EventHandlers {
	return graphics.EventHandlers{
		OnResize:     b.Resize,
		OnPointer:    b.PointerMoved,
		OnVisibility: b.VisibilityChanged,
	}
}

func (b *Backdrop) Driver() *driver.Driver { return b.driver }

// Close stops scheduling and releases the surface.
func (b *Backdrop) Close() {
	b.driver.Pause()
	b.surface.Destroy()
}
