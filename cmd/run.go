package main

import (
	"errors"
	"fmt"
	"math"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"github.com/cleantouch/backdrop/app"
	"github.com/cleantouch/backdrop/capability"
	"github.com/cleantouch/backdrop/driver"
	"github.com/cleantouch/backdrop/encoder"
	"github.com/cleantouch/backdrop/glfwcontext"
	"github.com/cleantouch/backdrop/intro"
	"github.com/cleantouch/backdrop/logging"
	"github.com/cleantouch/backdrop/options"
	"github.com/cleantouch/backdrop/renderer"
	"github.com/cleantouch/backdrop/shade"
)

func newRunCmd() *cobra.Command {
	var noIntro bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "open the background in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			if noIntro {
				o.Motion.Intro = false
			}
			return runWindow(o)
		},
	}
	cmd.Flags().BoolVar(&noIntro, "no-intro", false, "show the window without the fade-in")
	return cmd
}

// windowPage is the host page of the run command: the window is the surface and
// the fallback is a still written to disk.
type windowPage struct {
	opts *options.Options
	win  *glfwcontext.Context
}

func (p *windowPage) HideSurface() {
	if p.win != nil {
		p.win.Hide()
	}
}

func (p *windowPage) ShowFallback() error {
	params := p.opts.Params(p.opts.DeviceResolution())
	img := encoder.Still(params, p.opts.Still.Scale, p.opts.Workers)
	if err := encoder.WritePNG(p.opts.Window.Fallback, img); err != nil {
		return err
	}
	logging.Logger().Info("wrote fallback still", "path", p.opts.Window.Fallback)
	return nil
}

func runWindow(o *options.Options) error {
	defer glfwcontext.TerminateGraphics()

	page := &windowPage{opts: o}
	loop := &driver.FrameLoop{}

	var tl *intro.Timeline
	if o.Motion.Intro {
		tl = intro.New(intro.Window(), o.Motion.ReducedMotion)
	}
	var baseX, baseY int

	cfg := app.Config{
		Gate:      capability.NewGate(glfwcontext.Prober{}),
		Scheduler: loop,
		Page:      page,
		NewSurface: func() (app.Surface, error) {
			win, err := glfwcontext.New(o, false)
			if err != nil {
				return nil, &capability.CapabilityError{Op: "create window", Err: err}
			}
			s, err := renderer.New(win)
			if err != nil {
				win.Shutdown()
				return nil, err
			}
			page.win = win
			return s, nil
		},
		Width:      o.Window.Width,
		Height:     o.Window.Height,
		PixelRatio: o.Window.PixelRatio,
		Params:     o.Params(shade.Resolution{}),
		Driver: driver.Options{
			MaxFrameDelta: o.Motion.MaxFrameDelta,
			OnFrame: func(p shade.Params, dt float64) {
				if tl == nil {
					return
				}
				done := tl.Update(dt)
				st := tl.State("window")
				page.win.SetOpacity(float32(st.Alpha))
				page.win.SetPosition(baseX, baseY+int(math.Round(st.Y)))
				if done {
					tl = nil
				}
			},
		},
	}

	b, err := app.Mount(cfg)
	if err != nil {
		if errors.Is(err, capability.ErrIncapable) {
			logging.Logger().Warn("running without a live background", "err", err)
			return nil
		}
		return err
	}
	win := page.win
	defer win.Shutdown()
	defer b.Close()

	handlers := b.Handlers()
	if o.Window.PixelRatio > 0 {
		handlers.OnResize = func(cssWidth, cssHeight int, _ float64) {
			b.Resize(cssWidth, cssHeight, o.Window.PixelRatio)
		}
	}
	win.SetEventHandlers(handlers)
	win.RegisterKeyCallback(glfw.KeyS, func() {
		p := b.Driver().Params()
		img := encoder.Still(p, 1, o.Workers)
		if err := encoder.WritePNG(o.Still.Output, img); err != nil {
			logging.Logger().Error("failed to save still", "err", err)
			return
		}
		logging.Logger().Info("saved still", "path", o.Still.Output, "time", p.ElapsedTime)
	})
	// The configured pixel ratio wins; otherwise use what the display reports.
	ww, wh := win.GetWindowSize()
	dpr := o.Window.PixelRatio
	if dpr <= 0 {
		dpr = win.PixelRatio()
	}
	b.Resize(ww, wh, dpr)

	baseX, baseY = win.Position()
	if tl != nil && !tl.Done() {
		win.SetOpacity(0)
		win.SetPosition(baseX, baseY+intro.Slide)
	} else {
		tl = nil
	}
	win.Show()

	b.Start()
	for !win.ShouldClose() {
		if loop.Pending() {
			loop.RunPending(win.Time())
		} else {
			// Paused: block until an event (restore, close) arrives.
			win.WaitEvents()
		}
	}
	logging.Logger().Info("window closed", "frames", b.Driver().Frames(),
		"elapsed", fmt.Sprintf("%.2fs", b.Driver().Params().ElapsedTime))
	return nil
}
