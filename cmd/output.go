package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/cleantouch/backdrop/analysis"
	"github.com/cleantouch/backdrop/capability"
	"github.com/cleantouch/backdrop/contact"
	"github.com/cleantouch/backdrop/encoder"
	"github.com/cleantouch/backdrop/glfwcontext"
	"github.com/cleantouch/backdrop/intro"
	"github.com/cleantouch/backdrop/logging"
	"github.com/cleantouch/backdrop/options"
	"github.com/cleantouch/backdrop/renderer"
	"github.com/cleantouch/backdrop/shade"
)

func newStillCmd() *cobra.Command {
	var (
		at     float64
		output string
		scale  float64
	)
	cmd := &cobra.Command{
		Use:   "still",
		Short: "render one frame in software to a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("time") {
				o.Still.Time = at
			}
			if f.Changed("output") {
				o.Still.Output = output
			}
			if f.Changed("scale") {
				o.Still.Scale = scale
			}
			if err := o.Validate(); err != nil {
				return fmt.Errorf("invalid options: %w", err)
			}

			p := o.Params(o.DeviceResolution())
			p.ElapsedTime = o.Still.Time
			img := encoder.Still(p, o.Still.Scale, o.Workers)
			if err := encoder.WritePNG(o.Still.Output, img); err != nil {
				return err
			}
			logging.Logger().Info("wrote still", "path", o.Still.Output,
				"size", fmt.Sprintf("%dx%d", p.Resolution.Width, p.Resolution.Height), "time", p.ElapsedTime)
			return nil
		},
	}
	cmd.Flags().Float64Var(&at, "time", 0, "elapsed time of the frame in seconds")
	cmd.Flags().StringVarP(&output, "output", "o", "backdrop.png", "output PNG path")
	cmd.Flags().Float64Var(&scale, "scale", 1, "render scale in (0,1], upsampled to full size")
	return cmd
}

func newRecordCmd() *cobra.Command {
	var (
		duration   float64
		fps        int
		codec      string
		output     string
		software   bool
		hardware   bool
		ffmpegPath string
	)
	cmd := &cobra.Command{
		Use:   "record",
		Short: "record the background to a video with ffmpeg",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("duration") {
				o.Record.Duration = duration
			}
			if f.Changed("fps") {
				o.Record.FPS = fps
			}
			if f.Changed("codec") {
				o.Record.Codec = codec
			}
			if f.Changed("output") {
				o.Record.Output = output
			}
			if f.Changed("software") {
				o.Record.Software = software
			}
			if f.Changed("hardware") {
				o.Record.Hardware = hardware
			}
			if f.Changed("ffmpeg") {
				o.Record.FFmpegPath = ffmpegPath
			}
			if err := o.Validate(); err != nil {
				return fmt.Errorf("invalid options: %w", err)
			}
			return record(cmd, o)
		},
	}
	cmd.Flags().Float64Var(&duration, "duration", options.DefaultDuration, "seconds to record")
	cmd.Flags().IntVar(&fps, "fps", options.DefaultFPS, "frames per second")
	cmd.Flags().StringVar(&codec, "codec", options.DefaultCodec, "h264 or hevc")
	cmd.Flags().StringVarP(&output, "output", "o", "backdrop.mp4", "output video path")
	cmd.Flags().BoolVar(&software, "software", false, "render frames on the CPU instead of OpenGL")
	cmd.Flags().BoolVar(&hardware, "hardware", false, "use the platform's hardware encoder")
	cmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "", "path to the ffmpeg binary")
	return cmd
}

func record(cmd *cobra.Command, o *options.Options) error {
	res := o.DeviceResolution()
	cfg := encoder.Config{
		Width:      res.Width,
		Height:     res.Height,
		FPS:        o.Record.FPS,
		Duration:   o.Record.Duration,
		Codec:      o.Record.Codec,
		Output:     o.Record.Output,
		FFmpegPath: o.Record.FFmpegPath,
		Hardware:   o.Record.Hardware,
	}
	p := o.Params(res)

	var frame encoder.FrameFunc
	if o.Record.Software {
		frame = shade.NewRaster(o.Workers).Frame
	} else {
		if err := glfwcontext.InitGraphics(); err != nil {
			return fmt.Errorf("%w (try --software)", &capability.CapabilityError{Op: "glfw init", Err: err})
		}
		defer glfwcontext.TerminateGraphics()

		win, err := glfwcontext.New(o, false)
		if err != nil {
			return fmt.Errorf("%w (try --software)", &capability.CapabilityError{Op: "create window", Err: err})
		}
		defer win.Shutdown()

		s, err := renderer.New(win)
		if err != nil {
			if errors.Is(err, capability.ErrIncapable) {
				return fmt.Errorf("%w (try --software)", err)
			}
			return err
		}
		defer s.Destroy()
		frame = s.Capture
	}

	if err := encoder.Record(cmd.Context(), cfg, runtime.GOOS, p, frame); err != nil {
		return fmt.Errorf("recording failed: %w", err)
	}
	logging.Logger().Info("wrote video", "path", cfg.Output)
	return nil
}

func newInspectCmd() *cobra.Command {
	var at float64
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "report the spectrum of the grain and dither texture",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			p := o.Params(o.DeviceResolution())
			p.ElapsedTime = at
			rep := analysis.Inspect(p, o.Workers)
			return rep.WriteText(cmd.OutOrStdout())
		},
	}
	cmd.Flags().Float64Var(&at, "time", 0, "elapsed time of the inspected frame")
	return cmd
}

func newTimelineCmd() *cobra.Command {
	var window bool
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "print the entry motion schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			steps := intro.Hero()
			if window {
				steps = intro.Window()
			}
			return intro.New(steps, o.Motion.ReducedMotion).WriteText(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&window, "window", false, "show the window sequence used by run")
	return cmd
}

func newMailtoCmd() *cobra.Command {
	var (
		to string
		q  contact.Inquiry
	)
	cmd := &cobra.Command{
		Use:   "mailto",
		Short: "print the wholesale inquiry mailto link",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("to") {
				o.Contact.Email = to
			}
			fmt.Fprintln(cmd.OutOrStdout(), contact.ComposeURI(o.Contact.Email, q))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&to, "to", options.DefaultContact, "recipient address")
	f.StringVar(&q.Company, "company", "", "company name")
	f.StringVar(&q.Name, "name", "", "contact name")
	f.StringVar(&q.Email, "email", "", "reply address")
	f.StringVar(&q.Details, "details", "", "order details")
	return cmd
}
