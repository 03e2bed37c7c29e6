package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/cleantouch/backdrop/logging"
	"github.com/cleantouch/backdrop/options"
)

var (
	configFile string
	logLevel   string

	// Overrides applied on top of the config file when the flag is set.
	width         int
	height        int
	pixelRatio    float64
	grain         float64
	dither        float64
	workers       int
	reducedMotion bool
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "backdrop",
		Short:         "animated grain and dither background",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logging.ParseLevel(logLevel),
			})
			logging.SetLogger(slog.New(handler))
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.IntVar(&width, "width", options.DefaultWidth, "viewport width in CSS pixels")
	pf.IntVar(&height, "height", options.DefaultHeight, "viewport height in CSS pixels")
	pf.Float64Var(&pixelRatio, "pixel-ratio", 0, "device pixel ratio, 0 to use the display's")
	pf.Float64Var(&grain, "grain", 1, "film grain strength")
	pf.Float64Var(&dither, "dither", 1, "ordered dither strength")
	pf.IntVar(&workers, "workers", 0, "software raster workers, 0 for GOMAXPROCS")
	pf.BoolVar(&reducedMotion, "reduced-motion", false, "skip the entry motion")

	rootCmd.AddCommand(
		newRunCmd(),
		newStillCmd(),
		newRecordCmd(),
		newInspectCmd(),
		newMailtoCmd(),
		newTimelineCmd(),
		newConfigCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadOptions reads the config file, if any, and applies the flags the user set.
func loadOptions(cmd *cobra.Command) (*options.Options, error) {
	o := options.Default()
	if configFile != "" {
		var err error
		if o, err = options.Load(configFile); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		o.Window.Width = width
	}
	if flags.Changed("height") {
		o.Window.Height = height
	}
	if flags.Changed("pixel-ratio") {
		o.Window.PixelRatio = pixelRatio
	}
	if flags.Changed("grain") {
		o.Shader.Grain = grain
	}
	if flags.Changed("dither") {
		o.Shader.Dither = dither
	}
	if flags.Changed("workers") {
		o.Workers = workers
	}
	if flags.Changed("reduced-motion") {
		o.Motion.ReducedMotion = reducedMotion
	}

	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return o, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			if err := options.Save(args[0], o); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
}
