package options

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cleantouch/backdrop/shade"
)

const (
	DefaultWidth         = 1280
	DefaultHeight        = 720
	DefaultTitle         = "backdrop"
	DefaultMaxFrameDelta = 0.1
	DefaultFallback      = "backdrop-fallback.png"
	DefaultContact       = "hello@cleantouch.example"
	DefaultFPS           = 60
	DefaultDuration      = 10.0
	DefaultCodec         = "h264"
)

type Options struct {
	Window  WindowOptions  `yaml:"window"`
	Shader  ShaderOptions  `yaml:"shader"`
	Motion  MotionOptions  `yaml:"motion"`
	Still   StillOptions   `yaml:"still"`
	Record  RecordOptions  `yaml:"record"`
	Contact ContactOptions `yaml:"contact"`
	Workers int            `yaml:"workers"`
}

type WindowOptions struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	// PixelRatio overrides the host content scale when > 0.
	PixelRatio float64 `yaml:"pixel_ratio"`
	// Fallback is where the static image goes when the device is unusable.
	Fallback string `yaml:"fallback"`
}

type ShaderOptions struct {
	Grain    float64 `yaml:"grain"`
	Dither   float64 `yaml:"dither"`
	PointerX float64 `yaml:"pointer_x"`
	PointerY float64 `yaml:"pointer_y"`
}

type MotionOptions struct {
	ReducedMotion bool    `yaml:"reduced_motion"`
	MaxFrameDelta float64 `yaml:"max_frame_delta"`
	Intro         bool    `yaml:"intro"`
}

type StillOptions struct {
	Time   float64 `yaml:"time"`
	Output string  `yaml:"output"`
	// Scale renders at a fraction of the target size and upsamples.
	Scale float64 `yaml:"scale"`
}

type RecordOptions struct {
	Duration   float64 `yaml:"duration"`
	FPS        int     `yaml:"fps"`
	Codec      string  `yaml:"codec"`
	Output     string  `yaml:"output"`
	Software   bool    `yaml:"software"`
	Hardware   bool    `yaml:"hardware"`
	FFmpegPath string  `yaml:"ffmpeg_path"`
}

type ContactOptions struct {
	Email string `yaml:"email"`
}

func Default() *Options {
	return &Options{
		Window: WindowOptions{
			Width:    DefaultWidth,
			Height:   DefaultHeight,
			Title:    DefaultTitle,
			Fallback: DefaultFallback,
		},
		Shader: ShaderOptions{
			Grain:    1,
			Dither:   1,
			PointerX: 0.5,
			PointerY: 0.5,
		},
		Motion: MotionOptions{
			MaxFrameDelta: DefaultMaxFrameDelta,
			Intro:         true,
		},
		Still: StillOptions{
			Output: "backdrop.png",
			Scale:  1,
		},
		Record: RecordOptions{
			Duration: DefaultDuration,
			FPS:      DefaultFPS,
			Codec:    DefaultCodec,
			Output:   "backdrop.mp4",
		},
		Contact: ContactOptions{Email: DefaultContact},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	o := Default()
	if err := yaml.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return o, nil
}

func Save(path string, o *Options) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every invalid field at once.
func (o *Options) Validate() error {
	var errs []error
	if o.Window.Width <= 0 || o.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", o.Window.Width, o.Window.Height))
	}
	if o.Window.PixelRatio < 0 {
		errs = append(errs, fmt.Errorf("pixel_ratio must not be negative, got %g", o.Window.PixelRatio))
	}
	if o.Shader.Grain < 0 {
		errs = append(errs, fmt.Errorf("grain must not be negative, got %g", o.Shader.Grain))
	}
	if o.Shader.Dither < 0 {
		errs = append(errs, fmt.Errorf("dither must not be negative, got %g", o.Shader.Dither))
	}
	if o.Motion.MaxFrameDelta <= 0 {
		errs = append(errs, fmt.Errorf("max_frame_delta must be positive, got %g", o.Motion.MaxFrameDelta))
	}
	if o.Still.Scale <= 0 || o.Still.Scale > 1 {
		errs = append(errs, fmt.Errorf("still scale must be in (0,1], got %g", o.Still.Scale))
	}
	if o.Record.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", o.Record.FPS))
	}
	if o.Record.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %g", o.Record.Duration))
	}
	if o.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", o.Workers))
	}
	return errors.Join(errs...)
}

// Params builds the initial shader parameters for a buffer of the given size.
func (o *Options) Params(res shade.Resolution) shade.Params {
	p := shade.DefaultParams()
	p.Resolution = res
	p.Pointer = shade.Vec2{X: o.Shader.PointerX, Y: o.Shader.PointerY}
	p.Grain = o.Shader.Grain
	p.Dither = o.Shader.Dither
	return p
}

// DeviceResolution is the drawing buffer size of the configured window.
func (o *Options) DeviceResolution() shade.Resolution {
	dpr := o.Window.PixelRatio
	if dpr <= 0 {
		dpr = 1
	}
	return shade.DeviceResolution(o.Window.Width, o.Window.Height, dpr)
}
