// Package encoder writes rendered frames out as video through ffmpeg, or as PNG
// stills.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/cleantouch/backdrop/logging"
	"github.com/cleantouch/backdrop/shade"
)

// FrameFunc renders p and returns top-down RGBA bytes of p.Resolution.
type FrameFunc func(p shade.Params) ([]byte, error)

type Config struct {
	Width, Height int
	FPS           int
	Duration      float64
	Codec         string // h264 or hevc
	Output        string
	FFmpegPath    string
	// Hardware selects the platform's hardware encoder where one is known.
	Hardware bool
}

// FrameCount is the number of frames needed to cover duration at fps.
func FrameCount(duration float64, fps int) int {
	if duration <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Ceil(duration*float64(fps) - 1e-9))
}

// FrameTime is the presentation time of frame i.
func FrameTime(i, fps int) float64 {
	return float64(i) / float64(fps)
}

// Args returns the ffmpeg input and output arguments for cfg on goos.
func Args(cfg Config, goos string) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"r":       cfg.FPS,
	}

	outputArgs = ffmpeg.KwArgs{
		"pix_fmt": "yuv420p",
	}
	hevc := cfg.Codec == "hevc"

	switch {
	case cfg.Hardware && goos == "darwin":
		if hevc {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
		outputArgs["b:v"] = "25M"
	case cfg.Hardware && (goos == "linux" || goos == "windows"):
		if hevc {
			outputArgs["c:v"] = "hevc_nvenc"
		} else {
			outputArgs["c:v"] = "h264_nvenc"
		}
		outputArgs["preset"] = "p2"
		outputArgs["b:v"] = "25M"
	default:
		if hevc {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
		// Grain and dither need a low CRF or the encoder smooths them away.
		outputArgs["crf"] = 16
		outputArgs["preset"] = "slow"
		outputArgs["tune"] = "grain"
	}

	if hevc && strings.EqualFold(filepath.Ext(cfg.Output), ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return inputArgs, outputArgs
}

// Record renders cfg.Duration seconds of frames starting from p and pipes them
// into ffmpeg. Frames are produced on the calling goroutine, so frame may use a
// GL context bound to it.
func Record(ctx context.Context, cfg Config, goos string, p shade.Params, frame FrameFunc) error {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.FPS <= 0 {
		return fmt.Errorf("invalid recording size %dx%d at %d fps", cfg.Width, cfg.Height, cfg.FPS)
	}
	p.Resolution = shade.Resolution{Width: cfg.Width, Height: cfg.Height}
	start := p.ElapsedTime
	n := FrameCount(cfg.Duration, cfg.FPS)
	frameSize := cfg.Width * cfg.Height * 4

	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := Args(cfg, goos)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(cfg.Output, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if cfg.FFmpegPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(cfg.FFmpegPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// Unblock the writer if ffmpeg exits early.
		pipeReader.CloseWithError(errors.New("ffmpeg exited"))
		errc <- err
	}()

	logging.Logger().Info("recording",
		"output", cfg.Output, "frames", n, "fps", cfg.FPS,
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height), "codec", outputArgs["c:v"])

	var renderErr error
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			renderErr = err
			break
		}
		p.ElapsedTime = start + FrameTime(i, cfg.FPS)
		pix, err := frame(p)
		if err != nil {
			renderErr = fmt.Errorf("frame %d: %w", i, err)
			break
		}
		if len(pix) != frameSize {
			renderErr = fmt.Errorf("frame %d: got %d bytes, want %d", i, len(pix), frameSize)
			break
		}
		if _, err := pipeWriter.Write(pix); err != nil {
			renderErr = fmt.Errorf("failed to write frame %d to ffmpeg: %w", i, err)
			break
		}
		if i > 0 && i%cfg.FPS == 0 {
			logging.Logger().Debug("recorded", "seconds", i/cfg.FPS)
		}
	}

	if renderErr != nil {
		pipeWriter.CloseWithError(renderErr)
	} else {
		pipeWriter.Close()
	}
	ffErr := <-errc
	if renderErr != nil {
		return renderErr
	}
	if ffErr != nil {
		return fmt.Errorf("ffmpeg failed: %w", ffErr)
	}
	return nil
}
