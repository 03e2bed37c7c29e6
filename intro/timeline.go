// Package intro plays the entry motion: named elements fade in while sliding up,
// staggered along a timeline.
package intro

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Slide is the starting vertical offset of every element, in CSS pixels.
const Slide = 14

// Step schedules one element. Offset positions it relative to the end of the
// steps before it: 0 appends, negative values overlap. Delay shifts it further.
type Step struct {
	Name     string
	Duration float64
	Offset   float64
	Delay    float64
}

// Hero is the landing sequence.
func Hero() []Step {
	return []Step{
		{Name: "heroPill", Duration: 0.7, Delay: 0.1},
		{Name: "heroTitle", Duration: 0.9, Offset: -0.35},
		{Name: "heroSub", Duration: 0.8, Offset: -0.5},
		{Name: "heroCta", Duration: 0.7, Offset: -0.55},
		{Name: "heroMetrics", Duration: 0.8, Offset: -0.55},
	}
}

// Window animates a single window-sized element.
func Window() []Step {
	return []Step{{Name: "window", Duration: 0.7, Delay: 0.1}}
}

// State is where an element is at the current time.
type State struct {
	Alpha float64
	Y     float64
}

var (
	hidden  = State{Alpha: 0, Y: Slide}
	visible = State{Alpha: 1, Y: 0}
)

type track struct {
	start float64
	end   float64
	alpha *gween.Tween
	y     *gween.Tween
	state State
}

// Timeline is driven by Update with the frame delta. It is not safe for
// concurrent use.
type Timeline struct {
	tracks   map[string]*track
	order    []string
	elapsed  float64
	duration float64
	done     bool
}

// New lays out steps. With reducedMotion the timeline starts finished and every
// element is already visible.
func New(steps []Step, reducedMotion bool) *Timeline {
	tl := &Timeline{tracks: make(map[string]*track, len(steps))}
	for _, s := range steps {
		start := math.Max(tl.duration+s.Offset, 0) + s.Delay
		d := float32(s.Duration)
		tl.tracks[s.Name] = &track{
			start: start,
			end:   start + s.Duration,
			alpha: gween.New(0, 1, d, ease.OutCubic),
			y:     gween.New(Slide, 0, d, ease.OutCubic),
			state: hidden,
		}
		tl.order = append(tl.order, s.Name)
		tl.duration = math.Max(tl.duration, start+s.Duration)
	}
	if reducedMotion {
		tl.finish()
	}
	return tl
}

// Update advances the timeline by dt seconds and reports whether it has finished.
func (tl *Timeline) Update(dt float64) bool {
	if tl.done {
		return true
	}
	tl.elapsed += dt
	for _, name := range tl.order {
		tr := tl.tracks[name]
		local := tl.elapsed - tr.start
		if local <= 0 {
			tr.state = hidden
			continue
		}
		a, _ := tr.alpha.Set(float32(local))
		y, _ := tr.y.Set(float32(local))
		tr.state = State{Alpha: float64(a), Y: float64(y)}
	}
	if tl.elapsed >= tl.duration {
		tl.finish()
	}
	return tl.done
}

func (tl *Timeline) finish() {
	for _, tr := range tl.tracks {
		tr.state = visible
	}
	tl.elapsed = tl.duration
	tl.done = true
}

// State returns the element's current state. Unknown names are reported visible.
func (tl *Timeline) State(name string) State {
	if tr, ok := tl.tracks[name]; ok {
		return tr.state
	}
	return visible
}

// Start returns when the element begins moving.
func (tl *Timeline) Start(name string) float64 {
	if tr, ok := tl.tracks[name]; ok {
		return tr.start
	}
	return 0
}

// Duration is the end time of the last element.
func (tl *Timeline) Duration() float64 { return tl.duration }

func (tl *Timeline) Done() bool { return tl.done }

// WriteText prints when each element starts and settles, in timeline order.
func (tl *Timeline) WriteText(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "element\tstart\tend")
	for _, name := range tl.order {
		tr := tl.tracks[name]
		fmt.Fprintf(w, "%s\t%.2fs\t%.2fs\n", name, tr.start, tr.end)
	}
	fmt.Fprintf(w, "total\t\t%.2fs\n", tl.duration)
	if tl.done {
		fmt.Fprintln(w, "(finished)")
	}
	return w.Flush()
}
