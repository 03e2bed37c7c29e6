// Package capability decides once, at startup, whether the GPU path can run.
package capability

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cleantouch/backdrop/logging"
)

// ErrIncapable is matched by every capability failure.
var ErrIncapable = errors.New("rendering device unavailable")

// Result is the outcome of a probe.
type Result int

const (
	Unknown Result = iota
	Capable
	Incapable
)

func (r Result) String() string {
	switch r {
	case Capable:
		return "capable"
	case Incapable:
		return "incapable"
	default:
		return "unknown"
	}
}

// CapabilityError reports that the device or graphics API is unusable.
type CapabilityError struct {
	Op  string
	Err error
}

func (e *CapabilityError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, ErrIncapable)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrIncapable, e.Err)
}

func (e *CapabilityError) Unwrap() error { return e.Err }

func (e *CapabilityError) Is(target error) bool { return target == ErrIncapable }

// Prober checks for a usable device. A nil error means capable.
type Prober interface {
	Probe() error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func() error

func (f ProberFunc) Probe() error { return f() }

// Gate runs its prober at most once and caches the verdict.
type Gate struct {
	prober Prober

	once   sync.Once
	result Result
	err    error
}

func NewGate(p Prober) *Gate {
	return &Gate{prober: p}
}

// Probe returns the cached verdict, probing on the first call. Errors and panics
// from the prober yield Incapable with a *CapabilityError.
func (g *Gate) Probe() (Result, error) {
	g.once.Do(func() {
		g.result, g.err = g.run()
		if g.err != nil {
			logging.Logger().Warn("capability probe failed", "err", g.err)
		} else {
			logging.Logger().Info("capability probe", "result", g.result)
		}
	})
	return g.result, g.err
}

func (g *Gate) run() (res Result, err error) {
	if g.prober == nil {
		return Incapable, &CapabilityError{Op: "probe", Err: errors.New("no prober")}
	}
	defer func() {
		if r := recover(); r != nil {
			res = Incapable
			err = &CapabilityError{Op: "probe", Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := g.prober.Probe(); err != nil {
		var ce *CapabilityError
		if errors.As(err, &ce) {
			return Incapable, err
		}
		return Incapable, &CapabilityError{Op: "probe", Err: err}
	}
	return Capable, nil
}
