package driver

// Handle identifies a pending frame request. The zero Handle is never issued.
type Handle uint64

// Scheduler requests a callback before the next frame is presented.
type Scheduler interface {
	RequestFrame(fn func(now float64)) Handle
	CancelFrame(h Handle)
}

// FrameLoop is a Scheduler for a host loop that polls it once per frame. It
// holds at most one callback; a new request replaces the pending one.
type FrameLoop struct {
	last    Handle
	pending Handle
	fn      func(now float64)
}

var _ Scheduler = (*FrameLoop)(nil)

func (l *FrameLoop) RequestFrame(fn func(now float64)) Handle {
	l.last++
	l.pending = l.last
	l.fn = fn
	return l.pending
}

// CancelFrame drops the pending callback if h still refers to it.
func (l *FrameLoop) CancelFrame(h Handle) {
	if h != 0 && h == l.pending {
		l.pending = 0
		l.fn = nil
	}
}

func (l *FrameLoop) Pending() bool {
	return l.pending != 0
}

// RunPending runs the pending callback with the frame timestamp now, in
// seconds. The slot is cleared first so the callback can request the next
// frame. It reports whether a callback ran.
func (l *FrameLoop) RunPending(now float64) bool {
	if l.pending == 0 {
		return false
	}
	fn := l.fn
	l.pending = 0
	l.fn = nil
	fn(now)
	return true
}
