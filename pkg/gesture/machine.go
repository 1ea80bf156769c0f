package gesture

import (
	"sync"
	"time"

	"github.com/matzehuels/tilescramble/pkg/partition"
)

// DefaultLongPress is how long a press must be held to rotate.
const DefaultLongPress = 450 * time.Millisecond

// State of a Machine.
type State int

const (
	Idle     State = iota // no press in progress
	Pressed               // pressed, waiting for release or the long-press timer
	Resolved              // the long press fired; the release is swallowed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pressed:
		return "pressed"
	case Resolved:
		return "resolved"
	}
	return "unknown"
}

// Action is the outcome of a press/release cycle.
type Action int

const (
	None Action = iota
	Select
	Deselect
	Swap
	Rotate
)

func (a Action) String() string {
	switch a {
	case None:
		return "none"
	case Select:
		return "select"
	case Deselect:
		return "deselect"
	case Swap:
		return "swap"
	case Rotate:
		return "rotate"
	}
	return "unknown"
}

// Outcome describes what a cycle did. For Swap, With is the previously
// selected position.
type Outcome struct {
	Action Action
	Pos    int
	With   int
}

// Target receives the actions a Machine resolves. A session satisfies it.
type Target interface {
	Selected() int
	Select(pos int)
	Deselect()
	Swap(a, b int)
	RotateAt(pos int)
}

// Timer is a cancellable pending callback, as returned by time.AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Machine.
type Option func(*Machine)

// WithLongPress sets the long-press threshold.
func WithLongPress(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.longPress = d
		}
	}
}

// WithAfterFunc replaces the timer source. Callers that need the long-press
// callback on their own event loop wrap it here.
func WithAfterFunc(f AfterFunc) Option {
	return func(m *Machine) {
		if f != nil {
			m.afterFunc = f
		}
	}
}

// WithObserver registers a function called with every non-None outcome,
// including those fired by the timer.
func WithObserver(f func(Outcome)) Option {
	return func(m *Machine) { m.observe = f }
}

// Machine is the {Idle, Pressed, Resolved} gesture state machine.
// It is safe for concurrent use; the timer callback and Release race on the
// same lock and a generation counter discards stale timers.
type Machine struct {
	mu        sync.Mutex
	target    Target
	longPress time.Duration
	afterFunc AfterFunc
	observe   func(Outcome)

	state     State
	pos       int
	secondary bool
	timer     Timer
	gen       uint64
}

// NewMachine returns an idle machine acting on target.
func NewMachine(target Target, opts ...Option) *Machine {
	m := &Machine{
		target:    target,
		longPress: DefaultLongPress,
		afterFunc: realAfterFunc,
		pos:       partition.NoHit,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Press starts a cycle at pos. secondary marks a right button or platform
// modifier. Presses outside the board, or while a cycle is in progress, are
// ignored.
func (m *Machine) Press(pos int, secondary bool) {
	if pos < 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Idle {
		return
	}
	m.gen++
	gen := m.gen
	m.state = Pressed
	m.pos = pos
	m.secondary = secondary
	m.timer = m.afterFunc(m.longPress, func() { m.elapse(gen) })
}

func (m *Machine) elapse(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.state != Pressed {
		m.mu.Unlock()
		return
	}
	m.state = Resolved
	m.timer = nil
	out := Outcome{Action: Rotate, Pos: m.pos, With: partition.NoHit}
	m.target.RotateAt(out.Pos)
	m.mu.Unlock()
	m.notify(out)
}

// Release ends the cycle. If the long press already fired it does nothing;
// otherwise it cancels the timer and resolves the tap at the pressed
// position. secondary is combined with the flag given to Press.
func (m *Machine) Release(secondary bool) Outcome {
	m.mu.Lock()
	out := m.release(secondary)
	m.mu.Unlock()
	m.notify(out)
	return out
}

func (m *Machine) release(secondary bool) Outcome {
	none := Outcome{Action: None, Pos: partition.NoHit, With: partition.NoHit}
	switch m.state {
	case Idle:
		return none
	case Resolved:
		m.reset()
		return none
	}

	pos := m.pos
	secondary = secondary || m.secondary
	m.stop()
	m.reset()

	out := Outcome{Pos: pos, With: partition.NoHit}
	sel := m.target.Selected()
	switch {
	case secondary:
		out.Action = Rotate
		m.target.RotateAt(pos)
	case sel < 0:
		out.Action = Select
		m.target.Select(pos)
	case sel == pos:
		out.Action = Deselect
		m.target.Deselect()
	default:
		out.Action = Swap
		out.With = sel
		m.target.Swap(sel, pos)
		m.target.Deselect()
	}
	return out
}

// Cancel abandons a cycle without any outcome, as when the pointer is lost.
func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop()
	m.reset()
}

func (m *Machine) stop() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	// a timer that already fired but has not taken the lock yet sees a new
	// generation and returns
	m.gen++
}

func (m *Machine) reset() {
	m.state = Idle
	m.pos = partition.NoHit
	m.secondary = false
}

func (m *Machine) notify(out Outcome) {
	if m.observe != nil && out.Action != None {
		m.observe(out)
	}
}
