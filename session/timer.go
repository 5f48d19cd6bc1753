package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// State is the phase of a Timer.
type State int

const (
	Idle State = iota
	Running
	Expired
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Expired:
		return "expired"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

var (
	ErrTimerStarted = errors.New("timer already started")
	ErrTimerStopped = errors.New("timer stopped")
)

// Timer counts a whole number of ticks down to zero and then calls onExpire.
//
// Each Start or Reset opens a new run identified by a generation number. The
// ticking goroutine of a run only acts while its generation is current, so a
// tick that was already pending when Reset or Stop happened is dropped.
//
// onExpire runs with fireMu held and must not call Stop synchronously.
type Timer struct {
	fireMu    sync.Mutex
	mu        sync.Mutex
	state     State
	duration  int
	remaining int
	interval  time.Duration
	onExpire  func()
	onTick    func(remaining int)

	gen        uint64
	dispatched bool
	parent     context.Context
	cancel     context.CancelFunc
}

// NewTimer builds an idle timer. A non-positive interval means one second.
func NewTimer(duration int, interval time.Duration, onExpire func()) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Timer{
		state:     Idle,
		duration:  duration,
		remaining: duration,
		interval:  interval,
		onExpire:  onExpire,
	}
}

// OnTick registers a callback run after every decrement with the new
// remaining count. Set it before Start.
func (t *Timer) OnTick(fn func(remaining int)) {
	t.mu.Lock()
	t.onTick = fn
	t.mu.Unlock()
}

// Start begins the countdown. Cancelling ctx stops the timer.
func (t *Timer) Start(ctx context.Context) error {
	t.mu.Lock()
	switch t.state {
	case Stopped:
		t.mu.Unlock()
		return ErrTimerStopped
	case Running, Expired:
		t.mu.Unlock()
		return ErrTimerStarted
	}
	expired := t.begin(ctx, t.duration)
	gen := t.gen
	t.mu.Unlock()

	if expired {
		t.expire(gen)
	}
	return nil
}

// Reset restarts the countdown at duration, discarding the current run.
func (t *Timer) Reset(duration int) error {
	t.mu.Lock()
	if t.state == Stopped {
		t.mu.Unlock()
		return ErrTimerStopped
	}
	parent := t.parent
	if parent == nil {
		parent = context.Background()
	}
	expired := t.begin(parent, duration)
	gen := t.gen
	t.mu.Unlock()

	if expired {
		t.expire(gen)
	}
	return nil
}

// Stop tears the timer down. It waits for an expiry callback already in
// flight; once it returns, onExpire is never called. The state stays Expired
// only when the callback was dispatched.
func (t *Timer) Stop() {
	t.fireMu.Lock()
	defer t.fireMu.Unlock()
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	if t.state != Expired || !t.dispatched {
		t.state = Stopped
	}
}

// Tick advances the current run by one step. The ticking goroutine calls it
// on every interval; tests drive it directly.
func (t *Timer) Tick() {
	t.mu.Lock()
	gen := t.gen
	t.mu.Unlock()
	t.step(gen)
}

func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// begin opens a new run. Caller holds t.mu. It reports whether the run
// expired immediately, in which case the caller calls expire after unlocking.
func (t *Timer) begin(ctx context.Context, duration int) bool {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.gen++
	t.dispatched = false
	t.parent = ctx
	t.duration = duration

	if duration <= 0 {
		t.remaining = 0
		t.state = Expired
		return true
	}

	t.remaining = duration
	t.state = Running

	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	go t.loop(runCtx, t.gen)
	return false
}

func (t *Timer) loop(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.abandon(gen)
			return
		case <-ticker.C:
			if !t.step(gen) {
				return
			}
		}
	}
}

// step decrements run gen and reports whether the run keeps ticking.
func (t *Timer) step(gen uint64) bool {
	t.mu.Lock()
	if gen != t.gen || t.state != Running {
		t.mu.Unlock()
		return false
	}

	t.remaining--
	remaining := t.remaining
	onTick := t.onTick

	if remaining <= 0 {
		t.remaining = 0
		remaining = 0
		t.state = Expired
		if t.cancel != nil {
			t.cancel()
			t.cancel = nil
		}
	}
	t.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
	if remaining == 0 {
		t.expire(gen)
	}
	return remaining > 0
}

// expire calls onExpire for run gen unless Stop or Reset superseded it while
// the lock was released.
func (t *Timer) expire(gen uint64) {
	t.fireMu.Lock()
	defer t.fireMu.Unlock()

	t.mu.Lock()
	if gen != t.gen || t.state != Expired {
		t.mu.Unlock()
		return
	}
	t.dispatched = true
	fire := t.onExpire
	t.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// abandon marks run gen stopped when its parent context went away.
func (t *Timer) abandon(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen == t.gen && t.state == Running {
		t.state = Stopped
		t.cancel = nil
	}
}

// Clock renders a number of seconds as mm:ss.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
