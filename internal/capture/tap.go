// Package capture implements C4, the low-level input tap. It listens for
// raw mouse and keyboard activity system-wide and turns it into the typed
// Event stream, coalescing mouse-move bursts before they ever reach the
// bus. The OS-specific listen-only event tap lives in tap_darwin.go,
// grounded on the teacher's CGEventTapCreate usage in
// internal/hotkey/hotkey_darwin.go; this file holds the platform-independent
// coalescing and dispatch logic so it can be unit-tested without cgo.
package capture

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/louis030195/bigbrother/internal/clock"
	"github.com/louis030195/bigbrother/internal/event"
	"github.com/louis030195/bigbrother/internal/keycode"
)

// ErrAlreadyRunning is returned by Start if the tap is already installed.
var ErrAlreadyRunning = errors.New("capture: tap already running")

// Config tunes move coalescing. A move is only emitted if at least
// MoveMinIntervalMS has elapsed since the last emitted move, or the pointer
// has traveled at least MoveMinDistance pixels, whichever comes first.
// Suppressed positions are dropped: the latest position inside a window
// is not emitted when the window closes or when another event follows.
type Config struct {
	MoveMinIntervalMS uint64
	MoveMinDistance   float64
}

// DefaultConfig matches spec §4.4's stated default move-coalesce window.
func DefaultConfig() Config {
	return Config{MoveMinIntervalMS: 16, MoveMinDistance: 4}
}

// Tap owns the coalescing state for one capture session. Sink receives
// normalized raw events; it must not block for long since it is called
// from the platform callback thread.
type Tap struct {
	cfg  Config
	clk  *clock.Clock
	sink func(event.Event)

	// rawKey, if set, is called on every key transition regardless of how
	// it is classified for the typed stream — the clipboard observer (C6)
	// uses this to track held modifiers for chord detection independent
	// of text aggregation.
	rawKey func(keycode uint16, down bool)

	mu          sync.Mutex
	running     bool
	heldMods    event.Modifier
	hasLastMove bool
	lastMoveMS  uint64
	lastX       int32
	lastY       int32

	lastClickMS uint64
	lastClickX  int32
	lastClickY  int32
	clickStreak uint8
}

// multiClickWindowMS is the max gap between same-position clicks that
// still counts as a double/triple-click, matching the platform default.
const multiClickWindowMS = 500
const multiClickMaxDistance = 4

// New creates a Tap that emits normalized events to sink.
func New(clk *clock.Clock, cfg Config, sink func(event.Event)) *Tap {
	return &Tap{cfg: cfg, clk: clk, sink: sink}
}

// OnRawKey registers a hook invoked on every key-down and key-up, in
// addition to the typed event stream.
func (t *Tap) OnRawKey(fn func(keycode uint16, down bool)) {
	t.mu.Lock()
	t.rawKey = fn
	t.mu.Unlock()
}

// Start installs the system-wide listen-only event tap. It returns once
// the tap is installed; the tap keeps running until ctx is canceled or
// Stop is called.
func (t *Tap) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return ErrAlreadyRunning
	}
	t.running = true
	t.mu.Unlock()

	if err := startPlatformTap(ctx, t); err != nil {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
		return err
	}
	return nil
}

// Stop tears down the event tap.
func (t *Tap) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.mu.Unlock()
	stopPlatformTap(t)
}

// onMouseDown is invoked by the platform layer on a button-down transition.
func (t *Tap) onMouseDown(button event.Button, x, y int32) {
	t.emitPendingMove(x, y)

	now := t.clk.NowMS()
	t.mu.Lock()
	if t.clickStreak > 0 && now-t.lastClickMS <= multiClickWindowMS &&
		math.Hypot(float64(x-t.lastClickX), float64(y-t.lastClickY)) <= multiClickMaxDistance {
		t.clickStreak++
	} else {
		t.clickStreak = 1
	}
	t.lastClickMS, t.lastClickX, t.lastClickY = now, x, y
	clicks := t.clickStreak
	mods := t.heldMods
	t.mu.Unlock()

	t.sink(event.Click(now, x, y, button, clicks, mods))
}

// onMouseMove is invoked on every raw mouse-move callback; most calls are
// coalesced away.
func (t *Tap) onMouseMove(x, y int32) {
	now := t.clk.NowMS()

	t.mu.Lock()
	if t.hasLastMove {
		elapsed := now - t.lastMoveMS
		dist := math.Hypot(float64(x-t.lastX), float64(y-t.lastY))
		if elapsed < t.cfg.MoveMinIntervalMS && dist < t.cfg.MoveMinDistance {
			t.mu.Unlock()
			return
		}
	}
	t.hasLastMove = true
	t.lastMoveMS = now
	t.lastX, t.lastY = x, y
	t.mu.Unlock()

	t.sink(event.Move(now, x, y))
}

// emitPendingMove records (x, y) and the current time as the last move
// position, used before a click so that later moves are coalesced against
// the click site. It does not emit a Move event.
func (t *Tap) emitPendingMove(x, y int32) {
	t.mu.Lock()
	t.hasLastMove = true
	t.lastMoveMS = t.clk.NowMS()
	t.lastX, t.lastY = x, y
	t.mu.Unlock()
}

// onScroll is invoked on a scroll-wheel callback.
func (t *Tap) onScroll(x, y, dx, dy int32) {
	t.sink(event.Scroll(t.clk.NowMS(), x, y, dx, dy))
}

// onKeyDown is invoked on a key-down transition. kc is the raw hardware
// virtual keycode.
func (t *Tap) onKeyDown(kc uint16) {
	if fn := t.rawKeyHook(); fn != nil {
		fn(kc, true)
	}

	if mod := keycode.ModifierFlag(kc); mod != 0 {
		t.mu.Lock()
		t.heldMods |= mod
		mods := t.heldMods
		t.mu.Unlock()
		t.sink(event.Key(t.clk.NowMS(), kc, mods))
		return
	}

	t.sink(event.Key(t.clk.NowMS(), kc, t.currentModifiers()))
}

// onKeyUp is invoked on a key-up transition, used only to track modifier
// state; spec §4.4 only emits Key events on key-down.
func (t *Tap) onKeyUp(kc uint16) {
	if fn := t.rawKeyHook(); fn != nil {
		fn(kc, false)
	}

	if mod := keycode.ModifierFlag(kc); mod != 0 {
		t.mu.Lock()
		t.heldMods &^= mod
		t.mu.Unlock()
	}
}

func (t *Tap) currentModifiers() event.Modifier {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.heldMods
}

func (t *Tap) rawKeyHook() func(uint16, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rawKey
}
