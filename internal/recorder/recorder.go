// Package recorder implements C9, the top-level façade that wires the
// clock, capture tap, focus observer, clipboard observer, normalizer, and
// fan-out bus into one recording session, exposing the lifecycle state
// machine and streaming handle described in spec §4.9.
//
// Grounded on the reference recorder's WorkflowRecorder/RecordingHandle
// split (original_source/crates/bigbrother-recorder/src/platform/windows/
// recorder.rs): Start spawns the capture goroutines and returns a Handle
// immediately; the handle exposes Stream for live consumption and Stop
// for a clean shutdown that flushes any pending text run.
package recorder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/louis030195/bigbrother/internal/accessibility"
	"github.com/louis030195/bigbrother/internal/bus"
	"github.com/louis030195/bigbrother/internal/capture"
	"github.com/louis030195/bigbrother/internal/clipboard"
	"github.com/louis030195/bigbrother/internal/clock"
	"github.com/louis030195/bigbrother/internal/event"
	"github.com/louis030195/bigbrother/internal/focus"
	"github.com/louis030195/bigbrother/internal/normalize"
)

// State is a position in the recorder's lifecycle.
type State int

const (
	StateUnstarted State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrAlreadyRunning is returned by Recorder.Start while the Recorder
// already has a session running.
var ErrAlreadyRunning = errors.New("recorder: already running")

// ErrNotRunning is returned by Stop on a Handle that is not running.
var ErrNotRunning = errors.New("recorder: not running")

// Config tunes one recording session. Zero-value numeric fields fall back
// to DefaultConfig's values; CaptureContext is used as given.
type Config struct {
	// SessionID overrides the generated session ID; a host that needs to
	// know the ID before Start returns (to open its append sink) can
	// generate one itself and set it here. Left empty, Start generates
	// one with uuid.New().
	SessionID string

	Name              string
	CaptureContext    bool
	MoveMinIntervalMS uint64
	MoveMinDistance   float64
	TextFlushTimeout  time.Duration
	BusCapacity       int
	StreamCapacity    int
}

// DefaultConfig returns the recorder's defaults for a session named name.
func DefaultConfig(name string) Config {
	cap := capture.DefaultConfig()
	norm := normalize.DefaultConfig()
	return Config{
		Name:              name,
		CaptureContext:    norm.CaptureContext,
		MoveMinIntervalMS: cap.MoveMinIntervalMS,
		MoveMinDistance:   cap.MoveMinDistance,
		TextFlushTimeout:  norm.TextFlushTimeout,
		BusCapacity:       4096,
		StreamCapacity:    bus.DefaultCapacity,
	}
}

// AppendFunc persists one event to the session's append-only log. It is
// called once per event, strictly in the order Publish was called on the
// bus's sink (spec §4.8's guaranteed-delivery consumer).
type AppendFunc func(event.Event) error

// Handle is a live or finished recording session.
type Handle struct {
	SessionID string
	Name      string
	StartedAt time.Time

	cfg   Config
	clk   *clock.Clock
	bus   *bus.Bus
	tap   *capture.Tap
	focus *focus.Observer
	clip  *clipboard.Observer
	norm  *normalize.Normalizer
	probe *accessibility.Probe

	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	sinkErr  error
	sinkDone chan struct{}
}

// Recorder is the long-lived façade a CLI or host application holds: it
// enforces that at most one session runs at a time, per spec §4.9's
// unstarted→running→stopping→stopped state machine.
type Recorder struct {
	mu     sync.Mutex
	active *Handle
}

// New creates an idle Recorder.
func New() *Recorder {
	return &Recorder{}
}

// Start begins a new session. It returns ErrAlreadyRunning if a session
// is already running on this Recorder.
func (r *Recorder) Start(ctx context.Context, cfg Config, append AppendFunc) (*Handle, error) {
	r.mu.Lock()
	if r.active != nil && r.active.State() == StateRunning {
		r.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	r.mu.Unlock()

	h, err := startSession(ctx, cfg, append)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.active = h
	r.mu.Unlock()

	return h, nil
}

// Stop ends the Recorder's active session. It returns ErrNotRunning if
// no session is running.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	h := r.active
	r.mu.Unlock()

	if h == nil || h.State() != StateRunning {
		return ErrNotRunning
	}
	return h.Stop()
}

// startSession creates a new session and begins capturing immediately.
// append is called for every event in the final typed stream, in order;
// a non-nil error from append stops the session and is surfaced from
// Stop.
func startSession(ctx context.Context, cfg Config, append AppendFunc) (*Handle, error) {
	def := DefaultConfig(cfg.Name)
	if cfg.MoveMinIntervalMS == 0 {
		cfg.MoveMinIntervalMS = def.MoveMinIntervalMS
	}
	if cfg.MoveMinDistance <= 0 {
		cfg.MoveMinDistance = def.MoveMinDistance
	}
	if cfg.TextFlushTimeout <= 0 {
		cfg.TextFlushTimeout = def.TextFlushTimeout
	}
	if cfg.BusCapacity <= 0 {
		cfg.BusCapacity = def.BusCapacity
	}
	if cfg.StreamCapacity <= 0 {
		cfg.StreamCapacity = def.StreamCapacity
	}

	runCtx, cancel := context.WithCancel(ctx)

	clk := clock.New()
	probe := accessibility.New(accessibility.DefaultConfig())
	b := bus.New(cfg.BusCapacity)

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	h := &Handle{
		SessionID: sessionID,
		Name:      cfg.Name,
		StartedAt: time.Now(),
		cfg:       cfg,
		clk:       clk,
		bus:       b,
		probe:     probe,
		cancel:    cancel,
		state:     StateRunning,
		sinkDone:  make(chan struct{}),
	}

	normCfg := normalize.Config{TextFlushTimeout: cfg.TextFlushTimeout, CaptureContext: cfg.CaptureContext}
	h.norm = normalize.New(clk, probe, normCfg, b.Publish)

	tapCfg := capture.Config{MoveMinIntervalMS: cfg.MoveMinIntervalMS, MoveMinDistance: cfg.MoveMinDistance}
	h.tap = capture.New(clk, tapCfg, h.norm.Feed)

	h.focus = focus.New(clk, h.norm.Feed)
	h.clip = clipboard.New(clk, h.norm.Feed)
	h.tap.OnRawKey(func(kc uint16, down bool) {
		if down {
			h.clip.OnKeyDown(kc)
		} else {
			h.clip.OnKeyUp(kc)
		}
	})

	go h.drainSink(append)

	if err := h.tap.Start(runCtx); err != nil {
		cancel()
		b.Close()
		return nil, err
	}
	h.focus.Start(runCtx)
	h.clip.Start(runCtx)

	return h, nil
}

func (h *Handle) drainSink(append AppendFunc) {
	defer close(h.sinkDone)
	for e := range h.bus.Sink() {
		if err := append(e); err != nil {
			h.mu.Lock()
			if h.sinkErr == nil {
				h.sinkErr = err
				h.cancel()
			}
			h.mu.Unlock()
		}
	}
}

// Stream registers a best-effort streaming subscriber, for a live TUI or
// similar consumer. Capacity defaults to cfg.StreamCapacity if <= 0.
func (h *Handle) Stream(capacity int) *bus.Subscription {
	if capacity <= 0 {
		capacity = h.cfg.StreamCapacity
	}
	return h.bus.Subscribe(capacity)
}

// State reports the handle's current lifecycle state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Stop ends the session: stops the tap and observers, flushes any
// pending text run, drains the bus, and waits for every buffered event
// to reach the append sink before returning.
func (h *Handle) Stop() error {
	h.mu.Lock()
	if h.state != StateRunning {
		h.mu.Unlock()
		return ErrNotRunning
	}
	h.state = StateStopping
	h.mu.Unlock()

	h.tap.Stop()
	h.focus.Stop()
	h.clip.Stop()
	h.cancel()

	h.norm.Flush()
	h.bus.Close()
	<-h.sinkDone

	h.mu.Lock()
	h.state = StateStopped
	err := h.sinkErr
	h.mu.Unlock()

	return err
}
