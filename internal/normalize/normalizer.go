// Package normalize implements C7, the single-writer normalizer that fuses
// the raw streams from capture (C4), focus (C5), and clipboard (C6) into
// the final typed Event stream: aggregating consecutive printable
// key-downs into text runs, attaching UI-element context to clicks, and
// guaranteeing every emitted event has a strictly increasing timestamp.
// Grounded on the reference recorder's mutexed State struct in
// run_rdev_listener (original_source/crates/bigbrother-recorder/src/
// platform/windows/recorder.rs), which performs the same push-char/flush
// text aggregation against a single-writer lock.
package normalize

import (
	"sync"
	"time"

	"github.com/louis030195/bigbrother/internal/accessibility"
	"github.com/louis030195/bigbrother/internal/clock"
	"github.com/louis030195/bigbrother/internal/event"
	"github.com/louis030195/bigbrother/internal/keycode"
)

// Config tunes text aggregation and context attachment.
type Config struct {
	// TextFlushTimeout is how long the aggregator waits after the last
	// character before flushing a pending text run, spec §4.7(b).
	TextFlushTimeout time.Duration

	// CaptureContext enables the async UI-element probe on clicks,
	// spec §4.7's context attachment. Disabled by "record --no-context".
	CaptureContext bool
}

// DefaultConfig matches spec §4.7's stated flush timeout.
func DefaultConfig() Config {
	return Config{TextFlushTimeout: 500 * time.Millisecond, CaptureContext: true}
}

// Normalizer is the single writer of the final Event stream. Feed is
// called from several goroutines (the capture callback thread and the
// focus and clipboard pollers), and the flush timer and context probes
// emit from their own goroutines; emit assigns each timestamp and hands
// the event to out under one lock, so out sees one ordered stream.
type Normalizer struct {
	cfg   Config
	clk   *clock.Clock
	probe *accessibility.Probe
	out   func(event.Event)

	mu        sync.Mutex
	lastT     uint64
	text      []rune
	textStart uint64
	flushAt   *time.Timer
}

// New creates a Normalizer that emits the fused event stream to out.
func New(clk *clock.Clock, probe *accessibility.Probe, cfg Config, out func(event.Event)) *Normalizer {
	return &Normalizer{cfg: cfg, clk: clk, probe: probe, out: out}
}

// Feed accepts one raw event from capture, focus, or clipboard and may
// produce zero or more typed events on the output stream: a bare Key or
// Move passes through, a run of printable keys becomes one Text event
// once flushed, and a Click may be followed later by an async Context
// event.
func (n *Normalizer) Feed(raw event.Event) {
	switch raw.Tag {
	case event.TagKey:
		n.feedKey(raw)
	case event.TagClick:
		n.flushText()
		n.emit(raw)
		if n.cfg.CaptureContext && n.probe != nil {
			n.attachContext(raw)
		}
	case event.TagApp, event.TagWindow, event.TagClipboard:
		n.flushText()
		n.emit(raw)
	default:
		n.emit(raw)
	}
}

// feedKey decides whether a key-down contributes to the running text run
// or must be emitted as a standalone Key event, per spec §4.7(a): any
// modifier beyond shift, or a non-printable keycode, ends the run.
func (n *Normalizer) feedKey(raw event.Event) {
	if raw.KeyCode == keycode.Delete && raw.Modifiers.Mask()&^event.ModShift == 0 {
		if n.popText() {
			return
		}
		n.emit(raw)
		return
	}

	nonText := raw.Modifiers.Mask()&^event.ModShift != 0 || keycode.IsNonPrintable(raw.KeyCode)
	if !nonText {
		if ch, ok := keycode.CharForKeycode(raw.KeyCode, raw.Modifiers.Has(event.ModShift)); ok {
			n.appendText(raw.T, ch)
			return
		}
	}

	n.flushText()
	n.emit(raw)
}

// popText removes the trailing scalar of the pending text run, if any,
// per spec §4.7(1)/§8 invariant 4: backspace edits the run in place instead
// of flushing it. Reports whether a scalar was removed.
func (n *Normalizer) popText() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.text) == 0 {
		return false
	}
	n.text = n.text[:len(n.text)-1]
	if len(n.text) == 0 {
		if n.flushAt != nil {
			n.flushAt.Stop()
			n.flushAt = nil
		}
		return true
	}
	n.resetFlushTimerLocked()
	return true
}

func (n *Normalizer) appendText(t uint64, ch rune) {
	n.mu.Lock()
	if len(n.text) == 0 {
		n.textStart = t
	}
	n.text = append(n.text, ch)
	full := len(n.text) >= event.TextMaxScalars
	n.resetFlushTimerLocked()
	n.mu.Unlock()

	if full {
		n.flushText()
	}
}

func (n *Normalizer) resetFlushTimerLocked() {
	if n.flushAt != nil {
		n.flushAt.Stop()
	}
	n.flushAt = time.AfterFunc(n.cfg.TextFlushTimeout, n.flushText)
}

// flushText emits the pending text run, if any, as a single Text event.
func (n *Normalizer) flushText() {
	n.mu.Lock()
	if len(n.text) == 0 {
		n.mu.Unlock()
		return
	}
	s := string(n.text)
	start := n.textStart
	n.text = n.text[:0]
	if n.flushAt != nil {
		n.flushAt.Stop()
		n.flushAt = nil
	}
	n.mu.Unlock()

	n.emit(event.Text(start, s))
}

// attachContext probes the click's coordinates off the normalizer's own
// goroutine so a slow or absent accessibility tree never blocks the
// input-tap callback thread, then emits a Context event timestamped one
// millisecond after the owning click per spec §4.7(d).
func (n *Normalizer) attachContext(click event.Event) {
	go func() {
		elem, ok := n.probe.At(click.X, click.Y)
		if !ok {
			return
		}
		n.emit(event.Context(click.T+1, elem.Role, elem.Name, elem.Value))
	}()
}

// emit enforces strictly increasing timestamps across every event this
// normalizer produces, per spec §8 invariant on monotonic ordering:
// an event whose timestamp would collide with or precede the last one
// emitted is bumped forward by one millisecond.
func (n *Normalizer) emit(e event.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if e.T <= n.lastT {
		e.T = n.lastT + 1
	}
	n.lastT = e.T

	n.out(e)
}

// Flush forces any pending text run to be emitted immediately, used by
// the recorder (C9) when stopping so no partial run is lost.
func (n *Normalizer) Flush() {
	n.flushText()
}
