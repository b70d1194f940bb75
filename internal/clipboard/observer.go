// Package clipboard implements C6, the clipboard observer. It polls the
// system pasteboard's change counter at a fixed interval — the same
// polling shape as C5's focus observer, since macOS has no
// change-notification API for the general pasteboard — and fuses a
// detected change with whichever of cmd+c/cmd+x was most recently seen by
// the input tap, per spec §4.6. A cmd+v chord is emitted as a paste as soon
// as it is seen, since a paste does not change the pasteboard.
package clipboard

import (
	"context"
	"sync"
	"time"

	"github.com/louis030195/bigbrother/internal/clock"
	"github.com/louis030195/bigbrother/internal/event"
	"github.com/louis030195/bigbrother/internal/keycode"
)

// PollInterval is the pasteboard change-count poll period.
const PollInterval = 100 * time.Millisecond

// ChordWindow is how long a detected cmd+c/x/v chord remains eligible to
// be fused with the next observed pasteboard change, per spec §4.6's
// "most recent chord within a short window".
const ChordWindow = 2 * time.Second

// changeCount and pasteboardString are indirected through package vars,
// defaulting to the platform implementation, so tests can fake pasteboard
// behavior without depending on cgo or a running macOS session.
var (
	changeCount      = platformChangeCount
	pasteboardString = platformPasteboardString
)

// Observer watches the system pasteboard and emits a Clipboard event
// whenever its content changes, labeled with the most recent copy/cut
// chord, and on every cmd+v chord.
type Observer struct {
	clk  *clock.Clock
	sink func(event.Event)

	mu          sync.Mutex
	running     bool
	done        chan struct{}
	lastCount   int64
	haveCount   bool
	pendingOp   event.ClipboardOp
	pendingAt   time.Time
	hasPending  bool
	cmdHeld     bool
}

// New creates an Observer that emits to sink.
func New(clk *clock.Clock, sink func(event.Event)) *Observer {
	return &Observer{clk: clk, sink: sink}
}

// Start begins polling until ctx is canceled or Stop is called.
func (o *Observer) Start(ctx context.Context) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return
	}
	o.running = true
	o.done = make(chan struct{})
	o.mu.Unlock()

	go o.loop(ctx)
}

// Stop halts polling.
func (o *Observer) Stop() {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return
	}
	o.running = false
	done := o.done
	o.mu.Unlock()
	close(done)
}

func (o *Observer) loop(ctx context.Context) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	o.mu.Lock()
	done := o.done
	o.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			o.poll()
		}
	}
}

// OnKeyDown lets the input tap feed raw key-downs into the chord detector
// without the two packages needing a shared bus subscription. It is
// deliberately separate from the capture package's own modifier tracking.
func (o *Observer) OnKeyDown(kc uint16) {
	if mod := keycode.ModifierFlag(kc); mod == event.ModCommand {
		o.mu.Lock()
		o.cmdHeld = true
		o.mu.Unlock()
		return
	}

	o.mu.Lock()
	cmdHeld := o.cmdHeld
	o.mu.Unlock()
	if !cmdHeld {
		return
	}

	op, ok := keycode.IsChordKey(kc)
	if !ok {
		return
	}

	if op == event.ClipboardPaste {
		// A paste never bumps the pasteboard change counter, so poll()
		// will never see it: emit it directly instead of queuing it as a
		// pending chord, which would otherwise sit unconsumed until an
		// unrelated later change mis-attributes to it.
		preview, _ := pasteboardString()
		o.sink(event.Clipboard(o.clk.NowMS(), op, preview))
		return
	}

	o.mu.Lock()
	o.pendingOp = op
	o.pendingAt = time.Now()
	o.hasPending = true
	o.mu.Unlock()
}

// OnKeyUp tracks command-key release.
func (o *Observer) OnKeyUp(kc uint16) {
	if mod := keycode.ModifierFlag(kc); mod == event.ModCommand {
		o.mu.Lock()
		o.cmdHeld = false
		o.mu.Unlock()
	}
}

// poll checks the pasteboard's change counter; on change, fuses it with
// the most recent eligible copy/cut chord, or falls back to an empty-preview
// "copy" for a change with no observed chord (an externally-triggered or
// otherwise uncorrelated pasteboard write), per spec §4.6's fallback. Pastes
// are never attributed here — see OnKeyDown, since a paste doesn't bump the
// change counter at all.
func (o *Observer) poll() {
	count, ok := changeCount()
	if !ok {
		return
	}

	o.mu.Lock()
	if !o.haveCount {
		o.haveCount = true
		o.lastCount = count
		o.mu.Unlock()
		return
	}
	if count == o.lastCount {
		o.mu.Unlock()
		return
	}
	o.lastCount = count

	op := event.ClipboardCopy
	uncorrelated := true
	if o.hasPending && time.Since(o.pendingAt) <= ChordWindow {
		op = o.pendingOp
		o.hasPending = false
		uncorrelated = false
	}
	o.mu.Unlock()

	if uncorrelated {
		o.sink(event.Clipboard(o.clk.NowMS(), op, ""))
		return
	}

	preview, _ := pasteboardString()
	o.sink(event.Clipboard(o.clk.NowMS(), op, preview))
}
