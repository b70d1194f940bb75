// Package focus implements C5, the frontmost-application and
// focused-window observer. It polls at a fixed interval — there is no
// system-wide notification for window-focus change that covers every
// app — and emits an App event when the frontmost process changes and a
// Window event when the focused window's title changes, grounded on the
// reference recorder's run_app_observer poll loop
// (original_source/crates/bigbrother-recorder/src/platform/windows/recorder.rs).
package focus

import (
	"context"
	"sync"
	"time"

	"github.com/louis030195/bigbrother/internal/clock"
	"github.com/louis030195/bigbrother/internal/event"
)

// PollInterval is the fixed poll period, matching the reference recorder's
// 100ms app-observer tick.
const PollInterval = 100 * time.Millisecond

// snapshot is the frontmost-app/window state as of the last poll.
type snapshot struct {
	pid   int32
	name  string
	title string
}

// Observer polls the OS for frontmost-app and focused-window changes and
// emits events to sink on change.
type Observer struct {
	clk  *clock.Clock
	sink func(event.Event)

	mu      sync.Mutex
	running bool
	last    snapshot
	done    chan struct{}
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

// poll reads the current frontmost app and focused window, emitting
// events for whichever changed since the last poll. App and window are
// compared independently: spec §4.5 allows a Window event with no
// preceding App event when only the title changes within the same app.
func (o *Observer) poll() {
	name, pid, title, ok := frontmostSnapshot()
	if !ok {
		return
	}

	o.mu.Lock()
	prev := o.last
	changed := snapshot{pid: pid, name: name, title: title}
	o.last = changed
	o.mu.Unlock()

	now := o.clk.NowMS()

	if prev.pid != pid || prev.name != name {
		o.sink(event.App(now, name, pid))
	}
	if prev.title != title || prev.pid != pid {
		o.sink(event.Window(now, name, title))
	}
}
