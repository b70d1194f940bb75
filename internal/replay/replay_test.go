package replay

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/louis030195/bigbrother/internal/event"
)

type recordedCall struct {
	at   time.Time
	kind string
}

type mockPoster struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (m *mockPoster) record(kind string) {
	m.mu.Lock()
	m.calls = append(m.calls, recordedCall{at: time.Now(), kind: kind})
	m.mu.Unlock()
}

func (m *mockPoster) PostClick(x, y int32, button event.Button, clicks uint8, mods event.Modifier) error {
	m.record("click")
	return nil
}
func (m *mockPoster) PostMove(x, y int32) error                     { m.record("move"); return nil }
func (m *mockPoster) PostScroll(x, y, dx, dy int32) error           { m.record("scroll"); return nil }
func (m *mockPoster) PostKey(keycode uint16, mods event.Modifier) error {
	m.record("key")
	return nil
}
func (m *mockPoster) TypeText(s string) error     { m.record("text"); return nil }
func (m *mockPoster) SetClipboard(s string) error { m.record("clipboard"); return nil }
func (m *mockPoster) PostPasteChord() error       { m.record("paste"); return nil }

// TestReplayPreservesWallClockSpacing checks the ±20ms timing-tolerance
// invariant: events recorded 100ms and then 150ms apart must be dispatched
// within 20ms of that spacing when replayed at normal speed.
func TestReplayPreservesWallClockSpacing(t *testing.T) {
	m := &mockPoster{}
	r := New(m, DefaultConfig())

	events := []event.Event{
		event.Move(0, 0, 0),
		event.Move(100, 10, 10),
		event.Move(250, 20, 20),
	}

	if err := r.Replay(context.Background(), events); err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	if len(m.calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(m.calls))
	}

	const tolerance = 20 * time.Millisecond
	wantGaps := []time.Duration{100 * time.Millisecond, 150 * time.Millisecond}
	for i, want := range wantGaps {
		got := m.calls[i+1].at.Sub(m.calls[i].at)
		diff := got - want
		if diff < -tolerance || diff > tolerance {
			t.Fatalf("gap %d: got %v, want %v ± %v", i, got, want, tolerance)
		}
	}
}

// TestReplaySpeedScalesSpacing verifies a 2x speed factor halves the
// wall-clock gap between dispatches.
func TestReplaySpeedScalesSpacing(t *testing.T) {
	m := &mockPoster{}
	r := New(m, Config{Speed: 2.0})

	events := []event.Event{
		event.Move(0, 0, 0),
		event.Move(200, 10, 10),
	}

	if err := r.Replay(context.Background(), events); err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	got := m.calls[1].at.Sub(m.calls[0].at)
	want := 100 * time.Millisecond
	const tolerance = 20 * time.Millisecond
	if got < want-tolerance || got > want+tolerance {
		t.Fatalf("got gap %v, want %v ± %v", got, want, tolerance)
	}
}

func TestReplayCancellation(t *testing.T) {
	m := &mockPoster{}
	r := New(m, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	events := []event.Event{
		event.Move(0, 0, 0),
		event.Move(5000, 10, 10),
	}

	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := r.Replay(ctx, events)
	if err == nil {
		t.Fatalf("expected an error from a canceled replay")
	}
}

func TestLongTextRunUsesPasteboardFallback(t *testing.T) {
	m := &mockPoster{}
	r := New(m, DefaultConfig())

	long := make([]rune, 64)
	for i := range long {
		long[i] = 'a'
	}
	if err := r.postText(string(long)); err != nil {
		t.Fatalf("postText failed: %v", err)
	}

	var sawClipboard, sawPaste bool
	for _, c := range m.calls {
		if c.kind == "clipboard" {
			sawClipboard = true
		}
		if c.kind == "paste" {
			sawPaste = true
		}
	}
	if !sawClipboard || !sawPaste {
		t.Fatalf("expected clipboard set + paste chord for a long run, got %+v", m.calls)
	}
}

func TestShortTextRunIsTyped(t *testing.T) {
	m := &mockPoster{}
	r := New(m, DefaultConfig())

	if err := r.postText("hi"); err != nil {
		t.Fatalf("postText failed: %v", err)
	}
	if len(m.calls) != 1 || m.calls[0].kind != "text" {
		t.Fatalf("expected a single typed-text call, got %+v", m.calls)
	}
}
