package normalize

import (
	"testing"
	"time"

	"github.com/louis030195/bigbrother/internal/clock"
	"github.com/louis030195/bigbrother/internal/event"
	"github.com/louis030195/bigbrother/internal/keycode"
)

func collect() (*Normalizer, *[]event.Event) {
	var out []event.Event
	clk := clock.New()
	cfg := DefaultConfig()
	cfg.CaptureContext = false
	n := New(clk, nil, cfg, func(e event.Event) {
		out = append(out, e)
	})
	return n, &out
}

func TestTextAggregationFlushesOnNonPrintableKey(t *testing.T) {
	n, out := collect()

	// 'h', 'i' on a US layout map to keycodes 0x04 and 0x22 respectively;
	// the exact codes don't matter here beyond round-tripping through
	// keycode.KeycodeForChar.
	for _, r := range "hi" {
		code, shift, ok := keycode.KeycodeForChar(r)
		if !ok {
			t.Fatalf("no keycode for %q", r)
		}
		mods := event.Modifier(0)
		if shift {
			mods = event.ModShift
		}
		n.Feed(event.Key(uint64(len(*out)+1), code, mods))
	}

	// Escape is non-printable and must flush the pending run.
	n.Feed(event.Key(100, keycode.Escape, 0))

	if len(*out) != 2 {
		t.Fatalf("expected a Text event followed by a Key event, got %d events: %+v", len(*out), *out)
	}
	if (*out)[0].Tag != event.TagText {
		t.Fatalf("expected first event to be text, got %s", (*out)[0].Tag)
	}
	if (*out)[0].Text != "hi" {
		t.Fatalf("expected aggregated text %q, got %q", "hi", (*out)[0].Text)
	}
	if (*out)[1].Tag != event.TagKey || (*out)[1].KeyCode != keycode.Escape {
		t.Fatalf("expected escape key event, got %+v", (*out)[1])
	}
}

func TestWindowEventWithoutPrecedingAppIsStillEmitted(t *testing.T) {
	n, out := collect()

	n.Feed(event.Window(10, "Safari", "New Tab"))

	if len(*out) != 1 {
		t.Fatalf("expected exactly one event, got %d: %+v", len(*out), *out)
	}
	if (*out)[0].Tag != event.TagWindow {
		t.Fatalf("expected a window event, got %s", (*out)[0].Tag)
	}
	if (*out)[0].WindowTitle != "New Tab" {
		t.Fatalf("unexpected window title %q", (*out)[0].WindowTitle)
	}
}

func TestMonotonicTimestampsAreEnforced(t *testing.T) {
	n, out := collect()

	n.Feed(event.Move(5, 0, 0))
	n.Feed(event.Move(5, 1, 1))
	n.Feed(event.Move(3, 2, 2))

	if len(*out) != 3 {
		t.Fatalf("expected 3 events, got %d", len(*out))
	}
	for i := 1; i < len(*out); i++ {
		if (*out)[i].T <= (*out)[i-1].T {
			t.Fatalf("timestamps not strictly increasing at index %d: %v", i, *out)
		}
	}
}

func TestBackspaceRemovesTrailingScalarFromPendingRun(t *testing.T) {
	n, out := collect()

	for _, r := range "hi" {
		code, shift, ok := keycode.KeycodeForChar(r)
		if !ok {
			t.Fatalf("no keycode for %q", r)
		}
		mods := event.Modifier(0)
		if shift {
			mods = event.ModShift
		}
		n.Feed(event.Key(uint64(len(*out)+1), code, mods))
	}

	n.Feed(event.Key(3, keycode.Delete, 0))

	// Nothing should have been emitted yet: the run is edited in place,
	// not flushed.
	if len(*out) != 0 {
		t.Fatalf("expected no events yet, got %+v", *out)
	}

	n.Feed(event.Key(4, keycode.Escape, 0))

	if len(*out) != 2 {
		t.Fatalf("expected a Text event followed by a Key event, got %d events: %+v", len(*out), *out)
	}
	if (*out)[0].Tag != event.TagText || (*out)[0].Text != "h" {
		t.Fatalf("expected aggregated text %q, got %+v", "h", (*out)[0])
	}
}

func TestBackspaceOnEmptyRunIsEmittedAsKey(t *testing.T) {
	n, out := collect()

	n.Feed(event.Key(1, keycode.Delete, 0))

	if len(*out) != 1 {
		t.Fatalf("expected a single Key event, got %+v", *out)
	}
	if (*out)[0].Tag != event.TagKey || (*out)[0].KeyCode != keycode.Delete {
		t.Fatalf("expected a backspace key event, got %+v", (*out)[0])
	}
}

func TestTextFlushOnTimeout(t *testing.T) {
	n, out := collect()
	n.cfg.TextFlushTimeout = 20 * time.Millisecond

	code, _, ok := keycode.KeycodeForChar('a')
	if !ok {
		t.Fatal("no keycode for 'a'")
	}
	n.Feed(event.Key(1, code, 0))

	time.Sleep(60 * time.Millisecond)

	if len(*out) != 1 || (*out)[0].Tag != event.TagText {
		t.Fatalf("expected a single flushed text event, got %+v", *out)
	}
}
