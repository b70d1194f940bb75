package clipboard

import (
	"testing"
	"time"

	"github.com/louis030195/bigbrother/internal/clock"
	"github.com/louis030195/bigbrother/internal/event"
	"github.com/louis030195/bigbrother/internal/keycode"
)

func collect(t *testing.T) (*Observer, *[]event.Event, func()) {
	t.Helper()
	origCount, origString := changeCount, pasteboardString
	var out []event.Event
	o := New(clock.New(), func(e event.Event) {
		out = append(out, e)
	})
	return o, &out, func() {
		changeCount, pasteboardString = origCount, origString
	}
}

func pressChord(o *Observer, key uint16) {
	o.OnKeyDown(keycode.CommandLeft)
	o.OnKeyDown(key)
	o.OnKeyUp(key)
	o.OnKeyUp(keycode.CommandLeft)
}

func TestPasteChordEmitsImmediatelyWithoutAChangeCountBump(t *testing.T) {
	o, out, restore := collect(t)
	defer restore()

	// A paste never bumps the pasteboard's change counter.
	changeCount = func() (int64, bool) { return 1, true }
	pasteboardString = func() (string, bool) { return "pasted text", true }

	pressChord(o, keycode.KeyV)

	if len(*out) != 1 {
		t.Fatalf("expected one event, got %+v", *out)
	}
	if (*out)[0].Tag != event.TagClipboard || (*out)[0].ClipOp != event.ClipboardPaste {
		t.Fatalf("expected a paste clipboard event, got %+v", (*out)[0])
	}
	if (*out)[0].Preview != "pasted text" {
		t.Fatalf("expected preview to carry the current pasteboard content, got %q", (*out)[0].Preview)
	}
}

func TestCopyChordFusesWithNextChangeCountBump(t *testing.T) {
	o, out, restore := collect(t)
	defer restore()

	count := int64(1)
	changeCount = func() (int64, bool) { return count, true }
	pasteboardString = func() (string, bool) { return "copied text", true }

	o.poll() // establishes the baseline count, per the first-poll-primes-only rule

	pressChord(o, keycode.KeyC)
	count++
	o.poll()

	if len(*out) != 1 {
		t.Fatalf("expected one event, got %+v", *out)
	}
	if (*out)[0].Tag != event.TagClipboard || (*out)[0].ClipOp != event.ClipboardCopy {
		t.Fatalf("expected a copy clipboard event, got %+v", (*out)[0])
	}
	if (*out)[0].Preview != "copied text" {
		t.Fatalf("expected the copy's preview to be populated, got %q", (*out)[0].Preview)
	}
}

func TestUncorrelatedChangeFallsBackToEmptyPreviewCopy(t *testing.T) {
	o, out, restore := collect(t)
	defer restore()

	count := int64(1)
	changeCount = func() (int64, bool) { return count, true }
	pasteboardString = func() (string, bool) { return "should not appear", true }

	o.poll() // baseline

	// No chord observed at all.
	count++
	o.poll()

	if len(*out) != 1 {
		t.Fatalf("expected one event, got %+v", *out)
	}
	if (*out)[0].Tag != event.TagClipboard || (*out)[0].ClipOp != event.ClipboardCopy {
		t.Fatalf("expected the fallback to be a copy event, got %+v", (*out)[0])
	}
	if (*out)[0].Preview != "" {
		t.Fatalf("expected an empty preview for an uncorrelated change, got %q", (*out)[0].Preview)
	}
}

func TestChordOutsideWindowDoesNotAttributeToStaleOp(t *testing.T) {
	o, out, restore := collect(t)
	defer restore()

	count := int64(1)
	changeCount = func() (int64, bool) { return count, true }
	pasteboardString = func() (string, bool) { return "x", true }

	o.poll() // baseline

	pressChord(o, keycode.KeyX)
	o.mu.Lock()
	o.pendingAt = time.Now().Add(-ChordWindow - time.Second)
	o.mu.Unlock()

	count++
	o.poll()

	if len(*out) != 1 {
		t.Fatalf("expected one event, got %+v", *out)
	}
	if (*out)[0].ClipOp != event.ClipboardCopy {
		t.Fatalf("expected the stale chord to be ignored in favor of the empty-preview fallback, got %+v", (*out)[0])
	}
}
