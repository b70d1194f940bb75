package bus

import (
	"testing"

	"github.com/louis030195/bigbrother/internal/event"
	"pgregory.net/rapid"
)

// TestSinkOrderingHoldsForAnyPublishSequence checks C8's core invariant —
// the guaranteed sink channel never reorders or drops events — across
// randomly generated publish sequences and sink capacities, in the style
// of the handoff session round-trip property test
// (fakeyudi-handoff/internal/session/store_test.go).
func TestSinkOrderingHoldsForAnyPublishSequence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(rt, "capacity")
		count := rapid.IntRange(0, 64).Draw(rt, "count")

		b := New(capacity)
		defer b.Close()

		received := make(chan event.Event, count)
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < count; i++ {
				received <- <-b.Sink()
			}
		}()

		for i := 1; i <= count; i++ {
			b.Publish(event.Move(uint64(i), 0, 0))
		}
		<-done
		close(received)

		var last uint64
		for e := range received {
			if e.T <= last {
				rt.Fatalf("sink delivered out of order: %d after %d", e.T, last)
			}
			last = e.T
		}
		if last != uint64(count) {
			rt.Fatalf("expected last timestamp %d, got %d", count, last)
		}
	})
}
