package bus

import (
	"testing"
	"time"

	"github.com/louis030195/bigbrother/internal/event"
)

func TestSinkReceivesEveryEventInOrder(t *testing.T) {
	b := New(16)
	defer b.Close()

	go func() {
		for i := uint64(1); i <= 10; i++ {
			b.Publish(event.Move(i, 0, 0))
		}
	}()

	for i := uint64(1); i <= 10; i++ {
		select {
		case e := <-b.Sink():
			if e.T != i {
				t.Fatalf("expected timestamp %d, got %d", i, e.T)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestStreamingSubscriberDropsOldestOnOverflow(t *testing.T) {
	b := New(1)
	defer b.Close()
	sub := b.Subscribe(2)

	go func() {
		for i := uint64(1); i <= 16; i++ {
			b.Publish(event.Move(i, 0, 0))
		}
	}()

	// Drain the sink concurrently so Publish never blocks on it.
	go func() {
		for range b.Sink() {
		}
	}()

	time.Sleep(50 * time.Millisecond)

	if sub.Dropped() == 0 {
		t.Fatalf("expected some events to be dropped by the slow subscriber")
	}

	// Draining the buffered channel should yield events in ascending
	// timestamp order even though some were dropped.
	var last uint64
	for {
		select {
		case e, ok := <-sub.C:
			if !ok {
				return
			}
			if e.T <= last {
				t.Fatalf("out-of-order delivery: got %d after %d", e.T, last)
			}
			last = e.T
		default:
			return
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New(4)
	defer b.Close()
	sub := b.Subscribe(4)
	b.Unsubscribe(sub)

	_, ok := <-sub.C
	if ok {
		t.Fatalf("expected channel to be closed after Unsubscribe")
	}
}
