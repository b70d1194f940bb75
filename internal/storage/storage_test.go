package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/louis030195/bigbrother/internal/event"
)

func TestAppendAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	id := uuid.New().String()
	sink, err := store.CreateAppendSink(id, "demo", time.Now())
	if err != nil {
		t.Fatalf("CreateAppendSink failed: %v", err)
	}

	want := []event.Event{
		event.Move(1, 10, 20),
		event.Click(2, 10, 20, event.ButtonLeft, 1, 0),
		event.Text(3, "hello"),
	}
	for _, e := range want {
		if err := sink.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	got, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(got.Events))
	}
	for i, e := range want {
		if got.Events[i].Tag != e.Tag || got.Events[i].T != e.T {
			t.Fatalf("event %d mismatch: got %+v, want %+v", i, got.Events[i], e)
		}
	}

	sess, err := store.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if sess.EventCount != len(want) {
		t.Fatalf("expected event count %d, got %d", len(want), sess.EventCount)
	}
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	base := time.Now()
	older := uuid.New().String()
	newer := uuid.New().String()

	for i, id := range []string{older, newer} {
		sink, err := store.CreateAppendSink(id, "s", base.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("CreateAppendSink failed: %v", err)
		}
		sink.Close()
	}

	sessions, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != newer {
		t.Fatalf("expected most recent session first, got %+v", sessions)
	}
}

func TestDeleteRemovesLogAndIndexRow(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	id := uuid.New().String()
	sink, err := store.CreateAppendSink(id, "s", time.Now())
	if err != nil {
		t.Fatalf("CreateAppendSink failed: %v", err)
	}
	sink.Append(event.Move(1, 0, 0))
	sink.Close()

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(id); err == nil {
		t.Fatalf("expected Get to fail after Delete")
	}
}
