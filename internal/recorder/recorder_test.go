package recorder

import "testing"

func TestStopWithoutStartReturnsErrNotRunning(t *testing.T) {
	r := New()
	if err := r.Stop(); err != ErrNotRunning {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateUnstarted: "unstarted",
		StateRunning:   "running",
		StateStopping:  "stopping",
		StateStopped:   "stopped",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestDefaultConfigCarriesSubsystemDefaults(t *testing.T) {
	cfg := DefaultConfig("demo")
	if cfg.Name != "demo" {
		t.Fatalf("expected name %q, got %q", "demo", cfg.Name)
	}
	if cfg.BusCapacity <= 0 {
		t.Fatalf("expected a positive bus capacity, got %d", cfg.BusCapacity)
	}
	if !cfg.CaptureContext {
		t.Fatalf("expected CaptureContext to default to true")
	}
}
