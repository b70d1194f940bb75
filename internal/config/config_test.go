package config

import (
	"path/filepath"
	"testing"
)

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	want := Default()
	want.DefaultReplaySpeed = 2.5
	want.CaptureContext = false

	if err := Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.DefaultReplaySpeed != want.DefaultReplaySpeed {
		t.Fatalf("expected replay speed %v, got %v", want.DefaultReplaySpeed, got.DefaultReplaySpeed)
	}
	if got.CaptureContext != want.CaptureContext {
		t.Fatalf("expected capture context %v, got %v", want.CaptureContext, got.CaptureContext)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "does-not-exist.yaml")

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	def := Default()
	if got.BusCapacity != def.BusCapacity {
		t.Fatalf("expected default bus capacity %d, got %d", def.BusCapacity, got.BusCapacity)
	}
}
