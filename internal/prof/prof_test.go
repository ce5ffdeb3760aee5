package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Heap:  filepath.Join(dir, "heap.pprof"),
		Trace: filepath.Join(dir, "run.trace"),
	}
	s, err := Start(opts)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	for _, p := range []string{opts.CPU, opts.Heap, opts.Trace} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", p)
		}
	}
}

func TestStartFailsOnBadPath(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "missing", "cpu.pprof")
	if _, err := Start(Options{CPU: bad}); err == nil {
		t.Fatal("expected an error")
	}
	// the failed start must not leave the CPU profiler running
	s, err := Start(Options{CPU: filepath.Join(t.TempDir(), "cpu.pprof")})
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	_ = s.Stop()
}

func TestOptionsEnabled(t *testing.T) {
	if (Options{}).Enabled() {
		t.Fatal("zero options enable nothing")
	}
	if !(Options{Heap: "h"}).Enabled() {
		t.Fatal("heap alone enables profiling")
	}
}
