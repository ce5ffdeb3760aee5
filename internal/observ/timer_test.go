package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestMeasureRecordsPhases(t *testing.T) {
	tm := NewTimer()
	if err := tm.Measure("forward", func() error { return nil }); err != nil {
		t.Fatalf("Measure: %v", err)
	}
	boom := errors.New("boom")
	if err := tm.Measure("defs", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Measure must pass the error through, got %v", err)
	}

	rep := tm.Report()
	if len(rep.Phases) != 2 || rep.Phases[0].Name != "forward" || rep.Phases[1].Note != "failed" {
		t.Fatalf("unexpected report: %+v", rep)
	}
	sum := tm.Summary()
	if !strings.Contains(sum, "forward") || !strings.Contains(sum, "// failed") || !strings.Contains(sum, "total") {
		t.Fatalf("unexpected summary:\n%s", sum)
	}
}

func TestEmptyTimerReport(t *testing.T) {
	var tm *Timer
	if rep := tm.Report(); len(rep.Phases) != 0 || rep.TotalMS != 0 {
		t.Fatalf("nil timer must report nothing, got %+v", rep)
	}
}
