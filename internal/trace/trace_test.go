package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeStage) {
		t.Fatal("phase level must not emit stage events")
	}
	if !LevelDetail.ShouldEmit(ScopeStage) || LevelDetail.ShouldEmit(ScopeDecl) {
		t.Fatal("detail level must emit stages but not decls")
	}
	if !LevelDebug.ShouldEmit(ScopeDecl) {
		t.Fatal("debug level must emit everything")
	}
}

func TestStreamTracerWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	span := Begin(tr, ScopeStage, "typeinfo", 0)
	span.WithExtra("types", "12").End("ok")
	Begin(tr, ScopeDecl, "decl:f", span.ID()).End("")

	out := buf.String()
	if !strings.Contains(out, "→ typeinfo") || !strings.Contains(out, "← typeinfo (ok) {types=12}") {
		t.Fatalf("unexpected trace output:\n%s", out)
	}
	if strings.Contains(out, "decl:f") {
		t.Fatalf("decl scope must be filtered at detail level:\n%s", out)
	}
}

func TestRingTracerKeepsTail(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeUnit, name, "", 0)
	}
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("unexpected ring contents: %+v", events)
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatNDJSON, 1); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 || !strings.Contains(buf.String(), `"name":"c"`) {
		t.Fatalf("unexpected dump: %s", buf.String())
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("missing tracer must fall back to Nop")
	}
	ring := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatal("tracer not propagated")
	}
	multi := NewMultiTracer(LevelPhase, NewStreamTracer(&bytes.Buffer{}, LevelPhase, FormatText), ring)
	if multi.Ring() != ring {
		t.Fatal("Ring() must find the ring child")
	}
}
