package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"ionc/internal/backend/cgen"
	"ionc/internal/diag"
	"ionc/internal/driver"
	"ionc/internal/hir"
	"ionc/internal/observ"
	"ionc/internal/project"
	"ionc/internal/snapshot"
	"ionc/internal/source"
	"ionc/internal/types"
)

// writeSnapshot saves a program with a single function `pkg_name`.
func writeSnapshot(t *testing.T, dir, pkgPath, fn string) string {
	t.Helper()
	ty := types.NewInterner()
	b := hir.NewBuilder(ty)
	pkg := b.Package(pkgPath, filepath.Join(dir, pkgPath))
	b.Define(pkg, hir.Symbol{
		Name:      fn,
		Kind:      hir.SymbolFunc,
		State:     hir.SymbolResolved,
		Reachable: hir.ReachableNatural,
	}, hir.Decl{
		Kind: hir.DeclFunc,
		Pos:  source.Pos{File: pkgPath + ".ion", Line: 1},
		Func: &hir.FuncDecl{Body: &hir.Block{}},
	})
	prog, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	path := filepath.Join(dir, pkgPath+".snap")
	if err := snapshot.Save(path, prog); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

type recorder struct {
	mu     sync.Mutex
	events []driver.Event
}

func (r *recorder) OnEvent(ev driver.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) count(unit string, status driver.Status) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Unit == unit && ev.Status == status {
			n++
		}
	}
	return n
}

func openCache(t *testing.T) *driver.OutputCache {
	t.Helper()
	c, err := driver.OpenOutputCache(filepath.Join(t.TempDir(), "cache"), "ionc")
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	return c
}

func TestGenerateUnitWritesOutputAndUsesCache(t *testing.T) {
	dir := t.TempDir()
	unit := project.Unit{
		Name:   "app",
		Input:  writeSnapshot(t, dir, "app", "main"),
		Output: filepath.Join(dir, "out", "app.c"),
	}
	opts := driver.GenOptions{Gen: cgen.Options{NoLineSync: true}, Cache: openCache(t)}

	first, err := driver.GenerateUnit(context.Background(), unit, opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Cached {
		t.Fatal("empty cache reported a hit")
	}
	text, err := os.ReadFile(unit.Output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(text), "void app_main(void) {") {
		t.Fatalf("unexpected output:\n%s", text)
	}

	if err := os.Remove(unit.Output); err != nil {
		t.Fatal(err)
	}
	second, err := driver.GenerateUnit(context.Background(), unit, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.Cached || second.Key != first.Key {
		t.Fatalf("expected a cache hit on the same key: %+v", second)
	}
	again, err := os.ReadFile(unit.Output)
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(text) {
		t.Fatal("cached output differs from generated output")
	}
	if second.RunID == first.RunID {
		t.Fatal("every run gets its own id")
	}

	opts.Gen.FullGen = true
	third, err := driver.GenerateUnit(context.Background(), unit, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached {
		t.Fatal("different options must miss the cache")
	}
}

func TestGenerateUnitWithoutOutputReturnsText(t *testing.T) {
	dir := t.TempDir()
	unit := project.Unit{Name: "lib", Input: writeSnapshot(t, dir, "lib", "f")}
	res, err := driver.GenerateUnit(context.Background(), unit, driver.GenOptions{Gen: cgen.Options{NoLineSync: true}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "void lib_f(void);") || res.Bytes != len(res.Text) {
		t.Fatalf("text = %q (bytes %d)", res.Text, res.Bytes)
	}
	if res.Stats.Defs != 1 {
		t.Fatalf("stats = %+v", res.Stats)
	}
}

func TestBuildAllKeepsGoingAfterFailure(t *testing.T) {
	dir := t.TempDir()
	units := []project.Unit{
		{Name: "a", Input: writeSnapshot(t, dir, "a", "run"), Output: filepath.Join(dir, "a.c")},
		{Name: "broken", Input: filepath.Join(dir, "missing.snap"), Output: filepath.Join(dir, "broken.c")},
		{Name: "b", Input: writeSnapshot(t, dir, "b", "run"), Output: filepath.Join(dir, "b.c")},
	}
	rec := &recorder{}
	results, err := driver.BuildAll(context.Background(), units, driver.BuildOptions{
		GenOptions: driver.GenOptions{Sink: rec},
		Jobs:       2,
	})
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("err = %v, want failure naming the broken unit", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	if diag.CodeOf(results[1].Err) != diag.IOLoadFileError {
		t.Fatalf("broken unit err = %v", results[1].Err)
	}
	for _, i := range []int{0, 2} {
		if results[i].Err != nil {
			t.Fatalf("unit %s failed: %v", results[i].Unit.Name, results[i].Err)
		}
		if _, err := os.Stat(units[i].Output); err != nil {
			t.Fatalf("missing output for %s: %v", units[i].Name, err)
		}
	}
	for _, u := range units {
		if rec.count(u.Name, driver.StatusQueued) != 1 {
			t.Fatalf("unit %s not queued exactly once", u.Name)
		}
	}
	if rec.count("a", driver.StatusDone) != 1 || rec.count("b", driver.StatusDone) != 1 {
		t.Fatal("finished units must report done")
	}
	if rec.count("broken", driver.StatusError) != 1 {
		t.Fatal("broken unit must report an error")
	}
}

func TestBuildAllCanceled(t *testing.T) {
	dir := t.TempDir()
	units := []project.Unit{{Name: "a", Input: writeSnapshot(t, dir, "a", "run")}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.BuildAll(ctx, units, driver.BuildOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestOutputCachePutGetDrop(t *testing.T) {
	c := openCache(t)
	key := project.Sum([]byte("k"))
	var out driver.CachedOutput
	if ok, err := c.Get(key, &out); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	in := &driver.CachedOutput{Text: "int x;\n", Headers: []string{"<stdio.h>"}, Stats: cgen.Stats{Decls: 1}}
	in.Schema = 1
	if err := c.Put(key, in); err != nil {
		t.Fatalf("put: %v", err)
	}
	ok, err := c.Get(key, &out)
	if !ok || err != nil {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.Text != in.Text || out.Headers[0] != "<stdio.h>" || out.Stats.Decls != 1 {
		t.Fatalf("got %+v", out)
	}

	stale := *in
	stale.Schema = 99
	if err := c.Put(key, &stale); err != nil {
		t.Fatal(err)
	}
	if ok, _ := c.Get(key, &out); ok {
		t.Fatal("entry from another schema must miss")
	}

	if err := c.Put(key, in); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if ok, _ := c.Get(key, &out); ok {
		t.Fatal("dropped cache still hits")
	}
	if err := c.Put(key, in); err != nil {
		t.Fatalf("cache unusable after drop: %v", err)
	}
}

func TestMergeTimings(t *testing.T) {
	results := []driver.UnitResult{
		{Timings: observ.Report{TotalMS: 3, Phases: []observ.PhaseReport{{Name: "load", DurationMS: 1}, {Name: "defs", DurationMS: 2}}}},
		{Timings: observ.Report{TotalMS: 4, Phases: []observ.PhaseReport{{Name: "defs", DurationMS: 3}, {Name: "write", DurationMS: 1}}}},
	}
	got := driver.MergeTimings(results)
	if got.TotalMS != 7 || len(got.Phases) != 3 {
		t.Fatalf("merged = %+v", got)
	}
	if got.Phases[1].Name != "defs" || got.Phases[1].DurationMS != 5 {
		t.Fatalf("defs = %+v", got.Phases[1])
	}
	data, err := driver.TimingsJSON(results)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(data), "\n") != 2 {
		t.Fatalf("want one line per unit:\n%s", data)
	}
}
