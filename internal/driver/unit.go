package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"ionc/internal/backend/cgen"
	"ionc/internal/diag"
	"ionc/internal/observ"
	"ionc/internal/project"
	"ionc/internal/snapshot"
	"ionc/internal/source"
	"ionc/internal/trace"
)

// GenOptions configure GenerateUnit and BuildAll.
type GenOptions struct {
	Gen   cgen.Options
	Cache *OutputCache // nil disables caching
	Sink  ProgressSink // nil drops events
}

// UnitResult describes one finished unit.
type UnitResult struct {
	Unit    project.Unit
	RunID   string
	Cached  bool
	Key     project.Digest
	Stats   cgen.Stats
	Headers []string
	Sources []string
	// Text is only kept when the unit has no output path.
	Text    string
	Bytes   int
	Timings observ.Report
	Err     error
}

// GenerateUnit loads the unit snapshot, generates (or fetches from the
// cache) its C text and writes it to unit.Output. With an empty Output the
// text is returned in the result instead.
func GenerateUnit(ctx context.Context, unit project.Unit, opts GenOptions) (*UnitResult, error) {
	res := &UnitResult{Unit: unit, RunID: uuid.NewString()}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeUnit, "unit "+unit.Name, trace.CurrentSpan(ctx).SpanID).
		WithExtra("run", res.RunID)
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})
	started := time.Now()

	report := func(stage Stage, status Status, err error) {
		emit(opts.Sink, Event{
			RunID:   res.RunID,
			Unit:    unit.Name,
			Stage:   stage,
			Status:  status,
			Err:     err,
			Elapsed: time.Since(started),
		})
	}
	fail := func(stage Stage, err error) (*UnitResult, error) {
		res.Err = err
		report(stage, StatusError, err)
		span.End("failed")
		return res, err
	}

	timer := observ.NewTimer()
	report(StageLoad, StatusWorking, nil)
	idx := timer.Begin("load")
	prog, sum, err := snapshot.Load(unit.Input)
	timer.End(idx, "")
	if err != nil {
		return fail(StageLoad, err)
	}

	res.Key = CacheKey(sum, opts.Gen)
	var out CachedOutput
	hit := false
	if opts.Cache != nil {
		report(StageCache, StatusWorking, nil)
		hit, err = opts.Cache.Get(res.Key, &out)
		if err != nil {
			// битая запись кеша не ломает сборку
			trace.Point(tracer, trace.ScopeUnit, "cache", err.Error(), span.ID())
			hit = false
		}
	}

	if hit {
		res.Cached = true
		trace.Point(tracer, trace.ScopeUnit, "cache", "hit "+res.Key.String()[:12], span.ID())
	} else {
		report(StageGenerate, StatusWorking, nil)
		gen, err := cgen.Generate(ctx, prog, opts.Gen)
		if err != nil {
			return fail(StageGenerate, err)
		}
		out = *newCachedOutput(gen)
		res.Timings = gen.Timings
		if opts.Cache != nil {
			if err := opts.Cache.Put(res.Key, &out); err != nil {
				trace.Point(tracer, trace.ScopeUnit, "cache", "store failed: "+err.Error(), span.ID())
			}
		}
	}

	res.Stats = out.Stats
	res.Headers = out.Headers
	res.Sources = out.Sources
	res.Bytes = len(out.Text)
	if unit.Output == "" {
		res.Text = out.Text
	} else {
		report(StageWrite, StatusWorking, nil)
		idx := timer.Begin("write")
		err := writeOutput(unit.Output, out.Text)
		timer.End(idx, "")
		if err != nil {
			return fail(StageWrite, err)
		}
	}
	res.Timings = mergeReports(timer.Report(), res.Timings)

	if res.Cached {
		report(StageCache, StatusCached, nil)
	}
	report(StageWrite, StatusDone, nil)
	span.End(fmt.Sprintf("%d bytes", res.Bytes))
	return res, nil
}

// writeOutput replaces path atomically.
func writeOutput(path, text string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return diag.Wrap(diag.IOWriteFileError, source.NoPos, err, "failed to create %s", dir)
	}
	f, err := os.CreateTemp(dir, ".ionc-*.c")
	if err != nil {
		return diag.Wrap(diag.IOWriteFileError, source.NoPos, err, "failed to write %s", path)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.WriteString(text); err != nil {
		return diag.Wrap(diag.IOWriteFileError, source.NoPos, err, "failed to write %s", path)
	}
	if err = f.Close(); err != nil {
		return diag.Wrap(diag.IOWriteFileError, source.NoPos, err, "failed to write %s", path)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return diag.Wrap(diag.IOWriteFileError, source.NoPos, err, "failed to write %s", path)
	}
	return nil
}
