package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"ionc/internal/project"
	"ionc/internal/trace"
)

// BuildOptions configure BuildAll.
type BuildOptions struct {
	GenOptions
	// Jobs bounds concurrent units; <= 0 means GOMAXPROCS.
	Jobs int
	// Heartbeat emits periodic trace events while units run (0 = off).
	Heartbeat time.Duration
}

// BuildAll генерирует все юниты параллельно. Ошибка одного юнита не
// останавливает остальные: каждая сохраняется в UnitResult.Err, а общая
// ошибка объединяет их. Только отмена контекста прерывает сборку.
func BuildAll(ctx context.Context, units []project.Unit, opts BuildOptions) ([]UnitResult, error) {
	results := make([]UnitResult, len(units))
	if len(units) == 0 {
		return results, nil
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "build", trace.CurrentSpan(ctx).SpanID)
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	total, err := safecast.Conv[int64](len(units))
	if err != nil {
		return nil, err
	}
	var finished atomic.Int64
	hb := trace.StartHeartbeat(tracer, opts.Heartbeat, func() string {
		return fmt.Sprintf("%d/%d units", finished.Load(), total)
	})
	defer hb.Stop()

	for _, u := range units {
		emit(opts.Sink, Event{Unit: u.Name, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(units)))
	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = UnitResult{Unit: u, Err: err}
				return err
			}
			res, err := GenerateUnit(gctx, u, opts.GenOptions)
			results[i] = *res
			finished.Add(1)
			if err != nil && errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	waitErr := g.Wait()

	var errs []error
	for i := range results {
		if results[i].Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", results[i].Unit.Name, results[i].Err))
		}
	}
	if waitErr != nil && len(errs) == 0 {
		errs = append(errs, waitErr)
	}
	if len(errs) > 0 {
		span.End("failed")
		return results, errors.Join(errs...)
	}
	span.End(fmt.Sprintf("%d units", len(units)))
	return results, nil
}
