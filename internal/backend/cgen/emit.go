// Package cgen lowers a resolved Ion program to a single C translation unit.
package cgen

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ionc/internal/diag"
	"ionc/internal/hir"
	"ionc/internal/layout"
	"ionc/internal/observ"
	"ionc/internal/source"
	"ionc/internal/trace"
	"ionc/internal/types"
)

// Options control one generation run.
type Options struct {
	// NoLineSync suppresses every #line directive.
	NoLineSync bool
	// FullGen emits every symbol and tuple, ignoring reachability.
	FullGen bool
	// NoTypeInfo replaces the typeinfo table by bare declarations.
	NoTypeInfo bool
	// Strings interns header paths; a private interner is used when nil.
	Strings *source.Interner
}

// Stats counts what a run produced.
type Stats struct {
	Decls     int
	Defs      int
	Tuples    int
	TypeInfos int
	Headers   int
	Sources   int
}

// Result is the generated translation unit.
type Result struct {
	Text    string
	Headers []string
	Sources []string
	Stats   Stats
	Timings observ.Report
}

// Generator holds the state of one generation run.
type Generator struct {
	prog   *hir.Program
	types  *types.Interner
	layout *layout.LayoutEngine
	opts   Options

	tracer trace.Tracer
	span   uint64

	names    map[nameKey]string
	prefixes map[hir.PackageID]string
	upper    cases.Caser

	preamble   strings.Builder
	postamble  strings.Builder
	strs       *source.Interner
	headerSeen map[source.StringID]struct{}
	headers    []string
	sources    []string

	stats Stats
}

func newGenerator(prog *hir.Program, opts Options) *Generator {
	strs := opts.Strings
	if strs == nil {
		strs = source.NewInterner()
	}
	return &Generator{
		prog:       prog,
		types:      prog.Types,
		layout:     layout.New(prog.Target, prog.Types),
		opts:       opts,
		tracer:     trace.Nop,
		names:      make(map[nameKey]string),
		prefixes:   make(map[hir.PackageID]string),
		upper:      cases.Upper(language.Und),
		strs:       strs,
		headerSeen: make(map[source.StringID]struct{}),
	}
}

func (g *Generator) newWriter() *writer {
	return &writer{noSync: g.opts.NoLineSync}
}

type stage struct {
	name string
	run  func() error
}

// Generate emits the whole program as C text. Any fatal condition aborts
// the run and no partial text is returned.
func Generate(ctx context.Context, prog *hir.Program, opts Options) (*Result, error) {
	if err := prog.Validate(); err != nil {
		return nil, diag.Wrap(diag.CGMalformedModel, source.NoPos, err, "invalid program model")
	}
	g := newGenerator(prog, opts)
	g.tracer = trace.FromContext(ctx)
	unit := trace.Begin(g.tracer, trace.ScopeUnit, "cgen", trace.CurrentSpan(ctx).SpanID)
	timer := observ.NewTimer()

	w := g.newWriter()
	stages := []stage{
		{"foreign", g.preprocess},
		{"headers", func() error {
			g.includes(w)
			w.ln()
			return nil
		}},
		{"forward", func() error {
			if err := g.forwardDecls(w); err != nil {
				return err
			}
			w.ln()
			return nil
		}},
		{"decls", func() error { return g.sortedDecls(w) }},
		{"typeinfo", func() error { return g.typeInfos(w) }},
		{"defs", func() error { return g.defs(w) }},
		{"sources", func() error {
			g.foreignSources(w)
			w.ln()
			return nil
		}},
		{"postamble", func() error {
			if g.postamble.Len() > 0 {
				w.lnf("%s", g.postamble.String())
			}
			return nil
		}},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			unit.End("canceled")
			return nil, err
		}
		span := trace.Begin(g.tracer, trace.ScopeStage, st.name, unit.ID())
		g.span = span.ID()
		err := timer.Measure(st.name, st.run)
		if err != nil {
			span.End("failed")
			unit.End("failed")
			return nil, err
		}
		span.End("")
	}

	// The preamble is only complete once every body has been visited.
	out := g.newWriter()
	if g.preamble.Len() > 0 {
		out.lnf("%s", g.preamble.String())
	}
	out.write(w.String())

	g.stats.Headers = len(g.headers)
	g.stats.Sources = len(g.sources)
	unit.WithExtra("decls", fmt.Sprint(g.stats.Decls)).WithExtra("defs", fmt.Sprint(g.stats.Defs))
	unit.End("")
	return &Result{
		Text:    out.String(),
		Headers: slices.Clone(g.headers),
		Sources: slices.Clone(g.sources),
		Stats:   g.stats,
		Timings: timer.Report(),
	}, nil
}

// reachable reports whether sym takes part in emission.
func (g *Generator) reachable(sym *hir.Symbol) bool {
	if sym == nil {
		return false
	}
	return g.opts.FullGen || sym.Reachable == hir.ReachableNatural
}

func (g *Generator) tupleReachable(id types.TypeID) bool {
	return g.opts.FullGen || g.prog.TypeReachability(id) == hir.ReachableNatural
}

func malformed(pos source.Pos, format string, args ...any) error {
	return diag.Errorf(diag.CGMalformedModel, pos, format, args...)
}

func exprData[T hir.ExprData](e *hir.Expr) (T, error) {
	d, ok := e.Data.(T)
	if !ok {
		var zero T
		return zero, malformed(e.Pos, "%s expression carries %T", e.Kind, e.Data)
	}
	return d, nil
}

func stmtData[T hir.StmtData](s *hir.Stmt) (T, error) {
	d, ok := s.Data.(T)
	if !ok {
		var zero T
		return zero, malformed(s.Pos, "%s statement carries %T", s.Kind, s.Data)
	}
	return d, nil
}
