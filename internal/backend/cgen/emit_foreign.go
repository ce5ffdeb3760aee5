package cgen

import (
	"fmt"
	"strings"

	"ionc/internal/diag"
	"ionc/internal/hir"
	"ionc/internal/source"
)

// preprocess derives package prefixes and collects package-level
// #foreign requests before any text is emitted.
func (g *Generator) preprocess() error {
	g.packagePrefixes()
	for _, pkgID := range g.prog.PackageIDs() {
		pkg := g.prog.Package(pkgID)
		for _, declID := range pkg.Decls {
			d := g.prog.Decl(declID)
			if d.Kind != hir.DeclNote || d.Note == nil || d.Note.Name != hir.NoteForeign {
				continue
			}
			if err := g.foreignNote(pkg, d); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Generator) packagePrefixes() {
	for _, id := range g.prog.PackageIDs() {
		g.packagePrefix(id)
	}
}

func (g *Generator) foreignNote(pkg *hir.Package, d *hir.Decl) error {
	for _, arg := range d.Note.Args {
		if arg.Expr == nil || arg.Expr.Kind != hir.ExprStr {
			pos := d.Pos
			if arg.Expr != nil && arg.Expr.Pos.IsValid() {
				pos = arg.Expr.Pos
			}
			return diag.Errorf(diag.CGForeignArgNotString, pos, "#foreign argument must be a string")
		}
		str, err := exprData[hir.StrData](arg.Expr)
		if err != nil {
			return err
		}
		switch arg.Name {
		case hir.ForeignHeader, hir.ForeignSource:
			path, err := source.IncludePath(pkg.Dir, str.Val)
			if err != nil {
				return diag.Wrap(diag.IOLoadFileError, arg.Pos, err, "cannot resolve #foreign %s %q", arg.Name, str.Val)
			}
			if arg.Name == hir.ForeignHeader {
				g.addHeader(path)
			} else {
				g.sources = append(g.sources, path)
			}
		case hir.ForeignPreamble:
			g.amble(&g.preamble, arg.Pos, str.Val)
		case hir.ForeignPostamble:
			g.amble(&g.postamble, arg.Pos, str.Val)
		default:
			return diag.Errorf(diag.CGForeignUnknownArg, d.Pos, "Unknown #foreign named argument '%s'", arg.Name)
		}
	}
	return nil
}

// addHeader records a header once, keeping first-request order.
func (g *Generator) addHeader(path string) {
	id := g.strs.Intern(path)
	if _, ok := g.headerSeen[id]; ok {
		return
	}
	g.headerSeen[id] = struct{}{}
	g.headers = append(g.headers, path)
}

// amble appends injected text, preceded by a #line marker for the note
// that supplied it.
func (g *Generator) amble(b *strings.Builder, pos source.Pos, text string) {
	if !g.opts.NoLineSync {
		fmt.Fprintf(b, "\n#line %d %s\n", pos.Line, quoteStr(pos.File))
	}
	b.WriteString(text)
	b.WriteString("\n")
}

func include(w *writer, path string) {
	w.lnf("#include ")
	if source.IsSystemInclude(path) {
		w.write(path)
		return
	}
	writeStr(w, path, false)
}

func (g *Generator) includes(w *writer) {
	for _, h := range g.headers {
		include(w, h)
	}
}

func (g *Generator) foreignSources(w *writer) {
	for _, s := range g.sources {
		include(w, s)
	}
}
