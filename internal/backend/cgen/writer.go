package cgen

import (
	"fmt"
	"strings"

	"ionc/internal/source"
)

const indentUnit = "    "

// writer is one output text buffer together with the state the #line
// protocol needs: the indentation depth and the source position the next
// started line maps to. Detached renderings get their own writer, so no
// buffer is ever swapped underneath a caller.
type writer struct {
	buf    strings.Builder
	indent int
	line   uint32
	file   string
	noSync bool
}

func (w *writer) write(s string) {
	w.buf.WriteString(s)
}

func (w *writer) printf(format string, args ...any) {
	fmt.Fprintf(&w.buf, format, args...)
}

// ln starts a new indented line.
func (w *writer) ln() {
	w.buf.WriteByte('\n')
	for i := 0; i < w.indent; i++ {
		w.buf.WriteString(indentUnit)
	}
	w.line++
}

func (w *writer) lnf(format string, args ...any) {
	w.ln()
	w.printf(format, args...)
}

// sync emits a #line marker when pos differs from the tracked position.
// The file name is printed only when it changes.
func (w *writer) sync(pos source.Pos) {
	if w.noSync || !pos.IsValid() {
		return
	}
	if w.line == pos.Line && w.file == pos.File {
		return
	}
	w.lnf("#line %d", pos.Line)
	if w.file != pos.File {
		w.write(" ")
		writeStr(w, pos.File, false)
	}
	w.line = pos.Line
	w.file = pos.File
}

// detached returns a scratch writer sharing the indentation of w.
func (w *writer) detached() *writer {
	return &writer{indent: w.indent, noSync: true}
}

func (w *writer) String() string {
	return w.buf.String()
}

// posHint is the source position the writer currently maps to.
func (w *writer) posHint() source.Pos {
	return source.Pos{File: w.file, Line: w.line}
}
