package cgen

import (
	"ionc/internal/hir"
)

// charEscapes maps bytes to the letter of their C escape sequence.
var charEscapes = [256]byte{
	0:    '0',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	'\v': 'v',
	'\b': 'b',
	'\a': 'a',
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
}

func isPrint(c byte) bool {
	return c >= 0x20 && c < 0x7f
}

func writeChar(w *writer, c byte) {
	switch {
	case charEscapes[c] != 0:
		w.printf("'\\%c'", charEscapes[c])
	case isPrint(c):
		w.printf("'%c'", c)
	default:
		w.printf("'\\x%X'", c)
	}
}

// writeStr writes s as a C string literal. Multi-line strings start on a
// fresh indented line and are split after every embedded newline into
// adjacent literals.
func writeStr(w *writer, s string, multiline bool) {
	if multiline {
		w.indent++
		w.ln()
	}
	w.write(`"`)
	for i := 0; i < len(s); {
		start := i
		for i < len(s) && isPrint(s[i]) && charEscapes[s[i]] == 0 {
			i++
		}
		if start != i {
			w.write(s[start:i])
		}
		if i == len(s) {
			break
		}
		c := s[i]
		if esc := charEscapes[c]; esc != 0 {
			w.printf("\\%c", esc)
			if c == '\n' && i+1 < len(s) {
				w.write(`"`)
				w.lnf(`"`)
			}
		} else {
			w.printf("\\x%X", c)
		}
		i++
	}
	w.write(`"`)
	if multiline {
		w.indent--
	}
}

// quoteStr renders s as a single-line C string literal.
func quoteStr(s string) string {
	w := &writer{noSync: true}
	writeStr(w, s, false)
	return w.String()
}

func writeInt(w *writer, lit hir.IntData) {
	suffix := lit.Suffix.String()
	switch lit.Mod {
	case hir.IntModBin, hir.IntModHex:
		w.printf("0x%x%s", lit.Val, suffix)
	case hir.IntModOct:
		w.printf("0%o%s", lit.Val, suffix)
	case hir.IntModChar:
		writeChar(w, byte(lit.Val))
	default:
		w.printf("%d%s", lit.Val, suffix)
	}
}

// writeFloat keeps the source spelling: double literals drop their 'd'
// suffix, everything else becomes a float literal.
func writeFloat(w *writer, lit hir.FloatData) {
	if lit.Double {
		if n := len(lit.Text); n > 0 {
			w.write(lit.Text[:n-1])
		}
		return
	}
	w.write(lit.Text)
	w.write("f")
}
