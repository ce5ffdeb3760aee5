package source

import (
	"fmt"
)

// Pos is a position in an Ion source file as seen by the C toolchain:
// the file name passed to #line and a 1-based line number.
type Pos struct {
	File string
	Line uint32
}

// NoPos marks a synthesized node without a source location.
var NoPos = Pos{}

func (p Pos) IsValid() bool {
	return p.Line != 0
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("<unknown>:%d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Same reports whether both positions point at the same file and line.
func (p Pos) Same(other Pos) bool {
	return p.Line == other.Line && p.File == other.File
}
