package layout

import (
	"fmt"
	"strings"

	"ionc/internal/types"
)

// LayoutErrorKind enumerates types of layout calculation errors.
type LayoutErrorKind uint8

const (
	// LayoutErrRecursiveUnsized indicates an aggregate that contains itself by value.
	LayoutErrRecursiveUnsized LayoutErrorKind = iota + 1
	LayoutErrUnknownType
	LayoutErrSizeOverflow
)

// LayoutError represents an error during memory layout calculation.
type LayoutError struct {
	Kind  LayoutErrorKind
	Type  types.TypeID
	Cycle []types.TypeID // for LayoutErrRecursiveUnsized
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case LayoutErrRecursiveUnsized:
		if len(e.Cycle) == 0 {
			return fmt.Sprintf("recursive value type has infinite size (type#%d)", e.Type)
		}
		parts := make([]string, 0, len(e.Cycle))
		for _, id := range e.Cycle {
			parts = append(parts, fmt.Sprintf("type#%d", id))
		}
		return fmt.Sprintf("recursive value type has infinite size (cycle: %s)", strings.Join(parts, " -> "))
	case LayoutErrUnknownType:
		return fmt.Sprintf("unknown type#%d", e.Type)
	case LayoutErrSizeOverflow:
		return fmt.Sprintf("type#%d is too large", e.Type)
	default:
		return fmt.Sprintf("layout error kind=%d type#%d", e.Kind, e.Type)
	}
}
