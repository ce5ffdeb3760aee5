package cgen

import (
	"fortio.org/safecast"

	"ionc/internal/diag"
	"ionc/internal/hir"
	"ionc/internal/source"
	"ionc/internal/types"
)

// Bit layout of a runtime typeid: index in the low 24 bits, the runtime
// kind above it and the byte size in the upper 32 bits.
const (
	typeIDIndexBits = 24
	typeIDKindShift = 24
	typeIDSizeShift = 32
)

// TypeIDWord packs a runtime typeid the way the TYPEID macros do.
func TypeIDWord(index types.TypeID, kind types.Kind, size uint32) uint64 {
	return uint64(index) | uint64(kind.RuntimeKind())<<typeIDKindShift | uint64(size)<<typeIDSizeShift
}

// UnpackTypeID splits a runtime typeid into its fields.
func UnpackTypeID(word uint64) (index types.TypeID, kind types.Kind, size uint32) {
	index = types.TypeID(word & (1<<typeIDIndexBits - 1))
	kind = types.Kind(word >> typeIDKindShift & 0xff)
	size = uint32(word >> typeIDSizeShift)
	return index, kind, size
}

// TypeRow describes one slot of the runtime typeinfo table.
type TypeRow struct {
	ID       types.TypeID `json:"id" msgpack:"id"`
	Kind     string       `json:"kind" msgpack:"kind"`
	CDecl    string       `json:"cdecl" msgpack:"cdecl"`
	Size     int          `json:"size" msgpack:"size"`
	Excluded bool         `json:"excluded" msgpack:"excluded"`
	Word     uint64       `json:"word" msgpack:"word"`
}

// DescribeTypes lists every type slot with the typeid generated code
// would use for it.
func DescribeTypes(prog *hir.Program, opts Options) ([]TypeRow, error) {
	if err := prog.Validate(); err != nil {
		return nil, diag.Wrap(diag.CGMalformedModel, source.NoPos, err, "invalid program model")
	}
	g := newGenerator(prog, opts)
	g.packagePrefixes()
	n := g.types.Len()
	rows := make([]TypeRow, 0, n)
	for i := 1; i < n; i++ {
		id := types.TypeID(i) //nolint:gosec // bounded by the interner size
		tt := g.types.MustLookup(id)
		size, err := g.sizeOf(id)
		if err != nil {
			return nil, err
		}
		row := TypeRow{
			ID:       id,
			Kind:     typeKindName(tt.Kind),
			Size:     size,
			Excluded: g.excludedTypeInfo(id),
		}
		if decl, err := g.typeDecl(id, ""); err == nil {
			row.CDecl = decl
		}
		packed := uint32(0)
		if !row.Excluded {
			packed, err = safecast.Conv[uint32](size)
			if err != nil {
				return nil, malformed(source.NoPos, "type#%d is too large for a typeid", id)
			}
		}
		row.Word = TypeIDWord(id, tt.Kind, packed)
		rows = append(rows, row)
	}
	return rows, nil
}
