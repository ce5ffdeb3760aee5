package hir

import (
	"ionc/internal/source"
)

// DeclKind enumerates declaration forms.
type DeclKind uint8

const (
	DeclNone DeclKind = iota
	DeclEnum
	DeclStruct
	DeclUnion
	DeclVar
	DeclConst
	DeclTypedef
	DeclFunc
	DeclNote
	DeclImport
)

func (k DeclKind) String() string {
	switch k {
	case DeclEnum:
		return "enum"
	case DeclStruct:
		return "struct"
	case DeclUnion:
		return "union"
	case DeclVar:
		return "var"
	case DeclConst:
		return "const"
	case DeclTypedef:
		return "typedef"
	case DeclFunc:
		return "func"
	case DeclNote:
		return "note"
	case DeclImport:
		return "import"
	default:
		return "none"
	}
}

// Well-known note names.
const (
	NoteForeign     = "foreign"
	NoteThreadLocal = "threadlocal"
	NoteNoTypeInfo  = "notypeinfo"
	NoteInline      = "inline"
	NoteNoInline    = "noinline"
	NoteAssert      = "assert"
	NoteComplete    = "complete"
)

// Foreign note argument names.
const (
	ForeignHeader    = "header"
	ForeignSource    = "source"
	ForeignPreamble  = "preamble"
	ForeignPostamble = "postamble"
)

// NoteArg is one (optionally named) note argument.
type NoteArg struct {
	Pos  source.Pos
	Name string
	Expr *Expr
}

// Note is an `@name(args)` / `#name(args)` annotation.
type Note struct {
	Pos  source.Pos
	Name string
	Args []NoteArg
}

// FindNote returns the first note called name.
func FindNote(notes []Note, name string) *Note {
	for i := range notes {
		if notes[i].Name == name {
			return &notes[i]
		}
	}
	return nil
}

// AggregateKind tells struct and union bodies apart.
type AggregateKind uint8

const (
	AggregateStruct AggregateKind = iota
	AggregateUnion
)

// AggregateItemKind distinguishes fields from nested anonymous aggregates.
type AggregateItemKind uint8

const (
	AggregateItemField AggregateItemKind = iota
	AggregateItemSubaggregate
)

// AggregateItem is `a, b: T;` or a nested `struct { ... }`.
type AggregateItem struct {
	Pos          source.Pos
	Kind         AggregateItemKind
	Names        []string
	Type         *Typespec
	Subaggregate *Aggregate
}

type Aggregate struct {
	Pos   source.Pos
	Kind  AggregateKind
	Items []AggregateItem
}

type FuncParam struct {
	Pos  source.Pos
	Name string
	Type *Typespec
}

type FuncDecl struct {
	Params   []FuncParam
	Ret      *Typespec // nil means void
	Variadic bool
	Body     *Block
}

type VarDecl struct {
	Type *Typespec // nil when inferred
	Init *Expr
}

type ConstDecl struct {
	Type *Typespec // nil when untyped
	Init *Expr
}

type TypedefDecl struct {
	Type *Typespec
}

type EnumDecl struct {
	Type *Typespec // nil means int
}

// Decl is the syntactic definition of a symbol (or a package-level note).
type Decl struct {
	Kind         DeclKind
	Pos          source.Pos
	Name         string
	Sym          SymbolID
	Notes        []Note
	IsIncomplete bool

	Aggregate *Aggregate
	Func      *FuncDecl
	Var       *VarDecl
	Const     *ConstDecl
	Typedef   *TypedefDecl
	Enum      *EnumDecl
	Note      *Note
}

// FindNote returns the declaration note called name.
func (d *Decl) FindNote(name string) *Note {
	if d == nil {
		return nil
	}
	return FindNote(d.Notes, name)
}

// IsForeign reports declarations implemented by external C code.
func (d *Decl) IsForeign() bool {
	return d.FindNote(NoteForeign) != nil
}

// IsThreadLocal reports `@threadlocal` variables.
func (d *Decl) IsThreadLocal() bool {
	return d.FindNote(NoteThreadLocal) != nil
}
