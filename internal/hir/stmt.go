package hir

import (
	"ionc/internal/source"
)

// StmtKind enumerates statement kinds.
type StmtKind uint8

const (
	StmtNone StmtKind = iota
	StmtReturn
	StmtBreak
	StmtContinue
	StmtBlock
	// StmtNote represents #assert / #foreign notes inside bodies.
	StmtNote
	StmtIf
	StmtWhile
	StmtDoWhile
	StmtFor
	StmtSwitch
	StmtLabel
	StmtGoto
	// StmtAssign represents `lhs op= rhs`.
	StmtAssign
	// StmtInit represents `name: T = e` / `name := e`.
	StmtInit
	// StmtExpr represents an expression statement.
	StmtExpr
)

// String returns a human-readable name for the statement kind.
func (k StmtKind) String() string {
	switch k {
	case StmtReturn:
		return "Return"
	case StmtBreak:
		return "Break"
	case StmtContinue:
		return "Continue"
	case StmtBlock:
		return "Block"
	case StmtNote:
		return "Note"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	case StmtDoWhile:
		return "DoWhile"
	case StmtFor:
		return "For"
	case StmtSwitch:
		return "Switch"
	case StmtLabel:
		return "Label"
	case StmtGoto:
		return "Goto"
	case StmtAssign:
		return "Assign"
	case StmtInit:
		return "Init"
	case StmtExpr:
		return "Expr"
	default:
		return "Unknown"
	}
}

// Block is a braced statement list.
type Block struct {
	Stmts []*Stmt
}

// Stmt represents a statement.
type Stmt struct {
	Kind  StmtKind
	Pos   source.Pos
	Notes []Note   // @complete and friends
	Data  StmtData // Kind-specific payload
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// FindNote returns the statement note called name.
func (s *Stmt) FindNote(name string) *Note {
	if s == nil {
		return nil
	}
	return FindNote(s.Notes, name)
}

// ReturnData holds data for StmtReturn.
type ReturnData struct {
	Expr *Expr // nil for bare return
}

func (ReturnData) stmtData() {}

// BlockData holds data for StmtBlock.
type BlockData struct {
	Block *Block
}

func (BlockData) stmtData() {}

// NoteData holds data for StmtNote.
type NoteData struct {
	Note Note
}

func (NoteData) stmtData() {}

// ElseIf is one `else if` arm.
type ElseIf struct {
	Cond  *Expr
	Block *Block
}

// IfData holds data for StmtIf.
type IfData struct {
	Init    *Stmt // optional init statement
	Cond    *Expr // nil when the init variable is the condition
	Then    *Block
	ElseIfs []ElseIf
	Else    *Block // nil when absent
}

func (IfData) stmtData() {}

// WhileData holds data for StmtWhile and StmtDoWhile.
type WhileData struct {
	Cond  *Expr
	Block *Block
}

func (WhileData) stmtData() {}

// ForData holds data for StmtFor.
type ForData struct {
	Init  *Stmt
	Cond  *Expr
	Next  *Stmt
	Block *Block
}

func (ForData) stmtData() {}

// SwitchPattern is `start` or the inclusive range `start...end`.
type SwitchPattern struct {
	Start *Expr
	End   *Expr // nil for single values
}

// SwitchCase is one case arm.
type SwitchCase struct {
	Patterns  []SwitchPattern
	IsDefault bool
	Block     *Block
}

// SwitchData holds data for StmtSwitch.
type SwitchData struct {
	Expr  *Expr
	Cases []SwitchCase
}

func (SwitchData) stmtData() {}

// LabelData holds data for StmtLabel and StmtGoto.
type LabelData struct {
	Label string
}

func (LabelData) stmtData() {}

// AssignData holds data for StmtAssign.
type AssignData struct {
	Op    Op
	Left  *Expr
	Right *Expr
}

func (AssignData) stmtData() {}

// InitData holds data for StmtInit.
type InitData struct {
	Name    string
	Type    *Typespec // nil when inferred
	Expr    *Expr     // nil when zero-initialized
	IsUndef bool      // `= undef`: leave uninitialized
}

func (InitData) stmtData() {}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}
