package hir

import "fmt"

// Op is an operator token of unary, binary, modify and assignment forms.
type Op uint8

const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpLshift
	OpRshift
	OpEq
	OpNotEq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
	OpAndAnd
	OpOrOr
	OpNot
	OpNeg // ~
	OpInc
	OpDec
	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpAndAssign
	OpOrAssign
	OpXorAssign
	OpLshiftAssign
	OpRshiftAssign
)

var opTokens = [...]string{
	OpNone:         "",
	OpAdd:          "+",
	OpSub:          "-",
	OpMul:          "*",
	OpDiv:          "/",
	OpMod:          "%",
	OpAnd:          "&",
	OpOr:           "|",
	OpXor:          "^",
	OpLshift:       "<<",
	OpRshift:       ">>",
	OpEq:           "==",
	OpNotEq:        "!=",
	OpLt:           "<",
	OpLtEq:         "<=",
	OpGt:           ">",
	OpGtEq:         ">=",
	OpAndAnd:       "&&",
	OpOrOr:         "||",
	OpNot:          "!",
	OpNeg:          "~",
	OpInc:          "++",
	OpDec:          "--",
	OpAssign:       "=",
	OpAddAssign:    "+=",
	OpSubAssign:    "-=",
	OpMulAssign:    "*=",
	OpDivAssign:    "/=",
	OpModAssign:    "%=",
	OpAndAssign:    "&=",
	OpOrAssign:     "|=",
	OpXorAssign:    "^=",
	OpLshiftAssign: "<<=",
	OpRshiftAssign: ">>=",
}

// String returns the C spelling of the operator.
func (op Op) String() string {
	if int(op) < len(opTokens) {
		return opTokens[op]
	}
	return fmt.Sprintf("Op(%d)", op)
}

// IsValid reports known operators.
func (op Op) IsValid() bool {
	return op > OpNone && int(op) < len(opTokens)
}
