package hir

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"ionc/internal/source"
	"ionc/internal/types"
)

// Expr and Stmt carry their payload behind an interface; msgpack needs the
// kind to pick the concrete type back, so both travel as a header plus a
// raw payload.

type exprWire struct {
	Kind     ExprKind
	Pos      source.Pos
	Type     types.TypeID
	Sym      SymbolID
	Conv     types.TypeID
	Expected types.TypeID
	Promo    types.TypeID
	Any      bool
	Val      int64
	HasVal   bool
	Data     msgpack.RawMessage
}

type stmtWire struct {
	Kind  StmtKind
	Pos   source.Pos
	Notes []Note
	Data  msgpack.RawMessage
}

func encodeData(v any) (msgpack.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return msgpack.Marshal(v)
}

// emptyRaw reports a missing payload; a nil RawMessage comes back as the
// single msgpack nil byte.
func emptyRaw(raw msgpack.RawMessage) bool {
	return len(raw) == 0 || (len(raw) == 1 && raw[0] == msgpcode.Nil)
}

func decodeData[T any](raw msgpack.RawMessage) (T, error) {
	var v T
	if emptyRaw(raw) {
		return v, nil
	}
	err := msgpack.Unmarshal(raw, &v)
	return v, err
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (e *Expr) EncodeMsgpack(enc *msgpack.Encoder) error {
	raw, err := encodeData(e.Data)
	if err != nil {
		return fmt.Errorf("encode %s expr: %w", e.Kind, err)
	}
	return enc.Encode(exprWire{
		Kind:     e.Kind,
		Pos:      e.Pos,
		Type:     e.Type,
		Sym:      e.Sym,
		Conv:     e.Conv,
		Expected: e.Expected,
		Promo:    e.Promo,
		Any:      e.Any,
		Val:      e.Val,
		HasVal:   e.HasVal,
		Data:     raw,
	})
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (e *Expr) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w exprWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	data, err := decodeExprData(w.Kind, w.Data)
	if err != nil {
		return fmt.Errorf("decode %s expr at %s: %w", w.Kind, w.Pos, err)
	}
	*e = Expr{
		Kind:     w.Kind,
		Pos:      w.Pos,
		Type:     w.Type,
		Sym:      w.Sym,
		Conv:     w.Conv,
		Expected: w.Expected,
		Promo:    w.Promo,
		Any:      w.Any,
		Val:      w.Val,
		HasVal:   w.HasVal,
		Data:     data,
	}
	return nil
}

func decodeExprData(kind ExprKind, raw msgpack.RawMessage) (ExprData, error) {
	switch kind {
	case ExprParen:
		return decodeData[ParenData](raw)
	case ExprInt:
		return decodeData[IntData](raw)
	case ExprFloat:
		return decodeData[FloatData](raw)
	case ExprStr:
		return decodeData[StrData](raw)
	case ExprName:
		return decodeData[NameData](raw)
	case ExprCast:
		return decodeData[CastData](raw)
	case ExprCall:
		return decodeData[CallData](raw)
	case ExprIndex:
		return decodeData[IndexData](raw)
	case ExprField:
		return decodeData[FieldData](raw)
	case ExprCompound:
		return decodeData[CompoundData](raw)
	case ExprUnary:
		return decodeData[UnaryData](raw)
	case ExprBinary:
		return decodeData[BinaryData](raw)
	case ExprTernary:
		return decodeData[TernaryData](raw)
	case ExprSizeofExpr, ExprAlignofExpr, ExprTypeofExpr:
		return decodeData[OperandData](raw)
	case ExprSizeofType, ExprAlignofType, ExprTypeofType:
		return decodeData[TypeOperandData](raw)
	case ExprOffsetof:
		return decodeData[OffsetofData](raw)
	case ExprModify:
		return decodeData[ModifyData](raw)
	case ExprNew:
		return decodeData[NewData](raw)
	default:
		if !emptyRaw(raw) {
			return nil, fmt.Errorf("payload for unknown expression kind %d", kind)
		}
		return nil, nil
	}
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (s *Stmt) EncodeMsgpack(enc *msgpack.Encoder) error {
	raw, err := encodeData(s.Data)
	if err != nil {
		return fmt.Errorf("encode %s stmt: %w", s.Kind, err)
	}
	return enc.Encode(stmtWire{Kind: s.Kind, Pos: s.Pos, Notes: s.Notes, Data: raw})
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (s *Stmt) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w stmtWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	data, err := decodeStmtData(w.Kind, w.Data)
	if err != nil {
		return fmt.Errorf("decode %s stmt at %s: %w", w.Kind, w.Pos, err)
	}
	*s = Stmt{Kind: w.Kind, Pos: w.Pos, Notes: w.Notes, Data: data}
	return nil
}

func decodeStmtData(kind StmtKind, raw msgpack.RawMessage) (StmtData, error) {
	switch kind {
	case StmtReturn:
		return decodeData[ReturnData](raw)
	case StmtBlock:
		return decodeData[BlockData](raw)
	case StmtNote:
		return decodeData[NoteData](raw)
	case StmtIf:
		return decodeData[IfData](raw)
	case StmtWhile, StmtDoWhile:
		return decodeData[WhileData](raw)
	case StmtFor:
		return decodeData[ForData](raw)
	case StmtSwitch:
		return decodeData[SwitchData](raw)
	case StmtLabel, StmtGoto:
		return decodeData[LabelData](raw)
	case StmtAssign:
		return decodeData[AssignData](raw)
	case StmtInit:
		return decodeData[InitData](raw)
	case StmtExpr:
		return decodeData[ExprStmtData](raw)
	case StmtBreak, StmtContinue:
		return nil, nil
	default:
		if !emptyRaw(raw) {
			return nil, fmt.Errorf("payload for unknown statement kind %d", kind)
		}
		return nil, nil
	}
}
