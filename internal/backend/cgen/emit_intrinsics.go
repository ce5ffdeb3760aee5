package cgen

import (
	"strings"

	"ionc/internal/diag"
	"ionc/internal/hir"
	"ionc/internal/types"
)

// typeArg is a type argument synthesized from the first call argument.
type typeArg uint8

const (
	argBase typeArg = iota // pointee of arg 0
	argKey                 // first field of the pointee
	argVal                 // second field of the pointee
)

type intrinsicShape struct {
	typeArgs []typeArg
	args     int
}

var (
	shapeBase2       = intrinsicShape{typeArgs: []typeArg{argBase}, args: 2}
	shapeBase3       = intrinsicShape{typeArgs: []typeArg{argBase}, args: 3}
	shapeBase1       = intrinsicShape{typeArgs: []typeArg{argBase}, args: 1}
	shapeBaseKey2    = intrinsicShape{typeArgs: []typeArg{argBase, argKey}, args: 2}
	shapeBaseKey3    = intrinsicShape{typeArgs: []typeArg{argBase, argKey}, args: 3}
	shapeBaseVal2    = intrinsicShape{typeArgs: []typeArg{argBase, argVal}, args: 2}
	shapeBaseKeyVal2 = intrinsicShape{typeArgs: []typeArg{argBase, argKey, argVal}, args: 2}
)

var intrinsicShapes = map[hir.Intrinsic]intrinsicShape{
	hir.IntrinsicApush:     shapeBase2,
	hir.IntrinsicAputv:     shapeBase2,
	hir.IntrinsicAdelv:     shapeBase2,
	hir.IntrinsicAgetvi:    shapeBase2,
	hir.IntrinsicAgetvp:    shapeBase2,
	hir.IntrinsicAgetv:     shapeBase2,
	hir.IntrinsicAsetcap:   shapeBase2,
	hir.IntrinsicAfit:      shapeBase2,
	hir.IntrinsicAcat:      shapeBase2,
	hir.IntrinsicAdeli:     shapeBase2,
	hir.IntrinsicAindexv:   shapeBase2,
	hir.IntrinsicAsetlen:   shapeBase2,
	hir.IntrinsicAdefault:  shapeBaseVal2,
	hir.IntrinsicAfill:     shapeBase3,
	hir.IntrinsicAcatn:     shapeBase3,
	hir.IntrinsicAdeln:     shapeBase3,
	hir.IntrinsicAindex:    shapeBaseKey2,
	hir.IntrinsicAgeti:     shapeBaseKey2,
	hir.IntrinsicAdel:      shapeBaseKey2,
	hir.IntrinsicAgetp:     shapeBaseKeyVal2,
	hir.IntrinsicAget:      shapeBaseKeyVal2,
	hir.IntrinsicAput:      shapeBaseKey3,
	hir.IntrinsicAhdrsize:  shapeBase1,
	hir.IntrinsicAhdralign: shapeBase1,
	hir.IntrinsicAhdr:      shapeBase1,
	hir.IntrinsicAlen:      shapeBase1,
	hir.IntrinsicAcap:      shapeBase1,
	hir.IntrinsicAfree:     shapeBase1,
	hir.IntrinsicAclear:    shapeBase1,
	hir.IntrinsicApop:      shapeBase1,
}

// intrinsic writes a complete intrinsic call; runtime macros receive the
// element, key and value types ahead of the parenthesized arguments.
func (g *Generator) intrinsic(w *writer, e *hir.Expr, sym *hir.Symbol, args []*hir.Expr) error {
	in := sym.Intrinsic
	if !in.IsKnown() {
		return diag.Errorf(diag.CGUnknownIntrinsic, e.Pos, "Call to unimplemented intrinsic %s", sym.Name)
	}
	for _, a := range args {
		if a == nil {
			return malformed(e.Pos, "intrinsic %s has a missing argument", in)
		}
	}
	switch in {
	case hir.IntrinsicVaCopy, hir.IntrinsicVaStart, hir.IntrinsicVaEnd:
		w.printf("%s(", in)
		for i, a := range args {
			if i > 0 {
				w.write(", ")
			}
			if err := g.expr(w, a); err != nil {
				return err
			}
		}
		w.write(")")
		return nil
	case hir.IntrinsicVaArg:
		if len(args) < 2 {
			return malformed(e.Pos, "va_arg needs 2 arguments, got %d", len(args))
		}
		if err := g.expr(w, args[1]); err != nil {
			return err
		}
		w.write(" = va_arg(")
		if err := g.expr(w, args[0]); err != nil {
			return err
		}
		t, err := g.typeDecl(args[1].Type, "")
		if err != nil {
			return err
		}
		w.printf(", %s)", t)
		return nil
	case hir.IntrinsicAnew:
		if len(args) < 1 {
			return malformed(e.Pos, "anew needs 1 argument")
		}
		rt, ok := g.types.Lookup(e.Type)
		if !ok || rt.Kind != types.KindPtr {
			return malformed(e.Pos, "anew must produce a pointer")
		}
		t, err := g.typeDecl(rt.Base, "")
		if err != nil {
			return err
		}
		w.printf("anew(%s, ", t)
		if err := g.expr(w, args[0]); err != nil {
			return err
		}
		w.write(")")
		return nil
	}

	shape, ok := intrinsicShapes[in]
	if !ok {
		return diag.Errorf(diag.CGUnknownIntrinsic, e.Pos, "Call to unimplemented intrinsic %s", sym.Name)
	}
	if len(args) < shape.args {
		return malformed(e.Pos, "intrinsic %s needs %d arguments, got %d", in, shape.args, len(args))
	}
	typeArgs, err := g.intrinsicTypes(e, in, args[0], shape.typeArgs)
	if err != nil {
		return err
	}
	w.printf("%s(%s, ", in, strings.Join(typeArgs, ", "))
	for i := 0; i < shape.args; i++ {
		if i > 0 {
			w.write(", ")
		}
		if err := g.parenExpr(w, args[i]); err != nil {
			return err
		}
	}
	w.write(")")
	return nil
}

func (g *Generator) intrinsicTypes(e *hir.Expr, in hir.Intrinsic, arg0 *hir.Expr, want []typeArg) ([]string, error) {
	base := types.NoTypeID
	if tt, ok := g.types.Lookup(arg0.Type); ok && tt.Kind == types.KindPtr {
		base = g.types.Unqualify(tt.Base)
	}
	if base == types.NoTypeID {
		return nil, malformed(e.Pos, "intrinsic %s needs a pointer first argument", in)
	}
	var key, val types.TypeID
	if g.types.IsAggregate(base) {
		if fields := g.types.Fields(base); len(fields) == 2 {
			key, val = fields[0].Type, fields[1].Type
		}
	}
	out := make([]string, 0, len(want))
	for _, arg := range want {
		id := base
		switch arg {
		case argKey:
			id = key
		case argVal:
			id = val
		}
		if id == types.NoTypeID {
			return nil, malformed(e.Pos, "intrinsic %s needs a key/value element type", in)
		}
		s, err := g.typeDecl(id, "")
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
