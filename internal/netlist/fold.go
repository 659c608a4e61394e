package netlist

import "math/big"

// fold.go implements the constant folders: pure functions from
// fully-constant operands (plus the relevant width/signedness
// parameters) to an output ConstVec, for every cell type in the
// closed vocabulary.
//
// Folding never depends on the consume_x mode — that flag only gates
// the unsound peephole rules in peephole.go (R3's gate patterns and
// R6's mux-to-AND/OR variants). Every function here implements the
// ordinary, sound four-valued algebra. Reductions fold through the
// absorbing AND/OR value semantics,
// and anything with no absorbing element (arithmetic, shifts,
// ordinary eq/ne, comparisons) produces an all-x result the moment any
// operand bit is unknown.

// extend zero- or sign-extends/truncates cv to width bits, the
// "operand extension uses the widest of A_WIDTH, B_WIDTH" rule. The
// sign bit is replicated as it is, so an x sign bit extends as x and a
// z sign bit extends as z.
func extend(cv ConstVec, signed bool, width int) ConstVec {
	out := make([]Value, width)
	for i := 0; i < width; i++ {
		if i < len(cv.Bits) {
			out[i] = cv.Bits[i]
			continue
		}
		if !signed {
			out[i] = V0
			continue
		}
		msb := V0
		if len(cv.Bits) > 0 {
			msb = cv.Bits[len(cv.Bits)-1]
		}
		out[i] = msb
	}
	return ConstVec{Bits: out, Signed: signed}
}

// toBigInt converts a fully-defined ConstVec to a big.Int, honoring
// two's-complement signedness. Callers must check IsFullyDefined.
func toBigInt(cv ConstVec, signed bool) *big.Int {
	n := big.NewInt(0)
	for i := len(cv.Bits) - 1; i >= 0; i-- {
		n.Lsh(n, 1)
		if cv.Bits[i] == V1 {
			n.Or(n, big.NewInt(1))
		}
	}
	if signed && len(cv.Bits) > 0 && cv.Bits[len(cv.Bits)-1] == V1 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(cv.Bits))))
	}
	return n
}

// fromBigInt truncates n to width bits in two's-complement form.
func fromBigInt(n *big.Int, width int) ConstVec {
	m := new(big.Int).Set(n)
	if m.Sign() < 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
		m.Add(m, mod)
		m.Mod(m, mod)
	}
	bits := make([]Value, width)
	for i := 0; i < width; i++ {
		if m.Bit(i) == 1 {
			bits[i] = V1
		} else {
			bits[i] = V0
		}
	}
	return ConstVec{Bits: bits}
}

func bitwise1(a ConstVec, width int, op func(Value) Value) ConstVec {
	out := make([]Value, width)
	for i := 0; i < width; i++ {
		out[i] = op(a.Bits[i])
	}
	return ConstVec{Bits: out}
}

func bitwise2(a, b ConstVec, width int, op func(Value, Value) Value) ConstVec {
	out := make([]Value, width)
	for i := 0; i < width; i++ {
		out[i] = op(a.Bits[i], b.Bits[i])
	}
	return ConstVec{Bits: out}
}

// reduceBool folds a vector to a single known-sound boolean via the
// absorbing OR: any defined 1 bit makes the result 1
// regardless of unknown bits elsewhere; only all-0-or-x collapses to
// x (all-0 collapses to 0).
func reduceBool(a ConstVec) Value {
	acc := V0
	for _, b := range a.Bits {
		acc = Or(acc, b, false)
	}
	return acc
}

func reduceAnd(a ConstVec) Value {
	acc := V1
	for _, b := range a.Bits {
		acc = And(acc, b, false)
	}
	return acc
}

func reduceXorVal(a ConstVec) Value {
	acc := V0
	for _, b := range a.Bits {
		acc = Xor(acc, b)
	}
	return acc
}

func bool1(v Value, width int) ConstVec {
	out := make([]Value, width)
	if width > 0 {
		out[0] = v
	}
	for i := 1; i < width; i++ {
		out[i] = V0
	}
	return ConstVec{Bits: out}
}

// FoldUnary evaluates a single-input known-combinational cell.
func FoldUnary(op string, a ConstVec, aSigned bool, yWidth int) ConstVec {
	switch op {
	case "not":
		ext := extend(a, aSigned, yWidth)
		return bitwise1(ext, yWidth, Not)
	case "pos", "bu0":
		// bu0 is pos with the operand forced unsigned, so it never
		// sign-extends.
		signed := aSigned
		if op == "bu0" {
			signed = false
		}
		return extend(a, signed, yWidth)
	case "neg":
		if !a.IsFullyDefined() {
			return AllX(yWidth)
		}
		n := toBigInt(a, aSigned)
		n.Neg(n)
		return fromBigInt(n, yWidth)
	case "reduce_and":
		return bool1(reduceAnd(a), yWidth)
	case "reduce_or", "reduce_bool":
		return bool1(reduceBool(a), yWidth)
	case "reduce_xor":
		return bool1(reduceXorVal(a), yWidth)
	case "reduce_xnor":
		return bool1(Not(reduceXorVal(a)), yWidth)
	case "logic_not":
		return bool1(Not(reduceBool(a)), yWidth)
	default:
		panic("netlist: unknown unary fold op " + op)
	}
}

// FoldBinary evaluates a two-input known-combinational cell.
func FoldBinary(op string, a, b ConstVec, aSigned, bSigned bool, yWidth int) ConstVec {
	switch op {
	case "and", "or", "xor", "xnor":
		width := a.Width()
		if b.Width() > width {
			width = b.Width()
		}
		ea := extend(a, aSigned, width)
		eb := extend(b, bSigned, width)
		var fn func(Value, Value) Value
		switch op {
		case "and":
			fn = func(x, y Value) Value { return And(x, y, false) }
		case "or":
			fn = func(x, y Value) Value { return Or(x, y, false) }
		case "xor":
			fn = Xor
		case "xnor":
			fn = Xnor
		}
		res := bitwise2(ea, eb, width, fn)
		return extend(res, false, yWidth)

	case "logic_and":
		return bool1(And(reduceBool(a), reduceBool(b), false), yWidth)
	case "logic_or":
		return bool1(Or(reduceBool(a), reduceBool(b), false), yWidth)

	case "shl", "shr", "sshl", "sshr":
		if !a.IsFullyDefined() || !b.IsFullyDefined() {
			return AllX(yWidth)
		}
		amt := toBigInt(b, false)
		if !amt.IsInt64() || amt.Sign() < 0 {
			return AllX(yWidth)
		}
		n := amt.Int64()
		switch op {
		case "shl", "sshl":
			v := toBigInt(a, false)
			v.Lsh(v, uint(n))
			return fromBigInt(v, yWidth)
		case "shr":
			v := toBigInt(a, false)
			v.Rsh(v, uint(n))
			return fromBigInt(v, yWidth)
		case "sshr":
			v := toBigInt(a, aSigned)
			v.Rsh(v, uint(n)) // big.Int.Rsh on a negative value is arithmetic
			return fromBigInt(v, yWidth)
		}
	}

	if isCompareOp(op) {
		return foldCompare(op, a, b, aSigned, bSigned, yWidth)
	}

	if isArithOp(op) {
		if !a.IsFullyDefined() || !b.IsFullyDefined() {
			return AllX(yWidth)
		}
		return foldArith(op, a, b, aSigned, bSigned, yWidth)
	}

	panic("netlist: unknown binary fold op " + op)
}

func isCompareOp(op string) bool {
	switch op {
	case "lt", "le", "eq", "ne", "eqx", "nex", "gt", "ge":
		return true
	}
	return false
}

func isArithOp(op string) bool {
	switch op {
	case "add", "sub", "mul", "div", "mod", "pow":
		return true
	}
	return false
}

// foldCompare implements lt/le/eq/ne/eqx/nex/gt/ge. eqx/nex
// treat x as a distinct, comparable value and so never themselves
// yield x; the ordinary eq/ne/lt/le/gt/ge forms yield an all-x result
// the moment either operand carries an unknown bit.
func foldCompare(op string, a, b ConstVec, aSigned, bSigned bool, yWidth int) ConstVec {
	if op == "eqx" || op == "nex" {
		width := a.Width()
		if b.Width() > width {
			width = b.Width()
		}
		ea := extend(a, aSigned, width)
		eb := extend(b, bSigned, width)
		equal := true
		for i := 0; i < width; i++ {
			if ea.Bits[i] != eb.Bits[i] {
				equal = false
				break
			}
		}
		if op == "nex" {
			equal = !equal
		}
		return bool1(boolValue(equal), yWidth)
	}

	if !a.IsFullyDefined() || !b.IsFullyDefined() {
		return AllX(yWidth)
	}

	signed := aSigned && bSigned
	ai, bi := toBigInt(a, signed), toBigInt(b, signed)
	cmp := ai.Cmp(bi)

	var result bool
	switch op {
	case "lt":
		result = cmp < 0
	case "le":
		result = cmp <= 0
	case "eq":
		result = cmp == 0
	case "ne":
		result = cmp != 0
	case "gt":
		result = cmp > 0
	case "ge":
		result = cmp >= 0
	}
	return bool1(boolValue(result), yWidth)
}

func boolValue(b bool) Value {
	if b {
		return V1
	}
	return V0
}

// foldArith implements add/sub/mul/div/mod/pow. Division and
// modulo by zero produce an all-x result rather than failing.
func foldArith(op string, a, b ConstVec, aSigned, bSigned bool, yWidth int) ConstVec {
	signed := aSigned && bSigned
	ai, bi := toBigInt(a, signed), toBigInt(b, signed)
	res := new(big.Int)
	switch op {
	case "add":
		res.Add(ai, bi)
	case "sub":
		res.Sub(ai, bi)
	case "mul":
		res.Mul(ai, bi)
	case "div":
		if bi.Sign() == 0 {
			return AllX(yWidth)
		}
		res.Quo(ai, bi)
	case "mod":
		if bi.Sign() == 0 {
			return AllX(yWidth)
		}
		res.Rem(ai, bi)
	case "pow":
		exp := toBigInt(b, bSigned)
		if exp.Sign() < 0 {
			return AllX(yWidth)
		}
		res.Exp(ai, exp, nil)
	}
	return fromBigInt(res, yWidth)
}
