package netlist

import "testing"

func bitsOf(s string) []Value {
	bits := make([]Value, len(s))
	for i, c := range s {
		// s is written MSB-first for test readability; bits is LSB-first.
		var v Value
		switch c {
		case '0':
			v = V0
		case '1':
			v = V1
		case 'x':
			v = Vx
		case 'z':
			v = Vz
		}
		bits[len(s)-1-i] = v
	}
	return bits
}

func cv(s string) ConstVec { return ConstVec{Bits: bitsOf(s)} }

func TestFoldUnaryNot(t *testing.T) {
	got := FoldUnary("not", cv("1010"), false, 4)
	if got.String() != "0101" {
		t.Errorf("not(1010) = %s, want 0101", got.String())
	}
}

func TestFoldUnaryBu0ForcesUnsigned(t *testing.T) {
	// 1000 as signed 4-bit is negative; bu0 must zero-extend, not
	// sign-extend, when widening.
	got := FoldUnary("bu0", cv("1000"), true, 8)
	if got.String() != "00001000" {
		t.Errorf("bu0(1000 signed) zero-extended = %s, want 00001000", got.String())
	}
}

func TestFoldUnaryReduceOr(t *testing.T) {
	if got := FoldUnary("reduce_or", cv("0100"), false, 1); got.String() != "1" {
		t.Errorf("reduce_or(0100) = %s, want 1", got.String())
	}
	if got := FoldUnary("reduce_or", cv("0000"), false, 1); got.String() != "0" {
		t.Errorf("reduce_or(0000) = %s, want 0", got.String())
	}
}

func TestFoldUnaryReduceOrAbsorbsOverX(t *testing.T) {
	// any defined 1 bit makes reduce_or 1, even alongside unknown bits.
	if got := FoldUnary("reduce_or", cv("x100"), false, 1); got.String() != "1" {
		t.Errorf("reduce_or(x100) = %s, want 1", got.String())
	}
}

func TestFoldBinaryAdd(t *testing.T) {
	got := FoldBinary("add", cv("0011"), cv("0001"), false, false, 4)
	if got.String() != "0100" {
		t.Errorf("add(3,1) = %s, want 0100", got.String())
	}
}

func TestFoldBinaryDivByZeroIsAllX(t *testing.T) {
	got := FoldBinary("div", cv("0011"), cv("0000"), false, false, 4)
	if !got.IsFullyUndef() {
		t.Errorf("div by zero = %s, want all-x", got.String())
	}
}

func TestFoldBinaryModByZeroIsAllX(t *testing.T) {
	got := FoldBinary("mod", cv("0011"), cv("0000"), false, false, 4)
	if !got.IsFullyUndef() {
		t.Errorf("mod by zero = %s, want all-x", got.String())
	}
}

func TestFoldBinaryEqOnUndefIsAllX(t *testing.T) {
	got := FoldBinary("eq", cv("xx11"), cv("0011"), false, false, 1)
	if !got.IsFullyUndef() {
		t.Errorf("eq with undefined operand = %s, want x", got.String())
	}
}

func TestFoldBinaryEqxTreatsXAsComparable(t *testing.T) {
	got := FoldBinary("eqx", cv("xx11"), cv("xx11"), false, false, 1)
	if got.String() != "1" {
		t.Errorf("eqx(xx11, xx11) = %s, want 1", got.String())
	}
	got = FoldBinary("eqx", cv("xx11"), cv("0011"), false, false, 1)
	if got.String() != "0" {
		t.Errorf("eqx(xx11, 0011) = %s, want 0", got.String())
	}
}

func TestFoldBinaryPowNegativeExponentIsAllX(t *testing.T) {
	got := FoldBinary("pow", cv("0010"), cv("1111"), false, true, 4)
	if !got.IsFullyUndef() {
		t.Errorf("pow with negative exponent = %s, want all-x", got.String())
	}
}

func TestFoldBinaryAndBitwise(t *testing.T) {
	got := FoldBinary("and", cv("1100"), cv("1010"), false, false, 4)
	if got.String() != "1000" {
		t.Errorf("and(1100,1010) = %s, want 1000", got.String())
	}
}

func TestFoldBinaryShlShiftsIn(t *testing.T) {
	got := FoldBinary("shl", cv("0001"), cv("010"), false, false, 4)
	if got.String() != "0100" {
		t.Errorf("shl(1,2) = %s, want 0100", got.String())
	}
}
