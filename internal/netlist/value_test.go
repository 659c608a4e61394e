package netlist

import "testing"

func TestAndAbsorbsZero(t *testing.T) {
	if got := And(V0, Vx, false); got != V0 {
		t.Errorf("And(0, x) = %s, want 0", got)
	}
	if got := And(Vx, V0, false); got != V0 {
		t.Errorf("And(x, 0) = %s, want 0", got)
	}
}

func TestAndPropagatesX(t *testing.T) {
	if got := And(V1, Vx, false); got != Vx {
		t.Errorf("And(1, x) = %s, want x", got)
	}
}

func TestAndConsumeX(t *testing.T) {
	if got := And(V1, Vx, true); got != V0 {
		t.Errorf("And(1, x, consumeX) = %s, want 0", got)
	}
}

func TestOrAbsorbsOne(t *testing.T) {
	if got := Or(V1, Vx, false); got != V1 {
		t.Errorf("Or(1, x) = %s, want 1", got)
	}
}

func TestOrPropagatesX(t *testing.T) {
	if got := Or(V0, Vx, false); got != Vx {
		t.Errorf("Or(0, x) = %s, want x", got)
	}
}

func TestXorAlwaysPropagatesX(t *testing.T) {
	if got := Xor(V0, Vx); got != Vx {
		t.Errorf("Xor(0, x) = %s, want x", got)
	}
	if got := Xor(V1, Vx); got != Vx {
		t.Errorf("Xor(1, x) = %s, want x", got)
	}
}

func TestXorTruthTable(t *testing.T) {
	cases := []struct {
		a, b, want Value
	}{
		{V0, V0, V0},
		{V0, V1, V1},
		{V1, V0, V1},
		{V1, V1, V0},
	}
	for _, c := range cases {
		if got := Xor(c.a, c.b); got != c.want {
			t.Errorf("Xor(%s, %s) = %s, want %s", c.a, c.b, got, c.want)
		}
	}
}

func TestZCollapsesToXForFolding(t *testing.T) {
	if got := Not(Vz); got != Vx {
		t.Errorf("Not(z) = %s, want x", got)
	}
	if got := And(Vz, V1, false); got != Vx {
		t.Errorf("And(z, 1) = %s, want x", got)
	}
}

func TestIsKnownBit(t *testing.T) {
	if !V0.IsKnownBit() || !V1.IsKnownBit() {
		t.Error("V0 and V1 should be known bits")
	}
	if Vx.IsKnownBit() || Vz.IsKnownBit() {
		t.Error("Vx and Vz should not be known bits")
	}
}
