package netlist

import "testing"

func wireSig(w *Wire, lo, width int) Signal {
	return Signal{Chunks: []Chunk{{Wire: w, Offset: lo, Width: width}}}
}

func TestAliasMapUnionPrefersUserVisibleWire(t *testing.T) {
	mod := NewModule("top")
	auto := &Wire{Name: "$1", Width: 1}
	user := &Wire{Name: `\a`, Width: 1}
	mod.Wires[auto.Name] = auto
	mod.Wires[user.Name] = user
	mod.AddAssign(wireSig(auto, 0, 1), wireSig(user, 0, 1))

	am := NewAliasMap(mod)
	canon := am.Apply(wireSig(auto, 0, 1))
	if len(canon.Chunks) != 1 || canon.Chunks[0].Wire != user {
		t.Errorf("canonicalized signal = %s, want representative on %s", canon.String(), user.Name)
	}
}

func TestAliasMapTiesToConstant(t *testing.T) {
	mod := NewModule("top")
	w := &Wire{Name: `\a`, Width: 1}
	mod.Wires[w.Name] = w
	mod.AddAssign(wireSig(w, 0, 1), Signal{Chunks: []Chunk{{Const: ConstVec{Bits: []Value{V1}}, Width: 1}}})

	am := NewAliasMap(mod)
	canon := am.Apply(wireSig(w, 0, 1))
	if !canon.IsFullyConst() || canon.AsConst().Bits[0] != V1 {
		t.Errorf("canonicalized signal = %s, want constant 1", canon.String())
	}
}

func TestAliasMapApplyIsIdempotent(t *testing.T) {
	mod := NewModule("top")
	a := &Wire{Name: `\a`, Width: 2}
	b := &Wire{Name: `\b`, Width: 2}
	mod.Wires[a.Name] = a
	mod.Wires[b.Name] = b
	mod.AddAssign(wireSig(a, 0, 2), wireSig(b, 0, 2))

	am := NewAliasMap(mod)
	once := am.Apply(wireSig(a, 0, 2))
	twice := am.Apply(once)
	if !once.Equal(twice) {
		t.Errorf("Apply not idempotent: once=%s twice=%s", once.String(), twice.String())
	}
}

func TestAliasMapCoalescesContiguousBits(t *testing.T) {
	mod := NewModule("top")
	a := &Wire{Name: `\a`, Width: 4}
	mod.Wires[a.Name] = a

	am := NewAliasMap(mod)
	canon := am.Apply(wireSig(a, 0, 4))
	if len(canon.Chunks) != 1 || canon.Chunks[0].Width != 4 {
		t.Errorf("expected a single 4-bit chunk, got %s", canon.String())
	}
}
