package netlist

import "testing"

// TestRunCollapsesDoubleInverter exercises Run (not just a single
// Engine.Run walk), confirming the driver wires NewAliasMap/NewEngine
// together correctly for the simplest multi-cell case. Only the
// second inverter is retired: its Y is driven straight from the first
// inverter's A, leaving the (now-unused) first inverter cell in place
// — removing unreferenced cells is a dead-code concern the rewrite
// rules never take on.
func TestRunCollapsesDoubleInverter(t *testing.T) {
	mod := NewModule("top")
	a := bitWire(`\a`)
	mid := bitWire("$1")
	y := bitWire(`\y`)
	mod.Wires[a.Name], mod.Wires[mid.Name], mod.Wires[y.Name] = a, mid, y
	mod.Cells["inv0"] = &Cell{Name: "inv0", Type: "$_INV_", Ports: map[string]Signal{"A": bitSig(a), "Y": bitSig(mid)}, Parameters: map[string]ConstVec{}}
	mod.Cells["inv1"] = &Cell{Name: "inv1", Type: "$_INV_", Ports: map[string]Signal{"A": bitSig(mid), "Y": bitSig(y)}, Parameters: map[string]ConstVec{}}

	design := NewDesign()
	design.Modules[mod.Name] = mod

	Run(design, RunOptions{})

	if _, ok := mod.Cells["inv1"]; ok {
		t.Error("expected inv1 to be retired")
	}
	if _, ok := mod.Cells["inv0"]; !ok {
		t.Error("expected inv0 to remain — rewrite rules don't remove unreferenced cells")
	}
	if len(mod.Assignments) != 1 {
		t.Fatalf("expected a single collapsed assignment, got %d", len(mod.Assignments))
	}
	assign := mod.Assignments[0]
	if len(assign.LHS.Chunks) != 1 || assign.LHS.Chunks[0].Wire != y {
		t.Errorf("assignment LHS = %s, want y", assign.LHS.String())
	}
	if len(assign.RHS.Chunks) != 1 || assign.RHS.Chunks[0].Wire != a {
		t.Errorf("assignment RHS = %s, want a", assign.RHS.String())
	}
}

// TestRunAppliesConsumeXPassAfterSoundLoopStalls exercises the
// fixed-point driver's outer consume_x=true pass: AND(x, b) never
// folds under the sound rules alone (an x operand with a non-constant
// partner is left alone), but the single unsound pass the driver tries
// once per outer iteration resolves it to a constant 0.
func TestRunAppliesConsumeXPassAfterSoundLoopStalls(t *testing.T) {
	mod := NewModule("top")
	b := bitWire(`\b`)
	y := bitWire(`\y`)
	mod.Wires[b.Name], mod.Wires[y.Name] = b, y
	mod.Cells["c1"] = &Cell{
		Name: "c1",
		Type: "$_AND_",
		Ports: map[string]Signal{
			"A": constSig(Vx),
			"B": bitSig(b),
			"Y": bitSig(y),
		},
		Parameters: map[string]ConstVec{},
	}

	design := NewDesign()
	design.Modules[mod.Name] = mod

	Run(design, RunOptions{})

	if len(mod.Cells) != 0 {
		t.Errorf("expected the AND cell retired by the consume_x pass, %d remain", len(mod.Cells))
	}
	if len(mod.Assignments) != 1 {
		t.Fatalf("expected one assignment, got %d", len(mod.Assignments))
	}
	rhs := mod.Assignments[0].RHS
	if !rhs.IsFullyConst() || rhs.AsConst().Bits[0] != V0 {
		t.Errorf("AND(x, b) under consume_x folded to %s, want constant 0", rhs.String())
	}
}

func TestRunAppliesUndrivenWhenRequested(t *testing.T) {
	mod := NewModule("top")
	w := &Wire{Name: `\y`, Width: 2}
	mod.Wires[w.Name] = w

	design := NewDesign()
	design.Modules[mod.Name] = mod

	Run(design, RunOptions{Undriven: true})

	if len(mod.Assignments) != 1 {
		t.Fatalf("expected undriven wire to get an x assignment, got %d assignments", len(mod.Assignments))
	}
	rhs := mod.Assignments[0].RHS
	if !rhs.IsFullyUndef() {
		t.Errorf("undriven assignment RHS = %s, want all-x", rhs.String())
	}
}
