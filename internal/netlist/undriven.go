package netlist

import (
	"sort"
	"strconv"
)

// ReplaceUndriven computes the set of bits neither driven by any cell
// output nor by a module input port, and ties them to the unknown
// constant. It runs once before peephole iteration, only when
// explicitly requested via RunOptions.Undriven.
func ReplaceUndriven(module *Module) bool {
	am := NewAliasMap(module)

	driven := make(map[string]bool)
	used := make(map[string]bool)

	markBits := func(set map[string]bool, sig Signal) {
		canon := am.Apply(sig)
		for _, c := range canon.Chunks {
			if c.IsConst() {
				continue
			}
			for i := 0; i < c.Width; i++ {
				set[wireKey(c.Wire, c.Offset+i)] = true
			}
		}
	}

	for _, cell := range module.Cells {
		for port, sig := range cell.Ports {
			if CellKindOf(cell.Type) == KindUnknown || IsCellOutput(cell.Type, port) {
				markBits(driven, sig)
			}
			if CellKindOf(cell.Type) == KindUnknown || IsCellInput(cell.Type, port) {
				markBits(used, sig)
			}
		}
	}

	wireNames := make([]string, 0, len(module.Wires))
	for name := range module.Wires {
		wireNames = append(wireNames, name)
	}
	sort.Strings(wireNames)

	for _, name := range wireNames {
		w := module.Wires[name]
		full := Signal{Chunks: []Chunk{{Wire: w, Offset: 0, Width: w.Width}}}
		if w.Role == RolePortInput || w.Role == RolePortInout {
			markBits(driven, full)
		}
		if w.Role == RolePortOutput || w.Role == RolePortInout {
			markBits(used, full)
		}
	}

	changed := false
	for _, name := range wireNames {
		w := module.Wires[name]
		undrivenBits := make([]bool, w.Width)
		any := false
		for i := 0; i < w.Width; i++ {
			// Only class representatives are checked: a bit tied to a
			// constant, or aliased to another wire bit, is covered by
			// that constant or by its representative.
			canon := am.Apply(Signal{Chunks: []Chunk{{Wire: w, Offset: i, Width: 1}}}).Chunks[0]
			if canon.IsConst() || canon.Wire != w || canon.Offset != i {
				continue
			}
			if !driven[wireKey(w, i)] {
				undrivenBits[i] = true
				any = true
			}
		}
		if !any {
			continue
		}
		for _, rng := range contiguousRuns(undrivenBits) {
			lo, hi := rng[0], rng[1]
			ranges := [][2]int{{lo, hi}}
			if w.IsAutoGenerated() {
				ranges = usedSubRanges(w, lo, hi, used)
			}
			for _, r := range ranges {
				rlo, rhi := r[0], r[1]
				chunk := Signal{Chunks: []Chunk{{Wire: w, Offset: rlo, Width: rhi - rlo}}}
				module.AddAssign(chunk, Signal{Chunks: []Chunk{{Const: AllX(rhi - rlo), Width: rhi - rlo}}})
				changed = true
			}
		}
	}
	return changed
}

func wireKey(w *Wire, idx int) string {
	return w.Name + "#" + strconv.Itoa(idx)
}

// contiguousRuns returns [lo,hi) ranges of consecutive true entries.
func contiguousRuns(bits []bool) [][2]int {
	var runs [][2]int
	i := 0
	for i < len(bits) {
		if !bits[i] {
			i++
			continue
		}
		j := i
		for j < len(bits) && bits[j] {
			j++
		}
		runs = append(runs, [2]int{i, j})
		i = j
	}
	return runs
}

// usedSubRanges restricts [lo,hi) to its full, possibly disjoint
// intersection with the used set: an auto-generated wire that is also
// unused is dead weight, not worth a spurious x driver, but every used
// bit within the range still needs tying, even when the used bits
// aren't contiguous.
func usedSubRanges(w *Wire, lo, hi int, used map[string]bool) [][2]int {
	bits := make([]bool, hi-lo)
	for i := range bits {
		bits[i] = used[wireKey(w, lo+i)]
	}
	var ranges [][2]int
	for _, r := range contiguousRuns(bits) {
		ranges = append(ranges, [2]int{lo + r[0], lo + r[1]})
	}
	return ranges
}
