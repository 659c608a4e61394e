package netlist

import (
	"fmt"
	"sort"
)

// ReplaceFunc is invoked for every cell the engine retires in favor of
// a direct assignment, in the "Replacing <type> cell '<name>'
// (<reason>) in module '<mod>' with constant driver '<Y> = <val>'."
// shape, in cell-iteration order. Rewrites that mutate a cell in place
// (R2, R4 narrowing, R5/R6 retyping, R7 pruning, R3's mux-to-inverter)
// do not invoke it.
type ReplaceFunc func(module, cellType, cellName, reason, outPort, outVal string)

// Engine is one peephole-rewrite walk over a module. It is local to a
// single invocation: the alias map and inverter map are rebuilt fresh
// by NewEngine on every outer fixed-point iteration, since a rewrite
// can invalidate both.
type Engine struct {
	design   *Design
	module   *Module
	am       *AliasMap
	invert   map[string]Signal // canonicalized Y key -> canonicalized pre-invert A
	consumeX bool
	muxUndef bool
	muxBool  bool
	onLog    ReplaceFunc
}

// NewEngine builds the alias map and inverter map for one walk over
// module's currently-selected cells.
func NewEngine(design *Design, module *Module, consumeX, muxUndef, muxBool bool, onLog ReplaceFunc) *Engine {
	e := &Engine{
		design:   design,
		module:   module,
		am:       NewAliasMap(module),
		invert:   make(map[string]Signal),
		consumeX: consumeX,
		muxUndef: muxUndef,
		muxBool:  muxBool,
		onLog:    onLog,
	}
	for _, cell := range e.sortedCells() {
		if isSingleBitInverter(cell) {
			y := e.am.Apply(cell.Port("Y"))
			a := e.am.Apply(cell.Port("A"))
			e.invert[sigKey(y)] = a
		}
	}
	return e
}

func isSingleBitInverter(cell *Cell) bool {
	switch cell.Type {
	case "$_INV_", "$not", "$logic_not":
		return cell.Port("A").Width() == 1 && cell.Port("Y").Width() == 1
	}
	return false
}

func sigKey(s Signal) string { return s.String() }

func (e *Engine) sortedCells() []*Cell {
	names := make([]string, 0, len(e.module.Cells))
	for name := range e.module.Cells {
		names = append(names, name)
	}
	sort.Strings(names)
	cells := make([]*Cell, 0, len(names))
	for _, n := range names {
		cells = append(cells, e.module.Cells[n])
	}
	return cells
}

// replace retires cell in favor of a direct assignment Y := val on
// outPort, logging and removing the cell atomically: the cell's
// storage is released and the module's cell registry updated in the
// same step, so no other code path can observe a half-removed cell.
func (e *Engine) replace(cell *Cell, reason, outPort string, val Signal) {
	y := cell.Port(outPort)
	e.module.AddAssign(y, val)
	e.module.RemoveCell(cell.Name)
	if e.onLog != nil {
		e.onLog(e.module.Name, cell.Type, cell.Name, reason, y.String(), val.String())
	}
}

// Run performs one walk: every selected cell is tried against R1-R9 in
// order, the first match fires, and the walk continues with the next
// cell. No rule fires more than once per cell per walk. Returns
// whether anything changed.
func (e *Engine) Run() bool {
	changed := false
	for _, cell := range e.sortedCells() {
		// the cell may have been removed by an earlier rule firing on
		// a different cell this same walk (e.g. R2 never removes, but
		// a prior iteration's replace() can leave a dangling pointer
		// in our snapshot) — skip if no longer registered.
		if _, ok := e.module.Cells[cell.Name]; !ok {
			continue
		}
		if !e.design.selects(e.module.Name, cell.Name) {
			continue
		}
		if e.tryCell(cell) {
			changed = true
		}
	}
	return changed
}

func (e *Engine) tryCell(cell *Cell) bool {
	if e.r1DoubleInvert(cell) {
		return true
	}
	if e.r2MuxThroughInvert(cell) {
		return true
	}
	if e.r3GateFold(cell) {
		return true
	}
	if e.r4EqualityNarrow(cell) {
		return true
	}
	if e.r5BoolEqCollapse(cell) {
		return true
	}
	if e.r6MuxBool(cell) {
		return true
	}
	if e.r7MuxUndef(cell) {
		return true
	}
	if e.r8GenericFold(cell) {
		return true
	}
	if e.r9ConservativeMux(cell) {
		return true
	}
	return false
}

// R1: double-inverter elimination.
func (e *Engine) r1DoubleInvert(cell *Cell) bool {
	if !isSingleBitInverter(cell) {
		return false
	}
	a := e.am.Apply(cell.Port("A"))
	if pre, ok := e.invert[sigKey(a)]; ok {
		e.replace(cell, "double_invert", "Y", pre)
		return true
	}
	return false
}

// R2: mux select through inverter.
func (e *Engine) r2MuxThroughInvert(cell *Cell) bool {
	if cell.Type != "$_MUX_" && cell.Type != "$mux" {
		return false
	}
	s := e.am.Apply(cell.Port("S"))
	pre, ok := e.invert[sigKey(s)]
	if !ok {
		return false
	}
	a, b := cell.Port("A"), cell.Port("B")
	cell.SetPort("A", b)
	cell.SetPort("B", a)
	cell.SetPort("S", pre)
	return true
}

// bitClass classifies a canonicalized 1-bit signal for R3's literal
// pattern matching: '0'/'1'/'x' for a known constant, '-' for
// anything symbolic ("any", matches unconditionally).
func bitClass(sig Signal) byte {
	if sig.Width() != 1 {
		return '-'
	}
	if !sig.IsFullyConst() {
		return '-'
	}
	switch asFoldInput(sig.AsConst().Bits[0]) {
	case V0:
		return '0'
	case V1:
		return '1'
	default:
		return 'x'
	}
}

func bitOf(v Value) Signal {
	return Signal{Chunks: []Chunk{{Const: ConstVec{Bits: []Value{v}}, Width: 1}}}
}

// R3: single-bit gate folding on partial inputs.
func (e *Engine) r3GateFold(cell *Cell) bool {
	switch cell.Type {
	case "$_INV_":
		a := bitClass(e.am.Apply(cell.Port("A")))
		switch a {
		case '1':
			e.replace(cell, "1", "Y", bitOf(V0))
			return true
		case '0':
			e.replace(cell, "0", "Y", bitOf(V1))
			return true
		case 'x':
			e.replace(cell, "x", "Y", bitOf(Vx))
			return true
		}
		return false

	case "$_AND_":
		a := bitClass(e.am.Apply(cell.Port("A")))
		b := bitClass(e.am.Apply(cell.Port("B")))
		switch {
		case a == '0' || b == '0':
			e.replace(cell, "0", "Y", bitOf(V0))
			return true
		case a == '1' && b == '1':
			e.replace(cell, "1 1", "Y", bitOf(V1))
			return true
		case a == 'x' && b == 'x':
			e.replace(cell, "x x", "Y", bitOf(Vx))
			return true
		case a == '1' && b == 'x':
			e.replace(cell, "1 x", "Y", bitOf(Vx))
			return true
		case a == 'x' && b == '1':
			e.replace(cell, "x 1", "Y", bitOf(Vx))
			return true
		case e.consumeX && a == 'x':
			e.replace(cell, "x *", "Y", bitOf(V0))
			return true
		case e.consumeX && b == 'x':
			e.replace(cell, "* x", "Y", bitOf(V0))
			return true
		case a == '1':
			e.replace(cell, "1 *", "Y", cell.Port("B"))
			return true
		case b == '1':
			e.replace(cell, "* 1", "Y", cell.Port("A"))
			return true
		}
		return false

	case "$_OR_":
		a := bitClass(e.am.Apply(cell.Port("A")))
		b := bitClass(e.am.Apply(cell.Port("B")))
		switch {
		case a == '1' || b == '1':
			e.replace(cell, "1", "Y", bitOf(V1))
			return true
		case a == '0' && b == '0':
			e.replace(cell, "0 0", "Y", bitOf(V0))
			return true
		case a == 'x' && b == 'x':
			e.replace(cell, "x x", "Y", bitOf(Vx))
			return true
		case a == '0' && b == 'x':
			e.replace(cell, "0 x", "Y", bitOf(Vx))
			return true
		case a == 'x' && b == '0':
			e.replace(cell, "x 0", "Y", bitOf(Vx))
			return true
		case e.consumeX && a == 'x':
			e.replace(cell, "x *", "Y", bitOf(V1))
			return true
		case e.consumeX && b == 'x':
			e.replace(cell, "* x", "Y", bitOf(V1))
			return true
		case a == '0':
			e.replace(cell, "0 *", "Y", cell.Port("B"))
			return true
		case b == '0':
			e.replace(cell, "* 0", "Y", cell.Port("A"))
			return true
		}
		return false

	case "$_XOR_":
		a := bitClass(e.am.Apply(cell.Port("A")))
		b := bitClass(e.am.Apply(cell.Port("B")))
		switch {
		case a == '0' && b == '0':
			e.replace(cell, "0 0", "Y", bitOf(V0))
			return true
		case a == '0' && b == '1':
			e.replace(cell, "0 1", "Y", bitOf(V1))
			return true
		case a == '1' && b == '0':
			e.replace(cell, "1 0", "Y", bitOf(V1))
			return true
		case a == '1' && b == '1':
			e.replace(cell, "1 1", "Y", bitOf(V0))
			return true
		case a == 'x' || b == 'x':
			e.replace(cell, "x", "Y", bitOf(Vx))
			return true
		case a == '0':
			e.replace(cell, "0 *", "Y", cell.Port("B"))
			return true
		case b == '0':
			e.replace(cell, "* 0", "Y", cell.Port("A"))
			return true
		}
		return false

	case "$_MUX_":
		return e.r3Mux(cell)
	}
	return false
}

func (e *Engine) r3Mux(cell *Cell) bool {
	a := e.am.Apply(cell.Port("A"))
	b := e.am.Apply(cell.Port("B"))
	s := e.am.Apply(cell.Port("S"))
	sc, ac, bc := bitClass(s), bitClass(a), bitClass(b)

	if a.Equal(b) {
		e.replace(cell, "same", "Y", cell.Port("A"))
		return true
	}
	if sc == '0' {
		e.replace(cell, "s=0", "Y", cell.Port("A"))
		return true
	}
	if sc == '1' {
		e.replace(cell, "s=1", "Y", cell.Port("B"))
		return true
	}
	if ac == '0' && bc == '1' {
		e.replace(cell, "0 1", "Y", cell.Port("S"))
		return true
	}
	if ac == '1' && bc == '0' {
		// A=1,B=0 computes ¬S: rewrite to an inverter
		// cell rather than a direct assignment, matching the
		// original's in-place cell-type mutation.
		cell.Type = "$_INV_"
		cell.SetPort("A", cell.Port("S"))
		delete(cell.Ports, "B")
		delete(cell.Ports, "S")
		return true
	}
	if ac == '1' && bc == '1' {
		e.replace(cell, "1 1", "Y", bitOf(V1))
		return true
	}
	if ac == '0' && bc == '0' {
		e.replace(cell, "0 0", "Y", bitOf(V0))
		return true
	}
	if sc == 'x' {
		e.replace(cell, "x", "Y", bitOf(Vx))
		return true
	}
	if ac == '0' && bc == 'x' {
		e.replace(cell, "0 1 x", "Y", bitOf(Vx))
		return true
	}
	if ac == '1' && bc == 'x' {
		e.replace(cell, "1 0 x", "Y", bitOf(Vx))
		return true
	}
	if e.muxUndef {
		if ac == 'x' {
			e.replace(cell, "mux undef", "Y", cell.Port("B"))
			return true
		}
		if bc == 'x' {
			e.replace(cell, "mux undef", "Y", cell.Port("A"))
			return true
		}
	}
	return false
}

// R4: equality narrowing for eq/ne/eqx/nex.
func (e *Engine) r4EqualityNarrow(cell *Cell) bool {
	switch cell.Type {
	case "$eq", "$ne", "$eqx", "$nex":
	default:
		return false
	}

	aw, bw := cell.ParamInt("A_WIDTH"), cell.ParamInt("B_WIDTH")
	aSigned, bSigned := cell.ParamBool("A_SIGNED"), cell.ParamBool("B_SIGNED")
	width := aw
	if bw > width {
		width = bw
	}
	signExt := aSigned && bSigned

	a := extendSignal(e.am.Apply(cell.Port("A")), signExt, width)
	b := extendSignal(e.am.Apply(cell.Port("B")), signExt, width)

	trivialEqual := cell.Type == "$eq" || cell.Type == "$eqx"

	var newA, newB []Chunk
	for i := 0; i < width; i++ {
		ca, cb := a.Slice(i, i+1).Chunks[0], b.Slice(i, i+1).Chunks[0]
		if ca.IsConst() && cb.IsConst() {
			av, bv := asFoldInput(ca.Const.Bits[0]), asFoldInput(cb.Const.Bits[0])
			if av.IsKnownBit() && bv.IsKnownBit() && av != bv {
				e.replace(cell, "empty", "Y", bool1Signal(!trivialEqual, cell.ParamInt("Y_WIDTH")))
				return true
			}
		}
		if sameRange(ca, cb) {
			continue
		}
		newA = append(newA, ca)
		newB = append(newB, cb)
	}

	if len(newA) == 0 {
		e.replace(cell, "empty", "Y", bool1Signal(trivialEqual, cell.ParamInt("Y_WIDTH")))
		return true
	}

	if len(newA) < width {
		cell.SetPort("A", Signal{Chunks: newA})
		cell.SetPort("B", Signal{Chunks: newB})
		cell.SetParamInt("A_WIDTH", widthOf(newA))
		cell.SetParamInt("B_WIDTH", widthOf(newB))
		return true
	}
	return false
}

func widthOf(chunks []Chunk) int {
	w := 0
	for _, c := range chunks {
		w += c.Width
	}
	return w
}

func extendSignal(sig Signal, signed bool, width int) Signal {
	w := sig.Width()
	if w >= width {
		return sig.Slice(0, width)
	}
	pad := make([]Value, width-w)
	if signed {
		if w > 0 {
			msb := sig.Slice(w-1, w)
			parts := []Signal{sig}
			for range pad {
				parts = append(parts, msb)
			}
			return Concat(parts...)
		}
		for i := range pad {
			pad[i] = Vx
		}
	} else {
		for i := range pad {
			pad[i] = V0
		}
	}
	return Concat(sig, Signal{Chunks: []Chunk{{Const: ConstVec{Bits: pad}, Width: len(pad)}}})
}

func bool1Signal(b bool, width int) Signal {
	return Signal{Chunks: []Chunk{{Const: bool1(boolValue(b), width), Width: width}}}
}

// R5: boolean equality collapse.
func (e *Engine) r5BoolEqCollapse(cell *Cell) bool {
	if cell.Type != "$eq" && cell.Type != "$ne" {
		return false
	}
	if cell.ParamInt("Y_WIDTH") != 1 || cell.ParamInt("A_WIDTH") != 1 || cell.ParamInt("B_WIDTH") != 1 {
		return false
	}
	a := e.am.Apply(cell.Port("A"))
	b := e.am.Apply(cell.Port("B"))

	if a.IsFullyConst() && !b.IsFullyConst() {
		a, b = b, a
		cell.SetPort("A", a)
		cell.SetPort("B", b)
	}

	if !b.IsFullyConst() {
		return false
	}
	isOne := asFoldInput(b.AsConst().Bits[0]) == V1
	wantEq := cell.Type == "$eq"
	if isOne == wantEq {
		e.replace(cell, "bool_eq", "Y", cell.Port("A"))
		return true
	}
	cell.Type = "$not"
	delete(cell.Ports, "B")
	delete(cell.Parameters, "B_WIDTH")
	delete(cell.Parameters, "B_SIGNED")
	return true
}

func isOneBit(sig Signal) bool {
	return sig.Width() == 1 && sig.IsFullyConst() && sig.AsConst().Bits[0] == V1
}

func isZeroBit(sig Signal) bool {
	return sig.Width() == 1 && sig.IsFullyConst() && sig.AsConst().Bits[0] == V0
}

// R6: mux-bool and its consume_x variants.
func (e *Engine) r6MuxBool(cell *Cell) bool {
	if cell.Type != "$mux" && cell.Type != "$_MUX_" {
		return false
	}
	if !e.muxBool {
		return false
	}
	a := e.am.Apply(cell.Port("A"))
	b := e.am.Apply(cell.Port("B"))

	if isZeroBit(a) && isOneBit(b) {
		e.replace(cell, "mux_bool", "Y", cell.Port("S"))
		return true
	}
	if isOneBit(a) && isZeroBit(b) {
		width := cell.ParamInt("WIDTH")
		cell.Type = invCellType(cell.Type)
		cell.SetPort("A", cell.Port("S"))
		delete(cell.Ports, "B")
		delete(cell.Ports, "S")
		remapMuxToUnary(cell, "$not", width)
		return true
	}
	if e.consumeX && isZeroBit(a) {
		width := cell.ParamInt("WIDTH")
		cell.Type = andCellType(cell.Type)
		cell.SetPort("A", cell.Port("B"))
		cell.SetPort("B", cell.Port("S"))
		delete(cell.Ports, "S")
		remapMuxToBinary(cell, "$and", width)
		return true
	}
	if e.consumeX && isOneBit(b) {
		width := cell.ParamInt("WIDTH")
		cell.Type = orCellType(cell.Type)
		cell.SetPort("B", cell.Port("S"))
		delete(cell.Ports, "S")
		remapMuxToBinary(cell, "$or", width)
		return true
	}
	return false
}

// remapMuxToUnary moves a word-level $mux's WIDTH parameter onto the
// A_WIDTH/Y_WIDTH schema of the $not it was retyped into, matching the
// way opt_const.cc's replace_const_cells remaps parameters on the same
// mux-to-gate conversion. A no-op for gate-level $_MUX_ -> $_INV_, which
// carries no width parameters at all.
func remapMuxToUnary(cell *Cell, wordType string, width int) {
	if cell.Type != wordType {
		return
	}
	cell.SetParamInt("A_WIDTH", width)
	cell.SetParamInt("Y_WIDTH", width)
	delete(cell.Parameters, "A_SIGNED")
	delete(cell.Parameters, "B_WIDTH")
	delete(cell.Parameters, "B_SIGNED")
	delete(cell.Parameters, "WIDTH")
}

// remapMuxToBinary is remapMuxToUnary's counterpart for the $and/$or
// conversions, which keep a B port and so keep a B_WIDTH too.
func remapMuxToBinary(cell *Cell, wordType string, width int) {
	if cell.Type != wordType {
		return
	}
	cell.SetParamInt("A_WIDTH", width)
	cell.SetParamInt("B_WIDTH", width)
	cell.SetParamInt("Y_WIDTH", width)
	delete(cell.Parameters, "A_SIGNED")
	delete(cell.Parameters, "B_SIGNED")
	delete(cell.Parameters, "WIDTH")
}

func invCellType(muxType string) string {
	if muxType == "$_MUX_" {
		return "$_INV_"
	}
	return "$not"
}

func andCellType(muxType string) string {
	if muxType == "$_MUX_" {
		return "$_AND_"
	}
	return "$and"
}

func orCellType(muxType string) string {
	if muxType == "$_MUX_" {
		return "$_OR_"
	}
	return "$or"
}

// R7: mux/pmux undef pruning.
func (e *Engine) r7MuxUndef(cell *Cell) bool {
	if cell.Type != "$mux" && cell.Type != "$pmux" {
		return false
	}
	if !e.muxUndef {
		return false
	}
	width := cell.ParamInt("WIDTH")
	if width == 0 {
		width = cell.Port("A").Width()
	}
	a := e.am.Apply(cell.Port("A"))
	b := e.am.Apply(cell.Port("B"))
	s := e.am.Apply(cell.Port("S"))

	if (a.IsFullyUndef() && b.IsFullyUndef()) || s.IsFullyUndef() {
		e.replace(cell, "mux undef", "Y", cell.Port("A"))
		return true
	}

	var newB, newS []Chunk
	for i := 0; i < s.Width(); i++ {
		branchB := b.Slice(i*width, (i+1)*width)
		branchS := s.Slice(i, i+1)
		if branchB.IsFullyUndef() || branchS.IsFullyUndef() {
			continue
		}
		newB = append(newB, branchB.Chunks...)
		newS = append(newS, branchS.Chunks...)
	}

	newA := a
	if newA.IsFullyUndef() && len(newS) > 0 {
		nsWidth := widthOf(newS)
		lastB := Signal{Chunks: newB}.Slice((nsWidth-1)*width, nsWidth*width)
		newA = lastB
		newB = Signal{Chunks: newB}.Slice(0, (nsWidth-1)*width).Chunks
		newS = newS[:len(newS)-1]
	}

	if len(newS) == 0 {
		e.replace(cell, "mux undef", "Y", newA)
		return true
	}

	if len(newS) != s.Width() {
		cell.SetPort("A", newA)
		cell.SetPort("B", Signal{Chunks: newB})
		cell.SetPort("S", Signal{Chunks: newS})
		if len(newS) > 1 {
			cell.Type = "$pmux"
			cell.SetParamInt("S_WIDTH", len(newS))
		} else {
			cell.Type = "$mux"
			delete(cell.Parameters, "S_WIDTH")
		}
		return true
	}
	return false
}

// R8: generic constant folding for known combinational cells.
func (e *Engine) r8GenericFold(cell *Cell) bool {
	// mux cells are never folded here: $_MUX_ is handled by R3, $mux by
	// R7/R9 and $pmux by R7, so they stay "very conservative" cells
	// rather than generically folded.
	if cell.Type == "$mux" || cell.Type == "$pmux" || cell.Type == "$_MUX_" {
		return false
	}
	if CellKindOf(cell.Type) != KindKnownCombinational {
		return false
	}
	yWidth := cell.ParamInt("Y_WIDTH")
	aSigned := cell.ParamBool("A_SIGNED")

	if _, hasB := cell.Ports["B"]; !hasB {
		a := e.am.Apply(cell.Port("A"))
		if !a.IsFullyConst() {
			return false
		}
		op := opName(cell.Type)
		y := FoldUnary(op, a.AsConst(), aSigned, yWidth)
		e.replace(cell, a.String(), "Y", Signal{Chunks: []Chunk{{Const: y, Width: yWidth}}})
		return true
	}

	a := e.am.Apply(cell.Port("A"))
	b := e.am.Apply(cell.Port("B"))
	if !a.IsFullyConst() || !b.IsFullyConst() {
		return false
	}
	bSigned := cell.ParamBool("B_SIGNED")
	op := opName(cell.Type)
	y := FoldBinary(op, a.AsConst(), b.AsConst(), aSigned, bSigned, yWidth)
	e.replace(cell, fmt.Sprintf("%s, %s", a.String(), b.String()), "Y", Signal{Chunks: []Chunk{{Const: y, Width: yWidth}}})
	return true
}

func opName(cellType string) string {
	return cellType[1:] // strip the leading "$"
}

// R9: conservative mux folding — only fully-constant select or
// structurally-identical branches fold here (no other mux
// folding occurs here, because mux trees are structurally significant
// to downstream passes").
func (e *Engine) r9ConservativeMux(cell *Cell) bool {
	if cell.Type != "$mux" {
		return false
	}
	s := e.am.Apply(cell.Port("S"))
	a := e.am.Apply(cell.Port("A"))
	b := e.am.Apply(cell.Port("B"))

	if s.IsFullyConst() {
		chosen := cell.Port("A")
		if asFoldInput(s.AsConst().Bits[0]) == V1 {
			chosen = cell.Port("B")
		}
		e.replace(cell, "const select", "Y", chosen)
		return true
	}
	if a.Equal(b) {
		e.replace(cell, "same", "Y", cell.Port("A"))
		return true
	}
	return false
}
