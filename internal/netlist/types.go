package netlist

import (
	"fmt"
	"strings"

	"rtlopt/internal/diag"
)

// ConstVec is an ordered sequence of Values, least-significant bit
// first, with an optional signedness flag used by the arithmetic
// folders.
type ConstVec struct {
	Bits   []Value
	Signed bool
}

// Width returns the bit width of the constant vector.
func (c ConstVec) Width() int { return len(c.Bits) }

// IsFullyDefined reports whether every bit is a known 0/1.
func (c ConstVec) IsFullyDefined() bool {
	for _, b := range c.Bits {
		if !b.IsKnownBit() {
			return false
		}
	}
	return true
}

// IsFullyUndef reports whether every bit is x or z.
func (c ConstVec) IsFullyUndef() bool {
	for _, b := range c.Bits {
		if b.IsKnownBit() {
			return false
		}
	}
	return true
}

// AllX returns a width-wide constant vector of unknown bits, the value
// undriven nets and all-x folds are tied to.
func AllX(width int) ConstVec {
	bits := make([]Value, width)
	for i := range bits {
		bits[i] = Vx
	}
	return ConstVec{Bits: bits}
}

// ConstBool returns the 1-bit constant vector for a boolean result,
// the shape produced by comparisons and reductions.
func ConstBool(b bool) ConstVec {
	if b {
		return ConstVec{Bits: []Value{V1}}
	}
	return ConstVec{Bits: []Value{V0}}
}

func (c ConstVec) String() string {
	var sb strings.Builder
	for i := len(c.Bits) - 1; i >= 0; i-- {
		sb.WriteString(c.Bits[i].String())
	}
	return sb.String()
}

// WireRole classifies a Wire's position relative to its module
// boundary.
type WireRole int

const (
	RoleInternal WireRole = iota
	RolePortInput
	RolePortOutput
	RolePortInout
)

// Wire is a named, fixed-width hardware signal. Name convention: a
// leading `$` marks an auto-generated (compiler internal) wire; a
// leading `\` marks a user-visible one. That distinction drives the
// asymmetry in undriven-net replacement.
type Wire struct {
	Name  string
	Width int
	Role  WireRole
}

// IsAutoGenerated reports whether the wire's name carries the `$`
// sigil for compiler-internal signals.
func (w *Wire) IsAutoGenerated() bool {
	return strings.HasPrefix(w.Name, "$")
}

// Chunk is either a contiguous bit range of a Wire or a slice of a
// ConstVec. Exactly one of Wire/Const is set.
type Chunk struct {
	Wire   *Wire
	Offset int // bit offset into Wire, meaningless if Wire == nil
	Const  ConstVec
	Width  int
}

// IsConst reports whether the chunk is a constant slice rather than a
// wire slice.
func (c Chunk) IsConst() bool { return c.Wire == nil }

func (c Chunk) String() string {
	if c.IsConst() {
		return c.Const.String()
	}
	return fmt.Sprintf("%s[%d:%d]", c.Wire.Name, c.Offset, c.Offset+c.Width-1)
}

// sameRange reports whether two chunks denote the same wire bits (or
// the same constant bits), used by Signal.Equal and by R4's
// structural-identity check.
func sameRange(a, b Chunk) bool {
	if a.IsConst() != b.IsConst() {
		return false
	}
	if a.IsConst() {
		if a.Width != b.Width {
			return false
		}
		for i := range a.Const.Bits {
			if a.Const.Bits[i] != b.Const.Bits[i] {
				return false
			}
		}
		return true
	}
	return a.Wire == b.Wire && a.Offset == b.Offset && a.Width == b.Width
}

// Signal is an ordered, possibly empty concatenation of Chunks. Chunks
// are ordered least-significant first, matching the bit-order
// convention of ConstVec.
type Signal struct {
	Chunks []Chunk
}

// Width is the sum of the widths of the signal's chunks.
func (s Signal) Width() int {
	w := 0
	for _, c := range s.Chunks {
		w += c.Width
	}
	return w
}

// IsFullyConst reports whether every chunk of the signal is constant.
func (s Signal) IsFullyConst() bool {
	for _, c := range s.Chunks {
		if !c.IsConst() {
			return false
		}
	}
	return true
}

// AsConst collapses a fully-constant signal into a single ConstVec.
// Callers must check IsFullyConst first.
func (s Signal) AsConst() ConstVec {
	var bits []Value
	for _, c := range s.Chunks {
		bits = append(bits, c.Const.Bits...)
	}
	return ConstVec{Bits: bits}
}

// IsFullyUndef reports whether a fully-constant signal is all x/z.
func (s Signal) IsFullyUndef() bool {
	if !s.IsFullyConst() {
		return false
	}
	return s.AsConst().IsFullyUndef()
}

// Equal reports structural equality: same chunks in the same order.
// This is the "A ≡ B after canonicalization" test used by R9.
func (s Signal) Equal(o Signal) bool {
	if len(s.Chunks) != len(o.Chunks) {
		return false
	}
	for i := range s.Chunks {
		if !sameRange(s.Chunks[i], o.Chunks[i]) {
			return false
		}
	}
	return true
}

func (s Signal) String() string {
	parts := make([]string, len(s.Chunks))
	for i, c := range s.Chunks {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// Slice returns the sub-signal covering bits [lo, hi) of s, splitting
// chunks as needed. Used by equality narrowing (R4) and mux/pmux
// branch extraction (R7).
func (s Signal) Slice(lo, hi int) Signal {
	var out []Chunk
	pos := 0
	for _, c := range s.Chunks {
		cLo, cHi := pos, pos+c.Width
		pos = cHi
		start := max(lo, cLo)
		end := min(hi, cHi)
		if start >= end {
			continue
		}
		if c.IsConst() {
			out = append(out, Chunk{
				Const: ConstVec{Bits: c.Const.Bits[start-cLo : end-cLo], Signed: c.Const.Signed},
				Width: end - start,
			})
		} else {
			out = append(out, Chunk{
				Wire:   c.Wire,
				Offset: c.Offset + (start - cLo),
				Width:  end - start,
			})
		}
	}
	return Signal{Chunks: out}
}

// Concat joins the chunks of sigs in order, the first signal's chunks
// least significant. Adjacent chunks are not merged, even when they
// are contiguous bits of the same wire. Kept simple on
// purpose: the optimizer never needs a general-purpose signal algebra,
// only the concatenations the rewrite rules themselves construct.
func Concat(sigs ...Signal) Signal {
	var out []Chunk
	for _, s := range sigs {
		out = append(out, s.Chunks...)
	}
	return Signal{Chunks: out}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Cell is a parameterized netlist node.
type Cell struct {
	Name       string
	Type       string
	Ports      map[string]Signal
	Parameters map[string]ConstVec
}

// ParamInt reads a parameter as a plain integer width/flag, the way
// A_WIDTH/B_WIDTH/Y_WIDTH and the *_SIGNED flags are consumed
// throughout the constant folders.
func (c *Cell) ParamInt(name string) int {
	cv, ok := c.Parameters[name]
	if !ok {
		return 0
	}
	n := 0
	for i := len(cv.Bits) - 1; i >= 0; i-- {
		n <<= 1
		if cv.Bits[i] == V1 {
			n |= 1
		}
	}
	return n
}

// ParamBool reads a single-bit parameter as a boolean flag (used for
// *_SIGNED).
func (c *Cell) ParamBool(name string) bool {
	return c.ParamInt(name) != 0
}

// Port returns the signal connected to the named port, or the empty
// signal if unconnected.
func (c *Cell) Port(name string) Signal { return c.Ports[name] }

// SetPort connects the named port to sig.
func (c *Cell) SetPort(name string, sig Signal) { c.Ports[name] = sig }

// SetParamInt sets an integer-valued parameter (width fields).
func (c *Cell) SetParamInt(name string, n int) {
	if n == 0 {
		c.Parameters[name] = ConstVec{Bits: []Value{}}
		return
	}
	var bits []Value
	for n > 0 {
		if n&1 == 1 {
			bits = append(bits, V1)
		} else {
			bits = append(bits, V0)
		}
		n >>= 1
	}
	c.Parameters[name] = ConstVec{Bits: bits}
}

// AssignPair is a direct assignment LHS := RHS of equal width (spec
// Module.assignments, preserving width).
type AssignPair struct {
	LHS Signal
	RHS Signal
}

// Module owns its wires, cells and direct assignments.
type Module struct {
	Name        string
	Wires       map[string]*Wire
	Cells       map[string]*Cell
	Assignments []AssignPair
}

// NewModule creates an empty module ready for wires/cells to be added.
func NewModule(name string) *Module {
	return &Module{
		Name:  name,
		Wires: make(map[string]*Wire),
		Cells: make(map[string]*Cell),
	}
}

// RemoveCell deletes a cell from the module's registry. Both the
// registry entry and any heap resource go together, atomically —
// there is no path in this package that holds a *Cell across a
// RemoveCell call without also dropping its reference.
func (m *Module) RemoveCell(name string) {
	delete(m.Cells, name)
}

// AddAssign appends a direct assignment of equal width, the universal
// mechanism rewrites use to retire a cell.
func (m *Module) AddAssign(lhs, rhs Signal) {
	diag.Assert(lhs.Width() == rhs.Width(), diag.ErrorWidthMismatch, m.Name, "", "assign",
		fmt.Sprintf("lhs width %d != rhs width %d", lhs.Width(), rhs.Width()))
	m.Assignments = append(m.Assignments, AssignPair{LHS: lhs, RHS: rhs})
}

// Design is a collection of named modules plus a selection predicate
// restricting the optimizer to a subset of modules/cells.
type Design struct {
	Modules   map[string]*Module
	Selection func(module, cell string) bool
}

// NewDesign creates an empty design. A nil Selection always selects
// everything, matching "Selection empty" being a silent no-op only
// when the predicate itself returns false for everything — an always
// true default keeps the common case (no -select flag) working
// without a special case in the engine.
func NewDesign() *Design {
	return &Design{Modules: make(map[string]*Module)}
}

func (d *Design) selects(module, cell string) bool {
	if d.Selection == nil {
		return true
	}
	return d.Selection(module, cell)
}
