package netlist

// CellKind classifies a cell type for the purposes of the undriven-net
// analysis and the peephole engine.
type CellKind int

const (
	KindKnownCombinational CellKind = iota
	KindKnownSequential
	KindUnknown
)

// PortDir is the direction of a named port on a cell type.
type PortDir int

const (
	DirInput PortDir = iota
	DirOutput
	DirInout
)

// cellTypeInfo is one entry of the static cell-type directory: the
// cell's kind plus its per-port direction schema.
type cellTypeInfo struct {
	kind  CellKind
	ports map[string]PortDir
}

// directory is the closed vocabulary of gate-level single-bit cells
// and word-level parameterized cells this package understands. Every
// word-level type here other than $mux/$pmux is foldable by fold.go
// given fully-constant inputs; gate-level cells are folded by R3's
// patterns and mux cells only by the dedicated mux rules.
var directory = map[string]cellTypeInfo{
	// Gate-level (single-bit), ports \A \B \S \Y, no width parameters.
	"$_INV_": {KindKnownCombinational, map[string]PortDir{"A": DirInput, "Y": DirOutput}},
	"$_AND_": {KindKnownCombinational, map[string]PortDir{"A": DirInput, "B": DirInput, "Y": DirOutput}},
	"$_OR_":  {KindKnownCombinational, map[string]PortDir{"A": DirInput, "B": DirInput, "Y": DirOutput}},
	"$_XOR_": {KindKnownCombinational, map[string]PortDir{"A": DirInput, "B": DirInput, "Y": DirOutput}},
	"$_MUX_": {KindKnownCombinational, map[string]PortDir{"A": DirInput, "B": DirInput, "S": DirInput, "Y": DirOutput}},

	// Word-level unary.
	"$not":        unary(),
	"$pos":        unary(),
	"$neg":        unary(),
	"$bu0":        unary(),
	"$logic_not":  unary(),
	"$reduce_and": unary(),
	"$reduce_or":  unary(),
	"$reduce_xor": unary(),
	"$reduce_xnor": unary(),
	"$reduce_bool": unary(),

	// Word-level binary bitwise/logical.
	"$and":       binary(),
	"$or":        binary(),
	"$xor":       binary(),
	"$xnor":      binary(),
	"$logic_and": binary(),
	"$logic_or":  binary(),

	// Shifts.
	"$shl":  binary(),
	"$shr":  binary(),
	"$sshl": binary(),
	"$sshr": binary(),

	// Comparisons.
	"$lt":  binary(),
	"$le":  binary(),
	"$eq":  binary(),
	"$ne":  binary(),
	"$eqx": binary(),
	"$nex": binary(),
	"$gt":  binary(),
	"$ge":  binary(),

	// Arithmetic.
	"$add": binary(),
	"$sub": binary(),
	"$mul": binary(),
	"$div": binary(),
	"$mod": binary(),
	"$pow": binary(),

	// Mux family: conservative — never folded generically by the
	// generic-fold rule, only by the dedicated mux rules.
	"$mux":  {KindKnownCombinational, map[string]PortDir{"A": DirInput, "B": DirInput, "S": DirInput, "Y": DirOutput}},
	"$pmux": {KindKnownCombinational, map[string]PortDir{"A": DirInput, "B": DirInput, "S": DirInput, "Y": DirOutput}},
}

func unary() cellTypeInfo {
	return cellTypeInfo{KindKnownCombinational, map[string]PortDir{"A": DirInput, "Y": DirOutput}}
}

func binary() cellTypeInfo {
	return cellTypeInfo{KindKnownCombinational, map[string]PortDir{"A": DirInput, "B": DirInput, "Y": DirOutput}}
}

// CellKnown reports whether typ is part of the closed vocabulary.
func CellKnown(typ string) bool {
	_, ok := directory[typ]
	return ok
}

// CellKindOf returns the kind of typ, or KindUnknown if typ is not in
// the directory.
func CellKindOf(typ string) CellKind {
	if info, ok := directory[typ]; ok {
		return info.kind
	}
	return KindUnknown
}

// IsCellOutput reports whether port is an output of cell type typ. For
// an unknown cell type every port is conservatively treated as both
// input and output.
func IsCellOutput(typ, port string) bool {
	info, ok := directory[typ]
	if !ok {
		return true
	}
	dir, ok := info.ports[port]
	if !ok {
		return true
	}
	return dir == DirOutput || dir == DirInout
}

// IsCellInput reports whether port is an input of cell type typ, with
// the same unknown-type conservatism as IsCellOutput.
func IsCellInput(typ, port string) bool {
	info, ok := directory[typ]
	if !ok {
		return true
	}
	dir, ok := info.ports[port]
	if !ok {
		return true
	}
	return dir == DirInput || dir == DirInout
}
