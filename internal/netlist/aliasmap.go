package netlist

import (
	"sort"
	"strconv"
)

// bitRef identifies a single bit of a wire — the granularity the
// alias map operates at. Each direct assignment LHS=RHS is treated as
// an undirected bit-level equivalence.
type bitRef struct {
	wire *Wire
	idx  int
}

// AliasMap is a union-find canonicalization built from one module's
// direct assignments. It is local to one engine invocation and
// invalidated whenever any rewrite fires; callers build a fresh one
// each outer fixed-point iteration via NewAliasMap.
type AliasMap struct {
	parent map[bitRef]bitRef
	rank   map[bitRef]int
	best   map[bitRef]bitRef // current best representative per class root
	constOf map[bitRef]Value // representative constant for a class, if tied to one
}

// NewAliasMap builds the canonicalization for module from its current
// direct assignments.
func NewAliasMap(module *Module) *AliasMap {
	am := &AliasMap{
		parent:  make(map[bitRef]bitRef),
		rank:    make(map[bitRef]int),
		best:    make(map[bitRef]bitRef),
		constOf: make(map[bitRef]Value),
	}
	for _, a := range module.Assignments {
		am.unionSignals(a.LHS, a.RHS)
	}
	return am
}

func (am *AliasMap) find(b bitRef) bitRef {
	p, ok := am.parent[b]
	if !ok {
		am.parent[b] = b
		am.rank[b] = 0
		am.best[b] = b
		return b
	}
	if p != b {
		root := am.find(p)
		am.parent[b] = root
		return root
	}
	return b
}

// isAutoGen reports whether a bitRef's wire is compiler-internal, the
// `$`-prefix test driving representative preference.
func isAutoGen(b bitRef) bool { return b.wire.IsAutoGenerated() }

// preferBit reports whether a is preferred over b as a class
// representative: user-visible wins over auto-generated, then
// lexicographic wire name, then bit index.
func preferBit(a, b bitRef) bool {
	if isAutoGen(a) != isAutoGen(b) {
		return !isAutoGen(a)
	}
	if a.wire.Name != b.wire.Name {
		return a.wire.Name < b.wire.Name
	}
	return a.idx < b.idx
}

func (am *AliasMap) unionBits(a, b bitRef) {
	ra, rb := am.find(a), am.find(b)
	if ra == rb {
		return
	}
	rankA, rankB := am.rank[ra], am.rank[rb]
	var newRoot, oldRoot bitRef
	if rankA < rankB {
		newRoot, oldRoot = rb, ra
	} else if rankA > rankB {
		newRoot, oldRoot = ra, rb
	} else {
		// deterministic tie-break for which root survives, independent
		// of assignment iteration order.
		if preferBit(ra, rb) {
			newRoot, oldRoot = ra, rb
		} else {
			newRoot, oldRoot = rb, ra
		}
		am.rank[newRoot]++
	}
	am.parent[oldRoot] = newRoot

	best := am.best[newRoot]
	if other, ok := am.best[oldRoot]; ok && preferBit(other, best) {
		best = other
	}
	am.best[newRoot] = best

	if cv, ok := am.constOf[oldRoot]; ok {
		am.constOf[newRoot] = cv
	}
}

// tieToConst ties the class of b to a known constant value: the
// representative for that class becomes the constant rather than any
// wire bit, since every class prefers a constant representative when
// one is available.
func (am *AliasMap) tieToConst(b bitRef, v Value) {
	root := am.find(b)
	am.constOf[root] = v
}

func (am *AliasMap) unionSignals(lhs, rhs Signal) {
	lBits := expandBits(lhs)
	rBits := expandBits(rhs)
	n := len(lBits)
	if len(rBits) < n {
		n = len(rBits)
	}
	for i := 0; i < n; i++ {
		l, r := lBits[i], rBits[i]
		switch {
		case l.ref != nil && r.ref != nil:
			am.unionBits(*l.ref, *r.ref)
		case l.ref != nil && r.ref == nil:
			am.tieToConst(*l.ref, r.val)
		case l.ref == nil && r.ref != nil:
			am.tieToConst(*r.ref, l.val)
		default:
			// both constant: nothing to canonicalize.
		}
	}
}

// exprBit is either a wire bit (ref set) or a constant bit (val set,
// ref nil) — the per-bit decomposition of a Signal used while
// building the union-find.
type exprBit struct {
	ref *bitRef
	val Value
}

func expandBits(s Signal) []exprBit {
	var out []exprBit
	for _, c := range s.Chunks {
		if c.IsConst() {
			for _, v := range c.Const.Bits {
				out = append(out, exprBit{val: v})
			}
		} else {
			for i := 0; i < c.Width; i++ {
				r := bitRef{wire: c.Wire, idx: c.Offset + i}
				out = append(out, exprBit{ref: &r})
			}
		}
	}
	return out
}

// Apply canonicalizes every bit of s to its representative, coalescing
// adjacent bits that land on the same wire/constant back into wider
// chunks. Apply is idempotent: applying twice yields the same signal
// as applying once, since representatives are themselves already
// fixed points of find().
func (am *AliasMap) Apply(s Signal) Signal {
	bits := expandBits(s)
	canon := make([]exprBit, len(bits))
	for i, b := range bits {
		if b.ref == nil {
			canon[i] = b
			continue
		}
		root := am.find(*b.ref)
		if cv, ok := am.constOf[root]; ok {
			canon[i] = exprBit{val: cv}
			continue
		}
		rep := am.best[root]
		canon[i] = exprBit{ref: &rep}
	}
	return coalesce(canon)
}

// coalesce rebuilds a Signal from canonicalized bits, merging runs
// that share a wire with contiguous offsets, or that are all
// constants, into single chunks.
func coalesce(bits []exprBit) Signal {
	var chunks []Chunk
	i := 0
	for i < len(bits) {
		if bits[i].ref == nil {
			j := i
			var vals []Value
			for j < len(bits) && bits[j].ref == nil {
				vals = append(vals, bits[j].val)
				j++
			}
			chunks = append(chunks, Chunk{Const: ConstVec{Bits: vals}, Width: len(vals)})
			i = j
			continue
		}
		j := i + 1
		w := bits[i].ref.wire
		start := bits[i].ref.idx
		for j < len(bits) && bits[j].ref != nil && bits[j].ref.wire == w && bits[j].ref.idx == start+(j-i) {
			j++
		}
		chunks = append(chunks, Chunk{Wire: w, Offset: start, Width: j - i})
		i = j
	}
	return Signal{Chunks: chunks}
}

// classesForTest exposes the computed classes sorted for deterministic
// test assertions (bit -> representative string). No test calls it at
// present.
func (am *AliasMap) classesForTest() map[string]string {
	out := make(map[string]string)
	keys := make([]bitRef, 0, len(am.parent))
	for k := range am.parent {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].wire.Name != keys[j].wire.Name {
			return keys[i].wire.Name < keys[j].wire.Name
		}
		return keys[i].idx < keys[j].idx
	})
	for _, k := range keys {
		sig := am.Apply(Signal{Chunks: []Chunk{{Wire: k.wire, Offset: k.idx, Width: 1}}})
		out[sigBitKey(k)] = sig.String()
	}
	return out
}

func sigBitKey(b bitRef) string {
	return b.wire.Name + "#" + strconv.Itoa(b.idx)
}
