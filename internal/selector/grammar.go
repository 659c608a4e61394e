package selector

// Expr is a selection expression: an ordered list of clauses, applied
// left to right, each one adding or removing module/cell pairs from
// the selection (the last matching clause for a given pair wins).
type Expr struct {
	Clauses []*Clause `@@*`
}

// Clause selects (or, with a leading "-", deselects) the cells of a
// module pattern, optionally narrowed to a cell pattern after "/".
// A bare module pattern with no "/cell" means "every cell".
type Clause struct {
	Exclude bool   `[ @"-" ]`
	Module  string `@Pattern`
	Cell    string `[ "/" @Pattern ]`
}
