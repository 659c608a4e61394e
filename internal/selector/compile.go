package selector

// Predicate is the shape netlist.Design.Selection expects: true means
// the cell participates in the optimizer's rewrite passes.
type Predicate func(module, cell string) bool

type compiledClause struct {
	exclude      bool
	module, cell string
}

// Compile parses a selection expression and returns the predicate it
// denotes. The empty expression compiles to a predicate that rejects
// everything — unlike an absent -select flag (handled by leaving
// Design.Selection nil), an explicit but empty expression selects
// nothing, matching "you asked for a selection and named nothing."
func Compile(text string) (Predicate, error) {
	expr, err := parse(text)
	if err != nil {
		return nil, err
	}
	clauses := make([]compiledClause, len(expr.Clauses))
	for i, c := range expr.Clauses {
		clauses[i] = compiledClause{exclude: c.Exclude, module: c.Module, cell: c.Cell}
	}
	return func(module, cell string) bool {
		selected := false
		for _, c := range clauses {
			if !matches(c.module, module) {
				continue
			}
			if c.cell != "" && !matches(c.cell, cell) {
				continue
			}
			selected = !c.exclude
		}
		return selected
	}, nil
}

// matches reports whether name satisfies pattern: "*" matches
// anything, otherwise an exact match is required.
func matches(pattern, name string) bool {
	return pattern == "*" || pattern == name
}
