package ndl

// File is the root of a parsed netlist description: a sequence of
// module declarations.
type File struct {
	Modules []*ModuleDecl `@@*`
}

// ModuleDecl declares one module by name and its wires, cells and
// direct assignments.
type ModuleDecl struct {
	Name  string  `"module" @Ident "{"`
	Items []*Item `@@*`
	Close string  `"}"`
}

// Item is one statement inside a module body.
type Item struct {
	Wire   *WireDecl   `  @@`
	Cell   *CellDecl   `| @@`
	Assign *AssignDecl `| @@`
}

// WireDecl declares a wire's width and, optionally, its role relative
// to the module boundary (input/output/inout; internal if omitted).
type WireDecl struct {
	Name  string `"wire" @Ident`
	Width int    `"width" @Integer`
	Role  string `[ @("input" | "output" | "inout") ] ";"`
}

// CellDecl declares a named, typed cell with parameter and port
// assignments in its body.
type CellDecl struct {
	Type    string        `"cell" @Ident`
	Name    string        `@Ident "{"`
	Members []*CellMember `@@*`
	Close   string        `"}"`
}

// CellMember is one parameter or port assignment inside a cell body.
type CellMember struct {
	Param *ParamAssign `  @@`
	Port  *PortAssign  `| @@`
}

// ParamAssign sets an integer-valued cell parameter (A_WIDTH,
// Y_WIDTH, A_SIGNED, and the like).
type ParamAssign struct {
	Name  string `"param" @Ident "="`
	Value int    `@Integer ";"`
}

// PortAssign connects a named port to a signal expression.
type PortAssign struct {
	Name  string      `"port" @Ident "="`
	Value *SignalExpr `@@ ";"`
}

// AssignDecl is a direct module-level assignment: LHS := RHS.
type AssignDecl struct {
	LHS *SignalExpr `"assign" @@ "="`
	RHS *SignalExpr `@@ ";"`
}

// SignalExpr is either a brace-concatenation of terms (first term is
// most significant, Verilog-concatenation order) or a single term.
type SignalExpr struct {
	Concat []*SignalTerm `  "{" @@ { "," @@ } "}"`
	Single *SignalTerm   `| @@`
}

// SignalTerm is one constant literal or wire reference.
type SignalTerm struct {
	Const *ConstLit `  @@`
	Ref   *WireRef  `| @@`
}

// ConstLit is a width'bits literal, e.g. 4'10x1, bits written
// most-significant first.
type ConstLit struct {
	Text string `@ConstLit`
}

// WireRef names a wire, optionally narrowed to a [hi:lo] bit range
// (inclusive both ends). A bare name refers to the wire's full width.
type WireRef struct {
	Name  string    `@Ident`
	Slice *BitRange `[ @@ ]`
}

// BitRange is an inclusive [hi:lo] bit range.
type BitRange struct {
	Hi int `"[" @Integer`
	Lo int `":" @Integer "]"`
}
