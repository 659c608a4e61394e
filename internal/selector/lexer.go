package selector

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes selection expressions: sequences of
// [-]module[/cell] clauses, where module/cell may be "*" as a
// full wildcard.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Pattern", `[A-Za-z_][A-Za-z0-9_]*|\*`, nil},
		{"Punctuation", `[-/]`, nil},
		{"Whitespace", `[ \t\r\n,]+`, nil},
	},
})
