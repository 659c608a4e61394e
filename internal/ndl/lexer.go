package ndl

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes the netlist description language: module/wire/cell/
// assign declarations used for fixtures and CLI input. Token order
// matters — ConstLit must be tried before Integer, since every
// constant literal's width prefix is itself a valid integer.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"ConstLit", `[0-9]+'[01xXzZ]+`, nil},
		{"Ident", `[\\$A-Za-z_][A-Za-z0-9_]*`, nil},
		{"Integer", `[0-9]+`, nil},
		{"Punctuation", `[{}\[\]():,;=]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
