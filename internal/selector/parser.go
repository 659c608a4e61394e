package selector

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"
)

var parser = buildParser()

func buildParser() *participle.Parser[Expr] {
	p, err := participle.Build[Expr](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		panic(fmt.Errorf("selector: failed to build parser: %w", err))
	}
	return p
}

func parse(text string) (*Expr, error) {
	expr, err := parser.ParseString("-select", text)
	if err != nil {
		return nil, errors.Wrap(err, "selector: parse error")
	}
	return expr, nil
}
