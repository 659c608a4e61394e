package ndl

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"
)

var parser = buildParser()

func buildParser() *participle.Parser[File] {
	p, err := participle.Build[File](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(2),
	)
	if err != nil {
		panic(fmt.Errorf("ndl: failed to build parser: %w", err))
	}
	return p
}

// ParseFile reads and parses a netlist description file.
func ParseFile(path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "ndl: failed to read %s", path)
	}
	return ParseSource(path, string(source))
}

// ParseSource parses netlist description source held in memory,
// sourceName is used only for error messages.
func ParseSource(sourceName, source string) (*File, error) {
	file, err := parser.ParseString(sourceName, source)
	if err != nil {
		return nil, errors.Wrap(err, "ndl: parse error")
	}
	return file, nil
}
