package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// Violation is raised when the netlist handed to the optimizer breaks
// one of its structural invariants. It is always fatal: the core
// never catches or retries it.
type Violation struct {
	Code   string // one of the Error* codes in codes.go
	Module string // module the violation was found in
	Cell   string // cell name, or "" if not cell-specific
	Rule   string // the rewrite rule or analysis step that detected it
	Detail string // free-form context (widths involved, port name, ...)
	cause  error
}

func (v *Violation) Error() string {
	where := v.Module
	if v.Cell != "" {
		where = fmt.Sprintf("%s/%s", v.Module, v.Cell)
	}
	msg := fmt.Sprintf("[%s] %s: %s", v.Code, where, Describe(v.Code))
	if v.Rule != "" {
		msg = fmt.Sprintf("%s (rule %s)", msg, v.Rule)
	}
	if v.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, v.Detail)
	}
	return msg
}

func (v *Violation) Unwrap() error { return v.cause }

// Raise panics with a Violation wrapped in a stack trace. Callers in
// the core never recover from this; only the CLI's main does, to turn
// it into a clean non-zero exit.
func Raise(code, module, cell, rule, detail string) {
	v := &Violation{Code: code, Module: module, Cell: cell, Rule: rule, Detail: detail}
	v.cause = errors.Wrap(v, "invariant violation")
	panic(v.cause)
}

// Assert raises code if cond is false. It is the fail-fast assertion
// used throughout internal/netlist to enforce its structural invariants.
func Assert(cond bool, code, module, cell, rule, detail string) {
	if !cond {
		Raise(code, module, cell, rule, detail)
	}
}
