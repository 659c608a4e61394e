// Package diag carries the optimizer's fail-fast diagnostics.
//
// Codes are grouped the way the rest of the toolchain groups its own
// error codes: a short range per concern, so a code alone tells you
// which subsystem raised it without reading the message.
package diag

// Invariant violation codes (I0001-I0099). These can only arise from a
// malformed netlist handed to the optimizer by the front-end; they are
// never recoverable and never retried.
const (
	// I0001: a cell's connected signal width disagrees with the port
	// width implied by the cell's parameters.
	ErrorWidthMismatch = "I0001"

	// I0002: a cell references a port name outside its type's schema.
	ErrorUnknownPort = "I0002"

	// I0003: a bit is driven by more than one assignment or cell
	// output at once, as observed by the optimizer.
	ErrorMultipleDrivers = "I0003"

	// I0004: the alias map produced two different representatives for
	// bits the module asserts are equivalent.
	ErrorAliasInconsistent = "I0004"

	// I0005: a rewrite referenced a cell after it was removed from the
	// module's registry.
	ErrorUseAfterRemoval = "I0005"
)

// descriptions gives a human-readable explanation for each code, used
// when formatting a Violation for the CLI.
var descriptions = map[string]string{
	ErrorWidthMismatch:     "connected signal width does not match the cell's declared port width",
	ErrorUnknownPort:       "port name is not part of the cell type's schema",
	ErrorMultipleDrivers:   "bit is driven by more than one assignment or cell output",
	ErrorAliasInconsistent: "alias map produced inconsistent representatives for equivalent bits",
	ErrorUseAfterRemoval:   "cell was referenced after its removal from the module registry",
}

// Describe returns the human-readable description for a code, or the
// empty string if the code is unrecognized.
func Describe(code string) string {
	return descriptions[code]
}
