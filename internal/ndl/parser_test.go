package ndl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourceEmptyModule(t *testing.T) {
	file, err := ParseSource("test.ndl", `module top {
}`)
	require.NoError(t, err)
	require.Len(t, file.Modules, 1)
	assert.Equal(t, "top", file.Modules[0].Name)
	assert.Empty(t, file.Modules[0].Items)
}

func TestParseSourceWireCellAssign(t *testing.T) {
	src := `// a trivial inverter
module top {
	wire a width 1 input;
	wire y width 1 output;
	cell $_INV_ inv0 {
		port A = a;
		port Y = y;
	}
	assign y = a;
}`
	file, err := ParseSource("test.ndl", src)
	require.NoError(t, err)
	require.Len(t, file.Modules, 1)

	mod := file.Modules[0]
	var wires, cells, assigns int
	for _, item := range mod.Items {
		switch {
		case item.Wire != nil:
			wires++
		case item.Cell != nil:
			cells++
		case item.Assign != nil:
			assigns++
		}
	}
	assert.Equal(t, 2, wires)
	assert.Equal(t, 1, cells)
	assert.Equal(t, 1, assigns)
}

func TestParseSourceConstLitAndBitRange(t *testing.T) {
	src := `module top {
	wire a width 4;
	wire y width 1;
	assign y = a[2:1];
	assign a = 4'10x1;
}`
	_, err := ParseSource("test.ndl", src)
	require.NoError(t, err)
}

func TestParseSourceRejectsGarbage(t *testing.T) {
	_, err := ParseSource("test.ndl", `this is not a netlist`)
	assert.Error(t, err)
}
