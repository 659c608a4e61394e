package ndl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtlopt/internal/netlist"
)

func elaborateSource(t *testing.T, src string) *netlist.Design {
	t.Helper()
	file, err := ParseSource("test.ndl", src)
	require.NoError(t, err)
	design, err := Elaborate(file)
	require.NoError(t, err)
	return design
}

func TestElaborateRegistersWiresAndRoles(t *testing.T) {
	design := elaborateSource(t, `module top {
	wire a width 1 input;
	wire y width 1 output;
	assign y = a;
}`)
	mod := design.Modules["top"]
	require.NotNil(t, mod)
	assert.Equal(t, netlist.RolePortInput, mod.Wires["a"].Role)
	assert.Equal(t, netlist.RolePortOutput, mod.Wires["y"].Role)
	require.Len(t, mod.Assignments, 1)
}

func TestElaborateForwardReferenceWithinModule(t *testing.T) {
	// The cell references `y`, declared after it in the source — the
	// wire pre-pass must make this resolve regardless of order.
	design := elaborateSource(t, `module top {
	cell $_INV_ inv0 {
		port A = a;
		port Y = y;
	}
	wire a width 1;
	wire y width 1;
}`)
	mod := design.Modules["top"]
	require.NotNil(t, mod)
	cell := mod.Cells["inv0"]
	require.NotNil(t, cell)
	assert.Equal(t, "a", cell.Ports["A"].Chunks[0].Wire.Name)
	assert.Equal(t, "y", cell.Ports["Y"].Chunks[0].Wire.Name)
}

func TestElaborateCellParams(t *testing.T) {
	design := elaborateSource(t, `module top {
	wire a width 4;
	wire y width 4;
	cell $add add0 {
		param A_WIDTH = 4;
		param Y_WIDTH = 4;
		port A = a;
		port Y = y;
	}
}`)
	cell := design.Modules["top"].Cells["add0"]
	require.NotNil(t, cell)
	assert.Equal(t, 4, cell.ParamInt("A_WIDTH"))
	assert.Equal(t, 4, cell.ParamInt("Y_WIDTH"))
}

func TestElaborateConcatenationIsMSBFirst(t *testing.T) {
	design := elaborateSource(t, `module top {
	wire a width 1;
	wire b width 1;
	wire y width 2;
	assign y = {a, b};
}`)
	mod := design.Modules["top"]
	rhs := mod.Assignments[0].RHS
	// {a, b} is a followed by b MSB-first, i.e. a is bit 1, b is bit 0.
	require.Len(t, rhs.Chunks, 2)
	assert.Equal(t, "b", rhs.Chunks[0].Wire.Name)
	assert.Equal(t, "a", rhs.Chunks[1].Wire.Name)
}

func TestElaborateBitRangeSlice(t *testing.T) {
	design := elaborateSource(t, `module top {
	wire a width 4;
	wire y width 2;
	assign y = a[2:1];
}`)
	rhs := design.Modules["top"].Assignments[0].RHS
	require.Len(t, rhs.Chunks, 1)
	assert.Equal(t, 1, rhs.Chunks[0].Offset)
	assert.Equal(t, 2, rhs.Chunks[0].Width)
}

func TestElaborateConstLitDigitsAreMSBFirst(t *testing.T) {
	design := elaborateSource(t, `module top {
	wire y width 4;
	assign y = 4'1000;
}`)
	rhs := design.Modules["top"].Assignments[0].RHS
	require.True(t, rhs.IsFullyConst())
	got := rhs.AsConst()
	assert.Equal(t, netlist.V1, got.Bits[3])
	assert.Equal(t, netlist.V0, got.Bits[2])
	assert.Equal(t, netlist.V0, got.Bits[1])
	assert.Equal(t, netlist.V0, got.Bits[0])
}

func TestElaborateRejectsUndeclaredWire(t *testing.T) {
	file, err := ParseSource("test.ndl", `module top {
	wire y width 1;
	assign y = ghost;
}`)
	require.NoError(t, err)
	_, err = Elaborate(file)
	assert.Error(t, err)
}

func TestElaborateRejectsOutOfBoundsSlice(t *testing.T) {
	file, err := ParseSource("test.ndl", `module top {
	wire a width 2;
	wire y width 1;
	assign y = a[5:5];
}`)
	require.NoError(t, err)
	_, err = Elaborate(file)
	assert.Error(t, err)
}
