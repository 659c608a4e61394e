package ndl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"rtlopt/internal/netlist"
)

// Elaborate turns a parsed file into a Design: one Module per
// ModuleDecl, wires registered before cells/assigns so that forward
// references within a module body resolve regardless of declaration
// order relative to their first use.
func Elaborate(file *File) (*netlist.Design, error) {
	design := netlist.NewDesign()
	for _, decl := range file.Modules {
		mod, err := elaborateModule(decl)
		if err != nil {
			return nil, err
		}
		design.Modules[mod.Name] = mod
	}
	return design, nil
}

func elaborateModule(decl *ModuleDecl) (*netlist.Module, error) {
	mod := netlist.NewModule(decl.Name)

	for _, item := range decl.Items {
		if item.Wire == nil {
			continue
		}
		w := &netlist.Wire{
			Name:  item.Wire.Name,
			Width: item.Wire.Width,
			Role:  roleOf(item.Wire.Role),
		}
		mod.Wires[w.Name] = w
	}

	for _, item := range decl.Items {
		switch {
		case item.Cell != nil:
			cell, err := elaborateCell(item.Cell, mod)
			if err != nil {
				return nil, err
			}
			mod.Cells[cell.Name] = cell
		case item.Assign != nil:
			lhs, err := resolveSignal(item.Assign.LHS, mod)
			if err != nil {
				return nil, err
			}
			rhs, err := resolveSignal(item.Assign.RHS, mod)
			if err != nil {
				return nil, err
			}
			mod.AddAssign(lhs, rhs)
		}
	}

	return mod, nil
}

func roleOf(s string) netlist.WireRole {
	switch s {
	case "input":
		return netlist.RolePortInput
	case "output":
		return netlist.RolePortOutput
	case "inout":
		return netlist.RolePortInout
	default:
		return netlist.RoleInternal
	}
}

func elaborateCell(decl *CellDecl, mod *netlist.Module) (*netlist.Cell, error) {
	cell := &netlist.Cell{
		Name:       decl.Name,
		Type:       decl.Type,
		Ports:      make(map[string]netlist.Signal),
		Parameters: make(map[string]netlist.ConstVec),
	}
	for _, member := range decl.Members {
		switch {
		case member.Param != nil:
			cell.SetParamInt(member.Param.Name, member.Param.Value)
		case member.Port != nil:
			sig, err := resolveSignal(member.Port.Value, mod)
			if err != nil {
				return nil, errors.Wrapf(err, "ndl: cell %s port %s", decl.Name, member.Port.Name)
			}
			cell.SetPort(member.Port.Name, sig)
		}
	}
	return cell, nil
}

func resolveSignal(expr *SignalExpr, mod *netlist.Module) (netlist.Signal, error) {
	if expr.Single != nil {
		return resolveTerm(expr.Single, mod)
	}
	// Concatenation is written most-significant term first, matching
	// Verilog's {a, b} convention; Signal.Chunks is least-significant
	// chunk first, so the resolved terms are assembled in reverse.
	var sigs []netlist.Signal
	for i := len(expr.Concat) - 1; i >= 0; i-- {
		sig, err := resolveTerm(expr.Concat[i], mod)
		if err != nil {
			return netlist.Signal{}, err
		}
		sigs = append(sigs, sig)
	}
	return netlist.Concat(sigs...), nil
}

func resolveTerm(term *SignalTerm, mod *netlist.Module) (netlist.Signal, error) {
	if term.Const != nil {
		return resolveConst(term.Const)
	}
	return resolveWireRef(term.Ref, mod)
}

func resolveConst(lit *ConstLit) (netlist.Signal, error) {
	parts := strings.SplitN(lit.Text, "'", 2)
	if len(parts) != 2 {
		return netlist.Signal{}, fmt.Errorf("ndl: malformed constant literal %q", lit.Text)
	}
	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return netlist.Signal{}, fmt.Errorf("ndl: malformed constant literal %q: %w", lit.Text, err)
	}
	digits := parts[1]
	if len(digits) != width {
		return netlist.Signal{}, fmt.Errorf("ndl: constant literal %q declares width %d but has %d digits", lit.Text, width, len(digits))
	}
	bits := make([]netlist.Value, width)
	for i, d := range digits {
		// digits are written most-significant first; Bits is
		// least-significant first.
		v, err := valueOf(d)
		if err != nil {
			return netlist.Signal{}, fmt.Errorf("ndl: constant literal %q: %w", lit.Text, err)
		}
		bits[width-1-i] = v
	}
	return netlist.Signal{Chunks: []netlist.Chunk{{Const: netlist.ConstVec{Bits: bits}, Width: width}}}, nil
}

func valueOf(d rune) (netlist.Value, error) {
	switch d {
	case '0':
		return netlist.V0, nil
	case '1':
		return netlist.V1, nil
	case 'x', 'X':
		return netlist.Vx, nil
	case 'z', 'Z':
		return netlist.Vz, nil
	default:
		return 0, fmt.Errorf("invalid bit digit %q", d)
	}
}

func resolveWireRef(ref *WireRef, mod *netlist.Module) (netlist.Signal, error) {
	w, ok := mod.Wires[ref.Name]
	if !ok {
		return netlist.Signal{}, fmt.Errorf("ndl: reference to undeclared wire %q", ref.Name)
	}
	lo, hi := 0, w.Width
	if ref.Slice != nil {
		if ref.Slice.Hi < ref.Slice.Lo || ref.Slice.Hi >= w.Width {
			return netlist.Signal{}, fmt.Errorf("ndl: bit range [%d:%d] out of bounds for wire %q (width %d)",
				ref.Slice.Hi, ref.Slice.Lo, ref.Name, w.Width)
		}
		lo, hi = ref.Slice.Lo, ref.Slice.Hi+1
	}
	return netlist.Signal{Chunks: []netlist.Chunk{{Wire: w, Offset: lo, Width: hi - lo}}}, nil
}
