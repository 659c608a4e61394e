package netlist

import (
	"fmt"
	"sort"
	"strings"
)

// Printer provides pretty-printing for a Design.
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter creates a new netlist printer.
func NewPrinter() *Printer {
	return &Printer{indent: 0}
}

// Print returns the textual representation of an entire design.
func Print(design *Design) string {
	p := NewPrinter()
	p.printDesign(design)
	return p.output.String()
}

// PrintModule returns the textual representation of a single module.
func PrintModule(module *Module) string {
	p := NewPrinter()
	p.printModule(module)
	return p.output.String()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printDesign(design *Design) {
	names := make([]string, 0, len(design.Modules))
	for name := range design.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.printModule(design.Modules[name])
		p.writeLine("")
	}
}

func (p *Printer) printModule(module *Module) {
	p.writeLine("module %s", module.Name)
	p.indent++

	wireNames := make([]string, 0, len(module.Wires))
	for name := range module.Wires {
		wireNames = append(wireNames, name)
	}
	sort.Strings(wireNames)
	for _, name := range wireNames {
		w := module.Wires[name]
		p.writeLine("wire %-20s width %-4d %s", w.Name, w.Width, roleString(w.Role))
	}

	cellNames := make([]string, 0, len(module.Cells))
	for name := range module.Cells {
		cellNames = append(cellNames, name)
	}
	sort.Strings(cellNames)
	for _, name := range cellNames {
		c := module.Cells[name]
		p.printCell(c)
	}

	for _, a := range module.Assignments {
		p.writeLine("assign %s = %s", a.LHS.String(), a.RHS.String())
	}

	p.indent--
	p.writeLine("end")
}

func (p *Printer) printCell(cell *Cell) {
	p.writeLine("cell %s %s", cell.Type, cell.Name)
	p.indent++

	paramNames := make([]string, 0, len(cell.Parameters))
	for name := range cell.Parameters {
		paramNames = append(paramNames, name)
	}
	sort.Strings(paramNames)
	for _, name := range paramNames {
		p.writeLine("parameter %s = %s", name, cell.Parameters[name].String())
	}

	portNames := make([]string, 0, len(cell.Ports))
	for name := range cell.Ports {
		portNames = append(portNames, name)
	}
	sort.Strings(portNames)
	for _, name := range portNames {
		p.writeLine("connect %s %s", name, cell.Ports[name].String())
	}

	p.indent--
}

func roleString(r WireRole) string {
	switch r {
	case RolePortInput:
		return "input"
	case RolePortOutput:
		return "output"
	case RolePortInout:
		return "inout"
	default:
		return "internal"
	}
}
