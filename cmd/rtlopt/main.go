package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"rtlopt/internal/diag"
	"rtlopt/internal/ndl"
	"rtlopt/internal/netlist"
	"rtlopt/internal/selector"
)

func main() {
	muxUndef := flag.Bool("mux_undef", false, "replace mux cells with undef inputs with a simpler cell")
	muxBool := flag.Bool("mux_bool", false, "replace mux cells with inverters or buffers when possible")
	undriven := flag.Bool("undriven", false, "replace undriven nets with undef (x) constants")
	selectExpr := flag.String("select", "", "restrict optimization to the matching modules/cells")
	quiet := flag.Bool("quiet", false, "only log warnings and errors")

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: rtlopt [-mux_undef] [-mux_bool] [-undriven] [-select <expr>] [-quiet] <file.ndl>")
		flag.PrintDefaults()
	}
	flag.Parse()

	verbosity := 1
	if *quiet {
		verbosity = 0
	}
	commonlog.Configure(verbosity, nil)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	if err := run(path, *muxUndef, *muxBool, *undriven, *selectExpr); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func run(path string, muxUndef, muxBool, undriven bool, selectExpr string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if violationErr, ok := r.(error); ok {
				err = violationErr
				return
			}
			panic(r)
		}
	}()

	file, parseErr := ndl.ParseFile(path)
	if parseErr != nil {
		return parseErr
	}

	design, elabErr := ndl.Elaborate(file)
	if elabErr != nil {
		return elabErr
	}

	if selectExpr != "" {
		pred, selErr := selector.Compile(selectExpr)
		if selErr != nil {
			return selErr
		}
		design.Selection = pred
	}

	netlist.Run(design, netlist.RunOptions{
		Undriven:  undriven,
		MuxUndef:  muxUndef,
		MuxBool:   muxBool,
		OnReplace: netlist.LogReplace,
	})

	fmt.Print(netlist.Print(design))
	color.Green("done: %s", path)
	return nil
}

// reportError prints a file/line/column parse error for ndl/selector
// syntax errors, a module/cell-scoped message for a recovered
// *diag.Violation, or a plain message for anything else.
func reportError(err error) {
	var violation *diag.Violation
	if errors.As(err, &violation) {
		color.Red("rtlopt: %s", violation.Error())
		return
	}

	var pe participle.Error
	if errors.As(err, &pe) {
		pos := pe.Position()
		color.Red("rtlopt: syntax error in %s at line %d, column %d: %s",
			pos.Filename, pos.Line, pos.Column, pe.Message())
		return
	}

	color.Red("rtlopt: %s", err)
}
