package netlist

import "sort"

// RunOptions configures one driver pass over a Design, mirroring the
// CLI flags of the control surface: whether to replace undriven nets
// first, and which otherwise-unsound peephole rules to allow.
type RunOptions struct {
	Undriven  bool
	MuxUndef  bool
	MuxBool   bool
	OnReplace ReplaceFunc
}

// Run drives every selected module of design to a fixed point: an
// inner loop repeats the sound (consume_x=false) rewrite walk until it
// stops changing anything, then a single consume_x=true walk is tried;
// if that walk changed anything, the inner loop resumes. This mirrors
// the nested do-while structure of the reference optimizer, where the
// unsound pass is only ever applied once per outer iteration and the
// sound rules are always given the chance to clean up after it.
func Run(design *Design, opts RunOptions) {
	names := sortedModuleNames(design)
	for _, name := range names {
		module := design.Modules[name]
		if opts.Undriven {
			ReplaceUndriven(module)
		}

		for {
			for {
				changed := NewEngine(design, module, false, opts.MuxUndef, opts.MuxBool, opts.OnReplace).Run()
				if !changed {
					break
				}
			}
			changed := NewEngine(design, module, true, opts.MuxUndef, opts.MuxBool, opts.OnReplace).Run()
			if !changed {
				break
			}
		}
	}
}

func sortedModuleNames(design *Design) []string {
	names := make([]string, 0, len(design.Modules))
	for name := range design.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
