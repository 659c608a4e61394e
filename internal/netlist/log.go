package netlist

import (
	"fmt"

	"github.com/tliron/commonlog"
)

var logger = commonlog.GetLogger("rtlopt.netlist")

// LogReplace is the default ReplaceFunc: it logs every cell the
// engine retires in the shape a synthesis-tool user expects to grep
// for: "Replacing <type> cell '<name>' (<reason>) in module '<mod>'
// with constant driver '<port> = <value>'."
func LogReplace(module, cellType, cellName, reason, outPort, outVal string) {
	logger.Info(fmt.Sprintf(
		"Replacing %s cell '%s' (%s) in module '%s' with constant driver '%s = %s'.",
		cellType, cellName, reason, module, outPort, outVal,
	))
}
