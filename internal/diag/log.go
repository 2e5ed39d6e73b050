// Completion: 100% - Verbose logging complete
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/logrusorgru/aurora/v4"
)

// VerboseMode enables debug output on Output
var VerboseMode = false

// Output receives verbose output, os.Stderr by default
var Output io.Writer = os.Stderr

// UseColor enables colored prefixes in verbose output
var UseColor = true

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Debugf prints a verbose message prefixed with the component name
func Debugf(component, format string, args ...any) {
	if !VerboseMode {
		return
	}
	au := aurora.New(aurora.WithColors(UseColor))
	fmt.Fprintf(Output, "%s %s\n", au.Magenta("DEBUG "+component+":"), fmt.Sprintf(format, args...))
}

// Dump pretty-prints values in verbose mode
func Dump(component, title string, values ...any) {
	if !VerboseMode {
		return
	}
	Debugf(component, "%s", title)
	fmt.Fprint(Output, dumper.Sdump(values...))
}
