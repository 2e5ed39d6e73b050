// Completion: 100% - Application context complete
package x86

import (
	"fmt"

	"github.com/xyproto/tb/internal/osdefs"
)

// ApplicationContext owns everything that outlives a single function:
// the output stream, the data section and the label counter
type ApplicationContext struct {
	OS           osdefs.Defs
	CC           CallingConvention
	Instructions *InstructionCollection
	Data         *DataItemCollection

	branchCounter int
}

// NewApplicationContext creates an empty context for one program
func NewApplicationContext(defs osdefs.Defs, cc CallingConvention) *ApplicationContext {
	return &ApplicationContext{
		OS:           defs,
		CC:           cc,
		Instructions: &InstructionCollection{},
		Data:         NewDataItemCollection(),
	}
}

// CreateBranchLabel returns a label that is unique within the program
func (c *ApplicationContext) CreateBranchLabel() string {
	label := fmt.Sprintf(".L%d", c.branchCounter)
	c.branchCounter++
	return label
}
