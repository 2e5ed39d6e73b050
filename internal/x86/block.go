package x86

import (
	"github.com/xyproto/tb/internal/ir"
)

// compileBlock emits the statements of b in order. top is set for the
// function body itself, whose last statement may fall through to the epilogue.
func (fc *FunctionCompiler) compileBlock(b ir.Block, top bool) error {
	for i, s := range b {
		if err := fc.compileStatement(s, top && i == len(b)-1); err != nil {
			return err
		}
	}
	return nil
}
