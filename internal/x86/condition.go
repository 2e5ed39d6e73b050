// Completion: 100% - Condition compiler complete
package x86

import (
	"github.com/xyproto/tb/internal/ir"
)

// compileCondition emits "cmp right, left" and returns the comparison kind
// together with whether it has to be evaluated as signed. Choosing the
// branch instruction is left to the caller.
func (fc *FunctionCompiler) compileCondition(c ir.Condition) (ir.Comparison, bool, error) {
	left, err := fc.describe(c.Left)
	if err != nil {
		return c.Kind, false, err
	}
	right, err := fc.describe(c.Right)
	if err != nil {
		return c.Kind, false, err
	}
	if left.float || right.float {
		return c.Kind, false, UnexpectedInstruction("comparison of floating point operands")
	}
	_, leftStr := c.Left.(ir.Str)
	_, rightStr := c.Right.(ir.Str)
	if leftStr || rightStr {
		return c.Kind, false, UnexpectedInstruction("comparison of strings")
	}

	size := max(DWord, left.size, right.size)
	signed := left.signed && right.signed

	registers := fc.store.RegisterBackup()
	defer fc.store.RegisterRestore(registers)

	fc.comment("Generate left value")
	leftReg, err := fc.store.LockRegisterFor(size, "left")
	if err != nil {
		return c.Kind, signed, err
	}
	if _, err := fc.compileValue(c.Left, Reg(leftReg)); err != nil {
		return c.Kind, signed, err
	}

	fc.comment("Generate right value")
	rightReg, err := fc.store.LockRegisterFor(size, "right")
	if err != nil {
		return c.Kind, signed, err
	}
	if _, err := fc.compileValue(c.Right, Reg(rightReg)); err != nil {
		return c.Kind, signed, err
	}

	fc.emit(Cmp(Reg(rightReg), Reg(leftReg)).WithComment(c.String()))
	return c.Kind, signed, nil
}
