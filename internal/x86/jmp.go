// Completion: 100% - Instruction implementation complete
package x86

import (
	"github.com/samber/lo"

	"github.com/xyproto/tb/internal/ir"
)

// Condition codes for jumps
type JumpCondition int

const (
	JumpEqual          JumpCondition = iota // JE/JZ - equal/zero
	JumpNotEqual                            // JNE/JNZ - not equal/not zero
	JumpGreater                             // JG/JNLE - greater (signed)
	JumpGreaterOrEqual                      // JGE/JNL - greater or equal (signed)
	JumpLess                                // JL/JNGE - less (signed)
	JumpLessOrEqual                         // JLE/JNG - less or equal (signed)
	JumpAbove                               // JA/JNBE - above (unsigned)
	JumpAboveOrEqual                        // JAE/JNB - above or equal (unsigned)
	JumpBelow                               // JB/JNAE - below (unsigned)
	JumpBelowOrEqual                        // JBE/JNA - below or equal (unsigned)
)

var jumpMnemonics = [...]string{"je", "jne", "jg", "jge", "jl", "jle", "ja", "jae", "jb", "jbe"}

// Mnemonic returns the AT&T mnemonic of the conditional jump
func (c JumpCondition) Mnemonic() string {
	if c < 0 || int(c) >= len(jumpMnemonics) {
		return "jmp"
	}
	return jumpMnemonics[c]
}

func (c JumpCondition) String() string {
	return c.Mnemonic()
}

// JumpFor returns the jump taken when cmp holds after "cmp right, left".
// Ordering comparisons use the unsigned condition codes unless signed is set.
func JumpFor(cmp ir.Comparison, signed bool) JumpCondition {
	switch cmp {
	case ir.Eq:
		return JumpEqual
	case ir.Ne:
		return JumpNotEqual
	case ir.Gr:
		return lo.Ternary(signed, JumpGreater, JumpAbove)
	case ir.Ge:
		return lo.Ternary(signed, JumpGreaterOrEqual, JumpAboveOrEqual)
	case ir.Ls:
		return lo.Ternary(signed, JumpLess, JumpBelow)
	default:
		return lo.Ternary(signed, JumpLessOrEqual, JumpBelowOrEqual)
	}
}

// SkipJumpFor returns the jump that skips a block guarded by cmp,
// that is the jump taken when cmp does not hold
func SkipJumpFor(cmp ir.Comparison, signed bool) JumpCondition {
	return JumpFor(cmp.Negate(), signed)
}
