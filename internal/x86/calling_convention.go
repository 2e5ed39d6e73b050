// Completion: 100% - Helper module complete
package x86

import (
	"github.com/samber/lo"

	"github.com/xyproto/tb/internal/engine"
)

// Calling conventions for x86-64
//
// Handles platform-specific calling conventions:
// - System V AMD64 ABI (Linux, macOS, BSD)
// - Microsoft x64 ABI (Windows)
//
// Parameter binding and call argument placement both read the argument
// register list from here, so callers and callees always agree.

// CallingConvention defines the interface for platform-specific calling conventions
type CallingConvention interface {
	// GetIntegerArgReg returns the register for integer argument at given index,
	// or false when the argument is passed on the stack
	GetIntegerArgReg(index int) (Register, bool)

	// IntegerArgCount returns how many integer arguments travel in registers
	IntegerArgCount() int

	// GetIntegerReturnReg returns the register holding an integer return value
	GetIntegerReturnReg() Register

	// GetCallerSavedRegs returns registers that the caller must save before a call
	GetCallerSavedRegs() []Register

	// GetCalleeSavedRegs returns registers that the callee must save/restore
	GetCalleeSavedRegs() []Register

	// GetShadowSpaceSize returns the size of shadow space required (Windows: 32, others: 0)
	GetShadowSpaceSize() int

	// GetStackAlignment returns the required stack alignment at call sites
	GetStackAlignment() int
}

// SystemVAMD64 implements the System V AMD64 calling convention (Linux, macOS, BSD)
type SystemVAMD64 struct{}

var systemVArgs = []Register{RDI, RSI, RDX, RCX, R8, R9}

func (cc *SystemVAMD64) GetIntegerArgReg(index int) (Register, bool) {
	if index >= 0 && index < len(systemVArgs) {
		return systemVArgs[index], true
	}
	return Register{}, false // Overflow to stack
}

func (cc *SystemVAMD64) IntegerArgCount() int {
	return len(systemVArgs)
}

func (cc *SystemVAMD64) GetIntegerReturnReg() Register {
	return RAX
}

func (cc *SystemVAMD64) GetCallerSavedRegs() []Register {
	return []Register{RAX, RCX, RDX, RSI, RDI, R8, R9, R10, R11}
}

func (cc *SystemVAMD64) GetCalleeSavedRegs() []Register {
	return []Register{RBX, RBP, R12, R13, R14, R15}
}

func (cc *SystemVAMD64) GetShadowSpaceSize() int {
	return 0 // No shadow space required
}

func (cc *SystemVAMD64) GetStackAlignment() int {
	return 16
}

// MicrosoftX64 implements the Microsoft x64 calling convention (Windows)
type MicrosoftX64 struct{}

var microsoftArgs = []Register{RCX, RDX, R8, R9}

func (cc *MicrosoftX64) GetIntegerArgReg(index int) (Register, bool) {
	if index >= 0 && index < len(microsoftArgs) {
		return microsoftArgs[index], true
	}
	return Register{}, false // Overflow to stack
}

func (cc *MicrosoftX64) IntegerArgCount() int {
	return len(microsoftArgs)
}

func (cc *MicrosoftX64) GetIntegerReturnReg() Register {
	return RAX
}

func (cc *MicrosoftX64) GetCallerSavedRegs() []Register {
	return []Register{RAX, RCX, RDX, R8, R9, R10, R11}
}

func (cc *MicrosoftX64) GetCalleeSavedRegs() []Register {
	return []Register{RBX, RBP, RDI, RSI, R12, R13, R14, R15}
}

func (cc *MicrosoftX64) GetShadowSpaceSize() int {
	return 32 // Required 32-byte shadow space
}

func (cc *MicrosoftX64) GetStackAlignment() int {
	return 16
}

// CallingConventionFor returns the x86-64 calling convention used on os
func CallingConventionFor(os engine.OS) CallingConvention {
	if os == engine.OSWindows {
		return &MicrosoftX64{}
	}
	return &SystemVAMD64{}
}

// ArgumentRegisters lists the integer argument registers in order
func ArgumentRegisters(cc CallingConvention) []Register {
	regs := make([]Register, 0, cc.IntegerArgCount())
	for i := 0; i < cc.IntegerArgCount(); i++ {
		r, _ := cc.GetIntegerArgReg(i)
		regs = append(regs, r)
	}
	return regs
}

// ScratchRegisters returns the caller-saved registers that are neither used
// for argument passing nor for the return value
func ScratchRegisters(cc CallingConvention) []Register {
	args := ArgumentRegisters(cc)
	ret := cc.GetIntegerReturnReg()
	return lo.Filter(cc.GetCallerSavedRegs(), func(r Register, _ int) bool {
		if r.SameFamily(ret) {
			return false
		}
		return !lo.ContainsBy(args, func(a Register) bool { return a.SameFamily(r) })
	})
}
