// Completion: 100% - Operand model complete
package x86

import (
	"fmt"

	"github.com/xyproto/tb/internal/ir"
)

// ModeKind is the way a register operand is interpreted
type ModeKind int

const (
	ModeDirect   ModeKind = iota // %reg
	ModeIndirect                 // (%reg)
	ModeBased                    // offset(%reg)
)

// AddressingMode is a register operand
type AddressingMode struct {
	Kind   ModeKind
	Offset int
	Reg    Register
}

func DirectMode(r Register) AddressingMode {
	return AddressingMode{Kind: ModeDirect, Reg: r}
}

func IndirectMode(r Register) AddressingMode {
	return AddressingMode{Kind: ModeIndirect, Reg: r}
}

// BasedMode creates offset(%reg). A zero offset collapses to the direct form.
func BasedMode(offset int, r Register) AddressingMode {
	if offset == 0 {
		return DirectMode(r)
	}
	return AddressingMode{Kind: ModeBased, Offset: offset, Reg: r}
}

// IsDirectRegister reports whether the operand is the register itself
func (m AddressingMode) IsDirectRegister() bool {
	return m.Kind == ModeDirect
}

func (m AddressingMode) String() string {
	switch m.Kind {
	case ModeIndirect:
		return "(" + m.Reg.String() + ")"
	case ModeBased:
		return fmt.Sprintf("%d(%s)", m.Offset, m.Reg)
	default:
		return m.Reg.String()
	}
}

// LocationKind tags the variant held by a Location
type LocationKind int

const (
	LocNone LocationKind = iota
	LocMemory
	LocRegister
	LocImm
	LocLabel
)

// Location is an instruction operand: an absolute address, a register
// operand, an immediate or a RIP-relative label. The zero value is "no operand".
type Location struct {
	Kind    LocationKind
	Address uint64
	Mode    AddressingMode
	Imm     ir.Number
	Label   string
}

func Memory(address uint64) Location {
	return Location{Kind: LocMemory, Address: address}
}

// Reg is the direct register operand %reg
func Reg(r Register) Location {
	return Location{Kind: LocRegister, Mode: DirectMode(r)}
}

func Indirect(r Register) Location {
	return Location{Kind: LocRegister, Mode: IndirectMode(r)}
}

func Based(offset int, r Register) Location {
	return Location{Kind: LocRegister, Mode: BasedMode(offset, r)}
}

func Imm(n ir.Number) Location {
	return Location{Kind: LocImm, Imm: n}
}

// ImmInt is a 64-bit signed immediate
func ImmInt(v int64) Location {
	return Imm(ir.Int64(v))
}

// Label is the RIP-relative operand name(%rip)
func Label(name string) Location {
	return Location{Kind: LocLabel, Label: name}
}

func (l Location) IsNone() bool {
	return l.Kind == LocNone
}

// AddressingMode returns the register operand, if l is one
func (l Location) AddressingMode() (AddressingMode, bool) {
	if l.Kind != LocRegister {
		return AddressingMode{}, false
	}
	return l.Mode, true
}

// Register returns the register referenced by l, if any
func (l Location) Register() (Register, bool) {
	if l.Kind != LocRegister {
		return Register{}, false
	}
	return l.Mode.Reg, true
}

// IsDirectRegister reports whether l is a plain %reg operand
func (l Location) IsDirectRegister() bool {
	return l.Kind == LocRegister && l.Mode.IsDirectRegister()
}

// IsMemory reports whether l refers to memory
func (l Location) IsMemory() bool {
	switch l.Kind {
	case LocMemory, LocLabel:
		return true
	case LocRegister:
		return !l.Mode.IsDirectRegister()
	}
	return false
}

// String renders the operand in AT&T syntax
func (l Location) String() string {
	switch l.Kind {
	case LocMemory:
		return fmt.Sprintf("%#x", l.Address)
	case LocRegister:
		return l.Mode.String()
	case LocImm:
		return "$" + l.Imm.Immediate()
	case LocLabel:
		return l.Label + "(%rip)"
	}
	return ""
}
