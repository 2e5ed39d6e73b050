// Completion: 100% - Register model complete
package x86

import (
	"fmt"
	"strings"
)

// Size is an operand width in bytes
type Size int

const (
	Byte  Size = 1
	Word  Size = 2
	DWord Size = 4
	QWord Size = 8
)

// SizeOf rounds a byte count up to the nearest operand width
func SizeOf(bytes int) Size {
	switch {
	case bytes <= 1:
		return Byte
	case bytes <= 2:
		return Word
	case bytes <= 4:
		return DWord
	default:
		return QWord
	}
}

// Suffix returns the AT&T mnemonic suffix for the width
func (s Size) Suffix() string {
	switch s {
	case Byte:
		return "b"
	case Word:
		return "w"
	case DWord:
		return "l"
	default:
		return "q"
	}
}

func (s Size) Bits() int {
	return int(s) * 8
}

func (s Size) index() int {
	switch s {
	case Byte:
		return 0
	case Word:
		return 1
	case DWord:
		return 2
	default:
		return 3
	}
}

// Family identifies a physical register regardless of the accessed width
type Family uint8

const (
	FamilyAX Family = iota
	FamilyCX
	FamilyDX
	FamilyBX
	FamilySP
	FamilyBP
	FamilySI
	FamilyDI
	FamilyR8
	FamilyR9
	FamilyR10
	FamilyR11
	FamilyR12
	FamilyR13
	FamilyR14
	FamilyR15
	FamilyIP
	familyCount
)

// Register names indexed by family, then by byte/word/dword/qword
var registerNames = [familyCount][4]string{
	{"al", "ax", "eax", "rax"},
	{"cl", "cx", "ecx", "rcx"},
	{"dl", "dx", "edx", "rdx"},
	{"bl", "bx", "ebx", "rbx"},
	{"spl", "sp", "esp", "rsp"},
	{"bpl", "bp", "ebp", "rbp"},
	{"sil", "si", "esi", "rsi"},
	{"dil", "di", "edi", "rdi"},
	{"r8b", "r8w", "r8d", "r8"},
	{"r9b", "r9w", "r9d", "r9"},
	{"r10b", "r10w", "r10d", "r10"},
	{"r11b", "r11w", "r11d", "r11"},
	{"r12b", "r12w", "r12d", "r12"},
	{"r13b", "r13w", "r13d", "r13"},
	{"r14b", "r14w", "r14d", "r14"},
	{"r15b", "r15w", "r15d", "r15"},
	{"", "ip", "eip", "rip"},
}

// Register is a general purpose register accessed at a given width
type Register struct {
	Family Family
	Size   Size
}

var (
	RAX = Register{FamilyAX, QWord}
	EAX = Register{FamilyAX, DWord}
	AL  = Register{FamilyAX, Byte}
	RCX = Register{FamilyCX, QWord}
	ECX = Register{FamilyCX, DWord}
	CL  = Register{FamilyCX, Byte}
	RDX = Register{FamilyDX, QWord}
	EDX = Register{FamilyDX, DWord}
	RBX = Register{FamilyBX, QWord}
	RSP = Register{FamilySP, QWord}
	RBP = Register{FamilyBP, QWord}
	RSI = Register{FamilySI, QWord}
	RDI = Register{FamilyDI, QWord}
	R8  = Register{FamilyR8, QWord}
	R9  = Register{FamilyR9, QWord}
	R10 = Register{FamilyR10, QWord}
	R11 = Register{FamilyR11, QWord}
	R12 = Register{FamilyR12, QWord}
	R13 = Register{FamilyR13, QWord}
	R14 = Register{FamilyR14, QWord}
	R15 = Register{FamilyR15, QWord}
	RIP = Register{FamilyIP, QWord}
)

// Name returns the lowercase register name without the % prefix
func (r Register) Name() string {
	if r.Family >= familyCount {
		return fmt.Sprintf("reg%d", r.Family)
	}
	return registerNames[r.Family][r.Size.index()]
}

func (r Register) String() string {
	return "%" + r.Name()
}

// Resize returns the same physical register accessed at width s
func (r Register) Resize(s Size) Register {
	return Register{Family: r.Family, Size: s}
}

// SameFamily reports whether both registers name the same physical register
func (r Register) SameFamily(other Register) bool {
	return r.Family == other.Family
}

// ParseRegister parses a register name such as "rdi", "r10d" or "%cl"
func ParseRegister(name string) (Register, error) {
	name = strings.ToLower(strings.TrimPrefix(name, "%"))
	for family, names := range registerNames {
		for i, n := range names {
			if n != "" && n == name {
				return Register{Family: Family(family), Size: Size(1 << i)}, nil
			}
		}
	}
	return Register{}, fmt.Errorf("unknown register: %s", name)
}
