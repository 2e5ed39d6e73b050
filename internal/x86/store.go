// Completion: 100% - Register allocator and symbol table complete
package x86

import (
	"fmt"

	"github.com/xyproto/tb/internal/diag"
)

// Variable is a named stack slot of the function being compiled
type Variable struct {
	Name     string
	Size     int // bytes
	Position int // distance of the slot's lowest byte below the frame pointer
	Signed   bool
	Float    bool
}

// Location returns the slot operand -Position(%rbp)
func (v Variable) Location() Location {
	return Based(-v.Position, RBP)
}

// Width returns the slot width as an operand size
func (v Variable) Width() Size {
	return SizeOf(v.Size)
}

// RegisterSnapshot is a copy of the lock state of every register
type RegisterSnapshot struct {
	inUse   [familyCount]bool
	purpose [familyCount]string
}

// Store tracks the variables, scratch registers and the last produced
// operand of one function. It is discarded after the function is compiled.
type Store struct {
	variables []Variable
	byName    map[string]int
	used      int // bytes of stack handed out so far
	temps     int

	// Scratch pool in allocation order
	pool []Family
	// Lock state of every register family. Fixed registers such as %rcx
	// can be marked too while an instruction needs them.
	inUse    [familyCount]bool
	reserved [familyCount]bool
	purpose  [familyCount]string

	lastLocation Location
	lastSize     Size
	lastSigned   bool
	lastFloat    bool
}

// NewStore creates a store whose scratch pool comes from the calling convention
func NewStore(cc CallingConvention) *Store {
	s := &Store{
		byName:     make(map[string]int),
		lastSize:   DWord,
		lastSigned: true,
	}
	for _, r := range ScratchRegisters(cc) {
		s.pool = append(s.pool, r.Family)
	}

	// Stack and frame pointer are never handed out
	s.reserved[FamilySP] = true
	s.reserved[FamilyBP] = true
	s.reserved[FamilyIP] = true
	return s
}

// FindVariable looks up a variable by name
func (s *Store) FindVariable(name string) (Variable, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Variable{}, false
	}
	return s.variables[i], true
}

// AddVariable allocates a new slot of size bytes below the previous ones.
// Adding a name that already exists returns the existing variable.
func (s *Store) AddVariable(name string, size int, signed bool) Variable {
	if v, ok := s.FindVariable(name); ok {
		return v
	}
	if size <= 0 {
		size = int(QWord)
	}
	s.used += size
	v := Variable{Name: name, Size: size, Position: s.used, Signed: signed}
	s.byName[name] = len(s.variables)
	s.variables = append(s.variables, v)
	diag.Debugf("store", "variable %s: %d bytes at -%d(%%rbp)", name, size, v.Position)
	return v
}

// AddFloatVariable allocates a slot holding an IEEE bit pattern
func (s *Store) AddFloatVariable(name string, size int) Variable {
	v := s.AddVariable(name, size, false)
	if !v.Float {
		i := s.byName[name]
		s.variables[i].Float = true
		v.Float = true
	}
	return v
}

// AddTempVariable allocates an anonymous slot
func (s *Store) AddTempVariable(size int) Variable {
	s.temps++
	return s.AddVariable(fmt.Sprintf(".tmp%d", s.temps), size, true)
}

// Variables returns the variables in allocation order
func (s *Store) Variables() []Variable {
	return append([]Variable(nil), s.variables...)
}

// VariableNames returns the user visible variable names
func (s *Store) VariableNames() []string {
	names := make([]string, 0, len(s.variables))
	for _, v := range s.variables {
		if len(v.Name) > 0 && v.Name[0] != '.' {
			names = append(names, v.Name)
		}
	}
	return names
}

// StackSize returns the number of stack bytes used by all slots
func (s *Store) StackSize() int {
	return s.used
}

// RegisterBackup captures the lock state of all registers
func (s *Store) RegisterBackup() RegisterSnapshot {
	return RegisterSnapshot{inUse: s.inUse, purpose: s.purpose}
}

// RegisterRestore puts back the lock state captured by RegisterBackup
func (s *Store) RegisterRestore(snapshot RegisterSnapshot) {
	s.inUse = snapshot.inUse
	s.purpose = snapshot.purpose
}

// IsFree reports whether r may be claimed
func (s *Store) IsFree(r Register) bool {
	return !s.inUse[r.Family] && !s.reserved[r.Family]
}

// MarkRegister flags r as holding a live value
func (s *Store) MarkRegister(r Register) {
	s.inUse[r.Family] = true
}

// UnmarkRegister clears the live flag of r
func (s *Store) UnmarkRegister(r Register) {
	s.inUse[r.Family] = false
	s.purpose[r.Family] = ""
}

// LockRegister claims a free scratch register accessed at width size
func (s *Store) LockRegister(size Size) (Register, error) {
	return s.LockRegisterFor(size, "")
}

// LockRegisterFor is LockRegister with a purpose shown in verbose dumps
func (s *Store) LockRegisterFor(size Size, purpose string) (Register, error) {
	for _, f := range s.pool {
		if !s.inUse[f] {
			s.inUse[f] = true
			s.purpose[f] = purpose
			return Register{Family: f, Size: size}, nil
		}
	}
	return Register{}, NoRegisterAvailable(size)
}

// ReleaseRegister returns r to the pool
func (s *Store) ReleaseRegister(r Register) {
	s.UnmarkRegister(r)
}

// LockedRegisters lists the registers currently marked, for diagnostics
func (s *Store) LockedRegisters() map[string]string {
	locked := make(map[string]string)
	for f, used := range s.inUse {
		if used {
			locked[Register{Family: Family(f), Size: QWord}.Name()] = s.purpose[f]
		}
	}
	return locked
}

func (s *Store) LastAssignedLocation() Location {
	return s.lastLocation
}

func (s *Store) SetLastAssignedLocation(l Location) {
	s.lastLocation = l
}

// LastSize is the width of the value at LastAssignedLocation
func (s *Store) LastSize() Size {
	return s.lastSize
}

func (s *Store) SetLastSize(size Size) {
	s.lastSize = size
}

// LastSigned tells whether the last value is a signed integer
func (s *Store) LastSigned() bool {
	return s.lastSigned
}

func (s *Store) SetLastSigned(signed bool) {
	s.lastSigned = signed
}

// LastFloat tells whether the last value is a floating point bit pattern
func (s *Store) LastFloat() bool {
	return s.lastFloat
}

func (s *Store) SetLastFloat(float bool) {
	s.lastFloat = float
}
