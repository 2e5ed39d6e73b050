// Completion: 100% - Numeric literal model complete
package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumberType is the storage type of a numeric literal or parameter
type NumberType int

const (
	I8 NumberType = iota
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	F32
	F64
	Bool
)

var numberTypeNames = [...]string{"i8", "u8", "i16", "u16", "i32", "u32", "i64", "u64", "f32", "f64", "bool"}

func (t NumberType) String() string {
	if t < 0 || int(t) >= len(numberTypeNames) {
		return "unknown"
	}
	return numberTypeNames[t]
}

// Size returns the natural width of the type in bytes
func (t NumberType) Size() int {
	switch t {
	case I8, U8, Bool:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32:
		return 4
	default:
		return 8
	}
}

// Signed reports whether arithmetic on the type is two's complement signed
func (t NumberType) Signed() bool {
	switch t {
	case I8, I16, I32, I64:
		return true
	}
	return false
}

// Float reports whether the type is an IEEE 754 floating point type
func (t NumberType) Float() bool {
	return t == F32 || t == F64
}

// ParseNumberType parses a type name such as "i64" or "u8"
func ParseNumberType(s string) (NumberType, error) {
	for i, name := range numberTypeNames {
		if strings.EqualFold(s, name) {
			return NumberType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown number type: %s (supported: %s)", s, strings.Join(numberTypeNames[:], ", "))
}

// Number is a typed numeric literal. Bits holds the raw value, truncated
// to the width of Type; floats are stored as their IEEE bit pattern.
type Number struct {
	Type NumberType
	Bits uint64
}

func Int8(v int8) Number       { return Number{I8, uint64(uint8(v))} }
func Uint8(v uint8) Number     { return Number{U8, uint64(v)} }
func Int16(v int16) Number     { return Number{I16, uint64(uint16(v))} }
func Uint16(v uint16) Number   { return Number{U16, uint64(v)} }
func Int32(v int32) Number     { return Number{I32, uint64(uint32(v))} }
func Uint32(v uint32) Number   { return Number{U32, uint64(v)} }
func Int64(v int64) Number     { return Number{I64, uint64(v)} }
func Uint64(v uint64) Number   { return Number{U64, v} }
func Float32(v float32) Number { return Number{F32, uint64(math.Float32bits(v))} }
func Float64(v float64) Number { return Number{F64, math.Float64bits(v)} }

func Boolean(v bool) Number {
	if v {
		return Number{Bool, 1}
	}
	return Number{Bool, 0}
}

// Size returns the natural width of the literal in bytes
func (n Number) Size() int {
	return n.Type.Size()
}

// Int64 returns the value sign- or zero-extended to 64 bits according to its type
func (n Number) Int64() int64 {
	switch n.Type {
	case I8:
		return int64(int8(n.Bits))
	case I16:
		return int64(int16(n.Bits))
	case I32:
		return int64(int32(n.Bits))
	case U8, Bool:
		return int64(uint8(n.Bits))
	case U16:
		return int64(uint16(n.Bits))
	case U32, F32:
		return int64(uint32(n.Bits))
	}
	return int64(n.Bits)
}

// Immediate renders the literal the way an assembler immediate expects it
func (n Number) Immediate() string {
	if n.Type == U64 || n.Type == F64 {
		return strconv.FormatUint(n.Bits, 10)
	}
	return strconv.FormatInt(n.Int64(), 10)
}

func (n Number) String() string {
	switch n.Type {
	case F32:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(n.Bits))), 'g', -1, 32) + "f32"
	case F64:
		return strconv.FormatFloat(math.Float64frombits(n.Bits), 'g', -1, 64) + "f64"
	case Bool:
		if n.Bits != 0 {
			return "true"
		}
		return "false"
	}
	return n.Immediate() + n.Type.String()
}
