// Completion: 100% - Value compiler complete
package x86

import (
	"github.com/xyproto/tb/internal/ir"
)

// valueInfo describes the storage of a value before it is compiled
type valueInfo struct {
	size   Size
	signed bool
	float  bool
}

func (fc *FunctionCompiler) lookup(name string) (Variable, error) {
	v, ok := fc.store.FindVariable(name)
	if !ok {
		return Variable{}, VariableNotFound(name, fc.store.VariableNames())
	}
	return v, nil
}

// describe returns the width and kind of v without emitting anything
func (fc *FunctionCompiler) describe(v ir.Value) (valueInfo, error) {
	switch v := v.(type) {
	case ir.Variable:
		variable, err := fc.lookup(string(v))
		if err != nil {
			return valueInfo{}, err
		}
		return valueInfo{size: variable.Width(), signed: variable.Signed, float: variable.Float}, nil
	case ir.Number:
		return valueInfo{size: SizeOf(v.Size()), signed: v.Type.Signed(), float: v.Type.Float()}, nil
	case ir.Str:
		return valueInfo{size: QWord}, nil
	}
	return valueInfo{}, UnexpectedInstruction("value of type %T", v)
}

func (fc *FunctionCompiler) setLast(loc Location, info valueInfo) {
	fc.store.SetLastAssignedLocation(loc)
	fc.store.SetLastSize(info.size)
	fc.store.SetLastSigned(info.signed)
	fc.store.SetLastFloat(info.float)
}

// compileValue resolves v to an operand. With a target the value is moved
// there; without one a variable resolves to its stack slot and a number is
// loaded into a scratch register of its natural width.
func (fc *FunctionCompiler) compileValue(v ir.Value, target Location) (Location, error) {
	switch v := v.(type) {
	case ir.Variable:
		variable, err := fc.lookup(string(v))
		if err != nil {
			return Location{}, err
		}
		fc.store.SetLastSize(variable.Width())
		fc.store.SetLastSigned(variable.Signed)
		fc.store.SetLastFloat(variable.Float)

		slot := variable.Location()
		if target.IsNone() {
			return slot, nil
		}
		fc.move(slot, variable.Width(), variable.Signed, target, "")
		return target, nil

	case ir.Number:
		size := SizeOf(v.Size())
		fc.store.SetLastSize(size)
		fc.store.SetLastSigned(v.Type.Signed())
		fc.store.SetLastFloat(v.Type.Float())

		if target.IsNone() {
			reg, err := fc.store.LockRegisterFor(size, v.String())
			if err != nil {
				return Location{}, err
			}
			target = Reg(reg)
		}
		fc.move(Imm(v), size, v.Type.Signed(), target, "")
		return target, nil

	case ir.Str:
		return Location{}, UnexpectedInstruction("string %s used as a computation operand", v)
	}
	return Location{}, UnexpectedInstruction("value of type %T", v)
}

// move copies a from-byte value at src into dst, sign or zero extending it
// when dst is a wider register and truncating it when dst is narrower
func (fc *FunctionCompiler) move(src Location, from Size, signed bool, dst Location, comment string) {
	reg, ok := dst.Register()
	if !ok || !dst.IsDirectRegister() {
		fc.emit(Mov(src, dst).WithComment(comment))
		return
	}
	to := reg.Size

	switch {
	case src.Kind == LocImm:
		fc.emit(Mov(Imm(fitImmediate(src.Imm, to)), dst).WithComment(comment))
	case src.IsDirectRegister() && src.Mode.Reg == reg:
		// already in place
	case from == to:
		fc.emit(Mov(src, dst).WithComment(comment))
	case from > to:
		if r, ok := src.Register(); ok && src.IsDirectRegister() {
			src = Reg(r.Resize(to))
		}
		fc.emit(Mov(src, dst).WithComment(comment))
	case signed:
		fc.emit(Movsx(src, from, reg).WithComment(comment))
	case from == DWord:
		// Writing a 32-bit register clears the upper half
		fc.emit(Mov(src, Reg(reg.Resize(DWord))).WithComment(comment))
	default:
		fc.emit(Movzx(src, from, reg).WithComment(comment))
	}
}

// fitImmediate truncates n when it is wider than the destination register
func fitImmediate(n ir.Number, to Size) ir.Number {
	if n.Size() <= int(to) {
		return n
	}
	signed := n.Type.Signed()
	switch to {
	case Byte:
		if signed {
			return ir.Int8(int8(n.Bits))
		}
		return ir.Uint8(uint8(n.Bits))
	case Word:
		if signed {
			return ir.Int16(int16(n.Bits))
		}
		return ir.Uint16(uint16(n.Bits))
	default:
		if signed {
			return ir.Int32(int32(n.Bits))
		}
		return ir.Uint32(uint32(n.Bits))
	}
}
