// Completion: 100% - Expression compiler complete
package x86

import (
	"github.com/xyproto/tb/internal/ir"
)

// compileExpression emits e and leaves the result in the store's last
// assigned location
func (fc *FunctionCompiler) compileExpression(e ir.Expression) error {
	switch {
	case e.Op == ir.OpValue:
		return fc.compileValueExpression(e.Source)
	case e.Op == ir.OpDiv || e.Op == ir.OpModulo:
		return fc.compileDivision(e)
	case e.Op.Binary():
		return fc.compileBinary(e)
	case e.Op.Unary():
		return fc.compileUnary(e)
	}
	return UnexpectedInstruction("expression %s", e.Op)
}

func (fc *FunctionCompiler) compileValueExpression(v ir.Value) error {
	if s, ok := v.(ir.Str); ok {
		label := fc.ctx.Data.InternString(string(s))
		reg, err := fc.store.LockRegisterFor(QWord, label)
		if err != nil {
			return err
		}
		fc.emit(Lea(Label(label), Reg(reg)).WithComment("address of " + label))
		fc.setLast(Reg(reg), valueInfo{size: QWord})
		return nil
	}

	loc, err := fc.compileValue(v, Location{})
	if err != nil {
		return err
	}
	fc.store.SetLastAssignedLocation(loc)
	return nil
}

// binaryInfo returns the width both operands of e are computed at
func (fc *FunctionCompiler) binaryInfo(e ir.Expression) (valueInfo, error) {
	source, err := fc.describe(e.Source)
	if err != nil {
		return valueInfo{}, err
	}
	target, err := fc.describe(e.Target)
	if err != nil {
		return valueInfo{}, err
	}
	if source.float || target.float {
		return valueInfo{}, UnexpectedInstruction("%s on floating point operands", e.Op)
	}
	if _, ok := e.Source.(ir.Str); ok {
		return valueInfo{}, UnexpectedInstruction("%s on a string", e.Op)
	}
	if _, ok := e.Target.(ir.Str); ok {
		return valueInfo{}, UnexpectedInstruction("%s on a string", e.Op)
	}
	return valueInfo{
		size:   max(DWord, source.size, target.size),
		signed: source.signed && target.signed,
	}, nil
}

// toRegister makes loc a direct register of the given width
func (fc *FunctionCompiler) toRegister(loc Location, info valueInfo, size Size) (Register, error) {
	if r, ok := loc.Register(); ok && loc.IsDirectRegister() {
		if r.Size != size {
			fc.move(loc, r.Size, info.signed, Reg(r.Resize(size)), "widen operand")
		}
		return r.Resize(size), nil
	}
	reg, err := fc.store.LockRegister(size)
	if err != nil {
		return Register{}, err
	}
	fc.move(loc, info.size, info.signed, Reg(reg), "Move address to reg for calculation")
	return reg, nil
}

func (fc *FunctionCompiler) compileBinary(e ir.Expression) error {
	info, err := fc.binaryInfo(e)
	if err != nil {
		return err
	}
	sourceInfo, _ := fc.describe(e.Source)
	shift := e.Op == ir.OpShiftLeft || e.Op == ir.OpShiftRight

	registers := fc.store.RegisterBackup()

	var source Location
	if shift {
		// The count of a variable shift has to be in %cl
		if !fc.store.IsFree(RCX) {
			return NoRegisterAvailable(Byte)
		}
		fc.store.MarkRegister(RCX)
		fc.comment("Generate shift count")
		if source, err = fc.compileValue(e.Source, Reg(CL)); err != nil {
			return err
		}
	} else {
		fc.comment("Generate source value")
		if source, err = fc.compileValue(e.Source, Location{}); err != nil {
			return err
		}
	}

	fc.comment("Generate target value")
	target, err := fc.store.LockRegisterFor(info.size, e.Op.String())
	if err != nil {
		return err
	}
	if _, err := fc.compileValue(e.Target, Reg(target)); err != nil {
		return err
	}

	if !shift {
		reg, err := fc.toRegister(source, sourceInfo, info.size)
		if err != nil {
			return err
		}
		source = Reg(reg)
	}

	var inst Instruction
	switch e.Op {
	case ir.OpAdd:
		inst = Add(source, Reg(target))
	case ir.OpSub:
		inst = Sub(source, Reg(target))
	case ir.OpMul:
		inst = IMul(source, Reg(target))
	case ir.OpBitwiseAnd:
		inst = And(source, Reg(target))
	case ir.OpBitwiseOr:
		inst = Or(source, Reg(target))
	case ir.OpBitwiseXor:
		inst = Xor(source, Reg(target))
	case ir.OpShiftLeft:
		inst = Shl(source, Reg(target))
	case ir.OpShiftRight:
		if info.signed {
			inst = Sar(source, Reg(target))
		} else {
			inst = Shr(source, Reg(target))
		}
	default:
		return UnexpectedInstruction("binary expression %s", e.Op)
	}
	fc.emit(inst)

	fc.store.RegisterRestore(registers)
	fc.store.MarkRegister(target)
	fc.setLast(Reg(target), info)
	return nil
}

// compileDivision places the dividend in the accumulator and the divisor in
// %rcx; the quotient ends up in the accumulator, the remainder in %rdx
func (fc *FunctionCompiler) compileDivision(e ir.Expression) error {
	info, err := fc.binaryInfo(e)
	if err != nil {
		return err
	}

	registers := fc.store.RegisterBackup()
	for _, r := range []Register{RAX, RDX, RCX} {
		if !fc.store.IsFree(r) {
			return NoRegisterAvailable(info.size)
		}
		fc.store.MarkRegister(r)
	}

	accumulator := RAX.Resize(info.size)
	divisor := RCX.Resize(info.size)

	fc.comment("Generate dividend")
	if _, err := fc.compileValue(e.Target, Reg(accumulator)); err != nil {
		return err
	}
	fc.comment("Generate divisor")
	if _, err := fc.compileValue(e.Source, Reg(divisor)); err != nil {
		return err
	}

	if info.signed {
		if info.size == QWord {
			fc.emit(Cqto())
		} else {
			fc.emit(Cltd())
		}
		fc.emit(IDiv(Reg(divisor)))
	} else {
		fc.emit(Xor(Reg(EDX), Reg(EDX)))
		fc.emit(Div(Reg(divisor)))
	}

	result := accumulator
	if e.Op == ir.OpModulo {
		result = RDX.Resize(info.size)
	}

	fc.store.RegisterRestore(registers)
	fc.store.MarkRegister(result)
	fc.setLast(Reg(result), info)
	return nil
}

func (fc *FunctionCompiler) compileUnary(e ir.Expression) error {
	info, err := fc.describe(e.Source)
	if err != nil {
		return err
	}
	if info.float {
		return UnexpectedInstruction("%s on a floating point operand", e.Op)
	}
	if _, ok := e.Source.(ir.Str); ok {
		return UnexpectedInstruction("%s on a string", e.Op)
	}

	registers := fc.store.RegisterBackup()

	fc.comment("Generate source value")
	source, err := fc.compileValue(e.Source, Location{})
	if err != nil {
		return err
	}
	reg, err := fc.toRegister(source, info, info.size)
	if err != nil {
		return err
	}

	switch e.Op {
	case ir.OpBitwiseNot:
		fc.emit(Not(Reg(reg)))
	case ir.OpNeg:
		fc.emit(Neg(Reg(reg)))
	case ir.OpInc:
		fc.emit(Inc(Reg(reg)))
	case ir.OpDec:
		fc.emit(Dec(Reg(reg)))
	default:
		return UnexpectedInstruction("unary expression %s", e.Op)
	}

	fc.store.RegisterRestore(registers)
	fc.store.MarkRegister(reg)
	fc.setLast(Reg(reg), info)
	return nil
}
