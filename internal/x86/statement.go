// Completion: 100% - Statement compiler complete
package x86

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/xyproto/tb/internal/ir"
)

// compileStatement emits one statement. tail is set for the last statement
// of the function body, where a return needs no jump to the epilogue.
func (fc *FunctionCompiler) compileStatement(s ir.Statement, tail bool) error {
	switch s := s.(type) {
	case ir.Assign:
		return fc.compileAssign(s)
	case ir.If:
		return fc.compileIf(s)
	case ir.Print:
		return fc.compilePrint(s)
	case ir.Call:
		return fc.compileCall(s)
	case ir.Return:
		return fc.compileReturn(s, tail)
	}
	return UnexpectedInstruction("statement of type %T", s)
}

func (fc *FunctionCompiler) compileAssign(s ir.Assign) error {
	existing, found := fc.store.FindVariable(s.Name)

	registers := fc.store.RegisterBackup()
	defer fc.store.RegisterRestore(registers)

	if err := fc.compileExpression(s.Expr); err != nil {
		return err
	}

	info := valueInfo{size: fc.store.LastSize(), signed: fc.store.LastSigned(), float: fc.store.LastFloat()}
	last := fc.store.LastAssignedLocation()
	reg, ok := last.Register()
	if !ok || !last.IsDirectRegister() {
		var err error
		if reg, err = fc.store.LockRegister(info.size); err != nil {
			return err
		}
		fc.move(last, info.size, info.signed, Reg(reg), "Move address to reg for calculation")
	}

	variable := existing
	if !found {
		if info.float {
			variable = fc.store.AddFloatVariable(s.Name, int(info.size))
		} else {
			variable = fc.store.AddVariable(s.Name, int(info.size), info.signed)
		}
	}

	// Fit the value to the slot: widen into a bigger slot, truncate into a smaller one
	if width := variable.Width(); width != reg.Size {
		if width > reg.Size {
			fc.move(Reg(reg), reg.Size, info.signed, Reg(reg.Resize(width)), "widen to "+s.Name)
		}
		reg = reg.Resize(width)
	}

	fc.emit(Mov(Reg(reg), variable.Location()).WithComment("assign " + s.Name))
	fc.store.SetLastAssignedLocation(variable.Location())
	fc.store.SetLastSize(variable.Width())
	return nil
}

func (fc *FunctionCompiler) compileIf(s ir.If) error {
	kind, signed, err := fc.compileCondition(s.Cond)
	if err != nil {
		return err
	}

	// Skip the true block when the condition does not hold
	skip := SkipJumpFor(kind, signed)
	jumpPosition := fc.emit(Jcc(skip, ""))

	if err := fc.compileBlock(s.True, false); err != nil {
		return err
	}

	if s.False == nil {
		endLabel := fc.ctx.CreateBranchLabel()
		fc.ctx.Instructions.AddBranch(endLabel)
		return fc.ctx.Instructions.UpdateInstruction(jumpPosition, Jcc(skip, endLabel))
	}

	exitPosition := fc.emit(Jmp(""))

	elseLabel := fc.ctx.CreateBranchLabel()
	fc.ctx.Instructions.AddBranch(elseLabel)
	if err := fc.compileBlock(s.False, false); err != nil {
		return err
	}

	endLabel := fc.ctx.CreateBranchLabel()
	fc.ctx.Instructions.AddBranch(endLabel)

	if err := fc.ctx.Instructions.UpdateInstruction(jumpPosition, Jcc(skip, elseLabel)); err != nil {
		return err
	}
	return fc.ctx.Instructions.UpdateInstruction(exitPosition, Jmp(endLabel))
}

func (fc *FunctionCompiler) compilePrint(s ir.Print) error {
	args := append([]ir.Value{ir.Str(s.Format)}, s.Args...)
	return fc.compileCall(ir.Call{
		Name:     fc.ctx.OS.PrintSymbolName(),
		Args:     args,
		Variadic: true,
	})
}

// compileCall places the arguments, calls name and optionally stores %rax
func (fc *FunctionCompiler) compileCall(s ir.Call) error {
	cc := fc.ctx.CC

	registers := fc.store.RegisterBackup()
	defer fc.store.RegisterRestore(registers)

	for _, arg := range s.Args {
		info, err := fc.describe(arg)
		if err != nil {
			return err
		}
		if info.float {
			return UnexpectedInstruction("floating point argument %s to %s", arg, s.Name)
		}
	}

	inRegisters := min(len(s.Args), cc.IntegerArgCount())
	onStack := len(s.Args) - inRegisters

	// Keep the stack 16-byte aligned at the call
	padding := lo.Ternary(onStack%2 == 1, 8, 0)
	if padding > 0 {
		fc.emit(Sub(ImmInt(int64(padding)), Reg(RSP)).WithComment("align stack arguments"))
	}

	for i := len(s.Args) - 1; i >= inRegisters; i-- {
		if err := fc.pushArgument(s.Args[i]); err != nil {
			return err
		}
	}

	for i := inRegisters - 1; i >= 0; i-- {
		reg, _ := cc.GetIntegerArgReg(i)
		fc.store.MarkRegister(reg)
		if err := fc.loadArgument(s.Args[i], reg); err != nil {
			return err
		}
	}

	shadow := cc.GetShadowSpaceSize()
	if shadow > 0 {
		fc.emit(Sub(ImmInt(int64(shadow)), Reg(RSP)).WithComment("shadow space"))
	}
	if s.Variadic {
		fc.emit(Mov(ImmInt(0), Reg(EAX)).WithComment("no vector registers used"))
	}
	fc.emit(Call(s.Name))

	if cleanup := shadow + onStack*8 + padding; cleanup > 0 {
		fc.emit(Add(ImmInt(int64(cleanup)), Reg(RSP)))
	}

	ret := cc.GetIntegerReturnReg()
	fc.setLast(Reg(ret), valueInfo{size: QWord, signed: true})

	if s.AssignTo == "" {
		return nil
	}
	variable := fc.store.AddVariable(s.AssignTo, int(QWord), true)
	fc.emit(Mov(Reg(ret.Resize(variable.Width())), variable.Location()).WithComment("assign " + s.AssignTo))
	fc.store.SetLastAssignedLocation(variable.Location())
	fc.store.SetLastSize(variable.Width())
	return nil
}

// loadArgument moves arg into a 64-bit argument register
func (fc *FunctionCompiler) loadArgument(arg ir.Value, reg Register) error {
	if s, ok := arg.(ir.Str); ok {
		label := fc.ctx.Data.InternString(string(s))
		fc.emit(Lea(Label(label), Reg(reg)))
		return nil
	}
	_, err := fc.compileValue(arg, Reg(reg))
	return err
}

// pushArgument pushes arg as one 8-byte stack slot
func (fc *FunctionCompiler) pushArgument(arg ir.Value) error {
	if n, ok := arg.(ir.Number); ok {
		if v := n.Int64(); n.Type != ir.U64 && v >= -1<<31 && v < 1<<31 {
			fc.emit(Push(Imm(n)))
			return nil
		}
	}

	registers := fc.store.RegisterBackup()
	defer fc.store.RegisterRestore(registers)

	reg, err := fc.store.LockRegisterFor(QWord, fmt.Sprintf("argument %v", arg))
	if err != nil {
		return err
	}
	if err := fc.loadArgument(arg, reg); err != nil {
		return err
	}
	fc.emit(Push(Reg(reg)))
	return nil
}

func (fc *FunctionCompiler) compileReturn(s ir.Return, tail bool) error {
	ret := fc.ctx.CC.GetIntegerReturnReg()

	switch v := s.Value.(type) {
	case nil:
	case ir.Variable:
		variable, err := fc.lookup(string(v))
		if err != nil {
			return err
		}
		width := variable.Width()
		fc.move(variable.Location(), width, variable.Signed, Reg(ret.Resize(max(DWord, width))), "return "+string(v))
	case ir.Number:
		fc.emit(Mov(Imm(v), Reg(ret.Resize(max(DWord, SizeOf(v.Size()))))).WithComment("return " + v.String()))
	case ir.Str:
		label := fc.ctx.Data.InternString(string(v))
		fc.emit(Lea(Label(label), Reg(ret)).WithComment("return " + label))
	default:
		return UnexpectedInstruction("return of %T", v)
	}

	if !tail {
		fc.emit(Jmp(fc.returnLabel()))
	}
	return nil
}
