// Completion: 100% - Function definition compiler complete
package x86

import (
	"fmt"

	"github.com/xyproto/tb/internal/diag"
	"github.com/xyproto/tb/internal/ir"
)

// FunctionCompiler holds the state of one function while it is emitted
type FunctionCompiler struct {
	ctx   *ApplicationContext
	store *Store
	name  string

	// Label in front of the epilogue, created by the first early return
	retLabel string
}

func (fc *FunctionCompiler) emit(inst Instruction) int {
	return fc.ctx.Instructions.Add(inst)
}

func (fc *FunctionCompiler) comment(text string) {
	fc.ctx.Instructions.AddComment(text)
}

func (fc *FunctionCompiler) returnLabel() string {
	if fc.retLabel == "" {
		fc.retLabel = fc.ctx.CreateBranchLabel()
	}
	return fc.retLabel
}

// CompileDefinition appends the code of def to the context
func CompileDefinition(ctx *ApplicationContext, def ir.Definition) error {
	_, err := compileDefinition(ctx, def)
	return err
}

func compileDefinition(ctx *ApplicationContext, def ir.Definition) (*FunctionCompiler, error) {
	f, ok := def.(ir.Function)
	if !ok {
		return nil, UnexpectedInstruction("definition of type %T", def)
	}

	name := f.Name
	if name == ir.EntryPoint {
		name = ctx.OS.MainFunctionName()
	}
	fc := &FunctionCompiler{ctx: ctx, store: NewStore(ctx.CC), name: name}
	diag.Debugf("x86", "compiling %s as %s", f, name)

	ctx.Instructions.AddBranch(name)
	fc.emit(Push(Reg(RBP)))
	fc.emit(Mov(Reg(RSP), Reg(RBP)))

	reservePosition := fc.emit(Sub(ImmInt(0), Reg(RSP)).WithComment("reserve stack"))

	// Parameters are bound last to first so the first one ends up deepest
	if err := fc.bindParameters(f.Params); err != nil {
		return fc, err
	}

	fc.comment("function body begin")
	if err := fc.compileBlock(f.Body, true); err != nil {
		return fc, err
	}
	fc.comment("function body end")

	if fc.retLabel != "" {
		ctx.Instructions.AddBranch(fc.retLabel)
	}
	fc.emit(Mov(Reg(RBP), Reg(RSP)))
	fc.emit(Pop(Reg(RBP)))
	fc.emit(Ret())
	ctx.Instructions.AddBranchEnd()

	used := fc.store.StackSize()
	if used == 0 {
		return fc, ctx.Instructions.RemoveInstruction(reservePosition)
	}
	reserve := max(alignUp(used, ctx.CC.GetStackAlignment()), 16)
	return fc, ctx.Instructions.UpdateInstruction(reservePosition,
		Sub(ImmInt(int64(reserve)), Reg(RSP)).WithComment("reserve stack"))
}

func (fc *FunctionCompiler) bindParameters(params []ir.Parameter) error {
	cc := fc.ctx.CC
	for i := len(params) - 1; i >= 0; i-- {
		p := params[i]
		var variable Variable
		if p.Type.Float() {
			variable = fc.store.AddFloatVariable(p.Name, p.Type.Size())
		} else {
			variable = fc.store.AddVariable(p.Name, p.Type.Size(), p.Type.Signed())
		}
		width := variable.Width()

		if reg, ok := cc.GetIntegerArgReg(i); ok {
			fc.emit(Mov(Reg(reg.Resize(width)), variable.Location()).WithComment("parameter " + p.Name))
			continue
		}

		// Stack arguments sit above the return address and the saved frame pointer
		offset := 16 + cc.GetShadowSpaceSize() + (i-cc.IntegerArgCount())*8
		registers := fc.store.RegisterBackup()
		reg, err := fc.store.LockRegisterFor(width, p.Name)
		if err != nil {
			return err
		}
		fc.emit(Mov(Based(offset, RBP), Reg(reg)).WithComment(fmt.Sprintf("parameter %s from stack", p.Name)))
		fc.emit(Mov(Reg(reg), variable.Location()).WithComment("parameter " + p.Name))
		fc.store.RegisterRestore(registers)
	}
	return nil
}

func alignUp(n, alignment int) int {
	if alignment <= 0 {
		return n
	}
	return (n + alignment - 1) / alignment * alignment
}
