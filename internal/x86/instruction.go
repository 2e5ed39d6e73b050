// Completion: 100% - Instruction set complete
package x86

// Op identifies a concrete x86-64 instruction
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpIMul
	OpIDiv
	OpDiv
	OpAnd
	OpOr
	OpXor
	OpNot
	OpNeg
	OpInc
	OpDec
	OpShl
	OpShr
	OpSar
	OpCmp
	OpMov
	OpMovsx
	OpMovzx
	OpLea
	OpPush
	OpPop
	OpCall
	OpRet
	OpJmp
	OpJcc
	OpCltd
	OpCqto
)

// InstructionClass decides whether the renderer appends a size suffix
type InstructionClass int

const (
	// ClassData instructions take a b/w/l/q suffix derived from their register operands
	ClassData InstructionClass = iota
	// ClassOperation instructions carry their width in the mnemonic or need none
	ClassOperation
)

var opInfo = [...]struct {
	mnemonic string
	class    InstructionClass
}{
	OpAdd:   {"add", ClassData},
	OpSub:   {"sub", ClassData},
	OpIMul:  {"imul", ClassData},
	OpIDiv:  {"idiv", ClassData},
	OpDiv:   {"div", ClassData},
	OpAnd:   {"and", ClassData},
	OpOr:    {"or", ClassData},
	OpXor:   {"xor", ClassData},
	OpNot:   {"not", ClassData},
	OpNeg:   {"neg", ClassData},
	OpInc:   {"inc", ClassData},
	OpDec:   {"dec", ClassData},
	OpShl:   {"shl", ClassOperation},
	OpShr:   {"shr", ClassOperation},
	OpSar:   {"sar", ClassOperation},
	OpCmp:   {"cmp", ClassData},
	OpMov:   {"mov", ClassData},
	OpMovsx: {"movs", ClassOperation},
	OpMovzx: {"movz", ClassOperation},
	OpLea:   {"lea", ClassData},
	OpPush:  {"push", ClassData},
	OpPop:   {"pop", ClassData},
	OpCall:  {"call", ClassOperation},
	OpRet:   {"ret", ClassOperation},
	OpJmp:   {"jmp", ClassOperation},
	OpJcc:   {"j", ClassOperation},
	OpCltd:  {"cltd", ClassOperation},
	OpCqto:  {"cqto", ClassOperation},
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opInfo) {
		return "unknown"
	}
	return opInfo[o].mnemonic
}

// Instruction is one target instruction with typed operands. Two-operand
// instructions compute Target = Target <op> Source; single-operand ones use Target.
// Instructions are values; the collection replaces them wholesale when patching.
type Instruction struct {
	Op       Op
	Source   Location
	Target   Location
	Cond     JumpCondition // OpJcc
	FromSize Size          // source width of OpMovsx and OpMovzx
	Label    string        // OpCall, OpJmp and OpJcc
	Comment  string
}

// WithComment returns a copy of the instruction carrying a comment
func (i Instruction) WithComment(comment string) Instruction {
	i.Comment = comment
	return i
}

// IsJump reports whether the instruction transfers control to Label
func (i Instruction) IsJump() bool {
	return i.Op == OpJmp || i.Op == OpJcc
}

func binary(op Op, source, target Location) Instruction {
	return Instruction{Op: op, Source: source, Target: target}
}

func unary(op Op, target Location) Instruction {
	return Instruction{Op: op, Target: target}
}

func Add(source, target Location) Instruction  { return binary(OpAdd, source, target) }
func Sub(source, target Location) Instruction  { return binary(OpSub, source, target) }
func IMul(source, target Location) Instruction { return binary(OpIMul, source, target) }
func And(source, target Location) Instruction  { return binary(OpAnd, source, target) }
func Or(source, target Location) Instruction   { return binary(OpOr, source, target) }
func Xor(source, target Location) Instruction  { return binary(OpXor, source, target) }
func Shl(count, target Location) Instruction   { return binary(OpShl, count, target) }
func Shr(count, target Location) Instruction   { return binary(OpShr, count, target) }
func Sar(count, target Location) Instruction   { return binary(OpSar, count, target) }
func Cmp(right, left Location) Instruction     { return binary(OpCmp, right, left) }
func Mov(source, target Location) Instruction  { return binary(OpMov, source, target) }
func Lea(source, target Location) Instruction  { return binary(OpLea, source, target) }

func IDiv(divisor Location) Instruction { return unary(OpIDiv, divisor) }
func Div(divisor Location) Instruction  { return unary(OpDiv, divisor) }
func Not(target Location) Instruction   { return unary(OpNot, target) }
func Neg(target Location) Instruction   { return unary(OpNeg, target) }
func Inc(target Location) Instruction   { return unary(OpInc, target) }
func Dec(target Location) Instruction   { return unary(OpDec, target) }
func Push(target Location) Instruction  { return unary(OpPush, target) }
func Pop(target Location) Instruction   { return unary(OpPop, target) }

// Movsx sign-extends a from-byte source into the wider target register
func Movsx(source Location, from Size, target Register) Instruction {
	return Instruction{Op: OpMovsx, Source: source, Target: Reg(target), FromSize: from}
}

// Movzx zero-extends a from-byte source into the wider target register
func Movzx(source Location, from Size, target Register) Instruction {
	return Instruction{Op: OpMovzx, Source: source, Target: Reg(target), FromSize: from}
}

func Call(symbol string) Instruction { return Instruction{Op: OpCall, Label: symbol} }
func Ret() Instruction               { return Instruction{Op: OpRet} }
func Cltd() Instruction              { return Instruction{Op: OpCltd} }
func Cqto() Instruction              { return Instruction{Op: OpCqto} }

// Jmp jumps to label. An empty label marks a jump that is patched later.
func Jmp(label string) Instruction { return Instruction{Op: OpJmp, Label: label} }

// Jcc jumps to label when cond holds. An empty label marks a jump that is patched later.
func Jcc(cond JumpCondition, label string) Instruction {
	return Instruction{Op: OpJcc, Cond: cond, Label: label}
}

// AbstractInstruction is the flattened render form of an instruction
type AbstractInstruction struct {
	Mnemonic string
	Class    InstructionClass
	Target   Location
	Source1  Location
	Source2  Location
	Label    string
	Comment  string
}

// Convert flattens the instruction for the syntax generator
func (i Instruction) Convert() AbstractInstruction {
	info := opInfo[i.Op]
	ai := AbstractInstruction{
		Mnemonic: info.mnemonic,
		Class:    info.class,
		Target:   i.Target,
		Source1:  i.Source,
		Label:    i.Label,
		Comment:  i.Comment,
	}
	switch i.Op {
	case OpJcc:
		ai.Mnemonic = i.Cond.Mnemonic()
	case OpMovsx, OpMovzx:
		dst := QWord
		if r, ok := i.Target.Register(); ok {
			dst = r.Size
		}
		ai.Mnemonic += i.FromSize.Suffix() + dst.Suffix()
	}
	return ai
}
