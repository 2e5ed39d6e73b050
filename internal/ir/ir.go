// Completion: 100% - Intermediate representation complete
package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// EntryPoint is the function name that is emitted under the target's entry symbol
const EntryPoint = "main"

// Value is an operand of an expression, condition or statement:
// a Variable, a Number or a Str.
type Value interface {
	fmt.Stringer
	isValue()
}

// Variable refers to a named stack slot of the current function
type Variable string

// Str is a string literal, interned into the read-only data section
type Str string

func (Variable) isValue() {}
func (Number) isValue()   {}
func (Str) isValue()      {}

func (v Variable) String() string { return string(v) }
func (s Str) String() string      { return strconv.Quote(string(s)) }

// Op is the operation of an Expression
type Op int

const (
	OpValue Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpModulo
	OpShiftLeft
	OpShiftRight
	OpBitwiseAnd
	OpBitwiseOr
	OpBitwiseXor
	OpBitwiseNot
	OpNeg
	OpInc
	OpDec
)

var opNames = [...]string{"value", "add", "sub", "mul", "div", "mod", "shl", "shr", "and", "or", "xor", "not", "neg", "inc", "dec"}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "unknown"
	}
	return opNames[o]
}

// Binary reports whether the operation reads both Source and Target
func (o Op) Binary() bool {
	return o >= OpAdd && o <= OpBitwiseXor
}

// Unary reports whether the operation reads only Source
func (o Op) Unary() bool {
	return o >= OpBitwiseNot && o <= OpDec
}

// Expression computes a value. Binary operations compute Target <op> Source,
// so Sub{Source: 3, Target: 10} is 10 - 3 and Div/Modulo take the divisor as
// Source and the dividend as Target. Unary operations and OpValue use Source only.
type Expression struct {
	Op     Op
	Source Value
	Target Value
}

func (e Expression) String() string {
	switch {
	case e.Op == OpValue:
		return fmt.Sprint(e.Source)
	case e.Op.Unary():
		return fmt.Sprintf("%s(%v)", e.Op, e.Source)
	}
	return fmt.Sprintf("%s(%v, %v)", e.Op, e.Source, e.Target)
}

// Comparison is the kind of a Condition
type Comparison int

const (
	Eq Comparison = iota
	Ne
	Gr
	Ge
	Ls
	Le
)

var comparisonNames = [...]string{"eq", "ne", "gr", "ge", "ls", "le"}

func (c Comparison) String() string {
	if c < 0 || int(c) >= len(comparisonNames) {
		return "unknown"
	}
	return comparisonNames[c]
}

// Negate returns the comparison that holds exactly when c does not
func (c Comparison) Negate() Comparison {
	switch c {
	case Eq:
		return Ne
	case Ne:
		return Eq
	case Gr:
		return Le
	case Ge:
		return Ls
	case Ls:
		return Ge
	default:
		return Gr
	}
}

// Condition compares Left against Right
type Condition struct {
	Kind  Comparison
	Left  Value
	Right Value
}

func (c Condition) String() string {
	return fmt.Sprintf("%s(%v, %v)", c.Kind, c.Left, c.Right)
}

// Statement is one of Assign, If, Print, Call or Return
type Statement interface {
	isStatement()
}

// Assign stores the result of Expr into the variable Name, creating it on first use
type Assign struct {
	Name string
	Expr Expression
}

// If runs True when Cond holds, otherwise False. A nil False means there is no else branch.
type If struct {
	Cond  Condition
	True  Block
	False Block
}

// Print calls the platform's printf with Format prepended to Args
type Print struct {
	Format string
	Args   []Value
}

// Call invokes Name with Args. The result is stored in AssignTo unless it is empty.
type Call struct {
	Name     string
	Args     []Value
	AssignTo string
	Variadic bool
}

// Return leaves the function. Value may be nil.
type Return struct {
	Value Value
}

func (Assign) isStatement() {}
func (If) isStatement()     {}
func (Print) isStatement()  {}
func (Call) isStatement()   {}
func (Return) isStatement() {}

// Block is an ordered list of statements, executed in order
type Block []Statement

// Parameter is a named, typed function parameter
type Parameter struct {
	Name string
	Type NumberType
}

func (p Parameter) String() string {
	return p.Name + ": " + p.Type.String()
}

// Definition is a top level item. Function is the only kind.
type Definition interface {
	DefinitionName() string
}

// Function is a compiled routine
type Function struct {
	Name   string
	Params []Parameter
	Body   Block
}

func (f Function) DefinitionName() string {
	return f.Name
}

func (f Function) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("fn %s(%s) [%d statements]", f.Name, strings.Join(params, ", "), len(f.Body))
}

// DataKind tells how a data chunk is emitted
type DataKind int

const (
	DataString DataKind = iota
	DataBytes
)

// DataChunk is one literal inside a labeled data item
type DataChunk struct {
	Kind  DataKind
	Text  string
	Bytes []byte
}

// Data is a labeled list of read-only literals
type Data struct {
	Label  string
	Chunks []DataChunk
}
