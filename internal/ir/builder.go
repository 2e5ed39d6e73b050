// Completion: 100% - Builder API complete
package ir

// builder.go - programmatic construction of definitions
//
// The helpers keep the operand order used by the rest of the pipeline:
// Add(source, target) computes target + source and Modulo(divisor, dividend)
// computes dividend % divisor.

// Generator turns definitions and pre-seeded data into assembly text
type Generator interface {
	Generate(definitions []Definition, data []Data) (string, error)
}

// Application collects the functions and data items of one program
type Application struct {
	definitions []Definition
	data        []Data
}

// NewApplication creates an empty application
func NewApplication() *Application {
	return &Application{}
}

// AddFunction appends a function definition
func (a *Application) AddFunction(f *FunctionBuilder) *Application {
	a.definitions = append(a.definitions, f.Build())
	return a
}

// AddDefinition appends an already built definition
func (a *Application) AddDefinition(d Definition) *Application {
	a.definitions = append(a.definitions, d)
	return a
}

// AddStringData appends a string literal to the data item with the given label
func (a *Application) AddStringData(label, text string) {
	a.addChunk(label, DataChunk{Kind: DataString, Text: text})
}

// AddByteData appends raw bytes to the data item with the given label
func (a *Application) AddByteData(label string, data ...byte) {
	a.addChunk(label, DataChunk{Kind: DataBytes, Bytes: append([]byte(nil), data...)})
}

func (a *Application) addChunk(label string, chunk DataChunk) {
	for i := range a.data {
		if a.data[i].Label == label {
			a.data[i].Chunks = append(a.data[i].Chunks, chunk)
			return
		}
	}
	a.data = append(a.data, Data{Label: label, Chunks: []DataChunk{chunk}})
}

// Definitions returns the collected definitions in insertion order
func (a *Application) Definitions() []Definition {
	return a.definitions
}

// Data returns the pre-seeded data items in insertion order
func (a *Application) Data() []Data {
	return a.data
}

// Build renders the application with the given generator
func (a *Application) Build(g Generator) (string, error) {
	return g.Generate(a.definitions, a.data)
}

// FunctionBuilder assembles a Function
type FunctionBuilder struct {
	fn Function
}

// NewFunction starts a function with the given name
func NewFunction(name string) *FunctionBuilder {
	return &FunctionBuilder{fn: Function{Name: name}}
}

// Main starts the program entry function
func Main() *FunctionBuilder {
	return NewFunction(EntryPoint)
}

func (f *FunctionBuilder) SetName(name string) *FunctionBuilder {
	f.fn.Name = name
	return f
}

func (f *FunctionBuilder) AddParameter(name string, t NumberType) *FunctionBuilder {
	f.fn.Params = append(f.fn.Params, Parameter{Name: name, Type: t})
	return f
}

func (f *FunctionBuilder) SetBody(b *BlockBuilder) *FunctionBuilder {
	f.fn.Body = b.Build()
	return f
}

func (f *FunctionBuilder) Build() Function {
	return f.fn
}

// BlockBuilder appends statements in execution order
type BlockBuilder struct {
	items Block
}

func NewBlock() *BlockBuilder {
	return &BlockBuilder{items: Block{}}
}

func (b *BlockBuilder) AddAssign(name string, e Expression) *BlockBuilder {
	b.items = append(b.items, Assign{Name: name, Expr: e})
	return b
}

// AddIf appends a conditional. Pass a nil elseBlock for an if without else.
func (b *BlockBuilder) AddIf(c Condition, thenBlock, elseBlock *BlockBuilder) *BlockBuilder {
	stmt := If{Cond: c, True: thenBlock.Build()}
	if elseBlock != nil {
		stmt.False = elseBlock.Build()
	}
	b.items = append(b.items, stmt)
	return b
}

func (b *BlockBuilder) AddPrint(format string, args ...Value) *BlockBuilder {
	b.items = append(b.items, Print{Format: format, Args: args})
	return b
}

func (b *BlockBuilder) AddCall(name string, args ...Value) *BlockBuilder {
	b.items = append(b.items, Call{Name: name, Args: args})
	return b
}

func (b *BlockBuilder) AddVariadicCall(name string, args ...Value) *BlockBuilder {
	b.items = append(b.items, Call{Name: name, Args: args, Variadic: true})
	return b
}

func (b *BlockBuilder) AddCallAndAssign(name string, args []Value, assignTo string) *BlockBuilder {
	b.items = append(b.items, Call{Name: name, Args: args, AssignTo: assignTo})
	return b
}

func (b *BlockBuilder) AddReturn() *BlockBuilder {
	b.items = append(b.items, Return{})
	return b
}

func (b *BlockBuilder) AddReturnNumber(n Number) *BlockBuilder {
	b.items = append(b.items, Return{Value: n})
	return b
}

func (b *BlockBuilder) AddReturnVariable(name string) *BlockBuilder {
	b.items = append(b.items, Return{Value: Variable(name)})
	return b
}

func (b *BlockBuilder) AddReturnString(s string) *BlockBuilder {
	b.items = append(b.items, Return{Value: Str(s)})
	return b
}

func (b *BlockBuilder) Build() Block {
	return append(Block{}, b.items...)
}

func Val(v Value) Expression                { return Expression{Op: OpValue, Source: v} }
func Add(source, target Value) Expression   { return Expression{OpAdd, source, target} }
func Sub(source, target Value) Expression   { return Expression{OpSub, source, target} }
func Mul(source, target Value) Expression   { return Expression{OpMul, source, target} }
func Div(divisor, dividend Value) Expression { return Expression{OpDiv, divisor, dividend} }
func Modulo(divisor, dividend Value) Expression {
	return Expression{OpModulo, divisor, dividend}
}
func ShiftLeft(count, target Value) Expression  { return Expression{OpShiftLeft, count, target} }
func ShiftRight(count, target Value) Expression { return Expression{OpShiftRight, count, target} }
func BitwiseAnd(source, target Value) Expression {
	return Expression{OpBitwiseAnd, source, target}
}
func BitwiseOr(source, target Value) Expression {
	return Expression{OpBitwiseOr, source, target}
}
func BitwiseXor(source, target Value) Expression {
	return Expression{OpBitwiseXor, source, target}
}
func BitwiseNot(source Value) Expression { return Expression{Op: OpBitwiseNot, Source: source} }
func Neg(source Value) Expression        { return Expression{Op: OpNeg, Source: source} }
func Inc(source Value) Expression        { return Expression{Op: OpInc, Source: source} }
func Dec(source Value) Expression        { return Expression{Op: OpDec, Source: source} }

func Equal(left, right Value) Condition          { return Condition{Eq, left, right} }
func NotEqual(left, right Value) Condition       { return Condition{Ne, left, right} }
func Greater(left, right Value) Condition        { return Condition{Gr, left, right} }
func GreaterOrEqual(left, right Value) Condition { return Condition{Ge, left, right} }
func Less(left, right Value) Condition           { return Condition{Ls, left, right} }
func LessOrEqual(left, right Value) Condition    { return Condition{Le, left, right} }
