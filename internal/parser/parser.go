// Completion: 100% - Front end complete
package parser

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/samber/lo"

	"github.com/xyproto/tb/internal/diag"
	"github.com/xyproto/tb/internal/engine"
	"github.com/xyproto/tb/internal/ir"
)

var (
	binaryOps = map[string]func(source, target ir.Value) ir.Expression{
		"add": ir.Add,
		"sub": ir.Sub,
		"mul": ir.Mul,
		"div": ir.Div,
		"mod": ir.Modulo,
		"shl": ir.ShiftLeft,
		"shr": ir.ShiftRight,
		"and": ir.BitwiseAnd,
		"or":  ir.BitwiseOr,
		"xor": ir.BitwiseXor,
	}
	unaryOps = map[string]func(ir.Value) ir.Expression{
		"not": ir.BitwiseNot,
		"neg": ir.Neg,
		"inc": ir.Inc,
		"dec": ir.Dec,
	}
	comparisons = map[string]ir.Comparison{
		"eq": ir.Eq,
		"ne": ir.Ne,
		"gr": ir.Gr,
		"ge": ir.Ge,
		"ls": ir.Ls,
		"le": ir.Le,
	}
)

// ParseFile reads and parses a program from path
func ParseFile(path string) (*ir.Application, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, string(src))
}

// Parse turns program text into an application. filename is only used in
// error positions.
func Parse(filename, source string) (*ir.Application, error) {
	diag.Debugf("parser", "parsing %s (%d bytes)", filename, len(source))

	file, err := tbParser.ParseString(filename, source)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, diag.SyntaxError(perr.Message(), location(perr.Position()))
		}
		return nil, diag.SyntaxError(err.Error(), diag.SourceLocation{File: filename})
	}

	collector := diag.NewErrorCollector(0)
	collector.SetSourceCode(source)

	app := ir.NewApplication()
	seen := make(map[string]bool)
	for _, fn := range file.Functions {
		if seen[fn.Name] {
			collector.AddError(diag.SyntaxError(fmt.Sprintf("function '%s' is defined twice", fn.Name), location(fn.Pos)))
			continue
		}
		seen[fn.Name] = true

		def, err := convertFunction(fn)
		if err != nil {
			collector.Add(err)
			continue
		}
		app.AddDefinition(def)
	}
	if err := collector.Err(); err != nil {
		return nil, err
	}

	if diag.VerboseMode {
		diag.Dump("parser", "definitions", app.Definitions())
	}
	return app, nil
}

func location(pos lexer.Position) diag.SourceLocation {
	return diag.SourceLocation{File: pos.Filename, Line: pos.Line, Column: pos.Column}
}

func convertFunction(fn *tbFunction) (ir.Function, error) {
	f := ir.Function{Name: fn.Name}
	for _, p := range fn.Params {
		t, err := ir.ParseNumberType(p.Type)
		if err != nil {
			return f, diag.SyntaxError(err.Error(), location(p.Pos))
		}
		f.Params = append(f.Params, ir.Parameter{Name: p.Name, Type: t})
	}
	body, err := convertBlock(fn.Body)
	if err != nil {
		return f, err
	}
	f.Body = body
	return f, nil
}

func convertBlock(b *tbBlock) (ir.Block, error) {
	block := ir.Block{}
	for _, s := range b.Statements {
		stmt, err := convertStatement(s)
		if err != nil {
			return nil, err
		}
		block = append(block, stmt)
	}
	return block, nil
}

func convertStatement(s *tbStatement) (ir.Statement, error) {
	switch {
	case s.If != nil:
		cond, err := convertCondition(s.If.Cond)
		if err != nil {
			return nil, err
		}
		then, err := convertBlock(s.If.Then)
		if err != nil {
			return nil, err
		}
		stmt := ir.If{Cond: cond, True: then}
		if s.If.Else != nil {
			if stmt.False, err = convertBlock(s.If.Else); err != nil {
				return nil, err
			}
		}
		return stmt, nil

	case s.Print != nil:
		args, err := convertValues(s.Print.Args)
		if err != nil {
			return nil, err
		}
		return ir.Print{Format: s.Print.Format, Args: args}, nil

	case s.Return != nil:
		if s.Return.Value == nil {
			return ir.Return{}, nil
		}
		v, err := convertValue(s.Return.Value)
		if err != nil {
			return nil, err
		}
		return ir.Return{Value: v}, nil

	case s.Call != nil:
		return convertCall(s.Call, "")

	case s.Assign != nil:
		if s.Assign.Call != nil {
			return convertCall(s.Assign.Call, s.Assign.Name)
		}
		e, err := convertExpression(s.Assign.Expr)
		if err != nil {
			return nil, err
		}
		return ir.Assign{Name: s.Assign.Name, Expr: e}, nil
	}
	return nil, diag.SyntaxError("empty statement", location(s.Pos))
}

func convertCall(c *tbCall, assignTo string) (ir.Statement, error) {
	args, err := convertValues(c.Args)
	if err != nil {
		return nil, err
	}
	return ir.Call{Name: c.Name, Args: args, AssignTo: assignTo, Variadic: c.Variadic}, nil
}

func convertExpression(e *tbExpr) (ir.Expression, error) {
	if e.Value != nil {
		v, err := convertValue(e.Value)
		return ir.Val(v), err
	}

	args, err := convertValues(e.Args)
	if err != nil {
		return ir.Expression{}, err
	}
	if op, ok := binaryOps[e.Op]; ok {
		if len(args) != 2 {
			return ir.Expression{}, arityError(e.Op, 2, len(args), e.Pos)
		}
		return op(args[0], args[1]), nil
	}
	if op, ok := unaryOps[e.Op]; ok {
		if len(args) != 1 {
			return ir.Expression{}, arityError(e.Op, 1, len(args), e.Pos)
		}
		return op(args[0]), nil
	}
	return ir.Expression{}, unknownName("operation", e.Op, append(lo.Keys(binaryOps), lo.Keys(unaryOps)...), e.Pos)
}

func convertCondition(c *tbCondition) (ir.Condition, error) {
	kind, ok := comparisons[c.Kind]
	if !ok {
		return ir.Condition{}, unknownName("comparison", c.Kind, lo.Keys(comparisons), c.Pos)
	}
	left, err := convertValue(c.Left)
	if err != nil {
		return ir.Condition{}, err
	}
	right, err := convertValue(c.Right)
	if err != nil {
		return ir.Condition{}, err
	}
	return ir.Condition{Kind: kind, Left: left, Right: right}, nil
}

func convertValues(values []*tbValue) ([]ir.Value, error) {
	out := make([]ir.Value, 0, len(values))
	for _, v := range values {
		value, err := convertValue(v)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

func convertValue(v *tbValue) (ir.Value, error) {
	switch {
	case v.Number != nil:
		n, err := ParseNumber(*v.Number)
		if err != nil {
			return nil, diag.SyntaxError(err.Error(), location(v.Pos))
		}
		return n, nil
	case v.Bool != nil:
		return ir.Boolean(*v.Bool == "true"), nil
	case v.String != nil:
		return ir.Str(*v.String), nil
	case v.Name != nil:
		return ir.Variable(*v.Name), nil
	}
	return nil, diag.SyntaxError("empty value", location(v.Pos))
}

// ParseNumber parses a literal such as 42, -1i8, 10u64, 4294967292_u64 or
// 1.5f32. Integers without a suffix are i32 when they fit, otherwise i64.
func ParseNumber(s string) (ir.Number, error) {
	digits, suffix := s, ""
	if i := strings.IndexAny(s, "iuf_"); i >= 0 {
		digits, suffix = s[:i], strings.TrimPrefix(s[i:], "_")
	}

	if suffix == "" {
		if strings.Contains(digits, ".") {
			suffix = "f64"
		} else if v, err := strconv.ParseInt(digits, 10, 64); err == nil && v >= math.MinInt32 && v <= math.MaxInt32 {
			return ir.Int32(int32(v)), nil
		} else {
			suffix = "i64"
		}
	}

	t, err := ir.ParseNumberType(suffix)
	if err != nil || t == ir.Bool {
		return ir.Number{}, fmt.Errorf("invalid number suffix in %s", s)
	}

	if t.Float() {
		f, err := strconv.ParseFloat(digits, t.Size()*8)
		if err != nil {
			return ir.Number{}, fmt.Errorf("invalid number %s", s)
		}
		if t == ir.F32 {
			return ir.Float32(float32(f)), nil
		}
		return ir.Float64(f), nil
	}

	bits := t.Size() * 8
	if t.Signed() {
		v, err := strconv.ParseInt(digits, 10, bits)
		if err != nil {
			return ir.Number{}, fmt.Errorf("%s does not fit in %s", digits, t)
		}
		return ir.Number{Type: t, Bits: uint64(v) & mask(bits)}, nil
	}
	v, err := strconv.ParseUint(digits, 10, bits)
	if err != nil {
		return ir.Number{}, fmt.Errorf("%s does not fit in %s", digits, t)
	}
	return ir.Number{Type: t, Bits: v}, nil
}

func mask(bits int) uint64 {
	if bits >= 64 {
		return math.MaxUint64
	}
	return 1<<bits - 1
}

func arityError(op string, want, got int, pos lexer.Position) error {
	return diag.SyntaxError(fmt.Sprintf("%s takes %d operand(s), got %d", op, want, got), location(pos))
}

func unknownName(what, name string, known []string, pos lexer.Position) error {
	err := diag.SyntaxError(fmt.Sprintf("unknown %s '%s'", what, name), location(pos))
	err.Context.Suggestion = engine.DidYouMean(name, known)
	return err
}
