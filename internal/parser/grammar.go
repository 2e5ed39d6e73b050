// Completion: 100% - Grammar complete
package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// grammar.go - the textual form of a program
//
//	fn sum(a: i64, b: i64) {
//	    result = add(a, b)
//	    return result
//	}
//	fn main() {
//	    total = call sum(20, 12)
//	    print "Total value: %d", total
//	    return 0
//	}
//
// Statements end at a newline or a semicolon.

var tbLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `(?:#|//)[^\n]*`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?(?:_?[iuf]\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Ellipsis", Pattern: `\.\.\.`},
	{Name: "Punct", Pattern: `[(){},=:]`},
	{Name: "Sep", Pattern: `[\n;]`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
})

var tbParser = participle.MustBuild[tbFile](
	participle.Lexer(tbLexer),
	participle.Unquote("String"),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(2),
)

type tbFile struct {
	Functions []*tbFunction `( @@ | Sep )*`
}

type tbFunction struct {
	Pos lexer.Position

	Name   string     `"fn" @Ident`
	Params []*tbParam `"(" ( @@ ( "," @@ )* )? ")"`
	Body   *tbBlock   `@@`
}

type tbParam struct {
	Pos lexer.Position

	Name string `@Ident ":"`
	Type string `@Ident`
}

type tbBlock struct {
	Statements []*tbStatement `"{" ( @@ | Sep )* "}"`
}

type tbStatement struct {
	Pos lexer.Position

	If     *tbIf     `  @@`
	Print  *tbPrint  `| @@`
	Return *tbReturn `| @@`
	Call   *tbCall   `| @@`
	Assign *tbAssign `| @@`
}

type tbIf struct {
	Cond *tbCondition `"if" @@`
	Then *tbBlock     `@@`
	Else *tbBlock     `( "else" @@ )?`
}

type tbPrint struct {
	Format string     `"print" @String`
	Args   []*tbValue `( "," @@ )*`
}

type tbReturn struct {
	Value *tbValue `"return" @@?`
}

type tbCall struct {
	Pos lexer.Position

	Variadic bool       `"call" @Ellipsis?`
	Name     string     `@Ident`
	Args     []*tbValue `"(" ( @@ ( "," @@ )* )? ")"`
}

type tbAssign struct {
	Name string  `@Ident "="`
	Call *tbCall `( @@`
	Expr *tbExpr `| @@ )`
}

type tbExpr struct {
	Pos lexer.Position

	Op    string     `( @Ident "("`
	Args  []*tbValue `  @@ ( "," @@ )* ")" )`
	Value *tbValue   `| @@`
}

type tbCondition struct {
	Pos lexer.Position

	Kind  string   `@Ident "("`
	Left  *tbValue `@@ ","`
	Right *tbValue `@@ ")"`
}

type tbValue struct {
	Pos lexer.Position

	Number *string `  @Number`
	Bool   *string `| @( "true" | "false" )`
	String *string `| @String`
	Name   *string `| @Ident`
}
