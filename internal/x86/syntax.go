// Completion: 100% - AT&T syntax generator complete
package x86

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/xyproto/tb/internal/ir"
)

const indent = "    "

// SyntaxGenerator renders an ApplicationContext as GNU assembler source
type SyntaxGenerator struct {
	ctx      *ApplicationContext
	out      strings.Builder
	inBranch bool
}

// NewSyntaxGenerator creates a renderer for ctx
func NewSyntaxGenerator(ctx *ApplicationContext) *SyntaxGenerator {
	return &SyntaxGenerator{ctx: ctx}
}

// Render returns the complete assembly unit
func (g *SyntaxGenerator) Render() string {
	g.out.Reset()
	g.inBranch = false

	g.line(".globl " + g.ctx.OS.MainFunctionName())
	g.renderData()
	g.line(".text")
	for _, item := range g.ctx.Instructions.Items() {
		g.renderItem(item)
	}
	g.out.WriteString(g.ctx.OS.EndOfFileInstructions())
	return g.out.String()
}

func (g *SyntaxGenerator) line(s string) {
	g.out.WriteString(s)
	g.out.WriteByte('\n')
}

func (g *SyntaxGenerator) renderData() {
	if g.ctx.Data.Len() == 0 {
		return
	}
	g.line(g.ctx.OS.ReadonlyDataSectionHeader())
	for _, item := range g.ctx.Data.Items() {
		g.line(item.Label + ":")
		for _, chunk := range item.Chunks {
			g.line(indent + renderChunk(chunk))
		}
	}
}

func renderChunk(chunk ir.DataChunk) string {
	if chunk.Kind == ir.DataBytes {
		values := lo.Map(chunk.Bytes, func(b byte, _ int) string { return fmt.Sprint(b) })
		return ".byte " + strings.Join(values, ", ")
	}
	return `.string "` + EscapeString(chunk.Text) + `"`
}

// EscapeString quotes text for a .string directive. Backslashes and double
// quotes are escaped, control and non-ASCII bytes become octal escapes.
func EscapeString(text string) string {
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '"':
			sb.WriteString(`\"`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&sb, "\\%03o", c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func (g *SyntaxGenerator) renderItem(item Item) {
	switch item.Kind {
	case ItemBranch:
		g.line(item.Name + ":")
		g.inBranch = true
	case ItemBranchEnd:
		g.inBranch = false
	case ItemComment:
		g.line(lo.Ternary(g.inBranch, indent, "") + "# " + item.Name)
	case ItemInstruction:
		g.line(indent + RenderInstruction(item.Instruction))
	}
}

// RenderInstruction formats one instruction without indentation
func RenderInstruction(inst Instruction) string {
	ai := inst.Convert()

	var sb strings.Builder
	sb.WriteString(ai.Mnemonic)
	if ai.Class == ClassData {
		sb.WriteString(SizeSuffix(ai))
	}

	var operands []string
	if ai.Label != "" {
		operands = append(operands, ai.Label)
	}
	for _, op := range []Location{ai.Source1, ai.Source2, ai.Target} {
		if !op.IsNone() {
			operands = append(operands, op.String())
		}
	}
	if len(operands) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(operands, ", "))
	}
	if ai.Comment != "" {
		sb.WriteString(" # ")
		sb.WriteString(ai.Comment)
	}
	return sb.String()
}

// SizeSuffix returns the b/w/l/q suffix of a data movement instruction.
// It follows the narrower register operand and is omitted when two direct
// registers of the same width already imply it.
func SizeSuffix(ai AbstractInstruction) string {
	var regs []Location
	for _, op := range []Location{ai.Source1, ai.Source2, ai.Target} {
		if _, ok := op.Register(); ok {
			regs = append(regs, op)
		}
	}
	switch len(regs) {
	case 0:
		return ""
	case 1:
		return regs[0].Mode.Reg.Size.Suffix()
	}
	a, b := regs[0], regs[1]
	if a.IsDirectRegister() && b.IsDirectRegister() && a.Mode.Reg.Size == b.Mode.Reg.Size {
		return ""
	}
	return min(a.Mode.Reg.Size, b.Mode.Reg.Size).Suffix()
}
