package x86

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/xyproto/tb/internal/engine"
	"github.com/xyproto/tb/internal/ir"
)

var linux = engine.Platform{Arch: engine.ArchX86_64, OS: engine.OSLinux}

func generate(t *testing.T, p engine.Platform, app *ir.Application) string {
	t.Helper()
	asm, err := app.Build(NewAssemblyGenerator(p))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return asm
}

// body returns the labels and instructions of function name, without comments
func body(t *testing.T, asm, name string) []string {
	t.Helper()
	var lines []string
	inside := false
	for _, line := range strings.Split(asm, "\n") {
		line = strings.TrimSpace(line)
		if i := strings.Index(line, " # "); i >= 0 {
			line = line[:i]
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == name+":" {
			inside = true
		}
		if !inside {
			continue
		}
		lines = append(lines, line)
		if line == "ret" {
			return lines
		}
	}
	t.Fatalf("function %s not found in:\n%s", name, asm)
	return nil
}

func expectBody(t *testing.T, asm, name string, want []string) {
	t.Helper()
	got := body(t, asm, name)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected code for %s\ngot:\n%s\nwant:\n%s", name, strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestAddAndReturn(t *testing.T) {
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddAssign("actual", ir.Add(ir.Int32(5), ir.Int32(3))).
		AddReturnVariable("actual")))

	expectBody(t, generate(t, linux, app), "main", []string{
		"main:",
		"pushq %rbp",
		"mov %rsp, %rbp",
		"subq $16, %rsp",
		"movl $5, %r10d",
		"movl $3, %r11d",
		"add %r10d, %r11d",
		"movl %r11d, -4(%rbp)",
		"movl -4(%rbp), %eax",
		"mov %rbp, %rsp",
		"popq %rbp",
		"ret",
	})
}

func TestIfElse(t *testing.T) {
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddIf(ir.NotEqual(ir.Int32(10), ir.Int32(10)),
			ir.NewBlock().AddAssign("test1", ir.Val(ir.Int32(1))),
			ir.NewBlock().AddAssign("test1", ir.Val(ir.Int32(0)))).
		AddReturnVariable("test1")))

	expectBody(t, generate(t, linux, app), "main", []string{
		"main:",
		"pushq %rbp",
		"mov %rsp, %rbp",
		"subq $16, %rsp",
		"movl $10, %r10d",
		"movl $10, %r11d",
		"cmp %r11d, %r10d",
		"je .L0",
		"movl $1, %r10d",
		"movl %r10d, -4(%rbp)",
		"jmp .L1",
		".L0:",
		"movl $0, %r10d",
		"movl %r10d, -4(%rbp)",
		".L1:",
		"movl -4(%rbp), %eax",
		"mov %rbp, %rsp",
		"popq %rbp",
		"ret",
	})
}

func TestIfWithoutElse(t *testing.T) {
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddAssign("x", ir.Val(ir.Uint8(1))).
		AddIf(ir.Less(ir.Variable("x"), ir.Uint8(2)),
			ir.NewBlock().AddAssign("x", ir.Val(ir.Uint8(7))), nil).
		AddReturnVariable("x")))

	got := body(t, generate(t, linux, app), "main")
	joined := strings.Join(got, "\n")
	// unsigned operands compare with the unsigned condition codes
	if !strings.Contains(joined, "jae .L0") {
		t.Errorf("expected an unsigned skip jump, got:\n%s", joined)
	}
	if strings.Contains(joined, "jmp") {
		t.Errorf("an if without else needs no unconditional jump:\n%s", joined)
	}
	if !strings.Contains(joined, "movzbl -1(%rbp), %r10d") {
		t.Errorf("expected the byte variable to be zero extended, got:\n%s", joined)
	}
}

func TestCallAndPrint(t *testing.T) {
	app := ir.NewApplication().
		AddFunction(ir.NewFunction("sum").
			AddParameter("a", ir.I64).
			AddParameter("b", ir.I64).
			SetBody(ir.NewBlock().
				AddAssign("result", ir.Add(ir.Variable("a"), ir.Variable("b"))).
				AddReturnVariable("result"))).
		AddFunction(ir.Main().SetBody(ir.NewBlock().
			AddCallAndAssign("sum", []ir.Value{ir.Int32(20), ir.Int32(12)}, "total").
			AddPrint("Total value: %d", ir.Variable("total")).
			AddReturnNumber(ir.Int32(0))))

	asm := generate(t, linux, app)

	expectBody(t, asm, "sum", []string{
		"sum:",
		"pushq %rbp",
		"mov %rsp, %rbp",
		"subq $32, %rsp",
		"movq %rsi, -8(%rbp)",
		"movq %rdi, -16(%rbp)",
		"movq -8(%rbp), %r10",
		"movq -16(%rbp), %r11",
		"add %r11, %r10",
		"movq %r10, -24(%rbp)",
		"movq -24(%rbp), %rax",
		"mov %rbp, %rsp",
		"popq %rbp",
		"ret",
	})

	expectBody(t, asm, "main", []string{
		"main:",
		"pushq %rbp",
		"mov %rsp, %rbp",
		"subq $16, %rsp",
		"movq $12, %rsi",
		"movq $20, %rdi",
		"call sum",
		"movq %rax, -8(%rbp)",
		"movq -8(%rbp), %rsi",
		"leaq LC0(%rip), %rdi",
		"movl $0, %eax",
		"call printf",
		"movl $0, %eax",
		"mov %rbp, %rsp",
		"popq %rbp",
		"ret",
	})

	if !strings.Contains(asm, ".section .rodata\nLC0:\n    .string \"Total value: %d\"\n") {
		t.Errorf("missing format string in data section:\n%s", asm)
	}
}

func TestBitwiseNotKeepsNaturalWidth(t *testing.T) {
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddAssign("actual", ir.BitwiseNot(ir.Uint64(4294967292))).
		AddReturnVariable("actual")))

	expectBody(t, generate(t, linux, app), "main", []string{
		"main:",
		"pushq %rbp",
		"mov %rsp, %rbp",
		"subq $16, %rsp",
		"movq $4294967292, %r10",
		"notq %r10",
		"movq %r10, -8(%rbp)",
		"movq -8(%rbp), %rax",
		"mov %rbp, %rsp",
		"popq %rbp",
		"ret",
	})
}

func TestModuloPlacement(t *testing.T) {
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddAssign("actual", ir.Modulo(ir.Int32(3), ir.Int32(10))).
		AddReturnVariable("actual")))

	expectBody(t, generate(t, linux, app), "main", []string{
		"main:",
		"pushq %rbp",
		"mov %rsp, %rbp",
		"subq $16, %rsp",
		"movl $10, %eax",
		"movl $3, %ecx",
		"cltd",
		"idivl %ecx",
		"movl %edx, -4(%rbp)",
		"movl -4(%rbp), %eax",
		"mov %rbp, %rsp",
		"popq %rbp",
		"ret",
	})
}

func TestUnsignedDivision(t *testing.T) {
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddAssign("q", ir.Div(ir.Uint64(3), ir.Uint64(10))).
		AddReturnVariable("q")))

	got := strings.Join(body(t, generate(t, linux, app), "main"), "\n")
	want := "movq $10, %rax\nmovq $3, %rcx\nxor %edx, %edx\ndivq %rcx\nmovq %rax, -8(%rbp)"
	if !strings.Contains(got, want) {
		t.Errorf("expected\n%s\nin\n%s", want, got)
	}
}

func TestShiftUsesCL(t *testing.T) {
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddAssign("x", ir.ShiftRight(ir.Int32(2), ir.Int32(-64))).
		AddReturnVariable("x")))

	got := strings.Join(body(t, generate(t, linux, app), "main"), "\n")
	if !strings.Contains(got, "movb $2, %cl") || !strings.Contains(got, "sar %cl, %r10d") {
		t.Errorf("expected an arithmetic shift by %%cl, got:\n%s", got)
	}
}

func TestEarlyReturnJumpsToEpilogue(t *testing.T) {
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddIf(ir.Equal(ir.Int32(1), ir.Int32(1)), ir.NewBlock().AddReturnNumber(ir.Int32(4)), nil).
		AddReturnNumber(ir.Int32(5))))

	got := body(t, generate(t, linux, app), "main")
	joined := strings.Join(got, "\n")
	if !strings.Contains(joined, "jne .L1\nmovl $4, %eax\njmp .L0\n.L1:\nmovl $5, %eax\n.L0:\nmov %rbp, %rsp") {
		t.Errorf("unexpected early return layout:\n%s", joined)
	}
}

func TestNoStackReservationWithoutVariables(t *testing.T) {
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().AddReturnNumber(ir.Int32(0))))

	expectBody(t, generate(t, linux, app), "main", []string{
		"main:",
		"pushq %rbp",
		"mov %rsp, %rbp",
		"movl $0, %eax",
		"mov %rbp, %rsp",
		"popq %rbp",
		"ret",
	})
}

func TestStackArguments(t *testing.T) {
	args := []ir.Value{}
	for i := int32(1); i <= 7; i++ {
		args = append(args, ir.Int32(i))
	}
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddCall("seven", args...).
		AddReturnNumber(ir.Int32(0))))

	got := strings.Join(body(t, generate(t, linux, app), "main"), "\n")
	want := "subq $8, %rsp\npush $7\nmovq $6, %r9\nmovq $5, %r8\nmovq $4, %rcx\nmovq $3, %rdx\nmovq $2, %rsi\nmovq $1, %rdi\ncall seven\naddq $16, %rsp"
	if !strings.Contains(got, want) {
		t.Errorf("expected\n%s\nin\n%s", want, got)
	}
}

func TestStackParameters(t *testing.T) {
	f := ir.NewFunction("last")
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		f.AddParameter(name, ir.I32)
	}
	f.SetBody(ir.NewBlock().AddReturnVariable("g"))
	app := ir.NewApplication().AddFunction(f)

	got := strings.Join(body(t, generate(t, linux, app), "last"), "\n")
	if !strings.Contains(got, "movl 16(%rbp), %r10d\nmovl %r10d, -4(%rbp)") {
		t.Errorf("expected the seventh parameter to be read from the caller's frame:\n%s", got)
	}
	if !strings.Contains(got, "subq $32, %rsp") {
		t.Errorf("expected 28 bytes of slots rounded to 32:\n%s", got)
	}
}

func TestWindowsShadowSpace(t *testing.T) {
	windows := engine.Platform{Arch: engine.ArchX86_64, OS: engine.OSWindows}
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddPrint("%d\n", ir.Int32(1)).
		AddReturnNumber(ir.Int32(0))))

	asm := generate(t, windows, app)
	got := strings.Join(body(t, asm, "main"), "\n")
	want := "movq $1, %rdx\nleaq LC0(%rip), %rcx\nsubq $32, %rsp\nmovl $0, %eax\ncall printf\naddq $32, %rsp"
	if !strings.Contains(got, want) {
		t.Errorf("expected\n%s\nin\n%s", want, got)
	}
	if !strings.Contains(asm, ".section .rdata,\"dr\"") {
		t.Errorf("expected the Windows read-only section:\n%s", asm)
	}
	if !strings.Contains(asm, `.string "%d\012"`) {
		t.Errorf("expected the newline as an octal escape:\n%s", asm)
	}
}

func TestDarwinNaming(t *testing.T) {
	darwin := engine.Platform{Arch: engine.ArchX86_64, OS: engine.OSDarwin}
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddPrint("hi").
		AddReturnNumber(ir.Int32(0))))

	asm := generate(t, darwin, app)
	for _, want := range []string{".globl _main", "_main:", "call _printf", ".subsections_via_symbols"} {
		if !strings.Contains(asm, want) {
			t.Errorf("expected %q in:\n%s", want, asm)
		}
	}
}

func TestPreSeededData(t *testing.T) {
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddPrint("x").
		AddReturnNumber(ir.Int32(0))))
	app.AddByteData("LC0", 1, 2, 255)

	asm := generate(t, linux, app)
	if !strings.Contains(asm, "LC0:\n    .byte 1, 2, 255\nLC1:\n    .string \"x\"\n") {
		t.Errorf("expected the seeded label to be kept and the literal to get the next one:\n%s", asm)
	}
}

func TestUnknownVariable(t *testing.T) {
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddAssign("count", ir.Val(ir.Int32(1))).
		AddReturnVariable("cout")))

	_, err := app.Build(NewAssemblyGenerator(linux))
	if !errors.Is(err, ErrVariableNotFound) {
		t.Fatalf("expected ErrVariableNotFound, got %v", err)
	}
	for _, want := range []string{"in main", "cout", "did you mean 'count'?"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
}

func TestErrorsFromAllFunctionsAreCollected(t *testing.T) {
	app := ir.NewApplication().
		AddFunction(ir.NewFunction("first").SetBody(ir.NewBlock().AddReturnVariable("a"))).
		AddFunction(ir.NewFunction("second").SetBody(ir.NewBlock().AddReturnVariable("b")))

	_, err := app.Build(NewAssemblyGenerator(linux))
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []string{"in first", "in second"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
}

func TestFloatArithmeticIsRejected(t *testing.T) {
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddAssign("x", ir.Add(ir.Float64(1.5), ir.Float64(2))).
		AddReturnNumber(ir.Int32(0))))

	_, err := app.Build(NewAssemblyGenerator(linux))
	if !errors.Is(err, ErrUnexpectedInstruction) {
		t.Fatalf("expected ErrUnexpectedInstruction, got %v", err)
	}
}

func TestFloatMovesAsBitPattern(t *testing.T) {
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddAssign("f", ir.Val(ir.Float32(1))).
		AddReturnNumber(ir.Int32(0))))

	got := strings.Join(body(t, generate(t, linux, app), "main"), "\n")
	if !strings.Contains(got, "movl $1065353216, %r10d\nmovl %r10d, -4(%rbp)") {
		t.Errorf("expected the IEEE bits of 1.0f to be stored:\n%s", got)
	}
}

func TestAssignIntoNarrowerVariableTruncates(t *testing.T) {
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddAssign("b", ir.Val(ir.Int8(1))).
		AddAssign("b", ir.Val(ir.Int64(300))).
		AddReturnVariable("b")))

	got := strings.Join(body(t, generate(t, linux, app), "main"), "\n")
	for _, want := range []string{
		"movb $1, %r10b\nmovb %r10b, -1(%rbp)",
		"movq $300, %r10\nmovb %r10b, -1(%rbp)",
		"movsbl -1(%rbp), %eax",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected\n%s\nin\n%s", want, got)
		}
	}
}

func TestAssignIntoWiderVariableExtends(t *testing.T) {
	app := ir.NewApplication().AddFunction(ir.Main().SetBody(ir.NewBlock().
		AddAssign("w", ir.Val(ir.Int64(1))).
		AddAssign("w", ir.Val(ir.Int16(-2))).
		AddReturnVariable("w")))

	got := strings.Join(body(t, generate(t, linux, app), "main"), "\n")
	if !strings.Contains(got, "movw $-2, %r10w\nmovswq %r10w, %r10\nmovq %r10, -8(%rbp)") {
		t.Errorf("expected the word to be sign extended into the quadword slot:\n%s", got)
	}
}
