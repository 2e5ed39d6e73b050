package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/xyproto/tb/internal/engine"
)

const answerProgram = `fn main() {
    x = add(40, 2)
    return x
}
`

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.tb")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func testContext(osys engine.OS) (*CommandContext, *bytes.Buffer) {
	var out bytes.Buffer
	return &CommandContext{
		Platform: engine.Platform{Arch: engine.ArchX86_64, OS: osys},
		Stdout:   &out,
	}, &out
}

func TestAsmCommand(t *testing.T) {
	ctx, out := testContext(engine.OSLinux)
	if err := RunCLI(ctx, []string{"asm", writeSource(t, answerProgram)}); err != nil {
		t.Fatalf("asm failed: %v", err)
	}
	for _, want := range []string{".globl main", "main:", "add %r10d, %r11d", "ret"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("assembly should contain %q:\n%s", want, out)
		}
	}
}

func TestAsmCommandDarwin(t *testing.T) {
	ctx, out := testContext(engine.OSDarwin)
	if err := RunCLI(ctx, []string{"asm", writeSource(t, answerProgram)}); err != nil {
		t.Fatalf("asm failed: %v", err)
	}
	if !strings.Contains(out.String(), "_main:") {
		t.Errorf("expected _main on darwin:\n%s", out)
	}
}

func TestAsmCommandWritesFile(t *testing.T) {
	ctx, out := testContext(engine.OSLinux)
	dest := filepath.Join(t.TempDir(), "prog.s")
	if err := RunCLI(ctx, []string{"asm", writeSource(t, answerProgram), "-o", dest}); err != nil {
		t.Fatalf("asm failed: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be printed when writing to a file, got %q", out)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), ".text") {
		t.Errorf("unexpected file contents:\n%s", data)
	}
}

func TestCompileErrorsAreReturned(t *testing.T) {
	ctx, _ := testContext(engine.OSLinux)
	err := RunCLI(ctx, []string{"asm", writeSource(t, "fn main() {\n    return y\n}\n")})
	if err == nil || !strings.Contains(err.Error(), "variable 'y' not found") {
		t.Fatalf("expected an unknown variable error, got %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	ctx, _ := testContext(engine.OSLinux)
	err := RunCLI(ctx, []string{"frobnicate"})
	if err == nil || !strings.Contains(err.Error(), "unknown command: frobnicate") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestVersionAndHelp(t *testing.T) {
	ctx, out := testContext(engine.OSLinux)
	if err := RunCLI(ctx, []string{"version"}); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != versionString {
		t.Errorf("version = %q", out)
	}

	out.Reset()
	if err := RunCLI(ctx, nil); err != nil {
		t.Fatalf("help failed: %v", err)
	}
	if !strings.Contains(out.String(), "USAGE:") {
		t.Errorf("help output missing usage:\n%s", out)
	}
}

func TestParseBuildArgs(t *testing.T) {
	tests := []struct {
		args    []string
		input   string
		output  string
		wantErr bool
	}{
		{args: []string{"a.tb"}, input: "a.tb"},
		{args: []string{"a.tb", "-o", "app"}, input: "a.tb", output: "app"},
		{args: []string{"--output", "app", "a.tb"}, input: "a.tb", output: "app"},
		{args: []string{"a.tb", "-o"}, wantErr: true},
		{args: []string{"a.tb", "b.tb"}, wantErr: true},
		{args: []string{"-x", "a.tb"}, wantErr: true},
		{args: []string{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			input, output, err := parseBuildArgs(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error for %v", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseBuildArgs failed: %v", err)
			}
			if input != tt.input || output != tt.output {
				t.Errorf("got (%q, %q), want (%q, %q)", input, output, tt.input, tt.output)
			}
		})
	}
}

func TestOutputName(t *testing.T) {
	linux, _ := testContext(engine.OSLinux)
	if got := linux.outputName("dir/hello.tb", ""); got != "hello" {
		t.Errorf("outputName = %q, want hello", got)
	}
	windows, _ := testContext(engine.OSWindows)
	if got := windows.outputName("hello.tb", ""); got != "hello.exe" {
		t.Errorf("outputName = %q, want hello.exe", got)
	}
	windows.OutputPath = "app.exe"
	if got := windows.outputName("hello.tb", ""); got != "app.exe" {
		t.Errorf("outputName = %q, want app.exe", got)
	}
}

func TestRunPropagatesExitCode(t *testing.T) {
	if runtime.GOOS != "linux" || runtime.GOARCH != "amd64" {
		t.Skip("needs an x86-64 Linux host")
	}
	ctx, _ := testContext(engine.OSLinux)
	if _, err := ctx.driver(); err != nil {
		t.Skipf("no compiler driver: %v", err)
	}
	err := RunCLI(ctx, []string{"run", writeSource(t, answerProgram)})
	var code exitCode
	if !errors.As(err, &code) || code != 42 {
		t.Fatalf("expected exit status 42, got %v", err)
	}
}
