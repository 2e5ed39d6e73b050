// Completion: 100% - System compiler driver complete
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/xyproto/env/v2"

	"github.com/xyproto/tb/internal/diag"
)

// DefaultDriver is used when neither a driver nor TB_CC is given
const DefaultDriver = "gcc"

// ErrDriverNotFound is returned when the compiler driver is not on the PATH
var ErrDriverNotFound = errors.New("compiler driver not found")

// Driver assembles and links generated assembly with a C compiler driver,
// so the C runtime supplies the entry point and printf
type Driver struct {
	Path  string
	Flags []string
}

// FindDriver locates name on the PATH. An empty name falls back to TB_CC
// and then to gcc.
func FindDriver(name string) (*Driver, error) {
	if name == "" {
		name = env.Str("TB_CC", DefaultDriver)
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, &diag.CompilerError{
			Level:    diag.LevelFatal,
			Category: diag.CategoryToolchain,
			Message:  fmt.Sprintf("%s: %v", name, ErrDriverNotFound),
			Cause:    ErrDriverNotFound,
			Context: diag.ErrorContext{
				HelpText: "Install gcc or clang, or point TB_CC at a compiler driver",
			},
		}
	}
	d := &Driver{Path: path, Flags: strings.Fields(env.Str("TB_CFLAGS"))}
	diag.Debugf("toolchain", "using %s %v", d.Path, d.Flags)
	return d, nil
}

// Version returns the first line of the driver's --version output
func (d *Driver) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, d.Path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", d.Path, err)
	}
	first, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(first), nil
}

// Compile assembles and links the assembly file asmPath into output
func (d *Driver) Compile(ctx context.Context, asmPath, output string, extra ...string) error {
	args := append([]string{asmPath, "-o", output}, d.Flags...)
	args = append(args, extra...)
	diag.Debugf("toolchain", "%s %s", d.Path, strings.Join(args, " "))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.Path, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &diag.CompilerError{
			Level:    diag.LevelError,
			Category: diag.CategoryToolchain,
			Message:  fmt.Sprintf("%s failed: %s", filepath.Base(d.Path), strings.TrimSpace(stderr.String())),
			Cause:    err,
		}
	}
	return nil
}

// Build links asm into output. With keepAsm the assembly is written next to
// output and its path is returned, otherwise a temporary file is used.
func (d *Driver) Build(ctx context.Context, asm, output string, keepAsm bool) (asmPath string, err error) {
	if keepAsm {
		asmPath = strings.TrimSuffix(output, filepath.Ext(output)) + ".s"
		if err := os.WriteFile(asmPath, []byte(asm), 0o644); err != nil {
			return "", err
		}
	} else {
		f, err := os.CreateTemp("", "tb-*.s")
		if err != nil {
			return "", err
		}
		asmPath = f.Name()
		defer os.Remove(asmPath)
		if _, err := f.WriteString(asm); err != nil {
			f.Close()
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", err
		}
	}
	err = d.Compile(ctx, asmPath, output)
	if !keepAsm {
		asmPath = ""
	}
	return asmPath, err
}

// Run executes a built program, returning its exit code. A non-zero exit
// code is not an error.
func Run(ctx context.Context, path string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}
