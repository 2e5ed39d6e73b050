// Completion: 100% - Utility module complete
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xyproto/tb/internal/diag"
	"github.com/xyproto/tb/internal/engine"
	"github.com/xyproto/tb/internal/parser"
	"github.com/xyproto/tb/internal/toolchain"
	"github.com/xyproto/tb/internal/x86"
)

// cli.go - Go-like command-line interface for tb
//
//	tb build <file.tb>   compile to an executable
//	tb run <file.tb>     compile and run immediately
//	tb asm <file.tb>     print the generated assembly
//	tb <file.tb>         shorthand for build

const sourceExt = ".tb"

// CommandContext holds the execution context for a CLI command
type CommandContext struct {
	Platform   engine.Platform
	Verbose    bool
	KeepAsm    bool
	Driver     string
	CFlags     []string
	OutputPath string
	Stdout     io.Writer
}

// exitCode carries the exit status of a program started by 'tb run'
type exitCode int

func (c exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(c))
}

// RunCLI determines which command to run based on args
func RunCLI(ctx *CommandContext, args []string) error {
	if len(args) == 0 {
		return cmdHelp(ctx)
	}

	subcmd := args[0]
	switch subcmd {
	case "build":
		if len(args) < 2 {
			return fmt.Errorf("usage: tb build <file.tb> [-o output]")
		}
		return cmdBuild(ctx, args[1:])

	case "run":
		if len(args) < 2 {
			return fmt.Errorf("usage: tb run <file.tb> [args...]")
		}
		return cmdRun(ctx, args[1:])

	case "asm":
		if len(args) < 2 {
			return fmt.Errorf("usage: tb asm <file.tb>")
		}
		return cmdAsm(ctx, args[1:])

	case "help", "--help", "-h":
		return cmdHelp(ctx)

	case "version", "--version", "-V":
		fmt.Fprintln(ctx.Stdout, versionString)
		return nil

	default:
		if strings.HasSuffix(subcmd, sourceExt) {
			return cmdBuild(ctx, args)
		}
		return fmt.Errorf("unknown command: %s\n\nRun 'tb help' for usage information", subcmd)
	}
}

// generate parses a source file and returns the assembly for the target
func generate(ctx *CommandContext, path string) (string, error) {
	app, err := parser.ParseFile(path)
	if err != nil {
		return "", err
	}
	return app.Build(x86.NewAssemblyGenerator(ctx.Platform))
}

func (ctx *CommandContext) driver() (*toolchain.Driver, error) {
	d, err := toolchain.FindDriver(ctx.Driver)
	if err != nil {
		return nil, err
	}
	d.Flags = append(d.Flags, ctx.CFlags...)
	return d, nil
}

// parseBuildArgs picks the input file and an optional -o out of args
func parseBuildArgs(args []string) (input, output string, err error) {
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-o" || args[i] == "--output":
			if i+1 >= len(args) {
				return "", "", fmt.Errorf("%s needs a filename", args[i])
			}
			output = args[i+1]
			i++ // Skip the output filename
		case strings.HasPrefix(args[i], "-"):
			return "", "", fmt.Errorf("unknown flag: %s", args[i])
		case input != "":
			return "", "", fmt.Errorf("only one input file is supported, got %s and %s", input, args[i])
		default:
			input = args[i]
		}
	}
	if input == "" {
		return "", "", fmt.Errorf("no input file specified")
	}
	return input, output, nil
}

// outputName returns the executable name for input on the target platform
func (ctx *CommandContext) outputName(input, output string) string {
	if output == "" {
		output = ctx.OutputPath
	}
	if output == "" {
		output = strings.TrimSuffix(filepath.Base(input), sourceExt)
	}
	return ctx.Platform.ExecutableName(output)
}

// cmdBuild compiles a source file to an executable
func cmdBuild(ctx *CommandContext, args []string) error {
	input, output, err := parseBuildArgs(args)
	if err != nil {
		return err
	}
	output = ctx.outputName(input, output)

	if ctx.Verbose {
		fmt.Fprintf(os.Stderr, "Building %s -> %s\n", input, output)
	}

	asm, err := generate(ctx, input)
	if err != nil {
		return err
	}
	d, err := ctx.driver()
	if err != nil {
		return err
	}
	asmPath, err := d.Build(context.Background(), asm, output, ctx.KeepAsm)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		if asmPath != "" {
			fmt.Fprintf(os.Stderr, "Kept assembly: %s\n", asmPath)
		}
		fmt.Fprintf(os.Stderr, "Built: %s\n", output)
	}
	return nil
}

// cmdRun compiles a source file to a temporary directory and executes it
func cmdRun(ctx *CommandContext, args []string) error {
	input, programArgs := args[0], args[1:]
	if !ctx.Platform.CanExecute() {
		return fmt.Errorf("cannot run %s binaries on %s", ctx.Platform, engine.HostPlatform())
	}

	asm, err := generate(ctx, input)
	if err != nil {
		return err
	}
	d, err := ctx.driver()
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "tb-run-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	baseName := strings.TrimSuffix(filepath.Base(input), sourceExt)
	tmpExec := filepath.Join(tmpDir, ctx.Platform.ExecutableName(baseName))
	diag.Debugf("cli", "compiling %s -> %s", input, tmpExec)
	if _, err := d.Build(context.Background(), asm, tmpExec, false); err != nil {
		return err
	}

	diag.Debugf("cli", "running %s", tmpExec)
	code, err := toolchain.Run(context.Background(), tmpExec, programArgs...)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	if code != 0 {
		return exitCode(code)
	}
	return nil
}

// cmdAsm prints the generated assembly
func cmdAsm(ctx *CommandContext, args []string) error {
	input, output, err := parseBuildArgs(args)
	if err != nil {
		return err
	}
	asm, err := generate(ctx, input)
	if err != nil {
		return err
	}
	if output == "" {
		output = ctx.OutputPath
	}
	if output != "" {
		return os.WriteFile(output, []byte(asm), 0o644)
	}
	_, err = io.WriteString(ctx.Stdout, asm)
	return err
}

// cmdHelp shows usage information
func cmdHelp(ctx *CommandContext) error {
	fmt.Fprintf(ctx.Stdout, `%s - x86-64 assembly generator

USAGE:
    tb [flags] <command> [arguments]

COMMANDS:
    build <file.tb>       Compile a source file to an executable
    run <file.tb>         Compile and run a program immediately
    asm <file.tb>         Print the generated assembly (or write it with -o)
    help                  Show this help message
    version               Show version information

SHORTHAND:
    tb <file.tb>          Same as 'tb build <file.tb>'

FLAGS (must come before the command):
    -o, --output <file>   Output filename (default: input name without .tb)
    --os <os>             Target OS: linux, darwin, freebsd, windows (default: host)
    -S                    Keep the generated assembly next to the executable
    --cc <driver>         C compiler driver (default: $TB_CC or gcc)
    --cflags <flags>      Extra flags for the compiler driver
    -v, --verbose         Verbose mode (show detailed compilation info)
    -V, --version         Print version information

ENVIRONMENT:
    TB_OS, TB_VERBOSE, TB_KEEP_ASM, TB_CC, TB_CFLAGS

EXAMPLES:
    tb build hello.tb
    tb -o hello build hello.tb
    tb run hello.tb
    tb --os darwin asm hello.tb
`, versionString)
	return nil
}
