// Completion: 95% - CLI interface complete, all flags working
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/xyproto/env/v2"

	"github.com/xyproto/tb/internal/diag"
	"github.com/xyproto/tb/internal/engine"
)

// A tiny x86-64 assembly generator for Linux, macOS, FreeBSD and Windows

const versionString = "tb 1.0.0"

func main() {
	host := engine.HostPlatform()

	// NOTE: Go's flag package stops parsing at the first non-flag argument,
	// so flags must come before the subcommand: tb -v run prog.tb
	var osFlag = flag.String("os", env.Str("TB_OS", host.OS.String()), "target OS (linux, darwin, freebsd, windows)")
	var outputFlag = flag.String("o", "", "output executable filename")
	var outputLongFlag = flag.String("output", "", "output executable filename")
	var keepAsm = flag.Bool("S", env.Bool("TB_KEEP_ASM"), "keep the generated assembly next to the executable")
	var ccFlag = flag.String("cc", "", "C compiler driver used to assemble and link (default: $TB_CC or gcc)")
	var cflagsFlag = flag.String("cflags", "", "extra flags for the compiler driver")
	var verbose = flag.Bool("v", false, "verbose mode (show build messages and compiler internals)")
	var verboseLong = flag.Bool("verbose", false, "verbose mode (show build messages and compiler internals)")
	var versionShort = flag.Bool("V", false, "print version information and exit")
	var version = flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *version || *versionShort {
		fmt.Println(versionString)
		os.Exit(0)
	}

	diag.VerboseMode = *verbose || *verboseLong || env.Bool("TB_VERBOSE")
	diag.UseColor = isTerminal(os.Stderr)

	targetOS, err := engine.ParseOS(*osFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Invalid --os '%s': %v\n", *osFlag, err)
		os.Exit(1)
	}

	outputPath := *outputFlag
	if outputPath == "" {
		outputPath = *outputLongFlag
	}

	// Auto-detect Windows target from .exe extension if no OS was given
	osExplicitlyProvided := env.Str("TB_OS") != ""
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "os" {
			osExplicitlyProvided = true
		}
	})
	if !osExplicitlyProvided && strings.HasSuffix(strings.ToLower(outputPath), ".exe") {
		targetOS = engine.OSWindows
		diag.Debugf("main", "auto-detected Windows target from %s", outputPath)
	}

	ctx := &CommandContext{
		Platform:   engine.Platform{Arch: engine.ArchX86_64, OS: targetOS},
		Verbose:    diag.VerboseMode,
		KeepAsm:    *keepAsm,
		Driver:     *ccFlag,
		CFlags:     strings.Fields(*cflagsFlag),
		OutputPath: outputPath,
		Stdout:     os.Stdout,
	}
	diag.Debugf("main", "%s targeting %s", versionString, ctx.Platform.FullString())

	err = RunCLI(ctx, flag.Args())
	var code exitCode
	switch {
	case errors.As(err, &code):
		os.Exit(int(code))
	case err != nil:
		reportError(err, diag.UseColor)
		os.Exit(1)
	}
}

// isTerminal reports whether f is a character device
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// reportError prints compiler errors with their source context, and
// anything else as a plain message
func reportError(err error, useColor bool) {
	var ce *diag.CompilerError
	if !errors.As(err, &ce) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	collector := diag.NewErrorCollector(0)
	for _, e := range unjoin(err) {
		collector.Add(e)
	}
	fmt.Fprint(os.Stderr, collector.Report(useColor))
}

func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
