// Completion: 100% - Platform naming complete
package osdefs

import "github.com/xyproto/tb/internal/engine"

// Defs are the symbol and section naming rules of a target operating system
type Defs interface {
	// MainFunctionName is the entry symbol the C runtime calls
	MainFunctionName() string
	// EndOfFileInstructions are directives appended after the last function
	EndOfFileInstructions() string
	// PrintSymbolName is the symbol of the formatted print routine
	PrintSymbolName() string
	// ReadonlyDataSectionHeader opens the section holding string and byte literals
	ReadonlyDataSectionHeader() string
}

type Linux struct{}

func (Linux) MainFunctionName() string { return "main" }
func (Linux) PrintSymbolName() string  { return "printf" }

func (Linux) EndOfFileInstructions() string {
	return ".ident \"tb\"\n.section .note.GNU-stack,\"\",@progbits\n"
}

func (Linux) ReadonlyDataSectionHeader() string {
	return ".section .rodata"
}

type FreeBSD struct{ Linux }

type Darwin struct{}

func (Darwin) MainFunctionName() string      { return "_main" }
func (Darwin) PrintSymbolName() string       { return "_printf" }
func (Darwin) EndOfFileInstructions() string { return ".subsections_via_symbols\n" }

func (Darwin) ReadonlyDataSectionHeader() string {
	return ".section __TEXT,__cstring,cstring_literals"
}

type Windows struct{}

func (Windows) MainFunctionName() string      { return "main" }
func (Windows) PrintSymbolName() string       { return "printf" }
func (Windows) EndOfFileInstructions() string { return "" }

func (Windows) ReadonlyDataSectionHeader() string {
	return ".section .rdata,\"dr\""
}

// For returns the naming rules for os
func For(os engine.OS) Defs {
	switch os {
	case engine.OSDarwin:
		return Darwin{}
	case engine.OSWindows:
		return Windows{}
	case engine.OSFreeBSD:
		return FreeBSD{}
	default:
		return Linux{}
	}
}
