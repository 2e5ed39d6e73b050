package x86

import (
	"errors"
	"fmt"

	"github.com/xyproto/tb/internal/diag"
	"github.com/xyproto/tb/internal/engine"
)

var (
	ErrVariableNotFound      = errors.New("variable not found")
	ErrNoRegisterAvailable   = errors.New("no register available")
	ErrUnexpectedInstruction = errors.New("unexpected instruction")
)

// VariableNotFound reports a reference to an unbound name. known lists the
// names bound in the current function and feeds the suggestion.
func VariableNotFound(name string, known []string) error {
	return &diag.CompilerError{
		Level:    diag.LevelError,
		Category: diag.CategorySemantic,
		Message:  fmt.Sprintf("variable '%s' not found", name),
		Cause:    ErrVariableNotFound,
		Context: diag.ErrorContext{
			Suggestion: engine.DidYouMean(name, known),
			HelpText:   "Variables are created by their first assignment or bound as parameters",
		},
	}
}

// NoRegisterAvailable reports an exhausted scratch register pool
func NoRegisterAvailable(size Size) error {
	return &diag.CompilerError{
		Level:    diag.LevelError,
		Category: diag.CategoryCodegen,
		Message:  fmt.Sprintf("no %d-bit scratch register available", size.Bits()),
		Cause:    ErrNoRegisterAvailable,
		Context: diag.ErrorContext{
			HelpText: "Split the expression into several assignments",
		},
	}
}

// UnexpectedInstruction reports an operation the code generator cannot encode
func UnexpectedInstruction(format string, args ...any) error {
	return &diag.CompilerError{
		Level:    diag.LevelFatal,
		Category: diag.CategoryInternal,
		Message:  "unexpected instruction: " + fmt.Sprintf(format, args...),
		Cause:    ErrUnexpectedInstruction,
	}
}
