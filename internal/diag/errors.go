// Completion: 100% - Error handling complete, clear and helpful messages
package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora/v4"
)

// ErrorLevel indicates the severity of an error
type ErrorLevel int

const (
	LevelWarning ErrorLevel = iota
	LevelError
	LevelFatal
)

func (l ErrorLevel) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal error"
	default:
		return "unknown"
	}
}

// ErrorCategory classifies the type of error
type ErrorCategory int

const (
	CategorySyntax ErrorCategory = iota
	CategorySemantic
	CategoryCodegen
	CategoryInternal
	CategoryToolchain
)

func (c ErrorCategory) String() string {
	switch c {
	case CategorySyntax:
		return "syntax"
	case CategorySemantic:
		return "semantic"
	case CategoryCodegen:
		return "codegen"
	case CategoryInternal:
		return "internal"
	case CategoryToolchain:
		return "toolchain"
	default:
		return "unknown"
	}
}

// SourceLocation represents a position in source code
type SourceLocation struct {
	File   string
	Line   int
	Column int
	Length int // Length of the problematic token/expression
}

func (loc SourceLocation) IsZero() bool {
	return loc.File == "" && loc.Line == 0
}

func (loc SourceLocation) String() string {
	if loc.File == "" {
		return fmt.Sprintf("%d:%d", loc.Line, loc.Column)
	}
	return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Column)
}

// ErrorContext provides additional context for an error
type ErrorContext struct {
	SourceLine string // The actual line of source code
	Function   string // The definition being compiled
	Suggestion string // "did you mean 'x'?"
	HelpText   string // Explanatory help text
}

// CompilerError represents a single compilation error
type CompilerError struct {
	Level    ErrorLevel
	Category ErrorCategory
	Message  string
	Location SourceLocation
	Context  ErrorContext
	Cause    error
}

// Error implements the error interface
func (e *CompilerError) Error() string {
	var sb strings.Builder
	if !e.Location.IsZero() {
		sb.WriteString(e.Location.String())
		sb.WriteString(": ")
	}
	if e.Context.Function != "" {
		sb.WriteString("in ")
		sb.WriteString(e.Context.Function)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.Context.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Context.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

// Unwrap exposes the sentinel cause to errors.Is
func (e *CompilerError) Unwrap() error {
	return e.Cause
}

// InFunction returns a copy of e annotated with the definition name
func (e *CompilerError) InFunction(name string) *CompilerError {
	c := *e
	c.Context.Function = name
	return &c
}

// Format returns a nicely formatted error message with context
func (e *CompilerError) Format(useColor bool) string {
	au := aurora.New(aurora.WithColors(useColor))
	var sb strings.Builder

	// Error header
	header := au.Bold(au.Red(e.Level.String() + ": "))
	if e.Level == LevelWarning {
		header = au.Bold(au.Yellow(e.Level.String() + ": "))
	}
	sb.WriteString(header.String())
	sb.WriteString(e.Message)
	sb.WriteString("\n")

	// Location
	if !e.Location.IsZero() || e.Context.Function != "" {
		where := e.Location.String()
		if e.Location.IsZero() {
			where = "fn " + e.Context.Function
		}
		sb.WriteString(au.Bold(au.Blue("  --> " + where)).String())
		sb.WriteString("\n")
	}

	// Source context
	if e.Context.SourceLine != "" {
		lineNum := fmt.Sprintf("%d", e.Location.Line)
		padding := strings.Repeat(" ", len(lineNum)+1)

		sb.WriteString(padding + "|\n")
		sb.WriteString(lineNum + " | " + e.Context.SourceLine + "\n")
		sb.WriteString(padding + "| ")

		// Underline the error position
		if e.Location.Column > 0 {
			sb.WriteString(strings.Repeat(" ", e.Location.Column-1))
			sb.WriteString(au.Bold(au.Red(strings.Repeat("^", max(e.Location.Length, 1)))).String())
			sb.WriteString("\n")
		}
	}

	if e.Context.Suggestion != "" {
		sb.WriteString(au.Bold(au.Green("   help: ")).String())
		sb.WriteString(e.Context.Suggestion + "\n")
	}

	if e.Context.HelpText != "" {
		sb.WriteString(au.Bold(au.Cyan("   note: ")).String())
		sb.WriteString(e.Context.HelpText + "\n")
	}

	return sb.String()
}

// ErrorCollector accumulates errors during compilation
type ErrorCollector struct {
	errors     []*CompilerError
	warnings   []*CompilerError
	maxErrors  int
	sourceCode string // Full source code for context
}

// NewErrorCollector creates a new error collector
func NewErrorCollector(maxErrors int) *ErrorCollector {
	if maxErrors <= 0 {
		maxErrors = 10 // Default: stop after 10 errors
	}
	return &ErrorCollector{maxErrors: maxErrors}
}

// SetSourceCode stores the source code for error context
func (ec *ErrorCollector) SetSourceCode(source string) {
	ec.sourceCode = source
}

// Add records err, wrapping plain errors as internal errors
func (ec *ErrorCollector) Add(err error) {
	if err == nil {
		return
	}
	var ce *CompilerError
	if !errors.As(err, &ce) {
		ce = &CompilerError{Level: LevelError, Category: CategoryInternal, Message: err.Error(), Cause: err}
	}
	ec.AddError(ce)
}

// AddError adds a compilation error
func (ec *ErrorCollector) AddError(err *CompilerError) {
	if err.Context.SourceLine == "" && ec.sourceCode != "" {
		err.Context.SourceLine = ec.getSourceLine(err.Location.Line)
	}

	if err.Level == LevelFatal || err.Level == LevelError {
		ec.errors = append(ec.errors, err)
	} else {
		ec.warnings = append(ec.warnings, err)
	}
}

// AddWarning adds a warning
func (ec *ErrorCollector) AddWarning(warn *CompilerError) {
	warn.Level = LevelWarning
	ec.AddError(warn)
}

// getSourceLine extracts a specific line from source code
func (ec *ErrorCollector) getSourceLine(lineNum int) string {
	if ec.sourceCode == "" || lineNum <= 0 {
		return ""
	}

	lines := strings.Split(ec.sourceCode, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// HasErrors returns true if any errors were collected
func (ec *ErrorCollector) HasErrors() bool {
	return len(ec.errors) > 0
}

// ErrorCount returns the number of errors
func (ec *ErrorCollector) ErrorCount() int {
	return len(ec.errors)
}

// WarningCount returns the number of warnings
func (ec *ErrorCollector) WarningCount() int {
	return len(ec.warnings)
}

// ShouldStop returns true if we've hit the error limit
func (ec *ErrorCollector) ShouldStop() bool {
	return len(ec.errors) >= ec.maxErrors
}

// Err joins the collected errors, or returns nil when there are none
func (ec *ErrorCollector) Err() error {
	if len(ec.errors) == 0 {
		return nil
	}
	errs := make([]error, len(ec.errors))
	for i, e := range ec.errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Report formats all errors and warnings for display
func (ec *ErrorCollector) Report(useColor bool) string {
	au := aurora.New(aurora.WithColors(useColor))
	var sb strings.Builder

	all := append(append([]*CompilerError{}, ec.errors...), ec.warnings...)
	for i, err := range all {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(err.Format(useColor))
	}

	// Summary
	if len(all) > 0 {
		sb.WriteString("\n")
		if len(ec.errors) > 0 {
			sb.WriteString(au.Bold(au.Red(fmt.Sprintf("%d error(s)", len(ec.errors)))).String())
		}
		if len(ec.warnings) > 0 {
			if len(ec.errors) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(au.Bold(au.Yellow(fmt.Sprintf("%d warning(s)", len(ec.warnings)))).String())
		}
		sb.WriteString(" found\n")
	}

	return sb.String()
}

// Clear resets the error collector
func (ec *ErrorCollector) Clear() {
	ec.errors = nil
	ec.warnings = nil
}

// SyntaxError creates a syntax error
func SyntaxError(message string, loc SourceLocation) *CompilerError {
	return &CompilerError{
		Level:    LevelError,
		Category: CategorySyntax,
		Message:  message,
		Location: loc,
	}
}

// FatalError creates a fatal internal error
func FatalError(message string, cause error) *CompilerError {
	return &CompilerError{
		Level:    LevelFatal,
		Category: CategoryInternal,
		Message:  message,
		Cause:    cause,
		Context: ErrorContext{
			HelpText: "This is an internal compiler error. Please report this bug.",
		},
	}
}
