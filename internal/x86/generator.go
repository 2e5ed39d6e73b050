// Completion: 100% - Assembly generator complete
package x86

import (
	"errors"
	"fmt"

	"github.com/xyproto/tb/internal/diag"
	"github.com/xyproto/tb/internal/engine"
	"github.com/xyproto/tb/internal/ir"
	"github.com/xyproto/tb/internal/osdefs"
)

// AssemblyGenerator compiles definitions into GNU assembler source for one platform
type AssemblyGenerator struct {
	OS osdefs.Defs
	CC CallingConvention
}

// NewAssemblyGenerator returns a generator for p
func NewAssemblyGenerator(p engine.Platform) *AssemblyGenerator {
	return &AssemblyGenerator{
		OS: osdefs.For(p.OS),
		CC: CallingConventionFor(p.OS),
	}
}

// Generate compiles every definition and renders the program. Errors of
// all functions are collected before giving up.
func (g *AssemblyGenerator) Generate(definitions []ir.Definition, data []ir.Data) (string, error) {
	ctx := NewApplicationContext(g.OS, g.CC)
	for _, item := range data {
		ctx.Data.AddData(item)
	}

	collector := diag.NewErrorCollector(0)
	for _, def := range definitions {
		fc, err := compileDefinition(ctx, def)
		if err != nil {
			var ce *diag.CompilerError
			if errors.As(err, &ce) {
				err = ce.InFunction(def.DefinitionName())
			}
			collector.Add(err)
			if collector.ShouldStop() {
				break
			}
			continue
		}
		if diag.VerboseMode {
			diag.Dump("x86", "variables of "+fc.name, fc.store.Variables())
		}
	}
	if err := collector.Err(); err != nil {
		return "", err
	}

	if unresolved := ctx.Instructions.UnresolvedJumps(); len(unresolved) > 0 {
		return "", diag.FatalError(fmt.Sprintf("unresolved jumps at positions %v", unresolved), ErrUnexpectedInstruction)
	}

	return NewSyntaxGenerator(ctx).Render(), nil
}
