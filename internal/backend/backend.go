package backend

import (
	"github.com/cedar-lang/cedar/internal/ast"
	"github.com/cedar-lang/cedar/internal/diagnostic"
)

// Info is the static descriptive metadata for a code generator. It is
// constant per backend instance.
type Info struct {
	Name         string
	Description  string
	Version      string
	Features     []string
	Dependencies []string
}

// Options is the configuration bound to a backend at Initialize time.
// Recognized keys are backend-specific; unrecognized keys are ignored.
type Options map[string]string

// Backend is the interface that all code generation backends implement.
//
// A backend instance is stateless across calls except for the per-call
// emission buffer and import set, which every Generate variant resets.
// Instances must not be shared between concurrent generation calls.
type Backend interface {
	// Info returns the backend's static metadata.
	Info() Info
	// TargetName returns the target identity (e.g., "javascript", "go").
	TargetName() string
	// FileExtension returns the output file extension including the dot.
	FileExtension() string

	// Initialize binds configuration and a diagnostics sink. It may be
	// called again to replace both.
	Initialize(opts Options, diag *diagnostic.Diagnostics)

	// CanGenerate scans the program for constructs the backend cannot
	// faithfully represent, reporting a warning per occurrence. It returns
	// false only for constructs the backend considers fatal.
	CanGenerate(prog *ast.Program, diag *diagnostic.Diagnostics) bool

	// Generate produces target text for a single program. Calling it twice
	// with the same program yields byte-identical text.
	//
	// rootNamespace and className override the program-derived identity
	// where the rendered output can express it (the Go target's package
	// clause, for instance). A backend whose output has no place for an
	// override ignores it; the native compile pipeline honors both when
	// resolving an artifact's entry point.
	Generate(prog *ast.Program, diag *diagnostic.Diagnostics, rootNamespace, className string) string

	// GenerateCombined produces a single unit aggregating the deduplicated,
	// sorted imports of all programs followed by each program's body in
	// input order.
	GenerateCombined(progs []*ast.Program, diag *diagnostic.Diagnostics, rootNamespace, className string) string

	// GenerateWithoutUsings produces target text with the import block
	// omitted, for callers that assemble imports themselves. Targets with
	// no distinct import concept return the same text as Generate.
	GenerateWithoutUsings(prog *ast.Program, diag *diagnostic.Diagnostics, rootNamespace, className string) string

	// CollectedUsings returns a sorted snapshot of the import set
	// accumulated by the most recent generation call.
	CollectedUsings() []string
}
