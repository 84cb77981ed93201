package compiler

import (
	"fmt"
	"os"

	"github.com/cedar-lang/cedar/internal/ast"
	"github.com/cedar-lang/cedar/internal/backend"
	"github.com/cedar-lang/cedar/internal/diagnostic"
	"github.com/cedar-lang/cedar/internal/gobe"
)

// EmitToTarget generates target text for a single program and writes the
// output file. The returned diagnostics hold any non-fatal warnings.
func EmitToTarget(prog *ast.Program, target, baseName string, opts backend.Options) (*diagnostic.Diagnostics, error) {
	be, err := Lookup(target)
	if err != nil {
		return nil, err
	}

	diag := diagnostic.New()
	be.Initialize(opts, diag)
	if !be.CanGenerate(prog, diag) {
		return diag, fmt.Errorf("target %s cannot represent this program:\n%s", target, diag.Format(baseName))
	}

	code := be.Generate(prog, diag, "", "")
	outPath := baseName + be.FileExtension()
	if err := os.WriteFile(outPath, []byte(code), 0644); err != nil {
		return diag, fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("Wrote %s\n", outPath)
	return diag, nil
}

// EmitCombinedToTarget generates one output file aggregating several
// programs: merged imports first, then each body in input order.
func EmitCombinedToTarget(progs []*ast.Program, target, baseName string, opts backend.Options) (*diagnostic.Diagnostics, error) {
	be, err := Lookup(target)
	if err != nil {
		return nil, err
	}
	return emitCombined(be, progs, target, baseName, opts)
}

func emitCombined(be backend.Backend, progs []*ast.Program, target, baseName string, opts backend.Options) (*diagnostic.Diagnostics, error) {
	diag := diagnostic.New()
	be.Initialize(opts, diag)
	for _, prog := range progs {
		if !be.CanGenerate(prog, diag) {
			return diag, fmt.Errorf("target %s cannot represent this program:\n%s", target, diag.Format(baseName))
		}
	}

	code := be.GenerateCombined(progs, diag, "", "")
	outPath := baseName + be.FileExtension()
	if err := os.WriteFile(outPath, []byte(code), 0644); err != nil {
		return diag, fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("Wrote %s (combined)\n", outPath)
	return diag, nil
}

// BuildNative generates Go source from the program and compiles it to an
// executable under the build subdirectory, without running it.
func BuildNative(prog *ast.Program, baseName, namespace, class, kind string) (*diagnostic.Diagnostics, error) {
	be := gobe.New()
	diag := diagnostic.New()
	be.Initialize(nil, diag)
	be.CanGenerate(prog, diag)

	src := be.Generate(prog, diag, namespace, class)
	if !be.CompileToExecutable(src, baseName, namespace, class, kind) {
		return diag, fmt.Errorf("native build failed:\n%s", diag.Format(baseName))
	}
	return diag, nil
}

// RunNative generates Go source from the program and compiles and executes
// it in-process, writing no files.
func RunNative(prog *ast.Program, namespace, class string) (*diagnostic.Diagnostics, error) {
	be := gobe.New()
	diag := diagnostic.New()
	be.Initialize(nil, diag)
	be.CanGenerate(prog, diag)

	src := be.Generate(prog, diag, namespace, class)
	if !be.CompileAndRun(src, "", namespace, class, "Exe") {
		return diag, fmt.Errorf("native run failed:\n%s", diag.Format("input"))
	}
	return diag, nil
}
