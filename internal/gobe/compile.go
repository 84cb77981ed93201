package gobe

import (
	"bytes"
	"fmt"
	goast "go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cedar-lang/cedar/internal/diagnostic"
)

// OutputKind selects the artifact produced by the compile pipeline.
type OutputKind int

const (
	// Exe produces an executable artifact whose entry point, when the
	// source confirms one, is the resolved qualified Main.
	Exe OutputKind = iota
	// Library produces a linkable artifact with no designated entry point.
	Library
)

// ParseOutputKind interprets the caller-supplied kind. "Library" matches
// case-insensitively; anything else selects Exe.
func ParseOutputKind(s string) OutputKind {
	if strings.EqualFold(s, "Library") {
		return Library
	}
	return Exe
}

func (k OutputKind) String() string {
	if k == Library {
		return "Library"
	}
	return "Exe"
}

// extension returns the on-disk artifact extension for the kind.
func (k OutputKind) extension() string {
	if k == Library {
		return ".a"
	}
	return ".bin"
}

// buildSubdir is the dedicated directory CompileToExecutable writes under.
const buildSubdir = "build"

// scratchModule names the throwaway module the host toolchain builds in.
const scratchModule = "cedarunit"

// CompileAndRun compiles sourceText, optionally persists the artifact to
// outputPath, and for executable output with a confirmed entry point runs
// it in-process. All failures are reported through the bound diagnostics
// sink; the return value is the sole success signal.
func (b *Backend) CompileAndRun(sourceText, outputPath, namespaceOverride, classOverride, outputKind string) (ok bool) {
	diag := b.reporter()
	defer func() {
		if r := recover(); r != nil {
			diag.Errorf("unexpected failure: %v", r)
			ok = false
		}
	}()

	info, err := ExtractSourceInfo(sourceText)
	if err != nil {
		diag.Errorf("%v", err)
		return false
	}
	kind := ParseOutputKind(outputKind)
	entryName := QualifiedEntryName(info, namespaceOverride, classOverride)

	if !typeCheck(sourceText, diag) {
		return false
	}
	diag.Infof("compiled %s as %s", entryName, kind)

	if outputPath != "" {
		bin, err := buildBinary(sourceText, info, kind)
		if err != nil {
			diag.Errorf("%v", err)
			return false
		}
		if err := os.WriteFile(outputPath, bin, 0o644); err != nil {
			diag.Errorf("writing artifact: %v", err)
			return false
		}
		if kind == Exe {
			if err := WriteRuntimeManifest(outputPath); err != nil {
				diag.Errorf("%v", err)
				return false
			}
			if err := markExecutable(outputPath); err != nil {
				diag.Errorf("setting execute permission: %v", err)
				return false
			}
		}
		diag.Infof("artifact written to %s", outputPath)
	}

	if kind == Library {
		diag.Infof("library produced, execution skipped")
		return true
	}
	if !info.HasMain {
		diag.Infof("no %s method found, execution skipped", EntryMethodName)
		return true
	}

	mainClass := classOverride
	if mainClass == "" {
		mainClass = info.MainClass
	}
	return runInProcess(sourceText, info, mainClass, diag)
}

// CompileToBytes compiles sourceText under a fixed internal identity and
// returns the raw artifact bytes, with no file or execution side effects.
// It returns nil on failure.
func (b *Backend) CompileToBytes(sourceText string) (out []byte) {
	diag := b.reporter()
	defer func() {
		if r := recover(); r != nil {
			diag.Errorf("unexpected failure: %v", r)
			out = nil
		}
	}()

	info, err := ExtractSourceInfo(sourceText)
	if err != nil {
		diag.Errorf("%v", err)
		return nil
	}
	if !typeCheck(sourceText, diag) {
		return nil
	}
	bin, err := buildBinary(sourceText, info, Exe)
	if err != nil {
		diag.Errorf("%v", err)
		return nil
	}
	return bin
}

// CompileToExecutable compiles sourceText to a fixed target path inside the
// dedicated build subdirectory, forcing the extension to match the output
// kind. It never executes the artifact; it reports how to run it instead.
func (b *Backend) CompileToExecutable(sourceText, outputPath, namespaceOverride, classOverride, outputKind string) (ok bool) {
	diag := b.reporter()
	defer func() {
		if r := recover(); r != nil {
			diag.Errorf("unexpected failure: %v", r)
			ok = false
		}
	}()

	info, err := ExtractSourceInfo(sourceText)
	if err != nil {
		diag.Errorf("%v", err)
		return false
	}
	kind := ParseOutputKind(outputKind)
	entryName := QualifiedEntryName(info, namespaceOverride, classOverride)

	if !typeCheck(sourceText, diag) {
		return false
	}

	bin, err := buildBinary(sourceText, info, kind)
	if err != nil {
		diag.Errorf("%v", err)
		return false
	}

	base := filepath.Base(outputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	target := filepath.Join(filepath.Dir(outputPath), buildSubdir, base+kind.extension())
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		diag.Errorf("creating build directory: %v", err)
		return false
	}
	if err := os.WriteFile(target, bin, 0o644); err != nil {
		diag.Errorf("writing artifact: %v", err)
		return false
	}
	if kind == Exe {
		if err := WriteRuntimeManifest(target); err != nil {
			diag.Errorf("%v", err)
			return false
		}
		if err := markExecutable(target); err != nil {
			diag.Errorf("setting execute permission: %v", err)
			return false
		}
	}

	diag.Infof("compiled %s to %s, run it with: %s", entryName, target, target)
	return true
}

func (b *Backend) reporter() *diagnostic.Diagnostics {
	if b.diag != nil {
		return b.diag
	}
	return diagnostic.New()
}

// typeCheck runs the host front end over the unit and reports every
// error-severity diagnostic. Warnings are not surfaced to the user.
func typeCheck(src string, diag *diagnostic.Diagnostics) bool {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "unit.go", src, 0)
	if err != nil {
		diag.Errorf("internal: host parse of generated source failed: %v", err)
		return false
	}

	var errs []string
	conf := types.Config{
		Importer: importer.Default(),
		Error: func(err error) {
			errs = append(errs, err.Error())
		},
	}
	conf.Check(file.Name.Name, fset, []*goast.File{file}, nil) //nolint:errcheck // errors arrive via conf.Error

	if len(errs) > 0 {
		for _, e := range errs {
			diag.Errorf("compilation error: %s", e)
		}
		return false
	}
	return true
}

// buildBinary drives the host toolchain over a scratch module and returns
// the artifact bytes. For executable kind a thin entry wrapper is
// synthesized around the unit; without a confirmed entry point the wrapper
// is empty, leaving the artifact with no designated entry.
func buildBinary(src string, info *SourceInfo, kind OutputKind) ([]byte, error) {
	tmp, err := os.MkdirTemp("", "cedar-build-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	gomod := fmt.Sprintf("module %s\n\ngo 1.21\n", scratchModule)
	if err := os.WriteFile(filepath.Join(tmp, "go.mod"), []byte(gomod), 0o644); err != nil {
		return nil, fmt.Errorf("writing scratch module: %w", err)
	}

	buildArg := "."
	if info.Namespace == "" {
		// Unit and wrapper share the default package.
		if err := os.WriteFile(filepath.Join(tmp, "unit.go"), []byte(src), 0o644); err != nil {
			return nil, fmt.Errorf("writing unit: %w", err)
		}
		// The default package always needs a func main to build, even for
		// library kind, where the wrapper stays empty.
		call := ""
		if kind == Exe {
			call = entryCall(info, "")
		}
		wrapper := "package main\n\nfunc main() {\n" + call + "}\n"
		if err := os.WriteFile(filepath.Join(tmp, "entry.go"), []byte(wrapper), 0o644); err != nil {
			return nil, fmt.Errorf("writing entry wrapper: %w", err)
		}
	} else {
		pkgDir := strings.ToLower(info.Namespace)
		if err := os.MkdirAll(filepath.Join(tmp, pkgDir), 0o755); err != nil {
			return nil, fmt.Errorf("creating package directory: %w", err)
		}
		if err := os.WriteFile(filepath.Join(tmp, pkgDir, "unit.go"), []byte(src), 0o644); err != nil {
			return nil, fmt.Errorf("writing unit: %w", err)
		}
		if kind == Exe {
			alias := info.Namespace
			if !info.HasMain {
				// Nothing to call; keep the unit linked in without use.
				alias = "_"
			}
			wrapper := fmt.Sprintf("package main\n\nimport %s %q\n\nfunc main() {\n%s}\n",
				alias, scratchModule+"/"+pkgDir, entryCall(info, info.Namespace+"."))
			if err := os.WriteFile(filepath.Join(tmp, "entry.go"), []byte(wrapper), 0o644); err != nil {
				return nil, fmt.Errorf("writing entry wrapper: %w", err)
			}
		} else {
			buildArg = "./" + pkgDir
		}
	}

	out := filepath.Join(tmp, "artifact"+kind.extension())
	cmd := exec.Command("go", "build", "-o", out, buildArg)
	cmd.Dir = tmp
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("host build failed: %v\n%s", err, stderr.String())
	}

	bin, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	return bin, nil
}

// entryCall renders the wrapper's call of the unit's entry point, or
// nothing when the unit has none.
func entryCall(info *SourceInfo, prefix string) string {
	if !info.HasMain {
		return ""
	}
	args := ""
	if info.MainTakesArgs {
		args = "[]string{}"
	}
	if info.MainIsMethod {
		return fmt.Sprintf("\t%s%s{}.%s(%s)\n", prefix, info.MainClass, EntryMethodName, args)
	}
	return fmt.Sprintf("\t%s%s(%s)\n", prefix, EntryMethodName, args)
}
