package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cedar-lang/cedar/internal/ast"
	"github.com/cedar-lang/cedar/internal/backend"
	"github.com/cedar-lang/cedar/internal/compiler"
)

const usage = `cedarc - The Cedar code generation driver

Usage:
  cedarc emit --target <name> <program.json>...   Generate target source text
  cedarc build <program.json>                     Compile to a native executable
  cedarc run <program.json>                       Compile and run in-process
  cedarc ast <program.json>                       Print the AST as a tree

Options:
  --target <name>       Output target: javascript (js) or go (native)
  --namespace <name>    Override the root namespace
  --class <name>        Override the entry class name
  --kind <Exe|Library>  Artifact kind for build (default Exe)

The input is the JSON AST interchange document produced by the front end.
Passing several programs to emit produces one combined output file with a
single merged import block.

Examples:
  cedarc emit --target js hello.json      Emit hello.js
  cedarc build hello.json                 Build build/hello.bin plus manifest
  cedarc run hello.json                   Execute without writing any file
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "emit":
		handleEmit(os.Args[2:])
	case "build":
		handleBuild(os.Args[2:])
	case "run":
		handleRun(os.Args[2:])
	case "ast":
		handleAST(os.Args[2:])
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// parseArgs splits options of the form --name value from file arguments.
func parseArgs(args []string) (map[string]string, []string) {
	opts := make(map[string]string)
	var files []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "--") && i+1 < len(args) {
			opts[strings.TrimPrefix(arg, "--")] = args[i+1]
			i++
		} else if strings.HasPrefix(arg, "-") {
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
			os.Exit(1)
		} else {
			files = append(files, arg)
		}
	}
	return opts, files
}

func loadProgram(path string) *ast.Program {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
		os.Exit(1)
	}
	prog, err := ast.DecodeProgram(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding %s: %s\n", path, err)
		os.Exit(1)
	}
	return prog
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func printWarnings(diag interface{ Format(string) string }, unit string) {
	if out := diag.Format(unit); out != "" {
		fmt.Fprintln(os.Stderr, out)
	}
}

func handleEmit(args []string) {
	opts, files := parseArgs(args)
	target := opts["target"]
	if target == "" {
		fmt.Fprintln(os.Stderr, "Error: no target specified")
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	beOpts := backend.Options{}
	if v, ok := opts["indent"]; ok {
		beOpts["indent"] = v
	}

	if len(files) == 1 {
		prog := loadProgram(files[0])
		diag, err := compiler.EmitToTarget(prog, target, baseName(files[0]), beOpts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		printWarnings(diag, files[0])
		return
	}

	var progs []*ast.Program
	for _, f := range files {
		progs = append(progs, loadProgram(f))
	}
	diag, err := compiler.EmitCombinedToTarget(progs, target, baseName(files[0]), beOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	printWarnings(diag, files[0])
}

func handleBuild(args []string) {
	opts, files := parseArgs(args)
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	kind := opts["kind"]
	if kind == "" {
		kind = "Exe"
	}

	prog := loadProgram(files[0])
	fmt.Printf("Compiling %s...\n", files[0])
	diag, err := compiler.BuildNative(prog, baseName(files[0]), opts["namespace"], opts["class"], kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	printWarnings(diag, files[0])
}

func handleRun(args []string) {
	opts, files := parseArgs(args)
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	prog := loadProgram(files[0])
	diag, err := compiler.RunNative(prog, opts["namespace"], opts["class"])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	printWarnings(diag, files[0])
}

func handleAST(args []string) {
	_, files := parseArgs(args)
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	prog := loadProgram(files[0])
	fmt.Println(ast.DrawProgram(prog))
}
