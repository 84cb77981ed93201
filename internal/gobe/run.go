package gobe

import (
	"reflect"

	"github.com/traefik/yaegi/interp"

	"github.com/cedar-lang/cedar/internal/diagnostic"
)

// runInProcess loads the compiled unit into the calling process and invokes
// its entry point synchronously. The hosted program shares the process with
// the caller; a fault inside it is caught here and reported as a failure
// instead of propagating.
func runInProcess(src string, info *SourceInfo, mainClass string, diag *diagnostic.Diagnostics) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			diag.Errorf("execution failed: %v", r)
			ok = false
		}
	}()

	i := interp.New(interp.Options{})
	symbols, _ := resolveRuntimeSymbols(diag)
	if err := i.Use(symbols); err != nil {
		diag.Errorf("binding runtime libraries: %v", err)
		return false
	}

	if _, err := i.Eval(src); err != nil {
		diag.Errorf("loading compiled unit: %v", err)
		return false
	}

	eval := func(expr string) (reflect.Value, error) {
		return i.Eval(expr)
	}
	entry, err := ResolveEntry(eval, info, mainClass)
	if err != nil {
		diag.Errorf("%v", err)
		return false
	}
	args, err := NegotiateArgs(entry)
	if err != nil {
		diag.Errorf("%v", err)
		return false
	}

	entry.Call(args)
	diag.Infof("executed %s in-process", EntryMethodName)
	return true
}
