package gobe

import (
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/cedar-lang/cedar/internal/diagnostic"
)

// coreRuntimePackages is the fixed minimal set of platform libraries every
// hosted program is guaranteed: runtime primitives, console output,
// collections and sequence operators.
var coreRuntimePackages = []string{
	"fmt",
	"os",
	"strings",
	"strconv",
	"math",
	"sort",
}

// optionalRuntimePackages are confirmed best-effort; an unavailable one is
// omitted with an info event rather than failing the compile.
var optionalRuntimePackages = []string{
	"time",
	"math/rand",
}

// resolveRuntimeSymbols builds the symbol table exposed to an in-process
// execution, returning it together with the core and optional import paths
// confirmed present. The full platform table is bound: its binary packages
// carry transitive wrapper dependencies (math needs math/bits, time needs
// errors, ...), so binding a hand-picked subset makes the interpreter reject
// the table outright. What a hosted program actually reaches is bounded by
// the import clauses of the generated unit, not by the table.
func resolveRuntimeSymbols(diag *diagnostic.Diagnostics) (interp.Exports, []string) {
	var included []string

	confirm := func(path string, optional bool) {
		key := path + "/" + lastSlashSegment(path)
		if _, ok := stdlib.Symbols[key]; !ok {
			if optional && diag != nil {
				diag.Infof("optional runtime library %q not available, omitted", path)
			}
			return
		}
		included = append(included, path)
	}

	for _, p := range coreRuntimePackages {
		confirm(p, false)
	}
	for _, p := range optionalRuntimePackages {
		confirm(p, true)
	}
	return stdlib.Symbols, included
}

func lastSlashSegment(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
