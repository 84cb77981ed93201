package compiler

import (
	"fmt"
	"sort"

	"github.com/cedar-lang/cedar/internal/backend"
	"github.com/cedar-lang/cedar/internal/gobe"
	"github.com/cedar-lang/cedar/internal/jsbe"
)

// Lookup returns a fresh backend instance for the given target name.
// Instances are not shared: a backend carries per-call emission state and
// must not be used from two generations at once.
func Lookup(target string) (backend.Backend, error) {
	switch target {
	case "js", "javascript":
		return jsbe.New(), nil
	case "go", "native":
		return gobe.New(), nil
	default:
		return nil, fmt.Errorf("unknown target: %s", target)
	}
}

// Targets returns the canonical target names, sorted.
func Targets() []string {
	targets := []string{"javascript", "go"}
	sort.Strings(targets)
	return targets
}
