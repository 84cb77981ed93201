package gobe

import (
	"fmt"
	"reflect"
)

// EvalFunc resolves an expression against a loaded artifact's scope and
// returns its value. It abstracts the interpreter so entry-point lookup
// stays a pure function over the declared type/method table.
type EvalFunc func(expr string) (reflect.Value, error)

// ResolveEntry locates the entry-point callable in a loaded artifact.
// Lookup is two-phase: first an exact match on the designated main class,
// then a linear scan over every declared type (and a bare package-level
// Main) taking the first one that exposes the conventional method.
func ResolveEntry(eval EvalFunc, info *SourceInfo, mainClass string) (reflect.Value, error) {
	prefix := ""
	if info.Namespace != "" {
		prefix = info.Namespace + "."
	}

	if mainClass != "" {
		if v, err := eval(fmt.Sprintf("%s%s{}.%s", prefix, mainClass, EntryMethodName)); err == nil && v.IsValid() {
			return v, nil
		}
	}

	// Fallback: any declared type with the method, then a bare function.
	for _, class := range info.Classes {
		if class == mainClass {
			continue
		}
		if v, err := eval(fmt.Sprintf("%s%s{}.%s", prefix, class, EntryMethodName)); err == nil && v.IsValid() {
			return v, nil
		}
	}
	if v, err := eval(prefix + EntryMethodName); err == nil && v.IsValid() {
		return v, nil
	}

	return reflect.Value{}, fmt.Errorf("no %s method found in loaded artifact", EntryMethodName)
}

// NegotiateArgs determines the argument list for an entry-point callable.
// A niladic entry is invoked with no arguments; one taking a single string
// slice is invoked with an empty slice; anything else is unsupported.
func NegotiateArgs(entry reflect.Value) ([]reflect.Value, error) {
	if entry.Kind() != reflect.Func {
		return nil, fmt.Errorf("resolved entry point is not callable (kind %s)", entry.Kind())
	}
	t := entry.Type()
	switch {
	case t.NumIn() == 0:
		return nil, nil
	case t.NumIn() == 1 && t.In(0) == reflect.TypeOf([]string(nil)):
		return []reflect.Value{reflect.ValueOf([]string{})}, nil
	default:
		return nil, fmt.Errorf("unsupported %s signature: want no parameters or a single []string", EntryMethodName)
	}
}
