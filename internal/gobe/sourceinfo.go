package gobe

import (
	"fmt"
	goast "go/ast"
	"go/parser"
	"go/token"
)

// SourceInfo is the structural summary of one compile unit, recovered by
// scanning the parsed source. It is computed fresh per compilation request
// and discarded after use.
type SourceInfo struct {
	// Namespace is the declared package, or empty for the default package
	// ("main").
	Namespace string
	// MainClass is the type declaring the entry-point method, or the first
	// declared type when no entry point exists, or empty when the unit
	// declares no types.
	MainClass string
	// Classes lists every declared struct type name in declaration order.
	Classes []string
	// HasMain reports whether an entry point was found: an exported Main
	// method on a declared type, or a package-level Main function.
	HasMain bool
	// MainIsMethod reports whether the entry point is a method on
	// MainClass rather than a package-level function.
	MainIsMethod bool
	// MainTakesArgs reports whether the entry point takes a single
	// parameter (invoked with an empty string slice).
	MainTakesArgs bool
}

// ExtractSourceInfo parses src with the host toolkit's front end and scans
// the tree for the package name, declared types and the entry point. The
// upstream AST is already validated, so a parse failure here is an internal
// error rather than a user error.
func ExtractSourceInfo(src string) (*SourceInfo, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "unit.go", src, 0)
	if err != nil {
		return nil, fmt.Errorf("internal: host parse of generated source failed: %w", err)
	}

	info := &SourceInfo{}
	if file.Name.Name != "main" {
		info.Namespace = file.Name.Name
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *goast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*goast.TypeSpec)
				if !ok {
					continue
				}
				if _, ok := ts.Type.(*goast.StructType); ok {
					info.Classes = append(info.Classes, ts.Name.Name)
				}
			}

		case *goast.FuncDecl:
			if d.Name.Name != EntryMethodName || info.HasMain {
				continue
			}
			if d.Recv != nil && len(d.Recv.List) == 1 {
				if name := receiverTypeName(d.Recv.List[0].Type); name != "" {
					info.HasMain = true
					info.MainIsMethod = true
					info.MainClass = name
					info.MainTakesArgs = d.Type.Params.NumFields() == 1
				}
			} else if d.Recv == nil {
				// A bare Main function still counts as an entry point; the
				// runtime lookup falls back to it when no type declares one.
				info.HasMain = true
				info.MainTakesArgs = d.Type.Params.NumFields() == 1
			}
		}
	}

	if info.MainClass == "" && len(info.Classes) > 0 {
		info.MainClass = info.Classes[0]
	}
	return info, nil
}

func receiverTypeName(expr goast.Expr) string {
	switch t := expr.(type) {
	case *goast.Ident:
		return t.Name
	case *goast.StarExpr:
		if id, ok := t.X.(*goast.Ident); ok {
			return id.Name
		}
	}
	return ""
}

// QualifiedEntryName resolves the effective entry identity: the caller
// override wins, then the value derived from source, then the fixed
// default class name.
func QualifiedEntryName(info *SourceInfo, namespaceOverride, classOverride string) string {
	ns := namespaceOverride
	if ns == "" {
		ns = info.Namespace
	}
	class := classOverride
	if class == "" {
		class = info.MainClass
	}
	if class == "" {
		class = DefaultClassName
	}
	if ns == "" {
		return class
	}
	return ns + "." + class
}
