// Package gobe generates Go source text from a Cedar program and drives the
// host Go toolchain to turn it into runnable artifacts. Classes render as
// struct types with methods, namespaces as the package clause, and the
// conventional Main method becomes the artifact's entry point.
package gobe

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cedar-lang/cedar/internal/ast"
	"github.com/cedar-lang/cedar/internal/backend"
	"github.com/cedar-lang/cedar/internal/diagnostic"
)

// EntryMethodName is the conventional entry-point method name.
const EntryMethodName = "Main"

// DefaultClassName is the identity used when neither the source nor the
// caller supplies one.
const DefaultClassName = "Program"

// Backend generates Go source and compiles it. The emission buffer is
// per-call; only the bound configuration, diagnostics sink and the import
// snapshot of the most recent call live on the instance.
type Backend struct {
	opts       backend.Options
	diag       *diagnostic.Diagnostics
	lastUsings []string
}

// New creates a Go backend with default configuration.
func New() *Backend {
	return &Backend{}
}

// Info returns the backend's static metadata.
func (b *Backend) Info() backend.Info {
	return backend.Info{
		Name:        "Go",
		Description: "Generates Go source and compiles it with the host toolchain",
		Version:     "1.0.0",
		Features:    []string{"structs", "methods", "native-compile", "in-process-run"},
		Dependencies: []string{
			"go toolchain >= 1.22",
		},
	}
}

// TargetName returns the target identity.
func (b *Backend) TargetName() string { return "go" }

// FileExtension returns the output file extension.
func (b *Backend) FileExtension() string { return ".go" }

// Initialize binds configuration and a diagnostics sink. This backend
// recognizes no options; unrecognized options are ignored.
func (b *Backend) Initialize(opts backend.Options, diag *diagnostic.Diagnostics) {
	b.opts = opts
	b.diag = diag
}

// CanGenerate warns about constructs Go can only approximate. Nothing is
// fatal for this target, so it always returns true.
func (b *Backend) CanGenerate(prog *ast.Program, diag *diagnostic.Diagnostics) bool {
	if diag == nil {
		diag = b.diag
	}
	var walk func(s ast.Statement)
	walk = func(s ast.Statement) {
		switch stmt := s.(type) {
		case *ast.NamespaceDecl:
			for _, m := range stmt.Members {
				walk(m)
			}
		case *ast.ClassDecl:
			if len(stmt.TypeParams) > 0 && diag != nil {
				diag.WarningfAt(stmt.Line, stmt.Column,
					"class %q declares generic parameters, which are erased in the Go rendering", stmt.Name)
			}
		}
	}
	for _, stmt := range prog.Statements {
		walk(stmt)
	}
	return true
}

// Generate produces a complete Go compile unit: package clause, import
// block, then the program body.
func (b *Backend) Generate(prog *ast.Program, diag *diagnostic.Diagnostics, rootNamespace, className string) string {
	g := b.newGenerator(diag)
	body := g.renderProgram(prog)
	b.lastUsings = g.sortedUsings()
	return g.renderHeader(prog, rootNamespace) + body
}

// GenerateWithoutUsings produces the package clause and body with the
// import block omitted.
func (b *Backend) GenerateWithoutUsings(prog *ast.Program, diag *diagnostic.Diagnostics, rootNamespace, className string) string {
	g := b.newGenerator(diag)
	body := g.renderProgram(prog)
	b.lastUsings = g.sortedUsings()
	return g.renderPackageClause(prog, rootNamespace) + body
}

// GenerateCombined produces one compile unit aggregating the imports of all
// programs followed by each body in input order. The package clause comes
// from the first program (or the override).
func (b *Backend) GenerateCombined(progs []*ast.Program, diag *diagnostic.Diagnostics, rootNamespace, className string) string {
	g := b.newGenerator(diag)
	var bodies []string
	for _, prog := range progs {
		bodies = append(bodies, g.renderProgram(prog))
	}
	b.lastUsings = g.sortedUsings()
	var first *ast.Program
	if len(progs) > 0 {
		first = progs[0]
	} else {
		first = &ast.Program{}
	}
	return g.renderHeader(first, rootNamespace) + strings.Join(bodies, "")
}

// CollectedUsings returns the sorted import set of the most recent
// generation call.
func (b *Backend) CollectedUsings() []string {
	out := make([]string, len(b.lastUsings))
	copy(out, b.lastUsings)
	return out
}

func (b *Backend) newGenerator(diag *diagnostic.Diagnostics) *goGenerator {
	if diag == nil {
		diag = b.diag
	}
	return &goGenerator{
		diag:   diag,
		usings: make(map[string]struct{}),
	}
}

// goGenerator holds the per-call emission state.
type goGenerator struct {
	sb     strings.Builder
	indent int
	usings map[string]struct{}
	diag   *diagnostic.Diagnostics
}

func (g *goGenerator) renderProgram(prog *ast.Program) string {
	g.sb.Reset()
	for _, stmt := range prog.Statements {
		g.generateStmt(stmt)
	}
	body := g.sb.String()
	g.sb.Reset()
	return body
}

// packageName derives the package clause: the caller override wins, then the
// last segment of the first namespace declaration, then "main".
func packageName(prog *ast.Program, override string) string {
	if override != "" {
		return lastSegment(override)
	}
	for _, stmt := range prog.Statements {
		if ns, ok := stmt.(*ast.NamespaceDecl); ok {
			return lastSegment(ns.Name)
		}
	}
	return "main"
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (g *goGenerator) renderPackageClause(prog *ast.Program, override string) string {
	return "package " + packageName(prog, override) + "\n\n"
}

func (g *goGenerator) renderHeader(prog *ast.Program, override string) string {
	header := g.renderPackageClause(prog, override)
	usings := g.sortedUsings()
	if len(usings) > 0 {
		header += strings.Join(usings, "\n") + "\n\n"
	}
	return header
}

func (g *goGenerator) sortedUsings() []string {
	out := make([]string, 0, len(g.usings))
	for u := range g.usings {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

func (g *goGenerator) emitLine(s string) {
	if s == "" {
		g.sb.WriteString("\n")
	} else {
		g.sb.WriteString(strings.Repeat("\t", g.indent))
		g.sb.WriteString(s)
		g.sb.WriteString("\n")
	}
}

func (g *goGenerator) emitLinef(format string, args ...any) {
	g.emitLine(fmt.Sprintf(format, args...))
}

func (g *goGenerator) incIndent() { g.indent++ }
func (g *goGenerator) decIndent() { g.indent-- }

func (g *goGenerator) warnUnknown(n ast.Node) {
	if g.diag == nil {
		return
	}
	line, col := n.Pos()
	g.diag.WarningfAt(line, col, "unknown AST node type %T, emitting nothing", n)
}

// --- Statements ---

func (g *goGenerator) generateStmts(stmts []ast.Statement) {
	for _, stmt := range stmts {
		g.generateStmt(stmt)
	}
}

func (g *goGenerator) generateStmt(s ast.Statement) {
	switch stmt := s.(type) {
	case *ast.ImportDecl:
		g.collectImport(stmt)

	case *ast.NamespaceDecl:
		// The namespace is consumed by the package clause; members are
		// emitted at package level.
		g.generateStmts(stmt.Members)

	case *ast.ClassDecl:
		g.generateClass(stmt)

	case *ast.FunctionDecl:
		g.generateFunction(stmt, "")

	case *ast.VarDecl:
		g.generateVar(stmt, g.indent == 0)

	case *ast.FieldDecl:
		// A field outside a class renders as a package-level variable.
		if stmt.Init != nil {
			g.emitLinef("var %s = %s", stmt.Name, g.generateExpr(stmt.Init))
		} else {
			g.emitLinef("var %s %s", stmt.Name, mapType(stmt.Type))
		}

	case *ast.IfStmt:
		g.emitLinef("if %s {", g.generateExpr(stmt.Cond))
		g.incIndent()
		g.generateStmts(stmt.Then)
		g.decIndent()
		if len(stmt.Else) > 0 {
			g.emitLine("} else {")
			g.incIndent()
			g.generateStmts(stmt.Else)
			g.decIndent()
		}
		g.emitLine("}")

	case *ast.WhileStmt:
		g.emitLinef("for %s {", g.generateExpr(stmt.Cond))
		g.incIndent()
		g.generateStmts(stmt.Body)
		g.decIndent()
		g.emitLine("}")

	case *ast.ForStmt:
		g.generateForStmt(stmt)

	case *ast.ReturnStmt:
		if stmt.Value != nil {
			g.emitLinef("return %s", g.generateExpr(stmt.Value))
		} else {
			g.emitLine("return")
		}

	case *ast.ExprStmt:
		g.emitLine(g.generateExpr(stmt.Expr))

	default:
		g.warnUnknown(s)
	}
}

func (g *goGenerator) generateVar(v *ast.VarDecl, topLevel bool) {
	switch {
	case topLevel && v.Init != nil:
		g.emitLinef("var %s = %s", v.Name, g.generateExpr(v.Init))
	case topLevel:
		g.emitLinef("var %s %s", v.Name, mapType(v.Type))
	case v.Init != nil:
		g.emitLinef("%s := %s", v.Name, g.generateExpr(v.Init))
	default:
		g.emitLinef("var %s %s", v.Name, mapType(v.Type))
	}
}

func (g *goGenerator) collectImport(imp *ast.ImportDecl) {
	var rendered string
	if imp.Alias != "" {
		rendered = fmt.Sprintf("import %s %q", imp.Alias, imp.Path)
	} else {
		rendered = fmt.Sprintf("import %q", imp.Path)
	}
	g.usings[rendered] = struct{}{}
}

func (g *goGenerator) generateClass(c *ast.ClassDecl) {
	var fields []*ast.FieldDecl
	var statics []*ast.FieldDecl
	var methods []*ast.FunctionDecl
	var ctor *ast.FunctionDecl
	for _, m := range c.Members {
		switch member := m.(type) {
		case *ast.FieldDecl:
			if member.IsStatic {
				statics = append(statics, member)
			} else {
				fields = append(fields, member)
			}
		case *ast.FunctionDecl:
			if member.IsConstructor {
				ctor = member
			} else {
				methods = append(methods, member)
			}
		default:
			g.warnUnknown(m)
		}
	}

	if len(c.TypeParams) > 0 {
		g.emitLinef("// generic parameters erased: <%s>", strings.Join(c.TypeParams, ", "))
	}
	if len(fields) == 0 {
		g.emitLinef("type %s struct{}", c.Name)
	} else {
		g.emitLinef("type %s struct {", c.Name)
		g.incIndent()
		for _, f := range fields {
			g.emitLinef("%s %s", f.Name, mapType(f.Type))
		}
		g.decIndent()
		g.emitLine("}")
	}
	g.emitLine("")

	// Static fields become prefixed package-level variables.
	for _, f := range statics {
		if f.Init != nil {
			g.emitLinef("var %s_%s = %s", c.Name, f.Name, g.generateExpr(f.Init))
		} else {
			g.emitLinef("var %s_%s %s", c.Name, f.Name, mapType(f.Type))
		}
	}
	if len(statics) > 0 {
		g.emitLine("")
	}

	g.generateConstructor(c.Name, fields, ctor)
	g.emitLine("")

	for _, m := range methods {
		g.generateFunction(m, c.Name)
		g.emitLine("")
	}
}

// generateConstructor emits New<Class>. Every class gets one so constructor
// calls always have a target; field initializers run before the declared
// constructor body.
func (g *goGenerator) generateConstructor(class string, fields []*ast.FieldDecl, ctor *ast.FunctionDecl) {
	params := ""
	if ctor != nil {
		params = goParamList(ctor.Params)
	}
	g.emitLinef("func New%s(%s) *%s {", class, params, class)
	g.incIndent()
	g.emitLinef("self := &%s{}", class)
	for _, f := range fields {
		if f.Init != nil {
			g.emitLinef("self.%s = %s", f.Name, g.generateExpr(f.Init))
		}
	}
	if ctor != nil {
		g.generateStmts(ctor.Body)
	}
	g.emitLine("return self")
	g.decIndent()
	g.emitLine("}")
}

func (g *goGenerator) generateFunction(f *ast.FunctionDecl, receiver string) {
	params := goParamList(f.Params)
	ret := mapReturnType(f.ReturnType)
	if receiver != "" {
		g.emitLinef("func (self %s) %s(%s)%s {", receiver, f.Name, params, ret)
	} else {
		g.emitLinef("func %s(%s)%s {", f.Name, params, ret)
	}
	g.incIndent()
	g.generateStmts(f.Body)
	g.decIndent()
	g.emitLine("}")
}

func goParamList(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " " + mapType(p.Type)
	}
	return strings.Join(parts, ", ")
}

func (g *goGenerator) generateForStmt(stmt *ast.ForStmt) {
	if stmt.IsForIn {
		g.emitLinef("for _, %s := range %s {", stmt.Variable, g.generateExpr(stmt.Iterable))
		g.incIndent()
		g.generateStmts(stmt.Body)
		g.decIndent()
		g.emitLine("}")
		return
	}

	init := g.renderInlineStmt(stmt.Init)
	cond := ""
	if stmt.Cond != nil {
		cond = g.generateExpr(stmt.Cond)
	}
	post := g.renderInlineStmt(stmt.Post)

	g.emitLinef("for %s; %s; %s {", init, cond, post)
	g.incIndent()
	g.generateStmts(stmt.Body)
	g.decIndent()
	g.emitLine("}")
}

func (g *goGenerator) renderInlineStmt(s ast.Statement) string {
	if s == nil {
		return ""
	}
	switch stmt := s.(type) {
	case *ast.VarDecl:
		if stmt.Init != nil {
			return fmt.Sprintf("%s := %s", stmt.Name, g.generateExpr(stmt.Init))
		}
		return fmt.Sprintf("var %s %s", stmt.Name, mapType(stmt.Type))
	case *ast.ExprStmt:
		return g.generateExpr(stmt.Expr)
	default:
		g.warnUnknown(s)
		return ""
	}
}

// --- Expressions ---

func (g *goGenerator) generateExpr(e ast.Expression) string {
	if e == nil {
		return "nil"
	}
	switch expr := e.(type) {
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s",
			g.generateExpr(expr.Left), expr.Op, g.generateExpr(expr.Right))

	case *ast.Literal:
		return renderGoLiteral(expr)

	case *ast.Identifier:
		if expr.Name == "this" {
			return "self"
		}
		return expr.Name

	case *ast.QualifiedIdent:
		return strings.Join(expr.Parts, ".")

	case *ast.CallExpr:
		return g.generateCall(expr)

	case *ast.MemberExpr:
		return fmt.Sprintf("%s.%s", g.generateExpr(expr.Object), expr.Member)

	case *ast.AssignExpr:
		return fmt.Sprintf("%s %s %s",
			g.generateExpr(expr.Target), expr.Op, g.generateExpr(expr.Value))

	case *ast.NewExpr:
		return fmt.Sprintf("New%s(%s)", expr.TypeName, g.generateArgs(expr.Args))

	case *ast.LambdaExpr:
		return g.generateLambda(expr)

	default:
		g.warnUnknown(e)
		return ""
	}
}

func (g *goGenerator) generateArgs(args []ast.Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = g.generateExpr(a)
	}
	return strings.Join(parts, ", ")
}

func (g *goGenerator) generateCall(expr *ast.CallExpr) string {
	if id, ok := expr.Callee.(*ast.Identifier); ok {
		switch id.Name {
		case "print":
			g.usings[`import "fmt"`] = struct{}{}
			return fmt.Sprintf("fmt.Print(%s)", g.generateArgs(expr.Args))
		case "println":
			g.usings[`import "fmt"`] = struct{}{}
			return fmt.Sprintf("fmt.Println(%s)", g.generateArgs(expr.Args))
		}
	}
	return fmt.Sprintf("%s(%s)", g.generateExpr(expr.Callee), g.generateArgs(expr.Args))
}

func (g *goGenerator) generateLambda(expr *ast.LambdaExpr) string {
	params := goParamList(expr.Params)
	if expr.ExprBody != nil {
		return fmt.Sprintf("func(%s) any { return %s }", params, g.generateExpr(expr.ExprBody))
	}
	if len(expr.BlockBody) > 0 {
		sub := &goGenerator{indent: g.indent + 1, usings: g.usings, diag: g.diag}
		sub.generateStmts(expr.BlockBody)
		return fmt.Sprintf("func(%s) {\n%s%s}", params, sub.sb.String(), strings.Repeat("\t", g.indent))
	}
	return fmt.Sprintf("func(%s) {}", params)
}

func renderGoLiteral(lit *ast.Literal) string {
	switch lit.Kind {
	case ast.StringLiteral:
		return strconv.Quote(lit.Value)
	case ast.BoolLiteral:
		if lit.Value == "true" {
			return "true"
		}
		return "false"
	case ast.NullLiteral:
		return "nil"
	default:
		return lit.Value
	}
}

// mapType maps source type annotations to Go types. Unknown or absent
// annotations map to any.
func mapType(t string) string {
	switch t {
	case "int":
		return "int"
	case "string":
		return "string"
	case "bool":
		return "bool"
	case "float", "double", "number":
		return "float64"
	case "", "object", "dynamic", "var":
		return "any"
	default:
		return "any"
	}
}

func mapReturnType(t string) string {
	if t == "" || t == "void" {
		return ""
	}
	return " " + mapType(t)
}
