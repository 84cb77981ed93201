// Package jsbe generates JavaScript source text from a Cedar program.
// The emission is syntax-directed: each AST node variant has exactly one
// rendering rule, applied in a single recursive pass.
package jsbe

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cedar-lang/cedar/internal/ast"
	"github.com/cedar-lang/cedar/internal/backend"
	"github.com/cedar-lang/cedar/internal/diagnostic"
)

// EntryFunctionName is the conventional entry-point name. A top-level
// function with this name is rendered as an immediately-invoked function
// expression so its side effects run at module load.
const EntryFunctionName = "Main"

// moduleSuffix marks import paths rendered as ES-module imports; every
// other import renders as a require binding.
const moduleSuffix = ".js"

// Backend generates JavaScript. An instance holds only the configuration
// bound at Initialize plus the import snapshot of the most recent call; the
// emission buffer itself is constructed fresh per call.
type Backend struct {
	opts       backend.Options
	diag       *diagnostic.Diagnostics
	indentUnit string
	lastUsings []string
}

// New creates a JavaScript backend with default configuration.
func New() *Backend {
	return &Backend{indentUnit: "  "}
}

// Info returns the backend's static metadata.
func (b *Backend) Info() backend.Info {
	return backend.Info{
		Name:        "JavaScript",
		Description: "Generates JavaScript (ES6 classes, ESM/CommonJS imports)",
		Version:     "1.0.0",
		Features:    []string{"classes", "lambdas", "modules", "for-of"},
		Dependencies: []string{
			"node >= 16",
		},
	}
}

// TargetName returns the target identity.
func (b *Backend) TargetName() string { return "javascript" }

// FileExtension returns the output file extension.
func (b *Backend) FileExtension() string { return ".js" }

// Initialize binds configuration and a diagnostics sink. The only
// recognized option is "indent" (spaces per level); unrecognized options
// are ignored.
func (b *Backend) Initialize(opts backend.Options, diag *diagnostic.Diagnostics) {
	b.opts = opts
	b.diag = diag
	b.indentUnit = "  "
	if v, ok := opts["indent"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			b.indentUnit = strings.Repeat(" ", n)
		}
	}
}

// CanGenerate reports a warning for every explicit static type annotation,
// which has no JavaScript equivalent. No construct is fatal for this
// target, so it always returns true.
func (b *Backend) CanGenerate(prog *ast.Program, diag *diagnostic.Diagnostics) bool {
	if diag == nil {
		diag = b.diag
	}
	for _, stmt := range prog.Statements {
		warnTypedConstructs(stmt, diag)
	}
	return true
}

func warnTypedConstructs(s ast.Statement, diag *diagnostic.Diagnostics) {
	if diag == nil {
		return
	}
	switch stmt := s.(type) {
	case *ast.NamespaceDecl:
		for _, m := range stmt.Members {
			warnTypedConstructs(m, diag)
		}
	case *ast.ClassDecl:
		for _, m := range stmt.Members {
			warnTypedConstructs(m, diag)
		}
	case *ast.FunctionDecl:
		line, col := stmt.Pos()
		for _, p := range stmt.Params {
			if p.Type != "" {
				diag.WarningfAt(line, col,
					"parameter %q declares static type %q, which JavaScript cannot express", p.Name, p.Type)
			}
		}
		if stmt.ReturnType != "" && stmt.ReturnType != "void" {
			diag.WarningfAt(line, col,
				"function %q declares return type %q, which JavaScript cannot express", stmt.Name, stmt.ReturnType)
		}
		for _, m := range stmt.Body {
			warnTypedConstructs(m, diag)
		}
	case *ast.FieldDecl:
		if stmt.Type != "" {
			diag.WarningfAt(stmt.Line, stmt.Column,
				"field %q declares static type %q, which JavaScript cannot express", stmt.Name, stmt.Type)
		}
	case *ast.VarDecl:
		if stmt.Type != "" {
			diag.WarningfAt(stmt.Line, stmt.Column,
				"variable %q declares static type %q, which JavaScript cannot express", stmt.Name, stmt.Type)
		}
	}
}

// Generate produces JavaScript for a single program, imports first.
func (b *Backend) Generate(prog *ast.Program, diag *diagnostic.Diagnostics, rootNamespace, className string) string {
	g := b.newGenerator(diag)
	body := g.renderProgram(prog)
	b.lastUsings = g.sortedUsings()
	return g.renderUsings() + body
}

// GenerateWithoutUsings produces JavaScript with the import block omitted.
// The imports are still collected and observable via CollectedUsings.
func (b *Backend) GenerateWithoutUsings(prog *ast.Program, diag *diagnostic.Diagnostics, rootNamespace, className string) string {
	g := b.newGenerator(diag)
	body := g.renderProgram(prog)
	b.lastUsings = g.sortedUsings()
	return body
}

// GenerateCombined produces one unit: the merged, deduplicated, sorted
// imports of every program followed by each program's body in input order.
func (b *Backend) GenerateCombined(progs []*ast.Program, diag *diagnostic.Diagnostics, rootNamespace, className string) string {
	g := b.newGenerator(diag)
	var bodies []string
	for _, prog := range progs {
		bodies = append(bodies, g.renderProgram(prog))
	}
	b.lastUsings = g.sortedUsings()
	return g.renderUsings() + strings.Join(bodies, "")
}

// CollectedUsings returns the sorted import set of the most recent
// generation call.
func (b *Backend) CollectedUsings() []string {
	out := make([]string, len(b.lastUsings))
	copy(out, b.lastUsings)
	return out
}

func (b *Backend) newGenerator(diag *diagnostic.Diagnostics) *generator {
	if diag == nil {
		diag = b.diag
	}
	unit := b.indentUnit
	if unit == "" {
		unit = "  "
	}
	return &generator{
		diag:       diag,
		indentUnit: unit,
		usings:     make(map[string]struct{}),
	}
}

// generator holds the per-call emission state: buffer, indentation depth
// and the import set. It is never reused across calls.
type generator struct {
	sb         strings.Builder
	indent     int
	indentUnit string
	usings     map[string]struct{}
	diag       *diagnostic.Diagnostics
}

func (g *generator) renderProgram(prog *ast.Program) string {
	g.sb.Reset()
	for _, stmt := range prog.Statements {
		g.generateStmt(stmt)
	}
	body := g.sb.String()
	g.sb.Reset()
	return body
}

func (g *generator) sortedUsings() []string {
	out := make([]string, 0, len(g.usings))
	for u := range g.usings {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

func (g *generator) renderUsings() string {
	usings := g.sortedUsings()
	if len(usings) == 0 {
		return ""
	}
	return strings.Join(usings, "\n") + "\n\n"
}

func (g *generator) emit(s string) {
	g.sb.WriteString(s)
}

func (g *generator) emitf(format string, args ...any) {
	g.sb.WriteString(fmt.Sprintf(format, args...))
}

func (g *generator) emitLine(s string) {
	if s == "" {
		g.sb.WriteString("\n")
	} else {
		g.sb.WriteString(g.indentStr())
		g.sb.WriteString(s)
		g.sb.WriteString("\n")
	}
}

func (g *generator) emitLinef(format string, args ...any) {
	g.emitLine(fmt.Sprintf(format, args...))
}

func (g *generator) incIndent() { g.indent++ }
func (g *generator) decIndent() { g.indent-- }

func (g *generator) indentStr() string {
	return strings.Repeat(g.indentUnit, g.indent)
}

func (g *generator) warnUnknown(n ast.Node) {
	if g.diag == nil {
		return
	}
	line, col := n.Pos()
	g.diag.WarningfAt(line, col, "unknown AST node type %T, emitting nothing", n)
}

// --- Statement generation ---

func (g *generator) generateStmts(stmts []ast.Statement) {
	for _, stmt := range stmts {
		g.generateStmt(stmt)
	}
}

func (g *generator) generateStmt(s ast.Statement) {
	switch stmt := s.(type) {
	case *ast.ImportDecl:
		g.collectImport(stmt)

	case *ast.NamespaceDecl:
		// Namespaces have no JavaScript equivalent; members are spliced
		// into the enclosing scope in declaration order. Same-named
		// classes from different namespaces will collide.
		g.generateStmts(stmt.Members)

	case *ast.ClassDecl:
		g.generateClass(stmt)

	case *ast.FunctionDecl:
		g.generateFunction(stmt)

	case *ast.FieldDecl:
		g.generateField(stmt)

	case *ast.VarDecl:
		if stmt.Init != nil {
			g.emitLinef("let %s = %s;", stmt.Name, g.generateExpr(stmt.Init))
		} else {
			g.emitLinef("let %s;", stmt.Name)
		}

	case *ast.IfStmt:
		g.generateIfStmt(stmt)

	case *ast.WhileStmt:
		g.emitLinef("while (%s) {", g.generateExpr(stmt.Cond))
		g.incIndent()
		g.generateStmts(stmt.Body)
		g.decIndent()
		g.emitLine("}")

	case *ast.ForStmt:
		g.generateForStmt(stmt)

	case *ast.ReturnStmt:
		if stmt.Value != nil {
			g.emitLinef("return %s;", g.generateExpr(stmt.Value))
		} else {
			g.emitLine("return;")
		}

	case *ast.ExprStmt:
		g.emitLinef("%s;", g.generateExpr(stmt.Expr))

	default:
		g.warnUnknown(s)
	}
}

// collectImport records the rendered import binding; it is emitted later in
// the deduplicated import block, never inline.
func (g *generator) collectImport(imp *ast.ImportDecl) {
	name := imp.Alias
	if name == "" {
		name = bindingName(imp.Path)
	}
	var rendered string
	if strings.HasSuffix(imp.Path, moduleSuffix) {
		rendered = fmt.Sprintf("import %s from %q;", name, imp.Path)
	} else {
		rendered = fmt.Sprintf("const %s = require(%q);", name, imp.Path)
	}
	g.usings[rendered] = struct{}{}
}

// bindingName derives an identifier from an import path: the last path
// segment with the module suffix and non-identifier characters stripped.
func bindingName(path string) string {
	name := path
	if i := strings.LastIndexAny(name, "/."); i >= 0 && strings.HasSuffix(name, moduleSuffix) {
		name = strings.TrimSuffix(name, moduleSuffix)
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	var sb strings.Builder
	for _, r := range name {
		if r == '-' || r == '.' {
			sb.WriteRune('_')
		} else {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "_mod"
	}
	return sb.String()
}

func (g *generator) generateClass(c *ast.ClassDecl) {
	header := "class " + c.Name
	if len(c.TypeParams) > 0 {
		// Generic parameters have no JavaScript representation.
		header += fmt.Sprintf(" /* <%s> */", strings.Join(c.TypeParams, ", "))
	}
	g.emitLine(header + " {")
	g.incIndent()
	for _, m := range c.Members {
		switch member := m.(type) {
		case *ast.FunctionDecl:
			g.generateMethod(member)
		case *ast.FieldDecl:
			g.generateField(member)
		default:
			g.warnUnknown(m)
		}
	}
	g.decIndent()
	g.emitLine("}")
}

func (g *generator) generateField(f *ast.FieldDecl) {
	prefix := ""
	if f.IsStatic {
		prefix = "static "
	}
	if f.Init != nil {
		g.emitLinef("%s%s = %s;", prefix, f.Name, g.generateExpr(f.Init))
	} else {
		g.emitLinef("%s%s;", prefix, f.Name)
	}
}

func (g *generator) generateFunction(f *ast.FunctionDecl) {
	params := paramList(f.Params)
	if f.Name == EntryFunctionName {
		// The entry function runs at module load.
		g.emitLinef("(function %s(%s) {", f.Name, params)
		g.incIndent()
		g.generateStmts(f.Body)
		g.decIndent()
		g.emitLine("})();")
		return
	}
	g.emitLinef("function %s(%s) {", f.Name, params)
	g.incIndent()
	g.generateStmts(f.Body)
	g.decIndent()
	g.emitLine("}")
}

func (g *generator) generateMethod(m *ast.FunctionDecl) {
	params := paramList(m.Params)
	switch {
	case m.IsConstructor:
		g.emitLinef("constructor(%s) {", params)
	case m.IsStatic:
		g.emitLinef("static %s(%s) {", m.Name, params)
	default:
		g.emitLinef("%s(%s) {", m.Name, params)
	}
	g.incIndent()
	g.generateStmts(m.Body)
	g.decIndent()
	g.emitLine("}")
}

func paramList(params []*ast.Param) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

func (g *generator) generateIfStmt(stmt *ast.IfStmt) {
	g.emitLinef("if (%s) {", g.generateExpr(stmt.Cond))
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
}

func (g *generator) generateForStmt(stmt *ast.ForStmt) {
	if stmt.IsForIn {
		g.emitLinef("for (const %s of %s) {", stmt.Variable, g.generateExpr(stmt.Iterable))
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

	g.emitLinef("for (%s; %s; %s) {", init, cond, post)
	g.incIndent()
	g.generateStmts(stmt.Body)
	g.decIndent()
	g.emitLine("}")
}

// renderInlineStmt re-renders a loop clause into a single-line fragment
// without its trailing terminator.
func (g *generator) renderInlineStmt(s ast.Statement) string {
	if s == nil {
		return ""
	}
	switch stmt := s.(type) {
	case *ast.VarDecl:
		if stmt.Init != nil {
			return fmt.Sprintf("let %s = %s", stmt.Name, g.generateExpr(stmt.Init))
		}
		return "let " + stmt.Name
	case *ast.ExprStmt:
		return g.generateExpr(stmt.Expr)
	default:
		g.warnUnknown(s)
		return ""
	}
}

// --- Expression generation ---

func (g *generator) generateExpr(e ast.Expression) string {
	if e == nil {
		return "null"
	}
	switch expr := e.(type) {
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s",
			g.generateExpr(expr.Left), mapOperator(expr.Op), g.generateExpr(expr.Right))

	case *ast.Literal:
		return renderLiteral(expr)

	case *ast.Identifier:
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
		return fmt.Sprintf("new %s(%s)", expr.TypeName, g.generateArgs(expr.Args))

	case *ast.LambdaExpr:
		return g.generateLambda(expr)

	default:
		g.warnUnknown(e)
		return ""
	}
}

func (g *generator) generateArgs(args []ast.Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = g.generateExpr(a)
	}
	return strings.Join(parts, ", ")
}

func (g *generator) generateCall(expr *ast.CallExpr) string {
	// The front-end output builtins map to the platform console call.
	if id, ok := expr.Callee.(*ast.Identifier); ok {
		if id.Name == "print" || id.Name == "println" {
			return fmt.Sprintf("console.log(%s)", g.generateArgs(expr.Args))
		}
	}
	return fmt.Sprintf("%s(%s)", g.generateExpr(expr.Callee), g.generateArgs(expr.Args))
}

func (g *generator) generateLambda(expr *ast.LambdaExpr) string {
	params := paramList(expr.Params)
	if expr.ExprBody != nil {
		return fmt.Sprintf("(%s) => %s", params, g.generateExpr(expr.ExprBody))
	}
	if len(expr.BlockBody) > 0 {
		sub := &generator{indentUnit: g.indentUnit, indent: g.indent + 1, usings: g.usings, diag: g.diag}
		sub.generateStmts(expr.BlockBody)
		return fmt.Sprintf("(%s) => {\n%s%s}", params, sub.sb.String(), g.indentStr())
	}
	// Neither body form; should not occur in a well-formed AST.
	return fmt.Sprintf("(%s) => {}", params)
}

// mapOperator translates source operator tags to JavaScript. Equality and
// inequality tighten to the strict comparison operators.
func mapOperator(op string) string {
	switch op {
	case "==":
		return "==="
	case "!=":
		return "!=="
	default:
		return op
	}
}

func renderLiteral(lit *ast.Literal) string {
	switch lit.Kind {
	case ast.StringLiteral:
		return strconv.Quote(lit.Value)
	case ast.BoolLiteral:
		if lit.Value == "true" {
			return "true"
		}
		return "false"
	case ast.NullLiteral:
		return "null"
	default:
		return lit.Value
	}
}
