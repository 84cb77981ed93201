package gobe

import (
	"strings"
	"testing"

	"github.com/cedar-lang/cedar/internal/ast"
	"github.com/cedar-lang/cedar/internal/diagnostic"
)

func strLit(v string) *ast.Literal {
	return &ast.Literal{Kind: ast.StringLiteral, Value: v}
}

func numLit(v string) *ast.Literal {
	return &ast.Literal{Kind: ast.NumberLiteral, Value: v}
}

func printlnCall(arg ast.Expression) *ast.ExprStmt {
	return &ast.ExprStmt{Expr: &ast.CallExpr{
		Callee: &ast.Identifier{Name: "println"},
		Args:   []ast.Expression{arg},
	}}
}

func helloProgram() *ast.Program {
	return &ast.Program{Statements: []ast.Statement{
		&ast.NamespaceDecl{
			Name: "Demo.App",
			Members: []ast.Statement{
				&ast.ClassDecl{
					Name: "Program",
					Members: []ast.Statement{
						&ast.FunctionDecl{
							Name:     EntryMethodName,
							IsStatic: true,
							Body:     []ast.Statement{printlnCall(strLit("Hello, World!"))},
						},
					},
				},
			},
		},
	}}
}

func TestGenerateHelloUnit(t *testing.T) {
	src := New().Generate(helloProgram(), nil, "", "")

	for _, want := range []string{
		"package App\n",
		`import "fmt"`,
		"type Program struct{}",
		"func NewProgram() *Program {",
		"func (self Program) Main() {",
		`fmt.Println("Hello, World!")`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("Expected %q in generated unit:\n%s", want, src)
		}
	}
}

func TestGeneratedUnitRoundTripsThroughSourceInfo(t *testing.T) {
	src := New().Generate(helloProgram(), nil, "", "")

	info, err := ExtractSourceInfo(src)
	if err != nil {
		t.Fatalf("Generated unit must parse: %v", err)
	}
	if info.Namespace != "App" {
		t.Errorf("Expected namespace App, got %q", info.Namespace)
	}
	if info.MainClass != "Program" || !info.HasMain || !info.MainIsMethod {
		t.Errorf("Expected entry Program.Main, got %+v", info)
	}
}

func TestNamespaceOverrideSetsPackageClause(t *testing.T) {
	src := New().Generate(helloProgram(), nil, "Tools.Custom", "")
	if !strings.HasPrefix(src, "package Custom\n") {
		t.Errorf("Override must win and keep only its last segment, got:\n%s", src)
	}
}

func TestDefaultPackageWithoutNamespace(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FunctionDecl{Name: "Main", Body: []ast.Statement{printlnCall(strLit("hi"))}},
	}}
	src := New().Generate(prog, nil, "", "")
	if !strings.HasPrefix(src, "package main\n") {
		t.Errorf("Expected default package, got:\n%s", src)
	}
	if !strings.Contains(src, "func Main() {") {
		t.Errorf("Expected bare entry function, got:\n%s", src)
	}
}

func TestClassRendering(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.ClassDecl{
			Name: "Counter",
			Members: []ast.Statement{
				&ast.FieldDecl{Name: "value", Type: "int", Init: numLit("0")},
				&ast.FieldDecl{Name: "total", Type: "int", IsStatic: true, Init: numLit("0")},
				&ast.FunctionDecl{
					Name:          "init",
					IsConstructor: true,
					Params:        []*ast.Param{{Name: "start", Type: "int"}},
					Body: []ast.Statement{
						&ast.ExprStmt{Expr: &ast.AssignExpr{
							Target: &ast.MemberExpr{Object: &ast.Identifier{Name: "this"}, Member: "value"},
							Op:     "=",
							Value:  &ast.Identifier{Name: "start"},
						}},
					},
				},
				&ast.FunctionDecl{
					Name:       "Value",
					ReturnType: "int",
					Body: []ast.Statement{
						&ast.ReturnStmt{Value: &ast.MemberExpr{
							Object: &ast.Identifier{Name: "this"}, Member: "value",
						}},
					},
				},
			},
		},
	}}

	src := New().Generate(prog, nil, "", "")

	for _, want := range []string{
		"type Counter struct {",
		"value int",
		"var Counter_total = 0",
		"func NewCounter(start int) *Counter {",
		"self := &Counter{}",
		"self.value = 0",
		"self.value = start",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("Expected %q in generated unit:\n%s", want, src)
		}
	}
	if !strings.Contains(src, "func (self Counter) Value() int {") {
		t.Errorf("Expected value-receiver method with return type, got:\n%s", src)
	}
	if !strings.Contains(src, "return self.value") {
		t.Errorf("this must rewrite to self, got:\n%s", src)
	}
	if idx := strings.Index(src, "self.value = 0"); idx > strings.Index(src, "self.value = start") {
		t.Errorf("Field initializers must run before the constructor body:\n%s", src)
	}
}

func TestNewExprTargetsGeneratedConstructor(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.ClassDecl{Name: "Greeter"},
		&ast.FunctionDecl{Name: "Main", Body: []ast.Statement{
			&ast.VarDecl{Name: "g", Init: &ast.NewExpr{
				TypeName: "Greeter",
				Args:     []ast.Expression{strLit("hi")},
			}},
		}},
	}}

	src := New().Generate(prog, nil, "", "")
	if !strings.Contains(src, `g := NewGreeter("hi")`) {
		t.Errorf("Expected constructor call, got:\n%s", src)
	}
}

func TestControlFlow(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FunctionDecl{Name: "loop", Body: []ast.Statement{
			&ast.WhileStmt{
				Cond: &ast.BinaryExpr{Left: &ast.Identifier{Name: "x"}, Op: "<", Right: numLit("3")},
				Body: []ast.Statement{
					&ast.IfStmt{
						Cond: &ast.BinaryExpr{Left: &ast.Identifier{Name: "x"}, Op: "==", Right: numLit("1")},
						Then: []ast.Statement{&ast.ReturnStmt{}},
					},
				},
			},
			&ast.ForStmt{
				IsForIn:  true,
				Variable: "item",
				Iterable: &ast.Identifier{Name: "items"},
				Body:     []ast.Statement{printlnCall(&ast.Identifier{Name: "item"})},
			},
			&ast.ForStmt{
				Init: &ast.VarDecl{Name: "i", Init: numLit("0")},
				Cond: &ast.BinaryExpr{Left: &ast.Identifier{Name: "i"}, Op: "<", Right: numLit("10")},
				Post: &ast.ExprStmt{Expr: &ast.AssignExpr{
					Target: &ast.Identifier{Name: "i"}, Op: "+=", Value: numLit("1"),
				}},
				Body: []ast.Statement{},
			},
		}},
	}}

	src := New().Generate(prog, nil, "", "")

	if !strings.Contains(src, "for x < 3 {") {
		t.Errorf("while must render as condition-only for, got:\n%s", src)
	}
	if !strings.Contains(src, "if x == 1 {") {
		t.Errorf("Equality must stay == for this target, got:\n%s", src)
	}
	if !strings.Contains(src, "for _, item := range items {") {
		t.Errorf("for-in must render as range, got:\n%s", src)
	}
	if !strings.Contains(src, "for i := 0; i < 10; i += 1 {") {
		t.Errorf("classic for must render inline clauses, got:\n%s", src)
	}
}

func TestBuiltinsAndLiterals(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FunctionDecl{Name: "show", Body: []ast.Statement{
			&ast.ExprStmt{Expr: &ast.CallExpr{
				Callee: &ast.Identifier{Name: "print"},
				Args:   []ast.Expression{&ast.Literal{Kind: ast.NullLiteral}},
			}},
			printlnCall(&ast.Literal{Kind: ast.BoolLiteral, Value: "true"}),
		}},
	}}

	src := New().Generate(prog, nil, "", "")

	if !strings.Contains(src, "fmt.Print(nil)") {
		t.Errorf("print must rewrite to fmt.Print and null to nil, got:\n%s", src)
	}
	if !strings.Contains(src, "fmt.Println(true)") {
		t.Errorf("println must rewrite to fmt.Println, got:\n%s", src)
	}
	if !strings.Contains(src, `import "fmt"`) {
		t.Errorf("Builtin rewrite must add the fmt import, got:\n%s", src)
	}
}

func TestGenerateWithoutUsingsOmitsImports(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FunctionDecl{Name: "Main", Body: []ast.Statement{printlnCall(strLit("x"))}},
	}}

	b := New()
	src := b.GenerateWithoutUsings(prog, nil, "", "")
	if strings.Contains(src, "import") {
		t.Errorf("Import block must be omitted, got:\n%s", src)
	}
	if got := b.CollectedUsings(); len(got) != 1 || got[0] != `import "fmt"` {
		t.Errorf("Imports must still be collected, got %v", got)
	}
}

func TestGenerateCombined(t *testing.T) {
	progA := &ast.Program{Statements: []ast.Statement{
		&ast.NamespaceDecl{Name: "App", Members: []ast.Statement{
			&ast.ClassDecl{Name: "First"},
		}},
	}}
	progB := &ast.Program{Statements: []ast.Statement{
		&ast.ClassDecl{Name: "Second"},
		&ast.FunctionDecl{Name: "use", Body: []ast.Statement{printlnCall(strLit("x"))}},
	}}

	src := New().GenerateCombined([]*ast.Program{progA, progB}, nil, "", "")

	if !strings.HasPrefix(src, "package App\n") {
		t.Errorf("Package clause must come from the first program, got:\n%s", src)
	}
	if strings.Index(src, "type First") > strings.Index(src, "type Second") {
		t.Errorf("Bodies must keep input order, got:\n%s", src)
	}
	if strings.Count(src, `import "fmt"`) != 1 {
		t.Errorf("Expected one merged import block, got:\n%s", src)
	}
}

func TestCanGenerateWarnsOnGenerics(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.NamespaceDecl{Name: "App", Members: []ast.Statement{
			&ast.ClassDecl{Name: "Box", TypeParams: []string{"T"}, Line: 3, Column: 1},
		}},
	}}

	diag := diagnostic.New()
	b := New()
	if !b.CanGenerate(prog, diag) {
		t.Error("Generics must not be fatal")
	}
	if diag.WarningCount() != 1 {
		t.Errorf("Expected 1 warning, got %s", diag.Format("test"))
	}

	src := b.Generate(prog, diag, "", "")
	if !strings.Contains(src, "// generic parameters erased: <T>") {
		t.Errorf("Expected erasure comment, got:\n%s", src)
	}
	if !strings.Contains(src, "type Box struct{}") {
		t.Errorf("Generic class must still render, got:\n%s", src)
	}
}

func TestLambdaForms(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.FunctionDecl{Name: "f", Body: []ast.Statement{
			&ast.VarDecl{Name: "double", Init: &ast.LambdaExpr{
				Params:   []*ast.Param{{Name: "x", Type: "int"}},
				ExprBody: &ast.BinaryExpr{Left: &ast.Identifier{Name: "x"}, Op: "*", Right: numLit("2")},
			}},
			&ast.VarDecl{Name: "log", Init: &ast.LambdaExpr{
				BlockBody: []ast.Statement{printlnCall(strLit("called"))},
			}},
		}},
	}}

	src := New().Generate(prog, nil, "", "")

	if !strings.Contains(src, "double := func(x int) any { return x * 2 }") {
		t.Errorf("Expected inline lambda, got:\n%s", src)
	}
	if !strings.Contains(src, "log := func() {") {
		t.Errorf("Expected block lambda, got:\n%s", src)
	}
	if !strings.Contains(src, `fmt.Println("called")`) {
		t.Errorf("Lambda body must share the import set, got:\n%s", src)
	}
}

func TestTypeMapping(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"int", "int"},
		{"string", "string"},
		{"bool", "bool"},
		{"float", "float64"},
		{"double", "float64"},
		{"", "any"},
		{"dynamic", "any"},
		{"SomeUserType", "any"},
	}
	for _, tt := range tests {
		if got := mapType(tt.in); got != tt.want {
			t.Errorf("mapType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := mapReturnType("void"); got != "" {
		t.Errorf("void return must map to no type, got %q", got)
	}
	if got := mapReturnType("int"); got != " int" {
		t.Errorf("mapReturnType(int) = %q", got)
	}
}
