package ast

import (
	"strings"
	"testing"
)

const helloDoc = `{
  "statements": [
    {"kind": "import", "path": "./utils.js", "alias": "utils", "line": 1, "column": 1},
    {
      "kind": "namespace", "name": "Demo.App",
      "members": [
        {
          "kind": "class", "name": "Program",
          "members": [
            {"kind": "field", "name": "greeting", "type": "string",
             "init": {"kind": "literal", "literal": "string", "value": "Hello"}},
            {
              "kind": "function", "name": "Main", "static": true,
              "params": [{"name": "args", "type": "string"}],
              "body": [
                {"kind": "exprStmt", "expr": {
                  "kind": "call",
                  "callee": {"kind": "identifier", "name": "print"},
                  "args": [{"kind": "literal", "literal": "string", "value": "Hello, World!"}]
                }}
              ]
            }
          ]
        }
      ]
    }
  ]
}`

func TestDecodeProgram(t *testing.T) {
	prog, err := DecodeProgram([]byte(helloDoc))
	if err != nil {
		t.Fatalf("DecodeProgram: %v", err)
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("Expected 2 top-level statements, got %d", len(prog.Statements))
	}

	imp, ok := prog.Statements[0].(*ImportDecl)
	if !ok {
		t.Fatalf("Expected ImportDecl, got %T", prog.Statements[0])
	}
	if imp.Path != "./utils.js" || imp.Alias != "utils" {
		t.Errorf("Unexpected import: %+v", imp)
	}
	if line, col := imp.Pos(); line != 1 || col != 1 {
		t.Errorf("Position lost in decoding: %d:%d", line, col)
	}

	ns, ok := prog.Statements[1].(*NamespaceDecl)
	if !ok {
		t.Fatalf("Expected NamespaceDecl, got %T", prog.Statements[1])
	}
	if ns.Name != "Demo.App" || len(ns.Members) != 1 {
		t.Fatalf("Unexpected namespace: %+v", ns)
	}

	class, ok := ns.Members[0].(*ClassDecl)
	if !ok || class.Name != "Program" || len(class.Members) != 2 {
		t.Fatalf("Unexpected class: %+v", ns.Members[0])
	}

	field, ok := class.Members[0].(*FieldDecl)
	if !ok || field.Name != "greeting" {
		t.Fatalf("Expected field greeting, got %+v", class.Members[0])
	}
	lit, ok := field.Init.(*Literal)
	if !ok || lit.Kind != StringLiteral || lit.Value != "Hello" {
		t.Errorf("Unexpected field initializer: %+v", field.Init)
	}

	fn, ok := class.Members[1].(*FunctionDecl)
	if !ok || fn.Name != "Main" || !fn.IsStatic {
		t.Fatalf("Expected static Main, got %+v", class.Members[1])
	}
	if len(fn.Params) != 1 || fn.Params[0].Name != "args" {
		t.Errorf("Unexpected params: %+v", fn.Params)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("Expected 1 body statement, got %d", len(fn.Body))
	}
	call, ok := fn.Body[0].(*ExprStmt).Expr.(*CallExpr)
	if !ok || len(call.Args) != 1 {
		t.Fatalf("Unexpected body: %+v", fn.Body[0])
	}
}

func TestDecodeControlFlow(t *testing.T) {
	doc := `{
  "statements": [
    {
      "kind": "for",
      "init": {"kind": "var", "name": "i", "init": {"kind": "literal", "literal": "number", "value": "0"}},
      "cond": {"kind": "binary", "op": "<",
        "left": {"kind": "identifier", "name": "i"},
        "right": {"kind": "literal", "literal": "number", "value": "10"}},
      "post": {"kind": "exprStmt", "expr": {"kind": "assign",
        "op": "+=",
        "target": {"kind": "identifier", "name": "i"},
        "expr": {"kind": "literal", "literal": "number", "value": "1"}}},
      "body": []
    },
    {
      "kind": "for", "forIn": true, "variable": "item",
      "iterable": {"kind": "identifier", "name": "items"},
      "body": [{"kind": "return"}]
    },
    {
      "kind": "if",
      "cond": {"kind": "literal", "literal": "bool", "value": "true"},
      "then": [{"kind": "return", "expr": {"kind": "literal", "literal": "null"}}]
    }
  ]
}`

	prog, err := DecodeProgram([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeProgram: %v", err)
	}

	classic := prog.Statements[0].(*ForStmt)
	if classic.IsForIn || classic.Init == nil || classic.Cond == nil || classic.Post == nil {
		t.Errorf("Unexpected classic for: %+v", classic)
	}
	if assign := classic.Post.(*ExprStmt).Expr.(*AssignExpr); assign.Op != "+=" {
		t.Errorf("Assign op lost: %+v", assign)
	}

	forIn := prog.Statements[1].(*ForStmt)
	if !forIn.IsForIn || forIn.Variable != "item" {
		t.Errorf("Unexpected for-in: %+v", forIn)
	}

	ifStmt := prog.Statements[2].(*IfStmt)
	if len(ifStmt.Then) != 1 || len(ifStmt.Else) != 0 {
		t.Errorf("Unexpected if: %+v", ifStmt)
	}
	ret := ifStmt.Then[0].(*ReturnStmt)
	if lit, ok := ret.Value.(*Literal); !ok || lit.Kind != NullLiteral {
		t.Errorf("Unexpected return value: %+v", ret.Value)
	}
}

func TestDecodeAssignDefaultsToPlainAssignment(t *testing.T) {
	doc := `{"statements": [{"kind": "exprStmt", "expr": {
    "kind": "assign",
    "target": {"kind": "identifier", "name": "x"},
    "expr": {"kind": "literal", "literal": "number", "value": "1"}
  }}]}`

	prog, err := DecodeProgram([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeProgram: %v", err)
	}
	assign := prog.Statements[0].(*ExprStmt).Expr.(*AssignExpr)
	if assign.Op != "=" {
		t.Errorf("Expected default op =, got %q", assign.Op)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"malformed json", `{"statements": [`, "decoding program"},
		{"unknown statement kind", `{"statements": [{"kind": "goto"}]}`, `unknown statement kind "goto"`},
		{"unknown expression kind", `{"statements": [{"kind": "exprStmt", "expr": {"kind": "ternary"}}]}`, `unknown expression kind "ternary"`},
		{"unknown literal kind", `{"statements": [{"kind": "exprStmt", "expr": {"kind": "literal", "literal": "char"}}]}`, `unknown literal kind "char"`},
		{"missing expression", `{"statements": [{"kind": "exprStmt"}]}`, "missing expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeProgram([]byte(tt.doc))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Error %q does not mention %q", err, tt.want)
			}
		})
	}
}
