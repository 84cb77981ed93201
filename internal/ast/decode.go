package ast

import (
	"encoding/json"
	"fmt"
)

// DecodeProgram decodes the JSON AST interchange document produced by the
// front end into a Program. Every node object carries a "kind" discriminator;
// unknown kinds are a decoding error since the interchange format is closed.
func DecodeProgram(data []byte) (*Program, error) {
	var doc struct {
		Statements []json.RawMessage `json:"statements"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}

	prog := &Program{}
	for i, raw := range doc.Statements {
		stmt, err := decodeStatement(raw)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

// node is the envelope every interchange object unmarshals into. Only the
// fields relevant to the node's kind are populated.
type node struct {
	Kind string `json:"kind"`

	Name       string   `json:"name,omitempty"`
	Path       string   `json:"path,omitempty"`
	Alias      string   `json:"alias,omitempty"`
	Type       string   `json:"type,omitempty"`
	ReturnType string   `json:"returnType,omitempty"`
	TypeParams []string `json:"typeParams,omitempty"`
	Op         string   `json:"op,omitempty"`
	Value      string   `json:"value,omitempty"`
	Literal    string   `json:"literal,omitempty"`
	Parts      []string `json:"parts,omitempty"`
	Variable   string   `json:"variable,omitempty"`

	Static      bool `json:"static,omitempty"`
	Constructor bool `json:"constructor,omitempty"`
	ForIn       bool `json:"forIn,omitempty"`

	Params []struct {
		Name string `json:"name"`
		Type string `json:"type,omitempty"`
	} `json:"params,omitempty"`

	Members  []json.RawMessage `json:"members,omitempty"`
	Body     []json.RawMessage `json:"body,omitempty"`
	Then     []json.RawMessage `json:"then,omitempty"`
	Else     []json.RawMessage `json:"else,omitempty"`
	Args     []json.RawMessage `json:"args,omitempty"`
	Init     json.RawMessage   `json:"init,omitempty"`
	Cond     json.RawMessage   `json:"cond,omitempty"`
	Post     json.RawMessage   `json:"post,omitempty"`
	Iterable json.RawMessage   `json:"iterable,omitempty"`
	Expr     json.RawMessage   `json:"expr,omitempty"`
	Left     json.RawMessage   `json:"left,omitempty"`
	Right    json.RawMessage   `json:"right,omitempty"`
	Callee   json.RawMessage   `json:"callee,omitempty"`
	Object   json.RawMessage   `json:"object,omitempty"`
	Target   json.RawMessage   `json:"target,omitempty"`
	ExprBody json.RawMessage   `json:"exprBody,omitempty"`

	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`
}

func (n *node) params() []*Param {
	if len(n.Params) == 0 {
		return nil
	}
	out := make([]*Param, len(n.Params))
	for i, p := range n.Params {
		out[i] = &Param{Name: p.Name, Type: p.Type}
	}
	return out
}

func decodeStatements(raws []json.RawMessage) ([]Statement, error) {
	var out []Statement
	for i, raw := range raws {
		s, err := decodeStatement(raw)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeExpressions(raws []json.RawMessage) ([]Expression, error) {
	var out []Expression
	for i, raw := range raws {
		e, err := decodeExpression(raw)
		if err != nil {
			return nil, fmt.Errorf("expression %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// decodeOptionalExpression decodes raw when present, returning nil for an
// absent or JSON-null child.
func decodeOptionalExpression(raw json.RawMessage) (Expression, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return decodeExpression(raw)
}

func decodeOptionalStatement(raw json.RawMessage) (Statement, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return decodeStatement(raw)
}

func decodeStatement(raw json.RawMessage) (Statement, error) {
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}

	switch n.Kind {
	case "import":
		return &ImportDecl{Path: n.Path, Alias: n.Alias, Line: n.Line, Column: n.Column}, nil

	case "namespace":
		members, err := decodeStatements(n.Members)
		if err != nil {
			return nil, err
		}
		return &NamespaceDecl{Name: n.Name, Members: members, Line: n.Line, Column: n.Column}, nil

	case "class":
		members, err := decodeStatements(n.Members)
		if err != nil {
			return nil, err
		}
		return &ClassDecl{Name: n.Name, TypeParams: n.TypeParams, Members: members, Line: n.Line, Column: n.Column}, nil

	case "function":
		body, err := decodeStatements(n.Body)
		if err != nil {
			return nil, err
		}
		return &FunctionDecl{
			Name:          n.Name,
			Params:        n.params(),
			ReturnType:    n.ReturnType,
			Body:          body,
			IsStatic:      n.Static,
			IsConstructor: n.Constructor,
			Line:          n.Line,
			Column:        n.Column,
		}, nil

	case "field":
		init, err := decodeOptionalExpression(n.Init)
		if err != nil {
			return nil, err
		}
		return &FieldDecl{Name: n.Name, Type: n.Type, IsStatic: n.Static, Init: init, Line: n.Line, Column: n.Column}, nil

	case "var":
		init, err := decodeOptionalExpression(n.Init)
		if err != nil {
			return nil, err
		}
		return &VarDecl{Name: n.Name, Type: n.Type, Init: init, Line: n.Line, Column: n.Column}, nil

	case "if":
		cond, err := decodeExpression(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeStatements(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeStatements(n.Else)
		if err != nil {
			return nil, err
		}
		return &IfStmt{Cond: cond, Then: then, Else: els, Line: n.Line, Column: n.Column}, nil

	case "while":
		cond, err := decodeExpression(n.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(n.Body)
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Cond: cond, Body: body, Line: n.Line, Column: n.Column}, nil

	case "for":
		body, err := decodeStatements(n.Body)
		if err != nil {
			return nil, err
		}
		if n.ForIn {
			iterable, err := decodeExpression(n.Iterable)
			if err != nil {
				return nil, err
			}
			return &ForStmt{IsForIn: true, Variable: n.Variable, Iterable: iterable, Body: body, Line: n.Line, Column: n.Column}, nil
		}
		init, err := decodeOptionalStatement(n.Init)
		if err != nil {
			return nil, err
		}
		cond, err := decodeOptionalExpression(n.Cond)
		if err != nil {
			return nil, err
		}
		post, err := decodeOptionalStatement(n.Post)
		if err != nil {
			return nil, err
		}
		return &ForStmt{Init: init, Cond: cond, Post: post, Body: body, Line: n.Line, Column: n.Column}, nil

	case "return":
		value, err := decodeOptionalExpression(n.Expr)
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{Value: value, Line: n.Line, Column: n.Column}, nil

	case "exprStmt":
		expr, err := decodeExpression(n.Expr)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: expr, Line: n.Line, Column: n.Column}, nil

	default:
		return nil, fmt.Errorf("unknown statement kind %q", n.Kind)
	}
}

func decodeExpression(raw json.RawMessage) (Expression, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing expression")
	}
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}

	switch n.Kind {
	case "binary":
		left, err := decodeExpression(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(n.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Left: left, Op: n.Op, Right: right, Line: n.Line, Column: n.Column}, nil

	case "literal":
		kind, err := literalKind(n.Literal)
		if err != nil {
			return nil, err
		}
		return &Literal{Kind: kind, Value: n.Value, Line: n.Line, Column: n.Column}, nil

	case "identifier":
		return &Identifier{Name: n.Name, Line: n.Line, Column: n.Column}, nil

	case "qualified":
		return &QualifiedIdent{Parts: n.Parts, Line: n.Line, Column: n.Column}, nil

	case "call":
		callee, err := decodeExpression(n.Callee)
		if err != nil {
			return nil, err
		}
		args, err := decodeExpressions(n.Args)
		if err != nil {
			return nil, err
		}
		return &CallExpr{Callee: callee, Args: args, Line: n.Line, Column: n.Column}, nil

	case "member":
		object, err := decodeExpression(n.Object)
		if err != nil {
			return nil, err
		}
		return &MemberExpr{Object: object, Member: n.Name, Line: n.Line, Column: n.Column}, nil

	case "assign":
		target, err := decodeExpression(n.Target)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpression(n.Expr)
		if err != nil {
			return nil, err
		}
		op := n.Op
		if op == "" {
			op = "="
		}
		return &AssignExpr{Target: target, Op: op, Value: value, Line: n.Line, Column: n.Column}, nil

	case "new":
		args, err := decodeExpressions(n.Args)
		if err != nil {
			return nil, err
		}
		return &NewExpr{TypeName: n.Name, Args: args, Line: n.Line, Column: n.Column}, nil

	case "lambda":
		exprBody, err := decodeOptionalExpression(n.ExprBody)
		if err != nil {
			return nil, err
		}
		blockBody, err := decodeStatements(n.Body)
		if err != nil {
			return nil, err
		}
		return &LambdaExpr{Params: n.params(), ExprBody: exprBody, BlockBody: blockBody, Line: n.Line, Column: n.Column}, nil

	default:
		return nil, fmt.Errorf("unknown expression kind %q", n.Kind)
	}
}

func literalKind(name string) (LiteralKind, error) {
	switch name {
	case "string":
		return StringLiteral, nil
	case "number":
		return NumberLiteral, nil
	case "bool":
		return BoolLiteral, nil
	case "null":
		return NullLiteral, nil
	default:
		return 0, fmt.Errorf("unknown literal kind %q", name)
	}
}
