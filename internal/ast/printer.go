package ast

import (
	"fmt"
	"strings"

	"github.com/m1gwings/treedrawer/tree"
)

// DrawProgram renders the program as a box-drawn tree for debugging.
func DrawProgram(prog *Program) string {
	t := tree.NewTree(tree.NodeString("program"))
	for _, stmt := range prog.Statements {
		addStatement(t, stmt)
	}
	return t.String()
}

func addStatement(parent *tree.Tree, s Statement) {
	switch stmt := s.(type) {
	case *ImportDecl:
		label := "import " + stmt.Path
		if stmt.Alias != "" {
			label += " as " + stmt.Alias
		}
		parent.AddChild(tree.NodeString(label))

	case *NamespaceDecl:
		child := parent.AddChild(tree.NodeString("namespace " + stmt.Name))
		for _, m := range stmt.Members {
			addStatement(child, m)
		}

	case *ClassDecl:
		label := "class " + stmt.Name
		if len(stmt.TypeParams) > 0 {
			label += "<" + strings.Join(stmt.TypeParams, ", ") + ">"
		}
		child := parent.AddChild(tree.NodeString(label))
		for _, m := range stmt.Members {
			addStatement(child, m)
		}

	case *FunctionDecl:
		label := "func " + stmt.Name
		if stmt.IsConstructor {
			label = "ctor " + stmt.Name
		} else if stmt.IsStatic {
			label = "static func " + stmt.Name
		}
		child := parent.AddChild(tree.NodeString(label))
		for _, b := range stmt.Body {
			addStatement(child, b)
		}

	case *FieldDecl:
		label := "field " + stmt.Name
		if stmt.IsStatic {
			label = "static field " + stmt.Name
		}
		child := parent.AddChild(tree.NodeString(label))
		if stmt.Init != nil {
			addExpression(child, stmt.Init)
		}

	case *VarDecl:
		child := parent.AddChild(tree.NodeString("var " + stmt.Name))
		if stmt.Init != nil {
			addExpression(child, stmt.Init)
		}

	case *IfStmt:
		child := parent.AddChild(tree.NodeString("if"))
		addExpression(child, stmt.Cond)
		then := child.AddChild(tree.NodeString("then"))
		for _, b := range stmt.Then {
			addStatement(then, b)
		}
		if len(stmt.Else) > 0 {
			els := child.AddChild(tree.NodeString("else"))
			for _, b := range stmt.Else {
				addStatement(els, b)
			}
		}

	case *WhileStmt:
		child := parent.AddChild(tree.NodeString("while"))
		addExpression(child, stmt.Cond)
		for _, b := range stmt.Body {
			addStatement(child, b)
		}

	case *ForStmt:
		if stmt.IsForIn {
			child := parent.AddChild(tree.NodeString("for-in " + stmt.Variable))
			addExpression(child, stmt.Iterable)
			for _, b := range stmt.Body {
				addStatement(child, b)
			}
			return
		}
		child := parent.AddChild(tree.NodeString("for"))
		if stmt.Init != nil {
			addStatement(child, stmt.Init)
		}
		if stmt.Cond != nil {
			addExpression(child, stmt.Cond)
		}
		if stmt.Post != nil {
			addStatement(child, stmt.Post)
		}
		for _, b := range stmt.Body {
			addStatement(child, b)
		}

	case *ReturnStmt:
		child := parent.AddChild(tree.NodeString("return"))
		if stmt.Value != nil {
			addExpression(child, stmt.Value)
		}

	case *ExprStmt:
		addExpression(parent, stmt.Expr)

	default:
		parent.AddChild(tree.NodeString(fmt.Sprintf("%T", s)))
	}
}

func addExpression(parent *tree.Tree, e Expression) {
	switch expr := e.(type) {
	case *BinaryExpr:
		child := parent.AddChild(tree.NodeString(expr.Op))
		addExpression(child, expr.Left)
		addExpression(child, expr.Right)

	case *Literal:
		if expr.Kind == NullLiteral {
			parent.AddChild(tree.NodeString("null"))
		} else {
			parent.AddChild(tree.NodeString(expr.Value))
		}

	case *Identifier:
		parent.AddChild(tree.NodeString(expr.Name))

	case *QualifiedIdent:
		parent.AddChild(tree.NodeString(strings.Join(expr.Parts, ".")))

	case *CallExpr:
		child := parent.AddChild(tree.NodeString("call"))
		addExpression(child, expr.Callee)
		for _, a := range expr.Args {
			addExpression(child, a)
		}

	case *MemberExpr:
		child := parent.AddChild(tree.NodeString("." + expr.Member))
		addExpression(child, expr.Object)

	case *AssignExpr:
		child := parent.AddChild(tree.NodeString(expr.Op))
		addExpression(child, expr.Target)
		addExpression(child, expr.Value)

	case *NewExpr:
		child := parent.AddChild(tree.NodeString("new " + expr.TypeName))
		for _, a := range expr.Args {
			addExpression(child, a)
		}

	case *LambdaExpr:
		child := parent.AddChild(tree.NodeString("lambda"))
		if expr.ExprBody != nil {
			addExpression(child, expr.ExprBody)
		}
		for _, b := range expr.BlockBody {
			addStatement(child, b)
		}

	default:
		parent.AddChild(tree.NodeString(fmt.Sprintf("%T", e)))
	}
}
