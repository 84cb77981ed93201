package ast

// Node is the base interface for all AST nodes
type Node interface {
	Pos() (line, col int)
}

// Statement nodes
type Statement interface {
	Node
	stmtNode()
}

// Expression nodes
type Expression interface {
	Node
	exprNode()
}

// Program represents a single validated compile unit handed over by the
// front end. It is consumed read-only by every backend.
type Program struct {
	Statements []Statement
}

func (p *Program) Pos() (int, int) {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return 0, 0
}

// LiteralKind tags the lexical class of a literal expression.
type LiteralKind int

const (
	StringLiteral LiteralKind = iota
	NumberLiteral
	BoolLiteral
	NullLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case StringLiteral:
		return "string"
	case NumberLiteral:
		return "number"
	case BoolLiteral:
		return "bool"
	case NullLiteral:
		return "null"
	default:
		return "unknown"
	}
}

// Param represents a function, method, or lambda parameter.
type Param struct {
	Name string
	Type string // declared type annotation; empty when untyped
}

// --- Declarations ---

// ImportDecl represents an import statement. Path is the imported module
// path or name, Alias the locally bound identifier (may be empty).
type ImportDecl struct {
	Path   string
	Alias  string
	Line   int
	Column int
}

func (d *ImportDecl) Pos() (int, int) { return d.Line, d.Column }
func (d *ImportDecl) stmtNode()       {}

// NamespaceDecl groups declarations under a dotted name. Backends without a
// namespace concept splice Members into the enclosing scope.
type NamespaceDecl struct {
	Name    string
	Members []Statement
	Line    int
	Column  int
}

func (d *NamespaceDecl) Pos() (int, int) { return d.Line, d.Column }
func (d *NamespaceDecl) stmtNode()       {}

// ClassDecl represents a class declaration. TypeParams holds generic type
// parameter names, which not every target can represent.
type ClassDecl struct {
	Name       string
	TypeParams []string
	Members    []Statement
	Line       int
	Column     int
}

func (d *ClassDecl) Pos() (int, int) { return d.Line, d.Column }
func (d *ClassDecl) stmtNode()       {}

// FunctionDecl represents a free function or a class method. A method with
// IsConstructor set renders as the target's constructor regardless of Name.
type FunctionDecl struct {
	Name          string
	Params        []*Param
	ReturnType    string // declared return type annotation; empty when untyped
	Body          []Statement
	IsStatic      bool
	IsConstructor bool
	Line          int
	Column        int
}

func (d *FunctionDecl) Pos() (int, int) { return d.Line, d.Column }
func (d *FunctionDecl) stmtNode()       {}

// FieldDecl represents a class field. Init may be nil for a bare declaration.
type FieldDecl struct {
	Name     string
	Type     string
	IsStatic bool
	Init     Expression
	Line     int
	Column   int
}

func (d *FieldDecl) Pos() (int, int) { return d.Line, d.Column }
func (d *FieldDecl) stmtNode()       {}

// VarDecl represents a local or top-level variable declaration.
type VarDecl struct {
	Name   string
	Type   string
	Init   Expression
	Line   int
	Column int
}

func (d *VarDecl) Pos() (int, int) { return d.Line, d.Column }
func (d *VarDecl) stmtNode()       {}

// --- Statements ---

// IfStmt represents a conditional with an optional else branch.
type IfStmt struct {
	Cond   Expression
	Then   []Statement
	Else   []Statement
	Line   int
	Column int
}

func (s *IfStmt) Pos() (int, int) { return s.Line, s.Column }
func (s *IfStmt) stmtNode()       {}

// WhileStmt represents a pre-tested loop.
type WhileStmt struct {
	Cond   Expression
	Body   []Statement
	Line   int
	Column int
}

func (s *WhileStmt) Pos() (int, int) { return s.Line, s.Column }
func (s *WhileStmt) stmtNode()       {}

// ForStmt represents either a classic three-clause loop or, with IsForIn
// set, an iteration over a collection binding Variable per element. In the
// for-in form Init, Cond and Post are nil.
type ForStmt struct {
	Init     Statement
	Cond     Expression
	Post     Statement
	IsForIn  bool
	Variable string
	Iterable Expression
	Body     []Statement
	Line     int
	Column   int
}

func (s *ForStmt) Pos() (int, int) { return s.Line, s.Column }
func (s *ForStmt) stmtNode()       {}

// ReturnStmt represents a return with an optional value.
type ReturnStmt struct {
	Value  Expression
	Line   int
	Column int
}

func (s *ReturnStmt) Pos() (int, int) { return s.Line, s.Column }
func (s *ReturnStmt) stmtNode()       {}

// ExprStmt wraps an expression evaluated for its side effect.
type ExprStmt struct {
	Expr   Expression
	Line   int
	Column int
}

func (s *ExprStmt) Pos() (int, int) { return s.Line, s.Column }
func (s *ExprStmt) stmtNode()       {}

// --- Expressions ---

// BinaryExpr represents a binary operation with the source operator tag.
type BinaryExpr struct {
	Left   Expression
	Op     string
	Right  Expression
	Line   int
	Column int
}

func (e *BinaryExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *BinaryExpr) exprNode()       {}

// Literal represents a literal of any lexical class. Value holds the source
// text for strings and numbers; it is ignored for the null kind.
type Literal struct {
	Kind   LiteralKind
	Value  string
	Line   int
	Column int
}

func (e *Literal) Pos() (int, int) { return e.Line, e.Column }
func (e *Literal) exprNode()       {}

// Identifier represents a simple name reference.
type Identifier struct {
	Name   string
	Line   int
	Column int
}

func (e *Identifier) Pos() (int, int) { return e.Line, e.Column }
func (e *Identifier) exprNode()       {}

// QualifiedIdent represents a dotted name reference such as Console.Write.
type QualifiedIdent struct {
	Parts  []string
	Line   int
	Column int
}

func (e *QualifiedIdent) Pos() (int, int) { return e.Line, e.Column }
func (e *QualifiedIdent) exprNode()       {}

// CallExpr represents a call of any callee expression.
type CallExpr struct {
	Callee Expression
	Args   []Expression
	Line   int
	Column int
}

func (e *CallExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *CallExpr) exprNode()       {}

// MemberExpr represents object.member access.
type MemberExpr struct {
	Object Expression
	Member string
	Line   int
	Column int
}

func (e *MemberExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *MemberExpr) exprNode()       {}

// AssignExpr represents plain or compound assignment; Op is "=", "+=", etc.
type AssignExpr struct {
	Target Expression
	Op     string
	Value  Expression
	Line   int
	Column int
}

func (e *AssignExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *AssignExpr) exprNode()       {}

// NewExpr represents a constructor call for the named type.
type NewExpr struct {
	TypeName string
	Args     []Expression
	Line     int
	Column   int
}

func (e *NewExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *NewExpr) exprNode()       {}

// LambdaExpr represents an anonymous function. Exactly one of ExprBody and
// BlockBody is expected to be set; a lambda with neither is tolerated by
// backends and rendered as an empty body.
type LambdaExpr struct {
	Params    []*Param
	ExprBody  Expression
	BlockBody []Statement
	Line      int
	Column    int
}

func (e *LambdaExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *LambdaExpr) exprNode()       {}
