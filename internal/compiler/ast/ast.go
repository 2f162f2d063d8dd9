// Package ast defines the LSL abstract syntax tree produced by the parser
// and consumed by the code generator.
package ast

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// TranslationUnit is the root node: one parsed LSL source file.
type TranslationUnit struct {
	Globals []*VarDecl
	Funcs   []*FuncDecl
	States  []*StateBlock // States[0].Name must be "default"
}

func (t *TranslationUnit) TokenLiteral() string { return "translation-unit" }

// ============ TYPES ============

// Type names one of LSL's primitive types: integer, float, string, key,
// list, vector, rotation. An empty Type means void (only valid as a
// function return type).
type Type string

const (
	TypeVoid     Type = ""
	TypeInteger  Type = "integer"
	TypeFloat    Type = "float"
	TypeString   Type = "string"
	TypeKey      Type = "key"
	TypeList     Type = "list"
	TypeVector   Type = "vector"
	TypeRotation Type = "rotation"
)

// ============ TOP LEVEL ============

// VarDecl is a typed global or local declaration with an optional initializer.
type VarDecl struct {
	Type  Type
	Name  string
	Value Expression // nil if uninitialized
	Line  int
}

func (v *VarDecl) TokenLiteral() string { return string(v.Type) }
func (v *VarDecl) statementNode()       {}

// Param is a single function parameter.
type Param struct {
	Type Type
	Name string
}

// FuncDecl is a user-defined LSL function.
type FuncDecl struct {
	Name       string
	Params     []*Param
	ReturnType Type // TypeVoid for void functions
	Body       []Statement
	Line       int
}

func (f *FuncDecl) TokenLiteral() string { return f.Name }

// StateBlock groups the event handlers active while a script is in that
// state. The first block in a TranslationUnit is always named "default".
type StateBlock struct {
	Name     string
	Handlers map[string]*EventHandler // keyed by LSL event name, e.g. "touch_start"
	Line     int
}

func (s *StateBlock) TokenLiteral() string { return "state" }

// EventHandler is one event callback inside a state block.
type EventHandler struct {
	Name   string // LSL event name, e.g. "state_entry", "touch_start"
	Params []*Param
	Body   []Statement
	Line   int
}

func (e *EventHandler) TokenLiteral() string { return e.Name }

// Statement is the interface for all statements.
type Statement interface {
	Node
	statementNode()
}

// Expression is the interface for all expressions.
type Expression interface {
	Node
	expressionNode()
	ExprType() Type // static type assigned by the TypeTracker; TypeVoid if unset
}

// ============ STATEMENTS ============

// BlockStmt is a brace-delimited statement list; loop/if bodies are
// normalized to this form even when LSL source wrote a single statement.
type BlockStmt struct {
	Statements []Statement
	Line       int
}

func (b *BlockStmt) TokenLiteral() string { return "{" }
func (b *BlockStmt) statementNode()       {}

// AssignStmt: x = expr, or a compound form (+=, -=, *=, /=, %=).
type AssignStmt struct {
	Target Expression // Ident or IndexExpr
	Op     string     // "=", "+=", "-=", "*=", "/=", "%="
	Value  Expression
	Line   int
}

func (a *AssignStmt) TokenLiteral() string { return a.Op }
func (a *AssignStmt) statementNode()       {}

// IfStmt: if (cond) { ... } else { ... }
type IfStmt struct {
	Condition   Expression
	Consequence *BlockStmt
	Alternative *BlockStmt // nil if no else
	Line        int
}

func (i *IfStmt) TokenLiteral() string { return "if" }
func (i *IfStmt) statementNode()       {}

// WhileStmt: while (cond) { ... }
type WhileStmt struct {
	Condition Expression
	Body      *BlockStmt
	Line      int
}

func (w *WhileStmt) TokenLiteral() string { return "while" }
func (w *WhileStmt) statementNode()       {}

// DoWhileStmt: do { ... } while (cond);
type DoWhileStmt struct {
	Body      *BlockStmt
	Condition Expression
	Line      int
}

func (d *DoWhileStmt) TokenLiteral() string { return "do" }
func (d *DoWhileStmt) statementNode()       {}

// ForStmt: for (init; cond; post) { ... }. Any clause may be nil.
type ForStmt struct {
	Init      Statement
	Condition Expression
	Post      Statement
	Body      *BlockStmt
	Line      int
}

func (f *ForStmt) TokenLiteral() string { return "for" }
func (f *ForStmt) statementNode()       {}

// ReturnStmt: return; or return expr;
type ReturnStmt struct {
	Value Expression // nil for bare return
	Line  int
}

func (r *ReturnStmt) TokenLiteral() string { return "return" }
func (r *ReturnStmt) statementNode()       {}

// StateChangeStmt: state X;
type StateChangeStmt struct {
	Target string
	Line   int
}

func (s *StateChangeStmt) TokenLiteral() string { return "state" }
func (s *StateChangeStmt) statementNode()       {}

// JumpStmt: jump label;
type JumpStmt struct {
	Label string
	Line  int
}

func (j *JumpStmt) TokenLiteral() string { return "jump" }
func (j *JumpStmt) statementNode()       {}

// LabelStmt: @label;
type LabelStmt struct {
	Name string
	Line int
}

func (l *LabelStmt) TokenLiteral() string { return "@" }
func (l *LabelStmt) statementNode()       {}

// ExprStmt wraps an expression used for its side effect (a call, typically).
type ExprStmt struct {
	Expr Expression
	Line int
}

func (e *ExprStmt) TokenLiteral() string { return e.Expr.TokenLiteral() }
func (e *ExprStmt) statementNode()       {}

// ============ EXPRESSIONS ============

// IntLit: 42 or 0x2A.
type IntLit struct {
	Value string
	Line  int
}

func (i *IntLit) TokenLiteral() string { return i.Value }
func (i *IntLit) expressionNode()      {}
func (i *IntLit) ExprType() Type       { return TypeInteger }

// FloatLit: 3.14.
type FloatLit struct {
	Value string
	Line  int
}

func (f *FloatLit) TokenLiteral() string { return f.Value }
func (f *FloatLit) expressionNode()      {}
func (f *FloatLit) ExprType() Type       { return TypeFloat }

// StringLit: "hello". Keys and strings share this literal; KeyLit exists
// only to record an explicit (key) cast over a string literal.
type StringLit struct {
	Value string
	Line  int
}

func (s *StringLit) TokenLiteral() string { return s.Value }
func (s *StringLit) expressionNode()      {}
func (s *StringLit) ExprType() Type       { return TypeString }

// VectorLit: <x, y, z>.
type VectorLit struct {
	X, Y, Z Expression
	Line    int
}

func (v *VectorLit) TokenLiteral() string { return "<vector>" }
func (v *VectorLit) expressionNode()      {}
func (v *VectorLit) ExprType() Type       { return TypeVector }

// RotationLit: <x, y, z, s>.
type RotationLit struct {
	X, Y, Z, S Expression
	Line       int
}

func (r *RotationLit) TokenLiteral() string { return "<rotation>" }
func (r *RotationLit) expressionNode()      {}
func (r *RotationLit) ExprType() Type       { return TypeRotation }

// ListLit: [a, b, c].
type ListLit struct {
	Elements []Expression
	Line     int
}

func (l *ListLit) TokenLiteral() string { return "[list]" }
func (l *ListLit) expressionNode()      {}
func (l *ListLit) ExprType() Type       { return TypeList }

// Ident: a variable or function reference.
type Ident struct {
	Name string
	Type Type // resolved by the TypeTracker; TypeVoid if unresolved
	Line int
}

func (i *Ident) TokenLiteral() string { return i.Name }
func (i *Ident) expressionNode()      {}
func (i *Ident) ExprType() Type       { return i.Type }

// CallExpr: a call to a user function or a built-in ll* function.
type CallExpr struct {
	Name string
	Args []Expression
	Type Type // resolved return type
	Line int
}

func (c *CallExpr) TokenLiteral() string { return c.Name }
func (c *CallExpr) expressionNode()      {}
func (c *CallExpr) ExprType() Type       { return c.Type }

// IndexExpr: list[i].
type IndexExpr struct {
	List  Expression
	Index Expression
	Line  int
}

func (x *IndexExpr) TokenLiteral() string { return "[]" }
func (x *IndexExpr) expressionNode()      {}
func (x *IndexExpr) ExprType() Type       { return TypeVoid }

// UnaryExpr: !x, -x, ~x, ++x, --x (prefix), or the postfix forms x++, x--.
type UnaryExpr struct {
	Op      string
	Operand Expression
	Postfix bool
	Line    int
}

func (u *UnaryExpr) TokenLiteral() string { return u.Op }
func (u *UnaryExpr) expressionNode()      {}
func (u *UnaryExpr) ExprType() Type       { return u.Operand.ExprType() }

// BinaryExpr: a + b, a == b, a && b, etc., with LSL operator precedence
// already resolved by the parser's Pratt climb.
type BinaryExpr struct {
	Left  Expression
	Op    string
	Right Expression
	Type  Type // resolved by the TypeTracker
	Line  int
}

func (b *BinaryExpr) TokenLiteral() string { return b.Op }
func (b *BinaryExpr) expressionNode()      {}
func (b *BinaryExpr) ExprType() Type       { return b.Type }

// CastExpr: an explicit LSL cast, e.g. (integer)x or (string)v.
type CastExpr struct {
	Target  Type
	Operand Expression
	Line    int
}

func (c *CastExpr) TokenLiteral() string { return "(" + string(c.Target) + ")" }
func (c *CastExpr) expressionNode()      {}
func (c *CastExpr) ExprType() Type       { return c.Target }
