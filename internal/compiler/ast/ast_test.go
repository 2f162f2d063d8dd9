package ast

import "testing"

func TestTokenLiterals(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{"TranslationUnit", &TranslationUnit{}, "translation-unit"},
		{"VarDecl", &VarDecl{Type: TypeInteger}, "integer"},
		{"FuncDecl", &FuncDecl{Name: "doThing"}, "doThing"},
		{"StateBlock", &StateBlock{Name: "default"}, "state"},
		{"EventHandler", &EventHandler{Name: "touch_start"}, "touch_start"},
		{"BlockStmt", &BlockStmt{}, "{"},
		{"AssignStmt =", &AssignStmt{Op: "="}, "="},
		{"AssignStmt +=", &AssignStmt{Op: "+="}, "+="},
		{"IfStmt", &IfStmt{}, "if"},
		{"WhileStmt", &WhileStmt{}, "while"},
		{"DoWhileStmt", &DoWhileStmt{}, "do"},
		{"ForStmt", &ForStmt{}, "for"},
		{"ReturnStmt", &ReturnStmt{}, "return"},
		{"StateChangeStmt", &StateChangeStmt{Target: "on"}, "state"},
		{"JumpStmt", &JumpStmt{Label: "skip"}, "jump"},
		{"LabelStmt", &LabelStmt{Name: "skip"}, "@"},
		{"ExprStmt", &ExprStmt{Expr: &Ident{Name: "x"}}, "x"},
		{"IntLit", &IntLit{Value: "42"}, "42"},
		{"FloatLit", &FloatLit{Value: "3.14"}, "3.14"},
		{"StringLit", &StringLit{Value: "hello"}, "hello"},
		{"VectorLit", &VectorLit{}, "<vector>"},
		{"RotationLit", &RotationLit{}, "<rotation>"},
		{"ListLit", &ListLit{}, "[list]"},
		{"Ident", &Ident{Name: "task"}, "task"},
		{"CallExpr", &CallExpr{Name: "llSay"}, "llSay"},
		{"IndexExpr", &IndexExpr{}, "[]"},
		{"UnaryExpr", &UnaryExpr{Op: "!"}, "!"},
		{"BinaryExpr", &BinaryExpr{Op: "+"}, "+"},
		{"CastExpr", &CastExpr{Target: TypeInteger}, "(integer)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.TokenLiteral(); got != tt.expected {
				t.Errorf("TokenLiteral() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExprType(t *testing.T) {
	tests := []struct {
		name     string
		expr     Expression
		expected Type
	}{
		{"IntLit", &IntLit{Value: "1"}, TypeInteger},
		{"FloatLit", &FloatLit{Value: "1.0"}, TypeFloat},
		{"StringLit", &StringLit{Value: "s"}, TypeString},
		{"VectorLit", &VectorLit{}, TypeVector},
		{"RotationLit", &RotationLit{}, TypeRotation},
		{"ListLit", &ListLit{}, TypeList},
		{"Ident resolved", &Ident{Name: "x", Type: TypeFloat}, TypeFloat},
		{"Ident unresolved", &Ident{Name: "x"}, TypeVoid},
		{"CallExpr", &CallExpr{Name: "llFrand", Type: TypeFloat}, TypeFloat},
		{"BinaryExpr", &BinaryExpr{Op: "+", Type: TypeInteger}, TypeInteger},
		{"CastExpr", &CastExpr{Target: TypeString}, TypeString},
		{
			"UnaryExpr inherits operand type",
			&UnaryExpr{Op: "-", Operand: &FloatLit{Value: "2.0"}},
			TypeFloat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.ExprType(); got != tt.expected {
				t.Errorf("ExprType() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStateBlockHandlerLookup(t *testing.T) {
	handler := &EventHandler{Name: "touch_start"}
	state := &StateBlock{
		Name:     "default",
		Handlers: map[string]*EventHandler{"touch_start": handler},
	}

	if got, ok := state.Handlers["touch_start"]; !ok || got != handler {
		t.Fatalf("Handlers lookup failed, got %v, ok=%v", got, ok)
	}
	if _, ok := state.Handlers["state_exit"]; ok {
		t.Fatalf("unexpected handler present for state_exit")
	}
}

func TestTranslationUnitDefaultStateFirst(t *testing.T) {
	unit := &TranslationUnit{
		States: []*StateBlock{
			{Name: "default"},
			{Name: "locked"},
		},
	}
	if unit.States[0].Name != "default" {
		t.Fatalf("States[0].Name = %q, want default", unit.States[0].Name)
	}
}
