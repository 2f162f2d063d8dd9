package parser

import (
	"testing"

	"github.com/increasinglyHuman/poqpoq/internal/compiler/ast"
)

func mustParse(t *testing.T, src string) *ast.TranslationUnit {
	t.Helper()
	unit, diags := Parse(src)
	if diags.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", diags.String())
	}
	return unit
}

func TestMinimalDefaultState(t *testing.T) {
	unit := mustParse(t, `
		default {
			state_entry() {
				llSay(0, "hello, world");
			}
		}
	`)

	if len(unit.States) != 1 || unit.States[0].Name != "default" {
		t.Fatalf("expected one default state, got %+v", unit.States)
	}
	h, ok := unit.States[0].Handlers["state_entry"]
	if !ok {
		t.Fatal("expected a state_entry handler")
	}
	if len(h.Body) != 1 {
		t.Fatalf("expected 1 statement in state_entry body, got %d", len(h.Body))
	}
	exprStmt, ok := h.Body[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", h.Body[0])
	}
	call, ok := exprStmt.Expr.(*ast.CallExpr)
	if !ok || call.Name != "llSay" || len(call.Args) != 2 {
		t.Fatalf("expected llSay(0, \"hello, world\"), got %+v", exprStmt.Expr)
	}
}

func TestGlobalVarDeclAndFunction(t *testing.T) {
	unit := mustParse(t, `
		integer gCount = 0;

		integer double(integer x) {
			return x * 2;
		}

		default {
			state_entry() {
				gCount = double(gCount);
			}
		}
	`)

	if len(unit.Globals) != 1 || unit.Globals[0].Name != "gCount" || unit.Globals[0].Type != ast.TypeInteger {
		t.Fatalf("unexpected globals: %+v", unit.Globals)
	}
	if len(unit.Funcs) != 1 || unit.Funcs[0].Name != "double" || unit.Funcs[0].ReturnType != ast.TypeInteger {
		t.Fatalf("unexpected funcs: %+v", unit.Funcs)
	}

	ret, ok := unit.Funcs[0].Body[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected ReturnStmt, got %T", unit.Funcs[0].Body[0])
	}
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != "*" {
		t.Fatalf("expected binary '*' expression, got %+v", ret.Value)
	}
}

func TestVoidFunctionDeclaration(t *testing.T) {
	unit := mustParse(t, `
		greet(string name) {
			llSay(0, name);
		}

		default {
			state_entry() {
				greet("npc");
			}
		}
	`)
	if len(unit.Funcs) != 1 || unit.Funcs[0].ReturnType != ast.TypeVoid {
		t.Fatalf("expected one void function, got %+v", unit.Funcs)
	}
}

func TestVectorLiteralVsComparison(t *testing.T) {
	unit := mustParse(t, `
		default {
			state_entry() {
				vector v = <1.0, 2.0, 3.0>;
				integer ok = (1 < 2);
			}
		}
	`)
	body := unit.States[0].Handlers["state_entry"].Body
	vDecl, ok := body[0].(*ast.VarDecl)
	if !ok || vDecl.Type != ast.TypeVector {
		t.Fatalf("expected vector decl, got %+v", body[0])
	}
	vecLit, ok := vDecl.Value.(*ast.VectorLit)
	if !ok {
		t.Fatalf("expected VectorLit, got %T", vDecl.Value)
	}
	if vecLit.X.(*ast.FloatLit).Value != "1.0" {
		t.Fatalf("expected X=1.0, got %+v", vecLit.X)
	}

	okDecl, ok := body[1].(*ast.VarDecl)
	if !ok || okDecl.Type != ast.TypeInteger {
		t.Fatalf("expected integer decl, got %+v", body[1])
	}
	cmp, ok := okDecl.Value.(*ast.BinaryExpr)
	if !ok || cmp.Op != "<" {
		t.Fatalf("expected '<' comparison, got %+v", okDecl.Value)
	}
}

func TestRotationLiteral(t *testing.T) {
	unit := mustParse(t, `
		default {
			state_entry() {
				rotation r = <0.0, 0.0, 0.0, 1.0>;
			}
		}
	`)
	body := unit.States[0].Handlers["state_entry"].Body
	decl := body[0].(*ast.VarDecl)
	if _, ok := decl.Value.(*ast.RotationLit); !ok {
		t.Fatalf("expected RotationLit, got %T", decl.Value)
	}
}

func TestCastExpression(t *testing.T) {
	unit := mustParse(t, `
		default {
			state_entry() {
				float f = 3.0;
				integer i = (integer)f;
			}
		}
	`)
	body := unit.States[0].Handlers["state_entry"].Body
	decl := body[1].(*ast.VarDecl)
	cast, ok := decl.Value.(*ast.CastExpr)
	if !ok || cast.Target != ast.TypeInteger {
		t.Fatalf("expected (integer) cast, got %+v", decl.Value)
	}
}

func TestListLiteralAndIndex(t *testing.T) {
	unit := mustParse(t, `
		default {
			state_entry() {
				list names = ["a", "b", "c"];
				string first = llList2String(names, 0);
			}
		}
	`)
	body := unit.States[0].Handlers["state_entry"].Body
	decl := body[0].(*ast.VarDecl)
	listLit, ok := decl.Value.(*ast.ListLit)
	if !ok || len(listLit.Elements) != 3 {
		t.Fatalf("expected a 3-element list literal, got %+v", decl.Value)
	}
}

func TestForWhileDoLoops(t *testing.T) {
	unit := mustParse(t, `
		default {
			state_entry() {
				integer i;
				for (i = 0; i < 10; i++) {
					llSay(0, "tick");
				}
				while (i > 0) {
					i--;
				}
				do {
					i++;
				} while (i < 5);
			}
		}
	`)
	body := unit.States[0].Handlers["state_entry"].Body
	if _, ok := body[1].(*ast.ForStmt); !ok {
		t.Fatalf("expected ForStmt, got %T", body[1])
	}
	if _, ok := body[2].(*ast.WhileStmt); !ok {
		t.Fatalf("expected WhileStmt, got %T", body[2])
	}
	if _, ok := body[3].(*ast.DoWhileStmt); !ok {
		t.Fatalf("expected DoWhileStmt, got %T", body[3])
	}
}

func TestSingleStatementBodyIsWrappedInBlock(t *testing.T) {
	unit := mustParse(t, `
		default {
			state_entry() {
				integer i = 0;
				while (i < 3)
					i++;
			}
		}
	`)
	body := unit.States[0].Handlers["state_entry"].Body
	w, ok := body[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected WhileStmt, got %T", body[1])
	}
	if len(w.Body.Statements) != 1 {
		t.Fatalf("expected single-statement body wrapped into one-element block, got %d", len(w.Body.Statements))
	}
}

func TestJumpAndLabel(t *testing.T) {
	unit := mustParse(t, `
		default {
			state_entry() {
				jump skip;
				llSay(0, "unreachable");
				@skip;
				llSay(0, "after label");
			}
		}
	`)
	body := unit.States[0].Handlers["state_entry"].Body
	if _, ok := body[0].(*ast.JumpStmt); !ok {
		t.Fatalf("expected JumpStmt, got %T", body[0])
	}
	if _, ok := body[2].(*ast.LabelStmt); !ok {
		t.Fatalf("expected LabelStmt, got %T", body[2])
	}
}

func TestStateChangeStatement(t *testing.T) {
	unit := mustParse(t, `
		default {
			touch_start(integer n) {
				state on;
			}
		}
		state on {
			state_entry() {
				state default;
			}
		}
	`)
	body := unit.States[0].Handlers["touch_start"].Body
	sc, ok := body[0].(*ast.StateChangeStmt)
	if !ok || sc.Target != "on" {
		t.Fatalf("expected state-change to 'on', got %+v", body[0])
	}
}

func TestCompoundAssignment(t *testing.T) {
	unit := mustParse(t, `
		default {
			state_entry() {
				integer i = 0;
				i += 5;
			}
		}
	`)
	body := unit.States[0].Handlers["state_entry"].Body
	assign, ok := body[1].(*ast.AssignStmt)
	if !ok || assign.Op != "+=" {
		t.Fatalf("expected '+=' assignment, got %+v", body[1])
	}
}

func TestDuplicateStateIsDiagnosed(t *testing.T) {
	_, diags := Parse(`
		default { state_entry() {} }
		default { state_entry() {} }
	`)
	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for duplicate 'default' state")
	}
}

func TestDuplicateEventHandlerIsDiagnosed(t *testing.T) {
	_, diags := Parse(`
		default {
			state_entry() { llSay(0, "first"); }
			state_entry() { llSay(0, "second"); }
		}
	`)
	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for a duplicate event handler")
	}
}

func TestNonDefaultFirstStateIsDiagnosed(t *testing.T) {
	_, diags := Parse(`
		state on { state_entry() {} }
		default { state_entry() {} }
	`)
	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic when the first state is not 'default'")
	}
}

func TestTypeTrackerResolvesIdentAndCallTypes(t *testing.T) {
	unit := mustParse(t, `
		integer gCount = 0;

		default {
			state_entry() {
				integer local = gCount + 1;
				vector v = llGetPos();
			}
		}
	`)
	body := unit.States[0].Handlers["state_entry"].Body
	decl := body[0].(*ast.VarDecl)
	bin := decl.Value.(*ast.BinaryExpr)
	ident := bin.Left.(*ast.Ident)
	if ident.Type != ast.TypeInteger {
		t.Fatalf("expected gCount to resolve to integer, got %s", ident.Type)
	}

	vDecl := body[1].(*ast.VarDecl)
	call := vDecl.Value.(*ast.CallExpr)
	if call.Type != ast.TypeVector {
		t.Fatalf("expected llGetPos() to resolve to vector, got %s", call.Type)
	}
}
