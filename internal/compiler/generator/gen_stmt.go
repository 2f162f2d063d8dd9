package generator

import (
	"strings"

	"github.com/increasinglyHuman/poqpoq/internal/compiler/ast"
)

func (g *generator) genStmtList(b *strings.Builder, stmts []ast.Statement, depth int) {
	for _, s := range stmts {
		g.genStmt(b, s, depth)
	}
}

func (g *generator) genStmt(b *strings.Builder, stmt ast.Statement, depth int) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		b.WriteString(indent(depth))
		b.WriteString("let ")
		b.WriteString(s.Name)
		if s.Value != nil {
			b.WriteString(" = ")
			b.WriteString(g.genExpr(s.Value))
		} else {
			b.WriteString(" = ")
			b.WriteString(zeroValueFor(s.Type))
		}
		b.WriteString(";\n")

	case *ast.AssignStmt:
		b.WriteString(indent(depth))
		b.WriteString(g.genAssign(s))
		b.WriteString(";\n")

	case *ast.IfStmt:
		b.WriteString(indent(depth))
		b.WriteString("if (")
		b.WriteString(g.genExpr(s.Condition))
		b.WriteString(") {\n")
		g.genStmtList(b, s.Consequence.Statements, depth+1)
		b.WriteString(indent(depth))
		b.WriteString("}")
		if s.Alternative != nil {
			b.WriteString(" else {\n")
			g.genStmtList(b, s.Alternative.Statements, depth+1)
			b.WriteString(indent(depth))
			b.WriteString("}\n")
		} else {
			b.WriteString("\n")
		}

	case *ast.WhileStmt:
		b.WriteString(indent(depth))
		b.WriteString("while (")
		b.WriteString(g.genExpr(s.Condition))
		b.WriteString(") {\n")
		g.genStmtList(b, s.Body.Statements, depth+1)
		b.WriteString(indent(depth))
		b.WriteString("}\n")

	case *ast.DoWhileStmt:
		b.WriteString(indent(depth))
		b.WriteString("do {\n")
		g.genStmtList(b, s.Body.Statements, depth+1)
		b.WriteString(indent(depth))
		b.WriteString("} while (")
		b.WriteString(g.genExpr(s.Condition))
		b.WriteString(");\n")

	case *ast.ForStmt:
		b.WriteString(indent(depth))
		b.WriteString("for (")
		b.WriteString(g.genForClause(s.Init))
		b.WriteString("; ")
		if s.Condition != nil {
			b.WriteString(g.genExpr(s.Condition))
		}
		b.WriteString("; ")
		b.WriteString(g.genForClause(s.Post))
		b.WriteString(") {\n")
		g.genStmtList(b, s.Body.Statements, depth+1)
		b.WriteString(indent(depth))
		b.WriteString("}\n")

	case *ast.ReturnStmt:
		b.WriteString(indent(depth))
		b.WriteString("return")
		if s.Value != nil {
			b.WriteString(" ")
			b.WriteString(g.genExpr(s.Value))
		}
		b.WriteString(";\n")

	case *ast.StateChangeStmt:
		b.WriteString(indent(depth))
		b.WriteString("await this.transitionTo(")
		b.WriteString(jsString(s.Target))
		b.WriteString(");\n")

	case *ast.JumpStmt:
		// TSL has no goto and the sandbox/runtime has no label-jump
		// support either, so a jump renders as a runtime error rather than
		// real control-flow transfer; state-machine transitions are the
		// idiomatic replacement for label-based flow.
		b.WriteString(indent(depth))
		b.WriteString("throw new Error(")
		b.WriteString(jsString("unsupported jump to label " + s.Label))
		b.WriteString(");\n")

	case *ast.LabelStmt:
		b.WriteString(indent(depth))
		b.WriteString("// label ")
		b.WriteString(s.Name)
		b.WriteString("\n")

	case *ast.BlockStmt:
		b.WriteString(indent(depth))
		b.WriteString("{\n")
		g.genStmtList(b, s.Statements, depth+1)
		b.WriteString(indent(depth))
		b.WriteString("}\n")

	case *ast.ExprStmt:
		b.WriteString(indent(depth))
		b.WriteString(g.genExpr(s.Expr))
		b.WriteString(";\n")

	default:
		g.warn("unhandled statement type %T", stmt)
	}
}

// genForClause renders a for-loop init/post clause without its own
// statement terminator or indentation; the caller supplies both.
func (g *generator) genForClause(stmt ast.Statement) string {
	switch s := stmt.(type) {
	case nil:
		return ""
	case *ast.VarDecl:
		val := zeroValueFor(s.Type)
		if s.Value != nil {
			val = g.genExpr(s.Value)
		}
		return "let " + s.Name + " = " + val
	case *ast.AssignStmt:
		return g.genAssign(s)
	case *ast.ExprStmt:
		return g.genExpr(s.Expr)
	default:
		return ""
	}
}

func (g *generator) genAssign(s *ast.AssignStmt) string {
	target := g.genExpr(s.Target)
	targetType := s.Target.ExprType()

	if s.Op != "=" && (targetType == ast.TypeVector || targetType == ast.TypeRotation) {
		helper := vectorHelperForOp(strings.TrimSuffix(s.Op, "="))
		return target + " = " + helper + "(" + target + ", " + g.genExpr(s.Value) + ")"
	}
	return target + " " + s.Op + " " + g.genExpr(s.Value)
}
