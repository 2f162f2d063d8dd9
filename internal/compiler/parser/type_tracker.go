package parser

import (
	"github.com/increasinglyHuman/poqpoq/internal/compiler/ast"
	"github.com/increasinglyHuman/poqpoq/internal/compiler/errors"
)

// scope is a lexical chain of name-to-type bindings; function bodies and
// each nested block open a new one rooted at the global scope.
type scope struct {
	vars   map[string]ast.Type
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: map[string]ast.Type{}, parent: parent}
}

func (s *scope) define(name string, t ast.Type) { s.vars[name] = t }

func (s *scope) lookup(name string) (ast.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return ast.TypeVoid, false
}

// TypeTracker walks a parsed TranslationUnit bottom-up, assigning a static
// Type to every expression node and to every Ident reference. It never
// rejects a program outright; unresolved identifiers simply carry TypeVoid,
// a call to an undefined function adds a warning diagnostic, and
// type-mismatch judgment calls are left to the code generator.
type TypeTracker struct {
	global *scope
	funcs  *FunctionResolver
	diags  *errors.List
}

func NewTypeTracker(funcs *FunctionResolver, diags *errors.List) *TypeTracker {
	return &TypeTracker{global: newScope(nil), funcs: funcs, diags: diags}
}

func (tt *TypeTracker) Resolve(unit *ast.TranslationUnit) {
	for _, g := range unit.Globals {
		tt.global.define(g.Name, g.Type)
		if g.Value != nil {
			tt.resolveExpr(g.Value, tt.global)
		}
	}

	for _, fn := range unit.Funcs {
		sc := newScope(tt.global)
		for _, param := range fn.Params {
			sc.define(param.Name, param.Type)
		}
		tt.resolveBlock(fn.Body, sc)
	}

	for _, st := range unit.States {
		for _, h := range st.Handlers {
			sc := newScope(tt.global)
			for _, param := range h.Params {
				sc.define(param.Name, param.Type)
			}
			tt.resolveBlock(h.Body, sc)
		}
	}
}

func (tt *TypeTracker) resolveBlock(stmts []ast.Statement, sc *scope) {
	for _, s := range stmts {
		tt.resolveStmt(s, sc)
	}
}

func (tt *TypeTracker) resolveStmt(stmt ast.Statement, sc *scope) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		sc.define(s.Name, s.Type)
		if s.Value != nil {
			tt.resolveExpr(s.Value, sc)
		}
	case *ast.AssignStmt:
		tt.resolveExpr(s.Target, sc)
		tt.resolveExpr(s.Value, sc)
	case *ast.IfStmt:
		tt.resolveExpr(s.Condition, sc)
		tt.resolveBlock(s.Consequence.Statements, newScope(sc))
		if s.Alternative != nil {
			tt.resolveBlock(s.Alternative.Statements, newScope(sc))
		}
	case *ast.WhileStmt:
		tt.resolveExpr(s.Condition, sc)
		tt.resolveBlock(s.Body.Statements, newScope(sc))
	case *ast.DoWhileStmt:
		tt.resolveBlock(s.Body.Statements, newScope(sc))
		tt.resolveExpr(s.Condition, sc)
	case *ast.ForStmt:
		loopScope := newScope(sc)
		if s.Init != nil {
			tt.resolveStmt(s.Init, loopScope)
		}
		if s.Condition != nil {
			tt.resolveExpr(s.Condition, loopScope)
		}
		if s.Post != nil {
			tt.resolveStmt(s.Post, loopScope)
		}
		tt.resolveBlock(s.Body.Statements, newScope(loopScope))
	case *ast.ReturnStmt:
		if s.Value != nil {
			tt.resolveExpr(s.Value, sc)
		}
	case *ast.ExprStmt:
		tt.resolveExpr(s.Expr, sc)
	case *ast.BlockStmt:
		tt.resolveBlock(s.Statements, newScope(sc))
	}
}

func (tt *TypeTracker) resolveExpr(expr ast.Expression, sc *scope) ast.Type {
	switch e := expr.(type) {
	case nil:
		return ast.TypeVoid

	case *ast.Ident:
		if t, ok := sc.lookup(e.Name); ok {
			e.Type = t
		}
		return e.Type

	case *ast.IntLit:
		return ast.TypeInteger
	case *ast.FloatLit:
		return ast.TypeFloat
	case *ast.StringLit:
		return ast.TypeString

	case *ast.VectorLit:
		tt.resolveExpr(e.X, sc)
		tt.resolveExpr(e.Y, sc)
		tt.resolveExpr(e.Z, sc)
		return ast.TypeVector

	case *ast.RotationLit:
		tt.resolveExpr(e.X, sc)
		tt.resolveExpr(e.Y, sc)
		tt.resolveExpr(e.Z, sc)
		tt.resolveExpr(e.S, sc)
		return ast.TypeRotation

	case *ast.ListLit:
		for _, el := range e.Elements {
			tt.resolveExpr(el, sc)
		}
		return ast.TypeList

	case *ast.CallExpr:
		for _, a := range e.Args {
			tt.resolveExpr(a, sc)
		}
		if sig, ok := tt.funcs.Builtin(e.Name); ok {
			e.Type = sig.Return
		} else if rt, ok := tt.funcs.UserFuncReturn(e.Name); ok {
			e.Type = rt
		} else if tt.diags != nil {
			tt.diags.Warn(errors.PhaseParser, errors.Position{}, "call to undefined function %q", e.Name)
		}
		return e.Type

	case *ast.IndexExpr:
		tt.resolveExpr(e.List, sc)
		tt.resolveExpr(e.Index, sc)
		return ast.TypeVoid // LSL list elements have no static element type

	case *ast.UnaryExpr:
		return tt.resolveExpr(e.Operand, sc)

	case *ast.BinaryExpr:
		left := tt.resolveExpr(e.Left, sc)
		right := tt.resolveExpr(e.Right, sc)
		e.Type = combineTypes(e.Op, left, right)
		return e.Type

	case *ast.CastExpr:
		tt.resolveExpr(e.Operand, sc)
		return e.Target

	default:
		return ast.TypeVoid
	}
}

// combineTypes mirrors LSL's arithmetic coercion rules: integer+integer
// stays integer, anything touching a float promotes to float, "+" on a
// list is concatenation, and "+" with a string operand is concatenation
// rendered by the code generator as "+" with String(...) around the
// non-string operand.
func combineTypes(op string, left, right ast.Type) ast.Type {
	switch op {
	case "+":
		switch {
		case left == ast.TypeList || right == ast.TypeList:
			return ast.TypeList
		case left == ast.TypeString || right == ast.TypeString:
			return ast.TypeString
		case left == ast.TypeVector || right == ast.TypeVector:
			return ast.TypeVector
		case left == ast.TypeRotation || right == ast.TypeRotation:
			return ast.TypeRotation
		case left == ast.TypeInteger && right == ast.TypeInteger:
			return ast.TypeInteger
		default:
			return ast.TypeFloat
		}
	case "-", "*", "/":
		switch {
		case left == ast.TypeVector || right == ast.TypeVector:
			return ast.TypeVector
		case left == ast.TypeRotation || right == ast.TypeRotation:
			return ast.TypeRotation
		case left == ast.TypeInteger && right == ast.TypeInteger:
			return ast.TypeInteger
		default:
			return ast.TypeFloat
		}
	case "%":
		if left == ast.TypeVector || right == ast.TypeVector {
			return ast.TypeVector // cross product
		}
		return ast.TypeInteger
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return ast.TypeInteger // LSL has no boolean type
	case "&", "|", "^", "<<", ">>":
		return ast.TypeInteger
	default:
		return ast.TypeVoid
	}
}
