package generator

import (
	"sort"
	"strings"

	"github.com/increasinglyHuman/poqpoq/internal/compiler/ast"
)

// genFields lifts each LSL global to an instance field with an initializer.
func (g *generator) genFields(b *strings.Builder, globals []*ast.VarDecl) {
	for _, decl := range globals {
		b.WriteString(indent(1))
		b.WriteString(decl.Name)
		b.WriteString(" = ")
		if decl.Value != nil {
			g.locals = map[string]bool{}
			b.WriteString(g.genExpr(decl.Value))
		} else {
			b.WriteString(zeroValueFor(decl.Type))
		}
		b.WriteString(";\n")
	}
	if len(globals) > 0 {
		b.WriteString("\n")
	}
}

// genStatesField renders the `states` map: LSL state names to an object
// whose keys are the translated TSL event-handler names.
func (g *generator) genStatesField(b *strings.Builder, states []*ast.StateBlock) {
	b.WriteString(indent(1))
	b.WriteString("states = {\n")
	for si, st := range states {
		b.WriteString(indent(2))
		b.WriteString(st.Name)
		b.WriteString(": {\n")

		names := make([]string, 0, len(st.Handlers))
		for name := range st.Handlers {
			names = append(names, name)
		}
		sort.Strings(names)

		for hi, name := range names {
			h := st.Handlers[name]
			g.genHandler(b, h, eventHandlerName(name))
			if hi < len(names)-1 {
				b.WriteString(",\n")
			} else {
				b.WriteString("\n")
			}
		}

		b.WriteString(indent(2))
		b.WriteString("}")
		if si < len(states)-1 {
			b.WriteString(",\n")
		} else {
			b.WriteString("\n")
		}
	}
	b.WriteString(indent(1))
	b.WriteString("};\n\n")
}

func (g *generator) genHandler(b *strings.Builder, h *ast.EventHandler, tslName string) {
	b.WriteString(indent(3))
	b.WriteString("async ")
	b.WriteString(tslName)
	b.WriteString("(")
	g.writeParams(b, h.Params)
	b.WriteString(") {\n")

	g.locals = map[string]bool{}
	for _, p := range h.Params {
		g.locals[p.Name] = true
	}
	collectLocalNames(h.Body, g.locals)

	g.genStmtList(b, h.Body, 4)

	b.WriteString(indent(3))
	b.WriteString("}")
}

// genFunc lifts one user-defined LSL function to an async instance method,
// wrapped in the call-depth increment/decrement pair the AST Sandbox
// Transform's __checkCall() enforces against runaway recursion.
func (g *generator) genFunc(b *strings.Builder, fn *ast.FuncDecl) {
	b.WriteString(indent(1))
	b.WriteString("async ")
	b.WriteString(fn.Name)
	b.WriteString("(")
	g.writeParams(b, fn.Params)
	b.WriteString(") {\n")

	b.WriteString(indent(2))
	b.WriteString("__callDepth++;\n")
	b.WriteString(indent(2))
	b.WriteString("try {\n")
	b.WriteString(indent(3))
	b.WriteString("__checkCall();\n")

	g.locals = map[string]bool{}
	for _, p := range fn.Params {
		g.locals[p.Name] = true
	}
	collectLocalNames(fn.Body, g.locals)

	g.genStmtList(b, fn.Body, 3)

	b.WriteString(indent(2))
	b.WriteString("} finally {\n")
	b.WriteString(indent(3))
	b.WriteString("__callDepth--;\n")
	b.WriteString(indent(2))
	b.WriteString("}\n")
	b.WriteString(indent(1))
	b.WriteString("}\n\n")
}

func (g *generator) writeParams(b *strings.Builder, params []*ast.Param) {
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
	}
}

// collectLocalNames walks a function/handler body gathering every declared
// local (including for-loop init declarations), so genExpr knows to emit a
// bare identifier instead of `this.Name` for it even though a global of the
// same name exists.
func collectLocalNames(stmts []ast.Statement, set map[string]bool) {
	for _, s := range stmts {
		collectLocalNamesStmt(s, set)
	}
}

func collectLocalNamesStmt(stmt ast.Statement, set map[string]bool) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		set[s.Name] = true
	case *ast.IfStmt:
		collectLocalNames(s.Consequence.Statements, set)
		if s.Alternative != nil {
			collectLocalNames(s.Alternative.Statements, set)
		}
	case *ast.WhileStmt:
		collectLocalNames(s.Body.Statements, set)
	case *ast.DoWhileStmt:
		collectLocalNames(s.Body.Statements, set)
	case *ast.ForStmt:
		if s.Init != nil {
			collectLocalNamesStmt(s.Init, set)
		}
		collectLocalNames(s.Body.Statements, set)
	case *ast.BlockStmt:
		collectLocalNames(s.Statements, set)
	}
}
