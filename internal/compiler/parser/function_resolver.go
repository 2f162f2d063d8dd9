package parser

import (
	"github.com/increasinglyHuman/poqpoq/internal/compiler/ast"
	"github.com/increasinglyHuman/poqpoq/internal/compiler/builtins"
)

// FunctionResolver cross-references a call's name against the user-defined
// functions recorded while parsing and the built-in catalogue, so the code
// generator knows whether to lower a call to a user method or to one of
// the runtime's world/object/container bridges.
type FunctionResolver struct {
	userFuncs map[string]*ast.FuncDecl
}

func NewFunctionResolver() *FunctionResolver {
	return &FunctionResolver{userFuncs: map[string]*ast.FuncDecl{}}
}

func (fr *FunctionResolver) RecordUserFunc(fn *ast.FuncDecl) {
	fr.userFuncs[fn.Name] = fn
}

func (fr *FunctionResolver) UserFunc(name string) (*ast.FuncDecl, bool) {
	fn, ok := fr.userFuncs[name]
	return fn, ok
}

func (fr *FunctionResolver) UserFuncReturn(name string) (ast.Type, bool) {
	if fn, ok := fr.userFuncs[name]; ok {
		return fn.ReturnType, true
	}
	return ast.TypeVoid, false
}

// Builtin looks the name up in the built-in catalogue.
func (fr *FunctionResolver) Builtin(name string) (builtins.Signature, bool) {
	return builtins.Lookup(name)
}

// IsKnown reports whether name refers to a user-defined function or a
// registered built-in.
func (fr *FunctionResolver) IsKnown(name string) bool {
	if _, ok := fr.userFuncs[name]; ok {
		return true
	}
	return builtins.Known(name)
}
