package generator

import (
	"fmt"
	"strings"

	"github.com/increasinglyHuman/poqpoq/internal/compiler/ast"
	"github.com/increasinglyHuman/poqpoq/internal/compiler/builtins"
)

func (g *generator) genExpr(expr ast.Expression) string {
	switch e := expr.(type) {
	case nil:
		return "undefined"

	case *ast.IntLit:
		return e.Value
	case *ast.FloatLit:
		return e.Value
	case *ast.StringLit:
		return jsString(e.Value)

	case *ast.VectorLit:
		return fmt.Sprintf("{ x: %s, y: %s, z: %s }", g.genExpr(e.X), g.genExpr(e.Y), g.genExpr(e.Z))
	case *ast.RotationLit:
		return fmt.Sprintf("{ x: %s, y: %s, z: %s, s: %s }", g.genExpr(e.X), g.genExpr(e.Y), g.genExpr(e.Z), g.genExpr(e.S))

	case *ast.ListLit:
		parts := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			parts[i] = g.genExpr(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"

	case *ast.Ident:
		if g.locals != nil && g.locals[e.Name] {
			return e.Name
		}
		if g.globalNames[e.Name] {
			return "this." + e.Name
		}
		return e.Name

	case *ast.CallExpr:
		return g.genCall(e)

	case *ast.IndexExpr:
		return g.genExpr(e.List) + "[" + g.genExpr(e.Index) + "]"

	case *ast.UnaryExpr:
		if e.Postfix {
			return g.genExpr(e.Operand) + e.Op
		}
		return e.Op + g.genExpr(e.Operand)

	case *ast.BinaryExpr:
		return g.genBinary(e)

	case *ast.CastExpr:
		return g.genCast(e)

	default:
		g.warn("unhandled expression type %T", expr)
		return "undefined"
	}
}

// genCall lowers a call expression: a reference to a user-defined function
// becomes `await this.Name(...)`; a built-in resolves through the
// FunctionResolver's catalogue to a world/object/container forward or an
// inline expression template; anything else is an unmapped built-in,
// forwarded to the world surface with a CodegenWarning.
func (g *generator) genCall(e *ast.CallExpr) string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = g.genExpr(a)
	}
	argList := strings.Join(args, ", ")

	if _, ok := g.userFuncs[e.Name]; ok {
		return "await this." + e.Name + "(" + argList + ")"
	}

	sig, ok := builtins.Lookup(e.Name)
	if !ok {
		g.warn("unmapped built-in function %q, routed to world surface", e.Name)
		return "await this.world." + e.Name + "(" + argList + ")"
	}

	switch sig.Target {
	case builtins.TargetWorld:
		return "await this.world." + sig.Method + "(" + argList + ")"
	case builtins.TargetObject:
		return "await this.object." + sig.Method + "(" + argList + ")"
	case builtins.TargetContainer:
		return "await this.container." + sig.Method + "(" + argList + ")"
	case builtins.TargetInline:
		return formatInline(sig.InlineExpr, args)
	default:
		g.warn("built-in %q has unknown target kind", e.Name)
		return "await this.world." + e.Name + "(" + argList + ")"
	}
}

// formatInline substitutes %s placeholders in an inline expression template
// positionally, the same contract as builtins.Signature.InlineExpr.
func formatInline(tmpl string, args []string) string {
	anyArgs := make([]interface{}, len(args))
	for i, a := range args {
		anyArgs[i] = a
	}
	return fmt.Sprintf(tmpl, anyArgs...)
}

var vecArithmeticHelper = map[string]string{
	"+": "vecAdd",
	"-": "vecSub",
	"*": "vecMul",
	"/": "vecDiv",
	"%": "vecCross",
}

func vectorHelperForOp(op string) string {
	if h, ok := vecArithmeticHelper[op]; ok {
		return h
	}
	return "vecAdd"
}

func (g *generator) genBinary(e *ast.BinaryExpr) string {
	left := g.genExpr(e.Left)
	right := g.genExpr(e.Right)
	lt, rt := e.Left.ExprType(), e.Right.ExprType()
	isVecOp := lt == ast.TypeVector || rt == ast.TypeVector || lt == ast.TypeRotation || rt == ast.TypeRotation

	if isVecOp {
		switch e.Op {
		case "+":
			if lt == ast.TypeRotation && rt == ast.TypeRotation {
				return fmt.Sprintf("rotCombine(%s, %s)", left, right)
			}
			return fmt.Sprintf("vecAdd(%s, %s)", left, right)
		case "-":
			return fmt.Sprintf("vecSub(%s, %s)", left, right)
		case "*":
			if lt == ast.TypeRotation && rt == ast.TypeRotation {
				return fmt.Sprintf("rotCombine(%s, %s)", left, right)
			}
			return fmt.Sprintf("vecMul(%s, %s)", left, right)
		case "/":
			return fmt.Sprintf("vecDiv(%s, %s)", left, right)
		case "%":
			return fmt.Sprintf("vecCross(%s, %s)", left, right)
		case "==":
			return fmt.Sprintf("vecEq(%s, %s)", left, right)
		case "!=":
			return fmt.Sprintf("(1 - vecEq(%s, %s))", left, right)
		default:
			return fmt.Sprintf("(%s %s %s)", left, e.Op, right)
		}
	}

	switch e.Op {
	case "==":
		return fmt.Sprintf("(%s === %s)", left, right)
	case "!=":
		return fmt.Sprintf("(%s !== %s)", left, right)
	case "+":
		if e.Type == ast.TypeList {
			return fmt.Sprintf("(%s).concat(%s)", left, right)
		}
		if e.Type == ast.TypeString {
			if lt != ast.TypeString {
				left = "String(" + left + ")"
			}
			if rt != ast.TypeString {
				right = "String(" + right + ")"
			}
		}
		return fmt.Sprintf("(%s + %s)", left, right)
	default:
		return fmt.Sprintf("(%s %s %s)", left, e.Op, right)
	}
}

func (g *generator) genCast(e *ast.CastExpr) string {
	operand := g.genExpr(e.Operand)
	srcType := e.Operand.ExprType()

	switch e.Target {
	case ast.TypeInteger:
		if srcType == ast.TypeString {
			return fmt.Sprintf("parseInt(%s, 10)", operand)
		}
		return fmt.Sprintf("Math.trunc(%s)", operand)
	case ast.TypeFloat:
		if srcType == ast.TypeString {
			return fmt.Sprintf("parseFloat(%s)", operand)
		}
		return fmt.Sprintf("Number(%s)", operand)
	case ast.TypeString, ast.TypeKey:
		return fmt.Sprintf("String(%s)", operand)
	case ast.TypeList:
		if srcType == ast.TypeList {
			return operand
		}
		return "[" + operand + "]"
	default:
		return operand
	}
}
