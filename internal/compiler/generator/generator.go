// Package generator implements the Code Generator (C3): it walks a parsed
// LSL AST and renders a single TSL class declaration extending WorldScript,
// recording non-fatal findings into an errors.List along the way. Generation
// never panics on a semantic issue — unmapped built-ins and similar problems
// become CodegenWarning diagnostics and generation continues; only a
// genuinely missing AST invariant (no states at all) aborts with
// success=false.
package generator

import (
	"strings"

	"github.com/increasinglyHuman/poqpoq/internal/compiler/ast"
	"github.com/increasinglyHuman/poqpoq/internal/compiler/errors"
)

// Options tunes a single Generate call.
type Options struct {
	// ClassName overrides the generated class name; defaults to "LSLScript".
	ClassName string
	// SourceComment, when set, is rendered as a leading comment naming the
	// LSL source this class was generated from (the bundle transpiler's
	// "source-comment hint").
	SourceComment string
}

// Result is the Code Generator's output: the rendered TSL source plus the
// diagnostics accumulated while producing it.
type Result struct {
	Code        string
	ClassName   string
	Success     bool
	Diagnostics *errors.List
}

// Generate renders unit as a single TSL class. It never returns a Go error;
// failures surface only as diagnostics with SeverityError.
func Generate(unit *ast.TranslationUnit, opts Options) Result {
	diags := errors.NewList()

	className := opts.ClassName
	if className == "" {
		className = "LSLScript"
	}

	if unit == nil || len(unit.States) == 0 {
		diags.Error(errors.PhaseCodegen, errors.Position{}, "translation unit has no state blocks to generate")
		return Result{ClassName: className, Success: false, Diagnostics: diags}
	}

	g := &generator{
		diags:       diags,
		className:   className,
		globalNames: map[string]bool{},
		userFuncs:   map[string]*ast.FuncDecl{},
	}
	for _, decl := range unit.Globals {
		g.globalNames[decl.Name] = true
	}
	for _, fn := range unit.Funcs {
		g.userFuncs[fn.Name] = fn
	}

	var b strings.Builder
	if opts.SourceComment != "" {
		b.WriteString("// Generated from ")
		b.WriteString(opts.SourceComment)
		b.WriteString("\n")
	}
	b.WriteString(vectorHelperPreamble)
	b.WriteString("\n")
	b.WriteString("class ")
	b.WriteString(className)
	b.WriteString(" extends WorldScript {\n")

	g.genFields(&b, unit.Globals)
	g.genStatesField(&b, unit.States)
	for _, fn := range unit.Funcs {
		g.genFunc(&b, fn)
	}

	b.WriteString("}\n")

	return Result{
		Code:        b.String(),
		ClassName:   className,
		Success:     !diags.HasErrors(),
		Diagnostics: diags,
	}
}

// generator carries the small amount of state needed while walking a single
// translation unit: which names are instance fields (so references emit as
// this.Name) versus locals, and the user-function table so calls route to
// `this.Method(...)` instead of a built-in lowering.
type generator struct {
	diags       *errors.List
	className   string
	globalNames map[string]bool
	userFuncs   map[string]*ast.FuncDecl
	locals      map[string]bool // names shadowing globals in the current body
}

const vectorHelperPreamble = `function vecAdd(a, b) { return { x: a.x + b.x, y: a.y + b.y, z: a.z + b.z }; }
function vecSub(a, b) { return { x: a.x - b.x, y: a.y - b.y, z: a.z - b.z }; }
function vecScale(v, s) { return { x: v.x * s, y: v.y * s, z: v.z * s }; }
function vecMul(a, b) {
  if (typeof b === "number") return vecScale(a, b);
  if (typeof a === "number") return vecScale(b, a);
  return a.x * b.x + a.y * b.y + a.z * b.z;
}
function vecDiv(a, b) {
  if (typeof b === "number") return vecScale(a, 1 / b);
  return vecMul(a, b);
}
function vecCross(a, b) {
  return { x: a.y * b.z - a.z * b.y, y: a.z * b.x - a.x * b.z, z: a.x * b.y - a.y * b.x };
}
function vecEq(a, b) { return a.x === b.x && a.y === b.y && a.z === b.z ? 1 : 0; }
function vecMag(v) { return Math.sqrt(v.x * v.x + v.y * v.y + v.z * v.z); }
function vecNorm(v) { const m = vecMag(v) || 1; return vecScale(v, 1 / m); }
function rotCombine(a, b) {
  return {
    x: a.s * b.x + a.x * b.s + a.y * b.z - a.z * b.y,
    y: a.s * b.y - a.x * b.z + a.y * b.s + a.z * b.x,
    z: a.s * b.z + a.x * b.y - a.y * b.x + a.z * b.s,
    s: a.s * b.s - a.x * b.x - a.y * b.y - a.z * b.z,
  };
}
`

func zeroValueFor(t ast.Type) string {
	switch t {
	case ast.TypeInteger, ast.TypeFloat:
		return "0"
	case ast.TypeString, ast.TypeKey:
		return `""`
	case ast.TypeList:
		return "[]"
	case ast.TypeVector:
		return "{ x: 0, y: 0, z: 0 }"
	case ast.TypeRotation:
		return "{ x: 0, y: 0, z: 0, s: 1 }"
	default:
		return "undefined"
	}
}

func jsString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func indent(n int) string { return strings.Repeat("  ", n) }

func (g *generator) warn(format string, args ...interface{}) {
	g.diags.Warn(errors.PhaseCodegen, errors.Position{}, format, args...)
}

// EventNameTSL is the fixed translation table from LSL event names to their
// TSL handler names, e.g. state_entry -> onStateEntry. Exported so the AST
// Sandbox Transform and tests can reference it without duplicating it.
var EventNameTSL = map[string]string{
	"state_entry":           "onStateEntry",
	"state_exit":            "onStateExit",
	"touch_start":           "onTouchStart",
	"touch":                 "onTouch",
	"touch_end":             "onTouchEnd",
	"collision_start":       "onCollisionStart",
	"collision":             "onCollision",
	"collision_end":         "onCollisionEnd",
	"land_collision_start":  "onLandCollisionStart",
	"land_collision":        "onLandCollision",
	"land_collision_end":    "onLandCollisionEnd",
	"money":                 "onMoney",
	"email":                 "onEmail",
	"at_target":             "onAtTarget",
	"not_at_target":         "onNotAtTarget",
	"at_rot_target":         "onAtRotTarget",
	"not_at_rot_target":     "onNotAtRotTarget",
	"attach":                "onAttach",
	"changed":               "onChanged",
	"control":               "onControl",
	"dataserver":            "onDataserver",
	"http_request":          "onHttpRequest",
	"http_response":         "onHttpResponse",
	"link_message":          "onLinkMessage",
	"listen":                "onListen",
	"moving_start":          "onMovingStart",
	"moving_end":            "onMovingEnd",
	"no_sensor":             "onNoSensor",
	"object_rez":            "onObjectRez",
	"on_rez":                "onRez",
	"path_update":           "onPathUpdate",
	"remote_data":           "onRemoteData",
	"run_time_permissions":  "onRunTimePermissions",
	"sensor":                "onSensor",
	"timer":                 "onTimer",
	"transaction_result":    "onTransactionResult",
}

func eventHandlerName(lslName string) string {
	if name, ok := EventNameTSL[lslName]; ok {
		return name
	}
	return "on" + exportCase(lslName)
}

// exportCase is the fallback PascalCase-from-snake-case used only when an
// event name is missing from EventNameTSL (defensive; the table above is
// meant to be exhaustive for the known event vocabulary).
func exportCase(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}
