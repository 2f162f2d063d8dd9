// Package builtins holds the catalogue of LSL built-in (ll*) functions the
// FunctionResolver cross-references calls against. The real LSL standard
// library runs to several hundred ll* functions; this package provides a
// concrete, representative table large enough for the code generator to
// exercise every target kind it must support, since the exhaustive library
// is data, not design, and is out of scope.
package builtins

import "github.com/increasinglyHuman/poqpoq/internal/compiler/ast"

// TargetKind says how the Code Generator should render a call to a
// built-in once FunctionResolver has matched it.
type TargetKind int

const (
	// TargetWorld renders as an awaited call on this.world.<method>(...).
	TargetWorld TargetKind = iota
	// TargetObject renders as an awaited call on this.object.<method>(...).
	TargetObject
	// TargetContainer renders as an awaited call on this.container.<method>(...).
	TargetContainer
	// TargetInline renders via a literal expression template with %s
	// placeholders substituted positionally by argument index.
	TargetInline
)

// Signature describes one built-in's shape and lowering target.
type Signature struct {
	Name       string
	Params     []ast.Type
	Return     ast.Type
	Target     TargetKind
	Method     string // runtime method name for TargetWorld/Object/Container
	InlineExpr string // Go-style fmt template for TargetInline, e.g. "Math.trunc(%s)"
}

var catalogue = map[string]Signature{}

func init() {
	for _, sig := range defaultSignatures {
		catalogue[sig.Name] = sig
	}
}

// Lookup returns the registered signature for an ll* function name.
func Lookup(name string) (Signature, bool) {
	sig, ok := catalogue[name]
	return sig, ok
}

// Register adds or overrides a built-in signature; callers and tests use
// this to extend the catalogue beyond the default set.
func Register(sig Signature) {
	catalogue[sig.Name] = sig
}

// Known reports whether name is a registered built-in.
func Known(name string) bool {
	_, ok := catalogue[name]
	return ok
}

var defaultSignatures = []Signature{
	// Chat — TargetWorld
	{Name: "llSay", Params: []ast.Type{ast.TypeInteger, ast.TypeString}, Return: ast.TypeVoid, Target: TargetWorld, Method: "say"},
	{Name: "llWhisper", Params: []ast.Type{ast.TypeInteger, ast.TypeString}, Return: ast.TypeVoid, Target: TargetWorld, Method: "whisper"},
	{Name: "llShout", Params: []ast.Type{ast.TypeInteger, ast.TypeString}, Return: ast.TypeVoid, Target: TargetWorld, Method: "shout"},
	{Name: "llRegionSay", Params: []ast.Type{ast.TypeInteger, ast.TypeString}, Return: ast.TypeVoid, Target: TargetWorld, Method: "regionSay"},
	{Name: "llInstantMessage", Params: []ast.Type{ast.TypeKey, ast.TypeString}, Return: ast.TypeVoid, Target: TargetWorld, Method: "instantMessage"},
	{Name: "llDialog", Params: []ast.Type{ast.TypeKey, ast.TypeString, ast.TypeList, ast.TypeInteger}, Return: ast.TypeVoid, Target: TargetWorld, Method: "dialog"},
	{Name: "llListen", Params: []ast.Type{ast.TypeInteger, ast.TypeString, ast.TypeKey, ast.TypeString}, Return: ast.TypeInteger, Target: TargetWorld, Method: "listen"},
	{Name: "llListenRemove", Params: []ast.Type{ast.TypeInteger}, Return: ast.TypeVoid, Target: TargetWorld, Method: "listenRemove"},

	// Timers — TargetWorld
	{Name: "llSetTimerEvent", Params: []ast.Type{ast.TypeFloat}, Return: ast.TypeVoid, Target: TargetWorld, Method: "setTimer"},
	{Name: "llResetTime", Params: nil, Return: ast.TypeVoid, Target: TargetWorld, Method: "resetTime"},

	// Transform queries — TargetObject
	{Name: "llGetPos", Params: nil, Return: ast.TypeVector, Target: TargetObject, Method: "getPosition"},
	{Name: "llSetPos", Params: []ast.Type{ast.TypeVector}, Return: ast.TypeVoid, Target: TargetObject, Method: "setPosition"},
	{Name: "llGetRot", Params: nil, Return: ast.TypeRotation, Target: TargetObject, Method: "getRotation"},
	{Name: "llSetRot", Params: []ast.Type{ast.TypeRotation}, Return: ast.TypeVoid, Target: TargetObject, Method: "setRotation"},
	{Name: "llGetScale", Params: nil, Return: ast.TypeVector, Target: TargetObject, Method: "getScale"},
	{Name: "llSetScale", Params: []ast.Type{ast.TypeVector}, Return: ast.TypeVoid, Target: TargetObject, Method: "setScale"},

	// Appearance — TargetObject
	{Name: "llSetColor", Params: []ast.Type{ast.TypeVector, ast.TypeInteger}, Return: ast.TypeVoid, Target: TargetObject, Method: "setColor"},
	{Name: "llSetAlpha", Params: []ast.Type{ast.TypeFloat, ast.TypeInteger}, Return: ast.TypeVoid, Target: TargetObject, Method: "setAlpha"},
	{Name: "llSetTexture", Params: []ast.Type{ast.TypeString, ast.TypeInteger}, Return: ast.TypeVoid, Target: TargetObject, Method: "setTexture"},
	{Name: "llSetText", Params: []ast.Type{ast.TypeString, ast.TypeVector, ast.TypeFloat}, Return: ast.TypeVoid, Target: TargetObject, Method: "setText"},

	// Effects/animation/physics — TargetObject
	{Name: "llPlaySound", Params: []ast.Type{ast.TypeString, ast.TypeFloat}, Return: ast.TypeVoid, Target: TargetObject, Method: "playSound"},
	{Name: "llStopSound", Params: nil, Return: ast.TypeVoid, Target: TargetObject, Method: "stopSound"},
	{Name: "llStartAnimation", Params: []ast.Type{ast.TypeString}, Return: ast.TypeVoid, Target: TargetObject, Method: "playAnimation"},
	{Name: "llStopAnimation", Params: []ast.Type{ast.TypeString}, Return: ast.TypeVoid, Target: TargetObject, Method: "stopAnimation"},
	{Name: "llApplyImpulse", Params: []ast.Type{ast.TypeVector, ast.TypeInteger}, Return: ast.TypeVoid, Target: TargetObject, Method: "applyImpulse"},

	// Inventory/link messages — TargetContainer
	{Name: "llMessageLinked", Params: []ast.Type{ast.TypeInteger, ast.TypeInteger, ast.TypeString, ast.TypeKey}, Return: ast.TypeVoid, Target: TargetContainer, Method: "sendLinkMessage"},
	{Name: "llGetInventoryName", Params: []ast.Type{ast.TypeInteger, ast.TypeInteger}, Return: ast.TypeString, Target: TargetContainer, Method: "getInventoryName"},

	// Permissions/HTTP — TargetWorld
	{Name: "llRequestPermissions", Params: []ast.Type{ast.TypeKey, ast.TypeInteger}, Return: ast.TypeVoid, Target: TargetWorld, Method: "requestPermissions"},
	{Name: "llHTTPRequest", Params: []ast.Type{ast.TypeString, ast.TypeList, ast.TypeString}, Return: ast.TypeKey, Target: TargetWorld, Method: "httpRequest"},

	// Numeric coercion / inline expressions — TargetInline
	{Name: "llFrand", Params: []ast.Type{ast.TypeFloat}, Return: ast.TypeFloat, Target: TargetInline, InlineExpr: "(Math.random() * %s)"},
	{Name: "llAbs", Params: []ast.Type{ast.TypeInteger}, Return: ast.TypeInteger, Target: TargetInline, InlineExpr: "Math.abs(%s)"},
	{Name: "llFabs", Params: []ast.Type{ast.TypeFloat}, Return: ast.TypeFloat, Target: TargetInline, InlineExpr: "Math.abs(%s)"},
	{Name: "llSqrt", Params: []ast.Type{ast.TypeFloat}, Return: ast.TypeFloat, Target: TargetInline, InlineExpr: "Math.sqrt(%s)"},
	{Name: "llPow", Params: []ast.Type{ast.TypeFloat, ast.TypeFloat}, Return: ast.TypeFloat, Target: TargetInline, InlineExpr: "Math.pow(%s, %s)"},
	{Name: "llVecMag", Params: []ast.Type{ast.TypeVector}, Return: ast.TypeFloat, Target: TargetInline, InlineExpr: "vecMag(%s)"},
	{Name: "llVecNorm", Params: []ast.Type{ast.TypeVector}, Return: ast.TypeVector, Target: TargetInline, InlineExpr: "vecNorm(%s)"},
	{Name: "llList2String", Params: []ast.Type{ast.TypeList, ast.TypeInteger}, Return: ast.TypeString, Target: TargetInline, InlineExpr: "String(%s[%s])"},
	{Name: "llGetListLength", Params: []ast.Type{ast.TypeList}, Return: ast.TypeInteger, Target: TargetInline, InlineExpr: "%s.length"},
}
