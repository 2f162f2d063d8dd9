// Package compartment implements the Compartment Host (C8): a frozen-
// intrinsics evaluation realm each hosted script's transformed TSL code
// runs inside. There is no JS/TS engine anywhere in the retrieved example
// pack, so this package hand-rolls a lexer, a Pratt parser and a
// tree-walking evaluator restricted to the TSL subset the Code Generator
// (C3) actually emits, grounded on the same architecture internal/compiler
// uses for LSL (read-char lexer, precedence-table parser) turned on a
// JS-flavored grammar instead.
package compartment

// defaultBlockedGlobals mirrors the identifiers internal/sandbox flags as
// unsafe; the sandbox transform only warns, this package is where the
// denial actually takes effect.
var defaultBlockedGlobals = []string{
	"window", "document", "fetch", "eval", "Function",
	"XMLHttpRequest", "WebSocket", "Worker", "self", "globalThis",
	"Proxy", "Reflect",
}

// Compartment is a single locked-down evaluation realm. One Compartment
// hosts exactly one script instance's lifetime: construct it with the
// endowments that script is entitled to, evaluate its transformed source
// once, then instantiate and invoke its default-exported class.
type Compartment struct {
	global  *environment
	eval    *evaluator
	locked  bool
	exports *Object
}

// New performs lockdown: it seeds a fresh global environment with the
// given endowments and freezes the set of names a script may not touch,
// before any guest code has run.
func New(endowments map[string]Value) *Compartment {
	global := newEnvironment(nil)
	for name, v := range endowments {
		global.define(name, v)
	}
	exports := NewObject()
	global.define("__exports", exports)
	c := &Compartment{
		global:  global,
		eval:    newEvaluator(defaultBlockedGlobals),
		locked:  true,
		exports: exports,
	}
	return c
}

// Evaluate parses and runs code (the sandbox-transformed script source,
// preamble included) against the Compartment's global environment.
func (c *Compartment) Evaluate(code string) error {
	p := newTSLParser(code)
	prog, err := p.parseProgram()
	if err != nil {
		return err
	}
	return c.eval.run(prog, c.global)
}

// DefaultClass recovers the script's default-exported class, the class
// codegen always assigns to __exports.default.
func (c *Compartment) DefaultClass() (*Class, error) {
	v, ok := c.exports.Pairs["default"]
	if !ok {
		return nil, throwString("Script did not export a default class")
	}
	cls, ok := v.(*Class)
	if !ok {
		return nil, throwString("Script did not export a default class")
	}
	return cls, nil
}

// Instantiate constructs an instance of cls, running field initializers
// with "this" bound to the instance under construction and seeding the
// read-only instance properties (scriptId/world/object/container/owner)
// from props.
func (c *Compartment) Instantiate(cls *Class, props map[string]Value) (*Instance, error) {
	inst := &Instance{Class: cls, Props: map[string]Value{}}
	for k, v := range props {
		inst.Props[k] = v
	}
	inst.Props["__currentState"] = String{Value: "default"}

	env := newEnvironment(cls.DefEnv)
	env.define("this", inst)

	// Walk the superclass chain root-first so subclass field initializers
	// can shadow base-class ones, the same order plain JS class field
	// initialization uses.
	chain := []*Class{}
	for cl := cls; cl != nil; cl = cl.Super {
		chain = append(chain, cl)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for _, f := range chain[i].Fields {
			var v Value = Undefined{}
			if f.Value != nil {
				val, err := c.eval.eval(f.Value, env)
				if err != nil {
					return nil, err
				}
				v = val
			}
			inst.Props[f.Name] = v
		}
	}
	return inst, nil
}

// InvokeMethod calls a named method on inst, resolving through the class
// hierarchy and the built-in WorldScript surface (transitionTo) in that
// order.
func (c *Compartment) InvokeMethod(inst *Instance, method string, args []Value) (Value, error) {
	return c.eval.invokeOnInstance(inst, method, args)
}

// HasMethod reports whether inst responds to method without invoking it,
// used by the dispatcher to decide whether an event handler exists before
// routing to it.
func (c *Compartment) HasMethod(inst *Instance, method string) bool {
	if _, ok := inst.Class.lookupMethod(method); ok {
		return true
	}
	return isBuiltinMethod(method)
}

// StateHandler resolves a handler function nested under states[stateName]
// the way C3's genStatesField lays it out: states is a field holding an
// object literal whose values are per-state objects of method closures.
func (c *Compartment) StateHandler(inst *Instance, stateName, event string) (*Function, bool) {
	statesVal, ok := inst.Props["states"]
	if !ok {
		return nil, false
	}
	states, ok := statesVal.(*Object)
	if !ok {
		return nil, false
	}
	stateVal, ok := states.Pairs[stateName]
	if !ok {
		return nil, false
	}
	state, ok := stateVal.(*Object)
	if !ok {
		return nil, false
	}
	handlerVal, ok := state.Pairs[event]
	if !ok {
		return nil, false
	}
	fn, ok := handlerVal.(*Function)
	return fn, ok
}

// CallStateHandler invokes a state handler function with "this" bound to
// inst, the same binding InvokeMethod uses for class methods.
func (c *Compartment) CallStateHandler(inst *Instance, fn *Function, args []Value) (Value, error) {
	return c.eval.callFunction(fn, inst, args)
}
