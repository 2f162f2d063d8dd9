// Package sandbox implements the AST Sandbox Transform (C7): it rewrites
// generated (or hand-written) TSL source into hardened TSL with loop and
// call-depth counters, module syntax stripped, and a blocked-global scan
// surfaced as warnings. No third-party JS/TS parser exists anywhere in the
// retrieved example pack (see DESIGN.md), so the transform applies
// regular-expression rewrites over the source text, plus a small
// string-aware bracket-balance scan, rather than working on a full AST.
package sandbox

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/increasinglyHuman/poqpoq/internal/compiler/errors"
)

// Options tunes the resource caps baked into the preamble.
type Options struct {
	MaxIterations int
	MaxCallDepth  int
}

func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = 100000
	}
	if o.MaxCallDepth <= 0 {
		o.MaxCallDepth = 32
	}
	return o
}

// Result is the transform's output.
type Result struct {
	Code        string
	Success     bool
	Diagnostics *errors.List
}

var (
	importLineRE   = regexp.MustCompile(`(?m)^\s*import\b[^\n]*\n?`)
	exportDefaultRE     = regexp.MustCompile(`export\s+default\s+class\s+(\w+)`)
	exportBareDefaultRE = regexp.MustCompile(`\bexport\s+default\s+`)
	exportClassRE       = regexp.MustCompile(`\bexport\s+class\b`)
	exportFuncRE        = regexp.MustCompile(`\bexport\s+function\b`)
	exportConstRE       = regexp.MustCompile(`\bexport\s+const\b`)

	loopHeaderRE = regexp.MustCompile(`\b(while|for)\s*\([^{;]*(?:;[^{]*)*\)\s*\{`)
	doHeaderRE   = regexp.MustCompile(`\bdo\s*\{`)
)

var blockedGlobals = []string{
	"window", "document", "fetch", "eval", "Function",
	"XMLHttpRequest", "WebSocket", "Worker", "self", "globalThis",
	"Proxy", "Reflect",
}

// Transform hardens TSL source for sandboxed execution. Empty input is
// valid and returns success=true with only the preamble. A brace/paren
// imbalance is treated as syntactically invalid TSL and aborts with
// success=false.
func Transform(source string, opts Options) Result {
	opts = opts.withDefaults()
	diags := errors.NewList()

	if strings.TrimSpace(source) == "" {
		return Result{Code: preamble(opts), Success: true, Diagnostics: diags}
	}

	if !bracesBalanced(source) {
		diags.Error(errors.PhaseSandbox, errors.Position{}, "unbalanced braces/parens in TSL source")
		return Result{Success: false, Diagnostics: diags}
	}

	out := source

	// 1. Strip import statements.
	if importLineRE.MatchString(out) {
		diags.Warn(errors.PhaseSandbox, errors.Position{}, "Import statements are not permitted in a sandboxed script and were removed")
		out = importLineRE.ReplaceAllString(out, "")
	}

	// 2. Module-export stripping.
	var defaultClassName string
	if m := exportDefaultRE.FindStringSubmatch(out); m != nil {
		defaultClassName = m[1]
		out = exportDefaultRE.ReplaceAllString(out, "class $1")
	}
	out = exportClassRE.ReplaceAllString(out, "class")
	out = exportFuncRE.ReplaceAllString(out, "function")
	out = exportConstRE.ReplaceAllString(out, "const")
	if defaultClassName != "" {
		out = strings.TrimRight(out, "\n") + "\n__exports.default = " + defaultClassName + ";\n"
	} else {
		// A bare `export default <expr>;` with no class keyword still must
		// not survive; rewrite to a plain expression statement.
		out = exportBareDefaultRE.ReplaceAllString(out, "")
	}

	// 3. Loop counter injection.
	out = loopHeaderRE.ReplaceAllStringFunc(out, func(match string) string {
		return match + "\n__checkLoop();"
	})
	out = doHeaderRE.ReplaceAllStringFunc(out, func(match string) string {
		return match + "\n__checkLoop();"
	})

	// 4. Blocked-global scan (detect only; the Compartment denies at eval time).
	for _, name := range blockedGlobals {
		if identifierRE(name).MatchString(out) {
			diags.Warn(errors.PhaseSandbox, errors.Position{}, "reference to blocked global %q found; it will be denied at evaluation time", name)
		}
	}

	out = preamble(opts) + "\n" + out

	return Result{Code: out, Success: true, Diagnostics: diags}
}

func identifierRE(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
}

func preamble(opts Options) string {
	var b strings.Builder
	b.WriteString("let __loopCount = 0;\n")
	b.WriteString("const __MAX_ITERATIONS = " + strconv.Itoa(opts.MaxIterations) + ";\n")
	b.WriteString("function __checkLoop() {\n")
	b.WriteString("  __loopCount++;\n")
	b.WriteString("  if (__loopCount > __MAX_ITERATIONS) {\n")
	b.WriteString(`    throw new Error("maximum iterations exceeded (" + __MAX_ITERATIONS + ")");` + "\n")
	b.WriteString("  }\n")
	b.WriteString("}\n")
	b.WriteString("let __callDepth = 0;\n")
	b.WriteString("const __MAX_CALL_DEPTH = " + strconv.Itoa(opts.MaxCallDepth) + ";\n")
	b.WriteString("function __checkCall() {\n")
	b.WriteString("  if (__callDepth > __MAX_CALL_DEPTH) {\n")
	b.WriteString(`    throw new Error("maximum call depth exceeded (" + __MAX_CALL_DEPTH + ")");` + "\n")
	b.WriteString("  }\n")
	b.WriteString("}\n")
	return b.String()
}

func bracesBalanced(s string) bool {
	depthCurly, depthParen, depthSquare := 0, 0, 0
	inString := rune(0)
	for i := 0; i < len(s); i++ {
		c := rune(s[i])
		if inString != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == inString {
				inString = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			inString = c
		case '{':
			depthCurly++
		case '}':
			depthCurly--
		case '(':
			depthParen++
		case ')':
			depthParen--
		case '[':
			depthSquare++
		case ']':
			depthSquare--
		}
		if depthCurly < 0 || depthParen < 0 || depthSquare < 0 {
			return false
		}
	}
	return depthCurly == 0 && depthParen == 0 && depthSquare == 0
}
