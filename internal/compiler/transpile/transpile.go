// Package transpile implements the Transpile Facade (C4): preprocess, then
// lex+parse, then generate, folding every failure into diagnostics rather
// than a Go error. No phase's panic or error escapes this package; a
// genuinely unrecoverable failure still comes back as success=false with an
// "error" diagnostic and empty code.
package transpile

import (
	"github.com/increasinglyHuman/poqpoq/internal/compiler/errors"
	"github.com/increasinglyHuman/poqpoq/internal/compiler/generator"
	"github.com/increasinglyHuman/poqpoq/internal/compiler/parser"
)

// Options configures a single Transpile call; fields map onto
// generator.Options plus the bundle-facing class-name override.
type Options struct {
	ClassName     string
	SourceComment string
}

// Result is what every caller of the facade gets back, win or lose.
type Result struct {
	Code        string
	Success     bool
	ClassName   string
	Diagnostics *errors.List
}

// Transpile runs preprocess -> parse -> generate over source and never
// lets a panic or Go error escape: a parse or generate failure returns
// success=false with every diagnostic those phases recorded, and a panic
// adds one "internal error" diagnostic.
func Transpile(source string, opts Options) (result Result) {
	diags := errors.NewList()
	className := opts.ClassName
	if className == "" {
		className = "LSLScript"
	}
	result = Result{Success: false, ClassName: className, Diagnostics: diags}

	defer func() {
		if r := recover(); r != nil {
			diags.Error(errors.PhaseCodegen, errors.Position{}, "internal error: %v", r)
			result = Result{Success: false, ClassName: className, Diagnostics: diags}
		}
	}()

	preprocessed := Preprocess(source)

	unit, parseDiags := parser.Parse(preprocessed)
	diags.Items = append(diags.Items, parseDiags.Items...)
	if diags.HasErrors() {
		return Result{Success: false, ClassName: className, Diagnostics: diags}
	}

	genResult := generator.Generate(unit, generator.Options{
		ClassName:     opts.ClassName,
		SourceComment: opts.SourceComment,
	})
	diags.Items = append(diags.Items, genResult.Diagnostics.Items...)

	if !genResult.Success {
		return Result{Success: false, ClassName: genResult.ClassName, Diagnostics: diags}
	}

	return Result{
		Code:        genResult.Code,
		Success:     true,
		ClassName:   genResult.ClassName,
		Diagnostics: diags,
	}
}
