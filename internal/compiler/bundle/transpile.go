package bundle

import (
	"fmt"

	"github.com/increasinglyHuman/poqpoq/internal/compiler/errors"
	"github.com/increasinglyHuman/poqpoq/internal/compiler/transpile"
	"github.com/increasinglyHuman/poqpoq/internal/compiler/utils"
)

// TranspiledScript is one binding's transpile outcome, identity-tagged so a
// caller can report failures against the object/script that produced them.
type TranspiledScript struct {
	Binding     ScriptBinding
	ClassName   string
	Code        string
	Success     bool
	Diagnostics *errors.List
}

// TranspiledBundle is the Bundle Transpiler's output: one TranspiledScript
// per binding plus the aggregate success/failure counts.
type TranspiledBundle struct {
	Scripts      []TranspiledScript
	SuccessCount int
	FailureCount int
}

// TranspileOptions forwards the source-comment hint down to the underlying
// Transpile Facade call for every binding; the class name itself is always
// derived per-binding from the script's name and deduped across the whole
// bundle, so there is no bundle-wide class-name override.
type TranspileOptions struct {
	SourceComments bool
}

// TranspileBundle runs the Transpile Facade over every binding in pb,
// looking its source text up in sources by AssetPath. A binding with no
// matching source produces a PhaseBundle error diagnostic ("Source file not
// found: <path>") and a failed TranspiledScript; other bindings still
// transpile.
func TranspileBundle(pb *ParsedBundle, sources map[string]string, opts TranspileOptions) *TranspiledBundle {
	tb := &TranspiledBundle{}
	used := map[string]bool{}

	for _, binding := range pb.Scripts {
		className := utils.DeriveClassName(binding.ScriptName, used)

		source, ok := sources[binding.AssetPath]
		if !ok {
			diags := errors.NewList()
			diags.Error(errors.PhaseBundle, errors.Position{File: binding.AssetPath},
				"Source file not found: %s", binding.AssetPath)
			tb.Scripts = append(tb.Scripts, TranspiledScript{
				Binding:     binding,
				ClassName:   className,
				Success:     false,
				Diagnostics: diags,
			})
			tb.FailureCount++
			continue
		}

		facadeOpts := transpile.Options{ClassName: className}
		if opts.SourceComments {
			facadeOpts.SourceComment = fmt.Sprintf("%s / %s", binding.ObjectName, binding.ScriptName)
		}
		res := transpile.Transpile(source, facadeOpts)

		tb.Scripts = append(tb.Scripts, TranspiledScript{
			Binding:     binding,
			ClassName:   res.ClassName,
			Code:        res.Code,
			Success:     res.Success,
			Diagnostics: res.Diagnostics,
		})
		if res.Success {
			tb.SuccessCount++
		} else {
			tb.FailureCount++
		}
	}

	return tb
}
