package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/increasinglyHuman/poqpoq/internal/compiler/bundle"
)

func cmdBundle(args []string) {
	fs := flag.NewFlagSet("bundle", flag.ExitOnError)
	outDir := fs.String("o", "dist", "output directory for transpiled .ts files")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: tslc bundle [-o outdir] <manifest.json>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	manifestPath := fs.Arg(0)
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading manifest: %v\n", err)
		os.Exit(1)
	}

	manifest, err := bundle.ParseManifest(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if errs := bundle.Validate(manifest); len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Manifest validation errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		os.Exit(1)
	}

	parsed := bundle.Parse(manifest)
	sources, err := loadSources(filepath.Dir(manifestPath), parsed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	transpiled := bundle.TranspileBundle(parsed, sources, bundle.TranspileOptions{SourceComments: true})

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	for _, script := range transpiled.Scripts {
		if !script.Success {
			fmt.Fprintf(os.Stderr, "%s (%s): %s\n", script.Binding.ScriptName, script.Binding.ObjectName, script.Diagnostics.String())
			continue
		}
		outPath := filepath.Join(*outDir, script.ClassName+".ts")
		if err := os.WriteFile(outPath, []byte(script.Code), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outPath, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Transpiled %d/%d scripts from %s into %s\n",
		transpiled.SuccessCount, transpiled.SuccessCount+transpiled.FailureCount, parsed.SceneName, *outDir)
	if transpiled.FailureCount > 0 {
		os.Exit(1)
	}
}

// loadSources resolves every script binding's asset path against the
// manifest's directory and reads its source text.
func loadSources(baseDir string, pb *bundle.ParsedBundle) (map[string]string, error) {
	sources := make(map[string]string, len(pb.Scripts))
	for _, binding := range pb.Scripts {
		if _, ok := sources[binding.AssetPath]; ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(baseDir, binding.AssetPath))
		if err != nil {
			// A missing file here is surfaced per-binding by
			// TranspileBundle's own "Source file not found" error
			// diagnostic, not fatal to the whole bundle run.
			continue
		}
		sources[binding.AssetPath] = string(data)
	}
	return sources, nil
}
