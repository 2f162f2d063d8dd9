package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/increasinglyHuman/poqpoq/internal/compiler/transpile"
)

func cmdTranspile(args []string) {
	fs := flag.NewFlagSet("transpile", flag.ExitOnError)
	outputFile := fs.String("o", "", "output .ts file path (default: input filename with .ts extension)")
	className := fs.String("class", "", "generated class name (default: derived from the input filename)")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: tslc transpile [-o output.ts] [-class Name] <input.lsl>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	inputFile := fs.Arg(0)
	out := *outputFile
	if out == "" {
		base := filepath.Base(inputFile)
		out = strings.TrimSuffix(base, filepath.Ext(base)) + ".ts"
	}

	code, err := transpileFile(inputFile, *className)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
			os.Exit(1)
		}
	}
	if err := os.WriteFile(out, []byte(code), 0644); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Transpiled %s successfully\n", out)
}

// transpileFile reads inputFile and runs it through the Transpile Facade
// (C4), folding every diagnostic into a single Go error for the CLI.
func transpileFile(inputFile, className string) (string, error) {
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}

	if className == "" {
		base := filepath.Base(inputFile)
		className = strings.TrimSuffix(base, filepath.Ext(base))
	}

	result := transpile.Transpile(string(data), transpile.Options{ClassName: className})
	if !result.Success {
		return "", fmt.Errorf("transpile failed:\n%s", result.Diagnostics.String())
	}
	return result.Code, nil
}
