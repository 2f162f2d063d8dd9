// Command tslc is the LSL->TSL compiler's CLI entrypoint: transpile a
// single script, transpile a whole object bundle from its manifest, or
// load a compiled script into a local sandboxed runtime for manual
// poking from a terminal.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	flag.Usage = usage
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "transpile":
		cmdTranspile(os.Args[2:])
	case "bundle":
		cmdBundle(os.Args[2:])
	case "run":
		cmdRun(os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "tslc: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: tslc <command> [arguments]

Commands:
  transpile   Transpile a single .lsl file to TSL
  bundle      Transpile every script named in an object bundle manifest
  run         Load a TSL/LSL script into a local sandboxed runtime

Use "tslc <command> -h" for per-command flags.
`)
}
