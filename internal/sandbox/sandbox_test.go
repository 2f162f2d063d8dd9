package sandbox

import (
	"regexp"
	"strings"
	"testing"
)

func TestTransformEmptyInputSucceeds(t *testing.T) {
	res := Transform("", Options{})
	if !res.Success {
		t.Fatalf("expected success for empty input: %s", res.Diagnostics)
	}
	if !strings.Contains(res.Code, "__MAX_ITERATIONS") {
		t.Errorf("expected preamble even for empty input, got %q", res.Code)
	}
}

func TestTransformStripsImportAndExportDefault(t *testing.T) {
	src := "import { WorldScript } from 'engine';\n" +
		"export default class Foo extends WorldScript {\n" +
		"  async onStateEntry() {}\n" +
		"}\n"

	res := Transform(src, Options{})
	if !res.Success {
		t.Fatalf("expected success: %s", res.Diagnostics)
	}

	exportRE := regexp.MustCompile(`\bexport\s+(default|class|function)\b`)
	if exportRE.MatchString(res.Code) {
		t.Errorf("output still contains a module export keyword:\n%s", res.Code)
	}
	if strings.Contains(res.Code, "import ") {
		t.Errorf("output still contains an import statement:\n%s", res.Code)
	}
	if !strings.Contains(res.Code, "class Foo extends WorldScript") {
		t.Errorf("expected the class declaration to survive:\n%s", res.Code)
	}
	if !strings.Contains(res.Code, "__exports.default = Foo;") {
		t.Errorf("expected __exports.default assignment:\n%s", res.Code)
	}

	foundImportWarning := false
	for _, d := range res.Diagnostics.Items {
		if strings.Contains(d.Message, "Import") {
			foundImportWarning = true
		}
	}
	if !foundImportWarning {
		t.Errorf("expected a warning mentioning Import, got: %s", res.Diagnostics)
	}
}

func TestTransformInjectsLoopCounter(t *testing.T) {
	src := "class Foo {\n  async run() {\n    while (true) {\n      noop();\n    }\n  }\n}\n"
	res := Transform(src, Options{})
	if !res.Success {
		t.Fatalf("expected success: %s", res.Diagnostics)
	}
	if !strings.Contains(res.Code, "while (true) {\n__checkLoop();") {
		t.Errorf("expected __checkLoop() injected right after the while header:\n%s", res.Code)
	}
}

func TestTransformBlockedGlobalWarns(t *testing.T) {
	src := "class Foo {\n  async run() {\n    window.alert('hi');\n  }\n}\n"
	res := Transform(src, Options{})
	if !res.Success {
		t.Fatalf("expected success: %s", res.Diagnostics)
	}
	if !strings.Contains(res.Code, "window.alert") {
		t.Errorf("transform must not delete the blocked-global reference, only warn:\n%s", res.Code)
	}
	found := false
	for _, d := range res.Diagnostics.Items {
		if strings.Contains(d.Message, "window") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning naming 'window', got: %s", res.Diagnostics)
	}
}

func TestTransformUnbalancedBracesFails(t *testing.T) {
	res := Transform("class Foo { async run() {", Options{})
	if res.Success {
		t.Fatal("expected failure for unbalanced braces")
	}
	if !res.Diagnostics.HasErrors() {
		t.Fatal("expected an error diagnostic")
	}
}

func TestTransformDefaultCaps(t *testing.T) {
	res := Transform("class Foo {}", Options{})
	if !res.Success {
		t.Fatalf("expected success: %s", res.Diagnostics)
	}
	if !strings.Contains(res.Code, "const __MAX_ITERATIONS = 100000;") {
		t.Errorf("expected default max-iterations cap, got:\n%s", res.Code)
	}
	if !strings.Contains(res.Code, "const __MAX_CALL_DEPTH = 32;") {
		t.Errorf("expected default max-call-depth cap, got:\n%s", res.Code)
	}
}

func TestTransformCustomCaps(t *testing.T) {
	res := Transform("class Foo {}", Options{MaxIterations: 10, MaxCallDepth: 4})
	if !res.Success {
		t.Fatalf("expected success: %s", res.Diagnostics)
	}
	if !strings.Contains(res.Code, "const __MAX_ITERATIONS = 10;") {
		t.Errorf("expected custom max-iterations cap, got:\n%s", res.Code)
	}
	if !strings.Contains(res.Code, "const __MAX_CALL_DEPTH = 4;") {
		t.Errorf("expected custom max-call-depth cap, got:\n%s", res.Code)
	}
}
