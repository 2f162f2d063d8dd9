package builtins

import (
	"testing"

	"github.com/increasinglyHuman/poqpoq/internal/compiler/ast"
)

func TestLookupKnownBuiltin(t *testing.T) {
	sig, ok := Lookup("llSay")
	if !ok {
		t.Fatal("expected llSay to be registered")
	}
	if sig.Target != TargetWorld || sig.Method != "say" {
		t.Errorf("llSay = %+v, want TargetWorld/say", sig)
	}
}

func TestLookupUnknownBuiltin(t *testing.T) {
	if _, ok := Lookup("llNotARealFunction"); ok {
		t.Fatal("expected unknown built-in to not be found")
	}
	if Known("llNotARealFunction") {
		t.Fatal("Known() should report false for an unregistered name")
	}
}

func TestRegisterOverride(t *testing.T) {
	Register(Signature{Name: "llCustomTest", Return: ast.TypeInteger, Target: TargetInline, InlineExpr: "42"})
	sig, ok := Lookup("llCustomTest")
	if !ok || sig.InlineExpr != "42" {
		t.Fatalf("Register did not take effect: %+v, ok=%v", sig, ok)
	}
}

func TestEveryTargetKindRepresented(t *testing.T) {
	seen := map[TargetKind]bool{}
	for _, sig := range defaultSignatures {
		seen[sig.Target] = true
	}
	for _, k := range []TargetKind{TargetWorld, TargetObject, TargetContainer, TargetInline} {
		if !seen[k] {
			t.Errorf("no default signature exercises target kind %d", k)
		}
	}
}
