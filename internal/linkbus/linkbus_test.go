package linkbus

import "testing"

func TestLinkBroadcastExclusionScenario(t *testing.T) {
	// a@link0, b@link1, c@link1 in the same container;
	// send(b, LINK_ALL_OTHERS, 7, "", "") reaches a and c but not b, each
	// reporting senderLink=1.
	var received []struct {
		target string
		msg    Message
	}
	bus := New(func(target string, msg Message) {
		received = append(received, struct {
			target string
			msg    Message
		}{target, msg})
	})
	bus.Register("a", "container-1", 0)
	bus.Register("b", "container-1", 1)
	bus.Register("c", "container-1", 1)

	bus.Send("b", LinkAllOthers, 7, "", "")

	targets := map[string]bool{}
	for _, r := range received {
		targets[r.target] = true
		if r.msg.SenderLink != 1 {
			t.Errorf("expected senderLink=1, got %d", r.msg.SenderLink)
		}
	}
	if !targets["a"] || !targets["c"] {
		t.Errorf("expected a and c to receive, got %v", targets)
	}
	if targets["b"] {
		t.Error("sender b should not receive its own LINK_ALL_OTHERS broadcast")
	}
}

func TestLinkSetScoping(t *testing.T) {
	// LINK_SET delivers to exactly the scripts registered with the
	// sender's containerId.
	var targets []string
	bus := New(func(target string, msg Message) { targets = append(targets, target) })
	bus.Register("a", "container-1", 0)
	bus.Register("b", "container-1", 1)
	bus.Register("x", "container-2", 0)

	bus.Send("a", LinkSet, 1, "", "")

	if len(targets) != 2 {
		t.Fatalf("expected 2 recipients in container-1, got %v", targets)
	}
}

func TestLinkRootSelectsOnlyLinkZero(t *testing.T) {
	var targets []string
	bus := New(func(target string, msg Message) { targets = append(targets, target) })
	bus.Register("a", "container-1", 0)
	bus.Register("b", "container-1", 1)
	bus.Register("c", "container-1", 2)

	bus.Send("b", LinkRoot, 1, "", "")

	if len(targets) != 1 || targets[0] != "a" {
		t.Errorf("expected only the root (link 0) to receive, got %v", targets)
	}
}

func TestLinkAllChildrenEquivalentToGreaterEqualTwo(t *testing.T) {
	// LINK_ALL_CHILDREN's `> 1` is equivalent to `>= 2` here since link
	// numbers are integers.
	var targets []int
	regs := map[string]int{"root": 0, "link1": 1, "child2": 2, "child3": 3}
	bus := New(func(target string, msg Message) {})
	for id, ln := range regs {
		bus.Register(id, "container-1", ln)
	}

	for id, ln := range regs {
		got := matches(LinkAllChildren, 0, ln)
		want := ln >= 2
		if got != want {
			t.Errorf("script %s (link %d): matches()=%v, want (>=2)=%v", id, ln, got, want)
		}
		targets = append(targets, ln)
	}
}

func TestSendFromUnregisteredSenderIsNoop(t *testing.T) {
	called := false
	bus := New(func(target string, msg Message) { called = true })
	bus.Send("ghost", LinkSet, 1, "", "")
	if called {
		t.Error("expected no delivery for an unregistered sender")
	}
}

func TestCleanupScriptRemovesRegistration(t *testing.T) {
	var targets []string
	bus := New(func(target string, msg Message) { targets = append(targets, target) })
	bus.Register("a", "container-1", 0)
	bus.Register("b", "container-1", 1)
	bus.CleanupScript("b")

	bus.Send("a", LinkSet, 1, "", "")
	if len(targets) != 1 || targets[0] != "a" {
		t.Errorf("expected only a (self, LINK_SET) to remain, got %v", targets)
	}
}
