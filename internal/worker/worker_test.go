package worker

import (
	"testing"
	"time"

	"github.com/increasinglyHuman/poqpoq/internal/compartment"
	"github.com/increasinglyHuman/poqpoq/internal/wire"
)

func drainUntilReady(t *testing.T, h *Host, scriptID string, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case o := <-h.Outbox():
			if o.Kind == OutReady && o.ScriptID == scriptID {
				return
			}
			if o.Kind == OutError && o.ScriptID == scriptID {
				t.Fatalf("script errored during init: %s", o.Error.Error)
			}
		case <-deadline:
			t.Fatal("timed out waiting for ready")
		}
	}
}

func TestInitProducesReady(t *testing.T) {
	h := New()
	h.Spawn("s1", Endowments{
		World:     compartment.NewObject(),
		Object:    compartment.NewObject(),
		Container: compartment.NewObject(),
		Owner:     compartment.String{Value: "owner-1"},
	})
	err := h.Send(Inbound{Kind: InInit, ScriptID: "s1", Init: &InitPayload{
		Code: `class Foo { async onStateEntry() { this.entered = true; } } __exports.default = Foo;`,
	}})
	if err != nil {
		t.Fatalf("send init: %v", err)
	}
	drainUntilReady(t, h, "s1", time.Second)
}

func TestEventDispatchesToStateHandler(t *testing.T) {
	h := New()
	h.Spawn("s1", Endowments{World: compartment.NewObject(), Object: compartment.NewObject(), Container: compartment.NewObject(), Owner: compartment.Null{}})
	h.Send(Inbound{Kind: InInit, ScriptID: "s1", Init: &InitPayload{Code: `
class Foo {
  states = {
    "default": {
      async onTouchStart(arg) {
        this.touched = true;
      }
    }
  };
}
__exports.default = Foo;
`}})
	drainUntilReady(t, h, "s1", time.Second)

	evt, err := wire.NewEvent("obj-1", "s1", wire.EvtTouchStart, wire.TouchPayload{Agent: "a", Face: 0})
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	if err := h.Send(Inbound{Kind: InEvent, ScriptID: "s1", Event: &evt}); err != nil {
		t.Fatalf("send event: %v", err)
	}

	// Give the slot's goroutine a moment to process; since this is a
	// single in-process goroutine with no further blocking calls, a
	// short poll is sufficient to observe side effects without a sleep
	// race on CI-slow machines.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		h.mu.Lock()
		s, ok := h.slots["s1"]
		var touched bool
		if ok && s.inst != nil {
			if v, ok := s.inst.Props["touched"].(compartment.Bool); ok {
				touched = v.Value
			}
		}
		h.mu.Unlock()
		if touched {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("expected onTouchStart to run and set this.touched = true")
}

func TestAPICallSuspendsUntilResponse(t *testing.T) {
	h := New()
	callID, wait := h.NewAPICall("s1", "world.say", []interface{}{0, "hi"})

	done := make(chan APIResponsePayload, 1)
	go func() { done <- wait() }()

	select {
	case <-done:
		t.Fatal("expected wait() to block until the response arrives")
	case <-time.After(50 * time.Millisecond):
	}

	if err := h.Send(Inbound{Kind: InAPIResponse, APIResponse: &APIResponsePayload{CallID: callID, Result: "ok"}}); err != nil {
		t.Fatalf("send response: %v", err)
	}

	select {
	case resp := <-done:
		if resp.Result != "ok" {
			t.Errorf("expected result 'ok', got %v", resp.Result)
		}
	case <-time.After(time.Second):
		t.Fatal("wait() never returned after response delivered")
	}
}

func TestTerminateStopsSlot(t *testing.T) {
	h := New()
	h.Spawn("s1", Endowments{World: compartment.NewObject(), Object: compartment.NewObject(), Container: compartment.NewObject(), Owner: compartment.Null{}})
	h.Send(Inbound{Kind: InInit, ScriptID: "s1", Init: &InitPayload{Code: `class Foo {} __exports.default = Foo;`}})
	drainUntilReady(t, h, "s1", time.Second)

	if err := h.Send(Inbound{Kind: InTerminate, ScriptID: "s1"}); err != nil {
		t.Fatalf("send terminate: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		h.mu.Lock()
		_, exists := h.slots["s1"]
		h.mu.Unlock()
		if !exists {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("expected slot to be removed after terminate")
}
