package dispatch

import (
	"testing"

	"github.com/increasinglyHuman/poqpoq/internal/linkbus"
	"github.com/increasinglyHuman/poqpoq/internal/wire"
)

func newRecordingDispatcher(t *testing.T) (*Dispatcher, *[]wire.Event) {
	t.Helper()
	var received []wire.Event
	d := New(func(scriptID string, evt wire.Event) error {
		received = append(received, evt)
		return nil
	})
	return d, &received
}

func TestContainerBroadcastReachesAllScriptsInContainer(t *testing.T) {
	d, received := newRecordingDispatcher(t)
	d.RegisterScript("s1", "c1")
	d.RegisterScript("s2", "c1")
	d.RegisterScript("s3", "c2")

	if err := d.DispatchContainerBroadcast("c1", wire.EvtTouchStart, wire.TouchPayload{Agent: "a", Face: 0}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(*received) != 2 {
		t.Fatalf("expected 2 deliveries to container c1, got %d", len(*received))
	}
}

func TestListenFilterSemantics(t *testing.T) {
	// P8
	d, received := newRecordingDispatcher(t)
	d.RegisterScript("s1", "c1")
	d.Listen("h1", Listen{ScriptID: "s1", Channel: 0})
	d.Listen("h2", Listen{ScriptID: "s1", Channel: 0, NameFilter: "Bob", HasNameFilter: true})

	if err := d.DispatchChat(0, "Alice", "id-1", "hi"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(*received) != 1 {
		t.Fatalf("expected only the filterless listener to match, got %d deliveries", len(*received))
	}

	*received = nil
	if err := d.DispatchChat(0, "Bob", "id-2", "hi"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(*received) != 2 {
		t.Fatalf("expected both listeners to match sender Bob, got %d", len(*received))
	}
}

func TestDispatchOrderPreservedPerScript(t *testing.T) {
	// P9
	d, received := newRecordingDispatcher(t)
	d.RegisterScript("s1", "c1")

	if err := d.DispatchToScript("s1", wire.EvtTimer, wire.TimerPayload{TimerID: "A"}); err != nil {
		t.Fatalf("dispatch 1: %v", err)
	}
	if err := d.DispatchToScript("s1", wire.EvtTimer, wire.TimerPayload{TimerID: "B"}); err != nil {
		t.Fatalf("dispatch 2: %v", err)
	}

	if len(*received) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(*received))
	}
	first, err := wire.DecodeEventPayload[wire.TimerPayload]((*received)[0])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	second, err := wire.DecodeEventPayload[wire.TimerPayload]((*received)[1])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.TimerID != "A" || second.TimerID != "B" {
		t.Errorf("expected A before B, got %q then %q", first.TimerID, second.TimerID)
	}
}

func TestCleanupScriptRemovesListensAndBroadcastMembership(t *testing.T) {
	d, received := newRecordingDispatcher(t)
	d.RegisterScript("s1", "c1")
	d.Listen("h1", Listen{ScriptID: "s1", Channel: 0})

	d.CleanupScript("s1")

	if err := d.DispatchChat(0, "Alice", "id-1", "hi"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(*received) != 0 {
		t.Errorf("expected no deliveries after cleanup, got %d", len(*received))
	}

	*received = nil
	if err := d.DispatchContainerBroadcast("c1", wire.EvtTouchStart, wire.TouchPayload{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(*received) != 0 {
		t.Errorf("expected no broadcast deliveries after cleanup, got %d", len(*received))
	}
}

func TestOnLinkMessageDispatchesToTargetScript(t *testing.T) {
	d, received := newRecordingDispatcher(t)
	d.RegisterScript("s1", "c1")

	d.OnLinkMessage("s1", linkbus.Message{SenderLink: 1, Num: 7, Str: "hi", ID: ""})

	if len(*received) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(*received))
	}
	payload, err := wire.DecodeEventPayload[wire.LinkMessagePayload]((*received)[0])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.SenderLink != 1 || payload.Num != 7 || payload.Str != "hi" {
		t.Errorf("unexpected payload: %+v", payload)
	}
}
