package bridge

import (
	"sync"
	"testing"
	"time"

	"github.com/increasinglyHuman/poqpoq/internal/worker"
)

func TestAPICallRoundTripsThroughHandler(t *testing.T) {
	h := worker.New()
	b := New(h)
	b.OnAPICall(func(scriptID, method string, args []interface{}) (interface{}, error) {
		return "ok:" + method, nil
	})
	b.Run()
	defer b.Stop()

	callID, wait := h.NewAPICall("s1", "world.say", []interface{}{0, "hi"})
	_ = callID

	done := make(chan worker.APIResponsePayload, 1)
	go func() { done <- wait() }()

	select {
	case resp := <-done:
		if resp.Result != "ok:world.say" {
			t.Errorf("unexpected result: %v", resp.Result)
		}
	case <-time.After(time.Second):
		t.Fatal("expected api-call to round-trip through the bridge")
	}
}

func TestConcurrentCallsInOneBatchAllComplete(t *testing.T) {
	h := worker.New()
	b := New(h)
	var mu sync.Mutex
	seen := map[string]bool{}
	b.OnAPICall(func(scriptID, method string, args []interface{}) (interface{}, error) {
		mu.Lock()
		seen[method] = true
		mu.Unlock()
		return nil, nil
	})
	b.Run()
	defer b.Stop()

	var waits []func() worker.APIResponsePayload
	for i := 0; i < 5; i++ {
		_, wait := h.NewAPICall("s1", "world.method", []interface{}{i})
		waits = append(waits, wait)
	}

	var wg sync.WaitGroup
	for _, w := range waits {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			w()
		}()
	}
	doneCh := make(chan struct{})
	go func() { wg.Wait(); close(doneCh) }()

	select {
	case <-doneCh:
	case <-time.After(2 * time.Second):
		t.Fatal("expected all batched calls to complete")
	}

	mu.Lock()
	defer mu.Unlock()
	if !seen["world.method"] {
		t.Error("expected the handler to observe world.method calls")
	}
}

func TestErrorCallbackInvoked(t *testing.T) {
	h := worker.New()
	b := New(h)
	received := make(chan string, 1)
	b.OnError(func(scriptID, errMsg, stack string) { received <- errMsg })
	b.Run()
	defer b.Stop()

	h.Spawn("s1", worker.Endowments{})
	h.Send(worker.Inbound{Kind: worker.InInit, ScriptID: "s1", Init: &worker.InitPayload{Code: "class Foo {"}})

	select {
	case msg := <-received:
		if msg == "" {
			t.Error("expected a non-empty error message")
		}
	case <-time.After(time.Second):
		t.Fatal("expected an error callback for malformed script source")
	}
}
