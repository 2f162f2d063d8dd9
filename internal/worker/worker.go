// Package worker implements the Worker Host (C9): hosts each script on
// its own execution context and not migrated, the way a real off-thread
// worker would be. Go's goroutines are cheap enough that one script per
// goroutine is the natural mapping — each slot is single-threaded inside
// itself, matching the "scripts are single-threaded within their worker"
// concurrency model, while the awaited API proxy call's suspension point
// is realized as the slot's goroutine blocking on a channel receive for
// the correlated api-response.
package worker

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/increasinglyHuman/poqpoq/internal/compartment"
	"github.com/increasinglyHuman/poqpoq/internal/wire"
)

// Inbound envelope kinds, main -> worker.
type InboundKind string

const (
	InInit        InboundKind = "init"
	InEvent       InboundKind = "event"
	InAPIResponse InboundKind = "api-response"
	InTerminate   InboundKind = "terminate"
	InPing        InboundKind = "ping"
)

type InitPayload struct {
	Code   string
	Name   string
	Config map[string]interface{}
}

type APIResponsePayload struct {
	CallID string
	Result interface{}
	Err    string
}

// Inbound is one envelope sent to a script's slot.
type Inbound struct {
	Kind        InboundKind
	ScriptID    string
	Init        *InitPayload
	Event       *wire.Event
	APIResponse *APIResponsePayload
	Timestamp   int64
}

// Outbound envelope kinds, worker -> main.
type OutboundKind string

const (
	OutAPICall OutboundKind = "api-call"
	OutLog     OutboundKind = "log"
	OutError   OutboundKind = "error"
	OutReady   OutboundKind = "ready"
	OutPong    OutboundKind = "pong"
)

type APICallPayload struct {
	CallID string
	Method string
	Args   []interface{}
}

type LogPayload struct {
	Level string
	Args  []interface{}
}

type ErrorPayload struct {
	Error string
	Stack string
}

// Outbound is one envelope a slot emits toward the host.
type Outbound struct {
	Kind      OutboundKind
	ScriptID  string
	APICall   *APICallPayload
	Log       *LogPayload
	Error     *ErrorPayload
	Timestamp int64
}

// Endowments are the fixed, read-only instance properties the worker
// defines on every script instance at init: scriptId, world/object/
// container API surfaces, and owner. world/object/container
// are supplied as compartment.Value (built by the Bridge/host layer so
// they can forward calls across the worker boundary); the slot wires them
// plus a log proxy and __exports into the Compartment's endowment set.
type Endowments struct {
	World     compartment.Value
	Object    compartment.Value
	Container compartment.Value
	Owner     compartment.Value
}

type slot struct {
	scriptID string
	inbox    chan Inbound
	done     chan struct{}

	comp     *compartment.Compartment
	inst     *compartment.Instance
	class    *compartment.Class
	hasClass bool
}

// Host manages one goroutine-backed slot per script. It never migrates a
// script between slots after Spawn.
type Host struct {
	mu       sync.Mutex
	slots    map[string]*slot
	outbox   chan Outbound
	callSeq  int64
	pending  map[string]chan APIResponsePayload
	pendingMu sync.Mutex
}

// New builds a Host whose outbound envelopes are available from Outbox().
func New() *Host {
	return &Host{
		slots:   map[string]*slot{},
		outbox:  make(chan Outbound, 256),
		pending: map[string]chan APIResponsePayload{},
	}
}

// Outbox is the channel the Bridge (C10) drains for api-call/log/error/
// ready/pong envelopes.
func (h *Host) Outbox() <-chan Outbound { return h.outbox }

// Spawn starts a new slot for scriptID with the given endowments; it does
// not itself run the script — that happens when an Init envelope arrives.
func (h *Host) Spawn(scriptID string, endowments Endowments) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.slots[scriptID]; exists {
		return
	}
	s := &slot{
		scriptID: scriptID,
		inbox:    make(chan Inbound, 64),
		done:     make(chan struct{}),
	}
	h.slots[scriptID] = s
	go h.run(s, endowments)
}

// Send delivers an inbound envelope. API-response envelopes bypass the
// slot's sequential inbox and go straight to the pending call's channel,
// since the slot's own goroutine is typically blocked waiting for exactly
// that response and would otherwise deadlock against itself.
func (h *Host) Send(msg Inbound) error {
	if msg.Kind == InAPIResponse {
		h.pendingMu.Lock()
		ch, ok := h.pending[msg.APIResponse.CallID]
		h.pendingMu.Unlock()
		if !ok {
			return fmt.Errorf("worker: no pending call %s", msg.APIResponse.CallID)
		}
		ch <- *msg.APIResponse
		return nil
	}

	h.mu.Lock()
	s, ok := h.slots[msg.ScriptID]
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("worker: no slot for script %s", msg.ScriptID)
	}
	select {
	case s.inbox <- msg:
		return nil
	case <-s.done:
		return fmt.Errorf("worker: slot %s is terminated", msg.ScriptID)
	}
}

func (h *Host) run(s *slot, endowments Endowments) {
	for msg := range s.inbox {
		switch msg.Kind {
		case InInit:
			h.handleInit(s, msg, endowments)
		case InEvent:
			h.handleEvent(s, msg)
		case InTerminate:
			close(s.done)
			h.mu.Lock()
			delete(h.slots, s.scriptID)
			h.mu.Unlock()
			return
		case InPing:
			h.emit(Outbound{Kind: OutPong, ScriptID: s.scriptID, Timestamp: msg.Timestamp})
		}
	}
}

func (h *Host) handleInit(s *slot, msg Inbound, endowments Endowments) {
	env := map[string]compartment.Value{
		"scriptId":  compartment.String{Value: s.scriptID},
		"world":     endowments.World,
		"object":    endowments.Object,
		"container": endowments.Container,
		"owner":     endowments.Owner,
		"console": &compartment.Object{Pairs: map[string]compartment.Value{
			"log":   h.logNative(s, "log"),
			"warn":  h.logNative(s, "warn"),
			"error": h.logNative(s, "error"),
		}},
	}
	s.comp = compartment.New(env)

	if err := s.comp.Evaluate(msg.Init.Code); err != nil {
		h.emit(Outbound{Kind: OutError, ScriptID: s.scriptID, Error: &ErrorPayload{Error: err.Error()}})
		return
	}
	cls, err := s.comp.DefaultClass()
	if err != nil {
		h.emit(Outbound{Kind: OutError, ScriptID: s.scriptID, Error: &ErrorPayload{Error: err.Error()}})
		return
	}
	inst, err := s.comp.Instantiate(cls, map[string]compartment.Value{
		"scriptId":  compartment.String{Value: s.scriptID},
		"world":     endowments.World,
		"object":    endowments.Object,
		"container": endowments.Container,
		"owner":     endowments.Owner,
	})
	if err != nil {
		h.emit(Outbound{Kind: OutError, ScriptID: s.scriptID, Error: &ErrorPayload{Error: err.Error()}})
		return
	}
	s.class = cls
	s.inst = inst
	s.hasClass = true
	h.emit(Outbound{Kind: OutReady, ScriptID: s.scriptID})
}

// handleEvent resolves the handler state-first then global: if
// states[currentState][event] exists, run it; then if a same-named
// instance method exists and differs from the state handler, run that
// too.
func (h *Host) handleEvent(s *slot, msg Inbound) {
	if !s.hasClass {
		return
	}
	eventName := string(msg.Event.Kind)
	payload, _ := decodeEventArgs(*msg.Event)

	currentState := "default"
	if cur, ok := s.inst.Props["__currentState"].(compartment.String); ok {
		currentState = cur.Value
	}

	var stateHandler *compartment.Function
	if fn, ok := s.comp.StateHandler(s.inst, currentState, eventName); ok {
		stateHandler = fn
		if _, err := s.comp.CallStateHandler(s.inst, fn, payload); err != nil {
			h.emit(Outbound{Kind: OutError, ScriptID: s.scriptID, Error: &ErrorPayload{Error: err.Error()}})
		}
	}

	if s.comp.HasMethod(s.inst, eventName) {
		if classFn, ok := s.class.Methods[eventName]; !ok || classFn != stateHandler {
			if _, err := s.comp.InvokeMethod(s.inst, eventName, payload); err != nil {
				h.emit(Outbound{Kind: OutError, ScriptID: s.scriptID, Error: &ErrorPayload{Error: err.Error()}})
			}
		}
	}
}

// decodeEventArgs turns a wire.Event's payload into the arg list the
// evaluator hands to a handler: the payload decoded into one plain object
// (see goValueToCompartment), passed as the handler's only argument.
func decodeEventArgs(evt wire.Event) ([]compartment.Value, error) {
	var raw map[string]interface{}
	if len(evt.Payload) > 0 {
		if err := jsonUnmarshal(evt.Payload, &raw); err != nil {
			return nil, err
		}
	}
	return []compartment.Value{goValueToCompartment(raw)}, nil
}

func (h *Host) logNative(s *slot, level string) *compartment.NativeFunc {
	return &compartment.NativeFunc{Name: level, Fn: func(args []compartment.Value) (compartment.Value, error) {
		out := make([]interface{}, len(args))
		for i, a := range args {
			out[i] = a.Inspect()
		}
		h.emit(Outbound{Kind: OutLog, ScriptID: s.scriptID, Log: &LogPayload{Level: level, Args: out}})
		return compartment.Undefined{}, nil
	}}
}

func (h *Host) emit(o Outbound) {
	h.outbox <- o
}

// NewAPICall registers a pending call and returns (callID, wait) where
// wait blocks until the correlated api-response arrives — this is the
// suspension point an awaited world/object/container proxy call realizes.
func (h *Host) NewAPICall(scriptID, method string, args []interface{}) (string, func() APIResponsePayload) {
	id := fmt.Sprintf("%s-%d", scriptID, atomic.AddInt64(&h.callSeq, 1))
	ch := make(chan APIResponsePayload, 1)
	h.pendingMu.Lock()
	h.pending[id] = ch
	h.pendingMu.Unlock()

	h.emit(Outbound{Kind: OutAPICall, ScriptID: scriptID, APICall: &APICallPayload{CallID: id, Method: method, Args: args}})

	return id, func() APIResponsePayload {
		resp := <-ch
		h.pendingMu.Lock()
		delete(h.pending, id)
		h.pendingMu.Unlock()
		return resp
	}
}
