// Package bridge implements the Bridge (C10): the main-thread facade
// fronting the Worker Host's transport, batching outbound api-call
// envelopes and fanning them out to a registered handler before writing
// responses back across the worker boundary.
package bridge

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/increasinglyHuman/poqpoq/internal/worker"
)

// APIHandler services one api-call; it may block or do its own I/O — the
// Bridge runs every call in a batch concurrently rather than serializing
// them.
type APIHandler func(scriptID, method string, args []interface{}) (interface{}, error)

type LogHandler func(scriptID, level string, args []interface{})
type ErrorHandler func(scriptID, errMsg, stack string)
type ReadyHandler func(scriptID string)

// Bridge drains a Host's Outbox and routes each envelope to the
// appropriate registered callback.
type Bridge struct {
	host *worker.Host

	apiHandler   APIHandler
	logHandler   LogHandler
	errorHandler ErrorHandler
	readyHandler ReadyHandler

	mu       sync.Mutex
	batch    []worker.Outbound
	flushing bool

	stop chan struct{}
	done chan struct{}
}

// New builds a Bridge fronting host. Register callbacks with OnAPICall/
// OnLog/OnError/OnReady before calling Run.
func New(host *worker.Host) *Bridge {
	return &Bridge{host: host, stop: make(chan struct{}), done: make(chan struct{})}
}

func (b *Bridge) OnAPICall(h APIHandler) { b.apiHandler = h }
func (b *Bridge) OnLog(h LogHandler)     { b.logHandler = h }
func (b *Bridge) OnError(h ErrorHandler) { b.errorHandler = h }
func (b *Bridge) OnReady(h ReadyHandler) { b.readyHandler = h }

// Run starts draining the host's outbox. It returns immediately; call
// Stop to halt the background goroutine.
func (b *Bridge) Run() {
	go func() {
		defer close(b.done)
		for {
			select {
			case <-b.stop:
				return
			case o, ok := <-b.host.Outbox():
				if !ok {
					return
				}
				b.handle(o)
			}
		}
	}()
}

// Stop halts the drain loop and waits for it to exit.
func (b *Bridge) Stop() {
	close(b.stop)
	<-b.done
}

func (b *Bridge) handle(o worker.Outbound) {
	switch o.Kind {
	case worker.OutAPICall:
		b.enqueue(o)
	case worker.OutLog:
		if b.logHandler != nil && o.Log != nil {
			b.logHandler(o.ScriptID, o.Log.Level, o.Log.Args)
		}
	case worker.OutError:
		if b.errorHandler != nil && o.Error != nil {
			b.errorHandler(o.ScriptID, o.Error.Error, o.Error.Stack)
		}
	case worker.OutReady:
		if b.readyHandler != nil {
			b.readyHandler(o.ScriptID)
		}
	case worker.OutPong:
		// liveness only, no handler registered for it
	}
}

// enqueue appends to the pending batch and, if no flush is already
// scheduled, starts one. Batching is bounded by however much accumulates
// during one flush's processing, not by a fixed count — the closest Go
// analogue to "flush on the next microtask turn" without an actual
// microtask queue.
func (b *Bridge) enqueue(o worker.Outbound) {
	b.mu.Lock()
	b.batch = append(b.batch, o)
	alreadyFlushing := b.flushing
	b.flushing = true
	b.mu.Unlock()

	if !alreadyFlushing {
		go b.flush()
	}
}

func (b *Bridge) flush() {
	for {
		b.mu.Lock()
		batch := b.batch
		b.batch = nil
		if len(batch) == 0 {
			b.flushing = false
			b.mu.Unlock()
			return
		}
		b.mu.Unlock()

		var g errgroup.Group
		for _, o := range batch {
			o := o
			g.Go(func() error { return b.processAPICall(o) })
		}
		_ = g.Wait()
	}
}

func (b *Bridge) processAPICall(o worker.Outbound) error {
	call := o.APICall
	var resp worker.APIResponsePayload
	resp.CallID = call.CallID
	if b.apiHandler == nil {
		resp.Err = "no API handler registered"
	} else if result, err := b.apiHandler(o.ScriptID, call.Method, call.Args); err != nil {
		resp.Err = err.Error()
	} else {
		resp.Result = result
	}
	return b.host.Send(worker.Inbound{Kind: worker.InAPIResponse, APIResponse: &resp})
}
