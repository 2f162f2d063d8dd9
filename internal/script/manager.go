// Package script implements the Script Manager & Command Router (C14):
// script lifecycle from source to a running worker slot, registration
// with the supporting subsystems, and routing of outbound API calls
// either to an in-process built-in or to a registered CommandHandler as
// a typed ScriptCommand.
package script

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/increasinglyHuman/poqpoq/internal/bridge"
	"github.com/increasinglyHuman/poqpoq/internal/dispatch"
	"github.com/increasinglyHuman/poqpoq/internal/linkbus"
	"github.com/increasinglyHuman/poqpoq/internal/sandbox"
	"github.com/increasinglyHuman/poqpoq/internal/timer"
	"github.com/increasinglyHuman/poqpoq/internal/wire"
	"github.com/increasinglyHuman/poqpoq/internal/worker"
)

// CommandHandler receives every outbound API call the in-process built-in
// set doesn't cover, already converted to a typed ScriptCommand.
type CommandHandler func(cmd wire.Command) (interface{}, error)

// LoadError reports a sandbox-transform failure; the load is refused
// entirely rather than running a partially-hardened script. An init
// (evaluation) failure is not a LoadError: it arrives later as an error
// envelope through the bridge's error callback, which logs it.
type LoadError struct {
	ScriptID string
	Reason   string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("script %s failed to load: %s", e.ScriptID, e.Reason)
}

type registration struct {
	containerID string
	linkNumber  int
}

// Manager owns the full script lifecycle and wires the Worker Host,
// Bridge, Timer Manager, Link Message Bus, and Event Dispatcher together.
type Manager struct {
	logger *zap.Logger

	sandboxOpts sandbox.Options

	host       *worker.Host
	bridge     *bridge.Bridge
	dispatcher *dispatch.Dispatcher
	timers     *timer.Manager
	bus        *linkbus.Bus

	commandHandler CommandHandler

	mu   sync.Mutex
	regs map[string]registration
}

// Options configures a Manager; zero value uses production defaults.
type Options struct {
	SandboxOptions sandbox.Options
	Logger         *zap.Logger
}

// New wires a full Manager: the Worker Host's outbox feeds the Bridge,
// whose api-call handler is the Manager's own routing logic; the Timer
// Manager's fire callback and the Link Message Bus's deliver callback
// both feed the Event Dispatcher, which sends through the Worker Host.
func New(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	host := worker.New()

	m := &Manager{
		logger:      logger,
		sandboxOpts: opts.SandboxOptions,
		host:        host,
		regs:        map[string]registration{},
	}

	m.dispatcher = dispatch.New(func(scriptID string, evt wire.Event) error {
		return host.Send(worker.Inbound{Kind: worker.InEvent, ScriptID: scriptID, Event: &evt})
	})
	m.timers = timer.New(m.dispatcher.OnTimerFire)
	m.bus = linkbus.New(m.dispatcher.OnLinkMessage)

	m.bridge = bridge.New(host)
	m.bridge.OnAPICall(m.routeAPICall)
	m.bridge.OnReady(m.handleReady)
	m.bridge.OnError(func(scriptID, errMsg, stack string) {
		m.logger.Warn("script runtime error", zap.String("scriptId", scriptID), zap.String("error", errMsg))
	})
	m.bridge.OnLog(func(scriptID, level string, args []interface{}) {
		m.logger.Info("script log", zap.String("scriptId", scriptID), zap.String("level", level), zap.Any("args", args))
	})
	m.bridge.Run()

	return m
}

// OnCommand registers the handler for ScriptCommand-routed API calls.
func (m *Manager) OnCommand(h CommandHandler) { m.commandHandler = h }

// Dispatcher exposes the Event Dispatcher so a host can drive container-
// broadcast events (touch/collision/rez/changed/money) directly.
func (m *Manager) Dispatcher() *dispatch.Dispatcher { return m.dispatcher }

// Timers exposes the Timer Manager so a host can call Tick/Start/Stop.
func (m *Manager) Timers() *timer.Manager { return m.timers }

// Load applies the sandbox transform and hands the result to a fresh
// worker slot. Registration with the dispatcher/link-bus happens only
// after the worker reports ready (handleReady), not here.
func (m *Manager) Load(scriptID, containerID string, linkNumber int, source string, endowments worker.Endowments) error {
	result := sandbox.Transform(source, m.sandboxOpts)
	if !result.Success {
		return &LoadError{ScriptID: scriptID, Reason: result.Diagnostics.String()}
	}

	m.mu.Lock()
	m.regs[scriptID] = registration{containerID: containerID, linkNumber: linkNumber}
	m.mu.Unlock()

	m.host.Spawn(scriptID, endowments)
	return m.host.Send(worker.Inbound{
		Kind:     worker.InInit,
		ScriptID: scriptID,
		Init:     &worker.InitPayload{Code: result.Code, Name: scriptID},
	})
}

func (m *Manager) handleReady(scriptID string) {
	m.mu.Lock()
	reg, ok := m.regs[scriptID]
	m.mu.Unlock()
	if !ok {
		return
	}
	m.dispatcher.RegisterScript(scriptID, reg.containerID)
	m.bus.Register(scriptID, reg.containerID, reg.linkNumber)
}

// Terminate tears a script down: dispatcher cleanup, timer removal, bus
// unregister, and worker terminate, in that order.
func (m *Manager) Terminate(scriptID string) error {
	m.dispatcher.CleanupScript(scriptID)
	m.timers.CleanupScript(scriptID)
	m.bus.CleanupScript(scriptID)
	m.mu.Lock()
	delete(m.regs, scriptID)
	m.mu.Unlock()
	return m.host.Send(worker.Inbound{Kind: worker.InTerminate, ScriptID: scriptID})
}

// routeAPICall is the Bridge's APIHandler: the fixed built-in set
// (world.setTimer/clearTimer/setTimeout/listen/log/resetScript,
// container.sendLinkMessage) is handled in-process; everything else is
// converted to a typed ScriptCommand via the method->variant table and
// handed to the registered CommandHandler. Built-ins never raise to the
// handler; they reply with an error message on the response envelope
// instead.
func (m *Manager) routeAPICall(scriptID, method string, args []interface{}) (interface{}, error) {
	switch method {
	case "world.setTimer":
		return m.builtinSetTimer(scriptID, args)
	case "world.clearTimer":
		return m.builtinClearTimer(scriptID, args)
	case "world.setTimeout":
		return m.builtinSetTimeout(scriptID, args)
	case "world.listen":
		return m.builtinListen(scriptID, args)
	case "world.log":
		m.logger.Info("world.log", zap.String("scriptId", scriptID), zap.Any("args", args))
		return nil, nil
	case "world.resetScript":
		return nil, m.Terminate(scriptID)
	case "container.sendLinkMessage":
		return m.builtinSendLinkMessage(scriptID, args)
	default:
		return m.routeToCommandHandler(scriptID, method, args)
	}
}

func argString(args []interface{}, i int) string {
	if i >= len(args) {
		return ""
	}
	s, _ := args[i].(string)
	return s
}

func argFloat(args []interface{}, i int) float64 {
	if i >= len(args) {
		return 0
	}
	switch v := args[i].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func (m *Manager) builtinSetTimer(scriptID string, args []interface{}) (interface{}, error) {
	m.timers.SetTimer(scriptID, argFloat(args, 0), argString(args, 1), time.Now())
	return nil, nil
}

func (m *Manager) builtinSetTimeout(scriptID string, args []interface{}) (interface{}, error) {
	m.timers.SetOneShot(scriptID, argFloat(args, 0), argString(args, 1), time.Now())
	return nil, nil
}

func (m *Manager) builtinClearTimer(scriptID string, args []interface{}) (interface{}, error) {
	m.timers.ClearTimer(scriptID, argString(args, 0))
	return nil, nil
}

func (m *Manager) builtinListen(scriptID string, args []interface{}) (interface{}, error) {
	handle := uuid.NewString()
	channel := int(argFloat(args, 0))
	l := dispatch.Listen{ScriptID: scriptID, Channel: channel}
	if name := argString(args, 1); name != "" {
		l.NameFilter, l.HasNameFilter = name, true
	}
	if id := argString(args, 2); id != "" {
		l.IDFilter, l.HasIDFilter = id, true
	}
	if msg := argString(args, 3); msg != "" {
		l.MessageFilter, l.HasMsgFilter = msg, true
	}
	m.dispatcher.Listen(handle, l)
	return handle, nil
}

func (m *Manager) builtinSendLinkMessage(scriptID string, args []interface{}) (interface{}, error) {
	linkTarget := int(argFloat(args, 0))
	num := int(argFloat(args, 1))
	str := argString(args, 2)
	id := argString(args, 3)
	m.bus.Send(scriptID, linkTarget, num, str, id)
	return nil, nil
}

func (m *Manager) routeToCommandHandler(scriptID, method string, args []interface{}) (interface{}, error) {
	kind, payload, err := commandFor(method, args)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	reg := m.regs[scriptID]
	m.mu.Unlock()

	cmd, err := wire.NewCommand(scriptID, reg.containerID, uuid.NewString(), kind, payload)
	if err != nil {
		return nil, err
	}
	if m.commandHandler == nil {
		return nil, fmt.Errorf("script: no command handler registered for %s", method)
	}
	return m.commandHandler(cmd)
}
