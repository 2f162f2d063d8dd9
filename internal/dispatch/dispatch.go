// Package dispatch implements the Event Dispatcher (C13): routes
// container-broadcast and script-targeted events to scripts, maintains
// the chat listen registry, and wires the Timer Manager's and Link
// Message Bus's fire/deliver callbacks onto the same worker-boundary
// envelope path every other event uses.
package dispatch

import (
	"sync"

	"github.com/increasinglyHuman/poqpoq/internal/linkbus"
	"github.com/increasinglyHuman/poqpoq/internal/wire"
)

// SendFunc delivers one Event to a worker-hosted script. The dispatcher
// never holds an owning reference to the script instance itself — only
// this function and ids.
type SendFunc func(scriptID string, evt wire.Event) error

// Listen is a chat listen registration: filterless fields match any
// sender.
type Listen struct {
	Handle        string
	ScriptID      string
	Channel       int
	NameFilter    string
	HasNameFilter bool
	IDFilter      string
	HasIDFilter   bool
	MessageFilter string
	HasMsgFilter  bool
}

type scriptInfo struct {
	containerID string
}

// Dispatcher holds references to the send path plus its own registry of
// script->container membership and the listen indices; cleanup is always
// by id, never through a live reference.
type Dispatcher struct {
	mu sync.Mutex

	send SendFunc

	scripts    map[string]scriptInfo   // scriptID -> info
	byContainer map[string]map[string]bool // containerID -> set of scriptID

	byHandle   map[string]*Listen
	byChannel  map[int]map[string]*Listen // channel -> handle -> listen
	byScriptID map[string]map[string]*Listen
}

// New builds a Dispatcher that delivers through send.
func New(send SendFunc) *Dispatcher {
	return &Dispatcher{
		send:        send,
		scripts:     map[string]scriptInfo{},
		byContainer: map[string]map[string]bool{},
		byHandle:    map[string]*Listen{},
		byChannel:   map[int]map[string]*Listen{},
		byScriptID:  map[string]map[string]*Listen{},
	}
}

// RegisterScript records which container a script belongs to, so a
// container-broadcast dispatch knows who to reach.
func (d *Dispatcher) RegisterScript(scriptID, containerID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scripts[scriptID] = scriptInfo{containerID: containerID}
	set, ok := d.byContainer[containerID]
	if !ok {
		set = map[string]bool{}
		d.byContainer[containerID] = set
	}
	set[scriptID] = true
}

// CleanupScript removes all listens owned by scriptID, drops it from its
// container's broadcast set, and forgets its registration entirely.
func (d *Dispatcher) CleanupScript(scriptID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if info, ok := d.scripts[scriptID]; ok {
		if set, ok := d.byContainer[info.containerID]; ok {
			delete(set, scriptID)
			if len(set) == 0 {
				delete(d.byContainer, info.containerID)
			}
		}
	}
	delete(d.scripts, scriptID)

	for handle, l := range d.byScriptID[scriptID] {
		delete(d.byHandle, handle)
		if set, ok := d.byChannel[l.Channel]; ok {
			delete(set, handle)
			if len(set) == 0 {
				delete(d.byChannel, l.Channel)
			}
		}
	}
	delete(d.byScriptID, scriptID)
}

// Listen registers l under the caller-supplied handle, indexed by handle,
// channel and script.
func (d *Dispatcher) Listen(handle string, l Listen) {
	l.Handle = handle
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byHandle[handle] = &l

	chanSet, ok := d.byChannel[l.Channel]
	if !ok {
		chanSet = map[string]*Listen{}
		d.byChannel[l.Channel] = chanSet
	}
	chanSet[handle] = &l

	scriptSet, ok := d.byScriptID[l.ScriptID]
	if !ok {
		scriptSet = map[string]*Listen{}
		d.byScriptID[l.ScriptID] = scriptSet
	}
	scriptSet[handle] = &l
}

// RemoveListen drops a single listen registration by handle.
func (d *Dispatcher) RemoveListen(handle string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.byHandle[handle]
	if !ok {
		return
	}
	delete(d.byHandle, handle)
	if set, ok := d.byChannel[l.Channel]; ok {
		delete(set, handle)
	}
	if set, ok := d.byScriptID[l.ScriptID]; ok {
		delete(set, handle)
	}
}

// DispatchContainerBroadcast sends evtKind/payload to every script
// registered in containerID — used for touch/collision/rez/changed/money.
func (d *Dispatcher) DispatchContainerBroadcast(containerID string, kind wire.EventKind, payload interface{}) error {
	d.mu.Lock()
	set := d.byContainer[containerID]
	targets := make([]string, 0, len(set))
	for sid := range set {
		targets = append(targets, sid)
	}
	d.mu.Unlock()

	for _, sid := range targets {
		evt, err := wire.NewEvent(containerID, "", kind, payload)
		if err != nil {
			return err
		}
		evt.TargetScriptID = sid
		if err := d.send(sid, evt); err != nil {
			return err
		}
	}
	return nil
}

// DispatchToScript sends evtKind/payload to exactly one script — used for
// timer, link message, sensor/noSensor, permissions, HTTP/dataserver.
func (d *Dispatcher) DispatchToScript(scriptID string, kind wire.EventKind, payload interface{}) error {
	d.mu.Lock()
	info := d.scripts[scriptID]
	d.mu.Unlock()

	evt, err := wire.NewEvent(info.containerID, scriptID, kind, payload)
	if err != nil {
		return err
	}
	return d.send(scriptID, evt)
}

// DispatchChat looks up listeners for channel, applies non-empty filters
// (an unset filter matches any value; a set filter matches only by
// equality), and targets each passing listener's script.
func (d *Dispatcher) DispatchChat(channel int, senderName, senderID, message string) error {
	d.mu.Lock()
	var matched []*Listen
	for _, l := range d.byChannel[channel] {
		if l.HasNameFilter && l.NameFilter != senderName {
			continue
		}
		if l.HasIDFilter && l.IDFilter != senderID {
			continue
		}
		if l.HasMsgFilter && l.MessageFilter != message {
			continue
		}
		matched = append(matched, l)
	}
	d.mu.Unlock()

	payload := wire.ListenPayload{Channel: channel, SenderName: senderName, SenderID: senderID, Message: message}
	for _, l := range matched {
		if err := d.DispatchToScript(l.ScriptID, wire.EvtListen, payload); err != nil {
			return err
		}
	}
	return nil
}

// OnTimerFire is passed to timer.New as the fire callback: it turns a
// timer fire into a script-targeted EvtTimer event.
func (d *Dispatcher) OnTimerFire(scriptID, timerID string) {
	_ = d.DispatchToScript(scriptID, wire.EvtTimer, wire.TimerPayload{TimerID: timerID})
}

// OnLinkMessage is passed to linkbus.New as the deliver callback: it
// turns a link-bus delivery into a script-targeted EvtLinkMessage event.
func (d *Dispatcher) OnLinkMessage(targetScriptID string, msg linkbus.Message) {
	_ = d.DispatchToScript(targetScriptID, wire.EvtLinkMessage, wire.LinkMessagePayload{
		SenderLink: msg.SenderLink,
		Num:        msg.Num,
		Str:        msg.Str,
		ID:         msg.ID,
	})
}
