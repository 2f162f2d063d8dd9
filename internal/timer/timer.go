// Package timer implements the Timer Manager (C11): per-script named
// timers, ticked by an explicit wall-clock value so it can be driven from
// a real scheduler or from a test.
package timer

import (
	"sync"
	"time"
)

// DefaultTimerID is the implicit timer name LSL's llSetTimerEvent targets.
const DefaultTimerID = "default"

// FireFunc is invoked once per timer fire, carrying the owning script and
// the timer that fired.
type FireFunc func(scriptID, timerID string)

type entry struct {
	scriptID   string
	timerID    string
	intervalMs int64
	repeating  bool
	nextFireMs int64
}

// Manager owns no threads of its own; callers drive it with Tick or
// Start/Stop against a real clock.
type Manager struct {
	mu      sync.Mutex
	entries map[string]map[string]*entry // scriptID -> timerID -> entry
	onFire  FireFunc

	stop chan struct{}
	wg   sync.WaitGroup
}

// New builds a Manager that invokes onFire for every timer that comes
// due. onFire must not block for long; it is called synchronously from
// within Tick.
func New(onFire FireFunc) *Manager {
	return &Manager{
		entries: map[string]map[string]*entry{},
		onFire:  onFire,
	}
}

func nowMs(now time.Time) int64 { return now.UnixMilli() }

// SetTimer arms a repeating timer, replacing any existing entry with the
// same (scriptID, timerID).
func (m *Manager) SetTimer(scriptID string, intervalSec float64, timerID string, now time.Time) {
	if timerID == "" {
		timerID = DefaultTimerID
	}
	m.arm(scriptID, timerID, intervalSec, true, now)
}

// SetOneShot arms a timer that fires once and auto-removes.
func (m *Manager) SetOneShot(scriptID string, delaySec float64, timerID string, now time.Time) {
	if timerID == "" {
		timerID = DefaultTimerID
	}
	m.arm(scriptID, timerID, delaySec, false, now)
}

func (m *Manager) arm(scriptID, timerID string, intervalSec float64, repeating bool, now time.Time) {
	intervalMs := int64(intervalSec * 1000)
	m.mu.Lock()
	defer m.mu.Unlock()
	scoped, ok := m.entries[scriptID]
	if !ok {
		scoped = map[string]*entry{}
		m.entries[scriptID] = scoped
	}
	scoped[timerID] = &entry{
		scriptID:   scriptID,
		timerID:    timerID,
		intervalMs: intervalMs,
		repeating:  repeating,
		nextFireMs: nowMs(now) + intervalMs,
	}
}

// ClearTimer removes a single named timer for a script.
func (m *Manager) ClearTimer(scriptID, timerID string) {
	if timerID == "" {
		timerID = DefaultTimerID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if scoped, ok := m.entries[scriptID]; ok {
		delete(scoped, timerID)
		if len(scoped) == 0 {
			delete(m.entries, scriptID)
		}
	}
}

// ClearAllTimers removes every timer owned by scriptID, leaving every
// other script's timers untouched.
func (m *Manager) ClearAllTimers(scriptID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, scriptID)
}

// HasTimer reports whether scriptID has an armed timer named timerID.
func (m *Manager) HasTimer(scriptID, timerID string) bool {
	if timerID == "" {
		timerID = DefaultTimerID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	scoped, ok := m.entries[scriptID]
	if !ok {
		return false
	}
	_, ok = scoped[timerID]
	return ok
}

// GetTimerIds lists every armed timer name for scriptID.
func (m *Manager) GetTimerIds(scriptID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	scoped, ok := m.entries[scriptID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(scoped))
	for id := range scoped {
		ids = append(ids, id)
	}
	return ids
}

// CleanupScript purges scriptID entirely; the Script Manager calls this
// on terminate alongside the dispatcher and link-bus equivalents.
func (m *Manager) CleanupScript(scriptID string) { m.ClearAllTimers(scriptID) }

// Tick advances the clock to now: every entry with nextFireMs <= now
// fires exactly once this pulse ("single fire per pulse, advance by one
// interval"), then repeating entries re-arm from nextFireMs += interval
// and one-shot entries are marked for removal. Removal happens after the
// full sweep so firing does not mutate the map being iterated.
func (m *Manager) Tick(now time.Time) {
	cur := nowMs(now)

	m.mu.Lock()
	type due struct {
		scriptID, timerID string
	}
	var fired []due
	var toRemove []due
	for scriptID, scoped := range m.entries {
		for timerID, e := range scoped {
			if e.nextFireMs > cur {
				continue
			}
			fired = append(fired, due{scriptID, timerID})
			if e.repeating {
				e.nextFireMs += e.intervalMs
			} else {
				toRemove = append(toRemove, due{scriptID, timerID})
			}
		}
	}
	for _, d := range toRemove {
		if scoped, ok := m.entries[d.scriptID]; ok {
			delete(scoped, d.timerID)
			if len(scoped) == 0 {
				delete(m.entries, d.scriptID)
			}
		}
	}
	onFire := m.onFire
	m.mu.Unlock()

	if onFire == nil {
		return
	}
	for _, d := range fired {
		onFire(d.scriptID, d.timerID)
	}
}

// Start attaches the manager to a best-effort ~16ms fallback clock. A
// real host with a frame-rate clock should call Tick directly instead and
// never call Start.
func (m *Manager) Start() {
	m.stop = make(chan struct{})
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(16 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case t := <-ticker.C:
				m.Tick(t)
			}
		}
	}()
}

// Stop halts the fallback clock started by Start. Safe to call only if
// Start was previously called.
func (m *Manager) Stop() {
	if m.stop == nil {
		return
	}
	close(m.stop)
	m.wg.Wait()
	m.stop = nil
}
