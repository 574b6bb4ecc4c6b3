package cli

import (
	"sync"

	"recruit-console/internal/model"
)

// triggerGate is the enabled state shared by every console trigger. A claim is
// taken on key press and held until the request settles; while it is held no
// other action or upload may start.
type triggerGate struct {
	mu    sync.Mutex
	name  string
	job   int64
	token uint64
}

// gateControl ties one claim to the actions.Control and upload.Processing
// hooks, so the dispatcher and the aggregator re-enable the console
// themselves. Releasing is keyed by token: a late release from a settled
// request never frees a newer claim.
type gateControl struct {
	gate  *triggerGate
	name  string
	job   int64
	token uint64
}

func (g *triggerGate) claim(name string, job int64) (gateControl, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.name != "" {
		return gateControl{}, false
	}
	g.token++
	g.name, g.job = name, job
	return gateControl{gate: g, name: name, job: job, token: g.token}, true
}

func (g *triggerGate) release(token uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if token == 0 || token != g.token {
		return
	}
	g.name, g.job = "", 0
}

func (g *triggerGate) held() (string, int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.name, g.job
}

// current returns the control of the claim now held, if any.
func (g *triggerGate) current() gateControl {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.name == "" {
		return gateControl{}
	}
	return gateControl{gate: g, name: g.name, job: g.job, token: g.token}
}

// Disable re-asserts the claim; it is already held from the key press.
func (c gateControl) Disable() {
	if c.gate == nil {
		return
	}
	c.gate.mu.Lock()
	defer c.gate.mu.Unlock()
	if c.gate.name == "" && c.gate.token == c.token {
		c.gate.name, c.gate.job = c.name, c.job
	}
}

func (c gateControl) Restore() {
	if c.gate != nil {
		c.gate.release(c.token)
	}
}

func (c gateControl) Begin(int) { c.Disable() }

func (c gateControl) End(model.BatchReport) { c.Restore() }
