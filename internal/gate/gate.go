// Package gate guards an irreversible action behind a shared secret.
//
// The secret is a fixed value compared in plaintext, client side. It is a
// UI speed bump against accidental deletes, not an authentication mechanism:
// there is no hashing, no rate limiting and no lockout.
package gate

import (
	"errors"
	"sync"
)

// ErrNotOpen is returned by Confirm when no action is pending.
var ErrNotOpen = errors.New("gate is not open")

// State is a point-in-time view of the gate.
type State struct {
	Open   bool   `json:"open"`
	Target string `json:"target,omitempty"`
	Error  bool   `json:"error"`
}

// Gate is a closed/open state machine holding one pending target.
type Gate struct {
	mu     sync.Mutex
	secret string
	state  State
}

// New creates a closed gate accepting secret.
func New(secret string) *Gate {
	return &Gate{secret: secret}
}

// Open records target as pending and clears any previous error.
// Opening an already open gate retargets it.
func (g *Gate) Open(target string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = State{Open: true, Target: target}
}

// Confirm checks secret. On a match it closes the gate and returns the pending
// target with ok true. On a mismatch the gate stays open with the error flag set.
func (g *Gate) Confirm(secret string) (target string, ok bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.state.Open {
		return "", false, ErrNotOpen
	}
	if secret != g.secret {
		g.state.Error = true
		return "", false, nil
	}
	target = g.state.Target
	g.state = State{}
	return target, true, nil
}

// Cancel closes the gate, discarding the pending target.
func (g *Gate) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = State{}
}

// Snapshot returns the current state.
func (g *Gate) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
