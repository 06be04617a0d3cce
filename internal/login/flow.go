// internal/login/flow.go

package login

import (
	"errors"
	"sync"
)

// State of the login form.
type State int

const (
	Idle State = iota
	Validating
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	}
	return "unknown"
}

var (
	ErrBusy          = errors.New("login already in progress")
	ErrAuthenticated = errors.New("already authenticated")
)

// Flow tracks Idle -> Validating -> {Authenticated, Failed}. Failed falls back
// to Idle on the next Reset; Authenticated is terminal.
type Flow struct {
	mu      sync.Mutex
	state   State
	outcome Outcome
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Begin moves Idle (or Failed) to Validating. Only one validation may run.
func (f *Flow) Begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case Validating:
		return ErrBusy
	case Authenticated:
		return ErrAuthenticated
	}
	f.state = Validating
	f.outcome = Outcome{}
	return nil
}

// Finish records the outcome of the running validation.
func (f *Flow) Finish(o Outcome) State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Validating {
		return f.state
	}
	f.outcome = o
	if o.OK() {
		f.state = Authenticated
	} else {
		f.state = Failed
	}
	return f.state
}

// Reset returns a failed flow to Idle.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Failed {
		f.state = Idle
	}
}

// Outcome returns the last finished outcome.
func (f *Flow) Outcome() Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome
}
