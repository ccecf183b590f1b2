// Package status merges supervisor liveness, observed registration state
// and configuration echo into a point-in-time snapshot for /status.
package status

import (
	"sync"
	"time"

	"sip-bridge/internal/bridge"
	"sip-bridge/internal/pjsua"
	"sip-bridge/internal/supervisor"
)

// Registration is the observed SIP registration state. It starts unknown
// and only moves on an explicit registration event from pjsua; a running
// process never implies a successful registration.
type Registration string

const (
	RegistrationUnknown    Registration = "unknown"
	RegistrationRegistered Registration = "registered"
	RegistrationFailed     Registration = "not_registered"
)

// Snapshot is the /status payload. Recomputed per request, never stored.
type Snapshot struct {
	Registered    Registration     `json:"registered"`
	Server        string           `json:"server"`
	Extension     string           `json:"extension"`
	PjsuaBinary   string           `json:"pjsua_binary"`
	ProcessAlive  bool             `json:"process_alive"`
	PID           int              `json:"pid,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds,omitempty"`
	Restarts      int              `json:"restarts"`
	CallState     bridge.CallState `json:"call_state"`
	LastError     string           `json:"last_error,omitempty"`
}

// ProcessSource exposes supervisor state to the aggregator.
type ProcessSource interface {
	Snapshot() supervisor.ProcessStatus
}

// SessionSource exposes the bridge's call-session view.
type SessionSource interface {
	Session() bridge.SessionInfo
}

// Aggregator composes status snapshots. It owns only the registration
// tri-state; everything else is read from its sources on demand.
type Aggregator struct {
	server    string
	extension string
	binPath   string
	proc      ProcessSource
	sess      SessionSource
	clock     func() time.Time

	mu         sync.Mutex
	reg        Registration
	startupErr string
}

// NewAggregator builds an aggregator echoing the given configuration.
func NewAggregator(server, extension, binPath string, proc ProcessSource, sess SessionSource) *Aggregator {
	return &Aggregator{
		server:    server,
		extension: extension,
		binPath:   binPath,
		proc:      proc,
		sess:      sess,
		clock:     time.Now,
		reg:       RegistrationUnknown,
	}
}

// Observe updates the registration state from a recognized console event.
func (a *Aggregator) Observe(ev pjsua.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch ev.Kind {
	case pjsua.EventRegistrationOK:
		a.reg = RegistrationRegistered
	case pjsua.EventRegistrationFailed:
		a.reg = RegistrationFailed
	}
}

// ResetRegistration drops back to unknown. Called when the process
// exits; a restarted pjsua has to re-register before we claim anything.
func (a *Aggregator) ResetRegistration() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reg = RegistrationUnknown
}

// SetStartupError records why the supervisor could not be started at all
// (binary not found, launch failure). Shown in status when the
// supervisor has no own exit reason.
func (a *Aggregator) SetStartupError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.startupErr = err.Error()
	}
}

// Registration returns the current tri-state.
func (a *Aggregator) Registration() Registration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reg
}

// Snapshot composes the current status.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	reg := a.reg
	startupErr := a.startupErr
	a.mu.Unlock()

	snap := Snapshot{
		Registered:  reg,
		Server:      a.server,
		Extension:   a.extension,
		PjsuaBinary: a.binPath,
		CallState:   bridge.CallIdle,
		LastError:   startupErr,
	}

	if a.proc != nil {
		ps := a.proc.Snapshot()
		snap.ProcessAlive = ps.Running
		snap.PID = ps.PID
		snap.Restarts = ps.Restarts
		if ps.Running && !ps.StartedAt.IsZero() {
			snap.UptimeSeconds = int64(a.clock().Sub(ps.StartedAt).Seconds())
		}
		if ps.LastError != "" {
			snap.LastError = ps.LastError
		}
	}
	if a.sess != nil {
		snap.CallState = a.sess.Session().State
	}
	return snap
}
