// Package bridge translates control requests into pjsua console commands
// and tracks a coarse call-session view from observed output.
package bridge

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"sip-bridge/internal/pjsua"

	"github.com/google/uuid"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrProcessUnavailable = errors.New("process unavailable")
)

// ProcessWriter is the control channel owned by the supervisor.
type ProcessWriter interface {
	Alive() bool
	Write(p []byte) (int, error)
}

// CallState is a best-effort view of the current call. The authoritative
// state lives inside pjsua; this only reflects issued commands and
// observed console events.
type CallState string

const (
	CallIdle      CallState = "idle"
	CallDialing   CallState = "dialing"
	CallConnected CallState = "connected"
	CallEnded     CallState = "ended"
)

// SessionInfo describes the current (or last) call session.
type SessionInfo struct {
	ID          string    `json:"id,omitempty"`
	State       CallState `json:"state"`
	Destination string    `json:"destination,omitempty"`
	StartedAt   time.Time `json:"started_at,omitempty"`
}

// Bridge serializes command submission to the supervised process.
// Success means the command was accepted and forwarded, not that the
// SIP-level outcome happened.
type Bridge struct {
	proc   ProcessWriter
	server string
	// clock is injectable for deterministic tests.
	clock func() time.Time

	// writeMu serializes control-channel writes: one outstanding
	// command at a time, queued in lock order.
	writeMu sync.Mutex

	mu      sync.Mutex
	session SessionInfo
}

// New builds a bridge over the given control channel. server is the SIP
// server used to form dial URIs.
func New(proc ProcessWriter, server string) *Bridge {
	return &Bridge{
		proc:    proc,
		server:  server,
		clock:   time.Now,
		session: SessionInfo{State: CallIdle},
	}
}

// Call asks pjsua to dial destination via the configured server.
func (b *Bridge) Call(destination string) error {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidArgument)
	}
	if err := b.send(pjsua.DialCommand(destination, b.server)); err != nil {
		return err
	}

	b.mu.Lock()
	b.session = SessionInfo{
		ID:          uuid.NewString(),
		State:       CallDialing,
		Destination: destination,
		StartedAt:   b.clock(),
	}
	b.mu.Unlock()
	return nil
}

// Hangup ends the current call.
func (b *Bridge) Hangup() error {
	if err := b.send(pjsua.HangupCommand()); err != nil {
		return err
	}

	b.mu.Lock()
	if b.session.State == CallDialing || b.session.State == CallConnected {
		b.session.State = CallEnded
	}
	b.mu.Unlock()
	return nil
}

// Dtmf sends digits as DTMF tones on the current call.
func (b *Bridge) Dtmf(digits string) error {
	if !pjsua.ValidDTMF(digits) {
		return fmt.Errorf("%w: digits must be a non-empty string of 0-9, *, # or A-D", ErrInvalidArgument)
	}
	return b.send(pjsua.DTMFCommand(digits))
}

// send forwards one command line to the process. Preconditions were
// already checked; nothing here inspects command content.
func (b *Bridge) send(cmd string) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	if !b.proc.Alive() {
		return fmt.Errorf("%w: pjsua is not running", ErrProcessUnavailable)
	}
	if _, err := b.proc.Write([]byte(cmd + "\n")); err != nil {
		return fmt.Errorf("%w: control channel write failed: %v", ErrProcessUnavailable, err)
	}
	return nil
}

// Observe updates the session view from a recognized console event.
func (b *Bridge) Observe(ev pjsua.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch ev.Kind {
	case pjsua.EventCallCalling:
		if b.session.State == CallIdle || b.session.State == CallEnded {
			// Call not initiated through the bridge (e.g. auto-answered
			// inbound); track it without a destination.
			b.session = SessionInfo{ID: uuid.NewString(), State: CallDialing, StartedAt: b.clock()}
		}
	case pjsua.EventCallConfirmed:
		b.session.State = CallConnected
		if b.session.StartedAt.IsZero() {
			b.session.StartedAt = b.clock()
		}
	case pjsua.EventCallDisconnected:
		if b.session.State != CallIdle {
			b.session.State = CallEnded
		}
	}
}

// ProcessExited resets the session view; any in-flight call died with
// the process.
func (b *Bridge) ProcessExited() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session.State == CallDialing || b.session.State == CallConnected {
		b.session.State = CallEnded
	}
}

// Session returns the current session view.
func (b *Bridge) Session() SessionInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session
}
