package pjsua

import "strings"

// EventKind classifies a recognized console line.
type EventKind int

const (
	EventRegistrationOK EventKind = iota + 1
	EventRegistrationFailed
	EventCallCalling
	EventCallConfirmed
	EventCallDisconnected
)

func (k EventKind) String() string {
	switch k {
	case EventRegistrationOK:
		return "registration_ok"
	case EventRegistrationFailed:
		return "registration_failed"
	case EventCallCalling:
		return "call_calling"
	case EventCallConfirmed:
		return "call_confirmed"
	case EventCallDisconnected:
		return "call_disconnected"
	default:
		return "unknown"
	}
}

// Event is one recognized line of pjsua console output.
type Event struct {
	Kind EventKind
	Line string
}

// ParseLine classifies a line of console output. Only the lines the
// add-on reacts to are recognized; everything else stays log-only and is
// reported as not-an-event. The patterns match pjsua's registration and
// call-state messages ("registration success, status=200 (OK)",
// "Call 0 state changed to CONFIRMED", the truncated DISCONNCTD spelling
// included).
func ParseLine(line string) (Event, bool) {
	l := strings.ToLower(line)
	switch {
	case strings.Contains(l, "registration success"):
		return Event{Kind: EventRegistrationOK, Line: line}, true
	case strings.Contains(l, "registration failed") ||
		strings.Contains(l, "registration error"):
		return Event{Kind: EventRegistrationFailed, Line: line}, true
	case strings.Contains(l, "state changed to calling"):
		return Event{Kind: EventCallCalling, Line: line}, true
	case strings.Contains(l, "state changed to confirmed"):
		return Event{Kind: EventCallConfirmed, Line: line}, true
	case strings.Contains(l, "state changed to disconnctd") ||
		strings.Contains(l, "state changed to disconnected"):
		return Event{Kind: EventCallDisconnected, Line: line}, true
	default:
		return Event{}, false
	}
}
