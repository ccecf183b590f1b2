package pjsua

import "fmt"

// Console command encoding. One command per line; the pjsua console
// reads them from stdin in scripted mode.

// DialCommand makes an outgoing call to destination via the configured
// server.
func DialCommand(destination, server string) string {
	return fmt.Sprintf("m sip:%s@%s", destination, server)
}

// HangupCommand ends the current call.
func HangupCommand() string {
	return "h"
}

// DTMFCommand sends digits as DTMF on the current call.
func DTMFCommand(digits string) string {
	return "# " + digits
}

// ValidDTMF reports whether digits is a non-empty string over the DTMF
// alphabet 0-9, *, # and A-D (either case).
func ValidDTMF(digits string) bool {
	if digits == "" {
		return false
	}
	for _, r := range digits {
		switch {
		case r >= '0' && r <= '9':
		case r == '*' || r == '#':
		case r >= 'A' && r <= 'D':
		case r >= 'a' && r <= 'd':
		default:
			return false
		}
	}
	return true
}
