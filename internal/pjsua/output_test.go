package pjsua

import "testing"

func TestParseLine(t *testing.T) {
	cases := []struct {
		line string
		kind EventKind
		ok   bool
	}{
		{"14:02:11.824 pjsua_acc.c  ....sip:1001@sip.example.com: registration success, status=200 (OK)", EventRegistrationOK, true},
		{"registration failed, status=401 (Unauthorized)", EventRegistrationFailed, true},
		{"SIP registration error: timeout", EventRegistrationFailed, true},
		{"Call 0 state changed to CALLING", EventCallCalling, true},
		{"Call 0 state changed to CONFIRMED", EventCallConfirmed, true},
		{"Call 0 state changed to DISCONNCTD [reason=200 (Normal call clearing)]", EventCallDisconnected, true},
		{"Call 0 state changed to DISCONNECTED", EventCallDisconnected, true},
		{"Account sip:1001@sip.example.com added", 0, false},
		{"", 0, false},
		{">>>", 0, false},
	}

	for _, tc := range cases {
		ev, ok := ParseLine(tc.line)
		if ok != tc.ok {
			t.Fatalf("ParseLine(%q): got ok=%v, want %v", tc.line, ok, tc.ok)
		}
		if ok && ev.Kind != tc.kind {
			t.Fatalf("ParseLine(%q): got kind %v, want %v", tc.line, ev.Kind, tc.kind)
		}
		if ok && ev.Line != tc.line {
			t.Fatalf("ParseLine(%q): event should carry the raw line", tc.line)
		}
	}
}
