package rod

import (
	"context"
	"errors"
	"strings"

	"github.com/fwojciec/websift"
)

// maxDiagnosticsLen caps the length of a browser error message.
const maxDiagnosticsLen = 200

// classify maps a browser failure to its reported reason.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return websift.Errorf(websift.ETIMEOUT, "Timeout (Browser)")
	}
	return websift.Errorf(websift.EUNEXPECTED, "Unexpected error: %s", TrimDiagnostics(err.Error()))
}

// TrimDiagnostics shortens a browser error message. Anything from the first
// "Call log:" marker onward is dropped, the rest is trimmed, and messages
// longer than 200 characters are cut and suffixed with "...".
func TrimDiagnostics(msg string) string {
	if i := strings.Index(msg, "Call log:"); i >= 0 {
		msg = msg[:i]
	}
	msg = strings.TrimSpace(msg)
	if r := []rune(msg); len(r) > maxDiagnosticsLen {
		msg = string(r[:maxDiagnosticsLen]) + "..."
	}
	return msg
}
