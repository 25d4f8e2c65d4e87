package backend

import (
	"errors"
	"io"
	"net"
	"strings"
)

var (
	ErrConnect   = errors.New("failed to connect to MPD")
	ErrAuth      = errors.New("MPD authentication failed")
	ErrStatus    = errors.New("MPD status query failed")
	ErrMediaKeys = errors.New("cannot grab media keys")
	ErrBusClosed = errors.New("session bus connection closed")
	ErrCommand   = errors.New("MPD command failed")
	ErrUsage     = errors.New("invalid command line")
)

// Process exit codes. 3 is reserved and never returned.
const (
	ExitOK        = 0
	ExitConnect   = 1
	ExitAuth      = 2
	ExitStatus    = 4
	ExitMediaKeys = 5
	ExitCommand   = 6
	ExitUsage     = 64
)

// ExitCode maps an error returned from startup or Run to the process exit code.
// A nil error maps to ExitOK and an unclassified error to ExitCommand.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, ErrConnect):
		return ExitConnect
	case errors.Is(err, ErrAuth):
		return ExitAuth
	case errors.Is(err, ErrStatus):
		return ExitStatus
	case errors.Is(err, ErrMediaKeys), errors.Is(err, ErrBusClosed):
		return ExitMediaKeys
	case errors.Is(err, ErrCommand):
		return ExitCommand
	}
	// anything unclassified happened after startup
	return ExitCommand
}

// isConnectionError checks if an error indicates a lost or unreachable
// network connection rather than an error reply from MPD.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// "broken pipe" and "connection reset" aren't wrapped in net.Error on all platforms
	errStr := err.Error()
	return strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset by peer") ||
		strings.Contains(errStr, "use of closed network connection")
}
