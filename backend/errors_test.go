package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{fmt.Errorf("%w at localhost:6600: %w", ErrConnect, errConnRefused), ExitConnect},
		{fmt.Errorf("%w: %w", ErrAuth, errRejected), ExitAuth},
		{fmt.Errorf("%w: boom", ErrStatus), ExitStatus},
		{fmt.Errorf("%w: no such name", ErrMediaKeys), ExitMediaKeys},
		{ErrBusClosed, ExitMediaKeys},
		{fmt.Errorf("%w: next: boom", ErrCommand), ExitCommand},
		{fmt.Errorf("%w: unknown flag", ErrUsage), ExitUsage},
		{errors.New("something else"), ExitCommand},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestExitCodeNeverReturnsReserved(t *testing.T) {
	for _, err := range []error{ErrConnect, ErrAuth, ErrStatus, ErrMediaKeys, ErrBusClosed, ErrCommand, ErrUsage, context.Canceled} {
		if ExitCode(err) == 3 {
			t.Errorf("ExitCode(%v) returned reserved code 3", err)
		}
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{io.EOF, true},
		{fmt.Errorf("read: %w", io.ErrUnexpectedEOF), true},
		{errConnRefused, true},
		{errors.New("write tcp 127.0.0.1:6600: broken pipe"), true},
		{errors.New("read: connection reset by peer"), true},
		{errRejected, false},
	}
	for _, tt := range tests {
		if got := isConnectionError(tt.err); got != tt.want {
			t.Errorf("isConnectionError(%v) = %t, want %t", tt.err, got, tt.want)
		}
	}
}
