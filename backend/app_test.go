package backend

import (
	"errors"
	"io"
	"slices"
	"testing"
)

func TestNewAppConnectFailure(t *testing.T) {
	cfg := DefaultConfig()
	a, err := NewApp(cfg, failingDialer(errConnRefused), testLogger())
	if a != nil {
		t.Fatal("NewApp returned an App on connect failure")
	}
	if got := ExitCode(err); got != ExitConnect {
		t.Errorf("ExitCode(%v) = %d, want %d", err, got, ExitConnect)
	}
}

func TestNewAppDialsConfiguredAddress(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"localhost", 6600, "tcp localhost:6600"},
		{"music.lan", 6601, "tcp music.lan:6601"},
		{"::1", 6600, "tcp [::1]:6600"},
		{"/run/mpd/socket", 6600, "unix /run/mpd/socket"},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.MPD.Host, cfg.MPD.Port = tt.host, tt.port
		var got string
		if _, err := NewApp(cfg, dialer(&fakeConn{}, &got), testLogger()); err != nil {
			t.Fatalf("NewApp: %v", err)
		}
		if got != tt.want {
			t.Errorf("dialed %q, want %q", got, tt.want)
		}
	}
}

func TestNewAppAuthRejected(t *testing.T) {
	conn := &fakeConn{passwordErr: errRejected}
	cfg := DefaultConfig()
	cfg.MPD.Password, cfg.MPD.HasPassword = "hunter2", true

	_, err := NewApp(cfg, dialer(conn, nil), testLogger())
	if got := ExitCode(err); got != ExitAuth {
		t.Errorf("ExitCode(%v) = %d, want %d", err, got, ExitAuth)
	}
	if conn.closeCalls != 1 {
		t.Errorf("connection closed %d times, want 1", conn.closeCalls)
	}
	if !slices.Equal(conn.passwords, []string{"hunter2"}) {
		t.Errorf("passwords sent = %v", conn.passwords)
	}
	if conn.statusCalls != 0 || len(conn.commands) != 0 {
		t.Errorf("commands issued after auth failure: %v", conn.commands)
	}
}

func TestNewAppAuthTransportFailure(t *testing.T) {
	conn := &fakeConn{passwordErr: io.EOF}
	cfg := DefaultConfig()
	cfg.MPD.Password, cfg.MPD.HasPassword = "hunter2", true

	_, err := NewApp(cfg, dialer(conn, nil), testLogger())
	if got := ExitCode(err); got != ExitConnect {
		t.Errorf("ExitCode(%v) = %d, want %d", err, got, ExitConnect)
	}
	if conn.closeCalls != 1 {
		t.Errorf("connection closed %d times, want 1", conn.closeCalls)
	}
}

func TestNewAppNoPasswordSkipsAuth(t *testing.T) {
	conn := &fakeConn{passwordErr: errRejected}
	if _, err := NewApp(DefaultConfig(), dialer(conn, nil), testLogger()); err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	if len(conn.passwords) != 0 {
		t.Errorf("password sent without one configured: %v", conn.passwords)
	}
}

func TestNewAppEmptyPasswordIsSent(t *testing.T) {
	conn := &fakeConn{}
	cfg := DefaultConfig()
	cfg.MPD.HasPassword = true
	if _, err := NewApp(cfg, dialer(conn, nil), testLogger()); err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	if !slices.Equal(conn.passwords, []string{""}) {
		t.Errorf("passwords sent = %q, want one empty password", conn.passwords)
	}
}

func TestNewAppStatusFailure(t *testing.T) {
	conn := &fakeConn{statusErr: errors.New("command error: [4@0] {status} you don't have permission")}
	cfg := DefaultConfig()
	cfg.MPD.Password, cfg.MPD.HasPassword = "hunter2", true

	_, err := NewApp(cfg, dialer(conn, nil), testLogger())
	if got := ExitCode(err); got != ExitStatus {
		t.Errorf("ExitCode(%v) = %d, want %d", err, got, ExitStatus)
	}
	if conn.closeCalls != 1 {
		t.Errorf("connection closed %d times, want 1", conn.closeCalls)
	}
}

func TestNewAppStatusTransportFailure(t *testing.T) {
	conn := &fakeConn{statusErr: io.ErrUnexpectedEOF}

	_, err := NewApp(DefaultConfig(), dialer(conn, nil), testLogger())
	if got := ExitCode(err); got != ExitConnect {
		t.Errorf("ExitCode(%v) = %d, want %d", err, got, ExitConnect)
	}
	if conn.closeCalls != 1 {
		t.Errorf("connection closed %d times, want 1", conn.closeCalls)
	}
}

func TestAppShutdownClosesOnce(t *testing.T) {
	conn := &fakeConn{state: "stop"}
	a, err := NewApp(DefaultConfig(), dialer(conn, nil), testLogger())
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	if conn.statusCalls != 1 {
		t.Errorf("status queried %d times during startup, want 1", conn.statusCalls)
	}
	if len(conn.commands) != 0 {
		t.Errorf("commands issued during startup: %v", conn.commands)
	}

	a.Shutdown()
	a.Shutdown()
	if conn.closeCalls != 1 {
		t.Errorf("connection closed %d times, want 1", conn.closeCalls)
	}
}
