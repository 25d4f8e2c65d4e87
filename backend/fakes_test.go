package backend

import (
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/fhs/gompd/v2/mpd"
)

var errRejected = errors.New("command error: [3@0] {password} incorrect password")

// fakeConn records the commands issued on it.
type fakeConn struct {
	state       string
	volume      int
	song        mpd.Attrs
	passwordErr error
	statusErr   error
	commandErr  error

	passwords   []string
	statusCalls int
	commands    []string
	closeCalls  int
}

func (f *fakeConn) Password(secret string) error {
	f.passwords = append(f.passwords, secret)
	return f.passwordErr
}

func (f *fakeConn) Status() (mpd.Attrs, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return mpd.Attrs{"state": f.state, "volume": "50", "elapsed": "12.5"}, nil
}

func (f *fakeConn) CurrentSong() (mpd.Attrs, error) {
	if f.song == nil {
		return mpd.Attrs{}, nil
	}
	return f.song, nil
}

func (f *fakeConn) command(name string) error {
	f.commands = append(f.commands, name)
	return f.commandErr
}

func (f *fakeConn) Play() error     { return f.command("play") }
func (f *fakeConn) Pause() error    { return f.command("pause") }
func (f *fakeConn) Stop() error     { return f.command("stop") }
func (f *fakeConn) Next() error     { return f.command("next") }
func (f *fakeConn) Previous() error { return f.command("previous") }

func (f *fakeConn) SetVolume(vol int) error {
	f.volume = vol
	return f.command("setvol")
}

func (f *fakeConn) Close() error {
	f.closeCalls++
	return nil
}

func (f *fakeConn) count(name string) int {
	n := 0
	for _, c := range f.commands {
		if c == name {
			n++
		}
	}
	return n
}

// dialer returns a DialFunc handing out conn, recording the address.
func dialer(conn *fakeConn, gotAddr *string) DialFunc {
	return func(network, addr string) (PlayerConn, error) {
		if gotAddr != nil {
			*gotAddr = network + " " + addr
		}
		return conn, nil
	}
}

func failingDialer(err error) DialFunc {
	return func(string, string) (PlayerConn, error) {
		return nil, err
	}
}

func testLogger() *slog.Logger {
	return NewLogger(3, io.Discard)
}

var errConnRefused = &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
