package backend

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/lmittmann/tint"
)

// Compile-time interface assertion for mpdConn
var _ PlayerConn = (*mpdConn)(nil)

// PlayerConn is a single session with an MPD server.
// All calls are synchronous.
type PlayerConn interface {
	Password(secret string) error
	Status() (mpd.Attrs, error)
	CurrentSong() (mpd.Attrs, error)
	Play() error
	Pause() error
	Stop() error
	Next() error
	Previous() error
	SetVolume(vol int) error
	Close() error
}

// DialFunc opens a PlayerConn. DialMPD is the production implementation.
type DialFunc func(network, addr string) (PlayerConn, error)

// DialMPD connects to an MPD server with gompd.
func DialMPD(network, addr string) (PlayerConn, error) {
	c, err := mpd.Dial(network, addr)
	if err != nil {
		return nil, err
	}
	return &mpdConn{c: c}, nil
}

type mpdConn struct {
	c *mpd.Client
}

func (m *mpdConn) Password(secret string) error {
	return m.c.Command("password %s", secret).OK()
}

func (m *mpdConn) Status() (mpd.Attrs, error) { return m.c.Status() }

func (m *mpdConn) CurrentSong() (mpd.Attrs, error) { return m.c.CurrentSong() }

// Play resumes or starts playback at the current song.
func (m *mpdConn) Play() error { return m.c.Play(-1) }

func (m *mpdConn) Pause() error { return m.c.Pause(true) }

func (m *mpdConn) Stop() error { return m.c.Stop() }

func (m *mpdConn) Next() error { return m.c.Next() }

func (m *mpdConn) Previous() error { return m.c.Previous() }

func (m *mpdConn) SetVolume(vol int) error {
	// MPD volume is 0-100
	return m.c.SetVolume(clamp(vol, 0, 100))
}

func (m *mpdConn) Close() error { return m.c.Close() }

// Connect opens and verifies the MPD session described by cfg: dial,
// authenticate if a password is configured, then query status.
// On any failure the connection is closed and the returned error wraps
// ErrConnect, ErrAuth or ErrStatus. Transport failures always wrap ErrConnect.
func Connect(cfg MPDConfig, dial DialFunc, log *slog.Logger) (PlayerConn, error) {
	network, addr := cfg.Address()
	conn, err := dial(network, addr)
	if err != nil {
		return nil, fmt.Errorf("%w at %s: %w", ErrConnect, addr, err)
	}
	log.Info("Connected to MPD", "addr", addr)

	if cfg.HasPassword {
		if err := conn.Password(cfg.Password); err != nil {
			conn.Close()
			if isConnectionError(err) {
				return nil, fmt.Errorf("%w at %s: %w", ErrConnect, addr, err)
			}
			return nil, fmt.Errorf("%w: %w", ErrAuth, err)
		}
		log.Info("MPD password auth succeeded")
	}

	status, err := conn.Status()
	if err != nil {
		conn.Close()
		if isConnectionError(err) {
			return nil, fmt.Errorf("%w at %s: %w", ErrConnect, addr, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrStatus, err)
	}
	log.Debug("MPD status", "state", status["state"], "volume", status["volume"])

	return conn, nil
}

// closeConn closes conn, logging rather than returning any error.
func closeConn(conn PlayerConn, log *slog.Logger) {
	if err := conn.Close(); err != nil && !isConnectionError(err) {
		log.Warn("Error closing MPD connection", tint.Err(err))
	}
}

// parseSeconds parses a duration string (e.g., "123.456") into time.Duration.
func parseSeconds(s string) time.Duration {
	var seconds float64
	fmt.Sscanf(s, "%f", &seconds)
	return time.Duration(seconds * float64(time.Second))
}

// parseInt parses a string to an integer, returning 0 on error or empty string.
// Leading digits are used, so "3/12" parses as 3.
func parseInt(s string) int {
	var i int
	fmt.Sscanf(s, "%d", &i)
	return i
}

func clamp(i, min, max int) int {
	if i < min {
		i = min
	} else if i > max {
		i = max
	}
	return i
}
