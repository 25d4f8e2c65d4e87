package backend

import (
	"encoding/base32"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/godbus/dbus/v5"
	"github.com/lmittmann/tint"
	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
)

const (
	dbusTrackIDPrefix = "/mpdmmkeys/Track/"
	noTrackObjectPath = "/org/mpris/MediaPlayer2/TrackList/NoTrack"
)

var (
	_ types.OrgMprisMediaPlayer2Adapter       = (*MPRISHandler)(nil)
	_ types.OrgMprisMediaPlayer2PlayerAdapter = (*MPRISHandler)(nil)
)

var (
	errNotSupported = errors.New("not supported")
)

// MPRISController is the subset of Controller the MPRIS handler drives.
type MPRISController interface {
	PlayPause() error
	Play() error
	Pause() error
	Stop() error
	Next() error
	Previous() error
	Status() (mpd.Attrs, error)
	CurrentSong() (mpd.Attrs, error)
	SetVolume(vol int) error
}

// MPRISHandler exposes the MPD server as an MPRIS media player on the
// session bus.
type MPRISHandler struct {
	// Function called if the player is requested to quit through MPRIS.
	// Should *asynchronously* start shutdown and return immediately.
	OnQuit func() error

	playerName string
	ctl        MPRISController
	log        *slog.Logger
	listening  atomic.Bool
	s          *server.Server
	evt        *events.EventHandler
}

func NewMPRISHandler(playerName string, ctl MPRISController, log *slog.Logger) *MPRISHandler {
	m := &MPRISHandler{playerName: playerName, ctl: ctl, log: log}
	m.s = server.NewServer(playerName, m, m)
	m.evt = events.NewEventHandler(m.s)
	return m
}

// Starts listening for MPRIS requests.
func (m *MPRISHandler) Start() {
	m.listening.Store(true)
	go func() {
		// exits early with err if unable to establish D-Bus connection
		if err := m.s.Listen(); err != nil {
			m.log.Warn("MPRIS server stopped", tint.Err(err))
		}
		m.listening.Store(false)
	}()
}

// Stops listening for MPRIS requests and releases any D-Bus resources.
func (m *MPRISHandler) Shutdown() {
	if m.listening.Swap(false) {
		m.s.Stop()
	}
}

// OnPlayerChanged emits PropertiesChanged for an MPD idle subsystem.
func (m *MPRISHandler) OnPlayerChanged(subsystem string) {
	if !m.listening.Load() {
		return
	}
	switch subsystem {
	case "player":
		m.evt.Player.OnPlayPause()
		m.evt.Player.OnTitle()
	case "mixer":
		m.evt.Player.OnVolume()
	}
}

// OrgMprisMediaPlayer2Adapter implementation

func (m *MPRISHandler) Identity() (string, error) {
	return m.playerName, nil
}

func (m *MPRISHandler) CanQuit() (bool, error) {
	return m.OnQuit != nil, nil
}

func (m *MPRISHandler) Quit() error {
	if m.OnQuit != nil {
		return m.OnQuit()
	}
	return errors.New("no quit handler added")
}

func (m *MPRISHandler) CanRaise() (bool, error) {
	return false, nil
}

func (m *MPRISHandler) Raise() error {
	return errNotSupported
}

func (m *MPRISHandler) HasTrackList() (bool, error) {
	return false, nil
}

func (m *MPRISHandler) SupportedUriSchemes() ([]string, error) {
	return nil, nil
}

func (m *MPRISHandler) SupportedMimeTypes() ([]string, error) {
	return nil, nil
}

// OrgMprisMediaPlayer2PlayerAdapter implementation

func (m *MPRISHandler) Next() error {
	return m.ctl.Next()
}

func (m *MPRISHandler) Previous() error {
	return m.ctl.Previous()
}

func (m *MPRISHandler) Pause() error {
	return m.ctl.Pause()
}

func (m *MPRISHandler) PlayPause() error {
	return m.ctl.PlayPause()
}

func (m *MPRISHandler) Stop() error {
	return m.ctl.Stop()
}

func (m *MPRISHandler) Play() error {
	return m.ctl.Play()
}

func (m *MPRISHandler) Seek(offset types.Microseconds) error {
	return errNotSupported
}

func (m *MPRISHandler) SetPosition(trackId string, position types.Microseconds) error {
	return errNotSupported
}

func (m *MPRISHandler) OpenUri(uri string) error {
	return errNotSupported
}

func (m *MPRISHandler) PlaybackStatus() (types.PlaybackStatus, error) {
	status, err := m.ctl.Status()
	if err != nil {
		return "", err
	}
	switch status["state"] {
	case "play":
		return types.PlaybackStatusPlaying, nil
	case "pause":
		return types.PlaybackStatusPaused, nil
	case "stop":
		return types.PlaybackStatusStopped, nil
	}
	return "", errors.New("unknown playback status")
}

func (m *MPRISHandler) Rate() (float64, error) {
	return 1, nil
}

func (m *MPRISHandler) SetRate(float64) error {
	return errNotSupported
}

func (m *MPRISHandler) Metadata() (types.Metadata, error) {
	song, err := m.ctl.CurrentSong()
	if err != nil {
		return types.Metadata{}, err
	}
	file := song["file"]
	if file == "" {
		return types.Metadata{TrackId: dbus.ObjectPath(noTrackObjectPath)}, nil
	}

	length := song["duration"]
	if length == "" {
		length = song["Time"]
	}
	var artists []string
	if a := song["Artist"]; a != "" {
		artists = []string{a}
	}
	title := song["Title"]
	if title == "" {
		title = song["Name"]
	}
	return types.Metadata{
		TrackId:     dbus.ObjectPath(dbusTrackIDPrefix + encodeTrackId(file)),
		Length:      types.Microseconds(parseSeconds(length).Microseconds()),
		Title:       title,
		Album:       song["Album"],
		Artist:      artists,
		TrackNumber: parseInt(song["Track"]),
	}, nil
}

func (m *MPRISHandler) Volume() (float64, error) {
	status, err := m.ctl.Status()
	if err != nil {
		return 0, err
	}
	// MPD reports -1 (or nothing) without a mixer
	vol := parseInt(status["volume"])
	if vol < 0 {
		vol = 0
	}
	return float64(vol) / 100, nil
}

func (m *MPRISHandler) SetVolume(v float64) error {
	return m.ctl.SetVolume(int(v * 100))
}

func (m *MPRISHandler) Position() (int64, error) {
	status, err := m.ctl.Status()
	if err != nil {
		return 0, err
	}
	return parseSeconds(status["elapsed"]).Microseconds(), nil
}

func (m *MPRISHandler) MinimumRate() (float64, error) {
	return 1, nil
}

func (m *MPRISHandler) MaximumRate() (float64, error) {
	return 1, nil
}

func (m *MPRISHandler) CanGoNext() (bool, error) {
	return true, nil
}

func (m *MPRISHandler) CanGoPrevious() (bool, error) {
	return true, nil
}

func (m *MPRISHandler) CanPlay() (bool, error) {
	return true, nil
}

func (m *MPRISHandler) CanPause() (bool, error) {
	return true, nil
}

func (m *MPRISHandler) CanSeek() (bool, error) {
	return false, nil
}

func (m *MPRISHandler) CanControl() (bool, error) {
	return true, nil
}

func encodeTrackId(id string) string {
	data := []byte(id)
	return base32.StdEncoding.WithPadding('0').EncodeToString(data)
}
