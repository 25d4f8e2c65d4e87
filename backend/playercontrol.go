package backend

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/fhs/gompd/v2/mpd"
)

// Controller applies playback actions to the MPD connection.
// The media key loop, MPRIS and IPC may all call into it; the mutex keeps
// one command in flight on the connection at a time.
type Controller struct {
	mu   sync.Mutex
	conn PlayerConn
	log  *slog.Logger
}

func NewController(conn PlayerConn, log *slog.Logger) *Controller {
	return &Controller{conn: conn, log: log}
}

// HandleKey resolves a media key name and issues the resulting command.
// For KeyPlay the player state is queried immediately before deciding.
// Unknown keys are ignored.
func (c *Controller) HandleKey(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	playing := false
	if needsPlayerState(key) {
		p, err := c.isPlayingLocked()
		if err != nil {
			return err
		}
		playing = p
	}

	action := ResolveAction(key, playing)
	if action == ActionNoop {
		c.log.Debug("Ignoring media key", "key", key)
		return nil
	}
	c.log.Info("mmkey "+action.String(), "key", key)
	return c.applyLocked(action)
}

// Apply issues a single action.
func (c *Controller) Apply(a Action) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applyLocked(a)
}

func (c *Controller) applyLocked(a Action) error {
	var err error
	switch a {
	case ActionNoop:
		return nil
	case ActionPlay:
		err = c.conn.Play()
	case ActionPause:
		err = c.conn.Pause()
	case ActionStop:
		err = c.conn.Stop()
	case ActionNext:
		err = c.conn.Next()
	case ActionPrevious:
		err = c.conn.Previous()
	default:
		return fmt.Errorf("unknown action %d", a)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCommand, a, err)
	}
	return nil
}

func (c *Controller) isPlayingLocked() (bool, error) {
	status, err := c.conn.Status()
	if err != nil {
		return false, fmt.Errorf("%w: status: %w", ErrCommand, err)
	}
	return status["state"] == "play", nil
}

func (c *Controller) PlayPause() error { return c.HandleKey(KeyPlay) }
func (c *Controller) Play() error      { return c.Apply(ActionPlay) }
func (c *Controller) Pause() error     { return c.Apply(ActionPause) }
func (c *Controller) Stop() error      { return c.Apply(ActionStop) }
func (c *Controller) Next() error      { return c.Apply(ActionNext) }
func (c *Controller) Previous() error  { return c.Apply(ActionPrevious) }

// Status returns the current MPD status attributes.
func (c *Controller) Status() (mpd.Attrs, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Status()
}

// CurrentSong returns the attributes of the current song.
func (c *Controller) CurrentSong() (mpd.Attrs, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.CurrentSong()
}

func (c *Controller) SetVolume(vol int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.SetVolume(vol)
}

// KeyDispatcher receives media key events for every grabber and forwards
// those addressed to AppName to the Controller.
type KeyDispatcher struct {
	AppName string

	ctl *Controller
	log *slog.Logger
}

func NewKeyDispatcher(appName string, ctl *Controller, log *slog.Logger) *KeyDispatcher {
	return &KeyDispatcher{AppName: appName, ctl: ctl, log: log}
}

// HandleKeys handles one key press notification. Events for another
// application are dropped. Keys are applied in order; the first failing
// command aborts the rest and its error is returned.
func (d *KeyDispatcher) HandleKeys(app string, keys ...string) error {
	if app != d.AppName {
		d.log.Debug("Ignoring media keys for another application", "app", app, "keys", keys)
		return nil
	}
	for _, key := range keys {
		if err := d.ctl.HandleKey(key); err != nil {
			return err
		}
	}
	return nil
}
