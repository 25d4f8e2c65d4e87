package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/lmittmann/tint"
)

const (
	mediaKeysPath      = "/org/gnome/SettingsDaemon/MediaKeys"
	mediaKeysInterface = "org.gnome.SettingsDaemon.MediaKeys"
	keyPressedMember   = "MediaPlayerKeyPressed"
	keyPressedSignal   = mediaKeysInterface + "." + keyPressedMember
)

// Bus names the settings daemon has exported MediaKeys under, newest first.
var mediaKeysBusNames = []string{
	"org.gnome.SettingsDaemon.MediaKeys",
	"org.gnome.SettingsDaemon",
}

// KeyHandler handles one MediaPlayerKeyPressed notification.
type KeyHandler interface {
	HandleKeys(app string, keys ...string) error
}

// MediaKeyBridge owns this application's media key grab on the session bus
// and feeds key presses to a KeyHandler.
type MediaKeyBridge struct {
	appName string
	handler KeyHandler
	log     *slog.Logger

	conn    *dbus.Conn
	obj     dbus.BusObject
	signals chan *dbus.Signal
}

func NewMediaKeyBridge(appName string, handler KeyHandler, log *slog.Logger) *MediaKeyBridge {
	return &MediaKeyBridge{appName: appName, handler: handler, log: log}
}

// Grab connects to the session bus, subscribes to key press signals and
// grabs the media keys for the bridge's application name.
func (b *MediaKeyBridge) Grab() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMediaKeys, err)
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(mediaKeysPath),
		dbus.WithMatchInterface(mediaKeysInterface),
		dbus.WithMatchMember(keyPressedMember),
	); err != nil {
		conn.Close()
		return fmt.Errorf("%w: subscribe to %s: %w", ErrMediaKeys, keyPressedSignal, err)
	}
	signals := make(chan *dbus.Signal, 10)
	conn.Signal(signals)

	var lastErr error
	for _, name := range mediaKeysBusNames {
		obj := conn.Object(name, mediaKeysPath)
		call := obj.Call(mediaKeysInterface+".GrabMediaPlayerKeys", 0, b.appName, uint32(0))
		if call.Err == nil {
			b.log.Info("Grabbed media player keys", "service", name, "app", b.appName)
			b.conn, b.obj, b.signals = conn, obj, signals
			return nil
		}
		b.log.Debug("GrabMediaPlayerKeys failed", "service", name, tint.Err(call.Err))
		lastErr = call.Err
	}
	conn.Close()
	return fmt.Errorf("%w: %w", ErrMediaKeys, lastErr)
}

// Run dispatches key presses until ctx is done, the bus connection goes
// away, or the handler fails. Handler calls are made one at a time on the
// calling goroutine, in arrival order.
func (b *MediaKeyBridge) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig, ok := <-b.signals:
			if !ok {
				return ErrBusClosed
			}
			if err := b.dispatch(sig); err != nil {
				return err
			}
		}
	}
}

func (b *MediaKeyBridge) dispatch(sig *dbus.Signal) error {
	if sig == nil || sig.Name != keyPressedSignal {
		return nil
	}
	app, keys, ok := parseKeyPressed(sig.Body)
	if !ok {
		b.log.Warn("Malformed MediaPlayerKeyPressed signal", "body", sig.Body)
		return nil
	}
	return b.handler.HandleKeys(app, keys...)
}

// parseKeyPressed unpacks a MediaPlayerKeyPressed body: the application name
// followed by one or more key names.
func parseKeyPressed(body []interface{}) (app string, keys []string, ok bool) {
	if len(body) < 2 {
		return "", nil, false
	}
	if app, ok = body[0].(string); !ok {
		return "", nil, false
	}
	for _, v := range body[1:] {
		key, isStr := v.(string)
		if !isStr {
			return "", nil, false
		}
		keys = append(keys, key)
	}
	return app, keys, true
}

// Close releases the media key grab and the bus connection.
func (b *MediaKeyBridge) Close() {
	if b.conn == nil {
		return
	}
	call := b.obj.Call(mediaKeysInterface+".ReleaseMediaPlayerKeys", 0, b.appName)
	if call.Err != nil {
		b.log.Debug("ReleaseMediaPlayerKeys failed", tint.Err(call.Err))
	}
	b.conn.RemoveSignal(b.signals)
	b.conn.Close()
	b.conn = nil
}
