package backend

import (
	"log/slog"
	"sync"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/lmittmann/tint"
)

// StateWatcher reports MPD idle events for the player and mixer subsystems
// on its own connection, so it never blocks the command connection.
type StateWatcher struct {
	w    *mpd.Watcher
	log  *slog.Logger
	wg   sync.WaitGroup
	once sync.Once
}

// NewStateWatcher starts watching the server in cfg and calls onChange with
// the subsystem name for every idle event.
func NewStateWatcher(cfg MPDConfig, onChange func(subsystem string), log *slog.Logger) (*StateWatcher, error) {
	network, addr := cfg.Address()
	w, err := mpd.NewWatcher(network, addr, cfg.Password, "player", "mixer")
	if err != nil {
		return nil, err
	}
	s := &StateWatcher{w: w, log: log}
	s.wg.Add(1)
	go s.loop(onChange)
	return s, nil
}

func (s *StateWatcher) loop(onChange func(string)) {
	defer s.wg.Done()
	events, errs := s.w.Event, s.w.Error
	for events != nil || errs != nil {
		select {
		case subsystem, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.log.Debug("MPD state changed", "subsystem", subsystem)
			onChange(subsystem)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.log.Warn("MPD watcher error", tint.Err(err))
		}
	}
}

// Close stops the watcher and waits for the event loop to exit.
func (s *StateWatcher) Close() {
	s.once.Do(func() {
		if err := s.w.Close(); err != nil {
			s.log.Debug("Error closing MPD watcher", tint.Err(err))
		}
		s.wg.Wait()
	})
}
