package backend

// Key names delivered by the settings daemon in MediaPlayerKeyPressed.
const (
	KeyPlay     = "Play"
	KeyStop     = "Stop"
	KeyNext     = "Next"
	KeyPrevious = "Previous"
)

// Action is a single playback command issued on the MPD connection.
type Action int

const (
	ActionNoop Action = iota
	ActionPlay
	ActionPause
	ActionStop
	ActionNext
	ActionPrevious
)

func (a Action) String() string {
	switch a {
	case ActionPlay:
		return "play"
	case ActionPause:
		return "pause"
	case ActionStop:
		return "stop"
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	}
	return "noop"
}

// ResolveAction maps a media key to the command it should issue.
// playing is only consulted for KeyPlay, which toggles between play and pause.
// Unknown keys resolve to ActionNoop.
func ResolveAction(key string, playing bool) Action {
	switch key {
	case KeyPlay:
		if playing {
			return ActionPause
		}
		return ActionPlay
	case KeyStop:
		return ActionStop
	case KeyNext:
		return ActionNext
	case KeyPrevious:
		return ActionPrevious
	}
	return ActionNoop
}

// needsPlayerState reports whether resolving key requires a fresh status query.
func needsPlayerState(key string) bool {
	return key == KeyPlay
}
