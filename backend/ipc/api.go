package ipc

const (
	PingPath      = "/ping"
	PlayPath      = "/transport/play"
	PausePath     = "/transport/pause"
	PlayPausePath = "/transport/playpause"
	StopPath      = "/transport/stop"
	PreviousPath  = "/transport/previous"
	NextPath      = "/transport/next"
)

type Response struct {
	Error string `json:"error"`
}
