package backend

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/lmittmann/tint"
	"github.com/zapster/mpdmmkeys/backend/ipc"
	"github.com/zapster/mpdmmkeys/res"
)

type App struct {
	Config       *Config
	Controller   *Controller
	MPRISHandler *MPRISHandler

	log        *slog.Logger
	conn       PlayerConn
	bridge     *MediaKeyBridge
	watcher    *StateWatcher
	ipcServer  *http.Server
	ipcStarted bool

	// quit is closed when shutdown is requested over MPRIS
	quit     chan struct{}
	quitOnce sync.Once
	closed   sync.Once
}

// StartupApp resolves the configuration and opens the verified MPD
// connection. The returned error maps to an exit code with ExitCode.
func StartupApp(opts *CommandLineOptions, log *slog.Logger) (*App, error) {
	log.Info("Starting " + res.AppName + " " + res.AppVersionTag)
	cfg := ResolveConfig(opts, nil, log)
	resolveKeyringPassword(&cfg.MPD, opts.SavePassword, log)
	return NewApp(cfg, DialMPD, log)
}

// NewApp connects to MPD with dial and wraps the connection in an App.
func NewApp(cfg *Config, dial DialFunc, log *slog.Logger) (*App, error) {
	conn, err := Connect(cfg.MPD, dial, log)
	if err != nil {
		return nil, err
	}
	return &App{
		Config:     cfg,
		Controller: NewController(conn, log),
		log:        log,
		conn:       conn,
		quit:       make(chan struct{}),
	}, nil
}

// Run grabs the media keys and handles key presses until ctx is cancelled
// (returns nil), the bus goes away, or an MPD command fails.
func (a *App) Run(ctx context.Context) error {
	if a.Config.Daemon.IPC {
		a.startIPC()
	}
	if a.Config.Daemon.MPRIS {
		a.setupMPRIS()
	}

	a.bridge = NewMediaKeyBridge(res.AppName, NewKeyDispatcher(res.AppName, a.Controller, a.log), a.log)
	if err := a.bridge.Grab(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-a.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := a.bridge.Run(ctx)
	if errors.Is(err, context.Canceled) {
		a.log.Info("Interrupted, shutting down")
		return nil
	}
	return err
}

func (a *App) startIPC() {
	listener, err := ipc.Listen()
	if err != nil {
		a.log.Warn("Could not listen for remote commands", "socket", ipc.SocketPath, tint.Err(err))
		return
	}
	a.ipcServer = ipc.NewServer(a.Controller)
	a.ipcStarted = true
	a.log.Info("Listening for remote commands", "socket", ipc.SocketPath)
	go func() {
		if err := a.ipcServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
			a.log.Warn("IPC server stopped", tint.Err(err))
		}
	}()
}

func (a *App) setupMPRIS() {
	a.MPRISHandler = NewMPRISHandler(res.AppName, a.Controller, a.log)
	a.MPRISHandler.OnQuit = func() error {
		a.quitOnce.Do(func() { close(a.quit) })
		return nil
	}
	a.MPRISHandler.Start()

	w, err := NewStateWatcher(a.Config.MPD, a.MPRISHandler.OnPlayerChanged, a.log)
	if err != nil {
		a.log.Warn("MPRIS state updates disabled", tint.Err(err))
		return
	}
	a.watcher = w
}

// Shutdown releases every resource the App holds. The MPD connection is
// closed exactly once no matter how often Shutdown is called.
func (a *App) Shutdown() {
	a.closed.Do(func() {
		if a.bridge != nil {
			a.bridge.Close()
		}
		if a.watcher != nil {
			a.watcher.Close()
		}
		if a.MPRISHandler != nil {
			a.MPRISHandler.Shutdown()
		}
		if a.ipcStarted {
			a.ipcServer.Close()
			ipc.DestroyConn()
		}
		closeConn(a.conn, a.log)
		a.log.Info("Disconnected from MPD")
	})
}
