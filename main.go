package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"
	"github.com/zapster/mpdmmkeys/backend"
	"github.com/zapster/mpdmmkeys/backend/ipc"
	"github.com/zapster/mpdmmkeys/res"
	"golang.org/x/sys/unix"
)

func main() {
	opts, err := backend.ParseCommandLine(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(backend.ExitOK)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(backend.ExitCode(err))
	}
	if opts.Version {
		fmt.Println(res.DisplayName, res.AppVersionTag)
		return
	}

	logger := backend.NewLogger(opts.Verbosity, os.Stderr)

	if opts.RemoteCommand != "" {
		os.Exit(sendRemoteCommand(opts.RemoteCommand, logger))
	}

	myApp, err := backend.StartupApp(opts, logger)
	if err != nil {
		logger.Error("Fatal startup error", tint.Err(err))
		os.Exit(backend.ExitCode(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	err = myApp.Run(ctx)
	stop()
	if err != nil {
		logger.Error("Stopped handling media keys", tint.Err(err))
	}

	logger.Info("Running shutdown tasks...")
	myApp.Shutdown()
	os.Exit(backend.ExitCode(err))
}

func sendRemoteCommand(path string, logger *slog.Logger) int {
	cli, err := ipc.Connect()
	if err != nil {
		logger.Error("No running instance to send the command to", "socket", ipc.SocketPath, tint.Err(err))
		return backend.ExitConnect
	}
	if err := cli.Send(path); err != nil {
		logger.Error("Remote command failed", "command", path, tint.Err(err))
		return backend.ExitConnect
	}
	return backend.ExitOK
}
