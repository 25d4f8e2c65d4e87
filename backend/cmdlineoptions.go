package backend

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/zapster/mpdmmkeys/backend/ipc"
	"github.com/zapster/mpdmmkeys/res"
)

const (
	flagHost         = "host"
	flagPort         = "port"
	flagPassword     = "password"
	flagConfig       = "config"
	flagVerbose      = "verbose"
	flagKeyring      = "keyring"
	flagSavePassword = "save-password"
	flagMPRIS        = "mpris"
	flagIPC          = "ipc"
	flagVersion      = "version"
)

// remote control flags, sent to a running instance over IPC
var remoteFlags = []struct {
	name  string
	usage string
	path  string
}{
	{"play", "unpause or begin playback in the running instance", ipc.PlayPath},
	{"pause", "pause playback in the running instance", ipc.PausePath},
	{"play-pause", "toggle play/pause state in the running instance", ipc.PlayPausePath},
	{"stop", "stop playback in the running instance", ipc.StopPath},
	{"next", "skip to the next track in the running instance", ipc.NextPath},
	{"previous", "go back to the previous track in the running instance", ipc.PreviousPath},
}

type CommandLineOptions struct {
	Host         string
	Port         int
	Password     string
	ConfigFile   string
	Verbosity    int
	UseKeyring   bool
	SavePassword bool
	MPRIS        bool
	IPC          bool
	Version      bool

	// RemoteCommand is the IPC path of a one-shot command for an already
	// running instance, or empty.
	RemoteCommand string

	set map[string]bool
}

// IsSet reports whether the named flag was given on the command line.
func (o *CommandLineOptions) IsSet(name string) bool {
	return o.set[name]
}

// ParseCommandLine parses args (without the program name). Usage and error
// text is written to output. Returns pflag.ErrHelp for -h/--help.
func ParseCommandLine(args []string, output io.Writer) (*CommandLineOptions, error) {
	o := &CommandLineOptions{set: make(map[string]bool)}

	fs := pflag.NewFlagSet(res.AppName, pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprintf(output, "Usage: %s [options]\n\n", res.AppName)
		fmt.Fprintf(output, "%s is a lightweight MPD client which allows you to control MPD using MultiMediaKeys.\n\n", res.AppName)
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nNOTE: Default parameters are overwritten by the MPD_HOST and MPD_PORT "+
			"environment variables, which are overwritten by configuration file options. "+
			"Default config files are %v. Configuration file options are overwritten by command line options.\n",
			DefaultConfigPaths())
	}

	fs.StringVar(&o.Host, flagHost, "", "mpd ip/hostname, or the path of a unix socket")
	fs.IntVar(&o.Port, flagPort, 0, "mpd port")
	fs.StringVar(&o.Password, flagPassword, "", "mpd password")
	fs.StringVar(&o.ConfigFile, flagConfig, "", "overwrite default config files")
	fs.IntVarP(&o.Verbosity, flagVerbose, "v", 0, "verbosity level 0-2")
	fs.BoolVar(&o.UseKeyring, flagKeyring, false, "look up a missing mpd password in the system keyring")
	fs.BoolVar(&o.SavePassword, flagSavePassword, false, "store the mpd password in the system keyring")
	fs.BoolVar(&o.MPRIS, flagMPRIS, false, "also expose MPD as an MPRIS media player")
	fs.BoolVar(&o.IPC, flagIPC, false, "accept remote control commands from other invocations")
	fs.BoolVar(&o.Version, flagVersion, false, "print app version and exit")

	remote := make(map[string]*bool, len(remoteFlags))
	for _, rf := range remoteFlags {
		remote[rf.name] = fs.Bool(rf.name, false, rf.usage)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments: %s", ErrUsage, strings.Join(fs.Args(), " "))
	}
	fs.Visit(func(f *pflag.Flag) {
		o.set[f.Name] = true
	})

	for _, rf := range remoteFlags {
		if !*remote[rf.name] {
			continue
		}
		if o.RemoteCommand != "" {
			return nil, fmt.Errorf("%w: only one remote control flag may be given", ErrUsage)
		}
		o.RemoteCommand = rf.path
	}
	return o, nil
}
