package backend

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/lmittmann/tint"
	"github.com/pelletier/go-toml/v2"
	"github.com/zapster/mpdmmkeys/res"
	"gopkg.in/ini.v1"
)

const (
	DefaultMPDHost = "localhost"
	DefaultMPDPort = 6600

	mpdSection    = "mpd"
	daemonSection = "mpdmmkeys"
)

type MPDConfig struct {
	Host     string
	Port     int
	Password string
	// HasPassword is set when a password was supplied by any source,
	// including an explicitly empty one.
	HasPassword bool
	UseKeyring  bool
}

type DaemonConfig struct {
	MPRIS bool
	IPC   bool
}

type Config struct {
	MPD    MPDConfig
	Daemon DaemonConfig
}

func DefaultConfig() *Config {
	return &Config{
		MPD: MPDConfig{
			Host: DefaultMPDHost,
			Port: DefaultMPDPort,
		},
	}
}

// Address returns the dial arguments for the MPD server. A host given as an
// absolute path is a unix socket.
func (c MPDConfig) Address() (network, addr string) {
	if strings.HasPrefix(c.Host, "/") {
		return "unix", c.Host
	}
	return "tcp", net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// fileConfig holds the values present in a single config file.
// Nil fields were not set by the file.
type fileConfig struct {
	MPD struct {
		Host     *string `toml:"host"`
		Port     *int    `toml:"port"`
		Password *string `toml:"password"`
		Keyring  *bool   `toml:"keyring"`
	} `toml:"mpd"`
	Daemon struct {
		MPRIS *bool `toml:"mpris"`
		IPC   *bool `toml:"ipc"`
	} `toml:"mpdmmkeys"`
}

func (f *fileConfig) applyTo(c *Config) {
	if f.MPD.Host != nil {
		c.MPD.Host = *f.MPD.Host
	}
	if f.MPD.Port != nil {
		c.MPD.Port = *f.MPD.Port
	}
	if f.MPD.Password != nil {
		c.MPD.Password = *f.MPD.Password
		c.MPD.HasPassword = true
	}
	if f.MPD.Keyring != nil {
		c.MPD.UseKeyring = *f.MPD.Keyring
	}
	if f.Daemon.MPRIS != nil {
		c.Daemon.MPRIS = *f.Daemon.MPRIS
	}
	if f.Daemon.IPC != nil {
		c.Daemon.IPC = *f.Daemon.IPC
	}
}

// DefaultConfigPaths returns the config files read when no --config flag is
// given: one next to the executable, then ~/mpdmmkeys/mpdmmkeys.cfg.
func DefaultConfigPaths() []string {
	var paths []string
	if p, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			p = resolved
		}
		paths = append(paths, filepath.Join(filepath.Dir(p), res.ConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, res.AppName, res.ConfigFile))
	}
	return paths
}

// readConfigFile reads one INI (or, by extension, TOML) config file.
func readConfigFile(path string) (*fileConfig, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return readTOMLConfig(path)
	}
	return readINIConfig(path)
}

func readTOMLConfig(path string) (*fileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fc := &fileConfig{}
	if err := toml.NewDecoder(f).Decode(fc); err != nil {
		return nil, err
	}
	return fc, nil
}

func readINIConfig(path string) (*fileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	// '#' and ';' are only comments at the start of a line, and quotes are
	// part of the value, so passwords are read back verbatim
	file, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:         true,
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
	}, path)
	if err != nil {
		return nil, err
	}

	fc := &fileConfig{}
	if sec, err := file.GetSection(mpdSection); err == nil {
		if sec.HasKey("host") {
			v := sec.Key("host").String()
			fc.MPD.Host = &v
		}
		if sec.HasKey("port") {
			v, err := sec.Key("port").Int()
			if err != nil {
				return nil, fmt.Errorf("invalid port %q: %w", sec.Key("port").String(), err)
			}
			fc.MPD.Port = &v
		}
		if sec.HasKey("password") {
			v := sec.Key("password").String()
			fc.MPD.Password = &v
		}
		if sec.HasKey("keyring") {
			v, err := sec.Key("keyring").Bool()
			if err != nil {
				return nil, fmt.Errorf("invalid keyring setting: %w", err)
			}
			fc.MPD.Keyring = &v
		}
	}
	if sec, err := file.GetSection(daemonSection); err == nil {
		for name, dst := range map[string]**bool{"mpris": &fc.Daemon.MPRIS, "ipc": &fc.Daemon.IPC} {
			if !sec.HasKey(name) {
				continue
			}
			v, err := sec.Key(name).Bool()
			if err != nil {
				return nil, fmt.Errorf("invalid %s setting: %w", name, err)
			}
			*dst = &v
		}
	}
	return fc, nil
}

// readConfigFiles layers every readable file in paths onto c, later files
// taking precedence. Missing files are skipped; malformed ones are logged.
func readConfigFiles(c *Config, paths []string, log *slog.Logger) []string {
	var read []string
	for _, p := range paths {
		fc, err := readConfigFile(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debug("Config file not found", "path", p)
			} else {
				log.Warn("Skipping malformed config file", "path", p, tint.Err(err))
			}
			continue
		}
		fc.applyTo(c)
		read = append(read, p)
	}
	return read
}

type envConfig struct {
	Host string `env:"MPD_HOST"`
	Port string `env:"MPD_PORT"`
}

// applyEnv overlays MPD_HOST and MPD_PORT. MPD_HOST may carry a password
// as "password@host". A nil environ reads the process environment.
func applyEnv(c *Config, environ map[string]string) error {
	var e envConfig
	var err error
	if environ == nil {
		err = env.Parse(&e)
	} else {
		err = env.ParseWithOptions(&e, env.Options{Environment: environ})
	}
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if e.Host != "" {
		host := e.Host
		// a leading '@' is an abstract socket name, not a password separator
		if i := strings.LastIndex(host, "@"); i > 0 {
			c.MPD.Password = host[:i]
			c.MPD.HasPassword = true
			host = host[i+1:]
		}
		if host != "" {
			c.MPD.Host = host
		}
	}
	if e.Port != "" {
		port, err := strconv.Atoi(e.Port)
		if err != nil {
			return fmt.Errorf("invalid MPD_PORT %q: %w", e.Port, err)
		}
		c.MPD.Port = port
	}
	return nil
}

// applyCommandLine overlays flags given on the command line. Empty host and
// password values and a zero port are treated as not given.
func applyCommandLine(c *Config, opts *CommandLineOptions) {
	if opts.Host != "" {
		c.MPD.Host = opts.Host
	}
	if opts.Port != 0 {
		c.MPD.Port = opts.Port
	}
	if opts.Password != "" {
		c.MPD.Password = opts.Password
		c.MPD.HasPassword = true
	}
	if opts.IsSet(flagKeyring) {
		c.MPD.UseKeyring = opts.UseKeyring
	}
	if opts.IsSet(flagMPRIS) {
		c.Daemon.MPRIS = opts.MPRIS
	}
	if opts.IsSet(flagIPC) {
		c.Daemon.IPC = opts.IPC
	}
}

// ResolveConfig builds the effective configuration from defaults, the
// environment, config files and the command line, in increasing precedence.
func ResolveConfig(opts *CommandLineOptions, environ map[string]string, log *slog.Logger) *Config {
	c := DefaultConfig()

	paths := DefaultConfigPaths()
	if opts.ConfigFile != "" {
		paths = []string{opts.ConfigFile}
	}
	// MPD_HOST and MPD_PORT only replace the built-in defaults
	if err := applyEnv(c, environ); err != nil {
		log.Warn("Ignoring MPD environment variables", tint.Err(err))
	}

	read := readConfigFiles(c, paths, log)
	if opts.ConfigFile != "" && len(read) == 0 {
		log.Warn("Could not read configuration file", "path", opts.ConfigFile)
	}
	log.Info("Read configuration file(s)", "paths", read)

	applyCommandLine(c, opts)

	log.Info("Configuration option", "host", c.MPD.Host)
	log.Info("Configuration option", "port", c.MPD.Port)
	if c.MPD.HasPassword {
		log.Info("Configuration option", "password", "(set)")
	}
	return c
}
