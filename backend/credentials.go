package backend

import (
	"errors"
	"log/slog"
	"net"
	"strconv"

	"github.com/lmittmann/tint"
	"github.com/zalando/go-keyring"
	"github.com/zapster/mpdmmkeys/res"
)

// keyringAccount is the keyring user name a server's password is stored under.
func keyringAccount(c MPDConfig) string {
	if network, addr := c.Address(); network == "unix" {
		return addr
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// GetServerPassword looks up the stored password for the configured server.
func GetServerPassword(c MPDConfig) (string, error) {
	return keyring.Get(res.AppName, keyringAccount(c))
}

// SetServerPassword stores password for the configured server.
func SetServerPassword(c MPDConfig, password string) error {
	return keyring.Set(res.AppName, keyringAccount(c), password)
}

// resolveKeyringPassword fills in a missing password from the keyring when
// enabled, and stores the resolved password when save is set.
// Keyring failures are never fatal.
func resolveKeyringPassword(c *MPDConfig, save bool, log *slog.Logger) {
	if c.UseKeyring && !c.HasPassword {
		pass, err := GetServerPassword(*c)
		switch {
		case err == nil:
			c.Password = pass
			c.HasPassword = true
			log.Info("Using MPD password from keyring")
		case errors.Is(err, keyring.ErrNotFound):
			log.Info("No MPD password in keyring", "account", keyringAccount(*c))
		default:
			log.Warn("Error reading keyring credentials", tint.Err(err))
		}
	}

	if save {
		if !c.HasPassword {
			log.Warn("No MPD password to save")
			return
		}
		if err := SetServerPassword(*c, c.Password); err != nil {
			log.Warn("Error saving password to keyring", tint.Err(err))
			return
		}
		log.Info("Saved MPD password to keyring", "account", keyringAccount(*c))
	}
}
