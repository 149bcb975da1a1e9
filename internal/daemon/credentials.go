package daemon

import (
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-reldate/internal/config"
	"github.com/zalando/go-keyring"
)

// Password returns the keyring password of user, or "" when there is none.
func Password(user string) string {
	if user == "" {
		return ""
	}
	p, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyUser, user,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompDaemon)
		return ""
	}
	return p
}

// StorePassword saves the password of user in the OS keyring.
func StorePassword(user, pass string) error {
	if err := keyring.Set(config.KeyringService, user, pass); err != nil {
		return fmt.Errorf("%s: %w", config.ErrPasswordStore, err)
	}
	slog.Info(config.MsgPassStored,
		config.LogKeyUser, user,
		config.LogKeyComponent, config.CompDaemon)
	return nil
}
