package client

import (
	"github.com/pkg/errors"

	"washpos/pkg/libpos"
)

// Logout disconnects from a WashPOS backend.
func Logout() error {
	cfg, err := Load()
	if err != nil {
		return errors.Wrap(err, "could not load config")
	}

	//
	//

	client, err := libpos.NewDefaultClient(cfg.Endpoint, cfg.APIKey)
	if err != nil {
		return errors.Wrap(err, "could not reach WashPOS endpoint")
	}

	if !cfg.Session.Defined() {
		return errors.New("could not logout because session is not defined")
	}
	client.SetSession(cfg.Session)

	//
	// The local state goes away even when the remote revoke fails.

	if err = client.SignOut(); err != nil {
		NewLogger().WithError(err).Warn("could not revoke session remotely")
	}

	if kv, err := opencache(); err == nil {
		kv.Purge()
		kv.Close()
	}

	return errors.Wrap(Remove(), "could not remove credential file")
}
