// Package client implements the washpos terminal commands.
package client

import (
	"github.com/pkg/errors"

	"washpos/internal/cache"
	"washpos/pkg/libpos"
)

// connect loads the sealed credentials, builds a backend client holding the
// stored session and refreshes it if it nears its expiry.
func connect() (libpos.Client, *Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not load config")
	}

	c, err := libpos.NewDefaultClient(cfg.Endpoint, cfg.APIKey)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not reach WashPOS endpoint")
	}

	if !cfg.Session.Defined() {
		return nil, nil, errors.New("no session defined, please log in")
	}
	c.SetSession(cfg.Session)

	// Token rotations performed by the client are mirrored in the config
	// so every code path persists the same session.
	c.OnSessionChange(func(session libpos.Session) {
		cfg.Session = session
	})

	if err := Refresh(c, &cfg); err != nil {
		return nil, nil, err
	}

	return c, &cfg, nil
}

// opencache opens the terminal-local cache next to the credential file.
func opencache() (*cache.Cache, error) {
	return cache.Open(cachefile)
}

// activeStore returns the store the terminal currently operates.
func activeStore(kv *cache.Cache) (*libpos.Store, error) {
	id, err := kv.Get(cache.KeyActiveStore)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errors.New("no active store, run `washpos stores use` first")
	}
	return kv.FindStore(id)
}
