package client

import (
	"fmt"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"

	"washpos/internal/cache"
	"washpos/pkg/libpos"
)

// Login connects to a WashPOS backend.
func Login() error {
	cfg := Config{}

	endpoint, err := readline.Line("Endpoint: ")
	if err != nil {
		return errors.Wrap(err, "could not read endpoint from stdin")
	}
	cfg.Endpoint = endpoint

	apikey, err := readline.Line("API key: ")
	if err != nil {
		return errors.Wrap(err, "could not read API key from stdin")
	}
	cfg.APIKey = apikey

	client, err := libpos.NewDefaultClient(cfg.Endpoint, cfg.APIKey)
	if err != nil {
		return errors.Wrap(err, "could not reach given endpoint")
	}

	cfg.Email, err = readline.Line("Email: ")
	if err != nil {
		return errors.Wrap(err, "could not read email from stdin")
	}

	password, err := readline.Password("Password: ")
	if err != nil {
		return errors.Wrap(err, "could not read password from stdin")
	}

	session, err := client.SignIn(cfg.Email, string(password))
	if err != nil {
		return errors.Wrap(err, "could not login")
	}
	cfg.Session = session

	if err := Save(cfg); err != nil {
		return err
	}

	// Prime the stores snapshot so the terminal can pick a working store.
	stores, err := client.Stores()
	if err != nil {
		return errors.Wrap(err, "could not list stores")
	}

	kv, err := opencache()
	if err != nil {
		return err
	}
	defer kv.Close()

	if err := kv.ReplaceStores(stores); err != nil {
		return err
	}
	if len(stores) == 1 {
		fmt.Printf("Active store: %s\n", stores[0].Name)
		return kv.Set(cache.KeyActiveStore, stores[0].ID)
	}

	fmt.Printf("%d stores available, run `washpos stores use` to pick one\n", len(stores))
	return nil
}
