package client

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chzyer/readline"
	sargon2 "github.com/mdouchement/simple-argon2"
	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"washpos/pkg/libpos"
)

const (
	saltKeyLength   = 16
	credentialsfile = ".washpos"
	cachefile       = ".washpos.cache"
)

// A Config holds terminal's configuration.
type Config struct {
	Endpoint string         `json:"endpoint"`
	APIKey   string         `json:"apikey"`
	Email    string         `json:"email"`
	Session  libpos.Session `json:"session"`
}

// The derived key and its salt are kept for the lifetime of the process so
// background session refreshes can persist without prompting again.
var (
	sealsalt []byte
	sealkey  []byte
)

// Remove removes the credential file from the current directory.
func Remove() error {
	return os.Remove(credentialsfile)
}

// Load gets the configuration from the current folder according to `credentialsfile` const.
func Load() (Config, error) {
	var cfg Config

	ciphertext, err := os.ReadFile(credentialsfile)
	if err != nil {
		return cfg, errors.Wrap(err, "could not read credentials file")
	}

	//
	// Key derivation of passphrase

	passphrase, err := readline.Password("passphrase: ")
	if err != nil {
		return cfg, errors.Wrap(err, "could not read passphrase from stdin")
	}

	salt := ciphertext[:saltKeyLength]
	ciphertext = ciphertext[saltKeyLength:]
	hash := argon2.IDKey(passphrase, salt, 3, 64<<10, 2, 32)

	//
	// Unseal config

	aead, err := chacha20poly1305.NewX(hash)
	if err != nil {
		return cfg, errors.Wrap(err, "could not create AEAD")
	}

	nonce := ciphertext[:aead.NonceSize()]
	ciphertext = ciphertext[aead.NonceSize():]

	payload, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return cfg, errors.Wrap(err, "could not decrypt credentials file")
	}

	if err = json.Unmarshal(payload, &cfg); err != nil {
		return cfg, errors.Wrap(err, "could not parse config")
	}

	sealsalt = salt
	sealkey = hash
	return cfg, nil
}

// Save stores the configuration in the current folder according to `credentialsfile` const.
func Save(cfg Config) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "could not serialize config")
	}

	//
	// Key derivation of passphrase

	if sealkey == nil {
		fmt.Println("Storing credentials in current directory as " + credentialsfile)
		passphrase, err := readline.Password("passphrase: ")
		if err != nil {
			return errors.Wrap(err, "could not read passphrase from stdin")
		}

		salt, err := sargon2.GenerateRandomBytes(saltKeyLength)
		if err != nil {
			return errors.Wrap(err, "could not generate salt for credentials")
		}

		sealsalt = salt
		sealkey = argon2.IDKey(passphrase, salt, 3, 64<<10, 2, 32)
	}

	//
	// Seal config

	aead, err := chacha20poly1305.NewX(sealkey)
	if err != nil {
		return errors.Wrap(err, "could not create AEAD")
	}
	nonce, err := sargon2.GenerateRandomBytes(uint32(aead.NonceSize()))
	if err != nil {
		return errors.Wrap(err, "could not generate nonce for credentials")
	}

	ciphertext := aead.Seal(nil, nonce, payload, nil)
	ciphertext = append(nonce, ciphertext...)
	ciphertext = append(sealsalt, ciphertext...)

	f, err := os.Create(credentialsfile)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", credentialsfile)
	}
	defer f.Close()

	if _, err = f.Write(ciphertext); err != nil {
		return errors.Wrap(err, "could not store credentials")
	}

	return errors.Wrap(f.Sync(), "could not store credentials")
}

// Refresh refreshes the session when it nears its expiry and persists the
// rotated tokens. An already expired session is a terminal error, the user
// has to log in again.
func Refresh(c libpos.Client, cfg *Config) error {
	switch cfg.Session.Status() {
	case libpos.StatusValid:
		return nil
	case libpos.StatusExpired:
		return errors.New("Your session has expired. Please log in again to continue.")
	}

	session, err := c.RefreshSession()
	if err != nil {
		return errors.Wrap(err, "could not refresh session")
	}
	cfg.Session = session

	return errors.Wrap(Save(*cfg), "could not save refreshed session")
}
