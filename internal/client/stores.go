package client

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"

	"washpos/internal/cache"
)

// Stores lists the stores the account can operate.
func Stores() error {
	client, _, err := connect()
	if err != nil {
		return err
	}

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
	active, _ := kv.Get(cache.KeyActiveStore)

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "  \tID\tNAME\tADDRESS\tPHONE")
	for _, store := range stores {
		marker := " "
		if store.ID == active {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, store.ID, store.Name, store.Address, store.Phone)
	}
	return w.Flush()
}

// UseStore switches the store the terminal operates.
func UseStore(idOrName string) error {
	kv, err := opencache()
	if err != nil {
		return err
	}
	defer kv.Close()

	store, err := kv.FindStore(idOrName)
	if err != nil {
		// The snapshot may be stale, resync it before giving up.
		client, _, cerr := connect()
		if cerr != nil {
			return err
		}
		stores, cerr := client.Stores()
		if cerr != nil {
			return errors.Wrap(cerr, "could not list stores")
		}
		if cerr := kv.ReplaceStores(stores); cerr != nil {
			return cerr
		}
		if store, err = kv.FindStore(idOrName); err != nil {
			return err
		}
	}

	if err := kv.Set(cache.KeyActiveStore, store.ID); err != nil {
		return err
	}
	if err := kv.InvalidateInventory(); err != nil {
		return err
	}
	fmt.Printf("Active store: %s\n", store.Name)
	return nil
}
