package client

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"

	"washpos/pkg/libpos"
)

// Inventory lists the inventory of the active store. When the backend is
// unreachable it falls back on the last cached snapshot.
func Inventory() error {
	kv, err := opencache()
	if err != nil {
		return err
	}
	defer kv.Close()

	store, err := activeStore(kv)
	if err != nil {
		return err
	}

	var items []libpos.InventoryItem
	stale := false

	client, _, err := connect()
	if err == nil {
		if items, err = client.Inventory(store.ID); err != nil {
			return errors.Wrap(err, "could not list inventory")
		}
		if err := kv.ReplaceInventory(store.ID, items); err != nil {
			return err
		}
	} else {
		NewLogger().WithError(err).Warn("falling back on cached inventory")
		if items, err = kv.Inventory(store.ID); err != nil {
			return err
		}
		stale = true
	}

	fmt.Printf("Inventory of %s", store.Name)
	if stale {
		fmt.Print(" (cached)")
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSKU\tPRICE\tQTY\t")
	for _, item := range items {
		flag := ""
		if item.LowStock() {
			flag = "LOW"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			item.ID, item.Name, item.SKU, money(item.UnitPrice), item.Quantity, flag)
	}
	return w.Flush()
}

// AddInventoryItem creates an inventory item on the active store.
func AddInventoryItem(name, sku string, price int64, quantity, threshold int) error {
	client, _, err := connect()
	if err != nil {
		return err
	}

	kv, err := opencache()
	if err != nil {
		return err
	}
	defer kv.Close()

	store, err := activeStore(kv)
	if err != nil {
		return err
	}

	item := &libpos.InventoryItem{
		StoreID:           store.ID,
		Name:              name,
		SKU:               sku,
		UnitPrice:         price,
		Quantity:          quantity,
		LowStockThreshold: threshold,
	}
	if err := client.SaveInventoryItem(item); err != nil {
		return errors.Wrap(err, "could not save item")
	}

	fmt.Printf("Created %s (%s)\n", item.Name, item.ID)
	return nil
}

// SetInventoryQuantity updates the stocked quantity of an item.
func SetInventoryQuantity(id string, quantity int) error {
	client, _, err := connect()
	if err != nil {
		return err
	}

	kv, err := opencache()
	if err != nil {
		return err
	}
	defer kv.Close()

	store, err := activeStore(kv)
	if err != nil {
		return err
	}

	items, err := client.Inventory(store.ID)
	if err != nil {
		return errors.Wrap(err, "could not list inventory")
	}

	for _, item := range items {
		if item.ID != id {
			continue
		}

		item.Quantity = quantity
		if err := client.SaveInventoryItem(&item); err != nil {
			return errors.Wrap(err, "could not save item")
		}
		if item.LowStock() {
			fmt.Printf("%s is low on stock (%d left)\n", item.Name, item.Quantity)
		}
		return nil
	}
	return errors.Errorf("unknown item %s", id)
}

// DeleteInventoryItem removes an inventory item.
func DeleteInventoryItem(id string) error {
	client, _, err := connect()
	if err != nil {
		return err
	}

	if err := client.DeleteInventoryItem(id); err != nil {
		return errors.Wrap(err, "could not delete item")
	}
	fmt.Println("Deleted", id)
	return nil
}
