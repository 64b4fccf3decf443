// Package cache persists terminal-local state between invocations.
// It keeps the working context (active store, printer device) and
// read-only snapshots used when the backend is unreachable.
package cache

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"washpos/pkg/libpos"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS stores (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	address TEXT NOT NULL DEFAULT '',
	phone   TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS inventory (
	id                  TEXT PRIMARY KEY,
	store_id            TEXT NOT NULL,
	name                TEXT NOT NULL,
	sku                 TEXT NOT NULL DEFAULT '',
	unit_price          INTEGER NOT NULL DEFAULT 0,
	quantity            INTEGER NOT NULL DEFAULT 0,
	low_stock_threshold INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_inventory_store ON inventory (store_id);
`

// Settings keys.
const (
	KeyActiveStore   = "active_store_id"
	KeyPrinterDevice = "printer_device"
)

// A Cache is a terminal-local SQLite database.
type Cache struct {
	db *sqlx.DB
}

// Open opens or creates the cache database at the given path.
func Open(path string) (*Cache, error) {
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "could not open cache database")
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not create cache schema")
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the value of a settings key. A missing key is not an error.
func (c *Cache) Get(key string) (string, error) {
	var value string
	err := c.db.Get(&value, "SELECT value FROM settings WHERE key = ?", key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, errors.Wrap(err, "could not read setting")
}

// Set upserts a settings key.
func (c *Cache) Set(key, value string) error {
	_, err := c.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return errors.Wrap(err, "could not write setting")
}

// ReplaceStores replaces the known-stores snapshot.
func (c *Cache) ReplaceStores(stores []libpos.Store) error {
	tx, err := c.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "could not begin cache transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM stores"); err != nil {
		return errors.Wrap(err, "could not clear stores snapshot")
	}

	stmt, err := tx.Prepare("INSERT INTO stores (id, name, address, phone) VALUES (?, ?, ?, ?)")
	if err != nil {
		return errors.Wrap(err, "could not prepare stores insert")
	}
	defer stmt.Close()

	for _, store := range stores {
		if _, err := stmt.Exec(store.ID, store.Name, store.Address, store.Phone); err != nil {
			return errors.Wrapf(err, "could not cache store %s", store.ID)
		}
	}

	return errors.Wrap(tx.Commit(), "could not commit stores snapshot")
}

// Stores returns the known-stores snapshot.
func (c *Cache) Stores() ([]libpos.Store, error) {
	rows, err := c.db.Query("SELECT id, name, address, phone FROM stores ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "could not read stores snapshot")
	}
	defer rows.Close()

	var stores []libpos.Store
	for rows.Next() {
		var store libpos.Store
		if err := rows.Scan(&store.ID, &store.Name, &store.Address, &store.Phone); err != nil {
			return nil, errors.Wrap(err, "could not scan cached store")
		}
		stores = append(stores, store)
	}
	return stores, errors.Wrap(rows.Err(), "could not read stores snapshot")
}

// FindStore resolves a store from the snapshot by id or exact name.
func (c *Cache) FindStore(idOrName string) (*libpos.Store, error) {
	var store libpos.Store
	err := c.db.QueryRow(
		"SELECT id, name, address, phone FROM stores WHERE id = ? OR name = ?",
		idOrName, idOrName,
	).Scan(&store.ID, &store.Name, &store.Address, &store.Phone)
	if err == sql.ErrNoRows {
		return nil, errors.Errorf("unknown store %s", idOrName)
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not read stores snapshot")
	}
	return &store, nil
}

// ReplaceInventory replaces the inventory snapshot of a store.
func (c *Cache) ReplaceInventory(storeID string, items []libpos.InventoryItem) error {
	tx, err := c.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "could not begin cache transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM inventory WHERE store_id = ?", storeID); err != nil {
		return errors.Wrap(err, "could not clear inventory snapshot")
	}

	stmt, err := tx.Prepare(`
		INSERT INTO inventory (id, store_id, name, sku, unit_price, quantity, low_stock_threshold)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "could not prepare inventory insert")
	}
	defer stmt.Close()

	for _, item := range items {
		_, err := stmt.Exec(item.ID, storeID, item.Name, item.SKU,
			item.UnitPrice, item.Quantity, item.LowStockThreshold)
		if err != nil {
			return errors.Wrapf(err, "could not cache item %s", item.ID)
		}
	}

	return errors.Wrap(tx.Commit(), "could not commit inventory snapshot")
}

// Inventory returns the inventory snapshot of a store.
func (c *Cache) Inventory(storeID string) ([]libpos.InventoryItem, error) {
	rows, err := c.db.Query(`
		SELECT id, store_id, name, sku, unit_price, quantity, low_stock_threshold
		FROM inventory WHERE store_id = ? ORDER BY name`, storeID)
	if err != nil {
		return nil, errors.Wrap(err, "could not read inventory snapshot")
	}
	defer rows.Close()

	var items []libpos.InventoryItem
	for rows.Next() {
		var item libpos.InventoryItem
		err := rows.Scan(&item.ID, &item.StoreID, &item.Name, &item.SKU,
			&item.UnitPrice, &item.Quantity, &item.LowStockThreshold)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan cached item")
		}
		items = append(items, item)
	}
	return items, errors.Wrap(rows.Err(), "could not read inventory snapshot")
}

// InvalidateInventory drops every inventory snapshot. Called when the
// terminal switches store so no stale snapshot survives the old context.
func (c *Cache) InvalidateInventory() error {
	_, err := c.db.Exec("DELETE FROM inventory")
	return errors.Wrap(err, "could not invalidate inventory snapshots")
}

// Purge drops all cached state, keeping the schema.
func (c *Cache) Purge() error {
	for _, table := range []string{"settings", "stores", "inventory"} {
		if _, err := c.db.Exec("DELETE FROM " + table); err != nil {
			return errors.Wrapf(err, "could not purge %s", table)
		}
	}
	return nil
}
