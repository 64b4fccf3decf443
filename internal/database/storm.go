package database

import (
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/asdine/storm/v3/q"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"washpos/internal/model"
	"washpos/pkg/stormbinc"
	"washpos/pkg/stormcbor"
)

type strm struct {
	db *storm.DB
}

// StormCodec is the format used to store data in the database.
var StormCodec = storm.Codec(msgpack.Codec)

// SetStormCodec overrides the storage format. It must be called before any
// connection is opened and the chosen codec must never change once data has
// been written.
func SetStormCodec(name string) error {
	switch name {
	case "", "msgpack":
		StormCodec = storm.Codec(msgpack.Codec)
	case "cbor":
		StormCodec = storm.Codec(stormcbor.Codec)
	case "binc":
		StormCodec = storm.Codec(stormbinc.Codec)
	default:
		return errors.Errorf("unsupported database codec %s", name)
	}
	return nil
}

// StormInit initializes Storm database.
func StormInit(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	for _, m := range []model.Model{
		&model.User{},
		&model.Session{},
		&model.Store{},
		&model.InventoryItem{},
		&model.Service{},
		&model.PaymentMethod{},
		&model.Order{},
	} {
		if err := db.Init(m); err != nil {
			return errors.Wrapf(err, "could not init %T index", m)
		}
	}
	return nil
}

// StormReIndex reindex Storm database.
func StormReIndex(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	for _, m := range []model.Model{
		&model.User{},
		&model.Session{},
		&model.Store{},
		&model.InventoryItem{},
		&model.Service{},
		&model.PaymentMethod{},
		&model.Order{},
	} {
		if err := db.ReIndex(m); err != nil {
			return errors.Wrapf(err, "could not reindex %T", m)
		}
	}
	return nil
}

// StormOpen returns a new Storm database connection.
func StormOpen(database string) (Client, error) {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	return &strm{
		db: db,
	}, nil
}

// Save inserts or updates the entry in database with the given model.
func (c *strm) Save(m model.Model) error {
	t := time.Now().UTC()
	m.SetUpdatedAt(t)

	if m.GetID() == "" {
		m.SetID(uuid.Must(uuid.NewV4()).String())
		m.SetCreatedAt(t)
	}

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

// Delete deletes the entry in database with the given model.
func (c *strm) Delete(m model.Model) error {
	return errors.Wrap(c.db.DeleteStruct(m), "could not delete the model")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// FindUser returns the user for the given id (UUID).
func (c *strm) FindUser(id string) (*model.User, error) {
	var user model.User
	if err := c.db.One("ID", id, &user); err != nil {
		return nil, errors.Wrap(err, "find user by id")
	}
	return &user, nil
}

// FindUserByMail returns the user for the given email.
func (c *strm) FindUserByMail(email string) (*model.User, error) {
	var user model.User
	if err := c.db.One("Email", email, &user); err != nil {
		return nil, errors.Wrap(err, "find user by mail")
	}
	return &user, nil
}

// FindSession returns the session for the given id (UUID).
func (c *strm) FindSession(id string) (*model.Session, error) {
	var session model.Session
	if err := c.db.One("ID", id, &session); err != nil {
		return nil, errors.Wrap(err, "find session by id")
	}
	return &session, nil
}

// FindSessionByRefreshToken returns the session holding the given refresh token.
func (c *strm) FindSessionByRefreshToken(token string) (*model.Session, error) {
	var session model.Session
	if err := c.db.One("RefreshToken", token, &session); err != nil {
		return nil, errors.Wrap(err, "find session by refresh token")
	}
	return &session, nil
}

// RevokeExpiredSessions removes all sessions expired at the given time.
func (c *strm) RevokeExpiredSessions(t time.Time) error {
	err := c.db.Select(q.Lt("ExpireAt", t)).Delete(&model.Session{})
	if err != nil && !c.IsNotFound(err) {
		return errors.Wrap(err, "could not revoke expired sessions")
	}
	return nil
}

// FindStore returns the store for the given id (UUID).
func (c *strm) FindStore(id string) (*model.Store, error) {
	var store model.Store
	if err := c.db.One("ID", id, &store); err != nil {
		return nil, errors.Wrap(err, "find store by id")
	}
	return &store, nil
}

// FindStores returns all the stores.
func (c *strm) FindStores() ([]*model.Store, error) {
	stores := make([]*model.Store, 0)
	err := c.db.AllByIndex("CreatedAt", &stores)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find stores")
	}
	return stores, nil
}

// FindInventoryItem returns the inventory item for the given id (UUID).
func (c *strm) FindInventoryItem(id string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := c.db.One("ID", id, &item); err != nil {
		return nil, errors.Wrap(err, "find inventory item by id")
	}
	return &item, nil
}

// FindInventoryByStoreID returns all the inventory items of a store.
func (c *strm) FindInventoryByStoreID(storeID string) ([]*model.InventoryItem, error) {
	items := make([]*model.InventoryItem, 0)
	err := c.db.Select(q.Eq("StoreID", storeID)).OrderBy("CreatedAt").Find(&items)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find inventory items")
	}
	return items, nil
}

// FindService returns the service for the given id (UUID).
func (c *strm) FindService(id string) (*model.Service, error) {
	var service model.Service
	if err := c.db.One("ID", id, &service); err != nil {
		return nil, errors.Wrap(err, "find service by id")
	}
	return &service, nil
}

// FindServicesByStoreID returns all the services of a store.
func (c *strm) FindServicesByStoreID(storeID string) ([]*model.Service, error) {
	services := make([]*model.Service, 0)
	err := c.db.Select(q.Eq("StoreID", storeID)).OrderBy("CreatedAt").Find(&services)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find services")
	}
	return services, nil
}

// FindPaymentMethod returns the payment method for the given id (UUID).
func (c *strm) FindPaymentMethod(id string) (*model.PaymentMethod, error) {
	var pm model.PaymentMethod
	if err := c.db.One("ID", id, &pm); err != nil {
		return nil, errors.Wrap(err, "find payment method by id")
	}
	return &pm, nil
}

// FindPaymentMethodsByStoreID returns all the payment methods of a store.
func (c *strm) FindPaymentMethodsByStoreID(storeID string) ([]*model.PaymentMethod, error) {
	pms := make([]*model.PaymentMethod, 0)
	err := c.db.Select(q.Eq("StoreID", storeID)).OrderBy("CreatedAt").Find(&pms)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find payment methods")
	}
	return pms, nil
}

// FindOrder returns the order for the given id (UUID).
func (c *strm) FindOrder(id string) (*model.Order, error) {
	var order model.Order
	if err := c.db.One("ID", id, &order); err != nil {
		return nil, errors.Wrap(err, "find order by id")
	}
	return &order, nil
}

// FindOrderByReference returns the order for the given reference.
func (c *strm) FindOrderByReference(reference string) (*model.Order, error) {
	var order model.Order
	if err := c.db.One("Reference", reference, &order); err != nil {
		return nil, errors.Wrap(err, "find order by reference")
	}
	return &order, nil
}

// FindOrdersByStoreID returns the orders of a store, optionally filtered by
// status, most recent first.
func (c *strm) FindOrdersByStoreID(storeID, status string) ([]*model.Order, error) {
	query := []q.Matcher{q.Eq("StoreID", storeID)}
	if status != "" {
		query = append(query, q.Eq("Status", status))
	}

	orders := make([]*model.Order, 0)
	err := c.db.Select(query...).OrderBy("CreatedAt").Reverse().Find(&orders)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find orders")
	}
	return orders, nil
}
