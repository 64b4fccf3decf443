package database

import (
	"time"

	"washpos/internal/model"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool

		UserInteraction
		SessionInteraction
		StoreInteraction
		InventoryInteraction
		ServiceInteraction
		PaymentMethodInteraction
		OrderInteraction
	}

	// An UserInteraction defines all the methods used to interact with a user record.
	UserInteraction interface {
		// FindUser returns the user for the given id (UUID).
		FindUser(id string) (*model.User, error)
		// FindUserByMail returns the user for the given email.
		FindUserByMail(email string) (*model.User, error)
	}

	// A SessionInteraction defines all the methods used to interact with a session record.
	SessionInteraction interface {
		// FindSession returns the session for the given id (UUID).
		FindSession(id string) (*model.Session, error)
		// FindSessionByRefreshToken returns the session holding the given refresh token.
		FindSessionByRefreshToken(token string) (*model.Session, error)
		// RevokeExpiredSessions removes all sessions expired at the given time.
		RevokeExpiredSessions(t time.Time) error
	}

	// A StoreInteraction defines all the methods used to interact with a store record.
	StoreInteraction interface {
		// FindStore returns the store for the given id (UUID).
		FindStore(id string) (*model.Store, error)
		// FindStores returns all the stores.
		FindStores() ([]*model.Store, error)
	}

	// An InventoryInteraction defines all the methods used to interact with inventory records.
	InventoryInteraction interface {
		// FindInventoryItem returns the inventory item for the given id (UUID).
		FindInventoryItem(id string) (*model.InventoryItem, error)
		// FindInventoryByStoreID returns all the inventory items of a store.
		FindInventoryByStoreID(storeID string) ([]*model.InventoryItem, error)
	}

	// A ServiceInteraction defines all the methods used to interact with service records.
	ServiceInteraction interface {
		// FindService returns the service for the given id (UUID).
		FindService(id string) (*model.Service, error)
		// FindServicesByStoreID returns all the services of a store.
		FindServicesByStoreID(storeID string) ([]*model.Service, error)
	}

	// A PaymentMethodInteraction defines all the methods used to interact with payment method records.
	PaymentMethodInteraction interface {
		// FindPaymentMethod returns the payment method for the given id (UUID).
		FindPaymentMethod(id string) (*model.PaymentMethod, error)
		// FindPaymentMethodsByStoreID returns all the payment methods of a store.
		FindPaymentMethodsByStoreID(storeID string) ([]*model.PaymentMethod, error)
	}

	// An OrderInteraction defines all the methods used to interact with order records.
	OrderInteraction interface {
		// FindOrder returns the order for the given id (UUID).
		FindOrder(id string) (*model.Order, error)
		// FindOrderByReference returns the order for the given reference.
		FindOrderByReference(reference string) (*model.Order, error)
		// FindOrdersByStoreID returns the orders of a store, optionally
		// filtered by status, most recent first.
		FindOrdersByStoreID(storeID, status string) ([]*model.Order, error)
	}
)
