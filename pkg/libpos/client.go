package libpos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sync"

	"github.com/pkg/errors"
)

type (
	// A Client defines all interactions that can be performed on a WashPOS backend.
	Client interface {
		SessionClient

		// SignIn exchanges credentials for a session.
		SignIn(email, password string) (Session, error)
		// OnSessionChange registers a callback invoked whenever the held
		// session is replaced or cleared.
		OnSessionChange(fn func(Session))

		// Stores returns the stores the authenticated account can operate.
		Stores() ([]Store, error)

		// Inventory returns the inventory items of a store.
		Inventory(storeID string) ([]InventoryItem, error)
		// SaveInventoryItem creates or updates an inventory item.
		SaveInventoryItem(item *InventoryItem) error
		// DeleteInventoryItem removes an inventory item.
		DeleteInventoryItem(id string) error

		// Services returns the service catalogue of a store.
		Services(storeID string) ([]Service, error)
		// SaveService creates or updates a service.
		SaveService(service *Service) error
		// DeleteService removes a service.
		DeleteService(id string) error

		// PaymentMethods returns the payment methods of a store.
		PaymentMethods(storeID string) ([]PaymentMethod, error)
		// SavePaymentMethod creates or updates a payment method.
		SavePaymentMethod(pm *PaymentMethod) error
		// DeletePaymentMethod removes a payment method.
		DeletePaymentMethod(id string) error

		// Orders returns the orders of a store, optionally filtered by status.
		Orders(storeID, status string) ([]Order, error)
		// OrderByReference resolves an order from its printed/QR reference.
		OrderByReference(reference string) (*Order, error)

		// DashboardMetrics returns the current-day metrics of a store.
		DashboardMetrics(storeID string) (*DashboardMetrics, error)
	}

	// A SessionClient is the slice of Client the session monitor relies on.
	SessionClient interface {
		// Session returns the held session. It never performs a network call.
		Session() Session
		// SetSession replaces the held session wholesale.
		SetSession(session Session)
		// RefreshSession exchanges the held refresh token for a new session.
		RefreshSession() (Session, error)
		// SignOut revokes the session remotely and clears the held session.
		// The local session is cleared even when the remote revoke fails.
		SignOut() error
	}

	p      map[string]any
	client struct {
		http     *http.Client
		endpoint string
		apikey   string

		mu        sync.Mutex
		session   Session
		callbacks []func(Session)
	}
)

// A tokenResponse is the payload of the backend token endpoint.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// NewDefaultClient returns a new Client with default HTTP client.
func NewDefaultClient(endpoint, apikey string) (Client, error) {
	return NewClient(http.DefaultClient, endpoint, apikey)
}

// NewClient returns a new Client.
func NewClient(c *http.Client, endpoint, apikey string) (Client, error) {
	_, err := url.Parse(endpoint)
	return &client{http: c, endpoint: endpoint, apikey: apikey}, errors.Wrap(err, "could not parse endpoint")
}

func (c *client) SignIn(email, password string) (Session, error) {
	var token tokenResponse
	err := c.do(http.MethodPost, "/auth/v1/token", url.Values{"grant_type": []string{"password"}},
		p{"email": email, "password": password}, &token)
	if err != nil {
		return Session{}, err
	}

	session := c.sessionFromToken(token)
	c.SetSession(session)
	return session, nil
}

func (c *client) RefreshSession() (Session, error) {
	current := c.Session()
	if !current.Defined() {
		return Session{}, errors.New("no session defined")
	}

	var token tokenResponse
	err := c.do(http.MethodPost, "/auth/v1/token", url.Values{"grant_type": []string{"refresh_token"}},
		p{"refresh_token": current.RefreshToken}, &token)
	if err != nil {
		return Session{}, err
	}

	session := c.sessionFromToken(token)
	c.SetSession(session)
	return session, nil
}

func (c *client) SignOut() error {
	defined := c.Session().Defined()

	var err error
	if defined {
		err = c.do(http.MethodPost, "/auth/v1/logout", nil, nil, nil)
	}

	// The held session is cleared unconditionally so the terminal can never
	// keep operating on a dead token.
	c.SetSession(Session{})

	if !defined {
		return errors.New("no session defined")
	}
	return errors.Wrap(err, "could not revoke session")
}

func (c *client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *client) SetSession(session Session) {
	c.mu.Lock()
	c.session = session
	callbacks := make([]func(Session), len(c.callbacks))
	copy(callbacks, c.callbacks)
	c.mu.Unlock()

	// Callbacks run outside the lock, they are allowed to call back into the client.
	for _, fn := range callbacks {
		fn(session)
	}
}

func (c *client) OnSessionChange(fn func(Session)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, fn)
}

func (c *client) Stores() ([]Store, error) {
	var stores []Store
	err := c.do(http.MethodGet, "/rest/v1/stores", nil, nil, &stores)
	return stores, err
}

func (c *client) Inventory(storeID string) ([]InventoryItem, error) {
	var items []InventoryItem
	err := c.do(http.MethodGet, "/rest/v1/inventory", storeQuery(storeID), nil, &items)
	return items, err
}

func (c *client) SaveInventoryItem(item *InventoryItem) error {
	if item.ID == "" {
		return c.do(http.MethodPost, "/rest/v1/inventory", nil, item, item)
	}
	return c.do(http.MethodPatch, path.Join("/rest/v1/inventory", item.ID), nil, item, item)
}

func (c *client) DeleteInventoryItem(id string) error {
	return c.do(http.MethodDelete, path.Join("/rest/v1/inventory", id), nil, nil, nil)
}

func (c *client) Services(storeID string) ([]Service, error) {
	var services []Service
	err := c.do(http.MethodGet, "/rest/v1/services", storeQuery(storeID), nil, &services)
	return services, err
}

func (c *client) SaveService(service *Service) error {
	if service.ID == "" {
		return c.do(http.MethodPost, "/rest/v1/services", nil, service, service)
	}
	return c.do(http.MethodPatch, path.Join("/rest/v1/services", service.ID), nil, service, service)
}

func (c *client) DeleteService(id string) error {
	return c.do(http.MethodDelete, path.Join("/rest/v1/services", id), nil, nil, nil)
}

func (c *client) PaymentMethods(storeID string) ([]PaymentMethod, error) {
	var pms []PaymentMethod
	err := c.do(http.MethodGet, "/rest/v1/payment_methods", storeQuery(storeID), nil, &pms)
	return pms, err
}

func (c *client) SavePaymentMethod(pm *PaymentMethod) error {
	if pm.ID == "" {
		return c.do(http.MethodPost, "/rest/v1/payment_methods", nil, pm, pm)
	}
	return c.do(http.MethodPatch, path.Join("/rest/v1/payment_methods", pm.ID), nil, pm, pm)
}

func (c *client) DeletePaymentMethod(id string) error {
	return c.do(http.MethodDelete, path.Join("/rest/v1/payment_methods", id), nil, nil, nil)
}

func (c *client) Orders(storeID, status string) ([]Order, error) {
	query := storeQuery(storeID)
	if status != "" {
		query.Set("status", status)
	}

	var orders []Order
	err := c.do(http.MethodGet, "/rest/v1/orders", query, nil, &orders)
	return orders, err
}

func (c *client) OrderByReference(reference string) (*Order, error) {
	var order Order
	err := c.do(http.MethodGet, path.Join("/rest/v1/orders/reference", reference), nil, nil, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *client) DashboardMetrics(storeID string) (*DashboardMetrics, error) {
	var metrics DashboardMetrics
	err := c.do(http.MethodGet, "/rest/v1/metrics/dashboard", storeQuery(storeID), nil, &metrics)
	if err != nil {
		return nil, err
	}
	return &metrics, nil
}

// sessionFromToken builds a session from a token endpoint payload, falling
// back to the access token claims for fields the payload omits.
func (c *client) sessionFromToken(token tokenResponse) Session {
	session := Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt,
		UserID:       token.User.ID,
		Email:        token.User.Email,
	}

	if session.ExpiresAt == 0 || session.UserID == "" {
		subject, expiresAt, err := IntrospectToken(token.AccessToken)
		if err == nil {
			if session.ExpiresAt == 0 {
				session.ExpiresAt = expiresAt
			}
			if session.UserID == "" {
				session.UserID = subject
			}
		}
	}
	return session
}

func (c *client) do(method, route string, query url.Values, payload, dest any) error {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, route)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	//
	// Build request
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "could not serialize request body")
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return errors.Wrap(err, "could not build request")
	}
	req.Close = true
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	if c.apikey != "" {
		req.Header.Add("apikey", c.apikey)
	}
	if bearer := c.Session().AccessToken; bearer != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", bearer))
	}

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseAPIError(res.Body, res.StatusCode)
	}

	//
	// Process response
	if dest == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	dec := json.NewDecoder(res.Body)
	return errors.Wrap(dec.Decode(dest), "could not parse response")
}

func storeQuery(storeID string) url.Values {
	query := url.Values{}
	if storeID != "" {
		query.Set("store_id", storeID)
	}
	return query
}
