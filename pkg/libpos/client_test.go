package libpos_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"washpos/pkg/libpos"
)

func TestClientSignIn(t *testing.T) {
	expiresAt := time.Now().Add(time.Hour).Unix()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "apikey-test", r.Header.Get("apikey"))

		var params map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, "owner@laundry.lan", params["email"])
		assert.Equal(t, "password42", params["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access",
			"token_type":    "bearer",
			"refresh_token": "refresh",
			"expires_at":    expiresAt,
			"user":          map[string]string{"id": "user-42", "email": "owner@laundry.lan"},
		})
	}))
	defer server.Close()

	client, err := libpos.NewDefaultClient(server.URL, "apikey-test")
	require.NoError(t, err)

	session, err := client.SignIn("owner@laundry.lan", "password42")
	require.NoError(t, err)
	assert.Equal(t, "access", session.AccessToken)
	assert.Equal(t, "refresh", session.RefreshToken)
	assert.Equal(t, expiresAt, session.ExpiresAt)
	assert.Equal(t, "user-42", session.UserID)
	assert.Equal(t, session, client.Session())
}

func TestClientSignInFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"tag":"invalid-auth","message":"Invalid login credentials."}}`))
	}))
	defer server.Close()

	client, err := libpos.NewDefaultClient(server.URL, "apikey-test")
	require.NoError(t, err)

	_, err = client.SignIn("owner@laundry.lan", "nope")
	require.Error(t, err)

	apierr, ok := err.(*libpos.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apierr.StatusCode)
	assert.Equal(t, "invalid-auth", apierr.Err.Tag)
	assert.Equal(t, "Invalid login credentials.", apierr.Error())
	assert.False(t, client.Session().Defined())
}

func TestClientRefreshSession(t *testing.T) {
	expiresAt := time.Now().Add(time.Hour).Unix()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))

		var params map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, "refresh-old", params["refresh_token"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-new",
			"refresh_token": "refresh-new",
			"expires_at":    expiresAt,
			"user":          map[string]string{"id": "user-42"},
		})
	}))
	defer server.Close()

	client, err := libpos.NewDefaultClient(server.URL, "apikey-test")
	require.NoError(t, err)

	// Refreshing without a session is an error, not a request.
	_, err = client.RefreshSession()
	assert.Error(t, err)

	client.SetSession(libpos.Session{
		AccessToken:  "access-old",
		RefreshToken: "refresh-old",
		ExpiresAt:    time.Now().Unix() + 120,
	})

	session, err := client.RefreshSession()
	require.NoError(t, err)
	assert.Equal(t, "access-new", session.AccessToken)
	assert.Equal(t, "refresh-new", session.RefreshToken)
	assert.Equal(t, session, client.Session())
}

func TestClientSignOut(t *testing.T) {
	var revoked bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		revoked = true
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := libpos.NewDefaultClient(server.URL, "apikey-test")
	require.NoError(t, err)

	client.SetSession(libpos.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Unix() + 3600,
	})

	assert.NoError(t, client.SignOut())
	assert.True(t, revoked)
	assert.False(t, client.Session().Defined())
}

func TestClientSignOutRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"Unexpected error"}}`))
	}))
	defer server.Close()

	client, err := libpos.NewDefaultClient(server.URL, "apikey-test")
	require.NoError(t, err)

	client.SetSession(libpos.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Unix() + 3600,
	})

	// The remote revoke failed but the local session is gone regardless.
	assert.Error(t, client.SignOut())
	assert.False(t, client.Session().Defined())
}

func TestClientOnSessionChange(t *testing.T) {
	client, err := libpos.NewDefaultClient("http://localhost:0", "apikey-test")
	require.NoError(t, err)

	var changes []libpos.Session
	client.OnSessionChange(func(s libpos.Session) {
		changes = append(changes, s)
	})

	session := libpos.Session{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: 42}
	client.SetSession(session)
	client.SetSession(libpos.Session{})

	require.Len(t, changes, 2)
	assert.Equal(t, session, changes[0])
	assert.False(t, changes[1].Defined())
}

func TestClientRESTResources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/rest/v1/stores":
			json.NewEncoder(w).Encode([]libpos.Store{{ID: "store-1", Name: "Main Street"}})
		case "/rest/v1/inventory":
			assert.Equal(t, "store-1", r.URL.Query().Get("store_id"))
			json.NewEncoder(w).Encode([]libpos.InventoryItem{
				{ID: "item-1", StoreID: "store-1", Name: "Detergent", Quantity: 3, LowStockThreshold: 5},
			})
		case "/rest/v1/orders":
			assert.Equal(t, "ready", r.URL.Query().Get("status"))
			json.NewEncoder(w).Encode([]libpos.Order{{ID: "order-1", Status: libpos.OrderReady}})
		case "/rest/v1/orders/reference/WP-0042":
			json.NewEncoder(w).Encode(libpos.Order{ID: "order-1", Reference: "WP-0042"})
		case "/rest/v1/metrics/dashboard":
			json.NewEncoder(w).Encode(libpos.DashboardMetrics{StoreID: "store-1", OrdersToday: 7})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := libpos.NewDefaultClient(server.URL, "apikey-test")
	require.NoError(t, err)
	client.SetSession(libpos.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Unix() + 3600,
	})

	stores, err := client.Stores()
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "Main Street", stores[0].Name)

	items, err := client.Inventory("store-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].LowStock())

	orders, err := client.Orders("store-1", libpos.OrderReady)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order, err := client.OrderByReference("WP-0042")
	require.NoError(t, err)
	assert.Equal(t, "WP-0042", order.Reference)

	metrics, err := client.DashboardMetrics("store-1")
	require.NoError(t, err)
	assert.Equal(t, 7, metrics.OrdersToday)
}

func TestCountBadges(t *testing.T) {
	orders := []libpos.Order{
		{Status: libpos.OrderPending},
		{Status: libpos.OrderPending},
		{Status: libpos.OrderProcessing},
		{Status: libpos.OrderReady},
		{Status: libpos.OrderCompleted},
		{Status: libpos.OrderCancelled},
	}

	badges := libpos.CountBadges(orders)
	assert.Equal(t, libpos.BadgeCounts{Pending: 2, Processing: 1, Ready: 1}, badges)
	assert.Equal(t, 4, badges.Total())
}
