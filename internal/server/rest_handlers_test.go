package server_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/appleboy/gofight/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"washpos/internal/model"
)

func TestRequestStores(t *testing.T) {
	engine, ioc, r, cleanup := setup()
	defer cleanup()

	_, _, access := createUserWithSession(ioc)
	createStore(ioc, "Main Street")
	createStore(ioc, "Riverside")

	r.GET("/rest/v1/stores").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
	})

	r.GET("/rest/v1/stores").
		SetHeader(gofight.H{"Authorization": "Bearer " + access}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)

			var stores []map[string]any
			require.NoError(t, json.Unmarshal(r.Body.Bytes(), &stores))
			require.Len(t, stores, 2)
			assert.Equal(t, "Main Street", stores[0]["name"])
			assert.Equal(t, "Riverside", stores[1]["name"])
		})
}

func TestRequestInventoryCRUD(t *testing.T) {
	engine, ioc, r, cleanup := setup()
	defer cleanup()

	_, _, access := createUserWithSession(ioc)
	store := createStore(ioc, "Main Street")
	// gofight only sets the JSON content type on POST and PUT.
	header := gofight.H{
		"Authorization": "Bearer " + access,
		"Content-Type":  "application/json",
	}

	r.GET("/rest/v1/inventory").SetHeader(header).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusBadRequest, r.Code)
			assert.JSONEq(t, `{"error":{"message":"No store provided."}}`, r.Body.String())
		})

	r.POST("/rest/v1/inventory").SetHeader(header).
		SetJSON(gofight.D{"store_id": "no-such-store", "name": "Detergent"}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusBadRequest, r.Code)
			assert.JSONEq(t, `{"error":{"message":"No such store."}}`, r.Body.String())
		})

	var id string
	r.POST("/rest/v1/inventory").SetHeader(header).
		SetJSON(gofight.D{
			"store_id":            store.ID,
			"name":                "Detergent",
			"sku":                 "DTG-1",
			"unit_price":          1500,
			"quantity":            10,
			"low_stock_threshold": 3,
		}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)

			var item map[string]any
			require.NoError(t, json.Unmarshal(r.Body.Bytes(), &item))
			id = item["id"].(string)
			assert.NotEmpty(t, id)
			assert.Equal(t, float64(10), item["quantity"])
		})

	r.PATCH("/rest/v1/inventory/"+id).SetHeader(header).
		SetJSON(gofight.D{"name": "Detergent", "quantity": 2, "unit_price": 1500, "low_stock_threshold": 3}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)
		})

	r.GET("/rest/v1/inventory?store_id="+store.ID).SetHeader(header).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)

			var items []map[string]any
			require.NoError(t, json.Unmarshal(r.Body.Bytes(), &items))
			require.Len(t, items, 1)
			assert.Equal(t, float64(2), items[0]["quantity"])
		})

	r.DELETE("/rest/v1/inventory/"+id).SetHeader(header).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusNoContent, r.Code)
		})

	r.DELETE("/rest/v1/inventory/"+id).SetHeader(header).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusNotFound, r.Code)
		})
}

func TestRequestServicesCRUD(t *testing.T) {
	engine, ioc, r, cleanup := setup()
	defer cleanup()

	_, _, access := createUserWithSession(ioc)
	store := createStore(ioc, "Main Street")
	header := gofight.H{
		"Authorization": "Bearer " + access,
		"Content-Type":  "application/json",
	}

	r.POST("/rest/v1/services").SetHeader(header).
		SetJSON(gofight.D{"store_id": store.ID, "name": "Wash & Fold"}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusBadRequest, r.Code)
			assert.JSONEq(t, `{"error":{"message":"Please provide all required parameters."}}`, r.Body.String())
		})

	var id string
	r.POST("/rest/v1/services").SetHeader(header).
		SetJSON(gofight.D{
			"store_id":         store.ID,
			"name":             "Wash & Fold",
			"unit":             "kg",
			"unit_price":       800,
			"turnaround_hours": 24,
		}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)

			var service map[string]any
			require.NoError(t, json.Unmarshal(r.Body.Bytes(), &service))
			id = service["id"].(string)
		})

	r.PATCH("/rest/v1/services/"+id).SetHeader(header).
		SetJSON(gofight.D{"name": "Express Wash & Fold", "unit": "kg", "unit_price": 1200, "turnaround_hours": 6}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)
		})

	r.GET("/rest/v1/services?store_id="+store.ID).SetHeader(header).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			var services []map[string]any
			require.NoError(t, json.Unmarshal(r.Body.Bytes(), &services))
			require.Len(t, services, 1)
			assert.Equal(t, "Express Wash & Fold", services[0]["name"])
			assert.Equal(t, float64(6), services[0]["turnaround_hours"])
		})

	r.DELETE("/rest/v1/services/"+id).SetHeader(header).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusNoContent, r.Code)
		})
}

func TestRequestPaymentMethodsCRUD(t *testing.T) {
	engine, ioc, r, cleanup := setup()
	defer cleanup()

	_, _, access := createUserWithSession(ioc)
	store := createStore(ioc, "Main Street")
	header := gofight.H{
		"Authorization": "Bearer " + access,
		"Content-Type":  "application/json",
	}

	var id string
	r.POST("/rest/v1/payment_methods").SetHeader(header).
		SetJSON(gofight.D{"store_id": store.ID, "name": "Cash", "kind": "cash"}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)

			var pm map[string]any
			require.NoError(t, json.Unmarshal(r.Body.Bytes(), &pm))
			id = pm["id"].(string)
			assert.Equal(t, true, pm["enabled"])
		})

	r.PATCH("/rest/v1/payment_methods/"+id).SetHeader(header).
		SetJSON(gofight.D{"enabled": false}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)

			var pm map[string]any
			require.NoError(t, json.Unmarshal(r.Body.Bytes(), &pm))
			assert.Equal(t, false, pm["enabled"])
		})
}

func TestRequestOrders(t *testing.T) {
	engine, ioc, r, cleanup := setup()
	defer cleanup()

	_, _, access := createUserWithSession(ioc)
	store := createStore(ioc, "Main Street")
	header := gofight.H{"Authorization": "Bearer " + access}

	for i, status := range []string{model.OrderPending, model.OrderPending, model.OrderReady, model.OrderCompleted} {
		order := &model.Order{
			StoreID:   store.ID,
			Reference: fmt.Sprintf("WP-%04d", i),
			Customer:  "Alice",
			Status:    status,
			Total:     2400,
		}
		if err := ioc.Database.Save(order); err != nil {
			panic(err)
		}
	}
	lookup := &model.Order{
		StoreID:   store.ID,
		Reference: "WP-0042",
		Customer:  "Bob",
		Status:    model.OrderReady,
		Total:     1200,
		Lines: []model.OrderLine{
			{ServiceName: "Wash & Fold", Quantity: 1.5, UnitPrice: 800, Amount: 1200},
		},
	}
	if err := ioc.Database.Save(lookup); err != nil {
		panic(err)
	}

	r.GET("/rest/v1/orders?store_id="+store.ID).SetHeader(header).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)

			var orders []map[string]any
			require.NoError(t, json.Unmarshal(r.Body.Bytes(), &orders))
			assert.Len(t, orders, 5)
		})

	r.GET("/rest/v1/orders?store_id="+store.ID+"&status=pending").SetHeader(header).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			var orders []map[string]any
			require.NoError(t, json.Unmarshal(r.Body.Bytes(), &orders))
			assert.Len(t, orders, 2)
		})

	r.GET("/rest/v1/orders/reference/WP-1337").SetHeader(header).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusNotFound, r.Code)
			assert.JSONEq(t, `{"error":{"tag":"unknown-reference", "message":"No order found for this reference."}}`, r.Body.String())
		})

	r.GET("/rest/v1/orders/reference/WP-0042").SetHeader(header).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)

			var order map[string]any
			require.NoError(t, json.Unmarshal(r.Body.Bytes(), &order))
			assert.Equal(t, "Bob", order["customer"])
			assert.Len(t, order["lines"], 1)
		})

	r.GET("/rest/v1/metrics/dashboard?store_id="+store.ID).SetHeader(header).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)

			var metrics struct {
				OrdersToday  int   `json:"orders_today"`
				RevenueToday int64 `json:"revenue_today"`
				Badges       struct {
					Pending    int `json:"pending"`
					Processing int `json:"processing"`
					Ready      int `json:"ready"`
				} `json:"badges"`
			}
			require.NoError(t, json.Unmarshal(r.Body.Bytes(), &metrics))
			assert.Equal(t, 5, metrics.OrdersToday)
			assert.Equal(t, int64(2400*4+1200), metrics.RevenueToday)
			assert.Equal(t, 2, metrics.Badges.Pending)
			assert.Equal(t, 2, metrics.Badges.Ready)
		})
}
