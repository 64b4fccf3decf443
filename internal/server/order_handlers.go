package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"washpos/internal/database"
	"washpos/internal/model"
	"washpos/internal/poserror"
	"washpos/internal/server/serializer"
)

// order contains the order and dashboard handlers.
type order struct {
	db database.Client
}

// List renders the orders of a store, optionally filtered by status.
func (h *order) List(c echo.Context) error {
	storeID := c.QueryParam("store_id")
	if storeID == "" {
		return c.JSON(http.StatusBadRequest, poserror.New("No store provided."))
	}

	orders, err := h.db.FindOrdersByStoreID(storeID, c.QueryParam("status"))
	if err != nil {
		return errors.Wrap(err, "could not get orders")
	}
	return c.JSON(http.StatusOK, serializer.Orders(orders))
}

// ByReference renders the order matching a printed/QR reference.
func (h *order) ByReference(c echo.Context) error {
	order, err := h.db.FindOrderByReference(c.Param("reference"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, poserror.NewWithTagCode(
				http.StatusNotFound,
				"unknown-reference",
				"No order found for this reference.",
			))
		}
		return errors.Wrap(err, "could not get access to database")
	}
	return c.JSON(http.StatusOK, serializer.Order(order))
}

// DashboardMetrics renders the current-day metrics of a store.
func (h *order) DashboardMetrics(c echo.Context) error {
	storeID := c.QueryParam("store_id")
	if storeID == "" {
		return c.JSON(http.StatusBadRequest, poserror.New("No store provided."))
	}

	orders, err := h.db.FindOrdersByStoreID(storeID, "")
	if err != nil {
		return errors.Wrap(err, "could not get orders")
	}

	var (
		today   = time.Now().UTC().Truncate(24 * time.Hour)
		count   int
		revenue int64
		badges  = map[string]int{
			model.OrderPending:    0,
			model.OrderProcessing: 0,
			model.OrderReady:      0,
		}
	)
	for _, o := range orders {
		if o.CreatedAt != nil && !o.CreatedAt.Before(today) {
			count++
			if o.Status != model.OrderCancelled {
				revenue += o.Total
			}
		}
		if _, ok := badges[o.Status]; ok {
			badges[o.Status]++
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"store_id":      storeID,
		"orders_today":  count,
		"revenue_today": revenue,
		"badges": echo.Map{
			"pending":    badges[model.OrderPending],
			"processing": badges[model.OrderProcessing],
			"ready":      badges[model.OrderReady],
		},
	})
}
