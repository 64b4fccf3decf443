package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"washpos/internal/database"
	"washpos/internal/model"
	"washpos/internal/poserror"
	"washpos/internal/server/serializer"
)

// inventory contains the inventory handlers.
type inventory struct {
	db database.Client
}

type inventoryParams struct {
	StoreID           string `json:"store_id"`
	Name              string `json:"name"`
	SKU               string `json:"sku"`
	UnitPrice         int64  `json:"unit_price"`
	Quantity          int    `json:"quantity"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

// List renders the inventory of a store.
func (h *inventory) List(c echo.Context) error {
	storeID := c.QueryParam("store_id")
	if storeID == "" {
		return c.JSON(http.StatusBadRequest, poserror.New("No store provided."))
	}

	items, err := h.db.FindInventoryByStoreID(storeID)
	if err != nil {
		return errors.Wrap(err, "could not get inventory")
	}
	return c.JSON(http.StatusOK, serializer.Inventory(items))
}

// Create inserts a new inventory item.
func (h *inventory) Create(c echo.Context) error {
	var params inventoryParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, poserror.New("Could not get item's params."))
	}
	if params.StoreID == "" || params.Name == "" {
		return c.JSON(http.StatusBadRequest, poserror.New("Please provide all required parameters."))
	}
	if _, err := h.db.FindStore(params.StoreID); err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusBadRequest, poserror.New("No such store."))
		}
		return errors.Wrap(err, "could not get access to database")
	}

	item := &model.InventoryItem{
		StoreID:           params.StoreID,
		Name:              params.Name,
		SKU:               params.SKU,
		UnitPrice:         params.UnitPrice,
		Quantity:          params.Quantity,
		LowStockThreshold: params.LowStockThreshold,
	}
	if err := h.db.Save(item); err != nil {
		return errors.Wrap(err, "could not persist item")
	}

	return c.JSON(http.StatusOK, serializer.InventoryItem(item))
}

// Update modifies an existing inventory item.
func (h *inventory) Update(c echo.Context) error {
	item, err := h.db.FindInventoryItem(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, poserror.New("No such item."))
		}
		return errors.Wrap(err, "could not get access to database")
	}

	var params inventoryParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, poserror.New("Could not get item's params."))
	}

	if params.Name != "" {
		item.Name = params.Name
	}
	item.SKU = params.SKU
	item.UnitPrice = params.UnitPrice
	item.Quantity = params.Quantity
	item.LowStockThreshold = params.LowStockThreshold

	if err := h.db.Save(item); err != nil {
		return errors.Wrap(err, "could not persist item")
	}
	return c.JSON(http.StatusOK, serializer.InventoryItem(item))
}

// Delete removes an inventory item.
func (h *inventory) Delete(c echo.Context) error {
	item, err := h.db.FindInventoryItem(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, poserror.New("No such item."))
		}
		return errors.Wrap(err, "could not get access to database")
	}

	if err := h.db.Delete(item); err != nil {
		return errors.Wrap(err, "could not delete item")
	}
	return c.NoContent(http.StatusNoContent)
}
