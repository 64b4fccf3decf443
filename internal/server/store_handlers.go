package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"washpos/internal/database"
	"washpos/internal/server/serializer"
)

// store contains the store handlers.
type store struct {
	db database.Client
}

// List renders the stores the account can operate.
func (h *store) List(c echo.Context) error {
	stores, err := h.db.FindStores()
	if err != nil {
		return errors.Wrap(err, "could not get stores")
	}
	return c.JSON(http.StatusOK, serializer.Stores(stores))
}
