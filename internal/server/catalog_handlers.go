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

// catalog contains the service and payment method handlers.
type catalog struct {
	db database.Client
}

type (
	serviceParams struct {
		StoreID         string `json:"store_id"`
		Name            string `json:"name"`
		UnitPrice       int64  `json:"unit_price"`
		Unit            string `json:"unit"`
		TurnaroundHours int    `json:"turnaround_hours"`
	}

	paymentMethodParams struct {
		StoreID string `json:"store_id"`
		Name    string `json:"name"`
		Kind    string `json:"kind"`
		Enabled *bool  `json:"enabled"`
	}
)

// ListServices renders the service catalogue of a store.
func (h *catalog) ListServices(c echo.Context) error {
	storeID := c.QueryParam("store_id")
	if storeID == "" {
		return c.JSON(http.StatusBadRequest, poserror.New("No store provided."))
	}

	services, err := h.db.FindServicesByStoreID(storeID)
	if err != nil {
		return errors.Wrap(err, "could not get services")
	}
	return c.JSON(http.StatusOK, serializer.Services(services))
}

// CreateService inserts a new service.
func (h *catalog) CreateService(c echo.Context) error {
	var params serviceParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, poserror.New("Could not get service's params."))
	}
	if params.StoreID == "" || params.Name == "" || params.Unit == "" {
		return c.JSON(http.StatusBadRequest, poserror.New("Please provide all required parameters."))
	}

	service := &model.Service{
		StoreID:         params.StoreID,
		Name:            params.Name,
		UnitPrice:       params.UnitPrice,
		Unit:            params.Unit,
		TurnaroundHours: params.TurnaroundHours,
	}
	if err := h.db.Save(service); err != nil {
		return errors.Wrap(err, "could not persist service")
	}
	return c.JSON(http.StatusOK, serializer.Service(service))
}

// UpdateService modifies an existing service.
func (h *catalog) UpdateService(c echo.Context) error {
	service, err := h.db.FindService(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, poserror.New("No such service."))
		}
		return errors.Wrap(err, "could not get access to database")
	}

	var params serviceParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, poserror.New("Could not get service's params."))
	}

	if params.Name != "" {
		service.Name = params.Name
	}
	if params.Unit != "" {
		service.Unit = params.Unit
	}
	service.UnitPrice = params.UnitPrice
	service.TurnaroundHours = params.TurnaroundHours

	if err := h.db.Save(service); err != nil {
		return errors.Wrap(err, "could not persist service")
	}
	return c.JSON(http.StatusOK, serializer.Service(service))
}

// DeleteService removes a service.
func (h *catalog) DeleteService(c echo.Context) error {
	service, err := h.db.FindService(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, poserror.New("No such service."))
		}
		return errors.Wrap(err, "could not get access to database")
	}

	if err := h.db.Delete(service); err != nil {
		return errors.Wrap(err, "could not delete service")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPaymentMethods renders the payment methods of a store.
func (h *catalog) ListPaymentMethods(c echo.Context) error {
	storeID := c.QueryParam("store_id")
	if storeID == "" {
		return c.JSON(http.StatusBadRequest, poserror.New("No store provided."))
	}

	pms, err := h.db.FindPaymentMethodsByStoreID(storeID)
	if err != nil {
		return errors.Wrap(err, "could not get payment methods")
	}
	return c.JSON(http.StatusOK, serializer.PaymentMethods(pms))
}

// CreatePaymentMethod inserts a new payment method.
func (h *catalog) CreatePaymentMethod(c echo.Context) error {
	var params paymentMethodParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, poserror.New("Could not get payment method's params."))
	}
	if params.StoreID == "" || params.Name == "" || params.Kind == "" {
		return c.JSON(http.StatusBadRequest, poserror.New("Please provide all required parameters."))
	}

	pm := &model.PaymentMethod{
		StoreID: params.StoreID,
		Name:    params.Name,
		Kind:    params.Kind,
		Enabled: true,
	}
	if params.Enabled != nil {
		pm.Enabled = *params.Enabled
	}
	if err := h.db.Save(pm); err != nil {
		return errors.Wrap(err, "could not persist payment method")
	}
	return c.JSON(http.StatusOK, serializer.PaymentMethod(pm))
}

// UpdatePaymentMethod modifies an existing payment method.
func (h *catalog) UpdatePaymentMethod(c echo.Context) error {
	pm, err := h.db.FindPaymentMethod(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, poserror.New("No such payment method."))
		}
		return errors.Wrap(err, "could not get access to database")
	}

	var params paymentMethodParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, poserror.New("Could not get payment method's params."))
	}

	if params.Name != "" {
		pm.Name = params.Name
	}
	if params.Kind != "" {
		pm.Kind = params.Kind
	}
	if params.Enabled != nil {
		pm.Enabled = *params.Enabled
	}

	if err := h.db.Save(pm); err != nil {
		return errors.Wrap(err, "could not persist payment method")
	}
	return c.JSON(http.StatusOK, serializer.PaymentMethod(pm))
}

// DeletePaymentMethod removes a payment method.
func (h *catalog) DeletePaymentMethod(c echo.Context) error {
	pm, err := h.db.FindPaymentMethod(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, poserror.New("No such payment method."))
		}
		return errors.Wrap(err, "could not get access to database")
	}

	if err := h.db.Delete(pm); err != nil {
		return errors.Wrap(err, "could not delete payment method")
	}
	return c.NoContent(http.StatusNoContent)
}
