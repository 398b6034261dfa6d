package controllers

import (
	"net/http"

	"github.com/kadavakolla169-collab/SmartCartShop/api/responses"
	"github.com/kadavakolla169-collab/SmartCartShop/api/validators"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/orders"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/logger"
)

// OrdersController serves checkout and order management for the caller.
type OrdersController struct {
	svc  orders.Service
	logg *logger.Logger
}

// NewOrdersController wires the order handlers.
func NewOrdersController(svc orders.Service, logg *logger.Logger) *OrdersController {
	return &OrdersController{svc: svc, logg: logg}
}

// Checkout turns the caller's cart into an order.
func (c *OrdersController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	order, err := c.svc.Checkout(r.Context(), userID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, order)
}

// List returns the caller's orders, newest first.
func (c *OrdersController) List(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	list, err := c.svc.List(r.Context(), userID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, list)
}

// Get returns one of the caller's orders with its line items.
func (c *OrdersController) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	orderID, err := pathUUID(r, "orderId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	order, err := c.svc.Get(r.Context(), userID, orderID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, order)
}

// UpdateStatus advances an order along the fulfillment chain.
func (c *OrdersController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	orderID, err := pathUUID(r, "orderId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req orders.UpdateStatusRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	order, err := c.svc.UpdateStatus(r.Context(), userID, orderID, req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, order)
}

// Cancel reverses a pending order, restoring stock and points.
func (c *OrdersController) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	orderID, err := pathUUID(r, "orderId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.svc.Cancel(r.Context(), userID, orderID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
}
