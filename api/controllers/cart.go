package controllers

import (
	"net/http"

	"github.com/kadavakolla169-collab/SmartCartShop/api/responses"
	"github.com/kadavakolla169-collab/SmartCartShop/api/validators"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/cart"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/logger"
)

// CartController serves the authenticated user's cart.
type CartController struct {
	svc  cart.Service
	logg *logger.Logger
}

// NewCartController wires the cart handlers.
func NewCartController(svc cart.Service, logg *logger.Logger) *CartController {
	return &CartController{svc: svc, logg: logg}
}

// Get returns the caller's cart.
func (c *CartController) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.svc.Get(r.Context(), userID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}

// Add puts a product in the cart, merging with an existing line.
func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req cart.AddItemRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.svc.Add(r.Context(), userID, req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, resp)
}

// UpdateItem changes the quantity on one cart line.
func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	itemID, err := pathUUID(r, "itemId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req cart.UpdateItemRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.svc.UpdateItem(r.Context(), userID, itemID, req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}

// RemoveItem drops one line from the cart.
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	itemID, err := pathUUID(r, "itemId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.svc.RemoveItem(r.Context(), userID, itemID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "removed"})
}

// Clear empties the cart. Safe to call on an empty cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.svc.Clear(r.Context(), userID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "cleared"})
}
