package controllers

import (
	"net/http"

	"github.com/kadavakolla169-collab/SmartCartShop/api/responses"
	"github.com/kadavakolla169-collab/SmartCartShop/api/validators"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/sustainability"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/logger"
)

// SustainabilityController serves the green points dashboard, leaderboard,
// cart impact projection, and user preferences.
type SustainabilityController struct {
	svc  sustainability.Service
	logg *logger.Logger
}

// NewSustainabilityController wires the sustainability handlers.
func NewSustainabilityController(svc sustainability.Service, logg *logger.Logger) *SustainabilityController {
	return &SustainabilityController{svc: svc, logg: logg}
}

// Dashboard returns the caller's points, footprint totals, and rank.
func (c *SustainabilityController) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	dash, err := c.svc.Dashboard(r.Context(), userID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dash)
}

// Leaderboard returns the public top ranking. No auth required.
func (c *SustainabilityController) Leaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := c.svc.Leaderboard(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, board)
}

// CartImpact projects the footprint and points of checking out the cart as-is.
func (c *SustainabilityController) CartImpact(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	impact, err := c.svc.CartImpact(r.Context(), userID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, impact)
}

// GetPreferences returns the caller's sustainability settings, creating the
// defaults on first read.
func (c *SustainabilityController) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	pref, err := c.svc.GetPreferences(r.Context(), userID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, pref)
}

// UpdatePreferences applies a partial settings update.
func (c *SustainabilityController) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req sustainability.UpdatePreferencesRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	pref, err := c.svc.UpdatePreferences(r.Context(), userID, req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, pref)
}
