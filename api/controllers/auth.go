package controllers

import (
	"net/http"

	"github.com/kadavakolla169-collab/SmartCartShop/api/middleware"
	"github.com/kadavakolla169-collab/SmartCartShop/api/responses"
	"github.com/kadavakolla169-collab/SmartCartShop/api/validators"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/auth"
	pkgerrors "github.com/kadavakolla169-collab/SmartCartShop/pkg/errors"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/logger"
)

// AuthController exposes registration, login, refresh, and logout.
type AuthController struct {
	svc      auth.Service
	register auth.RegisterService
	logg     *logger.Logger
}

// NewAuthController wires the auth handlers.
func NewAuthController(svc auth.Service, register auth.RegisterService, logg *logger.Logger) *AuthController {
	return &AuthController{svc: svc, register: register, logg: logg}
}

// Register creates a customer account and signs it in.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.register.Register(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, resp)
}

// CreateAdmin provisions an admin account. Reachable only behind the admin
// role gate; self-service registration always yields the user role.
func (c *AuthController) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	admin, err := c.register.CreateAdmin(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, admin)
}

// Login exchanges credentials for a token pair.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.svc.Login(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}

// Refresh rotates the refresh token and mints a fresh access token.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.svc.Refresh(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}

// Logout revokes the session behind the presented access token.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	accessID := middleware.AccessIDFromContext(r.Context())
	if accessID == "" {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
		return
	}

	if err := c.svc.Logout(r.Context(), accessID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
}
