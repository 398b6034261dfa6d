package controllers

import (
	"net/http"
	"strings"

	"github.com/kadavakolla169-collab/SmartCartShop/api/responses"
	"github.com/kadavakolla169-collab/SmartCartShop/api/validators"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/catalog"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/logger"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/pagination"
)

// ProductsController serves the public catalog and the admin product CRUD.
type ProductsController struct {
	svc  catalog.Service
	logg *logger.Logger
}

// NewProductsController wires the catalog handlers.
func NewProductsController(svc catalog.Service, logg *logger.Logger) *ProductsController {
	return &ProductsController{svc: svc, logg: logg}
}

// List returns one filtered page of the catalog.
func (c *ProductsController) List(w http.ResponseWriter, r *http.Request) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	query := catalog.ListProductsQuery{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		Limit:    limit,
		Offset:   offset,
	}

	resp, err := c.svc.List(r.Context(), query)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}

// Get returns one product by id.
func (c *ProductsController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "productId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	product, err := c.svc.Get(r.Context(), id)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, product)
}

// Create adds a product. Admin only.
func (c *ProductsController) Create(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateProductRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	product, err := c.svc.Create(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, product)
}

// Update applies a partial product update. Admin only.
func (c *ProductsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "productId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req catalog.UpdateProductRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	product, err := c.svc.Update(r.Context(), id, req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, product)
}

// Delete removes a product. Admin only.
func (c *ProductsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "productId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.svc.Delete(r.Context(), id); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "deleted"})
}
