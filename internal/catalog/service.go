package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db/models"
	pkgerrors "github.com/kadavakolla169-collab/SmartCartShop/pkg/errors"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/pagination"
)

// Service defines the behavior needed by the products controller.
type Service interface {
	List(ctx context.Context, query ListProductsQuery) (*ListProductsResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// ServiceParams bundles the dependencies for the catalog service.
type ServiceParams struct {
	Repo *Repository
}

// NewService constructs a catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context, query ListProductsQuery) (*ListProductsResponse, error) {
	page := pagination.Params{Limit: query.Limit, Offset: query.Offset}.Normalize()

	products, total, err := s.repo.List(ctx, ListFilter{
		Category: query.Category,
		Search:   query.Search,
	}, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	return &ListProductsResponse{
		Products: fromModels(products),
		Total:    total,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return FromModel(product), nil
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	if err := validateAmounts(req.Price, req.CarbonFootprint, req.PlasticContent); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:            strings.TrimSpace(req.Name),
		Description:     strings.TrimSpace(req.Description),
		Price:           req.Price,
		Stock:           req.Stock,
		Category:        strings.TrimSpace(req.Category),
		EcoFriendly:     req.EcoFriendly,
		CarbonFootprint: req.CarbonFootprint,
		PlasticContent:  req.PlasticContent,
		ImageURL:        req.ImageURL,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Category != nil {
		product.Category = strings.TrimSpace(*req.Category)
	}
	if req.EcoFriendly != nil {
		product.EcoFriendly = *req.EcoFriendly
	}
	if req.CarbonFootprint != nil {
		product.CarbonFootprint = *req.CarbonFootprint
	}
	if req.PlasticContent != nil {
		product.PlasticContent = *req.PlasticContent
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}

	if err := validateAmounts(product.Price, product.CarbonFootprint, product.PlasticContent); err != nil {
		return nil, err
	}
	if product.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func validateAmounts(price, carbon, plastic decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if carbon.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "carbon_footprint must be non-negative")
	}
	if plastic.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "plastic_content must be non-negative")
	}
	return nil
}
