package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kadavakolla169-collab/SmartCartShop/internal/catalog"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db/models"
	pkgerrors "github.com/kadavakolla169-collab/SmartCartShop/pkg/errors"
)

// Service defines the behavior needed by the cart controller.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	Add(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	db      *db.Client
	repo    *Repository
	catalog *catalog.Repository
}

// ServiceParams bundles the dependencies for the cart service.
type ServiceParams struct {
	DB          *db.Client
	Repo        *Repository
	CatalogRepo *catalog.Repository
}

// NewService constructs a cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.CatalogRepo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	return &service{
		db:      params.DB,
		repo:    params.Repo,
		catalog: params.CatalogRepo,
	}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return fromModels(items), nil
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	txErr := s.addLine(ctx, userID, req)
	if txErr != nil && pkgerrors.As(txErr) == nil && db.IsUniqueViolation(txErr, "") {
		// lost an insert race with a concurrent add of the same product; the
		// winning line exists now, so a fresh transaction merges into it
		txErr = s.addLine(ctx, userID, req)
	}
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "add to cart")
	}

	return s.Get(ctx, userID)
}

func (s *service) addLine(ctx context.Context, userID uuid.UUID, req AddItemRequest) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.repo.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)

		product, err := catalogRepo.FindByID(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}

		requested := req.Quantity
		line, err := cartRepo.FindLine(ctx, userID, req.ProductID)
		switch {
		case err == nil:
			requested += line.Quantity
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = nil
		default:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart line")
		}

		if product.Stock < requested {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("insufficient stock for %s", product.Name)).
				WithDetails(map[string]any{"product_id": product.ID, "available": product.Stock, "requested": requested})
		}

		if line != nil {
			return cartRepo.UpdateQuantity(ctx, line.ID, userID, requested)
		}
		return cartRepo.Create(ctx, &models.CartItem{
			UserID:    userID,
			ProductID: req.ProductID,
			Quantity:  requested,
		})
	})
}

func (s *service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*CartDTO, error) {
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	line, err := s.repo.FindByID(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart line")
	}

	product, err := s.catalog.FindByID(ctx, line.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if product.Stock < req.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("insufficient stock for %s", product.Name)).
			WithDetails(map[string]any{"product_id": product.ID, "available": product.Stock, "requested": req.Quantity})
	}

	if err := s.repo.UpdateQuantity(ctx, itemID, userID, req.Quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
	}

	return s.Get(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.repo.Delete(ctx, itemID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart line")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.ClearByUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}
