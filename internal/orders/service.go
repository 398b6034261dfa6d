package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kadavakolla169-collab/SmartCartShop/internal/cart"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/catalog"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/ledger"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db/models"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/enums"
	pkgerrors "github.com/kadavakolla169-collab/SmartCartShop/pkg/errors"
)

// Service defines the behavior needed by the orders controller.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, userID, orderID uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) error
}

type service struct {
	db      *db.Client
	repo    *Repository
	cart    *cart.Repository
	catalog *catalog.Repository
	ledger  ledger.Service
}

// ServiceParams bundles the dependencies for the order engine.
type ServiceParams struct {
	DB          *db.Client
	Repo        *Repository
	CartRepo    *cart.Repository
	CatalogRepo *catalog.Repository
	Ledger      ledger.Service
}

// NewService constructs the order engine.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.CatalogRepo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger service is required")
	}
	return &service{
		db:      params.DB,
		repo:    params.Repo,
		cart:    params.CartRepo,
		catalog: params.CatalogRepo,
		ledger:  params.Ledger,
	}, nil
}

// Checkout turns the caller's cart into an order in a single transaction:
// validate every line against current stock, decrement stock through the
// guarded update, snapshot unit prices, clear the cart, and credit green
// points. Any failure rolls everything back.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID) (*OrderDTO, error) {
	var orderID uuid.UUID

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cart.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)
		orderRepo := s.repo.WithTx(tx)

		lines, err := cartRepo.ListByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		// lock order: product id ascending, so concurrent checkouts
		// touching the same products serialize instead of deadlocking
		sort.Slice(lines, func(i, j int) bool {
			return lines[i].ProductID.String() < lines[j].ProductID.String()
		})

		productIDs := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			productIDs = append(productIDs, line.ProductID)
		}
		products, err := catalogRepo.FindByIDs(ctx, productIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
		}
		byID := make(map[uuid.UUID]*models.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		// validate everything before any write
		for _, line := range lines {
			product, ok := byID[line.ProductID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			if product.Stock < line.Quantity {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("insufficient stock for %s", product.Name)).
					WithDetails(map[string]any{"product_id": product.ID, "available": product.Stock, "requested": line.Quantity})
			}
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			product := byID[line.ProductID]

			ok, err := catalogRepo.DecrementStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("insufficient stock for %s", product.Name)).
					WithDetails(map[string]any{"product_id": product.ID, "requested": line.Quantity})
			}

			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
				Product:   product,
			})
		}

		order := &models.Order{
			UserID: userID,
			Total:  total,
			Status: enums.OrderStatusPending,
			Items:  items,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		orderID = order.ID

		if err := cartRepo.ClearByUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}

		impact := ledger.ComputeImpact(order.Items)
		if _, err := s.ledger.Credit(ctx, tx, ledger.CreditInput{
			OrderID:       order.ID,
			UserID:        userID,
			Points:        impact.Points,
			CO2Savings:    impact.CO2Savings,
			PlasticSaving: impact.PlasticSaving,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "credit green points")
		}

		return nil
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "checkout")
	}

	return s.Get(ctx, userID, orderID)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return fromModels(out), nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return fromModel(order), nil
}

// UpdateStatus walks the declared lifecycle. Cancellation is only reachable
// through Cancel, which also restocks and reverses points.
func (s *service) UpdateStatus(ctx context.Context, userID, orderID uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error) {
	target, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": req.Status})
	}
	if target == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cancellation goes through the cancel endpoint")
	}

	order, err := s.repo.FindByID(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot transition order from %s to %s", order.Status, target))
	}

	ok, err := s.repo.UpdateStatus(ctx, order.ID, order.Status, target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
	}

	order.Status = target
	return fromModel(order), nil
}

// Cancel restocks every line, reverses the points credit, and deletes the
// order, all in one transaction. Only pending orders qualify.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) error {
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.repo.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)

		order, err := orderRepo.FindByID(ctx, orderID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}

		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be cancelled").
				WithDetails(map[string]any{"status": order.Status})
		}

		items := append([]models.OrderItem(nil), order.Items...)
		sort.Slice(items, func(i, j int) bool {
			return items[i].ProductID.String() < items[j].ProductID.String()
		})
		for _, item := range items {
			if err := catalogRepo.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restock product")
			}
		}

		if _, err := s.ledger.Reverse(ctx, tx, order.ID, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reverse green points")
		}

		if err := orderRepo.Delete(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
		}
		return nil
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return typed
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "cancel order")
	}
	return nil
}
