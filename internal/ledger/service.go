package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db/models"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/enums"
)

// PointsPerEcoItem is the green point award for each eco-flagged order line.
const PointsPerEcoItem = 10

// Service records points events and keeps the user aggregates in sync.
// Crediting is idempotent per (order, event type): retries are no-ops.
type Service interface {
	Credit(ctx context.Context, tx *gorm.DB, input CreditInput) (*models.PointsEvent, error)
	Reverse(ctx context.Context, tx *gorm.DB, orderID, userID uuid.UUID) (*models.PointsEvent, error)
}

// CreditInput captures the award computed from an order's eco lines.
type CreditInput struct {
	OrderID       uuid.UUID
	UserID        uuid.UUID
	Points        int
	CO2Savings    decimal.Decimal
	PlasticSaving decimal.Decimal
}

// Impact aggregates what the eco lines of an order are worth.
type Impact struct {
	Points        int
	CO2Savings    decimal.Decimal
	PlasticSaving decimal.Decimal
}

// ComputeImpact folds order items into the award. Items must carry their
// product so the eco flag and footprints are visible.
func ComputeImpact(items []models.OrderItem) Impact {
	impact := Impact{
		CO2Savings:    decimal.Zero,
		PlasticSaving: decimal.Zero,
	}
	for i := range items {
		product := items[i].Product
		if product == nil || !product.EcoFriendly {
			continue
		}
		qty := decimal.NewFromInt(int64(items[i].Quantity))
		impact.Points += PointsPerEcoItem
		impact.CO2Savings = impact.CO2Savings.Add(product.CarbonFootprint.Mul(qty))
		impact.PlasticSaving = impact.PlasticSaving.Add(product.PlasticContent.Mul(qty))
	}
	return impact
}

type service struct {
	repo Repository
}

// NewService wires a points ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Credit(ctx context.Context, tx *gorm.DB, input CreditInput) (*models.PointsEvent, error) {
	if input.OrderID == uuid.Nil {
		return nil, fmt.Errorf("order id is required")
	}
	if input.UserID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}

	repo := s.repo.WithTx(tx)

	if existing, err := repo.FindByOrderAndType(ctx, input.OrderID, enums.PointsEventOrderPlaced); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	event := &models.PointsEvent{
		OrderID:       input.OrderID,
		UserID:        input.UserID,
		EventType:     enums.PointsEventOrderPlaced,
		Points:        input.Points,
		CO2Savings:    input.CO2Savings,
		PlasticSaving: input.PlasticSaving,
	}
	if err := repo.Create(ctx, event); err != nil {
		// lost the race to a concurrent retry; the credit already landed
		if db.IsUniqueViolation(err, "idx_points_order_event") || db.IsUniqueViolation(err, "") {
			return repo.FindByOrderAndType(ctx, input.OrderID, enums.PointsEventOrderPlaced)
		}
		return nil, err
	}

	if err := applyCredit(ctx, tx, input.UserID, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *service) Reverse(ctx context.Context, tx *gorm.DB, orderID, userID uuid.UUID) (*models.PointsEvent, error) {
	if orderID == uuid.Nil {
		return nil, fmt.Errorf("order id is required")
	}

	repo := s.repo.WithTx(tx)

	placed, err := repo.FindByOrderAndType(ctx, orderID, enums.PointsEventOrderPlaced)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// nothing was credited, nothing to reverse
			return nil, nil
		}
		return nil, err
	}

	if existing, err := repo.FindByOrderAndType(ctx, orderID, enums.PointsEventOrderCancelled); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	event := &models.PointsEvent{
		OrderID:       orderID,
		UserID:        userID,
		EventType:     enums.PointsEventOrderCancelled,
		Points:        placed.Points,
		CO2Savings:    placed.CO2Savings,
		PlasticSaving: placed.PlasticSaving,
	}
	if err := repo.Create(ctx, event); err != nil {
		if db.IsUniqueViolation(err, "idx_points_order_event") || db.IsUniqueViolation(err, "") {
			return repo.FindByOrderAndType(ctx, orderID, enums.PointsEventOrderCancelled)
		}
		return nil, err
	}

	if err := applyDebit(ctx, tx, userID, event); err != nil {
		return nil, err
	}
	return event, nil
}

func applyCredit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, event *models.PointsEvent) error {
	return tx.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"green_points":        gorm.Expr("green_points + ?", event.Points),
			"total_co2_saved":     gorm.Expr("total_co2_saved + ?", event.CO2Savings),
			"total_plastic_saved": gorm.Expr("total_plastic_saved + ?", event.PlasticSaving),
		}).Error
}

// applyDebit subtracts the reversed award, flooring every aggregate at zero.
func applyDebit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, event *models.PointsEvent) error {
	return tx.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"green_points":        gorm.Expr("CASE WHEN green_points >= ? THEN green_points - ? ELSE 0 END", event.Points, event.Points),
			"total_co2_saved":     gorm.Expr("CASE WHEN total_co2_saved >= ? THEN total_co2_saved - ? ELSE 0 END", event.CO2Savings, event.CO2Savings),
			"total_plastic_saved": gorm.Expr("CASE WHEN total_plastic_saved >= ? THEN total_plastic_saved - ? ELSE 0 END", event.PlasticSaving, event.PlasticSaving),
		}).Error
}
