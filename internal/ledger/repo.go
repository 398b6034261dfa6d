package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db/models"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/enums"
)

// Repository manages persistence for points events.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.PointsEvent) error
	FindByOrderAndType(ctx context.Context, orderID uuid.UUID, eventType enums.PointsEventType) (*models.PointsEvent, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PointsEvent, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a points ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, event *models.PointsEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) FindByOrderAndType(ctx context.Context, orderID uuid.UUID, eventType enums.PointsEventType) (*models.PointsEvent, error) {
	var event models.PointsEvent
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND event_type = ?", orderID, eventType).
		First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PointsEvent, error) {
	var events []models.PointsEvent
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
