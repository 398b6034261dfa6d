package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kadavakolla169-collab/SmartCartShop/pkg/enums"
)

// PointsEvent is the green points ledger. The (order_id, event_type) unique
// index makes crediting idempotent per order.
type PointsEvent struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	OrderID       uuid.UUID             `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_points_order_event"`
	EventType     enums.PointsEventType `gorm:"column:event_type;not null;uniqueIndex:idx_points_order_event"`
	UserID        uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Points        int                   `gorm:"column:points;not null"`
	CO2Savings    decimal.Decimal       `gorm:"column:co2_savings;type:numeric(12,2);not null;default:0"`
	PlasticSaving decimal.Decimal       `gorm:"column:plastic_savings;type:numeric(12,2);not null;default:0"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (e *PointsEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
