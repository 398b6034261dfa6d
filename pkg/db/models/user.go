package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kadavakolla169-collab/SmartCartShop/pkg/enums"
)

// User represents the canonical identity entity. Green points and cumulative
// savings move only through the points ledger.
type User struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Email             string          `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash      string          `gorm:"column:password_hash;not null"`
	Name              string          `gorm:"column:name;not null"`
	Role              enums.UserRole  `gorm:"column:role;not null;default:user"`
	GreenPoints       int             `gorm:"column:green_points;not null;default:0"`
	TotalCO2Saved     decimal.Decimal `gorm:"column:total_co2_saved;type:numeric(12,2);not null;default:0"`
	TotalPlasticSaved decimal.Decimal `gorm:"column:total_plastic_saved;type:numeric(12,2);not null;default:0"`
	IsActive          bool            `gorm:"column:is_active;not null;default:true"`
	LastLoginAt       *time.Time      `gorm:"column:last_login_at"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
