package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kadavakolla169-collab/SmartCartShop/pkg/enums"
)

// UserPreference holds per-user sustainability settings. A row is created
// lazily with defaults the first time preferences are read.
type UserPreference struct {
	ID                  uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	UserID              uuid.UUID                 `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	PackagingPreference enums.PackagingPreference `gorm:"column:packaging_preference;not null;default:standard"`
	NotifyGreenDeals    bool                      `gorm:"column:notify_green_deals;not null;default:true"`
	ShowCarbonFootprint bool                      `gorm:"column:show_carbon_footprint;not null;default:true"`
	CreatedAt           time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *UserPreference) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
