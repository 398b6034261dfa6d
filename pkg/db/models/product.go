package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog listing. Stock is the contended column: it is
// decremented at checkout and incremented on cancellation, always through
// guarded updates that keep it non-negative.
type Product struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name            string          `gorm:"column:name;not null"`
	Description     string          `gorm:"column:description;type:text"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock           int             `gorm:"column:stock;not null;default:0"`
	Category        string          `gorm:"column:category;not null;index"`
	EcoFriendly     bool            `gorm:"column:eco_friendly;not null;default:false"`
	CarbonFootprint decimal.Decimal `gorm:"column:carbon_footprint;type:numeric(12,2);not null;default:0"`
	PlasticContent  decimal.Decimal `gorm:"column:plastic_content;type:numeric(12,2);not null;default:0"`
	ImageURL        *string         `gorm:"column:image_url"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
