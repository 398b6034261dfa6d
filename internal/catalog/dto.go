package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db/models"
)

// ProductDTO is the transport shape for catalog listings.
type ProductDTO struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Stock           int             `json:"stock"`
	Category        string          `json:"category"`
	EcoFriendly     bool            `json:"eco_friendly"`
	CarbonFootprint decimal.Decimal `json:"carbon_footprint"`
	PlasticContent  decimal.Decimal `json:"plastic_content"`
	ImageURL        *string         `json:"image_url,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateProductRequest carries the admin payload for a new listing.
type CreateProductRequest struct {
	Name            string          `json:"name" validate:"required,max=255"`
	Description     string          `json:"description" validate:"max=4000"`
	Price           decimal.Decimal `json:"price" validate:"required"`
	Stock           int             `json:"stock" validate:"gte=0"`
	Category        string          `json:"category" validate:"required,max=64"`
	EcoFriendly     bool            `json:"eco_friendly"`
	CarbonFootprint decimal.Decimal `json:"carbon_footprint"`
	PlasticContent  decimal.Decimal `json:"plastic_content"`
	ImageURL        *string         `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdateProductRequest carries partial updates; nil fields are left untouched.
type UpdateProductRequest struct {
	Name            *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Description     *string          `json:"description,omitempty" validate:"omitempty,max=4000"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Stock           *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Category        *string          `json:"category,omitempty" validate:"omitempty,max=64"`
	EcoFriendly     *bool            `json:"eco_friendly,omitempty"`
	CarbonFootprint *decimal.Decimal `json:"carbon_footprint,omitempty"`
	PlasticContent  *decimal.Decimal `json:"plastic_content,omitempty"`
	ImageURL        *string          `json:"image_url,omitempty" validate:"omitempty,url"`
}

// ListProductsQuery bundles the public catalog filters.
type ListProductsQuery struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// ListProductsResponse pairs one page of products with the total match count.
type ListProductsResponse struct {
	Products []ProductDTO `json:"products"`
	Total    int64        `json:"total"`
	Limit    int          `json:"limit"`
	Offset   int          `json:"offset"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		Stock:           p.Stock,
		Category:        p.Category,
		EcoFriendly:     p.EcoFriendly,
		CarbonFootprint: p.CarbonFootprint,
		PlasticContent:  p.PlasticContent,
		ImageURL:        p.ImageURL,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func fromModels(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *FromModel(&products[i]))
	}
	return out
}
