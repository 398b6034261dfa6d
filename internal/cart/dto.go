package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/kadavakolla169-collab/SmartCartShop/internal/catalog"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db/models"
)

// AddItemRequest adds a product to the caller's cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
}

// UpdateItemRequest replaces the quantity on an existing line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// ItemDTO is one cart line with its product embedded.
type ItemDTO struct {
	ID        uuid.UUID           `json:"id"`
	ProductID uuid.UUID           `json:"product_id"`
	Quantity  int                 `json:"quantity"`
	Product   *catalog.ProductDTO `json:"product,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CartDTO is the caller's full cart.
type CartDTO struct {
	Items      []ItemDTO `json:"items"`
	TotalItems int       `json:"total_items"`
}

func fromModel(item *models.CartItem) ItemDTO {
	return ItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Product:   catalog.FromModel(item.Product),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func fromModels(items []models.CartItem) *CartDTO {
	out := &CartDTO{Items: make([]ItemDTO, 0, len(items))}
	for i := range items {
		out.Items = append(out.Items, fromModel(&items[i]))
	}
	out.TotalItems = len(out.Items)
	return out
}
