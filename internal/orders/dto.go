package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kadavakolla169-collab/SmartCartShop/internal/catalog"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db/models"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/enums"
)

// UpdateStatusRequest carries the requested lifecycle transition.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ItemDTO is one order line with its unit-price snapshot.
type ItemDTO struct {
	ID        uuid.UUID           `json:"id"`
	ProductID uuid.UUID           `json:"product_id"`
	Quantity  int                 `json:"quantity"`
	Price     decimal.Decimal     `json:"price"`
	Product   *catalog.ProductDTO `json:"product,omitempty"`
}

// OrderDTO is the transport shape for orders.
type OrderDTO struct {
	ID        uuid.UUID         `json:"id"`
	Total     decimal.Decimal   `json:"total"`
	Status    enums.OrderStatus `json:"status"`
	Items     []ItemDTO         `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func fromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:        order.ID,
		Total:     order.Total,
		Status:    order.Status,
		Items:     make([]ItemDTO, 0, len(order.Items)),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
	for i := range order.Items {
		item := &order.Items[i]
		dto.Items = append(dto.Items, ItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Product:   catalog.FromModel(item.Product),
		})
	}
	return dto
}

func fromModels(ordersList []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(ordersList))
	for i := range ordersList {
		out = append(out, *fromModel(&ordersList[i]))
	}
	return out
}
