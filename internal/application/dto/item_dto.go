package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem de inventario o servicio.
type CreateItemRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=50"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	IsService   bool            `json:"is_service"`
}

// UpdateItemRequest entrada para actualizar un ítem (campos opcionales).
type UpdateItemRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Brand       *string          `json:"brand"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
}

// ItemResponse salida de un ítem. Stock y AverageCost son derivados de los
// lotes al momento de la consulta, nunca leídos de una columna.
type ItemResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	IsService   bool            `json:"is_service"`
	Stock       decimal.Decimal `json:"stock"`
	AverageCost decimal.Decimal `json:"average_cost"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
