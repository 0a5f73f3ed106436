package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest entrada para abrir una orden de reparación.
type CreateOrderRequest struct {
	ClientID  string `json:"client_id" validate:"required,uuid"`
	VehicleID string `json:"vehicle_id" validate:"required,uuid"`
	Symptoms  string `json:"symptoms"`
	Diagnosis string `json:"diagnosis"`
	Mileage   int64  `json:"mileage"`
	Notes     string `json:"notes"`
}

// UpdateOrderRequest entrada para actualizar cabecera de orden.
type UpdateOrderRequest struct {
	Status    *string `json:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS DONE DELIVERED CANCELLED"`
	Diagnosis *string `json:"diagnosis"`
	Mileage   *int64  `json:"mileage"`
	Notes     *string `json:"notes"`
}

// OrderResponse salida de una orden de reparación con sus líneas.
type OrderResponse struct {
	ID        string                   `json:"id"`
	Number    int64                    `json:"number"`
	ClientID  string                   `json:"client_id"`
	VehicleID string                   `json:"vehicle_id"`
	Status    string                   `json:"status"`
	Symptoms  string                   `json:"symptoms,omitempty"`
	Diagnosis string                   `json:"diagnosis,omitempty"`
	Mileage   int64                    `json:"mileage,omitempty"`
	Notes     string                   `json:"notes,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
	Lines     []AllocationLineResponse `json:"lines,omitempty"`
}

// CreateSaleLine línea de venta entrante: ítem, cantidad, precio opcional.
type CreateSaleLine struct {
	ItemID    string           `json:"item_id" validate:"required,uuid"`
	Quantity  decimal.Decimal  `json:"quantity" validate:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"` // vacío = precio del ítem
}

// CreateSaleRequest body para POST /api/sales. Las líneas consumen stock FIFO
// en la misma transacción que crea la venta.
type CreateSaleRequest struct {
	ClientID string           `json:"client_id"`
	Notes    string           `json:"notes,omitempty"`
	Lines    []CreateSaleLine `json:"lines" validate:"required,min=1"`
}

// SaleResponse salida de una venta con totales derivados de sus líneas.
type SaleResponse struct {
	ID        string                   `json:"id"`
	Number    int64                    `json:"number"`
	ClientID  string                   `json:"client_id,omitempty"`
	Date      time.Time                `json:"date"`
	NetTotal  decimal.Decimal          `json:"net_total"`
	TaxTotal  decimal.Decimal          `json:"tax_total"`
	Total     decimal.Decimal          `json:"total"`
	Notes     string                   `json:"notes,omitempty"`
	Lines     []AllocationLineResponse `json:"lines,omitempty"`
}
