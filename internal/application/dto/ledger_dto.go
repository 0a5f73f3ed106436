package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveStockLine línea de una compra entrante: un ítem, cantidad y costo.
type ReceiveStockLine struct {
	ItemID   string          `json:"item_id" validate:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost decimal.Decimal `json:"unit_cost" validate:"required"`
}

// ReceiveStockRequest body para POST /api/purchases.
type ReceiveStockRequest struct {
	SupplierID string             `json:"supplier_id"`
	InvoiceRef string             `json:"invoice_ref"`
	Date       time.Time          `json:"date"`
	Notes      string             `json:"notes,omitempty"`
	Lines      []ReceiveStockLine `json:"lines" validate:"required,min=1"`
}

// ReceiveStockResponse devuelve el ID de la compra creada.
type ReceiveStockResponse struct {
	PurchaseID string `json:"purchase_id"`
}

// ConsumeRequest body para POST /api/ledger/consume: consumir stock de un
// ítem hacia una orden o venta. parent_kind es etiqueta explícita (ORDER|SALE).
type ConsumeRequest struct {
	ParentKind string           `json:"parent_kind" validate:"required,oneof=ORDER SALE"`
	ParentID   string           `json:"parent_id" validate:"required,uuid"`
	ItemID     string           `json:"item_id" validate:"required,uuid"`
	Quantity   decimal.Decimal  `json:"quantity" validate:"required"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"` // vacío = precio de venta del ítem
}

// ReverseRequest body para POST /api/ledger/reverse: quitar una línea de
// asignación devolviendo el stock a su lote (o a un lote de devolución).
type ReverseRequest struct {
	ParentKind string `json:"parent_kind" validate:"required,oneof=ORDER SALE"`
	ParentID   string `json:"parent_id" validate:"required,uuid"`
	LineID     string `json:"line_id" validate:"required,uuid"`
}

// AllocationLineResponse línea de asignación congelada en un documento.
type AllocationLineResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	LotID     string          `json:"lot_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
}

// CurrentStockResponse proyección de stock de un ítem.
type CurrentStockResponse struct {
	ItemID      string          `json:"item_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// InitialImportRequest body para POST /api/ledger/initial-import: carga de
// stock preexistente como lote ordinario con procedencia INITIAL.
type InitialImportRequest struct {
	ItemID   string          `json:"item_id" validate:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost decimal.Decimal `json:"unit_cost" validate:"required"`
	Notes    string          `json:"notes,omitempty"`
}

// PurchaseResponse cabecera de compra con sus líneas.
type PurchaseResponse struct {
	ID         string                 `json:"id"`
	SupplierID string                 `json:"supplier_id"`
	InvoiceRef string                 `json:"invoice_ref"`
	Date       time.Time              `json:"date"`
	Total      decimal.Decimal        `json:"total"`
	Notes      string                 `json:"notes,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	Lines      []PurchaseLineResponse `json:"lines,omitempty"`
}

// PurchaseLineResponse línea de compra con el lote que originó.
type PurchaseLineResponse struct {
	ID       string          `json:"id"`
	ItemID   string          `json:"item_id"`
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}
