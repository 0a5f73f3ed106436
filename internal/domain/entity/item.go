package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa un repuesto o servicio del taller.
// Para ítems físicos, Stock y costo promedio son DERIVADOS de los lotes
// (nunca se persisten como fuente de verdad); CostPrice es el costo nominal
// usado cuando el ítem no tiene lotes vivos. Un servicio siempre reporta
// stock cero y jamás se le asignan lotes.
type InventoryItem struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Brand       string
	SalePrice   decimal.Decimal // precio de venta al público
	CostPrice   decimal.Decimal // costo nominal (fallback sin lotes)
	TaxRate     decimal.Decimal // IVA como porcentaje: 0, 5 o 19
	IsService   bool            // mano de obra / servicio, sin stock físico
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
