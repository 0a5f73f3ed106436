package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es una venta de mostrador. Documento padre de sus líneas de
// asignación. Subtotal/impuestos/total se recalculan SIEMPRE desde la lista
// completa de líneas en cada mutación, nunca por ajuste incremental.
type Sale struct {
	ID        string
	CompanyID string
	ClientID  string
	Number    int64 // consecutivo por empresa
	Date      time.Time
	NetTotal  decimal.Decimal
	TaxTotal  decimal.Decimal
	Total     decimal.Decimal
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	Lines     []*AllocationLine
}
