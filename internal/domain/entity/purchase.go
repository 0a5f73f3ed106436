package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry es una compra / entrada de mercancía. Documento padre de sus
// líneas; cada línea crea exactamente un lote al recibirse. Eliminar la
// compra solo es posible si ninguno de sus lotes fue consumido.
type StockEntry struct {
	ID         string
	CompanyID  string
	SupplierID string
	InvoiceRef string // número de factura del proveedor
	Date       time.Time
	Total      decimal.Decimal // suma de qty*unit_cost de las líneas
	Notes      string
	CreatedAt  time.Time
	CreatedBy  string
	Lines      []*StockEntryLine
}

// StockEntryLine línea de compra: un ítem, una cantidad, un costo unitario.
type StockEntryLine struct {
	ID         string
	PurchaseID string
	ItemID     string
	LotID      string // lote creado por esta línea
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
}
