package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Procedencia de lotes que no nacen de una compra. Un lote normal lleva en
// PurchaseID el UUID de la compra que lo originó.
const (
	LotSourceInitial = "INITIAL" // importación de stock inicial
	LotSourceReturn  = "RETURN"  // devolución cuyo lote original ya no existe
)

// StockLot es un lote de inventario: una cantidad recibida a un costo único,
// hijo de exactamente un InventoryItem. CreatedAt es la llave de orden FIFO.
// Quantity solo sube por recepción/devolución y baja por consumo; nunca es
// negativa. Un lote en cero es inerte (se excluye de los candidatos FIFO)
// pero no se borra, salvo que su compra se elimine sin consumo alguno.
type StockLot struct {
	ID           string
	ItemID       string
	PurchaseID   string // UUID de la compra, o LotSourceInitial / LotSourceReturn
	PurchaseDate time.Time
	CreatedAt    time.Time       // llave de orden FIFO
	ReceivedQty  decimal.Decimal // cantidad original recibida (guardia de borrado)
	Quantity     decimal.Decimal // cantidad restante, >= 0
	UnitCost     decimal.Decimal // costo unitario al momento de la recepción
	SourceDocID  string          // para lotes RETURN: orden/venta que originó la devolución
	Notes        string
}

// IsLive indica si el lote aún tiene cantidad disponible para consumo FIFO.
func (l *StockLot) IsLive() bool {
	return l.Quantity.GreaterThan(decimal.Zero)
}

// Untouched indica si el lote conserva intacta su cantidad de recepción
// (condición para poder eliminar la compra que lo originó).
func (l *StockLot) Untouched() bool {
	return l.Quantity.Equal(l.ReceivedQty)
}
