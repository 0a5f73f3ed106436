package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
)

// LotRepository define el puerto de persistencia para StockLot.
// Los métodos *ForUpdate bloquean las filas (SELECT FOR UPDATE) y solo tienen
// sentido dentro de una transacción del TxRunner: son la exclusión mutua del
// libro de lotes, no hay locks en proceso.
type LotRepository interface {
	Create(lot *entity.StockLot) error
	GetByID(id string) (*entity.StockLot, error)
	GetForUpdate(id string) (*entity.StockLot, error)
	// ListLiveForUpdate devuelve los lotes con cantidad > 0 del ítem,
	// ordenados por created_at y luego id (orden FIFO), bloqueados.
	ListLiveForUpdate(itemID string) ([]*entity.StockLot, error)
	// ListByItem devuelve todos los lotes del ítem (proyección de stock, sin lock).
	ListByItem(itemID string) ([]*entity.StockLot, error)
	ListByPurchaseForUpdate(purchaseID string) ([]*entity.StockLot, error)
	UpdateQuantity(id string, quantity decimal.Decimal) error
	DeleteByPurchase(purchaseID string) error
}
