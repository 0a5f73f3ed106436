package ledger

import (
	"context"

	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// TxRunner es el coordinador de transacciones del libro de lotes: ejecuta fn
// con repositorios atados a UNA transacción de BD y hace Commit o Rollback.
// Toda mutación de lotes + documento padre pasa por aquí; o se escribe todo,
// o no se escribe nada. La implementación reintenta conflictos de
// serialización de forma acotada y, si se agotan, devuelve ErrConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		allocRepo repository.AllocationRepository,
		purchaseRepo repository.PurchaseRepository,
		orderRepo repository.OrderRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
