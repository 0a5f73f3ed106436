package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// ReverseUseCase deshace un consumo previo: elimina la línea de asignación y
// restaura la cantidad a su lote original, o a un lote de devolución si el
// original ya no existe. El valor de inventario nunca se pierde en silencio.
type ReverseUseCase struct {
	txRunner TxRunner
}

// NewReverseUseCase construye el caso de uso.
func NewReverseUseCase(txRunner TxRunner) *ReverseUseCase {
	return &ReverseUseCase{txRunner: txRunner}
}

// ReverseInput entrada para ReverseFromDocument.
type ReverseInput struct {
	CompanyID string
	Ref       entity.DocumentRef
	LineID    string
}

// ReverseFromDocument quita la línea del documento y devuelve el stock:
//   - lote original vivo o en cero: se suma la cantidad de la línea (restauración
//     aditiva pura; el consumo original nunca excedió la recepción del lote);
//   - lote desaparecido: se crea un lote RETURN con la cantidad y el costo
//     unitario CONGELADO de la línea, anotando el documento de procedencia;
//   - línea de servicio (ServiceLotID): no hay stock físico, solo se borra la línea.
//
// Todo ocurre en una transacción; los totales de la venta se recalculan dentro.
func (uc *ReverseUseCase) ReverseFromDocument(ctx context.Context, input ReverseInput) error {
	if !input.Ref.Valid() || input.LineID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()

	return uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		allocRepo repository.AllocationRepository,
		_ repository.PurchaseRepository,
		orderRepo repository.OrderRepository,
		saleRepo repository.SaleRepository,
	) error {
		if err := verifyParent(input.Ref, input.CompanyID, orderRepo, saleRepo); err != nil {
			return err
		}
		line, err := allocRepo.GetByID(input.LineID)
		if err != nil || line == nil {
			return domain.ErrNotFound
		}
		// La línea debe pertenecer al documento indicado.
		if line.ParentKind != input.Ref.Kind || line.ParentID != input.Ref.ID {
			return domain.ErrNotFound
		}

		// Eliminar la línea ANTES de restaurar stock. Si otra transacción ya
		// revirtió esta misma línea, su DELETE ganó la fila y este devuelve
		// ErrNotFound: la transacción aborta sin sumar la devolución dos veces.
		if err := allocRepo.Delete(line.ID); err != nil {
			return err
		}

		if !line.IsService() {
			lot, err := lotRepo.GetForUpdate(line.LotID)
			if err != nil {
				return err
			}
			if lot != nil {
				if err := lotRepo.UpdateQuantity(lot.ID, lot.Quantity.Add(line.Quantity)); err != nil {
					return err
				}
			} else {
				// El lote desapareció (p. ej. borrado suave): lote de devolución
				// con el costo congelado para no perder valor de inventario.
				replacement := &entity.StockLot{
					ID:           uuid.New().String(),
					ItemID:       line.ItemID,
					PurchaseID:   entity.LotSourceReturn,
					PurchaseDate: now,
					CreatedAt:    now,
					ReceivedQty:  line.Quantity,
					Quantity:     line.Quantity,
					UnitCost:     line.UnitCost,
					SourceDocID:  input.Ref.ID,
					Notes:        "devolución de " + string(input.Ref.Kind) + " " + input.Ref.ID,
				}
				if err := lotRepo.Create(replacement); err != nil {
					return err
				}
			}
		}

		return recomputeTotals(input.Ref, allocRepo, saleRepo, now)
	})
}
