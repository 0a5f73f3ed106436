package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	domledger "github.com/tu-usuario/taller-pro/internal/domain/ledger"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// ConsumeUseCase consume stock FIFO hacia una orden o venta y lo revierte.
// Es el único camino por el que un documento gana o pierde líneas de
// repuestos; las cantidades de los lotes solo cambian dentro del TxRunner.
type ConsumeUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
}

// NewConsumeUseCase construye el caso de uso.
func NewConsumeUseCase(txRunner TxRunner, itemRepo repository.ItemRepository) *ConsumeUseCase {
	return &ConsumeUseCase{txRunner: txRunner, itemRepo: itemRepo}
}

// ConsumeInput entrada para ConsumeForDocument.
type ConsumeInput struct {
	CompanyID string
	UserID    string
	Ref       entity.DocumentRef
	ItemID    string
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal // nil = precio de venta del ítem
}

// ConsumeForDocument descuenta la cantidad pedida de los lotes del ítem en
// orden FIFO y congela una línea de asignación por cada lote tocado. La
// verificación disponible-vs-pedido ocurre antes de cualquier escritura: con
// stock insuficiente no se persiste nada (ErrInsufficientStock y rollback).
// Para servicios no hay lotes: se congela una única línea con ServiceLotID.
func (uc *ConsumeUseCase) ConsumeForDocument(ctx context.Context, input ConsumeInput) error {
	if !input.Ref.Valid() || input.ItemID == "" {
		return domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}

	item, err := uc.itemRepo.GetByID(input.ItemID)
	if err != nil || item == nil {
		return domain.ErrNotFound
	}
	if item.CompanyID != input.CompanyID {
		return domain.ErrForbidden
	}

	unitPrice := item.SalePrice
	if input.UnitPrice != nil {
		if input.UnitPrice.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		unitPrice = *input.UnitPrice
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
		if err := uc.ConsumeInTx(lotRepo, allocRepo, item, input.Ref, input.Quantity, unitPrice, input.UserID, now); err != nil {
			return err
		}
		return recomputeTotals(input.Ref, allocRepo, saleRepo, now)
	})
}

// ConsumeInTx ejecuta el consumo FIFO usando los repositorios del caller
// (misma transacción). Lo usan ConsumeForDocument y la creación de ventas
// para que cabecera, consumo y totales viajen en UNA transacción. No
// recalcula totales: el caller lo hace una sola vez al final.
func (uc *ConsumeUseCase) ConsumeInTx(
	lotRepo repository.LotRepository,
	allocRepo repository.AllocationRepository,
	item *entity.InventoryItem,
	ref entity.DocumentRef,
	quantity decimal.Decimal,
	unitPrice decimal.Decimal,
	createdBy string,
	now time.Time,
) error {
	if item.IsService {
		line := &entity.AllocationLine{
			ID:         uuid.New().String(),
			ParentKind: ref.Kind,
			ParentID:   ref.ID,
			ItemID:     item.ID,
			LotID:      entity.ServiceLotID,
			Quantity:   quantity,
			UnitCost:   item.CostPrice,
			UnitPrice:  unitPrice,
			TaxRate:    item.TaxRate,
			CreatedBy:  createdBy,
			CreatedAt:  now,
		}
		return allocRepo.Add(line)
	}

	// Bloquea los lotes vivos del ítem (FOR UPDATE) y planifica el FIFO.
	lots, err := lotRepo.ListLiveForUpdate(item.ID)
	if err != nil {
		return err
	}
	plan, err := domledger.PlanConsumption(lots, quantity)
	if err != nil {
		return err
	}
	for _, draw := range plan {
		newQty := draw.Lot.Quantity.Sub(draw.Quantity)
		if err := lotRepo.UpdateQuantity(draw.Lot.ID, newQty); err != nil {
			return err
		}
		line := &entity.AllocationLine{
			ID:         uuid.New().String(),
			ParentKind: ref.Kind,
			ParentID:   ref.ID,
			ItemID:     item.ID,
			LotID:      draw.Lot.ID,
			Quantity:   draw.Quantity,
			UnitCost:   draw.UnitCost, // costo del lote, congelado
			UnitPrice:  unitPrice,
			TaxRate:    item.TaxRate,
			CreatedBy:  createdBy,
			CreatedAt:  now,
		}
		if err := allocRepo.Add(line); err != nil {
			return err
		}
	}
	return nil
}

// verifyParent confirma que el documento padre existe y pertenece a la empresa.
func verifyParent(
	ref entity.DocumentRef,
	companyID string,
	orderRepo repository.OrderRepository,
	saleRepo repository.SaleRepository,
) error {
	switch ref.Kind {
	case entity.DocumentKindOrder:
		order, err := orderRepo.GetByID(ref.ID)
		if err != nil || order == nil {
			return domain.ErrNotFound
		}
		if order.CompanyID != companyID {
			return domain.ErrForbidden
		}
	case entity.DocumentKindSale:
		sale, err := saleRepo.GetByID(ref.ID)
		if err != nil || sale == nil {
			return domain.ErrNotFound
		}
		if sale.CompanyID != companyID {
			return domain.ErrForbidden
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// recomputeTotals recalcula los totales de una venta desde la lista completa
// de líneas, dentro de la misma transacción que las mutó. Las órdenes no
// persisten totales, se derivan al consultarlas.
func recomputeTotals(
	ref entity.DocumentRef,
	allocRepo repository.AllocationRepository,
	saleRepo repository.SaleRepository,
	now time.Time,
) error {
	if ref.Kind != entity.DocumentKindSale {
		return nil
	}
	lines, err := allocRepo.ListByParent(ref)
	if err != nil {
		return err
	}
	net, tax, total := domledger.DocumentTotals(lines)
	return saleRepo.UpdateTotals(ref.ID, net, tax, total, now)
}
