package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// PurchaseUseCase registra compras (creando un lote por línea) y las elimina
// con la guardia de lotes consumidos.
type PurchaseUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	purchaseRepo repository.PurchaseRepository
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, purchaseRepo repository.PurchaseRepository) *PurchaseUseCase {
	return &PurchaseUseCase{txRunner: txRunner, itemRepo: itemRepo, purchaseRepo: purchaseRepo}
}

// ReceiveStock crea la compra y un lote por cada línea en UN solo batch
// atómico: una compra a medio escribir (lotes sin cabecera o viceversa) no es
// un estado observable permitido. Devuelve el ID de la compra creada.
func (uc *PurchaseUseCase) ReceiveStock(ctx context.Context, companyID, userID string, in dto.ReceiveStockRequest) (string, error) {
	if len(in.Lines) == 0 {
		return "", domain.ErrInvalidInput
	}

	// Validación fuera de la transacción (solo lecturas).
	items := make(map[string]*entity.InventoryItem, len(in.Lines))
	for _, line := range in.Lines {
		if line.ItemID == "" || !line.Quantity.GreaterThan(decimal.Zero) || line.UnitCost.LessThan(decimal.Zero) {
			return "", domain.ErrInvalidInput
		}
		item, err := uc.itemRepo.GetByID(line.ItemID)
		if err != nil || item == nil {
			return "", domain.ErrNotFound
		}
		if item.CompanyID != companyID {
			return "", domain.ErrForbidden
		}
		// A un servicio jamás se le asignan lotes.
		if item.IsService {
			return "", domain.ErrInvalidInput
		}
		items[line.ItemID] = item
	}

	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	purchaseID := uuid.New().String()

	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		_ repository.AllocationRepository,
		purchaseRepo repository.PurchaseRepository,
		_ repository.OrderRepository,
		_ repository.SaleRepository,
	) error {
		total := decimal.Zero
		for _, line := range in.Lines {
			total = total.Add(line.Quantity.Mul(line.UnitCost))
		}
		entry := &entity.StockEntry{
			ID:         purchaseID,
			CompanyID:  companyID,
			SupplierID: in.SupplierID,
			InvoiceRef: in.InvoiceRef,
			Date:       date,
			Total:      total,
			Notes:      in.Notes,
			CreatedAt:  now,
			CreatedBy:  userID,
		}
		if err := purchaseRepo.Create(entry); err != nil {
			return err
		}
		for _, line := range in.Lines {
			lot := &entity.StockLot{
				ID:           uuid.New().String(),
				ItemID:       line.ItemID,
				PurchaseID:   purchaseID,
				PurchaseDate: date,
				CreatedAt:    now,
				ReceivedQty:  line.Quantity,
				Quantity:     line.Quantity,
				UnitCost:     line.UnitCost,
			}
			if err := lotRepo.Create(lot); err != nil {
				return err
			}
			entryLine := &entity.StockEntryLine{
				ID:         uuid.New().String(),
				PurchaseID: purchaseID,
				ItemID:     line.ItemID,
				LotID:      lot.ID,
				Quantity:   line.Quantity,
				UnitCost:   line.UnitCost,
			}
			if err := purchaseRepo.CreateLine(entryLine); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return purchaseID, nil
}

// DeletePurchase elimina una compra SOLO si ninguno de sus lotes fue tocado:
// cada lote debe conservar su cantidad de recepción. Si alguno difiere, toda
// la eliminación falla con LotInUseError nombrando el ítem bloqueante y no se
// borra lote ni cabecera alguna.
func (uc *PurchaseUseCase) DeletePurchase(ctx context.Context, companyID, purchaseID string) error {
	if purchaseID == "" {
		return domain.ErrInvalidInput
	}
	entry, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil || entry == nil {
		return domain.ErrNotFound
	}
	if entry.CompanyID != companyID {
		return domain.ErrForbidden
	}

	return uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		_ repository.AllocationRepository,
		purchaseRepo repository.PurchaseRepository,
		_ repository.OrderRepository,
		_ repository.SaleRepository,
	) error {
		lots, err := lotRepo.ListByPurchaseForUpdate(purchaseID)
		if err != nil {
			return err
		}
		for _, lot := range lots {
			if lot.Untouched() {
				continue
			}
			itemName := lot.ItemID
			if item, err := uc.itemRepo.GetByID(lot.ItemID); err == nil && item != nil {
				itemName = item.Name
			}
			return &domain.LotInUseError{ItemName: itemName}
		}
		if err := lotRepo.DeleteByPurchase(purchaseID); err != nil {
			return err
		}
		return purchaseRepo.Delete(purchaseID)
	})
}

// GetPurchase devuelve la compra con sus líneas.
func (uc *PurchaseUseCase) GetPurchase(ctx context.Context, companyID, purchaseID string) (*dto.PurchaseResponse, error) {
	entry, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil || entry == nil {
		return nil, domain.ErrNotFound
	}
	if entry.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.purchaseRepo.ListLines(purchaseID)
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(entry, lines), nil
}

// ListPurchases lista las compras de la empresa (sin líneas).
func (uc *PurchaseUseCase) ListPurchases(ctx context.Context, companyID string, limit, offset int) ([]*dto.PurchaseResponse, error) {
	entries, err := uc.purchaseRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toPurchaseResponse(e, nil))
	}
	return out, nil
}

func toPurchaseResponse(entry *entity.StockEntry, lines []*entity.StockEntryLine) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:         entry.ID,
		SupplierID: entry.SupplierID,
		InvoiceRef: entry.InvoiceRef,
		Date:       entry.Date,
		Total:      entry.Total,
		Notes:      entry.Notes,
		CreatedAt:  entry.CreatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.PurchaseLineResponse{
			ID:       l.ID,
			ItemID:   l.ItemID,
			LotID:    l.LotID,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
		})
	}
	return resp
}
