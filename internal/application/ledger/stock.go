package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	domledger "github.com/tu-usuario/taller-pro/internal/domain/ledger"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// StockUseCase expone la proyección de stock (solo lectura) y la importación
// explícita de stock inicial.
type StockUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	lotRepo  repository.LotRepository
}

// NewStockUseCase construye el caso de uso. lotRepo va atado al pool (lecturas).
func NewStockUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, lotRepo repository.LotRepository) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, itemRepo: itemRepo, lotRepo: lotRepo}
}

// CurrentStock deriva cantidad y costo promedio ponderado desde los lotes
// vivos del ítem. No muta estado. Un servicio siempre reporta (0, nominal).
func (uc *StockUseCase) CurrentStock(ctx context.Context, companyID, itemID string) (*dto.CurrentStockResponse, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil || item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if item.IsService {
		return &dto.CurrentStockResponse{ItemID: itemID, Quantity: decimal.Zero, AverageCost: item.CostPrice}, nil
	}
	lots, err := uc.lotRepo.ListByItem(itemID)
	if err != nil {
		return nil, err
	}
	quantity, avg := domledger.Aggregate(lots, item.CostPrice)
	return &dto.CurrentStockResponse{ItemID: itemID, Quantity: quantity, AverageCost: avg}, nil
}

// ImportInitialStock registra stock preexistente (migración, conteo inicial)
// como un lote ordinario con procedencia INITIAL. No hay centinelas en la
// lógica del libro: el lote importado se consume y agrega como cualquier otro.
func (uc *StockUseCase) ImportInitialStock(ctx context.Context, companyID, userID string, in dto.InitialImportRequest) (string, error) {
	if in.ItemID == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.UnitCost.LessThan(decimal.Zero) {
		return "", domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.GetByID(in.ItemID)
	if err != nil || item == nil {
		return "", domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return "", domain.ErrForbidden
	}
	if item.IsService {
		return "", domain.ErrInvalidInput
	}

	now := time.Now()
	lotID := uuid.New().String()
	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		_ repository.AllocationRepository,
		_ repository.PurchaseRepository,
		_ repository.OrderRepository,
		_ repository.SaleRepository,
	) error {
		return lotRepo.Create(&entity.StockLot{
			ID:           lotID,
			ItemID:       in.ItemID,
			PurchaseID:   entity.LotSourceInitial,
			PurchaseDate: now,
			CreatedAt:    now,
			ReceivedQty:  in.Quantity,
			Quantity:     in.Quantity,
			UnitCost:     in.UnitCost,
			Notes:        in.Notes,
		})
	})
	if err != nil {
		return "", err
	}
	return lotID, nil
}
