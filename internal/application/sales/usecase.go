package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-pro/internal/application/dto"
	appledger "github.com/tu-usuario/taller-pro/internal/application/ledger"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	domledger "github.com/tu-usuario/taller-pro/internal/domain/ledger"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// SaleUseCase crea ventas de mostrador descontando inventario FIFO en una
// sola transacción y expone consultas e impresión.
type SaleUseCase struct {
	txRunner   appledger.TxRunner
	consumeSvc ConsumeService
	itemRepo   repository.ItemRepository
	clientRepo repository.ClientRepository
	companyRepo repository.CompanyRepository
	saleRepo   repository.SaleRepository
	allocRepo  repository.AllocationRepository
	pdfGen     SalePDFGenerator
}

// NewSaleUseCase construye el caso de uso. saleRepo y allocRepo van atados al
// pool (lecturas); las escrituras pasan por el txRunner.
func NewSaleUseCase(
	txRunner appledger.TxRunner,
	consumeSvc ConsumeService,
	itemRepo repository.ItemRepository,
	clientRepo repository.ClientRepository,
	companyRepo repository.CompanyRepository,
	saleRepo repository.SaleRepository,
	allocRepo repository.AllocationRepository,
	pdfGen SalePDFGenerator,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:    txRunner,
		consumeSvc:  consumeSvc,
		itemRepo:    itemRepo,
		clientRepo:  clientRepo,
		companyRepo: companyRepo,
		saleRepo:    saleRepo,
		allocRepo:   allocRepo,
		pdfGen:      pdfGen,
	}
}

// CreateSale crea la venta y consume el stock de cada línea en UNA
// transacción: si alguna línea no tiene stock suficiente, no queda ni la
// cabecera. Los totales se calculan desde la lista completa de líneas dentro
// de la misma transacción.
func (uc *SaleUseCase) CreateSale(ctx context.Context, companyID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.ClientID != "" {
		client, err := uc.clientRepo.GetByID(in.ClientID)
		if err != nil || client == nil {
			return nil, domain.ErrNotFound
		}
		if client.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
	}

	// Validación de ítems y precios fuera de la transacción (solo lecturas).
	type plannedLine struct {
		item      *entity.InventoryItem
		quantity  decimal.Decimal
		unitPrice decimal.Decimal
	}
	planned := make([]plannedLine, 0, len(in.Lines))
	for _, line := range in.Lines {
		if line.ItemID == "" || !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item, err := uc.itemRepo.GetByID(line.ItemID)
		if err != nil || item == nil {
			return nil, domain.ErrNotFound
		}
		if item.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		price := item.SalePrice
		if line.UnitPrice != nil {
			if line.UnitPrice.LessThan(decimal.Zero) {
				return nil, domain.ErrInvalidInput
			}
			price = *line.UnitPrice
		}
		planned = append(planned, plannedLine{item: item, quantity: line.Quantity, unitPrice: price})
	}

	now := time.Now()
	saleID := uuid.New().String()
	ref := entity.DocumentRef{Kind: entity.DocumentKindSale, ID: saleID}

	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		allocRepo repository.AllocationRepository,
		_ repository.PurchaseRepository,
		_ repository.OrderRepository,
		saleRepo repository.SaleRepository,
	) error {
		number, err := saleRepo.NextNumber(companyID)
		if err != nil {
			return err
		}
		sale := &entity.Sale{
			ID:        saleID,
			CompanyID: companyID,
			ClientID:  in.ClientID,
			Number:    number,
			Date:      now,
			Notes:     in.Notes,
			CreatedAt: now,
			UpdatedAt: now,
			CreatedBy: userID,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		// Consumo FIFO por línea; cualquier ErrInsufficientStock hace rollback total.
		for _, line := range planned {
			if err := uc.consumeSvc.ConsumeInTx(lotRepo, allocRepo, line.item, ref, line.quantity, line.unitPrice, userID, now); err != nil {
				return err
			}
		}
		lines, err := allocRepo.ListByParent(ref)
		if err != nil {
			return err
		}
		net, tax, total := domledger.DocumentTotals(lines)
		return saleRepo.UpdateTotals(saleID, net, tax, total, now)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetSale(ctx, companyID, saleID)
}

// GetSale devuelve la venta con sus líneas.
func (uc *SaleUseCase) GetSale(ctx context.Context, companyID, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil || sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.allocRepo.ListByParent(entity.DocumentRef{Kind: entity.DocumentKindSale, ID: saleID})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, lines), nil
}

// ListSales lista ventas de la empresa (sin líneas).
func (uc *SaleUseCase) ListSales(ctx context.Context, companyID string, limit, offset int) ([]*dto.SaleResponse, error) {
	salesList, err := uc.saleRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(salesList))
	for _, s := range salesList {
		out = append(out, toSaleResponse(s, nil))
	}
	return out, nil
}

// GenerateSalePDF arma la representación imprimible de la venta.
func (uc *SaleUseCase) GenerateSalePDF(ctx context.Context, companyID, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil || sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	var client *entity.Client
	if sale.ClientID != "" {
		client, _ = uc.clientRepo.GetByID(sale.ClientID)
	}
	lines, err := uc.allocRepo.ListByParent(entity.DocumentRef{Kind: entity.DocumentKindSale, ID: saleID})
	if err != nil {
		return nil, err
	}
	pdfLines := make([]SaleLineForPDF, 0, len(lines))
	for _, line := range lines {
		desc := line.ItemID
		if item, err := uc.itemRepo.GetByID(line.ItemID); err == nil && item != nil {
			desc = item.Name
		}
		pdfLines = append(pdfLines, SaleLineForPDF{
			Description: desc,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TaxRate:     line.TaxRate,
			Subtotal:    line.Quantity.Mul(line.UnitPrice),
		})
	}
	return uc.pdfGen.GenerateSalePDF(ctx, sale, company, client, pdfLines)
}

func toSaleResponse(sale *entity.Sale, lines []*entity.AllocationLine) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:       sale.ID,
		Number:   sale.Number,
		ClientID: sale.ClientID,
		Date:     sale.Date,
		NetTotal: sale.NetTotal,
		TaxTotal: sale.TaxTotal,
		Total:    sale.Total,
		Notes:    sale.Notes,
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, dto.AllocationLineResponse{
			ID:        line.ID,
			ItemID:    line.ItemID,
			LotID:     line.LotID,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
			UnitPrice: line.UnitPrice,
			TaxRate:   line.TaxRate,
		})
	}
	return resp
}
