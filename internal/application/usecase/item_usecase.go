package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/ledger"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para ítems de inventario y servicios.
// Stock y costo promedio se proyectan desde los lotes al armar la respuesta;
// nunca se escriben ni se leen de una columna del ítem.
type ItemUseCase struct {
	repo    repository.ItemRepository
	lotRepo repository.LotRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, lotRepo repository.LotRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo, lotRepo: lotRepo}
}

// Create crea un nuevo ítem. El SKU es único por empresa.
func (uc *ItemUseCase) Create(companyID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	existing, _ := uc.repo.GetByCompanyAndSKU(companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := validateTaxRate(in.TaxRate); err != nil {
		return nil, err
	}
	if in.SalePrice.IsNegative() || in.CostPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.InventoryItem{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Brand:       in.Brand,
		SalePrice:   in.SalePrice,
		CostPrice:   in.CostPrice,
		TaxRate:     in.TaxRate,
		IsService:   in.IsService,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return uc.toItemResponse(item)
}

// GetByID obtiene un ítem por ID con su stock derivado.
func (uc *ItemUseCase) GetByID(companyID, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return uc.toItemResponse(item)
}

// Update actualiza un ítem. No permite cambiar IsService: un servicio que
// pasara a físico (o viceversa) dejaría lotes o consumos huérfanos.
func (uc *ItemUseCase) Update(companyID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Brand != nil {
		item.Brand = *in.Brand
	}
	if in.SalePrice != nil {
		if in.SalePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.SalePrice = *in.SalePrice
	}
	if in.CostPrice != nil {
		if in.CostPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.CostPrice = *in.CostPrice
	}
	if in.TaxRate != nil {
		if err := validateTaxRate(*in.TaxRate); err != nil {
			return nil, err
		}
		item.TaxRate = *in.TaxRate
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return uc.toItemResponse(item)
}

// List lista ítems por empresa con paginación, cada uno con su stock derivado.
func (uc *ItemUseCase) List(companyID string, limit, offset int) (*dto.ItemListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		resp, err := uc.toItemResponse(it)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un ítem. Rechaza el borrado si el ítem tiene lotes: el
// historial de compras y consumos no debe quedar apuntando a un ítem borrado.
func (uc *ItemUseCase) Delete(companyID, id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil || item.CompanyID != companyID {
		return domain.ErrNotFound
	}
	if !item.IsService {
		lots, err := uc.lotRepo.ListByItem(id)
		if err != nil {
			return err
		}
		if len(lots) > 0 {
			return domain.ErrLotInUse
		}
	}
	return uc.repo.Delete(id)
}

func (uc *ItemUseCase) toItemResponse(item *entity.InventoryItem) (*dto.ItemResponse, error) {
	stock, avgCost := decimal.Zero, item.CostPrice
	if !item.IsService {
		lots, err := uc.lotRepo.ListByItem(item.ID)
		if err != nil {
			return nil, err
		}
		stock, avgCost = ledger.Aggregate(lots, item.CostPrice)
	}
	return &dto.ItemResponse{
		ID:          item.ID,
		SKU:         item.SKU,
		Name:        item.Name,
		Description: item.Description,
		Brand:       item.Brand,
		SalePrice:   item.SalePrice,
		CostPrice:   item.CostPrice,
		TaxRate:     item.TaxRate,
		IsService:   item.IsService,
		Stock:       stock,
		AverageCost: avgCost,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}, nil
}

// validateTaxRate acepta las tarifas de IVA vigentes: 0%, 5% y 19%.
func validateTaxRate(rate decimal.Decimal) error {
	tax5 := decimal.NewFromInt(5)
	tax19 := decimal.NewFromInt(19)
	if !rate.Equal(decimal.Zero) && !rate.Equal(tax5) && !rate.Equal(tax19) {
		return domain.ErrInvalidInput
	}
	return nil
}
