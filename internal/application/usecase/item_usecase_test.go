package usecase_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/application/usecase"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
)

// Fakes en memoria mínimos para el CRUD de ítems. Copian las entidades al
// entrar y salir, igual que una BD real.

type fakeItemRepo struct {
	items map[string]*entity.InventoryItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[string]*entity.InventoryItem{}}
}

func (r *fakeItemRepo) Create(item *entity.InventoryItem) error {
	c := *item
	r.items[item.ID] = &c
	return nil
}

func (r *fakeItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	c := *item
	return &c, nil
}

func (r *fakeItemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.InventoryItem, error) {
	for _, item := range r.items {
		if item.CompanyID == companyID && item.SKU == sku {
			c := *item
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) Update(item *entity.InventoryItem) error {
	c := *item
	r.items[item.ID] = &c
	return nil
}

func (r *fakeItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, item := range r.items {
		if item.CompanyID == companyID {
			c := *item
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Delete(id string) error {
	delete(r.items, id)
	return nil
}

type fakeLotRepo struct {
	lots map[string]*entity.StockLot
}

func newFakeLotRepo() *fakeLotRepo {
	return &fakeLotRepo{lots: map[string]*entity.StockLot{}}
}

func (r *fakeLotRepo) addLot(itemID string, qty, cost int64) {
	id := uuid.New().String()
	r.lots[id] = &entity.StockLot{
		ID:          id,
		ItemID:      itemID,
		CreatedAt:   time.Now(),
		ReceivedQty: decimal.NewFromInt(qty),
		Quantity:    decimal.NewFromInt(qty),
		UnitCost:    decimal.NewFromInt(cost),
	}
}

func (r *fakeLotRepo) Create(lot *entity.StockLot) error {
	c := *lot
	r.lots[lot.ID] = &c
	return nil
}

func (r *fakeLotRepo) GetByID(id string) (*entity.StockLot, error)      { return r.clone(id), nil }
func (r *fakeLotRepo) GetForUpdate(id string) (*entity.StockLot, error) { return r.clone(id), nil }

func (r *fakeLotRepo) clone(id string) *entity.StockLot {
	lot, ok := r.lots[id]
	if !ok {
		return nil
	}
	c := *lot
	return &c
}

func (r *fakeLotRepo) ListLiveForUpdate(itemID string) ([]*entity.StockLot, error) {
	var out []*entity.StockLot
	for _, lot := range r.lots {
		if lot.ItemID == itemID && lot.IsLive() {
			c := *lot
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeLotRepo) ListByItem(itemID string) ([]*entity.StockLot, error) {
	var out []*entity.StockLot
	for _, lot := range r.lots {
		if lot.ItemID == itemID {
			c := *lot
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeLotRepo) ListByPurchaseForUpdate(purchaseID string) ([]*entity.StockLot, error) {
	return nil, nil
}

func (r *fakeLotRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	lot, ok := r.lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	lot.Quantity = quantity
	return nil
}

func (r *fakeLotRepo) DeleteByPurchase(purchaseID string) error { return nil }

func newItemUC() (*usecase.ItemUseCase, *fakeItemRepo, *fakeLotRepo) {
	itemRepo := newFakeItemRepo()
	lotRepo := newFakeLotRepo()
	return usecase.NewItemUseCase(itemRepo, lotRepo), itemRepo, lotRepo
}

func TestItemCreate(t *testing.T) {
	uc, _, _ := newItemUC()

	out, err := uc.Create("empresa-1", dto.CreateItemRequest{
		SKU:       "FIL-001",
		Name:      "Filtro de aceite",
		SalePrice: decimal.NewFromInt(35000),
		CostPrice: decimal.NewFromInt(20000),
		TaxRate:   decimal.NewFromInt(19),
	})
	require.NoError(t, err)
	assert.Equal(t, "FIL-001", out.SKU)
	assert.True(t, out.Stock.IsZero(), "un ítem recién creado no tiene stock")
	assert.True(t, out.AverageCost.Equal(decimal.NewFromInt(20000)),
		"sin lotes, el costo promedio cae al costo nominal del ítem")
}

func TestItemCreateSKUDuplicado(t *testing.T) {
	uc, _, _ := newItemUC()

	_, err := uc.Create("empresa-1", dto.CreateItemRequest{SKU: "FIL-001", Name: "Filtro"})
	require.NoError(t, err)

	_, err = uc.Create("empresa-1", dto.CreateItemRequest{SKU: "FIL-001", Name: "Otro filtro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el SKU es único por empresa")

	// El mismo SKU en OTRA empresa sí es válido
	_, err = uc.Create("empresa-2", dto.CreateItemRequest{SKU: "FIL-001", Name: "Filtro"})
	assert.NoError(t, err)
}

func TestItemCreateTarifaIVAInvalida(t *testing.T) {
	uc, _, _ := newItemUC()

	_, err := uc.Create("empresa-1", dto.CreateItemRequest{
		SKU:     "FIL-002",
		Name:    "Filtro",
		TaxRate: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "solo 0, 5 y 19 son tarifas válidas")
}

func TestItemStockDerivadoDeLotes(t *testing.T) {
	uc, itemRepo, lotRepo := newItemUC()

	item := &entity.InventoryItem{
		ID:        "item-1",
		CompanyID: "empresa-1",
		SKU:       "PAS-001",
		Name:      "Pastillas de freno",
		CostPrice: decimal.NewFromInt(50000),
	}
	require.NoError(t, itemRepo.Create(item))
	lotRepo.addLot("item-1", 10, 40000)
	lotRepo.addLot("item-1", 5, 46000)

	out, err := uc.GetByID("empresa-1", "item-1")
	require.NoError(t, err)
	assert.True(t, out.Stock.Equal(decimal.NewFromInt(15)), "stock = suma de lotes vivos")
	// (10*40000 + 5*46000) / 15 = 42000
	assert.True(t, out.AverageCost.Equal(decimal.NewFromInt(42000)),
		"costo promedio ponderado por cantidad: esperado 42000, obtenido %s", out.AverageCost)
}

func TestItemGetDeOtraEmpresa(t *testing.T) {
	uc, itemRepo, _ := newItemUC()

	require.NoError(t, itemRepo.Create(&entity.InventoryItem{
		ID: "item-1", CompanyID: "empresa-1", SKU: "X", Name: "X",
	}))

	_, err := uc.GetByID("empresa-2", "item-1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "los ítems de otra empresa no existen para el caller")
}

func TestItemDeleteConLotes(t *testing.T) {
	uc, itemRepo, lotRepo := newItemUC()

	require.NoError(t, itemRepo.Create(&entity.InventoryItem{
		ID: "item-1", CompanyID: "empresa-1", SKU: "PAS-001", Name: "Pastillas",
	}))
	lotRepo.addLot("item-1", 3, 40000)

	err := uc.Delete("empresa-1", "item-1")
	assert.ErrorIs(t, err, domain.ErrLotInUse, "un ítem con lotes no se puede borrar")

	// Sin lotes sí se puede
	require.NoError(t, itemRepo.Create(&entity.InventoryItem{
		ID: "item-2", CompanyID: "empresa-1", SKU: "OTR-001", Name: "Otro",
	}))
	assert.NoError(t, uc.Delete("empresa-1", "item-2"))
}

func TestItemUpdateParcial(t *testing.T) {
	uc, itemRepo, _ := newItemUC()

	require.NoError(t, itemRepo.Create(&entity.InventoryItem{
		ID: "item-1", CompanyID: "empresa-1", SKU: "PAS-001", Name: "Pastillas",
		SalePrice: decimal.NewFromInt(90000),
		TaxRate:   decimal.NewFromInt(19),
	}))

	nuevoNombre := "Pastillas de freno delanteras"
	out, err := uc.Update("empresa-1", "item-1", dto.UpdateItemRequest{Name: &nuevoNombre})
	require.NoError(t, err)
	assert.Equal(t, nuevoNombre, out.Name)
	assert.True(t, out.SalePrice.Equal(decimal.NewFromInt(90000)), "los campos no enviados no cambian")

	precioNegativo := decimal.NewFromInt(-1)
	_, err = uc.Update("empresa-1", "item-1", dto.UpdateItemRequest{SalePrice: &precioNegativo})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
