package ledger_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los puertos de persistencia. Copian las entidades al
// entrar y salir, igual que una BD real: mutar un puntero devuelto no cambia
// el estado guardado.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	items     map[string]*entity.InventoryItem
	lots      map[string]*entity.StockLot
	allocs    map[string]*entity.AllocationLine
	purchases map[string]*entity.StockEntry
	pLines    map[string]*entity.StockEntryLine
	orders    map[string]*entity.Order
	sales     map[string]*entity.Sale

	// onAllocGetByID se ejecuta tras leer una línea, antes de devolverla.
	// Permite intercalar una operación competidora en la ventana entre la
	// lectura de la línea y su borrado.
	onAllocGetByID func()
}

func newMemStore() *memStore {
	return &memStore{
		items:     map[string]*entity.InventoryItem{},
		lots:      map[string]*entity.StockLot{},
		allocs:    map[string]*entity.AllocationLine{},
		purchases: map[string]*entity.StockEntry{},
		pLines:    map[string]*entity.StockEntryLine{},
		orders:    map[string]*entity.Order{},
		sales:     map[string]*entity.Sale{},
	}
}

// lotSnapshot copia id -> cantidad para verificar atomicidad antes/después.
func (s *memStore) lotSnapshot() map[string]decimal.Decimal {
	snap := map[string]decimal.Decimal{}
	for id, lot := range s.lots {
		snap[id] = lot.Quantity
	}
	return snap
}

func cloneLot(l *entity.StockLot) *entity.StockLot {
	c := *l
	return &c
}

func cloneAlloc(a *entity.AllocationLine) *entity.AllocationLine {
	c := *a
	return &c
}

// ── LotRepository ─────────────────────────────────────────────────────────────

type memLotRepo struct{ s *memStore }

func (r *memLotRepo) Create(lot *entity.StockLot) error {
	r.s.lots[lot.ID] = cloneLot(lot)
	return nil
}

func (r *memLotRepo) GetByID(id string) (*entity.StockLot, error) {
	lot, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	return cloneLot(lot), nil
}

func (r *memLotRepo) GetForUpdate(id string) (*entity.StockLot, error) {
	return r.GetByID(id)
}

func (r *memLotRepo) ListLiveForUpdate(itemID string) ([]*entity.StockLot, error) {
	var out []*entity.StockLot
	for _, lot := range r.s.lots {
		if lot.ItemID == itemID && lot.IsLive() {
			out = append(out, cloneLot(lot))
		}
	}
	sortLots(out)
	return out, nil
}

func (r *memLotRepo) ListByItem(itemID string) ([]*entity.StockLot, error) {
	var out []*entity.StockLot
	for _, lot := range r.s.lots {
		if lot.ItemID == itemID {
			out = append(out, cloneLot(lot))
		}
	}
	sortLots(out)
	return out, nil
}

func (r *memLotRepo) ListByPurchaseForUpdate(purchaseID string) ([]*entity.StockLot, error) {
	var out []*entity.StockLot
	for _, lot := range r.s.lots {
		if lot.PurchaseID == purchaseID {
			out = append(out, cloneLot(lot))
		}
	}
	sortLots(out)
	return out, nil
}

func (r *memLotRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	lot, ok := r.s.lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	lot.Quantity = quantity
	return nil
}

func (r *memLotRepo) DeleteByPurchase(purchaseID string) error {
	for id, lot := range r.s.lots {
		if lot.PurchaseID == purchaseID {
			delete(r.s.lots, id)
		}
	}
	return nil
}

func sortLots(lots []*entity.StockLot) {
	sort.Slice(lots, func(i, j int) bool {
		if lots[i].CreatedAt.Equal(lots[j].CreatedAt) {
			return lots[i].ID < lots[j].ID
		}
		return lots[i].CreatedAt.Before(lots[j].CreatedAt)
	})
}

// ── AllocationRepository ──────────────────────────────────────────────────────

type memAllocRepo struct{ s *memStore }

func (r *memAllocRepo) Add(line *entity.AllocationLine) error {
	r.s.allocs[line.ID] = cloneAlloc(line)
	return nil
}

func (r *memAllocRepo) GetByID(id string) (*entity.AllocationLine, error) {
	line, ok := r.s.allocs[id]
	if !ok {
		return nil, nil
	}
	out := cloneAlloc(line)
	if r.s.onAllocGetByID != nil {
		r.s.onAllocGetByID()
	}
	return out, nil
}

func (r *memAllocRepo) ListByParent(ref entity.DocumentRef) ([]*entity.AllocationLine, error) {
	var out []*entity.AllocationLine
	for _, line := range r.s.allocs {
		if line.ParentKind == ref.Kind && line.ParentID == ref.ID {
			out = append(out, cloneAlloc(line))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memAllocRepo) Delete(id string) error {
	if _, ok := r.s.allocs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.allocs, id)
	return nil
}

func (r *memAllocRepo) DeleteByParent(ref entity.DocumentRef) error {
	for id, line := range r.s.allocs {
		if line.ParentKind == ref.Kind && line.ParentID == ref.ID {
			delete(r.s.allocs, id)
		}
	}
	return nil
}

// ── PurchaseRepository ────────────────────────────────────────────────────────

type memPurchaseRepo struct{ s *memStore }

func (r *memPurchaseRepo) Create(entry *entity.StockEntry) error {
	c := *entry
	r.s.purchases[entry.ID] = &c
	return nil
}

func (r *memPurchaseRepo) CreateLine(line *entity.StockEntryLine) error {
	c := *line
	r.s.pLines[line.ID] = &c
	return nil
}

func (r *memPurchaseRepo) GetByID(id string) (*entity.StockEntry, error) {
	entry, ok := r.s.purchases[id]
	if !ok {
		return nil, nil
	}
	c := *entry
	return &c, nil
}

func (r *memPurchaseRepo) ListLines(purchaseID string) ([]*entity.StockEntryLine, error) {
	var out []*entity.StockEntryLine
	for _, line := range r.s.pLines {
		if line.PurchaseID == purchaseID {
			c := *line
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memPurchaseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	for _, entry := range r.s.purchases {
		if entry.CompanyID == companyID {
			c := *entry
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memPurchaseRepo) Delete(id string) error {
	delete(r.s.purchases, id)
	for lineID, line := range r.s.pLines {
		if line.PurchaseID == id {
			delete(r.s.pLines, lineID)
		}
	}
	return nil
}

// ── OrderRepository / SaleRepository ──────────────────────────────────────────

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) Create(order *entity.Order) error {
	c := *order
	r.s.orders[order.ID] = &c
	return nil
}

func (r *memOrderRepo) GetByID(id string) (*entity.Order, error) {
	order, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	c := *order
	return &c, nil
}

func (r *memOrderRepo) Update(order *entity.Order) error {
	c := *order
	r.s.orders[order.ID] = &c
	return nil
}

func (r *memOrderRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Order, error) {
	return nil, nil
}

func (r *memOrderRepo) ListByVehicle(vehicleID string, limit, offset int) ([]*entity.Order, error) {
	return nil, nil
}

func (r *memOrderRepo) NextNumber(companyID string) (int64, error) {
	return int64(len(r.s.orders) + 1), nil
}

func (r *memOrderRepo) Delete(id string) error {
	delete(r.s.orders, id)
	return nil
}

type memSaleRepo struct{ s *memStore }

func (r *memSaleRepo) Create(sale *entity.Sale) error {
	c := *sale
	r.s.sales[sale.ID] = &c
	return nil
}

func (r *memSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	c := *sale
	return &c, nil
}

func (r *memSaleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error) {
	return nil, nil
}

func (r *memSaleRepo) NextNumber(companyID string) (int64, error) {
	return int64(len(r.s.sales) + 1), nil
}

func (r *memSaleRepo) UpdateTotals(id string, net, tax, total decimal.Decimal, updatedAt time.Time) error {
	sale, ok := r.s.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	sale.NetTotal = net
	sale.TaxTotal = tax
	sale.Total = total
	sale.UpdatedAt = updatedAt
	return nil
}

func (r *memSaleRepo) Delete(id string) error {
	delete(r.s.sales, id)
	return nil
}

// ── ItemRepository ────────────────────────────────────────────────────────────

type memItemRepo struct{ s *memStore }

func (r *memItemRepo) Create(item *entity.InventoryItem) error {
	c := *item
	r.s.items[item.ID] = &c
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	item, ok := r.s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *item
	return &c, nil
}

func (r *memItemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.InventoryItem, error) {
	for _, item := range r.s.items {
		if item.CompanyID == companyID && item.SKU == sku {
			c := *item
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memItemRepo) Update(item *entity.InventoryItem) error {
	c := *item
	r.s.items[item.ID] = &c
	return nil
}

func (r *memItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.InventoryItem, error) {
	return nil, nil
}

func (r *memItemRepo) Delete(id string) error {
	delete(r.s.items, id)
	return nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// memTxRunner invoca fn con los repos en memoria. No simula rollback: la
// atomicidad observable de los casos de uso se apoya en verificar antes de
// escribir, que es exactamente lo que los tests comprueban.
type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	allocRepo repository.AllocationRepository,
	purchaseRepo repository.PurchaseRepository,
	orderRepo repository.OrderRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return fn(&memLotRepo{t.s}, &memAllocRepo{t.s}, &memPurchaseRepo{t.s}, &memOrderRepo{t.s}, &memSaleRepo{t.s})
}
