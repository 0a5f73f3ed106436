package sales_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-pro/internal/application/sales"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El runner restaura el estado previo cuando fn falla, como
// el ROLLBACK de una transacción real: así se observa que una venta fallida no
// deja ni cabecera, ni líneas, ni lotes descontados.
// ──────────────────────────────────────────────────────────────────────────────

type saleStore struct {
	items     map[string]*entity.InventoryItem
	lots      map[string]*entity.StockLot
	allocs    map[string]*entity.AllocationLine
	sales     map[string]*entity.Sale
	clients   map[string]*entity.Client
	companies map[string]*entity.Company
}

func newSaleStore() *saleStore {
	return &saleStore{
		items:     map[string]*entity.InventoryItem{},
		lots:      map[string]*entity.StockLot{},
		allocs:    map[string]*entity.AllocationLine{},
		sales:     map[string]*entity.Sale{},
		clients:   map[string]*entity.Client{},
		companies: map[string]*entity.Company{},
	}
}

// clone copia profunda del estado, el snapshot previo a la transacción.
func (s *saleStore) clone() *saleStore {
	c := newSaleStore()
	for id, v := range s.items {
		cp := *v
		c.items[id] = &cp
	}
	for id, v := range s.lots {
		cp := *v
		c.lots[id] = &cp
	}
	for id, v := range s.allocs {
		cp := *v
		c.allocs[id] = &cp
	}
	for id, v := range s.sales {
		cp := *v
		c.sales[id] = &cp
	}
	for id, v := range s.clients {
		cp := *v
		c.clients[id] = &cp
	}
	for id, v := range s.companies {
		cp := *v
		c.companies[id] = &cp
	}
	return c
}

// rollbackTxRunner ejecuta fn sobre el store y, si falla, restaura el
// snapshot completo.
type rollbackTxRunner struct{ s *saleStore }

func (t *rollbackTxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	allocRepo repository.AllocationRepository,
	purchaseRepo repository.PurchaseRepository,
	orderRepo repository.OrderRepository,
	saleRepo repository.SaleRepository,
) error) error {
	snap := t.s.clone()
	err := fn(&fakeLotRepo{t.s}, &fakeAllocRepo{t.s}, &fakePurchaseRepo{}, &fakeOrderRepo{}, &fakeSaleRepo{t.s})
	if err != nil {
		*t.s = *snap
	}
	return err
}

// ── LotRepository ─────────────────────────────────────────────────────────────

type fakeLotRepo struct{ s *saleStore }

func (r *fakeLotRepo) Create(lot *entity.StockLot) error {
	c := *lot
	r.s.lots[lot.ID] = &c
	return nil
}

func (r *fakeLotRepo) GetByID(id string) (*entity.StockLot, error) {
	lot, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	c := *lot
	return &c, nil
}

func (r *fakeLotRepo) GetForUpdate(id string) (*entity.StockLot, error) {
	return r.GetByID(id)
}

func (r *fakeLotRepo) ListLiveForUpdate(itemID string) ([]*entity.StockLot, error) {
	var out []*entity.StockLot
	for _, lot := range r.s.lots {
		if lot.ItemID == itemID && lot.IsLive() {
			c := *lot
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeLotRepo) ListByItem(itemID string) ([]*entity.StockLot, error) {
	return r.ListLiveForUpdate(itemID)
}

func (r *fakeLotRepo) ListByPurchaseForUpdate(purchaseID string) ([]*entity.StockLot, error) {
	return nil, nil
}

func (r *fakeLotRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	lot, ok := r.s.lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	lot.Quantity = quantity
	return nil
}

func (r *fakeLotRepo) DeleteByPurchase(purchaseID string) error { return nil }

// ── AllocationRepository ──────────────────────────────────────────────────────

type fakeAllocRepo struct{ s *saleStore }

func (r *fakeAllocRepo) Add(line *entity.AllocationLine) error {
	c := *line
	r.s.allocs[line.ID] = &c
	return nil
}

func (r *fakeAllocRepo) GetByID(id string) (*entity.AllocationLine, error) {
	line, ok := r.s.allocs[id]
	if !ok {
		return nil, nil
	}
	c := *line
	return &c, nil
}

func (r *fakeAllocRepo) ListByParent(ref entity.DocumentRef) ([]*entity.AllocationLine, error) {
	var out []*entity.AllocationLine
	for _, line := range r.s.allocs {
		if line.ParentKind == ref.Kind && line.ParentID == ref.ID {
			c := *line
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAllocRepo) Delete(id string) error {
	if _, ok := r.s.allocs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.allocs, id)
	return nil
}

func (r *fakeAllocRepo) DeleteByParent(ref entity.DocumentRef) error {
	for id, line := range r.s.allocs {
		if line.ParentKind == ref.Kind && line.ParentID == ref.ID {
			delete(r.s.allocs, id)
		}
	}
	return nil
}

// ── SaleRepository ────────────────────────────────────────────────────────────

type fakeSaleRepo struct{ s *saleStore }

func (r *fakeSaleRepo) Create(sale *entity.Sale) error {
	c := *sale
	r.s.sales[sale.ID] = &c
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	c := *sale
	return &c, nil
}

func (r *fakeSaleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		if sale.CompanyID == companyID {
			c := *sale
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// NextNumber imita COALESCE(MAX(number), 0) + 1 por empresa.
func (r *fakeSaleRepo) NextNumber(companyID string) (int64, error) {
	var max int64
	for _, sale := range r.s.sales {
		if sale.CompanyID == companyID && sale.Number > max {
			max = sale.Number
		}
	}
	return max + 1, nil
}

func (r *fakeSaleRepo) UpdateTotals(id string, net, tax, total decimal.Decimal, updatedAt time.Time) error {
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

func (r *fakeSaleRepo) Delete(id string) error {
	delete(r.s.sales, id)
	return nil
}

// ── ItemRepository / ClientRepository / CompanyRepository ─────────────────────

type fakeItemRepo struct{ s *saleStore }

func (r *fakeItemRepo) Create(item *entity.InventoryItem) error {
	c := *item
	r.s.items[item.ID] = &c
	return nil
}

func (r *fakeItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	item, ok := r.s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *item
	return &c, nil
}

func (r *fakeItemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.InventoryItem, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeItemRepo) Update(item *entity.InventoryItem) error { return nil }

func (r *fakeItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.InventoryItem, error) {
	return nil, nil
}

func (r *fakeItemRepo) Delete(id string) error { return nil }

type fakeClientRepo struct{ s *saleStore }

func (r *fakeClientRepo) Create(client *entity.Client) error { return nil }

func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	client, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	c := *client
	return &c, nil
}

func (r *fakeClientRepo) GetByCompanyAndTaxID(companyID, taxID string) (*entity.Client, error) {
	return nil, nil
}

func (r *fakeClientRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Client, error) {
	return nil, nil
}

func (r *fakeClientRepo) Update(client *entity.Client) error { return nil }
func (r *fakeClientRepo) Delete(id string) error             { return nil }

type fakeCompanyRepo struct{ s *saleStore }

func (r *fakeCompanyRepo) Create(company *entity.Company) error { return nil }

func (r *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	company, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	c := *company
	return &c, nil
}

func (r *fakeCompanyRepo) GetByNIT(nit string) (*entity.Company, error) { return nil, nil }
func (r *fakeCompanyRepo) Update(company *entity.Company) error         { return nil }
func (r *fakeCompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	return nil, nil
}
func (r *fakeCompanyRepo) Delete(id string) error { return nil }

// ── Stubs sin estado ──────────────────────────────────────────────────────────

type fakePurchaseRepo struct{}

func (r *fakePurchaseRepo) Create(entry *entity.StockEntry) error         { return nil }
func (r *fakePurchaseRepo) CreateLine(line *entity.StockEntryLine) error  { return nil }
func (r *fakePurchaseRepo) GetByID(id string) (*entity.StockEntry, error) { return nil, nil }
func (r *fakePurchaseRepo) ListLines(purchaseID string) ([]*entity.StockEntryLine, error) {
	return nil, nil
}
func (r *fakePurchaseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockEntry, error) {
	return nil, nil
}
func (r *fakePurchaseRepo) Delete(id string) error { return nil }

type fakeOrderRepo struct{}

func (r *fakeOrderRepo) Create(order *entity.Order) error         { return nil }
func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) { return nil, nil }
func (r *fakeOrderRepo) Update(order *entity.Order) error         { return nil }
func (r *fakeOrderRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Order, error) {
	return nil, nil
}
func (r *fakeOrderRepo) ListByVehicle(vehicleID string, limit, offset int) ([]*entity.Order, error) {
	return nil, nil
}
func (r *fakeOrderRepo) NextNumber(companyID string) (int64, error) { return 1, nil }
func (r *fakeOrderRepo) Delete(id string) error                     { return nil }

// fakePDFGen captura la última venta impresa.
type fakePDFGen struct {
	lastLines []sales.SaleLineForPDF
}

func (g *fakePDFGen) GenerateSalePDF(
	ctx context.Context,
	sale *entity.Sale,
	company *entity.Company,
	client *entity.Client,
	lines []sales.SaleLineForPDF,
) ([]byte, error) {
	g.lastLines = lines
	return []byte("%PDF-fake"), nil
}
