package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/application/orders"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para cabeceras de órdenes (sin transacciones: este caso de
// uso no muta inventario)
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompany = "company-1"
	testUser    = "user-1"
)

type orderStore struct {
	orders   map[string]*entity.Order
	clients  map[string]*entity.Client
	vehicles map[string]*entity.Vehicle
	allocs   map[string]*entity.AllocationLine
}

type fakeOrderRepo struct{ s *orderStore }

func (r *fakeOrderRepo) Create(order *entity.Order) error {
	c := *order
	r.s.orders[order.ID] = &c
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	order, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	c := *order
	return &c, nil
}

func (r *fakeOrderRepo) Update(order *entity.Order) error {
	c := *order
	r.s.orders[order.ID] = &c
	return nil
}

func (r *fakeOrderRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, order := range r.s.orders {
		if order.CompanyID == companyID {
			c := *order
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByVehicle(vehicleID string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, order := range r.s.orders {
		if order.VehicleID == vehicleID {
			c := *order
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) NextNumber(companyID string) (int64, error) {
	var max int64
	for _, order := range r.s.orders {
		if order.CompanyID == companyID && order.Number > max {
			max = order.Number
		}
	}
	return max + 1, nil
}

func (r *fakeOrderRepo) Delete(id string) error {
	delete(r.s.orders, id)
	return nil
}

type fakeClientRepo struct{ s *orderStore }

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

type fakeVehicleRepo struct{ s *orderStore }

func (r *fakeVehicleRepo) Create(vehicle *entity.Vehicle) error { return nil }

func (r *fakeVehicleRepo) GetByID(id string) (*entity.Vehicle, error) {
	vehicle, ok := r.s.vehicles[id]
	if !ok {
		return nil, nil
	}
	c := *vehicle
	return &c, nil
}

func (r *fakeVehicleRepo) GetByCompanyAndPlate(companyID, plate string) (*entity.Vehicle, error) {
	return nil, nil
}

func (r *fakeVehicleRepo) ListByClient(clientID string) ([]*entity.Vehicle, error) { return nil, nil }

func (r *fakeVehicleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Vehicle, error) {
	return nil, nil
}

func (r *fakeVehicleRepo) Update(vehicle *entity.Vehicle) error { return nil }
func (r *fakeVehicleRepo) Delete(id string) error               { return nil }

type fakeAllocRepo struct{ s *orderStore }

func (r *fakeAllocRepo) Add(line *entity.AllocationLine) error {
	c := *line
	r.s.allocs[line.ID] = &c
	return nil
}

func (r *fakeAllocRepo) GetByID(id string) (*entity.AllocationLine, error) { return nil, nil }

func (r *fakeAllocRepo) ListByParent(ref entity.DocumentRef) ([]*entity.AllocationLine, error) {
	var out []*entity.AllocationLine
	for _, line := range r.s.allocs {
		if line.ParentKind == ref.Kind && line.ParentID == ref.ID {
			c := *line
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeAllocRepo) Delete(id string) error                      { return nil }
func (r *fakeAllocRepo) DeleteByParent(ref entity.DocumentRef) error { return nil }

type orderEnv struct {
	store *orderStore
	uc    *orders.OrderUseCase
	ctx   context.Context
}

func newOrderEnv(t *testing.T) *orderEnv {
	t.Helper()
	store := &orderStore{
		orders:   map[string]*entity.Order{},
		clients:  map[string]*entity.Client{},
		vehicles: map[string]*entity.Vehicle{},
		allocs:   map[string]*entity.AllocationLine{},
	}
	uc := orders.NewOrderUseCase(
		&fakeOrderRepo{store},
		&fakeClientRepo{store},
		&fakeVehicleRepo{store},
		&fakeAllocRepo{store},
	)
	return &orderEnv{store: store, uc: uc, ctx: context.Background()}
}

func (e *orderEnv) addClient(id, companyID string) {
	e.store.clients[id] = &entity.Client{ID: id, CompanyID: companyID, Name: "Cliente"}
}

func (e *orderEnv) addVehicle(id, companyID, clientID string) {
	e.store.vehicles[id] = &entity.Vehicle{ID: id, CompanyID: companyID, ClientID: clientID, Plate: "ABC123"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y actualización de órdenes
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_AbreConNumeroConsecutivo(t *testing.T) {
	e := newOrderEnv(t)
	e.addClient("client-1", testCompany)
	e.addVehicle("vehicle-1", testCompany, "client-1")

	primera, err := e.uc.CreateOrder(e.ctx, testCompany, testUser, dto.CreateOrderRequest{
		ClientID:  "client-1",
		VehicleID: "vehicle-1",
		Symptoms:  "ruido al frenar",
		Mileage:   85000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), primera.Number)
	assert.Equal(t, entity.OrderStatusOpen, primera.Status, "toda orden nace abierta")

	segunda, err := e.uc.CreateOrder(e.ctx, testCompany, testUser, dto.CreateOrderRequest{
		ClientID:  "client-1",
		VehicleID: "vehicle-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), segunda.Number, "consecutivo por empresa")

	guardada := e.store.orders[primera.ID]
	require.NotNil(t, guardada)
	assert.Equal(t, testUser, guardada.CreatedBy)
}

func TestCreateOrder_VehiculoDeOtroCliente(t *testing.T) {
	e := newOrderEnv(t)
	e.addClient("client-1", testCompany)
	e.addClient("client-2", testCompany)
	e.addVehicle("vehicle-1", testCompany, "client-2")

	_, err := e.uc.CreateOrder(e.ctx, testCompany, testUser, dto.CreateOrderRequest{
		ClientID:  "client-1",
		VehicleID: "vehicle-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el vehículo debe pertenecer al cliente de la orden")
	assert.Empty(t, e.store.orders)
}

func TestCreateOrder_ClienteDeOtraEmpresa(t *testing.T) {
	e := newOrderEnv(t)
	e.addClient("client-1", "company-2")
	e.addVehicle("vehicle-1", "company-2", "client-1")

	_, err := e.uc.CreateOrder(e.ctx, testCompany, testUser, dto.CreateOrderRequest{
		ClientID:  "client-1",
		VehicleID: "vehicle-1",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateOrder_CambiaEstadoYDiagnostico(t *testing.T) {
	e := newOrderEnv(t)
	e.addClient("client-1", testCompany)
	e.addVehicle("vehicle-1", testCompany, "client-1")
	creada, err := e.uc.CreateOrder(e.ctx, testCompany, testUser, dto.CreateOrderRequest{
		ClientID:  "client-1",
		VehicleID: "vehicle-1",
	})
	require.NoError(t, err)

	estado := entity.OrderStatusInProgress
	diagnostico := "pastillas cristalizadas"
	resp, err := e.uc.UpdateOrder(e.ctx, testCompany, creada.ID, dto.UpdateOrderRequest{
		Status:    &estado,
		Diagnosis: &diagnostico,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusInProgress, resp.Status)
	assert.Equal(t, "pastillas cristalizadas", resp.Diagnosis)
	assert.Equal(t, "client-1", resp.ClientID, "los campos no enviados quedan intactos")
}

func TestUpdateOrder_OtraEmpresa(t *testing.T) {
	e := newOrderEnv(t)
	e.store.orders["order-ajena"] = &entity.Order{ID: "order-ajena", CompanyID: "company-2"}

	estado := entity.OrderStatusDone
	_, err := e.uc.UpdateOrder(e.ctx, testCompany, "order-ajena", dto.UpdateOrderRequest{Status: &estado})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetOrder_IncluyeLineasCongeladas(t *testing.T) {
	e := newOrderEnv(t)
	e.addClient("client-1", testCompany)
	e.addVehicle("vehicle-1", testCompany, "client-1")
	creada, err := e.uc.CreateOrder(e.ctx, testCompany, testUser, dto.CreateOrderRequest{
		ClientID:  "client-1",
		VehicleID: "vehicle-1",
	})
	require.NoError(t, err)

	e.store.allocs["line-1"] = &entity.AllocationLine{
		ID:         "line-1",
		ParentKind: entity.DocumentKindOrder,
		ParentID:   creada.ID,
		ItemID:     "item-1",
		LotID:      "lot-1",
		Quantity:   decimal.NewFromInt(2),
		UnitCost:   decimal.NewFromInt(10),
		UnitPrice:  decimal.NewFromInt(25),
		CreatedAt:  time.Now(),
	}

	resp, err := e.uc.GetOrder(e.ctx, testCompany, creada.ID)
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "lot-1", resp.Lines[0].LotID)
	assert.True(t, resp.Lines[0].UnitCost.Equal(decimal.NewFromInt(10)))
}

func TestListOrdersByVehicle_VehiculoAjeno(t *testing.T) {
	e := newOrderEnv(t)
	e.addVehicle("vehicle-1", "company-2", "client-1")

	_, err := e.uc.ListOrdersByVehicle(e.ctx, testCompany, "vehicle-1", 50, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
