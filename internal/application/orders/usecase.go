package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// OrderUseCase administra cabeceras de órdenes de reparación. Las líneas de
// repuestos entran y salen únicamente por los casos de uso del libro de lotes
// (consumo/reversión); aquí solo se leen.
type OrderUseCase struct {
	orderRepo   repository.OrderRepository
	clientRepo  repository.ClientRepository
	vehicleRepo repository.VehicleRepository
	allocRepo   repository.AllocationRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	clientRepo repository.ClientRepository,
	vehicleRepo repository.VehicleRepository,
	allocRepo repository.AllocationRepository,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		clientRepo:  clientRepo,
		vehicleRepo: vehicleRepo,
		allocRepo:   allocRepo,
	}
}

// CreateOrder abre una orden de reparación para un vehículo.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, companyID, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.ClientID == "" || in.VehicleID == "" {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}
	if client.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	vehicle, err := uc.vehicleRepo.GetByID(in.VehicleID)
	if err != nil || vehicle == nil {
		return nil, domain.ErrNotFound
	}
	if vehicle.CompanyID != companyID || vehicle.ClientID != in.ClientID {
		return nil, domain.ErrInvalidInput
	}

	number, err := uc.orderRepo.NextNumber(companyID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	order := &entity.Order{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		ClientID:  in.ClientID,
		VehicleID: in.VehicleID,
		Number:    number,
		Status:    entity.OrderStatusOpen,
		Symptoms:  in.Symptoms,
		Diagnosis: in.Diagnosis,
		Mileage:   in.Mileage,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: userID,
	}
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return toOrderResponse(order, nil), nil
}

// GetOrder devuelve la orden con sus líneas de asignación.
func (uc *OrderUseCase) GetOrder(ctx context.Context, companyID, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil || order == nil {
		return nil, domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.allocRepo.ListByParent(entity.DocumentRef{Kind: entity.DocumentKindOrder, ID: orderID})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, lines), nil
}

// UpdateOrder actualiza cabecera (estado, diagnóstico, kilometraje, notas).
func (uc *OrderUseCase) UpdateOrder(ctx context.Context, companyID, orderID string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil || order == nil {
		return nil, domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Status != nil {
		order.Status = *in.Status
	}
	if in.Diagnosis != nil {
		order.Diagnosis = *in.Diagnosis
	}
	if in.Mileage != nil {
		order.Mileage = *in.Mileage
	}
	if in.Notes != nil {
		order.Notes = *in.Notes
	}
	order.UpdatedAt = time.Now()
	if err := uc.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return toOrderResponse(order, nil), nil
}

// ListOrders lista órdenes de la empresa (sin líneas).
func (uc *OrderUseCase) ListOrders(ctx context.Context, companyID string, limit, offset int) ([]*dto.OrderResponse, error) {
	ordersList, err := uc.orderRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(ordersList))
	for _, o := range ordersList {
		out = append(out, toOrderResponse(o, nil))
	}
	return out, nil
}

// ListOrdersByVehicle historial de órdenes de un vehículo.
func (uc *OrderUseCase) ListOrdersByVehicle(ctx context.Context, companyID, vehicleID string, limit, offset int) ([]*dto.OrderResponse, error) {
	vehicle, err := uc.vehicleRepo.GetByID(vehicleID)
	if err != nil || vehicle == nil {
		return nil, domain.ErrNotFound
	}
	if vehicle.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	ordersList, err := uc.orderRepo.ListByVehicle(vehicleID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(ordersList))
	for _, o := range ordersList {
		out = append(out, toOrderResponse(o, nil))
	}
	return out, nil
}

func toOrderResponse(order *entity.Order, lines []*entity.AllocationLine) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:        order.ID,
		Number:    order.Number,
		ClientID:  order.ClientID,
		VehicleID: order.VehicleID,
		Status:    order.Status,
		Symptoms:  order.Symptoms,
		Diagnosis: order.Diagnosis,
		Mileage:   order.Mileage,
		Notes:     order.Notes,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
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
