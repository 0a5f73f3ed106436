package repository

import "github.com/tu-usuario/taller-pro/internal/domain/entity"

// OrderRepository define el puerto de persistencia para Order (cabeceras).
// Las líneas viven en AllocationRepository.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	Update(order *entity.Order) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Order, error)
	ListByVehicle(vehicleID string, limit, offset int) ([]*entity.Order, error)
	// NextNumber devuelve el siguiente consecutivo de orden de la empresa.
	NextNumber(companyID string) (int64, error)
	Delete(id string) error
}
