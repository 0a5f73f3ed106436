package repository

import "github.com/tu-usuario/taller-pro/internal/domain/entity"

// VehicleRepository define el puerto de persistencia para Vehicle.
type VehicleRepository interface {
	Create(vehicle *entity.Vehicle) error
	GetByID(id string) (*entity.Vehicle, error)
	GetByCompanyAndPlate(companyID, plate string) (*entity.Vehicle, error)
	ListByClient(clientID string) ([]*entity.Vehicle, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Vehicle, error)
	Update(vehicle *entity.Vehicle) error
	Delete(id string) error
}
