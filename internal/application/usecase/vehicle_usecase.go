package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// VehicleUseCase casos de uso para vehículos de clientes.
type VehicleUseCase struct {
	repo       repository.VehicleRepository
	clientRepo repository.ClientRepository
}

// NewVehicleUseCase construye el caso de uso.
func NewVehicleUseCase(repo repository.VehicleRepository, clientRepo repository.ClientRepository) *VehicleUseCase {
	return &VehicleUseCase{repo: repo, clientRepo: clientRepo}
}

// Create registra un vehículo. La placa es única por empresa y el cliente
// dueño debe pertenecer a la misma empresa.
func (uc *VehicleUseCase) Create(companyID string, in dto.CreateVehicleRequest) (*dto.VehicleResponse, error) {
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil || client.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	existing, _ := uc.repo.GetByCompanyAndPlate(companyID, in.Plate)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	vehicle := &entity.Vehicle{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		ClientID:  in.ClientID,
		Plate:     in.Plate,
		Brand:     in.Brand,
		Model:     in.Model,
		Year:      in.Year,
		VIN:       in.VIN,
		Color:     in.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(vehicle); err != nil {
		return nil, err
	}
	return toVehicleResponse(vehicle), nil
}

// GetByID obtiene un vehículo por ID.
func (uc *VehicleUseCase) GetByID(companyID, id string) (*dto.VehicleResponse, error) {
	vehicle, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil || vehicle.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toVehicleResponse(vehicle), nil
}

// ListByClient lista los vehículos de un cliente.
func (uc *VehicleUseCase) ListByClient(companyID, clientID string) ([]dto.VehicleResponse, error) {
	client, err := uc.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil || client.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repo.ListByClient(clientID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VehicleResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *toVehicleResponse(v))
	}
	return items, nil
}

// List lista vehículos por empresa con paginación.
func (uc *VehicleUseCase) List(companyID string, limit, offset int) (*dto.VehicleListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VehicleResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *toVehicleResponse(v))
	}
	return &dto.VehicleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un vehículo por ID.
func (uc *VehicleUseCase) Delete(companyID, id string) error {
	vehicle, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if vehicle == nil || vehicle.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toVehicleResponse(v *entity.Vehicle) *dto.VehicleResponse {
	return &dto.VehicleResponse{
		ID:       v.ID,
		ClientID: v.ClientID,
		Plate:    v.Plate,
		Brand:    v.Brand,
		Model:    v.Model,
		Year:     v.Year,
		VIN:      v.VIN,
		Color:    v.Color,
	}
}
