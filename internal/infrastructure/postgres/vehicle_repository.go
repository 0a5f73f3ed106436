package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

var _ repository.VehicleRepository = (*VehicleRepo)(nil)

const vehicleColumns = `id, company_id, client_id, plate, COALESCE(brand, ''), COALESCE(model, ''), year, COALESCE(vin, ''), COALESCE(color, ''), created_at, updated_at`

// VehicleRepo implementación del puerto VehicleRepository sobre PostgreSQL (usable con pool o tx).
type VehicleRepo struct {
	q Querier
}

// NewVehicleRepository construye el adaptador de vehículos. Pasar pool o tx (Querier).
func NewVehicleRepository(q Querier) *VehicleRepo {
	return &VehicleRepo{q: q}
}

// Create persiste un nuevo vehículo.
func (r *VehicleRepo) Create(vehicle *entity.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, company_id, client_id, plate, brand, model, year, vin, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		vehicle.ID, vehicle.CompanyID, vehicle.ClientID, vehicle.Plate,
		nullIfEmpty(vehicle.Brand), nullIfEmpty(vehicle.Model), vehicle.Year,
		nullIfEmpty(vehicle.VIN), nullIfEmpty(vehicle.Color),
		vehicle.CreatedAt, vehicle.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

// GetByID obtiene un vehículo por ID.
func (r *VehicleRepo) GetByID(id string) (*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByCompanyAndPlate obtiene un vehículo por empresa y placa.
func (r *VehicleRepo) GetByCompanyAndPlate(companyID, plate string) (*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE company_id = $1 AND plate = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, plate))
}

// ListByClient lista los vehículos de un cliente.
func (r *VehicleRepo) ListByClient(clientID string) ([]*entity.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles WHERE client_id = $1
		ORDER BY plate`
	return r.list(query, clientID)
}

// ListByCompany lista vehículos de una empresa con paginación.
func (r *VehicleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles WHERE company_id = $1
		ORDER BY plate
		LIMIT $2 OFFSET $3`
	return r.list(query, companyID, limit, offset)
}

// Update actualiza un vehículo.
func (r *VehicleRepo) Update(vehicle *entity.Vehicle) error {
	query := `
		UPDATE vehicles
		SET brand = $2, model = $3, year = $4, vin = $5, color = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		vehicle.ID, nullIfEmpty(vehicle.Brand), nullIfEmpty(vehicle.Model), vehicle.Year,
		nullIfEmpty(vehicle.VIN), nullIfEmpty(vehicle.Color), vehicle.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	return nil
}

// Delete elimina un vehículo por ID.
func (r *VehicleRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	return nil
}

func (r *VehicleRepo) scanOne(row pgx.Row) (*entity.Vehicle, error) {
	var v entity.Vehicle
	err := row.Scan(
		&v.ID, &v.CompanyID, &v.ClientID, &v.Plate, &v.Brand, &v.Model, &v.Year, &v.VIN, &v.Color, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return &v, nil
}

func (r *VehicleRepo) list(query string, args ...any) ([]*entity.Vehicle, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*entity.Vehicle
	for rows.Next() {
		var v entity.Vehicle
		if err := rows.Scan(
			&v.ID, &v.CompanyID, &v.ClientID, &v.Plate, &v.Brand, &v.Model, &v.Year, &v.VIN, &v.Color, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, &v)
	}
	return vehicles, rows.Err()
}
