package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, company_id, client_id, vehicle_id, number, status, COALESCE(symptoms, ''), COALESCE(diagnosis, ''), mileage, COALESCE(notes, ''), created_at, updated_at, COALESCE(created_by, '')`

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de órdenes. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera de una orden.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO repair_orders (id, company_id, client_id, vehicle_id, number, status, symptoms, diagnosis, mileage, notes, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CompanyID, order.ClientID, order.VehicleID, order.Number, order.Status,
		nullIfEmpty(order.Symptoms), nullIfEmpty(order.Diagnosis), order.Mileage, nullIfEmpty(order.Notes),
		order.CreatedAt, order.UpdatedAt, nullIfEmpty(order.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order number already exists: %w", err)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID, sin líneas.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM repair_orders WHERE id = $1`
	var o entity.Order
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.CompanyID, &o.ClientID, &o.VehicleID, &o.Number, &o.Status,
		&o.Symptoms, &o.Diagnosis, &o.Mileage, &o.Notes, &o.CreatedAt, &o.UpdatedAt, &o.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// Update actualiza los campos editables de una orden.
func (r *OrderRepo) Update(order *entity.Order) error {
	query := `
		UPDATE repair_orders
		SET status = $2, symptoms = $3, diagnosis = $4, mileage = $5, notes = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Status, nullIfEmpty(order.Symptoms), nullIfEmpty(order.Diagnosis),
		order.Mileage, nullIfEmpty(order.Notes), order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// ListByCompany lista órdenes de una empresa, más recientes primero.
func (r *OrderRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM repair_orders WHERE company_id = $1
		ORDER BY number DESC
		LIMIT $2 OFFSET $3`
	return r.list(query, companyID, limit, offset)
}

// ListByVehicle lista el historial de órdenes de un vehículo.
func (r *OrderRepo) ListByVehicle(vehicleID string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM repair_orders WHERE vehicle_id = $1
		ORDER BY number DESC
		LIMIT $2 OFFSET $3`
	return r.list(query, vehicleID, limit, offset)
}

// NextNumber devuelve el siguiente consecutivo de orden de la empresa.
// Debe llamarse dentro de la transacción que crea la orden; la constraint
// única (company_id, number) ataja los empates entre transacciones.
func (r *OrderRepo) NextNumber(companyID string) (int64, error) {
	var next int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(MAX(number), 0) + 1 FROM repair_orders WHERE company_id = $1`,
		companyID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next order number: %w", err)
	}
	return next, nil
}

// Delete elimina una orden por ID.
func (r *OrderRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM repair_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (r *OrderRepo) list(query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.CompanyID, &o.ClientID, &o.VehicleID, &o.Number, &o.Status,
			&o.Symptoms, &o.Diagnosis, &o.Mileage, &o.Notes, &o.CreatedAt, &o.UpdatedAt, &o.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}
