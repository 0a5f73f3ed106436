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

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
// La tabla items no tiene columnas de stock ni de costo promedio: esa
// proyección sale de los lotes.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo ítem.
func (r *ItemRepo) Create(item *entity.InventoryItem) error {
	query := `
		INSERT INTO items (id, company_id, sku, name, description, brand, sale_price, cost_price, tax_rate, is_service, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CompanyID, item.SKU, item.Name, item.Description, item.Brand,
		item.SalePrice, item.CostPrice, item.TaxRate, item.IsService, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	query := `
		SELECT id, company_id, sku, name, description, brand, sale_price, cost_price, tax_rate, is_service, created_at, updated_at
		FROM items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByCompanyAndSKU obtiene un ítem por empresa y SKU.
func (r *ItemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.InventoryItem, error) {
	query := `
		SELECT id, company_id, sku, name, description, brand, sale_price, cost_price, tax_rate, is_service, created_at, updated_at
		FROM items WHERE company_id = $1 AND sku = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, sku))
}

// Update actualiza los campos editables de un ítem.
func (r *ItemRepo) Update(item *entity.InventoryItem) error {
	query := `
		UPDATE items
		SET name = $2, description = $3, brand = $4, sale_price = $5, cost_price = $6, tax_rate = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Description, item.Brand,
		item.SalePrice, item.CostPrice, item.TaxRate, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// ListByCompany lista ítems de una empresa con paginación, ordenados por nombre.
func (r *ItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `
		SELECT id, company_id, sku, name, description, brand, sale_price, cost_price, tax_rate, is_service, created_at, updated_at
		FROM items WHERE company_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*entity.InventoryItem
	for rows.Next() {
		var it entity.InventoryItem
		if err := rows.Scan(
			&it.ID, &it.CompanyID, &it.SKU, &it.Name, &it.Description, &it.Brand,
			&it.SalePrice, &it.CostPrice, &it.TaxRate, &it.IsService, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// Delete elimina un ítem por ID.
func (r *ItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (r *ItemRepo) scanOne(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(
		&it.ID, &it.CompanyID, &it.SKU, &it.Name, &it.Description, &it.Brand,
		&it.SalePrice, &it.CostPrice, &it.TaxRate, &it.IsService, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}
