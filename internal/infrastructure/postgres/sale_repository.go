package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, company_id, client_id, number, date, net_total, tax_total, total, COALESCE(notes, ''), created_at, updated_at, COALESCE(created_by, '')`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de una venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, company_id, client_id, number, date, net_total, tax_total, total, notes, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.CompanyID, sale.ClientID, sale.Number, sale.Date,
		sale.NetTotal, sale.TaxTotal, sale.Total, nullIfEmpty(sale.Notes),
		sale.CreatedAt, sale.UpdatedAt, nullIfEmpty(sale.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sale number already exists: %w", err)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID, sin líneas.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.CompanyID, &s.ClientID, &s.Number, &s.Date,
		&s.NetTotal, &s.TaxTotal, &s.Total, &s.Notes, &s.CreatedAt, &s.UpdatedAt, &s.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// ListByCompany lista ventas de una empresa, más recientes primero.
func (r *SaleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales WHERE company_id = $1
		ORDER BY number DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.CompanyID, &s.ClientID, &s.Number, &s.Date,
			&s.NetTotal, &s.TaxTotal, &s.Total, &s.Notes, &s.CreatedAt, &s.UpdatedAt, &s.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, &s)
	}
	return sales, rows.Err()
}

// NextNumber devuelve el siguiente consecutivo de venta de la empresa.
// Debe llamarse dentro de la transacción que crea la venta.
func (r *SaleRepo) NextNumber(companyID string) (int64, error) {
	var next int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(MAX(number), 0) + 1 FROM sales WHERE company_id = $1`,
		companyID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next sale number: %w", err)
	}
	return next, nil
}

// UpdateTotals escribe los totales recalculados de una venta.
func (r *SaleRepo) UpdateTotals(id string, net, tax, total decimal.Decimal, updatedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sales SET net_total = $2, tax_total = $3, total = $4, updated_at = $5 WHERE id = $1`,
		id, net, tax, total, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale totals: %w", err)
	}
	return nil
}

// Delete elimina una venta por ID.
func (r *SaleRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}
