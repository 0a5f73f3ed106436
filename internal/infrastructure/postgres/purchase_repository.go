package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación del puerto PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera de una compra.
func (r *PurchaseRepo) Create(entry *entity.StockEntry) error {
	query := `
		INSERT INTO purchases (id, company_id, supplier_id, invoice_ref, date, total, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.CompanyID, nullIfEmpty(entry.SupplierID), nullIfEmpty(entry.InvoiceRef),
		entry.Date, entry.Total, nullIfEmpty(entry.Notes), entry.CreatedAt, nullIfEmpty(entry.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de compra.
func (r *PurchaseRepo) CreateLine(line *entity.StockEntryLine) error {
	query := `
		INSERT INTO purchase_lines (id, purchase_id, item_id, lot_id, quantity, unit_cost)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.PurchaseID, line.ItemID, line.LotID, line.Quantity, line.UnitCost,
	)
	if err != nil {
		return fmt.Errorf("insert purchase line: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una compra por ID.
func (r *PurchaseRepo) GetByID(id string) (*entity.StockEntry, error) {
	query := `
		SELECT id, company_id, COALESCE(supplier_id, ''), COALESCE(invoice_ref, ''), date, total, COALESCE(notes, ''), created_at, COALESCE(created_by, '')
		FROM purchases WHERE id = $1`
	var e entity.StockEntry
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.CompanyID, &e.SupplierID, &e.InvoiceRef, &e.Date, &e.Total, &e.Notes, &e.CreatedAt, &e.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &e, nil
}

// ListLines devuelve las líneas de una compra.
func (r *PurchaseRepo) ListLines(purchaseID string) ([]*entity.StockEntryLine, error) {
	query := `
		SELECT id, purchase_id, item_id, lot_id, quantity, unit_cost
		FROM purchase_lines WHERE purchase_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.StockEntryLine
	for rows.Next() {
		var l entity.StockEntryLine
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.ItemID, &l.LotID, &l.Quantity, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// ListByCompany lista compras de una empresa, más recientes primero.
func (r *PurchaseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockEntry, error) {
	query := `
		SELECT id, company_id, COALESCE(supplier_id, ''), COALESCE(invoice_ref, ''), date, total, COALESCE(notes, ''), created_at, COALESCE(created_by, '')
		FROM purchases WHERE company_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var entries []*entity.StockEntry
	for rows.Next() {
		var e entity.StockEntry
		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.SupplierID, &e.InvoiceRef, &e.Date, &e.Total, &e.Notes, &e.CreatedAt, &e.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Delete elimina la cabecera y las líneas de una compra. Los lotes los
// elimina el caso de uso vía LotRepository, tras verificar que estén intactos.
func (r *PurchaseRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM purchase_lines WHERE purchase_id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase lines: %w", err)
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM purchases WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}
