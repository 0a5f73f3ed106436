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

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

const allocationColumns = `id, parent_kind, parent_id, item_id, lot_id, quantity, unit_cost, unit_price, tax_rate, COALESCE(created_by, ''), created_at`

// AllocationRepo implementación del puerto AllocationRepository sobre
// PostgreSQL (usable con pool o tx). Las líneas no llevan foreign key al
// lote: la referencia es débil para que documentos cerrados conserven sus
// costos congelados aunque el lote desaparezca.
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador de líneas de asignación. Pasar pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

// Add persiste una línea de asignación.
func (r *AllocationRepo) Add(line *entity.AllocationLine) error {
	query := `
		INSERT INTO allocation_lines (id, parent_kind, parent_id, item_id, lot_id, quantity, unit_cost, unit_price, tax_rate, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, string(line.ParentKind), line.ParentID, line.ItemID, line.LotID,
		line.Quantity, line.UnitCost, line.UnitPrice, line.TaxRate, nullIfEmpty(line.CreatedBy), line.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert allocation line: %w", err)
	}
	return nil
}

// GetByID obtiene una línea por ID.
func (r *AllocationRepo) GetByID(id string) (*entity.AllocationLine, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocation_lines WHERE id = $1`
	var a entity.AllocationLine
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.ParentKind, &a.ParentID, &a.ItemID, &a.LotID,
		&a.Quantity, &a.UnitCost, &a.UnitPrice, &a.TaxRate, &a.CreatedBy, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation line: %w", err)
	}
	return &a, nil
}

// ListByParent devuelve las líneas de un documento en orden de inserción.
func (r *AllocationRepo) ListByParent(ref entity.DocumentRef) ([]*entity.AllocationLine, error) {
	query := `
		SELECT ` + allocationColumns + `
		FROM allocation_lines
		WHERE parent_kind = $1 AND parent_id = $2
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, string(ref.Kind), ref.ID)
	if err != nil {
		return nil, fmt.Errorf("list allocation lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.AllocationLine
	for rows.Next() {
		var a entity.AllocationLine
		if err := rows.Scan(
			&a.ID, &a.ParentKind, &a.ParentID, &a.ItemID, &a.LotID,
			&a.Quantity, &a.UnitCost, &a.UnitPrice, &a.TaxRate, &a.CreatedBy, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan allocation line: %w", err)
		}
		lines = append(lines, &a)
	}
	return lines, rows.Err()
}

// Delete elimina una línea por ID. Devuelve ErrNotFound si la línea ya no
// existe: dos reversiones concurrentes de la misma línea compiten por este
// DELETE y solo la que borra la fila puede restaurar stock; la otra aborta
// su transacción aquí.
func (r *AllocationRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM allocation_lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete allocation line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByParent elimina todas las líneas de un documento.
func (r *AllocationRepo) DeleteByParent(ref entity.DocumentRef) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM allocation_lines WHERE parent_kind = $1 AND parent_id = $2`,
		string(ref.Kind), ref.ID)
	if err != nil {
		return fmt.Errorf("delete allocation lines: %w", err)
	}
	return nil
}
