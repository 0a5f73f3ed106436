package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = `id, item_id, purchase_id, purchase_date, created_at, received_qty, quantity, unit_cost, COALESCE(source_doc_id, ''), COALESCE(notes, '')`

// LotRepo implementación del puerto LotRepository sobre PostgreSQL (usable con pool o tx).
// Los métodos *ForUpdate emiten SELECT ... FOR UPDATE y deben ejecutarse
// dentro de una transacción del TxRunner; sobre el pool el lock se libera
// al devolver la conexión y no protege nada.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de persistencia para lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// Create persiste un nuevo lote.
func (r *LotRepo) Create(lot *entity.StockLot) error {
	query := `
		INSERT INTO stock_lots (id, item_id, purchase_id, purchase_date, created_at, received_qty, quantity, unit_cost, source_doc_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.ItemID, lot.PurchaseID, lot.PurchaseDate, lot.CreatedAt,
		lot.ReceivedQty, lot.Quantity, lot.UnitCost, nullIfEmpty(lot.SourceDocID), nullIfEmpty(lot.Notes),
	)
	if err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID, sin lock.
func (r *LotRepo) GetByID(id string) (*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + ` FROM stock_lots WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene un lote y bloquea su fila (SELECT FOR UPDATE).
// Devuelve nil sin error si el lote no existe.
func (r *LotRepo) GetForUpdate(id string) (*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + ` FROM stock_lots WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// ListLiveForUpdate devuelve los lotes vivos del ítem en orden FIFO,
// bloqueados. El ORDER BY replica la llave FIFO: created_at y luego id.
func (r *LotRepo) ListLiveForUpdate(itemID string) ([]*entity.StockLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM stock_lots
		WHERE item_id = $1 AND quantity > 0
		ORDER BY created_at, id
		FOR UPDATE`
	return r.list(query, itemID)
}

// ListByItem devuelve todos los lotes del ítem en orden FIFO, sin lock.
func (r *LotRepo) ListByItem(itemID string) ([]*entity.StockLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM stock_lots
		WHERE item_id = $1
		ORDER BY created_at, id`
	return r.list(query, itemID)
}

// ListByPurchaseForUpdate devuelve los lotes creados por una compra, bloqueados.
func (r *LotRepo) ListByPurchaseForUpdate(purchaseID string) ([]*entity.StockLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM stock_lots
		WHERE purchase_id = $1
		ORDER BY created_at, id
		FOR UPDATE`
	return r.list(query, purchaseID)
}

// UpdateQuantity escribe la cantidad restante de un lote.
func (r *LotRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE stock_lots SET quantity = $2 WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update lot quantity: %w", err)
	}
	return nil
}

// DeleteByPurchase elimina todos los lotes de una compra.
func (r *LotRepo) DeleteByPurchase(purchaseID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM stock_lots WHERE purchase_id = $1`, purchaseID)
	if err != nil {
		return fmt.Errorf("delete lots by purchase: %w", err)
	}
	return nil
}

func (r *LotRepo) scanOne(row pgx.Row) (*entity.StockLot, error) {
	var l entity.StockLot
	err := row.Scan(
		&l.ID, &l.ItemID, &l.PurchaseID, &l.PurchaseDate, &l.CreatedAt,
		&l.ReceivedQty, &l.Quantity, &l.UnitCost, &l.SourceDocID, &l.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &l, nil
}

func (r *LotRepo) list(query string, args ...any) ([]*entity.StockLot, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var lots []*entity.StockLot
	for rows.Next() {
		var l entity.StockLot
		if err := rows.Scan(
			&l.ID, &l.ItemID, &l.PurchaseID, &l.PurchaseDate, &l.CreatedAt,
			&l.ReceivedQty, &l.Quantity, &l.UnitCost, &l.SourceDocID, &l.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lots = append(lots, &l)
	}
	return lots, rows.Err()
}
