package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	appledger "github.com/tu-usuario/taller-pro/internal/application/ledger"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

var _ appledger.TxRunner = (*TxRunner)(nil)

// maxTxAttempts intentos por transacción ante fallas de serialización.
const maxTxAttempts = 3

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Es el
// único punto de entrada transaccional del libro de lotes: todos los repos
// que recibe el callback están atados a la misma tx, y los errores
// retriables de concurrencia (40001, 40P01, 23505 de numeración) se
// reintentan de forma acotada antes de rendirse con domain.ErrConflict.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Ante deadlock o falla de serialización reinicia la
// transacción completa (fn debe ser idempotente hasta el Commit).
func (r *TxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	allocRepo repository.AllocationRepository,
	purchaseRepo repository.PurchaseRepository,
	orderRepo repository.OrderRepository,
	saleRepo repository.SaleRepository,
) error) error {
	var lastErr error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		lastErr = r.runOnce(ctx, fn)
		if lastErr == nil || !isRetryableTxError(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrConflict, lastErr)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	allocRepo repository.AllocationRepository,
	purchaseRepo repository.PurchaseRepository,
	orderRepo repository.OrderRepository,
	saleRepo repository.SaleRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lotRepo := NewLotRepository(tx)
	allocRepo := NewAllocationRepository(tx)
	purchaseRepo := NewPurchaseRepository(tx)
	orderRepo := NewOrderRepository(tx)
	saleRepo := NewSaleRepository(tx)

	if err := fn(lotRepo, allocRepo, purchaseRepo, orderRepo, saleRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isRetryableTxError detecta serialization_failure (40001), deadlock_detected
// (40P01) y unique_violation (23505). El 23505 dentro del runner solo puede
// venir del índice único (company_id, number): dos transacciones calcularon el
// mismo MAX(number)+1 y reintentar recalcula el consecutivo viendo el número
// ya tomado. Las demás claves únicas (SKU, placa) se validan fuera del runner.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "23505":
			return true
		}
	}
	return false
}
