package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// ═══════════════════════════════════════════════════════════════
// Clasificación de errores retriables del TxRunner
// ═══════════════════════════════════════════════════════════════

func TestIsRetryableTxError(t *testing.T) {
	casos := []struct {
		codigo    string
		retriable bool
	}{
		{"40001", true},  // serialization_failure
		{"40P01", true},  // deadlock_detected
		{"23505", true},  // unique_violation: carrera de numeración MAX+1
		{"23503", false}, // foreign_key_violation no se reintenta
		{"42P01", false},
	}
	for _, c := range casos {
		err := fmt.Errorf("insert sale: %w", &pgconn.PgError{Code: c.codigo})
		assert.Equal(t, c.retriable, isRetryableTxError(err),
			"clasificación incorrecta para el código %s", c.codigo)
	}
}

func TestIsRetryableTxError_ErroresNoPostgres(t *testing.T) {
	assert.False(t, isRetryableTxError(errors.New("conexión caída")))
	assert.False(t, isRetryableTxError(nil))
}
