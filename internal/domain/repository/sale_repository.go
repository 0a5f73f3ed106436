package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale (cabeceras).
// Las líneas viven en AllocationRepository; los totales solo se escriben con
// UpdateTotals, recalculados desde la lista completa de líneas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error)
	NextNumber(companyID string) (int64, error)
	UpdateTotals(id string, net, tax, total decimal.Decimal, updatedAt time.Time) error
	Delete(id string) error
}
