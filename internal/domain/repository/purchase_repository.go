package repository

import "github.com/tu-usuario/taller-pro/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para StockEntry (compras).
type PurchaseRepository interface {
	Create(entry *entity.StockEntry) error
	CreateLine(line *entity.StockEntryLine) error
	GetByID(id string) (*entity.StockEntry, error)
	ListLines(purchaseID string) ([]*entity.StockEntryLine, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.StockEntry, error)
	Delete(id string) error
}
