package repository

import "github.com/tu-usuario/taller-pro/internal/domain/entity"

// ItemRepository define el puerto de persistencia para InventoryItem (DIP).
// Stock y costo promedio NO se persisten aquí: son proyección de los lotes.
type ItemRepository interface {
	Create(item *entity.InventoryItem) error
	GetByID(id string) (*entity.InventoryItem, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.InventoryItem, error)
	Update(item *entity.InventoryItem) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.InventoryItem, error)
	Delete(id string) error
}
