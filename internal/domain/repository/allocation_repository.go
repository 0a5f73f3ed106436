package repository

import "github.com/tu-usuario/taller-pro/internal/domain/entity"

// AllocationRepository define el puerto de persistencia para las líneas de
// asignación de órdenes y ventas. El documento padre es dueño exclusivo de
// sus líneas; el lote se referencia débilmente por ID (borrar un ítem no
// borra en cascada las líneas congeladas en documentos cerrados).
type AllocationRepository interface {
	Add(line *entity.AllocationLine) error
	GetByID(id string) (*entity.AllocationLine, error)
	ListByParent(ref entity.DocumentRef) ([]*entity.AllocationLine, error)
	Delete(id string) error
	DeleteByParent(ref entity.DocumentRef) error
}
