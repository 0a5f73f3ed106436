package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto de concurrencia; reintente la operación")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrLotInUse           = errors.New("lote con consumo registrado")
)

// LotInUseError bloquea la eliminación de una compra cuyos lotes ya fueron
// consumidos (parcial o totalmente). Lleva el nombre del ítem para que el
// operador entienda qué línea impide el borrado.
type LotInUseError struct {
	ItemName string
}

func (e *LotInUseError) Error() string {
	return fmt.Sprintf("no se puede eliminar la compra: el ítem %q ya tiene stock consumido", e.ItemName)
}

// Is permite detectar el error con errors.Is(err, ErrLotInUse).
func (e *LotInUseError) Is(target error) bool {
	return target == ErrLotInUse
}
