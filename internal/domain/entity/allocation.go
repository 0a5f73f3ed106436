package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceLotID es el lot-id centinela para líneas de servicio/mano de obra:
// no hay stock físico que descontar ni devolver.
const ServiceLotID = "SERVICE"

// DocumentKind distingue explícitamente el documento padre de una asignación.
// Se pasa siempre como etiqueta, nunca se infiere del formato del ID.
type DocumentKind string

const (
	DocumentKindOrder DocumentKind = "ORDER"
	DocumentKindSale  DocumentKind = "SALE"
)

// DocumentRef referencia etiquetada al documento padre (orden o venta).
type DocumentRef struct {
	Kind DocumentKind
	ID   string
}

// Valid verifica que la referencia tenga tipo conocido e ID no vacío.
func (r DocumentRef) Valid() bool {
	return r.ID != "" && (r.Kind == DocumentKindOrder || r.Kind == DocumentKindSale)
}

// AllocationLine registra un consumo de inventario congelado en un documento:
// de qué lote salió, cuánto y a qué costo unitario DEL LOTE en ese momento.
// El costo congelado hace inmutable el costo de venta aunque el lote cambie
// después. Varias líneas pueden referenciar el mismo lote (consumos
// parciales); una línea referencia exactamente un lote (o ServiceLotID).
type AllocationLine struct {
	ID         string
	ParentKind DocumentKind
	ParentID   string
	ItemID     string
	LotID      string          // lote origen, o ServiceLotID
	Quantity   decimal.Decimal // cantidad consumida del lote
	UnitCost   decimal.Decimal // costo unitario del lote, congelado
	UnitPrice  decimal.Decimal // precio de venta unitario de la línea
	TaxRate    decimal.Decimal
	CreatedBy  string // usuario que registró el consumo
	CreatedAt  time.Time
}

// IsService indica si la línea corresponde a servicio/mano de obra.
func (a *AllocationLine) IsService() bool {
	return a.LotID == ServiceLotID
}
