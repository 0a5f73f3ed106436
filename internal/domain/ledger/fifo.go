// Package ledger contiene los servicios de dominio puros del libro de lotes:
// planificación de consumo FIFO, agregación de stock y totales de documentos.
// Ninguna función de este paquete muta estado ni toca la base de datos.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
)

// Draw es una extracción planificada contra un lote concreto. El costo
// unitario queda congelado al del lote en el momento del plan.
type Draw struct {
	Lot      *entity.StockLot
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// SortFIFO ordena lotes por CreatedAt ascendente (el más antiguo primero).
// Desempate por ID de lote: arbitrario pero determinista, ya que recepciones
// simultáneas son económicamente equivalentes.
func SortFIFO(lots []*entity.StockLot) {
	sort.SliceStable(lots, func(i, j int) bool {
		if lots[i].CreatedAt.Equal(lots[j].CreatedAt) {
			return lots[i].ID < lots[j].ID
		}
		return lots[i].CreatedAt.Before(lots[j].CreatedAt)
	})
}

// PlanConsumption calcula el plan de consumo FIFO para la cantidad pedida
// sobre los lotes vivos del ítem. Verifica el total disponible ANTES de
// planificar extracción alguna: si no alcanza, devuelve ErrInsufficientStock
// y ningún plan parcial. No muta los lotes recibidos.
func PlanConsumption(lots []*entity.StockLot, requested decimal.Decimal) ([]Draw, error) {
	if !requested.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	live := make([]*entity.StockLot, 0, len(lots))
	available := decimal.Zero
	for _, lot := range lots {
		if lot.IsLive() {
			live = append(live, lot)
			available = available.Add(lot.Quantity)
		}
	}
	if available.LessThan(requested) {
		return nil, domain.ErrInsufficientStock
	}

	SortFIFO(live)

	var plan []Draw
	remaining := requested
	for _, lot := range live {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		draw := decimal.Min(remaining, lot.Quantity)
		plan = append(plan, Draw{Lot: lot, Quantity: draw, UnitCost: lot.UnitCost})
		remaining = remaining.Sub(draw)
	}
	return plan, nil
}

// Aggregate deriva la proyección de stock de un ítem desde sus lotes vivos:
// cantidad total y costo promedio ponderado (valor total / cantidad total).
// Sin lotes vivos devuelve (0, nominalCost), p. ej. un ítem recién creado.
func Aggregate(lots []*entity.StockLot, nominalCost decimal.Decimal) (quantity, averageCost decimal.Decimal) {
	quantity = decimal.Zero
	value := decimal.Zero
	for _, lot := range lots {
		if !lot.IsLive() {
			continue
		}
		quantity = quantity.Add(lot.Quantity)
		value = value.Add(lot.Quantity.Mul(lot.UnitCost))
	}
	if quantity.IsZero() {
		return decimal.Zero, nominalCost
	}
	return quantity, value.Div(quantity)
}

// DocumentTotals recalcula subtotal, impuestos y total desde la lista
// COMPLETA de líneas del documento. Nunca se ajusta incrementalmente: el
// recálculo total evita deriva acumulada.
func DocumentTotals(lines []*entity.AllocationLine) (net, tax, total decimal.Decimal) {
	net = decimal.Zero
	tax = decimal.Zero
	for _, line := range lines {
		subtotal := line.Quantity.Mul(line.UnitPrice)
		net = net.Add(subtotal)
		tax = tax.Add(subtotal.Mul(normalizeTaxRate(line.TaxRate)))
	}
	return net, tax, net.Add(tax)
}

// normalizeTaxRate acepta tarifas como fracción (0.19) o porcentaje (19).
func normalizeTaxRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}
