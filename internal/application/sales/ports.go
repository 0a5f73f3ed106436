package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// ConsumeService integra ventas con el libro de lotes. ConsumeInTx ejecuta
// el consumo FIFO con los repositorios del caller (misma transacción); si
// retorna error (ej. ErrInsufficientStock) el caller hace rollback.
type ConsumeService interface {
	ConsumeInTx(
		lotRepo repository.LotRepository,
		allocRepo repository.AllocationRepository,
		item *entity.InventoryItem,
		ref entity.DocumentRef,
		quantity decimal.Decimal,
		unitPrice decimal.Decimal,
		createdBy string,
		now time.Time,
	) error
}

// SaleLineForPDF línea lista para imprimir (descripción ya resuelta).
type SaleLineForPDF struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Subtotal    decimal.Decimal
}

// SalePDFGenerator puerto de salida para la representación imprimible de una
// venta. La implementación vive en infrastructure/pdf.
type SalePDFGenerator interface {
	GenerateSalePDF(
		ctx context.Context,
		sale *entity.Sale,
		company *entity.Company,
		client *entity.Client,
		lines []SaleLineForPDF,
	) ([]byte, error)
}
