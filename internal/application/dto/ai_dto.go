package dto

import "github.com/shopspring/decimal"

// AIInvoiceLineDTO línea extraída de una foto de factura de proveedor.
type AIInvoiceLineDTO struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// AIInvoiceExtractionDTO datos sugeridos para pre-llenar el formulario de
// compra a partir de la imagen de una factura. Son datos sugeridos, NO
// autoritativos: el operador los revisa antes de registrar la compra y
// jamás escriben directamente el libro de lotes.
type AIInvoiceExtractionDTO struct {
	SupplierName    string             `json:"supplier_name"`
	InvoiceRef      string             `json:"invoice_ref"`
	Date            string             `json:"date"` // YYYY-MM-DD tal como aparece en la factura
	Lines           []AIInvoiceLineDTO `json:"lines"`
	ConfidenceScore float64            `json:"confidence_score"`
}

// AIExtractInvoiceRequest body para POST /api/ai/extract-invoice.
type AIExtractInvoiceRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
	MimeType    string `json:"mime_type" validate:"required"`
}

// AIDiagnosisDTO sugerencia de diagnóstico para una orden de reparación.
type AIDiagnosisDTO struct {
	Diagnosis       string   `json:"diagnosis"`
	SuggestedChecks []string `json:"suggested_checks"`
	ConfidenceScore float64  `json:"confidence_score"`
	Reasoning       string   `json:"reasoning"`
}

// AISuggestDiagnosisRequest body para POST /api/ai/suggest-diagnosis.
type AISuggestDiagnosisRequest struct {
	VehicleBrand string `json:"vehicle_brand"`
	VehicleModel string `json:"vehicle_model"`
	VehicleYear  int    `json:"vehicle_year"`
	Mileage      int64  `json:"mileage"`
	Symptoms     string `json:"symptoms" validate:"required"`
}
