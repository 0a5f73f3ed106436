package ports

import (
	"context"

	"github.com/tu-usuario/taller-pro/internal/application/dto"
)

// LLMService define el puerto de salida para los servicios de inteligencia artificial.
// Cualquier adaptador (Gemini, Claude, mock) debe implementar esta interfaz.
// Siguiendo el principio de inversión de dependencias (DIP), la capa de
// aplicación solo conoce este contrato, no la implementación concreta.
type LLMService interface {
	// ExtractInvoice analiza la foto de una factura de proveedor y devuelve
	// los datos sugeridos para pre-llenar el formulario de compra. La imagen
	// llega en base64 con su mime type. El resultado es una sugerencia que
	// el operador revisa; nunca escribe el libro de lotes por sí mismo.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	ExtractInvoice(
		ctx context.Context,
		imageBase64 string,
		mimeType string,
	) (*dto.AIInvoiceExtractionDTO, error)

	// SuggestDiagnosis sugiere un diagnóstico preliminar para una orden de
	// reparación a partir de los datos del vehículo y los síntomas reportados.
	SuggestDiagnosis(
		ctx context.Context,
		req dto.AISuggestDiagnosisRequest,
	) (*dto.AIDiagnosisDTO, error)
}
