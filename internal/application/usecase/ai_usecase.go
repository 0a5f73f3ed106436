package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/application/ports"
)

// AIUseCase orquesta las funciones asistidas por IA del taller: lectura de
// facturas de proveedor y diagnóstico preliminar. Aplica un timeout en cada
// llamada al LLM para evitar que las latencias externas bloqueen los
// goroutines del servidor.
type AIUseCase struct {
	llm ports.LLMService
}

// NewAIUseCase construye el caso de uso inyectando el puerto LLMService.
func NewAIUseCase(llm ports.LLMService) *AIUseCase {
	return &AIUseCase{llm: llm}
}

// ExtractInvoice valida la entrada y delega la lectura de la factura al LLM.
// El resultado es una sugerencia editable; registrar la compra sigue siendo
// una acción explícita del operador sobre el endpoint de compras.
func (uc *AIUseCase) ExtractInvoice(
	ctx context.Context,
	req dto.AIExtractInvoiceRequest,
) (*dto.AIInvoiceExtractionDTO, error) {
	if req.ImageBase64 == "" || req.MimeType == "" {
		return nil, fmt.Errorf("image_base64 y mime_type son obligatorios")
	}

	// Timeout de 30 s: las llamadas con imágenes demoran más que las de texto.
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := uc.llm.ExtractInvoice(ctx, req.ImageBase64, req.MimeType)
	if err != nil {
		return nil, fmt.Errorf("lectura de factura IA: %w", err)
	}

	return result, nil
}

// SuggestDiagnosis valida la entrada y delega al servicio de LLM.
// Envuelve el contexto con un timeout de 10 s para respetar los SLAs de la API.
func (uc *AIUseCase) SuggestDiagnosis(
	ctx context.Context,
	req dto.AISuggestDiagnosisRequest,
) (*dto.AIDiagnosisDTO, error) {
	if req.Symptoms == "" {
		return nil, fmt.Errorf("symptoms es obligatorio")
	}

	// Timeout de 10 s: las llamadas a LLMs pueden demorar varios segundos.
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := uc.llm.SuggestDiagnosis(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("diagnóstico IA: %w", err)
	}

	return result, nil
}
