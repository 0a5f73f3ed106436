package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/application/usecase"
)

// AIHandler expone las funciones asistidas por IA (protegido). Las respuestas
// son sugerencias editables: nada de lo que devuelve la IA se persiste solo.
type AIHandler struct {
	uc *usecase.AIUseCase
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.AIUseCase) *AIHandler {
	return &AIHandler{uc: uc}
}

// ExtractInvoice godoc
// @Summary      Leer una factura de proveedor con IA
// @Description  Recibe la foto de la factura en base64 y devuelve proveedor,
//               referencia y líneas sugeridas para precargar una compra.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AIExtractInvoiceRequest  true  "Imagen en base64 y mime type"
// @Success      200   {object}  dto.AIInvoiceExtractionDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/ai/extract-invoice [post]
func (h *AIHandler) ExtractInvoice(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AIExtractInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ImageBase64 == "" || in.MimeType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "image_base64 y mime_type son obligatorios"})
	}
	out, err := h.uc.ExtractInvoice(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "AI_ERROR", Message: err.Error()})
	}
	return c.JSON(out)
}

// SuggestDiagnosis godoc
// @Summary      Sugerir diagnóstico preliminar con IA
// @Description  A partir de los síntomas (y opcionalmente marca, modelo y
//               kilometraje) devuelve causas probables y revisiones sugeridas.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AISuggestDiagnosisRequest  true  "Síntomas del vehículo"
// @Success      200   {object}  dto.AIDiagnosisDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/ai/suggest-diagnosis [post]
func (h *AIHandler) SuggestDiagnosis(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AISuggestDiagnosisRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Symptoms == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "symptoms es obligatorio"})
	}
	out, err := h.uc.SuggestDiagnosis(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "AI_ERROR", Message: err.Error()})
	}
	return c.JSON(out)
}
