package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/taller-pro/internal/application/dto"
	appledger "github.com/tu-usuario/taller-pro/internal/application/ledger"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
)

// LedgerHandler maneja las operaciones del libro de lotes: consumo FIFO,
// reversión, proyección de stock e importación inicial (protegido).
type LedgerHandler struct {
	consumeUC *appledger.ConsumeUseCase
	reverseUC *appledger.ReverseUseCase
	stockUC   *appledger.StockUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(
	consumeUC *appledger.ConsumeUseCase,
	reverseUC *appledger.ReverseUseCase,
	stockUC *appledger.StockUseCase,
) *LedgerHandler {
	return &LedgerHandler{consumeUC: consumeUC, reverseUC: reverseUC, stockUC: stockUC}
}

// Consume godoc
// @Summary      Consumir stock FIFO hacia una orden o venta
// @Description  Agrega líneas de asignación al documento padre descontando de
//               los lotes más antiguos. Si el stock no alcanza, no escribe nada.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeRequest  true  "parent_kind (ORDER|SALE), parent_id, item_id, quantity"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/consume [post]
func (h *LedgerHandler) Consume(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := appledger.ConsumeInput{
		CompanyID: companyID,
		UserID:    userID,
		Ref:       entity.DocumentRef{Kind: entity.DocumentKind(in.ParentKind), ID: in.ParentID},
		ItemID:    in.ItemID,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
	}
	if err := h.consumeUC.ConsumeForDocument(c.Context(), input); err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "consumo registrado"})
}

// Reverse godoc
// @Summary      Revertir una línea de asignación
// @Description  Quita la línea del documento y devuelve la cantidad a su lote
//               original; si el lote ya no existe, crea un lote de devolución.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReverseRequest  true  "parent_kind, parent_id, line_id"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/reverse [post]
func (h *LedgerHandler) Reverse(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReverseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := appledger.ReverseInput{
		CompanyID: companyID,
		Ref:       entity.DocumentRef{Kind: entity.DocumentKind(in.ParentKind), ID: in.ParentID},
		LineID:    in.LineID,
	}
	if err := h.reverseUC.ReverseFromDocument(c.Context(), input); err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(fiber.Map{"message": "línea revertida"})
}

// CurrentStock godoc
// @Summary      Stock actual de un ítem
// @Description  Proyección derivada de los lotes vivos: cantidad total y costo
//               promedio ponderado. Para servicios siempre es cero.
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        item_id  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.CurrentStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{item_id}/stock [get]
func (h *LedgerHandler) CurrentStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.stockUC.CurrentStock(c.Context(), companyID, c.Params("item_id"))
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(out)
}

// InitialImport godoc
// @Summary      Importar stock inicial
// @Description  Carga inventario preexistente como un lote ordinario con
//               procedencia INITIAL; participa de FIFO como cualquier otro.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InitialImportRequest  true  "item_id, quantity, unit_cost"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ledger/initial-import [post]
func (h *LedgerHandler) InitialImport(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.InitialImportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lotID, err := h.stockUC.ImportInitialStock(c.Context(), companyID, userID, in)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"lot_id": lotID})
}

// ledgerError mapea los errores del libro de lotes a respuestas HTTP.
func ledgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
