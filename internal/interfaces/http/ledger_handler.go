package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
)

// LedgerHandler maneja las peticiones HTTP del ledger: registro manual de
// transacciones, proyección, historial y ventanas de consumo.
type LedgerHandler struct {
	uc *inventory.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *inventory.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// RegisterTransaction godoc
// @Summary      Registrar transacción manual
// @Description  Inserta una entrada IN/OUT/CORRECTION fuera de lote y re-proyecta el producto antes de responder.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterTransactionRequest  true  "product_id, type, quantity, date (YYYY-MM-DD), include_in_avg"
// @Success      201   {object}  dto.TransactionDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      410   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *LedgerHandler) RegisterTransaction(c *fiber.Ctx) error {
	var in dto.RegisterTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	actorID, actorRole := actor(c)
	out, err := h.uc.RegisterTransaction(c.Context(), in, actorID, actorRole)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetProjection godoc
// @Summary      Proyección cacheada de un producto
// @Tags         ledger
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProjectionDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/projection [get]
func (h *LedgerHandler) GetProjection(c *fiber.Ctx) error {
	out, err := h.uc.GetProjection(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListTransactions godoc
// @Summary      Historial de transacciones de un producto
// @Description  Secuencia completa en orden de replay. Disponible también para productos dados de baja.
// @Tags         ledger
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/transactions [get]
func (h *LedgerHandler) ListTransactions(c *fiber.Ctx) error {
	list, err := h.uc.ListTransactions(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":        len(list),
		"transactions": list,
	})
}

// GetConsumptionWindow godoc
// @Summary      Consumo promedio en ventana de reporte
// @Description  Calcula el promedio sobre 3, 4 o 12 meses directamente desde el ledger.
// @Tags         ledger
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        months  query  int     false  "Ventana en meses: 3, 4 o 12 (default 12)"
// @Success      200  {object}  dto.ConsumptionWindowDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/consumption-window [get]
func (h *LedgerHandler) GetConsumptionWindow(c *fiber.Ctx) error {
	months, err := strconv.Atoi(c.Query("months", "12"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "months debe ser numérico"})
	}
	out, err := h.uc.ConsumptionWindow(c.Context(), c.Params("id"), months)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecalculateAll godoc
// @Summary      Recalcular todas las proyecciones
// @Description  Re-deriva la proyección cacheada de cada producto con transacciones. Herramienta administrativa.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]int
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/admin/recalculate [post]
func (h *LedgerHandler) RecalculateAll(c *fiber.Ctx) error {
	parallelism, _ := strconv.Atoi(c.Query("parallelism", "8"))
	n, err := h.uc.RecalculateAll(c.Context(), parallelism)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"products": n})
}
