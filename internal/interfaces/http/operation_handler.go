package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
)

// OperationHandler maneja el registro de operaciones masivas y su reversión.
type OperationHandler struct {
	uc *inventory.OperationsUseCase
}

// NewOperationHandler construye el handler.
func NewOperationHandler(uc *inventory.OperationsUseCase) *OperationHandler {
	return &OperationHandler{uc: uc}
}

// List godoc
// @Summary      Listar operaciones
// @Tags         operations
// @Produce      json
// @Param        limit  query  int  false  "Máximo de operaciones (default 50)"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/operations [get]
func (h *OperationHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	list, err := h.uc.List(c.Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":      len(list),
		"operations": list,
	})
}

// GetByID godoc
// @Summary      Detalle de una operación
// @Tags         operations
// @Produce      json
// @Param        id  path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [get]
func (h *OperationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Revertir una operación
// @Description  Borra todas las transacciones del lote y re-proyecta los productos afectados.
//
//	El stock vuelve exactamente a su valor previo a la importación.
//
// @Tags         operations
// @Produce      json
// @Param        id  path  string  true  "ID de la operación"
// @Success      200  {object}  inventory.DeleteResult
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [delete]
func (h *OperationHandler) Delete(c *fiber.Ctx) error {
	actorID, actorRole := actor(c)
	res, err := h.uc.Delete(c.Context(), c.Params("id"), actorID, actorRole)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// ClearAll godoc
// @Summary      Reversión administrativa total
// @Description  Vacía el ledger completo y deja todas las proyecciones en cero. Requiere motivo.
// @Tags         operations
// @Produce      json
// @Param        reason  query  string  true  "Motivo del reset"
// @Success      200  {object}  inventory.DeleteResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/operations [delete]
func (h *OperationHandler) ClearAll(c *fiber.Ctx) error {
	reason := c.Query("reason")
	if reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "falta el motivo del reset"})
	}
	actorID, actorRole := actor(c)
	res, err := h.uc.ClearAll(c.Context(), actorID, actorRole, reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
