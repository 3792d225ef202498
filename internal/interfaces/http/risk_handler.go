package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/analytics"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
)

// RiskHandler maneja las consultas de riesgo de quiebre de stock.
type RiskHandler struct {
	uc *analytics.RiskUseCase
}

// NewRiskHandler construye el handler.
func NewRiskHandler(uc *analytics.RiskUseCase) *RiskHandler {
	return &RiskHandler{uc: uc}
}

// List godoc
// @Summary      Riesgo de todos los productos activos
// @Description  Clasifica cada producto (STOCKOUT, CRITICAL, LOW, MEDIUM, SAFE) desde su
//
//	proyección cacheada, los más graves primero.
//
// @Tags         analytics
// @Produce      json
// @Param        limit   query  int  false  "Máximo de productos"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/risks [get]
func (h *RiskHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	if page.Limit <= 0 {
		page.Limit = 500
	}
	list, err := h.uc.ListRisks(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"risks": list,
	})
}

// GetByProduct godoc
// @Summary      Riesgo de un producto
// @Tags         analytics
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.RiskDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/risk [get]
func (h *RiskHandler) GetByProduct(c *fiber.Ctx) error {
	out, err := h.uc.GetRisk(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
