package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
)

// ProductHandler maneja el borde del catálogo que expone el ledger.
type ProductHandler struct {
	uc *inventory.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *inventory.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// softDeleteRequest body para la baja lógica.
type softDeleteRequest struct {
	Reason string `json:"reason"`
}

// SoftDelete godoc
// @Summary      Baja lógica de un producto
// @Description  El producto sale de proyecciones y riesgo; su historial sigue consultable.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del producto"
// @Param        body  body  softDeleteRequest  true  "Motivo de la baja"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) SoftDelete(c *fiber.Ctx) error {
	var in softDeleteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	actorID, actorRole := actor(c)
	if err := h.uc.SoftDelete(c.Context(), c.Params("id"), in.Reason, actorID, actorRole); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "producto dado de baja"})
}
