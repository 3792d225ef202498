package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/analytics"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
)

// ForecastHandler maneja pronósticos de consumo y su exactitud.
type ForecastHandler struct {
	uc *analytics.ForecastUseCase
}

// NewForecastHandler construye el handler.
func NewForecastHandler(uc *analytics.ForecastUseCase) *ForecastHandler {
	return &ForecastHandler{uc: uc}
}

// Upsert godoc
// @Summary      Crear o reemplazar un pronóstico
// @Tags         forecasts
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del producto"
// @Param        body  body  dto.UpsertForecastRequest  true  "forecast_month (YYYY-MM) y consumo previsto"
// @Success      200   {object}  dto.ForecastDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/forecasts [post]
func (h *ForecastHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertForecastRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Upsert(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecordActual godoc
// @Summary      Registrar el consumo real de un mes pronosticado
// @Description  Calcula el MAPE del pronóstico. Un consumo real en cero deja el MAPE indefinido.
// @Tags         forecasts
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del producto"
// @Param        body  body  dto.RecordActualRequest  true  "forecast_month y consumo real"
// @Success      200   {object}  dto.ForecastDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/forecasts/actual [put]
func (h *ForecastHandler) RecordActual(c *fiber.Ctx) error {
	var in dto.RecordActualRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RecordActual(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Pronósticos de un producto
// @Tags         forecasts
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/forecasts [get]
func (h *ForecastHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListByProduct(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":     len(list),
		"forecasts": list,
	})
}

// Accuracy godoc
// @Summary      Exactitud agregada de los pronósticos
// @Description  Media, mínimo y máximo de MAPE sobre los meses realizados; los pendientes no cuentan.
// @Tags         forecasts
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ForecastAccuracyDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/forecast-accuracy [get]
func (h *ForecastHandler) Accuracy(c *fiber.Ctx) error {
	out, err := h.uc.Accuracy(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
