package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// ImportHandler maneja las cargas masivas: un POST por tipo de lote.
type ImportHandler struct {
	uc *inventory.ImportUseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(uc *inventory.ImportUseCase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

// ImportBatch godoc
// @Summary      Importar un lote de filas
// @Description  Confirma el lote como una operación atómica y reversible. Filas inválidas
//
//	se reportan en errors; duplicados en skipped. Solo un fallo del store
//	revierte el lote completo.
//
// @Tags         imports
// @Accept       json
// @Produce      json
// @Param        type  path  string                  true  "Tipo de lote: consumption-upload | purchase-upload | correction-upload"
// @Param        body  body  dto.ImportBatchRequest  true  "file_name y filas crudas del lote"
// @Success      200   {object}  dto.ImportResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/imports/{type} [post]
func (h *ImportHandler) ImportBatch(c *fiber.Ctx) error {
	operationType := c.Params("type")
	if !entity.IsValidOperationType(operationType) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de lote desconocido: " + operationType})
	}
	var in dto.ImportBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Rows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el lote no tiene filas"})
	}

	rows := toImportRows(operationType, in.Rows)
	actorID, actorRole := actor(c)
	result, err := h.uc.ImportBatch(c.Context(), operationType, rows, nil, inventory.ImportMeta{
		FileName:  in.FileName,
		ActorID:   actorID,
		ActorRole: actorRole,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// toImportRows convierte las filas del body en la variante tipada del lote.
func toImportRows(operationType string, in []dto.ImportRowRequest) []inventory.ImportRow {
	rows := make([]inventory.ImportRow, 0, len(in))
	for _, r := range in {
		switch operationType {
		case entity.OperationConsumptionUpload:
			rows = append(rows, inventory.ConsumptionRow{
				ArtisCode: r.ArtisCode,
				Quantity:  r.Quantity,
				Date:      r.Date,
				Notes:     r.Notes,
			})
		case entity.OperationPurchaseUpload:
			rows = append(rows, inventory.PurchaseRow{
				ArtisCode: r.ArtisCode,
				Date:      r.Date,
				Quantity:  r.Quantity,
				Notes:     r.Notes,
			})
		case entity.OperationCorrectionUpload:
			rows = append(rows, inventory.CorrectionRow{
				ArtisCode:      r.ArtisCode,
				Date:           r.Date,
				SignedQuantity: r.Quantity,
				Reason:         r.Reason,
			})
		}
	}
	return rows
}
