package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
)

// respondError traduce los errores de dominio a respuestas HTTP. Los handlers
// solo mapean; la semántica de cada error vive en el dominio.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrProductDeleted):
		return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{Code: "PRODUCT_DELETED", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrCommitFailed):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "COMMIT_FAILED", Message: err.Error()})
	case errors.Is(err, domain.ErrInconsistentLedger):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INCONSISTENT_LEDGER", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// actor extrae la identidad del llamador de los headers. La autenticación vive
// en el gateway; aquí solo se propaga para auditoría.
func actor(c *fiber.Ctx) (id, role string) {
	return c.Get("X-Actor-Id"), c.Get("X-Actor-Role")
}
