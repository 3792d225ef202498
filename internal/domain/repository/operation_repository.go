package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// OperationRepository define el puerto del registro de operaciones masivas.
type OperationRepository interface {
	Create(ctx context.Context, op *entity.Operation) error
	GetByID(ctx context.Context, id string) (*entity.Operation, error)

	// List devuelve las operaciones más recientes primero.
	List(ctx context.Context, limit int) ([]*entity.Operation, error)

	// UpdateSummary cierra el resumen del lote (contadores y estado terminal).
	UpdateSummary(ctx context.Context, id string, processed, skipped, failed int, status string) error

	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}
