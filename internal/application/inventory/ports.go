package inventory

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza el todo-o-nada de cada lote: si fn
// devuelve error se hace Rollback y no queda ninguna transacción visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
		opRepo repository.OperationRepository,
		auditRepo repository.AuditRepository,
	) error) error
}
