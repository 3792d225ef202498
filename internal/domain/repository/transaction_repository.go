package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// TransactionRepository define el puerto del Ledger Store: almacenamiento
// append-only de transacciones por producto. No hay Update: una transacción
// solo desaparece completa, por rollback de operación o por clearAll.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error

	// CreateBatch persiste varias transacciones en inserts multi-fila por
	// tramos acotados. La atomicidad la da la transacción SQL del caller.
	CreateBatch(ctx context.Context, txs []*entity.Transaction) error

	// ListByProduct devuelve la secuencia completa del producto en orden
	// estable y reproducible (date, created_at, id): reproyectar sobre la
	// misma secuencia produce siempre el mismo resultado.
	ListByProduct(ctx context.Context, productID string) ([]*entity.Transaction, error)

	ListByOperation(ctx context.Context, operationID string) ([]*entity.Transaction, error)

	// DeleteByOperation elimina todas las transacciones del lote y devuelve
	// cuántas borró. El caller debe re-proyectar los productos afectados.
	DeleteByOperation(ctx context.Context, operationID string) (int64, error)

	// DeleteAll vacía el ledger (reset administrativo entre migraciones).
	DeleteAll(ctx context.Context) (int64, error)

	// DistinctProductIDs devuelve los productos con transacciones del lote.
	DistinctProductIDs(ctx context.Context, operationID string) ([]string, error)

	// AllProductIDs devuelve todos los productos que tienen transacciones.
	AllProductIDs(ctx context.Context) ([]string, error)
}
